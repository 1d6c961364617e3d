package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMergeNeverDeletesKeys(t *testing.T) {
	existing := ExtraFields{CPF: "111", Porte: "ME"}
	incoming := ExtraFields{CPF: "222"}

	merged := existing.Merge(incoming)

	assert.Equal(t, "222", merged.CPF)
	assert.Equal(t, "ME", merged.Porte)
}

func TestMergeAddsIncomingOnlyKeys(t *testing.T) {
	existing := ExtraFields{Porte: "ME"}
	incoming := ExtraFields{Departamento: "Fiscal", Extra: map[string]string{"filial": "002"}}

	merged := existing.Merge(incoming)

	assert.Equal(t, "ME", merged.Porte)
	assert.Equal(t, "Fiscal", merged.Departamento)
	assert.Equal(t, "002", merged.Extra["filial"])
}

func TestMarshalOmitsEmptyValues(t *testing.T) {
	fields := ExtraFields{CPF: "12345678901", Observacoes: "cliente antigo"}

	data, err := json.Marshal(fields)
	require.NoError(t, err)

	var raw map[string]string
	require.NoError(t, json.Unmarshal(data, &raw))

	assert.Equal(t, map[string]string{
		"cpf": "12345678901",
		"obs": "cliente antigo",
	}, raw)
}

func TestUnmarshalRoutesUnknownKeysIntoExtra(t *testing.T) {
	payload := []byte(`{"cpf":"111","porte":"EPP","contador":"Maria"}`)

	var fields ExtraFields
	require.NoError(t, json.Unmarshal(payload, &fields))

	assert.Equal(t, "111", fields.CPF)
	assert.Equal(t, "EPP", fields.Porte)
	assert.Equal(t, "Maria", fields.Extra["contador"])
}

func TestExtraFieldsRoundTrip(t *testing.T) {
	fields := ExtraFields{
		CPF:              "111",
		InicioAtividade:  "2020-01-15",
		InicioEscritorio: "2021-03-01",
		ProcPJEcac:       "Sim",
		Extra:            map[string]string{"contador": "Maria"},
	}

	data, err := json.Marshal(fields)
	require.NoError(t, err)

	restored, err := ExtraFieldsFromJSONB(data)
	require.NoError(t, err)

	assert.Equal(t, fields, restored)
}

func TestExtraFieldsFromJSONBEmpty(t *testing.T) {
	fields, err := ExtraFieldsFromJSONB(nil)
	require.NoError(t, err)
	assert.True(t, fields.IsZero())
}

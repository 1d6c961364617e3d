package domain

import "encoding/json"

// ExtraFields is the open bag of optional secondary attributes attached to a
// client beyond its core identity fields. Known columns get typed fields;
// anything else ends up in Extra. Blank values are never stored: a field that
// was blank in the spreadsheet simply has no key in the persisted bag.
type ExtraFields struct {
	CPF               string
	CodSimples        string
	InscricaoEstadual string
	InicioAtividade   string
	InicioEscritorio  string
	Porte             string
	Departamento      string
	ProcPJEcac        string
	ProcPFEcac        string
	DataSituacao      string
	Observacoes       string

	// Extra holds values from columns the importer recognizes as extra data
	// but has no dedicated field for.
	Extra map[string]string
}

// Merge applies spread precedence: every key present in incoming overwrites
// the same key here, keys only present here survive untouched. Because blank
// values never become keys, a blanked-out cell in a re-import cannot erase a
// previously stored value.
func (e ExtraFields) Merge(incoming ExtraFields) ExtraFields {
	merged := e.asMap()
	for key, value := range incoming.asMap() {
		merged[key] = value
	}
	return extraFieldsFromMap(merged)
}

// IsZero reports whether the bag carries no values at all.
func (e ExtraFields) IsZero() bool {
	return len(e.asMap()) == 0
}

// MarshalJSON emits only the keys that carry a value, matching the persisted
// JSONB shape.
func (e ExtraFields) MarshalJSON() ([]byte, error) {
	return json.Marshal(e.asMap())
}

// UnmarshalJSON restores the bag from its JSONB shape, routing unknown keys
// into Extra.
func (e *ExtraFields) UnmarshalJSON(data []byte) error {
	var values map[string]string
	if err := json.Unmarshal(data, &values); err != nil {
		return err
	}
	*e = extraFieldsFromMap(values)
	return nil
}

// ExtraFieldsFromJSONB decodes the persisted JSONB column.
func ExtraFieldsFromJSONB(data json.RawMessage) (ExtraFields, error) {
	if len(data) == 0 {
		return ExtraFields{}, nil
	}
	var fields ExtraFields
	err := json.Unmarshal(data, &fields)
	return fields, err
}

func (e ExtraFields) asMap() map[string]string {
	values := make(map[string]string)
	set := func(key, value string) {
		if value != "" {
			values[key] = value
		}
	}
	set("cpf", e.CPF)
	set("codSimples", e.CodSimples)
	set("inscricaoEstadual", e.InscricaoEstadual)
	set("inicioAtividade", e.InicioAtividade)
	set("inicioEscritorio", e.InicioEscritorio)
	set("porte", e.Porte)
	set("departamento", e.Departamento)
	set("procPJEcac", e.ProcPJEcac)
	set("procPFEcac", e.ProcPFEcac)
	set("dataSituacao", e.DataSituacao)
	set("obs", e.Observacoes)
	for key, value := range e.Extra {
		set(key, value)
	}
	return values
}

func extraFieldsFromMap(values map[string]string) ExtraFields {
	var fields ExtraFields
	for key, value := range values {
		if value == "" {
			continue
		}
		switch key {
		case "cpf":
			fields.CPF = value
		case "codSimples":
			fields.CodSimples = value
		case "inscricaoEstadual":
			fields.InscricaoEstadual = value
		case "inicioAtividade":
			fields.InicioAtividade = value
		case "inicioEscritorio":
			fields.InicioEscritorio = value
		case "porte":
			fields.Porte = value
		case "departamento":
			fields.Departamento = value
		case "procPJEcac":
			fields.ProcPJEcac = value
		case "procPFEcac":
			fields.ProcPFEcac = value
		case "dataSituacao":
			fields.DataSituacao = value
		case "obs":
			fields.Observacoes = value
		default:
			if fields.Extra == nil {
				fields.Extra = make(map[string]string)
			}
			fields.Extra[key] = value
		}
	}
	return fields
}

package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// RegimeTributario is the controlled vocabulary for a client's tax regime.
type RegimeTributario string

const (
	RegimeSimplesNacional RegimeTributario = "SIMPLES_NACIONAL"
	RegimeLucroPresumido  RegimeTributario = "LUCRO_PRESUMIDO"
	RegimeLucroReal       RegimeTributario = "LUCRO_REAL"
	RegimeMEI             RegimeTributario = "MEI"
)

// Situacao is the controlled vocabulary for a client's registration status.
type Situacao string

const (
	SituacaoAtiva   Situacao = "ATIVA"
	SituacaoInativa Situacao = "INATIVA"
)

// regimeKeywords is evaluated top to bottom; the first keyword found in the
// free-text description wins, so SIMPLES takes precedence over REAL when both
// appear in the same cell.
var regimeKeywords = []struct {
	keyword string
	regime  RegimeTributario
}{
	{"SIMPLES", RegimeSimplesNacional},
	{"NORMAL", RegimeLucroPresumido},
	{"PRESUMIDO", RegimeLucroPresumido},
	{"REAL", RegimeLucroReal},
	{"MEI", RegimeMEI},
}

// situacaoKeywords checks INATIVA/INATIVO before ATIVA/ATIVO because the
// active keywords are substrings of the inactive ones.
var situacaoKeywords = []struct {
	keyword  string
	situacao Situacao
}{
	{"INATIVA", SituacaoInativa},
	{"INATIVO", SituacaoInativa},
	{"ATIVA", SituacaoAtiva},
	{"ATIVO", SituacaoAtiva},
}

// MapRegimeTributario maps a free-text regime description to the enum.
// Unrecognized or empty descriptions default to Simples Nacional.
func MapRegimeTributario(raw string) RegimeTributario {
	upper := strings.ToUpper(strings.TrimSpace(raw))
	for _, entry := range regimeKeywords {
		if strings.Contains(upper, entry.keyword) {
			return entry.regime
		}
	}
	return RegimeSimplesNacional
}

// MapSituacao maps a free-text status description to the enum.
// Unrecognized or empty descriptions default to active.
func MapSituacao(raw string) Situacao {
	upper := strings.ToUpper(strings.TrimSpace(raw))
	for _, entry := range situacaoKeywords {
		if strings.Contains(upper, entry.keyword) {
			return entry.situacao
		}
	}
	return SituacaoAtiva
}

// Address placeholders for fields the import spreadsheet does not carry.
const (
	DefaultEndereco = "A definir"
	DefaultNumero   = "N/A"
	DefaultBairro   = "Centro"
	DefaultCEP      = "00000000"
)

// Client is a company handled by the accounting office, keyed by its CNPJ.
type Client struct {
	ID               uuid.UUID        `json:"id"`
	RazaoSocial      string           `json:"razao_social"`
	CNPJ             string           `json:"cnpj"`
	UF               string           `json:"uf"`
	Municipio        string           `json:"municipio"`
	RegimeTributario RegimeTributario `json:"regime_tributario"`
	Situacao         Situacao         `json:"situacao"`
	Endereco         string           `json:"endereco"`
	Numero           string           `json:"numero"`
	Bairro           string           `json:"bairro"`
	CEP              string           `json:"cep"`
	VencimentoAnual  time.Time        `json:"vencimento_anual"`
	UserID           uuid.UUID        `json:"user_id"`
	ExtraFields      ExtraFields      `json:"extra_fields"`
	CreatedAt        time.Time        `json:"created_at"`
	UpdatedAt        time.Time        `json:"updated_at"`
}

// NewClient creates a client with the import defaults applied: placeholder
// address fields and an annual due date of Dec 31 of the current year.
func NewClient(razaoSocial, cnpj, uf, municipio string, regime RegimeTributario, situacao Situacao, userID uuid.UUID) Client {
	now := time.Now()
	return Client{
		ID:               uuid.New(),
		RazaoSocial:      razaoSocial,
		CNPJ:             cnpj,
		UF:               uf,
		Municipio:        municipio,
		RegimeTributario: regime,
		Situacao:         situacao,
		Endereco:         DefaultEndereco,
		Numero:           DefaultNumero,
		Bairro:           DefaultBairro,
		CEP:              DefaultCEP,
		VencimentoAnual:  time.Date(now.Year(), time.December, 31, 0, 0, 0, 0, time.UTC),
		UserID:           userID,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
}

// MergeFrom combines an incoming import row into the stored client. Identity
// fields are overwritten only when the incoming value is non-empty, so a
// sparse re-import never blanks a previously stored field. Extra fields
// follow spread precedence: incoming keys win, stored-only keys survive.
func (c Client) MergeFrom(incoming Client) Client {
	merged := c
	merged.RazaoSocial = pickNonEmpty(incoming.RazaoSocial, c.RazaoSocial)
	merged.UF = pickNonEmpty(incoming.UF, c.UF)
	merged.Municipio = pickNonEmpty(incoming.Municipio, c.Municipio)
	if incoming.RegimeTributario != "" {
		merged.RegimeTributario = incoming.RegimeTributario
	}
	if incoming.Situacao != "" {
		merged.Situacao = incoming.Situacao
	}
	merged.ExtraFields = c.ExtraFields.Merge(incoming.ExtraFields)
	merged.UpdatedAt = time.Now()
	return merged
}

func pickNonEmpty(incoming, existing string) string {
	if strings.TrimSpace(incoming) != "" {
		return incoming
	}
	return existing
}

package importer

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/contaflow/backoffice/internal/domain"
	"github.com/contaflow/backoffice/pkg/cnpj"
)

// Spreadsheet column headers, exactly as they appear in the template files
// the office hands out. Anything else in the file is ignored.
const (
	colRazaoSocial       = "Razão Social"
	colCNPJ              = "Cnpj"
	colUF                = "Uf"
	colMunicipio         = "Município"
	colRegimeTributario  = "Regime Tributario"
	colSituacao          = "Situação"
	colCPF               = "Cpf"
	colCodSimples        = "Cod. Simples"
	colInscricaoEstadual = "Inscr. Estadual"
	colInicioAtividade   = "Inicio Atividade"
	colInicioEscritorio  = "Inicio Escritorio"
	colPorte             = "Porte"
	colDepartamento      = "Departamento"
	colProcPJEcac        = "Porc PJ ecac"
	colProcPFEcac        = "Proc PF ecac"
	colDataSituacao      = "Data Situaçao"
	colObs               = "Obs"
)

// Business defaults applied when location columns are absent from the row.
const (
	defaultUF        = "SP"
	defaultMunicipio = "São Paulo"
)

var (
	errRazaoSocialObrigatoria = errors.New("Razão Social é obrigatória")
	errCNPJObrigatorio        = errors.New("CNPJ é obrigatório")
	errCNPJInvalido           = fmt.Errorf("CNPJ inválido: deve conter %d dígitos", cnpj.Length)
)

// mapRow turns one raw spreadsheet row into a candidate client record with
// its extra-fields bag populated. Missing required fields or a structurally
// invalid CNPJ are row errors; everything else degrades to defaults or
// absent optional values.
func (s *Service) mapRow(raw RawRow, userID uuid.UUID) (domain.Client, error) {
	razaoSocial := strings.TrimSpace(raw[colRazaoSocial])
	if razaoSocial == "" {
		return domain.Client{}, errRazaoSocialObrigatoria
	}

	if strings.TrimSpace(raw[colCNPJ]) == "" {
		return domain.Client{}, errCNPJObrigatorio
	}
	cleaned := cnpj.Clean(raw[colCNPJ])
	if !cnpj.IsValid(cleaned) {
		return domain.Client{}, errCNPJInvalido
	}

	uf := strings.TrimSpace(raw[colUF])
	if uf == "" {
		uf = defaultUF
	}
	municipio := strings.TrimSpace(raw[colMunicipio])
	if municipio == "" {
		municipio = defaultMunicipio
	}

	client := domain.NewClient(
		razaoSocial,
		cleaned,
		uf,
		municipio,
		domain.MapRegimeTributario(raw[colRegimeTributario]),
		domain.MapSituacao(raw[colSituacao]),
		userID,
	)

	extra := domain.ExtraFields{}
	setString := func(dst *string, column string) {
		if value := strings.TrimSpace(raw[column]); value != "" {
			*dst = value
		}
	}
	setDate := func(dst *string, column string) {
		value := strings.TrimSpace(raw[column])
		if value == "" {
			return
		}
		iso, ok := parseDateBR(value)
		if !ok {
			s.log.WithFields(logrus.Fields{
				"cnpj":   cleaned,
				"column": column,
				"value":  value,
			}).Warn("ignoring unparseable date")
			return
		}
		*dst = iso
	}

	setString(&extra.CPF, colCPF)
	setString(&extra.CodSimples, colCodSimples)
	setString(&extra.InscricaoEstadual, colInscricaoEstadual)
	setDate(&extra.InicioAtividade, colInicioAtividade)
	setDate(&extra.InicioEscritorio, colInicioEscritorio)
	setString(&extra.Porte, colPorte)
	setString(&extra.Departamento, colDepartamento)
	setString(&extra.ProcPJEcac, colProcPJEcac)
	setString(&extra.ProcPFEcac, colProcPFEcac)
	setDate(&extra.DataSituacao, colDataSituacao)
	setString(&extra.Observacoes, colObs)
	client.ExtraFields = extra

	return client, nil
}

// parseDateBR accepts dd/mm/yyyy dates and emits the ISO yyyy-mm-dd form.
// Anything else yields no value; the optional field is simply left absent.
func parseDateBR(raw string) (string, bool) {
	parts := strings.Split(strings.TrimSpace(raw), "/")
	if len(parts) != 3 {
		return "", false
	}

	day, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return "", false
	}
	month, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return "", false
	}
	year, err := strconv.Atoi(strings.TrimSpace(parts[2]))
	if err != nil {
		return "", false
	}

	date := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	return date.Format("2006-01-02"), true
}

// salvage pulls whatever identifying information can be read off a raw row,
// for error reporting when mapping or persistence fails.
func salvage(raw RawRow) (cleanedCNPJ, razaoSocial string) {
	return cnpj.Clean(raw[colCNPJ]), strings.TrimSpace(raw[colRazaoSocial])
}

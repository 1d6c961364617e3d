package importer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/contaflow/backoffice/internal/domain"
	"github.com/contaflow/backoffice/internal/repository"
)

const csvHeader = "Razão Social,Cnpj,Uf,Município,Regime Tributario,Situação,Cpf,Porte"

func importCSV(t *testing.T, service *Service, userID uuid.UUID, rows ...string) domain.ImportResult {
	t.Helper()

	data := csvHeader + "\n" + strings.Join(rows, "\n") + "\n"
	result, err := service.Import(context.Background(), Request{
		UserID:   userID,
		FileName: "clientes.csv",
		Data:     strings.NewReader(data),
	})
	require.NoError(t, err)
	return result
}

func TestImportCreatesNewClients(t *testing.T) {
	service, clientRepo, logRepo := newTestService()
	userID := uuid.New()

	result := importCSV(t, service, userID,
		`Empresa Alfa LTDA,12.345.678/0001-95,SP,Campinas,Simples Nacional,Ativa,,ME`,
		`Empresa Beta LTDA,98765432000110,RJ,Niterói,Lucro Real,Ativa,11122233344,`,
	)

	assert.Equal(t, 2, result.TotalProcessed)
	assert.Equal(t, 2, result.Created)
	assert.Equal(t, 0, result.Updated)
	assert.Equal(t, 0, result.Errors)
	require.Len(t, result.SuccessDetails, 2)

	assert.Equal(t, 2, result.SuccessDetails[0].Line)
	assert.Equal(t, "12345678000195", result.SuccessDetails[0].CNPJ)
	assert.Equal(t, domain.ActionCreated, result.SuccessDetails[0].Action)
	assert.Equal(t, 3, result.SuccessDetails[1].Line)

	alfa := clientRepo.byCNPJ["12345678000195"]
	assert.Equal(t, "Empresa Alfa LTDA", alfa.RazaoSocial)
	assert.Equal(t, "ME", alfa.ExtraFields.Porte)
	assert.Equal(t, userID, alfa.UserID)

	beta := clientRepo.byCNPJ["98765432000110"]
	assert.Equal(t, "11122233344", beta.ExtraFields.CPF)
	assert.Empty(t, logRepo.entries)
}

func TestImportPartialFailureIsolation(t *testing.T) {
	service, _, logRepo := newTestService()
	userID := uuid.New()

	result := importCSV(t, service, userID,
		`Empresa Alfa LTDA,12345678000195,,,,,,`,
		`Empresa Beta LTDA,98765432000110,,,,,,`,
		`,55443322000100,,,,,,`,
	)

	assert.Equal(t, 3, result.TotalProcessed)
	assert.Equal(t, 2, result.Created)
	assert.Equal(t, 1, result.Errors)
	require.Len(t, result.ErrorDetails, 1)

	detail := result.ErrorDetails[0]
	assert.Equal(t, 4, detail.Line)
	assert.Equal(t, "55443322000100", detail.CNPJ)
	assert.Equal(t, errRazaoSocialObrigatoria.Error(), detail.Error)

	require.Len(t, logRepo.entries, 1)
	assert.Equal(t, 4, logRepo.entries[0].Line)
	assert.Equal(t, "55443322000100", logRepo.entries[0].CNPJ)
	assert.Equal(t, userID, logRepo.entries[0].UserID)
}

func TestImportCreateThenUpdateRouting(t *testing.T) {
	service, clientRepo, _ := newTestService()
	userID := uuid.New()

	row := `Empresa Alfa LTDA,12345678000195,SP,Campinas,Simples Nacional,Ativa,,ME`

	first := importCSV(t, service, userID, row)
	assert.Equal(t, 1, first.Created)
	assert.Equal(t, 0, first.Updated)
	assert.Equal(t, domain.ActionCreated, first.SuccessDetails[0].Action)

	second := importCSV(t, service, userID, row)
	assert.Equal(t, 0, second.Created)
	assert.Equal(t, 1, second.Updated)
	assert.Equal(t, domain.ActionUpdated, second.SuccessDetails[0].Action)

	assert.Equal(t, 1, clientRepo.creates)
	assert.Equal(t, 1, clientRepo.updates)
}

func TestImportMergePreservesStoredExtraFields(t *testing.T) {
	service, clientRepo, _ := newTestService()
	userID := uuid.New()

	existing := domain.NewClient("Empresa Alfa LTDA", "12345678000195", "RJ", "Niterói", domain.RegimeLucroReal, domain.SituacaoAtiva, userID)
	existing.ExtraFields = domain.ExtraFields{CPF: "111", Porte: "ME"}
	clientRepo.byCNPJ[existing.CNPJ] = existing

	result := importCSV(t, service, userID,
		`Empresa Alfa LTDA,12345678000195,,,,,222,`,
	)
	assert.Equal(t, 1, result.Updated)

	merged := clientRepo.byCNPJ["12345678000195"]
	assert.Equal(t, "222", merged.ExtraFields.CPF)
	assert.Equal(t, "ME", merged.ExtraFields.Porte)
	assert.Equal(t, existing.ID, merged.ID)
}

func TestImportDuplicateRowsInOneFile(t *testing.T) {
	service, clientRepo, _ := newTestService()

	result := importCSV(t, service, uuid.New(),
		`Empresa Alfa LTDA,12345678000195,,,,,,`,
		`Empresa Alfa LTDA,12345678000195,,,,,,`,
	)

	// Rows are processed strictly sequentially, so the second occurrence of
	// the same CNPJ takes the merge path.
	assert.Equal(t, 1, result.Created)
	assert.Equal(t, 1, result.Updated)
	assert.Equal(t, 1, clientRepo.creates)
	assert.Equal(t, 1, clientRepo.updates)
}

func TestImportPersistenceErrorIsRowLevel(t *testing.T) {
	service, clientRepo, logRepo := newTestService()
	clientRepo.createErr["12345678000195"] = errors.New("duplicate key value violates unique constraint")

	result := importCSV(t, service, uuid.New(),
		`Empresa Alfa LTDA,12345678000195,,,,,,`,
		`Empresa Beta LTDA,98765432000110,,,,,,`,
	)

	assert.Equal(t, 2, result.TotalProcessed)
	assert.Equal(t, 1, result.Created)
	assert.Equal(t, 1, result.Errors)
	require.Len(t, result.ErrorDetails, 1)
	assert.Equal(t, 2, result.ErrorDetails[0].Line)
	assert.Contains(t, result.ErrorDetails[0].Error, "unique constraint")
	require.Len(t, logRepo.entries, 1)
}

func TestImportParseFailureIsBatchFatal(t *testing.T) {
	service, _, _ := newTestService()

	_, err := service.Import(context.Background(), Request{
		UserID:   uuid.New(),
		FileName: "clientes.pdf",
		Data:     strings.NewReader("not a spreadsheet"),
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestImportRequiresUserAndData(t *testing.T) {
	service, _, _ := newTestService()

	_, err := service.Import(context.Background(), Request{FileName: "clientes.csv", Data: strings.NewReader("x")})
	assert.Error(t, err)

	_, err = service.Import(context.Background(), Request{UserID: uuid.New(), FileName: "clientes.csv"})
	assert.Error(t, err)

	_, err = service.Import(context.Background(), Request{UserID: uuid.New(), FileName: "clientes.csv", Data: strings.NewReader("")})
	assert.Error(t, err)
}

func newTestService() (*Service, *stubClientRepo, *stubLogRepo) {
	clientRepo := &stubClientRepo{
		byCNPJ:    map[string]domain.Client{},
		createErr: map[string]error{},
	}
	logRepo := &stubLogRepo{}

	log := logrus.New()
	log.SetOutput(io.Discard)

	return NewService(clientRepo, logRepo, log), clientRepo, logRepo
}

type stubClientRepo struct {
	byCNPJ    map[string]domain.Client
	createErr map[string]error
	creates   int
	updates   int
}

func (s *stubClientRepo) Create(ctx context.Context, client domain.Client) (domain.Client, error) {
	if err := s.createErr[client.CNPJ]; err != nil {
		return domain.Client{}, err
	}
	if _, exists := s.byCNPJ[client.CNPJ]; exists {
		return domain.Client{}, fmt.Errorf("duplicate cnpj %s", client.CNPJ)
	}
	s.byCNPJ[client.CNPJ] = client
	s.creates++
	return client, nil
}

func (s *stubClientRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Client, error) {
	for _, client := range s.byCNPJ {
		if client.ID == id {
			return client, nil
		}
	}
	return domain.Client{}, repository.ErrNotFound
}

func (s *stubClientRepo) FindByCNPJ(ctx context.Context, cnpj string) (domain.Client, error) {
	client, ok := s.byCNPJ[cnpj]
	if !ok {
		return domain.Client{}, repository.ErrNotFound
	}
	return client, nil
}

func (s *stubClientRepo) List(ctx context.Context, limit int, offset int) ([]domain.Client, int, error) {
	return nil, 0, errors.New("not implemented")
}

func (s *stubClientRepo) Update(ctx context.Context, client domain.Client) (domain.Client, error) {
	s.byCNPJ[client.CNPJ] = client
	s.updates++
	return client, nil
}

func (s *stubClientRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return errors.New("not implemented")
}

func (s *stubClientRepo) Count(ctx context.Context) (int64, error) {
	return int64(len(s.byCNPJ)), nil
}

type stubLogRepo struct {
	entries []domain.ImportLogEntry
}

func (s *stubLogRepo) Record(ctx context.Context, entry domain.ImportLogEntry) error {
	s.entries = append(s.entries, entry)
	return nil
}

func (s *stubLogRepo) List(ctx context.Context, userID uuid.UUID, limit int, offset int) ([]domain.ImportLogEntry, error) {
	return append([]domain.ImportLogEntry(nil), s.entries...), nil
}

var _ repository.ClientRepository = (*stubClientRepo)(nil)
var _ repository.ImportLogRepository = (*stubLogRepo)(nil)

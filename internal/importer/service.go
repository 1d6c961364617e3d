package importer

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/contaflow/backoffice/internal/domain"
	"github.com/contaflow/backoffice/internal/repository"
)

// Service ingests client spreadsheets, reconciling each row against the
// stored client base by CNPJ.
type Service struct {
	clients repository.ClientRepository
	logRepo repository.ImportLogRepository
	log     logrus.FieldLogger
}

// NewService creates a new import service.
func NewService(clients repository.ClientRepository, logRepo repository.ImportLogRepository, log logrus.FieldLogger) *Service {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Service{
		clients: clients,
		logRepo: logRepo,
		log:     log,
	}
}

// Request describes one import call.
type Request struct {
	UserID   uuid.UUID
	FileName string
	Data     io.Reader
}

// Import parses the uploaded file and processes every data row independently.
// A row failure never aborts the batch; only a failure to parse the file
// itself is returned as an error, in which case no result is produced.
//
// Rows are processed strictly sequentially. The per-row lookup-then-write
// pair is not wrapped in a transaction, so the sequential loop is the only
// thing keeping two rows with the same CNPJ from racing each other; the
// unique index on clients.cnpj turns a lost race into a row error.
func (s *Service) Import(ctx context.Context, req Request) (domain.ImportResult, error) {
	result := domain.ImportResult{
		ErrorDetails:   []domain.RowError{},
		SuccessDetails: []domain.RowSuccess{},
	}

	if req.UserID == uuid.Nil {
		return result, errors.New("user id is required")
	}
	if req.Data == nil {
		return result, errors.New("data reader is required")
	}

	payload, err := io.ReadAll(req.Data)
	if err != nil {
		return result, fmt.Errorf("failed to read upload: %w", err)
	}
	if len(payload) == 0 {
		return result, errors.New("file is empty")
	}

	table, err := parseTable(req.FileName, payload)
	if err != nil {
		return result, fmt.Errorf("failed to parse import file: %w", err)
	}

	for idx := range table.rows {
		// Humans count from 1 and the first file row is the header, so the
		// first data row is reported as line 2.
		line := idx + 2
		result.TotalProcessed++

		raw := table.rawRow(idx)

		client, err := s.mapRow(raw, req.UserID)
		if err != nil {
			s.recordRowError(ctx, req, &result, line, raw, err)
			continue
		}

		action, err := s.reconcile(ctx, client)
		if err != nil {
			s.recordRowError(ctx, req, &result, line, raw, err)
			continue
		}

		result.AddSuccess(line, client.CNPJ, client.RazaoSocial, action)
	}

	s.log.WithFields(logrus.Fields{
		"file":    req.FileName,
		"total":   result.TotalProcessed,
		"created": result.Created,
		"updated": result.Updated,
		"errors":  result.Errors,
	}).Info("client import finished")

	return result, nil
}

// reconcile decides create-vs-merge for one mapped row: exactly one lookup
// by CNPJ and one write.
func (s *Service) reconcile(ctx context.Context, incoming domain.Client) (domain.Action, error) {
	existing, err := s.clients.FindByCNPJ(ctx, incoming.CNPJ)
	if errors.Is(err, repository.ErrNotFound) {
		if _, createErr := s.clients.Create(ctx, incoming); createErr != nil {
			return "", createErr
		}
		return domain.ActionCreated, nil
	}
	if err != nil {
		return "", err
	}

	merged := existing.MergeFrom(incoming)
	if _, updateErr := s.clients.Update(ctx, merged); updateErr != nil {
		return "", updateErr
	}
	return domain.ActionUpdated, nil
}

func (s *Service) recordRowError(ctx context.Context, req Request, result *domain.ImportResult, line int, raw RawRow, err error) {
	cleanedCNPJ, razaoSocial := salvage(raw)
	result.AddError(line, cleanedCNPJ, razaoSocial, err)

	if s.logRepo != nil {
		journalErr := s.logRepo.Record(ctx, domain.ImportLogEntry{
			UserID:       req.UserID,
			FileName:     req.FileName,
			Line:         line,
			CNPJ:         cleanedCNPJ,
			ErrorMessage: err.Error(),
		})
		if journalErr != nil {
			s.log.WithError(journalErr).Warn("failed to record import log entry")
		}
	}
}

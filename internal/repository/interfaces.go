package repository

import (
	"context"
	"errors"

	"github.com/contaflow/backoffice/internal/domain"

	"github.com/google/uuid"
)

// ErrNotFound is returned when a lookup matches no row.
var ErrNotFound = errors.New("record not found")

// ClientRepository defines the persistence contract the importer relies on.
// CNPJ uniqueness is enforced by the storage layer, not re-validated here.
type ClientRepository interface {
	Create(ctx context.Context, client domain.Client) (domain.Client, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.Client, error)
	// FindByCNPJ looks a client up by its normalized 14-digit identifier and
	// returns ErrNotFound when no client carries it.
	FindByCNPJ(ctx context.Context, cnpj string) (domain.Client, error)
	List(ctx context.Context, limit int, offset int) ([]domain.Client, int, error)
	// Update persists changes addressed by the client's internal id.
	Update(ctx context.Context, client domain.Client) (domain.Client, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Count(ctx context.Context) (int64, error)
}

// ImportLogRepository stores row level import failures for observability.
type ImportLogRepository interface {
	Record(ctx context.Context, entry domain.ImportLogEntry) error
	List(ctx context.Context, userID uuid.UUID, limit int, offset int) ([]domain.ImportLogEntry, error)
}

package domain

import (
	"time"

	"github.com/google/uuid"
)

// ImportLogEntry captures row level failures that occur during a client
// import, so errored rows survive beyond the returned ImportResult.
type ImportLogEntry struct {
	ID           int64     `json:"id"`
	UserID       uuid.UUID `json:"user_id"`
	FileName     string    `json:"file_name"`
	Line         int       `json:"line"`
	CNPJ         string    `json:"cnpj,omitempty"`
	ErrorMessage string    `json:"error_message"`
	CreatedAt    time.Time `json:"created_at"`
}

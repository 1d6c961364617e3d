package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/contaflow/backoffice/internal/domain"
)

const clientColumns = `id, razao_social, cnpj, uf, municipio, regime_tributario, situacao,
	endereco, numero, bairro, cep, vencimento_anual, user_id, extra_fields, created_at, updated_at`

// clientRepository implements ClientRepository on top of pgxpool.
type clientRepository struct {
	pool *pgxpool.Pool
}

// NewClientRepository wires a repository backed by pgxpool.
func NewClientRepository(pool *pgxpool.Pool) ClientRepository {
	return &clientRepository{pool: pool}
}

// Create inserts a new client row.
func (r *clientRepository) Create(ctx context.Context, client domain.Client) (domain.Client, error) {
	extraJSON, err := json.Marshal(client.ExtraFields)
	if err != nil {
		return domain.Client{}, fmt.Errorf("failed to marshal extra fields: %w", err)
	}

	row := r.pool.QueryRow(
		ctx,
		`INSERT INTO clients (id, razao_social, cnpj, uf, municipio, regime_tributario, situacao,
			endereco, numero, bairro, cep, vencimento_anual, user_id, extra_fields)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		 RETURNING `+clientColumns,
		client.ID,
		client.RazaoSocial,
		client.CNPJ,
		client.UF,
		client.Municipio,
		client.RegimeTributario,
		client.Situacao,
		client.Endereco,
		client.Numero,
		client.Bairro,
		client.CEP,
		client.VencimentoAnual,
		client.UserID,
		extraJSON,
	)

	created, err := scanClient(row)
	if err != nil {
		return domain.Client{}, fmt.Errorf("failed to create client: %w", err)
	}
	return created, nil
}

// GetByID retrieves a client by its internal id.
func (r *clientRepository) GetByID(ctx context.Context, id uuid.UUID) (domain.Client, error) {
	row := r.pool.QueryRow(
		ctx,
		`SELECT `+clientColumns+` FROM clients WHERE id = $1`,
		id,
	)

	client, err := scanClient(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Client{}, ErrNotFound
		}
		return domain.Client{}, fmt.Errorf("failed to get client: %w", err)
	}
	return client, nil
}

// FindByCNPJ retrieves a client by its normalized tax identifier.
func (r *clientRepository) FindByCNPJ(ctx context.Context, cnpj string) (domain.Client, error) {
	row := r.pool.QueryRow(
		ctx,
		`SELECT `+clientColumns+` FROM clients WHERE cnpj = $1`,
		cnpj,
	)

	client, err := scanClient(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Client{}, ErrNotFound
		}
		return domain.Client{}, fmt.Errorf("failed to find client by cnpj: %w", err)
	}
	return client, nil
}

// List retrieves clients ordered by legal name, with the total count.
func (r *clientRepository) List(ctx context.Context, limit int, offset int) ([]domain.Client, int, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	rows, err := r.pool.Query(
		ctx,
		`SELECT `+clientColumns+`, COUNT(*) OVER() AS total_count
		 FROM clients
		 ORDER BY razao_social
		 LIMIT $1 OFFSET $2`,
		limit,
		offset,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list clients: %w", err)
	}
	defer rows.Close()

	clients := []domain.Client{}
	totalCount := 0
	for rows.Next() {
		var (
			client    domain.Client
			extraJSON json.RawMessage
		)
		if scanErr := rows.Scan(
			&client.ID,
			&client.RazaoSocial,
			&client.CNPJ,
			&client.UF,
			&client.Municipio,
			&client.RegimeTributario,
			&client.Situacao,
			&client.Endereco,
			&client.Numero,
			&client.Bairro,
			&client.CEP,
			&client.VencimentoAnual,
			&client.UserID,
			&extraJSON,
			&client.CreatedAt,
			&client.UpdatedAt,
			&totalCount,
		); scanErr != nil {
			return nil, 0, fmt.Errorf("failed to scan client: %w", scanErr)
		}

		extra, decodeErr := domain.ExtraFieldsFromJSONB(extraJSON)
		if decodeErr != nil {
			return nil, 0, fmt.Errorf("failed to decode extra fields for client %s: %w", client.ID, decodeErr)
		}
		client.ExtraFields = extra
		clients = append(clients, client)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, 0, fmt.Errorf("failed to iterate clients: %w", rowsErr)
	}

	return clients, totalCount, nil
}

// Update persists the merged client state, addressed by internal id.
func (r *clientRepository) Update(ctx context.Context, client domain.Client) (domain.Client, error) {
	extraJSON, err := json.Marshal(client.ExtraFields)
	if err != nil {
		return domain.Client{}, fmt.Errorf("failed to marshal extra fields: %w", err)
	}

	row := r.pool.QueryRow(
		ctx,
		`UPDATE clients
		 SET razao_social = $2,
		     cnpj = $3,
		     uf = $4,
		     municipio = $5,
		     regime_tributario = $6,
		     situacao = $7,
		     extra_fields = $8,
		     updated_at = now()
		 WHERE id = $1
		 RETURNING `+clientColumns,
		client.ID,
		client.RazaoSocial,
		client.CNPJ,
		client.UF,
		client.Municipio,
		client.RegimeTributario,
		client.Situacao,
		extraJSON,
	)

	updated, err := scanClient(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Client{}, ErrNotFound
		}
		return domain.Client{}, fmt.Errorf("failed to update client: %w", err)
	}
	return updated, nil
}

// Delete removes a client by internal id.
func (r *clientRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM clients WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete client: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Count returns the total number of clients.
func (r *clientRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM clients`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count clients: %w", err)
	}
	return count, nil
}

func scanClient(row pgx.Row) (domain.Client, error) {
	var (
		client    domain.Client
		extraJSON json.RawMessage
	)
	if err := row.Scan(
		&client.ID,
		&client.RazaoSocial,
		&client.CNPJ,
		&client.UF,
		&client.Municipio,
		&client.RegimeTributario,
		&client.Situacao,
		&client.Endereco,
		&client.Numero,
		&client.Bairro,
		&client.CEP,
		&client.VencimentoAnual,
		&client.UserID,
		&extraJSON,
		&client.CreatedAt,
		&client.UpdatedAt,
	); err != nil {
		return domain.Client{}, err
	}

	extra, err := domain.ExtraFieldsFromJSONB(extraJSON)
	if err != nil {
		return domain.Client{}, fmt.Errorf("failed to decode extra fields for client %s: %w", client.ID, err)
	}
	client.ExtraFields = extra
	return client, nil
}

package business

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// DB is the subset of pgxpool.Pool the repository needs. pgxmock satisfies
// it in tests.
type DB interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresRepository reads businesses from the relational database.
type PostgresRepository struct {
	pool DB
}

// NewPostgresRepository initializes a repo backed by pgxpool.
func NewPostgresRepository(pool DB) *PostgresRepository {
	if pool == nil {
		panic("business: pgx pool required")
	}
	return &PostgresRepository{pool: pool}
}

// GetByID fetches a business profile by id.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*Business, error) {
	query := `
		SELECT id, name, services, phone, email, address
		FROM businesses
		WHERE id = $1
	`
	row := r.pool.QueryRow(ctx, query, id)
	var b Business
	if err := row.Scan(
		&b.ID,
		&b.Name,
		&b.Services,
		&b.Phone,
		&b.Email,
		&b.Address,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrBusinessNotFound
		}
		return nil, fmt.Errorf("business: select failed: %w", err)
	}
	return &b, nil
}

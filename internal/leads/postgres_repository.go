package leads

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DB is the subset of pgxpool.Pool the repository needs. pgxmock satisfies
// it in tests.
type DB interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// PostgresRepository stores leads in the relational database. Interactions
// ride along as a jsonb column; they are always read and written with their
// lead, never queried independently.
type PostgresRepository struct {
	pool DB
}

// NewPostgresRepository initializes a repo backed by pgxpool.
func NewPostgresRepository(pool DB) *PostgresRepository {
	if pool == nil {
		panic("leads: pgx pool required")
	}
	return &PostgresRepository{pool: pool}
}

const leadColumns = `id, business_id, name, phone, email, service, reason, status, interactions, created_at, last_contact_at`

// Create inserts a new row.
func (r *PostgresRepository) Create(ctx context.Context, lead *Lead) (*Lead, error) {
	stored := *lead
	if stored.ID == "" {
		stored.ID = uuid.New().String()
	}

	interactions, err := json.Marshal(stored.Interactions)
	if err != nil {
		return nil, fmt.Errorf("leads: encode interactions: %w", err)
	}

	query := `
		INSERT INTO leads (id, business_id, name, phone, email, service, reason, status, interactions)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at, last_contact_at
	`
	if err := r.pool.QueryRow(ctx, query,
		stored.ID,
		stored.BusinessID,
		stored.Name,
		stored.Phone,
		stored.Email,
		stored.Service,
		stored.Reason,
		stored.Status,
		interactions,
	).Scan(&stored.CreatedAt, &stored.LastContactAt); err != nil {
		return nil, fmt.Errorf("leads: insert failed: %w", err)
	}
	return &stored, nil
}

// Update replaces an existing lead's mutable fields.
func (r *PostgresRepository) Update(ctx context.Context, lead *Lead) (*Lead, error) {
	interactions, err := json.Marshal(lead.Interactions)
	if err != nil {
		return nil, fmt.Errorf("leads: encode interactions: %w", err)
	}

	query := `
		UPDATE leads
		SET name = $3, phone = $4, email = $5, service = $6, reason = $7,
		    status = $8, interactions = $9, last_contact_at = now()
		WHERE id = $1 AND business_id = $2
		RETURNING last_contact_at
	`
	stored := *lead
	if err := r.pool.QueryRow(ctx, query,
		lead.ID,
		lead.BusinessID,
		lead.Name,
		lead.Phone,
		lead.Email,
		lead.Service,
		lead.Reason,
		lead.Status,
		interactions,
	).Scan(&stored.LastContactAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrLeadNotFound
		}
		return nil, fmt.Errorf("leads: update failed: %w", err)
	}
	return &stored, nil
}

// FindByContact matches on (business_id, phone) or (business_id, email).
// Returns (nil, nil) when no lead matches.
func (r *PostgresRepository) FindByContact(ctx context.Context, businessID, phone, email string) (*Lead, error) {
	query := `
		SELECT ` + leadColumns + `
		FROM leads
		WHERE business_id = $1
		  AND (($2 <> '' AND phone = $2) OR ($3 <> '' AND email = $3))
		ORDER BY created_at
		LIMIT 1
	`
	lead, err := scanLead(r.pool.QueryRow(ctx, query, businessID, phone, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("leads: lookup failed: %w", err)
	}
	return lead, nil
}

// GetByID fetches a lead scoped to the business.
func (r *PostgresRepository) GetByID(ctx context.Context, businessID, id string) (*Lead, error) {
	query := `
		SELECT ` + leadColumns + `
		FROM leads
		WHERE id = $1 AND business_id = $2
	`
	lead, err := scanLead(r.pool.QueryRow(ctx, query, id, businessID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrLeadNotFound
		}
		return nil, fmt.Errorf("leads: select failed: %w", err)
	}
	return lead, nil
}

// ListByBusiness returns leads for a business, newest first.
func (r *PostgresRepository) ListByBusiness(ctx context.Context, businessID string, filter ListFilter) ([]*Lead, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}

	query := `
		SELECT ` + leadColumns + `
		FROM leads
		WHERE business_id = $1 AND ($2 = '' OR status = $2)
		ORDER BY created_at DESC
		LIMIT $3 OFFSET $4
	`
	rows, err := r.pool.Query(ctx, query, businessID, filter.Status, limit, filter.Offset)
	if err != nil {
		return nil, fmt.Errorf("leads: list failed: %w", err)
	}
	defer rows.Close()

	var out []*Lead
	for rows.Next() {
		lead, err := scanLead(rows)
		if err != nil {
			return nil, fmt.Errorf("leads: scan failed: %w", err)
		}
		out = append(out, lead)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("leads: list failed: %w", err)
	}
	return out, nil
}

// UpdateStatus changes a lead's status and appends a status_change interaction.
func (r *PostgresRepository) UpdateStatus(ctx context.Context, businessID, id, status string) error {
	if !validStatus(status) {
		return ErrInvalidStatus
	}

	interaction, err := json.Marshal(Interaction{
		ID:        uuid.New().String(),
		Kind:      "status_change",
		Note:      status,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("leads: encode interaction: %w", err)
	}

	query := `
		UPDATE leads
		SET status = $3, interactions = interactions || $4::jsonb
		WHERE id = $1 AND business_id = $2
	`
	tag, err := r.pool.Exec(ctx, query, id, businessID, status, interaction)
	if err != nil {
		return fmt.Errorf("leads: status update failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrLeadNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanLead(row rowScanner) (*Lead, error) {
	var lead Lead
	var interactions []byte
	if err := row.Scan(
		&lead.ID,
		&lead.BusinessID,
		&lead.Name,
		&lead.Phone,
		&lead.Email,
		&lead.Service,
		&lead.Reason,
		&lead.Status,
		&interactions,
		&lead.CreatedAt,
		&lead.LastContactAt,
	); err != nil {
		return nil, err
	}
	if len(interactions) > 0 {
		if err := json.Unmarshal(interactions, &lead.Interactions); err != nil {
			return nil, fmt.Errorf("leads: decode interactions: %w", err)
		}
	}
	return &lead, nil
}

package leads

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ListFilter narrows ListByBusiness results.
type ListFilter struct {
	Status string
	Limit  int
	Offset int
}

// Repository defines the interface for lead storage.
type Repository interface {
	Create(ctx context.Context, lead *Lead) (*Lead, error)
	Update(ctx context.Context, lead *Lead) (*Lead, error)
	// FindByContact locates a lead matching (businessID, phone) or
	// (businessID, email). Returns (nil, nil) when no lead matches.
	FindByContact(ctx context.Context, businessID, phone, email string) (*Lead, error)
	GetByID(ctx context.Context, businessID, id string) (*Lead, error)
	ListByBusiness(ctx context.Context, businessID string, filter ListFilter) ([]*Lead, error)
	UpdateStatus(ctx context.Context, businessID, id, status string) error
}

// InMemoryRepository is a Repository backed by a map, used in development
// and tests.
type InMemoryRepository struct {
	mu    sync.RWMutex
	leads map[string]*Lead
}

// NewInMemoryRepository creates a new in-memory repository
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{leads: make(map[string]*Lead)}
}

// Create stores a new lead, assigning id and timestamps.
func (r *InMemoryRepository) Create(ctx context.Context, lead *Lead) (*Lead, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := *lead
	if stored.ID == "" {
		stored.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = now
	}
	if stored.LastContactAt.IsZero() {
		stored.LastContactAt = now
	}
	r.leads[stored.ID] = &stored

	out := stored
	return &out, nil
}

// Update replaces an existing lead.
func (r *InMemoryRepository) Update(ctx context.Context, lead *Lead) (*Lead, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.leads[lead.ID]; !ok {
		return nil, ErrLeadNotFound
	}
	stored := *lead
	r.leads[lead.ID] = &stored

	out := stored
	return &out, nil
}

// FindByContact matches on (businessID, phone) or (businessID, email).
func (r *InMemoryRepository) FindByContact(ctx context.Context, businessID, phone, email string) (*Lead, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, lead := range r.leads {
		if lead.BusinessID != businessID {
			continue
		}
		if phone != "" && lead.Phone == phone {
			out := *lead
			return &out, nil
		}
		if email != "" && lead.Email != "" && lead.Email == email {
			out := *lead
			return &out, nil
		}
	}
	return nil, nil
}

// GetByID retrieves a lead scoped to the business.
func (r *InMemoryRepository) GetByID(ctx context.Context, businessID, id string) (*Lead, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	lead, ok := r.leads[id]
	if !ok || lead.BusinessID != businessID {
		return nil, ErrLeadNotFound
	}
	out := *lead
	return &out, nil
}

// ListByBusiness returns leads for a business, newest first.
func (r *InMemoryRepository) ListByBusiness(ctx context.Context, businessID string, filter ListFilter) ([]*Lead, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*Lead
	for _, lead := range r.leads {
		if lead.BusinessID != businessID {
			continue
		}
		if filter.Status != "" && lead.Status != filter.Status {
			continue
		}
		copy := *lead
		out = append(out, &copy)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})

	if filter.Offset > 0 {
		if filter.Offset >= len(out) {
			return nil, nil
		}
		out = out[filter.Offset:]
	}
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

// UpdateStatus changes a lead's status and appends a status_change interaction.
func (r *InMemoryRepository) UpdateStatus(ctx context.Context, businessID, id, status string) error {
	if !validStatus(status) {
		return ErrInvalidStatus
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	lead, ok := r.leads[id]
	if !ok || lead.BusinessID != businessID {
		return ErrLeadNotFound
	}
	lead.Status = status
	lead.Interactions = append(lead.Interactions, Interaction{
		ID:        uuid.New().String(),
		Kind:      "status_change",
		Note:      status,
		CreatedAt: time.Now().UTC(),
	})
	return nil
}

func validStatus(status string) bool {
	switch status {
	case StatusNew, StatusContacted, StatusConverted, StatusClosed:
		return true
	}
	return false
}

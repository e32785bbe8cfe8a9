package business

import (
	"context"
	"sync"
)

// Repository defines read access to tenant business profiles.
type Repository interface {
	GetByID(ctx context.Context, id string) (*Business, error)
}

// InMemoryRepository is a Repository backed by a map, used in development
// and tests.
type InMemoryRepository struct {
	mu         sync.RWMutex
	businesses map[string]*Business
}

// NewInMemoryRepository creates an empty in-memory repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{businesses: make(map[string]*Business)}
}

// Put stores or replaces a business profile.
func (r *InMemoryRepository) Put(b *Business) {
	r.mu.Lock()
	r.businesses[b.ID] = b
	r.mu.Unlock()
}

// GetByID retrieves a business by id.
func (r *InMemoryRepository) GetByID(ctx context.Context, id string) (*Business, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	b, ok := r.businesses[id]
	if !ok {
		return nil, ErrBusinessNotFound
	}
	copy := *b
	return &copy, nil
}

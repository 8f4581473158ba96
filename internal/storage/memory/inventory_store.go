package memory

import (
	"context"
	"sort"
	"sync"

	"rxcast/internal/domain"
	"rxcast/internal/storage"
)

// InventoryStore is an in-memory implementation of storage.InventoryStore.
type InventoryStore struct {
	mu    sync.RWMutex
	byNDC map[string]*domain.Drug
}

// NewInventoryStore creates a new in-memory inventory store.
func NewInventoryStore() *InventoryStore {
	return &InventoryStore{
		byNDC: make(map[string]*domain.Drug),
	}
}

// Compile-time interface check.
var _ storage.InventoryStore = (*InventoryStore)(nil)

// Insert adds a new drug. Returns ErrDuplicateKey if the NDC exists.
func (s *InventoryStore) Insert(_ context.Context, d *domain.Drug) error {
	if !d.Validate() {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byNDC[d.NDC]; exists {
		return storage.ErrDuplicateKey
	}

	drugCopy := *d
	s.byNDC[d.NDC] = &drugCopy
	return nil
}

// Upsert adds or replaces a drug.
func (s *InventoryStore) Upsert(_ context.Context, d *domain.Drug) error {
	if !d.Validate() {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	drugCopy := *d
	s.byNDC[d.NDC] = &drugCopy
	return nil
}

// Get retrieves a drug by NDC. Returns ErrNotFound if not exists.
func (s *InventoryStore) Get(_ context.Context, ndc string) (*domain.Drug, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	d, exists := s.byNDC[ndc]
	if !exists {
		return nil, storage.ErrNotFound
	}

	drugCopy := *d
	return &drugCopy, nil
}

// List retrieves all drugs ordered by NDC ASC.
func (s *InventoryStore) List(_ context.Context) ([]*domain.Drug, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*domain.Drug, 0, len(s.byNDC))
	for _, d := range s.byNDC {
		drugCopy := *d
		result = append(result, &drugCopy)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].NDC < result[j].NDC
	})

	return result, nil
}

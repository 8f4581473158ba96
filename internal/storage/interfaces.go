package storage

import (
	"context"
	"errors"
	"fmt"

	"rxcast/internal/domain"
)

// InventoryRepository provides read access to tracked drugs.
type InventoryRepository interface {
	// Get retrieves a drug by NDC. Returns ErrNotFound if not exists.
	Get(ctx context.Context, ndc string) (*domain.Drug, error)

	// List retrieves all drugs ordered by NDC ASC.
	List(ctx context.Context) ([]*domain.Drug, error)
}

// InventoryWriter provides write access to tracked drugs.
type InventoryWriter interface {
	// Insert adds a new drug. Returns ErrDuplicateKey if the NDC exists.
	Insert(ctx context.Context, d *domain.Drug) error

	// Upsert adds or replaces a drug.
	Upsert(ctx context.Context, d *domain.Drug) error
}

// InventoryStore is a repository that can also be written to.
type InventoryStore interface {
	InventoryRepository
	InventoryWriter
}

// Seed inserts drugs that are not stored yet. Existing records are left untouched
// so that restarting a persistent backend does not reset stock levels.
func Seed(ctx context.Context, w InventoryWriter, drugs []domain.Drug) (int, error) {
	inserted := 0
	for i := range drugs {
		d := drugs[i]
		err := w.Insert(ctx, &d)
		if errors.Is(err, ErrDuplicateKey) {
			continue
		}
		if err != nil {
			return inserted, fmt.Errorf("seed %s: %w", d.NDC, err)
		}
		inserted++
	}
	return inserted, nil
}

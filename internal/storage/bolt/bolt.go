// Package bolt implements the inventory repository on an embedded bbolt file.
package bolt

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.etcd.io/bbolt"

	"rxcast/internal/domain"
	"rxcast/internal/storage"
)

var drugsBucket = []byte("drugs")

// InventoryStore implements storage.InventoryStore using bbolt.
// Drugs are stored as JSON values keyed by NDC, so cursor order is NDC order.
type InventoryStore struct {
	db *bbolt.DB
}

// Compile-time interface check.
var _ storage.InventoryStore = (*InventoryStore)(nil)

// Open opens (or creates) the database file at path.
func Open(path string) (*InventoryStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create parent directory for bolt db: %w", err)
	}

	db, err := bbolt.Open(path, 0o600, &bbolt.Options{
		Timeout:      1 * time.Second,
		FreelistType: bbolt.FreelistMapType,
	})
	if err != nil {
		return nil, fmt.Errorf("open bolt db: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(drugsBucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("create drugs bucket: %w", err)
	}

	return &InventoryStore{db: db}, nil
}

// Close closes the database file.
func (s *InventoryStore) Close() error {
	return s.db.Close()
}

// Insert adds a new drug. Returns ErrDuplicateKey if the NDC exists.
func (s *InventoryStore) Insert(_ context.Context, d *domain.Drug) error {
	if !d.Validate() {
		return storage.ErrInvalidInput
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(drugsBucket)
		if bucket.Get([]byte(d.NDC)) != nil {
			return storage.ErrDuplicateKey
		}
		return put(bucket, d)
	})
}

// Upsert adds or replaces a drug.
func (s *InventoryStore) Upsert(_ context.Context, d *domain.Drug) error {
	if !d.Validate() {
		return storage.ErrInvalidInput
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		return put(tx.Bucket(drugsBucket), d)
	})
}

// Get retrieves a drug by NDC. Returns ErrNotFound if not exists.
func (s *InventoryStore) Get(_ context.Context, ndc string) (*domain.Drug, error) {
	var drug *domain.Drug

	err := s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(drugsBucket).Get([]byte(ndc))
		if data == nil {
			return storage.ErrNotFound
		}

		var d domain.Drug
		if err := json.Unmarshal(data, &d); err != nil {
			return fmt.Errorf("unmarshal drug %s: %w", ndc, err)
		}
		drug = &d
		return nil
	})

	return drug, err
}

// List retrieves all drugs ordered by NDC ASC.
func (s *InventoryStore) List(_ context.Context) ([]*domain.Drug, error) {
	drugs := make([]*domain.Drug, 0)

	err := s.db.View(func(tx *bbolt.Tx) error {
		cursor := tx.Bucket(drugsBucket).Cursor()
		for key, value := cursor.First(); key != nil; key, value = cursor.Next() {
			var d domain.Drug
			if err := json.Unmarshal(value, &d); err != nil {
				return fmt.Errorf("unmarshal drug %s: %w", key, err)
			}
			drugs = append(drugs, &d)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return drugs, nil
}

func put(bucket *bbolt.Bucket, d *domain.Drug) error {
	data, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("marshal drug: %w", err)
	}
	return bucket.Put([]byte(d.NDC), data)
}

package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"rxcast/internal/domain"
	"rxcast/internal/storage"
)

// InventoryStore implements storage.InventoryStore using PostgreSQL.
type InventoryStore struct {
	pool *Pool
}

// NewInventoryStore creates a new InventoryStore.
func NewInventoryStore(pool *Pool) *InventoryStore {
	return &InventoryStore{pool: pool}
}

// Compile-time interface check.
var _ storage.InventoryStore = (*InventoryStore)(nil)

// Insert adds a new drug. Returns ErrDuplicateKey if the NDC exists.
func (s *InventoryStore) Insert(ctx context.Context, d *domain.Drug) error {
	if !d.Validate() {
		return storage.ErrInvalidInput
	}

	query := `
		INSERT INTO drugs (ndc, drug_name, on_hand, on_order, lead_time_days)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := s.pool.Exec(ctx, query, d.NDC, d.DrugName, d.OnHand, d.OnOrder, d.LeadTimeDays)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		if isCheckViolation(err) {
			return storage.ErrInvalidInput
		}
		return fmt.Errorf("insert drug: %w", err)
	}
	return nil
}

// Upsert adds or replaces a drug.
func (s *InventoryStore) Upsert(ctx context.Context, d *domain.Drug) error {
	if !d.Validate() {
		return storage.ErrInvalidInput
	}

	query := `
		INSERT INTO drugs (ndc, drug_name, on_hand, on_order, lead_time_days)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (ndc) DO UPDATE SET
			drug_name = EXCLUDED.drug_name,
			on_hand = EXCLUDED.on_hand,
			on_order = EXCLUDED.on_order,
			lead_time_days = EXCLUDED.lead_time_days,
			updated_at = now()
	`

	_, err := s.pool.Exec(ctx, query, d.NDC, d.DrugName, d.OnHand, d.OnOrder, d.LeadTimeDays)
	if err != nil {
		if isCheckViolation(err) {
			return storage.ErrInvalidInput
		}
		return fmt.Errorf("upsert drug: %w", err)
	}
	return nil
}

// Get retrieves a drug by NDC. Returns ErrNotFound if not exists.
func (s *InventoryStore) Get(ctx context.Context, ndc string) (*domain.Drug, error) {
	query := `
		SELECT ndc, drug_name, on_hand, on_order, lead_time_days
		FROM drugs
		WHERE ndc = $1
	`

	d, err := scanDrug(s.pool.QueryRow(ctx, query, ndc))
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get drug by ndc: %w", err)
	}
	return d, nil
}

// List retrieves all drugs ordered by NDC ASC.
func (s *InventoryStore) List(ctx context.Context) ([]*domain.Drug, error) {
	query := `
		SELECT ndc, drug_name, on_hand, on_order, lead_time_days
		FROM drugs
		ORDER BY ndc ASC
	`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list drugs: %w", err)
	}
	defer rows.Close()

	drugs := make([]*domain.Drug, 0)
	for rows.Next() {
		d, err := scanDrug(rows)
		if err != nil {
			return nil, fmt.Errorf("scan drug row: %w", err)
		}
		drugs = append(drugs, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate drug rows: %w", err)
	}

	return drugs, nil
}

// scanDrug scans a single drug from a row.
func scanDrug(row pgx.Row) (*domain.Drug, error) {
	var d domain.Drug
	if err := row.Scan(&d.NDC, &d.DrugName, &d.OnHand, &d.OnOrder, &d.LeadTimeDays); err != nil {
		return nil, err
	}
	return &d, nil
}

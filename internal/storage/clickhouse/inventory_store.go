package clickhouse

import (
	"context"
	"fmt"
	"sync"
	"time"

	"rxcast/internal/domain"
	"rxcast/internal/storage"
)

// Movement reasons written to stock_movements.
const (
	ReasonOpening    = "opening"
	ReasonAdjustment = "adjustment"
)

// InventoryStore implements storage.InventoryStore over a ClickHouse stock ledger.
// Drug attributes live in a ReplacingMergeTree; on_hand is the sum of stock_movements.
type InventoryStore struct {
	conn *Conn

	mu          sync.Mutex
	lastVersion uint64
}

// NewInventoryStore creates a new InventoryStore.
func NewInventoryStore(conn *Conn) *InventoryStore {
	return &InventoryStore{conn: conn}
}

// Compile-time interface check.
var _ storage.InventoryStore = (*InventoryStore)(nil)

const selectDrugs = `
	SELECT d.ndc, d.drug_name, toInt64(ifNull(m.on_hand, 0)), d.on_order, d.lead_time_days
	FROM (
		SELECT ndc,
			argMax(drug_name, version) AS drug_name,
			argMax(on_order, version) AS on_order,
			argMax(lead_time_days, version) AS lead_time_days
		FROM drugs
		%s
		GROUP BY ndc
	) AS d
	LEFT JOIN (
		SELECT ndc, sum(delta) AS on_hand
		FROM stock_movements
		GROUP BY ndc
	) AS m ON d.ndc = m.ndc
	ORDER BY d.ndc ASC
`

// Insert adds a new drug and its opening stock. Returns ErrDuplicateKey if the NDC exists.
func (s *InventoryStore) Insert(ctx context.Context, d *domain.Drug) error {
	if !d.Validate() {
		return storage.ErrInvalidInput
	}

	exists, err := s.exists(ctx, d.NDC)
	if err != nil {
		return fmt.Errorf("check exists: %w", err)
	}
	if exists {
		return storage.ErrDuplicateKey
	}

	if err := s.writeAttributes(ctx, d); err != nil {
		return err
	}
	return s.RecordMovement(ctx, d.NDC, int64(d.OnHand), ReasonOpening)
}

// Upsert writes a new attribute version and an adjustment that brings on_hand to d.OnHand.
func (s *InventoryStore) Upsert(ctx context.Context, d *domain.Drug) error {
	if !d.Validate() {
		return storage.ErrInvalidInput
	}

	current, err := s.onHand(ctx, d.NDC)
	if err != nil {
		return fmt.Errorf("read on_hand: %w", err)
	}

	if err := s.writeAttributes(ctx, d); err != nil {
		return err
	}

	delta := int64(d.OnHand) - current
	if delta == 0 {
		return nil
	}
	return s.RecordMovement(ctx, d.NDC, delta, ReasonAdjustment)
}

// RecordMovement appends a stock movement. Positive delta is a receipt, negative a dispense.
func (s *InventoryStore) RecordMovement(ctx context.Context, ndc string, delta int64, reason string) error {
	if ndc == "" {
		return storage.ErrInvalidInput
	}

	batch, err := s.conn.PrepareBatch(ctx, `INSERT INTO stock_movements (ndc, delta, reason, recorded_at)`)
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}
	if err := batch.Append(ndc, delta, reason, time.Now().UTC()); err != nil {
		return fmt.Errorf("append to batch: %w", err)
	}
	if err := batch.Send(); err != nil {
		return fmt.Errorf("send batch: %w", err)
	}
	return nil
}

// Get retrieves a drug by NDC. Returns ErrNotFound if not exists.
func (s *InventoryStore) Get(ctx context.Context, ndc string) (*domain.Drug, error) {
	rows, err := s.conn.Query(ctx, fmt.Sprintf(selectDrugs, "WHERE ndc = ?"), ndc)
	if err != nil {
		return nil, fmt.Errorf("query drug by ndc: %w", err)
	}
	defer rows.Close()

	drugs, err := scanDrugs(rows)
	if err != nil {
		return nil, err
	}
	if len(drugs) == 0 {
		return nil, storage.ErrNotFound
	}
	return drugs[0], nil
}

// List retrieves all drugs ordered by NDC ASC.
func (s *InventoryStore) List(ctx context.Context) ([]*domain.Drug, error) {
	rows, err := s.conn.Query(ctx, fmt.Sprintf(selectDrugs, ""))
	if err != nil {
		return nil, fmt.Errorf("query drugs: %w", err)
	}
	defer rows.Close()

	return scanDrugs(rows)
}

func (s *InventoryStore) writeAttributes(ctx context.Context, d *domain.Drug) error {
	batch, err := s.conn.PrepareBatch(ctx, `
		INSERT INTO drugs (ndc, drug_name, on_order, lead_time_days, version)
	`)
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}

	err = batch.Append(d.NDC, d.DrugName, uint32(d.OnOrder), uint32(d.LeadTimeDays), s.nextVersion())
	if err != nil {
		return fmt.Errorf("append to batch: %w", err)
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("send batch: %w", err)
	}
	return nil
}

// nextVersion returns a strictly increasing version for this process.
func (s *InventoryStore) nextVersion() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	v := uint64(time.Now().UnixNano())
	if v <= s.lastVersion {
		v = s.lastVersion + 1
	}
	s.lastVersion = v
	return v
}

func (s *InventoryStore) exists(ctx context.Context, ndc string) (bool, error) {
	var count uint64
	err := s.conn.QueryRow(ctx, `SELECT count(*) FROM drugs WHERE ndc = ?`, ndc).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s *InventoryStore) onHand(ctx context.Context, ndc string) (int64, error) {
	var total int64
	err := s.conn.QueryRow(ctx, `SELECT toInt64(sum(delta)) FROM stock_movements WHERE ndc = ?`, ndc).Scan(&total)
	if err != nil {
		return 0, err
	}
	return total, nil
}

// scanDrugs scans multiple rows.
func scanDrugs(rows chRows) ([]*domain.Drug, error) {
	drugs := make([]*domain.Drug, 0)

	for rows.Next() {
		var d domain.Drug
		var onHand int64
		var onOrder, leadTime uint32

		if err := rows.Scan(&d.NDC, &d.DrugName, &onHand, &onOrder, &leadTime); err != nil {
			return nil, fmt.Errorf("scan drug row: %w", err)
		}

		d.OnHand = int(onHand)
		d.OnOrder = int(onOrder)
		d.LeadTimeDays = int(leadTime)
		drugs = append(drugs, &d)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate drug rows: %w", err)
	}

	return drugs, nil
}

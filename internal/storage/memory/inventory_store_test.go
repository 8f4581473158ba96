package memory

import (
	"context"
	"errors"
	"sync"
	"testing"

	"rxcast/internal/domain"
	"rxcast/internal/storage"
)

func tamiflu() *domain.Drug {
	return &domain.Drug{NDC: "12345-6789", DrugName: "Tamiflu", OnHand: 50, OnOrder: 20, LeadTimeDays: 3}
}

func TestInventoryStore_InsertAndGet(t *testing.T) {
	store := NewInventoryStore()
	ctx := context.Background()

	if err := store.Insert(ctx, tamiflu()); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	got, err := store.Get(ctx, "12345-6789")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}

	if *got != *tamiflu() {
		t.Errorf("Get mismatch: got %+v, want %+v", *got, *tamiflu())
	}
}

func TestInventoryStore_InsertDuplicate(t *testing.T) {
	store := NewInventoryStore()
	ctx := context.Background()

	if err := store.Insert(ctx, tamiflu()); err != nil {
		t.Fatalf("first Insert failed: %v", err)
	}

	err := store.Insert(ctx, tamiflu())
	if !errors.Is(err, storage.ErrDuplicateKey) {
		t.Errorf("expected ErrDuplicateKey, got %v", err)
	}
}

func TestInventoryStore_InvalidInput(t *testing.T) {
	store := NewInventoryStore()
	ctx := context.Background()

	cases := map[string]*domain.Drug{
		"nil":          nil,
		"empty ndc":    {DrugName: "x"},
		"negative qty": {NDC: "1", OnHand: -1},
	}
	for name, d := range cases {
		if err := store.Insert(ctx, d); !errors.Is(err, storage.ErrInvalidInput) {
			t.Errorf("%s: Insert expected ErrInvalidInput, got %v", name, err)
		}
		if err := store.Upsert(ctx, d); !errors.Is(err, storage.ErrInvalidInput) {
			t.Errorf("%s: Upsert expected ErrInvalidInput, got %v", name, err)
		}
	}
}

func TestInventoryStore_Upsert(t *testing.T) {
	store := NewInventoryStore()
	ctx := context.Background()

	if err := store.Upsert(ctx, tamiflu()); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}

	updated := tamiflu()
	updated.OnHand = 5
	if err := store.Upsert(ctx, updated); err != nil {
		t.Fatalf("second Upsert failed: %v", err)
	}

	got, _ := store.Get(ctx, "12345-6789")
	if got.OnHand != 5 {
		t.Errorf("OnHand: got %d, want 5", got.OnHand)
	}
}

func TestInventoryStore_GetNotFound(t *testing.T) {
	store := NewInventoryStore()

	_, err := store.Get(context.Background(), "00000-0000")
	if !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestInventoryStore_ListOrdered(t *testing.T) {
	store := NewInventoryStore()
	ctx := context.Background()

	for _, ndc := range []string{"98765-4321", "12345-6789", "55555-0001"} {
		if err := store.Insert(ctx, &domain.Drug{NDC: ndc}); err != nil {
			t.Fatalf("Insert %s failed: %v", ndc, err)
		}
	}

	list, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}

	want := []string{"12345-6789", "55555-0001", "98765-4321"}
	if len(list) != len(want) {
		t.Fatalf("List length: got %d, want %d", len(list), len(want))
	}
	for i, ndc := range want {
		if list[i].NDC != ndc {
			t.Errorf("List[%d]: got %s, want %s", i, list[i].NDC, ndc)
		}
	}
}

func TestInventoryStore_ListEmpty(t *testing.T) {
	list, err := NewInventoryStore().List(context.Background())
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if list == nil || len(list) != 0 {
		t.Errorf("expected empty non-nil list, got %v", list)
	}
}

func TestInventoryStore_CopyOnReadAndWrite(t *testing.T) {
	store := NewInventoryStore()
	ctx := context.Background()

	d := tamiflu()
	_ = store.Insert(ctx, d)
	d.OnHand = 0

	got, _ := store.Get(ctx, d.NDC)
	if got.OnHand != 50 {
		t.Errorf("store aliased caller's struct: OnHand = %d", got.OnHand)
	}

	got.OnHand = 1
	again, _ := store.Get(ctx, d.NDC)
	if again.OnHand != 50 {
		t.Errorf("store aliased returned struct: OnHand = %d", again.OnHand)
	}
}

func TestInventoryStore_ConcurrentAccess(t *testing.T) {
	store := NewInventoryStore()
	ctx := context.Background()
	_ = store.Insert(ctx, tamiflu())

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func(n int) {
			defer wg.Done()
			d := tamiflu()
			d.OnHand = n
			_ = store.Upsert(ctx, d)
		}(i)
		go func() {
			defer wg.Done()
			_, _ = store.List(ctx)
		}()
	}
	wg.Wait()

	if _, err := store.Get(ctx, "12345-6789"); err != nil {
		t.Errorf("Get after concurrent writes: %v", err)
	}
}

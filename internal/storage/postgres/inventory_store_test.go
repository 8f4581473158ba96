package postgres

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rxcast/internal/domain"
	"rxcast/internal/storage"
)

func TestInventoryStore_InsertAndGet(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewInventoryStore(pool)

	drug := &domain.Drug{NDC: "12345-6789", DrugName: "Tamiflu", OnHand: 50, OnOrder: 20, LeadTimeDays: 3}
	require.NoError(t, store.Insert(ctx, drug))

	got, err := store.Get(ctx, "12345-6789")
	require.NoError(t, err)
	assert.Equal(t, *drug, *got)

	err = store.Insert(ctx, drug)
	assert.ErrorIs(t, err, storage.ErrDuplicateKey)

	_, err = store.Get(ctx, "00000-0000")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestInventoryStore_UpsertAndList(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewInventoryStore(pool)

	require.NoError(t, store.Upsert(ctx, &domain.Drug{NDC: "98765-4321", DrugName: "Amoxicillin", OnHand: 200, LeadTimeDays: 5}))
	require.NoError(t, store.Upsert(ctx, &domain.Drug{NDC: "12345-6789", DrugName: "Tamiflu", OnHand: 50, OnOrder: 20, LeadTimeDays: 3}))
	require.NoError(t, store.Upsert(ctx, &domain.Drug{NDC: "12345-6789", DrugName: "Tamiflu", OnHand: 8, OnOrder: 20, LeadTimeDays: 3}))

	list, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "12345-6789", list[0].NDC)
	assert.Equal(t, 8, list[0].OnHand)
	assert.Equal(t, "98765-4321", list[1].NDC)
}

func TestInventoryStore_InvalidInput(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewInventoryStore(pool)

	err := store.Insert(context.Background(), &domain.Drug{NDC: "12345-6789", OnHand: -1})
	assert.ErrorIs(t, err, storage.ErrInvalidInput)
}

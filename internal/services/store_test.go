package services

import (
	"context"
	"testing"
	"time"

	"DF-CONTRATOS/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryContractStoreCRUD(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryContractStore()
	now := time.Date(2024, 1, 20, 10, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	c := &models.Contract{NomeAluno: "Ana Silva"}
	require.NoError(t, store.Create(ctx, c))
	require.NotEmpty(t, c.ID)
	assert.Equal(t, now, c.CreatedAt)

	got, err := store.Get(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ana Silva", got.NomeAluno)

	// Edits to a returned copy are not visible until Update.
	got.NomeAluno = "Bia Souza"
	again, err := store.Get(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ana Silva", again.NomeAluno)

	store.now = func() time.Time { return now.Add(time.Hour) }
	require.NoError(t, store.Update(ctx, got))
	updated, err := store.Get(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "Bia Souza", updated.NomeAluno)
	assert.Equal(t, now, updated.CreatedAt)
	assert.Equal(t, now.Add(time.Hour), updated.UpdatedAt)

	require.NoError(t, store.Delete(ctx, c.ID))
	_, err = store.Get(ctx, c.ID)
	assert.ErrorIs(t, err, ErrContractNotFound)
}

func TestMemoryContractStoreNotFound(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryContractStore()

	_, err := store.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrContractNotFound)
	assert.ErrorIs(t, store.Update(ctx, &models.Contract{ID: "missing"}), ErrContractNotFound)
	assert.ErrorIs(t, store.Delete(ctx, "missing"), ErrContractNotFound)
}

func TestMemoryContractStoreListKeepsCreationOrder(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryContractStore()

	names := []string{"Ana", "Bruno", "Carla", "Davi"}
	ids := make([]string, len(names))
	for i, name := range names {
		c := &models.Contract{NomeAluno: name}
		require.NoError(t, store.Create(ctx, c))
		ids[i] = c.ID
	}
	require.NoError(t, store.Delete(ctx, ids[1]))

	list, err := store.List(ctx)
	require.NoError(t, err)
	var got []string
	for _, c := range list {
		got = append(got, c.NomeAluno)
	}
	assert.Equal(t, []string{"Ana", "Carla", "Davi"}, got)
}

func TestMemoryDocumentStore(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryDocumentStore()

	doc := &models.Document{ID: "doc-1", Status: models.DocumentStatusCompleted}
	require.NoError(t, store.Save(ctx, doc))
	assert.False(t, doc.CreatedAt.IsZero())

	require.NoError(t, store.UpdateStatus(ctx, "doc-1", models.DocumentStatusDownloaded))
	got, err := store.Get(ctx, "doc-1")
	require.NoError(t, err)
	assert.Equal(t, models.DocumentStatusDownloaded, got.Status)

	_, err = store.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrDocumentNotFound)
	assert.ErrorIs(t, store.UpdateStatus(ctx, "missing", "x"), ErrDocumentNotFound)
}

package gdsii

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreSaveAndOpen(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir)

	lib := NewLibrary("CACHED", Micrometer(), 1e-6)
	lib.AddStructure(NewStructure("A"))

	ctx := context.Background()
	require.NoError(t, store.Save(ctx, "lib.gds", lib, nil))

	got, err := store.Open(ctx, "lib.gds")
	require.NoError(t, err)
	assert.Equal(t, "CACHED", got.Name)

	// after Evict, the next Open re-reads the library from disk.
	store.Evict("lib.gds")
	got2, err := store.Open(ctx, "lib.gds")
	require.NoError(t, err)
	assert.Equal(t, got.Name, got2.Name)
}

func TestStoreOpenMissingFile(t *testing.T) {
	store := NewStore(t.TempDir())
	_, err := store.Open(context.Background(), "nope.gds")
	assert.Error(t, err)
}

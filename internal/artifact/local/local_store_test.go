package local_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docketflow/internal/artifact/local"
	"docketflow/internal/domain"
)

func TestStore_PutListRead(t *testing.T) {
	store := local.NewStore(t.TempDir())
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "claude_extracted_text", "a.txt", []byte("one")))
	require.NoError(t, store.Put(ctx, "claude_extracted_text", "b.txt", []byte("two")))
	require.NoError(t, store.Put(ctx, "openai_extracted_text", "c.txt", []byte("three")))

	names, err := store.List(ctx, "claude_extracted_text")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"a.txt", "b.txt"}, names)

	data, err := store.Read(ctx, "claude_extracted_text", "a.txt")
	require.NoError(t, err)
	assert.Equal(t, "one", string(data))
}

func TestStore_Put_Overwrites(t *testing.T) {
	store := local.NewStore(t.TempDir())
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "ns", "a.txt", []byte("first")))
	require.NoError(t, store.Put(ctx, "ns", "a.txt", []byte("second")))

	data, err := store.Read(ctx, "ns", "a.txt")
	require.NoError(t, err)
	assert.Equal(t, "second", string(data))
}

func TestStore_List_MissingNamespace(t *testing.T) {
	store := local.NewStore(t.TempDir())

	names, err := store.List(context.Background(), "never_written")
	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestStore_Read_Missing(t *testing.T) {
	store := local.NewStore(t.TempDir())

	_, err := store.Read(context.Background(), "ns", "missing.txt")
	assert.ErrorIs(t, err, domain.ErrArtifactNotFound)
}

func TestStore_RootNamespace(t *testing.T) {
	store := local.NewStore(t.TempDir())
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "", "combined_summary_20260901.json", []byte("{}")))

	data, err := store.Read(ctx, "", "combined_summary_20260901.json")
	require.NoError(t, err)
	assert.Equal(t, "{}", string(data))
}

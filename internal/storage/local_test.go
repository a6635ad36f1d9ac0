package storage

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStoragePutGet(t *testing.T) {
	ctx := context.Background()
	s, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	content := []byte(`[{"id":"pp_1"}]`)
	meta := &Metadata{
		ContentType: "application/json",
		StoreName:   "kin marche",
		PointCount:  1,
		ArchivedAt:  time.Now().UTC(),
	}
	require.NoError(t, s.Put(ctx, "ledger/2026/02/points.json", content, meta))

	got, err := s.Get(ctx, "ledger/2026/02/points.json")
	require.NoError(t, err)
	assert.Equal(t, content, got)

	info, err := s.GetInfo(ctx, "ledger/2026/02/points.json")
	require.NoError(t, err)
	assert.Equal(t, int64(len(content)), info.Size)
	assert.NotEmpty(t, info.Checksum)
	require.NotNil(t, info.Metadata)
	assert.Equal(t, "kin marche", info.Metadata.StoreName)
	assert.Equal(t, 1, info.Metadata.PointCount)
}

func TestLocalStorageExistsAndDelete(t *testing.T) {
	ctx := context.Background()
	s, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	exists, err := s.Exists(ctx, "missing.json")
	require.NoError(t, err)
	assert.False(t, exists)

	require.NoError(t, s.Put(ctx, "a.json", []byte("{}"), &Metadata{}))
	exists, err = s.Exists(ctx, "a.json")
	require.NoError(t, err)
	assert.True(t, exists)

	require.NoError(t, s.Delete(ctx, "a.json"))
	exists, err = s.Exists(ctx, "a.json")
	require.NoError(t, err)
	assert.False(t, exists)

	// Deleting a missing key is not an error.
	require.NoError(t, s.Delete(ctx, "a.json"))
}

func TestLocalStorageList(t *testing.T) {
	ctx := context.Background()
	s, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, s.Put(ctx, "ledger/2026/01.json", []byte("{}"), &Metadata{}))
	require.NoError(t, s.Put(ctx, "ledger/2026/02.json", []byte("{}"), nil))
	require.NoError(t, s.Put(ctx, "other/x.json", []byte("{}"), nil))

	keys, err := s.List(ctx, "ledger/")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"ledger/2026/01.json", "ledger/2026/02.json"}, keys)

	all, err := s.List(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 3, "meta sidecars are not listed")
}

func TestLocalStorageRejectsTraversal(t *testing.T) {
	ctx := context.Background()
	base := t.TempDir()
	s, err := NewLocalStorage(base)
	require.NoError(t, err)

	require.NoError(t, s.Put(ctx, "../escape.json", []byte("{}"), nil))
	got, err := s.Get(ctx, "escape.json")
	require.NoError(t, err, "cleaned key stays under the base path")
	assert.Equal(t, []byte("{}"), got)
}

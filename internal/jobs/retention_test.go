package jobs

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/goshopper/price-engine/internal/ledger"
	"github.com/goshopper/price-engine/internal/storage"
)

func setupRetentionDB(t *testing.T) (*pgxpool.Pool, *ledger.PostgresStore, func()) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}
	ctx := context.Background()

	container, err := postgres.Run(ctx, "postgres:16-alpine",
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	require.NoError(t, err)

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	pool, err := pgxpool.New(ctx, connStr)
	require.NoError(t, err)

	store := ledger.NewPostgresStore(pool)
	require.NoError(t, store.EnsureSchema(ctx))

	cleanup := func() {
		pool.Close()
		testcontainers.TerminateContainer(container)
	}
	return pool, store, cleanup
}

func seedRetentionPoint(t *testing.T, store *ledger.PostgresStore, id, storeKey, name string, price float64, age time.Duration) {
	t.Helper()
	pp := ledger.PricePoint{
		ID:                    id,
		ProductNameRaw:        name,
		ProductNameNormalized: name,
		StoreName:             storeKey,
		StoreNameNormalized:   storeKey,
		Price:                 price,
		Currency:              "CDF",
		Quantity:              1,
		PricePerUnit:          price,
		RecordedAt:            time.Now().UTC().Add(-age),
		MatchType:             "none",
	}
	require.NoError(t, store.Insert(context.Background(), pp))
}

func TestRunLedgerRetention(t *testing.T) {
	pool, store, cleanup := setupRetentionDB(t)
	defer cleanup()
	ctx := context.Background()

	const day = 24 * time.Hour

	// Old history that should be archived and pruned.
	seedRetentionPoint(t, store, "pp_old_1", "shoprite", "riz parfume 5kg", 8000, 900*day)
	seedRetentionPoint(t, store, "pp_old_2", "shoprite", "riz parfume 5kg", 8500, 800*day)
	// The newest point per product survives even when old.
	seedRetentionPoint(t, store, "pp_keep_stale", "shoprite", "sel 500g", 700, 800*day)
	// Recent history is untouched.
	seedRetentionPoint(t, store, "pp_new", "shoprite", "riz parfume 5kg", 9000, 1*day)

	blobs, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	cfg := RetentionConfig{PointRetentionDays: 730, ArchiveFirst: true}
	archived, deleted, err := RunLedgerRetention(ctx, pool, blobs, cfg)
	require.NoError(t, err)
	assert.Equal(t, 2, archived)
	assert.Equal(t, 2, deleted)

	// The prunable rows are gone, the keepers remain.
	history, err := store.History(ctx, "shoprite", "riz parfume 5kg", 10)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, "pp_new", history[0].ID)

	kept, err := store.LatestByProduct(ctx, "shoprite", "sel 500g")
	require.NoError(t, err)
	assert.Equal(t, "pp_keep_stale", kept.ID)

	// The archive snapshot holds the pruned rows.
	keys, err := blobs.List(ctx, "ledger/")
	require.NoError(t, err)
	require.Len(t, keys, 1)

	payload, err := blobs.Get(ctx, keys[0])
	require.NoError(t, err)
	var rows []map[string]interface{}
	require.NoError(t, json.Unmarshal(payload, &rows))
	assert.Len(t, rows, 2)

	info, err := blobs.GetInfo(ctx, keys[0])
	require.NoError(t, err)
	require.NotNil(t, info.Metadata)
	assert.Equal(t, 2, info.Metadata.PointCount)
}

func TestRetentionNoopOnFreshLedger(t *testing.T) {
	pool, store, cleanup := setupRetentionDB(t)
	defer cleanup()
	ctx := context.Background()

	seedRetentionPoint(t, store, "pp_new", "shoprite", "pain", 500, time.Hour)

	blobs, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	archived, deleted, err := RunLedgerRetention(ctx, pool, blobs, DefaultRetentionConfig())
	require.NoError(t, err)
	assert.Zero(t, archived)
	assert.Zero(t, deleted)

	keys, err := blobs.List(ctx, "ledger/")
	require.NoError(t, err)
	assert.Empty(t, keys, "no snapshot written when nothing is prunable")
}

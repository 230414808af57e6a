package db

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ZanzyTHEbar/toolcall-decoder/tcd/dataset"
	"github.com/ZanzyTHEbar/toolcall-decoder/tcd/decode/adapters"
	ports "github.com/ZanzyTHEbar/toolcall-decoder/tcd/decode/ports"
)

func TestConnectAndMigrate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "runs.db")

	conn, err := Connect(path)
	require.NoError(t, err)
	defer conn.Close()

	// Migrations create both tables.
	for _, table := range []string{"decode_runs", "training_examples"} {
		var name string
		err := conn.QueryRow(
			"SELECT name FROM sqlite_master WHERE type='table' AND name=?", table,
		).Scan(&name)
		require.NoError(t, err, "table %s must exist", table)
	}

	// Reconnecting to an existing database is idempotent.
	again, err := Connect(path)
	require.NoError(t, err)
	again.Close()
}

func TestRunStoreRoundTrip(t *testing.T) {
	conn, err := Connect(filepath.Join(t.TempDir(), "runs.db"))
	require.NoError(t, err)
	defer conn.Close()

	store := adapters.NewLibSQLRunStore(conn)
	ctx := context.Background()

	base := time.Now().UTC().Truncate(time.Second)
	records := []ports.RunRecord{
		{ID: "run-1", Request: "ping it", Output: `{"tool": "ping", "args": {}}`, Tool: "ping", Confidence: 0.9, CreatedAt: base},
		{ID: "run-2", Request: "weather", Output: `{"tool": "get_weather", "args": {"city": "London"}}`, Tool: "get_weather", Truncated: true, Confidence: 0.5, CreatedAt: base.Add(time.Second)},
	}
	for _, rec := range records {
		require.NoError(t, store.SaveRun(ctx, rec))
	}

	runs, err := store.RecentRuns(ctx, 10)
	require.NoError(t, err)
	require.Len(t, runs, 2)

	// Newest first.
	assert.Equal(t, "run-2", runs[0].ID)
	assert.Equal(t, "get_weather", runs[0].Tool)
	assert.True(t, runs[0].Truncated)
	assert.Equal(t, "run-1", runs[1].ID)
	assert.Equal(t, records[0].Output, runs[1].Output)
	assert.InDelta(t, 0.9, runs[1].Confidence, 1e-9)

	limited, err := store.RecentRuns(ctx, 1)
	require.NoError(t, err)
	require.Len(t, limited, 1)
	assert.Equal(t, "run-2", limited[0].ID)
}

func TestDatasetStoreRoundTrip(t *testing.T) {
	conn, err := Connect(filepath.Join(t.TempDir(), "runs.db"))
	require.NoError(t, err)
	defer conn.Close()

	store := dataset.NewStore(conn)
	ctx := context.Background()

	examples := dataset.NewGenerator(5).Generate(30)
	require.NoError(t, store.SaveExamples(ctx, examples))

	counts, err := store.CountByTool(ctx)
	require.NoError(t, err)
	assert.Equal(t, dataset.Counts(examples), counts)

	total := 0
	for _, n := range counts {
		total += n
	}
	assert.Equal(t, 30, total)
}

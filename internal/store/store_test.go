package store_test

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vkm/heatlamp/internal/store"
)

func openStore(t *testing.T) *store.RunStore {
	t.Helper()
	s, err := store.Open(filepath.Join(t.TempDir(), "runs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSaveAssignsID(t *testing.T) {
	s := openStore(t)

	id, err := s.Save(store.Run{
		Coordinate: "imdb-bert-lig",
		ConfigJSON: "{}",
		Records:    10,
		OutputDir:  "/tmp/out",
		StartedAt:  time.Now(),
		Duration:   1500 * time.Millisecond,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, id)
}

func TestGet(t *testing.T) {
	s := openStore(t)

	started := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	id, err := s.Save(store.Run{
		Coordinate: "imdb-bert-lig",
		ConfigJSON: `{"device":"cpu"}`,
		Records:    25,
		OutputDir:  "/tmp/out",
		StartedAt:  started,
		Duration:   2 * time.Second,
	})
	require.NoError(t, err)

	run, err := s.Get(id)
	require.NoError(t, err)
	require.NotNil(t, run)
	assert.Equal(t, "imdb-bert-lig", run.Coordinate)
	assert.Equal(t, 25, run.Records)
	assert.Equal(t, started, run.StartedAt)
	assert.Equal(t, 2*time.Second, run.Duration)

	missing, err := s.Get("no-such-run")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestListNewestFirst(t *testing.T) {
	s := openStore(t)

	older := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	newer := older.Add(time.Hour)

	_, err := s.Save(store.Run{ID: "a", Coordinate: "imdb-bert-lig", ConfigJSON: "{}", StartedAt: older})
	require.NoError(t, err)
	_, err = s.Save(store.Run{ID: "b", Coordinate: "imdb-bert-occ", ConfigJSON: "{}", StartedAt: newer})
	require.NoError(t, err)

	runs, err := s.List()
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "b", runs[0].ID)
	assert.Equal(t, "a", runs[1].ID)
}

func TestDuplicateIDFails(t *testing.T) {
	s := openStore(t)

	_, err := s.Save(store.Run{ID: "dup", Coordinate: "x", ConfigJSON: "{}", StartedAt: time.Now()})
	require.NoError(t, err)
	_, err = s.Save(store.Run{ID: "dup", Coordinate: "x", ConfigJSON: "{}", StartedAt: time.Now()})
	assert.Error(t, err)
}

package history

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) (*Store, string) {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "state", "history.db")
	s, err := Open(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, s.Close())
	})
	return s, dbPath
}

func TestOpenRejectsEmptyPath(t *testing.T) {
	_, err := Open("  ")
	assert.Error(t, err)
}

func TestLastOnEmptyHistory(t *testing.T) {
	s, _ := newTestStore(t)
	_, err := s.Last()
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRecordRejectsBlankLine(t *testing.T) {
	s, _ := newTestStore(t)
	assert.Error(t, s.Record("menu", ""))
	assert.Error(t, s.Record("menu", " \t "))
	_, err := s.Last()
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRecordAndRecent(t *testing.T) {
	s, _ := newTestStore(t)
	base := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	tick := 0
	s.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Second)
	}

	require.NoError(t, s.Record("menu", "/menu"))
	require.NoError(t, s.Record("deploy-full", "/deploy-full --full"))
	require.NoError(t, s.Record("test", "/test --watch"))
	assert.Error(t, s.Record("x", ""))

	recent, err := s.Recent(2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, "/test --watch", recent[0].Line)
	assert.Equal(t, "deploy-full", recent[1].Name)
	assert.Equal(t, base.Add(2*time.Second), recent[1].SentAt)

	last, err := s.Last()
	require.NoError(t, err)
	assert.Equal(t, "/test --watch", last.Line)

	none, err := s.Recent(0)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestHistorySurvivesReopen(t *testing.T) {
	s, path := newTestStore(t)
	require.NoError(t, s.Record("menu", "/menu"))

	again, err := Open(path)
	require.NoError(t, err)
	defer again.Close()

	last, err := again.Last()
	require.NoError(t, err)
	assert.Equal(t, "/menu", last.Line)
}

func TestSnapshots(t *testing.T) {
	s, _ := newTestStore(t)

	_, err := s.Snapshot("baseline")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.SaveSnapshot("baseline", "sidebar: open"))
	require.NoError(t, s.SaveSnapshot("baseline", "sidebar: closed"))
	body, err := s.Snapshot("baseline")
	require.NoError(t, err)
	assert.Equal(t, "sidebar: closed", body)

	assert.Error(t, s.SaveSnapshot("", "x"))
}

func TestCloseNil(t *testing.T) {
	var s *Store
	assert.NoError(t, s.Close())
}

package sqlite

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quarrylab/quarry/internal/models"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s.(*Store)
}

func TestLastRouteRoundTrip(t *testing.T) {
	s := newTestStore(t)

	got, err := s.GetLastRoute()
	require.NoError(t, err)
	assert.Nil(t, got)

	saved := &models.SavedRoute{
		Path:   "/console",
		Params: map[string]string{"slug": "all-the-mods"},
		Props:  map[string]string{"tab": "live"},
	}
	require.NoError(t, s.SaveLastRoute(saved))

	got, err = s.GetLastRoute()
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, saved, got)

	// Upsert replaces, not appends.
	require.NoError(t, s.SaveLastRoute(&models.SavedRoute{Path: "/home"}))
	got, err = s.GetLastRoute()
	require.NoError(t, err)
	assert.Equal(t, "/home", got.Path)
	assert.Empty(t, got.Params)
}

func TestConsolePrefsPerInstance(t *testing.T) {
	s := newTestStore(t)

	got, err := s.GetConsolePrefs("all-the-mods")
	require.NoError(t, err)
	assert.Nil(t, got)

	require.NoError(t, s.SaveConsolePrefs("all-the-mods", &models.ConsolePrefs{AutoFollow: true, LevelFilter: "ERROR"}))
	require.NoError(t, s.SaveConsolePrefs("skyblock", &models.ConsolePrefs{AutoFollow: false}))

	got, err = s.GetConsolePrefs("all-the-mods")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.True(t, got.AutoFollow)
	assert.Equal(t, "ERROR", got.LevelFilter)

	got, err = s.GetConsolePrefs("skyblock")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.False(t, got.AutoFollow)

	require.NoError(t, s.SaveConsolePrefs("all-the-mods", &models.ConsolePrefs{AutoFollow: false, LevelFilter: ""}))
	got, err = s.GetConsolePrefs("all-the-mods")
	require.NoError(t, err)
	assert.False(t, got.AutoFollow)
	assert.Empty(t, got.LevelFilter)
}

func TestRecentLogFilesCapAndDedupe(t *testing.T) {
	s := newTestStore(t)

	for i := 0; i < maxRecentLogFiles+5; i++ {
		require.NoError(t, s.AddRecentLogFile("all-the-mods", fmt.Sprintf("logs/2026-08-%02d.log", i+1)))
	}
	// Re-opening an existing file must not grow the list.
	require.NoError(t, s.AddRecentLogFile("all-the-mods", "logs/2026-08-25.log"))

	files, err := s.GetRecentLogFiles("all-the-mods", 0)
	require.NoError(t, err)
	assert.Len(t, files, maxRecentLogFiles)

	require.NoError(t, s.AddRecentLogFile("skyblock", "logs/latest.log"))
	files, err = s.GetRecentLogFiles("skyblock", 0)
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, "logs/latest.log", files[0].Path)
	assert.WithinDuration(t, time.Now(), files[0].ViewedAt, time.Minute)
}

func TestRecentLogFilesOrderedNewestFirst(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.AddRecentLogFile("all-the-mods", "logs/old.log"))
	time.Sleep(10 * time.Millisecond)
	require.NoError(t, s.AddRecentLogFile("all-the-mods", "logs/new.log"))

	files, err := s.GetRecentLogFiles("all-the-mods", 2)
	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.Equal(t, "logs/new.log", files[0].Path)
	assert.Equal(t, "logs/old.log", files[1].Path)
}

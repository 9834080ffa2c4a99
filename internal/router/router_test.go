package router

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNavigatePushesPastAndClearsFuture(t *testing.T) {
	r := New()

	r.Navigate(PathInstance, &Options{Params: map[string]string{"slug": "skyblock"}})
	r.Navigate(PathConsole, &Options{Params: map[string]string{"slug": "skyblock"}})
	r.Backwards()
	require.True(t, r.CanGoForward())

	r.Navigate(PathNotifications, nil)

	assert.False(t, r.CanGoForward(), "navigate must clear future regardless of prior contents")
	assert.Equal(t, PathNotifications, r.Current().Path)
}

func TestBackwardsThenForwardsRestoresExactEntry(t *testing.T) {
	r := New()

	r.Navigate(PathInstance, &Options{
		Params: map[string]string{"slug": "skyblock", "id": "7"},
		Props:  map[string]string{"tab": "mods"},
	})
	want := r.Current()

	r.Backwards()
	assert.Equal(t, PathHome, r.Current().Path)

	r.Forwards()
	assert.Equal(t, want, r.Current())
}

func TestBackwardsOnEmptyPastIsNoop(t *testing.T) {
	r := New()
	r.Backwards()
	assert.Equal(t, PathHome, r.Current().Path)
	assert.False(t, r.CanGoBack())
	assert.False(t, r.CanGoForward())
}

func TestHistoryAccounting(t *testing.T) {
	r := New()

	paths := []string{PathInstance, PathConsole, PathNotifications, PathAccounts}
	for _, p := range paths {
		r.Navigate(p, nil)
	}
	// 5 distinct points visited (initial home plus 4), one of them current.
	r.mu.Lock()
	total := len(r.past) + len(r.future) + 1
	r.mu.Unlock()
	assert.Equal(t, 5, total)

	r.Backwards()
	r.Backwards()
	r.mu.Lock()
	total = len(r.past) + len(r.future) + 1
	r.mu.Unlock()
	assert.Equal(t, 5, total, "back/forward must not lose entries")
}

func TestDuplicateNavigationElided(t *testing.T) {
	r := New()

	opts := &Options{Params: map[string]string{"slug": "skyblock"}}
	r.Navigate(PathConsole, opts)
	r.Navigate(PathConsole, &Options{Params: map[string]string{"slug": "skyblock"}})

	r.mu.Lock()
	pastLen := len(r.past)
	r.mu.Unlock()
	assert.Equal(t, 1, pastLen, "identical navigation must not push history")
}

func TestUnknownPathFallsBackToInvalid(t *testing.T) {
	r := New()
	r.Navigate("/does-not-exist", nil)
	assert.Equal(t, PathInvalid, r.Current().Path)
	assert.Equal(t, "/does-not-exist", r.Current().Props["requested"])
}

func TestNavigateMergeOverlaysState(t *testing.T) {
	r := New()

	r.Navigate(PathConsole, &Options{
		Params: map[string]string{"slug": "skyblock"},
		Props:  map[string]string{"follow": "true"},
	})
	r.Navigate(PathConsole, &Options{
		Merge: true,
		Props: map[string]string{"filter": "ERROR"},
	})

	cur := r.Current()
	assert.Equal(t, "skyblock", cur.Params["slug"])
	assert.Equal(t, "true", cur.Props["follow"])
	assert.Equal(t, "ERROR", cur.Props["filter"])

	// Without merge, params and props are replaced entirely.
	r.Navigate(PathConsole, &Options{Props: map[string]string{"filter": "WARN"}})
	cur = r.Current()
	assert.Empty(t, cur.Params)
	assert.Equal(t, map[string]string{"filter": "WARN"}, cur.Props)
}

func TestReloadInvokesRegisteredRefetch(t *testing.T) {
	r := New()
	r.Navigate(PathConsole, nil)

	called := 0
	r.RegisterRefetch(PathConsole, func() { called++ })

	r.Reload()
	assert.Equal(t, 1, called)

	// No refetch registered: logged no-op, not a failure.
	r.Navigate(PathAccounts, nil)
	r.Reload()
	assert.Equal(t, 1, called)
}

func TestOnChangeFiresPerMutation(t *testing.T) {
	r := New()

	fired := 0
	r.OnChange(func() { fired++ })

	r.Navigate(PathConsole, nil)
	r.Backwards()
	r.Forwards()
	assert.Equal(t, 3, fired)

	// Elided and no-op transitions stay silent.
	r.Forwards()
	r.Navigate(PathConsole, nil)
	assert.Equal(t, 3, fired)
}

func TestHistoryBounded(t *testing.T) {
	r := New()

	for i := 0; i < maxHistory+50; i++ {
		p := PathConsole
		if i%2 == 0 {
			p = PathInstance
		}
		r.Navigate(p, &Options{Props: map[string]string{"n": string(rune('a' + i%26))}})
	}

	r.mu.Lock()
	pastLen := len(r.past)
	r.mu.Unlock()
	assert.LessOrEqual(t, pastLen, maxHistory)
}

func TestGenerateAndParseURLRoundTrip(t *testing.T) {
	r := New()
	r.Navigate(PathInstance, &Options{
		Params: map[string]string{"slug": "all-the-mods", "id": "12"},
		Props:  map[string]string{"tab": "resource packs"},
	})

	raw := r.GenerateURL()
	assert.Equal(t, "quarry://instance?id=12&slug=all-the-mods&tab=resource+packs", raw)

	entry, err := ParseURL(raw)
	require.NoError(t, err)
	assert.Equal(t, r.Current(), entry)
}

func TestParseURLSplitsParamsFromProps(t *testing.T) {
	entry, err := ParseURL("quarry://console?slug=skyblock&follow=true")
	require.NoError(t, err)

	assert.Equal(t, "/console", entry.Path)
	assert.Equal(t, map[string]string{"slug": "skyblock"}, entry.Params)
	assert.Equal(t, map[string]string{"follow": "true"}, entry.Props)
}

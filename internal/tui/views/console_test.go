package views

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quarrylab/quarry/internal/bridge"
	"github.com/quarrylab/quarry/internal/bridge/bridgetest"
	"github.com/quarrylab/quarry/internal/router"
	"github.com/quarrylab/quarry/internal/storage/sqlite"
	"github.com/quarrylab/quarry/internal/stores/console"
)

func TestSetEntryDefersCatchUpToCommand(t *testing.T) {
	fake := bridgetest.New()
	fake.StubResult(bridge.CmdGetInstanceLogHistory, map[string]interface{}{"files": nil})
	fake.StubResult(bridge.CmdReadInstanceLog, map[string]interface{}{"lines": []string{"hello"}})

	stores := &Stores{Bridge: fake, Console: console.NewStore(fake, 500, nil)}
	m := NewConsoleModel(stores, nil)

	cmd := m.SetEntry(router.Entry{
		Path:   "/instance/skyblock/console",
		Params: map[string]string{"slug": "skyblock"},
	})
	require.NotNil(t, cmd)

	// The attach blocks on the catch-up invoke, so it must run as a
	// command, not inside the update path.
	assert.Empty(t, fake.Invocations(bridge.CmdReadInstanceLog))

	batch, ok := cmd().(tea.BatchMsg)
	require.True(t, ok)
	var attached tea.Msg
	for _, sub := range batch {
		if msg, ok := sub().(ConsoleAttachedMsg); ok {
			attached = msg
		}
	}
	require.NotNil(t, attached)
	require.Len(t, fake.Invocations(bridge.CmdReadInstanceLog), 1)

	next, _ := m.Update(attached)
	cm := next.(ConsoleModel)
	require.Len(t, cm.stores.Console.Lines(), 1)
	assert.Equal(t, 1, fake.SubscriberCount(bridge.EventInstanceLog))

	cm.Detach()
	assert.Zero(t, fake.SubscriberCount(bridge.EventInstanceLog))
}

func TestSetEntryMarksRecentLogFiles(t *testing.T) {
	fake := bridgetest.New()
	fake.StubResult(bridge.CmdGetInstanceLogHistory, map[string]interface{}{"files": nil})
	fake.StubResult(bridge.CmdReadInstanceLog, map[string]interface{}{"lines": []string{}})

	session, err := sqlite.New(t.TempDir())
	require.NoError(t, err)
	defer session.Close()
	require.NoError(t, session.AddRecentLogFile("skyblock", "logs/2026-08-01.log"))

	stores := &Stores{Bridge: fake, Console: console.NewStore(fake, 500, nil)}
	m := NewConsoleModel(stores, session)
	m.SetEntry(router.Entry{Params: map[string]string{"slug": "skyblock"}})

	assert.True(t, m.recent["logs/2026-08-01.log"], "previously opened file flagged")
	assert.False(t, m.recent["logs/other.log"])
}

func TestStaleAttachIsTornDown(t *testing.T) {
	fake := bridgetest.New()
	fake.StubResult(bridge.CmdGetInstanceLogHistory, map[string]interface{}{"files": nil})
	fake.StubResult(bridge.CmdReadInstanceLog, map[string]interface{}{"lines": []string{}})

	stores := &Stores{Bridge: fake, Console: console.NewStore(fake, 500, nil)}
	m := NewConsoleModel(stores, nil)

	firstCmd := m.SetEntry(router.Entry{Params: map[string]string{"slug": "skyblock"}})
	secondCmd := m.SetEntry(router.Entry{Params: map[string]string{"slug": "all-the-mods"}})

	runAttach := func(cmd tea.Cmd) tea.Msg {
		batch, ok := cmd().(tea.BatchMsg)
		require.True(t, ok)
		for _, sub := range batch {
			if msg, ok := sub().(ConsoleAttachedMsg); ok {
				return msg
			}
		}
		t.Fatal("no attach message in batch")
		return nil
	}

	// The route moved on to all-the-mods before the skyblock attach
	// landed, so its subscriptions must be released on arrival.
	second := runAttach(secondCmd)
	next, _ := m.Update(second)
	cm := next.(ConsoleModel)
	require.Equal(t, 1, fake.SubscriberCount(bridge.EventInstanceLog))

	first := runAttach(firstCmd)
	next, _ = cm.Update(first)
	cm = next.(ConsoleModel)
	assert.Equal(t, 1, fake.SubscriberCount(bridge.EventInstanceLog))

	cm.Detach()
	assert.Zero(t, fake.SubscriberCount(bridge.EventInstanceLog))
}

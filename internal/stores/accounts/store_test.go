package accounts

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quarrylab/quarry/internal/bridge"
	"github.com/quarrylab/quarry/internal/bridge/bridgetest"
	"github.com/quarrylab/quarry/internal/models"
)

func testAccounts() []models.Account {
	return []models.Account{
		{ID: "acc-1", Username: "steve", Active: true},
		{ID: "acc-2", Username: "alex"},
	}
}

func newInitialized(t *testing.T, accs []models.Account, activeID string) (*Store, *bridgetest.Fake, func()) {
	t.Helper()

	fake := bridgetest.New()
	fake.StubResult(bridge.CmdGetAccounts, listAccountsResult{Accounts: accs})

	var active *models.Account
	for i := range accs {
		if accs[i].ID == activeID {
			active = &accs[i]
		}
	}
	fake.StubResult(bridge.CmdGetActiveAccount, activeAccountResult{Account: active})

	s := NewStore(fake)
	teardown := s.Init(context.Background())
	return s, fake, teardown
}

func TestRefreshMirrorsRosterAndActive(t *testing.T) {
	s, _, teardown := newInitialized(t, testAccounts(), "acc-1")
	defer teardown()

	require.Len(t, s.Accounts(), 2)
	active, ok := s.Active()
	require.True(t, ok)
	assert.Equal(t, "steve", active.Username)
	assert.False(t, s.IsGuest())
}

func TestNoActiveAccountIsGuest(t *testing.T) {
	s, _, teardown := newInitialized(t, testAccounts(), "")
	defer teardown()

	_, ok := s.Active()
	assert.False(t, ok)
	assert.True(t, s.IsGuest())
}

func TestSetActive(t *testing.T) {
	s, fake, teardown := newInitialized(t, testAccounts(), "acc-1")
	defer teardown()
	fake.StubResult(bridge.CmdSetActiveAccount, nil)

	require.NoError(t, s.SetActive(context.Background(), "acc-2"))

	active, ok := s.Active()
	require.True(t, ok)
	assert.Equal(t, "acc-2", active.ID)

	calls := fake.Invocations(bridge.CmdSetActiveAccount)
	require.Len(t, calls, 1)
}

func TestSetActiveBumpsTrigger(t *testing.T) {
	s, fake, teardown := newInitialized(t, testAccounts(), "acc-1")
	defer teardown()
	fake.StubResult(bridge.CmdSetActiveAccount, nil)

	before := s.Trigger()
	require.NoError(t, s.SetActive(context.Background(), "acc-2"))
	assert.Equal(t, before+1, s.Trigger(), "account switch must ask downstream mirrors to re-pull")
}

func TestRemovePromotionBumpsTrigger(t *testing.T) {
	s, fake, teardown := newInitialized(t, testAccounts(), "acc-1")
	defer teardown()
	fake.StubResult(bridge.CmdRemoveAccount, nil)
	fake.StubResult(bridge.CmdSetActiveAccount, nil)

	before := s.Trigger()
	require.NoError(t, s.Remove(context.Background(), "acc-1"))
	assert.Equal(t, before+1, s.Trigger())
}

func TestSetActiveFailureKeepsSelection(t *testing.T) {
	s, fake, teardown := newInitialized(t, testAccounts(), "acc-1")
	defer teardown()
	fake.Stub(bridge.CmdSetActiveAccount, func(json.RawMessage) (interface{}, error) {
		return nil, fmt.Errorf("account expired")
	})

	require.Error(t, s.SetActive(context.Background(), "acc-2"))
	active, _ := s.Active()
	assert.Equal(t, "acc-1", active.ID)
}

func TestRemoveActivePromotesFirstRemaining(t *testing.T) {
	s, fake, teardown := newInitialized(t, testAccounts(), "acc-1")
	defer teardown()
	fake.StubResult(bridge.CmdRemoveAccount, nil)
	fake.StubResult(bridge.CmdSetActiveAccount, nil)

	require.NoError(t, s.Remove(context.Background(), "acc-1"))

	require.Len(t, s.Accounts(), 1)
	active, ok := s.Active()
	require.True(t, ok)
	assert.Equal(t, "acc-2", active.ID)
	assert.Empty(t, fake.Invocations(bridge.CmdResetApp))
}

func TestRemoveInactiveLeavesActiveAlone(t *testing.T) {
	s, fake, teardown := newInitialized(t, testAccounts(), "acc-1")
	defer teardown()
	fake.StubResult(bridge.CmdRemoveAccount, nil)

	require.NoError(t, s.Remove(context.Background(), "acc-2"))

	active, ok := s.Active()
	require.True(t, ok)
	assert.Equal(t, "acc-1", active.ID)
	assert.Empty(t, fake.Invocations(bridge.CmdSetActiveAccount))
}

func TestRemoveSoleAccountResetsApp(t *testing.T) {
	only := []models.Account{{ID: "acc-1", Username: "steve", Active: true}}
	s, fake, teardown := newInitialized(t, only, "acc-1")
	defer teardown()
	fake.StubResult(bridge.CmdResetApp, nil)

	resetFired := false
	s.OnReset(func() { resetFired = true })

	require.NoError(t, s.Remove(context.Background(), "acc-1"))

	assert.True(t, resetFired)
	assert.Empty(t, s.Accounts())
	assert.True(t, s.IsGuest())
	require.Len(t, fake.Invocations(bridge.CmdResetApp), 1)
	assert.Empty(t, fake.Invocations(bridge.CmdRemoveAccount))
}

func TestHeadUpdateBumpsTrigger(t *testing.T) {
	s, fake, teardown := newInitialized(t, testAccounts(), "acc-1")
	defer teardown()

	before := s.Trigger()
	fake.Emit(bridge.EventAccountHeadsUpdated, nil)
	assert.Equal(t, before+1, s.Trigger())
}

func TestRemoveFailureLeavesRoster(t *testing.T) {
	s, fake, teardown := newInitialized(t, testAccounts(), "acc-1")
	defer teardown()
	fake.Stub(bridge.CmdRemoveAccount, func(json.RawMessage) (interface{}, error) {
		return nil, fmt.Errorf("backend says no")
	})

	require.Error(t, s.Remove(context.Background(), "acc-2"))
	assert.Len(t, s.Accounts(), 2)
}

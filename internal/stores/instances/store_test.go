package instances

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quarrylab/quarry/internal/bridge"
	"github.com/quarrylab/quarry/internal/bridge/bridgetest"
	"github.com/quarrylab/quarry/internal/models"
)

func testInstances() []models.Instance {
	return []models.Instance{
		{ID: 1, Slug: "all-the-mods", Name: "All The Mods", Version: "1.21", Loader: "forge"},
		{ID: 2, Slug: "skyblock", Name: "Skyblock", Version: "1.20.1", Loader: "fabric"},
	}
}

func newInitialized(t *testing.T, guest bool) (*Store, *bridgetest.Fake, func()) {
	t.Helper()

	fake := bridgetest.New()
	fake.StubResult(bridge.CmdListInstances, listInstancesResult{Instances: testInstances()})

	s := NewStore(fake)
	s.SetGuest(guest)
	teardown := s.Init(context.Background())
	return s, fake, teardown
}

func TestInitializeReplacesMirror(t *testing.T) {
	s, fake, teardown := newInitialized(t, false)
	defer teardown()

	require.Len(t, s.Instances(), 2)

	fake.StubResult(bridge.CmdListInstances, listInstancesResult{
		Instances: []models.Instance{{ID: 7, Slug: "vault-hunters", Name: "Vault Hunters"}},
	})
	require.NoError(t, s.Initialize(context.Background()))

	got := s.Instances()
	require.Len(t, got, 1)
	assert.Equal(t, "vault-hunters", got[0].Slug)
}

func TestGuestSeesDemoInstanceFirst(t *testing.T) {
	s, _, teardown := newInitialized(t, true)
	defer teardown()

	got := s.Instances()
	require.Len(t, got, 3)
	assert.Equal(t, models.GuestInstanceID, got[0].ID)
	assert.Equal(t, "demo", got[0].Slug)
	assert.Equal(t, "all-the-mods", got[1].Slug)
}

func TestReconcilersPatchByID(t *testing.T) {
	s, fake, teardown := newInitialized(t, false)
	defer teardown()

	fake.Emit(bridge.EventInstanceCreated, bridge.InstanceEvent{
		Instance: models.Instance{ID: 3, Slug: "create-astral", Name: "Create Astral"},
	})
	require.Len(t, s.Instances(), 3)

	fake.Emit(bridge.EventInstanceUpdated, bridge.InstanceEvent{
		Instance: models.Instance{ID: 2, Slug: "skyblock", Name: "Skyblock Remastered", Version: "1.20.1"},
	})
	inst, ok := s.Get("skyblock")
	require.True(t, ok)
	assert.Equal(t, "Skyblock Remastered", inst.Name)
	require.Len(t, s.Instances(), 3)

	fake.Emit(bridge.EventInstanceDeleted, bridge.InstanceDeletedEvent{ID: 1})
	got := s.Instances()
	require.Len(t, got, 2)
	for _, inst := range got {
		assert.NotEqual(t, int64(1), inst.ID)
	}
}

func TestUpdateForUnknownIDAppends(t *testing.T) {
	s, fake, teardown := newInitialized(t, false)
	defer teardown()

	// An install finishing on an instance created before this window
	// attached must not be dropped.
	fake.Emit(bridge.EventInstanceInstalled, bridge.InstanceEvent{
		Instance: models.Instance{ID: 9, Slug: "stoneblock", Name: "Stoneblock"},
	})

	_, ok := s.Get("stoneblock")
	assert.True(t, ok)
	assert.Len(t, s.Instances(), 3)
}

func TestDemoInstanceIgnoresReconcilers(t *testing.T) {
	s, fake, teardown := newInitialized(t, true)
	defer teardown()

	fake.Emit(bridge.EventInstanceUpdated, bridge.InstanceEvent{
		Instance: models.Instance{ID: models.GuestInstanceID, Slug: "demo", Name: "Hijacked"},
	})
	fake.Emit(bridge.EventInstanceDeleted, bridge.InstanceDeletedEvent{ID: models.GuestInstanceID})

	got := s.Instances()
	require.Len(t, got, 3)
	assert.Equal(t, "Demo World", got[0].Name)
}

func TestLaunchStateMachine(t *testing.T) {
	s, fake, teardown := newInitialized(t, false)
	defer teardown()
	fake.StubResult(bridge.CmdLaunchInstance, nil)

	assert.Equal(t, models.LaunchIdle, s.State("all-the-mods"))

	require.NoError(t, s.Launch(context.Background(), "all-the-mods"))
	assert.Equal(t, models.LaunchPending, s.State("all-the-mods"))

	fake.Emit(bridge.EventInstanceLaunched, bridge.InstanceLaunchedEvent{
		Slug:      "all-the-mods",
		PID:       4242,
		StartTime: time.Now().Unix(),
	})
	assert.Equal(t, models.LaunchRunning, s.State("all-the-mods"))

	info, ok := s.Running("all-the-mods")
	require.True(t, ok)
	assert.Equal(t, 4242, info.PID)

	since, ok := s.RunningSince("all-the-mods")
	require.True(t, ok)
	assert.False(t, since.IsZero())
}

func TestLaunchFailureClearsPending(t *testing.T) {
	s, fake, teardown := newInitialized(t, false)
	defer teardown()
	fake.Stub(bridge.CmdLaunchInstance, func(json.RawMessage) (interface{}, error) {
		return nil, fmt.Errorf("java not found")
	})

	err := s.Launch(context.Background(), "skyblock")
	require.Error(t, err)
	assert.Equal(t, models.LaunchFailed, s.State("skyblock"))
	assert.Equal(t, "java not found", s.FailureReason("skyblock"))
}

func TestPendingExpiresAfterTimeout(t *testing.T) {
	fake := bridgetest.New()
	fake.StubResult(bridge.CmdListInstances, listInstancesResult{Instances: testInstances()})
	fake.StubResult(bridge.CmdLaunchInstance, nil)

	s := NewStore(fake)
	s.pendingTimeout = 10 * time.Millisecond
	teardown := s.Init(context.Background())
	defer teardown()

	require.NoError(t, s.Launch(context.Background(), "skyblock"))
	assert.Equal(t, models.LaunchPending, s.State("skyblock"))

	assert.Eventually(t, func() bool {
		return s.State("skyblock") == models.LaunchFailed
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, "launch timed out", s.FailureReason("skyblock"))
}

func TestExternalLaunchRequestMarksPending(t *testing.T) {
	s, fake, teardown := newInitialized(t, false)
	defer teardown()

	fake.Emit(bridge.EventLaunchRequested, bridge.LaunchRequestedEvent{Slug: "all-the-mods"})
	assert.Equal(t, models.LaunchPending, s.State("all-the-mods"))
}

func TestExitClearsRunningAndBumpsTrigger(t *testing.T) {
	s, fake, teardown := newInitialized(t, false)
	defer teardown()
	fake.StubResult(bridge.CmdLaunchInstance, nil)

	require.NoError(t, s.Launch(context.Background(), "all-the-mods"))
	fake.Emit(bridge.EventInstanceLaunched, bridge.InstanceLaunchedEvent{
		Slug: "all-the-mods", PID: 99, StartTime: time.Now().Unix(),
	})
	require.Equal(t, 1, s.RunningCount())
	before := s.Trigger()

	fake.Emit(bridge.EventInstanceExited, bridge.InstanceExitedEvent{Slug: "all-the-mods", ExitCode: 0})

	assert.Equal(t, 0, s.RunningCount())
	assert.Equal(t, models.LaunchIdle, s.State("all-the-mods"))
	assert.Equal(t, before+1, s.Trigger())
}

func TestTeardownUnsubscribes(t *testing.T) {
	s, fake, teardown := newInitialized(t, false)

	teardown()
	fake.Emit(bridge.EventInstanceCreated, bridge.InstanceEvent{
		Instance: models.Instance{ID: 5, Slug: "ghost"},
	})

	assert.Len(t, s.Instances(), 2)
	assert.Equal(t, 0, fake.SubscriberCount(bridge.EventInstanceCreated))
}

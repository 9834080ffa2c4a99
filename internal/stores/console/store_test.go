package console

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

func TestParseLineWellFormed(t *testing.T) {
	line := ParseLine(0, "[12:34:56] [main/INFO]: Hello")

	assert.Equal(t, "12:34:56", line.Timestamp)
	assert.Equal(t, "main", line.Thread)
	assert.Equal(t, models.LevelInfo, line.Level)
	assert.Equal(t, "Hello", line.Message)
	assert.Equal(t, "[12:34:56] [main/INFO]: Hello", line.Raw)
}

func TestParseLineGarbageDegradesToUnknown(t *testing.T) {
	line := ParseLine(3, "garbage text")

	assert.Equal(t, "", line.Timestamp)
	assert.Equal(t, "", line.Thread)
	assert.Equal(t, models.LevelUnknown, line.Level)
	assert.Equal(t, "garbage text", line.Message)
	assert.Equal(t, 3, line.ID)
}

func TestParseLineThreadWithSpaces(t *testing.T) {
	line := ParseLine(0, "[09:01:02] [Server thread/WARN]: Can't keep up!")

	assert.Equal(t, "Server thread", line.Thread)
	assert.Equal(t, models.LevelWarn, line.Level)
	assert.Equal(t, "Can't keep up!", line.Message)
}

func TestBufferEvictsOldestAtCapacity(t *testing.T) {
	s := NewStore(bridgetest.New(), 500, nil)

	lines := make([]string, MaxLines)
	for i := range lines {
		lines[i] = fmt.Sprintf("line %d", i)
	}
	s.AppendRawLines(lines)
	require.Len(t, s.Lines(), MaxLines)

	s.AppendRawLines([]string{"one more"})

	got := s.Lines()
	require.Len(t, got, MaxLines)
	assert.Equal(t, "line 1", got[0].Message, "oldest entry evicted")
	assert.Equal(t, "one more", got[MaxLines-1].Message)
	for i := 1; i < len(got); i++ {
		assert.Greater(t, got[i].ID, got[i-1].ID, "ordering preserved")
	}
}

func TestInitSubscribesOnlyAfterCatchUpResolves(t *testing.T) {
	fake := bridgetest.New()
	fake.StubResult(bridge.CmdGetInstanceLogHistory, map[string]interface{}{"files": nil})

	// While the catch-up is in flight the backend pushes a live line. With
	// the subscription established only after catch-up resolves, that push
	// can never be processed ahead of the backfill.
	fake.Stub(bridge.CmdReadInstanceLog, func(json.RawMessage) (interface{}, error) {
		fake.Emit(bridge.EventInstanceLog, bridge.InstanceLogEvent{
			InstanceKey: "skyblock",
			Lines:       []string{"early live line"},
		})
		return map[string]interface{}{"lines": []string{"backfill 1", "backfill 2"}}, nil
	})

	s := NewStore(fake, 500, nil)
	teardown := s.Init(context.Background(), "skyblock")
	defer teardown()

	fake.Emit(bridge.EventInstanceLog, bridge.InstanceLogEvent{
		InstanceKey: "skyblock",
		Lines:       []string{"live after catch-up"},
	})

	got := s.Lines()
	require.Len(t, got, 3)
	assert.Equal(t, "backfill 1", got[0].Message)
	assert.Equal(t, "backfill 2", got[1].Message)
	assert.Equal(t, "live after catch-up", got[2].Message)
}

func TestFileHistoryBusyClearsAfterFetch(t *testing.T) {
	fake := bridgetest.New()
	fake.StubResult(bridge.CmdReadInstanceLog, map[string]interface{}{"lines": []string{}})

	release := make(chan struct{})
	fake.Stub(bridge.CmdGetInstanceLogHistory, func(json.RawMessage) (interface{}, error) {
		<-release
		return map[string]interface{}{"files": nil}, nil
	})

	s := NewStore(fake, 500, nil)
	teardown := s.Init(context.Background(), "skyblock")
	defer teardown()

	assert.True(t, s.FilesBusy(), "flag held while the fetch is in flight")

	close(release)
	require.Eventually(t, func() bool { return !s.FilesBusy() }, time.Second, 5*time.Millisecond)
}

func TestFirstCatchUpBoundedByTail(t *testing.T) {
	fake := bridgetest.New()
	fake.StubResult(bridge.CmdGetInstanceLogHistory, map[string]interface{}{"files": nil})
	fake.StubResult(bridge.CmdReadInstanceLog, map[string]interface{}{"lines": []string{}})

	s := NewStore(fake, 250, nil)
	teardown := s.Init(context.Background(), "skyblock")
	defer teardown()

	invs := fake.Invocations(bridge.CmdReadInstanceLog)
	require.Len(t, invs, 1)

	var params readLogParams
	require.NoError(t, json.Unmarshal(invs[0].Params, &params))
	assert.Equal(t, 250, params.Tail)
	assert.Empty(t, params.Since)

	// A subsequent catch-up carries the watermark instead of the tail bound.
	s.CatchUp(context.Background())
	invs = fake.Invocations(bridge.CmdReadInstanceLog)
	require.Len(t, invs, 2)
	var second readLogParams
	require.NoError(t, json.Unmarshal(invs[1].Params, &second))
	assert.NotEmpty(t, second.Since)
	assert.Zero(t, second.Tail)
}

func TestFirstCatchUpUsesProcessStartWhenRunning(t *testing.T) {
	fake := bridgetest.New()
	fake.StubResult(bridge.CmdGetInstanceLogHistory, map[string]interface{}{"files": nil})
	fake.StubResult(bridge.CmdReadInstanceLog, map[string]interface{}{"lines": []string{}})

	start := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)
	s := NewStore(fake, 500, func(key string) (time.Time, bool) {
		return start, key == "skyblock"
	})
	teardown := s.Init(context.Background(), "skyblock")
	defer teardown()

	invs := fake.Invocations(bridge.CmdReadInstanceLog)
	require.Len(t, invs, 1)

	var params readLogParams
	require.NoError(t, json.Unmarshal(invs[0].Params, &params))
	assert.Equal(t, start.Format(time.RFC3339), params.Since)
	assert.Zero(t, params.Tail)
}

func TestCatchUpFailureLeavesBufferAndClearsBusy(t *testing.T) {
	fake := bridgetest.New()
	fake.StubResult(bridge.CmdGetInstanceLogHistory, map[string]interface{}{"files": nil})
	fake.StubResult(bridge.CmdReadInstanceLog, map[string]interface{}{"lines": []string{"kept"}})

	s := NewStore(fake, 500, nil)
	teardown := s.Init(context.Background(), "skyblock")
	defer teardown()
	require.Len(t, s.Lines(), 1)

	fake.Stub(bridge.CmdReadInstanceLog, func(json.RawMessage) (interface{}, error) {
		return nil, fmt.Errorf("backend unavailable")
	})
	s.CatchUp(context.Background())

	assert.Len(t, s.Lines(), 1, "failed fetch must not clobber the buffer")
	assert.False(t, s.Busy())
}

func TestLiveLinesForOtherInstancesIgnored(t *testing.T) {
	fake := bridgetest.New()
	fake.StubResult(bridge.CmdGetInstanceLogHistory, map[string]interface{}{"files": nil})
	fake.StubResult(bridge.CmdReadInstanceLog, map[string]interface{}{"lines": []string{}})

	s := NewStore(fake, 500, nil)
	teardown := s.Init(context.Background(), "skyblock")
	defer teardown()

	fake.Emit(bridge.EventInstanceLog, bridge.InstanceLogEvent{
		InstanceKey: "other-pack",
		Lines:       []string{"not mine"},
	})

	assert.Empty(t, s.Lines())
}

func TestHistoricalModeExcludesLiveThenGoLiveResumes(t *testing.T) {
	fake := bridgetest.New()
	fake.StubResult(bridge.CmdGetInstanceLogHistory, map[string]interface{}{"files": nil})
	fake.StubResult(bridge.CmdReadInstanceLog, map[string]interface{}{"lines": []string{"live buffer"}})
	fake.StubResult(bridge.CmdReadSpecificLogFile, map[string]interface{}{"lines": []string{"old session line"}})

	s := NewStore(fake, 500, nil)
	teardown := s.Init(context.Background(), "skyblock")
	defer teardown()

	s.ViewHistoricalLog(context.Background(), "logs/2026-03-13-1.log")
	require.False(t, s.Live())

	got := s.Lines()
	require.Len(t, got, 1)
	assert.Equal(t, "old session line", got[0].Message)

	fake.Emit(bridge.EventInstanceLog, bridge.InstanceLogEvent{
		InstanceKey: "skyblock",
		Lines:       []string{"streamed while historical"},
	})
	assert.Len(t, s.Lines(), 1, "live pushes must not leak into historical view")

	s.GoLive(context.Background())
	require.True(t, s.Live())
	got = s.Lines()
	require.Len(t, got, 1)
	assert.Equal(t, "live buffer", got[0].Message)

	fake.Emit(bridge.EventInstanceLog, bridge.InstanceLogEvent{
		InstanceKey: "skyblock",
		Lines:       []string{"streamed after go-live"},
	})
	assert.Len(t, s.Lines(), 2)
}

func TestGoLiveAppendsBackfillBeforeLivePushes(t *testing.T) {
	fake := bridgetest.New()
	fake.StubResult(bridge.CmdGetInstanceLogHistory, map[string]interface{}{"files": nil})
	fake.StubResult(bridge.CmdReadInstanceLog, map[string]interface{}{"lines": []string{}})
	fake.StubResult(bridge.CmdReadSpecificLogFile, map[string]interface{}{"lines": []string{"old session line"}})

	s := NewStore(fake, 500, nil)
	teardown := s.Init(context.Background(), "skyblock")
	defer teardown()

	s.ViewHistoricalLog(context.Background(), "logs/2026-03-13-1.log")
	require.False(t, s.Live())

	// Unlike Init, GoLive runs with the live subscriptions already armed. A
	// push landing while its catch-up is in flight must not land ahead of
	// the backfill; the catch-up response covers that window.
	fake.Stub(bridge.CmdReadInstanceLog, func(json.RawMessage) (interface{}, error) {
		fake.Emit(bridge.EventInstanceLog, bridge.InstanceLogEvent{
			InstanceKey: "skyblock",
			Lines:       []string{"live during catch-up"},
		})
		return map[string]interface{}{"lines": []string{"backfill 1", "backfill 2"}}, nil
	})

	s.GoLive(context.Background())
	require.True(t, s.Live())

	fake.Emit(bridge.EventInstanceLog, bridge.InstanceLogEvent{
		InstanceKey: "skyblock",
		Lines:       []string{"live after catch-up"},
	})

	got := s.Lines()
	require.Len(t, got, 3)
	assert.Equal(t, "backfill 1", got[0].Message)
	assert.Equal(t, "backfill 2", got[1].Message)
	assert.Equal(t, "live after catch-up", got[2].Message)
}

func TestTeardownUnsubscribes(t *testing.T) {
	fake := bridgetest.New()
	fake.StubResult(bridge.CmdGetInstanceLogHistory, map[string]interface{}{"files": nil})
	fake.StubResult(bridge.CmdReadInstanceLog, map[string]interface{}{"lines": []string{}})

	s := NewStore(fake, 500, nil)
	teardown := s.Init(context.Background(), "skyblock")
	require.Equal(t, 1, fake.SubscriberCount(bridge.EventInstanceLog))

	teardown()
	assert.Equal(t, 0, fake.SubscriberCount(bridge.EventInstanceLog))

	fake.Emit(bridge.EventInstanceLog, bridge.InstanceLogEvent{
		InstanceKey: "skyblock",
		Lines:       []string{"after teardown"},
	})
	assert.Empty(t, s.Lines())
}

func TestCrashEventSetsMarkerUntilNextLaunch(t *testing.T) {
	fake := bridgetest.New()
	fake.StubResult(bridge.CmdGetInstanceLogHistory, map[string]interface{}{"files": nil})
	fake.StubResult(bridge.CmdReadInstanceLog, map[string]interface{}{"lines": []string{}})

	s := NewStore(fake, 500, nil)
	teardown := s.Init(context.Background(), "skyblock")
	defer teardown()

	fake.Emit(bridge.EventInstanceCrashed, bridge.InstanceCrashedEvent{Slug: "skyblock", Reason: "exit code 137"})
	assert.Equal(t, "exit code 137", s.CrashReason())

	fake.Emit(bridge.EventInstanceLaunched, bridge.InstanceLaunchedEvent{Slug: "skyblock", PID: 4242})
	assert.Empty(t, s.CrashReason())
}

func TestSearchAndLevelCounts(t *testing.T) {
	s := NewStore(bridgetest.New(), 500, nil)
	s.AppendRawLines([]string{
		"[10:00:00] [main/INFO]: Loading world",
		"[10:00:01] [main/ERROR]: Failed to bind port",
		"[10:00:02] [Render thread/INFO]: Shaders compiled",
		"garbage",
	})

	hits := s.Search("failed")
	require.Len(t, hits, 1)
	assert.Equal(t, models.LevelError, hits[0].Level)

	counts := s.LevelCounts()
	assert.Equal(t, 2, counts[models.LevelInfo])
	assert.Equal(t, 1, counts[models.LevelError])
	assert.Equal(t, 1, counts[models.LevelUnknown])
}

/*
 * Copyright (C) 2026 Mustafa Naseer (Mustafa Gaeed)
 *
 * This file is part of quarry.
 *
 * quarry is free software: you can redistribute it and/or modify
 * it under the terms of the MIT License as described in the
 * LICENSE file distributed with this project.
 *
 * quarry is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
 * MIT License for more details.
 *
 * You should have received a copy of the MIT License
 * along with quarry. If not, see the LICENSE file in the project root.
 */

package console

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"time"

	"github.com/quarrylab/quarry/internal/bridge"
	"github.com/quarrylab/quarry/internal/models"
	"github.com/quarrylab/quarry/pkg/logger"
)

// MaxLines bounds the in-memory buffer; the oldest entry is evicted first.
const MaxLines = 5000

// RunningSinceFunc reports the start time of a known-running instance; used
// as the catch-up watermark fallback on a fresh view.
type RunningSinceFunc func(instanceKey string) (time.Time, bool)

// Store presents one coherent, bounded log view per instance, blending a
// one-time historical catch-up with live streamed appends, or showing an
// arbitrary historical file instead. Single-writer: all mutations go through
// the store's own methods.
type Store struct {
	bridge       bridge.Bridge
	log          *logger.Logger
	catchUpTail  int
	runningSince RunningSinceFunc

	mu          sync.Mutex
	instanceKey string
	epoch       int
	lines       []models.LogLine
	nextID      int
	files       []models.LogFile
	busy        bool
	filesBusy   bool
	live        bool
	historical  string
	since       time.Time
	crashReason string
	onChange    func()
}

type readLogParams struct {
	InstanceKey string `json:"instance_key"`
	Since       string `json:"since,omitempty"`
	Tail        int    `json:"tail,omitempty"`
}

type readLogResult struct {
	Lines []string `json:"lines"`
}

type readFileParams struct {
	Path string `json:"path"`
}

type logHistoryParams struct {
	InstanceKey string `json:"instance_key"`
}

type logHistoryResult struct {
	Files []models.LogFile `json:"files"`
}

func NewStore(b bridge.Bridge, catchUpTail int, runningSince RunningSinceFunc) *Store {
	if catchUpTail <= 0 {
		catchUpTail = 500
	}
	return &Store{
		bridge:       b,
		log:          logger.With("CONSOLE"),
		catchUpTail:  catchUpTail,
		runningSince: runningSince,
	}
}

// OnChange registers the single re-render hook.
func (s *Store) OnChange(fn func()) {
	s.mu.Lock()
	s.onChange = fn
	s.mu.Unlock()
}

func (s *Store) notify() {
	s.mu.Lock()
	fn := s.onChange
	s.mu.Unlock()
	if fn != nil {
		fn()
	}
}

// Init resets the view for an instance, fetches file-history metadata
// without blocking the lines, performs the initial catch-up, and only then
// subscribes to live pushes, so no live line can be processed before the
// catch-up's lines are appended. The returned teardown must be invoked when
// the view goes away.
func (s *Store) Init(ctx context.Context, instanceKey string) func() {
	s.mu.Lock()
	s.epoch++
	epoch := s.epoch
	s.instanceKey = instanceKey
	s.lines = nil
	s.nextID = 0
	s.files = nil
	s.filesBusy = true
	s.live = true
	s.historical = ""
	s.since = time.Time{}
	s.crashReason = ""
	s.mu.Unlock()

	go s.fetchFileHistory(ctx, instanceKey, epoch)

	s.CatchUp(ctx)

	unsubs := []func(){
		s.bridge.Subscribe(bridge.EventInstanceLog, func(data json.RawMessage) {
			s.handleLogEvent(epoch, data)
		}),
		s.bridge.Subscribe(bridge.EventInstanceLaunched, func(data json.RawMessage) {
			s.handleLaunched(epoch, data)
		}),
		s.bridge.Subscribe(bridge.EventInstanceExited, func(data json.RawMessage) {
			s.handleExited(epoch, data)
		}),
		s.bridge.Subscribe(bridge.EventInstanceCrashed, func(data json.RawMessage) {
			s.handleCrashed(epoch, data)
		}),
	}

	return func() {
		for _, u := range unsubs {
			u()
		}
	}
}

// CatchUp requests lines since the watermark. On the very first call for a
// fresh view the request is bounded to the most recent lines (or to process
// start when the instance is known-running) instead of reading a whole
// session log. The busy flag is cleared no matter how the fetch ends; a
// failed fetch leaves the existing buffer untouched.
func (s *Store) CatchUp(ctx context.Context) {
	s.mu.Lock()
	epoch := s.epoch
	key := s.instanceKey
	since := s.since
	s.busy = true
	s.mu.Unlock()
	s.notify()

	defer func() {
		s.mu.Lock()
		s.busy = false
		s.mu.Unlock()
		s.notify()
	}()

	params := readLogParams{InstanceKey: key}
	switch {
	case !since.IsZero():
		params.Since = since.UTC().Format(time.RFC3339)
	default:
		if start, ok := s.runningStart(key); ok {
			params.Since = start.UTC().Format(time.RFC3339)
		} else {
			params.Tail = s.catchUpTail
		}
	}

	requestedAt := time.Now()
	data, err := s.bridge.Invoke(ctx, bridge.CmdReadInstanceLog, params)
	if err != nil {
		s.log.Error("catch-up for %s failed: %v", key, err)
		return
	}

	var result readLogResult
	if err := json.Unmarshal(data, &result); err != nil {
		s.log.Error("catch-up for %s: bad payload: %v", key, err)
		return
	}

	s.mu.Lock()
	if s.epoch != epoch {
		// View switched mid-flight; discard the stale round-trip.
		s.mu.Unlock()
		return
	}
	s.since = requestedAt
	s.appendLocked(result.Lines)
	s.mu.Unlock()
	s.notify()
}

func (s *Store) runningStart(key string) (time.Time, bool) {
	if s.runningSince == nil {
		return time.Time{}, false
	}
	return s.runningSince(key)
}

// AppendRawLines is the single mutation path for both catch-up and live
// lines, so parsing semantics cannot diverge by source.
func (s *Store) AppendRawLines(lines []string) {
	s.mu.Lock()
	s.appendLocked(lines)
	s.mu.Unlock()
	s.notify()
}

func (s *Store) appendLocked(lines []string) {
	for _, raw := range lines {
		s.lines = append(s.lines, ParseLine(s.nextID, raw))
		s.nextID++
	}
	if len(s.lines) > MaxLines {
		s.lines = s.lines[len(s.lines)-MaxLines:]
	}
}

// ViewHistoricalLog switches to non-live mode and reads the given file in
// full. Mutually exclusive with live tailing; GoLive switches back.
func (s *Store) ViewHistoricalLog(ctx context.Context, path string) {
	s.mu.Lock()
	epoch := s.epoch
	s.live = false
	s.historical = path
	s.lines = nil
	s.nextID = 0
	s.busy = true
	s.mu.Unlock()
	s.notify()

	defer func() {
		s.mu.Lock()
		s.busy = false
		s.mu.Unlock()
		s.notify()
	}()

	data, err := s.bridge.Invoke(ctx, bridge.CmdReadSpecificLogFile, readFileParams{Path: path})
	if err != nil {
		s.log.Error("read %s failed: %v", path, err)
		return
	}

	var result readLogResult
	if err := json.Unmarshal(data, &result); err != nil {
		s.log.Error("read %s: bad payload: %v", path, err)
		return
	}

	s.mu.Lock()
	if s.epoch != epoch || s.historical != path {
		s.mu.Unlock()
		return
	}
	s.appendLocked(result.Lines)
	s.mu.Unlock()
	s.notify()
}

// GoLive clears the watermark, re-runs catch-up and resumes accepting live
// pushes. Live mode is entered only after the catch-up resolves: the
// subscriptions from Init are still armed, so a push landing mid-flight
// would otherwise be appended ahead of the backfill.
func (s *Store) GoLive(ctx context.Context) {
	s.mu.Lock()
	epoch := s.epoch
	s.live = false
	s.historical = ""
	s.lines = nil
	s.nextID = 0
	s.since = time.Time{}
	s.mu.Unlock()

	s.CatchUp(ctx)

	s.mu.Lock()
	if s.epoch == epoch {
		s.live = true
	}
	s.mu.Unlock()
	s.notify()
}

func (s *Store) fetchFileHistory(ctx context.Context, instanceKey string, epoch int) {
	defer func() {
		s.mu.Lock()
		if s.epoch == epoch {
			s.filesBusy = false
		}
		s.mu.Unlock()
		s.notify()
	}()

	data, err := s.bridge.Invoke(ctx, bridge.CmdGetInstanceLogHistory, logHistoryParams{InstanceKey: instanceKey})
	if err != nil {
		s.log.Warn("log history for %s: %v", instanceKey, err)
		return
	}

	var result logHistoryResult
	if err := json.Unmarshal(data, &result); err != nil {
		s.log.Warn("log history for %s: bad payload: %v", instanceKey, err)
		return
	}

	s.mu.Lock()
	if s.epoch != epoch {
		s.mu.Unlock()
		return
	}
	s.files = result.Files
	s.mu.Unlock()
	s.notify()
}

func (s *Store) handleLogEvent(epoch int, data json.RawMessage) {
	var ev bridge.InstanceLogEvent
	if err := json.Unmarshal(data, &ev); err != nil {
		s.log.Warn("dropping malformed log event: %v", err)
		return
	}

	s.mu.Lock()
	if s.epoch != epoch || !s.live || ev.InstanceKey != s.instanceKey {
		s.mu.Unlock()
		return
	}
	s.appendLocked(ev.Lines)
	s.mu.Unlock()
	s.notify()
}

func (s *Store) handleLaunched(epoch int, data json.RawMessage) {
	var ev bridge.InstanceLaunchedEvent
	if err := json.Unmarshal(data, &ev); err != nil {
		return
	}

	s.mu.Lock()
	if s.epoch != epoch || ev.Slug != s.instanceKey {
		s.mu.Unlock()
		return
	}
	s.crashReason = ""
	s.mu.Unlock()
	s.notify()
}

func (s *Store) handleExited(epoch int, data json.RawMessage) {
	var ev bridge.InstanceExitedEvent
	if err := json.Unmarshal(data, &ev); err != nil {
		return
	}

	s.mu.Lock()
	match := s.epoch == epoch && ev.Slug == s.instanceKey
	s.mu.Unlock()
	if match {
		s.notify()
	}
}

func (s *Store) handleCrashed(epoch int, data json.RawMessage) {
	var ev bridge.InstanceCrashedEvent
	if err := json.Unmarshal(data, &ev); err != nil {
		s.log.Warn("dropping malformed crash event: %v", err)
		return
	}

	s.mu.Lock()
	if s.epoch != epoch || ev.Slug != s.instanceKey {
		s.mu.Unlock()
		return
	}
	s.crashReason = ev.Reason
	s.mu.Unlock()
	s.notify()
}

func (s *Store) Lines() []models.LogLine {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.LogLine, len(s.lines))
	copy(out, s.lines)
	return out
}

// Search returns buffered lines whose message or thread contains the term,
// case-insensitive. An empty term returns everything.
func (s *Store) Search(term string) []models.LogLine {
	if term == "" {
		return s.Lines()
	}
	needle := strings.ToLower(term)

	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.LogLine
	for _, line := range s.lines {
		if strings.Contains(strings.ToLower(line.Message), needle) ||
			strings.Contains(strings.ToLower(line.Thread), needle) {
			out = append(out, line)
		}
	}
	return out
}

// LevelCounts tallies buffered lines per level for the console header.
func (s *Store) LevelCounts() map[models.LogLevel]int {
	s.mu.Lock()
	defer s.mu.Unlock()
	counts := make(map[models.LogLevel]int)
	for _, line := range s.lines {
		counts[line.Level]++
	}
	return counts
}

func (s *Store) Files() []models.LogFile {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.LogFile, len(s.files))
	copy(out, s.files)
	return out
}

func (s *Store) Busy() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.busy
}

// FilesBusy reports whether the file-history fetch is still in flight.
func (s *Store) FilesBusy() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filesBusy
}

func (s *Store) Live() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.live
}

func (s *Store) HistoricalPath() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.historical
}

func (s *Store) CrashReason() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.crashReason
}

func (s *Store) InstanceKey() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.instanceKey
}

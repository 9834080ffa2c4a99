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

package instances

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/quarrylab/quarry/internal/bridge"
	"github.com/quarrylab/quarry/internal/models"
	"github.com/quarrylab/quarry/pkg/logger"
)

// DefaultPendingTimeout clears an optimistic launch flag the backend never
// confirmed, so Pending cannot dangle forever.
const DefaultPendingTimeout = 60 * time.Second

// Store mirrors backend-owned instance records plus two purely local
// side-tables: optimistic launch flags and the running set keyed by slug.
// Running state never leaks into the persisted record.
type Store struct {
	bridge         bridge.Bridge
	log            *logger.Logger
	pendingTimeout time.Duration

	mu        sync.Mutex
	instances []models.Instance
	running   map[string]models.RunningInfo
	launching map[string]time.Time
	failed    map[string]string
	guest     bool
	trigger   int
	onChange  func()
}

type launchParams struct {
	Slug string `json:"slug"`
}

type listInstancesResult struct {
	Instances []models.Instance `json:"instances"`
}

func NewStore(b bridge.Bridge) *Store {
	return &Store{
		bridge:         b,
		log:            logger.With("INSTANCES"),
		pendingTimeout: DefaultPendingTimeout,
		running:        make(map[string]models.RunningInfo),
		launching:      make(map[string]time.Time),
		failed:         make(map[string]string),
	}
}

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

// SetGuest flips the guest-account presentation; callers re-run Initialize
// afterwards.
func (s *Store) SetGuest(guest bool) {
	s.mu.Lock()
	s.guest = guest
	s.mu.Unlock()
}

// Initialize replaces the local mirror with a full backend refetch. For
// guest accounts a synthetic demo instance is prepended for display only; it
// never round-trips to the backend.
func (s *Store) Initialize(ctx context.Context) error {
	data, err := s.bridge.Invoke(ctx, bridge.CmdListInstances, nil)
	if err != nil {
		return err
	}

	var result listInstancesResult
	if err := json.Unmarshal(data, &result); err != nil {
		return err
	}

	s.mu.Lock()
	s.instances = result.Instances
	if s.guest {
		s.instances = append([]models.Instance{demoInstance()}, s.instances...)
	}
	s.mu.Unlock()
	s.notify()
	return nil
}

func demoInstance() models.Instance {
	return models.Instance{
		ID:      models.GuestInstanceID,
		Slug:    "demo",
		Name:    "Demo World",
		Version: "1.21",
		Loader:  "vanilla",
	}
}

// Init wires the per-event reconcilers and returns their teardown.
func (s *Store) Init(ctx context.Context) func() {
	if err := s.Initialize(ctx); err != nil {
		s.log.Error("initial instance fetch: %v", err)
	}

	unsubs := []func(){
		s.bridge.Subscribe(bridge.EventInstanceCreated, s.handleCreated),
		s.bridge.Subscribe(bridge.EventInstanceUpdated, s.handleUpdated),
		s.bridge.Subscribe(bridge.EventInstanceInstalled, s.handleUpdated),
		s.bridge.Subscribe(bridge.EventInstanceDeleted, s.handleDeleted),
		s.bridge.Subscribe(bridge.EventLaunchRequested, s.handleLaunchRequested),
		s.bridge.Subscribe(bridge.EventInstanceLaunched, s.handleLaunched),
		s.bridge.Subscribe(bridge.EventInstanceExited, s.handleExited),
	}

	return func() {
		for _, u := range unsubs {
			u()
		}
	}
}

// Launch optimistically marks the instance Pending and asks the backend to
// start it. Pending clears on confirmation, failure, or timeout.
func (s *Store) Launch(ctx context.Context, slug string) error {
	s.mu.Lock()
	s.launching[slug] = time.Now()
	delete(s.failed, slug)
	s.mu.Unlock()
	s.notify()

	time.AfterFunc(s.pendingTimeout, func() { s.expirePending(slug) })

	if _, err := s.bridge.Invoke(ctx, bridge.CmdLaunchInstance, launchParams{Slug: slug}); err != nil {
		s.mu.Lock()
		delete(s.launching, slug)
		s.failed[slug] = err.Error()
		s.mu.Unlock()
		s.notify()
		return err
	}
	return nil
}

func (s *Store) expirePending(slug string) {
	s.mu.Lock()
	marked, ok := s.launching[slug]
	if !ok || time.Since(marked) < s.pendingTimeout {
		s.mu.Unlock()
		return
	}
	delete(s.launching, slug)
	s.failed[slug] = "launch timed out"
	s.mu.Unlock()

	s.log.Warn("launch of %s never confirmed, clearing pending flag", slug)
	s.notify()
}

func (s *Store) Kill(ctx context.Context, slug string) error {
	_, err := s.bridge.Invoke(ctx, bridge.CmdKillInstance, launchParams{Slug: slug})
	return err
}

func (s *Store) handleCreated(data json.RawMessage) {
	var ev bridge.InstanceEvent
	if err := json.Unmarshal(data, &ev); err != nil {
		s.log.Warn("dropping malformed instance event: %v", err)
		return
	}
	if ev.Instance.ID == models.GuestInstanceID {
		return
	}

	s.mu.Lock()
	s.instances = append(s.instances, ev.Instance)
	s.mu.Unlock()
	s.notify()
}

func (s *Store) handleUpdated(data json.RawMessage) {
	var ev bridge.InstanceEvent
	if err := json.Unmarshal(data, &ev); err != nil {
		s.log.Warn("dropping malformed instance event: %v", err)
		return
	}
	if ev.Instance.ID == models.GuestInstanceID {
		return
	}

	s.mu.Lock()
	found := false
	for i := range s.instances {
		if s.instances[i].ID == ev.Instance.ID {
			s.instances[i] = ev.Instance
			found = true
			break
		}
	}
	if !found {
		s.instances = append(s.instances, ev.Instance)
	}
	s.mu.Unlock()
	s.notify()
}

func (s *Store) handleDeleted(data json.RawMessage) {
	var ev bridge.InstanceDeletedEvent
	if err := json.Unmarshal(data, &ev); err != nil {
		s.log.Warn("dropping malformed instance event: %v", err)
		return
	}
	if ev.ID == models.GuestInstanceID {
		return
	}

	s.mu.Lock()
	kept := s.instances[:0]
	for _, inst := range s.instances {
		if inst.ID != ev.ID {
			kept = append(kept, inst)
		}
	}
	s.instances = kept
	s.mu.Unlock()
	s.notify()
}

func (s *Store) handleLaunchRequested(data json.RawMessage) {
	var ev bridge.LaunchRequestedEvent
	if err := json.Unmarshal(data, &ev); err != nil {
		return
	}

	s.mu.Lock()
	if _, running := s.running[ev.Slug]; !running {
		s.launching[ev.Slug] = time.Now()
	}
	s.mu.Unlock()
	s.notify()
}

func (s *Store) handleLaunched(data json.RawMessage) {
	var ev bridge.InstanceLaunchedEvent
	if err := json.Unmarshal(data, &ev); err != nil {
		s.log.Warn("dropping malformed launch event: %v", err)
		return
	}

	s.mu.Lock()
	delete(s.launching, ev.Slug)
	delete(s.failed, ev.Slug)
	s.running[ev.Slug] = models.RunningInfo{
		PID:       ev.PID,
		StartTime: time.Unix(ev.StartTime, 0),
	}
	s.mu.Unlock()
	s.notify()
}

// handleExited clears the running flag and bumps the refetch trigger: the
// playtime and lastPlayed the exit produced are server-computed and must not
// be guessed locally.
func (s *Store) handleExited(data json.RawMessage) {
	var ev bridge.InstanceExitedEvent
	if err := json.Unmarshal(data, &ev); err != nil {
		s.log.Warn("dropping malformed exit event: %v", err)
		return
	}

	s.mu.Lock()
	delete(s.running, ev.Slug)
	delete(s.launching, ev.Slug)
	s.trigger++
	s.mu.Unlock()
	s.notify()
}

// Trigger increments when the mirror needs a full Initialize re-run.
func (s *Store) Trigger() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.trigger
}

func (s *Store) Instances() []models.Instance {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Instance, len(s.instances))
	copy(out, s.instances)
	return out
}

func (s *Store) Get(slug string) (models.Instance, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, inst := range s.instances {
		if inst.Slug == slug {
			return inst, true
		}
	}
	return models.Instance{}, false
}

func (s *Store) Running(slug string) (models.RunningInfo, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	info, ok := s.running[slug]
	return info, ok
}

// RunningSince adapts the running set for the console store's catch-up
// watermark fallback.
func (s *Store) RunningSince(slug string) (time.Time, bool) {
	info, ok := s.Running(slug)
	return info.StartTime, ok
}

// State reports the per-entity launch state machine position.
func (s *Store) State(slug string) models.LaunchState {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.running[slug]; ok {
		return models.LaunchRunning
	}
	if _, ok := s.launching[slug]; ok {
		return models.LaunchPending
	}
	if _, ok := s.failed[slug]; ok {
		return models.LaunchFailed
	}
	return models.LaunchIdle
}

func (s *Store) FailureReason(slug string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.failed[slug]
}

func (s *Store) RunningCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.running)
}

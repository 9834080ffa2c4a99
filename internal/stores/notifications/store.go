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

package notifications

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/quarrylab/quarry/internal/bridge"
	"github.com/quarrylab/quarry/internal/models"
	"github.com/quarrylab/quarry/pkg/logger"
)

// Store unifies the two notification lifecycles behind one list: ephemeral
// alerts live only in this process, persistent notifications are
// backend-durable. Pushes for the same logical task reconcile in place by
// client key; a trigger counter tells the UI to re-pull the full persistent
// list rather than trusting incremental patches.
type Store struct {
	bridge bridge.Bridge
	log    *logger.Logger

	mu          sync.Mutex
	persistent  []models.Notification
	alerts      []models.Alert
	nextAlertID int
	trigger     int
	onChange    func()
}

type listParams struct {
	// Read filters by read-state when set.
	Read *bool `json:"read,omitempty"`
}

type listResult struct {
	Notifications []models.Notification `json:"notifications"`
}

// CreateSpec describes a persistent notification to create. ClientKey makes
// repeated creates for the same logical task update in place.
type CreateSpec struct {
	ClientKey   string                      `json:"client_key,omitempty"`
	Title       string                      `json:"title"`
	Body        string                      `json:"body,omitempty"`
	Dismissible bool                        `json:"dismissible"`
	Progress    *int                        `json:"progress,omitempty"`
	CurrentStep int                         `json:"current_step,omitempty"`
	TotalSteps  int                         `json:"total_steps,omitempty"`
	Actions     []models.NotificationAction `json:"actions,omitempty"`
}

type idParams struct {
	ID int64 `json:"id"`
}

type actionParams struct {
	ActionID  string            `json:"action_id"`
	ClientKey string            `json:"client_key,omitempty"`
	Payload   map[string]string `json:"payload,omitempty"`
}

func NewStore(b bridge.Bridge) *Store {
	return &Store{
		bridge: b,
		log:    logger.With("NOTIFY"),
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

// Init pulls the persistent set and subscribes to push events. Returns the
// teardown func releasing the subscriptions.
func (s *Store) Init(ctx context.Context) func() {
	if err := s.Refresh(ctx); err != nil {
		s.log.Error("initial notification fetch: %v", err)
	}

	unsubs := []func(){
		s.bridge.Subscribe(bridge.EventNotificationCreated, s.handlePush),
		s.bridge.Subscribe(bridge.EventNotificationUpdated, s.handlePush),
	}

	return func() {
		for _, u := range unsubs {
			u()
		}
	}
}

// Refresh replaces the local persistent list with the backend's.
func (s *Store) Refresh(ctx context.Context) error {
	data, err := s.bridge.Invoke(ctx, bridge.CmdListNotifications, listParams{})
	if err != nil {
		return err
	}

	var result listResult
	if err := json.Unmarshal(data, &result); err != nil {
		return err
	}

	s.mu.Lock()
	s.persistent = result.Notifications
	s.mu.Unlock()
	s.notify()
	return nil
}

// List returns the persistent set, filtered by read-state when filter is
// non-nil.
func (s *Store) List(filter *bool) []models.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.Notification, 0, len(s.persistent))
	for _, n := range s.persistent {
		if filter != nil && n.Read != *filter {
			continue
		}
		out = append(out, n)
	}
	return out
}

func (s *Store) Create(ctx context.Context, spec CreateSpec) error {
	_, err := s.bridge.Invoke(ctx, bridge.CmdCreateNotification, spec)
	return err
}

func (s *Store) MarkRead(ctx context.Context, id int64) error {
	if _, err := s.bridge.Invoke(ctx, bridge.CmdMarkNotificationRead, idParams{ID: id}); err != nil {
		return err
	}

	s.mu.Lock()
	for i := range s.persistent {
		if s.persistent[i].ID == id {
			s.persistent[i].Read = true
		}
	}
	s.mu.Unlock()
	s.notify()
	return nil
}

func (s *Store) Delete(ctx context.Context, id int64) error {
	if _, err := s.bridge.Invoke(ctx, bridge.CmdDeleteNotification, idParams{ID: id}); err != nil {
		return err
	}

	s.mu.Lock()
	kept := s.persistent[:0]
	for _, n := range s.persistent {
		if n.ID != id {
			kept = append(kept, n)
		}
	}
	s.persistent = kept
	s.mu.Unlock()
	s.notify()
	return nil
}

func (s *Store) ClearAllDismissible(ctx context.Context) error {
	if _, err := s.bridge.Invoke(ctx, bridge.CmdClearNotifications, nil); err != nil {
		return err
	}

	s.mu.Lock()
	kept := s.persistent[:0]
	for _, n := range s.persistent {
		if !n.Dismissible {
			kept = append(kept, n)
		}
	}
	s.persistent = kept
	s.mu.Unlock()
	s.notify()
	return nil
}

// InvokeAction relays an action-button click to the backend; the frontend
// does not know what the action means.
func (s *Store) InvokeAction(ctx context.Context, actionID, clientKey string, payload map[string]string) error {
	_, err := s.bridge.Invoke(ctx, bridge.CmdInvokeAction, actionParams{
		ActionID:  actionID,
		ClientKey: clientKey,
		Payload:   payload,
	})
	return err
}

// PushAlert adds an ephemeral, client-only notification and returns its
// local id.
func (s *Store) PushAlert(severity models.AlertSeverity, message string) int {
	s.mu.Lock()
	s.nextAlertID++
	id := s.nextAlertID
	s.alerts = append(s.alerts, models.Alert{
		ID:        id,
		Severity:  severity,
		Message:   message,
		CreatedAt: time.Now(),
	})
	s.mu.Unlock()
	s.notify()
	return id
}

// CloseAlert is the client-only dismiss path; the backend has no record of
// ephemeral alerts.
func (s *Store) CloseAlert(id int) {
	s.mu.Lock()
	kept := s.alerts[:0]
	for _, a := range s.alerts {
		if a.ID != id {
			kept = append(kept, a)
		}
	}
	s.alerts = kept
	s.mu.Unlock()
	s.notify()
}

func (s *Store) Alerts() []models.Alert {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Alert, len(s.alerts))
	copy(out, s.alerts)
	return out
}

// Trigger increments on every backend push; the UI re-pulls the full list
// when it observes a change.
func (s *Store) Trigger() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.trigger
}

func (s *Store) UnreadCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	count := 0
	for _, n := range s.persistent {
		if !n.Read {
			count++
		}
	}
	return count
}

func (s *Store) handlePush(data json.RawMessage) {
	var ev bridge.NotificationEvent
	if err := json.Unmarshal(data, &ev); err != nil {
		s.log.Warn("dropping malformed notification event: %v", err)
		return
	}

	s.mu.Lock()
	s.reconcileLocked(ev.Notification)
	s.trigger++
	s.mu.Unlock()
	s.notify()
}

// reconcileLocked updates in place by client key (repeated pushes for the
// same logical task), then by id, appending only genuinely new entries.
func (s *Store) reconcileLocked(n models.Notification) {
	if n.ClientKey != "" {
		for i := range s.persistent {
			if s.persistent[i].ClientKey == n.ClientKey {
				s.persistent[i] = n
				return
			}
		}
	}
	for i := range s.persistent {
		if s.persistent[i].ID == n.ID {
			s.persistent[i] = n
			return
		}
	}
	s.persistent = append(s.persistent, n)
}

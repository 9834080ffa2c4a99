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

package accounts

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/quarrylab/quarry/internal/bridge"
	"github.com/quarrylab/quarry/internal/models"
	"github.com/quarrylab/quarry/pkg/logger"
)

// Store mirrors the backend account roster and the active selection.
// Removal of the last remaining account resets the app; the backend owns
// that decision, this store just relays it and reports the outcome.
type Store struct {
	bridge bridge.Bridge
	log    *logger.Logger

	mu       sync.Mutex
	accounts []models.Account
	activeID string
	trigger  int
	onChange func()

	// onReset runs when the sole account was removed and the backend was
	// told to wipe state; the UI closes its windows in response.
	onReset func()
}

type listAccountsResult struct {
	Accounts []models.Account `json:"accounts"`
}

type activeAccountResult struct {
	Account *models.Account `json:"account"`
}

type idParams struct {
	ID string `json:"id"`
}

func NewStore(b bridge.Bridge) *Store {
	return &Store{
		bridge: b,
		log:    logger.With("ACCOUNTS"),
	}
}

func (s *Store) OnChange(fn func()) {
	s.mu.Lock()
	s.onChange = fn
	s.mu.Unlock()
}

func (s *Store) OnReset(fn func()) {
	s.mu.Lock()
	s.onReset = fn
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

// Refresh replaces the roster and active selection from the backend.
func (s *Store) Refresh(ctx context.Context) error {
	data, err := s.bridge.Invoke(ctx, bridge.CmdGetAccounts, nil)
	if err != nil {
		return err
	}
	var list listAccountsResult
	if err := json.Unmarshal(data, &list); err != nil {
		return err
	}

	data, err = s.bridge.Invoke(ctx, bridge.CmdGetActiveAccount, nil)
	if err != nil {
		return err
	}
	var active activeAccountResult
	if err := json.Unmarshal(data, &active); err != nil {
		return err
	}

	s.mu.Lock()
	s.accounts = list.Accounts
	if active.Account != nil {
		s.activeID = active.Account.ID
	} else {
		s.activeID = ""
	}
	s.mu.Unlock()
	s.notify()
	return nil
}

// Init performs the initial refresh and subscribes to head updates, which
// the backend emits whenever avatar art finishes resolving. The handler
// only bumps the trigger; invoking from an event handler would block the
// read loop, so the UI drives the actual Refresh.
func (s *Store) Init(ctx context.Context) func() {
	if err := s.Refresh(ctx); err != nil {
		s.log.Error("initial account fetch: %v", err)
	}

	unsub := s.bridge.Subscribe(bridge.EventAccountHeadsUpdated, func(json.RawMessage) {
		s.mu.Lock()
		s.trigger++
		s.mu.Unlock()
		s.notify()
	})
	return unsub
}

// Trigger increments when the roster needs a Refresh re-run.
func (s *Store) Trigger() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.trigger
}

// SetActive switches the active selection. An account switch is an
// ambiguous transition for downstream mirrors (guest flag, instance list),
// so the trigger is bumped to make the UI re-pull them.
func (s *Store) SetActive(ctx context.Context, id string) error {
	if _, err := s.bridge.Invoke(ctx, bridge.CmdSetActiveAccount, idParams{ID: id}); err != nil {
		return err
	}

	s.mu.Lock()
	s.activeID = id
	s.trigger++
	s.mu.Unlock()
	s.notify()
	return nil
}

// Remove deletes an account. Removing the active account when others remain
// promotes the first remaining account; removing the last account wipes the
// app via reset_app and fires the reset callback.
func (s *Store) Remove(ctx context.Context, id string) error {
	s.mu.Lock()
	sole := len(s.accounts) == 1 && s.accounts[0].ID == id
	wasActive := s.activeID == id
	s.mu.Unlock()

	if sole {
		if _, err := s.bridge.Invoke(ctx, bridge.CmdResetApp, nil); err != nil {
			return err
		}
		s.mu.Lock()
		s.accounts = nil
		s.activeID = ""
		reset := s.onReset
		s.mu.Unlock()
		s.notify()
		if reset != nil {
			reset()
		}
		return nil
	}

	if _, err := s.bridge.Invoke(ctx, bridge.CmdRemoveAccount, idParams{ID: id}); err != nil {
		return err
	}

	s.mu.Lock()
	kept := s.accounts[:0]
	for _, acc := range s.accounts {
		if acc.ID != id {
			kept = append(kept, acc)
		}
	}
	s.accounts = kept
	promoted := ""
	if wasActive && len(s.accounts) > 0 {
		promoted = s.accounts[0].ID
	}
	s.mu.Unlock()

	if promoted != "" {
		return s.SetActive(ctx, promoted)
	}
	s.notify()
	return nil
}

func (s *Store) Accounts() []models.Account {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Account, len(s.accounts))
	copy(out, s.accounts)
	return out
}

func (s *Store) Active() (models.Account, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, acc := range s.accounts {
		if acc.ID == s.activeID {
			return acc, true
		}
	}
	return models.Account{}, false
}

// IsGuest reports whether the active session is a guest one. No active
// account at all counts as guest.
func (s *Store) IsGuest() bool {
	acc, ok := s.Active()
	return !ok || acc.Guest
}

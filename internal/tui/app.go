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

package tui

import (
	"context"
	"fmt"
	"log"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/quarrylab/quarry/internal/api"
	"github.com/quarrylab/quarry/internal/bridge"
	"github.com/quarrylab/quarry/internal/config"
	"github.com/quarrylab/quarry/internal/router"
	"github.com/quarrylab/quarry/internal/storage"
	"github.com/quarrylab/quarry/internal/stores/accounts"
	"github.com/quarrylab/quarry/internal/stores/console"
	"github.com/quarrylab/quarry/internal/stores/instances"
	"github.com/quarrylab/quarry/internal/stores/notifications"
	"github.com/quarrylab/quarry/internal/tui/views"
	"github.com/quarrylab/quarry/pkg/logger"
)

// Options selects how the first window location is chosen: a handoff blob
// from a pop-out wins over a deep-link URL, which wins over the saved
// session route.
type Options struct {
	CfgPath string
	URL     string
	Handoff string
}

func Run(b bridge.Bridge, cfg *config.Config, session storage.Store, opts Options) error {
	f, err := tea.LogToFile("quarry.log", "debug")
	if err != nil {
		return fmt.Errorf("fatal: could not open log file: %w", err)
	}
	defer f.Close()

	log.SetOutput(f)

	ctx := context.Background()

	instanceStore := instances.NewStore(b)
	notificationStore := notifications.NewStore(b)
	accountStore := accounts.NewStore(b)
	consoleStore := console.NewStore(b, cfg.Console.CatchUpTail, instanceStore.RunningSince)

	if err := accountStore.Refresh(ctx); err != nil {
		logger.Warn("[APP] Initial account fetch failed: %v", err)
	}
	instanceStore.SetGuest(accountStore.IsGuest())

	teardowns := []func(){
		instanceStore.Init(ctx),
		notificationStore.Init(ctx),
		accountStore.Init(ctx),
	}
	defer func() {
		for _, td := range teardowns {
			td()
		}
	}()

	stores := &views.Stores{
		Bridge:        b,
		Instances:     instanceStore,
		Notifications: notificationStore,
		Console:       consoleStore,
		Accounts:      accountStore,
	}

	rt := router.New()
	restoreStartRoute(rt, session, opts)

	model := NewModel(rt, stores, session, cfg, opts.CfgPath)
	p := tea.NewProgram(&model, tea.WithAltScreen())

	// Removing the last account resets the app; every window closes.
	accountStore.OnReset(func() {
		go p.Quit()
	})

	var deepLink *api.Server
	if cfg.DeepLink.Enabled {
		deepLink = api.NewServer(cfg, func(entry router.Entry) {
			p.Send(views.NavigateMsg{Path: entry.Path, Opts: router.Options{
				Params: entry.Params,
				Props:  entry.Props,
			}})
		})
		if err := deepLink.Start(); err != nil {
			logger.Warn("[APP] Deep-link listener failed: %v", err)
		}
	}

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("tui error: %w", err)
	}

	if deepLink != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		deepLink.Shutdown(shutdownCtx)
	}

	return nil
}

func restoreStartRoute(rt *router.Router, session storage.Store, opts Options) {
	if opts.Handoff != "" {
		if err := rt.RestoreHandoff(opts.Handoff); err == nil {
			return
		}
		logger.Warn("[APP] Ignoring malformed handoff payload")
	}

	if opts.URL != "" {
		if entry, err := router.ParseURL(opts.URL); err == nil {
			rt.Navigate(entry.Path, &router.Options{Params: entry.Params, Props: entry.Props})
			return
		}
		logger.Warn("[APP] Ignoring malformed url %q", opts.URL)
	}

	if session != nil {
		if saved, err := session.GetLastRoute(); err == nil && saved != nil {
			rt.Navigate(saved.Path, &router.Options{Params: saved.Params, Props: saved.Props})
		}
	}
}

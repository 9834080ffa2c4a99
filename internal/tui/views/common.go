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

package views

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/quarrylab/quarry/internal/bridge"
	"github.com/quarrylab/quarry/internal/router"
	"github.com/quarrylab/quarry/internal/stores/accounts"
	"github.com/quarrylab/quarry/internal/stores/console"
	"github.com/quarrylab/quarry/internal/stores/instances"
	"github.com/quarrylab/quarry/internal/stores/notifications"
)

// Stores bundles the state mirrors every page reads from, plus the bridge
// for one-shot commands that have no store of their own.
type Stores struct {
	Bridge        bridge.Bridge
	Instances     *instances.Store
	Notifications *notifications.Store
	Console       *console.Store
	Accounts      *accounts.Store
}

// StoreChangedMsg is pumped into the program whenever any store mutates.
type StoreChangedMsg struct{}

// NavigateMsg asks the top-level model to move the router somewhere.
type NavigateMsg struct {
	Path string
	Opts router.Options
}

// FlashMsg surfaces a transient status line on the current page.
type FlashMsg struct {
	Text string
	Kind string
}

func Navigate(path string, opts router.Options) tea.Cmd {
	return func() tea.Msg {
		return NavigateMsg{Path: path, Opts: opts}
	}
}

func Flash(text, kind string) tea.Cmd {
	return func() tea.Msg {
		return FlashMsg{Text: text, Kind: kind}
	}
}

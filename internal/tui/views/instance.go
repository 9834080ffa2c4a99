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
	"context"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/quarrylab/quarry/internal/bridge"
	"github.com/quarrylab/quarry/internal/models"
	"github.com/quarrylab/quarry/internal/router"
	"github.com/quarrylab/quarry/internal/tui/components"
	"github.com/quarrylab/quarry/internal/tui/styles"
	"github.com/quarrylab/quarry/pkg/helper"
)

type InstanceModel struct {
	stores  *Stores
	Width   int
	Height  int
	Slug    string
	Message string
	MsgKind string
	Dialog  components.Dialog
}

func NewInstanceModel(stores *Stores) InstanceModel {
	return InstanceModel{stores: stores}
}

func (m InstanceModel) Init() tea.Cmd {
	return nil
}

// SetEntry points the page at the routed instance.
func (m *InstanceModel) SetEntry(entry router.Entry) {
	m.Slug = entry.Params["slug"]
	m.Message = ""
	m.Dialog.Visible = false
}

func (m InstanceModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.Dialog.Visible {
			switch msg.String() {
			case "left", "right", "tab", "h", "l":
				m.Dialog.ToggleSelection()
			case "enter":
				confirmed := m.Dialog.IsConfirmed()
				m.Dialog.Visible = false
				if confirmed {
					return m, m.kill()
				}
			case "esc":
				m.Dialog.Visible = false
			}
			return m, nil
		}

		inst, ok := m.stores.Instances.Get(m.Slug)
		if !ok {
			return m, nil
		}

		switch msg.String() {
		case "l", "enter":
			if m.stores.Instances.State(m.Slug) == models.LaunchIdle ||
				m.stores.Instances.State(m.Slug) == models.LaunchFailed {
				return m, m.launch()
			}
		case "k":
			if m.stores.Instances.State(m.Slug) == models.LaunchRunning {
				m.Dialog = components.KillInstanceDialog(inst.Name)
			}
		case "c":
			return m, Navigate(router.PathConsole, router.Options{
				Params: map[string]string{"slug": m.Slug},
			})
		case "S":
			return m, m.createShortcut()
		}

	case FlashMsg:
		m.Message = msg.Text
		m.MsgKind = msg.Kind
	}
	return m, nil
}

func (m InstanceModel) launch() tea.Cmd {
	slug := m.Slug
	store := m.stores.Instances
	return func() tea.Msg {
		if err := store.Launch(context.Background(), slug); err != nil {
			return FlashMsg{Text: "Launch failed: " + err.Error(), Kind: "error"}
		}
		return StoreChangedMsg{}
	}
}

func (m InstanceModel) kill() tea.Cmd {
	slug := m.Slug
	store := m.stores.Instances
	return func() tea.Msg {
		if err := store.Kill(context.Background(), slug); err != nil {
			return FlashMsg{Text: "Stop failed: " + err.Error(), Kind: "error"}
		}
		return FlashMsg{Text: "Stop requested", Kind: "success"}
	}
}

func (m InstanceModel) createShortcut() tea.Cmd {
	slug := m.Slug
	b := m.stores.Bridge
	return func() tea.Msg {
		if _, err := b.Invoke(context.Background(), bridge.CmdCreateShortcut, map[string]string{"slug": slug}); err != nil {
			return FlashMsg{Text: "Shortcut failed: " + err.Error(), Kind: "error"}
		}
		return FlashMsg{Text: "Desktop shortcut created", Kind: "success"}
	}
}

func (m InstanceModel) View() string {
	if m.Width == 0 {
		return ""
	}

	if m.Dialog.Visible {
		return components.ConfirmDialog(m.Dialog, m.Width, m.Height)
	}

	var b strings.Builder
	w := m.Width
	b.WriteString("\n")

	inst, ok := m.stores.Instances.Get(m.Slug)
	if !ok {
		b.WriteString(components.ViewHeader(w, "Home", "Instance") + "\n\n")
		b.WriteString(components.Empty("Instance not found", "It may have been deleted.", w))
		return b.String()
	}

	b.WriteString(components.ViewHeader(w, "Home", inst.Name) + "\n\n")

	if m.Message != "" {
		if m.MsgKind == "error" {
			b.WriteString(components.MsgError(m.Message, w) + "\n\n")
		} else {
			b.WriteString(components.MsgSuccess(m.Message, w) + "\n\n")
		}
	}

	b.WriteString(components.Section(inst.Name, w) + "\n\n")

	state := m.stores.Instances.State(m.Slug)

	var card strings.Builder
	badge := ""
	switch state {
	case models.LaunchRunning:
		badge = components.Badge("running")
	case models.LaunchPending:
		badge = components.Badge("pending")
	case models.LaunchFailed:
		badge = components.Badge("failed")
	}
	if inst.ID == models.GuestInstanceID {
		badge = components.Badge("demo")
	}
	card.WriteString(styles.TitleStyle.Render(inst.Name) + "  " + badge + "\n")
	card.WriteString("\n" + styles.SubtleStyle.Render("Version  ") + inst.Version)
	loader := inst.Loader
	if inst.LoaderVer != "" {
		loader += " " + inst.LoaderVer
	}
	card.WriteString("\n" + styles.SubtleStyle.Render("Loader   ") + loader)
	card.WriteString("\n" + styles.SubtleStyle.Render("Played   ") + helper.FormatPlaytime(inst.Playtime))
	card.WriteString("\n" + styles.SubtleStyle.Render("Last run ") + helper.FormatTimeAgo(inst.LastPlayed))

	if info, running := m.stores.Instances.Running(m.Slug); running {
		card.WriteString("\n\n" + styles.SuccessStyle.Render(styles.IconRunning) + "  " +
			helper.FormatUptime(info.StartTime) + styles.MutedStyle.Render("  pid "+strconv.Itoa(info.PID)))
	}
	if reason := m.stores.Instances.FailureReason(m.Slug); reason != "" {
		card.WriteString("\n\n" + styles.ErrorStyle.Render(styles.IconError) + "  " + reason)
	}
	b.WriteString(components.Wrap(card.String(), w) + "\n")

	content := b.String()
	lines := helper.CountLines(content)
	for i := 0; i < m.Height-lines-3; i++ {
		content += "\n"
	}

	content += "\n" + styles.Line(w) + "\n"

	help := [][]string{{"c", "console"}, {"S", "shortcut"}, {"p", "pop out"}, {"[", "back"}}
	switch state {
	case models.LaunchRunning:
		help = append([][]string{{"k", "stop"}}, help...)
	case models.LaunchIdle, models.LaunchFailed:
		help = append([][]string{{"l", "launch"}}, help...)
	}
	content += components.Help(help)
	return content
}

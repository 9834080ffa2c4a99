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
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/quarrylab/quarry/internal/models"
	"github.com/quarrylab/quarry/internal/router"
	"github.com/quarrylab/quarry/internal/tui/components"
	"github.com/quarrylab/quarry/internal/tui/styles"
	"github.com/quarrylab/quarry/pkg/helper"
)

type HomeModel struct {
	stores  *Stores
	Width   int
	Height  int
	Cursor  int
	Message string
	MsgKind string
}

func NewHomeModel(stores *Stores) HomeModel {
	return HomeModel{stores: stores}
}

func (m HomeModel) Init() tea.Cmd {
	return nil
}

func (m *HomeModel) SetMessage(msg, kind string) {
	m.Message = msg
	m.MsgKind = kind
}

func (m *HomeModel) ClearMessage() {
	m.Message = ""
	m.MsgKind = ""
}

func (m HomeModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		list := m.stores.Instances.Instances()
		switch msg.String() {
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
			}
		case "down", "j":
			if m.Cursor < len(list)-1 {
				m.Cursor++
			}
		case "enter":
			if m.Cursor < len(list) {
				inst := list[m.Cursor]
				return m, Navigate(router.PathInstance, router.Options{
					Params: map[string]string{"slug": inst.Slug},
				})
			}
		case "c":
			if m.Cursor < len(list) {
				inst := list[m.Cursor]
				return m, Navigate(router.PathConsole, router.Options{
					Params: map[string]string{"slug": inst.Slug},
				})
			}
		case "n":
			return m, Navigate(router.PathNotifications, router.Options{})
		case "A":
			return m, Navigate(router.PathAccounts, router.Options{})
		case "s":
			return m, Navigate(router.PathSettings, router.Options{})
		}

	case FlashMsg:
		m.SetMessage(msg.Text, msg.Kind)

	case StoreChangedMsg:
		list := m.stores.Instances.Instances()
		if m.Cursor >= len(list) && len(list) > 0 {
			m.Cursor = len(list) - 1
		}
	}
	return m, nil
}

func (m HomeModel) View() string {
	if m.Width == 0 {
		return ""
	}

	var b strings.Builder
	w := m.Width
	b.WriteString("\n")
	b.WriteString(components.ViewHeader(w, "Home") + "\n")

	list := m.stores.Instances.Instances()
	running := m.stores.Instances.RunningCount()
	unread := m.stores.Notifications.UnreadCount()

	statusLine := fmt.Sprintf("  %s %s    %s %s",
		styles.SuccessStyle.Render(fmt.Sprintf("%d", running)),
		styles.MutedStyle.Render("running"),
		styles.BrightStyle.Render(fmt.Sprintf("%d", len(list))),
		styles.MutedStyle.Render("instances"))
	if unread > 0 {
		statusLine += fmt.Sprintf("    %s %s",
			styles.PrimaryStyle.Render(fmt.Sprintf("%d", unread)),
			styles.MutedStyle.Render("unread"))
	}
	if acc, ok := m.stores.Accounts.Active(); ok {
		statusLine += "    " + styles.SubtleStyle.Render(acc.Username)
	}
	b.WriteString(statusLine + "\n\n")

	if m.Message != "" {
		switch m.MsgKind {
		case "success":
			b.WriteString(components.MsgSuccess(m.Message, w) + "\n\n")
		case "error":
			b.WriteString(components.MsgError(m.Message, w) + "\n\n")
		case "warning":
			b.WriteString(components.MsgWarning(m.Message, w) + "\n\n")
		default:
			b.WriteString(components.MsgInfo(m.Message, w) + "\n\n")
		}
	}

	b.WriteString(components.Section("INSTANCES", w) + "\n\n")
	var listContent strings.Builder
	if len(list) == 0 {
		listContent.WriteString("  " + styles.MutedStyle.Render("No instances yet. Create one from the desktop app."))
	} else {
		listContent.WriteString(components.InstanceHeader(w) + "\n")
		listContent.WriteString("  " + styles.Line(w-8) + "\n")
		for i, inst := range list {
			state := m.stores.Instances.State(inst.Slug)
			playtime := helper.FormatPlaytime(inst.Playtime)
			if inst.ID == models.GuestInstanceID {
				playtime = styles.MutedStyle.Render("demo")
			}
			listContent.WriteString(components.InstanceRow(
				inst.Name, inst.Version, inst.Loader, state, playtime, i == m.Cursor, w) + "\n")
		}
	}
	b.WriteString(components.Wrap(listContent.String(), w) + "\n")

	alerts := m.stores.Notifications.Alerts()
	if len(alerts) > 0 {
		b.WriteString("\n" + components.Section("ALERTS", w) + "\n\n")
		var alertContent strings.Builder
		for _, a := range alerts {
			alertContent.WriteString(components.AlertRow(a, w) + "\n")
		}
		b.WriteString(components.Wrap(alertContent.String(), w) + "\n")
	}

	content := b.String()
	lines := helper.CountLines(content)
	for i := 0; i < m.Height-lines-3; i++ {
		content += "\n"
	}

	content += "\n" + styles.Line(w) + "\n"
	content += components.Help([][]string{
		{"↑↓", "select"}, {"enter", "details"}, {"c", "console"}, {"n", "notifications"},
		{"A", "accounts"}, {"s", "settings"}, {"q", "quit"},
	})
	return content
}

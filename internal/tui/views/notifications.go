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
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/quarrylab/quarry/internal/tui/components"
	"github.com/quarrylab/quarry/internal/tui/styles"
	"github.com/quarrylab/quarry/pkg/helper"
)

type NotificationsModel struct {
	stores *Stores
	Width  int
	Height int
	Cursor int
}

func NewNotificationsModel(stores *Stores) NotificationsModel {
	return NotificationsModel{stores: stores}
}

func (m NotificationsModel) Init() tea.Cmd {
	return nil
}

func (m NotificationsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		list := m.stores.Notifications.List(nil)
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
				n := list[m.Cursor]
				if len(n.Actions) > 0 {
					return m, m.invokeAction(n.Actions[0].ID, n.ClientKey)
				}
			}
		case "m":
			if m.Cursor < len(list) && !list[m.Cursor].Read {
				return m, m.markRead(list[m.Cursor].ID)
			}
		case "d":
			if m.Cursor < len(list) && list[m.Cursor].Dismissible {
				return m, m.dismiss(list[m.Cursor].ID)
			}
		case "D":
			return m, m.clearAll()
		case "x":
			if alerts := m.stores.Notifications.Alerts(); len(alerts) > 0 {
				m.stores.Notifications.CloseAlert(alerts[0].ID)
			}
		}

	case StoreChangedMsg:
		list := m.stores.Notifications.List(nil)
		if m.Cursor >= len(list) && len(list) > 0 {
			m.Cursor = len(list) - 1
		}
	}
	return m, nil
}

func (m NotificationsModel) invokeAction(actionID, clientKey string) tea.Cmd {
	store := m.stores.Notifications
	return func() tea.Msg {
		if err := store.InvokeAction(context.Background(), actionID, clientKey, nil); err != nil {
			return FlashMsg{Text: "Action failed: " + err.Error(), Kind: "error"}
		}
		return StoreChangedMsg{}
	}
}

func (m NotificationsModel) markRead(id int64) tea.Cmd {
	store := m.stores.Notifications
	return func() tea.Msg {
		if err := store.MarkRead(context.Background(), id); err != nil {
			return FlashMsg{Text: "Mark read failed: " + err.Error(), Kind: "error"}
		}
		return StoreChangedMsg{}
	}
}

func (m NotificationsModel) dismiss(id int64) tea.Cmd {
	store := m.stores.Notifications
	return func() tea.Msg {
		if err := store.Delete(context.Background(), id); err != nil {
			return FlashMsg{Text: "Dismiss failed: " + err.Error(), Kind: "error"}
		}
		return StoreChangedMsg{}
	}
}

func (m NotificationsModel) clearAll() tea.Cmd {
	store := m.stores.Notifications
	return func() tea.Msg {
		if err := store.ClearAllDismissible(context.Background()); err != nil {
			return FlashMsg{Text: "Clear failed: " + err.Error(), Kind: "error"}
		}
		return StoreChangedMsg{}
	}
}

func (m NotificationsModel) View() string {
	if m.Width == 0 {
		return ""
	}

	var b strings.Builder
	w := m.Width
	b.WriteString("\n")
	b.WriteString(components.ViewHeader(w, "Home", "Notifications") + "\n\n")

	alerts := m.stores.Notifications.Alerts()
	if len(alerts) > 0 {
		b.WriteString(components.Section("ALERTS", w) + "\n\n")
		var alertContent strings.Builder
		for _, a := range alerts {
			alertContent.WriteString(components.AlertRow(a, w) + "\n")
		}
		b.WriteString(components.Wrap(alertContent.String(), w) + "\n\n")
	}

	b.WriteString(components.Section("NOTIFICATIONS", w) + "\n\n")

	list := m.stores.Notifications.List(nil)
	var listContent strings.Builder
	if len(list) == 0 {
		listContent.WriteString("  " + styles.SuccessStyle.Render(styles.IconSuccess) + "  " +
			styles.MutedStyle.Render("All caught up"))
	} else {
		for i, n := range list {
			listContent.WriteString(components.NotificationRow(n, i == m.Cursor, w) + "\n")
		}
	}
	b.WriteString(components.Wrap(listContent.String(), w) + "\n")

	content := b.String()
	lines := helper.CountLines(content)
	for i := 0; i < m.Height-lines-3; i++ {
		content += "\n"
	}

	content += "\n" + styles.Line(w) + "\n"
	content += components.Help([][]string{
		{"↑↓", "select"}, {"enter", "action"}, {"m", "mark read"}, {"d", "dismiss"},
		{"D", "clear all"}, {"x", "close alert"}, {"[", "back"},
	})
	return content
}

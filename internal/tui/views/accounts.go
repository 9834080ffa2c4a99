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

type AccountsModel struct {
	stores   *Stores
	Width    int
	Height   int
	Cursor   int
	Dialog   components.Dialog
	removeID string
}

func NewAccountsModel(stores *Stores) AccountsModel {
	return AccountsModel{stores: stores}
}

func (m AccountsModel) Init() tea.Cmd {
	return nil
}

func (m AccountsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
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
					return m, m.remove(m.removeID)
				}
			case "esc":
				m.Dialog.Visible = false
			}
			return m, nil
		}

		list := m.stores.Accounts.Accounts()
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
				return m, m.setActive(list[m.Cursor].ID)
			}
		case "d":
			if m.Cursor < len(list) {
				acc := list[m.Cursor]
				m.removeID = acc.ID
				m.Dialog = components.RemoveAccountDialog(acc.Username, len(list) == 1)
			}
		}

	case StoreChangedMsg:
		list := m.stores.Accounts.Accounts()
		if m.Cursor >= len(list) && len(list) > 0 {
			m.Cursor = len(list) - 1
		}
	}
	return m, nil
}

func (m AccountsModel) setActive(id string) tea.Cmd {
	store := m.stores.Accounts
	return func() tea.Msg {
		if err := store.SetActive(context.Background(), id); err != nil {
			return FlashMsg{Text: "Switch failed: " + err.Error(), Kind: "error"}
		}
		return StoreChangedMsg{}
	}
}

func (m AccountsModel) remove(id string) tea.Cmd {
	store := m.stores.Accounts
	return func() tea.Msg {
		if err := store.Remove(context.Background(), id); err != nil {
			return FlashMsg{Text: "Remove failed: " + err.Error(), Kind: "error"}
		}
		return StoreChangedMsg{}
	}
}

func (m AccountsModel) View() string {
	if m.Width == 0 {
		return ""
	}

	if m.Dialog.Visible {
		return components.ConfirmDialog(m.Dialog, m.Width, m.Height)
	}

	var b strings.Builder
	w := m.Width
	b.WriteString("\n")
	b.WriteString(components.ViewHeader(w, "Home", "Accounts") + "\n\n")
	b.WriteString(components.Section("ACCOUNTS", w) + "\n\n")

	list := m.stores.Accounts.Accounts()
	active, hasActive := m.stores.Accounts.Active()

	var listContent strings.Builder
	if len(list) == 0 {
		listContent.WriteString("  " + styles.MutedStyle.Render("No accounts. Sign in from the desktop app."))
	} else {
		for i, acc := range list {
			isActive := hasActive && acc.ID == active.ID
			listContent.WriteString(components.AccountRow(acc, isActive, i == m.Cursor, w) + "\n")
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
		{"↑↓", "select"}, {"enter", "switch"}, {"d", "remove"}, {"[", "back"},
	})
	return content
}

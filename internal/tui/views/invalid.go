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
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/quarrylab/quarry/internal/router"
	"github.com/quarrylab/quarry/internal/tui/components"
	"github.com/quarrylab/quarry/internal/tui/styles"
	"github.com/quarrylab/quarry/pkg/helper"
)

type InvalidModel struct {
	Width     int
	Height    int
	Requested string
}

func NewInvalidModel() InvalidModel {
	return InvalidModel{}
}

func (m InvalidModel) Init() tea.Cmd {
	return nil
}

// SetEntry records the path that failed to resolve, carried as a prop by
// the navigation layer.
func (m *InvalidModel) SetEntry(entry router.Entry) {
	m.Requested = entry.Props["requested"]
}

func (m InvalidModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		if key.String() == "enter" || key.String() == "h" {
			return m, Navigate(router.PathHome, router.Options{})
		}
	}
	return m, nil
}

func (m InvalidModel) View() string {
	if m.Width == 0 {
		return ""
	}

	var b strings.Builder
	w := m.Width
	b.WriteString("\n")
	b.WriteString(components.ViewHeader(w, "Not Found") + "\n\n")

	var card strings.Builder
	card.WriteString(styles.WarningStyle.Render(styles.IconWarning) + "  " +
		styles.TitleStyle.Render("Page not found") + "\n")
	if m.Requested != "" {
		card.WriteString("\n" + styles.SubtleStyle.Render("Requested ") + styles.MutedStyle.Render(m.Requested))
	}
	card.WriteString("\n\n" + styles.MutedStyle.Render("The link may be stale or from a newer version."))
	b.WriteString(components.Wrap(card.String(), w) + "\n")

	content := b.String()
	lines := helper.CountLines(content)
	for i := 0; i < m.Height-lines-3; i++ {
		content += "\n"
	}

	content += "\n" + styles.Line(w) + "\n"
	content += components.Help([][]string{{"enter", "home"}, {"[", "back"}})
	return content
}

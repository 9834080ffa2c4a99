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
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/quarrylab/quarry/internal/config"
	"github.com/quarrylab/quarry/internal/tui/components"
	"github.com/quarrylab/quarry/internal/tui/styles"
	"github.com/quarrylab/quarry/pkg/helper"
)

type settingsField struct {
	label string
	get   func(*config.Config) string
	set   func(*config.Config, string) error
}

var settingsFields = []settingsField{
	{
		label: "Backend host",
		get:   func(c *config.Config) string { return c.Backend.Host },
		set:   func(c *config.Config, v string) error { c.Backend.Host = v; return nil },
	},
	{
		label: "Backend port",
		get:   func(c *config.Config) string { return strconv.Itoa(c.Backend.Port) },
		set: func(c *config.Config, v string) error {
			port, err := strconv.Atoi(v)
			if err != nil {
				return err
			}
			c.Backend.Port = port
			return nil
		},
	},
	{
		label: "Catch-up tail lines",
		get:   func(c *config.Config) string { return strconv.Itoa(c.Console.CatchUpTail) },
		set: func(c *config.Config, v string) error {
			n, err := strconv.Atoi(v)
			if err != nil {
				return err
			}
			c.Console.CatchUpTail = n
			return nil
		},
	},
	{
		label: "Log level",
		get:   func(c *config.Config) string { return c.Log.Level },
		set:   func(c *config.Config, v string) error { c.Log.Level = v; return nil },
	},
}

type SettingsModel struct {
	cfg     *config.Config
	cfgPath string
	Width   int
	Height  int
	Cursor  int
	Editing bool
	Message string
	MsgKind string
	input   textinput.Model
}

func NewSettingsModel(cfg *config.Config, cfgPath string) SettingsModel {
	ti := textinput.New()
	ti.CharLimit = 64
	return SettingsModel{cfg: cfg, cfgPath: cfgPath, input: ti}
}

func (m SettingsModel) Init() tea.Cmd {
	return nil
}

func (m SettingsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.Editing {
			switch msg.String() {
			case "enter":
				if err := settingsFields[m.Cursor].set(m.cfg, m.input.Value()); err != nil {
					m.Message = "Invalid value: " + err.Error()
					m.MsgKind = "error"
				} else {
					m.Message = ""
				}
				m.Editing = false
				m.input.Blur()
				return m, nil
			case "esc":
				m.Editing = false
				m.input.Blur()
				return m, nil
			}
			m.input, cmd = m.input.Update(msg)
			return m, cmd
		}

		switch msg.String() {
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
			}
		case "down", "j":
			if m.Cursor < len(settingsFields)-1 {
				m.Cursor++
			}
		case "enter":
			m.Editing = true
			m.input.SetValue(settingsFields[m.Cursor].get(m.cfg))
			m.input.Focus()
			return m, textinput.Blink
		case "w":
			if err := m.cfg.Save(m.cfgPath); err != nil {
				m.Message = "Save failed: " + err.Error()
				m.MsgKind = "error"
			} else {
				m.Message = "Settings saved. Connection changes apply on restart."
				m.MsgKind = "success"
			}
		}
	}
	return m, nil
}

func (m SettingsModel) View() string {
	if m.Width == 0 {
		return ""
	}

	var b strings.Builder
	w := m.Width
	b.WriteString("\n")
	b.WriteString(components.ViewHeader(w, "Home", "Settings") + "\n\n")

	if m.Message != "" {
		if m.MsgKind == "error" {
			b.WriteString(components.MsgError(m.Message, w) + "\n\n")
		} else {
			b.WriteString(components.MsgSuccess(m.Message, w) + "\n\n")
		}
	}

	b.WriteString(components.Section("SETTINGS", w) + "\n\n")

	var listContent strings.Builder
	for i, f := range settingsFields {
		ptr := "   "
		labelStyle := styles.MutedStyle
		if i == m.Cursor {
			ptr = " " + styles.Pointer() + " "
			labelStyle = styles.BrightStyle
		}

		value := f.get(m.cfg)
		if m.Editing && i == m.Cursor {
			listContent.WriteString(ptr + labelStyle.Render(styles.Pad(f.label, 22)) + "  " + m.input.View() + "\n")
		} else {
			listContent.WriteString(ptr + labelStyle.Render(styles.Pad(f.label, 22)) + "  " +
				styles.PrimaryStyle.Render(value) + "\n")
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
		{"↑↓", "select"}, {"enter", "edit"}, {"w", "write config"}, {"[", "back"},
	})
	return content
}

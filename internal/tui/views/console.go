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
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/quarrylab/quarry/internal/models"
	"github.com/quarrylab/quarry/internal/router"
	"github.com/quarrylab/quarry/internal/storage"
	"github.com/quarrylab/quarry/internal/tui/components"
	"github.com/quarrylab/quarry/internal/tui/styles"
	"github.com/quarrylab/quarry/pkg/helper"
)

type consoleMode int

const (
	consoleModeView consoleMode = iota
	consoleModeFiles
	consoleModeSearch
)

type ConsoleModel struct {
	stores  *Stores
	session storage.Store
	Width   int
	Height  int

	Slug       string
	Mode       consoleMode
	AutoFollow bool
	Filter     models.LogLevel
	Cursor     int

	viewport viewport.Model
	search   textinput.Model
	spin     spinner.Model
	frame    int
	recent   map[string]bool
	teardown func()
}

// ConsoleAttachedMsg carries the store teardown back from the attach
// command. Init blocks on the catch-up invoke, so it must not run
// inside Update.
type ConsoleAttachedMsg struct {
	slug     string
	teardown func()
}

func NewConsoleModel(stores *Stores, session storage.Store) ConsoleModel {
	ti := textinput.New()
	ti.Placeholder = "search logs"
	ti.CharLimit = 120

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.PrimaryStyle

	return ConsoleModel{
		stores:     stores,
		session:    session,
		AutoFollow: true,
		viewport:   viewport.New(0, 0),
		search:     ti,
		spin:       sp,
	}
}

func (m ConsoleModel) Init() tea.Cmd {
	return m.spin.Tick
}

// SetEntry attaches the console to the routed instance, loading saved
// preferences and restarting the reconciliation loop when the target
// changed.
func (m *ConsoleModel) SetEntry(entry router.Entry) tea.Cmd {
	slug := entry.Params["slug"]
	if slug == m.Slug && m.teardown != nil {
		return nil
	}

	if m.teardown != nil {
		m.teardown()
		m.teardown = nil
	}

	m.Slug = slug
	m.Mode = consoleModeView
	m.AutoFollow = true
	m.Filter = ""
	m.Cursor = 0
	m.search.SetValue("")
	m.recent = nil

	if m.session != nil {
		if prefs, err := m.session.GetConsolePrefs(slug); err == nil && prefs != nil {
			m.AutoFollow = prefs.AutoFollow
			m.Filter = models.LogLevel(prefs.LevelFilter)
		}
		if files, err := m.session.GetRecentLogFiles(slug, 10); err == nil && len(files) > 0 {
			m.recent = make(map[string]bool, len(files))
			for _, f := range files {
				m.recent[f.Path] = true
			}
		}
	}

	store := m.stores.Console
	return tea.Batch(func() tea.Msg {
		return ConsoleAttachedMsg{slug: slug, teardown: store.Init(context.Background(), slug)}
	}, m.spin.Tick)
}

// Searching reports whether the search input is capturing keystrokes.
func (m ConsoleModel) Searching() bool {
	return m.Mode == consoleModeSearch
}

// Detach stops the store subscriptions when the page is left.
func (m *ConsoleModel) Detach() {
	if m.teardown != nil {
		m.teardown()
		m.teardown = nil
	}
	m.Slug = ""
}

func (m *ConsoleModel) savePrefs() {
	if m.session == nil || m.Slug == "" {
		return
	}
	m.session.SaveConsolePrefs(m.Slug, &models.ConsolePrefs{
		AutoFollow:  m.AutoFollow,
		LevelFilter: string(m.Filter),
	})
}

func (m ConsoleModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.viewport.Width = msg.Width - 6
		m.viewport.Height = msg.Height - 12

	case spinner.TickMsg:
		if m.stores.Console.Busy() || m.stores.Console.FilesBusy() {
			m.frame++
			m.spin, cmd = m.spin.Update(msg)
			return m, cmd
		}
		return m, nil

	case ConsoleAttachedMsg:
		// The route may have moved on while the attach was in flight.
		if msg.slug != m.Slug {
			msg.teardown()
			return m, nil
		}
		if m.teardown != nil {
			m.teardown()
		}
		m.teardown = msg.teardown
		m.refreshViewport()
		return m, nil

	case StoreChangedMsg:
		m.refreshViewport()
		return m, nil

	case tea.KeyMsg:
		switch m.Mode {
		case consoleModeSearch:
			switch msg.String() {
			case "esc":
				m.Mode = consoleModeView
				m.search.Blur()
				m.search.SetValue("")
				m.refreshViewport()
				return m, nil
			case "enter":
				m.Mode = consoleModeView
				m.search.Blur()
				m.refreshViewport()
				return m, nil
			}
			m.search, cmd = m.search.Update(msg)
			m.refreshViewport()
			return m, cmd

		case consoleModeFiles:
			files := m.stores.Console.Files()
			switch msg.String() {
			case "up", "k":
				if m.Cursor > 0 {
					m.Cursor--
				}
			case "down", "j":
				if m.Cursor < len(files)-1 {
					m.Cursor++
				}
			case "enter":
				if m.Cursor < len(files) {
					f := files[m.Cursor]
					m.Mode = consoleModeView
					if m.session != nil {
						m.session.AddRecentLogFile(m.Slug, f.Path)
					}
					return m, m.viewFile(f.Path)
				}
			case "esc":
				m.Mode = consoleModeView
			}
			return m, nil
		}

		switch msg.String() {
		case "o":
			m.Mode = consoleModeFiles
			m.Cursor = 0
			return m, nil
		case "/":
			m.Mode = consoleModeSearch
			m.search.Focus()
			return m, textinput.Blink
		case "f":
			m.AutoFollow = !m.AutoFollow
			m.savePrefs()
			if m.AutoFollow {
				m.viewport.GotoBottom()
			}
			return m, nil
		case "L":
			if !m.stores.Console.Live() {
				return m, m.goLive()
			}
		case "e":
			m.cycleFilter()
			m.savePrefs()
			m.refreshViewport()
			return m, nil
		case "g":
			m.AutoFollow = false
			m.viewport.GotoTop()
			return m, nil
		case "G":
			m.viewport.GotoBottom()
			return m, nil
		}
	}

	before := m.viewport.YOffset
	m.viewport, cmd = m.viewport.Update(msg)
	if m.viewport.YOffset != before {
		m.AutoFollow = m.viewport.AtBottom()
	}
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

func (m *ConsoleModel) cycleFilter() {
	switch m.Filter {
	case "":
		m.Filter = models.LevelWarn
	case models.LevelWarn:
		m.Filter = models.LevelError
	default:
		m.Filter = ""
	}
}

func (m ConsoleModel) viewFile(path string) tea.Cmd {
	store := m.stores.Console
	return func() tea.Msg {
		store.ViewHistoricalLog(context.Background(), path)
		return StoreChangedMsg{}
	}
}

func (m ConsoleModel) goLive() tea.Cmd {
	store := m.stores.Console
	return func() tea.Msg {
		store.GoLive(context.Background())
		return StoreChangedMsg{}
	}
}

func (m *ConsoleModel) visibleLines() []models.LogLine {
	var lines []models.LogLine
	if term := m.search.Value(); term != "" {
		lines = m.stores.Console.Search(term)
	} else {
		lines = m.stores.Console.Lines()
	}
	if m.Filter == "" {
		return lines
	}

	filtered := lines[:0:0]
	for _, l := range lines {
		switch m.Filter {
		case models.LevelWarn:
			if l.Level == models.LevelWarn || l.Level == models.LevelError || l.Level == models.LevelFatal {
				filtered = append(filtered, l)
			}
		case models.LevelError:
			if l.Level == models.LevelError || l.Level == models.LevelFatal {
				filtered = append(filtered, l)
			}
		}
	}
	return filtered
}

func (m *ConsoleModel) refreshViewport() {
	var b strings.Builder
	for _, l := range m.visibleLines() {
		b.WriteString(components.ConsoleLine(l, m.viewport.Width) + "\n")
	}
	m.viewport.SetContent(b.String())
	if m.AutoFollow {
		m.viewport.GotoBottom()
	}
}

func (m ConsoleModel) View() string {
	if m.Width == 0 {
		return ""
	}
	if m.Mode == consoleModeFiles {
		return m.viewFiles()
	}
	return m.viewConsole()
}

func (m ConsoleModel) viewFiles() string {
	var b strings.Builder
	w := m.Width

	b.WriteString("\n")
	b.WriteString(components.ViewHeader(w, "Home", m.Slug, "Log Files") + "\n\n")
	b.WriteString(components.Section("LOG FILES", w) + "\n\n")

	files := m.stores.Console.Files()
	var listContent strings.Builder
	if m.stores.Console.FilesBusy() {
		listContent.WriteString(components.Loading(m.frame, "Loading archived logs"))
	} else if len(files) == 0 {
		listContent.WriteString("  " + styles.MutedStyle.Render("No archived log files"))
	} else {
		for i, f := range files {
			ptr := "   "
			if i == m.Cursor {
				ptr = " " + styles.Pointer() + " "
			}
			name := styles.BrightStyle.Render(f.Name)
			if i == m.Cursor {
				name = styles.PrimaryStyle.Render(f.Name)
			}
			listContent.WriteString(ptr + styles.Pad(name, 34) + "  " +
				styles.MutedStyle.Render(styles.Pad(helper.FormatBytes(uint64(f.Size)), 10)) + "  " +
				styles.MutedStyle.Render(helper.FormatTimeAgo(f.Modified)))
			if m.recent[f.Path] {
				listContent.WriteString("  " + styles.SubtleStyle.Render("viewed"))
			}
			listContent.WriteString("\n")
		}
	}
	b.WriteString(components.Wrap(listContent.String(), w) + "\n")

	content := b.String()
	lines := helper.CountLines(content)
	for i := 0; i < m.Height-lines-3; i++ {
		content += "\n"
	}
	content += "\n" + styles.Line(w) + "\n"
	content += components.Help([][]string{{"↑↓", "select"}, {"enter", "open"}, {"esc", "back"}})
	return content
}

func (m ConsoleModel) viewConsole() string {
	var b strings.Builder
	w := m.Width

	b.WriteString("\n")
	b.WriteString(components.ViewHeader(w, "Home", m.Slug, "Console") + "\n\n")

	mode := components.Badge("live")
	title := "CONSOLE"
	if !m.stores.Console.Live() {
		mode = components.Badge("historical")
		title = filepath.Base(m.stores.Console.HistoricalPath())
	}
	b.WriteString(components.Section(title, w) + "\n")
	b.WriteString("  " + mode)
	if reason := m.stores.Console.CrashReason(); reason != "" {
		b.WriteString("  " + styles.ErrorStyle.Render(styles.IconError+" crashed: "+reason))
	}
	if m.stores.Console.Busy() {
		b.WriteString("  " + m.spin.View() + styles.MutedStyle.Render(" loading"))
	}
	b.WriteString("\n\n")

	if m.Mode == consoleModeSearch || m.search.Value() != "" {
		b.WriteString("  " + m.search.View() + "\n")
	}

	b.WriteString(components.Wrap(m.viewport.View(), w) + "\n")

	content := b.String()
	lines := helper.CountLines(content)
	for i := 0; i < m.Height-lines-3; i++ {
		content += "\n"
	}

	content += "\n" + styles.Line(w) + "\n"

	follow := styles.MutedStyle.Render("follow: off")
	if m.AutoFollow {
		follow = styles.SuccessStyle.Render("follow: on")
	}
	filter := ""
	if m.Filter != "" {
		filter = "  " + styles.WarningStyle.Render("filter: "+strings.ToLower(string(m.Filter))+"+")
	}

	help := [][]string{{"↑↓", "scroll"}, {"f", "follow"}, {"/", "search"}, {"e", "filter"}, {"o", "files"}}
	if !m.stores.Console.Live() {
		help = append(help, []string{"L", "go live"})
	}
	content += components.Help(help)
	content += "   " + follow + filter
	content += "  " + components.LevelCounts(m.stores.Console.LevelCounts())

	return content
}

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

	tea "github.com/charmbracelet/bubbletea"

	"github.com/quarrylab/quarry/internal/bridge"
	"github.com/quarrylab/quarry/internal/config"
	"github.com/quarrylab/quarry/internal/models"
	"github.com/quarrylab/quarry/internal/router"
	"github.com/quarrylab/quarry/internal/storage"
	"github.com/quarrylab/quarry/internal/tui/views"
)

// globalChangeChannel carries store mutations into the bubbletea loop.
// Sends are non-blocking; a full channel just coalesces updates.
var globalChangeChannel = make(chan struct{}, 100)

func notifyChange() {
	select {
	case globalChangeChannel <- struct{}{}:
	default:
	}
}

func waitForStoreChange() tea.Msg {
	<-globalChangeChannel
	return views.StoreChangedMsg{}
}

type Model struct {
	Width   int
	Height  int
	Ready   bool
	Router  *router.Router
	Stores  *views.Stores
	Session storage.Store
	Config  *config.Config
	CfgPath string

	Home          views.HomeModel
	Instance      views.InstanceModel
	Console       views.ConsoleModel
	Notifications views.NotificationsModel
	Accounts      views.AccountsModel
	Settings      views.SettingsModel
	Invalid       views.InvalidModel

	// trigger watermarks; a store bumping its counter asks for a refetch
	// that must run outside the event dispatch path.
	instancesTrigger     int
	notificationsTrigger int
	accountsTrigger      int
}

func NewModel(rt *router.Router, stores *views.Stores, session storage.Store, cfg *config.Config, cfgPath string) Model {
	m := Model{
		Router:        rt,
		Stores:        stores,
		Session:       session,
		Config:        cfg,
		CfgPath:       cfgPath,
		Home:          views.NewHomeModel(stores),
		Instance:      views.NewInstanceModel(stores),
		Console:       views.NewConsoleModel(stores, session),
		Notifications: views.NewNotificationsModel(stores),
		Accounts:      views.NewAccountsModel(stores),
		Settings:      views.NewSettingsModel(cfg, cfgPath),
		Invalid:       views.NewInvalidModel(),
	}

	stores.Instances.OnChange(notifyChange)
	stores.Notifications.OnChange(notifyChange)
	stores.Console.OnChange(notifyChange)
	stores.Accounts.OnChange(notifyChange)
	rt.OnChange(notifyChange)

	rt.RegisterRefetch(router.PathHome, func() {
		go stores.Instances.Initialize(context.Background())
	})
	rt.RegisterRefetch(router.PathInstance, func() {
		go stores.Instances.Initialize(context.Background())
	})
	rt.RegisterRefetch(router.PathNotifications, func() {
		go stores.Notifications.Refresh(context.Background())
	})
	rt.RegisterRefetch(router.PathAccounts, func() {
		go stores.Accounts.Refresh(context.Background())
	})
	rt.RegisterRefetch(router.PathConsole, func() {
		go stores.Console.CatchUp(context.Background())
	})

	return m
}

func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.syncPage(), waitForStoreChange)
}

// isInputActive reports whether a page is consuming raw keystrokes, which
// suspends the global key bindings.
func (m Model) isInputActive() bool {
	path := m.Router.Current().Path
	if path == router.PathConsole && m.Console.Searching() {
		return true
	}
	if path == router.PathSettings && m.Settings.Editing {
		return true
	}
	if path == router.PathInstance && m.Instance.Dialog.Visible {
		return true
	}
	if path == router.PathAccounts && m.Accounts.Dialog.Visible {
		return true
	}
	return false
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case views.StoreChangedMsg:
		cmds = append(cmds, waitForStoreChange)
		cmds = append(cmds, m.drainTriggers()...)

	case views.NavigateMsg:
		prevPath := m.Router.Current().Path
		m.Router.Navigate(msg.Path, &msg.Opts)
		if cmd := m.afterNavigation(prevPath); cmd != nil {
			cmds = append(cmds, cmd)
		}

	case views.FlashMsg:
		m.Home.SetMessage(msg.Text, msg.Kind)

	case views.ConsoleAttachedMsg:
		// Always lands on the console model, even when the route moved on
		// mid-attach, so the carried subscriptions can be released.
		newModel, cmd := m.Console.Update(msg)
		m.Console = newModel.(views.ConsoleModel)
		return m, cmd

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			m.Console.Detach()
			return m, tea.Quit
		}

		if !m.isInputActive() {
			switch msg.String() {
			case "q":
				m.Console.Detach()
				return m, tea.Quit
			case "[", "alt+left":
				if m.Router.CanGoBack() {
					prevPath := m.Router.Current().Path
					m.Router.Backwards()
					if cmd := m.afterNavigation(prevPath); cmd != nil {
						cmds = append(cmds, cmd)
					}
					return m, tea.Batch(cmds...)
				}
			case "]", "alt+right":
				if m.Router.CanGoForward() {
					prevPath := m.Router.Current().Path
					m.Router.Forwards()
					if cmd := m.afterNavigation(prevPath); cmd != nil {
						cmds = append(cmds, cmd)
					}
					return m, tea.Batch(cmds...)
				}
			case "r":
				m.Router.Reload()
				return m, nil
			case "y":
				m.Home.SetMessage("Link: "+m.Router.GenerateURL(), "info")
				return m, nil
			case "p":
				return m, m.popOut()
			}
		}

	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.Ready = true
		m.Home.Width, m.Home.Height = msg.Width, msg.Height
		m.Instance.Width, m.Instance.Height = msg.Width, msg.Height
		m.Console.Width, m.Console.Height = msg.Width, msg.Height
		m.Notifications.Width, m.Notifications.Height = msg.Width, msg.Height
		m.Accounts.Width, m.Accounts.Height = msg.Width, msg.Height
		m.Settings.Width, m.Settings.Height = msg.Width, msg.Height
		m.Invalid.Width, m.Invalid.Height = msg.Width, msg.Height
	}

	cmds = append(cmds, m.updatePage(msg))
	return m, tea.Batch(cmds...)
}

// afterNavigation re-points per-entity pages at the new route and persists
// the position.
func (m *Model) afterNavigation(prevPath string) tea.Cmd {
	entry := m.Router.Current()

	if prevPath == router.PathConsole && entry.Path != router.PathConsole {
		m.Console.Detach()
	}

	var cmd tea.Cmd
	switch entry.Path {
	case router.PathInstance:
		m.Instance.SetEntry(entry)
	case router.PathConsole:
		cmd = m.Console.SetEntry(entry)
	case router.PathInvalid:
		m.Invalid.SetEntry(entry)
	case router.PathHome:
		m.Home.ClearMessage()
	}

	m.saveRoute()
	return cmd
}

func (m *Model) saveRoute() {
	if m.Session == nil {
		return
	}
	entry := m.Router.Current()
	if entry.Path == router.PathInvalid {
		return
	}
	m.Session.SaveLastRoute(&models.SavedRoute{
		Path:   entry.Path,
		Params: entry.Params,
		Props:  entry.Props,
	})
}

// drainTriggers turns store refetch requests into async commands. Stores
// cannot invoke from event handlers without stalling the bridge read loop,
// so the refetch runs here instead.
func (m *Model) drainTriggers() []tea.Cmd {
	var cmds []tea.Cmd

	alerts := m.Stores.Notifications

	if t := m.Stores.Instances.Trigger(); t != m.instancesTrigger {
		m.instancesTrigger = t
		store := m.Stores.Instances
		cmds = append(cmds, func() tea.Msg {
			if err := store.Initialize(context.Background()); err != nil {
				alerts.PushAlert(models.SeverityError, "Instance refresh failed: "+err.Error())
			}
			return nil
		})
	}

	if t := m.Stores.Notifications.Trigger(); t != m.notificationsTrigger {
		m.notificationsTrigger = t
		store := m.Stores.Notifications
		cmds = append(cmds, func() tea.Msg {
			if err := store.Refresh(context.Background()); err != nil {
				alerts.PushAlert(models.SeverityError, "Notification refresh failed: "+err.Error())
			}
			return nil
		})
	}

	if t := m.Stores.Accounts.Trigger(); t != m.accountsTrigger {
		m.accountsTrigger = t
		accounts := m.Stores.Accounts
		instances := m.Stores.Instances
		cmds = append(cmds, func() tea.Msg {
			if err := accounts.Refresh(context.Background()); err != nil {
				alerts.PushAlert(models.SeverityError, "Account refresh failed: "+err.Error())
			}
			instances.SetGuest(accounts.IsGuest())
			if err := instances.Initialize(context.Background()); err != nil {
				alerts.PushAlert(models.SeverityError, "Instance refresh failed: "+err.Error())
			}
			return nil
		})
	}

	return cmds
}

// popOut serializes the full navigation state and asks the backend to spawn
// a second window primed with it.
func (m *Model) popOut() tea.Cmd {
	rt := m.Router
	b := m.Stores.Bridge
	return func() tea.Msg {
		handoff, err := rt.EncodeHandoff()
		if err != nil {
			return views.FlashMsg{Text: "Pop out failed: " + err.Error(), Kind: "error"}
		}
		_, err = b.Invoke(context.Background(), bridge.CmdLaunchNewWindow, map[string]string{
			"handoff": handoff,
		})
		if err != nil {
			return views.FlashMsg{Text: "Pop out failed: " + err.Error(), Kind: "error"}
		}
		return views.FlashMsg{Text: "Opened in new window", Kind: "success"}
	}
}

// syncPage primes the page for the current route on startup (the route may
// come from a deep link, a handoff, or the saved session).
func (m *Model) syncPage() tea.Cmd {
	return m.afterNavigation("")
}

func (m *Model) updatePage(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	var newModel tea.Model

	switch m.Router.Current().Path {
	case router.PathHome:
		newModel, cmd = m.Home.Update(msg)
		m.Home = newModel.(views.HomeModel)
	case router.PathInstance:
		newModel, cmd = m.Instance.Update(msg)
		m.Instance = newModel.(views.InstanceModel)
	case router.PathConsole:
		newModel, cmd = m.Console.Update(msg)
		m.Console = newModel.(views.ConsoleModel)
	case router.PathNotifications:
		newModel, cmd = m.Notifications.Update(msg)
		m.Notifications = newModel.(views.NotificationsModel)
	case router.PathAccounts:
		newModel, cmd = m.Accounts.Update(msg)
		m.Accounts = newModel.(views.AccountsModel)
	case router.PathSettings:
		newModel, cmd = m.Settings.Update(msg)
		m.Settings = newModel.(views.SettingsModel)
	case router.PathInvalid:
		newModel, cmd = m.Invalid.Update(msg)
		m.Invalid = newModel.(views.InvalidModel)
	}
	return cmd
}

func (m *Model) View() string {
	if !m.Ready {
		return ""
	}
	switch m.Router.Current().Path {
	case router.PathHome:
		return m.Home.View()
	case router.PathInstance:
		return m.Instance.View()
	case router.PathConsole:
		return m.Console.View()
	case router.PathNotifications:
		return m.Notifications.View()
	case router.PathAccounts:
		return m.Accounts.View()
	case router.PathSettings:
		return m.Settings.View()
	case router.PathInvalid:
		return m.Invalid.View()
	default:
		return m.Home.View()
	}
}

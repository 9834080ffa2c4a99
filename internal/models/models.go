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

package models

import "time"

type LogLevel string

const (
	LevelInfo    LogLevel = "INFO"
	LevelWarn    LogLevel = "WARN"
	LevelError   LogLevel = "ERROR"
	LevelDebug   LogLevel = "DEBUG"
	LevelFatal   LogLevel = "FATAL"
	LevelUnknown LogLevel = "UNKNOWN"
)

type LaunchState string

const (
	LaunchIdle    LaunchState = "idle"
	LaunchPending LaunchState = "pending"
	LaunchRunning LaunchState = "running"
	LaunchFailed  LaunchState = "failed"
)

type AlertSeverity string

const (
	SeverityInfo    AlertSeverity = "info"
	SeveritySuccess AlertSeverity = "success"
	SeverityWarning AlertSeverity = "warning"
	SeverityError   AlertSeverity = "error"
)

// GuestInstanceID marks the synthetic demo instance shown to guest
// accounts. It never exists on the backend.
const GuestInstanceID int64 = -1

type Instance struct {
	ID         int64     `json:"id" yaml:"id"`
	Slug       string    `json:"slug" yaml:"slug"`
	Name       string    `json:"name" yaml:"name"`
	Version    string    `json:"version" yaml:"version"`
	Loader     string    `json:"loader" yaml:"loader"`
	LoaderVer  string    `json:"loader_version,omitempty" yaml:"loader_version,omitempty"`
	Icon       string    `json:"icon,omitempty" yaml:"icon,omitempty"`
	Playtime   int64     `json:"playtime" yaml:"playtime"`
	LastPlayed time.Time `json:"last_played" yaml:"last_played"`
	CreatedAt  time.Time `json:"created_at" yaml:"created_at"`
}

// RunningInfo is ephemeral process state kept apart from the persisted
// instance record.
type RunningInfo struct {
	PID       int       `json:"pid"`
	StartTime time.Time `json:"start_time"`
}

type Account struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Guest    bool   `json:"guest"`
	Active   bool   `json:"active"`
	HeadURL  string `json:"head_url,omitempty"`
}

type LogLine struct {
	ID        int      `json:"id"`
	Timestamp string   `json:"timestamp"`
	Level     LogLevel `json:"level"`
	Thread    string   `json:"thread"`
	Message   string   `json:"message"`
	Raw       string   `json:"raw"`
}

type LogFile struct {
	Path     string    `json:"path"`
	Name     string    `json:"name"`
	Size     int64     `json:"size"`
	Modified time.Time `json:"modified"`
}

// Progress of -1 means indeterminate; 0..100 determinate; >=100 complete.
type Notification struct {
	ID          int64                `json:"id"`
	ClientKey   string               `json:"client_key,omitempty"`
	Title       string               `json:"title"`
	Body        string               `json:"body,omitempty"`
	Read        bool                 `json:"read"`
	Dismissible bool                 `json:"dismissible"`
	Progress    *int                 `json:"progress,omitempty"`
	CurrentStep int                  `json:"current_step,omitempty"`
	TotalSteps  int                  `json:"total_steps,omitempty"`
	Actions     []NotificationAction `json:"actions,omitempty"`
	CreatedAt   time.Time            `json:"created_at"`
}

// NotificationAction is opaque to the frontend; clicks are relayed to the
// backend for interpretation.
type NotificationAction struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

func (n *Notification) Indeterminate() bool {
	return n.Progress != nil && *n.Progress < 0
}

func (n *Notification) Complete() bool {
	return n.Progress != nil && *n.Progress >= 100
}

// Alert is the ephemeral, memory-only notification variant. It shares the
// display contract with Notification but never reaches the backend.
type Alert struct {
	ID        int           `json:"id"`
	Severity  AlertSeverity `json:"severity"`
	Message   string        `json:"message"`
	CreatedAt time.Time     `json:"created_at"`
}

// SavedRoute is the navigation position persisted between sessions.
type SavedRoute struct {
	Path   string            `json:"path"`
	Params map[string]string `json:"params,omitempty"`
	Props  map[string]string `json:"props,omitempty"`
}

// ConsolePrefs is per-instance console presentation state. Losing it costs
// nothing the backend owns.
type ConsolePrefs struct {
	AutoFollow  bool   `json:"auto_follow"`
	LevelFilter string `json:"level_filter,omitempty"`
}

type RecentLogFile struct {
	InstanceKey string    `json:"instance_key"`
	Path        string    `json:"path"`
	ViewedAt    time.Time `json:"viewed_at"`
}

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

package bridge

import "github.com/quarrylab/quarry/internal/models"

// Backend-pushed event names. Zero or more subscribers each.
const (
	EventInstanceCreated   = "core://instance-created"
	EventInstanceUpdated   = "core://instance-updated"
	EventInstanceDeleted   = "core://instance-deleted"
	EventInstanceInstalled = "core://instance-installed"
	EventLaunchRequested   = "core://instance-launch-requested"
	EventInstanceLaunched  = "core://instance-launched"
	EventInstanceExited    = "core://instance-exited"
	EventInstanceCrashed   = "core://instance-crashed"
	EventInstanceLog       = "core://instance-log"

	EventNotificationCreated = "core://notification-created"
	EventNotificationUpdated = "core://notification-updated"

	EventAccountHeadsUpdated = "core://account-heads-updated"
	EventDialogRequest       = "core://dialog-request"
)

// Command names accepted by quarryd.
const (
	CmdListInstances         = "list_instances"
	CmdLaunchInstance        = "launch_instance"
	CmdKillInstance          = "kill_instance"
	CmdGetActiveAccount      = "get_active_account"
	CmdGetAccounts           = "get_accounts"
	CmdSetActiveAccount      = "set_active_account"
	CmdRemoveAccount         = "remove_account"
	CmdInstallResource       = "install_resource"
	CmdSearchResources       = "search_resources"
	CmdGetInstalledResources = "get_installed_resources"
	CmdReadInstanceLog       = "read_instance_log"
	CmdGetInstanceLogHistory = "get_instance_log_history"
	CmdReadSpecificLogFile   = "read_specific_log_file"
	CmdListNotifications     = "list_notifications"
	CmdCreateNotification    = "create_notification"
	CmdMarkNotificationRead  = "mark_notification_read"
	CmdDeleteNotification    = "delete_notification"
	CmdClearNotifications    = "clear_notifications"
	CmdInvokeAction          = "invoke_notification_action"
	CmdCreateShortcut        = "create_desktop_shortcut"
	CmdLaunchNewWindow       = "launch_new_window"
	CmdResetApp              = "reset_app"
)

type InstanceLogEvent struct {
	InstanceKey string   `json:"instance_key"`
	Lines       []string `json:"lines"`
}

type InstanceLaunchedEvent struct {
	Slug      string `json:"slug"`
	PID       int    `json:"pid"`
	StartTime int64  `json:"start_time"`
}

type InstanceExitedEvent struct {
	Slug     string `json:"slug"`
	ExitCode int    `json:"exit_code"`
}

type InstanceCrashedEvent struct {
	Slug   string `json:"slug"`
	Reason string `json:"reason"`
}

type LaunchRequestedEvent struct {
	Slug string `json:"slug"`
}

type InstanceEvent struct {
	Instance models.Instance `json:"instance"`
}

type InstanceDeletedEvent struct {
	ID int64 `json:"id"`
}

type NotificationEvent struct {
	Notification models.Notification `json:"notification"`
}

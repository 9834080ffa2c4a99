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

package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/quarrylab/quarry/internal/models"
	"github.com/quarrylab/quarry/internal/tui/styles"
)

func Wrap(content string, w int) string {
	return styles.Box.Width(w - 4).Render(content)
}

func WrapSelected(content string, w int) string {
	return styles.BoxSelected.Width(w - 4).Render(content)
}

func WrapSuccess(content string, w int) string {
	return styles.BoxSuccess.Width(w - 4).Render(content)
}

func WrapError(content string, w int) string {
	return styles.BoxError.Width(w - 4).Render(content)
}

func WrapWarning(content string, w int) string {
	return styles.BoxWarning.Width(w - 4).Render(content)
}

func Header(title string, w int) string {
	left := styles.LogoCompact()
	right := styles.MutedStyle.Render("v0.3.0")
	if title != "" {
		right = styles.HeaderStyle.Render(title)
	}
	lw := lipgloss.Width(left)
	rw := lipgloss.Width(right)
	gap := w - lw - rw - 4
	if gap < 1 {
		gap = 1
	}
	return "  " + left + strings.Repeat(" ", gap) + right + "  "
}

func Section(title string, w int) string {
	t := styles.MutedStyle.Bold(true).Render(strings.ToUpper(title))
	tw := lipgloss.Width(t)
	lw := w - tw - 6
	if lw < 0 {
		lw = 0
	}
	return "  " + t + " " + styles.Line(lw)
}

func Help(items [][]string) string {
	var p []string
	for _, i := range items {
		if len(i) >= 2 {
			p = append(p, styles.KeyStyle.Render(i[0])+" "+styles.DescStyle.Render(i[1]))
		}
	}
	return "  " + strings.Join(p, "   ")
}

func Badge(s string) string {
	switch s {
	case "running":
		return styles.BadgeRunning.Render("RUNNING")
	case "pending":
		return styles.BadgePending.Render("LAUNCHING")
	case "failed", "error", "crashed":
		return styles.BadgeFailed.Render("FAILED")
	case "live":
		return styles.BadgeRunning.Render("LIVE")
	case "historical":
		return styles.BadgeMuted.Render("FILE")
	case "active":
		return styles.BadgePrimary.Render("ACTIVE")
	case "guest":
		return styles.BadgeMuted.Render("GUEST")
	case "demo":
		return styles.BadgePrimary.Render("DEMO")
	case "unread":
		return styles.BadgePrimary.Render("NEW")
	default:
		return styles.BadgeMuted.Render(strings.ToUpper(s))
	}
}

func CenteredLogo(w int) string {
	logo := styles.Logo()
	lines := strings.Split(logo, "\n")
	lw := 0
	for _, l := range lines {
		if lipgloss.Width(l) > lw {
			lw = lipgloss.Width(l)
		}
	}
	var b strings.Builder
	for _, l := range lines {
		pad := (w - lw) / 2
		if pad < 0 {
			pad = 0
		}
		b.WriteString(strings.Repeat(" ", pad) + l + "\n")
	}
	tag := styles.Tagline()
	tagW := lipgloss.Width(tag)
	tagPad := (w - tagW) / 2
	if tagPad < 0 {
		tagPad = 0
	}
	b.WriteString(strings.Repeat(" ", tagPad) + tag)
	return b.String()
}

func InstanceRow(name, version, loader string, state models.LaunchState, playtime string, selected bool, w int) string {
	ptr := "   "
	if selected {
		ptr = " " + styles.Pointer() + " "
	}

	dot := styles.Stopped()
	if state == models.LaunchRunning {
		dot = styles.Running()
	}

	nameStyle := styles.BrightStyle
	if selected {
		nameStyle = styles.PrimaryStyle
	}

	status := ""
	switch state {
	case models.LaunchRunning:
		status = Badge("running")
	case models.LaunchPending:
		status = Badge("pending")
	case models.LaunchFailed:
		status = Badge("failed")
	}

	return fmt.Sprintf("%s%s  %s  %s  %s  %s",
		ptr,
		dot,
		nameStyle.Render(styles.Pad(styles.Trunc(name, 24), 24)),
		styles.MutedStyle.Render(styles.Pad(version, 8)),
		styles.MutedStyle.Render(styles.Pad(loader, 10)),
		styles.Pad(status, 11)+"  "+styles.MutedStyle.Render(playtime))
}

func InstanceHeader(w int) string {
	return fmt.Sprintf("       %s  %s  %s  %s",
		styles.MutedStyle.Render(styles.Pad("NAME", 24)),
		styles.MutedStyle.Render(styles.Pad("VERSION", 8)),
		styles.MutedStyle.Render(styles.Pad("LOADER", 10)),
		styles.MutedStyle.Render("STATUS"))
}

func NotificationRow(n models.Notification, selected bool, w int) string {
	ptr := "   "
	if selected {
		ptr = " " + styles.Pointer() + " "
	}

	icon := styles.MutedStyle.Render(styles.IconRead)
	if !n.Read {
		icon = styles.PrimaryStyle.Render(styles.IconUnread)
	}

	titleStyle := styles.BrightStyle
	if selected {
		titleStyle = styles.PrimaryStyle
	}

	progress := ""
	if n.Indeterminate() {
		progress = styles.MutedStyle.Render("working...")
	} else if n.Progress != nil && !n.Complete() {
		progress = styles.PrimaryStyle.Render(fmt.Sprintf("%d%%", *n.Progress))
	} else if n.Complete() {
		progress = styles.SuccessStyle.Render(styles.IconSuccess)
	}

	return fmt.Sprintf("%s%s  %s  %s  %s",
		ptr,
		icon,
		titleStyle.Render(styles.Pad(styles.Trunc(n.Title, 28), 28)),
		styles.MutedStyle.Render(styles.Pad(styles.Trunc(n.Body, 30), 30)),
		progress)
}

func AlertRow(a models.Alert, w int) string {
	icon := styles.InfoStyle.Render(styles.IconRunning)
	switch a.Severity {
	case models.SeverityError:
		icon = styles.ErrorStyle.Render(styles.IconError)
	case models.SeverityWarning:
		icon = styles.WarningStyle.Render(styles.IconWarning)
	case models.SeveritySuccess:
		icon = styles.SuccessStyle.Render(styles.IconSuccess)
	}
	return fmt.Sprintf("   %s  %s", icon, a.Message)
}

func AccountRow(acc models.Account, active, selected bool, w int) string {
	ptr := "   "
	if selected {
		ptr = " " + styles.Pointer() + " "
	}

	nameStyle := styles.BrightStyle
	if selected {
		nameStyle = styles.PrimaryStyle
	}

	badge := ""
	if active {
		badge = Badge("active")
	}
	if acc.Guest {
		badge = Badge("guest")
	}

	return fmt.Sprintf("%s%s  %s",
		ptr,
		nameStyle.Render(styles.Pad(styles.Trunc(acc.Username, 24), 24)),
		badge)
}

func ConsoleLine(line models.LogLine, w int) string {
	var levelStyle lipgloss.Style
	switch line.Level {
	case models.LevelError, models.LevelFatal:
		levelStyle = styles.ErrorStyle
	case models.LevelWarn:
		levelStyle = styles.WarningStyle
	case models.LevelDebug:
		levelStyle = styles.SubtleStyle
	case models.LevelUnknown:
		return "  " + styles.MutedStyle.Render(styles.Trunc(line.Raw, w-4))
	default:
		levelStyle = styles.MutedStyle
	}

	return fmt.Sprintf("  %s %s %s",
		styles.SubtleStyle.Render(line.Timestamp),
		levelStyle.Render(styles.Pad(string(line.Level), 5)),
		styles.Trunc(line.Message, w-18))
}

func Select(options []string, cursor int) string {
	var b strings.Builder
	for i, o := range options {
		ptr := "   "
		label := styles.MutedStyle.Render(o)
		if i == cursor {
			ptr = " " + styles.Pointer() + " "
			label = styles.PrimaryStyle.Render(o)
		}
		b.WriteString(ptr + label + "\n")
	}
	return b.String()
}

func Toggle(label string, value bool, focused bool) string {
	var tog string
	if value {
		tog = styles.SuccessStyle.Render("[ON]") + "  " + styles.MutedStyle.Render("[OFF]")
	} else {
		tog = styles.MutedStyle.Render("[ON]") + "  " + styles.PrimaryStyle.Render("[OFF]")
	}
	ptr := "   "
	ls := styles.MutedStyle
	if focused {
		ptr = " " + styles.Pointer() + " "
		ls = styles.BrightStyle
	}
	return ptr + ls.Render(styles.Pad(label, 20)) + "  " + tog
}

func MsgSuccess(msg string, w int) string {
	return WrapSuccess(styles.SuccessStyle.Render(styles.IconSuccess)+"  "+styles.SuccessStyle.Render(msg), w)
}

func MsgError(msg string, w int) string {
	return WrapError(styles.ErrorStyle.Render(styles.IconError)+"  "+styles.ErrorStyle.Render(msg), w)
}

func MsgWarning(msg string, w int) string {
	return WrapWarning(styles.WarningStyle.Render(styles.IconWarning)+"  "+styles.WarningStyle.Render(msg), w)
}

func MsgInfo(msg string, w int) string {
	return Wrap(styles.PrimaryStyle.Render("●")+"  "+msg, w)
}

func Empty(title, sub string, w int) string {
	c := styles.MutedStyle.Render(title)
	if sub != "" {
		c += "\n" + styles.SubtleStyle.Render(sub)
	}
	return Wrap(c, w)
}

func LevelCounts(counts map[models.LogLevel]int) string {
	order := []models.LogLevel{models.LevelInfo, models.LevelWarn, models.LevelError, models.LevelDebug}
	var p []string
	for _, lvl := range order {
		n := counts[lvl]
		if n == 0 {
			continue
		}
		var st lipgloss.Style
		switch lvl {
		case models.LevelError:
			st = styles.ErrorStyle
		case models.LevelWarn:
			st = styles.WarningStyle
		case models.LevelDebug:
			st = styles.SubtleStyle
		default:
			st = styles.MutedStyle
		}
		p = append(p, st.Render(fmt.Sprintf("%d %s", n, strings.ToLower(string(lvl)))))
	}
	return strings.Join(p, "  ")
}

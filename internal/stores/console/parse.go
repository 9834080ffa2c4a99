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

package console

import (
	"regexp"

	"github.com/quarrylab/quarry/internal/models"
)

// Game log framing: [HH:MM:SS] [thread/LEVEL]: message
var linePattern = regexp.MustCompile(`^\[(\d{2}:\d{2}:\d{2})\] \[(.+?)/(INFO|WARN|ERROR|DEBUG|FATAL)\]: ?(.*)$`)

// ParseLine classifies one raw line. Anything the pattern rejects degrades
// to UNKNOWN with message == raw; lines are never dropped.
func ParseLine(id int, raw string) models.LogLine {
	m := linePattern.FindStringSubmatch(raw)
	if m == nil {
		return models.LogLine{
			ID:      id,
			Level:   models.LevelUnknown,
			Message: raw,
			Raw:     raw,
		}
	}

	return models.LogLine{
		ID:        id,
		Timestamp: m[1],
		Thread:    m[2],
		Level:     models.LogLevel(m[3]),
		Message:   m[4],
		Raw:       raw,
	}
}

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

package storage

import "github.com/quarrylab/quarry/internal/models"

// Store persists session convenience state between runs: where the user
// was, how each console was configured, and which log files they opened.
// Lookups return (nil, nil) when no row exists.
type Store interface {
	SaveLastRoute(route *models.SavedRoute) error
	GetLastRoute() (*models.SavedRoute, error)

	SaveConsolePrefs(instanceKey string, prefs *models.ConsolePrefs) error
	GetConsolePrefs(instanceKey string) (*models.ConsolePrefs, error)

	AddRecentLogFile(instanceKey, path string) error
	GetRecentLogFiles(instanceKey string, limit int) ([]models.RecentLogFile, error)

	Close() error
}

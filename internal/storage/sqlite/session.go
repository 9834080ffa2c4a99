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

package sqlite

import (
	"database/sql"
	"encoding/json"
	"time"

	"github.com/quarrylab/quarry/internal/models"
)

const lastRouteKey = "last_route"

func (s *Store) SaveLastRoute(route *models.SavedRoute) error {
	value, err := json.Marshal(route)
	if err != nil {
		return err
	}
	_, err = s.db.Exec(`
		INSERT INTO session (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`, lastRouteKey, string(value), time.Now())
	return err
}

func (s *Store) GetLastRoute() (*models.SavedRoute, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM session WHERE key = ?`, lastRouteKey).Scan(&value)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	route := &models.SavedRoute{}
	if err := json.Unmarshal([]byte(value), route); err != nil {
		return nil, err
	}
	return route, nil
}

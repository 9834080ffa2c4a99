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
	"time"

	"github.com/quarrylab/quarry/internal/models"
)

// maxRecentLogFiles caps the recent-files list per instance.
const maxRecentLogFiles = 20

func (s *Store) SaveConsolePrefs(instanceKey string, prefs *models.ConsolePrefs) error {
	_, err := s.db.Exec(`
		INSERT INTO console_prefs (instance_key, auto_follow, level_filter, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(instance_key) DO UPDATE SET
			auto_follow = excluded.auto_follow,
			level_filter = excluded.level_filter,
			updated_at = excluded.updated_at
	`, instanceKey, prefs.AutoFollow, prefs.LevelFilter, time.Now())
	return err
}

func (s *Store) GetConsolePrefs(instanceKey string) (*models.ConsolePrefs, error) {
	prefs := &models.ConsolePrefs{}
	err := s.db.QueryRow(`
		SELECT auto_follow, level_filter FROM console_prefs WHERE instance_key = ?
	`, instanceKey).Scan(&prefs.AutoFollow, &prefs.LevelFilter)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return prefs, nil
}

func (s *Store) AddRecentLogFile(instanceKey, path string) error {
	_, err := s.db.Exec(`
		INSERT INTO recent_log_files (instance_key, path, viewed_at) VALUES (?, ?, ?)
		ON CONFLICT(instance_key, path) DO UPDATE SET viewed_at = excluded.viewed_at
	`, instanceKey, path, time.Now())
	if err != nil {
		return err
	}

	_, err = s.db.Exec(`
		DELETE FROM recent_log_files WHERE instance_key = ? AND id NOT IN (
			SELECT id FROM recent_log_files WHERE instance_key = ?
			ORDER BY viewed_at DESC LIMIT ?
		)
	`, instanceKey, instanceKey, maxRecentLogFiles)
	return err
}

func (s *Store) GetRecentLogFiles(instanceKey string, limit int) ([]models.RecentLogFile, error) {
	if limit <= 0 || limit > maxRecentLogFiles {
		limit = maxRecentLogFiles
	}

	rows, err := s.db.Query(`
		SELECT instance_key, path, viewed_at FROM recent_log_files
		WHERE instance_key = ? ORDER BY viewed_at DESC LIMIT ?
	`, instanceKey, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var files []models.RecentLogFile
	for rows.Next() {
		var f models.RecentLogFile
		var viewedAt sql.NullTime
		if err := rows.Scan(&f.InstanceKey, &f.Path, &viewedAt); err != nil {
			return nil, err
		}
		if viewedAt.Valid {
			f.ViewedAt = viewedAt.Time
		}
		files = append(files, f)
	}
	return files, rows.Err()
}

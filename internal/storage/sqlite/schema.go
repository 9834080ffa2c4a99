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

const schema = `
CREATE TABLE IF NOT EXISTS session (
	key TEXT PRIMARY KEY,
	value TEXT NOT NULL,
	updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS console_prefs (
	instance_key TEXT PRIMARY KEY,
	auto_follow INTEGER DEFAULT 1,
	level_filter TEXT DEFAULT '',
	updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS recent_log_files (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	instance_key TEXT NOT NULL,
	path TEXT NOT NULL,
	viewed_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	UNIQUE(instance_key, path)
);

CREATE INDEX IF NOT EXISTS idx_recent_log_files_instance ON recent_log_files(instance_key, viewed_at DESC);
`

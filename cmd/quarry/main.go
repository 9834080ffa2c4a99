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
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/quarrylab/quarry/internal/cli"
	"github.com/quarrylab/quarry/internal/config"
	"github.com/quarrylab/quarry/pkg/logger"
)

func main() {
	logPath := filepath.Join(config.DefaultDataDir, "quarry-frontend.log")
	if err := logger.Init(logPath, "info"); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	logger.Info("Starting Quarry")

	if err := cli.Execute(); err != nil {
		logger.Error("Fatal error: %v", err)
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

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

package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/quarrylab/quarry/internal/bridge"
	"github.com/quarrylab/quarry/internal/config"
	"github.com/quarrylab/quarry/internal/storage/sqlite"
	"github.com/quarrylab/quarry/internal/tui"
	"github.com/quarrylab/quarry/pkg/helper"
)

var (
	cfgPath  string
	startURL string
	handoff  string
	cfg      *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "quarry",
	Short: "Quarry - Minecraft Instance Launcher",
	Long:  `Quarry is a terminal frontend for the quarryd launcher daemon.`,
	Run:   runApplication,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "config file path")
	rootCmd.Flags().StringVar(&startURL, "url", "", "quarry:// link to open on start")
	rootCmd.Flags().StringVar(&handoff, "handoff", "", "serialized navigation state from a pop-out")
	rootCmd.Flags().MarkHidden("handoff")
}

func initConfig() {
	if cfgPath == "" {
		cfgPath = os.Getenv("QUARRY_CONFIG")
	}
	if cfgPath == "" {
		cfgPath = config.DefaultConfigPath
	}

	if helper.Exists(cfgPath) {
		var err error
		cfg, err = config.Load(cfgPath)
		if err != nil {
			fmt.Printf("Warning: Failed to load config: %v\n", err)
		}
	}
	if cfg == nil {
		cfg = config.Default()
	}
}

func runApplication(cmd *cobra.Command, args []string) {
	session, err := sqlite.New(cfg.Data.Dir)
	if err != nil {
		fmt.Printf("Error initializing session database: %v\n", err)
		os.Exit(1)
	}
	defer session.Close()

	client := bridge.NewClient(cfg.Backend)
	connectCtx, cancel := context.WithTimeout(context.Background(),
		time.Duration(cfg.Backend.ConnectTimeout)*time.Second)
	defer cancel()

	if err := client.Connect(connectCtx); err != nil {
		fmt.Printf("Error: could not reach quarryd at %s:%d: %v\n",
			cfg.Backend.Host, cfg.Backend.Port, err)
		os.Exit(1)
	}
	defer client.Close()

	err = tui.Run(client, cfg, session, tui.Options{
		CfgPath: cfgPath,
		URL:     startURL,
		Handoff: handoff,
	})
	if err != nil {
		fmt.Printf("TUI Error: %v\n", err)
		os.Exit(1)
	}
}

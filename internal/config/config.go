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

package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Backend  BackendConfig  `yaml:"backend"`
	DeepLink DeepLinkConfig `yaml:"deeplink"`
	Data     DataConfig     `yaml:"data"`
	Log      LogConfig      `yaml:"log"`
	Console  ConsoleConfig  `yaml:"console"`
}

// BackendConfig points at the quarryd daemon the frontend bridges to.
type BackendConfig struct {
	Host           string `yaml:"host"`
	Port           int    `yaml:"port"`
	ConnectTimeout int    `yaml:"connect_timeout_seconds"`
	InvokeTimeout  int    `yaml:"invoke_timeout_seconds"`
}

// DeepLinkConfig configures the loopback listener the OS protocol handler
// posts quarry:// URLs to.
type DeepLinkConfig struct {
	Enabled bool   `yaml:"enabled"`
	Host    string `yaml:"host"`
	Port    int    `yaml:"port"`
}

type DataConfig struct {
	Dir string `yaml:"dir"`
}

type LogConfig struct {
	Path  string `yaml:"path"`
	Level string `yaml:"level"`
}

type ConsoleConfig struct {
	CatchUpTail int `yaml:"catch_up_tail"`
}

var (
	DefaultConfigPath = defaultConfigPath()
	DefaultDataDir    = defaultDataDir()
)

func defaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "quarry.yaml"
	}
	return filepath.Join(home, ".config", "quarry", "config.yaml")
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".quarry"
	}
	return filepath.Join(home, ".local", "share", "quarry")
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	cfg.setDefaults()
	return &cfg, nil
}

func (c *Config) setDefaults() {
	if c.Backend.Host == "" {
		c.Backend.Host = "127.0.0.1"
	}
	if c.Backend.Port == 0 {
		c.Backend.Port = 27615
	}
	if c.Backend.ConnectTimeout == 0 {
		c.Backend.ConnectTimeout = 10
	}
	if c.Backend.InvokeTimeout == 0 {
		c.Backend.InvokeTimeout = 30
	}
	if c.DeepLink.Host == "" {
		c.DeepLink.Host = "127.0.0.1"
	}
	if c.DeepLink.Port == 0 {
		c.DeepLink.Port = 27616
	}
	if c.Data.Dir == "" {
		c.Data.Dir = DefaultDataDir
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Console.CatchUpTail == 0 {
		c.Console.CatchUpTail = 500
	}
}

func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("write config: %w", err)
	}

	return nil
}

func Default() *Config {
	cfg := &Config{
		DeepLink: DeepLinkConfig{Enabled: true},
	}
	cfg.setDefaults()
	return cfg
}

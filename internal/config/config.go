/*
 * Copyright 2023 The MongoSnap Authors. All rights reserved.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package config loads the environment-sourced configuration shared by the
// mongosnap tools.
package config

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Environment variable names read by the tools. A local .env file is loaded
// first when present, matching the behavior of the connection tooling this
// replaces.
const (
	EnvConnectionURI  = "MONGODB_CONNECTION_STRING"
	EnvDatabase       = "DATABASE_NAME"
	EnvTargetDatabase = "TARGET_DATABASE_NAME"
	EnvExportDir      = "EXPORT_DIR"
	EnvLogLevel       = "LOG_LEVEL"
)

// DefaultExportDir is the snapshot root used when EXPORT_DIR is not set.
const DefaultExportDir = "mongodb_export"

// ErrMissingEnv is returned when a required environment variable is not set.
var ErrMissingEnv = errors.New("required environment variable is not set")

var defaultValidator = validator.New()

// Config is the configuration for the mongosnap tools.
type Config struct {
	ConnectionURI  string `validate:"required,mongodb_connection_string"`
	Database       string
	TargetDatabase string
	ExportDir      string `validate:"required"`
	LogLevel       string
}

// Load reads the configuration from the environment. It never touches the
// network; a missing or malformed connection string is reported here, before
// any connection attempt.
func Load() (*Config, error) {
	// A missing .env file is fine; the environment may be set directly.
	_ = godotenv.Load()

	viper.AutomaticEnv()
	viper.SetDefault(EnvExportDir, DefaultExportDir)
	viper.SetDefault(EnvLogLevel, "info")

	conf := &Config{
		ConnectionURI:  viper.GetString(EnvConnectionURI),
		Database:       viper.GetString(EnvDatabase),
		TargetDatabase: viper.GetString(EnvTargetDatabase),
		ExportDir:      viper.GetString(EnvExportDir),
		LogLevel:       viper.GetString(EnvLogLevel),
	}

	if conf.ConnectionURI == "" {
		return nil, fmt.Errorf("%s: %w", EnvConnectionURI, ErrMissingEnv)
	}
	if err := conf.Validate(); err != nil {
		return nil, err
	}

	return conf, nil
}

// Validate checks the loaded values without requiring the per-tool fields.
func (c *Config) Validate() error {
	if err := defaultValidator.Struct(c); err != nil {
		return fmt.Errorf("validate config: %w", err)
	}
	return nil
}

// EnsureDatabase checks that the source database name is present.
func (c *Config) EnsureDatabase() error {
	if c.Database == "" {
		return fmt.Errorf("%s: %w", EnvDatabase, ErrMissingEnv)
	}
	return nil
}

// EnsureTargetDatabase checks that the target database name is present.
func (c *Config) EnsureTargetDatabase() error {
	if c.TargetDatabase == "" {
		return fmt.Errorf("%s: %w", EnvTargetDatabase, ErrMissingEnv)
	}
	return nil
}

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

package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mongosnap/mongosnap/internal/config"
)

func TestConfig(t *testing.T) {
	t.Run("missing connection string test", func(t *testing.T) {
		t.Setenv(config.EnvConnectionURI, "")

		_, err := config.Load()
		assert.ErrorIs(t, err, config.ErrMissingEnv)
	})

	t.Run("defaults test", func(t *testing.T) {
		t.Setenv(config.EnvConnectionURI, "mongodb://localhost:27017")

		conf, err := config.Load()
		assert.NoError(t, err)
		assert.Equal(t, config.DefaultExportDir, conf.ExportDir)
		assert.Equal(t, "info", conf.LogLevel)
	})

	t.Run("malformed connection string test", func(t *testing.T) {
		t.Setenv(config.EnvConnectionURI, "localhost:27017")

		_, err := config.Load()
		assert.Error(t, err)
	})

	t.Run("per-tool required fields test", func(t *testing.T) {
		t.Setenv(config.EnvConnectionURI, "mongodb://localhost:27017")
		t.Setenv(config.EnvDatabase, "")
		t.Setenv(config.EnvTargetDatabase, "")

		conf, err := config.Load()
		assert.NoError(t, err)
		assert.ErrorIs(t, conf.EnsureDatabase(), config.ErrMissingEnv)
		assert.ErrorIs(t, conf.EnsureTargetDatabase(), config.ErrMissingEnv)

		t.Setenv(config.EnvDatabase, "shop")
		t.Setenv(config.EnvTargetDatabase, "shop-copy")

		conf, err = config.Load()
		assert.NoError(t, err)
		assert.NoError(t, conf.EnsureDatabase())
		assert.NoError(t, conf.EnsureTargetDatabase())
		assert.Equal(t, "shop", conf.Database)
		assert.Equal(t, "shop-copy", conf.TargetDatabase)
	})
}

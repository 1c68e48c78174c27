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

// Package main is the entry point of the mongosnap-export CLI. It reads the
// connection string and database name from the environment and exports the
// database to a directory of JSON units.
package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/mongosnap/mongosnap/internal/config"
	"github.com/mongosnap/mongosnap/internal/database/mongo"
	"github.com/mongosnap/mongosnap/internal/logging"
	"github.com/mongosnap/mongosnap/internal/snapshot"
)

var rootCmd = &cobra.Command{
	Use:          "mongosnap-export",
	Short:        "Export a MongoDB database to a directory of JSON units",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		conf, err := config.Load()
		if err != nil {
			return err
		}
		if err := conf.EnsureDatabase(); err != nil {
			return err
		}
		if err := logging.SetLogLevel(conf.LogLevel); err != nil {
			return err
		}

		cli, err := mongo.Dial(&mongo.Config{ConnectionURI: conf.ConnectionURI})
		if err != nil {
			return err
		}
		defer func() {
			if err := cli.Close(); err != nil {
				logging.DefaultLogger().Error(err)
			}
		}()

		if _, err := snapshot.ExportDatabase(
			context.Background(),
			cli,
			conf.Database,
			conf.ExportDir,
		); err != nil {
			return err
		}

		return nil
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

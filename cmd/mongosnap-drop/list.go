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

package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/mongosnap/mongosnap/internal/config"
	"github.com/mongosnap/mongosnap/internal/database/mongo"
	"github.com/mongosnap/mongosnap/internal/logging"
	"github.com/mongosnap/mongosnap/internal/snapshot"
)

var flagOutput string

func newListCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List all databases with their collection and document counts",
		RunE: func(cmd *cobra.Command, args []string) error {
			conf, err := config.Load()
			if err != nil {
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

			summaries, err := snapshot.ListDatabases(context.Background(), cli)
			if err != nil {
				return err
			}

			return printSummaries(cmd, flagOutput, summaries)
		},
	}

	cmd.Flags().StringVarP(&flagOutput, "output", "o", "", "One of 'yaml' or 'json'")
	return cmd
}

func printSummaries(cmd *cobra.Command, output string, summaries []snapshot.DatabaseSummary) error {
	switch output {
	case "":
		tw := table.NewWriter()
		tw.Style().Options.DrawBorder = false
		tw.Style().Options.SeparateColumns = false
		tw.Style().Options.SeparateFooter = false
		tw.Style().Options.SeparateHeader = false
		tw.Style().Options.SeparateRows = false
		tw.AppendHeader(table.Row{
			"NAME",
			"COLLECTIONS",
			"DOCUMENTS",
		})
		for _, summary := range summaries {
			tw.AppendRow(table.Row{
				summary.Name,
				summary.Collections,
				summary.Documents,
			})
		}
		cmd.Printf("%s\n", tw.Render())
	case "json":
		jsonOutput, err := json.MarshalIndent(summaries, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal JSON: %w", err)
		}
		cmd.Println(string(jsonOutput))
	case "yaml":
		yamlOutput, err := yaml.Marshal(summaries)
		if err != nil {
			return fmt.Errorf("marshal YAML: %w", err)
		}
		cmd.Println(string(yamlOutput))
	default:
		return fmt.Errorf("unknown output format: %s", output)
	}

	return nil
}

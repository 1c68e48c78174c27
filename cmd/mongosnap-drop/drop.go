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
	"bufio"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mongosnap/mongosnap/internal/config"
	"github.com/mongosnap/mongosnap/internal/database"
	"github.com/mongosnap/mongosnap/internal/database/mongo"
	"github.com/mongosnap/mongosnap/internal/guard"
	"github.com/mongosnap/mongosnap/internal/logging"
)

func newDropCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "drop [name]",
		Short: "Drop a database after three confirmation prompts",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDrop(cmd, args, false)
		},
	}
}

func newForceCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "force [name]",
		Short: "Drop a database without confirmation prompts",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDrop(cmd, args, true)
		},
	}
}

func runDrop(cmd *cobra.Command, args []string, skipConfirm bool) error {
	conf, err := config.Load()
	if err != nil {
		return err
	}
	if err := logging.SetLogLevel(conf.LogLevel); err != nil {
		return err
	}

	name, err := databaseName(cmd, args)
	if err != nil {
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

	g := guard.New(cli, guard.NewConsoleConfirmer(cmd.InOrStdin(), cmd.OutOrStdout()))
	outcome, err := g.DropDatabase(context.Background(), name, skipConfirm)
	return reportOutcome(cmd, name, outcome, err)
}

// reportOutcome turns a drop outcome into the user-facing result. Every
// aborted workflow reports as a cancellation, including confirmation reads
// that failed before a gate could be answered.
func reportOutcome(cmd *cobra.Command, name string, outcome guard.Outcome, err error) error {
	switch outcome {
	case guard.OutcomeDropped:
		cmd.Printf("database %q dropped successfully\n", name)
		return nil
	case guard.OutcomeNotFound:
		return fmt.Errorf("database %q does not exist: %w", name, database.ErrDatabaseNotFound)
	case guard.OutcomeAborted:
		if err != nil {
			return fmt.Errorf("operation cancelled: %w", err)
		}
		return errors.New("operation cancelled")
	default:
		if err != nil {
			return err
		}
		return fmt.Errorf("failed to drop database %q", name)
	}
}

// databaseName takes the name from the arguments or asks for it.
func databaseName(cmd *cobra.Command, args []string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}

	cmd.Print("Enter database name to drop: ")
	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("read database name: %w", err)
	}

	name := strings.TrimSpace(line)
	if name == "" {
		return "", errors.New("no database name provided")
	}
	return name, nil
}

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

// Package guard implements the confirmation workflow that protects database
// drops. Dropping is gated by three escalating prompts; failing any of them
// cancels the operation before the drop command is ever issued.
package guard

import (
	"context"
	"fmt"

	"github.com/mongosnap/mongosnap/internal/database"
	"github.com/mongosnap/mongosnap/internal/logging"
)

// Outcome is the terminal result of a drop workflow.
type Outcome int

const (
	// OutcomeDropped means the database was dropped and verified absent.
	OutcomeDropped Outcome = iota
	// OutcomeNotFound means the database did not exist; nothing happened.
	OutcomeNotFound
	// OutcomeAborted means a confirmation gate failed; nothing happened.
	OutcomeAborted
	// OutcomeFailed means the drop was issued but the database survived it.
	OutcomeFailed
)

// String returns the name of the outcome.
func (o Outcome) String() string {
	switch o {
	case OutcomeDropped:
		return "dropped"
	case OutcomeNotFound:
		return "not found"
	case OutcomeAborted:
		return "aborted"
	case OutcomeFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// DeleteToken is the literal the operator must type at the final gate.
const DeleteToken = "DELETE"

type state int

const (
	stateStart state = iota
	stateExistenceChecked
	stateConfirmed
	stateAborted
	stateDropped
	stateFailed
)

// Confirmer supplies the answers to the three confirmation gates. Injecting
// it keeps the workflow testable without a terminal.
type Confirmer interface {
	// ConfirmIntent asks the operator whether to proceed at all.
	ConfirmIntent(database string, collections int) (bool, error)

	// ConfirmName asks the operator to re-type the database name.
	ConfirmName(database string) (string, error)

	// ConfirmToken asks the operator for the literal DELETE token.
	ConfirmToken(database string) (string, error)
}

// Guard runs the drop workflow against a database.
type Guard struct {
	db        database.Database
	confirmer Confirmer
	logger    logging.Logger
}

// New creates a Guard backed by the given database and confirmer.
func New(db database.Database, confirmer Confirmer) *Guard {
	return &Guard{
		db:        db,
		confirmer: confirmer,
		logger:    logging.New("guard"),
	}
}

// DropDatabase walks the linear machine
// START -> EXISTENCE_CHECKED -> (CONFIRMED|ABORTED) -> DROPPED|FAILED.
// With skipConfirm set the gates are bypassed; the caller is trusted to have
// obtained consent out-of-band.
func (g *Guard) DropDatabase(ctx context.Context, name string, skipConfirm bool) (Outcome, error) {
	st := stateStart
	for {
		switch st {
		case stateStart:
			exists, err := g.exists(ctx, name)
			if err != nil {
				return OutcomeFailed, err
			}
			if !exists {
				g.logger.Warnf("database %q does not exist", name)
				return OutcomeNotFound, nil
			}
			st = stateExistenceChecked

		case stateExistenceChecked:
			collections, err := g.describe(ctx, name)
			if err != nil {
				return OutcomeFailed, err
			}
			if skipConfirm {
				st = stateConfirmed
				continue
			}
			confirmed, err := g.confirm(name, collections)
			if err != nil {
				return OutcomeAborted, err
			}
			if confirmed {
				st = stateConfirmed
			} else {
				st = stateAborted
			}

		case stateConfirmed:
			g.logger.Infof("dropping database %q", name)
			if err := g.db.DropDatabase(ctx, name); err != nil {
				return OutcomeFailed, err
			}
			exists, err := g.exists(ctx, name)
			if err != nil {
				return OutcomeFailed, err
			}
			if exists {
				st = stateFailed
			} else {
				st = stateDropped
			}

		case stateAborted:
			g.logger.Warnf("operation cancelled, database %q untouched", name)
			return OutcomeAborted, nil

		case stateDropped:
			g.logger.Infof("database %q dropped", name)
			return OutcomeDropped, nil

		case stateFailed:
			return OutcomeFailed, fmt.Errorf("database %q still present after drop", name)
		}
	}
}

// confirm runs the three gates strictly in order. The first failing gate
// cancels; later gates are never asked.
func (g *Guard) confirm(name string, collections int) (bool, error) {
	proceed, err := g.confirmer.ConfirmIntent(name, collections)
	if err != nil {
		return false, fmt.Errorf("confirm intent: %w", err)
	}
	if !proceed {
		return false, nil
	}

	typed, err := g.confirmer.ConfirmName(name)
	if err != nil {
		return false, fmt.Errorf("confirm name: %w", err)
	}
	if typed != name {
		g.logger.Warnf("database name mismatch: expected %q, got %q", name, typed)
		return false, nil
	}

	token, err := g.confirmer.ConfirmToken(name)
	if err != nil {
		return false, fmt.Errorf("confirm token: %w", err)
	}
	if token != DeleteToken {
		return false, nil
	}

	return true, nil
}

func (g *Guard) exists(ctx context.Context, name string) (bool, error) {
	names, err := g.db.ListDatabaseNames(ctx)
	if err != nil {
		return false, err
	}
	for _, n := range names {
		if n == name {
			return true, nil
		}
	}
	return false, nil
}

// describe logs what is about to be lost and returns the collection count.
func (g *Guard) describe(ctx context.Context, name string) (int, error) {
	collections, err := g.db.ListCollectionNames(ctx, name)
	if err != nil {
		return 0, err
	}

	g.logger.Infof("database to drop: %s (%d collections)", name, len(collections))
	for _, collection := range collections {
		count, err := g.db.CountDocuments(ctx, name, collection)
		if err != nil {
			return 0, err
		}
		g.logger.Infof("  - %s: %d documents", collection, count)
	}
	return len(collections), nil
}

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

// Package snapshot moves whole databases between a live server and a
// directory of serialized units, one unit per collection. Collections are
// processed one at a time; one collection's failure does not stop its
// siblings, but failures at the enumeration level abort the whole run.
package snapshot

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/mongosnap/mongosnap/internal/codec"
	"github.com/mongosnap/mongosnap/internal/database"
	"github.com/mongosnap/mongosnap/internal/logging"
)

// ErrSnapshotNotFound is returned when the snapshot directory for a database
// is missing or holds no serialized units.
var ErrSnapshotNotFound = errors.New("snapshot not found")

// systemDatabases are the server's own databases, excluded from listings.
var systemDatabases = map[string]bool{
	"admin":  true,
	"local":  true,
	"config": true,
}

// CollectionResult is the per-collection outcome of an export or import run.
type CollectionResult struct {
	Collection string
	Documents  int
	Err        error
}

// Result aggregates the per-collection outcomes of one run.
type Result struct {
	Database    string
	Collections []CollectionResult
	Total       int
}

// Failed returns the collections that did not complete.
func (r *Result) Failed() []CollectionResult {
	var failed []CollectionResult
	for _, c := range r.Collections {
		if c.Err != nil {
			failed = append(failed, c)
		}
	}
	return failed
}

// DatabaseSummary describes one database for listings.
type DatabaseSummary struct {
	Name        string `json:"name" yaml:"name"`
	Collections int    `json:"collections" yaml:"collections"`
	Documents   int64  `json:"documents" yaml:"documents"`
}

// ExportDatabase writes every collection of the given database under
// <root>/<database>. A collection enumeration failure aborts immediately;
// a single collection's failure is recorded and its siblings continue.
func ExportDatabase(
	ctx context.Context,
	db database.Database,
	dbName, root string,
) (*Result, error) {
	logger := logging.DefaultLogger()

	collections, err := db.ListCollectionNames(ctx, dbName)
	if err != nil {
		return nil, err
	}

	dir := filepath.Join(root, dbName)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create snapshot directory %s: %w", dir, err)
	}

	logger.Infof("exporting database: %s", dbName)
	logger.Infof("found %d collections", len(collections))

	result := &Result{Database: dbName}
	for _, collection := range collections {
		path := filepath.Join(dir, collection+codec.UnitExt)

		count, err := ExportCollection(ctx, db, dbName, collection, path)
		if err != nil {
			logger.Errorf("export %s.%s: %v", dbName, collection, err)
			result.Collections = append(result.Collections, CollectionResult{
				Collection: collection,
				Err:        err,
			})
			continue
		}

		logger.Infof("exported %d documents to %s", count, path)
		result.Collections = append(result.Collections, CollectionResult{
			Collection: collection,
			Documents:  count,
		})
		result.Total += count
	}

	if failed := result.Failed(); len(failed) > 0 {
		return result, fmt.Errorf("export database %s: %d of %d collections failed",
			dbName, len(failed), len(collections))
	}

	logger.Infof("database %s exported successfully", dbName)
	return result, nil
}

// ImportDatabase loads every serialized unit under <root>/<source> into the
// target database. A missing or empty snapshot directory aborts the run with
// ErrSnapshotNotFound; a single unit's failure is recorded and its siblings
// continue. The result carries the running total of inserted documents.
func ImportDatabase(
	ctx context.Context,
	db database.Database,
	source, target, root string,
	replace bool,
) (*Result, error) {
	logger := logging.DefaultLogger()

	dir := filepath.Join(root, source)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%s: %w", dir, ErrSnapshotNotFound)
		}
		return nil, fmt.Errorf("read snapshot directory %s: %w", dir, err)
	}

	var units []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), codec.UnitExt) {
			units = append(units, entry.Name())
		}
	}
	if len(units) == 0 {
		return nil, fmt.Errorf("no units in %s: %w", dir, ErrSnapshotNotFound)
	}
	sort.Strings(units)

	logger.Infof("importing %d units from %s into database %s", len(units), dir, target)

	result := &Result{Database: target}
	for _, unit := range units {
		collection := strings.TrimSuffix(unit, codec.UnitExt)

		count, err := ImportCollection(ctx, db, target, collection, filepath.Join(dir, unit), replace)
		result.Total += count
		if err != nil {
			logger.Errorf("import %s into %s.%s: %v", unit, target, collection, err)
			result.Collections = append(result.Collections, CollectionResult{
				Collection: collection,
				Documents:  count,
				Err:        err,
			})
			continue
		}

		logger.Infof("inserted %d documents into %s", count, collection)
		result.Collections = append(result.Collections, CollectionResult{
			Collection: collection,
			Documents:  count,
		})
	}

	logger.Infof("imported %d documents total into %s", result.Total, target)
	if failed := result.Failed(); len(failed) > 0 {
		return result, fmt.Errorf("import database %s: %d of %d units failed",
			target, len(failed), len(units))
	}
	return result, nil
}

// ListDatabases summarizes every user database on the server, skipping the
// server's own system databases.
func ListDatabases(ctx context.Context, db database.Database) ([]DatabaseSummary, error) {
	names, err := db.ListDatabaseNames(ctx)
	if err != nil {
		return nil, err
	}

	var summaries []DatabaseSummary
	for _, name := range names {
		if systemDatabases[name] {
			continue
		}

		collections, err := db.ListCollectionNames(ctx, name)
		if err != nil {
			return nil, err
		}

		var documents int64
		for _, collection := range collections {
			count, err := db.CountDocuments(ctx, name, collection)
			if err != nil {
				return nil, err
			}
			documents += count
		}

		summaries = append(summaries, DatabaseSummary{
			Name:        name,
			Collections: len(collections),
			Documents:   documents,
		})
	}
	return summaries, nil
}

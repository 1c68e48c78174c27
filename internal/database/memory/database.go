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

// Package memory implements the database interface using an in-memory
// database. It backs tests and dry runs; document order follows index order,
// which is as unspecified as a real server's storage order.
package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/hashicorp/go-memdb"
	"go.mongodb.org/mongo-driver/bson"
)

// docRecord wraps one document with its location for memdb storage.
type docRecord struct {
	ID         string
	Database   string
	Collection string
	Doc        bson.D
}

// DB is an in-memory database for testing or temporary use.
type DB struct {
	db *memdb.MemDB
}

// New returns a new in-memory database.
func New() (*DB, error) {
	memDB, err := memdb.NewMemDB(schema)
	if err != nil {
		return nil, fmt.Errorf("new memdb: %w", err)
	}

	return &DB{
		db: memDB,
	}, nil
}

// Close closes the database.
func (d *DB) Close() error {
	return nil
}

// ListDatabaseNames returns the names of all databases holding documents.
func (d *DB) ListDatabaseNames(_ context.Context) ([]string, error) {
	txn := d.db.Txn(false)
	defer txn.Abort()

	it, err := txn.Get(tblDocuments, "id")
	if err != nil {
		return nil, fmt.Errorf("list databases: %w", err)
	}

	seen := make(map[string]bool)
	var names []string
	for raw := it.Next(); raw != nil; raw = it.Next() {
		rec := raw.(*docRecord)
		if !seen[rec.Database] {
			seen[rec.Database] = true
			names = append(names, rec.Database)
		}
	}
	sort.Strings(names)
	return names, nil
}

// ListCollectionNames returns the collection names of the given database.
func (d *DB) ListCollectionNames(_ context.Context, database string) ([]string, error) {
	txn := d.db.Txn(false)
	defer txn.Abort()

	it, err := txn.Get(tblDocuments, "database", database)
	if err != nil {
		return nil, fmt.Errorf("list collections of %s: %w", database, err)
	}

	seen := make(map[string]bool)
	var names []string
	for raw := it.Next(); raw != nil; raw = it.Next() {
		rec := raw.(*docRecord)
		if !seen[rec.Collection] {
			seen[rec.Collection] = true
			names = append(names, rec.Collection)
		}
	}
	sort.Strings(names)
	return names, nil
}

// CountDocuments counts all documents of the given collection.
func (d *DB) CountDocuments(_ context.Context, database, collection string) (int64, error) {
	txn := d.db.Txn(false)
	defer txn.Abort()

	it, err := txn.Get(tblDocuments, "collection", database, collection)
	if err != nil {
		return 0, fmt.Errorf("count documents of %s.%s: %w", database, collection, err)
	}

	var count int64
	for raw := it.Next(); raw != nil; raw = it.Next() {
		count++
	}
	return count, nil
}

// FindAll fetches every document of the given collection.
func (d *DB) FindAll(_ context.Context, database, collection string) ([]bson.D, error) {
	txn := d.db.Txn(false)
	defer txn.Abort()

	it, err := txn.Get(tblDocuments, "collection", database, collection)
	if err != nil {
		return nil, fmt.Errorf("find documents of %s.%s: %w", database, collection, err)
	}

	var docs []bson.D
	for raw := it.Next(); raw != nil; raw = it.Next() {
		docs = append(docs, raw.(*docRecord).Doc)
	}
	return docs, nil
}

// InsertOne inserts a single document into the given collection.
func (d *DB) InsertOne(_ context.Context, database, collection string, doc bson.D) error {
	txn := d.db.Txn(true)
	defer txn.Abort()

	if err := txn.Insert(tblDocuments, &docRecord{
		ID:         uuid.NewString(),
		Database:   database,
		Collection: collection,
		Doc:        doc,
	}); err != nil {
		return fmt.Errorf("insert document into %s.%s: %w", database, collection, err)
	}

	txn.Commit()
	return nil
}

// InsertMany inserts the documents in one transaction and returns the number
// inserted.
func (d *DB) InsertMany(_ context.Context, database, collection string, docs []bson.D) (int, error) {
	if len(docs) == 0 {
		return 0, nil
	}

	txn := d.db.Txn(true)
	defer txn.Abort()

	for _, doc := range docs {
		if err := txn.Insert(tblDocuments, &docRecord{
			ID:         uuid.NewString(),
			Database:   database,
			Collection: collection,
			Doc:        doc,
		}); err != nil {
			return 0, fmt.Errorf("insert documents into %s.%s: %w", database, collection, err)
		}
	}

	txn.Commit()
	return len(docs), nil
}

// DeleteAll removes every document of the given collection.
func (d *DB) DeleteAll(_ context.Context, database, collection string) (int64, error) {
	txn := d.db.Txn(true)
	defer txn.Abort()

	n, err := txn.DeleteAll(tblDocuments, "collection", database, collection)
	if err != nil {
		return 0, fmt.Errorf("delete documents of %s.%s: %w", database, collection, err)
	}

	txn.Commit()
	return int64(n), nil
}

// DropDatabase removes every document of the given database.
func (d *DB) DropDatabase(_ context.Context, database string) error {
	txn := d.db.Txn(true)
	defer txn.Abort()

	if _, err := txn.DeleteAll(tblDocuments, "database", database); err != nil {
		return fmt.Errorf("drop database %s: %w", database, err)
	}

	txn.Commit()
	return nil
}

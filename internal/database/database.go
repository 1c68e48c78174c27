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

// Package database defines the server operations mongosnap needs.
package database

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
)

var (
	// ErrDatabaseNotFound is returned when the named database does not exist
	// on the server.
	ErrDatabaseNotFound = errors.New("database not found")
)

// Database reads or saves raw documents on a document server.
type Database interface {
	// Close all resources of this database.
	Close() error

	// ListDatabaseNames returns the names of all databases on the server.
	ListDatabaseNames(ctx context.Context) ([]string, error)

	// ListCollectionNames returns the collection names of the given database.
	ListCollectionNames(ctx context.Context, database string) ([]string, error)

	// CountDocuments counts all documents of the given collection.
	CountDocuments(ctx context.Context, database, collection string) (int64, error)

	// FindAll fetches every document of the given collection in storage order.
	FindAll(ctx context.Context, database, collection string) ([]bson.D, error)

	// InsertOne inserts a single document into the given collection.
	InsertOne(ctx context.Context, database, collection string, doc bson.D) error

	// InsertMany inserts the documents in one batched call and returns the
	// number of acknowledged inserts.
	InsertMany(ctx context.Context, database, collection string, docs []bson.D) (int, error)

	// DeleteAll removes every document of the given collection and returns
	// the number removed.
	DeleteAll(ctx context.Context, database, collection string) (int64, error)

	// DropDatabase drops the given database.
	DropDatabase(ctx context.Context, database string) error
}

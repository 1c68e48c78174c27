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

// Package mongo implements the database interface using MongoDB.
package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/mongosnap/mongosnap/internal/logging"
)

// Client is a client that connects to MongoDB and reads or saves documents.
type Client struct {
	config *Config
	client *mongo.Client
}

// Dial creates an instance of Client and dials the given MongoDB.
func Dial(conf *Config) (*Client, error) {
	conf.ensureDefaultValue()
	if err := conf.Validate(); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), conf.parseConnectionTimeout())
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(conf.ConnectionURI))
	if err != nil {
		return nil, fmt.Errorf("connect to mongo: %w", err)
	}

	ctxPing, cancel := context.WithTimeout(ctx, conf.parsePingTimeout())
	defer cancel()

	if err := client.Ping(ctxPing, readpref.Primary()); err != nil {
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	logging.DefaultLogger().Infof("MongoDB connected, URI: %s", conf.ConnectionURI)

	return &Client{
		config: conf,
		client: client,
	}, nil
}

// Close all resources of this client.
func (c *Client) Close() error {
	if err := c.client.Disconnect(context.Background()); err != nil {
		return fmt.Errorf("close mongo client: %w", err)
	}

	return nil
}

// ListDatabaseNames returns the names of all databases on the server.
func (c *Client) ListDatabaseNames(ctx context.Context) ([]string, error) {
	names, err := c.client.ListDatabaseNames(ctx, bson.D{})
	if err != nil {
		return nil, fmt.Errorf("list database names: %w", err)
	}
	return names, nil
}

// ListCollectionNames returns the collection names of the given database.
func (c *Client) ListCollectionNames(ctx context.Context, database string) ([]string, error) {
	names, err := c.client.Database(database).ListCollectionNames(ctx, bson.D{})
	if err != nil {
		return nil, fmt.Errorf("list collection names of %s: %w", database, err)
	}
	return names, nil
}

// CountDocuments counts all documents of the given collection.
func (c *Client) CountDocuments(ctx context.Context, database, collection string) (int64, error) {
	count, err := c.collection(database, collection).CountDocuments(ctx, bson.D{})
	if err != nil {
		return 0, fmt.Errorf("count documents of %s.%s: %w", database, collection, err)
	}
	return count, nil
}

// FindAll fetches every document of the given collection in storage order.
func (c *Client) FindAll(ctx context.Context, database, collection string) ([]bson.D, error) {
	cursor, err := c.collection(database, collection).Find(ctx, bson.D{})
	if err != nil {
		return nil, fmt.Errorf("find documents of %s.%s: %w", database, collection, err)
	}

	var docs []bson.D
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode documents of %s.%s: %w", database, collection, err)
	}
	return docs, nil
}

// InsertOne inserts a single document into the given collection.
func (c *Client) InsertOne(ctx context.Context, database, collection string, doc bson.D) error {
	if _, err := c.collection(database, collection).InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert document into %s.%s: %w", database, collection, err)
	}
	return nil
}

// InsertMany inserts the documents in one batched call and returns the number
// of acknowledged inserts.
func (c *Client) InsertMany(ctx context.Context, database, collection string, docs []bson.D) (int, error) {
	if len(docs) == 0 {
		return 0, nil
	}

	values := make([]interface{}, 0, len(docs))
	for _, doc := range docs {
		values = append(values, doc)
	}

	res, err := c.collection(database, collection).InsertMany(ctx, values)
	if err != nil {
		return 0, fmt.Errorf("insert documents into %s.%s: %w", database, collection, err)
	}
	return len(res.InsertedIDs), nil
}

// DeleteAll removes every document of the given collection.
func (c *Client) DeleteAll(ctx context.Context, database, collection string) (int64, error) {
	res, err := c.collection(database, collection).DeleteMany(ctx, bson.D{})
	if err != nil {
		return 0, fmt.Errorf("delete documents of %s.%s: %w", database, collection, err)
	}
	return res.DeletedCount, nil
}

// DropDatabase drops the given database.
func (c *Client) DropDatabase(ctx context.Context, database string) error {
	if err := c.client.Database(database).Drop(ctx); err != nil {
		return fmt.Errorf("drop database %s: %w", database, err)
	}
	return nil
}

func (c *Client) collection(database, collection string) *mongo.Collection {
	return c.client.Database(database).Collection(collection)
}

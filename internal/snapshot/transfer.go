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

package snapshot

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/mongosnap/mongosnap/internal/codec"
	"github.com/mongosnap/mongosnap/internal/database"
	"github.com/mongosnap/mongosnap/internal/logging"
)

// insertBatchSize caps one insert call. Collections larger than this are
// inserted in sub-batches so a single call never exceeds the server's batch
// limit.
const insertBatchSize = 1000

// ExportCollection writes all documents of the given collection as one
// serialized unit at path and returns the number of documents written.
func ExportCollection(
	ctx context.Context,
	db database.Database,
	dbName, colName, path string,
) (int, error) {
	docs, err := db.FindAll(ctx, dbName, colName)
	if err != nil {
		return 0, err
	}

	encoded := make([]bson.D, 0, len(docs))
	for _, doc := range docs {
		encoded = append(encoded, codec.Encode(doc))
	}

	data, err := codec.MarshalUnit(encoded)
	if err != nil {
		return 0, err
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return 0, fmt.Errorf("write unit %s: %w", path, err)
	}
	return len(docs), nil
}

// ImportCollection reads the serialized unit at path and loads it into the
// given collection, returning the number of acknowledged inserts. With
// replace set, existing documents of the target collection are removed first;
// this is destructive and is logged as such. An empty unit is a no-op, not a
// failure. An insert failure aborts the remainder of this collection's
// import; documents of earlier sub-batches remain.
func ImportCollection(
	ctx context.Context,
	db database.Database,
	dbName, colName, path string,
	replace bool,
) (int, error) {
	logger := logging.DefaultLogger()

	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return 0, fmt.Errorf("read unit %s: %w", path, err)
	}

	docs, err := codec.UnmarshalUnit(data)
	if err != nil {
		return 0, fmt.Errorf("parse unit %s: %w", path, err)
	}
	if len(docs) == 0 {
		logger.Infof("no documents in %s", filepath.Base(path))
		return 0, nil
	}

	decoded := make([]bson.D, 0, len(docs))
	for _, doc := range docs {
		decoded = append(decoded, codec.Decode(doc))
	}

	if replace {
		count, err := db.CountDocuments(ctx, dbName, colName)
		if err != nil {
			return 0, err
		}
		if count > 0 {
			logger.Warnf("replacing %d existing documents in %s.%s", count, dbName, colName)
			if _, err := db.DeleteAll(ctx, dbName, colName); err != nil {
				return 0, err
			}
		}
	}

	// A standalone top-level document is the degenerate unit form.
	if trimmed := bytes.TrimSpace(data); len(trimmed) > 0 && trimmed[0] != '[' {
		if err := db.InsertOne(ctx, dbName, colName, decoded[0]); err != nil {
			return 0, err
		}
		return 1, nil
	}

	inserted := 0
	for start := 0; start < len(decoded); start += insertBatchSize {
		end := start + insertBatchSize
		if end > len(decoded) {
			end = len(decoded)
		}

		n, err := db.InsertMany(ctx, dbName, colName, decoded[start:end])
		inserted += n
		if err != nil {
			return inserted, err
		}
	}
	return inserted, nil
}

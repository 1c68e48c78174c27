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

package codec

import (
	"bytes"
	"encoding/json"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
)

// UnitExt is the file extension of one serialized collection.
const UnitExt = ".json"

// extDoc marshals a document through the driver's relaxed extended JSON so
// that key order is preserved. Encoded documents hold only plain JSON values,
// so the output is ordinary JSON.
type extDoc bson.D

// MarshalJSON implements json.Marshaler.
func (d extDoc) MarshalJSON() ([]byte, error) {
	return bson.MarshalExtJSON(bson.D(d), false, false)
}

// MarshalUnit renders already-encoded documents as an indented JSON array.
func MarshalUnit(docs []bson.D) ([]byte, error) {
	units := make([]extDoc, 0, len(docs))
	for _, doc := range docs {
		units = append(units, extDoc(doc))
	}

	data, err := json.MarshalIndent(units, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal unit: %w", err)
	}
	return append(data, '\n'), nil
}

// UnmarshalUnit parses a serialized unit into its documents. The unit is
// normally a JSON array; a single top-level document is accepted as the
// degenerate case. An empty array yields zero documents, not an error.
func UnmarshalUnit(data []byte) ([]bson.D, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, nil
	}

	if trimmed[0] != '[' {
		var doc bson.D
		if err := bson.UnmarshalExtJSON(trimmed, false, &doc); err != nil {
			return nil, fmt.Errorf("unmarshal document: %w", err)
		}
		return []bson.D{doc}, nil
	}

	var raws []json.RawMessage
	if err := json.Unmarshal(trimmed, &raws); err != nil {
		return nil, fmt.Errorf("unmarshal unit: %w", err)
	}

	docs := make([]bson.D, 0, len(raws))
	for _, raw := range raws {
		var doc bson.D
		if err := bson.UnmarshalExtJSON(raw, false, &doc); err != nil {
			return nil, fmt.Errorf("unmarshal document: %w", err)
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

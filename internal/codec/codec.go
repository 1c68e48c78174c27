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

// Package codec converts documents between their native BSON form and the
// portable JSON form used in snapshots. ObjectIDs and datetimes have no plain
// JSON equivalent, so encoding renders them as strings and decoding recovers
// them by shape: a 24-character hex string under "_id" becomes an ObjectID,
// an ISO-8601 string becomes a datetime. Recovery is best-effort and never
// fails; a string that does not parse is kept as-is.
package codec

import (
	"regexp"
	gotime "time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	idKey          = "_id"
	objectIDHexLen = 24

	// timeLayout keeps the millisecond precision of BSON datetimes, so a
	// document survives encode/decode unchanged.
	timeLayout = "2006-01-02T15:04:05.000Z07:00"
)

var timePattern = regexp.MustCompile(
	`^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}(\.\d+)?(Z|[+-]\d{2}:\d{2})?$`,
)

// timeLayouts are tried in order. A trailing Z is handled by RFC 3339; a
// missing zone is treated as UTC.
var timeLayouts = []string{
	gotime.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
}

// Encode returns a copy of the document with every ObjectID and datetime
// replaced by its string form. Key order is preserved and scalars pass
// through unchanged.
func Encode(doc bson.D) bson.D {
	encoded := make(bson.D, 0, len(doc))
	for _, elem := range doc {
		encoded = append(encoded, bson.E{Key: elem.Key, Value: encodeValue(elem.Value)})
	}
	return encoded
}

func encodeValue(value interface{}) interface{} {
	switch v := value.(type) {
	case primitive.ObjectID:
		return v.Hex()
	case primitive.DateTime:
		return v.Time().UTC().Format(timeLayout)
	case gotime.Time:
		return v.UTC().Format(timeLayout)
	case bson.D:
		return Encode(v)
	case bson.M:
		encoded := make(bson.M, len(v))
		for key, val := range v {
			encoded[key] = encodeValue(val)
		}
		return encoded
	case map[string]interface{}:
		encoded := make(map[string]interface{}, len(v))
		for key, val := range v {
			encoded[key] = encodeValue(val)
		}
		return encoded
	case bson.A:
		encoded := make(bson.A, 0, len(v))
		for _, val := range v {
			encoded = append(encoded, encodeValue(val))
		}
		return encoded
	case []interface{}:
		encoded := make([]interface{}, 0, len(v))
		for _, val := range v {
			encoded = append(encoded, encodeValue(val))
		}
		return encoded
	default:
		return v
	}
}

// Decode restores ObjectIDs and datetimes from their string forms. Candidate
// strings that fail to parse are kept unchanged; Decode never fails.
func Decode(doc bson.D) bson.D {
	decoded := make(bson.D, 0, len(doc))
	for _, elem := range doc {
		decoded = append(decoded, bson.E{Key: elem.Key, Value: decodeValue(elem.Key, elem.Value)})
	}
	return decoded
}

func decodeValue(key string, value interface{}) interface{} {
	switch v := value.(type) {
	case string:
		if key == idKey && len(v) == objectIDHexLen {
			if id, err := primitive.ObjectIDFromHex(v); err == nil {
				return id
			}
			return v
		}
		if timePattern.MatchString(v) {
			if t, ok := parseTimestamp(v); ok {
				return primitive.NewDateTimeFromTime(t)
			}
		}
		return v
	case bson.D:
		return Decode(v)
	case bson.M:
		decoded := make(bson.M, len(v))
		for k, val := range v {
			decoded[k] = decodeValue(k, val)
		}
		return decoded
	case map[string]interface{}:
		decoded := make(map[string]interface{}, len(v))
		for k, val := range v {
			decoded[k] = decodeValue(k, val)
		}
		return decoded
	case bson.A:
		// Array elements carry no key, so only the datetime rule applies.
		decoded := make(bson.A, 0, len(v))
		for _, val := range v {
			decoded = append(decoded, decodeValue("", val))
		}
		return decoded
	case []interface{}:
		decoded := make([]interface{}, 0, len(v))
		for _, val := range v {
			decoded = append(decoded, decodeValue("", val))
		}
		return decoded
	default:
		return v
	}
}

func parseTimestamp(s string) (gotime.Time, bool) {
	for _, layout := range timeLayouts {
		if t, err := gotime.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return gotime.Time{}, false
}

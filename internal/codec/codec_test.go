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

package codec_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/mongosnap/mongosnap/internal/codec"
)

func TestEncode(t *testing.T) {
	id, err := primitive.ObjectIDFromHex("64a1f2e8c9b4d01234567890")
	assert.NoError(t, err)
	created := primitive.NewDateTimeFromTime(
		time.Date(2023, 1, 2, 3, 4, 5, 678000000, time.UTC),
	)

	t.Run("object id and datetime encoding test", func(t *testing.T) {
		doc := bson.D{
			{Key: "_id", Value: id},
			{Key: "name", Value: "Ann"},
			{Key: "created", Value: created},
		}

		assert.Equal(t, bson.D{
			{Key: "_id", Value: "64a1f2e8c9b4d01234567890"},
			{Key: "name", Value: "Ann"},
			{Key: "created", Value: "2023-01-02T03:04:05.678Z"},
		}, codec.Encode(doc))
	})

	t.Run("nested structure encoding test", func(t *testing.T) {
		doc := bson.D{
			{Key: "meta", Value: bson.D{{Key: "ref", Value: id}}},
			{Key: "events", Value: bson.A{created, "plain", int32(7)}},
		}

		assert.Equal(t, bson.D{
			{Key: "meta", Value: bson.D{{Key: "ref", Value: "64a1f2e8c9b4d01234567890"}}},
			{Key: "events", Value: bson.A{"2023-01-02T03:04:05.678Z", "plain", int32(7)}},
		}, codec.Encode(doc))
	})

	t.Run("time zone normalization test", func(t *testing.T) {
		loc := time.FixedZone("KST", 9*60*60)
		doc := bson.D{{Key: "at", Value: time.Date(2023, 1, 2, 12, 4, 5, 0, loc)}}

		assert.Equal(t, bson.D{
			{Key: "at", Value: "2023-01-02T03:04:05.000Z"},
		}, codec.Encode(doc))
	})

	t.Run("scalar passthrough test", func(t *testing.T) {
		doc := bson.D{
			{Key: "n", Value: int64(42)},
			{Key: "f", Value: 1.5},
			{Key: "b", Value: true},
			{Key: "nil", Value: nil},
		}
		assert.Equal(t, doc, codec.Encode(doc))
	})
}

func TestDecode(t *testing.T) {
	id, err := primitive.ObjectIDFromHex("64a1f2e8c9b4d01234567890")
	assert.NoError(t, err)
	created := primitive.NewDateTimeFromTime(
		time.Date(2023, 1, 2, 3, 4, 5, 678000000, time.UTC),
	)

	t.Run("round trip identity test", func(t *testing.T) {
		doc := bson.D{
			{Key: "_id", Value: id},
			{Key: "name", Value: "Ann"},
			{Key: "created", Value: created},
			{Key: "tags", Value: bson.A{"a", "b"}},
			{Key: "meta", Value: bson.D{{Key: "updated", Value: created}}},
		}

		assert.Equal(t, doc, codec.Decode(codec.Encode(doc)))
	})

	t.Run("object id under nested key test", func(t *testing.T) {
		doc := bson.D{
			{Key: "parent", Value: bson.D{{Key: "_id", Value: "64a1f2e8c9b4d01234567890"}}},
		}

		assert.Equal(t, bson.D{
			{Key: "parent", Value: bson.D{{Key: "_id", Value: id}}},
		}, codec.Decode(doc))
	})

	t.Run("timestamp with offset test", func(t *testing.T) {
		doc := bson.D{{Key: "at", Value: "2023-01-02T12:04:05.678+09:00"}}
		assert.Equal(t, bson.D{{Key: "at", Value: created}}, codec.Decode(doc))
	})

	t.Run("timestamp without zone is utc test", func(t *testing.T) {
		doc := bson.D{{Key: "at", Value: "2023-01-02T03:04:05.678"}}
		assert.Equal(t, bson.D{{Key: "at", Value: created}}, codec.Decode(doc))
	})

	t.Run("malformed object id fallback test", func(t *testing.T) {
		// 24 characters, but not hexadecimal.
		doc := bson.D{{Key: "_id", Value: "zzzzzzzzzzzzzzzzzzzzzzzz"}}
		assert.Equal(t, doc, codec.Decode(doc))
	})

	t.Run("wrong length object id fallback test", func(t *testing.T) {
		doc := bson.D{{Key: "_id", Value: "64a1f2e8c9b4d0123456789"}}
		assert.Equal(t, doc, codec.Decode(doc))
	})

	t.Run("object id under other keys is kept test", func(t *testing.T) {
		doc := bson.D{{Key: "ref", Value: "64a1f2e8c9b4d01234567890"}}
		assert.Equal(t, doc, codec.Decode(doc))
	})

	t.Run("impossible calendar date fallback test", func(t *testing.T) {
		doc := bson.D{
			{Key: "a", Value: "2023-02-30T10:00:00Z"},
			{Key: "b", Value: "2023-13-01T10:00:00Z"},
			{Key: "c", Value: "2023-01-02T25:00:00Z"},
		}
		assert.Equal(t, doc, codec.Decode(doc))
	})

	t.Run("date-like but unmatched strings are kept test", func(t *testing.T) {
		doc := bson.D{
			{Key: "a", Value: "20230102T030405Z"},
			{Key: "b", Value: "2023-01-02"},
			{Key: "c", Value: "2023-01-02T03:04:05 extra"},
		}
		assert.Equal(t, doc, codec.Decode(doc))
	})

	t.Run("array elements carry no key test", func(t *testing.T) {
		// A 24-char hex string inside an array is not an "_id" value.
		doc := bson.D{{Key: "refs", Value: bson.A{"64a1f2e8c9b4d01234567890"}}}
		assert.Equal(t, doc, codec.Decode(doc))
	})
}

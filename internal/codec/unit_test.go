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

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/mongosnap/mongosnap/internal/codec"
)

func TestUnit(t *testing.T) {
	t.Run("marshal preserves key order test", func(t *testing.T) {
		docs := []bson.D{
			{
				{Key: "_id", Value: "64a1f2e8c9b4d01234567890"},
				{Key: "zebra", Value: "z"},
				{Key: "alpha", Value: "a"},
			},
		}

		data, err := codec.MarshalUnit(docs)
		assert.NoError(t, err)
		assert.Equal(t, `[
  {
    "_id": "64a1f2e8c9b4d01234567890",
    "zebra": "z",
    "alpha": "a"
  }
]
`, string(data))
	})

	t.Run("marshal empty unit test", func(t *testing.T) {
		data, err := codec.MarshalUnit(nil)
		assert.NoError(t, err)
		assert.Equal(t, "[]\n", string(data))
	})

	t.Run("unmarshal round trip test", func(t *testing.T) {
		docs := []bson.D{
			{{Key: "name", Value: "Ann"}, {Key: "age", Value: int32(30)}},
			{{Key: "name", Value: "Bo"}},
		}

		data, err := codec.MarshalUnit(docs)
		assert.NoError(t, err)

		parsed, err := codec.UnmarshalUnit(data)
		assert.NoError(t, err)
		assert.Equal(t, docs, parsed)
	})

	t.Run("unmarshal standalone document test", func(t *testing.T) {
		parsed, err := codec.UnmarshalUnit([]byte(`{"name": "solo"}`))
		assert.NoError(t, err)
		assert.Equal(t, []bson.D{{{Key: "name", Value: "solo"}}}, parsed)
	})

	t.Run("unmarshal empty input test", func(t *testing.T) {
		parsed, err := codec.UnmarshalUnit([]byte("[]"))
		assert.NoError(t, err)
		assert.Len(t, parsed, 0)

		parsed, err = codec.UnmarshalUnit(nil)
		assert.NoError(t, err)
		assert.Len(t, parsed, 0)
	})

	t.Run("unmarshal malformed input test", func(t *testing.T) {
		_, err := codec.UnmarshalUnit([]byte(`[{"name": ]`))
		assert.Error(t, err)
	})
}

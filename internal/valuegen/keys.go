/*
 * Licensed to the Apache Software Foundation (ASF) under one or more
 * contributor license agreements. See the NOTICE file distributed with
 * this work for additional information regarding copyright ownership.
 * The ASF licenses this file to You under the Apache License, Version 2.0
 * (the "License"); you may not use this file except in compliance with
 * the License. You may obtain a copy of the License at
 *
 *    http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package valuegen

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"github.com/go-errors/errors"
	"github.com/gocql/gocql"
	"github.com/noctarius/cql-workload/spi/cqltypes"
	"math"
	"strconv"
	"time"
)

const (
	// keyEpoch is the instant record key 0 maps to for timestamp columns.
	keyEpoch = 116233200

	// gregorianOffset is the number of 100ns intervals between the
	// start of the gregorian calendar and the unix epoch.
	gregorianOffset = 0x01B21DD213814000

	// maxTimestamp is 9999-12-31 23:59:59 UTC, the last second a
	// timestamp literal can express.
	maxTimestamp = 253402300799
)

var keyNode = [6]byte{0x02, 0x00, 0x00, 0x00, 0x00, 0x00}

// MaxKey is the largest record key any key column can represent.
const MaxKey = 9_999_999_999_999_999

// maxKeys holds the largest key a kind stores without two keys colliding
// in the database. Float and double stop at their exact integer range.
var maxKeys = map[cqltypes.Kind]int64{
	cqltypes.Int32:       math.MaxInt32,
	cqltypes.Float:       1 << 24,
	cqltypes.Double:      1 << 53,
	cqltypes.InetAddress: math.MaxUint32,
	cqltypes.Timestamp:   maxTimestamp - keyEpoch,
}

// MaxKeyOf returns the largest record key t represents without
// collisions. Boolean keys only ever address two rows.
func MaxKeyOf(
	t cqltypes.Type,
) int64 {

	if limit, present := maxKeys[t.Kind()]; present {
		return limit
	}
	return MaxKey
}

// ValueFromKey derives the literal of a key column from the record key.
// The result only depends on (t, key), the same key always addresses the
// same row. Distinct keys in [0, MaxKeyOf(t)] map to distinct stored
// values, keys outside that range are rejected.
func ValueFromKey(
	t cqltypes.Type, key int64,
) (Value, error) {

	if limit := MaxKeyOf(t); key < 0 || key > limit {
		return Value{}, errors.Errorf("record key %d out of range [0, %d] for %s key column", key, limit, t)
	}

	decimal := strconv.FormatInt(key, 10)

	switch t.Kind() {
	case cqltypes.Boolean:
		return Value{strconv.FormatBool(key%2 == 1), 1}, nil

	case cqltypes.Int32:
		return Value{decimal, 4}, nil

	case cqltypes.Long, cqltypes.Counter:
		return Value{decimal, 8}, nil

	case cqltypes.Double:
		return Value{decimal, 8}, nil

	case cqltypes.Float:
		return Value{decimal, 4}, nil

	case cqltypes.Integer:
		return Value{decimal, len(decimal)}, nil

	case cqltypes.UTF8, cqltypes.Ascii:
		return Value{quote(decimal), len(decimal)}, nil

	case cqltypes.UUID:
		return Value{keyUUID(key), 16}, nil

	case cqltypes.TimeUUID:
		return Value{keyTimeUUID(key).String(), 16}, nil

	case cqltypes.Timestamp:
		timestamp := time.Unix(keyEpoch+key, 0).UTC()
		return Value{quote(timestamp.Format(timestampLayout)), 8}, nil

	case cqltypes.InetAddress:
		address := uint32(key)
		return Value{quote(fmt.Sprintf(
			"%d.%d.%d.%d", byte(address>>24), byte(address>>16), byte(address>>8), byte(address),
		)), 4}, nil

	case cqltypes.Bytes:
		data := keyBytes(key)
		return Value{"0x" + hex.EncodeToString(data), len(data)}, nil

	case cqltypes.List:
		return keyElements([]cqltypes.Type{t.Element()}, "[", "]", key)

	case cqltypes.Set:
		return keyElements([]cqltypes.Type{t.Element()}, "{", "}", key)

	case cqltypes.Map:
		k, err := ValueFromKey(t.Key(), key)
		if err != nil {
			return Value{}, err
		}
		v, err := ValueFromKey(t.Value(), key)
		if err != nil {
			return Value{}, err
		}
		return Value{"{" + k.Literal + ": " + v.Literal + "}", k.Size + v.Size}, nil

	case cqltypes.Tuple:
		return keyElements(t.Elements(), "(", ")", key)

	case cqltypes.Struct:
		return structLiteral(t, func(field cqltypes.Type) (Value, error) {
			return ValueFromKey(field, key)
		})
	}
	return Value{}, unsupportedKind(t)
}

func keyElements(
	elements []cqltypes.Type, open, closing string, key int64,
) (Value, error) {

	return joinElements(elements, open, closing, func(element cqltypes.Type) (Value, error) {
		return ValueFromKey(element, key)
	})
}

// keyUUID spreads the 16 digit zero padded key over the uuid groups.
func keyUUID(
	key int64,
) string {

	digits := fmt.Sprintf("%016d", key)
	return digits[:8] + "-" + digits[8:12] + "-" + digits[12:] + "-" + digits[:4] + "-" + digits[4:]
}

// keyTimeUUID builds a version 1 uuid whose timestamp is the key epoch
// plus key ticks, with a fixed clock sequence and node.
func keyTimeUUID(
	key int64,
) gocql.UUID {

	ticks := uint64(gregorianOffset) + uint64(keyEpoch)*10000000 + uint64(key)

	var u gocql.UUID
	binary.BigEndian.PutUint32(u[0:4], uint32(ticks))
	binary.BigEndian.PutUint16(u[4:6], uint16(ticks>>32))
	binary.BigEndian.PutUint16(u[6:8], uint16(ticks>>48)&0x0fff|0x1000)
	u[8] = 0x80
	u[9] = 0x00
	copy(u[10:], keyNode[:])
	return u
}

// keyBytes returns the minimal big endian encoding of key, at least one byte.
func keyBytes(
	key int64,
) []byte {

	data := make([]byte, 8)
	binary.BigEndian.PutUint64(data, uint64(key))
	i := 0
	for i < 7 && data[i] == 0 {
		i++
	}
	return data[i:]
}

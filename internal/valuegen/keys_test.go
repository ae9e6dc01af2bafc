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
	"github.com/noctarius/cql-workload/spi/cqltypes"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"math"
	"strconv"
	"testing"
)

var injectiveKinds = []cqltypes.Kind{
	cqltypes.Int32,
	cqltypes.Long,
	cqltypes.UTF8,
	cqltypes.Ascii,
	cqltypes.UUID,
	cqltypes.TimeUUID,
	cqltypes.Timestamp,
	cqltypes.Double,
	cqltypes.Float,
	cqltypes.InetAddress,
	cqltypes.Counter,
	cqltypes.Bytes,
	cqltypes.Integer,
}

var sampleKeys = []int64{0, 1, 2, 9, 10, 99, 255, 256, 65535, 65536, 1000000, 123456789, MaxKey}

// keysOf returns the sample keys a kind represents plus its upper boundary.
func keysOf(
	kind cqltypes.Kind,
) []int64 {

	limit := MaxKeyOf(cqltypes.Of(kind))
	keys := make([]int64, 0, len(sampleKeys)+2)
	for _, key := range sampleKeys {
		if key <= limit {
			keys = append(keys, key)
		}
	}
	return lo.Uniq(append(keys, limit-1, limit))
}

// storedValue renders a literal the way the database stores it.
func storedValue(
	t *testing.T, kind cqltypes.Kind, literal string,
) string {

	switch kind {
	case cqltypes.Int32:
		value, err := strconv.ParseInt(literal, 10, 32)
		require.NoError(t, err)
		return strconv.FormatInt(value, 10)
	case cqltypes.Float:
		value, err := strconv.ParseFloat(literal, 32)
		require.NoError(t, err)
		return strconv.FormatFloat(float64(float32(value)), 'g', -1, 32)
	case cqltypes.Double:
		value, err := strconv.ParseFloat(literal, 64)
		require.NoError(t, err)
		return strconv.FormatFloat(value, 'g', -1, 64)
	}
	return literal
}

func Test_Value_From_Key_Is_Deterministic(
	t *testing.T,
) {

	for _, kind := range append(injectiveKinds, cqltypes.Boolean) {
		for _, key := range keysOf(kind) {
			first, err := ValueFromKey(cqltypes.Of(kind), key)
			require.NoError(t, err)
			second, err := ValueFromKey(cqltypes.Of(kind), key)
			require.NoError(t, err)
			assert.Equal(t, first, second)
		}
	}
}

func Test_Value_From_Key_Is_Injective(
	t *testing.T,
) {

	for _, kind := range injectiveKinds {
		t.Run(kind.String(), func(t *testing.T) {
			seen := make(map[string]int64)
			for _, key := range keysOf(kind) {
				value, err := ValueFromKey(cqltypes.Of(kind), key)
				require.NoError(t, err)
				stored := storedValue(t, kind, value.Literal)
				if other, present := seen[stored]; present {
					t.Errorf("keys %d and %d are both stored as %s", other, key, stored)
				}
				seen[stored] = key
			}
		})
	}
}

func Test_Value_From_Key_Literals(
	t *testing.T,
) {

	testCases := []struct {
		kind     cqltypes.Kind
		key      int64
		expected Value
	}{
		{cqltypes.Int32, 5, Value{"5", 4}},
		{cqltypes.Long, 42, Value{"42", 8}},
		{cqltypes.UTF8, 1234, Value{"'1234'", 4}},
		{cqltypes.Boolean, 3, Value{"true", 1}},
		{cqltypes.Boolean, 4, Value{"false", 1}},
		{cqltypes.UUID, 5, Value{"00000000-0000-0005-0000-000000000005", 16}},
		{cqltypes.UUID, 1234567890123456, Value{"12345678-9012-3456-1234-567890123456", 16}},
		{cqltypes.Timestamp, 0, Value{"'1973-09-07 07:00:00+0000'", 8}},
		{cqltypes.Timestamp, 61, Value{"'1973-09-07 07:01:01+0000'", 8}},
		{cqltypes.InetAddress, 258, Value{"'0.0.1.2'", 4}},
		{cqltypes.Bytes, 0, Value{"0x00", 1}},
		{cqltypes.Bytes, 256, Value{"0x0100", 2}},
		{cqltypes.Integer, 12345, Value{"12345", 5}},
	}

	for _, testCase := range testCases {
		value, err := ValueFromKey(cqltypes.Of(testCase.kind), testCase.key)
		require.NoError(t, err)
		assert.Equal(t, testCase.expected, value, "%s(%d)", testCase.kind, testCase.key)
	}
}

func Test_Value_From_Key_Rejects_Keys_Beyond_Exact_Range(
	t *testing.T,
) {

	testCases := []struct {
		kind  cqltypes.Kind
		limit int64
	}{
		{cqltypes.Int32, math.MaxInt32},
		{cqltypes.Float, 1 << 24},
		{cqltypes.Double, 1 << 53},
		{cqltypes.InetAddress, math.MaxUint32},
		{cqltypes.Timestamp, maxTimestamp - keyEpoch},
		{cqltypes.Long, MaxKey},
		{cqltypes.UUID, MaxKey},
		{cqltypes.UTF8, MaxKey},
	}

	for _, testCase := range testCases {
		t.Run(testCase.kind.String(), func(t *testing.T) {
			columnType := cqltypes.Of(testCase.kind)
			assert.Equal(t, testCase.limit, MaxKeyOf(columnType))

			_, err := ValueFromKey(columnType, testCase.limit)
			require.NoError(t, err)

			_, err = ValueFromKey(columnType, testCase.limit+1)
			assert.ErrorContains(t, err, "out of range")

			_, err = ValueFromKey(columnType, -1)
			assert.ErrorContains(t, err, "out of range")
		})
	}
}

func Test_Value_From_Key_Float_Collides_Beyond_Exact_Range(
	t *testing.T,
) {

	// 2^24 and 2^24+1 share a float32, so the range ends at 2^24
	limit := int64(1 << 24)
	assert.Equal(t, float32(limit), float32(limit+1))
	assert.NotEqual(t, float32(limit-1), float32(limit))

	value, err := ValueFromKey(cqltypes.Of(cqltypes.Float), limit)
	require.NoError(t, err)
	assert.Equal(t, "16777216", value.Literal)
}

func Test_Value_From_Key_Nested_Key_Range(
	t *testing.T,
) {

	_, err := ValueFromKey(cqltypes.ListOf(cqltypes.Of(cqltypes.Int32)), math.MaxInt32+1)
	assert.ErrorContains(t, err, "out of range")

	_, err = ValueFromKey(cqltypes.ListOf(cqltypes.Of(cqltypes.Long)), math.MaxInt32+1)
	assert.NoError(t, err)
}

func Test_Value_From_Key_Time_UUID_Is_Version_1(
	t *testing.T,
) {

	value, err := ValueFromKey(cqltypes.Of(cqltypes.TimeUUID), 1)
	require.NoError(t, err)
	assert.Regexp(t, uuidPattern, value.Literal)
	assert.Equal(t, byte('1'), value.Literal[14])

	u := keyTimeUUID(1)
	assert.Equal(t, 1, u.Version())
	assert.Equal(t, int64(keyEpoch), u.Time().Unix())
}

func Test_Value_From_Key_Containers(
	t *testing.T,
) {

	value, err := ValueFromKey(cqltypes.ListOf(cqltypes.Of(cqltypes.Int32)), 7)
	require.NoError(t, err)
	assert.Equal(t, Value{"[7]", 4}, value)

	value, err = ValueFromKey(cqltypes.SetOf(cqltypes.Of(cqltypes.UTF8)), 7)
	require.NoError(t, err)
	assert.Equal(t, Value{"{'7'}", 1}, value)

	value, err = ValueFromKey(cqltypes.MapOf(cqltypes.Of(cqltypes.Int32), cqltypes.Of(cqltypes.UTF8)), 7)
	require.NoError(t, err)
	assert.Equal(t, Value{"{7: '7'}", 5}, value)

	value, err = ValueFromKey(cqltypes.TupleOf(cqltypes.Of(cqltypes.Long), cqltypes.Of(cqltypes.Boolean)), 7)
	require.NoError(t, err)
	assert.Equal(t, Value{"(7, true)", 9}, value)

	value, err = ValueFromKey(cqltypes.StructOf("ks", "point",
		cqltypes.NewField("x", cqltypes.Of(cqltypes.Int32)),
		cqltypes.NewField("y", cqltypes.Of(cqltypes.Int32)),
	), 7)
	require.NoError(t, err)
	assert.Equal(t, Value{"{x: 7, y: 7}", 8}, value)
}

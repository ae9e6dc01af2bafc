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

package cqltypes

import (
	"github.com/go-errors/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"testing"
)

func Test_Resolve_Primitives(
	t *testing.T,
) {

	for descriptor, expected := range map[string]Kind{
		"org.apache.cassandra.db.marshal.BooleanType":       Boolean,
		"org.apache.cassandra.db.marshal.Int32Type":         Int32,
		"org.apache.cassandra.db.marshal.LongType":          Long,
		"org.apache.cassandra.db.marshal.UTF8Type":          UTF8,
		"org.apache.cassandra.db.marshal.AsciiType":         Ascii,
		"org.apache.cassandra.db.marshal.UUIDType":          UUID,
		"org.apache.cassandra.db.marshal.TimeUUIDType":      TimeUUID,
		"org.apache.cassandra.db.marshal.TimestampType":     Timestamp,
		"org.apache.cassandra.db.marshal.DateType":          Timestamp,
		"org.apache.cassandra.db.marshal.DoubleType":        Double,
		"org.apache.cassandra.db.marshal.FloatType":         Float,
		"org.apache.cassandra.db.marshal.InetAddressType":   InetAddress,
		"org.apache.cassandra.db.marshal.CounterColumnType": Counter,
		"org.apache.cassandra.db.marshal.BytesType":         Bytes,
		"org.apache.cassandra.db.marshal.IntegerType":       Integer,
		"org.apache.cassandra.db.marshal.DecimalType":       Int32,
	} {
		t.Run(descriptor, func(t *testing.T) {
			resolved, err := Resolve(descriptor)
			require.NoError(t, err)
			assert.Equal(t, Of(expected), resolved)
		})
	}
}

func Test_Resolve_Containers(
	t *testing.T,
) {

	testCases := []struct {
		descriptor string
		expected   Type
		tag        string
		cql        string
	}{
		{
			"ListType(UTF8Type)",
			ListOf(Of(UTF8)),
			"ListType/UTF8Type",
			"list<text>",
		},
		{
			"SetType(UTF8Type)",
			SetOf(Of(UTF8)),
			"SetType/UTF8Type",
			"set<text>",
		},
		{
			"MapType(Int32Type,UTF8Type)",
			MapOf(Of(Int32), Of(UTF8)),
			"MapType/Int32Type,UTF8Type",
			"map<int, text>",
		},
		{
			"TupleType(Int32Type,UTF8Type)",
			TupleOf(Of(Int32), Of(UTF8)),
			"TupleType/Int32Type,UTF8Type",
			"tuple<int, text>",
		},
		{
			"org.apache.cassandra.db.marshal.ListType(org.apache.cassandra.db.marshal.MapType(" +
				"org.apache.cassandra.db.marshal.Int32Type,org.apache.cassandra.db.marshal.UTF8Type))",
			ListOf(MapOf(Of(Int32), Of(UTF8))),
			"ListType/(MapType/Int32Type,UTF8Type)",
			"list<frozen<map<int, text>>>",
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.descriptor, func(t *testing.T) {
			resolved, err := Resolve(testCase.descriptor)
			require.NoError(t, err)
			assert.Equal(t, testCase.expected, resolved)
			assert.Equal(t, testCase.tag, resolved.Tag())
			assert.Equal(t, testCase.cql, resolved.String())
		})
	}
}

func Test_Resolve_Container_Accessors(
	t *testing.T,
) {

	resolved, err := Resolve("MapType(Int32Type,ListType(UTF8Type))")
	require.NoError(t, err)
	assert.Equal(t, Map, resolved.Kind())
	assert.Equal(t, Int32, resolved.Key().Kind())
	assert.Equal(t, List, resolved.Value().Kind())
	assert.Equal(t, UTF8, resolved.Value().Element().Kind())
	assert.False(t, resolved.Element().IsValid())
}

func Test_Resolve_Reversed_And_Frozen_Are_Transparent(
	t *testing.T,
) {

	resolved, err := Resolve("org.apache.cassandra.db.marshal.ReversedType(org.apache.cassandra.db.marshal.TimestampType)")
	require.NoError(t, err)
	assert.Equal(t, Of(Timestamp), resolved)

	resolved, err = Resolve("FrozenType(ListType(ReversedType(Int32Type)))")
	require.NoError(t, err)
	assert.Equal(t, ListOf(Of(Int32)), resolved)
}

func Test_Resolve_User_Type(
	t *testing.T,
) {

	resolved, err := Resolve(
		"org.apache.cassandra.db.marshal.UserType(ks1,6e616d65," +
			"6669727374:org.apache.cassandra.db.marshal.UTF8Type," +
			"6c617374:org.apache.cassandra.db.marshal.UTF8Type)",
	)
	require.NoError(t, err)

	assert.Equal(t, Struct, resolved.Kind())
	assert.Equal(t, "ks1", resolved.Keyspace())
	assert.Equal(t, "name", resolved.Name())

	fields := resolved.Fields()
	require.Len(t, fields, 2)
	assert.Equal(t, "first", fields[0].Name())
	assert.Equal(t, Of(UTF8), fields[0].Type())
	assert.Equal(t, "last", fields[1].Name())
	assert.Equal(t, Of(UTF8), fields[1].Type())
	assert.Equal(t, "frozen<name>", resolved.String())
}

func Test_Resolve_Nested_User_Types(
	t *testing.T,
) {

	address := "UserType(ks1,61646472657373,73747265657473:ListType(UTF8Type),7a6970:Int32Type)"
	person := "UserType(ks1,706572736f6e,6e616d65:UTF8Type,61646472657373:" + address + ")"
	resolved, err := Resolve("ListType(MapType(UTF8Type," + person + "))")
	require.NoError(t, err)

	expected := ListOf(MapOf(
		Of(UTF8),
		StructOf("ks1", "person",
			NewField("name", Of(UTF8)),
			NewField("address", StructOf("ks1", "address",
				NewField("streets", ListOf(Of(UTF8))),
				NewField("zip", Of(Int32)),
			)),
		),
	))
	assert.Equal(t, expected, resolved)
	assert.True(t, resolved.Contains(Int32))
	assert.False(t, resolved.Contains(Counter))
}

func Test_Descriptor_Round_Trip(
	t *testing.T,
) {

	for _, original := range []Type{
		Of(Boolean),
		SetOf(Of(InetAddress)),
		TupleOf(Of(Long), Of(Bytes), ListOf(Of(Double))),
		StructOf("ks", "point", NewField("x", Of(Float)), NewField("y", Of(Float))),
	} {
		t.Run(original.Tag(), func(t *testing.T) {
			resolved, err := Resolve(original.Descriptor())
			require.NoError(t, err)
			assert.Equal(t, original, resolved)
		})
	}
}

func Test_Resolve_Malformed(
	t *testing.T,
) {

	for _, descriptor := range []string{
		"",
		"VarcharishType",
		"ListType",
		"ListType(",
		"ListType(UTF8Type",
		"ListType()",
		"ListType(UTF8Type,Int32Type)",
		"MapType(UTF8Type)",
		"Int32Type(UTF8Type)",
		"UTF8Type)",
		"UserType(ks1,6e616d65)",
		"UserType(ks1,6e616d6,6669727374:UTF8Type)",
		"UserType(ks1,zz,6669727374:UTF8Type)",
		"UserType(ks1,6e616d65,6669727374UTF8Type)",
		"org.apache.cassandra.db.marshal.DurationType",
	} {
		t.Run(descriptor, func(t *testing.T) {
			_, err := Resolve(descriptor)
			require.Error(t, err)

			var parseError *ParseError
			assert.True(t, errors.As(err, &parseError))
			assert.Equal(t, descriptor, parseError.Descriptor)
		})
	}
}

func Test_Kind_Classification(
	t *testing.T,
) {

	assert.True(t, UTF8.IsTextual())
	assert.True(t, Ascii.IsTextual())
	assert.False(t, Bytes.IsTextual())
	assert.True(t, Tuple.IsContainer())
	assert.False(t, Struct.IsContainer())

	kind, ok := KindOf("org.apache.cassandra.db.marshal.CounterColumnType")
	assert.True(t, ok)
	assert.Equal(t, Counter, kind)

	_, ok = KindOf("SimpleDateType")
	assert.False(t, ok)
}

func Test_Quote_Identifier(
	t *testing.T,
) {

	assert.Equal(t, "users", QuoteIdentifier("users"))
	assert.Equal(t, "user_2", QuoteIdentifier("user_2"))
	assert.Equal(t, `"Users"`, QuoteIdentifier("Users"))
	assert.Equal(t, `"2users"`, QuoteIdentifier("2users"))
	assert.Equal(t, `"a""b"`, QuoteIdentifier(`a"b`))
	assert.Equal(t, `ks1."Users"`, QualifiedName("ks1", "Users"))
}

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

import "fmt"

// Kind is the closed set of column types the workload generator knows
// how to produce values for.
type Kind int

const (
	Boolean Kind = iota + 1
	Int32
	Long
	UTF8
	Ascii
	UUID
	TimeUUID
	Timestamp
	Double
	Float
	InetAddress
	Counter
	Bytes
	Integer
	List
	Set
	Map
	Tuple
	Struct
)

type kindInfo struct {
	marshal string
	cql     string
}

var kinds = map[Kind]kindInfo{
	Boolean:     {"BooleanType", "boolean"},
	Int32:       {"Int32Type", "int"},
	Long:        {"LongType", "bigint"},
	UTF8:        {"UTF8Type", "text"},
	Ascii:       {"AsciiType", "ascii"},
	UUID:        {"UUIDType", "uuid"},
	TimeUUID:    {"TimeUUIDType", "timeuuid"},
	Timestamp:   {"TimestampType", "timestamp"},
	Double:      {"DoubleType", "double"},
	Float:       {"FloatType", "float"},
	InetAddress: {"InetAddressType", "inet"},
	Counter:     {"CounterColumnType", "counter"},
	Bytes:       {"BytesType", "blob"},
	Integer:     {"IntegerType", "varint"},
	List:        {"ListType", "list"},
	Set:         {"SetType", "set"},
	Map:         {"MapType", "map"},
	Tuple:       {"TupleType", "tuple"},
	Struct:      {"UserType", "frozen"},
}

// Marshal names the Cassandra marshal class of the kind (without package).
func (k Kind) Marshal() string {
	if info, ok := kinds[k]; ok {
		return info.marshal
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

func (k Kind) String() string {
	if info, ok := kinds[k]; ok {
		return info.cql
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

func (k Kind) IsContainer() bool {
	return k == List || k == Set || k == Map || k == Tuple
}

func (k Kind) IsTextual() bool {
	return k == UTF8 || k == Ascii
}

// marshalKinds maps marshal class names to kinds. Aliases resolve to the
// kind whose literal form the column accepts.
var marshalKinds = map[string]Kind{
	"BooleanType":       Boolean,
	"Int32Type":         Int32,
	"DecimalType":       Int32,
	"LongType":          Long,
	"UTF8Type":          UTF8,
	"AsciiType":         Ascii,
	"UUIDType":          UUID,
	"TimeUUIDType":      TimeUUID,
	"TimestampType":     Timestamp,
	"DateType":          Timestamp,
	"DoubleType":        Double,
	"FloatType":         Float,
	"InetAddressType":   InetAddress,
	"CounterColumnType": Counter,
	"BytesType":         Bytes,
	"IntegerType":       Integer,
	"ListType":          List,
	"SetType":           Set,
	"MapType":           Map,
	"TupleType":         Tuple,
	"UserType":          Struct,
}

// KindOf looks up the kind of marshal class name, fully qualified or not.
func KindOf(
	marshalClass string,
) (Kind, bool) {

	kind, ok := marshalKinds[simpleName(marshalClass)]
	return kind, ok
}

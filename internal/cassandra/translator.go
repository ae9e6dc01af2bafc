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

package cassandra

import (
	"encoding/hex"
	"github.com/go-errors/errors"
	"strings"
)

const marshalPackage = "org.apache.cassandra.db.marshal."

var cqlMarshalTypes = map[string]string{
	"boolean":   "BooleanType",
	"int":       "Int32Type",
	"bigint":    "LongType",
	"text":      "UTF8Type",
	"varchar":   "UTF8Type",
	"ascii":     "AsciiType",
	"uuid":      "UUIDType",
	"timeuuid":  "TimeUUIDType",
	"timestamp": "TimestampType",
	"double":    "DoubleType",
	"float":     "FloatType",
	"inet":      "InetAddressType",
	"counter":   "CounterColumnType",
	"blob":      "BytesType",
	"varint":    "IntegerType",
	"decimal":   "DecimalType",
}

// userTypeLookup returns the field names and CQL field types of a user
// defined type of the keyspace
type userTypeLookup func(name string) (fieldNames, fieldTypes []string, err error)

// descriptorOf translates a CQL type, as found in system_schema, into
// the marshal descriptor the legacy schema tables report.
func descriptorOf(
	keyspace, cqlType string, lookup userTypeLookup,
) (string, error) {

	cqlType = strings.TrimSpace(cqlType)
	name, arguments, err := splitTypeArguments(cqlType)
	if err != nil {
		return "", err
	}

	switch strings.ToLower(name) {
	case "frozen":
		if len(arguments) != 1 {
			return "", errors.Errorf("frozen expects one type argument: %s", cqlType)
		}
		return descriptorOf(keyspace, arguments[0], lookup)

	case "list", "set", "map", "tuple":
		marshal := map[string]string{"list": "ListType", "set": "SetType", "map": "MapType", "tuple": "TupleType"}
		descriptors := make([]string, 0, len(arguments))
		for _, argument := range arguments {
			descriptor, err := descriptorOf(keyspace, argument, lookup)
			if err != nil {
				return "", err
			}
			descriptors = append(descriptors, descriptor)
		}
		return marshalPackage + marshal[strings.ToLower(name)] + "(" + strings.Join(descriptors, ",") + ")", nil
	}

	if len(arguments) > 0 {
		return "", errors.Errorf("unsupported parameterized type: %s", cqlType)
	}
	if marshal, present := cqlMarshalTypes[strings.ToLower(name)]; present {
		return marshalPackage + marshal, nil
	}
	return userTypeDescriptor(keyspace, unquote(name), lookup)
}

func userTypeDescriptor(
	keyspace, name string, lookup userTypeLookup,
) (string, error) {

	if lookup == nil {
		return "", errors.Errorf("unsupported column type: %s", name)
	}

	fieldNames, fieldTypes, err := lookup(name)
	if err != nil {
		return "", err
	}
	if len(fieldNames) == 0 || len(fieldNames) != len(fieldTypes) {
		return "", errors.Errorf("unsupported column type: %s", name)
	}

	builder := strings.Builder{}
	builder.WriteString(marshalPackage + "UserType(" + keyspace + "," + hex.EncodeToString([]byte(name)))
	for i, fieldName := range fieldNames {
		descriptor, err := descriptorOf(keyspace, fieldTypes[i], lookup)
		if err != nil {
			return "", errors.Errorf("field %s of type %s: %s", fieldName, name, err.Error())
		}
		builder.WriteString("," + hex.EncodeToString([]byte(fieldName)) + ":" + descriptor)
	}
	builder.WriteString(")")
	return builder.String(), nil
}

// splitTypeArguments splits "map<int, frozen<list<text>>>" into the type
// name and its top level arguments
func splitTypeArguments(
	cqlType string,
) (string, []string, error) {

	open := strings.IndexByte(cqlType, '<')
	if open < 0 {
		return cqlType, nil, nil
	}
	if !strings.HasSuffix(cqlType, ">") {
		return "", nil, errors.Errorf("malformed type: %s", cqlType)
	}

	name := strings.TrimSpace(cqlType[:open])
	body := cqlType[open+1 : len(cqlType)-1]

	arguments := make([]string, 0)
	depth := 0
	quoted := false
	start := 0
	for i := 0; i < len(body); i++ {
		switch c := body[i]; {
		case c == '"':
			quoted = !quoted
		case quoted:
		case c == '<':
			depth++
		case c == '>':
			depth--
			if depth < 0 {
				return "", nil, errors.Errorf("malformed type: %s", cqlType)
			}
		case c == ',' && depth == 0:
			arguments = append(arguments, strings.TrimSpace(body[start:i]))
			start = i + 1
		}
	}
	if depth != 0 || quoted {
		return "", nil, errors.Errorf("malformed type: %s", cqlType)
	}
	arguments = append(arguments, strings.TrimSpace(body[start:]))

	for _, argument := range arguments {
		if argument == "" {
			return "", nil, errors.Errorf("malformed type: %s", cqlType)
		}
	}
	return name, arguments, nil
}

func unquote(
	name string,
) string {

	if len(name) >= 2 && strings.HasPrefix(name, `"`) && strings.HasSuffix(name, `"`) {
		return strings.ReplaceAll(name[1:len(name)-1], `""`, `"`)
	}
	return name
}

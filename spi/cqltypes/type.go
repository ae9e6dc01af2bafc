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
	"encoding/hex"
	"strings"
)

const marshalPackage = "org.apache.cassandra.db.marshal."

// Type is a resolved column type. Containers carry their element types,
// structs their keyspace, name and ordered fields. The zero value is invalid.
type Type struct {
	kind     Kind
	elements []Type
	keyspace string
	name     string
	fields   []Field
}

type Field struct {
	name string
	typ  Type
}

func NewField(
	name string, typ Type,
) Field {

	return Field{name: name, typ: typ}
}

func (f Field) Name() string {
	return f.name
}

func (f Field) Type() Type {
	return f.typ
}

// Of returns the type of a primitive kind.
func Of(
	kind Kind,
) Type {

	return Type{kind: kind}
}

func ListOf(
	element Type,
) Type {

	return Type{kind: List, elements: []Type{element}}
}

func SetOf(
	element Type,
) Type {

	return Type{kind: Set, elements: []Type{element}}
}

func MapOf(
	key, value Type,
) Type {

	return Type{kind: Map, elements: []Type{key, value}}
}

func TupleOf(
	elements ...Type,
) Type {

	return Type{kind: Tuple, elements: elements}
}

func StructOf(
	keyspace, name string, fields ...Field,
) Type {

	return Type{kind: Struct, keyspace: keyspace, name: name, fields: fields}
}

func (t Type) Kind() Kind {
	return t.kind
}

// Element returns the element type of a list or set.
func (t Type) Element() Type {
	if t.kind != List && t.kind != Set {
		return Type{}
	}
	return t.elements[0]
}

// Key returns the key type of a map.
func (t Type) Key() Type {
	if t.kind != Map {
		return Type{}
	}
	return t.elements[0]
}

// Value returns the value type of a map.
func (t Type) Value() Type {
	if t.kind != Map {
		return Type{}
	}
	return t.elements[1]
}

func (t Type) Elements() []Type {
	return append([]Type(nil), t.elements...)
}

func (t Type) Keyspace() string {
	return t.keyspace
}

func (t Type) Name() string {
	return t.name
}

func (t Type) Fields() []Field {
	return append([]Field(nil), t.fields...)
}

func (t Type) IsValid() bool {
	_, ok := kinds[t.kind]
	return ok
}

// Tag renders the composite tag of the type, outer and inner marshal
// names joined by a slash, e.g. ListType/UTF8Type or
// MapType/Int32Type,(ListType/UTF8Type).
func (t Type) Tag() string {
	switch t.kind {
	case List, Set, Map, Tuple:
		tags := make([]string, 0, len(t.elements))
		for _, element := range t.elements {
			tag := element.Tag()
			if element.kind.IsContainer() {
				tag = "(" + tag + ")"
			}
			tags = append(tags, tag)
		}
		return t.kind.Marshal() + "/" + strings.Join(tags, ",")
	case Struct:
		return t.kind.Marshal() + "/" + t.name
	default:
		return t.kind.Marshal()
	}
}

// String renders the type in CQL syntax, e.g. map<int, text>.
func (t Type) String() string {
	return t.cql(false)
}

func (t Type) cql(
	nested bool,
) string {

	switch t.kind {
	case List, Set, Map, Tuple:
		elements := make([]string, 0, len(t.elements))
		for _, element := range t.elements {
			elements = append(elements, element.cql(true))
		}
		s := t.kind.String() + "<" + strings.Join(elements, ", ") + ">"
		if nested && t.kind != Tuple {
			return "frozen<" + s + ">"
		}
		return s
	case Struct:
		return "frozen<" + t.name + ">"
	default:
		return t.kind.String()
	}
}

// Descriptor renders the fully qualified marshal descriptor. Resolving
// the result yields the same type.
func (t Type) Descriptor() string {
	builder := strings.Builder{}
	t.writeDescriptor(&builder)
	return builder.String()
}

func (t Type) writeDescriptor(
	builder *strings.Builder,
) {

	builder.WriteString(marshalPackage)
	builder.WriteString(t.kind.Marshal())
	switch t.kind {
	case List, Set, Map, Tuple:
		builder.WriteByte('(')
		for i, element := range t.elements {
			if i > 0 {
				builder.WriteByte(',')
			}
			element.writeDescriptor(builder)
		}
		builder.WriteByte(')')
	case Struct:
		builder.WriteByte('(')
		builder.WriteString(t.keyspace)
		builder.WriteByte(',')
		builder.WriteString(hex.EncodeToString([]byte(t.name)))
		for _, field := range t.fields {
			builder.WriteByte(',')
			builder.WriteString(hex.EncodeToString([]byte(field.name)))
			builder.WriteByte(':')
			field.typ.writeDescriptor(builder)
		}
		builder.WriteByte(')')
	}
}

// Contains reports whether the type or any nested type has the given kind.
func (t Type) Contains(
	kind Kind,
) bool {

	if t.kind == kind {
		return true
	}
	for _, element := range t.elements {
		if element.Contains(kind) {
			return true
		}
	}
	for _, field := range t.fields {
		if field.typ.Contains(kind) {
			return true
		}
	}
	return false
}

func simpleName(
	name string,
) string {

	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		return name[i+1:]
	}
	return name
}

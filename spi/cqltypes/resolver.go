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
	"fmt"
)

// ParseError is returned for malformed or unsupported descriptors.
type ParseError struct {
	Descriptor string
	Position   int
	Message    string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf(
		"cannot resolve type descriptor '%s' at position %d: %s", e.Descriptor, e.Position, e.Message,
	)
}

// Resolve parses a Cassandra marshal type descriptor, such as
// org.apache.cassandra.db.marshal.MapType(Int32Type,UTF8Type), into a Type.
//
//	type     := name [ "(" args ")" ]
//	args     := type { "," type }
//	usertype := "UserType(" keyspace "," hex { "," hex ":" type } ")"
//
// ReversedType and FrozenType wrappers are dropped, they don't change the
// literal form of a value.
func Resolve(
	descriptor string,
) (Type, error) {

	p := &parser{input: descriptor}
	t, err := p.parseType()
	if err != nil {
		return Type{}, err
	}
	p.skipSpaces()
	if !p.eof() {
		return Type{}, p.errorf("unexpected trailing input '%s'", p.input[p.pos:])
	}
	return t, nil
}

type parser struct {
	input string
	pos   int
}

func (p *parser) parseType() (Type, error) {
	p.skipSpaces()
	start := p.pos
	name := p.identifier(isNameChar)
	if name == "" {
		return Type{}, p.errorf("type name expected")
	}

	simple := simpleName(name)
	if simple == "ReversedType" || simple == "FrozenType" {
		if err := p.expect('('); err != nil {
			return Type{}, err
		}
		t, err := p.parseType()
		if err != nil {
			return Type{}, err
		}
		return t, p.expect(')')
	}

	kind, ok := marshalKinds[simple]
	if !ok {
		return Type{}, &ParseError{
			Descriptor: p.input,
			Position:   start,
			Message:    fmt.Sprintf("unsupported type '%s'", simple),
		}
	}

	switch kind {
	case List, Set, Map, Tuple:
		return p.parseContainer(kind, start)
	case Struct:
		return p.parseUserType()
	default:
		if p.peek() == '(' {
			return Type{}, p.errorf("type '%s' takes no arguments", simple)
		}
		return Of(kind), nil
	}
}

func (p *parser) parseContainer(
	kind Kind, start int,
) (Type, error) {

	if err := p.expect('('); err != nil {
		return Type{}, err
	}
	elements, err := p.parseArguments()
	if err != nil {
		return Type{}, err
	}
	if err := p.expect(')'); err != nil {
		return Type{}, err
	}

	arityError := func(expected string) error {
		return &ParseError{
			Descriptor: p.input,
			Position:   start,
			Message: fmt.Sprintf(
				"%s expects %s type argument(s), got %d", kind.Marshal(), expected, len(elements),
			),
		}
	}

	switch kind {
	case List:
		if len(elements) != 1 {
			return Type{}, arityError("1")
		}
		return ListOf(elements[0]), nil
	case Set:
		if len(elements) != 1 {
			return Type{}, arityError("1")
		}
		return SetOf(elements[0]), nil
	case Map:
		if len(elements) != 2 {
			return Type{}, arityError("2")
		}
		return MapOf(elements[0], elements[1]), nil
	default:
		return TupleOf(elements...), nil
	}
}

func (p *parser) parseArguments() ([]Type, error) {
	arguments := make([]Type, 0, 2)
	for {
		t, err := p.parseType()
		if err != nil {
			return nil, err
		}
		arguments = append(arguments, t)

		p.skipSpaces()
		if p.peek() != ',' {
			return arguments, nil
		}
		p.pos++
	}
}

func (p *parser) parseUserType() (Type, error) {
	if err := p.expect('('); err != nil {
		return Type{}, err
	}

	p.skipSpaces()
	keyspace := p.identifier(isIdentifierChar)
	if keyspace == "" {
		return Type{}, p.errorf("keyspace name expected")
	}
	if err := p.expect(','); err != nil {
		return Type{}, err
	}

	name, err := p.hexIdentifier()
	if err != nil {
		return Type{}, err
	}

	fields := make([]Field, 0)
	for {
		p.skipSpaces()
		if p.peek() != ',' {
			break
		}
		p.pos++

		fieldName, err := p.hexIdentifier()
		if err != nil {
			return Type{}, err
		}
		if err := p.expect(':'); err != nil {
			return Type{}, err
		}
		fieldType, err := p.parseType()
		if err != nil {
			return Type{}, err
		}
		fields = append(fields, NewField(fieldName, fieldType))
	}

	if err := p.expect(')'); err != nil {
		return Type{}, err
	}
	if len(fields) == 0 {
		return Type{}, p.errorf("user type '%s' declares no fields", name)
	}
	return StructOf(keyspace, name, fields...), nil
}

func (p *parser) hexIdentifier() (string, error) {
	p.skipSpaces()
	start := p.pos
	encoded := p.identifier(isHexChar)
	if encoded == "" {
		return "", p.errorf("hex encoded name expected")
	}
	decoded, err := hex.DecodeString(encoded)
	if err != nil {
		return "", &ParseError{
			Descriptor: p.input,
			Position:   start,
			Message:    fmt.Sprintf("invalid hex encoded name '%s'", encoded),
		}
	}
	return string(decoded), nil
}

func (p *parser) identifier(
	accept func(c byte) bool,
) string {

	start := p.pos
	for !p.eof() && accept(p.input[p.pos]) {
		p.pos++
	}
	return p.input[start:p.pos]
}

func (p *parser) expect(
	c byte,
) error {

	p.skipSpaces()
	if p.peek() != c {
		if p.eof() {
			return p.errorf("'%c' expected, got end of input", c)
		}
		return p.errorf("'%c' expected, got '%c'", c, p.input[p.pos])
	}
	p.pos++
	return nil
}

func (p *parser) peek() byte {
	if p.eof() {
		return 0
	}
	return p.input[p.pos]
}

func (p *parser) eof() bool {
	return p.pos >= len(p.input)
}

func (p *parser) skipSpaces() {
	for !p.eof() && (p.input[p.pos] == ' ' || p.input[p.pos] == '\t') {
		p.pos++
	}
}

func (p *parser) errorf(
	format string, args ...any,
) error {

	return &ParseError{
		Descriptor: p.input,
		Position:   p.pos,
		Message:    fmt.Sprintf(format, args...),
	}
}

func isIdentifierChar(
	c byte,
) bool {

	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}

func isNameChar(
	c byte,
) bool {

	return isIdentifierChar(c) || c == '.' || c == '$'
}

func isHexChar(
	c byte,
) bool {

	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

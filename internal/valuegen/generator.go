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
	"encoding/hex"
	"fmt"
	"github.com/go-errors/errors"
	"github.com/gocql/gocql"
	"github.com/hashicorp/go-uuid"
	"github.com/noctarius/cql-workload/spi/cqltypes"
	"golang.org/x/exp/rand"
	"math/big"
	"strconv"
	"strings"
	"time"
)

const (
	timestampLayout = "2006-01-02 15:04:05-0700"
	textAlphabet    = "0123456789abcdef"
)

// Value is a CQL literal and its declared contribution to the record
// size in bytes.
type Value struct {
	Literal string
	Size    int
}

// Generator produces random literals. All randomness comes from the
// given source, values for key columns come from ValueFromKey.
type Generator struct {
	random    *rand.Rand
	fixedUUID string
}

// NewGenerator creates a generator over random. A non-empty fixedUUID is
// used for every uuid column instead of a random one.
func NewGenerator(
	random *rand.Rand, fixedUUID string,
) (*Generator, error) {

	if fixedUUID != "" {
		if _, err := uuid.ParseUUID(fixedUUID); err != nil {
			return nil, errors.Errorf("invalid fixed uuid '%s': %s", fixedUUID, err.Error())
		}
	}
	return &Generator{
		random:    random,
		fixedUUID: strings.ToLower(fixedUUID),
	}, nil
}

// Intn exposes the generator's random source for choices made by the
// statement builder, like picking the column of an update.
func (g *Generator) Intn(
	n int,
) int {

	return g.random.Intn(n)
}

// RandomValue generates a random literal for t. Textual and blob values
// take targetLength bytes, collections hold multiplicity elements.
func (g *Generator) RandomValue(
	t cqltypes.Type, targetLength, multiplicity int,
) (Value, error) {

	if targetLength < 0 {
		targetLength = 0
	}

	switch t.Kind() {
	case cqltypes.Boolean:
		if g.random.Intn(2) == 1 {
			return Value{"true", 1}, nil
		}
		return Value{"false", 1}, nil

	case cqltypes.Int32:
		return Value{strconv.Itoa(100000 + g.random.Intn(900000)), 4}, nil

	case cqltypes.Long, cqltypes.Counter:
		return Value{strconv.FormatInt(1000000000+g.random.Int63n(9000000000), 10), 8}, nil

	case cqltypes.UTF8, cqltypes.Ascii:
		return Value{quote(g.randomText(targetLength)), targetLength}, nil

	case cqltypes.UUID:
		if g.fixedUUID != "" {
			return Value{g.fixedUUID, 16}, nil
		}
		id, err := uuid.GenerateUUIDWithReader(g.random)
		if err != nil {
			return Value{}, errors.Wrap(err, 0)
		}
		return Value{id, 16}, nil

	case cqltypes.TimeUUID:
		return Value{gocql.TimeUUID().String(), 16}, nil

	case cqltypes.Timestamp:
		offset := time.Duration(g.random.Int63n(int64(365 * 24 * time.Hour)))
		timestamp := time.Now().Add(-offset).UTC()
		return Value{quote(timestamp.Format(timestampLayout)), 8}, nil

	case cqltypes.Double:
		return Value{strconv.FormatFloat(g.random.Float64()*1000000, 'f', 6, 64), 8}, nil

	case cqltypes.Float:
		return Value{strconv.FormatFloat(float64(g.random.Float32()*10000), 'f', 3, 32), 4}, nil

	case cqltypes.InetAddress:
		return Value{quote(fmt.Sprintf(
			"%d.%d.%d.%d", 1+g.random.Intn(254), g.random.Intn(256), g.random.Intn(256), 1+g.random.Intn(254),
		)), 4}, nil

	case cqltypes.Bytes:
		data := make([]byte, targetLength)
		if _, err := g.random.Read(data); err != nil {
			return Value{}, errors.Wrap(err, 0)
		}
		return Value{"0x" + hex.EncodeToString(data), targetLength}, nil

	case cqltypes.Integer:
		byteLength := max(1, targetLength)
		bits := 1 + g.random.Intn(byteLength*8)
		data := make([]byte, (bits+7)/8)
		if _, err := g.random.Read(data); err != nil {
			return Value{}, errors.Wrap(err, 0)
		}
		value := new(big.Int).SetBytes(data)
		value.SetBit(value, bits-1, 1)
		for i := bits; i < len(data)*8; i++ {
			value.SetBit(value, i, 0)
		}
		return Value{value.String(), byteLength}, nil

	case cqltypes.List, cqltypes.Set:
		return g.collection(t, targetLength, multiplicity)

	case cqltypes.Map:
		return g.mapping(t, targetLength, multiplicity)

	case cqltypes.Tuple:
		return joinElements(t.Elements(), "(", ")", func(element cqltypes.Type) (Value, error) {
			return g.RandomValue(element, targetLength, multiplicity)
		})

	case cqltypes.Struct:
		return structLiteral(t, func(field cqltypes.Type) (Value, error) {
			return g.RandomValue(field, targetLength, multiplicity)
		})
	}
	return Value{}, unsupportedKind(t)
}

func (g *Generator) collection(
	t cqltypes.Type, targetLength, multiplicity int,
) (Value, error) {

	open, closing := "[", "]"
	if t.Kind() == cqltypes.Set {
		open, closing = "{", "}"
	}

	elements := make([]cqltypes.Type, max(0, multiplicity))
	for i := range elements {
		elements[i] = t.Element()
	}
	return joinElements(elements, open, closing, func(element cqltypes.Type) (Value, error) {
		return g.RandomValue(element, targetLength, multiplicity)
	})
}

func (g *Generator) mapping(
	t cqltypes.Type, targetLength, multiplicity int,
) (Value, error) {

	builder := strings.Builder{}
	builder.WriteByte('{')
	size := 0
	for i := 0; i < multiplicity; i++ {
		key, err := g.RandomValue(t.Key(), targetLength, multiplicity)
		if err != nil {
			return Value{}, err
		}
		value, err := g.RandomValue(t.Value(), targetLength, multiplicity)
		if err != nil {
			return Value{}, err
		}
		if i > 0 {
			builder.WriteString(", ")
		}
		builder.WriteString(key.Literal)
		builder.WriteString(": ")
		builder.WriteString(value.Literal)
		size += key.Size + value.Size
	}
	builder.WriteByte('}')
	return Value{builder.String(), size}, nil
}

func (g *Generator) randomText(
	length int,
) string {

	data := make([]byte, length)
	for i := range data {
		data[i] = textAlphabet[g.random.Intn(len(textAlphabet))]
	}
	return string(data)
}

func joinElements(
	elements []cqltypes.Type, open, closing string, generate func(element cqltypes.Type) (Value, error),
) (Value, error) {

	builder := strings.Builder{}
	builder.WriteString(open)
	size := 0
	for i, element := range elements {
		value, err := generate(element)
		if err != nil {
			return Value{}, err
		}
		if i > 0 {
			builder.WriteString(", ")
		}
		builder.WriteString(value.Literal)
		size += value.Size
	}
	builder.WriteString(closing)
	return Value{builder.String(), size}, nil
}

func structLiteral(
	t cqltypes.Type, generate func(field cqltypes.Type) (Value, error),
) (Value, error) {

	builder := strings.Builder{}
	builder.WriteByte('{')
	size := 0
	for i, field := range t.Fields() {
		value, err := generate(field.Type())
		if err != nil {
			return Value{}, err
		}
		if i > 0 {
			builder.WriteString(", ")
		}
		builder.WriteString(cqltypes.QuoteIdentifier(field.Name()))
		builder.WriteString(": ")
		builder.WriteString(value.Literal)
		size += value.Size
	}
	builder.WriteByte('}')
	return Value{builder.String(), size}, nil
}

func quote(
	s string,
) string {

	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

func unsupportedKind(
	t cqltypes.Type,
) error {

	return errors.Errorf("no value generation for type kind %s", t.Kind())
}

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

package statements

import (
	"fmt"
	"github.com/go-errors/errors"
	"github.com/noctarius/cql-workload/internal/valuegen"
	"github.com/noctarius/cql-workload/spi/cqltypes"
	"github.com/noctarius/cql-workload/spi/session"
	"github.com/noctarius/cql-workload/spi/systemcatalog"
	"strings"
)

var ErrNoRegularColumns = errors.Errorf("table has no regular columns to update")

// Options configures the value sizes of generated statements
type Options struct {
	// InsertLength is the target length of non-filler values of an insert
	InsertLength int
	// InsertMultiplicity is the number of elements of collections in an insert
	InsertMultiplicity int
	// UpdateLength is the target length of the value of an update
	UpdateLength int
	// UpdateMultiplicity is the number of elements of collections in an update
	UpdateMultiplicity int
}

func DefaultOptions() Options {
	return Options{
		InsertLength:       16,
		InsertMultiplicity: 4,
		UpdateLength:       16,
		UpdateMultiplicity: 16,
	}
}

// Builder compiles mutations of a single table
type Builder struct {
	table     *systemcatalog.Table
	generator *valuegen.Generator
	options   Options
}

func NewBuilder(
	table *systemcatalog.Table, generator *valuegen.Generator, options Options,
) *Builder {

	return &Builder{
		table:     table,
		generator: generator,
		options:   options,
	}
}

func (b *Builder) Table() *systemcatalog.Table {
	return b.table
}

// BatchKind returns the only batch kind the table's statements fit in
func (b *Builder) BatchKind() session.BatchKind {
	if b.table.IsCounterTable() {
		return session.CounterBatch
	}
	return session.NormalBatch
}

// NewBatch creates an empty batch for the table's statements
func (b *Builder) NewBatch(
	limit int,
) *Batch {

	return NewBatch(b.BatchKind(), limit)
}

// MinimumRecordSize returns the declared size of a record with the given
// key when the filler column is left empty. Requested record sizes below
// this floor produce records of exactly this size.
func (b *Builder) MinimumRecordSize(
	key int64,
) (int, error) {

	filler, hasFiller := b.table.Filler()
	size := 0
	for _, column := range b.table.Columns() {
		if hasFiller && column.Name() == filler.Name() {
			continue
		}
		var contribution int
		var err error
		if column.IsKey() {
			var value valuegen.Value
			value, err = valuegen.ValueFromKey(column.Type(), key)
			contribution = value.Size
		} else {
			contribution, err = valuegen.Contribution(
				column.Type(), b.options.InsertLength, b.options.InsertMultiplicity,
			)
		}
		if err != nil {
			return 0, columnError(column, err)
		}
		size += contribution
	}
	return size, nil
}

// Insert compiles the insert of the record with the given key. Values of
// all columns but the filler are generated first, the filler takes the
// remaining recordSize budget. Counter tables get the increment form.
func (b *Builder) Insert(
	key int64, recordSize int,
) (Statement, error) {

	if b.table.IsCounterTable() {
		return b.increment(key)
	}

	columns := b.table.Columns()
	literals := make([]string, len(columns))
	filler, hasFiller := b.table.Filler()
	fillerIndex := -1

	size := 0
	for i, column := range columns {
		if hasFiller && column.Name() == filler.Name() {
			fillerIndex = i
			continue
		}

		value, err := b.columnValue(column, key, b.options.InsertLength, b.options.InsertMultiplicity)
		if err != nil {
			return Statement{}, err
		}
		literals[i] = value.Literal
		size += value.Size
	}

	if fillerIndex >= 0 {
		value, err := b.generator.RandomValue(filler.Type(), max(0, recordSize-size), 1)
		if err != nil {
			return Statement{}, columnError(filler, err)
		}
		literals[fillerIndex] = value.Literal
		size += value.Size
	}

	names := make([]string, len(columns))
	for i, column := range columns {
		names[i] = cqltypes.QuoteIdentifier(column.Name())
	}

	return Statement{
		Kind: InsertStatement,
		Key:  key,
		CQL: fmt.Sprintf(
			"INSERT INTO %s (%s) VALUES (%s)",
			b.table.CanonicalName(), strings.Join(names, ", "), strings.Join(literals, ", "),
		),
		Size: size,
	}, nil
}

// Update compiles the update of a single random regular column of the
// record with the given key. Counter tables get the increment form.
func (b *Builder) Update(
	key int64,
) (Statement, error) {

	if b.table.IsCounterTable() {
		return b.increment(key)
	}

	column, err := b.randomRegularColumn()
	if err != nil {
		return Statement{}, err
	}

	value, err := b.generator.RandomValue(column.Type(), b.options.UpdateLength, b.options.UpdateMultiplicity)
	if err != nil {
		return Statement{}, columnError(column, err)
	}

	where, err := b.whereClause(key)
	if err != nil {
		return Statement{}, err
	}

	return Statement{
		Kind: UpdateStatement,
		Key:  key,
		CQL: fmt.Sprintf(
			"UPDATE %s SET %s = %s WHERE %s",
			b.table.CanonicalName(), cqltypes.QuoteIdentifier(column.Name()), value.Literal, where,
		),
		Size: value.Size,
	}, nil
}

// Delete compiles the deletion of the record with the given key
func (b *Builder) Delete(
	key int64,
) (Statement, error) {

	if b.table.IsCounterTable() {
		// counter deletes can't share a batch with counter increments
		return Statement{}, errors.Errorf("deleting from counter table %s isn't supported", b.table.CanonicalName())
	}

	where, err := b.whereClause(key)
	if err != nil {
		return Statement{}, err
	}

	return Statement{
		Kind: DeleteStatement,
		Key:  key,
		CQL:  fmt.Sprintf("DELETE FROM %s WHERE %s", b.table.CanonicalName(), where),
	}, nil
}

func (b *Builder) increment(
	key int64,
) (Statement, error) {

	column, err := b.randomRegularColumn()
	if err != nil {
		return Statement{}, err
	}

	where, err := b.whereClause(key)
	if err != nil {
		return Statement{}, err
	}

	name := cqltypes.QuoteIdentifier(column.Name())
	return Statement{
		Kind: IncrementStatement,
		Key:  key,
		CQL: fmt.Sprintf(
			"UPDATE %s SET %s = %s + 1 WHERE %s", b.table.CanonicalName(), name, name, where,
		),
		Size: 8,
	}, nil
}

func (b *Builder) randomRegularColumn() (systemcatalog.Column, error) {
	regularColumns := b.table.RegularColumns()
	if len(regularColumns) == 0 {
		return systemcatalog.Column{}, ErrNoRegularColumns
	}
	return regularColumns[b.generator.Intn(len(regularColumns))], nil
}

func (b *Builder) whereClause(
	key int64,
) (string, error) {

	keyColumns := b.table.KeyColumns()
	if len(keyColumns) == 0 {
		return "", errors.Errorf("table %s has no key columns", b.table.CanonicalName())
	}

	conditions := make([]string, 0, len(keyColumns))
	for _, column := range keyColumns {
		value, err := valuegen.ValueFromKey(column.Type(), key)
		if err != nil {
			return "", columnError(column, err)
		}
		conditions = append(conditions, cqltypes.QuoteIdentifier(column.Name())+" = "+value.Literal)
	}
	return strings.Join(conditions, " AND "), nil
}

func (b *Builder) columnValue(
	column systemcatalog.Column, key int64, targetLength, multiplicity int,
) (valuegen.Value, error) {

	var value valuegen.Value
	var err error
	if column.IsKey() {
		value, err = valuegen.ValueFromKey(column.Type(), key)
	} else {
		value, err = b.generator.RandomValue(column.Type(), targetLength, multiplicity)
	}
	if err != nil {
		return valuegen.Value{}, columnError(column, err)
	}
	return value, nil
}

func columnError(
	column systemcatalog.Column, err error,
) error {

	return errors.Errorf("column %s: %s", column.Name(), err.Error())
}

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

package systemcatalog

import (
	"github.com/noctarius/cql-workload/spi/cqltypes"
	"github.com/samber/lo"
)

// Table represents the schema of a table as seen by the workload
// generator. The counter flag and the filler column are decided when
// the table is created and never change afterward.
type Table struct {
	keyspace  string
	tableName string
	columns   []Column
	filler    *Column
	counter   bool
}

// NewTable instantiates a new Table. The first regular textual column
// becomes the filler column, any counter column marks the table as a
// counter table.
func NewTable(
	keyspace, tableName string, columns []Column,
) *Table {

	t := &Table{
		keyspace:  keyspace,
		tableName: tableName,
		columns:   append([]Column(nil), columns...),
	}

	for i := range t.columns {
		column := t.columns[i]
		if column.IsCounter() {
			t.counter = true
		}
		if t.filler == nil && column.Role() == RegularRole && column.Type().Kind().IsTextual() {
			t.filler = &t.columns[i]
		}
	}
	return t
}

// KeyspaceName returns the keyspace name
func (t *Table) KeyspaceName() string {
	return t.keyspace
}

// TableName returns the table name
func (t *Table) TableName() string {
	return t.tableName
}

// CanonicalName returns the quoted keyspace.table name
func (t *Table) CanonicalName() string {
	return cqltypes.QualifiedName(t.keyspace, t.tableName)
}

// Columns returns the columns in schema order
func (t *Table) Columns() []Column {
	return t.columns
}

// KeyColumns returns the primary key columns in schema order
func (t *Table) KeyColumns() []Column {
	return lo.Filter(t.columns, func(column Column, _ int) bool {
		return column.IsKey()
	})
}

// RegularColumns returns all non-key, non-static columns in schema order.
// A static column can't be updated by a statement restricting clustering
// columns, updates only pick from these.
func (t *Table) RegularColumns() []Column {
	return lo.Filter(t.columns, func(column Column, _ int) bool {
		return column.Role() == RegularRole
	})
}

// Filler returns the column absorbing the remaining record size
// budget, if the table has one
func (t *Table) Filler() (Column, bool) {
	if t.filler == nil {
		return Column{}, false
	}
	return *t.filler, true
}

// IsCounterTable returns true if the table contains counter columns
func (t *Table) IsCounterTable() bool {
	return t.counter
}

// Column returns the column with the given name
func (t *Table) Column(
	name string,
) (Column, bool) {

	return lo.Find(t.columns, func(column Column) bool {
		return column.Name() == name
	})
}

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
	"context"
	"github.com/go-errors/errors"
	"github.com/noctarius/cql-workload/spi/session"
	"golang.org/x/exp/slices"
	"strings"
)

const (
	legacyColumnsQuery = "SELECT column_name, validator, type, component_index " +
		"FROM system.schema_columns WHERE keyspace_name = ? AND columnfamily_name = ?"

	columnsQuery = "SELECT column_name, type, kind, position " +
		"FROM system_schema.columns WHERE keyspace_name = ? AND table_name = ?"

	typesQuery = "SELECT type_name, field_names, field_types " +
		"FROM system_schema.types WHERE keyspace_name = ?"
)

var kindOrder = map[string]int{
	"partition_key":  0,
	"clustering":     1,
	"clustering_key": 1,
}

type columnRow struct {
	metadata session.ColumnMetadata
	position int
}

// ReadColumns reads the columns of keyspace.table. Clusters that still
// carry the legacy schema tables report marshal descriptors directly,
// newer ones report CQL types which are translated.
func (s *Session) ReadColumns(
	ctx context.Context, keyspace, table string,
) ([]session.ColumnMetadata, error) {

	if v := s.Version(); v == 0 || v.HasLegacySchemaTables() {
		rows, err := s.query(ctx, legacyColumnsQuery, keyspace, table)
		if err == nil && len(rows) > 0 {
			return legacyColumns(rows), nil
		}
		if err != nil {
			s.logger.Debugf("Legacy schema tables unavailable, using system_schema: %s", err.Error())
		}
	}

	rows, err := s.query(ctx, columnsQuery, keyspace, table)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}

	typeRows, err := s.query(ctx, typesQuery, keyspace)
	if err != nil {
		return nil, err
	}
	return schemaColumns(keyspace, rows, typeRows)
}

func legacyColumns(
	rows []session.Row,
) []session.ColumnMetadata {

	columns := make([]columnRow, 0, len(rows))
	for _, row := range rows {
		columns = append(columns, columnRow{
			metadata: session.ColumnMetadata{
				Name:       stringValue(row, "column_name"),
				Descriptor: stringValue(row, "validator"),
				Kind:       stringValue(row, "type"),
			},
			position: intValue(row, "component_index"),
		})
	}
	return sortColumns(columns)
}

func schemaColumns(
	keyspace string, rows, typeRows []session.Row,
) ([]session.ColumnMetadata, error) {

	userTypes := make(map[string]session.Row, len(typeRows))
	for _, row := range typeRows {
		userTypes[stringValue(row, "type_name")] = row
	}

	lookup := func(name string) ([]string, []string, error) {
		row, present := userTypes[name]
		if !present {
			return nil, nil, errors.Errorf("unsupported column type: %s", name)
		}
		return stringsValue(row, "field_names"), stringsValue(row, "field_types"), nil
	}

	columns := make([]columnRow, 0, len(rows))
	for _, row := range rows {
		name := stringValue(row, "column_name")
		descriptor, err := descriptorOf(keyspace, stringValue(row, "type"), lookup)
		if err != nil {
			return nil, errors.Errorf("column %s: %s", name, err.Error())
		}
		columns = append(columns, columnRow{
			metadata: session.ColumnMetadata{
				Name:       name,
				Descriptor: descriptor,
				Kind:       stringValue(row, "kind"),
			},
			position: intValue(row, "position"),
		})
	}
	return sortColumns(columns), nil
}

// sortColumns orders partition key columns first, then clustering
// columns, both by position, then all others by name
func sortColumns(
	columns []columnRow,
) []session.ColumnMetadata {

	rank := func(column columnRow) int {
		if order, present := kindOrder[column.metadata.Kind]; present {
			return order
		}
		return 2
	}

	slices.SortStableFunc(columns, func(a, b columnRow) int {
		if rankA, rankB := rank(a), rank(b); rankA != rankB {
			return rankA - rankB
		}
		if rank(a) < 2 && a.position != b.position {
			return a.position - b.position
		}
		return strings.Compare(a.metadata.Name, b.metadata.Name)
	})

	metadata := make([]session.ColumnMetadata, 0, len(columns))
	for _, column := range columns {
		metadata = append(metadata, column.metadata)
	}
	return metadata
}

func stringValue(
	row session.Row, name string,
) string {

	if value, ok := row[name].(string); ok {
		return value
	}
	return ""
}

func intValue(
	row session.Row, name string,
) int {

	switch value := row[name].(type) {
	case int:
		return value
	case int32:
		return int(value)
	case int64:
		return int(value)
	}
	return 0
}

func stringsValue(
	row session.Row, name string,
) []string {

	if value, ok := row[name].([]string); ok {
		return value
	}
	return nil
}

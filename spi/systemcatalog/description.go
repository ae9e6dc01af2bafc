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

// TableDescription is the serializable view of a Table
type TableDescription struct {
	Keyspace string              `json:"keyspace"`
	Table    string              `json:"table"`
	Counter  bool                `json:"counter"`
	Filler   string              `json:"filler,omitempty"`
	Columns  []ColumnDescription `json:"columns"`
}

type ColumnDescription struct {
	Name       string `json:"name"`
	Role       string `json:"role"`
	Type       string `json:"type"`
	Tag        string `json:"tag"`
	Descriptor string `json:"descriptor"`
}

// Describe returns the serializable view of the table
func (t *Table) Describe() TableDescription {
	description := TableDescription{
		Keyspace: t.keyspace,
		Table:    t.tableName,
		Counter:  t.counter,
		Columns:  make([]ColumnDescription, 0, len(t.columns)),
	}
	if filler, present := t.Filler(); present {
		description.Filler = filler.Name()
	}
	for _, column := range t.columns {
		description.Columns = append(description.Columns, ColumnDescription{
			Name:       column.Name(),
			Role:       column.Role().String(),
			Type:       column.Type().String(),
			Tag:        column.Type().Tag(),
			Descriptor: column.Type().Descriptor(),
		})
	}
	return description
}

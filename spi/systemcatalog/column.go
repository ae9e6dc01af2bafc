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
	"fmt"
	"github.com/go-errors/errors"
	"github.com/noctarius/cql-workload/spi/cqltypes"
)

// Role classifies a column as part of the primary key, as a regular
// (mutable) column or as a static column shared by a partition
type Role int

const (
	RegularRole Role = iota
	KeyRole
	StaticRole
)

func (r Role) String() string {
	switch r {
	case KeyRole:
		return "key"
	case StaticRole:
		return "static"
	}
	return "regular"
}

// ParseRole maps the column kind reported by the Cassandra schema
// tables to a Role
func ParseRole(
	kind string,
) (Role, error) {

	switch kind {
	case "partition_key", "clustering", "clustering_key":
		return KeyRole, nil
	case "regular", "compact_value":
		return RegularRole, nil
	case "static":
		return StaticRole, nil
	}
	return RegularRole, errors.Errorf("unknown column kind '%s'", kind)
}

// Column represents a column of a table with its resolved type
type Column struct {
	name string
	typ  cqltypes.Type
	role Role
}

// NewColumn instantiates a new Column instance
func NewColumn(
	name string, typ cqltypes.Type, role Role,
) Column {

	return Column{
		name: name,
		typ:  typ,
		role: role,
	}
}

// Name returns the column name
func (c Column) Name() string {
	return c.name
}

// Type returns the resolved column type
func (c Column) Type() cqltypes.Type {
	return c.typ
}

// Role returns the role of the column
func (c Column) Role() Role {
	return c.role
}

// IsKey returns true if the column is part of the primary key
func (c Column) IsKey() bool {
	return c.role == KeyRole
}

// IsStatic returns true if the column is shared by all rows of a partition
func (c Column) IsStatic() bool {
	return c.role == StaticRole
}

// IsCounter returns true if the column is a counter column
func (c Column) IsCounter() bool {
	return c.typ.Kind() == cqltypes.Counter
}

// String returns a string representation of the column
func (c Column) String() string {
	return fmt.Sprintf("%s %s (%s)", c.name, c.typ, c.role)
}

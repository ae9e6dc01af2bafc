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
	"context"
	"fmt"
	"github.com/go-errors/errors"
	"github.com/noctarius/cql-workload/internal/supporting/logging"
	"github.com/noctarius/cql-workload/spi/cqltypes"
	"github.com/noctarius/cql-workload/spi/session"
	"github.com/noctarius/cql-workload/spi/systemcatalog"
)

// BuildError is returned when the schema of a table can't be built
type BuildError struct {
	Keyspace string
	Table    string
	Cause    error
}

func (e *BuildError) Error() string {
	return fmt.Sprintf("failed building schema of %s.%s: %s", e.Keyspace, e.Table, e.Cause.Error())
}

func (e *BuildError) Unwrap() error {
	return e.Cause
}

// Build reads the column metadata of keyspace.table from the source and
// resolves it into a systemcatalog.Table.
func Build(
	ctx context.Context, source session.MetadataSource, keyspace, table string,
) (*systemcatalog.Table, error) {

	logger, err := logging.NewLogger("SchemaBuilder")
	if err != nil {
		return nil, err
	}

	buildError := func(cause error) error {
		return &BuildError{Keyspace: keyspace, Table: table, Cause: cause}
	}

	metadata, err := source.ReadColumns(ctx, keyspace, table)
	if err != nil {
		return nil, buildError(errors.Wrap(err, 0))
	}
	if len(metadata) == 0 {
		return nil, buildError(errors.Errorf("table doesn't exist or has no columns"))
	}

	columns := make([]systemcatalog.Column, 0, len(metadata))
	for _, column := range metadata {
		role, err := systemcatalog.ParseRole(column.Kind)
		if err != nil {
			return nil, buildError(errors.Errorf("column %s: %s", column.Name, err.Error()))
		}

		typ, err := cqltypes.Resolve(column.Descriptor)
		if err != nil {
			return nil, buildError(errors.Errorf("column %s: %s", column.Name, err.Error()))
		}

		logger.Verbosef("Column %s resolved to %s (%s)", column.Name, typ, role)
		columns = append(columns, systemcatalog.NewColumn(column.Name, typ, role))
	}

	t := systemcatalog.NewTable(keyspace, table, columns)
	if len(t.KeyColumns()) == 0 {
		return nil, buildError(errors.Errorf("table has no primary key columns"))
	}

	if filler, present := t.Filler(); present {
		logger.Debugf("Using column %s as filler for %s", filler.Name(), t.CanonicalName())
	} else {
		logger.Debugf("No filler column in %s, record sizes are not enforced", t.CanonicalName())
	}
	return t, nil
}

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

package session

import (
	"context"
)

// BatchKind selects the kind of batch a set of statements is executed in,
// counter mutations must not be mixed with regular ones.
type BatchKind int

const (
	NormalBatch BatchKind = iota
	CounterBatch
)

func (k BatchKind) String() string {
	if k == CounterBatch {
		return "counter"
	}
	return "normal"
}

// Row is a single result row, keyed by column name
type Row = map[string]any

// ColumnMetadata is a column as reported by the cluster's schema tables,
// with its type as marshal descriptor and the raw column kind
type ColumnMetadata struct {
	Name       string
	Descriptor string
	Kind       string
}

// MetadataSource reads the column metadata of a table
type MetadataSource interface {
	ReadColumns(ctx context.Context, keyspace, table string) ([]ColumnMetadata, error)
}

// Executor executes single CQL statements
type Executor interface {
	Execute(ctx context.Context, statement string) ([]Row, error)
}

// Session is the connection to the cluster the workload runs against
type Session interface {
	MetadataSource
	Executor
	// Connect opens the session, a failure is fatal to the workload
	Connect(ctx context.Context) error
	// Disconnect closes the session, it is safe to call more than once
	Disconnect()
	// ExecuteBatch executes the statements as a single batch of the given kind
	ExecuteBatch(ctx context.Context, kind BatchKind, statements []string) error
	// NodeHealth returns the raw output of the node health probe
	NodeHealth(ctx context.Context) (string, error)
	// Datacenter returns the local datacenter, if known
	Datacenter() string
}

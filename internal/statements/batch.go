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
	"github.com/go-errors/errors"
	"github.com/noctarius/cql-workload/spi/session"
	"github.com/samber/lo"
	"strings"
)

var (
	ErrBatchFull         = errors.Errorf("batch is full")
	ErrBatchKindMismatch = errors.Errorf("statement doesn't match the batch kind")
)

// Batch is an ordered list of statements of a single batch kind
type Batch struct {
	kind       session.BatchKind
	limit      int
	statements []Statement
}

// NewBatch creates an empty batch holding up to limit statements,
// a limit of zero or less means unbounded
func NewBatch(
	kind session.BatchKind, limit int,
) *Batch {

	return &Batch{
		kind:       kind,
		limit:      limit,
		statements: make([]Statement, 0, max(0, limit)),
	}
}

func (b *Batch) Add(
	statement Statement,
) error {

	if statement.BatchKind() != b.kind {
		return ErrBatchKindMismatch
	}
	if b.IsFull() {
		return ErrBatchFull
	}
	b.statements = append(b.statements, statement)
	return nil
}

func (b *Batch) Kind() session.BatchKind {
	return b.kind
}

func (b *Batch) Len() int {
	return len(b.statements)
}

func (b *Batch) IsEmpty() bool {
	return len(b.statements) == 0
}

func (b *Batch) IsFull() bool {
	return b.limit > 0 && len(b.statements) >= b.limit
}

func (b *Batch) Statements() []Statement {
	return b.statements
}

// Queries returns the CQL text of all statements in order
func (b *Batch) Queries() []string {
	return lo.Map(b.statements, func(statement Statement, _ int) string {
		return statement.CQL
	})
}

// Size returns the summed declared size of all statements
func (b *Batch) Size() int {
	return lo.SumBy(b.statements, func(statement Statement) int {
		return statement.Size
	})
}

// CountByKind returns the number of statements per statement kind
func (b *Batch) CountByKind() map[Kind]int {
	return lo.CountValuesBy(b.statements, func(statement Statement) Kind {
		return statement.Kind
	})
}

// CQL renders the batch as a single BEGIN ... APPLY BATCH statement
func (b *Batch) CQL() string {
	builder := strings.Builder{}
	if b.kind == session.CounterBatch {
		builder.WriteString("BEGIN COUNTER BATCH\n")
	} else {
		builder.WriteString("BEGIN BATCH\n")
	}
	for _, statement := range b.statements {
		builder.WriteString("  ")
		builder.WriteString(statement.CQL)
		builder.WriteString(";\n")
	}
	builder.WriteString("APPLY BATCH;")
	return builder.String()
}

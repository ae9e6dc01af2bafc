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
	"github.com/noctarius/cql-workload/spi/session"
)

type Kind int

const (
	InsertStatement Kind = iota
	UpdateStatement
	DeleteStatement
	IncrementStatement
)

func (k Kind) String() string {
	switch k {
	case InsertStatement:
		return "insert"
	case UpdateStatement:
		return "update"
	case DeleteStatement:
		return "delete"
	case IncrementStatement:
		return "increment"
	}
	return "unknown"
}

// Statement is a single generated mutation of the record with the given
// key. Size is the declared size of the values it writes.
type Statement struct {
	Kind Kind
	Key  int64
	CQL  string
	Size int
}

// BatchKind returns the kind of batch the statement may be part of
func (s Statement) BatchKind() session.BatchKind {
	if s.Kind == IncrementStatement {
		return session.CounterBatch
	}
	return session.NormalBatch
}

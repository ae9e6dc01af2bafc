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

package workload

import (
	"fmt"
	"github.com/go-errors/errors"
)

type OutcomeKind int

const (
	Ok OutcomeKind = iota
	Transient
	Fatal
)

func (k OutcomeKind) String() string {
	switch k {
	case Ok:
		return "ok"
	case Transient:
		return "transient error"
	case Fatal:
		return "fatal error"
	}
	return "unknown"
}

// Outcome is the result of executing a single batch
type Outcome struct {
	Kind OutcomeKind
	Err  error
}

func okOutcome() Outcome {
	return Outcome{Kind: Ok}
}

func transientOutcome(
	batch uint64, cause error,
) Outcome {

	return Outcome{Kind: Transient, Err: &TransientError{Batch: batch, Cause: cause}}
}

func fatalOutcome(
	cause error,
) Outcome {

	return Outcome{Kind: Fatal, Err: &FatalError{Cause: cause}}
}

// TransientError is a failed batch execution. The batch is dropped and
// the workload continues after the cooldown.
type TransientError struct {
	Batch uint64
	Cause error
}

func (e *TransientError) Error() string {
	return fmt.Sprintf("batch %d failed: %s", e.Batch, e.Cause.Error())
}

func (e *TransientError) Unwrap() error {
	return e.Cause
}

// FatalError stops the workload, like a failed connect or a statement
// that can't be generated for the table.
type FatalError struct {
	Cause error
}

func (e *FatalError) Error() string {
	return e.Cause.Error()
}

func (e *FatalError) Unwrap() error {
	return e.Cause
}

func IsFatal(
	err error,
) bool {

	var fatal *FatalError
	return errors.As(err, &fatal)
}

func IsTransient(
	err error,
) bool {

	var transient *TransientError
	return errors.As(err, &transient)
}

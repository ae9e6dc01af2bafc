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

package bootstrap

import (
	"github.com/cenkalti/backoff/v4"
	"time"
)

// DefaultRetryLadder are the waits before each retry of a DDL statement
var DefaultRetryLadder = []time.Duration{
	0, 5 * time.Second, 15 * time.Second, time.Minute, time.Minute,
}

// ladderBackOff waits the ladder's durations in order and stops once
// all of them are used up
type ladderBackOff struct {
	ladder []time.Duration
	next   int
}

var _ backoff.BackOff = &ladderBackOff{}

func newLadderBackOff(
	ladder []time.Duration,
) *ladderBackOff {

	return &ladderBackOff{
		ladder: ladder,
	}
}

func (l *ladderBackOff) NextBackOff() time.Duration {
	if l.next >= len(l.ladder) {
		return backoff.Stop
	}
	delay := l.ladder[l.next]
	l.next++
	return delay
}

func (l *ladderBackOff) Reset() {
	l.next = 0
}

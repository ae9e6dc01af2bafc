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

package journal

import (
	"strconv"
	"time"
)

type Operation string

const (
	OpInsert    Operation = "insert"
	OpUpdate    Operation = "update"
	OpDelete    Operation = "delete"
	OpIncrement Operation = "increment"
)

// Event describes one executed mutation.
type Event struct {
	Operation Operation `json:"op"`
	Keyspace  string    `json:"keyspace"`
	Table     string    `json:"table"`
	Key       int64     `json:"key"`
	Size      int       `json:"size"`
	Batch     uint64    `json:"batch"`
	Timestamp time.Time `json:"ts"`
}

// MessageKey is the partitioning key of the event in the sink.
func (e Event) MessageKey() string {
	return e.Keyspace + "." + e.Table + ":" + strconv.FormatInt(e.Key, 10)
}

// Env exposes the event to filter expressions.
func (e Event) Env() map[string]any {
	return map[string]any{
		"op":       string(e.Operation),
		"keyspace": e.Keyspace,
		"table":    e.Table,
		"key":      e.Key,
		"size":     e.Size,
		"batch":    e.Batch,
	}
}

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

package planning

import (
	"github.com/go-errors/errors"
	"github.com/inhies/go-bytesize"
	"time"
)

const (
	// Interval is the planning window of a delta workload
	Interval = 5 * time.Minute
	// MinimumDelay between two batches of a delta workload
	MinimumDelay = time.Second
)

// DeltaPlan is the batch layout applying a byte rate to a table
type DeltaPlan struct {
	RecordsPerInterval int64
	BatchesPerInterval int64
	BatchSize          int
	Delay              time.Duration
}

// RecordsPerHour returns the number of records the plan writes per hour
func (p DeltaPlan) RecordsPerHour() int64 {
	return p.BatchesPerInterval * int64(p.BatchSize) * int64(time.Hour/Interval)
}

// NewDeltaPlan computes batch size and pacing to write bytesPerHour with
// records of recordSize bytes. The last minute of every interval is kept
// free, batches are spread over the remaining time.
func NewDeltaPlan(
	bytesPerHour bytesize.ByteSize, recordSize int,
) (DeltaPlan, error) {

	if recordSize <= 0 {
		return DeltaPlan{}, errors.Errorf("record size must be positive, got %d", recordSize)
	}
	if bytesPerHour <= 0 {
		return DeltaPlan{}, errors.Errorf("byte rate must be positive, got %s", bytesPerHour)
	}

	intervalMinutes := int64(Interval / time.Minute)

	recordsPerHour := max(1, int64(bytesPerHour)/int64(recordSize))
	recordsPerMinute := max(1, recordsPerHour/60)
	recordsPerInterval := recordsPerMinute * intervalMinutes

	batches := max(60, 60*(intervalMinutes-1))
	batchSize := max(1, recordsPerInterval/batches)
	if recordsPerInterval < batches {
		batches = recordsPerInterval
		batchSize = 1
	}

	delay := max(MinimumDelay, (Interval-time.Minute)/time.Duration(batches))
	return DeltaPlan{
		RecordsPerInterval: recordsPerInterval,
		BatchesPerInterval: batches,
		BatchSize:          int(batchSize),
		Delay:              delay,
	}, nil
}

// Range is a half-open range of record keys
type Range struct {
	Start int64
	Count int64
}

func (r Range) End() int64 {
	return r.Start + r.Count
}

// SplitRange splits [start, start+count) into parts non-overlapping
// ranges for concurrent populators. The remainder goes to the first
// ranges so no record is lost.
func SplitRange(
	start, count int64, parts int,
) ([]Range, error) {

	if parts <= 0 {
		return nil, errors.Errorf("number of parts must be positive, got %d", parts)
	}
	if count < 0 || start < 0 {
		return nil, errors.Errorf("invalid record range start=%d count=%d", start, count)
	}

	size := count / int64(parts)
	remainder := count % int64(parts)

	ranges := make([]Range, 0, parts)
	next := start
	for i := 0; i < parts; i++ {
		partCount := size
		if int64(i) < remainder {
			partCount++
		}
		ranges = append(ranges, Range{Start: next, Count: partCount})
		next += partCount
	}
	return ranges, nil
}

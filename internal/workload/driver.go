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
	"context"
	"github.com/go-errors/errors"
	"github.com/noctarius/cql-workload/internal/statements"
	"github.com/noctarius/cql-workload/internal/stats"
	"github.com/noctarius/cql-workload/internal/supporting/logging"
	"github.com/noctarius/cql-workload/spi/journal"
	"github.com/noctarius/cql-workload/spi/session"
	"github.com/noctarius/cql-workload/spi/statestorage"
	"golang.org/x/exp/rand"
	"sync"
	"sync/atomic"
	"time"
)

const DefaultBatchSize = 100

// Publisher receives the journal events of every successful batch
type Publisher interface {
	Publish(events []journal.Event) (int, error)
}

type Options struct {
	// Cooldown after a failed batch, defaults to DefaultCooldown
	Cooldown time.Duration
	// Sleeper used for cooldowns and inter-batch delays
	Sleeper Sleeper
	Random  *rand.Rand
	// OnBatch is called after every executed batch
	OnBatch      func(report BatchReport)
	Journal      Publisher
	Stats        *stats.Reporter
	StateStorage statestorage.Storage
}

type BulkOptions struct {
	Start      int64
	Count      int64
	RecordSize int
	BatchSize  int
}

type ContinuousOptions struct {
	Frontier         int64
	RecordSize       int
	InsertPercentage int
	BatchSize        int
	Delay            time.Duration
	// BatchCount stops the workload after the given number of batches,
	// a negative count runs until the context is done
	BatchCount int
}

// BatchReport describes an executed batch
type BatchReport struct {
	Batch    uint64
	Outcome  Outcome
	Counts   map[statements.Kind]int
	Size     int
	Frontier int64
	Duration time.Duration
}

type Summary struct {
	Batches       uint64
	FailedBatches uint64
	Inserted      uint64
	Updated       uint64
	Deleted       uint64
	Incremented   uint64
	Bytes         uint64
	Frontier      int64
}

func (s Summary) Records() uint64 {
	return s.Inserted + s.Updated + s.Deleted + s.Incremented
}

// Driver executes a workload against a single table. A driver runs one
// workload only, afterward it is stopped.
type Driver struct {
	session session.Session
	builder *statements.Builder
	options Options
	policy  *BackoffPolicy
	random  *rand.Rand
	state   atomic.Int32
	mutex   sync.Mutex
	summary Summary
	logger  *logging.Logger
}

func NewDriver(
	session session.Session, builder *statements.Builder, options Options,
) (*Driver, error) {

	logger, err := logging.NewLogger("WorkloadDriver")
	if err != nil {
		return nil, err
	}

	if options.Cooldown == 0 {
		options.Cooldown = DefaultCooldown
	}
	if options.Sleeper == nil {
		options.Sleeper = SleepContext
	}
	if options.Random == nil {
		options.Random = rand.New(rand.NewSource(uint64(time.Now().UnixNano())))
	}
	if options.Stats == nil {
		options.Stats = &stats.Reporter{}
	}
	if options.StateStorage == nil {
		options.StateStorage = statestorage.NewNoneStateStorage()
	}

	policy, err := NewBackoffPolicy(options.Cooldown, session.NodeHealth, options.Sleeper)
	if err != nil {
		return nil, err
	}

	return &Driver{
		session: session,
		builder: builder,
		options: options,
		policy:  policy,
		random:  options.Random,
		logger:  logger,
	}, nil
}

func (d *Driver) State() State {
	return State(d.state.Load())
}

// Summary returns the totals of the workload so far
func (d *Driver) Summary() Summary {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	return d.summary
}

// Connect opens the session. A failed connect is fatal and stops the
// driver.
func (d *Driver) Connect(
	ctx context.Context,
) error {

	if !d.state.CompareAndSwap(int32(Idle), int32(Connected)) {
		return errors.Errorf("driver can't connect in state %s", d.State())
	}

	if err := d.session.Connect(ctx); err != nil {
		d.setState(Stopped)
		return &FatalError{Cause: errors.Wrap(err, 0)}
	}
	d.logger.Infof("Connected, running workload against %s", d.builder.Table().CanonicalName())
	return nil
}

// Close disconnects the session and stops the driver
func (d *Driver) Close() {
	d.session.Disconnect()
	d.setState(Stopped)
}

// BulkInsert creates the records [Start, Start+Count) in batches. A
// failed batch is not retried, the insert continues with the next batch
// after the cooldown.
func (d *Driver) BulkInsert(
	ctx context.Context, options BulkOptions,
) (Summary, error) {

	if options.Start < 0 || options.Count < 0 {
		return Summary{}, errors.Errorf("invalid record range start=%d count=%d", options.Start, options.Count)
	}
	batchSize := options.BatchSize
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}

	if err := d.begin(); err != nil {
		return Summary{}, err
	}
	defer d.setState(Stopped)

	end := options.Start + options.Count
	d.logger.Infof("Inserting records %d to %d in batches of %d", options.Start, end, batchSize)

	for next := options.Start; next < end; {
		if err := ctx.Err(); err != nil {
			return d.Summary(), err
		}

		upper := min(end, next+int64(batchSize))
		mutations := make([]mutation, 0, upper-next)
		for key := next; key < upper; key++ {
			mutations = append(mutations, mutation{kind: statements.InsertStatement, key: key})
		}

		if err := d.runBatch(ctx, mutations, options.RecordSize, upper); err != nil {
			return d.Summary(), err
		}
		next = upper
	}

	summary := d.Summary()
	d.logger.Infof("Bulk insert finished, %d records in %d batches (%d failed)",
		summary.Inserted, summary.Batches, summary.FailedBatches)
	return summary, nil
}

// ContinuousUpdate mutates the table until BatchCount batches are
// executed or the context is done. The frontier only moves forward on
// successful batches.
func (d *Driver) ContinuousUpdate(
	ctx context.Context, options ContinuousOptions,
) (Summary, error) {

	if options.InsertPercentage < 0 || options.InsertPercentage > 100 {
		return Summary{}, errors.Errorf("insert percentage must be within [0, 100], got %d", options.InsertPercentage)
	}
	if options.Frontier < 0 {
		return Summary{}, errors.Errorf("invalid frontier %d", options.Frontier)
	}
	batchSize := options.BatchSize
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}

	if err := d.begin(); err != nil {
		return Summary{}, err
	}
	defer d.setState(Stopped)

	d.withSummary(func(summary *Summary) {
		summary.Frontier = options.Frontier
	})

	d.logger.Infof("Starting continuous update at frontier %d, %d%% inserts, batches of %d",
		options.Frontier, options.InsertPercentage, batchSize)

	planner := newPlanner(d.random, options.InsertPercentage, options.Frontier)
	for executed := 0; options.BatchCount < 0 || executed < options.BatchCount; executed++ {
		if err := ctx.Err(); err != nil {
			return d.Summary(), err
		}

		mutations, frontier := planner.plan(batchSize)
		if err := d.runBatch(ctx, mutations, options.RecordSize, frontier); err != nil {
			return d.Summary(), err
		}
		planner.commit(d.Summary().Frontier)

		last := options.BatchCount >= 0 && executed+1 >= options.BatchCount
		if !last && options.Delay > 0 {
			if err := d.options.Sleeper(ctx, options.Delay); err != nil {
				return d.Summary(), err
			}
		}
	}

	summary := d.Summary()
	d.logger.Infof("Continuous update finished at frontier %d after %d batches (%d failed)",
		summary.Frontier, summary.Batches, summary.FailedBatches)
	return summary, nil
}

func (d *Driver) begin() error {
	if !d.state.CompareAndSwap(int32(Connected), int32(Running)) {
		return errors.Errorf("driver can't start a workload in state %s", d.State())
	}
	return nil
}

func (d *Driver) setState(
	state State,
) {

	d.state.Store(int32(state))
}

func (d *Driver) withSummary(
	fn func(summary *Summary),
) {

	d.mutex.Lock()
	defer d.mutex.Unlock()
	fn(&d.summary)
}

// runBatch executes the mutations as one batch and handles its outcome.
// On success the frontier moves to the given value.
func (d *Driver) runBatch(
	ctx context.Context, mutations []mutation, recordSize int, frontier int64,
) error {

	var batchNumber uint64
	d.withSummary(func(summary *Summary) {
		summary.Batches++
		batchNumber = summary.Batches
	})

	start := time.Now()
	outcome, batch := d.executeBatch(ctx, batchNumber, mutations, recordSize)
	duration := time.Since(start)

	report := BatchReport{
		Batch:    batchNumber,
		Outcome:  outcome,
		Duration: duration,
	}
	if batch != nil {
		report.Counts = batch.CountByKind()
		report.Size = batch.Size()
	}

	switch outcome.Kind {
	case Ok:
		d.commit(batchNumber, batch, frontier, duration)
		report.Frontier = frontier
		d.notify(report)
		return nil

	case Transient:
		d.withSummary(func(summary *Summary) {
			summary.FailedBatches++
			report.Frontier = summary.Frontier
		})
		d.options.Stats.Incr("batches.failed")
		d.notify(report)

		d.setState(ErrorBackoff)
		if _, err := d.policy.Recover(ctx, outcome.Err); err != nil {
			return err
		}
		d.setState(Running)
		return nil
	}

	d.options.Stats.Incr("batches.failed")
	return outcome.Err
}

func (d *Driver) executeBatch(
	ctx context.Context, batchNumber uint64, mutations []mutation, recordSize int,
) (Outcome, *statements.Batch) {

	batch := d.builder.NewBatch(len(mutations))
	for _, m := range mutations {
		statement, err := d.compile(m, recordSize)
		if err != nil {
			return fatalOutcome(err), nil
		}
		if err := batch.Add(statement); err != nil {
			return fatalOutcome(err), nil
		}
	}

	if batch.IsEmpty() {
		return okOutcome(), batch
	}

	d.logger.Tracef("Executing batch %d:\n%s", batchNumber, batch.CQL())
	// a stop request takes effect at the next batch boundary, never mid-batch
	batchCtx := context.WithoutCancel(ctx)
	if err := d.session.ExecuteBatch(batchCtx, batch.Kind(), batch.Queries()); err != nil {
		return transientOutcome(batchNumber, err), batch
	}
	return okOutcome(), batch
}

func (d *Driver) compile(
	m mutation, recordSize int,
) (statements.Statement, error) {

	switch m.kind {
	case statements.InsertStatement:
		return d.builder.Insert(m.key, recordSize)
	case statements.UpdateStatement:
		return d.builder.Update(m.key)
	case statements.DeleteStatement:
		// counters can't be deleted in a counter batch, they're incremented instead
		if d.builder.Table().IsCounterTable() {
			return d.builder.Update(m.key)
		}
		return d.builder.Delete(m.key)
	}
	return statements.Statement{}, errors.Errorf("unsupported mutation kind %s", m.kind)
}

func (d *Driver) commit(
	batchNumber uint64, batch *statements.Batch, frontier int64, duration time.Duration,
) {

	counts := batch.CountByKind()
	var progress statestorage.Progress
	d.withSummary(func(summary *Summary) {
		summary.Inserted += uint64(counts[statements.InsertStatement])
		summary.Updated += uint64(counts[statements.UpdateStatement])
		summary.Deleted += uint64(counts[statements.DeleteStatement])
		summary.Incremented += uint64(counts[statements.IncrementStatement])
		summary.Bytes += uint64(batch.Size())
		summary.Frontier = max(summary.Frontier, frontier)

		progress = statestorage.Progress{
			Frontier:  summary.Frontier,
			Batches:   summary.Batches,
			Records:   summary.Records(),
			Timestamp: time.Now(),
		}
	})

	reporter := d.options.Stats
	reporter.Incr("batches.executed")
	reporter.Add("records.inserted", counts[statements.InsertStatement])
	reporter.Add("records.updated", counts[statements.UpdateStatement])
	reporter.Add("records.deleted", counts[statements.DeleteStatement])
	reporter.Add("records.incremented", counts[statements.IncrementStatement])
	reporter.Add("bytes.generated", batch.Size())
	reporter.Set("frontier", progress.Frontier)
	reporter.Observe("batch.duration", duration)

	table := d.builder.Table()
	if err := d.options.StateStorage.Set(table.CanonicalName(), &progress); err != nil {
		d.logger.Warnf("Failed to store progress of %s: %s", table.CanonicalName(), err.Error())
	}

	if d.options.Journal != nil {
		events := journalEvents(table.KeyspaceName(), table.TableName(), batchNumber, batch.Statements())
		if _, err := d.options.Journal.Publish(events); err != nil {
			d.logger.Warnf("Journal: %s", err.Error())
		}
	}

	d.logger.Verbosef("Batch %d executed: %d statements, %d bytes, frontier %d, took %s",
		batchNumber, batch.Len(), batch.Size(), progress.Frontier, duration)
}

func (d *Driver) notify(
	report BatchReport,
) {

	if d.options.OnBatch != nil {
		d.options.OnBatch(report)
	}
}

func journalEvents(
	keyspace, table string, batchNumber uint64, batchStatements []statements.Statement,
) []journal.Event {

	timestamp := time.Now()
	events := make([]journal.Event, 0, len(batchStatements))
	for _, statement := range batchStatements {
		events = append(events, journal.Event{
			Operation: operation(statement.Kind),
			Keyspace:  keyspace,
			Table:     table,
			Key:       statement.Key,
			Size:      statement.Size,
			Batch:     batchNumber,
			Timestamp: timestamp,
		})
	}
	return events
}

func operation(
	kind statements.Kind,
) journal.Operation {

	switch kind {
	case statements.InsertStatement:
		return journal.OpInsert
	case statements.UpdateStatement:
		return journal.OpUpdate
	case statements.DeleteStatement:
		return journal.OpDelete
	}
	return journal.OpIncrement
}

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

package main

import (
	"fmt"
	"github.com/hashicorp/go-uuid"
	"github.com/inhies/go-bytesize"
	"github.com/noctarius/cql-workload/internal/bootstrap"
	"github.com/noctarius/cql-workload/internal/planning"
	"github.com/noctarius/cql-workload/internal/statements"
	"github.com/noctarius/cql-workload/internal/supporting"
	"github.com/noctarius/cql-workload/internal/workload"
	spiconfig "github.com/noctarius/cql-workload/spi/config"
	"github.com/noctarius/cql-workload/spi/encoding"
	"github.com/noctarius/cql-workload/spi/statestorage"
	"github.com/urfave/cli"
	"os"
	"strings"
	"time"
)

const defaultTarget = "ks1.table1"

func insertCommand() cli.Command {
	return cli.Command{
		Name:      "insert",
		Usage:     "Insert a range of records",
		ArgsUsage: "ip_list schema_file",
		Flags: []cli.Flag{
			cli.IntFlag{Name: "r", Value: 1000, Usage: "Record size in `BYTES`"},
			cli.Int64Flag{Name: "s", Value: 1, Usage: "Starting record number"},
			cli.Int64Flag{Name: "n", Value: 10000, Usage: "Record count"},
			cli.StringFlag{Name: "t", Value: defaultTarget, Usage: "Target table in keyspace.table format"},
			cli.StringFlag{Name: "u", Value: "", Usage: "`UUID` used for every generated uuid value"},
			cli.IntFlag{Name: "replication", Value: bootstrap.DefaultReplicationFactor, Usage: "Keyspace replication factor"},
			cli.IntFlag{Name: "shards", Value: 1, Usage: "Number of populators sharing the record range"},
			cli.IntFlag{Name: "shard", Value: 0, Usage: "Zero based share of the record range to insert"},
			cli.IntFlag{Name: "batch-size", Value: 0, Usage: "Records per batch, defaults to workload.batchsize or 100"},
		},
		Action: insert,
	}
}

func updateCommand() cli.Command {
	return cli.Command{
		Name:      "update",
		Usage:     "Continuously insert, update and delete records",
		ArgsUsage: "ip_list schema_file",
		Flags: []cli.Flag{
			cli.IntFlag{Name: "r", Value: 1000, Usage: "Record size in `BYTES`"},
			cli.Int64Flag{Name: "s", Value: 1, Usage: "Starting record number, the first key never inserted yet"},
			cli.StringFlag{Name: "t", Value: defaultTarget, Usage: "Target table in keyspace.table format"},
			cli.IntFlag{Name: "i", Value: 70, Usage: "Insert percentage"},
			cli.IntFlag{Name: "b", Value: 1, Usage: "Batch size"},
			cli.IntFlag{Name: "d", Value: 1000, Usage: "Delay between batches in `MILLISECONDS`"},
			cli.IntFlag{Name: "c", Value: -1, Usage: "Number of batches to execute, negative runs until interrupted"},
			cli.IntFlag{Name: "replication", Value: bootstrap.DefaultReplicationFactor, Usage: "Keyspace replication factor"},
			cli.StringFlag{Name: "bytes-per-hour", Value: "", Usage: "Target write `RATE` like 10GB, overrides -b and -d"},
			cli.BoolFlag{Name: "resume", Usage: "Continue at the frontier stored by a previous run"},
		},
		Action: update,
	}
}

func describeCommand() cli.Command {
	return cli.Command{
		Name:      "describe",
		Usage:     "Print the resolved table schema as JSON",
		ArgsUsage: "ip_list schema_file",
		Flags: []cli.Flag{
			cli.StringFlag{Name: "t", Value: defaultTarget, Usage: "Table in keyspace.table format"},
		},
		Action: describe,
	}
}

func filterCommand() cli.Command {
	return cli.Command{
		Name:      "filter",
		Usage:     "Extract a table and the types it depends on from a DESCRIBE dump given as schema_file",
		ArgsUsage: "ip_list schema_file",
		Flags: []cli.Flag{
			cli.StringFlag{Name: "t", Value: defaultTarget, Usage: "Table in keyspace.table format"},
		},
		Action: filter,
	}
}

func insert(
	ctx *cli.Context,
) error {

	r, err := newRunner(ctx)
	if err != nil {
		return err
	}
	defer r.close()

	size, err := recordSize(ctx, r.config)
	if err != nil {
		return err
	}

	shards, shard := ctx.Int("shards"), ctx.Int("shard")
	if shard < 0 || shard >= shards {
		return usageError("shard must be within [0, %d), got %d", shards, shard)
	}
	ranges, err := planning.SplitRange(ctx.Int64("s"), ctx.Int64("n"), shards)
	if err != nil {
		return supporting.AdaptError(err, supporting.ExitCodeUsage)
	}
	share := ranges[shard]

	fixedUUID := ctx.String("u")
	if fixedUUID != "" {
		if _, err := uuid.ParseUUID(fixedUUID); err != nil {
			return usageError("invalid uuid '%s': %s", fixedUUID, err.Error())
		}
	}

	batchSize := ctx.Int("batch-size")
	if batchSize <= 0 {
		batchSize = spiconfig.GetOrDefault(r.config, spiconfig.PropertyWorkloadBatchSize, workload.DefaultBatchSize)
	}

	runCtx, stop := signalContext()
	defer stop()

	if err := r.connect(runCtx); err != nil {
		return err
	}
	table, err := r.prepareTable(runCtx, r.replicationFactor(ctx))
	if err != nil {
		return err
	}

	name := table.CanonicalName()
	driver, builder, err := r.newDriver(runCtx, table, fixedUUID, func(report workload.BatchReport) {
		done := min(share.Count, int64(report.Batch)*int64(batchSize))
		r.logger.Infof("Inserting %s %8d / %8d (%3d %%)", name, done, share.Count, percent(done, share.Count))
	})
	if err != nil {
		return err
	}
	warnBelowMinimumSize(r, builder, share.Start, size)

	if shards > 1 {
		r.logger.Infof("Inserting share %d of %d: records %d to %d", shard, shards, share.Start, share.End())
	}

	summary, err := driver.BulkInsert(runCtx, workload.BulkOptions{
		Start:      share.Start,
		Count:      share.Count,
		RecordSize: size,
		BatchSize:  batchSize,
	})
	return r.finish(summary, err)
}

func update(
	ctx *cli.Context,
) error {

	r, err := newRunner(ctx)
	if err != nil {
		return err
	}
	defer r.close()

	size, err := recordSize(ctx, r.config)
	if err != nil {
		return err
	}

	frontier := ctx.Int64("s")
	if frontier < 0 {
		return usageError("starting record must not be negative, got %d", frontier)
	}
	insertPercentage := ctx.Int("i")
	if insertPercentage < 0 || insertPercentage > 100 {
		return usageError("insert percentage must be within [0, 100], got %d", insertPercentage)
	}
	batchSize := ctx.Int("b")
	if batchSize <= 0 {
		return usageError("batch size must be positive, got %d", batchSize)
	}
	if ctx.Int("d") < 0 {
		return usageError("delay must not be negative, got %d", ctx.Int("d"))
	}
	delay := time.Duration(ctx.Int("d")) * time.Millisecond

	if rate := ctx.String("bytes-per-hour"); rate != "" {
		bytesPerHour, err := bytesize.Parse(rate)
		if err != nil {
			return usageError("invalid byte rate '%s': %s", rate, err.Error())
		}
		plan, err := planning.NewDeltaPlan(bytesPerHour, size)
		if err != nil {
			return supporting.AdaptError(err, supporting.ExitCodeUsage)
		}
		batchSize, delay = plan.BatchSize, plan.Delay
		r.logger.Infof("Writing %s per hour as %d records per hour, %d batches of %d records every %s",
			bytesPerHour, plan.RecordsPerHour(), plan.BatchesPerInterval, plan.BatchSize, planning.Interval)
	}

	runCtx, stop := signalContext()
	defer stop()

	if err := r.connect(runCtx); err != nil {
		return err
	}
	table, err := r.prepareTable(runCtx, r.replicationFactor(ctx))
	if err != nil {
		return err
	}

	if ctx.Bool("resume") {
		progress, present, err := statestorage.Lookup(r.services.StateStorage, table.CanonicalName())
		if err != nil {
			return supporting.AdaptErrorWithMessage(
				err, "Stored progress couldn't be read", supporting.ExitCodeConfiguration,
			)
		}
		if present {
			r.logger.Infof("Resuming %s at frontier %d (%d batches, %d records so far)",
				table.CanonicalName(), progress.Frontier, progress.Batches, progress.Records)
			frontier = progress.Frontier
		} else {
			r.logger.Warnf("No stored progress for %s, starting at frontier %d", table.CanonicalName(), frontier)
		}
	}

	driver, _, err := r.newDriver(runCtx, table, "", func(report workload.BatchReport) {
		if report.Outcome.Kind != workload.Ok {
			return
		}
		r.logger.Infof("Batch %d: %d inserted, %d updated, %d deleted, %d incremented, frontier %d (%s)",
			report.Batch, report.Counts[statements.InsertStatement], report.Counts[statements.UpdateStatement],
			report.Counts[statements.DeleteStatement], report.Counts[statements.IncrementStatement],
			report.Frontier, report.Duration)
	})
	if err != nil {
		return err
	}

	summary, err := driver.ContinuousUpdate(runCtx, workload.ContinuousOptions{
		Frontier:         frontier,
		RecordSize:       size,
		InsertPercentage: insertPercentage,
		BatchSize:        batchSize,
		Delay:            delay,
		BatchCount:       ctx.Int("c"),
	})
	return r.finish(summary, err)
}

func describe(
	ctx *cli.Context,
) error {

	r, err := newRunner(ctx)
	if err != nil {
		return err
	}
	defer r.close()

	runCtx, stop := signalContext()
	defer stop()

	if err := r.connect(runCtx); err != nil {
		return err
	}
	table, err := r.buildTable(runCtx)
	if err != nil {
		return err
	}

	content, err := encoding.NewJsonEncoder(false).MarshalIndent(table.Describe())
	if err != nil {
		return err
	}
	fmt.Fprintln(ctx.App.Writer, string(content))
	return nil
}

// filter works on the schema file only, it never connects
func filter(
	ctx *cli.Context,
) error {

	t, err := parseTarget(ctx)
	if err != nil {
		return err
	}

	dump, err := os.ReadFile(t.schemaFile)
	if err != nil {
		return supporting.AdaptErrorWithMessage(err, "Schema file couldn't be read", supporting.ExitCodeSchema)
	}

	schema := bootstrap.FilterSchema(string(dump), t.keyspace, t.table)
	if !strings.Contains(strings.ToUpper(schema), "CREATE TABLE") {
		return cli.NewExitError(
			fmt.Sprintf("Table %s not found in %s", t.canonicalName(), t.schemaFile), supporting.ExitCodeSchema,
		)
	}
	fmt.Fprint(ctx.App.Writer, schema)
	return nil
}

func warnBelowMinimumSize(
	r *runner, builder *statements.Builder, key int64, size int,
) {

	minimum, err := builder.MinimumRecordSize(key)
	if err != nil {
		r.logger.Warnf("Minimum record size couldn't be computed: %s", err.Error())
		return
	}
	if size < minimum {
		r.logger.Warnf("Record size %d is below the minimum of %d bytes for %s, records will be larger",
			size, minimum, builder.Table().CanonicalName())
	}
}

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
	"context"
	"fmt"
	"github.com/go-errors/errors"
	"github.com/inhies/go-bytesize"
	"github.com/noctarius/cql-workload/internal/bootstrap"
	"github.com/noctarius/cql-workload/internal/statements"
	"github.com/noctarius/cql-workload/internal/supporting"
	"github.com/noctarius/cql-workload/internal/supporting/logging"
	"github.com/noctarius/cql-workload/internal/systemcatalog"
	"github.com/noctarius/cql-workload/internal/valuegen"
	"github.com/noctarius/cql-workload/internal/wiring"
	"github.com/noctarius/cql-workload/internal/workload"
	spiconfig "github.com/noctarius/cql-workload/spi/config"
	spicatalog "github.com/noctarius/cql-workload/spi/systemcatalog"
	"github.com/samber/lo"
	"github.com/urfave/cli"
	"golang.org/x/exp/rand"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

const configurationEnvVariable = "CQL_WORKLOAD_CONFIG"

// target is the positional part of the command line plus the table
// a command works on
type target struct {
	hosts      []string
	schemaFile string
	keyspace   string
	table      string
}

func (t *target) canonicalName() string {
	return t.keyspace + "." + t.table
}

func parseTarget(
	ctx *cli.Context,
) (*target, error) {

	args := ctx.Args()
	if len(args) != 2 {
		return nil, usageError("expected ip_list and schema_file, got %d argument(s)", len(args))
	}

	hosts := lo.Filter(
		lo.Map(strings.Split(args[0], ","), func(host string, _ int) string {
			return strings.TrimSpace(host)
		}),
		func(host string, _ int) bool {
			return host != ""
		},
	)
	if len(hosts) == 0 {
		return nil, usageError("ip_list must contain at least one host")
	}

	schemaFile := args[1]
	if info, err := os.Stat(schemaFile); err != nil || info.IsDir() {
		return nil, usageError("schema file '%s' doesn't exist", schemaFile)
	}

	keyspace, table := supporting.SplitQualifiedName(ctx.String("t"))
	if keyspace == "" || table == "" {
		return nil, usageError("target '%s' isn't in keyspace.table format", ctx.String("t"))
	}

	return &target{
		hosts:      hosts,
		schemaFile: schemaFile,
		keyspace:   keyspace,
		table:      table,
	}, nil
}

func loadConfig(
	t *target,
) (*spiconfig.Config, error) {

	config := &spiconfig.Config{}

	// No configuration file set? Try env variable!
	if configurationFile == "" {
		if cf, present := os.LookupEnv(configurationEnvVariable); present {
			fmt.Fprintf(os.Stderr, "Using configuration file from environment variable\n")
			configurationFile = cf
		}
	}

	if configurationFile != "" {
		f, err := os.Open(configurationFile)
		if err != nil {
			return nil, supporting.AdaptErrorWithMessage(
				err, "Configuration file couldn't be opened", supporting.ExitCodeConfiguration,
			)
		}
		defer f.Close()

		b, err := io.ReadAll(f)
		if err != nil {
			return nil, supporting.AdaptErrorWithMessage(
				err, "Configuration file couldn't be read", supporting.ExitCodeConfiguration,
			)
		}

		tomlConfig := filepath.Ext(strings.ToLower(configurationFile)) == ".toml"
		if err := spiconfig.Unmarshall(b, config, tomlConfig); err != nil {
			return nil, supporting.AdaptErrorWithMessage(
				err, "Configuration file couldn't be decoded", supporting.ExitCodeConfiguration,
			)
		}
	}

	// command line arguments win over the configuration file
	if t != nil {
		config.Cassandra.Hosts = t.hosts
	}
	if databaseUser != "" {
		config.Cassandra.User = databaseUser
		config.Cassandra.Password = databasePassword
	}
	if datacenter != "" {
		config.Cassandra.Datacenter = datacenter
	}
	return config, nil
}

// recordSize returns the -r flag, the configured record size (plain
// bytes or a size like 2KB) or the flag's default, in that order
func recordSize(
	ctx *cli.Context, config *spiconfig.Config,
) (int, error) {

	size := ctx.Int("r")
	if !ctx.IsSet("r") {
		if configured := spiconfig.GetOrDefault(config, spiconfig.PropertyWorkloadRecordSize, ""); configured != "" {
			parsed, err := parseSize(configured)
			if err != nil {
				return 0, cli.NewExitError(
					fmt.Sprintf("Invalid record size '%s': %s", configured, err.Error()),
					supporting.ExitCodeConfiguration,
				)
			}
			size = parsed
		}
	}
	if size <= 0 {
		return 0, usageError("record size must be positive, got %d", size)
	}
	return size, nil
}

func parseSize(
	value string,
) (int, error) {

	if size, err := strconv.Atoi(value); err == nil {
		return size, nil
	}
	size, err := bytesize.Parse(value)
	if err != nil {
		return 0, err
	}
	return int(size), nil
}

func usageError(
	format string, args ...any,
) *cli.ExitError {

	return cli.NewExitError(fmt.Sprintf(format, args...), supporting.ExitCodeUsage)
}

// runner holds the services of a single command invocation
type runner struct {
	target   *target
	config   *spiconfig.Config
	services *wiring.Services
	logger   *logging.Logger
}

func newRunner(
	ctx *cli.Context,
) (*runner, error) {

	t, err := parseTarget(ctx)
	if err != nil {
		return nil, err
	}

	config, err := loadConfig(t)
	if err != nil {
		return nil, err
	}

	logging.WithCaller = withCaller
	logging.WithVerbose = verbose
	if err := logging.InitializeLogging(config, logToStdErr); err != nil {
		return nil, supporting.AdaptErrorWithMessage(
			err, "Logging couldn't be initialized", supporting.ExitCodeConfiguration,
		)
	}

	logger, err := logging.NewLogger("Workload")
	if err != nil {
		return nil, err
	}

	return &runner{
		target: t,
		config: config,
		logger: logger,
	}, nil
}

// connect creates and starts the services and opens the cluster session
func (r *runner) connect(
	ctx context.Context,
) error {

	services, err := wiring.Resolve(wiring.NewInjector(r.config))
	if err != nil {
		return supporting.AdaptErrorWithMessage(
			err, "Services couldn't be created", supporting.ExitCodeConfiguration,
		)
	}
	r.services = services

	if err := services.Start(); err != nil {
		return supporting.AdaptErrorWithMessage(
			err, "Services couldn't be started", supporting.ExitCodeConfiguration,
		)
	}

	r.logger.Infof("Connecting to %s", strings.Join(r.target.hosts, ", "))
	if err := services.Session.Connect(ctx); err != nil {
		return supporting.AdaptErrorWithMessage(
			err, "Cannot connect to cassandra cluster", supporting.ExitCodeConnect,
		)
	}
	return nil
}

func (r *runner) close() {
	if r.services != nil {
		if err := r.services.Stop(); err != nil {
			r.logger.Warnf("Services didn't stop cleanly: %s", err.Error())
		}
	}
	logging.Flush()
}

func (r *runner) replicationFactor(
	ctx *cli.Context,
) int {

	if ctx.IsSet("replication") {
		return ctx.Int("replication")
	}
	return spiconfig.GetOrDefault(
		r.config, spiconfig.PropertyCassandraReplicationRF, bootstrap.DefaultReplicationFactor,
	)
}

// prepareTable creates keyspace, types and table when missing and reads
// the table schema back from the cluster
func (r *runner) prepareTable(
	ctx context.Context, replicationFactor int,
) (*spicatalog.Table, error) {

	strategy := spiconfig.GetOrDefault(
		r.config, spiconfig.PropertyCassandraReplication, spiconfig.AutomaticStrategy,
	)

	bootstrapper, err := bootstrap.NewBootstrapper(
		r.services.Session, r.services.Session.Datacenter(), bootstrap.Options{
			Strategy:          strategy,
			ReplicationFactor: replicationFactor,
		},
	)
	if err != nil {
		return nil, err
	}

	if err := bootstrapper.Bootstrap(ctx, r.target.keyspace, r.target.table, r.target.schemaFile); err != nil {
		return nil, supporting.AdaptErrorWithMessage(
			err, fmt.Sprintf("Table %s couldn't be created", r.target.canonicalName()), supporting.ExitCodeSchema,
		)
	}
	return r.buildTable(ctx)
}

func (r *runner) buildTable(
	ctx context.Context,
) (*spicatalog.Table, error) {

	table, err := systemcatalog.Build(ctx, r.services.Session, r.target.keyspace, r.target.table)
	if err != nil {
		return nil, supporting.AdaptErrorWithMessage(
			err, fmt.Sprintf("Schema of %s couldn't be read", r.target.canonicalName()), supporting.ExitCodeSchema,
		)
	}
	return table, nil
}

func (r *runner) random() *rand.Rand {
	seed := uint64(time.Now().UnixNano())
	if r.config.Workload.Seed != nil {
		seed = *r.config.Workload.Seed
	}
	r.logger.Infof("Using random seed %d", seed)
	return rand.New(rand.NewSource(seed))
}

// newDriver assembles value generator, statement builder and workload
// driver for the table and connects the driver
func (r *runner) newDriver(
	ctx context.Context, table *spicatalog.Table, fixedUUID string, onBatch func(report workload.BatchReport),
) (*workload.Driver, *statements.Builder, error) {

	random := r.random()
	generator, err := valuegen.NewGenerator(random, fixedUUID)
	if err != nil {
		return nil, nil, supporting.AdaptError(err, supporting.ExitCodeUsage)
	}
	builder := statements.NewBuilder(table, generator, statements.DefaultOptions())

	options := workload.Options{
		Cooldown:     spiconfig.GetOrDefault(r.config, spiconfig.PropertyWorkloadCooldown, workload.DefaultCooldown),
		Random:       random,
		OnBatch:      onBatch,
		Stats:        r.services.Stats.NewReporter("workload"),
		StateStorage: r.services.StateStorage,
	}
	if r.services.Journal != nil {
		options.Journal = r.services.Journal
	}

	driver, err := workload.NewDriver(r.services.Session, builder, options)
	if err != nil {
		return nil, nil, err
	}
	if err := driver.Connect(ctx); err != nil {
		return nil, nil, supporting.AdaptErrorWithMessage(
			err, "Cannot connect to cassandra cluster", supporting.ExitCodeConnect,
		)
	}
	return driver, builder, nil
}

// finish logs the summary and maps the workload error to its exit code.
// An interrupted workload is a clean exit.
func (r *runner) finish(
	summary workload.Summary, err error,
) error {

	if err != nil && errors.Is(err, context.Canceled) {
		r.logger.Infof("Workload interrupted")
		err = nil
	}

	r.logger.Infof(
		"Executed %d batches (%d failed): %d inserted, %d updated, %d deleted, %d incremented, %s generated",
		summary.Batches, summary.FailedBatches, summary.Inserted, summary.Updated,
		summary.Deleted, summary.Incremented, bytesize.New(float64(summary.Bytes)),
	)

	if err != nil {
		return supporting.AdaptErrorWithMessage(err, "Workload failed", supporting.ExitCodeWorkload)
	}
	return nil
}

func percent(
	done, total int64,
) int64 {

	if total == 0 {
		return 100
	}
	return done * 100 / total
}

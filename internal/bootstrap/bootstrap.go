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
	"context"
	"fmt"
	"github.com/cenkalti/backoff/v4"
	"github.com/go-errors/errors"
	"github.com/noctarius/cql-workload/internal/supporting/logging"
	"github.com/noctarius/cql-workload/spi/config"
	"github.com/noctarius/cql-workload/spi/cqltypes"
	"github.com/noctarius/cql-workload/spi/session"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

const DefaultReplicationFactor = 3

var createTableHeaderRegex = regexp.MustCompile(`(?is)^\s*CREATE\s+TABLE\s+(IF\s+NOT\s+EXISTS\s+)?[^\s(]+\s*`)

type Options struct {
	Strategy          config.ReplicationStrategy
	ReplicationFactor int
	// RetryLadder overrides DefaultRetryLadder
	RetryLadder []time.Duration
}

// Bootstrapper creates the keyspace, the user defined types and the table
// a workload runs against, all of them only if they don't exist yet.
type Bootstrapper struct {
	executor   session.Executor
	datacenter string
	options    Options
	logger     *logging.Logger
}

func NewBootstrapper(
	executor session.Executor, datacenter string, options Options,
) (*Bootstrapper, error) {

	logger, err := logging.NewLogger("Bootstrapper")
	if err != nil {
		return nil, err
	}

	if options.Strategy == "" {
		options.Strategy = config.AutomaticStrategy
	}
	if options.ReplicationFactor <= 0 {
		options.ReplicationFactor = DefaultReplicationFactor
	}
	if options.RetryLadder == nil {
		options.RetryLadder = DefaultRetryLadder
	}

	return &Bootstrapper{
		executor:   executor,
		datacenter: datacenter,
		options:    options,
		logger:     logger,
	}, nil
}

// Bootstrap creates keyspace.table from the schema file. Types referenced
// by the table are read from <type>.udt files next to the schema file.
func (b *Bootstrapper) Bootstrap(
	ctx context.Context, keyspace, table, schemaFile string,
) error {

	schema, err := os.ReadFile(schemaFile)
	if err != nil {
		return errors.Wrap(err, 0)
	}

	if err := b.CreateKeyspace(ctx, keyspace); err != nil {
		return err
	}
	if err := b.CreateTypes(ctx, keyspace, string(schema), filepath.Dir(schemaFile)); err != nil {
		return err
	}
	return b.CreateTable(ctx, keyspace, table, string(schema))
}

func (b *Bootstrapper) CreateKeyspace(
	ctx context.Context, keyspace string,
) error {

	statement, err := KeyspaceStatement(keyspace, b.options.Strategy, b.datacenter, b.options.ReplicationFactor)
	if err != nil {
		return err
	}
	return b.execute(ctx, statement)
}

// CreateTypes creates every user defined type the schema references,
// types used by other types are created first
func (b *Bootstrapper) CreateTypes(
	ctx context.Context, keyspace, schema, directory string,
) error {

	created := make(map[string]bool)
	visiting := make(map[string]bool)

	var create func(name string) error
	create = func(name string) error {
		if created[name] {
			return nil
		}
		if visiting[name] {
			return errors.Errorf("user defined type %s references itself", name)
		}
		visiting[name] = true
		defer delete(visiting, name)

		body, err := os.ReadFile(filepath.Join(directory, name+".udt"))
		if err != nil {
			if os.IsNotExist(err) {
				b.logger.Warnf("No definition file for type %s, expecting it to exist", name)
				created[name] = true
				return nil
			}
			return errors.Wrap(err, 0)
		}

		for _, dependency := range UDTNames(string(body)) {
			if err := create(dependency); err != nil {
				return err
			}
		}

		statement := fmt.Sprintf("CREATE TYPE IF NOT EXISTS %s %s",
			cqltypes.QualifiedName(keyspace, name), trimStatement(string(body)))
		if err := b.execute(ctx, statement); err != nil {
			return err
		}
		created[name] = true
		return nil
	}

	for _, name := range UDTNames(schema) {
		if err := create(name); err != nil {
			return err
		}
	}
	return nil
}

func (b *Bootstrapper) CreateTable(
	ctx context.Context, keyspace, table, schema string,
) error {

	body := trimStatement(createTableHeaderRegex.ReplaceAllString(schema, ""))
	if body == "" {
		return errors.Errorf("schema of %s.%s is empty", keyspace, table)
	}

	statement := fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s %s", cqltypes.QualifiedName(keyspace, table), body)
	return b.execute(ctx, statement)
}

func (b *Bootstrapper) execute(
	ctx context.Context, statement string,
) error {

	operation := func() error {
		b.logger.Debugf("Executing: %s", statement)
		_, err := b.executor.Execute(ctx, statement)
		if err != nil && ctx.Err() != nil {
			return backoff.Permanent(ctx.Err())
		}
		return err
	}

	notify := func(err error, delay time.Duration) {
		b.logger.Warnf("Statement failed, retrying in %s: %s", delay, err.Error())
	}

	policy := backoff.WithContext(newLadderBackOff(b.options.RetryLadder), ctx)
	if err := backoff.RetryNotify(operation, policy, notify); err != nil {
		return errors.WrapPrefix(err, "failed executing schema statement", 0)
	}
	return nil
}

// KeyspaceStatement renders the CREATE KEYSPACE statement. The automatic
// strategy picks NetworkTopologyStrategy when the datacenter is known.
func KeyspaceStatement(
	keyspace string, strategy config.ReplicationStrategy, datacenter string, replicationFactor int,
) (string, error) {

	if strategy == config.AutomaticStrategy || strategy == "" {
		strategy = config.SimpleStrategy
		if datacenter != "" {
			strategy = config.NetworkTopologyStrategy
		}
	}

	name := cqltypes.QuoteIdentifier(keyspace)
	switch strategy {
	case config.SimpleStrategy:
		return fmt.Sprintf(
			"CREATE KEYSPACE IF NOT EXISTS %s WITH REPLICATION = { 'class' : 'SimpleStrategy', 'replication_factor' : %d }",
			name, replicationFactor,
		), nil
	case config.NetworkTopologyStrategy:
		if datacenter == "" {
			return "", errors.Errorf("NetworkTopologyStrategy requires a datacenter")
		}
		return fmt.Sprintf(
			"CREATE KEYSPACE IF NOT EXISTS %s WITH REPLICATION = { 'class' : 'NetworkTopologyStrategy', '%s' : %d }",
			name, strings.ReplaceAll(datacenter, "'", "''"), replicationFactor,
		), nil
	}
	return "", errors.Errorf("unknown replication strategy '%s'", strategy)
}

func trimStatement(
	statement string,
) string {

	return strings.TrimSpace(strings.TrimRight(strings.TrimSpace(statement), ";"))
}

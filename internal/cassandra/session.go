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

package cassandra

import (
	"context"
	"fmt"
	"github.com/go-errors/errors"
	"github.com/gocql/gocql"
	"github.com/noctarius/cql-workload/internal/supporting/logging"
	"github.com/noctarius/cql-workload/spi/config"
	"github.com/noctarius/cql-workload/spi/session"
	"github.com/noctarius/cql-workload/spi/version"
	"sync"
	"time"
)

var ErrNotConnected = errors.Errorf("session isn't connected")

var defaultHealthCommand = []string{"nodetool", "status"}

// Session is the gocql backed cluster session
type Session struct {
	cluster       *gocql.ClusterConfig
	healthCommand []string
	datacenter    string
	version       version.CassandraVersion
	mutex         sync.Mutex
	session       *gocql.Session
	logger        *logging.Logger
}

func NewSession(
	c *config.Config,
) (*Session, error) {

	logger, err := logging.NewLogger("CassandraSession")
	if err != nil {
		return nil, err
	}

	cluster, err := newClusterConfig(c)
	if err != nil {
		return nil, err
	}

	return &Session{
		cluster:       cluster,
		healthCommand: config.GetOrDefault(c, config.PropertyCassandraHealthCommand, defaultHealthCommand),
		datacenter:    config.GetOrDefault(c, config.PropertyCassandraDatacenter, ""),
		logger:        logger,
	}, nil
}

func newClusterConfig(
	c *config.Config,
) (*gocql.ClusterConfig, error) {

	hosts := config.GetOrDefault(c, config.PropertyCassandraHosts, []string{"127.0.0.1"})
	if len(hosts) == 0 {
		return nil, errors.Errorf("no cassandra hosts configured")
	}

	consistencyName := config.GetOrDefault(c, config.PropertyCassandraConsistency, "QUORUM")
	consistency, err := gocql.ParseConsistencyWrapper(consistencyName)
	if err != nil {
		return nil, errors.Errorf("invalid consistency level '%s'", consistencyName)
	}

	cluster := gocql.NewCluster(hosts...)
	cluster.Consistency = consistency
	cluster.ProtoVersion = config.GetOrDefault(c, config.PropertyCassandraProtocolVersion, 4)
	cluster.Timeout = config.GetOrDefault(c, config.PropertyCassandraTimeout, 10*time.Second)
	cluster.ConnectTimeout = cluster.Timeout

	user := config.GetOrDefault(c, config.PropertyCassandraUser, "")
	if user != "" {
		cluster.Authenticator = gocql.PasswordAuthenticator{
			Username: user,
			Password: config.GetOrDefault(c, config.PropertyCassandraPassword, ""),
		}
	}

	if datacenter := config.GetOrDefault(c, config.PropertyCassandraDatacenter, ""); datacenter != "" {
		cluster.PoolConfig.HostSelectionPolicy = gocql.TokenAwareHostPolicy(
			gocql.DCAwareRoundRobinPolicy(datacenter),
		)
	}
	return cluster, nil
}

// Connect opens the underlying gocql session, subsequent calls are no-ops
func (s *Session) Connect(
	_ context.Context,
) error {

	s.mutex.Lock()
	defer s.mutex.Unlock()

	if s.session != nil {
		return nil
	}

	s.logger.Infof("Connecting to %v", s.cluster.Hosts)
	gocqlSession, err := s.cluster.CreateSession()
	if err != nil {
		return errors.Wrap(err, 0)
	}
	s.session = gocqlSession

	var datacenter, releaseVersion string
	if err := gocqlSession.Query("SELECT data_center, release_version FROM system.local").
		Scan(&datacenter, &releaseVersion); err != nil {

		s.logger.Warnf("Failed to read local node information: %s", err.Error())
		return nil
	}

	if s.datacenter == "" {
		s.datacenter = datacenter
	}
	if v, err := version.ParseCassandraVersion(releaseVersion); err == nil {
		s.version = v
	}
	s.logger.Infof("Connected to Cassandra %s, local datacenter is '%s'", releaseVersion, s.datacenter)
	return nil
}

// Version returns the release version of the connected node, zero if
// it couldn't be read
func (s *Session) Version() version.CassandraVersion {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.version
}

func (s *Session) Disconnect() {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if s.session != nil {
		s.session.Close()
		s.session = nil
	}
}

func (s *Session) Datacenter() string {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.datacenter
}

func (s *Session) Execute(
	ctx context.Context, statement string,
) ([]session.Row, error) {

	return s.query(ctx, statement)
}

func (s *Session) ExecuteBatch(
	ctx context.Context, kind session.BatchKind, statements []string,
) error {

	gocqlSession, err := s.current()
	if err != nil {
		return err
	}

	batchType := gocql.LoggedBatch
	if kind == session.CounterBatch {
		batchType = gocql.CounterBatch
	}

	batch := gocqlSession.NewBatch(batchType).WithContext(ctx)
	for _, statement := range statements {
		batch.Query(statement)
	}

	if err := gocqlSession.ExecuteBatch(batch); err != nil {
		return errors.Wrap(err, 0)
	}
	return nil
}

func (s *Session) query(
	ctx context.Context, statement string, values ...any,
) ([]session.Row, error) {

	gocqlSession, err := s.current()
	if err != nil {
		return nil, err
	}

	s.logger.Tracef("Executing: %s", statement)
	rows, err := gocqlSession.Query(statement, values...).WithContext(ctx).Iter().SliceMap()
	if err != nil {
		return nil, errors.WrapPrefix(err, fmt.Sprintf("query '%s' failed", statement), 0)
	}
	return rows, nil
}

func (s *Session) current() (*gocql.Session, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if s.session == nil {
		return nil, ErrNotConnected
	}
	return s.session, nil
}

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

package wiring

import (
	"github.com/noctarius/cql-workload/internal/cassandra"
	"github.com/noctarius/cql-workload/internal/journal"
	_ "github.com/noctarius/cql-workload/internal/journal/sinks/awskinesis"
	_ "github.com/noctarius/cql-workload/internal/journal/sinks/awssqs"
	_ "github.com/noctarius/cql-workload/internal/journal/sinks/kafka"
	_ "github.com/noctarius/cql-workload/internal/journal/sinks/nats"
	_ "github.com/noctarius/cql-workload/internal/journal/sinks/redis"
	_ "github.com/noctarius/cql-workload/internal/journal/sinks/stdout"
	"github.com/noctarius/cql-workload/internal/stats"
	"github.com/noctarius/cql-workload/internal/supporting/logging"
	"github.com/noctarius/cql-workload/spi/config"
	spijournal "github.com/noctarius/cql-workload/spi/journal"
	"github.com/noctarius/cql-workload/spi/session"
	"github.com/noctarius/cql-workload/spi/statestorage"
	"github.com/samber/do"
)

// NewInjector registers the providers of all services a workload run
// depends on. Providers are lazy, a service is only created when it is
// resolved for the first time.
func NewInjector(
	c *config.Config,
) *do.Injector {

	injector := do.New()

	do.ProvideValue(injector, c)

	do.Provide(injector, func(i *do.Injector) (session.Session, error) {
		return cassandra.NewSession(do.MustInvoke[*config.Config](i))
	})

	do.Provide(injector, func(i *do.Injector) (*stats.Service, error) {
		return stats.NewStatsService(do.MustInvoke[*config.Config](i))
	})

	do.Provide(injector, func(i *do.Injector) (statestorage.Storage, error) {
		c := do.MustInvoke[*config.Config](i)
		name := config.GetOrDefault(c, config.PropertyStateStorageType, config.NoneStorage)
		return statestorage.NewStateStorage(name, c)
	})

	do.Provide(injector, func(i *do.Injector) (spijournal.Sink, error) {
		c := do.MustInvoke[*config.Config](i)
		name := config.GetOrDefault(c, config.PropertyJournalType, config.Stdout)
		return spijournal.NewSink(name, c)
	})

	do.Provide(injector, func(i *do.Injector) (*journal.Journal, error) {
		sink, err := do.Invoke[spijournal.Sink](i)
		if err != nil {
			return nil, err
		}
		return journal.NewJournal(do.MustInvoke[*config.Config](i), sink)
	})

	return injector
}

// Services are the resolved services of a workload run
type Services struct {
	Config       *config.Config
	Session      session.Session
	Stats        *stats.Service
	StateStorage statestorage.Storage
	// Journal is nil if the journal is disabled
	Journal *journal.Journal
	logger  *logging.Logger
}

func Resolve(
	injector *do.Injector,
) (*Services, error) {

	logger, err := logging.NewLogger("Services")
	if err != nil {
		return nil, err
	}

	c, err := do.Invoke[*config.Config](injector)
	if err != nil {
		return nil, err
	}

	s, err := do.Invoke[session.Session](injector)
	if err != nil {
		return nil, err
	}

	statsService, err := do.Invoke[*stats.Service](injector)
	if err != nil {
		return nil, err
	}

	stateStorage, err := do.Invoke[statestorage.Storage](injector)
	if err != nil {
		return nil, err
	}

	var j *journal.Journal
	if config.GetOrDefault(c, config.PropertyJournalEnabled, false) {
		if j, err = do.Invoke[*journal.Journal](injector); err != nil {
			return nil, err
		}
	}

	return &Services{
		Config:       c,
		Session:      s,
		Stats:        statsService,
		StateStorage: stateStorage,
		Journal:      j,
		logger:       logger,
	}, nil
}

// Start starts the ambient services. The cluster session is connected
// by the workload driver.
func (s *Services) Start() error {
	if err := s.Stats.Start(); err != nil {
		return err
	}
	if err := s.StateStorage.Start(); err != nil {
		return err
	}
	if s.Journal != nil {
		if err := s.Journal.Start(); err != nil {
			return err
		}
	}
	return nil
}

// Stop stops all services in reverse order, errors are logged and the
// first one is returned
func (s *Services) Stop() error {
	var first error
	record := func(name string, err error) {
		if err == nil {
			return
		}
		s.logger.Errorf("Failed stopping %s: %s", name, err.Error())
		if first == nil {
			first = err
		}
	}

	if s.Journal != nil {
		record("journal", s.Journal.Stop())
	}
	record("state storage", s.StateStorage.Stop())
	record("stats service", s.Stats.Stop())
	s.Session.Disconnect()
	return first
}

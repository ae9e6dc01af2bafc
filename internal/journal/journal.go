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
	"context"
	"github.com/cenkalti/backoff/v4"
	"github.com/go-errors/errors"
	"github.com/noctarius/cql-workload/internal/journal/filtering"
	"github.com/noctarius/cql-workload/internal/supporting/logging"
	"github.com/noctarius/cql-workload/spi/config"
	"github.com/noctarius/cql-workload/spi/journal"
	"github.com/noctarius/cql-workload/spi/version"
	"time"
)

// DefaultPublishTimeout bounds the time one Publish call spends on retries.
const DefaultPublishTimeout = 30 * time.Second

// Journal publishes executed mutations to a sink. Each event is retried
// independently, failed events are reported but never abort the batch.
// Once the publish timeout passed, remaining events get a single attempt.
type Journal struct {
	sink           journal.Sink
	filter         filtering.Filter
	topicPrefix    string
	publishTimeout time.Duration
	newBackOff     func() backoff.BackOff
	logger         *logging.Logger
}

func NewJournal(
	c *config.Config, sink journal.Sink,
) (*Journal, error) {

	logger, err := logging.NewLogger("Journal")
	if err != nil {
		return nil, err
	}

	filter, err := filtering.NewFilter(c.Journal.Filters)
	if err != nil {
		return nil, err
	}

	retries := config.GetOrDefault(c, config.PropertyJournalRetries, 8)
	publishTimeout := config.GetOrDefault(c, config.PropertyJournalTimeout, DefaultPublishTimeout)
	if publishTimeout <= 0 {
		publishTimeout = DefaultPublishTimeout
	}

	return &Journal{
		sink:           sink,
		filter:         filter,
		topicPrefix:    config.GetOrDefault(c, config.PropertyJournalTopic, version.BinName),
		publishTimeout: publishTimeout,
		newBackOff: func() backoff.BackOff {
			exponential := backoff.NewExponentialBackOff()
			exponential.MaxElapsedTime = publishTimeout
			return backoff.WithMaxRetries(exponential, uint64(max(0, retries)))
		},
		logger: logger,
	}, nil
}

func (j *Journal) Start() error {
	return j.sink.Start()
}

func (j *Journal) Stop() error {
	return j.sink.Stop()
}

// TopicName returns the topic events of the given table are published to.
func (j *Journal) TopicName(
	keyspace, table string,
) string {

	return j.topicPrefix + "." + keyspace + "." + table
}

// Publish emits all accepted events and returns the number of events
// published. The error collects the events that failed after all retries.
func (j *Journal) Publish(
	events []journal.Event,
) (int, error) {

	ctx, cancel := context.WithTimeout(context.Background(), j.publishTimeout)
	defer cancel()

	published := 0
	failed := 0
	var lastErr error
	for _, event := range events {
		accepted, err := j.filter.Evaluate(event)
		if err != nil {
			failed++
			lastErr = err
			continue
		}
		if !accepted {
			continue
		}

		topicName := j.TopicName(event.Keyspace, event.Table)
		var emitErr error
		operation := func() error {
			j.logger.Tracef("Publishing event: %+v", event)
			emitErr = j.sink.Emit(time.Now(), topicName, event)
			return emitErr
		}

		if err := backoff.Retry(operation, backoff.WithContext(j.newBackOff(), ctx)); err != nil {
			failed++
			lastErr = err
			if emitErr != nil {
				lastErr = emitErr
			}
			continue
		}
		published++
	}

	if failed > 0 {
		return published, errors.Errorf(
			"failed to publish %d of %d journal events, last error: %s", failed, len(events), lastErr.Error(),
		)
	}
	return published, nil
}

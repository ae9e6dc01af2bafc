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
	"github.com/cenkalti/backoff/v4"
	"github.com/go-errors/errors"
	"github.com/noctarius/cql-workload/internal/supporting/logging"
	"github.com/noctarius/cql-workload/spi/session"
	"time"
)

const DefaultCooldown = 3 * time.Minute

// Sleeper suspends the workload for the given duration, it returns early
// with the context's error when the context is done
type Sleeper func(ctx context.Context, duration time.Duration) error

// HealthProbe returns the raw output of the node health check
type HealthProbe func(ctx context.Context) (string, error)

func SleepContext(
	ctx context.Context, duration time.Duration,
) error {

	if duration <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(duration)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// BackoffPolicy decides what happens after a failed batch. The cluster
// health is probed and logged, then the workload cools down before it
// continues with the next batch. Failed batches are never retried.
type BackoffPolicy struct {
	backOff backoff.BackOff
	probe   HealthProbe
	sleeper Sleeper
	logger  *logging.Logger
}

func NewBackoffPolicy(
	cooldown time.Duration, probe HealthProbe, sleeper Sleeper,
) (*BackoffPolicy, error) {

	logger, err := logging.NewLogger("BackoffPolicy")
	if err != nil {
		return nil, err
	}

	if cooldown < 0 {
		cooldown = DefaultCooldown
	}
	if sleeper == nil {
		sleeper = SleepContext
	}

	return &BackoffPolicy{
		backOff: backoff.NewConstantBackOff(cooldown),
		probe:   probe,
		sleeper: sleeper,
		logger:  logger,
	}, nil
}

// Recover handles the failure of a batch and returns the observed node
// status. The returned error is only non-nil if the cooldown was cut
// short by the context.
func (p *BackoffPolicy) Recover(
	ctx context.Context, failure error,
) (session.NodeStatus, error) {

	p.logger.Errorf("Batch execution failed: %s", failure.Error())

	status := p.probeHealth(ctx)
	switch status {
	case session.LocalNodeDown:
		p.logger.Errorf("Local node isn't reachable, it probably crashed")
	case session.PeerNodeDown:
		p.logger.Errorf("A peer node is reported down")
	case session.NodesUp:
		p.logger.Infof("All nodes are reported up")
	default:
		p.logger.Warnf("Node status couldn't be determined")
	}

	delay := p.backOff.NextBackOff()
	if delay == backoff.Stop {
		return status, errors.Errorf("no cooldown left after batch failure: %s", failure.Error())
	}

	p.logger.Infof("Cooling down for %s", delay)
	if err := p.sleeper(ctx, delay); err != nil {
		return status, err
	}
	return status, nil
}

func (p *BackoffPolicy) probeHealth(
	ctx context.Context,
) session.NodeStatus {

	if p.probe == nil {
		return session.StatusUnknown
	}

	output, err := p.probe(ctx)
	if err != nil {
		p.logger.Warnf("Node health probe failed: %s", err.Error())
	}
	p.logger.Verbosef("Node health probe output:\n%s", output)
	return session.ClassifyHealth(output)
}

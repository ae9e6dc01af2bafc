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

package stdout

import (
	"github.com/noctarius/cql-workload/internal/supporting/logging"
	"github.com/noctarius/cql-workload/spi/config"
	"github.com/noctarius/cql-workload/spi/encoding"
	"github.com/noctarius/cql-workload/spi/journal"
	"time"
)

func init() {
	journal.RegisterSink(config.Stdout, newStdoutSink)
}

type stdoutSink struct {
	encoder *encoding.JsonEncoder
	logger  *logging.Logger
}

func newStdoutSink(
	_ *config.Config,
) (journal.Sink, error) {

	logger, err := logging.NewLogger("StdoutSink")
	if err != nil {
		return nil, err
	}

	return &stdoutSink{
		encoder: encoding.NewJsonEncoder(false),
		logger:  logger,
	}, nil
}

func (s *stdoutSink) Start() error {
	return nil
}

func (s *stdoutSink) Stop() error {
	return nil
}

func (s *stdoutSink) Emit(
	_ time.Time, topicName string, event journal.Event,
) error {

	data, err := s.encoder.Marshal(event)
	if err != nil {
		return err
	}
	s.logger.Infof("===> /%s: \t%s", topicName, string(data))
	return nil
}

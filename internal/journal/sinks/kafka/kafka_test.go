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

package kafka

import (
	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	"github.com/go-errors/errors"
	"github.com/noctarius/cql-workload/spi/encoding"
	"github.com/noctarius/cql-workload/spi/journal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"testing"
	"time"
)

func Test_Kafka_Sink_Emit(
	t *testing.T,
) {

	producer := mocks.NewSyncProducer(t, mocks.NewTestConfig())
	producer.ExpectSendMessageWithMessageCheckerFunctionAndSucceed(func(msg *sarama.ProducerMessage) error {
		if msg.Topic != "cql-workload.ks1.users" {
			return errors.Errorf("unexpected topic %s", msg.Topic)
		}
		key, err := msg.Key.Encode()
		if err != nil {
			return err
		}
		if string(key) != "ks1.users:7" {
			return errors.Errorf("unexpected key %s", string(key))
		}
		value, err := msg.Value.Encode()
		if err != nil {
			return err
		}
		event := journal.Event{}
		if err := encoding.NewJsonDecoder().Unmarshal(value, &event); err != nil {
			return err
		}
		if event.Operation != journal.OpUpdate {
			return errors.Errorf("unexpected operation %s", event.Operation)
		}
		return nil
	})
	producer.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)

	sink := newKafkaSinkWithProducer(producer)
	require.NoError(t, sink.Start())

	event := journal.Event{Operation: journal.OpUpdate, Keyspace: "ks1", Table: "users", Key: 7}
	assert.NoError(t, sink.Emit(time.Now(), "cql-workload.ks1.users", event))
	assert.ErrorIs(t, sink.Emit(time.Now(), "cql-workload.ks1.users", event), sarama.ErrOutOfBrokers)
	assert.NoError(t, sink.Stop())
}

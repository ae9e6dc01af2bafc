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
	"github.com/noctarius/cql-workload/spi/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"testing"
	"time"
)

func Test_Event_Message_Key_And_Env(
	t *testing.T,
) {

	event := Event{
		Operation: OpDelete,
		Keyspace:  "ks1",
		Table:     "users",
		Key:       42,
		Batch:     3,
	}

	assert.Equal(t, "ks1.users:42", event.MessageKey())
	env := event.Env()
	assert.Equal(t, "delete", env["op"])
	assert.Equal(t, int64(42), env["key"])
	assert.Equal(t, uint64(3), env["batch"])
}

func Test_Sink_Registry(
	t *testing.T,
) {

	var emitted []Event
	sinkType := config.SinkType("test-registry")
	registered := RegisterSink(sinkType, func(_ *config.Config) (Sink, error) {
		return SinkFunc(func(_ time.Time, _ string, event Event) error {
			emitted = append(emitted, event)
			return nil
		}), nil
	})
	assert.True(t, registered)
	assert.False(t, RegisterSink(sinkType, nil))

	sink, err := NewSink(sinkType, &config.Config{})
	require.NoError(t, err)
	require.NoError(t, sink.Start())
	require.NoError(t, sink.Emit(time.Now(), "topic", Event{Key: 1}))
	require.NoError(t, sink.Stop())
	assert.Len(t, emitted, 1)

	_, err = NewSink(config.SinkType("missing"), &config.Config{})
	assert.ErrorContains(t, err, "doesn't exist")
}

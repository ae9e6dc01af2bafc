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

package config

import (
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"os"
	"reflect"
	"runtime"
	"testing"
	"time"
)

func Test_Env_Vars(
	t *testing.T,
) {

	os.Setenv("FOO_BAR", "foo")
	defer os.Unsetenv("FOO_BAR")

	os.Setenv("FOO_BAR__BAZ", "bar")
	defer os.Unsetenv("FOO_BAR__BAZ")

	// On Windows environment variables are case-insensitive, therefore,
	// this test will always fail if trying to use different casing versions
	if runtime.GOOS != "windows" {
		os.Setenv("foo_bar", "bar")
		defer os.Unsetenv("foo_bar")

		os.Setenv("foo_bar__baz", "foo")
		defer os.Unsetenv("foo_bar__baz")
	}

	v, found := findEnvProperty("foo.bar", "test")
	assert.Equal(t, true, found)
	assert.Equal(t, "foo", v)

	v, found = findEnvProperty("foo.bar_baz", "test")
	assert.Equal(t, true, found)
	assert.Equal(t, "bar", v)

	v, found = findEnvProperty("oof.bar", "test")
	assert.Equal(t, false, found)
	assert.Equal(t, "test", v)

	v, found = findEnvProperty("oof.bar_baz", "test")
	assert.Equal(t, false, found)
	assert.Equal(t, "test", v)
}

func Test_Property_Extraction(
	t *testing.T,
) {

	config := Config{
		Journal: JournalConfig{
			Type: Kafka,
			Kafka: KafkaConfig{
				Brokers: []string{"foo", "bar"},
			},
		},
	}

	value := reflect.ValueOf(config)
	v1, found := findProperty(value, "journal")
	assert.Equal(t, true, found)

	v2, found := findProperty(v1, "type")
	assert.Equal(t, true, found)
	assert.Equal(t, "kafka", string(v2.Interface().(SinkType)))

	v3, found := findProperty(v1, "kafka")
	assert.Equal(t, true, found)

	v4, found := findProperty(v3, "brokers")
	assert.Equal(t, true, found)
	assert.Equal(t, []string{"foo", "bar"}, v4.Interface().([]string))

	_, found = findProperty(v4, "nested")
	assert.Equal(t, false, found)
}

func Test_Config_Property_Reading(
	t *testing.T,
) {

	config := &Config{
		Cassandra: CassandraConfig{
			Hosts:   []string{"10.0.0.1", "10.0.0.2"},
			Timeout: time.Second * 5,
		},
		Journal: JournalConfig{
			Type: Kafka,
			Kafka: KafkaConfig{
				Brokers: []string{"foo", "bar"},
			},
		},
	}

	v1 := GetOrDefault(config, PropertyJournalType, "foo")
	assert.Equal(t, "kafka", v1)

	v2 := GetOrDefault(config, PropertyKafkaBrokers, []string{"baz"})
	assert.Equal(t, []string{"foo", "bar"}, v2)

	v3 := GetOrDefault(config, PropertyKafkaTlsEnabled, true)
	assert.Equal(t, true, v3)

	v4 := GetOrDefault(config, "journal.kafka.non.existent", true)
	assert.Equal(t, true, v4)

	v5 := GetOrDefault(config, PropertyCassandraTimeout, time.Second)
	assert.Equal(t, time.Second*5, v5)

	v6 := GetOrDefault(config, PropertyWorkloadCooldown, time.Minute*3)
	assert.Equal(t, time.Minute*3, v6)

	os.Setenv("JOURNAL_TYPE", "redis")
	defer os.Unsetenv("JOURNAL_TYPE")

	v7 := GetOrDefault(config, PropertyJournalType, "foo")
	assert.Equal(t, "redis", v7)
}

func Test_Config_Pointer_Property_Reading(
	t *testing.T,
) {

	queueUrl := "https://sqs.local/queue"
	config := &Config{
		Journal: JournalConfig{
			AwsSQS: AwsSQSConfig{
				Queue: AwsSQSQueueConfig{Url: &queueUrl},
			},
		},
		Stats: StatsConfig{
			Enabled: func() *bool { v := false; return &v }(),
		},
	}

	url := GetOrDefault[*string](config, PropertySqsQueueUrl, nil)
	require.NotNil(t, url)
	assert.Equal(t, queueUrl, *url)

	enabled := GetOrDefault(config, PropertyStatsEnabled, true)
	assert.Equal(t, false, enabled)
}

func Test_Unmarshall_Toml_And_Yaml(
	t *testing.T,
) {

	tomlContent := []byte(`
[cassandra]
hosts = ["10.0.0.1"]
datacenter = "dc1"

[workload]
batchsize = 50
`)

	yamlContent := []byte(`
cassandra:
  hosts: ["10.0.0.1"]
  datacenter: dc1
workload:
  batchsize: 50
`)

	for _, tc := range []struct {
		name    string
		content []byte
		toml    bool
	}{
		{"toml", tomlContent, true},
		{"yaml", yamlContent, false},
	} {
		t.Run(tc.name, func(t *testing.T) {
			config := &Config{}
			require.NoError(t, Unmarshall(tc.content, config, tc.toml))
			assert.Equal(t, []string{"10.0.0.1"}, config.Cassandra.Hosts)
			assert.Equal(t, "dc1", GetOrDefault(config, PropertyCassandraDatacenter, ""))
			assert.Equal(t, 50, GetOrDefault(config, PropertyWorkloadBatchSize, 100))
		})
	}
}

func Test_Unmarshall_Yaml_Uses_Property_Names(
	t *testing.T,
) {

	config := &Config{}
	require.NoError(t, Unmarshall([]byte(`
journal:
  type: sqs
  sqs:
    queue:
      url: https://sqs.eu-west-1.amazonaws.com/1/journal
statestorage:
  type: file
  file:
    path: /var/lib/cql-workload/progress.json
workload:
  cooldown: 90s
`), config, false))

	assert.Equal(t, "https://sqs.eu-west-1.amazonaws.com/1/journal", GetOrDefault(config, PropertySqsQueueUrl, ""))
	assert.Equal(t, "/var/lib/cql-workload/progress.json", GetOrDefault(config, PropertyFileStateStoragePath, ""))
	assert.Equal(t, 90*time.Second, GetOrDefault(config, PropertyWorkloadCooldown, time.Minute))
}

func Test_Unmarshall_Rejects_Unknown_Properties(
	t *testing.T,
) {

	err := Unmarshall([]byte("[cassandra]\nhostz = [\"10.0.0.1\"]\n"), &Config{}, true)
	assert.ErrorContains(t, err, "unknown configuration properties: cassandra.hostz")

	err = Unmarshall([]byte("cassandra:\n  hostz: [\"10.0.0.1\"]\n"), &Config{}, false)
	assert.ErrorContains(t, err, "cassandra.hostz")
}

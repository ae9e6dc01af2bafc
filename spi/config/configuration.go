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
	"crypto/tls"
	"github.com/IBM/sarama"
	"os"
	"reflect"
	"strings"
	"time"
)

type StateStorageType string

const (
	NoneStorage StateStorageType = "none"
	FileStorage StateStorageType = "file"
)

type SinkType string

const (
	Stdout     SinkType = "stdout"
	NATS       SinkType = "nats"
	Kafka      SinkType = "kafka"
	Redis      SinkType = "redis"
	AwsSQS     SinkType = "sqs"
	AwsKinesis SinkType = "kinesis"
)

type NatsAuthorizationType string

const (
	UserInfo    NatsAuthorizationType = "userinfo"
	Credentials NatsAuthorizationType = "credentials"
	Jwt         NatsAuthorizationType = "jwt"
)

type ReplicationStrategy string

const (
	AutomaticStrategy       ReplicationStrategy = "auto"
	SimpleStrategy          ReplicationStrategy = "simple"
	NetworkTopologyStrategy ReplicationStrategy = "networktopology"
)

type Config struct {
	Cassandra    CassandraConfig    `toml:"cassandra"`
	Workload     WorkloadConfig     `toml:"workload"`
	Journal      JournalConfig      `toml:"journal"`
	Logging      LoggerConfig       `toml:"logging"`
	StateStorage StateStorageConfig `toml:"statestorage"`
	Stats        StatsConfig        `toml:"stats"`
}

type CassandraConfig struct {
	Hosts           []string                   `toml:"hosts"`
	User            string                     `toml:"user"`
	Password        string                     `toml:"password"`
	Datacenter      string                     `toml:"datacenter"`
	Consistency     string                     `toml:"consistency"`
	ProtocolVersion int                        `toml:"protocolversion"`
	Timeout         time.Duration              `toml:"timeout"`
	Replication     CassandraReplicationConfig `toml:"replication"`
	Health          CassandraHealthConfig      `toml:"health"`
}

type CassandraReplicationConfig struct {
	Strategy ReplicationStrategy `toml:"strategy"`
	Factor   int                 `toml:"factor"`
}

type CassandraHealthConfig struct {
	Command []string `toml:"command"`
}

type WorkloadConfig struct {
	BatchSize  int           `toml:"batchsize"`
	Cooldown   time.Duration `toml:"cooldown"`
	RecordSize string        `toml:"recordsize"`
	Seed       *uint64       `toml:"seed"`
}

type JournalConfig struct {
	Enabled *bool                          `toml:"enabled"`
	Type    SinkType                       `toml:"type"`
	Topic   string                         `toml:"topic"`
	Filters map[string]JournalFilterConfig `toml:"filters"`
	Retries int                            `toml:"retries"`
	Timeout time.Duration                  `toml:"timeout"`
	Nats    NatsConfig                     `toml:"nats"`
	Kafka   KafkaConfig                    `toml:"kafka"`
	Redis   RedisConfig                    `toml:"redis"`
	AwsSQS  AwsSQSConfig                   `toml:"sqs"`
	Kinesis AwsKinesisConfig               `toml:"kinesis"`
}

type JournalFilterConfig struct {
	Tables       []string `toml:"tables"`
	DefaultValue *bool    `toml:"default"`
	Condition    string   `toml:"condition"`
}

type NatsUserInfoConfig struct {
	Username string `toml:"username"`
	Password string `toml:"password"`
}

type NatsCredentialsConfig struct {
	Certificate string   `toml:"certificate"`
	Seeds       []string `toml:"seeds"`
}

type NatsJWTConfig struct {
	JWT  string `toml:"jwt"`
	Seed string `toml:"seed"`
}

type NatsConfig struct {
	Address       string                `toml:"address"`
	Authorization NatsAuthorizationType `toml:"authorization"`
	UserInfo      NatsUserInfoConfig    `toml:"userinfo"`
	Credentials   NatsCredentialsConfig `toml:"credentials"`
	JWT           NatsJWTConfig         `toml:"jwt"`
}

type KafkaSaslConfig struct {
	Enabled   bool                 `toml:"enabled"`
	User      string               `toml:"user"`
	Password  string               `toml:"password"`
	Mechanism sarama.SASLMechanism `toml:"mechanism"`
}

type KafkaConfig struct {
	Brokers    []string        `toml:"brokers"`
	Idempotent bool            `toml:"idempotent"`
	Sasl       KafkaSaslConfig `toml:"sasl"`
	TLS        TLSConfig       `toml:"tls"`
}

type RedisConfig struct {
	Network  string             `toml:"network"`
	Address  string             `toml:"address"`
	Password string             `toml:"password"`
	Database int                `toml:"database"`
	Retries  RedisRetryConfig   `toml:"retries"`
	Timeouts RedisTimeoutConfig `toml:"timeouts"`
	PoolSize int                `toml:"poolsize"`
	TLS      TLSConfig          `toml:"tls"`
}

type RedisRetryConfig struct {
	MaxAttempts int                     `toml:"maxattempts"`
	Backoff     RedisRetryBackoffConfig `toml:"backoff"`
}

type RedisRetryBackoffConfig struct {
	Min int `toml:"min"`
	Max int `toml:"max"`
}

type RedisTimeoutConfig struct {
	Dial  int `toml:"dial"`
	Read  int `toml:"read"`
	Write int `toml:"write"`
	Pool  int `toml:"pool"`
	Idle  int `toml:"idle"`
}

type AwsConnectionConfig struct {
	Region          *string `toml:"region"`
	Endpoint        string  `toml:"endpoint"`
	AccessKeyId     string  `toml:"accesskeyid"`
	SecretAccessKey string  `toml:"secretaccesskey"`
	SessionToken    string  `toml:"sessiontoken"`
}

type AwsSQSConfig struct {
	Queue AwsSQSQueueConfig   `toml:"queue"`
	Aws   AwsConnectionConfig `toml:"aws"`
}

type AwsSQSQueueConfig struct {
	Url *string `toml:"url"`
}

type AwsKinesisConfig struct {
	Stream AwsKinesisStreamConfig `toml:"stream"`
	Aws    AwsConnectionConfig    `toml:"aws"`
}

type AwsKinesisStreamConfig struct {
	Name       *string `toml:"name"`
	Create     *bool   `toml:"create"`
	ShardCount *int64  `toml:"shardcount"`
	Mode       *string `toml:"mode"`
}

type TLSConfig struct {
	Enabled    bool               `toml:"enabled"`
	SkipVerify bool               `toml:"skipverify"`
	ClientAuth tls.ClientAuthType `toml:"clientauth"`
}

type StateStorageConfig struct {
	Type        StateStorageType  `toml:"type"`
	FileStorage FileStorageConfig `toml:"file"`
}

type FileStorageConfig struct {
	Path string `toml:"path"`
}

type StatsConfig struct {
	Enabled *bool  `toml:"enabled"`
	Address string `toml:"address"`
}

type LoggerConfig struct {
	Level   string                     `toml:"level"`
	Outputs LoggerOutputConfig         `toml:"outputs"`
	Loggers map[string]SubLoggerConfig `toml:"loggers"`
}

type LoggerOutputConfig struct {
	Console LoggerConsoleConfig `toml:"console"`
	File    LoggerFileConfig    `toml:"file"`
}

type SubLoggerConfig struct {
	Level   *string            `toml:"level"`
	Outputs LoggerOutputConfig `toml:"outputs"`
}

type LoggerConsoleConfig struct {
	Enabled *bool `toml:"enabled"`
}

type LoggerFileConfig struct {
	Enabled     *bool   `toml:"enabled"`
	Path        string  `toml:"path"`
	Rotate      *bool   `toml:"rotate"`
	MaxSize     *string `toml:"maxsize"`
	MaxDuration *int    `toml:"maxduration"`
	Compress    bool    `toml:"compress"`
}

func GetOrDefault[V any](
	config *Config, canonicalProperty string, defaultValue V,
) V {

	if env, found := findEnvProperty(canonicalProperty, defaultValue); found {
		return env
	}

	properties := strings.Split(canonicalProperty, ".")

	element := reflect.ValueOf(*config)
	for _, property := range properties {
		if e, ok := findProperty(element, property); ok {
			element = e
		} else {
			return defaultValue
		}
	}

	if !element.IsZero() &&
		!(element.Kind() == reflect.Ptr && element.IsNil()) {

		if element.Kind() == reflect.Ptr && reflect.TypeOf(defaultValue).Kind() != reflect.Ptr {
			element = element.Elem()
		}

		return element.Convert(reflect.TypeOf(defaultValue)).Interface().(V)
	}
	return defaultValue
}

func findEnvProperty[V any](
	canonicalProperty string, defaultValue V,
) (V, bool) {

	t := reflect.TypeOf(defaultValue)
	if t == nil {
		return defaultValue, false
	}

	envVarName := strings.ToUpper(canonicalProperty)
	envVarName = strings.ReplaceAll(envVarName, "_", "__")
	envVarName = strings.ReplaceAll(envVarName, ".", "_")
	if val, ok := os.LookupEnv(envVarName); ok {
		v := reflect.ValueOf(val)
		if !v.CanConvert(t) {
			return defaultValue, false
		}
		cv := v.Convert(t)
		if !cv.IsZero() &&
			!(cv.Kind() == reflect.Ptr && cv.IsNil()) {
			return cv.Interface().(V), true
		}
	}
	return defaultValue, false
}

func findProperty(
	element reflect.Value, property string,
) (reflect.Value, bool) {

	if element.Kind() != reflect.Struct {
		return reflect.Value{}, false
	}

	t := element.Type()
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if f.PkgPath != "" && !f.Anonymous {
			continue
		}

		if f.Tag.Get("toml") == property {
			return element.Field(i), true
		}
	}
	return reflect.Value{}, false
}

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

const (
	PropertyCassandraHosts           = "cassandra.hosts"
	PropertyCassandraUser            = "cassandra.user"
	PropertyCassandraPassword        = "cassandra.password"
	PropertyCassandraDatacenter      = "cassandra.datacenter"
	PropertyCassandraConsistency     = "cassandra.consistency"
	PropertyCassandraProtocolVersion = "cassandra.protocolversion"
	PropertyCassandraTimeout         = "cassandra.timeout"
	PropertyCassandraReplication     = "cassandra.replication.strategy"
	PropertyCassandraReplicationRF   = "cassandra.replication.factor"
	PropertyCassandraHealthCommand   = "cassandra.health.command"

	PropertyWorkloadBatchSize  = "workload.batchsize"
	PropertyWorkloadCooldown   = "workload.cooldown"
	PropertyWorkloadRecordSize = "workload.recordsize"
	PropertyWorkloadSeed       = "workload.seed"

	PropertyJournalEnabled = "journal.enabled"
	PropertyJournalType    = "journal.type"
	PropertyJournalTopic   = "journal.topic"
	PropertyJournalRetries = "journal.retries"
	PropertyJournalTimeout = "journal.timeout"

	PropertyStatsEnabled = "stats.enabled"
	PropertyStatsAddress = "stats.address"

	PropertyStateStorageType     = "statestorage.type"
	PropertyFileStateStoragePath = "statestorage.file.path"

	PropertyKafkaBrokers       = "journal.kafka.brokers"
	PropertyKafkaIdempotent    = "journal.kafka.idempotent"
	PropertyKafkaSaslEnabled   = "journal.kafka.sasl.enabled"
	PropertyKafkaSaslUser      = "journal.kafka.sasl.user"
	PropertyKafkaSaslPassword  = "journal.kafka.sasl.password"
	PropertyKafkaSaslMechanism = "journal.kafka.sasl.mechanism"
	PropertyKafkaTlsEnabled    = "journal.kafka.tls.enabled"
	PropertyKafkaTlsSkipVerify = "journal.kafka.tls.skipverify"
	PropertyKafkaTlsClientAuth = "journal.kafka.tls.clientauth"

	PropertyNatsAddress                = "journal.nats.address"
	PropertyNatsAuthorization          = "journal.nats.authorization"
	PropertyNatsUserinfoUsername       = "journal.nats.userinfo.username"
	PropertyNatsUserinfoPassword       = "journal.nats.userinfo.password"
	PropertyNatsCredentialsCertificate = "journal.nats.credentials.certificate"
	PropertyNatsCredentialsSeeds       = "journal.nats.credentials.seeds"
	PropertyNatsJwt                    = "journal.nats.jwt.jwt"
	PropertyNatsJwtSeed                = "journal.nats.jwt.seed"

	PropertyRedisNetwork           = "journal.redis.network"
	PropertyRedisAddress           = "journal.redis.address"
	PropertyRedisPassword          = "journal.redis.password"
	PropertyRedisDatabase          = "journal.redis.database"
	PropertyRedisPoolsize          = "journal.redis.poolsize"
	PropertyRedisRetriesMax        = "journal.redis.retries.maxattempts"
	PropertyRedisRetriesBackoffMin = "journal.redis.retries.backoff.min"
	PropertyRedisRetriesBackoffMax = "journal.redis.retries.backoff.max"
	PropertyRedisTimeoutDial       = "journal.redis.timeouts.dial"
	PropertyRedisTimeoutRead       = "journal.redis.timeouts.read"
	PropertyRedisTimeoutWrite      = "journal.redis.timeouts.write"
	PropertyRedisTimeoutPool       = "journal.redis.timeouts.pool"
	PropertyRedisTimeoutIdle       = "journal.redis.timeouts.idle"
	PropertyRedisTlsEnabled        = "journal.redis.tls.enabled"
	PropertyRedisTlsSkipVerify     = "journal.redis.tls.skipverify"
	PropertyRedisTlsClientAuth     = "journal.redis.tls.clientauth"

	PropertySqsQueueUrl           = "journal.sqs.queue.url"
	PropertySqsAwsRegion          = "journal.sqs.aws.region"
	PropertySqsAwsEndpoint        = "journal.sqs.aws.endpoint"
	PropertySqsAwsAccessKeyId     = "journal.sqs.aws.accesskeyid"
	PropertySqsAwsSecretAccessKey = "journal.sqs.aws.secretaccesskey"
	PropertySqsAwsSessionToken    = "journal.sqs.aws.sessiontoken"

	PropertyKinesisStreamName         = "journal.kinesis.stream.name"
	PropertyKinesisStreamCreate       = "journal.kinesis.stream.create"
	PropertyKinesisStreamShardCount   = "journal.kinesis.stream.shardcount"
	PropertyKinesisStreamMode         = "journal.kinesis.stream.mode"
	PropertyKinesisRegion             = "journal.kinesis.aws.region"
	PropertyKinesisAwsEndpoint        = "journal.kinesis.aws.endpoint"
	PropertyKinesisAwsAccessKeyId     = "journal.kinesis.aws.accesskeyid"
	PropertyKinesisAwsSecretAccessKey = "journal.kinesis.aws.secretaccesskey"
	PropertyKinesisAwsSessionToken    = "journal.kinesis.aws.sessiontoken"
)

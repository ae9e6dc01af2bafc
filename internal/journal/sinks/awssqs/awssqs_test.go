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

package awssqs

import (
	"github.com/aws/aws-sdk-go/service/sqs"
	"github.com/aws/aws-sdk-go/service/sqs/sqsiface"
	"github.com/noctarius/cql-workload/internal/supporting"
	"github.com/noctarius/cql-workload/spi/config"
	"github.com/noctarius/cql-workload/spi/journal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"testing"
	"time"
)

type fakeSqs struct {
	sqsiface.SQSAPI
	inputs []*sqs.SendMessageInput
}

func (f *fakeSqs) SendMessage(
	input *sqs.SendMessageInput,
) (*sqs.SendMessageOutput, error) {

	f.inputs = append(f.inputs, input)
	return &sqs.SendMessageOutput{}, nil
}

func Test_Aws_Sqs_Configuration(
	t *testing.T,
) {

	c := &config.Config{
		Journal: config.JournalConfig{
			Type: config.AwsSQS,
			AwsSQS: config.AwsSQSConfig{
				Queue: config.AwsSQSQueueConfig{
					Url: supporting.AddrOf("https://test_url"),
				},
				Aws: config.AwsConnectionConfig{
					Region:          supporting.AddrOf("aws_region"),
					Endpoint:        "aws_endpoint",
					AccessKeyId:     "aws_access_key_id",
					SecretAccessKey: "aws_secret_access_key",
					SessionToken:    "aws_session_token",
				},
			},
		},
	}

	sink, err := newAwsSqsSink(c)
	require.NoError(t, err)

	awsSink := sink.(*awsSqsSink)
	assert.Equal(t, "https://test_url", *awsSink.queueUrl)

	client := awsSink.awsSqs.(*sqs.SQS)
	credentials, err := client.Config.Credentials.Get()
	require.NoError(t, err)
	assert.Equal(t, "aws_region", *client.Config.Region)
	assert.Equal(t, "aws_access_key_id", credentials.AccessKeyID)
	assert.Equal(t, "aws_secret_access_key", credentials.SecretAccessKey)
	assert.Equal(t, "aws_session_token", credentials.SessionToken)
}

func Test_Aws_Sqs_Requires_Queue_Url(
	t *testing.T,
) {

	_, err := newAwsSqsSink(&config.Config{})
	assert.ErrorContains(t, err, "needs the queue url")
}

func Test_Aws_Sqs_Emit(
	t *testing.T,
) {

	client := &fakeSqs{}
	sink := newAwsSqsSinkWithClient(supporting.AddrOf("https://queue"), client)

	first := journal.Event{Operation: journal.OpInsert, Keyspace: "ks1", Table: "users", Key: 1, Batch: 1}
	second := journal.Event{Operation: journal.OpInsert, Keyspace: "ks1", Table: "users", Key: 2, Batch: 1}
	require.NoError(t, sink.Emit(time.Now(), "cql-workload.ks1.users", first))
	require.NoError(t, sink.Emit(time.Now(), "cql-workload.ks1.users", second))
	require.NoError(t, sink.Emit(time.Now(), "cql-workload.ks1.users", first))

	require.Len(t, client.inputs, 3)
	assert.Equal(t, "cql-workload.ks1.users", *client.inputs[0].MessageGroupId)
	assert.Equal(t, "https://queue", *client.inputs[0].QueueUrl)
	assert.Contains(t, *client.inputs[0].MessageBody, `"key":1`)
	assert.NotEqual(t, *client.inputs[0].MessageDeduplicationId, *client.inputs[1].MessageDeduplicationId)
	assert.Equal(t, *client.inputs[0].MessageDeduplicationId, *client.inputs[2].MessageDeduplicationId)
}

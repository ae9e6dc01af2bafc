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
	"crypto/sha256"
	"fmt"
	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/sqs"
	"github.com/aws/aws-sdk-go/service/sqs/sqsiface"
	"github.com/go-errors/errors"
	"github.com/noctarius/cql-workload/spi/config"
	"github.com/noctarius/cql-workload/spi/encoding"
	"github.com/noctarius/cql-workload/spi/journal"
	"time"
)

func init() {
	journal.RegisterSink(config.AwsSQS, newAwsSqsSink)
}

type awsSqsSink struct {
	queueUrl *string
	awsSqs   sqsiface.SQSAPI
	encoder  *encoding.JsonEncoder
}

func newAwsSqsSink(
	c *config.Config,
) (journal.Sink, error) {

	queueUrl := config.GetOrDefault[*string](c, config.PropertySqsQueueUrl, nil)
	if queueUrl == nil {
		return nil, errors.Errorf("AWS SQS sink needs the queue url to be configured")
	}

	awsRegion := config.GetOrDefault[*string](c, config.PropertySqsAwsRegion, nil)
	endpoint := config.GetOrDefault(c, config.PropertySqsAwsEndpoint, "")
	accessKeyId := config.GetOrDefault(c, config.PropertySqsAwsAccessKeyId, "")
	secretAccessKey := config.GetOrDefault(c, config.PropertySqsAwsSecretAccessKey, "")
	sessionToken := config.GetOrDefault(c, config.PropertySqsAwsSessionToken, "")

	awsConfig := aws.NewConfig().WithEndpoint(endpoint)
	if accessKeyId != "" && secretAccessKey != "" {
		awsConfig = awsConfig.WithCredentials(
			credentials.NewStaticCredentials(accessKeyId, secretAccessKey, sessionToken),
		)
	}

	if awsRegion != nil {
		awsConfig = awsConfig.WithRegion(*awsRegion)
	}

	awsSession, err := session.NewSession(awsConfig)
	if err != nil {
		return nil, errors.Wrap(err, 0)
	}

	return newAwsSqsSinkWithClient(queueUrl, sqs.New(awsSession)), nil
}

func newAwsSqsSinkWithClient(
	queueUrl *string, client sqsiface.SQSAPI,
) *awsSqsSink {

	return &awsSqsSink{
		queueUrl: queueUrl,
		awsSqs:   client,
		encoder:  encoding.NewJsonEncoder(false),
	}
}

func (a *awsSqsSink) Start() error {
	return nil
}

func (a *awsSqsSink) Stop() error {
	return nil
}

func (a *awsSqsSink) Emit(
	_ time.Time, topicName string, event journal.Event,
) error {

	data, err := a.encoder.Marshal(event)
	if err != nil {
		return err
	}

	_, err = a.awsSqs.SendMessage(&sqs.SendMessageInput{
		DelaySeconds:           aws.Int64(0),
		MessageBody:            aws.String(string(data)),
		MessageGroupId:         aws.String(topicName),
		MessageDeduplicationId: aws.String(deduplicationId(event, data)),
		QueueUrl:               a.queueUrl,
	})
	return err
}

// deduplicationId identifies a mutation by batch, key and content, so a
// retried emit isn't delivered twice by a fifo queue.
func deduplicationId(
	event journal.Event, data []byte,
) string {

	hash := sha256.New()
	hash.Write([]byte(fmt.Sprintf("%d-%s-", event.Batch, event.MessageKey())))
	hash.Write(data)
	return fmt.Sprintf("%X", hash.Sum(nil))
}

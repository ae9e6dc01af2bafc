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

package awskinesis

import (
	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/kinesis"
	"github.com/aws/aws-sdk-go/service/kinesis/kinesisiface"
	"github.com/go-errors/errors"
	"github.com/noctarius/cql-workload/internal/supporting/logging"
	"github.com/noctarius/cql-workload/spi/config"
	"github.com/noctarius/cql-workload/spi/encoding"
	"github.com/noctarius/cql-workload/spi/journal"
	"time"
)

func init() {
	journal.RegisterSink(config.AwsKinesis, newAwsKinesisSink)
}

type awsKinesisSink struct {
	streamName   *string
	streamCreate bool
	shardCount   *int64
	streamMode   *string
	awsKinesis   kinesisiface.KinesisAPI
	encoder      *encoding.JsonEncoder
	logger       *logging.Logger
}

func newAwsKinesisSink(
	c *config.Config,
) (journal.Sink, error) {

	streamName := config.GetOrDefault[*string](c, config.PropertyKinesisStreamName, nil)
	if streamName == nil {
		return nil, errors.Errorf("AWS Kinesis sink needs the stream name to be configured")
	}

	awsRegion := config.GetOrDefault[*string](c, config.PropertyKinesisRegion, nil)
	endpoint := config.GetOrDefault(c, config.PropertyKinesisAwsEndpoint, "")
	accessKeyId := config.GetOrDefault(c, config.PropertyKinesisAwsAccessKeyId, "")
	secretAccessKey := config.GetOrDefault(c, config.PropertyKinesisAwsSecretAccessKey, "")
	sessionToken := config.GetOrDefault(c, config.PropertyKinesisAwsSessionToken, "")

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

	sink, err := newAwsKinesisSinkWithClient(streamName, kinesis.New(awsSession))
	if err != nil {
		return nil, err
	}
	sink.streamCreate = config.GetOrDefault(c, config.PropertyKinesisStreamCreate, true)
	sink.shardCount = config.GetOrDefault[*int64](c, config.PropertyKinesisStreamShardCount, nil)
	sink.streamMode = config.GetOrDefault[*string](c, config.PropertyKinesisStreamMode, nil)
	return sink, nil
}

func newAwsKinesisSinkWithClient(
	streamName *string, client kinesisiface.KinesisAPI,
) (*awsKinesisSink, error) {

	logger, err := logging.NewLogger("AwsKinesisSink")
	if err != nil {
		return nil, err
	}

	return &awsKinesisSink{
		streamName:   streamName,
		streamCreate: true,
		awsKinesis:   client,
		encoder:      encoding.NewJsonEncoder(false),
		logger:       logger,
	}, nil
}

// Start makes sure the stream exists, creating it when allowed.
func (a *awsKinesisSink) Start() error {
	_, err := a.awsKinesis.DescribeStream(&kinesis.DescribeStreamInput{
		StreamName: a.streamName,
	})
	if err == nil {
		return nil
	}

	var notFound *kinesis.ResourceNotFoundException
	if !errors.As(err, &notFound) || !a.streamCreate {
		return errors.Wrap(err, 0)
	}

	a.logger.Infof("Creating Kinesis stream %s", *a.streamName)
	var streamModeDetails *kinesis.StreamModeDetails
	if a.streamMode != nil {
		streamModeDetails = &kinesis.StreamModeDetails{
			StreamMode: a.streamMode,
		}
	}

	if _, err := a.awsKinesis.CreateStream(&kinesis.CreateStreamInput{
		ShardCount:        a.shardCount,
		StreamModeDetails: streamModeDetails,
		StreamName:        a.streamName,
	}); err != nil {
		return errors.Wrap(err, 0)
	}

	if err := a.awsKinesis.WaitUntilStreamExists(&kinesis.DescribeStreamInput{
		StreamName: a.streamName,
	}); err != nil {
		return errors.Wrap(err, 0)
	}
	return nil
}

func (a *awsKinesisSink) Stop() error {
	return nil
}

func (a *awsKinesisSink) Emit(
	_ time.Time, _ string, event journal.Event,
) error {

	data, err := a.encoder.Marshal(event)
	if err != nil {
		return err
	}

	_, err = a.awsKinesis.PutRecord(&kinesis.PutRecordInput{
		StreamName:   a.streamName,
		PartitionKey: aws.String(event.MessageKey()),
		Data:         data,
	})
	return err
}

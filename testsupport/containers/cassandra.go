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

package containers

import (
	"context"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/cassandra"
)

const cassandraImage = "cassandra:4.1.3"

// SetupCassandraContainer starts a single node Cassandra cluster and
// returns its host:port
func SetupCassandraContainer() (testcontainers.Container, string, error) {
	consumer, err := newLogConsumer("testcontainers-cassandra")
	if err != nil {
		return nil, "", err
	}

	container, err := cassandra.Run(context.Background(), cassandraImage, testcontainers.WithLogConsumers(consumer))
	if err != nil {
		return nil, "", err
	}

	host, err := container.ConnectionHost(context.Background())
	if err != nil {
		return nil, "", err
	}
	return container, host, nil
}

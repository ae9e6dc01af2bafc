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
	"github.com/noctarius/cql-workload/spi/registry"
)

var sinks = registry.New[config.SinkType, Sink]("SinkType")

// RegisterSink registers a config.SinkType to a Factory
// implementation which creates the Sink when requested
func RegisterSink(
	name config.SinkType, factory Factory,
) bool {

	return sinks.Register(name, factory)
}

// NewSink instantiates a new instance of the requested
// Sink when available, otherwise returns an error.
func NewSink(
	name config.SinkType, config *config.Config,
) (Sink, error) {

	return sinks.New(name, config)
}

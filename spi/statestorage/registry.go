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

package statestorage

import (
	"github.com/noctarius/cql-workload/spi/config"
	"github.com/noctarius/cql-workload/spi/registry"
)

var storages = registry.New[config.StateStorageType, Storage]("StateStorageType")

// RegisterStateStorage registers a config.StateStorageType to a
// Provider creating the Storage when requested
func RegisterStateStorage(
	name config.StateStorageType, provider Provider,
) bool {

	return storages.Register(name, provider)
}

// NewStateStorage creates the requested Storage, or returns an error if
// no such storage type is registered
func NewStateStorage(
	name config.StateStorageType, config *config.Config,
) (Storage, error) {

	return storages.New(name, config)
}

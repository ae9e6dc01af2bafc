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
)

type Provider = func(config *config.Config) (Storage, error)

// Storage keeps Progress records keyed by the canonical table name.
type Storage interface {
	Start() error
	Stop() error
	Save() error
	Load() error
	Get() (map[string]*Progress, error)
	Set(
		key string, value *Progress,
	) error
}

// Lookup returns a copy of the progress stored for key, if any.
func Lookup(
	storage Storage, key string,
) (*Progress, bool, error) {

	progresses, err := storage.Get()
	if err != nil {
		return nil, false, err
	}
	progress, present := progresses[key]
	if !present {
		return nil, false, nil
	}
	clone := *progress
	return &clone, true, nil
}

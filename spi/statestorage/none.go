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
	"sync"
)

func init() {
	RegisterStateStorage(config.NoneStorage, func(_ *config.Config) (Storage, error) {
		return NewNoneStateStorage(), nil
	})
}

// noneStateStorage keeps progress in memory for the lifetime of the process.
type noneStateStorage struct {
	mutex      sync.Mutex
	progresses map[string]*Progress
}

func NewNoneStateStorage() Storage {
	return &noneStateStorage{
		progresses: make(map[string]*Progress),
	}
}

func (n *noneStateStorage) Start() error {
	return nil
}

func (n *noneStateStorage) Stop() error {
	return nil
}

func (n *noneStateStorage) Save() error {
	return nil
}

func (n *noneStateStorage) Load() error {
	return nil
}

func (n *noneStateStorage) Get() (map[string]*Progress, error) {
	n.mutex.Lock()
	defer n.mutex.Unlock()
	return n.progresses, nil
}

func (n *noneStateStorage) Set(
	key string, value *Progress,
) error {

	n.mutex.Lock()
	defer n.mutex.Unlock()
	n.progresses[key] = value
	return nil
}

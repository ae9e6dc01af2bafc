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

package registry

import (
	"github.com/go-errors/errors"
	"github.com/noctarius/cql-workload/spi/config"
	"github.com/samber/lo"
	"golang.org/x/exp/slices"
	"strings"
	"sync"
)

// Registry maps configured type names to the factories creating the
// matching implementation. Implementations register themselves from
// their package's init function.
type Registry[K ~string, V any] struct {
	kind      string
	mutex     sync.Mutex
	factories map[K]func(c *config.Config) (V, error)
}

// New creates an empty registry, kind names the registered type in
// error messages
func New[K ~string, V any](
	kind string,
) *Registry[K, V] {

	return &Registry[K, V]{
		kind:      kind,
		factories: make(map[K]func(c *config.Config) (V, error)),
	}
}

// Register adds the factory for name. The first registration wins,
// later ones return false.
func (r *Registry[K, V]) Register(
	name K, factory func(c *config.Config) (V, error),
) bool {

	r.mutex.Lock()
	defer r.mutex.Unlock()
	if _, present := r.factories[name]; present {
		return false
	}
	r.factories[name] = factory
	return true
}

// New instantiates the implementation registered for name
func (r *Registry[K, V]) New(
	name K, c *config.Config,
) (V, error) {

	r.mutex.Lock()
	factory, present := r.factories[name]
	r.mutex.Unlock()

	if !present {
		var zero V
		names := lo.Map(r.Names(), func(name K, _ int) string {
			return string(name)
		})
		return zero, errors.Errorf(
			"%s '%s' doesn't exist, available: %s", r.kind, name, strings.Join(names, ", "),
		)
	}
	return factory(c)
}

// Names returns the registered names in sorted order
func (r *Registry[K, V]) Names() []K {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	names := lo.Keys(r.factories)
	slices.Sort(names)
	return names
}

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

package filtering

import (
	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/go-errors/errors"
	"github.com/noctarius/cql-workload/spi/config"
	"github.com/noctarius/cql-workload/spi/journal"
	"github.com/samber/lo"
	"regexp"
	"strings"
)

var tablePatternRegex = regexp.MustCompile(`^[a-zA-Z0-9_*?]+\.[a-zA-Z0-9_*?]+$`)

type Filter interface {
	Evaluate(
		event journal.Event,
	) (bool, error)
}

type filterFunc func(event journal.Event) (bool, error)

func (ff filterFunc) Evaluate(
	event journal.Event,
) (bool, error) {

	return ff(event)
}

var acceptAllFilter filterFunc = func(_ journal.Event) (bool, error) {
	return true, nil
}

// NewFilter compiles the configured filters. An event is published when
// every filter whose tables match the event's table accepts it. A filter
// accepts when its condition yields its default value, true if unset.
func NewFilter(
	definitions map[string]config.JournalFilterConfig,
) (Filter, error) {

	if len(definitions) == 0 {
		return acceptAllFilter, nil
	}

	filters := make([]*eventFilter, 0, len(definitions))
	for name, definition := range definitions {
		defaultValue := true
		if definition.DefaultValue != nil {
			defaultValue = *definition.DefaultValue
		}

		tables, err := compileTablePatterns(definition.Tables)
		if err != nil {
			return nil, errors.Errorf("journal filter '%s': %s", name, err.Error())
		}

		program, err := expr.Compile(
			definition.Condition, expr.Env(journal.Event{}.Env()), expr.AsBool(),
		)
		if err != nil {
			return nil, errors.Errorf("journal filter '%s': %s", name, err.Error())
		}

		filters = append(filters, &eventFilter{
			defaultValue: defaultValue,
			condition:    definition.Condition,
			tables:       tables,
			program:      program,
			vm:           &vm.VM{},
		})
	}

	return filterFunc(func(event journal.Event) (bool, error) {
		for _, filter := range filters {
			if !filter.appliesTo(event) {
				continue
			}
			accepted, err := filter.evaluate(event)
			if err != nil || !accepted {
				return false, err
			}
		}
		return true, nil
	}), nil
}

type eventFilter struct {
	defaultValue bool
	condition    string
	tables       []*regexp.Regexp
	program      *vm.Program
	vm           *vm.VM
}

func (f *eventFilter) appliesTo(
	event journal.Event,
) bool {

	if len(f.tables) == 0 {
		return true
	}
	canonicalName := event.Keyspace + "." + event.Table
	return lo.ContainsBy(f.tables, func(pattern *regexp.Regexp) bool {
		return pattern.MatchString(canonicalName)
	})
}

func (f *eventFilter) evaluate(
	event journal.Event,
) (bool, error) {

	result, err := f.vm.Run(f.program, event.Env())
	if err != nil {
		return false, errors.Wrap(err, 0)
	}
	r, ok := result.(bool)
	if !ok {
		return false, errors.Errorf("result of filter «%s» isn't a boolean", f.condition)
	}
	if r {
		return f.defaultValue, nil
	}
	return !f.defaultValue, nil
}

// compileTablePatterns turns keyspace.table patterns with * and ? wildcards
// into anchored regular expressions.
func compileTablePatterns(
	patterns []string,
) ([]*regexp.Regexp, error) {

	compiled := make([]*regexp.Regexp, 0, len(patterns))
	for _, pattern := range patterns {
		if !tablePatternRegex.MatchString(pattern) {
			return nil, errors.Errorf("failed parsing table pattern: %s", pattern)
		}
		expression := regexp.QuoteMeta(pattern)
		expression = strings.ReplaceAll(expression, `\*`, `[a-zA-Z0-9_]*`)
		expression = strings.ReplaceAll(expression, `\?`, `[a-zA-Z0-9_]`)
		regex, err := regexp.Compile("^" + expression + "$")
		if err != nil {
			return nil, errors.Wrap(err, 0)
		}
		compiled = append(compiled, regex)
	}
	return compiled, nil
}

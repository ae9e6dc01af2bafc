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

package config

import (
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go/ast"
	"go/parser"
	"go/token"
	"reflect"
	"strconv"
	"strings"
	"testing"
)

// propertyConstants reads the Property* constants and their values from
// constants.go
func propertyConstants(
	t *testing.T,
) map[string]string {

	file, err := parser.ParseFile(token.NewFileSet(), "./constants.go", nil, 0)
	require.NoError(t, err)

	constants := make(map[string]string)
	ast.Inspect(file, func(node ast.Node) bool {
		valueSpec, ok := node.(*ast.ValueSpec)
		if !ok {
			return true
		}
		for i, name := range valueSpec.Names {
			literal, ok := valueSpec.Values[i].(*ast.BasicLit)
			if !ok || !strings.HasPrefix(name.Name, "Property") {
				continue
			}
			value, err := strconv.Unquote(literal.Value)
			require.NoError(t, err)
			constants[name.Name] = value
		}
		return false
	})
	return constants
}

func Test_Property_Constants_Resolve_To_Config_Fields(
	t *testing.T,
) {

	constants := propertyConstants(t)
	require.NotEmpty(t, constants)

	for name, property := range constants {
		t.Run(name, func(t *testing.T) {
			element := reflect.ValueOf(Config{})
			for _, segment := range strings.Split(property, ".") {
				next, ok := findProperty(element, segment)
				if !assert.Truef(t, ok, "segment '%s' of '%s' isn't defined in Config", segment, property) {
					return
				}
				element = next
				if element.Kind() == reflect.Ptr {
					element = reflect.New(element.Type().Elem()).Elem()
				}
			}
		})
	}
}

func Test_Property_Constants_Are_Unique(
	t *testing.T,
) {

	seen := make(map[string]string)
	for name, property := range propertyConstants(t) {
		if other, present := seen[property]; present {
			t.Errorf("%s and %s share the property '%s'", name, other, property)
		}
		seen[property] = name
	}
}

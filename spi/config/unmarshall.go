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
	"bytes"
	"github.com/BurntSushi/toml"
	"github.com/go-errors/errors"
	"github.com/samber/lo"
	"gopkg.in/yaml.v3"
	"strings"
)

// Unmarshall decodes a TOML or YAML configuration. YAML documents are
// converted to TOML first, both formats share the toml struct tags.
// Unknown properties are rejected.
func Unmarshall(
	content []byte, config *Config, isToml bool,
) error {

	if !isToml {
		converted, err := yamlToToml(content)
		if err != nil {
			return err
		}
		content = converted
	}
	return fromToml(content, config)
}

func fromToml(
	content []byte, config *Config,
) error {

	metadata, err := toml.Decode(string(content), config)
	if err != nil {
		return errors.Wrap(err, 0)
	}
	if undecoded := metadata.Undecoded(); len(undecoded) > 0 {
		keys := lo.Map(undecoded, func(key toml.Key, _ int) string {
			return key.String()
		})
		return errors.Errorf("unknown configuration properties: %s", strings.Join(keys, ", "))
	}
	return nil
}

func yamlToToml(
	content []byte,
) ([]byte, error) {

	document := make(map[string]any)
	if err := yaml.Unmarshal(content, &document); err != nil {
		return nil, errors.Wrap(err, 0)
	}

	buffer := &bytes.Buffer{}
	if err := toml.NewEncoder(buffer).Encode(document); err != nil {
		return nil, errors.Wrap(err, 0)
	}
	return buffer.Bytes(), nil
}

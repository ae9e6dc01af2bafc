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

package encoding

import (
	"bytes"
	"github.com/goccy/go-json"
)

type JsonEncoder struct {
	escapeHtml bool
}

// NewJsonEncoder creates an encoder. Without html escaping <, > and &
// are written as is, CQL fragments in events stay readable.
func NewJsonEncoder(
	escapeHtml bool,
) *JsonEncoder {

	return &JsonEncoder{
		escapeHtml: escapeHtml,
	}
}

func (j *JsonEncoder) Marshal(
	value any,
) ([]byte, error) {

	return j.encode(value, "")
}

func (j *JsonEncoder) MarshalIndent(
	value any,
) ([]byte, error) {

	return j.encode(value, "  ")
}

func (j *JsonEncoder) encode(
	value any, indent string,
) ([]byte, error) {

	buffer := &bytes.Buffer{}
	encoder := json.NewEncoder(buffer)
	encoder.SetEscapeHTML(j.escapeHtml)
	if indent != "" {
		encoder.SetIndent("", indent)
	}
	if err := encoder.Encode(value); err != nil {
		return nil, err
	}
	// Encode terminates every value with a newline
	return bytes.TrimSuffix(buffer.Bytes(), []byte("\n")), nil
}

type JsonDecoder struct{}

func NewJsonDecoder() *JsonDecoder {
	return &JsonDecoder{}
}

func (j *JsonDecoder) Unmarshal(
	data []byte, v any,
) error {

	return json.Unmarshal(data, v)
}

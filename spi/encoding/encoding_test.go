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
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"testing"
)

func Test_Json_Escaping(
	t *testing.T,
) {

	value := map[string]string{"cql": "a < b"}

	data, err := NewJsonEncoder(false).Marshal(value)
	require.NoError(t, err)
	assert.Equal(t, `{"cql":"a < b"}`, string(data))

	data, err = NewJsonEncoder(true).Marshal(value)
	require.NoError(t, err)
	assert.Equal(t, `{"cql":"a \u003c b"}`, string(data))

	data, err = NewJsonEncoder(false).MarshalIndent(value)
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"cql\": \"a < b\"\n}", string(data))

	data, err = NewJsonEncoder(true).MarshalIndent(value)
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"cql\": \"a \\u003c b\"\n}", string(data))

	decoded := make(map[string]string)
	require.NoError(t, NewJsonDecoder().Unmarshal(data, &decoded))
	assert.Equal(t, value, decoded)
}

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

package valuegen

import (
	"github.com/noctarius/cql-workload/spi/cqltypes"
)

// Contribution returns the size RandomValue declares for t with the same
// parameters, without generating a value.
func Contribution(
	t cqltypes.Type, targetLength, multiplicity int,
) (int, error) {

	if targetLength < 0 {
		targetLength = 0
	}

	switch t.Kind() {
	case cqltypes.Boolean:
		return 1, nil
	case cqltypes.Int32, cqltypes.Float, cqltypes.InetAddress:
		return 4, nil
	case cqltypes.Long, cqltypes.Counter, cqltypes.Timestamp, cqltypes.Double:
		return 8, nil
	case cqltypes.UUID, cqltypes.TimeUUID:
		return 16, nil
	case cqltypes.UTF8, cqltypes.Ascii, cqltypes.Bytes:
		return targetLength, nil
	case cqltypes.Integer:
		return max(1, targetLength), nil

	case cqltypes.List, cqltypes.Set:
		element, err := Contribution(t.Element(), targetLength, multiplicity)
		if err != nil {
			return 0, err
		}
		return max(0, multiplicity) * element, nil

	case cqltypes.Map:
		key, err := Contribution(t.Key(), targetLength, multiplicity)
		if err != nil {
			return 0, err
		}
		value, err := Contribution(t.Value(), targetLength, multiplicity)
		if err != nil {
			return 0, err
		}
		return max(0, multiplicity) * (key + value), nil

	case cqltypes.Tuple:
		return sumContributions(t.Elements(), targetLength, multiplicity)

	case cqltypes.Struct:
		fields := make([]cqltypes.Type, 0, len(t.Fields()))
		for _, field := range t.Fields() {
			fields = append(fields, field.Type())
		}
		return sumContributions(fields, targetLength, multiplicity)
	}
	return 0, unsupportedKind(t)
}

func sumContributions(
	types []cqltypes.Type, targetLength, multiplicity int,
) (int, error) {

	sum := 0
	for _, t := range types {
		size, err := Contribution(t, targetLength, multiplicity)
		if err != nil {
			return 0, err
		}
		sum += size
	}
	return sum, nil
}

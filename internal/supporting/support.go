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

package supporting

import (
	"math/rand"
	"strings"
)

var validCharacters = []string{
	"a", "b", "c", "d", "e", "f", "g", "h", "i", "j", "k", "l", "m",
	"n", "o", "p", "q", "r", "s", "t", "u", "v", "w", "x", "y", "z",
}

func AddrOf[T any](
	value T,
) *T {

	return &value
}

func RandomTextString(
	length int,
) string {

	builder := strings.Builder{}
	for i := 0; i < length; i++ {
		index := rand.Intn(len(validCharacters))
		builder.WriteString(validCharacters[index])
	}
	return builder.String()
}

// SplitQualifiedName splits a keyspace.table notation. A name without
// a dot is returned as table name with an empty keyspace.
func SplitQualifiedName(
	qualifiedName string,
) (keyspace, name string) {

	if i := strings.IndexByte(qualifiedName, '.'); i >= 0 {
		return qualifiedName[:i], qualifiedName[i+1:]
	}
	return "", qualifiedName
}

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

package bootstrap

import (
	"github.com/samber/lo"
	"regexp"
	"strings"
)

var frozenTypeRegex = regexp.MustCompile(`(?i)frozen\s*<\s*("?[A-Za-z_][A-Za-z0-9_]*"?)\s*>`)

var builtinTypes = []string{
	"ascii", "bigint", "blob", "boolean", "counter", "date", "decimal", "double", "duration", "float",
	"inet", "int", "smallint", "text", "time", "timestamp", "timeuuid", "tinyint", "uuid", "varchar", "varint",
}

// UDTNames lists the user defined types referenced as frozen<name> in
// the schema, in order of their first appearance
func UDTNames(
	schema string,
) []string {

	names := make([]string, 0)
	for _, match := range frozenTypeRegex.FindAllStringSubmatch(schema, -1) {
		name := strings.Trim(match[1], `"`)
		if lo.Contains(builtinTypes, strings.ToLower(name)) {
			continue
		}
		names = append(names, name)
	}
	return lo.Uniq(names)
}

// TableUDTNames lists the user defined types referenced by the
// CREATE TABLE statement of keyspace.table in a schema dump
func TableUDTNames(
	dump, keyspace, table string,
) []string {

	for _, statement := range splitStatements(dump) {
		if statement.kind == "TABLE" && statement.matches(keyspace, table) {
			return UDTNames(statement.text)
		}
	}
	return nil
}

// FilterSchema extracts the statements belonging to keyspace.table from
// the output of DESCRIBE: the keyspace, the types the table depends on,
// the table and its indexes.
func FilterSchema(
	dump, keyspace, table string,
) string {

	statements := splitStatements(dump)

	types := make(map[string]schemaStatement)
	for _, statement := range statements {
		if statement.kind == "TYPE" {
			types[statement.name] = statement
		}
	}

	required := make(map[string]bool)
	var require func(names []string)
	require = func(names []string) {
		for _, name := range names {
			if required[name] {
				continue
			}
			required[name] = true
			if statement, present := types[name]; present {
				require(UDTNames(statement.text))
			}
		}
	}
	require(TableUDTNames(dump, keyspace, table))

	builder := strings.Builder{}
	for _, statement := range statements {
		include := false
		switch statement.kind {
		case "KEYSPACE":
			include = keyspace == "" || statement.name == keyspace
		case "TYPE":
			include = required[statement.name] && (keyspace == "" || statement.keyspace == "" || statement.keyspace == keyspace)
		case "TABLE", "INDEX":
			include = statement.matches(keyspace, table)
		}
		if include {
			builder.WriteString(statement.text)
			builder.WriteString("\n")
		}
	}
	return builder.String()
}

type schemaStatement struct {
	kind     string
	keyspace string
	name     string
	text     string
}

func (s schemaStatement) matches(
	keyspace, table string,
) bool {

	return s.name == table && (keyspace == "" || s.keyspace == "" || s.keyspace == keyspace)
}

// splitStatements splits a schema dump into its CREATE statements. A
// statement runs from its CREATE line to the line ending it with ';'.
func splitStatements(
	dump string,
) []schemaStatement {

	statements := make([]schemaStatement, 0)
	var current *schemaStatement
	lines := make([]string, 0)

	for _, line := range strings.Split(dump, "\n") {
		words := strings.Fields(line)
		if len(words) == 0 {
			continue
		}

		if current == nil {
			if !strings.EqualFold(words[0], "CREATE") || len(words) < 3 {
				continue
			}
			current = newSchemaStatement(words)
			lines = lines[:0]
		}

		lines = append(lines, line)
		if strings.Contains(line, ";") {
			current.text = strings.Join(lines, "\n") + "\n"
			statements = append(statements, *current)
			current = nil
		}
	}
	return statements
}

func newSchemaStatement(
	words []string,
) *schemaStatement {

	kind := strings.ToUpper(words[1])
	statement := &schemaStatement{kind: kind}

	var qualifiedName string
	switch kind {
	case "KEYSPACE":
		statement.name = cleanName(words[2])
		if strings.EqualFold(statement.name, "IF") && len(words) >= 6 {
			statement.name = cleanName(words[5])
		}
		return statement
	case "INDEX":
		for i, word := range words {
			if strings.EqualFold(word, "ON") && i+1 < len(words) {
				qualifiedName = words[i+1]
				break
			}
		}
	default:
		qualifiedName = words[2]
		if strings.EqualFold(qualifiedName, "IF") && len(words) >= 6 {
			qualifiedName = words[5]
		}
	}

	// "ks1.t1" or "ks1.t1(" or "ks1.t1 ("
	if i := strings.IndexByte(qualifiedName, '('); i >= 0 {
		qualifiedName = qualifiedName[:i]
	}
	if i := strings.IndexByte(qualifiedName, '.'); i >= 0 {
		statement.keyspace = cleanName(qualifiedName[:i])
		statement.name = cleanName(qualifiedName[i+1:])
	} else {
		statement.name = cleanName(qualifiedName)
	}
	return statement
}

func cleanName(
	name string,
) string {

	return strings.Trim(name, `";`)
}

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

package main

import (
	"bytes"
	"github.com/noctarius/cql-workload/spi/version"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli"
	"io"
	"os"
	"path/filepath"
	"testing"
)

const describeDump = `
CREATE KEYSPACE ks1 WITH replication = {'class': 'SimpleStrategy', 'replication_factor': '3'}  AND durable_writes = true;

CREATE TYPE ks1.fullname (
    first text,
    last text
);

CREATE TABLE ks1.users (
    id int PRIMARY KEY,
    name frozen<fullname>,
    payload text
) WITH comment = '';

CREATE TABLE ks1.other (
    id int PRIMARY KEY
);
`

func runApp(
	t *testing.T, args ...string,
) (string, int, error) {

	t.Helper()

	exitCode := 0
	previousExiter, previousErrWriter := cli.OsExiter, cli.ErrWriter
	cli.OsExiter = func(code int) {
		exitCode = code
	}
	cli.ErrWriter = io.Discard
	t.Cleanup(func() {
		cli.OsExiter = previousExiter
		cli.ErrWriter = previousErrWriter
	})

	output := &bytes.Buffer{}
	app := newApp()
	app.Writer = output
	app.ErrWriter = io.Discard

	err := app.Run(reorderArgs(append([]string{version.BinName}, args...)))
	return output.String(), exitCode, err
}

func writeSchemaFile(
	t *testing.T, content string,
) string {

	t.Helper()
	path := filepath.Join(t.TempDir(), "schema.cql")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func Test_Reorder_Args(
	t *testing.T,
) {

	testCases := []struct {
		name     string
		args     []string
		expected []string
	}{
		{
			name:     "positionals before command",
			args:     []string{"bin", "10.0.0.1,10.0.0.2", "schema.cql", "insert", "-n", "10"},
			expected: []string{"bin", "insert", "10.0.0.1,10.0.0.2", "schema.cql", "-n", "10"},
		},
		{
			name:     "global flags with values",
			args:     []string{"bin", "--db_user", "cassandra", "--verbose", "--config=w.toml", "10.0.0.1", "schema.cql", "update", "-i", "50"},
			expected: []string{"bin", "--db_user", "cassandra", "--verbose", "--config=w.toml", "update", "10.0.0.1", "schema.cql", "-i", "50"},
		},
		{
			name:     "short config flag",
			args:     []string{"bin", "-c", "w.yaml", "10.0.0.1", "schema.cql", "describe"},
			expected: []string{"bin", "-c", "w.yaml", "describe", "10.0.0.1", "schema.cql"},
		},
		{
			name:     "missing command",
			args:     []string{"bin", "10.0.0.1", "schema.cql"},
			expected: []string{"bin", "10.0.0.1", "schema.cql"},
		},
		{
			name:     "flags only",
			args:     []string{"bin", "--version"},
			expected: []string{"bin", "--version"},
		},
		{
			name:     "no arguments",
			args:     []string{"bin"},
			expected: []string{"bin"},
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			assert.Equal(t, testCase.expected, reorderArgs(testCase.args))
		})
	}
}

func Test_Version_Flag(
	t *testing.T,
) {

	output, exitCode, err := runApp(t, "--version")
	require.NoError(t, err)
	assert.Equal(t, 0, exitCode)
	assert.Contains(t, output, version.BinName+" version "+version.Version)
}

func Test_Unrecognized_Command_Is_A_Usage_Error(
	t *testing.T,
) {

	schemaFile := writeSchemaFile(t, "(id int PRIMARY KEY)")
	_, exitCode, err := runApp(t, "127.0.0.1", schemaFile, "compare")
	require.Error(t, err)
	assert.Equal(t, 2, exitCode)
}

func Test_Missing_Schema_File_Is_A_Usage_Error(
	t *testing.T,
) {

	missing := filepath.Join(t.TempDir(), "missing.cql")
	for _, command := range []string{"insert", "update", "describe", "filter"} {
		t.Run(command, func(t *testing.T) {
			_, exitCode, err := runApp(t, "127.0.0.1", missing, command, "-t", "ks1.users")
			require.Error(t, err)
			assert.Contains(t, err.Error(), "doesn't exist")
			assert.Equal(t, 2, exitCode)
		})
	}
}

func Test_Invalid_Arguments_Are_Usage_Errors(
	t *testing.T,
) {

	schemaFile := writeSchemaFile(t, "(id int PRIMARY KEY)")
	testCases := []struct {
		name string
		args []string
	}{
		{name: "target without keyspace", args: []string{"127.0.0.1", schemaFile, "insert", "-t", "users"}},
		{name: "empty host list", args: []string{",", schemaFile, "insert"}},
		{name: "shard out of range", args: []string{"127.0.0.1", schemaFile, "insert", "--shards", "2", "--shard", "2"}},
		{name: "invalid uuid", args: []string{"127.0.0.1", schemaFile, "insert", "-u", "not-a-uuid"}},
		{name: "negative record size", args: []string{"127.0.0.1", schemaFile, "insert", "-r", "-1"}},
		{name: "insert percentage", args: []string{"127.0.0.1", schemaFile, "update", "-i", "101"}},
		{name: "batch size", args: []string{"127.0.0.1", schemaFile, "update", "-b", "0"}},
		{name: "negative delay", args: []string{"127.0.0.1", schemaFile, "update", "-d", "-5"}},
		{name: "byte rate", args: []string{"127.0.0.1", schemaFile, "update", "--bytes-per-hour", "fast"}},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			_, exitCode, err := runApp(t, testCase.args...)
			require.Error(t, err)
			assert.Equal(t, 2, exitCode)
		})
	}
}

func Test_Unreadable_Configuration_Exits_With_Configuration_Code(
	t *testing.T,
) {

	schemaFile := writeSchemaFile(t, "(id int PRIMARY KEY)")
	missing := filepath.Join(t.TempDir(), "missing.toml")
	_, exitCode, err := runApp(t, "--config", missing, "127.0.0.1", schemaFile, "insert")
	require.Error(t, err)
	assert.Equal(t, 3, exitCode)
}

func Test_Filter_Prints_Table_And_Types(
	t *testing.T,
) {

	schemaFile := writeSchemaFile(t, describeDump)
	output, exitCode, err := runApp(t, "127.0.0.1", schemaFile, "filter", "-t", "ks1.users")
	require.NoError(t, err)
	assert.Equal(t, 0, exitCode)
	assert.Contains(t, output, "CREATE KEYSPACE ks1")
	assert.Contains(t, output, "CREATE TYPE ks1.fullname")
	assert.Contains(t, output, "CREATE TABLE ks1.users")
	assert.NotContains(t, output, "ks1.other")
}

func Test_Filter_Unknown_Table(
	t *testing.T,
) {

	schemaFile := writeSchemaFile(t, describeDump)
	_, exitCode, err := runApp(t, "127.0.0.1", schemaFile, "filter", "-t", "ks1.missing")
	require.Error(t, err)
	assert.Equal(t, 4, exitCode)
}

func Test_Load_Config_Command_Line_Wins(
	t *testing.T,
) {

	directory := t.TempDir()
	path := filepath.Join(directory, "workload.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[cassandra]
hosts = ["10.0.0.1"]
user = "file-user"
password = "file-password"
datacenter = "dc-file"

[workload]
recordsize = "2KB"
`), 0644))

	configurationFile, databaseUser, databasePassword, datacenter = path, "cli-user", "cli-password", "dc-cli"
	t.Cleanup(func() {
		configurationFile, databaseUser, databasePassword, datacenter = "", "", "", ""
	})

	config, err := loadConfig(&target{hosts: []string{"10.0.0.2", "10.0.0.3"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"10.0.0.2", "10.0.0.3"}, config.Cassandra.Hosts)
	assert.Equal(t, "cli-user", config.Cassandra.User)
	assert.Equal(t, "cli-password", config.Cassandra.Password)
	assert.Equal(t, "dc-cli", config.Cassandra.Datacenter)
	assert.Equal(t, "2KB", config.Workload.RecordSize)
}

func Test_Parse_Size(
	t *testing.T,
) {

	size, err := parseSize("1000")
	require.NoError(t, err)
	assert.Equal(t, 1000, size)

	size, err = parseSize("2KB")
	require.NoError(t, err)
	assert.Equal(t, 2048, size)

	_, err = parseSize("large")
	assert.Error(t, err)
}

func Test_Percent(
	t *testing.T,
) {

	assert.Equal(t, int64(50), percent(5, 10))
	assert.Equal(t, int64(100), percent(0, 0))
}

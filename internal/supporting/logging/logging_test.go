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

package logging

import (
	"fmt"
	"github.com/gookit/slog"
	"github.com/gookit/slog/handler"
	"github.com/noctarius/cql-workload/internal/supporting"
	spiconfig "github.com/noctarius/cql-workload/spi/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"os"
	"testing"
)

func newTestOutputs() *outputs {
	return &outputs{
		level: slog.InfoLevel,
		files: make(map[string]*handler.SyncCloseHandler),
	}
}

func Test_New_File_Handler_Max_Size(
	t *testing.T,
) {

	path := fmt.Sprintf("%s/%s", t.TempDir(), supporting.RandomTextString(10))
	defer os.Remove(path)

	config := spiconfig.LoggerFileConfig{
		Enabled: supporting.AddrOf(true),
		Path:    path,
		Rotate:  supporting.AddrOf(true),
		MaxSize: supporting.AddrOf("5MB"),
	}

	found, _, err := newTestOutputs().fileHandler(config)
	assert.Nil(t, err)
	assert.True(t, found)
}

func Test_New_File_Handler_Invalid_Max_Size(
	t *testing.T,
) {

	config := spiconfig.LoggerFileConfig{
		Enabled: supporting.AddrOf(true),
		Path:    fmt.Sprintf("%s/%s", t.TempDir(), supporting.RandomTextString(10)),
		Rotate:  supporting.AddrOf(true),
		MaxSize: supporting.AddrOf("five megs"),
	}

	_, _, err := newTestOutputs().fileHandler(config)
	assert.Error(t, err)
}

func Test_New_File_Handler_Max_Duration(
	t *testing.T,
) {

	config := spiconfig.LoggerFileConfig{
		Enabled:     supporting.AddrOf(true),
		Path:        fmt.Sprintf("%s/%s", t.TempDir(), supporting.RandomTextString(10)),
		Rotate:      supporting.AddrOf(true),
		MaxDuration: supporting.AddrOf(600),
	}

	_, _, err := newTestOutputs().fileHandler(config)
	assert.Nil(t, err)
}

func Test_New_File_Handler_Disabled(
	t *testing.T,
) {

	found, h, err := newTestOutputs().fileHandler(spiconfig.LoggerFileConfig{})
	assert.Nil(t, err)
	assert.False(t, found)
	assert.Nil(t, h)
}

func Test_New_File_Handler_Cache(
	t *testing.T,
) {

	config := spiconfig.LoggerFileConfig{
		Enabled: supporting.AddrOf(true),
		Path:    fmt.Sprintf("%s/%s", t.TempDir(), supporting.RandomTextString(10)),
		Rotate:  supporting.AddrOf(true),
		MaxSize: supporting.AddrOf("5MB"),
	}

	o := newTestOutputs()
	_, first, err := o.fileHandler(config)
	require.Nil(t, err)

	_, second, err := o.fileHandler(config)
	require.Nil(t, err)
	assert.Same(t, first, second)
}

func Test_Name_To_Level(
	t *testing.T,
) {

	assert.Equal(t, slog.ErrorLevel, Name2Level("err"))
	assert.Equal(t, slog.WarnLevel, Name2Level("WARNING"))
	assert.Equal(t, VerboseLevel, Name2Level("verbose"))
	assert.Equal(t, slog.InfoLevel, Name2Level("unknown"))
}

func Test_Logger_Level_Filtering(
	t *testing.T,
) {

	logger := &Logger{level: slog.InfoLevel, name: "Test"}
	assert.True(t, logger.enabled(slog.ErrorLevel))
	assert.True(t, logger.enabled(slog.InfoLevel))
	assert.False(t, logger.enabled(slog.DebugLevel))

	WithVerbose = true
	defer func() { WithVerbose = false }()
	assert.True(t, logger.enabled(VerboseLevel))
	assert.False(t, logger.enabled(slog.TraceLevel))
}

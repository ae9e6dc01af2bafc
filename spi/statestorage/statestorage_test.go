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

package statestorage

import (
	"github.com/noctarius/cql-workload/spi/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"
)

func Test_State_File_Is_Json(
	t *testing.T,
) {

	path := filepath.Join(t.TempDir(), "progress.json")

	storage, err := NewFileStateStorage(path)
	require.NoError(t, err)
	require.NoError(t, storage.Load())
	require.NoError(t, storage.Set("ks1.users", &Progress{
		Frontier:  123456,
		Batches:   42,
		Records:   4200,
		Timestamp: time.Date(2023, 01, 01, 0, 0, 0, 0, time.UTC),
	}))
	require.NoError(t, storage.Save())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"version": 1,
		"tables": {
			"ks1.users": {"frontier": 123456, "batches": 42, "records": 4200, "timestamp": "2023-01-01T00:00:00Z"}
		}
	}`, string(data))
}

func Test_Writing_Reading(
	t *testing.T,
) {

	if runtime.GOOS == "windows" {
		t.SkipNow()
	}

	path := filepath.Join(t.TempDir(), "state", "progress.json")

	users := &Progress{
		Frontier:  1000,
		Batches:   10,
		Records:   1000,
		Timestamp: time.Date(2023, 01, 01, 0, 0, 0, 0, time.UTC),
	}
	hits := &Progress{
		Frontier:  20,
		Batches:   2,
		Records:   200,
		Timestamp: time.Date(2023, 02, 01, 1, 0, 0, 0, time.UTC),
	}

	storage, err := NewFileStateStorage(path)
	require.NoError(t, err, "failed to instantiate FileStateStorage")
	require.NoError(t, storage.Start(), "failed starting FileStateStorage")

	require.NoError(t, storage.Set("ks1.users", users))
	require.NoError(t, storage.Set("ks1.hits", hits))
	require.NoError(t, storage.Stop(), "failed stopping FileStateStorage")

	second, err := NewFileStateStorage(path)
	require.NoError(t, err, "failed to instantiate FileStateStorage")
	require.NoError(t, second.Start(), "failed starting FileStateStorage")
	defer second.Stop()

	progresses, err := second.Get()
	require.NoError(t, err)
	assert.Len(t, progresses, 2)
	assert.True(t, users.Equal(progresses["ks1.users"]))
	assert.True(t, hits.Equal(progresses["ks1.hits"]))

	progress, present, err := Lookup(second, "ks1.users")
	require.NoError(t, err)
	assert.True(t, present)
	progress.Frontier = 0
	assert.Equal(t, int64(1000), progresses["ks1.users"].Frontier)

	_, present, err = Lookup(second, "ks1.missing")
	require.NoError(t, err)
	assert.False(t, present)
}

func Test_Corrupted_State_File(
	t *testing.T,
) {

	path := filepath.Join(t.TempDir(), "progress.json")
	require.NoError(t, os.WriteFile(path, []byte{0, 0, 0, 1, 0, 0}, 0666))

	storage, err := NewFileStateStorage(path)
	require.NoError(t, err)
	assert.ErrorContains(t, storage.Load(), "corrupted state file")

	require.NoError(t, os.WriteFile(path, []byte(`{"version": 7, "tables": {}}`), 0666))
	assert.ErrorContains(t, storage.Load(), "unsupported state file version 7")
}

func Test_Path_Is_Directory(
	t *testing.T,
) {

	_, err := NewFileStateStorage(t.TempDir())
	assert.ErrorContains(t, err, "is not a file")
}

func Test_Registry(
	t *testing.T,
) {

	c := &config.Config{}

	storage, err := NewStateStorage(config.NoneStorage, c)
	require.NoError(t, err)
	require.NoError(t, storage.Set("ks1.users", &Progress{Frontier: 5}))
	progress, present, err := Lookup(storage, "ks1.users")
	require.NoError(t, err)
	assert.True(t, present)
	assert.Equal(t, int64(5), progress.Frontier)

	_, err = NewStateStorage(config.FileStorage, c)
	assert.ErrorContains(t, err, "needs a path")

	c.StateStorage.FileStorage.Path = filepath.Join(t.TempDir(), "progress.json")
	storage, err = NewStateStorage(config.FileStorage, c)
	require.NoError(t, err)
	assert.NotNil(t, storage)

	_, err = NewStateStorage(config.StateStorageType("unknown"), c)
	assert.ErrorContains(t, err, "doesn't exist")

	assert.False(t, RegisterStateStorage(config.NoneStorage, nil))
}

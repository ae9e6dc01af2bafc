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
	"github.com/docker/docker/pkg/ioutils"
	"github.com/go-errors/errors"
	"github.com/noctarius/cql-workload/internal/supporting/logging"
	"github.com/noctarius/cql-workload/internal/waiting"
	"github.com/noctarius/cql-workload/spi/config"
	"github.com/noctarius/cql-workload/spi/encoding"
	"os"
	"path/filepath"
	"sync"
	"time"
)

const (
	autoStoreInterval  = time.Second * 20
	stateFormatVersion = 1
)

// stateDocument is the layout of the state file
type stateDocument struct {
	Version int                  `json:"version"`
	Tables  map[string]*Progress `json:"tables"`
}

func init() {
	RegisterStateStorage(config.FileStorage, newFileStateStorage)
}

type fileStateStorage struct {
	path       string
	mutex      sync.Mutex
	logger     *logging.Logger
	progresses map[string]*Progress

	ticker         *time.Ticker
	shutdownWaiter *waiting.ShutdownAwaiter
}

func newFileStateStorage(
	c *config.Config,
) (Storage, error) {

	path := config.GetOrDefault(c, config.PropertyFileStateStoragePath, "")
	if path == "" {
		return nil, errors.Errorf("FileStateStorage needs a path to be configured")
	}
	return NewFileStateStorage(path)
}

func NewFileStateStorage(
	path string,
) (Storage, error) {

	logger, err := logging.NewLogger("FileStateStorage")
	if err != nil {
		return nil, err
	}

	directory := filepath.Dir(path)
	fi, err := os.Stat(directory)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, errors.Wrap(err, 0)
		}
		if err := os.MkdirAll(directory, 0777); err != nil {
			return nil, errors.Wrap(err, 0)
		}
	} else if !fi.IsDir() {
		return nil, errors.Errorf(
			"path '%s' cannot be created since the parent-path '%s' is no directory", path, directory,
		)
	}

	fi, err = os.Stat(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, errors.Wrap(err, 0)
	}

	if fi != nil && fi.IsDir() {
		return nil, errors.Errorf("path '%s' exists already but is not a file", path)
	}

	return &fileStateStorage{
		path:           path,
		logger:         logger,
		progresses:     make(map[string]*Progress),
		shutdownWaiter: waiting.NewShutdownAwaiter(time.Second * 5),
	}, nil
}

func (f *fileStateStorage) Start() error {
	f.logger.Infof("Starting FileStateStorage at %s", f.path)
	if err := f.Load(); err != nil {
		return err
	}

	if f.ticker == nil {
		f.ticker = time.NewTicker(autoStoreInterval)
		go f.autoStoreHandler()
	}
	return nil
}

func (f *fileStateStorage) Stop() error {
	f.logger.Infof("Stopping FileStateStorage at %s", f.path)
	for name, progress := range f.progresses {
		f.logger.Debugf("  * %s: frontier %d after %d batches", name, progress.Frontier, progress.Batches)
	}
	if f.ticker != nil {
		f.shutdownWaiter.SignalShutdown()
		if err := f.shutdownWaiter.AwaitDone(); err != nil {
			f.logger.Warnf("Failed to shutdown auto storage in time")
		}
	}
	return f.Save()
}

func (f *fileStateStorage) Save() error {
	f.logger.Debugf("Storing FileStateStorage at %s", f.path)

	f.mutex.Lock()
	defer f.mutex.Unlock()

	data, err := encoding.NewJsonEncoder(false).MarshalIndent(&stateDocument{
		Version: stateFormatVersion,
		Tables:  f.progresses,
	})
	if err != nil {
		return errors.Wrap(err, 0)
	}

	writer, err := ioutils.NewAtomicFileWriter(f.path, 0666)
	if err != nil {
		return errors.Wrap(err, 0)
	}
	if _, err := writer.Write(data); err != nil {
		writer.Close()
		return errors.Wrap(err, 0)
	}
	return writer.Close()
}

func (f *fileStateStorage) Load() error {
	f.logger.Infof("Loading FileStateStorage at %s", f.path)

	f.mutex.Lock()
	defer f.mutex.Unlock()

	data, err := os.ReadFile(f.path)
	if err != nil {
		if !os.IsNotExist(err) {
			return errors.Wrap(err, 0)
		}
		f.progresses = make(map[string]*Progress)
		return nil
	}

	if len(data) == 0 {
		f.progresses = make(map[string]*Progress)
		return nil
	}

	document := &stateDocument{}
	if err := encoding.NewJsonDecoder().Unmarshal(data, document); err != nil {
		return errors.Errorf("corrupted state file '%s': %s", f.path, err.Error())
	}
	if document.Version != stateFormatVersion {
		return errors.Errorf("unsupported state file version %d in '%s'", document.Version, f.path)
	}

	progresses := make(map[string]*Progress, len(document.Tables))
	for key, progress := range document.Tables {
		if progress != nil {
			progresses[key] = progress
		}
	}
	f.progresses = progresses
	return nil
}

func (f *fileStateStorage) Get() (map[string]*Progress, error) {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	return f.progresses, nil
}

func (f *fileStateStorage) Set(
	key string, value *Progress,
) error {

	f.mutex.Lock()
	defer f.mutex.Unlock()
	f.progresses[key] = value
	return nil
}

func (f *fileStateStorage) autoStoreHandler() {
	for {
		select {
		case <-f.shutdownWaiter.AwaitShutdownChan():
			f.ticker.Stop()
			f.shutdownWaiter.SignalDone()
			return

		case <-f.ticker.C:
			if err := f.Save(); err != nil {
				f.logger.Warnf("failed to auto store state: %s", err.Error())
			}
		}
	}
}

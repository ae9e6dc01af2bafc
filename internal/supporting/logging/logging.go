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
	"github.com/go-errors/errors"
	"github.com/gookit/color"
	"github.com/gookit/slog"
	"github.com/gookit/slog/handler"
	"github.com/gookit/slog/rotatefile"
	"github.com/inhies/go-bytesize"
	spiconfig "github.com/noctarius/cql-workload/spi/config"
	"os"
	"strings"
	"sync"
	"time"
)

var WithVerbose = false
var WithCaller = false

const (
	VerboseLevel slog.Level        = 650
	fiveMegabyte bytesize.ByteSize = 5242880
)

type outputs struct {
	mutex          sync.Mutex
	config         spiconfig.LoggerConfig
	level          slog.Level
	console        slog.Handler
	consoleEnabled bool
	file           *handler.SyncCloseHandler
	files          map[string]*handler.SyncCloseHandler
}

var defaultOutputs = &outputs{
	level:          slog.InfoLevel,
	consoleEnabled: true,
	files:          make(map[string]*handler.SyncCloseHandler),
}

func init() {
	slog.LevelNames[VerboseLevel] = "VERBOSE"
	slog.AllLevels = slog.Levels{
		slog.PanicLevel,
		slog.FatalLevel,
		slog.ErrorLevel,
		slog.WarnLevel,
		slog.NoticeLevel,
		slog.InfoLevel,
		VerboseLevel,
		slog.DebugLevel,
		slog.TraceLevel,
	}
	slog.ColorTheme[VerboseLevel] = color.FgLightGreen
	defaultOutputs.console = newConsoleHandler(false)
}

// InitializeLogging configures the shared console and file outputs. Loggers
// created before initialization keep the defaults (info level, console only).
func InitializeLogging(
	config *spiconfig.Config, logToStdErr bool,
) error {

	defaultOutputs.mutex.Lock()
	defer defaultOutputs.mutex.Unlock()

	defaultOutputs.config = config.Logging
	defaultOutputs.level = Name2Level(config.Logging.Level)
	defaultOutputs.console = newConsoleHandler(logToStdErr)
	defaultOutputs.consoleEnabled =
		config.Logging.Outputs.Console.Enabled == nil || *config.Logging.Outputs.Console.Enabled

	_, fileHandler, err := defaultOutputs.fileHandler(config.Logging.Outputs.File)
	if err != nil {
		return err
	}
	defaultOutputs.file = fileHandler
	return nil
}

// Flush closes all file outputs, flushing buffered records.
func Flush() {
	defaultOutputs.mutex.Lock()
	defer defaultOutputs.mutex.Unlock()
	for path, h := range defaultOutputs.files {
		_ = h.Close()
		delete(defaultOutputs.files, path)
	}
	defaultOutputs.file = nil
}

func newConsoleHandler(
	logToStdErr bool,
) slog.Handler {

	consoleHandler := handler.NewConsoleHandler(slog.AllLevels)
	template := "[{{datetime}}] [{{level}}] {{message}} {{data}} {{extra}}\n"
	if WithCaller {
		template = "[{{datetime}}] [{{level}}] [{{caller}}] {{message}} {{data}} {{extra}}\n"
	}
	consoleHandler.TextFormatter().SetTemplate(template)
	if logToStdErr {
		consoleHandler.IOWriterHandler = *handler.NewIOWriterHandler(os.Stderr, slog.AllLevels)
	}
	return &consoleHandlerSyncAdapter{ConsoleHandler: consoleHandler}
}

type consoleHandlerSyncAdapter struct {
	*handler.ConsoleHandler
	mutex sync.Mutex
}

func (h *consoleHandlerSyncAdapter) Handle(
	record *slog.Record,
) error {

	h.mutex.Lock()
	defer h.mutex.Unlock()
	return h.ConsoleHandler.Handle(record)
}

type Logger struct {
	slogger *slog.Logger
	level   slog.Level
	name    string
}

func NewLogger(
	name string,
) (*Logger, error) {

	defaultOutputs.mutex.Lock()
	defer defaultOutputs.mutex.Unlock()

	handlers := make([]slog.Handler, 0, 2)
	level := defaultOutputs.level

	if config, found := defaultOutputs.config.Loggers[name]; found {
		if config.Outputs.Console.Enabled == nil || *config.Outputs.Console.Enabled {
			handlers = append(handlers, defaultOutputs.console)
		}

		found, fileHandler, err := defaultOutputs.fileHandler(config.Outputs.File)
		if err != nil {
			return nil, err
		}

		if found {
			handlers = append(handlers, fileHandler)
		} else if defaultOutputs.file != nil {
			handlers = append(handlers, defaultOutputs.file)
		}

		if config.Level != nil {
			level = Name2Level(*config.Level)
		}
	} else {
		if defaultOutputs.consoleEnabled {
			handlers = append(handlers, defaultOutputs.console)
		}
		if defaultOutputs.file != nil {
			handlers = append(handlers, defaultOutputs.file)
		}
	}

	slogger := slog.NewWithName(name, func(l *slog.Logger) {
		l.CallerSkip = l.CallerSkip + 2
		l.ReportCaller = WithCaller
		l.AddHandlers(handlers...)
	})

	return &Logger{
		level:   level,
		slogger: slogger,
		name:    name,
	}, nil
}

// MustNewLogger is NewLogger for package level loggers, where a
// failing file output can't be reported any other way.
func MustNewLogger(
	name string,
) *Logger {

	logger, err := NewLogger(name)
	if err != nil {
		panic(err)
	}
	return logger
}

func (l *Logger) Tracef(format string, args ...any) {
	l.logf(slog.TraceLevel, format, args)
}

func (l *Logger) Debugf(format string, args ...any) {
	l.logf(slog.DebugLevel, format, args)
}

func (l *Logger) Verbosef(format string, args ...any) {
	l.logf(VerboseLevel, format, args)
}

func (l *Logger) Infof(format string, args ...any) {
	l.logf(slog.InfoLevel, format, args)
}

func (l *Logger) Infoln(args ...any) {
	l.log(slog.InfoLevel, args)
}

func (l *Logger) Warnf(format string, args ...any) {
	l.logf(slog.WarnLevel, format, args)
}

func (l *Logger) Errorf(format string, args ...any) {
	l.logf(slog.ErrorLevel, format, args)
}

func (l *Logger) Errorln(args ...any) {
	l.log(slog.ErrorLevel, args)
}

func (l *Logger) Fatalf(format string, args ...any) {
	l.logf(slog.FatalLevel, format, args)
}

func (l *Logger) IsVerbose() bool {
	return l.level >= VerboseLevel || WithVerbose
}

func (l *Logger) logf(
	level slog.Level, format string, args []any,
) {

	if l.enabled(level) {
		format = strings.TrimSuffix(format, "\n")
		l.slogger.Logf(level, fmt.Sprintf("[%s] %s", l.name, format), args...)
	}
}

func (l *Logger) log(
	level slog.Level, args []any,
) {

	if l.enabled(level) {
		args = append([]any{fmt.Sprintf("[%s]", l.name)}, args...)
		l.slogger.Log(level, args...)
	}
}

func (l *Logger) enabled(
	level slog.Level,
) bool {

	return l.level >= level || (level == VerboseLevel && WithVerbose)
}

func Name2Level(
	ln string,
) slog.Level {

	switch strings.ToLower(ln) {
	case "panic":
		return slog.PanicLevel
	case "fatal":
		return slog.FatalLevel
	case "err", "error":
		return slog.ErrorLevel
	case "warn", "warning":
		return slog.WarnLevel
	case "notice":
		return slog.NoticeLevel
	case "verbose":
		return VerboseLevel
	case "debug":
		return slog.DebugLevel
	case "trace":
		return slog.TraceLevel
	default:
		return slog.InfoLevel
	}
}

// fileHandler must be called with the outputs mutex held.
func (o *outputs) fileHandler(
	config spiconfig.LoggerFileConfig,
) (bool, *handler.SyncCloseHandler, error) {

	if config.Enabled == nil || !*config.Enabled {
		return false, nil, nil
	}

	if h, ok := o.files[config.Path]; ok {
		return true, h, nil
	}

	configurator := func(c *handler.Config) {
		c.Levels = slog.AllLevels
		c.Level = slog.TraceLevel
		c.Compress = config.Compress
	}

	var fileHandler *handler.SyncCloseHandler
	var err error
	switch {
	case config.Rotate == nil || !*config.Rotate:
		fileHandler, err = handler.NewBuffFileHandler(config.Path, 1024, configurator)

	case config.MaxDuration != nil:
		seconds := rotatefile.RotateTime((time.Second * time.Duration(*config.MaxDuration)).Seconds())
		fileHandler, err = handler.NewTimeRotateFileHandler(config.Path, seconds, configurator)

	default:
		maxSize := fiveMegabyte
		if config.MaxSize != nil {
			bs, perr := bytesize.Parse(*config.MaxSize)
			if perr != nil {
				return false, nil, errors.Errorf(
					"Failed to parse max size property '%s' => %s", *config.MaxSize, perr.Error(),
				)
			}
			maxSize = bs
		}
		fileHandler, err = handler.NewSizeRotateFileHandler(config.Path, int(maxSize), configurator)
	}

	if err != nil {
		return false, nil, errors.Errorf("Failed to initialize logfile handler => %s", err.Error())
	}

	o.files[config.Path] = fileHandler
	return true, fileHandler, nil
}

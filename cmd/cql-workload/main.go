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
	"context"
	"fmt"
	"github.com/noctarius/cql-workload/internal/supporting"
	"github.com/noctarius/cql-workload/internal/supporting/logging"
	"github.com/noctarius/cql-workload/spi/version"
	"github.com/urfave/cli"
	"golang.org/x/exp/slices"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
)

var (
	configurationFile string
	databaseUser      string
	databasePassword  string
	datacenter        string
	verbose           bool
	withCaller        bool
	logToStdErr       bool
	versionOnly       bool
)

// global flags which are followed by a value
var globalValueFlags = []string{"config", "c", "db_user", "db_pass", "datacenter"}

func main() {
	app := newApp()
	if err := app.Run(reorderArgs(os.Args)); err != nil {
		log.Fatal(err)
	}
}

func newApp() *cli.App {
	app := cli.NewApp()
	app.Name = version.BinName
	app.Usage = "Schema driven workload generator for Cassandra tables"
	app.UsageText = fmt.Sprintf(
		"%s [global options] ip_list schema_file command [command options]", version.BinName,
	)
	app.Version = version.Version
	app.HideVersion = true
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:        "config,c",
			Value:       "",
			Usage:       "Load configuration from `FILE`",
			Destination: &configurationFile,
		},
		cli.StringFlag{
			Name:        "db_user",
			Value:       "",
			Usage:       "Authentication username",
			Destination: &databaseUser,
		},
		cli.StringFlag{
			Name:        "db_pass",
			Value:       "",
			Usage:       "Authentication password",
			Destination: &databasePassword,
		},
		cli.StringFlag{
			Name:        "datacenter",
			Value:       "",
			Usage:       "Local `DATACENTER` for token aware routing and keyspace replication",
			Destination: &datacenter,
		},
		cli.BoolFlag{
			Name:        "verbose",
			Usage:       "Show verbose output",
			Destination: &verbose,
		},
		cli.BoolFlag{
			Name:        "caller",
			Usage:       "Collect caller information for log messages",
			Destination: &withCaller,
		},
		cli.BoolFlag{
			Name:        "log-to-stderr",
			Usage:       "Redirects logging output to stderr, necessary when using the stdout journal",
			Destination: &logToStdErr,
		},
		cli.BoolFlag{
			Name:        "version",
			Usage:       "Prints the version and exits",
			Destination: &versionOnly,
		},
	}
	app.Commands = []cli.Command{
		insertCommand(),
		updateCommand(),
		describeCommand(),
		filterCommand(),
	}
	app.Action = func(ctx *cli.Context) error {
		if versionOnly {
			fmt.Fprintf(ctx.App.Writer, "%s version %s (git revision %s; branch %s)\n",
				version.BinName, version.Version, version.CommitHash, version.Branch,
			)
			return nil
		}
		if ctx.NArg() == 0 {
			cli.ShowAppHelp(ctx)
			return cli.NewExitError("", supporting.ExitCodeUsage)
		}
		return cli.NewExitError(
			fmt.Sprintf("Unrecognized command, expected ip_list schema_file command: %s",
				strings.Join(ctx.Args(), " "),
			), supporting.ExitCodeUsage,
		)
	}
	return app
}

// reorderArgs moves the command in front of the positional ip_list and
// schema_file arguments, which are handed to the command. The command
// line "[global flags] ip_list schema_file command [flags]" becomes
// "[global flags] command ip_list schema_file [flags]".
func reorderArgs(
	args []string,
) []string {

	if len(args) < 2 {
		return args
	}

	reordered := []string{args[0]}
	positionals := make([]string, 0, 2)

	i := 1
	for ; i < len(args); i++ {
		arg := args[i]
		if arg == "--" {
			i++
			break
		}
		if strings.HasPrefix(arg, "-") {
			reordered = append(reordered, arg)
			name := strings.TrimLeft(arg, "-")
			if !strings.Contains(name, "=") && slices.Contains(globalValueFlags, name) && i+1 < len(args) {
				i++
				reordered = append(reordered, args[i])
			}
			continue
		}
		if len(positionals) == 2 {
			break
		}
		positionals = append(positionals, arg)
	}

	if i >= len(args) {
		return append(reordered, positionals...)
	}

	reordered = append(reordered, args[i])
	reordered = append(reordered, positionals...)
	return append(reordered, args[i+1:]...)
}

// signalContext returns a context which is cancelled on the first
// interrupt. A second interrupt terminates the process immediately.
func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	done := make(chan struct{})
	go func() {
		select {
		case <-signals:
			fmt.Fprintf(os.Stderr, "Interrupted, stopping after the current batch\n")
			cancel()
		case <-done:
			return
		}
		select {
		case <-signals:
			logging.Flush()
			os.Exit(1)
		case <-done:
		}
	}()

	return ctx, func() {
		signal.Stop(signals)
		close(done)
		cancel()
	}
}

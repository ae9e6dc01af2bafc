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
	"fmt"
	"github.com/go-errors/errors"
	"github.com/urfave/cli"
)

const (
	ExitCodeUsage         = 2
	ExitCodeConfiguration = 3
	ExitCodeSchema        = 4
	ExitCodeConnect       = 10
	ExitCodeWorkload      = 11
)

func AdaptError(
	err error, exitCode int,
) *cli.ExitError {

	if err == nil {
		return nil
	}
	var exitError *cli.ExitError
	if errors.As(err, &exitError) {
		return exitError
	}
	return cli.NewExitError(err.Error(), exitCode)
}

func AdaptErrorWithMessage(
	err error, msg string, exitCode int,
) *cli.ExitError {

	if err == nil {
		return nil
	}
	var exitError *cli.ExitError
	if errors.As(err, &exitError) {
		return exitError
	}
	return cli.NewExitError(fmt.Sprintf("%s => err: %s", msg, err.Error()), exitCode)
}

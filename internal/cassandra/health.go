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

package cassandra

import (
	"context"
	"github.com/go-errors/errors"
	"github.com/gookit/goutil/sysutil"
	"strings"
)

// NodeHealth runs the configured health command, `nodetool status` by
// default. The output is returned even if the command exits non-zero,
// nodetool reports an unreachable node that way.
func (s *Session) NodeHealth(
	ctx context.Context,
) (string, error) {

	if err := ctx.Err(); err != nil {
		return "", err
	}
	if len(s.healthCommand) == 0 {
		return "", errors.Errorf("no health command configured")
	}

	commandLine := strings.Join(s.healthCommand, " ") + " 2>&1"
	output, err := sysutil.ExecCmd("sh", []string{"-c", commandLine})
	if err != nil {
		return output, errors.WrapPrefix(err, "health command failed", 0)
	}
	return output, nil
}

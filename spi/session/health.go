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

package session

import (
	"regexp"
	"strings"
)

var peerDownRegex = regexp.MustCompile(`(?m)^D[NLJM]\s`)

// NodeStatus is the cluster state derived from a node health probe
type NodeStatus int

const (
	NodesUp NodeStatus = iota
	LocalNodeDown
	PeerNodeDown
	StatusUnknown
)

func (s NodeStatus) String() string {
	switch s {
	case NodesUp:
		return "all nodes up"
	case LocalNodeDown:
		return "local node down"
	case PeerNodeDown:
		return "peer node down"
	}
	return "unknown"
}

// ClassifyHealth interprets the output of `nodetool status`. A probe that
// couldn't reach the local node reports "Failed to connect", a peer in
// state down is listed with a D? status code.
func ClassifyHealth(
	output string,
) NodeStatus {

	if strings.Contains(output, "Failed to connect") {
		return LocalNodeDown
	}
	if peerDownRegex.MatchString(output) {
		return PeerNodeDown
	}
	if strings.Contains(output, "Datacenter:") || strings.Contains(output, "UN ") {
		return NodesUp
	}
	return StatusUnknown
}

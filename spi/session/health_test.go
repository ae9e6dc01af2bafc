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
	"github.com/stretchr/testify/assert"
	"testing"
)

const healthyStatus = `Datacenter: datacenter1
=======================
Status=Up/Down
|/ State=Normal/Leaving/Joining/Moving
--  Address    Load       Tokens  Owns (effective)  Host ID                               Rack
UN  10.0.0.1   105.3 KiB  16      100.0%            0e1b1d7e-5a9f-4a3d-9d1c-0c8e0a7c2f11  rack1
UN  10.0.0.2   98.1 KiB   16      100.0%            5f8c3c3e-1f2a-4c6e-8e3a-7b0d7c9e4a22  rack1
`

func Test_Classify_Health(
	t *testing.T,
) {

	assert.Equal(t, NodesUp, ClassifyHealth(healthyStatus))

	peerDown := healthyStatus + "DN  10.0.0.3   101.7 KiB  16      100.0%            9a6d... rack1\n"
	assert.Equal(t, PeerNodeDown, ClassifyHealth(peerDown))

	assert.Equal(t, LocalNodeDown, ClassifyHealth(
		"nodetool: Failed to connect to '127.0.0.1:7199' - ConnectException: 'Connection refused'.",
	))

	assert.Equal(t, StatusUnknown, ClassifyHealth(""))
	assert.Equal(t, "peer node down", PeerNodeDown.String())
}

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
	"time"
)

// Progress is the persisted position of a continuous workload on one
// table. Frontier is the smallest record key not created yet.
type Progress struct {
	Frontier  int64     `json:"frontier"`
	Batches   uint64    `json:"batches"`
	Records   uint64    `json:"records"`
	Timestamp time.Time `json:"timestamp"`
}

func (p *Progress) Equal(
	other *Progress,
) bool {

	return p.Frontier == other.Frontier &&
		p.Batches == other.Batches &&
		p.Records == other.Records &&
		p.Timestamp.Equal(other.Timestamp)
}

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

package workload

import (
	"github.com/noctarius/cql-workload/internal/statements"
	"golang.org/x/exp/rand"
)

const updatePercentage = 70

type mutation struct {
	kind statements.Kind
	key  int64
}

// planner picks the mutations of continuous batches. New records are
// created at the frontier, updates and deletes hit records below it.
type planner struct {
	random           *rand.Rand
	insertPercentage int
	frontier         int64
}

func newPlanner(
	random *rand.Rand, insertPercentage int, frontier int64,
) *planner {

	return &planner{
		random:           random,
		insertPercentage: insertPercentage,
		frontier:         frontier,
	}
}

// plan returns the next batch and the frontier after it was executed
// successfully. Existing keys are drawn below the committed frontier
// only, the records inserted by the same batch don't exist yet.
func (p *planner) plan(
	size int,
) ([]mutation, int64) {

	next := p.frontier
	mutations := make([]mutation, 0, size)
	for i := 0; i < size; i++ {
		if p.frontier == 0 || p.random.Intn(100) < p.insertPercentage {
			mutations = append(mutations, mutation{kind: statements.InsertStatement, key: next})
			next++
			continue
		}

		key := p.random.Int63n(p.frontier)
		kind := statements.DeleteStatement
		if p.random.Intn(100) < updatePercentage {
			kind = statements.UpdateStatement
		}
		mutations = append(mutations, mutation{kind: kind, key: key})
	}
	return mutations, next
}

func (p *planner) commit(
	frontier int64,
) {

	p.frontier = frontier
}

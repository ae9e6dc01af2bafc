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

package systemcatalog

import (
	"github.com/noctarius/cql-workload/spi/cqltypes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"testing"
)

func Test_Table_Filler_Is_First_Regular_Textual_Column(
	t *testing.T,
) {

	table := NewTable("ks1", "users", []Column{
		NewColumn("id", cqltypes.Of(cqltypes.UTF8), KeyRole),
		NewColumn("age", cqltypes.Of(cqltypes.Int32), RegularRole),
		NewColumn("nick", cqltypes.Of(cqltypes.Ascii), RegularRole),
		NewColumn("bio", cqltypes.Of(cqltypes.UTF8), RegularRole),
	})

	filler, present := table.Filler()
	require.True(t, present)
	assert.Equal(t, "nick", filler.Name())
	assert.False(t, table.IsCounterTable())
	assert.Len(t, table.KeyColumns(), 1)
	assert.Len(t, table.RegularColumns(), 3)
	assert.Equal(t, "ks1.users", table.CanonicalName())
}

func Test_Table_Without_Filler(
	t *testing.T,
) {

	table := NewTable("ks1", "Events", []Column{
		NewColumn("id", cqltypes.Of(cqltypes.Long), KeyRole),
		NewColumn("tags", cqltypes.ListOf(cqltypes.Of(cqltypes.UTF8)), RegularRole),
	})

	_, present := table.Filler()
	assert.False(t, present)
	assert.Equal(t, `ks1."Events"`, table.CanonicalName())
}

func Test_Table_Counter_Detection(
	t *testing.T,
) {

	table := NewTable("ks1", "hits", []Column{
		NewColumn("page", cqltypes.Of(cqltypes.UTF8), KeyRole),
		NewColumn("views", cqltypes.Of(cqltypes.Counter), RegularRole),
	})

	assert.True(t, table.IsCounterTable())
	column, present := table.Column("views")
	require.True(t, present)
	assert.True(t, column.IsCounter())

	_, present = table.Column("clicks")
	assert.False(t, present)
}

func Test_Parse_Role(
	t *testing.T,
) {

	for kind, expected := range map[string]Role{
		"partition_key":  KeyRole,
		"clustering":     KeyRole,
		"clustering_key": KeyRole,
		"regular":        RegularRole,
		"static":         StaticRole,
		"compact_value":  RegularRole,
	} {
		role, err := ParseRole(kind)
		require.NoError(t, err)
		assert.Equal(t, expected, role, kind)
	}

	_, err := ParseRole("primary")
	assert.ErrorContains(t, err, "unknown column kind 'primary'")
}

func Test_Static_Columns_Are_Not_Regular(
	t *testing.T,
) {

	table := NewTable("ks1", "events", []Column{
		NewColumn("id", cqltypes.Of(cqltypes.Int32), KeyRole),
		NewColumn("seq", cqltypes.Of(cqltypes.Int32), KeyRole),
		NewColumn("owner", cqltypes.Of(cqltypes.UTF8), StaticRole),
		NewColumn("body", cqltypes.Of(cqltypes.UTF8), RegularRole),
	})

	regular := table.RegularColumns()
	require.Len(t, regular, 1)
	assert.Equal(t, "body", regular[0].Name())

	filler, present := table.Filler()
	require.True(t, present)
	assert.Equal(t, "body", filler.Name())

	owner, present := table.Column("owner")
	require.True(t, present)
	assert.True(t, owner.IsStatic())
	assert.False(t, owner.IsKey())
	assert.Equal(t, "static", table.Describe().Columns[2].Role)
}

func Test_Table_Describe(
	t *testing.T,
) {

	table := NewTable("ks1", "users", []Column{
		NewColumn("id", cqltypes.Of(cqltypes.Int32), KeyRole),
		NewColumn("name", cqltypes.Of(cqltypes.UTF8), RegularRole),
	})

	description := table.Describe()
	assert.Equal(t, "name", description.Filler)
	require.Len(t, description.Columns, 2)
	assert.Equal(t, "key", description.Columns[0].Role)
	assert.Equal(t, "int", description.Columns[0].Type)
	assert.Equal(t, "org.apache.cassandra.db.marshal.UTF8Type", description.Columns[1].Descriptor)
}

package compiler_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/relq"
	"github.com/syssam/relq/compiler"
	"github.com/syssam/relq/dialect"
)

func TestSelectRelation(t *testing.T) {
	t.Parallel()

	c := compiler.New(dialect.Postgres, graph)

	// One-to-many: the target becomes the root, correlated back to the owner
	// through the inverse relation.
	stmt, err := c.SelectRelation("User", relq.Instance{"id": 1}, "pets", nil)
	require.NoError(t, err)
	assert.Equal(t, "SELECT t0.id, t0.name, t0.nickname FROM pets t0 JOIN users t1 ON t0.owner_id = t1.id WHERE t1.id = $1", stmt.SQL)
	assert.Equal(t, []relq.Value{1}, stmt.Params)

	// Sub-query clauses apply to the relation rows.
	stmt, err = c.SelectRelation("User", relq.Instance{"id": 1}, "pets", &relq.Query{
		Filter:  relq.FieldNotNull("nickname"),
		Sorting: []relq.SortDescriptor{relq.Asc("name")},
		Paging:  relq.Limit(5),
	})
	require.NoError(t, err)
	assert.Equal(t, "SELECT t0.id, t0.name, t0.nickname FROM pets t0 JOIN users t1 ON t0.owner_id = t1.id WHERE (t1.id = $1) AND (t0.nickname IS NOT NULL) ORDER BY t0.name ASC LIMIT 5", stmt.SQL)
	assert.Equal(t, []relq.Value{1}, stmt.Params)

	// Many-to-many goes through the association table of the inverse side.
	stmt, err = c.SelectRelation("User", relq.Instance{"id": 3}, "groups", nil)
	require.NoError(t, err)
	assert.Equal(t, "SELECT t0.id, t0.name FROM groups t0 JOIN group_users t1 ON t1.group_id = t0.id JOIN users t2 ON t2.id = t1.user_id WHERE t2.id = $1", stmt.SQL)
	assert.Equal(t, []relq.Value{3}, stmt.Params)

	// Many-to-one yields the single parent row.
	stmt, err = c.SelectRelation("Pet", relq.Instance{"id": 9}, "owner", nil)
	require.NoError(t, err)
	assert.Equal(t, "SELECT t0.id, t0.name, t0.age FROM users t0 JOIN pets t1 ON t1.owner_id = t0.id WHERE t1.id = $1", stmt.SQL)
	assert.Equal(t, []relq.Value{9}, stmt.Params)
}

func TestSelectRelationJoinReuse(t *testing.T) {
	t.Parallel()

	// A sub-filter referencing the inverse path lands on the correlation
	// join instead of emitting a second one.
	stmt, err := compiler.New(dialect.Postgres, graph).SelectRelation("User", relq.Instance{"id": 1}, "pets", &relq.Query{
		Filter: relq.HasRelationWith("owner", relq.FieldGT("age", 30)),
	})
	require.NoError(t, err)
	assert.Equal(t, "SELECT t0.id, t0.name, t0.nickname FROM pets t0 JOIN users t1 ON t0.owner_id = t1.id WHERE (t1.id = $1) AND (t1.age > $2)", stmt.SQL)
	assert.Equal(t, []relq.Value{1, 30}, stmt.Params)
}

func TestSelectRelationUniDirectional(t *testing.T) {
	t.Parallel()

	c := compiler.New(dialect.Postgres, graph)

	// No inverse relation to navigate; correlate on the foreign key.
	stmt, err := c.SelectRelation("User", relq.Instance{"id": 1}, "badges", nil)
	require.NoError(t, err)
	assert.Equal(t, "SELECT t0.id, t0.label FROM badges t0 WHERE t0.user_id = $1", stmt.SQL)
	assert.Equal(t, []relq.Value{1}, stmt.Params)

	// Uni-directional many-to-many correlates through the association table.
	stmt, err = c.SelectRelation("User", relq.Instance{"id": 1}, "tags", nil)
	require.NoError(t, err)
	assert.Equal(t, "SELECT t0.id, t0.name FROM tags t0 JOIN users_tags t1 ON t1.tag_id = t0.id WHERE t1.user_id = $1", stmt.SQL)
	assert.Equal(t, []relq.Value{1}, stmt.Params)
}

func TestBatchSelectRelation(t *testing.T) {
	t.Parallel()

	c := compiler.New(dialect.Postgres, graph)
	owners := []relq.Instance{{"id": 1, "name": "a8m"}, {"id": 2, "name": "nati"}}

	stmt, err := c.BatchSelectRelation("User", owners, "pets", &relq.Query{
		Filter: relq.FieldEQ("name", "Luna"),
	})
	require.NoError(t, err)
	assert.Equal(t, "SELECT t0.id, t0.name, t0.nickname, t1.id AS relq_owner_ref FROM pets t0 JOIN users t1 ON t0.owner_id = t1.id WHERE (t1.id IN ($1, $2)) AND (t0.name = $3)", stmt.SQL)
	assert.Equal(t, []relq.Value{1, 2, "Luna"}, stmt.Params)

	stmt, err = c.BatchSelectRelation("User", owners, "groups", nil)
	require.NoError(t, err)
	assert.Equal(t, "SELECT t0.id, t0.name, t2.id AS relq_owner_ref FROM groups t0 JOIN group_users t1 ON t1.group_id = t0.id JOIN users t2 ON t2.id = t1.user_id WHERE t2.id IN ($1, $2)", stmt.SQL)
	assert.Equal(t, []relq.Value{1, 2}, stmt.Params)

	// Uni-directional batches carry the foreign key itself as the owner ref.
	stmt, err = c.BatchSelectRelation("User", owners, "badges", nil)
	require.NoError(t, err)
	assert.Equal(t, "SELECT t0.id, t0.label, t0.user_id AS relq_owner_ref FROM badges t0 WHERE t0.user_id IN ($1, $2)", stmt.SQL)
	assert.Equal(t, []relq.Value{1, 2}, stmt.Params)

	stmt, err = c.BatchSelectRelation("User", owners, "tags", nil)
	require.NoError(t, err)
	assert.Equal(t, "SELECT t0.id, t0.name, t1.user_id AS relq_owner_ref FROM tags t0 JOIN users_tags t1 ON t1.tag_id = t0.id WHERE t1.user_id IN ($1, $2)", stmt.SQL)
	assert.Equal(t, []relq.Value{1, 2}, stmt.Params)
}

func TestRelationSelectErrors(t *testing.T) {
	t.Parallel()

	c := compiler.New(dialect.Postgres, graph)

	// The relation is checked before any SQL is assembled.
	_, err := c.SelectRelation("User", relq.Instance{"id": 1}, "badRelations", nil)
	require.Error(t, err)
	assert.True(t, relq.IsRelationNotFound(err))

	_, err = c.BatchSelectRelation("User", nil, "pets", nil)
	assert.Error(t, err)

	// Owner instances must carry the key the correlation reads.
	_, err = c.SelectRelation("User", relq.Instance{"name": "a8m"}, "pets", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `missing field "id"`)

	_, err = c.SelectRelation("Ghost", relq.Instance{"id": 1}, "pets", nil)
	assert.Error(t, err)
}

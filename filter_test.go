package relq_test

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/syssam/relq"
)

func TestFilterString(t *testing.T) {
	t.Parallel()

	tests := []struct {
		F *relq.Filter
		S string
	}{
		{
			F: relq.And(
				relq.FieldEQ("name", "a8m"),
				relq.FieldIn("org", "fb", "ent"),
			),
			S: `(name == "a8m" && org in ["fb","ent"])`,
		},
		{
			F: relq.Or(
				relq.Not(relq.FieldEQ("name", "mashraki")),
				relq.FieldIn("org", "fb", "ent"),
			),
			S: `(!(name == "mashraki") || org in ["fb","ent"])`,
		},
		{
			F: relq.HasRelationWith(
				"groups",
				relq.HasRelationWith(
					"admins",
					relq.Not(relq.FieldEQ("name", "a8m")),
				),
			),
			S: `has_relation(groups, has_relation(admins, !(name == "a8m")))`,
		},
		{
			F: relq.And(
				relq.FieldGT("age", 30),
				relq.FieldContains("workplace", "fb"),
			),
			S: `(age > 30 && workplace like "%fb%")`,
		},
		{
			F: relq.Not(relq.FieldLT("score", 32.23)),
			S: `!(score < 32.23)`,
		},
		{
			F: relq.And(
				relq.FieldIsNull("active"),
				relq.FieldNotNull("name"),
			),
			S: `(active == nil && name != nil)`,
		},
		{
			F: relq.Or(
				relq.FieldNotIn("id", 1, 2, 3),
				relq.FieldHasSuffix("name", "admin"),
			),
			S: `(id not in [1,2,3] || name like "%admin")`,
		},
		{
			F: relq.FieldBetween("age", 18, 65),
			S: `age between [18,65]`,
		},
		{
			F: relq.FieldEQ("current", 7).Negate(),
			S: `!(current == 7)`,
		},
	}
	for i := range tests {
		t.Run(strconv.Itoa(i), func(t *testing.T) {
			assert.Equal(t, tests[i].S, tests[i].F.String())
		})
	}
}

func TestFieldPredicates(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		F    *relq.Filter
		S    string
	}{
		{
			name: "FieldNEQ",
			F:    relq.FieldNEQ("status", "active"),
			S:    `status != "active"`,
		},
		{
			name: "FieldGTE",
			F:    relq.FieldGTE("age", 18),
			S:    `age >= 18`,
		},
		{
			name: "FieldLTE",
			F:    relq.FieldLTE("price", 100),
			S:    `price <= 100`,
		},
		{
			name: "FieldContainsFold",
			F:    relq.FieldContainsFold("name", "John"),
			S:    `name like "%john%"`,
		},
		{
			name: "FieldEqualFold",
			F:    relq.FieldEqualFold("email", "TEST@EXAMPLE.COM"),
			S:    `email ==~ "test@example.com"`,
		},
		{
			name: "FieldHasPrefix",
			F:    relq.FieldHasPrefix("path", "/api/"),
			S:    `path like "/api/%"`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.S, tt.F.String())
		})
	}
}

func TestNaryExpressions(t *testing.T) {
	t.Parallel()

	f := relq.And(
		relq.FieldEQ("a", 1),
		relq.FieldEQ("b", 2),
		relq.FieldEQ("c", 3),
	)
	assert.Equal(t, `(a == 1 && b == 2 && c == 3)`, f.String())

	f = relq.Or(
		relq.FieldEQ("x", 1),
		relq.FieldEQ("y", 2),
		relq.FieldEQ("z", 3),
	)
	assert.Equal(t, `(x == 1 || y == 2 || z == 3)`, f.String())

	// Single-child groups render without the wrapping parentheses.
	assert.Equal(t, `a == 1`, relq.And(relq.FieldEQ("a", 1)).String())
}

func TestNegate(t *testing.T) {
	t.Parallel()

	f := relq.FieldEQ("name", "test")
	assert.Equal(t, `!(name == "test")`, f.Negate().String())

	f2 := relq.Not(relq.FieldEQ("name", "test"))
	assert.Equal(t, `!(!(name == "test"))`, f2.Negate().String())
}

// Package relq describes database-agnostic relational queries and compiles
// them to parameterized SQL.
//
// A query is a plain value: a filter predicate tree, an ordered list of sort
// descriptors, a limit/offset window, and optional nested relation
// sub-queries. The compiler subpackage translates a Query against externally
// supplied relation metadata (see the schema subpackage) into a single SQL
// statement plus a positional parameter list. Values are never interpolated
// into the SQL text.
//
// # Basic Usage
//
//	q := &relq.Query{
//	    Filter:  relq.And(relq.FieldEQ("name", "a8m"), relq.FieldGT("age", 30)),
//	    Sorting: []relq.SortDescriptor{relq.Desc("age")},
//	    Paging:  relq.LimitOffset(10, 20),
//	}
//	stmt, err := compiler.New(dialect.Postgres, registry).Select("User", q)
//
// Compilation is a pure function of its inputs: queries are read-only, and
// every call builds its own join plan and parameter list, so concurrent
// compilations need no coordination.
package relq

// Value is a parameter value carried by a compiled statement. It is an alias
// for any so that driver-native types (time.Time, uuid.UUID, []byte, ...)
// pass through untouched.
type Value = any

// Instance is a loaded entity row, keyed by field name. Relation queries use
// it to read the owner-side key values they correlate on.
type Instance map[string]Value

// Query describes a query over one entity type. The zero value selects all
// rows. Queries are immutable inputs; the compiler never mutates them.
type Query struct {
	// Filter restricts the selected rows. Nil means no WHERE clause.
	Filter *Filter

	// Sorting lists ORDER BY terms in precedence order.
	Sorting []SortDescriptor

	// Paging windows the result set. Nil means no LIMIT/OFFSET clause.
	Paging *Paging

	// Relations carries sub-queries scoped to named relations of the root
	// entity. Each relation's filter is AND-ed into the overall WHERE,
	// qualified by the relation's join alias.
	Relations []RelationQuery
}

// RelationQuery scopes a sub-query to a named relation of the enclosing
// query's entity. Name may be a dotted path for nested relations
// (e.g. "owner.group").
type RelationQuery struct {
	Name  string
	Query *Query
}

// Direction is an ORDER BY direction.
type Direction string

// Sort directions.
const (
	OrderAsc  Direction = "ASC"
	OrderDesc Direction = "DESC"
)

// NullOrdering states where NULL values sort relative to non-NULL values.
// On dialects without native NULLS FIRST/LAST support the compiler emulates
// the requested edge with a CASE expression.
type NullOrdering uint8

const (
	// NullsDefault leaves NULL placement to the database.
	NullsDefault NullOrdering = iota
	// NullsFirst sorts NULL rows before non-NULL rows.
	NullsFirst
	// NullsLast sorts NULL rows after non-NULL rows.
	NullsLast
)

// SortDescriptor is one ORDER BY term. Field may be a dotted relation path
// ("owner.name"); the relation is joined (or its existing join reused) to
// qualify the column.
type SortDescriptor struct {
	Field     string
	Direction Direction
	Nulls     NullOrdering
}

// Asc returns an ascending sort descriptor for the given field.
func Asc(field string) SortDescriptor {
	return SortDescriptor{Field: field, Direction: OrderAsc}
}

// Desc returns a descending sort descriptor for the given field.
func Desc(field string) SortDescriptor {
	return SortDescriptor{Field: field, Direction: OrderDesc}
}

// WithNulls returns a copy of the descriptor with the given NULL placement.
func (s SortDescriptor) WithNulls(n NullOrdering) SortDescriptor {
	s.Nulls = n
	return s
}

// Paging is a numeric result window. Either bound may be left nil to omit
// the corresponding clause. There is no cursor semantics at this layer;
// paging forward or backward is just a different offset.
type Paging struct {
	Limit  *int
	Offset *int
}

// LimitOffset returns a Paging with both bounds set.
func LimitOffset(limit, offset int) *Paging {
	return &Paging{Limit: &limit, Offset: &offset}
}

// Limit returns a Paging with only the limit set.
func Limit(limit int) *Paging {
	return &Paging{Limit: &limit}
}

// Offset returns a Paging with only the offset set.
func Offset(offset int) *Paging {
	return &Paging{Offset: &offset}
}

// Package compiler translates relq queries into parameterized SQL for a
// target dialect, using relation metadata from the schema package.
//
// Three query shapes are supported:
//
//   - Select / Count: rows of a root entity, with filters, sorts and paging.
//   - SelectRelation: rows of a named relation of one entity instance.
//   - BatchSelectRelation: rows of a named relation of many instances in one
//     statement, correlated back to their owners through a carried key column.
//
// Every compilation builds its own join plan and parameter list, so a
// Compiler is safe for concurrent use. Relation paths referenced by filters,
// sorts, relation sub-queries and batch correlation all share one plan, which
// guarantees a path is joined at most once per statement.
package compiler

import (
	"fmt"
	"strings"

	"github.com/syssam/relq"
	"github.com/syssam/relq/schema"
)

// RootAlias is the table alias of the compiled statement's root entity.
// Joined relations are aliased t1, t2, ... in plan order.
const RootAlias = "t0"

// OwnerRefColumn is the column alias under which batched relation statements
// carry the owner-side key, so callers can regroup result rows per owner.
const OwnerRefColumn = "relq_owner_ref"

// CompiledStatement is the only artifact returned to callers: SQL text with
// dialect placeholders, positionally aligned with the parameter list.
type CompiledStatement struct {
	SQL    string
	Params []relq.Value
}

// Compiler compiles queries for one dialect against one metadata registry.
// It holds no per-call state.
type Compiler struct {
	dialect string
	reg     *schema.Registry
}

// New returns a Compiler for the given dialect and registry.
func New(dialect string, reg *schema.Registry) *Compiler {
	return &Compiler{dialect: dialect, reg: reg}
}

// Select compiles a query for rows of the named root entity.
func (c *Compiler) Select(entity string, q *relq.Query) (*CompiledStatement, error) {
	root, err := c.reg.Entity(entity)
	if err != nil {
		return nil, err
	}
	cp := c.newCompilation(root)
	return cp.selectStmt(q, nil, false)
}

// Count compiles a row count for the named root entity, applying the query's
// filters and relation sub-filters but not its sorting or paging. When the
// statement joins to-many relations the count is taken over distinct root
// keys to cancel row multiplication.
func (c *Compiler) Count(entity string, q *relq.Query) (*CompiledStatement, error) {
	root, err := c.reg.Entity(entity)
	if err != nil {
		return nil, err
	}
	cp := c.newCompilation(root)
	return cp.selectStmt(q, nil, true)
}

// SelectRelation compiles a query for the rows of the named relation of a
// single owner instance. The relation name is checked against the metadata
// before any SQL is assembled.
func (c *Compiler) SelectRelation(entity string, owner relq.Instance, relation string, q *relq.Query) (*CompiledStatement, error) {
	return c.relationSelect(entity, []relq.Instance{owner}, relation, q, false)
}

// BatchSelectRelation compiles one statement retrieving the rows of the named
// relation for every supplied owner instance, correlated with an IN list over
// the owner keys. Result rows carry the owner key as OwnerRefColumn; see
// relq.GroupByKey for regrouping them per owner.
func (c *Compiler) BatchSelectRelation(entity string, owners []relq.Instance, relation string, q *relq.Query) (*CompiledStatement, error) {
	return c.relationSelect(entity, owners, relation, q, true)
}

func (c *Compiler) relationSelect(entity string, owners []relq.Instance, relation string, q *relq.Query, batch bool) (*CompiledStatement, error) {
	owner, err := c.reg.Entity(entity)
	if err != nil {
		return nil, err
	}
	rel, err := owner.Relation(relation)
	if err != nil {
		return nil, err
	}
	target, err := c.reg.Entity(rel.Target)
	if err != nil {
		return nil, err
	}
	if len(owners) == 0 {
		return nil, fmt.Errorf("compiler: relation select requires at least one %s instance", entity)
	}
	cp := c.newCompilation(target)
	corrCol, keys, err := cp.correlate(owner, rel, target, owners)
	if err != nil {
		return nil, err
	}
	corr := func(b *Builder) error {
		if batch {
			b.WriteString(corrCol + " IN (").Args(keys...).WriteString(")")
		} else {
			b.WriteString(corrCol + " = ").Arg(keys[0])
		}
		return nil
	}
	var extra []string
	if batch {
		extra = append(extra, corrCol+" AS "+OwnerRefColumn)
	}
	return cp.selectStmt(q, corr, false, extra...)
}

// compilation is the per-call state: the join plan and the root resolution
// scope. It is never shared across calls.
type compilation struct {
	dialect string
	plan    *joinPlan
	res     resolver
	root    scope
}

func (c *Compiler) newCompilation(root *schema.Entity) *compilation {
	return &compilation{
		dialect: c.dialect,
		plan:    newJoinPlan(),
		res:     resolver{reg: c.reg},
		root:    scope{entity: root, alias: RootAlias},
	}
}

// cond writes one WHERE conjunct into the shared fragment builder.
type cond func(b *Builder) error

// selectStmt assembles the statement: SELECT <columns> FROM <table> t0,
// the joins accumulated in the plan, then WHERE, ORDER BY and LIMIT/OFFSET,
// omitting any clause whose input was absent. WHERE conjuncts run in a fixed
// order - correlation, root filter, relation sub-filters - which also fixes
// the parameter order.
func (cp *compilation) selectStmt(q *relq.Query, corr cond, count bool, extraCols ...string) (*CompiledStatement, error) {
	if q == nil {
		q = &relq.Query{}
	}
	conds := make([]cond, 0, 2+len(q.Relations))
	if corr != nil {
		conds = append(conds, corr)
	}
	if q.Filter != nil {
		f := q.Filter
		conds = append(conds, func(b *Builder) error { return cp.filter(b, cp.root, f) })
	}
	// Relation sub-queries join eagerly so their aliases exist even without
	// a sub-filter; the plan dedupes against filter-induced joins either way.
	for _, rq := range q.Relations {
		rsc, err := cp.res.resolve(cp.plan, cp.root, strings.Split(rq.Name, "."))
		if err != nil {
			return nil, err
		}
		if rq.Query == nil || rq.Query.Filter == nil {
			continue
		}
		f, sc := rq.Query.Filter, rsc
		conds = append(conds, func(b *Builder) error { return cp.filter(b, sc, f) })
	}
	where := newBuilder(cp.dialect)
	for i, cn := range conds {
		if i > 0 {
			where.WriteString(" AND ")
		}
		if len(conds) > 1 {
			where.WriteString("(")
		}
		if err := cn(where); err != nil {
			return nil, err
		}
		if len(conds) > 1 {
			where.WriteString(")")
		}
	}
	var order, window string
	if !count {
		var err error
		if order, err = cp.orderBy(q.Sorting); err != nil {
			return nil, err
		}
		if window, err = compilePaging(q.Paging); err != nil {
			return nil, err
		}
	}
	var cols string
	switch {
	case count && len(cp.plan.joins) > 0:
		cols = "COUNT(DISTINCT " + cp.root.alias + "." + cp.root.entity.Key.Column + ")"
	case count:
		cols = "COUNT(*)"
	default:
		cols = strings.Join(append(cp.root.entity.Columns(cp.root.alias), extraCols...), ", ")
	}
	b := newBuilder(cp.dialect)
	b.WriteString("SELECT " + cols + " FROM " + cp.root.entity.Table + " " + cp.root.alias)
	for _, j := range cp.plan.joins {
		b.WriteString(" " + j)
	}
	if where.Len() > 0 {
		b.WriteString(" WHERE " + where.String())
	}
	if order != "" {
		b.WriteString(" ORDER BY " + order)
	}
	if window != "" {
		b.WriteString(" " + window)
	}
	return &CompiledStatement{SQL: b.String(), Params: where.args}, nil
}

// column resolves a possibly-dotted field to a qualified column, joining the
// relation path (or reusing its existing joins) when the field crosses one.
func (cp *compilation) column(sc scope, field string) (string, error) {
	segs := strings.Split(field, ".")
	last := segs[len(segs)-1]
	if len(segs) > 1 {
		var err error
		if sc, err = cp.res.resolve(cp.plan, sc, segs[:len(segs)-1]); err != nil {
			return "", err
		}
	}
	col, ok := sc.entity.Column(last)
	if !ok {
		return "", relq.NewFieldResolutionError(sc.entity.Name, last)
	}
	return sc.alias + "." + col, nil
}

// correlate determines the column tying relation rows back to their owners
// and extracts the owner-side key values.
//
// For bidirectional relations the owner table is reached through the inverse
// relation via the standard resolver, so a filter referencing the same path
// reuses the correlation join instead of emitting a duplicate. Uni-directional
// relations correlate on the foreign key directly (through the association
// table for many-to-many); there is no navigable path a filter could collide
// with.
func (cp *compilation) correlate(owner *schema.Entity, rel *schema.Relation, target *schema.Entity, owners []relq.Instance) (string, []relq.Value, error) {
	if rel.Inverse != "" {
		sc, err := cp.res.resolve(cp.plan, cp.root, []string{rel.Inverse})
		if err != nil {
			return "", nil, err
		}
		keys, err := instanceValues(owner, owner.Key.Name, owners)
		if err != nil {
			return "", nil, err
		}
		return sc.alias + "." + owner.Key.Column, keys, nil
	}
	var corrCol string
	if rel.Kind == schema.M2M {
		jt := rel.AssocTable(owner, target)
		j := cp.plan.nextAlias()
		cp.plan.append(fmt.Sprintf("JOIN %s %s ON %s.%s = %s.%s",
			jt.Name, j, j, jt.InverseJoinColumn, cp.root.alias, rel.TargetColumn(owner, target)))
		corrCol = j + "." + jt.JoinColumn
	} else {
		corrCol = cp.root.alias + "." + rel.TargetColumn(owner, target)
	}
	field, ok := owner.FieldByColumn(rel.OwnerColumn(owner))
	if !ok {
		return "", nil, relq.NewFieldResolutionError(owner.Name, rel.OwnerColumn(owner))
	}
	keys, err := instanceValues(owner, field, owners)
	if err != nil {
		return "", nil, err
	}
	return corrCol, keys, nil
}

func instanceValues(e *schema.Entity, field string, owners []relq.Instance) ([]relq.Value, error) {
	vals := make([]relq.Value, len(owners))
	for i, in := range owners {
		v, ok := in[field]
		if !ok {
			return nil, fmt.Errorf("compiler: %s instance missing field %q", e.Name, field)
		}
		vals[i] = v
	}
	return vals, nil
}

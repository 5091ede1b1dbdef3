package compiler

import (
	"strconv"

	"github.com/syssam/relq/schema"
)

// planEntry is one resolved relation path: its assigned alias and the entity
// reached through it.
type planEntry struct {
	alias  string
	entity *schema.Entity
}

// joinPlan records the joins emitted for a single statement, keyed by the
// relation path from the root. A path appears at most once; resolving it
// again reuses the existing alias and emits no further SQL. The plan is
// created fresh per compilation and never shared across calls.
type joinPlan struct {
	entries map[string]planEntry
	joins   []string
	next    int
}

func newJoinPlan() *joinPlan {
	// Alias ordinal 0 is the root; joined tables start at t1.
	return &joinPlan{entries: make(map[string]planEntry), next: 1}
}

// resolved returns the entry for an already-joined relation path.
func (p *joinPlan) resolved(path string) (planEntry, bool) {
	e, ok := p.entries[path]
	return e, ok
}

// nextAlias assigns the next table alias. Aliases are derived from plan
// insertion order, so the same query always compiles to the same aliases.
func (p *joinPlan) nextAlias() string {
	a := "t" + strconv.Itoa(p.next)
	p.next++
	return a
}

// add records a resolved path and its join clauses. A many-to-many relation
// contributes two clauses (association table, then related table) under a
// single path entry.
func (p *joinPlan) add(path string, e planEntry, clauses ...string) {
	p.entries[path] = e
	p.joins = append(p.joins, clauses...)
}

// append records a join clause not addressable by any relation path, such as
// the association-table hop of a uni-directional many-to-many correlation.
func (p *joinPlan) append(clause string) {
	p.joins = append(p.joins, clause)
}

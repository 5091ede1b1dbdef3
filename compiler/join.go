package compiler

import (
	"fmt"

	"github.com/syssam/relq/schema"
)

// scope is the column-resolution context of one point in the filter tree:
// the entity compiled against, its table alias, and the dotted relation path
// that reached it ("" at the root).
type scope struct {
	entity *schema.Entity
	alias  string
	path   string
}

// resolver turns relation paths into table aliases and join clauses, going
// through the joinPlan so each path is joined at most once per statement.
type resolver struct {
	reg *schema.Registry
}

// resolve walks the relation path segment by segment from the given scope.
// Already-planned segments reuse their alias; new segments look up relation
// metadata (failing with RelationNotFoundError), emit the join clause(s) for
// the relation's shape, and register the path in the plan.
func (r resolver) resolve(plan *joinPlan, sc scope, segments []string) (scope, error) {
	cur := sc
	for _, seg := range segments {
		key := seg
		if cur.path != "" {
			key = cur.path + "." + seg
		}
		if e, ok := plan.resolved(key); ok {
			cur = scope{entity: e.entity, alias: e.alias, path: key}
			continue
		}
		rel, err := cur.entity.Relation(seg)
		if err != nil {
			return scope{}, err
		}
		target, err := r.reg.Entity(rel.Target)
		if err != nil {
			return scope{}, err
		}
		alias, clauses := joinClauses(plan, cur, rel, target)
		plan.add(key, planEntry{alias: alias, entity: target}, clauses...)
		cur = scope{entity: target, alias: alias, path: key}
	}
	return cur, nil
}

// joinClauses emits the join for one relation hop and returns the alias of
// the related table. The join type follows the relation shape:
//
//   - owning to-one (many-to-one, owning one-to-one): the foreign key is on
//     the current table, joined against the target key.
//   - non-owning (one-to-many, non-owning one-to-one): the foreign key is on
//     the related table, joined back against the current side's key.
//   - many-to-many: two joins through the association table, collapsed into
//     one logical hop; the returned alias is the related table's.
//
// Uni-directional relations use the same mechanics; directionality only
// limits which side can name the relation.
func joinClauses(plan *joinPlan, from scope, rel *schema.Relation, target *schema.Entity) (string, []string) {
	switch {
	case rel.Kind == schema.M2M:
		jt := rel.AssocTable(from.entity, target)
		j := plan.nextAlias()
		b := plan.nextAlias()
		return b, []string{
			fmt.Sprintf("JOIN %s %s ON %s.%s = %s.%s",
				jt.Name, j, j, jt.JoinColumn, from.alias, rel.OwnerColumn(from.entity)),
			fmt.Sprintf("JOIN %s %s ON %s.%s = %s.%s",
				target.Table, b, b, rel.TargetColumn(from.entity, target), j, jt.InverseJoinColumn),
		}
	case rel.IsOwning():
		b := plan.nextAlias()
		return b, []string{fmt.Sprintf("JOIN %s %s ON %s.%s = %s.%s",
			target.Table, b, from.alias, rel.OwnerColumn(from.entity), b, rel.TargetColumn(from.entity, target))}
	default:
		b := plan.nextAlias()
		return b, []string{fmt.Sprintf("JOIN %s %s ON %s.%s = %s.%s",
			target.Table, b, b, rel.TargetColumn(from.entity, target), from.alias, rel.OwnerColumn(from.entity))}
	}
}

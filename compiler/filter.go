package compiler

import (
	"strings"

	"github.com/syssam/relq"
)

// filter compiles a predicate tree into the builder, depth-first. Each leaf
// appends its values to the builder's parameter list; no value is ever
// rendered into the SQL text. Relation predicates request joins through the
// resolver and recurse with the joined alias as the new resolution context.
func (cp *compilation) filter(b *Builder, sc scope, f *relq.Filter) error {
	switch {
	case f == nil:
		return relq.NewInvalidFilterError("nil filter node")
	case f.Not != nil:
		b.WriteString("NOT (")
		if err := cp.filter(b, sc, f.Not); err != nil {
			return err
		}
		b.WriteString(")")
		return nil
	case len(f.And) > 0:
		return cp.nary(b, sc, f.And, " AND ")
	case len(f.Or) > 0:
		return cp.nary(b, sc, f.Or, " OR ")
	case f.Relation != nil:
		rsc, err := cp.res.resolve(cp.plan, sc, strings.Split(f.Field, "."))
		if err != nil {
			return err
		}
		return cp.filter(b, rsc, f.Relation)
	default:
		return cp.leaf(b, sc, f)
	}
}

// nary joins child predicates with the given boolean operator, each child
// parenthesized to preserve precedence.
func (cp *compilation) nary(b *Builder, sc scope, children []*relq.Filter, sep string) error {
	if len(children) == 0 {
		return relq.NewInvalidFilterError("empty boolean group")
	}
	for i, c := range children {
		if i > 0 {
			b.WriteString(sep)
		}
		b.WriteString("(")
		if err := cp.filter(b, sc, c); err != nil {
			return err
		}
		b.WriteString(")")
	}
	return nil
}

func (cp *compilation) leaf(b *Builder, sc scope, f *relq.Filter) error {
	if f.Field == "" {
		return relq.NewInvalidFilterError("filter node with no field, group or negation")
	}
	col, err := cp.column(sc, f.Field)
	if err != nil {
		if relq.IsFieldResolution(err) && sc.entity.HasRelation(f.Field) {
			return relq.NewInvalidFilterError("relation %q requires a nested filter", f.Field)
		}
		return err
	}
	switch f.Op {
	case relq.OpEQ, relq.OpNEQ, relq.OpGT, relq.OpGTE, relq.OpLT, relq.OpLTE:
		if err := arity(f, 1); err != nil {
			return err
		}
		b.WriteString(col + " " + comparison(f.Op) + " ").Arg(f.Values[0])
	case relq.OpLike:
		if err := arity(f, 1); err != nil {
			return err
		}
		b.WriteString(col + " LIKE ").Arg(f.Values[0])
	case relq.OpLikeFold:
		if err := arity(f, 1); err != nil {
			return err
		}
		b.WriteString("LOWER(" + col + ") LIKE ").Arg(f.Values[0])
	case relq.OpEqFold:
		if err := arity(f, 1); err != nil {
			return err
		}
		b.WriteString("LOWER(" + col + ") = ").Arg(f.Values[0])
	case relq.OpIn, relq.OpNotIn:
		if len(f.Values) == 0 {
			// Vacuously false for IN, true for NOT IN.
			if f.Op == relq.OpIn {
				b.WriteString("1 = 0")
			} else {
				b.WriteString("1 = 1")
			}
			return nil
		}
		op := " IN ("
		if f.Op == relq.OpNotIn {
			op = " NOT IN ("
		}
		b.WriteString(col + op).Args(f.Values...).WriteString(")")
	case relq.OpIsNull, relq.OpNotNull:
		if err := arity(f, 0); err != nil {
			return err
		}
		if f.Op == relq.OpIsNull {
			b.WriteString(col + " IS NULL")
		} else {
			b.WriteString(col + " IS NOT NULL")
		}
	case relq.OpBetween:
		if err := arity(f, 2); err != nil {
			return err
		}
		b.WriteString(col + " BETWEEN ").Arg(f.Values[0]).WriteString(" AND ").Arg(f.Values[1])
	default:
		return relq.NewInvalidFilterError("unsupported operator %q on field %q", f.Op, f.Field)
	}
	return nil
}

func arity(f *relq.Filter, want int) error {
	if len(f.Values) != want {
		return relq.NewInvalidFilterError("operator %q on field %q expects %d value(s), got %d",
			f.Op, f.Field, want, len(f.Values))
	}
	return nil
}

func comparison(op relq.Op) string {
	switch op {
	case relq.OpEQ:
		return "="
	case relq.OpNEQ:
		return "<>"
	case relq.OpGT:
		return ">"
	case relq.OpGTE:
		return ">="
	case relq.OpLT:
		return "<"
	default:
		return "<="
	}
}

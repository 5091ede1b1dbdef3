package relq

import (
	"fmt"
	"strconv"
	"strings"
)

// Op is a filter leaf operator.
type Op string

// Leaf operators. The compiler maps them to dialect SQL; values are always
// bound as parameters, never rendered into the statement text.
const (
	OpEQ       Op = "eq"
	OpNEQ      Op = "neq"
	OpGT       Op = "gt"
	OpGTE      Op = "gte"
	OpLT       Op = "lt"
	OpLTE      Op = "lte"
	OpLike     Op = "like"
	OpLikeFold Op = "like_fold"
	OpEqFold   Op = "eq_fold"
	OpIn       Op = "in"
	OpNotIn    Op = "not_in"
	OpIsNull   Op = "is_null"
	OpNotNull  Op = "not_null"
	OpBetween  Op = "between"
)

// Filter is a predicate tree over the fields of one entity type. Exactly one
// of the node groups is populated:
//
//   - And / Or: n-ary boolean composition of child filters.
//   - Not: negation of a single child.
//   - Field + Op + Values: a column predicate.
//   - Field + Relation: a nested filter applied to the relation named by
//     Field, against the joined relation's columns.
//
// Filters are built with the package constructors (And, FieldEQ,
// HasRelationWith, ...) and are read-only once handed to the compiler.
type Filter struct {
	And []*Filter
	Or  []*Filter
	Not *Filter

	Field    string
	Op       Op
	Values   []Value
	Relation *Filter
}

// And groups filters into a conjunction.
func And(filters ...*Filter) *Filter { return &Filter{And: filters} }

// Or groups filters into a disjunction.
func Or(filters ...*Filter) *Filter { return &Filter{Or: filters} }

// Not negates a filter.
func Not(f *Filter) *Filter { return &Filter{Not: f} }

// FieldEQ returns an equality predicate on the given field.
func FieldEQ(field string, v Value) *Filter {
	return &Filter{Field: field, Op: OpEQ, Values: []Value{v}}
}

// FieldNEQ returns an inequality predicate on the given field.
func FieldNEQ(field string, v Value) *Filter {
	return &Filter{Field: field, Op: OpNEQ, Values: []Value{v}}
}

// FieldGT returns a greater-than predicate on the given field.
func FieldGT(field string, v Value) *Filter {
	return &Filter{Field: field, Op: OpGT, Values: []Value{v}}
}

// FieldGTE returns a greater-than-or-equal predicate on the given field.
func FieldGTE(field string, v Value) *Filter {
	return &Filter{Field: field, Op: OpGTE, Values: []Value{v}}
}

// FieldLT returns a less-than predicate on the given field.
func FieldLT(field string, v Value) *Filter {
	return &Filter{Field: field, Op: OpLT, Values: []Value{v}}
}

// FieldLTE returns a less-than-or-equal predicate on the given field.
func FieldLTE(field string, v Value) *Filter {
	return &Filter{Field: field, Op: OpLTE, Values: []Value{v}}
}

// FieldLike returns a LIKE predicate with the pattern passed through verbatim.
func FieldLike(field, pattern string) *Filter {
	return &Filter{Field: field, Op: OpLike, Values: []Value{pattern}}
}

// FieldContains returns a predicate matching rows whose field contains the
// given substring.
func FieldContains(field, substr string) *Filter {
	return FieldLike(field, "%"+substr+"%")
}

// FieldContainsFold is the case-insensitive variant of FieldContains.
func FieldContainsFold(field, substr string) *Filter {
	return &Filter{Field: field, Op: OpLikeFold, Values: []Value{"%" + strings.ToLower(substr) + "%"}}
}

// FieldHasPrefix returns a predicate matching rows whose field starts with
// the given prefix.
func FieldHasPrefix(field, prefix string) *Filter {
	return FieldLike(field, prefix+"%")
}

// FieldHasSuffix returns a predicate matching rows whose field ends with
// the given suffix.
func FieldHasSuffix(field, suffix string) *Filter {
	return FieldLike(field, "%"+suffix)
}

// FieldEqualFold returns a case-insensitive equality predicate.
func FieldEqualFold(field, v string) *Filter {
	return &Filter{Field: field, Op: OpEqFold, Values: []Value{strings.ToLower(v)}}
}

// FieldIn returns a membership predicate on the given field.
func FieldIn(field string, vs ...Value) *Filter {
	return &Filter{Field: field, Op: OpIn, Values: vs}
}

// FieldNotIn returns a non-membership predicate on the given field.
func FieldNotIn(field string, vs ...Value) *Filter {
	return &Filter{Field: field, Op: OpNotIn, Values: vs}
}

// FieldIsNull returns an IS NULL predicate on the given field.
func FieldIsNull(field string) *Filter {
	return &Filter{Field: field, Op: OpIsNull}
}

// FieldNotNull returns an IS NOT NULL predicate on the given field.
func FieldNotNull(field string) *Filter {
	return &Filter{Field: field, Op: OpNotNull}
}

// FieldBetween returns a range predicate on the given field, inclusive on
// both bounds.
func FieldBetween(field string, lo, hi Value) *Filter {
	return &Filter{Field: field, Op: OpBetween, Values: []Value{lo, hi}}
}

// HasRelationWith returns a predicate that holds for rows whose named
// relation matches the nested filter. Nested filters may themselves contain
// relation predicates, to arbitrary depth.
func HasRelationWith(relation string, f *Filter) *Filter {
	return &Filter{Field: relation, Relation: f}
}

// Negate returns the negation of the filter.
func (f *Filter) Negate() *Filter { return Not(f) }

// String renders the filter in a compact debug notation. It is intended for
// logs, error messages and tests, not for SQL generation.
func (f *Filter) String() string {
	var sb strings.Builder
	f.render(&sb)
	return sb.String()
}

func (f *Filter) render(sb *strings.Builder) {
	switch {
	case f.Not != nil:
		sb.WriteString("!(")
		f.Not.render(sb)
		sb.WriteString(")")
	case len(f.And) > 0:
		renderNary(sb, f.And, " && ")
	case len(f.Or) > 0:
		renderNary(sb, f.Or, " || ")
	case f.Relation != nil:
		sb.WriteString("has_relation(")
		sb.WriteString(f.Field)
		sb.WriteString(", ")
		f.Relation.render(sb)
		sb.WriteString(")")
	default:
		f.renderLeaf(sb)
	}
}

func renderNary(sb *strings.Builder, children []*Filter, sep string) {
	if len(children) > 1 {
		sb.WriteString("(")
	}
	for i, c := range children {
		if i > 0 {
			sb.WriteString(sep)
		}
		c.render(sb)
	}
	if len(children) > 1 {
		sb.WriteString(")")
	}
}

func (f *Filter) renderLeaf(sb *strings.Builder) {
	switch f.Op {
	case OpIsNull:
		fmt.Fprintf(sb, "%s == nil", f.Field)
	case OpNotNull:
		fmt.Fprintf(sb, "%s != nil", f.Field)
	case OpIn, OpNotIn:
		op := "in"
		if f.Op == OpNotIn {
			op = "not in"
		}
		fmt.Fprintf(sb, "%s %s [%s]", f.Field, op, renderValues(f.Values))
	case OpBetween:
		fmt.Fprintf(sb, "%s between [%s]", f.Field, renderValues(f.Values))
	default:
		fmt.Fprintf(sb, "%s %s %s", f.Field, f.Op.token(), renderValues(f.Values))
	}
}

func renderValues(vs []Value) string {
	parts := make([]string, len(vs))
	for i, v := range vs {
		switch v := v.(type) {
		case string:
			parts[i] = strconv.Quote(v)
		default:
			parts[i] = fmt.Sprintf("%v", v)
		}
	}
	return strings.Join(parts, ",")
}

func (op Op) token() string {
	switch op {
	case OpEQ:
		return "=="
	case OpNEQ:
		return "!="
	case OpGT:
		return ">"
	case OpGTE:
		return ">="
	case OpLT:
		return "<"
	case OpLTE:
		return "<="
	case OpLike, OpLikeFold:
		return "like"
	case OpEqFold:
		return "==~"
	default:
		return string(op)
	}
}

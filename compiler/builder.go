package compiler

import (
	"strings"

	"github.com/syssam/relq"
	"github.com/syssam/relq/dialect"
)

// Builder accumulates a SQL fragment together with its positional parameters.
// Placeholders are numbered by argument index, so a statement must funnel all
// of its parameters through a single Builder to keep numbered placeholders
// ($1, $2, ...) aligned. The compiler guarantees this by routing every
// parameter through the WHERE fragment; joins, ORDER BY and LIMIT/OFFSET
// clauses carry no parameters.
type Builder struct {
	sb      strings.Builder
	dialect string
	args    []relq.Value
}

func newBuilder(d string) *Builder {
	return &Builder{dialect: d}
}

// WriteString appends raw SQL text.
func (b *Builder) WriteString(s string) *Builder {
	b.sb.WriteString(s)
	return b
}

// Arg appends a placeholder for the value and records it.
func (b *Builder) Arg(v relq.Value) *Builder {
	b.args = append(b.args, v)
	b.sb.WriteString(dialect.Placeholder(b.dialect, len(b.args)))
	return b
}

// Args appends a comma-separated placeholder list for the values.
func (b *Builder) Args(vs ...relq.Value) *Builder {
	for i, v := range vs {
		if i > 0 {
			b.sb.WriteString(", ")
		}
		b.Arg(v)
	}
	return b
}

// Len returns the length of the accumulated SQL text.
func (b *Builder) Len() int { return b.sb.Len() }

// String returns the accumulated SQL text.
func (b *Builder) String() string { return b.sb.String() }

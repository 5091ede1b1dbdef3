package compiler

import (
	"fmt"
	"strings"

	"github.com/syssam/relq"
	"github.com/syssam/relq/dialect"
)

// orderBy compiles sort descriptors into ORDER BY terms, in list order.
// Dotted fields resolve through the join plan, reusing any join the filter
// already emitted for the same relation path.
//
// When the dialect lacks native NULLS FIRST/LAST, the requested placement is
// emulated by an auxiliary CASE term placed before the column term, so NULL
// rows sort to the requested edge regardless of direction.
func (cp *compilation) orderBy(sorts []relq.SortDescriptor) (string, error) {
	if len(sorts) == 0 {
		return "", nil
	}
	terms := make([]string, 0, len(sorts))
	for _, s := range sorts {
		col, err := cp.column(cp.root, s.Field)
		if err != nil {
			return "", err
		}
		dir := s.Direction
		if dir == "" {
			dir = relq.OrderAsc
		}
		switch {
		case s.Nulls == relq.NullsDefault:
			terms = append(terms, fmt.Sprintf("%s %s", col, dir))
		case dialect.SupportsNullOrdering(cp.dialect):
			terms = append(terms, fmt.Sprintf("%s %s NULLS %s", col, dir, nullsWord(s.Nulls)))
		default:
			terms = append(terms, fmt.Sprintf("%s, %s %s", nullsCase(col, s.Nulls), col, dir))
		}
	}
	return strings.Join(terms, ", "), nil
}

func nullsWord(n relq.NullOrdering) string {
	if n == relq.NullsFirst {
		return "FIRST"
	}
	return "LAST"
}

// nullsCase ranks NULL rows 0 or 1 so that an ascending sort on the rank
// pushes them to the requested edge. NULLS FIRST and NULLS LAST produce
// opposite CASE polarity for the same column.
func nullsCase(col string, n relq.NullOrdering) string {
	if n == relq.NullsFirst {
		return fmt.Sprintf("CASE WHEN %s IS NULL THEN 0 ELSE 1 END", col)
	}
	return fmt.Sprintf("CASE WHEN %s IS NULL THEN 1 ELSE 0 END", col)
}

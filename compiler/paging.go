package compiler

import (
	"strconv"

	"github.com/syssam/relq"
)

// compilePaging renders the LIMIT/OFFSET window, omitting either clause when
// its bound is absent. Bounds are rendered as validated integer literals, so
// the clause carries no parameters. Negative bounds fail; non-integer bounds
// are excluded by the type.
func compilePaging(p *relq.Paging) (string, error) {
	if p == nil {
		return "", nil
	}
	var clause string
	if p.Limit != nil {
		if *p.Limit < 0 {
			return "", relq.NewInvalidPagingError("limit", *p.Limit)
		}
		clause = "LIMIT " + strconv.Itoa(*p.Limit)
	}
	if p.Offset != nil {
		if *p.Offset < 0 {
			return "", relq.NewInvalidPagingError("offset", *p.Offset)
		}
		if clause != "" {
			clause += " "
		}
		clause += "OFFSET " + strconv.Itoa(*p.Offset)
	}
	return clause, nil
}

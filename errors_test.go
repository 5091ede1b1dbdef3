package relq_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/syssam/relq"
)

func TestRelationNotFoundError(t *testing.T) {
	t.Parallel()

	err := relq.NewRelationNotFoundError("User", "badRelations")
	assert.Contains(t, err.Error(), "badRelations")
	assert.Contains(t, err.Error(), "User")
	assert.True(t, relq.IsRelationNotFound(err))
	assert.True(t, errors.Is(err, relq.ErrRelationNotFound))
	assert.False(t, relq.IsRelationNotFound(nil))

	// The kind survives wrapping.
	wrapped := fmt.Errorf("query users: %w", err)
	assert.True(t, relq.IsRelationNotFound(wrapped))
	assert.False(t, relq.IsFieldResolution(wrapped))
}

func TestFieldResolutionError(t *testing.T) {
	t.Parallel()

	err := relq.NewFieldResolutionError("Pet", "color")
	assert.Contains(t, err.Error(), `"color"`)
	assert.Contains(t, err.Error(), `"Pet"`)
	assert.True(t, relq.IsFieldResolution(err))
	assert.True(t, errors.Is(err, relq.ErrFieldResolution))
	assert.False(t, relq.IsInvalidFilter(err))
}

func TestInvalidFilterError(t *testing.T) {
	t.Parallel()

	err := relq.NewInvalidFilterError("operator %q expects %d values", "between", 2)
	assert.Contains(t, err.Error(), "between")
	assert.True(t, relq.IsInvalidFilter(err))
	assert.True(t, errors.Is(err, relq.ErrInvalidFilter))
}

func TestInvalidPagingError(t *testing.T) {
	t.Parallel()

	err := relq.NewInvalidPagingError("offset", -3)
	assert.Contains(t, err.Error(), "offset")
	assert.Contains(t, err.Error(), "-3")
	assert.True(t, relq.IsInvalidPaging(err))
	assert.True(t, errors.Is(err, relq.ErrInvalidPaging))
	assert.False(t, relq.IsInvalidPaging(errors.New("other")))
}

func TestGroupByKey(t *testing.T) {
	t.Parallel()

	type row struct {
		owner int
		name  string
	}
	rows := []row{
		{owner: 1, name: "Luna"},
		{owner: 2, name: "Rex"},
		{owner: 1, name: "Milo"},
	}
	grouped := relq.GroupByKey(rows, func(r row) int { return r.owner })
	assert.Len(t, grouped[1], 2)
	assert.Len(t, grouped[2], 1)

	ordered := relq.OrderGroupsByKeys([]int{2, 1, 3}, grouped)
	assert.Len(t, ordered, 3)
	assert.Equal(t, "Rex", ordered[0][0].name)
	assert.Len(t, ordered[1], 2)
	assert.Empty(t, ordered[2])
}

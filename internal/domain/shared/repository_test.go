package shared

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilter_Normalize(t *testing.T) {
	f := Filter{Page: 0, PageSize: 500}.Normalize()
	assert.Equal(t, 1, f.Page)
	assert.Equal(t, 100, f.PageSize)
	assert.NotNil(t, f.Filters)
	assert.Equal(t, 0, f.Offset())

	f = Filter{Page: 3, PageSize: 20}.Normalize()
	assert.Equal(t, 40, f.Offset())
}

func TestDefaultFilter(t *testing.T) {
	f := DefaultFilter()
	assert.Equal(t, DefaultPageSize, f.PageSize)
	assert.Equal(t, "created_at", f.OrderBy)
	assert.Equal(t, "desc", f.OrderDir)

	f.Filters["status"] = "draft"
	assert.Equal(t, "draft", f.Normalize().Filters["status"])
}

package pagination

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeClampsInputs(t *testing.T) {
	p := Pagination{Page: -3, Limit: 0}.Normalize()
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, defaultLimit, p.Limit)

	p = Pagination{Page: 2, Limit: 100000}.Normalize()
	assert.Equal(t, maxLimit, p.Limit)
}

func TestOffset(t *testing.T) {
	assert.Equal(t, 0, Pagination{Page: 1, Limit: 20}.Offset())
	assert.Equal(t, 40, Pagination{Page: 3, Limit: 20}.Offset())
	assert.Equal(t, 0, Pagination{}.Offset())
}

func TestBuildPageInfo(t *testing.T) {
	info := BuildPageInfo(Pagination{Page: 2, Limit: 10}, 35)
	assert.Equal(t, 2, info.Page)
	assert.Equal(t, 10, info.Limit)
	assert.Equal(t, int64(35), info.Total)
	assert.Equal(t, 4, info.Pages)

	info = BuildPageInfo(Pagination{Page: 1, Limit: 10}, 0)
	assert.Equal(t, 1, info.Pages)
}

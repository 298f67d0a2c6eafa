package resources

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bamfokbq/resource-mobilization-system-sub001/internal/server/models"
	"github.com/bamfokbq/resource-mobilization-system-sub001/internal/server/testutil"
)

func numberedSet(n int) []models.Resource {
	out := make([]models.Resource, 0, n)
	for i := 1; i <= n; i++ {
		out = append(out, testutil.NewResource(fmt.Sprintf("r%02d", i)).Build())
	}
	return out
}

func TestPaginate_Windows(t *testing.T) {
	set := numberedSet(5)

	assert.Equal(t, []string{"r01", "r02"}, ids(Paginate(set, 1, 2)))
	assert.Equal(t, []string{"r03", "r04"}, ids(Paginate(set, 2, 2)))
	assert.Equal(t, []string{"r05"}, ids(Paginate(set, 3, 2)), "last page clipped to bounds")
}

func TestPaginate_PastEndReturnsEmptySlice(t *testing.T) {
	set := numberedSet(3)
	got := Paginate(set, 5, 10)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestTotalPages(t *testing.T) {
	tests := []struct {
		totalItems, pageSize, want int
	}{
		{0, 10, 0},
		{1, 10, 1},
		{10, 10, 1},
		{11, 10, 2},
		{25, 10, 3},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, TotalPages(tc.totalItems, tc.pageSize),
			"totalItems=%d pageSize=%d", tc.totalItems, tc.pageSize)
	}
}

func TestPaginate_ConcatenatingAllPagesReproducesTheSet(t *testing.T) {
	set := numberedSet(23)
	pageSize := 7
	pages := TotalPages(len(set), pageSize)

	var all []string
	for p := 1; p <= pages; p++ {
		all = append(all, ids(Paginate(set, p, pageSize))...)
	}
	assert.Equal(t, ids(set), all, "no duplicates, no omissions")
}

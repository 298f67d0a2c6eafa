package resources

import "github.com/bamfokbq/resource-mobilization-system-sub001/internal/server/models"

// Paginate returns the 1-indexed page window [(page-1)*pageSize,
// (page-1)*pageSize+pageSize) of rs, clipped to bounds. A window past the
// end of the collection yields an empty slice, not an error.
func Paginate(rs []models.Resource, page, pageSize int) []models.Resource {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 1
	}
	start := (page - 1) * pageSize
	if start >= len(rs) {
		return []models.Resource{}
	}
	end := start + pageSize
	if end > len(rs) {
		end = len(rs)
	}
	return rs[start:end]
}

// TotalPages computes ceil(totalItems/pageSize); zero items means zero pages.
func TotalPages(totalItems, pageSize int) int {
	if totalItems <= 0 {
		return 0
	}
	if pageSize < 1 {
		pageSize = 1
	}
	return (totalItems + pageSize - 1) / pageSize
}

// NewPagination fills the pagination bookkeeping of a query result.
func NewPagination(page, pageSize, totalItems int) models.Pagination {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 1
	}
	return models.Pagination{
		Page:       page,
		PageSize:   pageSize,
		TotalItems: totalItems,
		TotalPages: TotalPages(totalItems, pageSize),
	}
}

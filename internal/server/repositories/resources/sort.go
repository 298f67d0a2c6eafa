package resources

import (
	"sort"
	"strings"

	"github.com/bamfokbq/resource-mobilization-system-sub001/internal/server/models"
)

// Sort keys accepted by the comparator. Unknown keys behave like SortByDate.
const (
	SortByDate      = "date"
	SortByTitle     = "title"
	SortBySize      = "size"
	SortByDownloads = "downloads"
	SortByRelevance = "relevance"

	OrderAsc  = "asc"
	OrderDesc = "desc"
)

// Sort orders rs in place by the named key and direction. The default is
// date descending. The sort is stable: equal keys keep their input order.
//
// Relevance is only meaningful together with a search term: records whose
// title contains the term sort strictly before the rest regardless of the
// requested direction, and ties inside each group fall back to date
// ordering. Without a search term, relevance degrades to date.
func Sort(rs []models.Resource, sortBy, sortOrder, searchTerm string) {
	if sortBy == "" {
		sortBy = SortByDate
	}
	if sortOrder == "" {
		sortOrder = OrderDesc
	}
	desc := sortOrder != OrderAsc

	if sortBy == SortByRelevance && searchTerm != "" {
		needle := strings.ToLower(searchTerm)
		sort.SliceStable(rs, func(i, j int) bool {
			bi := containsFold(rs[i].Title, needle)
			bj := containsFold(rs[j].Title, needle)
			if bi != bj {
				return bi
			}
			return lessByDate(&rs[i], &rs[j], desc)
		})
		return
	}

	sort.SliceStable(rs, func(i, j int) bool {
		return less(&rs[i], &rs[j], sortBy, desc)
	})
}

func less(a, b *models.Resource, sortBy string, desc bool) bool {
	switch sortBy {
	case SortByTitle:
		ta, tb := strings.ToLower(a.Title), strings.ToLower(b.Title)
		if ta == tb {
			return false
		}
		if desc {
			return ta > tb
		}
		return ta < tb
	case SortBySize:
		if a.FileSize == b.FileSize {
			return false
		}
		if desc {
			return a.FileSize > b.FileSize
		}
		return a.FileSize < b.FileSize
	case SortByDownloads:
		if a.DownloadCount == b.DownloadCount {
			return false
		}
		if desc {
			return a.DownloadCount > b.DownloadCount
		}
		return a.DownloadCount < b.DownloadCount
	default: // date, relevance-without-search, anything unknown
		return lessByDate(a, b, desc)
	}
}

func lessByDate(a, b *models.Resource, desc bool) bool {
	if a.UploadDate.Equal(b.UploadDate) {
		return false
	}
	if desc {
		return a.UploadDate.After(b.UploadDate)
	}
	return a.UploadDate.Before(b.UploadDate)
}

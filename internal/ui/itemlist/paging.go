package itemlist

import (
	"sort"

	"github.com/astrafab/prodtrack/internal/model"
)

// sortItems orders items by serial number ascending, falling back to
// creation time for identical serials. Sorting is stable so repeated
// loads render identically.
func sortItems(items []model.Item) []model.Item {
	sorted := make([]model.Item, len(items))
	copy(sorted, items)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].SerialNumber != sorted[j].SerialNumber {
			return sorted[i].SerialNumber < sorted[j].SerialNumber
		}
		return sorted[i].CreatedAt.Before(sorted[j].CreatedAt)
	})
	return sorted
}

// filterByStatus keeps only items with the given status. A nil status
// keeps everything.
func filterByStatus(items []model.Item, status *model.Status) []model.Item {
	if status == nil {
		return items
	}
	filtered := make([]model.Item, 0, len(items))
	for _, item := range items {
		if item.Status == *status {
			filtered = append(filtered, item)
		}
	}
	return filtered
}

// pageCount returns the number of pages needed for n items, at least 1.
func pageCount(n, pageSize int) int {
	if pageSize <= 0 {
		return 1
	}
	pages := (n + pageSize - 1) / pageSize
	if pages < 1 {
		return 1
	}
	return pages
}

// paginate returns the slice of items on the given zero-based page.
// Out-of-range pages clamp to the last page.
func paginate(items []model.Item, page, pageSize int) []model.Item {
	if pageSize <= 0 {
		return items
	}
	last := pageCount(len(items), pageSize) - 1
	if page < 0 {
		page = 0
	}
	if page > last {
		page = last
	}

	start := page * pageSize
	if start >= len(items) {
		return nil
	}
	end := start + pageSize
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}

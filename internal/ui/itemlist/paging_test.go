package itemlist

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/astrafab/prodtrack/internal/model"
)

func testItems(n int) []model.Item {
	items := make([]model.Item, n)
	for i := range items {
		items[i] = model.Item{
			ID:           fmt.Sprintf("item-%d", i+1),
			SerialNumber: fmt.Sprintf("SN-%04d", i+1),
			Status:       model.Statuses[i%len(model.Statuses)],
			CreatedAt:    time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC).Add(time.Duration(i) * time.Hour),
		}
	}
	return items
}

func TestSortItemsBySerialNumber(t *testing.T) {
	items := []model.Item{
		{SerialNumber: "SN-0003"},
		{SerialNumber: "SN-0001"},
		{SerialNumber: "SN-0002"},
	}

	sorted := sortItems(items)

	assert.Equal(t, "SN-0001", sorted[0].SerialNumber)
	assert.Equal(t, "SN-0002", sorted[1].SerialNumber)
	assert.Equal(t, "SN-0003", sorted[2].SerialNumber)

	// Input order is untouched.
	assert.Equal(t, "SN-0003", items[0].SerialNumber)
}

func TestSortItemsTieBreaksOnCreation(t *testing.T) {
	early := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	late := early.Add(time.Hour)
	items := []model.Item{
		{ID: "b", SerialNumber: "SN-0001", CreatedAt: late},
		{ID: "a", SerialNumber: "SN-0001", CreatedAt: early},
	}

	sorted := sortItems(items)
	assert.Equal(t, "a", sorted[0].ID)
	assert.Equal(t, "b", sorted[1].ID)
}

func TestFilterByStatus(t *testing.T) {
	items := testItems(8)

	assert.Len(t, filterByStatus(items, nil), 8)

	blocked := model.StatusBlocked
	filtered := filterByStatus(items, &blocked)
	require.Len(t, filtered, 2)
	for _, item := range filtered {
		assert.Equal(t, model.StatusBlocked, item.Status)
	}
}

func TestPaginate(t *testing.T) {
	items := testItems(25)

	tests := []struct {
		name      string
		page      int
		pageSize  int
		wantLen   int
		wantFirst string
	}{
		{name: "first page", page: 0, pageSize: 10, wantLen: 10, wantFirst: "SN-0001"},
		{name: "middle page", page: 1, pageSize: 10, wantLen: 10, wantFirst: "SN-0011"},
		{name: "short last page", page: 2, pageSize: 10, wantLen: 5, wantFirst: "SN-0021"},
		{name: "past the end clamps to last", page: 9, pageSize: 10, wantLen: 5, wantFirst: "SN-0021"},
		{name: "negative page clamps to first", page: -1, pageSize: 10, wantLen: 10, wantFirst: "SN-0001"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page := paginate(items, tt.page, tt.pageSize)
			require.Len(t, page, tt.wantLen)
			assert.Equal(t, tt.wantFirst, page[0].SerialNumber)
		})
	}
}

func TestPaginateZeroPageSizeReturnsAll(t *testing.T) {
	items := testItems(7)
	assert.Len(t, paginate(items, 0, 0), 7)
}

func TestPageCount(t *testing.T) {
	assert.Equal(t, 1, pageCount(0, 10))
	assert.Equal(t, 1, pageCount(10, 10))
	assert.Equal(t, 2, pageCount(11, 10))
	assert.Equal(t, 3, pageCount(25, 10))
	assert.Equal(t, 1, pageCount(25, 0))
}

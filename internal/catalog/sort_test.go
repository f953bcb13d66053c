package catalog

import (
	"testing"

	"github.com/shaymaabd/AMPA/internal/domain/entity"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func listings(prices ...string) []entity.Listing {
	out := make([]entity.Listing, 0, len(prices))
	for i, p := range prices {
		out = append(out, entity.Listing{ID: string(rune('a' + i)), Title: string(rune('A' + i)), Price: p})
	}
	return out
}

func ids(items []entity.Listing) []string {
	out := make([]string, 0, len(items))
	for _, l := range items {
		out = append(out, l.ID)
	}
	return out
}

func TestSort_PriceAscending(t *testing.T) {
	items := listings("30", "10.5", "20", "10.5")

	sorted := Sort(items, entity.SortPriceAsc)

	require.Len(t, sorted, 4)
	for i := 1; i < len(sorted); i++ {
		prev := decimal.RequireFromString(sorted[i-1].Price)
		cur := decimal.RequireFromString(sorted[i].Price)
		assert.True(t, prev.LessThanOrEqual(cur))
	}
	assert.Equal(t, []string{"b", "d", "c", "a"}, ids(sorted), "stable for equal prices")
	assert.Equal(t, []string{"a", "b", "c", "d"}, ids(items), "input untouched")
}

func TestSort_PriceDescending(t *testing.T) {
	sorted := Sort(listings("1", "3", "2"), entity.SortPriceDesc)
	assert.Equal(t, []string{"b", "c", "a"}, ids(sorted))
}

func TestSort_EmptyPriceCountsAsZero(t *testing.T) {
	sorted := Sort(listings("5", "", "1"), entity.SortPriceAsc)
	assert.Equal(t, []string{"b", "c", "a"}, ids(sorted))
}

func TestSort_MalformedPriceKeepsOrder(t *testing.T) {
	items := listings("5", "N/A", "1")

	assert.Equal(t, []string{"a", "b", "c"}, ids(Sort(items, entity.SortPriceAsc)))
	assert.Equal(t, []string{"a", "b", "c"}, ids(Sort(items, entity.SortPriceDesc)))
}

func TestSort_BestMatchIsIdentity(t *testing.T) {
	items := listings("3", "1", "2")
	assert.Equal(t, ids(items), ids(Sort(items, entity.SortBestMatch)))
	assert.Equal(t, ids(items), ids(Sort(items, entity.SortDirective("bogus"))))
}

func TestSort_StringFields(t *testing.T) {
	items := []entity.Listing{
		{ID: "a", EndTime: "2026-03-01", ListedAt: "2026-01-02"},
		{ID: "b", EndTime: "2026-01-01", ListedAt: "2026-01-03"},
		{ID: "c", EndTime: "2026-02-01", ListedAt: "2026-01-01"},
	}

	assert.Equal(t, []string{"b", "c", "a"}, ids(Sort(items, entity.SortEndTime)))
	assert.Equal(t, []string{"c", "a", "b"}, ids(Sort(items, entity.SortNewlyListed)))
}

func TestPaginate(t *testing.T) {
	items := []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}

	assert.Equal(t, []int{1, 2, 3}, Paginate(items, 3, 0))
	assert.Equal(t, []int{10}, Paginate(items, 3, 3))
	assert.Equal(t, 4, TotalPages(len(items), 3))
	assert.Equal(t, 0, TotalPages(0, 3))
	assert.Equal(t, 0, TotalPages(5, 0))
}

package catalog

import (
	"slices"
	"strings"

	"github.com/shaymaabd/AMPA/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// Sort returns items ordered by directive. The input slice is never modified.
// Best match, unknown directives, a malformed price or any panic while
// comparing all yield the input order unchanged.
func Sort(items []entity.Listing, directive entity.SortDirective) (sorted []entity.Listing) {
	defer func() {
		if r := recover(); r != nil {
			sorted = items
		}
	}()

	switch directive {
	case entity.SortPriceAsc, entity.SortPriceDesc:
		return sortByPrice(items, directive == entity.SortPriceDesc)
	case entity.SortEndTime:
		return sortByString(items, func(l entity.Listing) string { return l.EndTime })
	case entity.SortNewlyListed:
		return sortByString(items, func(l entity.Listing) string { return l.ListedAt })
	default:
		return items
	}
}

type pricedListing struct {
	listing entity.Listing
	price   decimal.Decimal
}

func sortByPrice(items []entity.Listing, descending bool) []entity.Listing {
	priced := make([]pricedListing, 0, len(items))
	for _, l := range items {
		price := decimal.Zero
		if strings.TrimSpace(l.Price) != "" {
			p, err := decimal.NewFromString(strings.TrimSpace(l.Price))
			if err != nil {
				return items
			}
			price = p
		}
		priced = append(priced, pricedListing{listing: l, price: price})
	}

	slices.SortStableFunc(priced, func(a, b pricedListing) int {
		if descending {
			return b.price.Cmp(a.price)
		}
		return a.price.Cmp(b.price)
	})

	out := make([]entity.Listing, 0, len(priced))
	for _, p := range priced {
		out = append(out, p.listing)
	}
	return out
}

func sortByString(items []entity.Listing, key func(entity.Listing) string) []entity.Listing {
	out := slices.Clone(items)
	slices.SortStableFunc(out, func(a, b entity.Listing) int {
		return strings.Compare(key(a), key(b))
	})
	return out
}

// Paginate returns page pageIndex of size pageSize. The caller keeps pageIndex
// within [0, TotalPages).
func Paginate[T any](items []T, pageSize, pageIndex int) []T {
	start := pageIndex * pageSize
	end := start + pageSize
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}

func TotalPages(count, pageSize int) int {
	if pageSize <= 0 {
		return 0
	}
	return (count + pageSize - 1) / pageSize
}

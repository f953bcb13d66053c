package entity

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newListing(title, price, seller string) Listing {
	return Listing{
		ID:            ListingID(title),
		Title:         title,
		Price:         price,
		Seller:        seller,
		ConditionText: "New",
		Condition:     ConditionNew,
		Rating:        5,
	}
}

func TestCart_Add_IsIdempotent(t *testing.T) {
	cart := NewCart()
	l := newListing("Office chair", "10.00", "acme")

	assert.True(t, cart.Add(l))
	assert.False(t, cart.Add(l))
	assert.Equal(t, 1, cart.Len())
}

func TestCart_Add_AssignsIDFromTitle(t *testing.T) {
	cart := NewCart()
	l := newListing("Desk lamp", "5", "acme")
	l.ID = ""

	require.True(t, cart.Add(l))
	assert.True(t, cart.Contains(ListingID("Desk lamp")))
	assert.Equal(t, ListingID("Desk lamp"), ListingID("Desk lamp"))
}

func TestCart_Remove(t *testing.T) {
	cart := NewCart()
	a := newListing("A", "1", "s1")
	b := newListing("B", "2", "s2")
	cart.Add(a)
	cart.Add(b)

	assert.Equal(t, 1, cart.Remove(a.ID))
	assert.False(t, cart.Contains(a.ID))
	assert.True(t, cart.Contains(b.ID))
	assert.Equal(t, 0, cart.Remove("missing"))
}

func TestCart_Total_SkipsNonNumeric(t *testing.T) {
	cart := NewCart()
	cart.Add(newListing("A", "10.00", "s"))
	cart.Add(newListing("B", "N/A", "s"))
	cart.Add(newListing("C", "20.50", "s"))
	cart.Add(newListing("D", "", "s"))

	assert.True(t, decimal.RequireFromString("30.50").Equal(cart.Total()))
}

func TestCart_TotalConverted(t *testing.T) {
	cart := NewCart()
	cart.Add(newListing("A", "10.00", "Acme"))
	cart.Add(newListing("B", "20.00", "Acme"))

	total := cart.TotalConverted(decimal.RequireFromString("3.65"))
	assert.Equal(t, "109.50", total.StringFixed(2))
}

func TestCart_GroupBySeller_KeepsFirstSeenOrder(t *testing.T) {
	cart := NewCart()
	cart.Add(newListing("A", "1", "beta"))
	cart.Add(newListing("B", "2", "alpha"))
	cart.Add(newListing("C", "3", "beta"))

	groups := cart.GroupBySeller()
	require.Len(t, groups, 2)
	assert.Equal(t, "beta", groups[0].Seller)
	assert.Len(t, groups[0].Entries, 2)
	assert.Equal(t, "alpha", groups[1].Seller)
	assert.Len(t, cart.BySeller("beta"), 2)
}

func TestCart_ContextString(t *testing.T) {
	cart := NewCart()
	assert.Equal(t, "empty", cart.ContextString())

	l := newListing("Chair", "12.00", "acme")
	l.Comments = []string{"good", "fast"}
	cart.Add(l)
	assert.Equal(t, "Chair|12.00|New|acme|good; fast|5", cart.ContextString())
}

func TestCart_Clear(t *testing.T) {
	cart := NewCart()
	cart.Add(newListing("A", "1", "s"))
	cart.Clear()
	assert.Equal(t, 0, cart.Len())
	assert.True(t, cart.Total().IsZero())
}

func TestParseCondition(t *testing.T) {
	cases := map[string]Condition{
		"New":                      ConditionNew,
		"New other (see details)":  ConditionNew,
		"Used":                     ConditionUsed,
		"Pre-Owned":                ConditionUsed,
		"Certified - Refurbished":  ConditionRefurbished,
		"For parts or not working": ConditionForParts,
		"":                         ConditionUnknown,
		"Mystery":                  ConditionUnknown,
	}
	for text, want := range cases {
		assert.Equal(t, want, ParseCondition(text), text)
	}
}

func TestSearchSession_Navigation(t *testing.T) {
	s := SearchSession{}
	results := make([]Listing, 10)
	s.Reset("chairs", "All Categories", "", nil, SortBestMatch, 3, results)

	assert.Equal(t, 4, s.TotalPages())
	assert.False(t, s.PrevPage())
	assert.True(t, s.NextPage())
	assert.True(t, s.NextPage())
	assert.True(t, s.NextPage())
	assert.False(t, s.NextPage())
	assert.Equal(t, 3, s.Page)

	s.Reset("desks", "All Categories", "", nil, SortBestMatch, 3, results)
	assert.Equal(t, 0, s.Page)
}

func TestParseSortDirective(t *testing.T) {
	d, err := ParseSortDirective("Price: Low to High")
	require.NoError(t, err)
	assert.Equal(t, SortPriceAsc, d)
	assert.Equal(t, "price", d.APIValue())

	d, err = ParseSortDirective("")
	require.NoError(t, err)
	assert.Equal(t, SortBestMatch, d)
	assert.Empty(t, d.APIValue())

	_, err = ParseSortDirective("random")
	assert.Error(t, err)
}

package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

const emptyCartContext = "empty"

type CartEntry struct {
	Listing
	AddedAt time.Time `json:"added_at"`
}

type Cart struct {
	Entries   []CartEntry `json:"entries"`
	UpdatedAt time.Time   `json:"updated_at"`
}

type SellerGroup struct {
	Seller  string      `json:"seller"`
	Entries []CartEntry `json:"entries"`
}

func NewCart() *Cart {
	return &Cart{
		Entries:   make([]CartEntry, 0),
		UpdatedAt: time.Now().UTC(),
	}
}

func (c *Cart) Get(id string) (*CartEntry, int) {
	for i := range c.Entries {
		if c.Entries[i].ID == id {
			return &c.Entries[i], i
		}
	}
	return nil, -1
}

func (c *Cart) Contains(id string) bool {
	_, idx := c.Get(id)
	return idx != -1
}

// Add appends the listing unless an entry with the same id exists. It reports
// whether the cart changed.
func (c *Cart) Add(listing Listing) bool {
	if listing.ID == "" {
		listing.ID = ListingID(listing.Title)
	}
	if c.Contains(listing.ID) {
		return false
	}
	now := time.Now().UTC()
	c.Entries = append(c.Entries, CartEntry{Listing: listing, AddedAt: now})
	c.UpdatedAt = now
	return true
}

// Remove drops every entry carrying id and returns how many were removed.
func (c *Cart) Remove(id string) int {
	kept := c.Entries[:0]
	removed := 0
	for _, e := range c.Entries {
		if e.ID == id {
			removed++
			continue
		}
		kept = append(kept, e)
	}
	c.Entries = kept
	if removed > 0 {
		c.UpdatedAt = time.Now().UTC()
	}
	return removed
}

func (c *Cart) Clear() {
	c.Entries = make([]CartEntry, 0)
	c.UpdatedAt = time.Now().UTC()
}

func (c *Cart) Len() int {
	return len(c.Entries)
}

// Total sums the source-currency prices that parse; the rest are skipped.
func (c *Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, e := range c.Entries {
		if amount, ok := e.Amount(); ok {
			total = total.Add(amount)
		}
	}
	return total
}

func (c *Cart) TotalConverted(rate decimal.Decimal) decimal.Decimal {
	return c.Total().Mul(rate)
}

func (c *Cart) BySeller(seller string) []CartEntry {
	var out []CartEntry
	for _, e := range c.Entries {
		if e.Seller == seller {
			out = append(out, e)
		}
	}
	return out
}

// GroupBySeller groups entries by seller in first-seen order.
func (c *Cart) GroupBySeller() []SellerGroup {
	index := make(map[string]int)
	groups := make([]SellerGroup, 0)
	for _, e := range c.Entries {
		i, ok := index[e.Seller]
		if !ok {
			index[e.Seller] = len(groups)
			groups = append(groups, SellerGroup{Seller: e.Seller, Entries: []CartEntry{e}})
			continue
		}
		groups[i].Entries = append(groups[i].Entries, e)
	}
	return groups
}

func (c *Cart) Listings() []Listing {
	out := make([]Listing, 0, len(c.Entries))
	for _, e := range c.Entries {
		out = append(out, e.Listing)
	}
	return out
}

func (c *Cart) ContextString() string {
	if len(c.Entries) == 0 {
		return emptyCartContext
	}
	return ContextRows(c.Listings())
}

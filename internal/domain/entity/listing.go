package entity

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/shopspring/decimal"
)

type Condition string

const (
	ConditionNew         Condition = "New"
	ConditionUsed        Condition = "Used"
	ConditionRefurbished Condition = "Refurbished"
	ConditionForParts    Condition = "ForParts"
	ConditionUnknown     Condition = "Unknown"
)

// ParseCondition maps free-form marketplace condition text onto the closed set.
func ParseCondition(text string) Condition {
	t := strings.ToLower(strings.TrimSpace(text))
	switch {
	case t == "":
		return ConditionUnknown
	case strings.Contains(t, "for parts"):
		return ConditionForParts
	case strings.Contains(t, "refurbished"):
		return ConditionRefurbished
	case strings.Contains(t, "used"), strings.Contains(t, "pre-owned"):
		return ConditionUsed
	case strings.Contains(t, "new"), strings.Contains(t, "open box"):
		return ConditionNew
	default:
		return ConditionUnknown
	}
}

// RawListing is a provider record before formatting. Empty strings mean the
// provider omitted the field.
type RawListing struct {
	ItemID    string
	Title     string
	Price     string
	Currency  string
	ImageURL  string
	Condition string
	Seller    string
	URL       string
	EndTime   string
	ListedAt  string
}

type Listing struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Price         string    `json:"price"`
	Currency      string    `json:"currency,omitempty"`
	Condition     Condition `json:"condition"`
	ConditionText string    `json:"condition_text"`
	Seller        string    `json:"seller"`
	ImageURL      string    `json:"image_url"`
	SourceURL     string    `json:"source_url"`
	Verified      bool      `json:"verified"`
	Rating        int       `json:"rating"`
	Comments      []string  `json:"comments"`
	EndTime       string    `json:"end_time,omitempty"`
	ListedAt      string    `json:"listed_at,omitempty"`
}

// ListingID derives the stable identifier used when the provider gives none.
func ListingID(title string) string {
	return fmt.Sprintf("%016x", xxhash.Sum64String(title))
}

// Amount parses the source-currency price. ok is false for empty or
// non-numeric values.
func (l Listing) Amount() (decimal.Decimal, bool) {
	raw := strings.TrimSpace(l.Price)
	if raw == "" {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

func (l Listing) Converted(rate decimal.Decimal) (decimal.Decimal, bool) {
	amount, ok := l.Amount()
	if !ok {
		return decimal.Zero, false
	}
	return amount.Mul(rate), true
}

// ContextRow renders the listing as a pipe-delimited row for chat context.
func (l Listing) ContextRow() string {
	price := l.Price
	if price == "" {
		price = "0.00"
	}
	condition := l.ConditionText
	if condition == "" {
		condition = string(ConditionUnknown)
	}
	seller := l.Seller
	if seller == "" {
		seller = "Unknown"
	}
	comments := "Unknown"
	if len(l.Comments) > 0 {
		comments = strings.Join(l.Comments, "; ")
	}
	rating := "Unknown"
	if l.Rating > 0 {
		rating = strconv.Itoa(l.Rating)
	}
	return strings.Join([]string{l.Title, price, condition, seller, comments, rating}, "|")
}

// ContextRows joins listings into newline separated context rows.
func ContextRows(listings []Listing) string {
	rows := make([]string, 0, len(listings))
	for _, l := range listings {
		rows = append(rows, l.ContextRow())
	}
	return strings.Join(rows, "\n")
}

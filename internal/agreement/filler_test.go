package agreement

import (
	"os"
	"strings"
	"testing"
	"time"

	"github.com/shaymaabd/AMPA/internal/domain/entity"
	"github.com/shaymaabd/AMPA/internal/platform/logger"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedPicker int

func (p fixedPicker) Intn(n int) int { return int(p) % n }

func newTestFiller() *Filler {
	return NewFiller(Options{
		CustomerName:    "AMPA Procurement",
		CustomerAddress: "Dubai, United Arab Emirates",
		Representative:  "AMPA Procurement Representative",
		Rate:            decimal.RequireFromString("3.65"),
		Now:             func() time.Time { return time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC) },
		Rand:            fixedPicker(2),
	}, logger.NewNop())
}

func entry(title, price, seller string) entity.CartEntry {
	return entity.CartEntry{Listing: entity.Listing{
		ID:            entity.ListingID(title),
		Title:         title,
		Price:         price,
		ConditionText: "New",
		Seller:        seller,
	}}
}

func loadTemplate(t *testing.T) string {
	t.Helper()
	raw, err := os.ReadFile("../../assets/document_to_edit/Supply_Agreement_Arial.html")
	require.NoError(t, err)
	text, _, err := Decode(raw)
	require.NoError(t, err)
	return text
}

func TestFiller_Fill_MultipleItems(t *testing.T) {
	f := newTestFiller()
	entries := []entity.CartEntry{entry("Desk", "10", "Acme"), entry("Lamp", "20", "Acme")}

	res, err := f.Fill(loadTemplate(t), "Acme", entries)
	require.NoError(t, err)

	assert.Empty(t, res.Skipped)
	assert.Equal(t, "Total Agreed Price", res.Label)
	assert.True(t, res.Total.Equal(decimal.RequireFromString("109.5")))
	assert.Equal(t, "2025-03-14", res.Date)
	assert.Equal(t, "Japan, Tokyo", res.SupplierAddress)

	assert.Contains(t, res.HTML, "Total Agreed Price: AED 109.50")
	assert.Contains(t, res.HTML, "Desk - New - AED 36.50")
	assert.Contains(t, res.HTML, "Lamp - New - AED 73.00")
	assert.Contains(t, res.HTML, "Acme, located at Japan, Tokyo")
	assert.Contains(t, res.HTML, "Dubai, United Arab Emirates")
	assert.Contains(t, res.HTML, "Date: 2025-03-14")
	assert.Contains(t, res.HTML, "AMPA Procurement Representative")
	assert.NotContains(t, res.HTML, "[PRODUCT DESCRIPTION]")
	assert.NotContains(t, res.HTML, "[SUPPLIER NAME]")
	assert.NotContains(t, res.HTML, "[DATE]")

	priceIdx := strings.Index(res.HTML, "2. PRICE")
	totalIdx := strings.Index(res.HTML, "Total Agreed Price: AED")
	deliveryIdx := strings.Index(res.HTML, "3. DELIVERY")
	assert.Less(t, priceIdx, totalIdx)
	assert.Less(t, totalIdx, deliveryIdx)
}

func TestFiller_Fill_SingleItemUsesAgreedPrice(t *testing.T) {
	f := newTestFiller()

	res, err := f.Fill(loadTemplate(t), "Acme", []entity.CartEntry{entry("Desk", "10", "Acme")})
	require.NoError(t, err)

	assert.Equal(t, "Agreed Price", res.Label)
	assert.Contains(t, res.HTML, "Agreed Price: AED 36.50")
	assert.NotContains(t, res.HTML, "Total Agreed Price")
}

func TestFiller_Fill_NonNumericPriceSkippedInTotal(t *testing.T) {
	f := newTestFiller()
	entries := []entity.CartEntry{entry("Desk", "N/A", "Acme"), entry("Lamp", "20", "Acme")}

	res, err := f.Fill(loadTemplate(t), "Acme", entries)
	require.NoError(t, err)

	assert.True(t, res.Total.Equal(decimal.RequireFromString("73")))
	assert.Contains(t, res.HTML, "Desk - New - AED N/A")
}

func TestFiller_Fill_MissingSectionsAreSkipped(t *testing.T) {
	f := newTestFiller()
	content := `<html><body><p>Dated [DATE] for [SUPPLIER NAME] and [SUPPLIER NAME] at [CUSTOMER ADDRESS]</p></body></html>`

	res, err := f.Fill(content, "Acme", []entity.CartEntry{entry("Desk", "10", "Acme")})
	require.NoError(t, err)

	assert.Equal(t, []string{StepItems, StepPrice, StepSignature}, res.Skipped)
	assert.Contains(t, res.HTML, "Dated 2025-03-14 for Acme and Acme at Dubai, United Arab Emirates")
}

func TestFiller_ItemLineDefaults(t *testing.T) {
	f := newTestFiller()
	line := f.ItemLine(entity.CartEntry{Listing: entity.Listing{Price: "1"}})
	assert.Equal(t, "Unknown Product - Not specified - AED 3.65", line)
}

func TestNewFiller_DefaultRate(t *testing.T) {
	f := NewFiller(Options{}, logger.NewNop())
	assert.True(t, f.opts.Rate.Equal(decimal.RequireFromString("3.65")))
	assert.NotNil(t, f.opts.Now)
	assert.NotNil(t, f.opts.Rand)
}

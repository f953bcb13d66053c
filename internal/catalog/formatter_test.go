package catalog

import (
	"testing"

	"github.com/shaymaabd/AMPA/internal/domain/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedRand replays fixed Float64 draws and answers Intn with a constant.
type scriptedRand struct {
	floats []float64
	intn   int
}

func (s *scriptedRand) Float64() float64 {
	v := s.floats[0]
	s.floats = s.floats[1:]
	return v
}

func (s *scriptedRand) Intn(n int) int {
	if s.intn >= n {
		return n - 1
	}
	return s.intn
}

func (s *scriptedRand) Perm(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = n - 1 - i
	}
	return out
}

func TestFormatter_Format_Defaults(t *testing.T) {
	f := NewSeededFormatter(1)

	l := f.Format(entity.RawListing{})

	assert.Equal(t, DefaultTitle, l.Title)
	assert.Equal(t, DefaultPrice, l.Price)
	assert.Equal(t, DefaultImage, l.ImageURL)
	assert.Equal(t, DefaultCondition, l.ConditionText)
	assert.Equal(t, entity.ConditionUnknown, l.Condition)
	assert.Equal(t, DefaultSeller, l.Seller)
	assert.Equal(t, DefaultURL, l.SourceURL)
	assert.Equal(t, entity.ListingID(DefaultTitle), l.ID)
}

func TestFormatter_Format_Invariants(t *testing.T) {
	f := NewSeededFormatter(42)

	for i := 0; i < 500; i++ {
		l := f.Format(entity.RawListing{Title: "Chair", Price: "12.50", Seller: "acme", Condition: "Used"})

		assert.GreaterOrEqual(t, l.Rating, 1)
		assert.LessOrEqual(t, l.Rating, 5)
		require.Len(t, l.Comments, 5)

		seen := make(map[string]bool)
		for _, c := range l.Comments {
			assert.False(t, seen[c], "duplicate comment %q", c)
			seen[c] = true
		}
	}
}

func TestFormatter_Format_ReproducibleForSeed(t *testing.T) {
	raws := []entity.RawListing{{Title: "A"}, {Title: "B"}, {Title: "C"}}

	first := NewSeededFormatter(7).FormatAll(raws)
	second := NewSeededFormatter(7).FormatAll(raws)

	assert.Equal(t, first, second)
}

func TestFormatter_Format_Tiers(t *testing.T) {
	testCases := []struct {
		name       string
		tierDraw   float64
		intn       int
		wantRating int
		pool       []string
	}{
		{name: "positive", tierDraw: 0.1, intn: 1, wantRating: 5, pool: positiveComments},
		{name: "mixed", tierDraw: 0.7, intn: 0, wantRating: 3, pool: mixedComments},
		{name: "negative", tierDraw: 0.95, intn: 2, wantRating: 3, pool: negativeComments},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rng := &scriptedRand{floats: []float64{tc.tierDraw, 0.5}, intn: tc.intn}
			f := NewFormatter(rng)

			l := f.Format(entity.RawListing{Title: "Desk"})

			assert.Equal(t, tc.wantRating, l.Rating)
			assert.True(t, l.Verified)
			for _, c := range l.Comments {
				assert.Contains(t, tc.pool, c)
			}
			assert.Equal(t, tc.pool[len(tc.pool)-1], l.Comments[0])
		})
	}
}

func TestFormatter_Format_NotVerified(t *testing.T) {
	rng := &scriptedRand{floats: []float64{0.1, 0.85}}
	l := NewFormatter(rng).Format(entity.RawListing{Title: "Desk"})
	assert.False(t, l.Verified)
}

func TestFormatter_Format_KeepsProviderFields(t *testing.T) {
	f := NewSeededFormatter(3)
	raw := entity.RawListing{
		ItemID:    "v1|123|0",
		Title:     "Printer",
		Price:     "99.99",
		Currency:  "USD",
		ImageURL:  "https://img/1.jpg",
		Condition: "New",
		Seller:    "printshop",
		URL:       "https://ebay/itm/1",
		EndTime:   "2026-01-01T00:00:00Z",
		ListedAt:  "2025-12-01T00:00:00Z",
	}

	l := f.Format(raw)

	assert.Equal(t, "v1|123|0", l.ID)
	assert.Equal(t, "99.99", l.Price)
	assert.Equal(t, entity.ConditionNew, l.Condition)
	assert.Equal(t, "printshop", l.Seller)
	assert.Equal(t, "https://ebay/itm/1", l.SourceURL)
	assert.Equal(t, "2026-01-01T00:00:00Z", l.EndTime)
}

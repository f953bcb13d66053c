package catalog

import (
	"math/rand"
	"sync"
	"time"

	"github.com/shaymaabd/AMPA/internal/domain/entity"
)

const (
	DefaultTitle     = "No title"
	DefaultPrice     = "N/A"
	DefaultImage     = "assets/images/placeholder.png"
	DefaultCondition = "Unknown"
	DefaultSeller    = "Unknown"
	DefaultURL       = "#"

	commentsPerListing  = 5
	verifiedProbability = 0.8
)

// RandomSource is the subset of *rand.Rand the formatter draws from.
type RandomSource interface {
	Float64() float64
	Intn(n int) int
	Perm(n int) []int
}

// Formatter turns provider records into display listings with synthetic
// trust signals. Safe for concurrent use.
type Formatter struct {
	mu  sync.Mutex
	rng RandomSource
}

func NewFormatter(rng RandomSource) *Formatter {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Formatter{rng: rng}
}

// NewSeededFormatter gives reproducible output for a fixed seed.
func NewSeededFormatter(seed int64) *Formatter {
	return NewFormatter(rand.New(rand.NewSource(seed)))
}

func (f *Formatter) Format(raw entity.RawListing) entity.Listing {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.format(raw)
}

func (f *Formatter) FormatAll(raws []entity.RawListing) []entity.Listing {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([]entity.Listing, 0, len(raws))
	for _, raw := range raws {
		out = append(out, f.format(raw))
	}
	return out
}

func (f *Formatter) format(raw entity.RawListing) entity.Listing {
	tier := f.pickTier()
	rating := tier.minRating + f.rng.Intn(tier.maxRating-tier.minRating+1)
	comments := f.sample(tier.pool, commentsPerListing)

	title := orDefault(raw.Title, DefaultTitle)
	id := raw.ItemID
	if id == "" {
		id = entity.ListingID(title)
	}
	conditionText := orDefault(raw.Condition, DefaultCondition)

	return entity.Listing{
		ID:            id,
		Title:         title,
		Price:         orDefault(raw.Price, DefaultPrice),
		Currency:      raw.Currency,
		Condition:     entity.ParseCondition(raw.Condition),
		ConditionText: conditionText,
		Seller:        orDefault(raw.Seller, DefaultSeller),
		ImageURL:      orDefault(raw.ImageURL, DefaultImage),
		SourceURL:     orDefault(raw.URL, DefaultURL),
		Verified:      f.rng.Float64() < verifiedProbability,
		Rating:        rating,
		Comments:      comments,
		EndTime:       raw.EndTime,
		ListedAt:      raw.ListedAt,
	}
}

func (f *Formatter) pickTier() sentimentTier {
	draw := f.rng.Float64()
	cumulative := 0.0
	for _, tier := range sentimentTiers {
		cumulative += tier.weight
		if draw < cumulative {
			return tier
		}
	}
	return sentimentTiers[len(sentimentTiers)-1]
}

// sample draws n distinct entries from pool without replacement.
func (f *Formatter) sample(pool []string, n int) []string {
	if n > len(pool) {
		n = len(pool)
	}
	perm := f.rng.Perm(len(pool))
	out := make([]string, 0, n)
	for _, idx := range perm[:n] {
		out = append(out, pool[idx])
	}
	return out
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

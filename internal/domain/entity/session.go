package entity

import (
	"fmt"
	"time"
)

type SortDirective string

const (
	SortBestMatch   SortDirective = "best-match"
	SortPriceAsc    SortDirective = "price-asc"
	SortPriceDesc   SortDirective = "price-desc"
	SortEndTime     SortDirective = "end-time"
	SortNewlyListed SortDirective = "newly-listed"
)

// SortOption pairs a directive with the label shown to users.
type SortOption struct {
	Directive SortDirective `json:"directive"`
	Label     string        `json:"label"`
}

var SortOptions = []SortOption{
	{SortBestMatch, "Best Match"},
	{SortPriceAsc, "Price: Low to High"},
	{SortPriceDesc, "Price: High to Low"},
	{SortEndTime, "Ending Soonest"},
	{SortNewlyListed, "Newly Listed"},
}

// ParseSortDirective accepts a directive or its label. Empty input means best match.
func ParseSortDirective(s string) (SortDirective, error) {
	if s == "" {
		return SortBestMatch, nil
	}
	for _, opt := range SortOptions {
		if string(opt.Directive) == s || opt.Label == s {
			return opt.Directive, nil
		}
	}
	return "", fmt.Errorf("unknown sort directive %q", s)
}

// APIValue is the marketplace sort parameter for the directive. Best match
// sends nothing.
func (d SortDirective) APIValue() string {
	switch d {
	case SortPriceAsc:
		return "price"
	case SortPriceDesc:
		return "-price"
	case SortEndTime:
		return "endingSoonest"
	case SortNewlyListed:
		return "newlyListed"
	default:
		return ""
	}
}

type SearchSession struct {
	Query       string        `json:"query"`
	Category    string        `json:"category"`
	Subcategory string        `json:"subcategory,omitempty"`
	Filters     []string      `json:"filters,omitempty"`
	Sort        SortDirective `json:"sort"`
	Page        int           `json:"page"`
	PageSize    int           `json:"page_size"`
	Results     []Listing     `json:"results"`
	SubmittedAt time.Time     `json:"submitted_at"`
}

// Reset replaces the result set and rewinds to the first page.
func (s *SearchSession) Reset(query, category, subcategory string, filters []string, sort SortDirective, pageSize int, results []Listing) {
	s.Query = query
	s.Category = category
	s.Subcategory = subcategory
	s.Filters = filters
	s.Sort = sort
	s.PageSize = pageSize
	s.Results = results
	s.Page = 0
	s.SubmittedAt = time.Now().UTC()
}

func (s *SearchSession) HasResults() bool {
	return !s.SubmittedAt.IsZero()
}

func (s *SearchSession) TotalPages() int {
	if s.PageSize <= 0 {
		return 0
	}
	return (len(s.Results) + s.PageSize - 1) / s.PageSize
}

func (s *SearchSession) CanPrev() bool {
	return s.Page > 0
}

func (s *SearchSession) CanNext() bool {
	return s.Page < s.TotalPages()-1
}

// NextPage advances one page; it is a no-op on the last page.
func (s *SearchSession) NextPage() bool {
	if !s.CanNext() {
		return false
	}
	s.Page++
	return true
}

// PrevPage steps back one page; it is a no-op on the first page.
func (s *SearchSession) PrevPage() bool {
	if !s.CanPrev() {
		return false
	}
	s.Page--
	return true
}

func (s *SearchSession) Find(id string) (Listing, bool) {
	for _, l := range s.Results {
		if l.ID == id {
			return l, true
		}
	}
	return Listing{}, false
}

type Session struct {
	ID        string        `json:"id"`
	Search    SearchSession `json:"search"`
	Cart      *Cart         `json:"cart"`
	Chat      []ChatMessage `json:"chat"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

func NewSession(id string) *Session {
	now := time.Now().UTC()
	return &Session{
		ID:        id,
		Search:    SearchSession{Sort: SortBestMatch},
		Cart:      NewCart(),
		Chat:      make([]ChatMessage, 0),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Lookup finds a listing in the current results or, failing that, in the cart.
func (s *Session) Lookup(id string) (Listing, bool) {
	if l, ok := s.Search.Find(id); ok {
		return l, true
	}
	if s.Cart != nil {
		if e, _ := s.Cart.Get(id); e != nil {
			return e.Listing, true
		}
	}
	return Listing{}, false
}

func (s *Session) AppendChat(role, content string) {
	s.Chat = append(s.Chat, ChatMessage{Role: role, Content: content})
}

// TrimChat keeps only the most recent n messages. A non-positive n keeps
// everything.
func (s *Session) TrimChat(n int) {
	if n <= 0 || len(s.Chat) <= n {
		return
	}
	s.Chat = append([]ChatMessage(nil), s.Chat[len(s.Chat)-n:]...)
}

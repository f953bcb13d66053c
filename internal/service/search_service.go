package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shaymaabd/AMPA/internal/adapter/ebay"
	"github.com/shaymaabd/AMPA/internal/catalog"
	"github.com/shaymaabd/AMPA/internal/domain"
	"github.com/shaymaabd/AMPA/internal/domain/entity"
	"github.com/shaymaabd/AMPA/internal/platform/logger"
	"github.com/shaymaabd/AMPA/internal/platform/metrics"
	"go.opentelemetry.io/otel"
)

const (
	defaultPageSize    = 9
	defaultSearchLimit = 50
	defaultMaxRetries  = 3
	defaultCeiling     = 10000
)

// SearchProvider is the remote marketplace.
type SearchProvider interface {
	Search(ctx context.Context, req ebay.SearchRequest) ([]entity.RawListing, error)
}

type SearchParams struct {
	Term        string
	Category    string
	Subcategory string
	Condition   string
	MaxPrice    int
	Sort        entity.SortDirective
}

// SearchPage is one page of the session's current result set.
type SearchPage struct {
	Query        string               `json:"query"`
	Category     string               `json:"category"`
	Subcategory  string               `json:"subcategory,omitempty"`
	Sort         entity.SortDirective `json:"sort"`
	Page         int                  `json:"page"`
	PageSize     int                  `json:"page_size"`
	TotalPages   int                  `json:"total_pages"`
	TotalResults int                  `json:"total_results"`
	CanPrev      bool                 `json:"can_prev"`
	CanNext      bool                 `json:"can_next"`
	Items        []entity.Listing     `json:"items"`
	Warnings     []string             `json:"warnings,omitempty"`
}

type SearchService interface {
	Search(ctx context.Context, sessionID string, params SearchParams) (*SearchPage, error)
	View(ctx context.Context, sessionID string, sort *entity.SortDirective, page *int) (*SearchPage, error)
	Next(ctx context.Context, sessionID string) (*SearchPage, error)
	Prev(ctx context.Context, sessionID string) (*SearchPage, error)
}

type SearchServiceConfig struct {
	PageSize     int
	SearchLimit  int
	PriceCeiling int
	MaxRetries   int
	RetryDelay   time.Duration
}

type searchService struct {
	provider  SearchProvider
	formatter *catalog.Formatter
	sessions  SessionService
	metrics   *metrics.MetricsManager
	log       logger.Logger
	cfg       SearchServiceConfig
}

func NewSearchService(
	provider SearchProvider,
	formatter *catalog.Formatter,
	sessions SessionService,
	m *metrics.MetricsManager,
	log logger.Logger,
	cfg SearchServiceConfig,
) SearchService {
	if cfg.PageSize <= 0 {
		cfg.PageSize = defaultPageSize
	}
	if cfg.SearchLimit <= 0 {
		cfg.SearchLimit = defaultSearchLimit
	}
	if cfg.PriceCeiling <= 0 {
		cfg.PriceCeiling = defaultCeiling
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = defaultMaxRetries
	}
	return &searchService{
		provider:  provider,
		formatter: formatter,
		sessions:  sessions,
		metrics:   m,
		log:       log,
		cfg:       cfg,
	}
}

func (s *searchService) Search(ctx context.Context, sessionID string, params SearchParams) (*SearchPage, error) {
	ctx, span := otel.Tracer("ampa/service").Start(ctx, "SearchService.Search")
	defer span.End()

	var warnings []string
	category, subcategory := params.Category, params.Subcategory
	if category == "" {
		category = catalog.AllCategories
	}
	if err := catalog.ValidateCategory(category, subcategory); err != nil {
		s.log.Warnf("Invalid category selection %q/%q for session %s, resetting: %v", category, subcategory, sessionID, err)
		warnings = append(warnings, fmt.Sprintf("Invalid category selection %q, searching all categories instead.", strings.TrimSpace(category+" "+subcategory)))
		category, subcategory = catalog.AllCategories, ""
	}

	query := catalog.BuildQuery(category, subcategory, params.Term)
	if query == "" {
		return nil, fmt.Errorf("%w: search term is required", domain.ErrValidation)
	}
	filters, err := catalog.BuildFilters(params.Condition, params.MaxPrice, s.cfg.PriceCeiling)
	if err != nil {
		return nil, err
	}
	sort := params.Sort
	if sort == "" {
		sort = entity.SortBestMatch
	}

	raws, err := s.searchWithRetry(ctx, ebay.SearchRequest{
		Query:   query,
		Limit:   s.cfg.SearchLimit,
		Sort:    sort.APIValue(),
		Filters: filters,
	})
	s.metrics.SearchesTotal.WithLabelValues(metrics.Outcome(err)).Inc()
	if err != nil {
		return nil, err
	}
	s.metrics.SearchResults.Observe(float64(len(raws)))

	results := s.formatter.FormatAll(raws)
	session, err := s.sessions.Update(ctx, sessionID, func(session *entity.Session) (bool, error) {
		session.Search.Reset(query, category, subcategory, filters, sort, s.cfg.PageSize, results)
		return true, nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Infof("Search %q for session %s returned %d listings", query, sessionID, len(results))
	page := s.view(session)
	page.Warnings = warnings
	return page, nil
}

func (s *searchService) searchWithRetry(ctx context.Context, req ebay.SearchRequest) ([]entity.RawListing, error) {
	var lastErr error
	for attempt := 1; attempt <= s.cfg.MaxRetries; attempt++ {
		raws, err := s.provider.Search(ctx, req)
		if err == nil {
			return raws, nil
		}
		lastErr = err
		s.log.Warnf("Search attempt %d/%d for %q failed: %v", attempt, s.cfg.MaxRetries, req.Query, err)

		if attempt < s.cfg.MaxRetries && s.cfg.RetryDelay > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(s.cfg.RetryDelay):
			}
		}
	}
	if !errors.Is(lastErr, domain.ErrRemoteCall) {
		lastErr = fmt.Errorf("%w: %w", domain.ErrRemoteCall, lastErr)
	}
	return nil, fmt.Errorf("search failed after %d attempts: %w", s.cfg.MaxRetries, lastErr)
}

// View returns the current page, optionally switching sort order (which
// rewinds to the first page) or jumping to page.
func (s *searchService) View(ctx context.Context, sessionID string, sort *entity.SortDirective, page *int) (*SearchPage, error) {
	session, err := s.sessions.Update(ctx, sessionID, func(session *entity.Session) (bool, error) {
		if !session.Search.HasResults() {
			return false, domain.ErrNoResults
		}

		changed := false
		if sort != nil && *sort != session.Search.Sort {
			session.Search.Sort = *sort
			session.Search.Page = 0
			changed = true
		}
		if page != nil && *page != session.Search.Page {
			total := session.Search.TotalPages()
			if *page < 0 || *page >= total {
				return false, fmt.Errorf("%w: page %d of %d", domain.ErrInvalidPage, *page, total)
			}
			session.Search.Page = *page
			changed = true
		}
		return changed, nil
	})
	if err != nil {
		return nil, err
	}
	return s.view(session), nil
}

func (s *searchService) Next(ctx context.Context, sessionID string) (*SearchPage, error) {
	return s.step(ctx, sessionID, (*entity.SearchSession).NextPage)
}

func (s *searchService) Prev(ctx context.Context, sessionID string) (*SearchPage, error) {
	return s.step(ctx, sessionID, (*entity.SearchSession).PrevPage)
}

func (s *searchService) step(ctx context.Context, sessionID string, move func(*entity.SearchSession) bool) (*SearchPage, error) {
	session, err := s.sessions.Update(ctx, sessionID, func(session *entity.Session) (bool, error) {
		if !session.Search.HasResults() {
			return false, domain.ErrNoResults
		}
		return move(&session.Search), nil
	})
	if err != nil {
		return nil, err
	}
	return s.view(session), nil
}

func (s *searchService) view(session *entity.Session) *SearchPage {
	st := &session.Search
	sorted := catalog.Sort(st.Results, st.Sort)
	return &SearchPage{
		Query:        st.Query,
		Category:     st.Category,
		Subcategory:  st.Subcategory,
		Sort:         st.Sort,
		Page:         st.Page,
		PageSize:     st.PageSize,
		TotalPages:   st.TotalPages(),
		TotalResults: len(st.Results),
		CanPrev:      st.CanPrev(),
		CanNext:      st.CanNext(),
		Items:        catalog.Paginate(sorted, st.PageSize, st.Page),
	}
}

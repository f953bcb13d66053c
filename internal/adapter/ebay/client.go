package ebay

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/shaymaabd/AMPA/internal/app/config"
	"github.com/shaymaabd/AMPA/internal/domain"
	"github.com/shaymaabd/AMPA/internal/domain/entity"
	"github.com/shaymaabd/AMPA/internal/platform/logger"
	"github.com/sony/gobreaker/v2"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const (
	requestTimeout  = 30 * time.Second
	marketplaceHdr  = "X-EBAY-C-MARKETPLACE-ID"
	grantType       = "client_credentials"
	breakerInterval = time.Minute
)

type SearchRequest struct {
	Query   string
	Limit   int
	Sort    string
	Filters []string
}

type Client struct {
	http    *resty.Client
	cfg     config.EbayConfig
	log     logger.Logger
	breaker *gobreaker.CircuitBreaker[[]entity.RawListing]

	mu    sync.Mutex
	token string
}

func NewClient(cfg config.EbayConfig, log logger.Logger) *Client {
	httpClient := resty.New().
		SetTimeout(requestTimeout).
		SetTransport(otelhttp.NewTransport(http.DefaultTransport))

	failures := cfg.BreakerFailures
	if failures == 0 {
		failures = 5
	}
	breaker := gobreaker.NewCircuitBreaker[[]entity.RawListing](gobreaker.Settings{
		Name:        "ebay-search",
		MaxRequests: 1,
		Interval:    breakerInterval,
		Timeout:     cfg.BreakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= failures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warnf("Circuit breaker %s changed from %s to %s", name, from, to)
		},
	})

	return &Client{
		http:    httpClient,
		cfg:     cfg,
		log:     log,
		breaker: breaker,
	}
}

// Token returns the cached application token, requesting one on first use.
// The token lives for the life of the process.
func (c *Client) Token(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.token != "" {
		return c.token, nil
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/x-www-form-urlencoded").
		SetHeader("Accept", "application/json").
		SetBasicAuth(c.cfg.ClientID, c.cfg.ClientSecret).
		SetFormData(map[string]string{
			"grant_type": grantType,
			"scope":      c.cfg.Scope,
		}).
		Post(c.cfg.AuthURL)
	if err != nil {
		return "", fmt.Errorf("%w: failed to get access token: %v", domain.ErrRemoteCall, err)
	}
	if resp.IsError() {
		return "", fmt.Errorf("%w: failed to get access token: %s - %s", domain.ErrRemoteCall, resp.Status(), resp.String())
	}

	var tokenResp struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int    `json:"expires_in"`
	}
	if err := json.Unmarshal(resp.Body(), &tokenResp); err != nil {
		return "", fmt.Errorf("%w: failed to parse token response: %v", domain.ErrRemoteCall, err)
	}
	if tokenResp.AccessToken == "" {
		return "", fmt.Errorf("%w: token response has no access_token", domain.ErrRemoteCall)
	}

	c.token = tokenResp.AccessToken
	c.log.Infof("Obtained marketplace access token (expires in %ds)", tokenResp.ExpiresIn)
	return c.token, nil
}

// Search queries the item summary endpoint. Every failure wraps
// domain.ErrRemoteCall.
func (c *Client) Search(ctx context.Context, req SearchRequest) ([]entity.RawListing, error) {
	items, err := c.breaker.Execute(func() ([]entity.RawListing, error) {
		return c.search(ctx, req)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, fmt.Errorf("%w: search unavailable: %v", domain.ErrRemoteCall, err)
		}
		return nil, err
	}
	return items, nil
}

func (c *Client) search(ctx context.Context, req SearchRequest) ([]entity.RawListing, error) {
	token, err := c.Token(ctx)
	if err != nil {
		return nil, err
	}

	params := map[string]string{
		"q":     req.Query,
		"limit": strconv.Itoa(req.Limit),
	}
	if req.Sort != "" {
		params["sort"] = req.Sort
	}
	if len(req.Filters) > 0 {
		params["filter"] = strings.Join(req.Filters, ",")
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetAuthToken(token).
		SetHeader(marketplaceHdr, c.cfg.MarketplaceID).
		SetHeader("Accept", "application/json").
		SetQueryParams(params).
		Get(c.cfg.SearchURL)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to search items: %v", domain.ErrRemoteCall, err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("%w: failed to search items: %s - %s", domain.ErrRemoteCall, resp.Status(), resp.String())
	}

	var body searchResponse
	if err := json.Unmarshal(resp.Body(), &body); err != nil {
		return nil, fmt.Errorf("%w: failed to parse search response: %v", domain.ErrRemoteCall, err)
	}

	items := make([]entity.RawListing, 0, len(body.ItemSummaries))
	for _, s := range body.ItemSummaries {
		items = append(items, s.toRaw())
	}
	c.log.Debugf("Search %q returned %d items (total %d)", req.Query, len(items), body.Total)
	return items, nil
}

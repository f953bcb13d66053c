package ebay

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shaymaabd/AMPA/internal/app/config"
	"github.com/shaymaabd/AMPA/internal/domain"
	"github.com/shaymaabd/AMPA/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const searchBody = `{
  "total": 2,
  "itemSummaries": [
    {
      "itemId": "v1|111|0",
      "title": "Ergonomic Office Chair",
      "price": {"value": "129.99", "currency": "USD"},
      "image": {"imageUrl": "https://img.example/1.jpg"},
      "condition": "New",
      "seller": {"username": "acme_store"},
      "itemWebUrl": "https://ebay.example/itm/111",
      "itemEndDate": "2025-06-01T10:00:00.000Z",
      "itemCreationDate": "2025-05-01T10:00:00.000Z"
    },
    {"itemId": "v1|222|0", "title": "Bare Item"}
  ]
}`

type fakeEbay struct {
	server      *httptest.Server
	tokenCalls  atomic.Int32
	searchCalls atomic.Int32
	lastQuery   atomic.Value
	searchCode  int
}

func newFakeEbay(t *testing.T) *fakeEbay {
	t.Helper()
	f := &fakeEbay{searchCode: http.StatusOK}
	mux := http.NewServeMux()
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		f.tokenCalls.Add(1)
		user, pass, ok := r.BasicAuth()
		if !ok || user != "id" || pass != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "client_credentials", r.PostForm.Get("grant_type"))
		assert.Equal(t, "https://api.ebay.com/oauth/api_scope", r.PostForm.Get("scope"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"tok-1","expires_in":7200}`))
	})
	mux.HandleFunc("/search", func(w http.ResponseWriter, r *http.Request) {
		f.searchCalls.Add(1)
		f.lastQuery.Store(r.URL.Query())
		assert.Equal(t, "Bearer tok-1", r.Header.Get("Authorization"))
		assert.Equal(t, "EBAY_US", r.Header.Get("X-EBAY-C-MARKETPLACE-ID"))
		if f.searchCode != http.StatusOK {
			w.WriteHeader(f.searchCode)
			_, _ = w.Write([]byte(`{"errors":[{"message":"boom"}]}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(searchBody))
	})
	f.server = httptest.NewServer(mux)
	t.Cleanup(f.server.Close)
	return f
}

func (f *fakeEbay) config() config.EbayConfig {
	return config.EbayConfig{
		ClientID:        "id",
		ClientSecret:    "secret",
		AuthURL:         f.server.URL + "/token",
		SearchURL:       f.server.URL + "/search",
		Scope:           "https://api.ebay.com/oauth/api_scope",
		MarketplaceID:   "EBAY_US",
		BreakerFailures: 2,
		BreakerTimeout:  time.Minute,
	}
}

func TestClient_SearchDecodesItems(t *testing.T) {
	f := newFakeEbay(t)
	c := NewClient(f.config(), logger.NewNop())

	items, err := c.Search(context.Background(), SearchRequest{
		Query:   "office chair",
		Limit:   50,
		Sort:    "-price",
		Filters: []string{"conditions:{NEW}", "price:[..500]", "priceCurrency:USD"},
	})
	require.NoError(t, err)
	require.Len(t, items, 2)

	assert.Equal(t, "v1|111|0", items[0].ItemID)
	assert.Equal(t, "Ergonomic Office Chair", items[0].Title)
	assert.Equal(t, "129.99", items[0].Price)
	assert.Equal(t, "USD", items[0].Currency)
	assert.Equal(t, "https://img.example/1.jpg", items[0].ImageURL)
	assert.Equal(t, "acme_store", items[0].Seller)
	assert.Equal(t, "https://ebay.example/itm/111", items[0].URL)
	assert.Equal(t, "2025-06-01T10:00:00.000Z", items[0].EndTime)

	assert.Equal(t, "", items[1].Price)
	assert.Equal(t, "", items[1].Seller)

	q := f.lastQuery.Load().(url.Values)
	assert.Equal(t, []string{"office chair"}, q["q"])
	assert.Equal(t, []string{"50"}, q["limit"])
	assert.Equal(t, []string{"-price"}, q["sort"])
	assert.Equal(t, []string{"conditions:{NEW},price:[..500],priceCurrency:USD"}, q["filter"])
}

func TestClient_TokenCachedForProcessLifetime(t *testing.T) {
	f := newFakeEbay(t)
	c := NewClient(f.config(), logger.NewNop())

	for i := 0; i < 3; i++ {
		_, err := c.Search(context.Background(), SearchRequest{Query: "desk", Limit: 10})
		require.NoError(t, err)
	}
	assert.Equal(t, int32(1), f.tokenCalls.Load())
	assert.Equal(t, int32(3), f.searchCalls.Load())
}

func TestClient_SortOmittedForBestMatch(t *testing.T) {
	f := newFakeEbay(t)
	c := NewClient(f.config(), logger.NewNop())

	_, err := c.Search(context.Background(), SearchRequest{Query: "desk", Limit: 10})
	require.NoError(t, err)

	q := f.lastQuery.Load().(url.Values)
	assert.NotContains(t, q, "sort")
	assert.NotContains(t, q, "filter")
}

func TestClient_TokenFailure(t *testing.T) {
	f := newFakeEbay(t)
	cfg := f.config()
	cfg.ClientSecret = "wrong"
	c := NewClient(cfg, logger.NewNop())

	_, err := c.Token(context.Background())
	assert.ErrorIs(t, err, domain.ErrRemoteCall)
}

func TestClient_SearchErrorStatus(t *testing.T) {
	f := newFakeEbay(t)
	f.searchCode = http.StatusInternalServerError
	c := NewClient(f.config(), logger.NewNop())

	_, err := c.Search(context.Background(), SearchRequest{Query: "desk", Limit: 10})
	assert.ErrorIs(t, err, domain.ErrRemoteCall)
	assert.ErrorContains(t, err, "500")
}

func TestClient_BreakerOpensAfterConsecutiveFailures(t *testing.T) {
	f := newFakeEbay(t)
	f.searchCode = http.StatusServiceUnavailable
	c := NewClient(f.config(), logger.NewNop())
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		_, err := c.Search(ctx, SearchRequest{Query: "desk", Limit: 10})
		require.ErrorIs(t, err, domain.ErrRemoteCall)
	}

	_, err := c.Search(ctx, SearchRequest{Query: "desk", Limit: 10})
	assert.ErrorIs(t, err, domain.ErrRemoteCall)
	assert.ErrorContains(t, err, "unavailable")
	assert.Equal(t, int32(2), f.searchCalls.Load())
}

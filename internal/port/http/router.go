package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/shaymaabd/AMPA/internal/platform/metrics"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

type RouterConfig struct {
	RequestTimeout time.Duration
	MetricsEnabled bool
}

// NewRouter mounts the API under /api/v1 with /healthz and, when enabled,
// /metrics alongside.
func NewRouter(h *Handler, m *metrics.MetricsManager, cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	if cfg.RequestTimeout > 0 {
		r.Use(middleware.Timeout(cfg.RequestTimeout))
	}
	if m != nil {
		r.Use(m.Middleware)
	}

	r.Get("/healthz", h.Health)
	if m != nil && cfg.MetricsEnabled {
		r.Method(http.MethodGet, "/metrics", m.Handler())
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/categories", h.Categories)
		r.Get("/chat/models", h.ChatModels)
		r.Post("/roi", h.ROI)

		r.Group(func(r chi.Router) {
			r.Use(SessionMiddleware(h.sessions, h.cookie, h.log))

			r.Post("/session", h.EnsureSession)
			r.Delete("/session", h.EndSession)

			r.Route("/search", func(r chi.Router) {
				r.Post("/", h.Search)
				r.Get("/", h.ViewResults)
				r.Post("/next", h.NextPage)
				r.Post("/prev", h.PrevPage)
			})

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", h.GetCart)
				r.Delete("/", h.ClearCart)
				r.Post("/items", h.AddCartItem)
				r.Delete("/items/{id}", h.RemoveCartItem)
				r.Get("/sellers", h.CartSellers)
			})

			r.Get("/agreements", h.AgreementHistory)
			r.Get("/agreements/{seller}", h.DownloadAgreement)

			r.Get("/inquiries/{listingID}/draft", h.InquiryDraft)
			r.Post("/inquiries", h.SendInquiry)

			r.Post("/chat", h.Chat)
			r.Get("/chat/history", h.ChatHistory)
		})
	})

	return otelhttp.NewHandler(r, "ampa-http")
}

package service

import (
	"context"
	"fmt"
	"time"

	"github.com/shaymaabd/AMPA/internal/domain"
	"github.com/shaymaabd/AMPA/internal/domain/entity"
	"github.com/shaymaabd/AMPA/internal/platform/logger"
	"github.com/shaymaabd/AMPA/internal/platform/metrics"
	"github.com/shaymaabd/AMPA/internal/repository"
	"github.com/shopspring/decimal"
)

type CartView struct {
	Entries     []entity.CartEntry `json:"entries"`
	Count       int                `json:"count"`
	TotalSource string             `json:"total_source"`
	TotalAED    string             `json:"total_aed"`
	Context     string             `json:"context"`
	UpdatedAt   time.Time          `json:"updated_at"`
}

// CartEvent is the payload published for cart mutations.
type CartEvent struct {
	SessionID string    `json:"session_id"`
	ListingID string    `json:"listing_id,omitempty"`
	Title     string    `json:"title,omitempty"`
	Seller    string    `json:"seller,omitempty"`
	Price     string    `json:"price,omitempty"`
	CartSize  int       `json:"cart_size"`
	At        time.Time `json:"at"`
}

type CartService interface {
	GetCart(ctx context.Context, sessionID string) (*CartView, error)
	AddItem(ctx context.Context, sessionID, listingID string) (*CartView, bool, error)
	RemoveItem(ctx context.Context, sessionID, listingID string) (*CartView, error)
	ClearCart(ctx context.Context, sessionID string) error
	Sellers(ctx context.Context, sessionID string) ([]entity.SellerGroup, error)
}

type cartService struct {
	sessions SessionService
	events   repository.EventPublisher
	metrics  *metrics.MetricsManager
	log      logger.Logger
	rate     decimal.Decimal
}

// NewCartService builds the cart service. events may be nil.
func NewCartService(
	sessions SessionService,
	events repository.EventPublisher,
	m *metrics.MetricsManager,
	log logger.Logger,
	rate decimal.Decimal,
) CartService {
	return &cartService{
		sessions: sessions,
		events:   events,
		metrics:  m,
		log:      log,
		rate:     rate,
	}
}

func (s *cartService) view(cart *entity.Cart) *CartView {
	total := cart.Total()
	return &CartView{
		Entries:     cart.Entries,
		Count:       cart.Len(),
		TotalSource: total.StringFixed(2),
		TotalAED:    total.Mul(s.rate).StringFixed(2),
		Context:     cart.ContextString(),
		UpdatedAt:   cart.UpdatedAt,
	}
}

func (s *cartService) GetCart(ctx context.Context, sessionID string) (*CartView, error) {
	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return s.view(session.Cart), nil
}

// AddItem copies a listing from the current search results into the cart.
// The bool is false when the listing was already present.
func (s *cartService) AddItem(ctx context.Context, sessionID, listingID string) (*CartView, bool, error) {
	var listing entity.Listing
	added := false
	session, err := s.sessions.Update(ctx, sessionID, func(session *entity.Session) (bool, error) {
		found, ok := session.Search.Find(listingID)
		if !ok {
			return false, fmt.Errorf("%w: %s", domain.ErrListingNotFound, listingID)
		}
		listing = found
		added = session.Cart.Add(found)
		return added, nil
	})
	if err != nil {
		return nil, false, err
	}
	if !added {
		return s.view(session.Cart), false, nil
	}
	s.metrics.CartMutationsTotal.WithLabelValues("add").Inc()
	s.log.Infof("Listing %s added to cart of session %s", listing.ID, sessionID)

	s.publish(ctx, domain.EventCartItemAdded, CartEvent{
		SessionID: sessionID,
		ListingID: listing.ID,
		Title:     listing.Title,
		Seller:    listing.Seller,
		Price:     listing.Price,
		CartSize:  session.Cart.Len(),
		At:        time.Now().UTC(),
	})
	return s.view(session.Cart), true, nil
}

func (s *cartService) RemoveItem(ctx context.Context, sessionID, listingID string) (*CartView, error) {
	removed := 0
	session, err := s.sessions.Update(ctx, sessionID, func(session *entity.Session) (bool, error) {
		removed = session.Cart.Remove(listingID)
		return removed > 0, nil
	})
	if err != nil {
		return nil, err
	}
	if removed == 0 {
		return s.view(session.Cart), nil
	}
	s.metrics.CartMutationsTotal.WithLabelValues("remove").Inc()

	s.publish(ctx, domain.EventCartItemRemoved, CartEvent{
		SessionID: sessionID,
		ListingID: listingID,
		CartSize:  session.Cart.Len(),
		At:        time.Now().UTC(),
	})
	return s.view(session.Cart), nil
}

func (s *cartService) ClearCart(ctx context.Context, sessionID string) error {
	_, err := s.sessions.Update(ctx, sessionID, func(session *entity.Session) (bool, error) {
		session.Cart.Clear()
		return true, nil
	})
	if err != nil {
		return err
	}
	s.metrics.CartMutationsTotal.WithLabelValues("clear").Inc()

	s.publish(ctx, domain.EventCartCleared, CartEvent{SessionID: sessionID, At: time.Now().UTC()})
	return nil
}

func (s *cartService) Sellers(ctx context.Context, sessionID string) ([]entity.SellerGroup, error) {
	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return session.Cart.GroupBySeller(), nil
}

func (s *cartService) publish(ctx context.Context, subject string, event interface{}) {
	if s.events == nil {
		return
	}
	if err := s.events.Publish(ctx, subject, event); err != nil {
		s.log.Warnf("Failed to publish %s event: %v", subject, err)
	}
}

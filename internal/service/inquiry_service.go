package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/shaymaabd/AMPA/internal/domain"
	"github.com/shaymaabd/AMPA/internal/domain/entity"
	"github.com/shaymaabd/AMPA/internal/platform/logger"
	"github.com/shaymaabd/AMPA/internal/repository"
	"github.com/shopspring/decimal"
)

const inquiryBodyTemplate = `Dear %s,

I am interested in your product "%s" and would like to discuss potential business opportunities. I found your listing through the AMPA Procurement Platform.

Product Details:
- %s (Price: AED %s)

Please provide the following information:
1. Minimum Order Quantity (MOQ)
2. Lead Time
3. Payment Terms
4. Shipping Options and Costs
5. Product Specifications and Certifications

Looking forward to your response.

Best regards,
%s
AMPA Procurement Platform User
`

// InquiryRequest is a supplier inquiry. Empty Subject or Body fall back to
// the generated draft.
type InquiryRequest struct {
	ListingID       string
	To              string
	Subject         string
	Body            string
	AttachAgreement bool
}

type InquiryService interface {
	Draft(ctx context.Context, sessionID, listingID string) (*entity.InquiryDraft, error)
	Send(ctx context.Context, sessionID string, req InquiryRequest) error
}

type inquiryService struct {
	sessions   SessionService
	agreements AgreementService
	mailer     repository.Mailer
	log        logger.Logger
	rate       decimal.Decimal
	signature  string
}

// NewInquiryService builds the inquiry sender. A nil mailer leaves drafting
// available and makes Send fail with domain.ErrConfiguration.
func NewInquiryService(
	sessions SessionService,
	agreements AgreementService,
	mailer repository.Mailer,
	log logger.Logger,
	rate decimal.Decimal,
	signature string,
) InquiryService {
	if signature == "" {
		signature = "[Your Name]"
	}
	return &inquiryService{
		sessions:   sessions,
		agreements: agreements,
		mailer:     mailer,
		log:        log,
		rate:       rate,
		signature:  signature,
	}
}

func (s *inquiryService) draft(l entity.Listing) *entity.InquiryDraft {
	title := l.Title
	if title == "" {
		title = "product"
	}
	seller := l.Seller
	if seller == "" {
		seller = "Supplier"
	}
	price := "N/A"
	if v, ok := l.Converted(s.rate); ok {
		price = v.StringFixed(2)
	}
	return &entity.InquiryDraft{
		ListingID: l.ID,
		Seller:    l.Seller,
		Subject:   fmt.Sprintf("Inquiry about %s - AMPA Procurement Platform", title),
		Body:      fmt.Sprintf(inquiryBodyTemplate, seller, title, title, price, s.signature),
	}
}

func (s *inquiryService) Draft(ctx context.Context, sessionID, listingID string) (*entity.InquiryDraft, error) {
	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	listing, ok := session.Lookup(listingID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrListingNotFound, listingID)
	}
	return s.draft(listing), nil
}

func (s *inquiryService) Send(ctx context.Context, sessionID string, req InquiryRequest) error {
	if s.mailer == nil {
		return fmt.Errorf("%w: email delivery is not configured", domain.ErrConfiguration)
	}
	if strings.TrimSpace(req.To) == "" {
		return fmt.Errorf("%w: recipient is required", domain.ErrValidation)
	}

	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return err
	}
	listing, ok := session.Lookup(req.ListingID)
	if !ok {
		return fmt.Errorf("%w: %s", domain.ErrListingNotFound, req.ListingID)
	}

	draft := s.draft(listing)
	email := &entity.Email{To: req.To, Subject: draft.Subject, Body: draft.Body}
	if req.Subject != "" {
		email.Subject = req.Subject
	}
	if req.Body != "" {
		email.Body = req.Body
	}

	if req.AttachAgreement {
		doc, err := s.agreements.Generate(ctx, sessionID, listing.Seller)
		if err != nil {
			return err
		}
		email.Attachment = &entity.Attachment{
			FileName:    doc.FileName,
			ContentType: pdfContentType,
			Data:        doc.PDF,
		}
	}

	if err := s.mailer.Send(ctx, email); err != nil {
		s.log.Errorf("Error sending inquiry for listing %s: %v", listing.ID, err)
		return fmt.Errorf("%w: failed to send inquiry: %w", domain.ErrRemoteCall, err)
	}
	s.log.Infof("Inquiry for listing %s sent to %s", listing.ID, req.To)
	return nil
}

package service

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/shaymaabd/AMPA/internal/agreement"
	"github.com/shaymaabd/AMPA/internal/domain"
	"github.com/shaymaabd/AMPA/internal/domain/entity"
	"github.com/shaymaabd/AMPA/internal/platform/logger"
	"github.com/shaymaabd/AMPA/internal/platform/metrics"
	"github.com/shaymaabd/AMPA/internal/repository"
	"go.opentelemetry.io/otel"
)

const (
	pdfContentType  = "application/pdf"
	auditCallBudget = 10 * time.Second
)

type AgreementService interface {
	Generate(ctx context.Context, sessionID, seller string) (*entity.Agreement, error)
	History(ctx context.Context, sessionID string, limit int64) ([]*entity.AgreementRecord, error)
}

type AgreementServiceConfig struct {
	TemplatePath string
}

type agreementService struct {
	sessions SessionService
	filler   *agreement.Filler
	archive  repository.DocumentArchive
	records  repository.AgreementRepository
	events   repository.EventPublisher
	metrics  *metrics.MetricsManager
	log      logger.Logger
	cfg      AgreementServiceConfig
}

// NewAgreementService wires the generator. archive, records and events are
// optional and may be nil.
func NewAgreementService(
	sessions SessionService,
	filler *agreement.Filler,
	archive repository.DocumentArchive,
	records repository.AgreementRepository,
	events repository.EventPublisher,
	m *metrics.MetricsManager,
	log logger.Logger,
	cfg AgreementServiceConfig,
) AgreementService {
	return &agreementService{
		sessions: sessions,
		filler:   filler,
		archive:  archive,
		records:  records,
		events:   events,
		metrics:  m,
		log:      log,
		cfg:      cfg,
	}
}

// Generate fills and renders the agreement for the seller's cart entries.
func (s *agreementService) Generate(ctx context.Context, sessionID, seller string) (*entity.Agreement, error) {
	ctx, span := otel.Tracer("ampa/service").Start(ctx, "AgreementService.Generate")
	defer span.End()

	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	entries := session.Cart.BySeller(seller)
	if len(entries) == 0 {
		return nil, fmt.Errorf("%w: %s", domain.ErrSellerNotInCart, seller)
	}

	raw, err := os.ReadFile(s.cfg.TemplatePath)
	if err != nil {
		s.log.Errorf("Error reading agreement template %s: %v", s.cfg.TemplatePath, err)
		return nil, fmt.Errorf("failed to read agreement template: %w", err)
	}
	content, encName, err := agreement.Decode(raw)
	if err != nil {
		s.log.Errorf("Error decoding agreement template %s: %v", s.cfg.TemplatePath, err)
		return nil, err
	}
	s.log.Debugf("Agreement template decoded as %s", encName)

	filled, err := s.filler.Fill(content, seller, entries)
	if err != nil {
		return nil, err
	}

	fileName := agreement.FileName(seller)
	pdf, err := agreement.RenderPDF(filled.HTML, "Supply Agreement - "+seller)
	if err != nil {
		s.log.Errorf("Error rendering agreement for seller %s: %v", seller, err)
		return nil, err
	}
	s.metrics.AgreementsGenerated.Inc()

	doc := &entity.Agreement{
		Seller:       seller,
		Entries:      entries,
		Total:        filled.Total,
		Label:        filled.Label,
		HTML:         filled.HTML,
		PDF:          pdf,
		FileName:     fileName,
		SkippedSteps: filled.Skipped,
		GeneratedAt:  time.Now().UTC(),
	}
	s.audit(ctx, sessionID, doc)
	return doc, nil
}

// audit archives, records and announces the document. Failures are logged
// and do not fail the download.
func (s *agreementService) audit(ctx context.Context, sessionID string, doc *entity.Agreement) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), auditCallBudget)
	defer cancel()

	record := &entity.AgreementRecord{
		ID:          uuid.NewString(),
		SessionID:   sessionID,
		Seller:      doc.Seller,
		ItemCount:   len(doc.Entries),
		TotalAED:    doc.Total.StringFixed(2),
		FileName:    doc.FileName,
		GeneratedAt: doc.GeneratedAt,
	}
	for _, e := range doc.Entries {
		record.ItemIDs = append(record.ItemIDs, e.ID)
	}

	if s.archive != nil {
		objectName := fmt.Sprintf("sessions/%s/%s_%s", sessionID, record.ID, doc.FileName)
		url, err := s.archive.Upload(ctx, objectName, doc.PDF, pdfContentType)
		if err != nil {
			s.log.Warnf("Failed to archive agreement for seller %s: %v", doc.Seller, err)
		} else {
			record.ArchiveURL = url
		}
	}
	if s.records != nil {
		if err := s.records.Create(ctx, record); err != nil {
			s.log.Warnf("Failed to record agreement for seller %s: %v", doc.Seller, err)
		}
	}
	if s.events != nil {
		if err := s.events.Publish(ctx, domain.EventAgreementGenerated, record); err != nil {
			s.log.Warnf("Failed to publish %s event: %v", domain.EventAgreementGenerated, err)
		}
	}
}

// History lists agreements recorded for the session, newest first. Without a
// record store it is always empty.
func (s *agreementService) History(ctx context.Context, sessionID string, limit int64) ([]*entity.AgreementRecord, error) {
	if sessionID == "" {
		return nil, domain.ErrSessionNotFound
	}
	if s.records == nil {
		return []*entity.AgreementRecord{}, nil
	}
	records, err := s.records.ListBySession(ctx, sessionID, limit)
	if err != nil {
		s.log.Errorf("Error listing agreements for session %s: %v", sessionID, err)
		return nil, fmt.Errorf("failed to list agreements: %w", err)
	}
	return records, nil
}

package repository

import (
	"context"

	"github.com/shaymaabd/AMPA/internal/domain/entity"
)

type AgreementRepository interface {
	Create(ctx context.Context, record *entity.AgreementRecord) error
	ListBySession(ctx context.Context, sessionID string, limit int64) ([]*entity.AgreementRecord, error)
}

// DocumentArchive keeps generated documents and returns a retrievable location.
type DocumentArchive interface {
	Upload(ctx context.Context, objectName string, data []byte, contentType string) (string, error)
}

// EventPublisher is the outbound event bus.
type EventPublisher interface {
	Publish(ctx context.Context, subject string, payload interface{}) error
}

// Mailer sends plain text email, optionally with one attachment.
type Mailer interface {
	Send(ctx context.Context, msg *entity.Email) error
}

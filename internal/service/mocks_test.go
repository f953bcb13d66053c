package service

import (
	"context"
	"time"

	"github.com/shaymaabd/AMPA/internal/adapter/ebay"
	"github.com/shaymaabd/AMPA/internal/adapter/llm"
	"github.com/shaymaabd/AMPA/internal/domain/entity"
	"github.com/shaymaabd/AMPA/internal/repository"
	"github.com/stretchr/testify/mock"
)

type MockSessionRepository struct {
	mock.Mock
}

func (m *MockSessionRepository) Get(ctx context.Context, id string) (*entity.Session, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Session), args.Error(1)
}

func (m *MockSessionRepository) Save(ctx context.Context, session *entity.Session, ttl time.Duration) error {
	args := m.Called(ctx, session, ttl)
	return args.Error(0)
}

// Update replays the read-modify-write through Get and Save so tests set
// expectations on the individual steps.
func (m *MockSessionRepository) Update(ctx context.Context, id string, ttl time.Duration, fn repository.SessionUpdateFunc) (*entity.Session, error) {
	session, err := m.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	changed, err := fn(session)
	if err != nil {
		return nil, err
	}
	if changed {
		if err := m.Save(ctx, session, ttl); err != nil {
			return nil, err
		}
	}
	return session, nil
}

func (m *MockSessionRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockSearchProvider struct {
	mock.Mock
}

func (m *MockSearchProvider) Search(ctx context.Context, req ebay.SearchRequest) ([]entity.RawListing, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.RawListing), args.Error(1)
}

type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(ctx context.Context, subject string, payload interface{}) error {
	args := m.Called(ctx, subject, payload)
	return args.Error(0)
}

type MockChatClient struct {
	mock.Mock
}

func (m *MockChatClient) Complete(ctx context.Context, req llm.ChatRequest) (*llm.ChatResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*llm.ChatResponse), args.Error(1)
}

type MockToolRunner struct {
	mock.Mock
}

func (m *MockToolRunner) Run(ctx context.Context, rawArgs string) (string, error) {
	args := m.Called(ctx, rawArgs)
	return args.String(0), args.Error(1)
}

type MockMailer struct {
	mock.Mock
}

func (m *MockMailer) Send(ctx context.Context, email *entity.Email) error {
	args := m.Called(ctx, email)
	return args.Error(0)
}

type MockDocumentArchive struct {
	mock.Mock
}

func (m *MockDocumentArchive) Upload(ctx context.Context, objectName string, data []byte, contentType string) (string, error) {
	args := m.Called(ctx, objectName, data, contentType)
	return args.String(0), args.Error(1)
}

type MockAgreementRepository struct {
	mock.Mock
}

func (m *MockAgreementRepository) Create(ctx context.Context, record *entity.AgreementRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockAgreementRepository) ListBySession(ctx context.Context, sessionID string, limit int64) ([]*entity.AgreementRecord, error) {
	args := m.Called(ctx, sessionID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.AgreementRecord), args.Error(1)
}

const testTTL = time.Hour

func listing(id, title, price, seller string) entity.Listing {
	return entity.Listing{
		ID:            id,
		Title:         title,
		Price:         price,
		Seller:        seller,
		Condition:     entity.ConditionNew,
		ConditionText: "New",
	}
}

// sessionWithResults returns a session whose current search holds results.
func sessionWithResults(id string, results ...entity.Listing) *entity.Session {
	s := entity.NewSession(id)
	s.Search.Reset("desk", "All Categories", "", nil, entity.SortBestMatch, 2, results)
	return s
}

package http

import (
	"context"

	"github.com/shaymaabd/AMPA/internal/domain/entity"
	"github.com/shaymaabd/AMPA/internal/repository"
	"github.com/shaymaabd/AMPA/internal/service"
	"github.com/stretchr/testify/mock"
)

type MockSessionService struct {
	mock.Mock
}

func (m *MockSessionService) Start(ctx context.Context) (*entity.Session, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Session), args.Error(1)
}

func (m *MockSessionService) Get(ctx context.Context, id string) (*entity.Session, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Session), args.Error(1)
}

func (m *MockSessionService) GetOrCreate(ctx context.Context, id string) (*entity.Session, bool, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).(*entity.Session), args.Bool(1), args.Error(2)
}

func (m *MockSessionService) Update(ctx context.Context, id string, fn repository.SessionUpdateFunc) (*entity.Session, error) {
	args := m.Called(ctx, id, fn)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Session), args.Error(1)
}

func (m *MockSessionService) End(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

type MockSearchService struct {
	mock.Mock
}

func (m *MockSearchService) Search(ctx context.Context, sessionID string, params service.SearchParams) (*service.SearchPage, error) {
	args := m.Called(ctx, sessionID, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.SearchPage), args.Error(1)
}

func (m *MockSearchService) View(ctx context.Context, sessionID string, sort *entity.SortDirective, page *int) (*service.SearchPage, error) {
	args := m.Called(ctx, sessionID, sort, page)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.SearchPage), args.Error(1)
}

func (m *MockSearchService) Next(ctx context.Context, sessionID string) (*service.SearchPage, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.SearchPage), args.Error(1)
}

func (m *MockSearchService) Prev(ctx context.Context, sessionID string) (*service.SearchPage, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.SearchPage), args.Error(1)
}

type MockCartService struct {
	mock.Mock
}

func (m *MockCartService) GetCart(ctx context.Context, sessionID string) (*service.CartView, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.CartView), args.Error(1)
}

func (m *MockCartService) AddItem(ctx context.Context, sessionID, listingID string) (*service.CartView, bool, error) {
	args := m.Called(ctx, sessionID, listingID)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).(*service.CartView), args.Bool(1), args.Error(2)
}

func (m *MockCartService) RemoveItem(ctx context.Context, sessionID, listingID string) (*service.CartView, error) {
	args := m.Called(ctx, sessionID, listingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.CartView), args.Error(1)
}

func (m *MockCartService) ClearCart(ctx context.Context, sessionID string) error {
	return m.Called(ctx, sessionID).Error(0)
}

func (m *MockCartService) Sellers(ctx context.Context, sessionID string) ([]entity.SellerGroup, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.SellerGroup), args.Error(1)
}

type MockAgreementService struct {
	mock.Mock
}

func (m *MockAgreementService) Generate(ctx context.Context, sessionID, seller string) (*entity.Agreement, error) {
	args := m.Called(ctx, sessionID, seller)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Agreement), args.Error(1)
}

func (m *MockAgreementService) History(ctx context.Context, sessionID string, limit int64) ([]*entity.AgreementRecord, error) {
	args := m.Called(ctx, sessionID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.AgreementRecord), args.Error(1)
}

type MockInquiryService struct {
	mock.Mock
}

func (m *MockInquiryService) Draft(ctx context.Context, sessionID, listingID string) (*entity.InquiryDraft, error) {
	args := m.Called(ctx, sessionID, listingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.InquiryDraft), args.Error(1)
}

func (m *MockInquiryService) Send(ctx context.Context, sessionID string, req service.InquiryRequest) error {
	return m.Called(ctx, sessionID, req).Error(0)
}

type MockChatService struct {
	mock.Mock
}

func (m *MockChatService) Send(ctx context.Context, history []entity.ChatMessage, extra service.ChatContext, model string) (string, error) {
	args := m.Called(ctx, history, extra, model)
	return args.String(0), args.Error(1)
}

func (m *MockChatService) Converse(ctx context.Context, sessionID, text, model string) (*service.ChatReply, error) {
	args := m.Called(ctx, sessionID, text, model)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ChatReply), args.Error(1)
}

func (m *MockChatService) History(ctx context.Context, sessionID string) ([]entity.ChatMessage, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.ChatMessage), args.Error(1)
}

func (m *MockChatService) Models() []service.ChatModel {
	return m.Called().Get(0).([]service.ChatModel)
}

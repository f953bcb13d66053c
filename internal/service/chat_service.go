package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/shaymaabd/AMPA/internal/adapter/llm"
	"github.com/shaymaabd/AMPA/internal/adapter/webfetch"
	"github.com/shaymaabd/AMPA/internal/domain"
	"github.com/shaymaabd/AMPA/internal/domain/entity"
	"github.com/shaymaabd/AMPA/internal/platform/logger"
	"github.com/shaymaabd/AMPA/internal/platform/metrics"
	"go.opentelemetry.io/otel"
)

const (
	DefaultChatModel  = "llama-3.3-70b"
	maxPromptChars    = 4200
	defaultMaxTokens  = 8000
	defaultFollowUp   = 512
	defaultHistoryLen = 40
)

// ChatModel describes a model the user may pick.
type ChatModel struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Tokens    int    `json:"tokens"`
	Developer string `json:"developer"`
}

var ChatModels = []ChatModel{
	{ID: "llama3.1-8b", Name: "Llama3.1-8b", Tokens: 8192, Developer: "Meta"},
	{ID: "llama-3.3-70b", Name: "Llama-3.3-70b", Tokens: 8192, Developer: "Meta"},
}

type ChatClient interface {
	Complete(ctx context.Context, req llm.ChatRequest) (*llm.ChatResponse, error)
}

// ToolRunner executes a tool call from its raw JSON arguments.
type ToolRunner interface {
	Run(ctx context.Context, rawArgs string) (string, error)
}

// ChatContext is the ancillary state shown to the model. Empty strings are
// omitted.
type ChatContext struct {
	Cart    string
	Results string
}

type ChatReply struct {
	Model   string               `json:"model"`
	Reply   string               `json:"reply"`
	History []entity.ChatMessage `json:"history"`
}

type ChatService interface {
	Send(ctx context.Context, history []entity.ChatMessage, extra ChatContext, model string) (string, error)
	Converse(ctx context.Context, sessionID, text, model string) (*ChatReply, error)
	History(ctx context.Context, sessionID string) ([]entity.ChatMessage, error)
	Models() []ChatModel
}

type ChatServiceConfig struct {
	DefaultModel    string
	MaxTokens       int
	FollowUpTokens  int
	MaxHistoryTurns int
}

type chatService struct {
	client   ChatClient
	fetch    ToolRunner
	sessions SessionService
	metrics  *metrics.MetricsManager
	log      logger.Logger
	cfg      ChatServiceConfig
}

func NewChatService(
	client ChatClient,
	fetch ToolRunner,
	sessions SessionService,
	m *metrics.MetricsManager,
	log logger.Logger,
	cfg ChatServiceConfig,
) ChatService {
	if cfg.DefaultModel == "" {
		cfg.DefaultModel = DefaultChatModel
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = defaultMaxTokens
	}
	if cfg.FollowUpTokens <= 0 {
		cfg.FollowUpTokens = defaultFollowUp
	}
	if cfg.MaxHistoryTurns <= 0 {
		cfg.MaxHistoryTurns = defaultHistoryLen
	}
	return &chatService{
		client:   client,
		fetch:    fetch,
		sessions: sessions,
		metrics:  m,
		log:      log,
		cfg:      cfg,
	}
}

func (s *chatService) Models() []ChatModel {
	return ChatModels
}

func (s *chatService) resolveModel(model string) (string, error) {
	if model == "" {
		return s.cfg.DefaultModel, nil
	}
	for _, m := range ChatModels {
		if m.ID == model {
			return model, nil
		}
	}
	return "", fmt.Errorf("%w: unknown chat model %q", domain.ErrValidation, model)
}

// Send runs one stateless exchange. When the model asks for fetch_url the
// page is fetched and a second completion produces the answer. Every failure
// wraps domain.ErrRemoteCall.
func (s *chatService) Send(ctx context.Context, history []entity.ChatMessage, extra ChatContext, model string) (string, error) {
	ctx, span := otel.Tracer("ampa/service").Start(ctx, "ChatService.Send")
	defer span.End()

	model, err := s.resolveModel(model)
	if err != nil {
		return "", err
	}

	messages := make([]llm.Message, 0, len(history)+3)
	messages = append(messages, llm.Message{Role: entity.RoleSystem, Content: systemPrompt})
	for _, m := range history {
		messages = append(messages, llm.Message{Role: m.Role, Content: m.Content})
	}
	if extra.Cart != "" {
		messages = append(messages, llm.Message{Role: entity.RoleUser, Content: cartContextPrefix + extra.Cart})
	}
	if extra.Results != "" {
		messages = append(messages, llm.Message{Role: entity.RoleUser, Content: resultsContextPrefix + extra.Results})
	}

	reply, err := s.exchange(ctx, model, messages)
	s.metrics.ChatRequestsTotal.WithLabelValues(model, metrics.Outcome(err)).Inc()
	if err != nil {
		if !errors.Is(err, domain.ErrRemoteCall) {
			err = fmt.Errorf("%w: %w", domain.ErrRemoteCall, err)
		}
		return "", err
	}
	return reply, nil
}

func (s *chatService) exchange(ctx context.Context, model string, messages []llm.Message) (string, error) {
	first, err := s.client.Complete(ctx, llm.ChatRequest{
		Model:      model,
		Messages:   messages,
		Tools:      []llm.ToolDefinition{webfetch.Definition()},
		ToolChoice: "auto",
		MaxTokens:  s.cfg.MaxTokens,
	})
	if err != nil {
		return "", err
	}

	answer := first.First()
	if len(answer.ToolCalls) == 0 {
		return answer.Content, nil
	}

	followUp := append(messages, llm.Message{
		Role:      entity.RoleAssistant,
		Content:   answer.Content,
		ToolCalls: answer.ToolCalls,
	})
	for _, call := range answer.ToolCalls {
		output, err := s.runTool(ctx, call)
		if err != nil {
			return "", err
		}
		followUp = append(followUp, llm.Message{
			Role:       entity.RoleTool,
			ToolCallID: call.ID,
			Name:       call.Function.Name,
			Content:    output,
		})
	}

	second, err := s.client.Complete(ctx, llm.ChatRequest{
		Model:     model,
		Messages:  followUp,
		MaxTokens: s.cfg.FollowUpTokens,
	})
	if err != nil {
		return "", err
	}
	return second.First().Content, nil
}

func (s *chatService) runTool(ctx context.Context, call llm.ToolCall) (string, error) {
	if call.Function.Name != webfetch.ToolName {
		s.metrics.ToolCallsTotal.WithLabelValues(call.Function.Name, "unknown").Inc()
		s.log.Warnf("Model requested unknown tool %q", call.Function.Name)
		return fmt.Sprintf("Tool %q is not available.", call.Function.Name), nil
	}

	s.log.Infof("Running tool %s with %s", call.Function.Name, call.Function.Arguments)
	output, err := s.fetch.Run(ctx, call.Function.Arguments)
	s.metrics.ToolCallsTotal.WithLabelValues(call.Function.Name, metrics.Outcome(err)).Inc()
	if err != nil {
		return "", fmt.Errorf("tool %s failed: %w", call.Function.Name, err)
	}
	return output, nil
}

// Converse sends text with the session's history and context, then stores
// the user and assistant turns. Nothing is stored when the call fails.
func (s *chatService) Converse(ctx context.Context, sessionID, text, model string) (*ChatReply, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("%w: message is empty", domain.ErrValidation)
	}
	if utf8.RuneCountInString(text) > maxPromptChars {
		return nil, fmt.Errorf("%w: message exceeds %d characters", domain.ErrValidation, maxPromptChars)
	}
	model, err := s.resolveModel(model)
	if err != nil {
		return nil, err
	}

	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	history := session.Chat
	if len(history) > s.cfg.MaxHistoryTurns {
		history = history[len(history)-s.cfg.MaxHistoryTurns:]
	}
	history = append(append([]entity.ChatMessage(nil), history...), entity.ChatMessage{Role: entity.RoleUser, Content: text})

	var extra ChatContext
	if session.Cart.Len() > 0 {
		extra.Cart = session.Cart.ContextString()
	}
	if len(session.Search.Results) > 0 {
		extra.Results = entity.ContextRows(session.Search.Results)
	}

	reply, err := s.Send(ctx, history, extra, model)
	if err != nil {
		s.log.Errorf("Error getting chat reply for session %s: %v", sessionID, err)
		return nil, err
	}

	// The reply took a while; apply it to the current state so cart or search
	// changes made meanwhile survive.
	updated, err := s.sessions.Update(ctx, sessionID, func(session *entity.Session) (bool, error) {
		session.AppendChat(entity.RoleUser, text)
		session.AppendChat(entity.RoleAssistant, reply)
		session.TrimChat(s.cfg.MaxHistoryTurns)
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	return &ChatReply{Model: model, Reply: reply, History: updated.Chat}, nil
}

func (s *chatService) History(ctx context.Context, sessionID string) ([]entity.ChatMessage, error) {
	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return session.Chat, nil
}

package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/shaymaabd/AMPA/internal/domain"
	"github.com/shaymaabd/AMPA/internal/platform/logger"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const (
	completionsPath = "/chat/completions"
	requestTimeout  = 120 * time.Second
	maxErrorBody    = 500
)

// Client calls an OpenAI-compatible chat-completions endpoint. It does not
// retry.
type Client struct {
	http    *resty.Client
	baseURL string
	apiKey  string
	log     logger.Logger
}

func NewClient(baseURL, apiKey string, log logger.Logger) *Client {
	return &Client{
		http: resty.New().
			SetTimeout(requestTimeout).
			SetTransport(otelhttp.NewTransport(http.DefaultTransport)),
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		log:     log,
	}
}

func (c *Client) Complete(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	start := time.Now()
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json").
		SetAuthToken(c.apiKey).
		SetBody(req).
		Post(c.baseURL + completionsPath)
	if err != nil {
		return nil, fmt.Errorf("%w: chat request failed after %v: %v", domain.ErrRemoteCall, time.Since(start), err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("%w: chat API returned %s: %s", domain.ErrRemoteCall, resp.Status(), truncate(resp.String(), maxErrorBody))
	}

	var out ChatResponse
	if err := json.Unmarshal(resp.Body(), &out); err != nil {
		return nil, fmt.Errorf("%w: failed to parse chat response (%d bytes): %v", domain.ErrRemoteCall, len(resp.Body()), err)
	}
	if out.Error != nil {
		return nil, fmt.Errorf("%w: chat API error (type=%s, code=%s): %s", domain.ErrRemoteCall, out.Error.Type, out.Error.Code, out.Error.Message)
	}
	if len(out.Choices) == 0 {
		return nil, fmt.Errorf("%w: chat API returned no choices (model=%s)", domain.ErrRemoteCall, out.Model)
	}

	c.log.Debugf("Chat completion model=%s finish=%s tool_calls=%d in %v",
		out.Model, out.Choices[0].FinishReason, len(out.Choices[0].Message.ToolCalls), time.Since(start))
	return &out, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

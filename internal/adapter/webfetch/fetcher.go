package webfetch

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/shaymaabd/AMPA/internal/adapter/llm"
	"github.com/shaymaabd/AMPA/internal/app/config"
	"github.com/shaymaabd/AMPA/internal/domain"
	"github.com/shaymaabd/AMPA/internal/platform/logger"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const (
	ToolName       = "fetch_url"
	DefaultTimeout = 5.0
	maxTimeout     = 60.0
)

// Fetcher retrieves the text of a web page on behalf of the chat model.
type Fetcher struct {
	http     *resty.Client
	maxBytes int64
	log      logger.Logger
}

func NewFetcher(cfg config.FetchConfig, log logger.Logger) *Fetcher {
	maxBytes := int64(cfg.MaxBytes)
	if maxBytes <= 0 {
		maxBytes = 200000
	}
	client := resty.New().
		SetTransport(otelhttp.NewTransport(http.DefaultTransport)).
		SetHeader("Accept", "text/html,text/plain;q=0.9,*/*;q=0.5")
	if cfg.UserAgent != "" {
		client.SetHeader("User-Agent", cfg.UserAgent)
	}
	return &Fetcher{http: client, maxBytes: maxBytes, log: log}
}

// Definition is the tool schema advertised to the model.
func Definition() llm.ToolDefinition {
	return llm.ToolDefinition{
		Type: "function",
		Function: llm.ToolDefFunction{
			Name:        ToolName,
			Description: "Fetch the raw HTML/text content of a web page.",
			Parameters: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"url":     map[string]interface{}{"type": "string", "format": "uri"},
					"timeout": map[string]interface{}{"type": "number", "default": DefaultTimeout},
				},
				"required": []string{"url"},
			},
		},
	}
}

type Args struct {
	URL     string   `json:"url"`
	Timeout *float64 `json:"timeout,omitempty"`
}

// ParseArgs decodes the model's JSON arguments and applies the default timeout.
func ParseArgs(raw string) (string, time.Duration, error) {
	var args Args
	if err := json.Unmarshal([]byte(raw), &args); err != nil {
		return "", 0, fmt.Errorf("%w: invalid %s arguments: %v", domain.ErrValidation, ToolName, err)
	}
	u, err := url.Parse(args.URL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "", 0, fmt.Errorf("%w: %s needs an absolute http(s) url, got %q", domain.ErrValidation, ToolName, args.URL)
	}

	seconds := DefaultTimeout
	if args.Timeout != nil && *args.Timeout > 0 {
		seconds = *args.Timeout
	}
	if seconds > maxTimeout {
		seconds = maxTimeout
	}
	return args.URL, time.Duration(seconds * float64(time.Second)), nil
}

// Fetch GETs target within timeout. Non-2xx responses and transport errors
// wrap domain.ErrRemoteCall. The body is cut at the configured byte limit.
func (f *Fetcher) Fetch(ctx context.Context, target string, timeout time.Duration) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	resp, err := f.http.R().
		SetContext(ctx).
		SetDoNotParseResponse(true).
		Get(target)
	if err != nil {
		return "", fmt.Errorf("%w: fetch %s: %v", domain.ErrRemoteCall, target, err)
	}
	body := resp.RawBody()
	defer body.Close()

	if resp.StatusCode() < 200 || resp.StatusCode() > 299 {
		return "", fmt.Errorf("%w: fetch %s returned %s", domain.ErrRemoteCall, target, resp.Status())
	}

	data, err := io.ReadAll(io.LimitReader(body, f.maxBytes))
	if err != nil {
		return "", fmt.Errorf("%w: read %s: %v", domain.ErrRemoteCall, target, err)
	}
	f.log.Debugf("Fetched %s: %d bytes", target, len(data))
	return string(data), nil
}

// Run executes one tool call from its raw JSON arguments.
func (f *Fetcher) Run(ctx context.Context, rawArgs string) (string, error) {
	target, timeout, err := ParseArgs(rawArgs)
	if err != nil {
		return "", err
	}
	return f.Fetch(ctx, target, timeout)
}

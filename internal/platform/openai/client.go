package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/yungbote/lifelog-backend/internal/observability"
	"github.com/yungbote/lifelog-backend/internal/pkg/envutil"
	"github.com/yungbote/lifelog-backend/internal/pkg/httpx"
	"github.com/yungbote/lifelog-backend/internal/pkg/logger"
	"github.com/yungbote/lifelog-backend/internal/platform/promptstyle"
)

const (
	defaultBaseURL = "https://api.openai.com"
	responsesPath  = "/v1/responses"
	maxBackoff     = 10 * time.Second
)

// Client produces schema-constrained JSON from a system and user prompt.
type Client interface {
	GenerateJSON(ctx context.Context, system string, user string, schemaName string, schema map[string]any) (map[string]any, error)
}

type Config struct {
	APIKey         string
	BaseURL        string
	Model          string
	TimeoutSeconds int
	MaxRetries     int
	Temperature    float64
}

// ConfigFromEnv reads OPENAI_* settings. An empty APIKey means the provider is disabled.
func ConfigFromEnv(log *logger.Logger) Config {
	return Config{
		APIKey:         envutil.String("OPENAI_API_KEY", "", nil),
		BaseURL:        envutil.String("OPENAI_BASE_URL", defaultBaseURL, log),
		Model:          envutil.String("OPENAI_MODEL", "gpt-4.1-mini", log),
		TimeoutSeconds: envutil.Int("OPENAI_TIMEOUT_SECONDS", 60, log),
		MaxRetries:     envutil.Int("OPENAI_MAX_RETRIES", 3, log),
		Temperature:    envutil.Float("OPENAI_TEMPERATURE", 0.2, log),
	}
}

type client struct {
	log        *logger.Logger
	cfg        Config
	httpClient *http.Client
	sleep      func(time.Duration)
}

func NewClient(log *logger.Logger, cfg Config) (Client, error) {
	if log == nil {
		return nil, errors.New("logger required")
	}
	cfg.APIKey = strings.TrimSpace(cfg.APIKey)
	if cfg.APIKey == "" {
		return nil, errors.New("missing OPENAI_API_KEY")
	}
	cfg.BaseURL = strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	cfg.Model = strings.TrimSpace(cfg.Model)
	if cfg.TimeoutSeconds <= 0 {
		cfg.TimeoutSeconds = 60
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	return &client{
		log:        log.With("service", "OpenAIClient"),
		cfg:        cfg,
		httpClient: &http.Client{Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second},
		sleep:      time.Sleep,
	}, nil
}

// StatusError is a non-2xx answer from the API.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string { return fmt.Sprintf("openai: status %d: %s", e.Code, e.Body) }

func (e *StatusError) HTTPStatusCode() int { return e.Code }

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type textFormat struct {
	Format map[string]any `json:"format"`
}

type responsesRequest struct {
	Model       string      `json:"model"`
	Input       []message   `json:"input"`
	Text        *textFormat `json:"text,omitempty"`
	Temperature float64     `json:"temperature"`
}

type responsesResponse struct {
	Output []struct {
		Type    string `json:"type"`
		Role    string `json:"role,omitempty"`
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text,omitempty"`
		} `json:"content,omitempty"`
	} `json:"output"`
	Refusal string `json:"refusal,omitempty"`
}

func (r responsesResponse) text() string {
	var b strings.Builder
	for _, item := range r.Output {
		if item.Type != "message" || item.Role != "assistant" {
			continue
		}
		for _, part := range item.Content {
			if part.Type == "output_text" {
				b.WriteString(part.Text)
			}
		}
	}
	return b.String()
}

func (c *client) GenerateJSON(ctx context.Context, system string, user string, schemaName string, schema map[string]any) (map[string]any, error) {
	if schemaName == "" || schema == nil {
		return nil, errors.New("openai: schema name and schema required")
	}
	req := responsesRequest{
		Model: c.cfg.Model,
		Input: []message{
			{Role: "system", Content: promptstyle.ApplySystem(system, "json")},
			{Role: "user", Content: user},
		},
		Text: &textFormat{Format: map[string]any{
			"type":   "json_schema",
			"name":   schemaName,
			"schema": schema,
			"strict": true,
		}},
		Temperature: c.cfg.Temperature,
	}

	start := time.Now()
	resp, err := c.post(ctx, req)
	status := "ok"
	if err != nil {
		status = "error"
	}
	observability.Current().ObserveLLMRequest(c.cfg.Model, status, time.Since(start))
	if err != nil {
		return nil, err
	}
	if resp.Refusal != "" {
		return nil, fmt.Errorf("openai: model refused: %s", resp.Refusal)
	}
	out := strings.TrimSpace(resp.text())
	if out == "" {
		return nil, errors.New("openai: empty output")
	}
	var obj map[string]any
	if err := json.Unmarshal([]byte(out), &obj); err != nil {
		return nil, fmt.Errorf("openai: parse output: %w", err)
	}
	return obj, nil
}

// post sends req, retrying transient failures with jittered exponential backoff.
func (c *client) post(ctx context.Context, req responsesRequest) (responsesResponse, error) {
	var out responsesResponse
	body, err := json.Marshal(req)
	if err != nil {
		return out, err
	}
	backoff := time.Second
	for attempt := 0; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return out, err
		}
		hdr, raw, err := c.send(ctx, body)
		if err == nil {
			if err := json.Unmarshal(raw, &out); err != nil {
				return out, fmt.Errorf("openai: decode response: %w", err)
			}
			return out, nil
		}
		if attempt >= c.cfg.MaxRetries || !httpx.IsRetryableError(err) {
			return out, err
		}
		wait := httpx.JitterSleep(httpx.RetryAfterDuration(hdr, backoff, maxBackoff))
		c.log.Warn("OpenAI request retrying", "attempt", attempt+1, "sleep", wait.String(), "error", err.Error())
		c.sleep(wait)
		backoff *= 2
	}
}

func (c *client) send(ctx context.Context, body []byte) (*http.Response, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+responsesPath, bytes.NewReader(body))
	if err != nil {
		return nil, nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, nil, err
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp, nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return resp, nil, &StatusError{Code: resp.StatusCode, Body: string(raw)}
	}
	return resp, raw, nil
}

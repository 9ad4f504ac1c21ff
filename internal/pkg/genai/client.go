package genai

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/emre/uninews/internal/pkg/apperrors"
	"github.com/emre/uninews/internal/pkg/logger"
)

const (
	defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"
	defaultModel   = "gemini-2.5-flash"
	defaultTimeout = 30 * time.Second
)

// Config holds the settings of the generative language client
type Config struct {
	APIKey  string
	Model   string
	BaseURL string
	Timeout time.Duration
}

// Client calls the Gemini generateContent API
type Client struct {
	http   *resty.Client
	apiKey string
	model  string
}

// NewClient creates a new Gemini client
func NewClient(cfg Config) *Client {
	if cfg.Model == "" {
		cfg.Model = defaultModel
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = defaultTimeout
	}

	httpClient := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout).
		SetRetryCount(2).
		SetRetryWaitTime(500 * time.Millisecond)

	return &Client{
		http:   httpClient,
		apiKey: cfg.APIKey,
		model:  cfg.Model,
	}
}

// generateContent request/response wire types
type part struct {
	Text string `json:"text"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type generateRequest struct {
	Contents []content `json:"contents"`
}

type candidate struct {
	Content content `json:"content"`
}

type generateResponse struct {
	Candidates []candidate `json:"candidates"`
	Error      *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error,omitempty"`
}

// Ask sends a single-turn question and returns the model's answer text.
func (c *Client) Ask(ctx context.Context, question string) (string, error) {
	if c.apiKey == "" {
		return "", apperrors.NewCustomError(apperrors.ErrExternalService, "assistant is not configured")
	}

	reqBody := generateRequest{
		Contents: []content{
			{Role: "user", Parts: []part{{Text: question}}},
		},
	}

	var result generateResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetQueryParam("key", c.apiKey).
		SetBody(reqBody).
		SetResult(&result).
		SetError(&result).
		Post(fmt.Sprintf("/models/%s:generateContent", c.model))
	if err != nil {
		logger.Error().Err(err).Str("model", c.model).Msg("Gemini request failed")
		return "", apperrors.NewCustomError(apperrors.ErrExternalService, "assistant request failed")
	}

	if resp.IsError() {
		msg := "assistant request failed"
		if result.Error != nil && result.Error.Message != "" {
			msg = result.Error.Message
		}
		logger.Error().Int("status", resp.StatusCode()).Str("model", c.model).Str("apiError", msg).Msg("Gemini returned an error")
		return "", apperrors.NewCustomError(apperrors.ErrExternalService, msg)
	}

	if len(result.Candidates) == 0 || len(result.Candidates[0].Content.Parts) == 0 {
		logger.Warn().Str("model", c.model).Msg("Gemini returned no candidates")
		return "", apperrors.NewCustomError(apperrors.ErrExternalService, "assistant returned an empty answer")
	}

	return result.Candidates[0].Content.Parts[0].Text, nil
}

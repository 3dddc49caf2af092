// Package huggingface calls the Hugging Face Inference API for sentiment analysis
// and zero-shot theme classification.
package huggingface

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/mager/soundtrack/config"
	"github.com/mager/soundtrack/soundtrack"
	"go.uber.org/zap"
)

const (
	defaultHTTPTimeout    = 30 * time.Second
	defaultRetryAttempts  = 3
	defaultRetryBaseDelay = 2 * time.Second
	defaultRetryMaxDelay  = 20 * time.Second
)

// Client wraps the text-classification and zero-shot-classification pipelines.
type Client struct {
	baseURL         string
	token           string
	sentimentModel  string
	classifierModel string
	httpClient      *http.Client

	retryMaxAttempts int
	retryBaseDelay   time.Duration
	sleeper          func(context.Context, time.Duration) error
}

// Option customizes the client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithRetryMaxAttempts overrides how many times a loading model is polled (defaults to 3).
func WithRetryMaxAttempts(attempts int) Option {
	return func(c *Client) {
		c.retryMaxAttempts = attempts
	}
}

// WithSleeper overrides how retry sleeps are performed (useful for tests).
func WithSleeper(sleeper func(context.Context, time.Duration) error) Option {
	return func(c *Client) {
		c.sleeper = sleeper
	}
}

func NewClient(baseURL, token, sentimentModel, classifierModel string, opts ...Option) *Client {
	c := &Client{
		baseURL:          strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		token:            strings.TrimSpace(token),
		sentimentModel:   sentimentModel,
		classifierModel:  classifierModel,
		httpClient:       &http.Client{Timeout: defaultHTTPTimeout},
		retryMaxAttempts: defaultRetryAttempts,
		retryBaseDelay:   defaultRetryBaseDelay,
		sleeper:          sleepContext,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ProvideHuggingFace provides a client configured from the environment.
func ProvideHuggingFace(cfg config.Config, log *zap.SugaredLogger) *Client {
	if cfg.HuggingFaceToken == "" {
		log.Warnw("no Hugging Face token configured; requests will be anonymous and heavily rate limited")
	}
	return NewClient(cfg.HuggingFaceURL, cfg.HuggingFaceToken, cfg.SentimentModel, cfg.ClassifierModel)
}

var Options = ProvideHuggingFace

// Sentiment returns the top-scoring label for text.
func (c *Client) Sentiment(ctx context.Context, text string) (soundtrack.Sentiment, error) {
	var best soundtrack.Sentiment
	body, err := c.post(ctx, c.sentimentModel, map[string]any{"inputs": text})
	if err != nil {
		return best, fmt.Errorf("%w: %w", soundtrack.ErrScoringUnavailable, err)
	}

	labels, err := decodeLabels(body)
	if err != nil {
		return best, fmt.Errorf("%w: %w", soundtrack.ErrScoringUnavailable, err)
	}
	if len(labels) == 0 {
		return best, fmt.Errorf("%w: empty prediction", soundtrack.ErrScoringUnavailable)
	}
	best = labels[0]
	for _, l := range labels[1:] {
		if l.Score > best.Score {
			best = l
		}
	}
	return best, nil
}

type zeroShotResponse struct {
	Labels []string  `json:"labels"`
	Scores []float64 `json:"scores"`
}

// Classify ranks candidate labels for text, most likely first.
func (c *Client) Classify(ctx context.Context, text string, candidates []string) ([]string, error) {
	body, err := c.post(ctx, c.classifierModel, map[string]any{
		"inputs":     text,
		"parameters": map[string]any{"candidate_labels": candidates},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", soundtrack.ErrClassificationUnavailable, err)
	}

	var resp zeroShotResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("%w: decode response: %w", soundtrack.ErrClassificationUnavailable, err)
	}
	return resp.Labels, nil
}

// decodeLabels accepts both the nested [[{label,score}]] and flat [{label,score}] shapes.
func decodeLabels(body []byte) ([]soundtrack.Sentiment, error) {
	var nested [][]soundtrack.Sentiment
	if err := json.Unmarshal(body, &nested); err == nil {
		if len(nested) == 0 {
			return nil, nil
		}
		return nested[0], nil
	}
	var flat []soundtrack.Sentiment
	if err := json.Unmarshal(body, &flat); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return flat, nil
}

type statusError struct {
	StatusCode    int
	Body          string
	EstimatedTime time.Duration
}

func (e *statusError) Error() string {
	return fmt.Sprintf("inference request: http %d: %s", e.StatusCode, e.Body)
}

func (c *Client) post(ctx context.Context, model string, payload any) ([]byte, error) {
	attempts := c.retryMaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		body, err := c.postOnce(ctx, model, payload)
		if err == nil {
			return body, nil
		}
		lastErr = err

		var se *statusError
		if !errors.As(err, &se) || attempt == attempts {
			break
		}
		if se.StatusCode != http.StatusServiceUnavailable && se.StatusCode != http.StatusTooManyRequests {
			break
		}
		delay := c.retryBaseDelay * time.Duration(attempt)
		if se.EstimatedTime > 0 {
			delay = se.EstimatedTime
		}
		if delay > defaultRetryMaxDelay {
			delay = defaultRetryMaxDelay
		}
		if err := c.sleeper(ctx, delay); err != nil {
			return nil, err
		}
	}
	return nil, lastErr
}

func (c *Client) postOnce(ctx context.Context, model string, payload any) ([]byte, error) {
	encoded, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("inference request: encode body: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/"+model, bytes.NewReader(encoded))
	if err != nil {
		return nil, fmt.Errorf("inference request: new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("inference request: %w", err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("inference request: read body: %w", err)
	}
	if resp.StatusCode >= http.StatusMultipleChoices {
		return nil, &statusError{
			StatusCode:    resp.StatusCode,
			Body:          strings.TrimSpace(string(body)),
			EstimatedTime: estimatedTime(body),
		}
	}
	return body, nil
}

// estimatedTime reads the "estimated_time" hint the API sends while a model is loading.
func estimatedTime(body []byte) time.Duration {
	var loading struct {
		EstimatedTime json.Number `json:"estimated_time"`
	}
	if err := json.Unmarshal(body, &loading); err != nil {
		return 0
	}
	secs, err := strconv.ParseFloat(loading.EstimatedTime.String(), 64)
	if err != nil || secs <= 0 {
		return 0
	}
	return time.Duration(secs * float64(time.Second))
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

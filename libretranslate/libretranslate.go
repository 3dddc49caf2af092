// Package libretranslate detects the language of lyric lines and translates them
// through a LibreTranslate server.
package libretranslate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/mager/soundtrack/config"
	"github.com/mager/soundtrack/soundtrack"
	"go.uber.org/zap"
)

type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func NewClient(baseURL, apiKey string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: httpClient,
	}
}

// ProvideLibreTranslate returns nil when no server is configured, which disables
// cross-lingual annotation.
func ProvideLibreTranslate(cfg config.Config, log *zap.SugaredLogger) *Client {
	if cfg.TranslateURL == "" {
		log.Infow("translation disabled; lyric lines will be shown untranslated")
		return nil
	}
	return NewClient(cfg.TranslateURL, cfg.TranslateAPIKey, nil)
}

var Options = ProvideLibreTranslate

type detection struct {
	Confidence float64 `json:"confidence"`
	Language   string  `json:"language"`
}

// Detect returns the most confident language code for text.
func (c *Client) Detect(ctx context.Context, text string) (string, error) {
	var detections []detection
	err := c.post(ctx, "/detect", map[string]string{"q": text}, &detections)
	if err != nil {
		return "", fmt.Errorf("%w: %w", soundtrack.ErrLanguageDetectionFailed, err)
	}
	if len(detections) == 0 {
		return "", fmt.Errorf("%w: no candidates", soundtrack.ErrLanguageDetectionFailed)
	}
	best := detections[0]
	for _, d := range detections[1:] {
		if d.Confidence > best.Confidence {
			best = d
		}
	}
	return best.Language, nil
}

// Translate translates text from source to target.
func (c *Client) Translate(ctx context.Context, text, source, target string) (string, error) {
	var resp struct {
		TranslatedText string `json:"translatedText"`
	}
	err := c.post(ctx, "/translate", map[string]string{
		"q":      text,
		"source": source,
		"target": target,
		"format": "text",
	}, &resp)
	if err != nil {
		return "", fmt.Errorf("%w: %w", soundtrack.ErrTranslationFailed, err)
	}
	return resp.TranslatedText, nil
}

func (c *Client) post(ctx context.Context, path string, payload map[string]string, out any) error {
	if c.apiKey != "" {
		payload["api_key"] = c.apiKey
	}
	encoded, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(encoded))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return statusError(resp.StatusCode, body)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// statusError describes a non-200 reply, using the JSON "error" field when the
// body has one and the raw body (up to 200 bytes) otherwise.
func statusError(status int, body []byte) error {
	var apiErr struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &apiErr); err != nil || apiErr.Error == "" {
		raw := strings.TrimSpace(string(body))
		if len(raw) > 200 {
			raw = raw[:200]
		}
		return fmt.Errorf("libretranslate returned status %d: %s", status, raw)
	}
	return fmt.Errorf("libretranslate returned status %d: %s", status, apiErr.Error)
}

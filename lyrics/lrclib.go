package lyrics

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/mager/soundtrack/soundtrack"
)

const (
	lrclibURL = "https://lrclib.net/api/search"
	userAgent = "soundtrack/1.0 (https://github.com/mager/soundtrack)"
)

// Lrclib searches lrclib.net, which needs no API key.
type Lrclib struct {
	baseURL string
	client  *http.Client
}

// NewLrclib builds an lrclib client. An empty baseURL uses the public API.
func NewLrclib(baseURL string, client *http.Client) *Lrclib {
	if baseURL == "" {
		baseURL = lrclibURL
	}
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &Lrclib{baseURL: baseURL, client: client}
}

type lrclibResult struct {
	PlainLyrics  string `json:"plainLyrics"`
	SyncedLyrics string `json:"syncedLyrics"`
	Instrumental bool   `json:"instrumental"`
}

// Lyrics returns the first plain lyric body found. Synced lyrics are used when no
// plain body exists; their "[mm:ss.xx]" stamps are removed by CleanLyrics.
func (l *Lrclib) Lyrics(ctx context.Context, track soundtrack.TrackRef) (string, error) {
	params := url.Values{
		"artist_name": {track.Artist},
		"track_name":  {track.Title},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := l.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return "", soundtrack.ErrLyricsUnavailable
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("lrclib returned status %d", resp.StatusCode)
	}

	var results []lrclibResult
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}

	var synced string
	for _, r := range results {
		if r.Instrumental {
			continue
		}
		if r.PlainLyrics != "" {
			return r.PlainLyrics, nil
		}
		if synced == "" {
			synced = r.SyncedLyrics
		}
	}
	if synced != "" {
		return synced, nil
	}
	return "", soundtrack.ErrLyricsUnavailable
}

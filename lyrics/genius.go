package lyrics

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mager/soundtrack/soundtrack"
	"golang.org/x/net/html"
	"golang.org/x/time/rate"
)

const (
	geniusSearchURL = "https://api.genius.com/search"
	browserAgent    = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/104.0.0.0 Safari/537.36"
)

// Genius finds a song through the Genius search API and scrapes the lyric
// containers from the song page.
type Genius struct {
	token     string
	searchURL string
	client    *http.Client
	limiter   *rate.Limiter
}

// NewGenius builds a Genius client. Page fetches are limited to a few per second.
func NewGenius(token, searchURL string, client *http.Client) *Genius {
	if searchURL == "" {
		searchURL = geniusSearchURL
	}
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &Genius{
		token:     token,
		searchURL: searchURL,
		client:    client,
		limiter:   rate.NewLimiter(rate.Every(300*time.Millisecond), 1),
	}
}

type geniusSearch struct {
	Response struct {
		Hits []struct {
			Type   string `json:"type"`
			Result struct {
				URL           string `json:"url"`
				Title         string `json:"title"`
				PrimaryArtist struct {
					Name string `json:"name"`
				} `json:"primary_artist"`
			} `json:"result"`
		} `json:"hits"`
	} `json:"response"`
}

func (g *Genius) Lyrics(ctx context.Context, track soundtrack.TrackRef) (string, error) {
	songURL, err := g.search(ctx, track)
	if err != nil {
		return "", err
	}

	if err := g.limiter.Wait(ctx); err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, songURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", browserAgent)

	resp, err := g.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("genius page returned status %d", resp.StatusCode)
	}

	body := parseGeniusHTML(resp.Body)
	if body == "" {
		return "", soundtrack.ErrLyricsUnavailable
	}
	return body, nil
}

// search returns the page URL of the best hit, preferring one whose primary artist matches.
func (g *Genius) search(ctx context.Context, track soundtrack.TrackRef) (string, error) {
	params := url.Values{"q": {track.Artist + " " + track.Title}}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.searchURL+"?"+params.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+g.token)

	resp, err := g.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("genius search returned status %d", resp.StatusCode)
	}

	var search geniusSearch
	if err := json.NewDecoder(resp.Body).Decode(&search); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}

	var first string
	for _, hit := range search.Response.Hits {
		if hit.Type != "" && hit.Type != "song" {
			continue
		}
		if first == "" {
			first = hit.Result.URL
		}
		if strings.EqualFold(hit.Result.PrimaryArtist.Name, track.Artist) {
			return hit.Result.URL, nil
		}
	}
	if first == "" {
		return "", soundtrack.ErrLyricsUnavailable
	}
	return first, nil
}

func parseGeniusHTML(r io.Reader) string {
	doc, err := html.Parse(r)
	if err != nil {
		return ""
	}

	var sb strings.Builder
	var find func(*html.Node)
	find = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "div" {
			for _, a := range n.Attr {
				if a.Key == "data-lyrics-container" && a.Val == "true" {
					getText(n, &sb)
					sb.WriteString("\n")
					return
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			find(c)
		}
	}
	find(doc)
	return strings.TrimSpace(sb.String())
}

func getText(n *html.Node, sb *strings.Builder) {
	switch {
	case n.Type == html.TextNode:
		sb.WriteString(n.Data)
	case n.Type == html.ElementNode && n.Data == "br":
		sb.WriteString("\n")
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		getText(c, sb)
	}
}

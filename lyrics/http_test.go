package lyrics

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/mager/soundtrack/soundtrack"
)

func TestLrclib(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		want    string
		wantErr error
	}{
		{"plain", http.StatusOK, `[{"plainLyrics":"line one\nline two"}]`, "line one\nline two", nil},
		{"skips instrumental", http.StatusOK, `[{"instrumental":true},{"plainLyrics":"words"}]`, "words", nil},
		{"synced fallback", http.StatusOK, `[{"syncedLyrics":"[00:01.00] hello"}]`, "[00:01.00] hello", nil},
		{"empty", http.StatusOK, `[]`, "", soundtrack.ErrLyricsUnavailable},
		{"not found", http.StatusNotFound, ``, "", soundtrack.ErrLyricsUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Query().Get("track_name") != "Song A" || r.URL.Query().Get("artist_name") != "Artist A" {
					t.Errorf("unexpected query %q", r.URL.RawQuery)
				}
				w.WriteHeader(tt.status)
				fmt.Fprint(w, tt.body)
			}))
			defer srv.Close()

			got, err := NewLrclib(srv.URL, srv.Client()).Lyrics(context.Background(), track)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}

	t.Run("server error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer srv.Close()

		_, err := NewLrclib(srv.URL, srv.Client()).Lyrics(context.Background(), track)
		if err == nil || errors.Is(err, soundtrack.ErrLyricsUnavailable) {
			t.Errorf("expected a non-miss error, got %v", err)
		}
	})
}

func TestGenius(t *testing.T) {
	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/search":
			if got := r.Header.Get("Authorization"); got != "Bearer token" {
				t.Errorf("unexpected Authorization %q", got)
			}
			fmt.Fprintf(w, `{"response":{"hits":[
				{"type":"song","result":{"url":"%[1]s/wrong","primary_artist":{"name":"Someone Else"}}},
				{"type":"song","result":{"url":"%[1]s/song","primary_artist":{"name":"artist a"}}}
			]}}`, srv.URL)
		case "/song":
			fmt.Fprint(w, `<html><body>
				<div data-lyrics-container="true">First line here<br/>Second <i>line</i> here</div>
				<div class="ad">ignore me</div>
				<div data-lyrics-container="true">Third line here</div>
			</body></html>`)
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	g := NewGenius("token", srv.URL+"/search", srv.Client())
	got, err := g.Lyrics(context.Background(), track)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	want := "First line here\nSecond line here\nThird line here"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
	if strings.Contains(got, "ignore me") {
		t.Error("expected non-lyric containers to be skipped")
	}
}

func TestGeniusNoHits(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"response":{"hits":[]}}`)
	}))
	defer srv.Close()

	_, err := NewGenius("token", srv.URL, srv.Client()).Lyrics(context.Background(), track)
	if !errors.Is(err, soundtrack.ErrLyricsUnavailable) {
		t.Errorf("expected ErrLyricsUnavailable, got %v", err)
	}
}

package highlights

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mager/soundtrack/highlight"
	"github.com/mager/soundtrack/session"
	"github.com/mager/soundtrack/soundtrack"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
)

// TrackProvider authenticates a listener and lists their tracks.
type TrackProvider interface {
	Exchange(ctx context.Context, code string) (*oauth2.Token, error)
	TopTracks(ctx context.Context, token *oauth2.Token) ([]soundtrack.TrackRef, error)
}

// ProcessHandler runs the highlight pipeline for the listener behind an
// authorization code and stores the batch under a session id.
type ProcessHandler struct {
	log      *zap.SugaredLogger
	provider TrackProvider
	pipeline *highlight.Pipeline
	store    *session.Store
}

func (*ProcessHandler) Pattern() string {
	return "/api/process"
}

func NewProcessHandler(
	log *zap.SugaredLogger,
	provider TrackProvider,
	pipeline *highlight.Pipeline,
	store *session.Store,
) *ProcessHandler {
	return &ProcessHandler{
		log:      log,
		provider: provider,
		pipeline: pipeline,
		store:    store,
	}
}

type ProcessResponse struct {
	Status    string `json:"status"`
	Count     int    `json:"count"`
	SessionID string `json:"session_id"`
}

// Process godoc
// @Summary Generate highlights
// @Description Exchange an authorization code, analyze the listener's tracks and store the result
// @Produce json
// @Param code query string true "Authorization code"
// @Success 200 {object} ProcessResponse
// @Router /api/process [get]
func (h *ProcessHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	code := r.URL.Query().Get("code")
	if code == "" {
		http.Error(w, `{"error":"missing code"}`, http.StatusBadRequest)
		return
	}

	token, err := h.provider.Exchange(ctx, code)
	if err != nil {
		h.log.Errorw("Failed to exchange authorization code", "error", err)
		http.Error(w, `{"error":"authorization failed"}`, upstreamStatus(err))
		return
	}

	tracks, err := h.provider.TopTracks(ctx, token)
	if err != nil {
		h.log.Errorw("Failed to fetch tracks", "error", err)
		http.Error(w, `{"error":"could not fetch tracks"}`, upstreamStatus(err))
		return
	}

	// A client that goes away mid-batch still gets its session stored.
	batch := h.pipeline.RunBatch(context.WithoutCancel(ctx), tracks)

	id := session.ID(code)
	h.store.Put(id, *batch)

	resp := ProcessResponse{
		Status:    "complete",
		Count:     len(batch.Highlights),
		SessionID: id,
	}
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		h.log.Errorw("Failed to encode response", "error", err)
	}
}

func upstreamStatus(err error) int {
	if errors.Is(err, soundtrack.ErrUpstreamAuth) {
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

// ResultsHandler serves a stored batch.
type ResultsHandler struct {
	log   *zap.SugaredLogger
	store *session.Store
}

func (*ResultsHandler) Pattern() string {
	return "/api/results"
}

func NewResultsHandler(log *zap.SugaredLogger, store *session.Store) *ResultsHandler {
	return &ResultsHandler{log: log, store: store}
}

type ResultsResponse struct {
	Highlights []soundtrack.Highlight  `json:"highlights"`
	TopWords   []soundtrack.WordCount  `json:"top_words"`
	Themes     []soundtrack.ThemeCount `json:"themes"`
	TotalSongs int                     `json:"total_songs"`
}

// Results godoc
// @Summary Get highlights
// @Description Get the highlights, top words and themes of a session
// @Produce json
// @Param session_id query string true "Session ID"
// @Success 200 {object} ResultsResponse
// @Failure 404 {object} map[string]string
// @Router /api/results [get]
func (h *ResultsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("session_id")
	batch, err := h.store.Get(id)
	if err != nil {
		h.log.Infow("No results for session", "session_id", id)
		http.Error(w, `{"error":"No data available"}`, http.StatusNotFound)
		return
	}

	resp := ResultsResponse{
		Highlights: nonNil(batch.Highlights),
		TopWords:   nonNil(batch.TopWords),
		Themes:     nonNil(batch.Themes),
		TotalSongs: len(batch.Highlights),
	}
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		h.log.Errorw("Failed to encode response", "error", err)
	}
}

// nonNil keeps empty lists encoded as [] rather than null.
func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

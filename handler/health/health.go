package health

import (
	"encoding/json"
	"net/http"

	"github.com/mager/soundtrack/session"
	"go.uber.org/zap"
)

// CredentialChecker reports whether the identity provider has credentials.
type CredentialChecker interface {
	Configured() bool
}

// HealthHandler reports server and Spotify credential status.
type HealthHandler struct {
	log      *zap.SugaredLogger
	spotify  CredentialChecker
	sessions *session.Store
}

func (*HealthHandler) Pattern() string {
	return "/health"
}

// NewHealthHandler builds a new HealthHandler.
func NewHealthHandler(log *zap.SugaredLogger, spotify CredentialChecker, sessions *session.Store) *HealthHandler {
	return &HealthHandler{
		log:      log,
		spotify:  spotify,
		sessions: sessions,
	}
}

type Response struct {
	Status   string `json:"status"`
	Server   bool   `json:"server"`
	Spotify  bool   `json:"spotify"`
	Sessions int    `json:"sessions"`
}

func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.log.Debugw("health check")

	resp := Response{
		Status:   "OK",
		Server:   true,
		Spotify:  h.spotify.Configured(),
		Sessions: h.sessions.Len(),
	}

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		h.log.Errorw("Failed to encode response", "error", err)
	}
}

package auth

import (
	"net/http"
	"net/url"

	"github.com/google/uuid"
	"github.com/mager/soundtrack/config"
	"github.com/mager/soundtrack/spotify"
	"go.uber.org/zap"
)

// LoginHandler redirects the listener to Spotify's consent screen.
type LoginHandler struct {
	log     *zap.SugaredLogger
	spotify *spotify.SpotifyClient
}

func (*LoginHandler) Pattern() string {
	return "/login"
}

func NewLoginHandler(log *zap.SugaredLogger, spotifyClient *spotify.SpotifyClient) *LoginHandler {
	return &LoginHandler{log: log, spotify: spotifyClient}
}

// Login godoc
// @Summary Start Spotify login
// @Success 307
// @Router /login [get]
func (h *LoginHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, h.spotify.AuthURL(uuid.NewString()), http.StatusTemporaryRedirect)
}

// CallbackHandler hands the authorization code to the frontend loading page,
// which then calls /api/process with it.
type CallbackHandler struct {
	log        *zap.SugaredLogger
	loadingURL string
}

func (*CallbackHandler) Pattern() string {
	return "/callback"
}

func NewCallbackHandler(log *zap.SugaredLogger, cfg config.Config) *CallbackHandler {
	return &CallbackHandler{log: log, loadingURL: cfg.LoadingURL}
}

// Callback godoc
// @Summary Spotify OAuth callback
// @Param code query string true "Authorization code"
// @Success 307
// @Router /callback [get]
func (h *CallbackHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	code := q.Get("code")
	if code == "" {
		h.log.Warnw("No authorization code received", "error", q.Get("error"))
		http.Error(w, `{"error":"No authorization code received"}`, http.StatusBadRequest)
		return
	}

	u, err := url.Parse(h.loadingURL)
	if err != nil {
		h.log.Errorw("Invalid loading url", "url", h.loadingURL, "error", err)
		http.Error(w, `{"error":"invalid loading url"}`, http.StatusInternalServerError)
		return
	}
	params := u.Query()
	params.Set("code", code)
	u.RawQuery = params.Encode()

	http.Redirect(w, r, u.String(), http.StatusTemporaryRedirect)
}

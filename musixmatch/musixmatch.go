package musixmatch

import (
	"context"
	"net/http"
	"strings"

	mxm "github.com/mager/go-musixmatch"
	"github.com/mager/go-musixmatch/params"
	"github.com/mager/soundtrack/config"
	"github.com/mager/soundtrack/soundtrack"
	"go.uber.org/zap"
)

// disclaimer is appended to every body served by the free API tier.
const disclaimer = "******* This Lyrics is NOT for Commercial use *******"

type MusixmatchClient struct {
	Client *mxm.Client
	log    *zap.SugaredLogger
}

// ProvideMusixmatch returns nil when no API key is configured.
func ProvideMusixmatch(cfg config.Config, l *zap.SugaredLogger) *MusixmatchClient {
	if cfg.MusixmatchAPIKey == "" {
		l.Infow("musixmatch disabled, no api key")
		return nil
	}
	return &MusixmatchClient{
		Client: mxm.New(cfg.MusixmatchAPIKey, http.DefaultClient),
		log:    l,
	}
}

var Options = ProvideMusixmatch

// Lyrics fetches the matcher lyrics for a title and artist.
func (c *MusixmatchClient) Lyrics(ctx context.Context, track soundtrack.TrackRef) (string, error) {
	if c == nil {
		return "", soundtrack.ErrLyricsUnavailable
	}
	lyrics, err := c.Client.GetMatcherLyrics(ctx, params.QueryTrack(track.Title), params.QueryArtist(track.Artist))
	if err != nil {
		// The API reports a miss as a 404 status error.
		if strings.Contains(err.Error(), "404") {
			return "", soundtrack.ErrLyricsUnavailable
		}
		return "", err
	}
	body := trimDisclaimer(lyrics.Body)
	if body == "" {
		return "", soundtrack.ErrLyricsUnavailable
	}
	return body, nil
}

func trimDisclaimer(body string) string {
	if i := strings.Index(body, disclaimer); i >= 0 {
		body = body[:i]
	}
	return strings.TrimSpace(body)
}

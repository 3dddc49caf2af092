// Package spotify is the identity provider: it exchanges authorization codes and
// lists the listener's tracks together with the genres of each lead artist.
package spotify

import (
	"context"
	"fmt"

	"github.com/mager/soundtrack/config"
	"github.com/mager/soundtrack/musicbrainz"
	"github.com/mager/soundtrack/soundtrack"
	spot "github.com/zmb3/spotify/v2"
	spotifyauth "github.com/zmb3/spotify/v2/auth"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
)

var scopes = []string{
	spotifyauth.ScopeUserTopRead,
	spotifyauth.ScopeUserReadRecentlyPlayed,
}

// GenreLookup finds genres for a recording when the artist has none.
type GenreLookup interface {
	Genres(ctx context.Context, isrc string) ([]string, error)
}

type SpotifyClient struct {
	Auth   *spotifyauth.Authenticator
	ID     string
	Secret string

	log      *zap.SugaredLogger
	fallback GenreLookup
	source   string
	limit    int
	opts     []spot.ClientOption
}

func NewAuthenticator(cfg config.Config) *spotifyauth.Authenticator {
	return spotifyauth.New(
		spotifyauth.WithClientID(cfg.SpotifyID),
		spotifyauth.WithClientSecret(cfg.SpotifySecret),
		spotifyauth.WithRedirectURL(cfg.SpotifyRedirectURL),
		spotifyauth.WithScopes(scopes...),
	)
}

func ProvideSpotify(cfg config.Config, log *zap.SugaredLogger, mb *musicbrainz.MusicbrainzClient) *SpotifyClient {
	log.Infow("setting up spotify client", "source", cfg.TrackSource, "limit", cfg.TopTracksLimit)
	c := NewSpotifyClient(log, NewAuthenticator(cfg), cfg.TrackSource, cfg.TopTracksLimit, mb)
	c.ID = cfg.SpotifyID
	c.Secret = cfg.SpotifySecret
	return c
}

var Options = ProvideSpotify

// NewSpotifyClient builds a client. fallback may be nil; opts are passed to every
// API client, e.g. spot.WithBaseURL in tests.
func NewSpotifyClient(
	log *zap.SugaredLogger,
	auth *spotifyauth.Authenticator,
	source string,
	limit int,
	fallback GenreLookup,
	opts ...spot.ClientOption,
) *SpotifyClient {
	if limit <= 0 {
		limit = 10
	}
	return &SpotifyClient{
		Auth:     auth,
		log:      log,
		fallback: fallback,
		source:   source,
		limit:    limit,
		opts:     opts,
	}
}

// AuthURL is the consent page the listener is sent to.
func (c *SpotifyClient) AuthURL(state string) string {
	return c.Auth.AuthURL(state)
}

// Exchange trades an authorization code for a token.
func (c *SpotifyClient) Exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	tok, err := c.Auth.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("%w: exchange code: %w", soundtrack.ErrUpstreamAuth, err)
	}
	return tok, nil
}

// TopTracks lists the listener's tracks from the configured source. Genre lookup
// failures leave a track without genres rather than failing the call.
func (c *SpotifyClient) TopTracks(ctx context.Context, token *oauth2.Token) ([]soundtrack.TrackRef, error) {
	client := spot.New(c.Auth.Client(ctx, token), c.opts...)
	return c.tracks(ctx, client)
}

func (c *SpotifyClient) tracks(ctx context.Context, client *spot.Client) ([]soundtrack.TrackRef, error) {
	var (
		tracks []soundtrack.TrackRef
		err    error
	)
	switch c.source {
	case config.TrackSourceRecent:
		tracks, err = c.recentTracks(ctx, client)
	default:
		tracks, err = c.topTracks(ctx, client)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", soundtrack.ErrUpstreamAuth, err)
	}

	genres := make(map[string][]string)
	for i := range tracks {
		t := &tracks[i]
		g, ok := genres[t.ArtistID]
		if !ok && t.ArtistID != "" {
			g = c.artistGenres(ctx, client, t.ArtistID)
			genres[t.ArtistID] = g
		}
		if len(g) == 0 {
			g = c.recordingGenres(ctx, t.ISRC)
		}
		t.Genres = g
	}

	c.log.Infow("fetched tracks", "source", c.source, "count", len(tracks))
	return tracks, nil
}

func (c *SpotifyClient) topTracks(ctx context.Context, client *spot.Client) ([]soundtrack.TrackRef, error) {
	page, err := client.CurrentUsersTopTracks(ctx, spot.Limit(c.limit), spot.Timerange(spot.ShortTermRange))
	if err != nil {
		return nil, fmt.Errorf("top tracks: %w", err)
	}
	tracks := make([]soundtrack.TrackRef, 0, len(page.Tracks))
	for _, t := range page.Tracks {
		tracks = append(tracks, trackRef(t.SimpleTrack, t.ExternalIDs["isrc"]))
	}
	return tracks, nil
}

func (c *SpotifyClient) recentTracks(ctx context.Context, client *spot.Client) ([]soundtrack.TrackRef, error) {
	items, err := client.PlayerRecentlyPlayedOpt(ctx, &spot.RecentlyPlayedOptions{Limit: c.limit})
	if err != nil {
		return nil, fmt.Errorf("recently played: %w", err)
	}
	tracks := make([]soundtrack.TrackRef, 0, len(items))
	for _, item := range items {
		tracks = append(tracks, trackRef(item.Track, ""))
	}
	return tracks, nil
}

func (c *SpotifyClient) artistGenres(ctx context.Context, client *spot.Client, id string) []string {
	artist, err := client.GetArtist(ctx, spot.ID(id))
	if err != nil {
		c.log.Warnw("error fetching artist", "artist_id", id, "error", err)
		return nil
	}
	return artist.Genres
}

func (c *SpotifyClient) recordingGenres(ctx context.Context, isrc string) []string {
	if c.fallback == nil || isrc == "" {
		return nil
	}
	genres, err := c.fallback.Genres(ctx, isrc)
	if err != nil {
		c.log.Warnw("error fetching recording genres", "isrc", isrc, "error", err)
		return nil
	}
	return genres
}

func trackRef(t spot.SimpleTrack, isrc string) soundtrack.TrackRef {
	ref := soundtrack.TrackRef{
		Title:      t.Name,
		Artist:     firstArtist(t.Artists),
		ExternalID: string(t.ID),
		ISRC:       isrc,
	}
	if len(t.Artists) > 0 {
		ref.ArtistID = string(t.Artists[0].ID)
	}
	return ref
}

func firstArtist(artists []spot.SimpleArtist) string {
	if len(artists) == 0 {
		return "Various Artists"
	}
	return artists[0].Name
}

// Configured reports whether client credentials are present.
func (c *SpotifyClient) Configured() bool {
	return c.ID != "" && c.Secret != ""
}

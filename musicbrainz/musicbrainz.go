package musicbrainz

import (
	"context"
	"fmt"
	"sort"

	"github.com/mager/musicbrainz-go/musicbrainz"
	"go.uber.org/zap"
	"golang.org/x/exp/maps"
	"golang.org/x/time/rate"
)

const maxGenres = 10

// MusicbrainzClient looks up recording genres by ISRC. MusicBrainz allows one
// request per second per client, so every call waits on the limiter.
type MusicbrainzClient struct {
	Client  *musicbrainz.MusicbrainzClient
	log     *zap.SugaredLogger
	limiter *rate.Limiter
}

func ProvideMusicbrainz(log *zap.SugaredLogger) *MusicbrainzClient {
	return &MusicbrainzClient{
		Client: musicbrainz.NewMusicbrainzClient().
			WithUserAgent("soundtrack", "1.0.0", "https://github.com/mager/soundtrack"),
		log:     log,
		limiter: rate.NewLimiter(rate.Limit(1), 1),
	}
}

var Options = ProvideMusicbrainz

// Genres returns the genres of the first recording with the given ISRC, most
// voted first. Recordings without genres fall back to their artists' genres.
func (c *MusicbrainzClient) Genres(ctx context.Context, isrc string) ([]string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	recs, err := c.Client.SearchRecordingsByISRC(musicbrainz.SearchRecordingsByISRCRequest{ISRC: isrc})
	if err != nil {
		return nil, fmt.Errorf("search recordings: %w", err)
	}
	if recs.Count < 1 || len(recs.Recordings) == 0 {
		return nil, nil
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	recording, err := c.Client.GetRecording(musicbrainz.GetRecordingRequest{
		ID:       recs.Recordings[0].ID,
		Includes: []musicbrainz.Include{"artist-credits", "genres"},
	})
	if err != nil {
		return nil, fmt.Errorf("get recording: %w", err)
	}

	genres := genresForRecording(recording.Recording)
	c.log.Debugw("musicbrainz genres", "isrc", isrc, "genres", genres)
	return genres, nil
}

func genresForRecording(rec musicbrainz.Recording) []string {
	counts := make(map[string]int)
	if rec.Genres != nil {
		for _, g := range *rec.Genres {
			counts[g.Name] += g.Count
		}
	}
	if len(counts) == 0 && rec.ArtistCredits != nil {
		for _, credit := range *rec.ArtistCredits {
			if credit.Artist == nil || credit.Artist.Genres == nil {
				continue
			}
			for _, g := range *credit.Artist.Genres {
				counts[g.Name] += g.Count
			}
		}
	}
	return rankGenres(counts, maxGenres)
}

// rankGenres orders genres by vote count, then name, keeping at most n.
func rankGenres(counts map[string]int, n int) []string {
	genres := maps.Keys(counts)
	sort.Slice(genres, func(i, j int) bool {
		if counts[genres[i]] != counts[genres[j]] {
			return counts[genres[i]] > counts[genres[j]]
		}
		return genres[i] < genres[j]
	})
	if len(genres) > n {
		genres = genres[:n]
	}
	return genres
}

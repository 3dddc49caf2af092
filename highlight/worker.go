package highlight

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mager/soundtrack/lyrics"
	"github.com/mager/soundtrack/soundtrack"
	"go.uber.org/zap"
)

// MaxHighlightGenres bounds the genres copied onto a Highlight.
const MaxHighlightGenres = 3

// DefaultWorkers is the pool size used when none is configured.
const DefaultWorkers = 5

// Pipeline turns tracks into highlights.
type Pipeline struct {
	log        *zap.SugaredLogger
	lyrics     LyricsSource
	scorer     *LineScorer
	themes     *ThemeResolver
	aggregator *Aggregator
	workers    int
	now        func() time.Time
}

type PipelineOption func(*Pipeline)

// WithWorkers sets the number of tracks processed concurrently.
func WithWorkers(n int) PipelineOption {
	return func(p *Pipeline) {
		if n > 0 {
			p.workers = n
		}
	}
}

func WithClock(now func() time.Time) PipelineOption {
	return func(p *Pipeline) {
		p.now = now
	}
}

func WithAggregator(a *Aggregator) PipelineOption {
	return func(p *Pipeline) {
		p.aggregator = a
	}
}

func NewPipeline(
	log *zap.SugaredLogger,
	source LyricsSource,
	scorer *LineScorer,
	themes *ThemeResolver,
	opts ...PipelineOption,
) *Pipeline {
	p := &Pipeline{
		log:        log,
		lyrics:     source,
		scorer:     scorer,
		themes:     themes,
		aggregator: NewAggregator(nil),
		workers:    DefaultWorkers,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// ProcessTrack returns the highlight of one track, or nil when the track has no
// usable lyrics or none of its lines could be scored. It never panics.
func (p *Pipeline) ProcessTrack(ctx context.Context, track soundtrack.TrackRef) (h *soundtrack.Highlight) {
	defer func() {
		if r := recover(); r != nil {
			p.log.Errorw("panic while processing track", "title", track.Title, "artist", track.Artist, "panic", r)
			h = nil
		}
	}()

	query := track
	query.Title = lyrics.CleanTitle(track.Title)

	body, err := p.lyrics.Lyrics(ctx, query)
	if err == nil && body == "" {
		err = soundtrack.ErrLyricsUnavailable
	}
	if err != nil {
		if !errors.Is(err, soundtrack.ErrLyricsUnavailable) {
			err = fmt.Errorf("%w: %w", soundtrack.ErrLyricsUnavailable, err)
		}
		p.log.Infow("no lyrics", "title", track.Title, "artist", track.Artist, "error", err)
		return nil
	}

	lines := lyrics.CleanLyrics(body)
	if len(lines) == 0 {
		p.log.Infow("no usable lyric lines", "title", track.Title, "artist", track.Artist)
		return nil
	}

	best, ok := SelectLine(p.scorer.ScoreLines(ctx, lines))
	if !ok {
		p.log.Infow("no lines could be scored", "title", track.Title, "artist", track.Artist)
		return nil
	}

	genres := track.Genres
	if len(genres) > MaxHighlightGenres {
		genres = genres[:MaxHighlightGenres]
	}

	return &soundtrack.Highlight{
		Song:     track.Title,
		Artist:   track.Artist,
		Line:     best.Display,
		Original: best.Original,
		Score:    best.Score,
		Theme:    p.themes.Resolve(ctx, best.Original, track.Genres, best.Score),
		Genres:   append([]string(nil), genres...),
	}
}

// Package lyrics fetches raw lyric bodies and cleans them into scoreable lines.
//
// Sources are tried in order by Chain; the first non-empty body wins. Cache
// memoizes both hits and clean misses in SQLite so repeated batches for the same
// listener do not hit the lyric sites again.
package lyrics

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mager/soundtrack/soundtrack"
	"go.uber.org/zap"
)

// Source returns the raw lyric body of a track, or soundtrack.ErrLyricsUnavailable.
type Source interface {
	Lyrics(ctx context.Context, track soundtrack.TrackRef) (string, error)
}

// Named pairs a Source with the name it is logged under.
type Named struct {
	Name   string
	Source Source
}

// Chain tries each source in turn.
type Chain struct {
	log     *zap.SugaredLogger
	sources []Named
}

func NewChain(log *zap.SugaredLogger, sources ...Named) *Chain {
	return &Chain{log: log, sources: sources}
}

// Lyrics returns the first non-empty body. When every source reports a clean miss the
// bare soundtrack.ErrLyricsUnavailable is returned; when any source failed for another
// reason the failures are wrapped so a cache does not remember the miss.
func (c *Chain) Lyrics(ctx context.Context, track soundtrack.TrackRef) (string, error) {
	var errs []error
	for _, s := range c.sources {
		body, err := s.Source.Lyrics(ctx, track)
		if err == nil && strings.TrimSpace(body) != "" {
			c.log.Debugw("lyrics found", "source", s.Name, "title", track.Title, "artist", track.Artist)
			return body, nil
		}
		if err != nil && !errors.Is(err, soundtrack.ErrLyricsUnavailable) {
			c.log.Warnw("lyrics source failed", "source", s.Name, "title", track.Title, "error", err)
			errs = append(errs, fmt.Errorf("%s: %w", s.Name, err))
		}
	}
	c.log.Infow("could not find lyrics", "title", track.Title, "artist", track.Artist)
	if len(errs) > 0 {
		return "", fmt.Errorf("%w: %w", soundtrack.ErrLyricsUnavailable, errors.Join(errs...))
	}
	return "", soundtrack.ErrLyricsUnavailable
}

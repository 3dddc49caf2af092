package highlight

import (
	"context"
	"time"

	"github.com/mager/soundtrack/soundtrack"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Dedupe drops every track whose key was already seen, keeping first-seen order.
func Dedupe(log *zap.SugaredLogger, tracks []soundtrack.TrackRef) []soundtrack.TrackRef {
	seen := make(map[string]struct{}, len(tracks))
	unique := make([]soundtrack.TrackRef, 0, len(tracks))
	for _, t := range tracks {
		key := t.Key()
		if _, ok := seen[key]; ok {
			if log != nil {
				log.Debugw("skipping duplicate track", "title", t.Title, "artist", t.Artist)
			}
			continue
		}
		seen[key] = struct{}{}
		unique = append(unique, t)
	}
	return unique
}

// RunBatch processes tracks on a bounded pool and aggregates the highlights that
// survive. Highlights keep the order in which their tracks were dispatched.
// Every dispatched track runs to completion; ctx is only handed to collaborators.
func (p *Pipeline) RunBatch(ctx context.Context, tracks []soundtrack.TrackRef) *soundtrack.HighlightBatch {
	start := time.Now()
	unique := Dedupe(p.log, tracks)

	results := make([]*soundtrack.Highlight, len(unique))
	g := new(errgroup.Group)
	g.SetLimit(p.workers)
	for i, t := range unique {
		g.Go(func() error {
			results[i] = p.ProcessTrack(ctx, t)
			return nil
		})
	}
	g.Wait()

	highlights := make([]soundtrack.Highlight, 0, len(results))
	for _, h := range results {
		if h != nil {
			highlights = append(highlights, *h)
		}
	}

	batch := &soundtrack.HighlightBatch{Highlights: highlights, CreatedAt: p.now()}
	batch.TopWords, batch.Themes = p.aggregator.Aggregate(highlights)

	p.log.Infow(
		"Successfully analyzed tracks",
		"analyzed", len(highlights),
		"tracks", len(unique),
		"duration", time.Since(start).Round(time.Millisecond).String(),
	)
	return batch
}

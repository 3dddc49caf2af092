// Package highlight turns a listener's tracks into emotional highlights.
//
// A Pipeline deduplicates the tracks, fans them out to a bounded pool of
// workers and reduces the surviving highlights into a HighlightBatch. Each
// worker fetches lyrics, scores every clean line, keeps the line with the
// largest sentiment magnitude and resolves a theme for it. Failures are
// contained: a line that cannot be scored is skipped and a track that cannot
// be processed simply yields no highlight.
//
// Every external service is reached through a small capability interface
// (LyricsSource, SentimentScorer, LanguageDetector, Translator,
// ThemeClassifier) so tests can substitute fakes.
package highlight

import (
	"context"

	"github.com/mager/soundtrack/soundtrack"
)

// LyricsSource returns the raw lyric body for a track.
type LyricsSource interface {
	Lyrics(ctx context.Context, track soundtrack.TrackRef) (string, error)
}

// SentimentScorer labels a line of text, e.g. {"negative", 0.93}.
type SentimentScorer interface {
	Sentiment(ctx context.Context, text string) (soundtrack.Sentiment, error)
}

type LanguageDetector interface {
	Detect(ctx context.Context, text string) (string, error)
}

type Translator interface {
	Translate(ctx context.Context, text, source, target string) (string, error)
}

// ThemeClassifier ranks candidate labels for text, most likely first.
type ThemeClassifier interface {
	Classify(ctx context.Context, text string, candidates []string) ([]string, error)
}

package highlight

import (
	"context"
	"errors"

	"github.com/mager/soundtrack/soundtrack"
)

// fakeLyrics serves lyric bodies keyed by the title it is asked for.
type fakeLyrics struct {
	bodies  map[string]string
	errs    map[string]error
	panicOn string
}

func (f *fakeLyrics) Lyrics(ctx context.Context, track soundtrack.TrackRef) (string, error) {
	if track.Title == f.panicOn {
		panic("lyrics exploded")
	}
	if err, ok := f.errs[track.Title]; ok {
		return "", err
	}
	body, ok := f.bodies[track.Title]
	if !ok {
		return "", soundtrack.ErrLyricsUnavailable
	}
	return body, nil
}

// fakeSentiment scores lines from a table; unknown lines are mildly positive.
type fakeSentiment struct {
	scores map[string]soundtrack.Sentiment
	fail   map[string]bool
}

func (f *fakeSentiment) Sentiment(ctx context.Context, text string) (soundtrack.Sentiment, error) {
	if f.fail[text] {
		return soundtrack.Sentiment{}, errors.New("model unavailable")
	}
	if s, ok := f.scores[text]; ok {
		return s, nil
	}
	return soundtrack.Sentiment{Label: "positive", Score: 0.1}, nil
}

type fakeDetector struct {
	lang string
	err  error
}

func (f *fakeDetector) Detect(ctx context.Context, text string) (string, error) {
	return f.lang, f.err
}

type fakeTranslator struct {
	out   string
	err   error
	calls int
}

func (f *fakeTranslator) Translate(ctx context.Context, text, source, target string) (string, error) {
	f.calls++
	return f.out, f.err
}

type fakeClassifier struct {
	ranked []string
	err    error
}

func (f *fakeClassifier) Classify(ctx context.Context, text string, candidates []string) ([]string, error) {
	return f.ranked, f.err
}

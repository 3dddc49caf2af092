package highlight

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/mager/soundtrack/soundtrack"
	"go.uber.org/zap"
	"golang.org/x/text/language"
)

// LineScorer assigns a signed sentiment to lyric lines and, when translation is
// configured, annotates foreign-language lines with a translation.
type LineScorer struct {
	log        *zap.SugaredLogger
	sentiment  SentimentScorer
	detector   LanguageDetector
	translator Translator
	target     string
}

func NewLineScorer(log *zap.SugaredLogger, sentiment SentimentScorer) *LineScorer {
	return &LineScorer{log: log, sentiment: sentiment, target: "en"}
}

// WithTranslation enables annotation of lines not written in target.
func (s *LineScorer) WithTranslation(detector LanguageDetector, translator Translator, target string) *LineScorer {
	s.detector = detector
	s.translator = translator
	if target != "" {
		s.target = target
	}
	return s
}

// ScoreLine scores one line. Only a sentiment failure is an error; detection and
// translation problems leave the display text untranslated.
func (s *LineScorer) ScoreLine(ctx context.Context, line string) (soundtrack.ScoredLine, error) {
	verdict, err := s.sentiment.Sentiment(ctx, line)
	if err != nil {
		if !errors.Is(err, soundtrack.ErrScoringUnavailable) {
			err = fmt.Errorf("%w: %w", soundtrack.ErrScoringUnavailable, err)
		}
		return soundtrack.ScoredLine{}, err
	}

	score := math.Min(math.Abs(verdict.Score), 1)
	if isNegative(verdict.Label) {
		score = -score
	}
	return soundtrack.ScoredLine{
		Original: line,
		Display:  s.annotate(ctx, line),
		Score:    score,
	}, nil
}

// ScoreLines scores lines in order, dropping the ones that fail.
func (s *LineScorer) ScoreLines(ctx context.Context, lines []string) []soundtrack.ScoredLine {
	scored := make([]soundtrack.ScoredLine, 0, len(lines))
	for _, line := range lines {
		sl, err := s.ScoreLine(ctx, line)
		if err != nil {
			s.log.Debugw("skipping line", "line", truncate(line, 30), "error", err)
			continue
		}
		scored = append(scored, sl)
	}
	return scored
}

func (s *LineScorer) annotate(ctx context.Context, line string) string {
	if s.detector == nil || s.translator == nil {
		return line
	}
	lang, err := s.detector.Detect(ctx, line)
	if err != nil {
		s.log.Debugw("language detection failed", "line", truncate(line, 30), "error", err)
		return line
	}
	if lang == "" || sameLanguage(lang, s.target) {
		return line
	}
	translated, err := s.translator.Translate(ctx, line, lang, s.target)
	if err != nil {
		s.log.Debugw("translation failed", "line", truncate(line, 30), "error", err)
		return line
	}
	translated = strings.TrimSpace(translated)
	if translated == "" || strings.EqualFold(translated, line) {
		return line
	}
	return fmt.Sprintf("%s (%s)", line, translated)
}

// SelectLine returns the line with the largest absolute score. Ties go to the
// earliest line.
func SelectLine(lines []soundtrack.ScoredLine) (soundtrack.ScoredLine, bool) {
	if len(lines) == 0 {
		return soundtrack.ScoredLine{}, false
	}
	best := lines[0]
	for _, l := range lines[1:] {
		if math.Abs(l.Score) > math.Abs(best.Score) {
			best = l
		}
	}
	return best, true
}

// isNegative matches "negative" as well as graded labels like "Very Negative".
func isNegative(label string) bool {
	return strings.Contains(strings.ToLower(label), "negative")
}

// sameLanguage compares the base languages of two tags, so "en-US" matches "en".
func sameLanguage(a, b string) bool {
	ta, errA := language.Parse(a)
	tb, errB := language.Parse(b)
	if errA != nil || errB != nil {
		return strings.EqualFold(a, b)
	}
	ba, _ := ta.Base()
	bb, _ := tb.Base()
	return ba == bb
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}

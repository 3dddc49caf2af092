package highlight

import (
	"context"
	"errors"
	"testing"

	"github.com/mager/soundtrack/logger"
	"github.com/mager/soundtrack/soundtrack"
)

const line = "Te quiero más que a mi vida"

func TestScoreLine(t *testing.T) {
	log, _ := logger.NewTestLogger()

	tests := []struct {
		name    string
		verdict soundtrack.Sentiment
		want    float64
	}{
		{"positive", soundtrack.Sentiment{Label: "positive", Score: 0.8}, 0.8},
		{"negative", soundtrack.Sentiment{Label: "NEGATIVE", Score: 0.8}, -0.8},
		{"graded negative", soundtrack.Sentiment{Label: "Very Negative", Score: 0.6}, -0.6},
		{"neutral", soundtrack.Sentiment{Label: "Neutral", Score: 0.4}, 0.4},
		{"clamped", soundtrack.Sentiment{Label: "negative", Score: 1.7}, -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewLineScorer(log, &fakeSentiment{scores: map[string]soundtrack.Sentiment{line: tt.verdict}})
			got, err := s.ScoreLine(context.Background(), line)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if got.Score != tt.want {
				t.Errorf("got score %v, want %v", got.Score, tt.want)
			}
			if got.Original != line || got.Display != line {
				t.Errorf("expected untranslated line, got %+v", got)
			}
		})
	}
}

func TestScoreLineFailure(t *testing.T) {
	log, _ := logger.NewTestLogger()
	s := NewLineScorer(log, &fakeSentiment{fail: map[string]bool{line: true}})

	_, err := s.ScoreLine(context.Background(), line)
	if !errors.Is(err, soundtrack.ErrScoringUnavailable) {
		t.Errorf("expected ErrScoringUnavailable, got %v", err)
	}

	scored := s.ScoreLines(context.Background(), []string{line, "another line of the song"})
	if len(scored) != 1 || scored[0].Original != "another line of the song" {
		t.Errorf("expected failing line to be dropped, got %+v", scored)
	}
}

func TestTranslationAnnotation(t *testing.T) {
	log, _ := logger.NewTestLogger()
	sentiment := &fakeSentiment{}

	tests := []struct {
		name       string
		detector   *fakeDetector
		translator *fakeTranslator
		want       string
	}{
		{
			name:       "foreign line is annotated",
			detector:   &fakeDetector{lang: "es"},
			translator: &fakeTranslator{out: "I love you more than my life"},
			want:       line + " (I love you more than my life)",
		},
		{
			name:       "regional variant of target is not translated",
			detector:   &fakeDetector{lang: "en-US"},
			translator: &fakeTranslator{out: "unused"},
			want:       line,
		},
		{
			name:       "translation equal to original",
			detector:   &fakeDetector{lang: "es"},
			translator: &fakeTranslator{out: "te quiero MÁS que a mi vida"},
			want:       line,
		},
		{
			name:       "empty translation",
			detector:   &fakeDetector{lang: "es"},
			translator: &fakeTranslator{out: "   "},
			want:       line,
		},
		{
			name:       "detection fails",
			detector:   &fakeDetector{err: soundtrack.ErrLanguageDetectionFailed},
			translator: &fakeTranslator{out: "unused"},
			want:       line,
		},
		{
			name:       "translation fails",
			detector:   &fakeDetector{lang: "es"},
			translator: &fakeTranslator{err: soundtrack.ErrTranslationFailed},
			want:       line,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewLineScorer(log, sentiment).WithTranslation(tt.detector, tt.translator, "en")
			got, err := s.ScoreLine(context.Background(), line)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if got.Display != tt.want {
				t.Errorf("got display %q, want %q", got.Display, tt.want)
			}
			if got.Original != line {
				t.Errorf("original changed to %q", got.Original)
			}
		})
	}
}

func TestTranslationSkippedForTargetLanguage(t *testing.T) {
	log, _ := logger.NewTestLogger()
	tr := &fakeTranslator{out: "unused"}
	s := NewLineScorer(log, &fakeSentiment{}).WithTranslation(&fakeDetector{lang: "en"}, tr, "")

	if _, err := s.ScoreLine(context.Background(), line); err != nil {
		t.Fatal(err)
	}
	if tr.calls != 0 {
		t.Errorf("expected no translation call, got %d", tr.calls)
	}
}

func TestSelectLine(t *testing.T) {
	tests := []struct {
		name   string
		scores []float64
		want   int
	}{
		{"largest magnitude wins", []float64{0.2, -0.9, 0.5}, 1},
		{"tie goes to earliest", []float64{0.5, -0.5, 0.5}, 0},
		{"single line", []float64{-0.1}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lines := make([]soundtrack.ScoredLine, len(tt.scores))
			for i, s := range tt.scores {
				lines[i] = soundtrack.ScoredLine{Original: string(rune('a' + i)), Score: s}
			}
			got, ok := SelectLine(lines)
			if !ok {
				t.Fatal("expected a line")
			}
			if got != lines[tt.want] {
				t.Errorf("got %+v, want %+v", got, lines[tt.want])
			}
		})
	}

	if _, ok := SelectLine(nil); ok {
		t.Error("expected no line from an empty slice")
	}
}

package highlight

import (
	"context"
	"errors"
	"testing"

	"github.com/mager/soundtrack/config"
	"github.com/mager/soundtrack/logger"
)

func TestResolveTheme(t *testing.T) {
	tests := []struct {
		name   string
		genres []string
		score  float64
		want   string
	}{
		{"no genres", nil, -0.9, ThemeUnknown},
		{"strong negative overrides genre", []string{"dance pop"}, -0.8, ThemeHeartbreak},
		{"r&b", []string{"contemporary r&b"}, 0.5, ThemeLove},
		{"hip hop", []string{"southern hip hop", "trap"}, 0.2, ThemeStruggles},
		{"rock", []string{"alternative rock"}, 0.2, ThemeMotivation},
		{"gospel", []string{"gospel"}, 0.6, ThemeSpiritual},
		{"folk", []string{"indie folk"}, 0.1, ThemeLoneliness},
		{"latin", []string{"reggaeton"}, 0.9, ThemeCelebration},
		{"indie", []string{"bedroom indie"}, 0.4, ThemeHeartbreak},
		{"happy pop", []string{"pop"}, 0.4, ThemeParty},
		{"sad pop", []string{"pop"}, -0.5, ThemeHeartbreak},
		{"earlier bucket wins", []string{"pop", "soul"}, 0.4, ThemeLove},
		{"keyword inside compound genre", []string{"k-pop girl group", "j-rock"}, 0.4, ThemeMotivation},
		{"first genre verbatim", []string{"Polka", "Zydeco"}, 0.4, "Polka"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ResolveTheme(tt.genres, tt.score); got != tt.want {
				t.Errorf("ResolveTheme(%v, %v) = %q, want %q", tt.genres, tt.score, got, tt.want)
			}
		})
	}
}

func TestThemeResolver(t *testing.T) {
	log, _ := logger.NewTestLogger()
	ctx := context.Background()
	genres := []string{"pop"}

	t.Run("classifier picks top label", func(t *testing.T) {
		r := NewThemeResolver(log, config.ThemeModeClassifier, &fakeClassifier{ranked: []string{ThemeFriendship, ThemeLove}})
		if got := r.Resolve(ctx, "we ride together til the end", genres, 0.4); got != ThemeFriendship {
			t.Errorf("got %q, want %q", got, ThemeFriendship)
		}
	})

	t.Run("classifier failure falls back to genres", func(t *testing.T) {
		r := NewThemeResolver(log, config.ThemeModeClassifier, &fakeClassifier{err: errors.New("503")})
		if got := r.Resolve(ctx, "we ride together til the end", genres, 0.4); got != ThemeParty {
			t.Errorf("got %q, want %q", got, ThemeParty)
		}
	})

	t.Run("empty ranking falls back to genres", func(t *testing.T) {
		r := NewThemeResolver(log, config.ThemeModeClassifier, &fakeClassifier{})
		if got := r.Resolve(ctx, "we ride together til the end", genres, -0.4); got != ThemeHeartbreak {
			t.Errorf("got %q, want %q", got, ThemeHeartbreak)
		}
	})

	t.Run("labels outside the candidates are skipped", func(t *testing.T) {
		r := NewThemeResolver(log, config.ThemeModeClassifier, &fakeClassifier{ranked: []string{"garbage label", ThemeLoneliness}})
		if got := r.Resolve(ctx, "we ride together til the end", genres, 0.4); got != ThemeLoneliness {
			t.Errorf("got %q, want %q", got, ThemeLoneliness)
		}
	})

	t.Run("no candidate label falls back to genres", func(t *testing.T) {
		r := NewThemeResolver(log, config.ThemeModeClassifier, &fakeClassifier{ranked: []string{"garbage label"}})
		if got := r.Resolve(ctx, "we ride together til the end", genres, 0.4); got != ThemeParty {
			t.Errorf("got %q, want %q", got, ThemeParty)
		}
	})

	t.Run("heuristic mode ignores classifier", func(t *testing.T) {
		r := NewThemeResolver(log, config.ThemeModeHeuristic, &fakeClassifier{ranked: []string{ThemeFriendship}})
		if got := r.Resolve(ctx, "we ride together til the end", genres, 0.4); got != ThemeParty {
			t.Errorf("got %q, want %q", got, ThemeParty)
		}
	})

	t.Run("missing classifier forces heuristic", func(t *testing.T) {
		r := NewThemeResolver(log, config.ThemeModeClassifier, nil)
		if got := r.Resolve(ctx, "we ride together til the end", nil, 0.4); got != ThemeUnknown {
			t.Errorf("got %q, want %q", got, ThemeUnknown)
		}
	})
}

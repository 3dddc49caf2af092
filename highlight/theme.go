package highlight

import (
	"context"
	"slices"
	"strings"

	"github.com/mager/soundtrack/config"
	"go.uber.org/zap"
)

const (
	ThemeUnknown     = "Unknown"
	ThemeLove        = "Love/Romance"
	ThemeHeartbreak  = "Heartbreak/Sadness"
	ThemeParty       = "Party/Fun"
	ThemeMotivation  = "Motivation/Inspiration"
	ThemeSpiritual   = "Spiritual/Devotional"
	ThemeFriendship  = "Friendship"
	ThemeLoneliness  = "Loneliness"
	ThemeCelebration = "Celebration"
	ThemeStruggles   = "Life struggles"
)

// CandidateThemes is the label set offered to the theme classifier.
var CandidateThemes = []string{
	ThemeLove,
	ThemeHeartbreak,
	ThemeParty,
	ThemeMotivation,
	ThemeSpiritual,
	ThemeFriendship,
	ThemeLoneliness,
	ThemeCelebration,
	ThemeStruggles,
}

type themeBucket struct {
	keywords []string
	theme    string
}

// Checked in order; the first bucket with a keyword in the genre text wins.
var themeBuckets = []themeBucket{
	{[]string{"r&b", "soul", "neo soul", "contemporary r&b"}, ThemeLove},
	{[]string{"hip hop", "rap", "trap", "drill", "gangsta"}, ThemeStruggles},
	{[]string{"rock", "metal", "punk", "grunge"}, ThemeMotivation},
	{[]string{"gospel", "christian", "devotional", "spiritual"}, ThemeSpiritual},
	{[]string{"folk", "acoustic", "singer-songwriter"}, ThemeLoneliness},
	{[]string{"latin", "reggaeton", "salsa", "bachata"}, ThemeCelebration},
	{[]string{"sad", "indie", "alternative", "emo", "blues"}, ThemeHeartbreak},
}

var partyKeywords = []string{"pop", "dance", "edm", "house", "electronic", "party"}

const (
	heartbreakOverride = -0.7
	sadPopThreshold    = -0.3
)

// ResolveTheme maps genre tags and the dominant sentiment of a track to a theme.
// A strongly negative line overrides the genre.
func ResolveTheme(genres []string, score float64) string {
	if len(genres) == 0 {
		return ThemeUnknown
	}
	if score < heartbreakOverride {
		return ThemeHeartbreak
	}

	text := strings.ToLower(strings.Join(genres, " "))
	for _, b := range themeBuckets {
		if containsAny(text, b.keywords) {
			return b.theme
		}
	}
	if containsAny(text, partyKeywords) {
		if score < sadPopThreshold {
			return ThemeHeartbreak
		}
		return ThemeParty
	}
	return genres[0]
}

func containsAny(text string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(text, k) {
			return true
		}
	}
	return false
}

// ThemeResolver picks a theme either from genre keywords or, in classifier mode,
// from a zero-shot classification of the chosen line.
type ThemeResolver struct {
	log        *zap.SugaredLogger
	mode       string
	classifier ThemeClassifier
}

func NewThemeResolver(log *zap.SugaredLogger, mode string, classifier ThemeClassifier) *ThemeResolver {
	if classifier == nil {
		mode = config.ThemeModeHeuristic
	}
	return &ThemeResolver{log: log, mode: mode, classifier: classifier}
}

func (r *ThemeResolver) Resolve(ctx context.Context, line string, genres []string, score float64) string {
	if r.mode != config.ThemeModeClassifier {
		return ResolveTheme(genres, score)
	}

	ranked, err := r.classifier.Classify(ctx, line, CandidateThemes)
	if err != nil {
		r.log.Debugw("theme classification unavailable, using genre heuristic", "error", err)
		return ResolveTheme(genres, score)
	}
	// Labels outside the candidate set are ignored.
	for _, label := range ranked {
		if slices.Contains(CandidateThemes, label) {
			return label
		}
	}
	r.log.Debugw("no candidate theme in classification, using genre heuristic", "ranked", ranked)
	return ResolveTheme(genres, score)
}

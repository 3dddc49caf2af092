package highlight

import (
	"math/rand/v2"
	"sort"
	"strings"
	"sync"
	"time"
	"unicode"

	"github.com/mager/soundtrack/soundtrack"
	"golang.org/x/exp/maps"
)

// MaxTopWords bounds HighlightBatch.TopWords.
const MaxTopWords = 10

// Aggregator reduces a batch of highlights into word and theme histograms.
type Aggregator struct {
	aesthetic *AestheticThemes
}

// NewAggregator builds an Aggregator. A nil aesthetic table keeps canonical theme names.
func NewAggregator(aesthetic *AestheticThemes) *Aggregator {
	return &Aggregator{aesthetic: aesthetic}
}

func (a *Aggregator) Aggregate(highlights []soundtrack.Highlight) ([]soundtrack.WordCount, []soundtrack.ThemeCount) {
	var relabel func(string) string
	if a != nil && a.aesthetic != nil {
		relabel = a.aesthetic.Relabel
	}
	return TopWords(highlights, MaxTopWords), ThemeCounts(highlights, relabel)
}

// TopWords counts the alphabetic, non-stop-word tokens of each highlight's original
// line and returns the n most frequent, ties broken by first occurrence.
func TopWords(highlights []soundtrack.Highlight, n int) []soundtrack.WordCount {
	lines := make([]string, len(highlights))
	for i, h := range highlights {
		lines[i] = h.Original
	}

	var order []string
	counts := make(map[string]int)
	for _, tok := range tokenize(strings.Join(lines, " ")) {
		if IsStopWord(tok) {
			continue
		}
		if counts[tok] == 0 {
			order = append(order, tok)
		}
		counts[tok]++
	}

	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})
	if len(order) > n {
		order = order[:n]
	}

	words := make([]soundtrack.WordCount, len(order))
	for i, w := range order {
		words[i] = soundtrack.WordCount{Word: w, Count: counts[w]}
	}
	return words
}

// tokenize lower-cases text and returns its purely alphabetic tokens. Hyphens
// bind words together, so "heart-broken" is one token and is dropped.
func tokenize(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '-'
	})
	tokens := fields[:0]
	for _, f := range fields {
		if strings.IndexFunc(f, func(r rune) bool { return !unicode.IsLetter(r) }) >= 0 {
			continue
		}
		tokens = append(tokens, f)
	}
	return tokens
}

// ThemeCounts counts highlight themes, most common first, ties broken by first
// occurrence. relabel, when non-nil, is applied to each theme before counting.
func ThemeCounts(highlights []soundtrack.Highlight, relabel func(string) string) []soundtrack.ThemeCount {
	counts := make(map[string]int)
	first := make(map[string]int)
	for i, h := range highlights {
		theme := h.Theme
		if relabel != nil {
			theme = relabel(theme)
		}
		if _, ok := first[theme]; !ok {
			first[theme] = i
		}
		counts[theme]++
	}

	themes := maps.Keys(counts)
	sort.Slice(themes, func(i, j int) bool {
		if counts[themes[i]] != counts[themes[j]] {
			return counts[themes[i]] > counts[themes[j]]
		}
		return first[themes[i]] < first[themes[j]]
	})

	out := make([]soundtrack.ThemeCount, len(themes))
	for i, t := range themes {
		out[i] = soundtrack.ThemeCount{Theme: t, Count: counts[t]}
	}
	return out
}

var aestheticSynonyms = map[string][]string{
	ThemeLove:        {"Hopeless Romantic", "Butterflies", "Love Letters"},
	ThemeHeartbreak:  {"Crying in the Car", "Sad Girl Hours", "Rainy Window"},
	ThemeParty:       {"Main Character Energy", "Dance Floor", "Friday Night"},
	ThemeMotivation:  {"Villain Arc", "Glow Up", "Unstoppable"},
	ThemeSpiritual:   {"Higher Power", "Soul Searching", "Sunday Morning"},
	ThemeFriendship:  {"Ride or Die", "Found Family", "Day Ones"},
	ThemeLoneliness:  {"3AM Thoughts", "Empty Room", "Solo Walks"},
	ThemeCelebration: {"Golden Hour", "Confetti", "Summer Nights"},
	ThemeStruggles:   {"Against the Odds", "Grind Season", "Growing Pains"},
}

// AestheticThemes relabels canonical themes with a randomly chosen synonym.
// The random source is seeded so a fixed seed gives reproducible labels.
type AestheticThemes struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewAestheticThemes seeds the relabeler; seed 0 seeds from the clock.
func NewAestheticThemes(seed uint64) *AestheticThemes {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return &AestheticThemes{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// Relabel returns a synonym for theme, or theme itself when it has none.
func (a *AestheticThemes) Relabel(theme string) string {
	options, ok := aestheticSynonyms[theme]
	if !ok {
		return theme
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	return options[a.rng.IntN(len(options))]
}

package highlight

import (
	"reflect"
	"slices"
	"testing"

	"github.com/mager/soundtrack/soundtrack"
)

func originals(lines ...string) []soundtrack.Highlight {
	hs := make([]soundtrack.Highlight, len(lines))
	for i, l := range lines {
		hs[i] = soundtrack.Highlight{Original: l, Line: l + " (translated)"}
	}
	return hs
}

func TestTopWords(t *testing.T) {
	t.Run("stop words and ordering", func(t *testing.T) {
		hs := originals(
			"Every night I cry for you my love",
			"Dancing all night under the city lights",
		)
		want := []soundtrack.WordCount{
			{Word: "night", Count: 2},
			{Word: "every", Count: 1},
			{Word: "cry", Count: 1},
			{Word: "love", Count: 1},
			{Word: "dancing", Count: 1},
			{Word: "city", Count: 1},
			{Word: "lights", Count: 1},
		}
		if got := TopWords(hs, MaxTopWords); !reflect.DeepEqual(got, want) {
			t.Errorf("got %+v, want %+v", got, want)
		}
	})

	t.Run("contractions and digits", func(t *testing.T) {
		hs := originals("Don't you ever leave me, 99 times I'll say it")
		got := TopWords(hs, MaxTopWords)
		want := []soundtrack.WordCount{
			{Word: "ever", Count: 1},
			{Word: "leave", Count: 1},
			{Word: "times", Count: 1},
			{Word: "say", Count: 1},
		}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("got %+v, want %+v", got, want)
		}
	})

	t.Run("hyphenated words are dropped", func(t *testing.T) {
		hs := originals("Heart-broken and well-known, broken heart - forever")
		want := []soundtrack.WordCount{
			{Word: "broken", Count: 1},
			{Word: "heart", Count: 1},
			{Word: "forever", Count: 1},
		}
		if got := TopWords(hs, MaxTopWords); !reflect.DeepEqual(got, want) {
			t.Errorf("got %+v, want %+v", got, want)
		}
	})

		t.Run("bounded", func(t *testing.T) {
		hs := originals(
			"alpha bravo charlie delta echo foxtrot",
			"golf hotel india juliet kilo lima mike",
		)
		got := TopWords(hs, MaxTopWords)
		if len(got) != MaxTopWords {
			t.Fatalf("expected %d words, got %d", MaxTopWords, len(got))
		}
		if got[0].Word != "alpha" || got[9].Word != "juliet" {
			t.Errorf("expected first-occurrence order, got %+v", got)
		}
	})

	t.Run("uses original text", func(t *testing.T) {
		got := TopWords(originals("lluvia eterna sobre la ciudad"), MaxTopWords)
		for _, w := range got {
			if w.Word == "translated" {
				t.Errorf("translation leaked into top words: %+v", got)
			}
		}
	})

	t.Run("empty", func(t *testing.T) {
		if got := TopWords(nil, MaxTopWords); len(got) != 0 {
			t.Errorf("expected no words, got %+v", got)
		}
	})
}

func TestThemeCounts(t *testing.T) {
	hs := []soundtrack.Highlight{
		{Theme: ThemeParty},
		{Theme: ThemeLove},
		{Theme: ThemeHeartbreak},
		{Theme: ThemeLove},
		{Theme: ThemeHeartbreak},
		{Theme: ThemeUnknown},
	}
	want := []soundtrack.ThemeCount{
		{Theme: ThemeLove, Count: 2},
		{Theme: ThemeHeartbreak, Count: 2},
		{Theme: ThemeParty, Count: 1},
		{Theme: ThemeUnknown, Count: 1},
	}
	if got := ThemeCounts(hs, nil); !reflect.DeepEqual(got, want) {
		t.Errorf("got %+v, want %+v", got, want)
	}
}

func TestAestheticThemes(t *testing.T) {
	a := NewAestheticThemes(42)
	b := NewAestheticThemes(42)

	for i := 0; i < 20; i++ {
		got := a.Relabel(ThemeLove)
		if !slices.Contains(aestheticSynonyms[ThemeLove], got) {
			t.Fatalf("unexpected synonym %q", got)
		}
		if other := b.Relabel(ThemeLove); other != got {
			t.Fatalf("same seed diverged: %q vs %q", got, other)
		}
	}

	if got := a.Relabel("Polka"); got != "Polka" {
		t.Errorf("expected unknown theme to pass through, got %q", got)
	}
}

func TestAggregatorRelabels(t *testing.T) {
	agg := NewAggregator(NewAestheticThemes(7))
	_, themes := agg.Aggregate([]soundtrack.Highlight{{Theme: ThemeUnknown}, {Theme: ThemeUnknown}})
	want := []soundtrack.ThemeCount{{Theme: ThemeUnknown, Count: 2}}
	if !reflect.DeepEqual(themes, want) {
		t.Errorf("got %+v, want %+v", themes, want)
	}
}

package soundtrack

import "time"

// TrackRef is one song from the listener's history, with the genre tags of its lead artist.
type TrackRef struct {
	Title      string   `json:"title"`
	Artist     string   `json:"artist"`
	ExternalID string   `json:"external_id"`
	ArtistID   string   `json:"artist_id,omitempty"`
	ISRC       string   `json:"isrc,omitempty"`
	Genres     []string `json:"genres"`
}

// Key is the deduplication key: lower-cased, trimmed "{title}_{artist}".
func (t TrackRef) Key() string {
	return normalize(t.Title) + "_" + normalize(t.Artist)
}

// ScoredLine is a lyric line with its signed sentiment.
type ScoredLine struct {
	// Original is the cleaned lyric line.
	Original string `json:"original"`
	// Display is Original, or "Original (translation)" when the line is in another language.
	Display string `json:"display"`
	// Score is the signed sentiment magnitude.
	// Range: -1 - 1
	Score float64 `json:"score"`
}

// Highlight is the most emotionally salient line of one track.
type Highlight struct {
	Song     string   `json:"song"`
	Artist   string   `json:"artist"`
	Line     string   `json:"line"`
	Original string   `json:"original"`
	Score    float64  `json:"score"`
	Theme    string   `json:"theme"`
	Genres   []string `json:"genres"`
}

type WordCount struct {
	Word  string `json:"word"`
	Count int    `json:"count"`
}

type ThemeCount struct {
	Theme string `json:"theme"`
	Count int    `json:"count"`
}

// HighlightBatch is the complete result of one processing request.
type HighlightBatch struct {
	Highlights []Highlight  `json:"highlights"`
	TopWords   []WordCount  `json:"top_words"`
	Themes     []ThemeCount `json:"themes"`
	CreatedAt  time.Time    `json:"created_at"`
}

// Sentiment is a raw classifier verdict for a piece of text.
type Sentiment struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

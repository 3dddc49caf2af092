package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	ThemeModeHeuristic  = "heuristic"
	ThemeModeClassifier = "classifier"

	TrackSourceTop    = "top"
	TrackSourceRecent = "recent"
)

type Config struct {
	Port     string `default:"8080"`
	LogLevel string `split_words:"true" default:"info"`

	SpotifyID          string `split_words:"true"`
	SpotifySecret      string `split_words:"true"`
	SpotifyRedirectURL string `split_words:"true" default:"http://localhost:8080/callback"`
	TrackSource        string `split_words:"true" default:"top"`
	TopTracksLimit     int    `split_words:"true" default:"10"`

	LoadingURL   string   `split_words:"true" default:"http://localhost:3000/loading"`
	AllowOrigins []string `split_words:"true" default:"http://localhost:3000"`

	MusixmatchAPIKey string `split_words:"true"`
	GeniusToken      string `split_words:"true"`
	LyricsCachePath  string `split_words:"true"`

	HuggingFaceToken string `split_words:"true"`
	HuggingFaceURL   string `split_words:"true" default:"https://api-inference.huggingface.co/models"`
	SentimentModel   string `split_words:"true" default:"tabularisai/multilingual-sentiment-analysis"`
	ClassifierModel  string `split_words:"true" default:"facebook/bart-large-mnli"`

	TranslateURL    string `split_words:"true"`
	TranslateAPIKey string `split_words:"true"`
	TargetLanguage  string `split_words:"true" default:"en"`

	ThemeMode       string        `split_words:"true" default:"heuristic"`
	Workers         int           `default:"5"`
	SessionTTL      time.Duration `split_words:"true" default:"2h"`
	AestheticThemes bool          `split_words:"true" default:"false"`
	AestheticSeed   uint64        `split_words:"true" default:"0"`
}

// ProvideConfig reads SOUNDTRACK_* environment variables.
func ProvideConfig() (Config, error) {
	var cfg Config
	if err := envconfig.Process("soundtrack", &cfg); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	switch c.ThemeMode {
	case ThemeModeHeuristic, ThemeModeClassifier:
	default:
		return fmt.Errorf("invalid theme mode %q", c.ThemeMode)
	}
	switch c.TrackSource {
	case TrackSourceTop, TrackSourceRecent:
	default:
		return fmt.Errorf("invalid track source %q", c.TrackSource)
	}
	if c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", c.Workers)
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("session ttl must be positive, got %s", c.SessionTTL)
	}
	return nil
}

var Options = ProvideConfig

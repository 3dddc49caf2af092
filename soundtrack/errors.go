package soundtrack

import (
	"errors"
	"strings"
)

var (
	ErrLyricsUnavailable         = errors.New("lyrics unavailable")
	ErrScoringUnavailable        = errors.New("scoring unavailable")
	ErrTranslationFailed         = errors.New("translation failed")
	ErrLanguageDetectionFailed   = errors.New("language detection failed")
	ErrClassificationUnavailable = errors.New("classification unavailable")
	ErrUpstreamAuth              = errors.New("upstream auth failure")
)

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

package main

import (
	"github.com/mager/soundtrack/config"
	"github.com/mager/soundtrack/highlight"
	"github.com/mager/soundtrack/huggingface"
	"github.com/mager/soundtrack/libretranslate"
	"github.com/mager/soundtrack/lyrics"
	"go.uber.org/zap"
)

// ProvidePipeline wires the collaborators into the highlight pipeline.
func ProvidePipeline(
	cfg config.Config,
	log *zap.SugaredLogger,
	source lyrics.Source,
	hf *huggingface.Client,
	translator *libretranslate.Client,
) *highlight.Pipeline {
	scorer := highlight.NewLineScorer(log, hf)
	// A nil client must not become a non-nil interface.
	if translator != nil {
		scorer.WithTranslation(translator, translator, cfg.TargetLanguage)
	}

	var classifier highlight.ThemeClassifier
	if cfg.ThemeMode == config.ThemeModeClassifier {
		classifier = hf
	}

	var aesthetic *highlight.AestheticThemes
	if cfg.AestheticThemes {
		aesthetic = highlight.NewAestheticThemes(cfg.AestheticSeed)
	}

	log.Infow("highlight pipeline configured",
		"workers", cfg.Workers,
		"theme_mode", cfg.ThemeMode,
		"translation", translator != nil,
		"aesthetic_themes", cfg.AestheticThemes,
	)
	return highlight.NewPipeline(
		log,
		source,
		scorer,
		highlight.NewThemeResolver(log, cfg.ThemeMode, classifier),
		highlight.WithWorkers(cfg.Workers),
		highlight.WithAggregator(highlight.NewAggregator(aesthetic)),
	)
}

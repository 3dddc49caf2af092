package lyrics

import (
	"context"

	"github.com/mager/soundtrack/config"
	"github.com/mager/soundtrack/musixmatch"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// ProvideLyrics assembles the source chain: Musixmatch when a key is set, then
// lrclib, then Genius when a token is set. A configured cache path wraps the
// chain in a SQLite cache that is closed when the app stops.
func ProvideLyrics(lc fx.Lifecycle, cfg config.Config, log *zap.SugaredLogger, mxm *musixmatch.MusixmatchClient) (Source, error) {
	var sources []Named
	if mxm != nil {
		sources = append(sources, Named{"musixmatch", mxm})
	}
	sources = append(sources, Named{"lrclib", NewLrclib("", nil)})
	if cfg.GeniusToken != "" {
		sources = append(sources, Named{"genius", NewGenius(cfg.GeniusToken, "", nil)})
	}

	names := make([]string, len(sources))
	for i, s := range sources {
		names[i] = s.Name
	}
	log.Infow("lyrics sources", "sources", names)

	chain := NewChain(log, sources...)
	if cfg.LyricsCachePath == "" {
		return chain, nil
	}

	cache, err := OpenCache(log, cfg.LyricsCachePath, chain)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			total, found := cache.Stats(ctx)
			log.Infow("lyrics cache stats", "total", total, "found", found)
			return nil
		},
		OnStop: func(context.Context) error {
			return cache.Close()
		},
	})
	return cache, nil
}

var Options = ProvideLyrics

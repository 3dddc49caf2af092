package main

import (
	"context"
	"net"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/mager/soundtrack/config"
	"github.com/mager/soundtrack/handler/auth"
	"github.com/mager/soundtrack/handler/health"
	"github.com/mager/soundtrack/handler/highlights"
	"github.com/mager/soundtrack/huggingface"
	"github.com/mager/soundtrack/libretranslate"
	"github.com/mager/soundtrack/logger"
	"github.com/mager/soundtrack/lyrics"
	"github.com/mager/soundtrack/musicbrainz"
	"github.com/mager/soundtrack/musixmatch"
	"github.com/mager/soundtrack/session"
	"github.com/mager/soundtrack/spotify"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

// Route is an http.Handler that knows the mux pattern
// under which it will be registered.
type Route interface {
	http.Handler

	// Pattern reports the path at which this is registered.
	Pattern() string
}

//	@title			Soundtrack
//	@version		1.0
//	@description	Emotional highlights from the lyrics of your most played songs

// @host		localhost:8080
// @BasePath	/
func main() {
	fx.New(
		fx.Provide(
			NewHTTPServer,
			fx.Annotate(NewRouter, fx.ParamTags(``, ``, `group:"routes"`)),
			ProvidePipeline,

			config.Options,
			logger.Options,
			huggingface.Options,
			libretranslate.Options,
			musixmatch.Options,
			musicbrainz.Options,
			lyrics.Options,
			session.Options,
			fx.Annotate(
				spotify.Options,
				fx.As(fx.Self()),
				fx.As(new(highlights.TrackProvider)),
				fx.As(new(health.CredentialChecker)),
			),

			AsRoute(health.NewHealthHandler),
			AsRoute(auth.NewLoginHandler),
			AsRoute(auth.NewCallbackHandler),
			AsRoute(highlights.NewProcessHandler),
			AsRoute(highlights.NewResultsHandler),
		),
		fx.WithLogger(func(log *zap.SugaredLogger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log.Desugar()}
		}),
		fx.Invoke(func(*http.Server) {}),
	).Run()
}

func NewHTTPServer(lc fx.Lifecycle, cfg config.Config, log *zap.SugaredLogger, router *mux.Router) *http.Server {
	srv := &http.Server{Addr: ":" + cfg.Port, Handler: router}
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			ln, err := net.Listen("tcp", srv.Addr)
			if err != nil {
				return err
			}
			log.Infow("Starting HTTP server", "addr", srv.Addr)
			go srv.Serve(ln)
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return srv.Shutdown(ctx)
		},
	})
	return srv
}

// NewRouter registers every route for GET and CORS preflight requests.
func NewRouter(cfg config.Config, log *zap.SugaredLogger, routes []Route) *mux.Router {
	r := mux.NewRouter()
	for _, route := range routes {
		log.Debugw("registering route", "pattern", route.Pattern())
		r.Handle(route.Pattern(), route).Methods(http.MethodGet, http.MethodOptions)
	}
	r.Use(corsMiddleware(cfg.AllowOrigins), jsonMiddleware)
	return r
}

// AsRoute annotates the given constructor to state that
// it provides a route to the "routes" group.
func AsRoute(f any) any {
	return fx.Annotate(
		f,
		fx.As(new(Route)),
		fx.ResultTags(`group:"routes"`),
	)
}

func jsonMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Add("Content-Type", "application/json")
		next.ServeHTTP(w, r)
	})
}

// corsMiddleware allows the configured frontend origins and answers preflight
// requests directly.
func corsMiddleware(origins []string) mux.MiddlewareFunc {
	allowed := make(map[string]struct{}, len(origins))
	for _, o := range origins {
		allowed[o] = struct{}{}
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if _, ok := allowed[origin]; ok {
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Set("Access-Control-Allow-Credentials", "true")
				w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
				w.Header().Set("Access-Control-Allow-Headers", "*")
				w.Header().Add("Vary", "Origin")
			}
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusOK)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

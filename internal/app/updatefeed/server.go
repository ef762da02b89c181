package updatefeed

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/rovery/updatefeed/pkg/cache"
	"github.com/rovery/updatefeed/pkg/common"
	"github.com/rovery/updatefeed/pkg/config"
	"github.com/rovery/updatefeed/pkg/sources"
	"github.com/rovery/updatefeed/pkg/updates"
)

// Server is the http surface of the service. It owns the release cache and
// the update engine and maps their outcomes to http responses.
type Server struct {
	logger *slog.Logger
	config *config.Config
	cache  *cache.ReleaseCache
	engine *updates.Engine
	// The client used by the download proxy. It must not follow redirects,
	// the upstream Location header is forwarded to the client instead.
	proxyClient *http.Client
}

func NewServer(logger *slog.Logger, cfg *config.Config) (*Server, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	source, err := sources.GetReleaseSource(cfg.Source, &common.SourceSettings{
		Logger:     logger,
		Account:    cfg.Account,
		Repository: cfg.Repository,
		Token:      cfg.Token,
		Endpoint:   cfg.Endpoint,
	})
	if err != nil {
		return nil, err
	}
	releaseCache := cache.NewReleaseCache(&cache.CacheSettings{
		Logger:          logger,
		Source:          source,
		RefreshInterval: cfg.RefreshInterval(),
	})
	engine := updates.NewEngine(&updates.EngineSettings{
		Logger:  logger,
		Cache:   releaseCache,
		Token:   cfg.TokenExpanded(),
		BaseURL: cfg.URL,
	})
	return &Server{
		logger: logger.With(slog.String("component", "server")),
		config: cfg,
		cache:  releaseCache,
		engine: engine,
		proxyClient: &http.Client{
			Timeout: 30 * time.Second,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}, nil
}

// Handler builds the routing table of the server.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleOverview)
	mux.HandleFunc("GET /download", s.handleDownloadDetect)
	mux.HandleFunc("GET /download/{platform}", s.handleDownload)
	mux.HandleFunc("GET /update/{platform}/{version}", s.handleUpdate)
	return mux
}

// ListenAndServe runs the http server until the given context is cancelled.
func (s *Server) ListenAndServe(ctx context.Context) error {
	httpServer := &http.Server{
		Addr:              s.config.Address,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errChan := make(chan error, 1)
	go func() {
		s.logger.Info(fmt.Sprintf("Listening on %s", s.config.Address))
		errChan <- httpServer.ListenAndServe()
	}()
	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	}
}

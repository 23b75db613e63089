package server

import (
	"io"
	"log/slog"

	"github.com/preston-bernstein/court-availability-service/internal/app/availability"
	"github.com/preston-bernstein/court-availability-service/internal/config"
	"github.com/preston-bernstein/court-availability-service/internal/metrics"
)

// NewSearchService builds the availability service with the same directory
// wiring the HTTP server uses. The returned closer releases the lookup cache.
func NewSearchService(cfg config.Config, logger *slog.Logger, recorder *metrics.Recorder) (*availability.Service, io.Closer) {
	chain := newProviderFactory(logger, recorder).build(cfg)
	return newSearchService(cfg, logger, recorder, chain), chain
}

func newSearchService(cfg config.Config, logger *slog.Logger, recorder *metrics.Recorder, chain directoryChain) *availability.Service {
	return availability.NewService(chain.directory,
		availability.WithMaxConcurrency(cfg.Upstream.MaxConcurrency),
		availability.WithRecorder(recorder),
		availability.WithLogger(logger),
	)
}

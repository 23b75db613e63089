package server

import (
	"log/slog"
	"strings"

	"github.com/preston-bernstein/court-availability-service/internal/config"
	"github.com/preston-bernstein/court-availability-service/internal/providers"
	"github.com/preston-bernstein/court-availability-service/internal/providers/alquilatucancha"
	"github.com/preston-bernstein/court-availability-service/internal/providers/fixture"
)

func selectProvider(cfg config.Config, logger *slog.Logger) providers.VenueDirectory {
	switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
	case config.ProviderAlquilaTuCancha, "":
		return alquilatucancha.NewClient(alquilatucancha.Config{
			BaseURL: cfg.Upstream.BaseURL,
			Timeout: cfg.Upstream.Timeout,
			Logger:  logger,
		})
	case config.ProviderFixture:
		return fixture.New()
	default:
		if logger != nil {
			logger.Warn("unknown provider, falling back to fixture", slog.String("provider", cfg.Provider))
		}
		return fixture.New()
	}
}

package server

import (
	"fmt"
	"strings"

	"github.com/preston-bernstein/court-availability-service/internal/providers"
	"github.com/preston-bernstein/court-availability-service/internal/providers/alquilatucancha"
	"github.com/preston-bernstein/court-availability-service/internal/providers/fixture"
)

// normalizeProviderName returns a lower-cased provider name, deriving from the instance when not explicitly configured.
// Used across server wiring and the directory factory to keep naming consistent in metrics/logs.
func normalizeProviderName(raw string, provider providers.VenueDirectory) string {
	switch provider.(type) {
	case *alquilatucancha.Client:
		return alquilatucancha.Name
	case *fixture.Provider:
		return fixture.Name
	}
	if raw = strings.TrimSpace(raw); raw != "" {
		return strings.ToLower(raw)
	}
	if provider != nil {
		return strings.ToLower(fmt.Sprintf("%T", provider))
	}
	return "provider"
}

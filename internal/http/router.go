package http

import (
	nethttp "net/http"

	"github.com/preston-bernstein/court-availability-service/internal/http/handlers"
)

// NewRouter registers HTTP routes on a ServeMux.
func NewRouter(handler *handlers.Handler) nethttp.Handler {
	mux := nethttp.NewServeMux()
	mux.HandleFunc("/health", handler.Health)
	mux.HandleFunc("/ready", handler.Ready)
	mux.HandleFunc("/search", handler.Search)
	mux.HandleFunc("/availability", handler.Search)
	return mux
}

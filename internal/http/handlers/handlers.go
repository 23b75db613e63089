package handlers

import (
	"context"
	"log/slog"
	nethttp "net/http"
	"strings"

	"github.com/preston-bernstein/court-availability-service/internal/apperr"
	"github.com/preston-bernstein/court-availability-service/internal/domain/venues"
	"github.com/preston-bernstein/court-availability-service/internal/logging"
	"github.com/preston-bernstein/court-availability-service/internal/timeutil"
)

const msgNotReady = "upstream circuit open"

// Searcher answers availability searches.
type Searcher interface {
	Search(ctx context.Context, q venues.AvailabilityQuery) ([]venues.ClubWithAvailability, error)
}

// Handler wires HTTP routes to the availability service.
type Handler struct {
	svc     Searcher
	logger  *slog.Logger
	readyFn func() bool
}

// NewHandler constructs a Handler. A nil readyFn reports always ready.
func NewHandler(svc Searcher, logger *slog.Logger, readyFn func() bool) *Handler {
	return &Handler{
		svc:     svc,
		logger:  logger,
		readyFn: readyFn,
	}
}

// Health reports the service health.
func (h *Handler) Health(w nethttp.ResponseWriter, r *nethttp.Request) {
	if !requireMethod(w, r, nethttp.MethodGet, h.logger) {
		return
	}
	if err := r.Context().Err(); err != nil {
		writeError(w, r, nethttp.StatusServiceUnavailable, "shutting down", h.logger)
		return
	}
	writeJSON(w, nethttp.StatusOK, map[string]string{"status": "ok"}, h.logger)
}

// Ready reports readiness for traffic. It fails while the upstream breaker is open.
func (h *Handler) Ready(w nethttp.ResponseWriter, r *nethttp.Request) {
	if !requireMethod(w, r, nethttp.MethodGet, h.logger) {
		return
	}
	if h.readyFn != nil && !h.readyFn() {
		writeError(w, r, nethttp.StatusServiceUnavailable, msgNotReady, h.logger)
		return
	}
	writeJSON(w, nethttp.StatusOK, map[string]string{"status": "ready"}, h.logger)
}

// Search returns the clubs with free courts for ?placeId=&date=.
// An unparsable date reaches the service as the zero date and is rejected there.
func (h *Handler) Search(w nethttp.ResponseWriter, r *nethttp.Request) {
	if !requireMethod(w, r, nethttp.MethodGet, h.logger) {
		return
	}
	query := r.URL.Query()
	q := venues.AvailabilityQuery{
		PlaceID: query.Get("placeId"),
		Date:    timeutil.ParseQueryDate(query.Get("date")),
	}

	clubs, err := h.svc.Search(r.Context(), q)
	if err != nil {
		status := apperr.HTTPStatus(err)
		logger := loggerFromContext(r, h.logger)
		if status >= nethttp.StatusInternalServerError {
			logging.Error(logger, "search failed", err, slog.Int(logging.FieldStatusCode, status))
		} else {
			logging.Info(logger, "search rejected", slog.Int(logging.FieldStatusCode, status), slog.String("reason", apperr.Message(err)))
		}
		writeError(w, r, status, apperr.Message(err), h.logger)
		return
	}
	writeJSON(w, nethttp.StatusOK, clubs, h.logger)
}

func requireMethod(w nethttp.ResponseWriter, r *nethttp.Request, method string, logger *slog.Logger) bool {
	if strings.EqualFold(r.Method, method) {
		return true
	}
	w.Header().Set("Allow", method)
	writeError(w, r, nethttp.StatusMethodNotAllowed, "method not allowed", logger)
	return false
}

package handlers

import (
	"log/slog"
	"net/http"

	"github.com/preston-bernstein/court-availability-service/internal/domain/venues"
	"github.com/preston-bernstein/court-availability-service/internal/http/middleware"
	"github.com/preston-bernstein/court-availability-service/internal/http/requestutil"
	"github.com/preston-bernstein/court-availability-service/internal/logging"
)

// errorResponse is the body of every non-2xx reply.
type errorResponse struct {
	Error     string `json:"error"`
	RequestID string `json:"requestId,omitempty"`
}

// fallbackErrorBody is sent when a payload cannot be encoded.
const fallbackErrorBody = `{"error":"internal server error"}` + "\n"

// writeJSON encodes payload before touching the response so an encode failure
// can still become a clean 500.
func writeJSON(w http.ResponseWriter, status int, payload any, logger *slog.Logger) {
	body, err := venues.EncodeJSON(payload)
	w.Header().Set("Content-Type", "application/json")
	if err != nil {
		logging.Error(logger, "failed to encode response", err, slog.Int(logging.FieldStatusCode, status))
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(fallbackErrorBody))
		return
	}
	w.WriteHeader(status)
	_, _ = w.Write(append(body, '\n'))
}

func writeError(w http.ResponseWriter, r *http.Request, status int, message string, logger *slog.Logger) {
	writeJSON(w, status, errorResponse{Error: message, RequestID: requestID(r)}, logger)
}

// requestID prefers the id assigned by the middleware over the raw header.
func requestID(r *http.Request) string {
	if id := middleware.RequestIDFromContext(r.Context()); id != "" {
		return id
	}
	if id := r.Header.Get(requestutil.HeaderRequestID); requestutil.ValidRequestID(id) {
		return id
	}
	return ""
}

func loggerFromContext(r *http.Request, fallback *slog.Logger) *slog.Logger {
	if r == nil {
		return fallback
	}
	return logging.FromContext(r.Context(), fallback)
}

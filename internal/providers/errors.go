package providers

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"
)

// RateLimitError describes an upstream 429. Clients wrap it in an apperr
// Unavailable failure; the instrumented directory unwraps it to count hits.
type RateLimitError struct {
	Provider   string
	StatusCode int
	RetryAfter time.Duration
	Message    string
}

func (e *RateLimitError) Error() string {
	var b strings.Builder
	if e.Provider != "" {
		b.WriteString(e.Provider)
		b.WriteString(": ")
	}
	b.WriteString("upstream rate limited")

	var details []string
	if e.StatusCode > 0 {
		details = append(details, "status="+strconv.Itoa(e.StatusCode))
	}
	if e.RetryAfter > 0 {
		details = append(details, "retry_after="+e.RetryAfter.String())
	}
	if len(details) > 0 {
		b.WriteString(" (" + strings.Join(details, ", ") + ")")
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	return b.String()
}

// AsRateLimitError finds a RateLimitError anywhere in err's chain.
func AsRateLimitError(err error) (*RateLimitError, bool) {
	var rl *RateLimitError
	if !errors.As(err, &rl) {
		return nil, false
	}
	return rl, true
}

// Abandoned reports whether err came from the caller giving up on the call
// rather than from the upstream. Fan-out siblings cancelled after a sibling
// failed end up here.
func Abandoned(ctx context.Context, err error) bool {
	if err == nil || ctx.Err() == nil {
		return false
	}
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

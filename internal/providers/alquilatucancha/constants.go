package alquilatucancha

import "time"

// Name identifies this upstream in logs and metrics.
const Name = "alquilatucancha"

const (
	defaultBaseURL     = "http://localhost:4000"
	defaultHTTPTimeout = 5 * time.Second
	maxErrorBodyBytes  = 4 << 10
)

const (
	msgServiceUnavailable = "Service Unavailable"
	msgResourceNotFound   = "Resource not found"
	msgInternalError      = "Internal Server Error"
	msgUnexpected         = "Unexpected error occurred"
	msgRateLimited        = "Too Many Requests"
)

package testutil

import (
	"context"
	"net/http"
	"sync/atomic"
)

// StubWarmer records Start and Stop calls; Stop returns Err.
type StubWarmer struct {
	StartCalls int
	StopCalls  int
	Err        error
}

func (w *StubWarmer) Start(context.Context) {
	w.StartCalls++
}

func (w *StubWarmer) Stop(context.Context) error {
	w.StopCalls++
	return w.Err
}

// StubHTTPServer stands in for the server's listener. ListenAndServe returns
// ListenErr immediately. When Unblock is set, Shutdown waits for it to close
// or for the context to end.
type StubHTTPServer struct {
	AddrVal     string
	HandlerVal  http.Handler
	ListenErr   error
	ShutdownErr error
	Unblock     chan struct{}

	listens   atomic.Int32
	shutdowns atomic.Int32
}

func (s *StubHTTPServer) ListenAndServe() error {
	s.listens.Add(1)
	return s.ListenErr
}

func (s *StubHTTPServer) Shutdown(ctx context.Context) error {
	s.shutdowns.Add(1)
	if s.Unblock == nil {
		return s.ShutdownErr
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-s.Unblock:
		return s.ShutdownErr
	}
}

func (s *StubHTTPServer) Addr() string {
	if s.AddrVal == "" {
		return ":0"
	}
	return s.AddrVal
}

func (s *StubHTTPServer) Handler() http.Handler {
	if s.HandlerVal == nil {
		return http.NotFoundHandler()
	}
	return s.HandlerVal
}

// ListenCalls is safe to read while the server goroutine runs.
func (s *StubHTTPServer) ListenCalls() int { return int(s.listens.Load()) }

// ShutdownCalls counts Shutdown invocations.
func (s *StubHTTPServer) ShutdownCalls() int { return int(s.shutdowns.Load()) }

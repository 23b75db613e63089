package alquilatucancha

import (
	"net/http"
	"testing"
	"time"
)

func TestNormalizeBaseURLTrimsTrailingSlashAndDefaults(t *testing.T) {
	if got := normalizeBaseURL("http://example.com/"); got != "http://example.com" {
		t.Fatalf("expected trailing slash trimmed, got %s", got)
	}
	if got := normalizeBaseURL("  "); got != defaultBaseURL {
		t.Fatalf("expected default base url, got %s", got)
	}
}

func TestResolveHTTPClientDefaultsTimeout(t *testing.T) {
	client, ok := resolveHTTPClient(nil, 0).(*http.Client)
	if !ok {
		t.Fatalf("expected *http.Client")
	}
	if client.Timeout != defaultHTTPTimeout {
		t.Fatalf("expected default timeout, got %s", client.Timeout)
	}
	if client.Transport == nil {
		t.Fatal("expected instrumented transport")
	}
}

func TestResolveHTTPClientUsesTimeoutAndProvidedClient(t *testing.T) {
	client := resolveHTTPClient(nil, 2*time.Second).(*http.Client)
	if client.Timeout != 2*time.Second {
		t.Fatalf("expected configured timeout, got %s", client.Timeout)
	}
	custom := &http.Client{}
	if got := resolveHTTPClient(custom, time.Second); got != custom {
		t.Fatal("expected provided client to be used")
	}
}

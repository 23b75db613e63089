package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/preston-bernstein/court-availability-service/internal/app/availability"
	"github.com/preston-bernstein/court-availability-service/internal/http/handlers"
	"github.com/preston-bernstein/court-availability-service/internal/providers/fixture"
)

func newTestRouter() http.Handler {
	svc := availability.NewService(fixture.New())
	return NewRouter(handlers.NewHandler(svc, nil, nil))
}

func TestRouterRoutesKnownPaths(t *testing.T) {
	router := newTestRouter()

	cases := map[string]int{
		"/health": http.StatusOK,
		"/ready":  http.StatusOK,
		"/search?placeId=" + fixture.PlaceID + "&date=2022-12-05":       http.StatusOK,
		"/availability?placeId=" + fixture.PlaceID + "&date=2022-12-05": http.StatusOK,
		"/search?placeId=elsewhere&date=2022-12-05":                     http.StatusNotFound,
		"/search?placeId=" + fixture.PlaceID:                            http.StatusBadRequest,
	}

	for path, expected := range cases {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)
		if rr.Code != expected {
			t.Fatalf("route %s expected status %d, got %d", path, expected, rr.Code)
		}
	}
}

func TestRouterUnknownRouteReturns404(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/does-not-exist", nil)
	rr := httptest.NewRecorder()
	newTestRouter().ServeHTTP(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown route, got %d", rr.Code)
	}
}

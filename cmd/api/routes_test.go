package main

import (
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIndexHandler(t *testing.T) {
	app := newTestApplication(t)
	ts := newTestServer(t, app.routes())

	res := ts.do(http.MethodGet, "/", "", nil)
	require.Equal(t, http.StatusOK, res.status)

	var body struct {
		Message   string            `json:"message"`
		Version   string            `json:"version"`
		Endpoints map[string]string `json:"endpoints"`
	}
	res.decode(t, &body)
	assert.Equal(t, "Movie Watchlist API", body.Message)
	assert.Equal(t, version, body.Version)
	assert.Contains(t, body.Endpoints, "auth")
	assert.Contains(t, body.Endpoints, "movies")
}

func TestHealthcheckHandler(t *testing.T) {
	app := newTestApplication(t)
	ts := newTestServer(t, app.routes())

	res := ts.do(http.MethodGet, "/api/healthcheck", "", nil)
	require.Equal(t, http.StatusOK, res.status)
	assert.NotEmpty(t, res.header.Get("X-Request-Id"))
	assert.JSONEq(t, `{"status":"available","system_info":{"environment":"testing","version":"`+version+`"}}`, string(res.body))
}

func TestRoutes_NotFound(t *testing.T) {
	app := newTestApplication(t)
	ts := newTestServer(t, app.routes())

	res := ts.do(http.MethodGet, "/api/nothing-here", "", nil)
	assert.Equal(t, http.StatusNotFound, res.status)
	assert.Equal(t, "application/json", res.header.Get("Content-Type"))
	assert.Equal(t, "route not found", res.message(t))
}

func TestRoutes_MethodNotAllowed(t *testing.T) {
	app := newTestApplication(t)
	ts := newTestServer(t, app.routes())

	res := ts.do(http.MethodPatch, "/api/movies/1", "", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, res.status)
	assert.Equal(t, "the PATCH method is not supported for this resource", res.message(t))
	assert.NotEmpty(t, res.header.Get("Allow"))
}

func TestMetricsEndpoint(t *testing.T) {
	app := newTestApplication(t)
	ts := newTestServer(t, app.routes())

	token, _ := ts.register("alice", "alice@example.com", "pa55word")
	ts.createMovie(token, map[string]any{"title": "The Matrix"})
	ts.do(http.MethodGet, "/api/movies/1", token, nil)

	res := ts.do(http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, res.status)

	body := string(res.body)
	assert.Contains(t, body, "watchlist_http_requests_total")
	assert.Contains(t, body, `path="/api/movies/:id"`)
	assert.Contains(t, body, `path="/api/auth/register",status="201"`)
	assert.Contains(t, body, "watchlist_http_request_duration_seconds")
	assert.Contains(t, body, "go_goroutines")
	assert.False(t, strings.Contains(body, `path="/api/movies/1"`))
}

func TestMetricsEndpoint_UnmatchedPathsShareOneSeries(t *testing.T) {
	app := newTestApplication(t)
	ts := newTestServer(t, app.routes())

	for _, path := range []string{"/junk-a", "/junk-b", "/junk-c", "/api/nope/1", "/api/movies/1/extra"} {
		res := ts.do(http.MethodGet, path, "", nil)
		require.Equal(t, http.StatusNotFound, res.status, path)
	}

	res := ts.do(http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, res.status)

	body := string(res.body)
	assert.NotContains(t, body, "junk")
	assert.NotContains(t, body, "/api/nope")
	assert.NotContains(t, body, "/extra")
	assert.Contains(t, body, `watchlist_http_requests_total{method="GET",path="unmatched",status="404"} 5`)
}

func TestRouteLabel(t *testing.T) {
	tests := map[string]string{
		"/":                   "/",
		"/api/healthcheck":    "/api/healthcheck",
		"/api/auth/login":     "/api/auth/login",
		"/api/movies":         "/api/movies",
		"/api/movies/42":      "/api/movies/:id",
		"/api/movies/abc":     "/api/movies/:id",
		"/api/movies/stats":   "/api/movies/stats",
		"/api/movies/search":  "/api/movies/search",
		"/api/movies/":        unmatchedRoute,
		"/api/movies/1/notes": unmatchedRoute,
		"/junk":               unmatchedRoute,
		"/API/MOVIES":         unmatchedRoute,
	}

	for in, want := range tests {
		assert.Equal(t, want, routeLabel(in), in)
	}
}

func TestMethodLabel(t *testing.T) {
	assert.Equal(t, http.MethodGet, methodLabel(http.MethodGet))
	assert.Equal(t, http.MethodDelete, methodLabel(http.MethodDelete))
	assert.Equal(t, "other", methodLabel("BREW"))
	assert.Equal(t, "other", methodLabel("get"))
}

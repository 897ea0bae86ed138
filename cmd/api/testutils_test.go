package main

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Prabashv2/movie-watchlist-app/internal/auth"
	"github.com/Prabashv2/movie-watchlist-app/internal/data"
	"github.com/Prabashv2/movie-watchlist-app/internal/jsonlog"
	"github.com/Prabashv2/movie-watchlist-app/internal/service"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("test-secret-key-for-handlers")

// newTestApplication returns an application backed by the in-memory store,
// with logging discarded and a private metrics registry.
func newTestApplication(t *testing.T) *application {
	t.Helper()

	var cfg config
	cfg.env = "testing"
	cfg.jwt.secret = string(testSecret)
	cfg.jwt.ttl = time.Hour
	cfg.cors.trustedOrigins = []string{"*"}

	models := data.NewMemoryModels()
	tokens := auth.NewTokenManager(testSecret, cfg.jwt.ttl)
	registry := prometheus.NewRegistry()

	return &application{
		config:     cfg,
		logger:     jsonlog.NewLogger(io.Discard, jsonlog.LevelDebug),
		auth:       service.NewAuthService(models.Users, tokens),
		movies:     service.NewMovieService(models.Movies),
		tokens:     tokens,
		registry:   registry,
		collectors: newMetricCollectors(registry, nil),
	}
}

type testServer struct {
	*httptest.Server
	t *testing.T
}

func newTestServer(t *testing.T, h http.Handler) *testServer {
	t.Helper()

	ts := httptest.NewServer(h)
	t.Cleanup(ts.Close)

	return &testServer{Server: ts, t: t}
}

type testResponse struct {
	status int
	header http.Header
	body   []byte
}

// decode unmarshals the response body into dst.
func (res testResponse) decode(t *testing.T, dst any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(res.body, dst), "body: %s", res.body)
}

// message returns the "message" field of a JSON response body.
func (res testResponse) message(t *testing.T) string {
	t.Helper()
	var body struct {
		Message string `json:"message"`
	}
	res.decode(t, &body)
	return body.Message
}

// do sends a request with an optional JSON body and bearer token.
func (ts *testServer) do(method, path, token string, body any) testResponse {
	ts.t.Helper()

	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		js, err := json.Marshal(b)
		require.NoError(ts.t, err)
		reader = bytes.NewBuffer(js)
	}

	req, err := http.NewRequest(method, ts.URL+path, reader)
	require.NoError(ts.t, err)
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rs, err := ts.Client().Do(req)
	require.NoError(ts.t, err)
	defer rs.Body.Close()

	return testResponse{status: rs.StatusCode, header: rs.Header, body: readAll(ts.t, rs)}
}

// register creates a user and returns its session token and id.
func (ts *testServer) register(username, email, password string) (string, int64) {
	ts.t.Helper()

	res := ts.do(http.MethodPost, "/api/auth/register", "", map[string]string{
		"username": username,
		"email":    email,
		"password": password,
	})
	require.Equal(ts.t, http.StatusCreated, res.status, "body: %s", res.body)

	var body struct {
		Token string    `json:"token"`
		User  data.User `json:"user"`
	}
	res.decode(ts.t, &body)
	require.NotEmpty(ts.t, body.Token)

	return body.Token, body.User.ID
}

// createMovie adds a movie for token and returns its id.
func (ts *testServer) createMovie(token string, movie map[string]any) int64 {
	ts.t.Helper()

	res := ts.do(http.MethodPost, "/api/movies", token, movie)
	require.Equal(ts.t, http.StatusCreated, res.status, "body: %s", res.body)

	var body struct {
		MovieID int64 `json:"movieId"`
	}
	res.decode(ts.t, &body)
	require.Positive(ts.t, body.MovieID)

	return body.MovieID
}

func readAll(t *testing.T, rs *http.Response) []byte {
	t.Helper()
	b, err := io.ReadAll(rs.Body)
	require.NoError(t, err)
	return b
}

package main

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Prabashv2/movie-watchlist-app/internal/auth"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signToken(t *testing.T, method jwt.SigningMethod, key any, claims auth.Claims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(method, claims).SignedString(key)
	require.NoError(t, err)
	return token
}

func TestRequireAuthentication_RejectsBadTokens(t *testing.T) {
	app := newTestApplication(t)
	ts := newTestServer(t, app.routes())

	valid, _ := ts.register("alice", "alice@example.com", "pa55word")

	now := time.Now()
	expired := signToken(t, jwt.SigningMethodHS256, testSecret, auth.Claims{
		UserID: 1,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now.Add(-2 * time.Hour)),
			ExpiresAt: jwt.NewNumericDate(now.Add(-time.Hour)),
		},
	})
	otherSecret := signToken(t, jwt.SigningMethodHS256, []byte("some-other-secret"), auth.Claims{
		UserID: 1,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		},
	})
	unsigned := signToken(t, jwt.SigningMethodNone, jwt.UnsafeAllowNoneSignatureType, auth.Claims{
		UserID: 1,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		},
	})

	tests := []struct {
		name   string
		header string
	}{
		{name: "absent", header: ""},
		{name: "wrong scheme", header: "Basic " + valid},
		{name: "missing token", header: "Bearer "},
		{name: "extra parts", header: "Bearer " + valid + " extra"},
		{name: "garbage", header: "Bearer not-a-token"},
		{name: "tampered", header: "Bearer " + valid[:len(valid)-2] + "xx"},
		{name: "expired", header: "Bearer " + expired},
		{name: "other secret", header: "Bearer " + otherSecret},
		{name: "alg none", header: "Bearer " + unsigned},
	}

	var first []byte
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := http.NewRequest(http.MethodGet, ts.URL+"/api/movies", nil)
			require.NoError(t, err)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}

			rs, err := ts.Client().Do(req)
			require.NoError(t, err)
			defer rs.Body.Close()

			res := testResponse{status: rs.StatusCode, header: rs.Header, body: readAll(t, rs)}

			assert.Equal(t, http.StatusUnauthorized, res.status)
			assert.Equal(t, "Bearer", res.header.Get("WWW-Authenticate"))
			assert.Equal(t, "invalid or missing authentication token", res.message(t))

			// Every rejection is indistinguishable to the client.
			if first == nil {
				first = res.body
			}
			assert.Equal(t, string(first), string(res.body))
		})
	}
}

func TestRequireAuthentication_ProtectsEveryMovieRoute(t *testing.T) {
	app := newTestApplication(t)
	ts := newTestServer(t, app.routes())

	routes := []struct{ method, path string }{
		{http.MethodGet, "/api/movies"},
		{http.MethodPost, "/api/movies"},
		{http.MethodGet, "/api/movies/1"},
		{http.MethodPut, "/api/movies/1"},
		{http.MethodDelete, "/api/movies/1"},
		{http.MethodGet, "/api/movies/search"},
		{http.MethodGet, "/api/movies/stats"},
	}

	for _, rt := range routes {
		t.Run(rt.method+" "+rt.path, func(t *testing.T) {
			res := ts.do(rt.method, rt.path, "", nil)
			assert.Equal(t, http.StatusUnauthorized, res.status)
		})
	}
}

func TestRequireAuthentication_SetsUserID(t *testing.T) {
	app := newTestApplication(t)

	token, err := auth.NewTokenManager(testSecret, time.Hour).Issue(42)
	require.NoError(t, err)

	var got int64
	next := func(w http.ResponseWriter, r *http.Request) {
		got = app.contextGetUserID(r)
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rr := httptest.NewRecorder()

	app.requireAuthentication(next).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, int64(42), got)
}

func TestRecoverPanic(t *testing.T) {
	app := newTestApplication(t)

	h := app.recoverPanic(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Equal(t, "close", rr.Header().Get("Connection"))
	assert.NotContains(t, rr.Body.String(), "boom")
}

func TestRequestID(t *testing.T) {
	app := newTestApplication(t)

	var seen string
	h := app.requestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = contextGetRequestID(r)
	}))

	t.Run("generated", func(t *testing.T) {
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.NotEmpty(t, seen)
		assert.Equal(t, seen, rr.Header().Get("X-Request-Id"))
	})

	t.Run("propagated", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Request-Id", "abc-123")
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)

		assert.Equal(t, "abc-123", seen)
		assert.Equal(t, "abc-123", rr.Header().Get("X-Request-Id"))
	})
}

func TestEnableCORS_Preflight(t *testing.T) {
	app := newTestApplication(t)
	app.config.cors.trustedOrigins = []string{"https://watchlist.example.com"}

	req := httptest.NewRequest(http.MethodOptions, "/api/movies", nil)
	req.Header.Set("Origin", "https://watchlist.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	req.Header.Set("Access-Control-Request-Headers", "Authorization, Content-Type")
	rr := httptest.NewRecorder()

	app.routes().ServeHTTP(rr, req)

	assert.Equal(t, "https://watchlist.example.com", rr.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, rr.Header().Get("Access-Control-Allow-Methods"), http.MethodPost)
}

func TestEnableCORS_UntrustedOrigin(t *testing.T) {
	app := newTestApplication(t)
	app.config.cors.trustedOrigins = []string{"https://watchlist.example.com"}

	req := httptest.NewRequest(http.MethodGet, "/api/healthcheck", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	rr := httptest.NewRecorder()

	app.routes().ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Empty(t, rr.Header().Get("Access-Control-Allow-Origin"))
}

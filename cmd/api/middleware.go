package main

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/cors"
	"github.com/google/uuid"
)

func (app *application) recoverPanic(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Create a deferred function (which will always be run in the event of a panic
		// as Go unwinds the stack).
		defer func() {
			if err := recover(); err != nil {
				// Setting "Connection: close" makes Go's HTTP server close the
				// connection after the response has been sent.
				w.Header().Set("Connection", "close")
				app.serverErrorResponse(w, r, fmt.Errorf("%s", err))
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// requestID propagates an incoming X-Request-Id or generates one, and stores
// it on both the response header and the request context.
func (app *application) requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(r.Header.Get("X-Request-Id"))
		if id == "" || len(id) > 128 {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-Id", id)
		next.ServeHTTP(w, contextSetRequestID(r, id))
	})
}

// statusRecorder captures the status code written by downstream handlers.
type statusRecorder struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
}

func (rec *statusRecorder) WriteHeader(code int) {
	if rec.wroteHeader {
		return
	}
	rec.status = code
	rec.wroteHeader = true
	rec.ResponseWriter.WriteHeader(code)
}

func (rec *statusRecorder) Write(b []byte) (int, error) {
	if !rec.wroteHeader {
		rec.WriteHeader(http.StatusOK)
	}
	return rec.ResponseWriter.Write(b)
}

// logRequest writes one INFO entry for every completed request.
func (app *application) logRequest(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		app.logger.PrintInfo("request completed", map[string]string{
			"request_id": contextGetRequestID(r),
			"method":     r.Method,
			"uri":        r.URL.RequestURI(),
			"status":     strconv.Itoa(rec.status),
			"duration":   time.Since(start).String(),
		})
	})
}

// metrics records Prometheus request counters and latency histograms.
func (app *application) metrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		app.collectors.inFlight.Inc()
		defer app.collectors.inFlight.Dec()

		next.ServeHTTP(rec, r)

		method, path := methodLabel(r.Method), routeLabel(r.URL.Path)
		app.collectors.requests.WithLabelValues(method, path, strconv.Itoa(rec.status)).Inc()
		app.collectors.duration.WithLabelValues(method, path).Observe(time.Since(start).Seconds())
	})
}

// enableCORS allows browser clients from the trusted origins to call the API
// with a bearer token.
func (app *application) enableCORS(next http.Handler) http.Handler {
	return cors.Handler(cors.Options{
		AllowedOrigins: app.config.cors.trustedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-Request-Id"},
		ExposedHeaders: []string{"Location", "X-Request-Id"},
		MaxAge:         300,
	})(next)
}

// requireAuthentication is the gate in front of every protected route. It
// verifies the bearer token and stores the user id in the request context;
// on any failure the handler never runs. No store lookup happens here.
func (app *application) requireAuthentication(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Add("Vary", "Authorization")

		authorizationHeader := r.Header.Get("Authorization")
		if authorizationHeader == "" {
			app.invalidAuthenticationTokenResponse(w, r)
			return
		}

		headerParts := strings.Split(authorizationHeader, " ")
		if len(headerParts) != 2 || headerParts[0] != "Bearer" || headerParts[1] == "" {
			app.invalidAuthenticationTokenResponse(w, r)
			return
		}

		userID, err := app.tokens.Verify(headerParts[1])
		if err != nil {
			app.logger.PrintDebug("token rejected", map[string]string{
				"request_id": contextGetRequestID(r),
				"error":      err.Error(),
			})
			app.invalidAuthenticationTokenResponse(w, r)
			return
		}

		next.ServeHTTP(w, app.contextSetUserID(r, userID))
	}
}

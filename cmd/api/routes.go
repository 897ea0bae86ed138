package main

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// routes returns the router wrapped in the middleware chain.
func (app *application) routes() http.Handler {
	router := httprouter.New()

	router.NotFound = http.HandlerFunc(app.notFoundResponse)
	router.MethodNotAllowed = http.HandlerFunc(app.methodNotAllowedResponse)

	router.HandlerFunc(http.MethodGet, "/", app.indexHandler)
	router.HandlerFunc(http.MethodGet, "/api/healthcheck", app.healthcheckHandler)
	router.Handler(http.MethodGet, "/metrics", promhttp.HandlerFor(app.registry, promhttp.HandlerOpts{}))

	router.HandlerFunc(http.MethodPost, "/api/auth/register", app.registerUserHandler)
	router.HandlerFunc(http.MethodPost, "/api/auth/login", app.loginUserHandler)

	router.HandlerFunc(http.MethodGet, "/api/movies", app.requireAuthentication(app.listMoviesHandler))
	router.HandlerFunc(http.MethodPost, "/api/movies", app.requireAuthentication(app.createMovieHandler))
	// httprouter v1.3 cannot register /api/movies/stats next to
	// /api/movies/:id, so GET requests on :id dispatch the named
	// subresources themselves.
	router.HandlerFunc(http.MethodGet, "/api/movies/:id", app.requireAuthentication(app.movieSubresourceHandler))
	router.HandlerFunc(http.MethodPut, "/api/movies/:id", app.requireAuthentication(app.updateMovieHandler))
	router.HandlerFunc(http.MethodDelete, "/api/movies/:id", app.requireAuthentication(app.deleteMovieHandler))

	return app.metrics(app.requestID(app.logRequest(app.recoverPanic(app.enableCORS(router)))))
}

// movieSubresourceHandler serves GET /api/movies/stats, GET
// /api/movies/search and GET /api/movies/:id.
func (app *application) movieSubresourceHandler(w http.ResponseWriter, r *http.Request) {
	switch httprouter.ParamsFromContext(r.Context()).ByName("id") {
	case "stats":
		app.movieStatsHandler(w, r)
	case "search":
		app.searchMoviesHandler(w, r)
	default:
		app.showMovieHandler(w, r)
	}
}

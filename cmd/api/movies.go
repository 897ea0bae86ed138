package main

import (
	"fmt"
	"net/http"

	"github.com/Prabashv2/movie-watchlist-app/internal/data"
	"github.com/Prabashv2/movie-watchlist-app/internal/service"
)

// listMoviesHandler for the "GET /api/movies" endpoint.
func (app *application) listMoviesHandler(w http.ResponseWriter, r *http.Request) {
	userID := app.contextGetUserID(r)

	movies, err := app.movies.List(r.Context(), userID)
	if err != nil {
		app.serviceErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"count": len(movies), "movies": movies}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// searchMoviesHandler for the "GET /api/movies/search" endpoint. The query,
// genre and status query string parameters are all optional.
func (app *application) searchMoviesHandler(w http.ResponseWriter, r *http.Request) {
	userID := app.contextGetUserID(r)

	qs := r.URL.Query()
	filters := data.Filters{
		Query:  qs.Get("query"),
		Genre:  qs.Get("genre"),
		Status: qs.Get("status"),
	}

	movies, err := app.movies.Search(r.Context(), userID, filters)
	if err != nil {
		app.serviceErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"count": len(movies), "movies": movies}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// movieStatsHandler for the "GET /api/movies/stats" endpoint.
func (app *application) movieStatsHandler(w http.ResponseWriter, r *http.Request) {
	userID := app.contextGetUserID(r)

	stats, err := app.movies.Stats(r.Context(), userID)
	if err != nil {
		app.serviceErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"stats": stats}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// createMovieHandler for the "POST /api/movies" endpoint.
func (app *application) createMovieHandler(w http.ResponseWriter, r *http.Request) {
	userID := app.contextGetUserID(r)

	var input service.MovieInput

	err := app.readJSON(w, r, &input)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	id, err := app.movies.Create(r.Context(), userID, input)
	if err != nil {
		app.serviceErrorResponse(w, r, err)
		return
	}

	// Let the client know where to find the new movie.
	headers := make(http.Header)
	headers.Set("Location", fmt.Sprintf("/api/movies/%d", id))

	err = app.writeJSON(w, http.StatusCreated, envelope{"message": "movie added successfully", "movieId": id}, headers)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// showMovieHandler for the "GET /api/movies/:id" endpoint.
func (app *application) showMovieHandler(w http.ResponseWriter, r *http.Request) {
	userID := app.contextGetUserID(r)

	id, err := app.readIDParam(r)
	if err != nil {
		app.movieNotFoundResponse(w, r)
		return
	}

	movie, err := app.movies.Get(r.Context(), userID, id)
	if err != nil {
		app.serviceErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"movie": movie}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// updateMovieHandler for the "PUT /api/movies/:id" endpoint. The body
// replaces every editable field of the movie.
func (app *application) updateMovieHandler(w http.ResponseWriter, r *http.Request) {
	userID := app.contextGetUserID(r)

	id, err := app.readIDParam(r)
	if err != nil {
		app.movieNotFoundResponse(w, r)
		return
	}

	var input service.MovieInput

	err = app.readJSON(w, r, &input)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	err = app.movies.Update(r.Context(), userID, id, input)
	if err != nil {
		app.serviceErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"message": "movie updated successfully"}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// deleteMovieHandler for the "DELETE /api/movies/:id" endpoint.
func (app *application) deleteMovieHandler(w http.ResponseWriter, r *http.Request) {
	userID := app.contextGetUserID(r)

	id, err := app.readIDParam(r)
	if err != nil {
		app.movieNotFoundResponse(w, r)
		return
	}

	err = app.movies.Delete(r.Context(), userID, id)
	if err != nil {
		app.serviceErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"message": "movie deleted successfully"}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

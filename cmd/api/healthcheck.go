package main

import (
	"net/http"
)

// indexHandler describes the API at "GET /".
func (app *application) indexHandler(w http.ResponseWriter, r *http.Request) {
	env := envelope{
		"message": "Movie Watchlist API",
		"version": version,
		"endpoints": map[string]string{
			"auth":   "/api/auth (register, login)",
			"movies": "/api/movies (CRUD operations)",
		},
	}

	err := app.writeJSON(w, http.StatusOK, env, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// healthcheckHandler reports the application status, environment and version.
func (app *application) healthcheckHandler(w http.ResponseWriter, r *http.Request) {
	env := envelope{
		"status": "available",
		"system_info": map[string]string{
			"environment": app.config.env,
			"version":     version,
		},
	}

	err := app.writeJSON(w, http.StatusOK, env, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

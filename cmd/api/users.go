package main

import (
	"net/http"
	"strconv"

	"github.com/Prabashv2/movie-watchlist-app/internal/service"
)

// registerUserHandler for the "POST /api/auth/register" endpoint.
func (app *application) registerUserHandler(w http.ResponseWriter, r *http.Request) {
	var input service.RegisterInput

	err := app.readJSON(w, r, &input)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	session, err := app.auth.Register(r.Context(), input)
	if err != nil {
		app.serviceErrorResponse(w, r, err)
		return
	}

	app.logger.PrintInfo("user registered", map[string]string{
		"request_id": contextGetRequestID(r),
		"user_id":    strconv.FormatInt(session.User.ID, 10),
	})

	err = app.writeJSON(w, http.StatusCreated, envelope{"token": session.Token, "user": session.User}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// loginUserHandler for the "POST /api/auth/login" endpoint.
func (app *application) loginUserHandler(w http.ResponseWriter, r *http.Request) {
	var input service.LoginInput

	err := app.readJSON(w, r, &input)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	session, err := app.auth.Login(r.Context(), input)
	if err != nil {
		app.serviceErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"token": session.Token, "user": session.User}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

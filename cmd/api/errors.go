package main

import (
	"errors"
	"net/http"

	"github.com/Prabashv2/movie-watchlist-app/internal/data"
	"github.com/Prabashv2/movie-watchlist-app/internal/service"
)

// logError is generic helper for logging error message.
func (app *application) logError(r *http.Request, err error) {
	app.logger.PrintError(err, map[string]string{
		"request_method": r.Method,
		"request_url":    r.URL.String(),
		"request_id":     contextGetRequestID(r),
	})
}

// errorResponse is generic helper for sending a JSON-formatted error
// message. Every error body has the shape {"message": "..."}.
func (app *application) errorResponse(w http.ResponseWriter, r *http.Request, status int, message string) {
	env := envelope{
		"message": message,
	}

	err := app.writeJSON(w, status, env, nil)
	if err != nil {
		app.logError(r, err)
		w.WriteHeader(http.StatusInternalServerError)
	}
}

// serverErrorResponse logs err and sends a 500 Internal Server Error. The
// underlying error never reaches the client.
func (app *application) serverErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	app.logError(r, err)

	message := "the server encountered a problem and could not process your request"
	app.errorResponse(w, r, http.StatusInternalServerError, message)
}

// notFoundResponse will be used to send a 404 Not Found status code with JSON formatted
func (app *application) notFoundResponse(w http.ResponseWriter, r *http.Request) {
	app.errorResponse(w, r, http.StatusNotFound, "route not found")
}

// movieNotFoundResponse is sent both for a movie that doesn't exist and for
// one that belongs to another user.
func (app *application) movieNotFoundResponse(w http.ResponseWriter, r *http.Request) {
	app.errorResponse(w, r, http.StatusNotFound, "movie not found or you do not have access")
}

// methodNotAllowedResponse will be used to send a 405 Method Not Allowed status code with JSON formatted
func (app *application) methodNotAllowedResponse(w http.ResponseWriter, r *http.Request) {
	app.errorResponse(w, r, http.StatusMethodNotAllowed, "the "+r.Method+" method is not supported for this resource")
}

// badRequestResponse will be used to send a 400 Bad Request status code with JSON formatted
func (app *application) badRequestResponse(w http.ResponseWriter, r *http.Request, err error) {
	app.errorResponse(w, r, http.StatusBadRequest, err.Error())
}

// failedValidationResponse sends a 400 Bad Request listing the failed fields.
func (app *application) failedValidationResponse(w http.ResponseWriter, r *http.Request, err *service.ValidationError) {
	app.errorResponse(w, r, http.StatusBadRequest, err.Error())
}

// duplicateEmailResponse sends a 400 Bad Request for an already registered
// email address.
func (app *application) duplicateEmailResponse(w http.ResponseWriter, r *http.Request) {
	app.errorResponse(w, r, http.StatusBadRequest, "a user with this email address already exists")
}

// invalidCredentialsResponse sends a 400 Bad Request for a failed login. The
// same message covers an unknown email and a wrong password.
func (app *application) invalidCredentialsResponse(w http.ResponseWriter, r *http.Request) {
	app.errorResponse(w, r, http.StatusBadRequest, "invalid email or password")
}

// invalidAuthenticationTokenResponse sends a 401 Unauthorized. It is used for
// every token problem (absent, malformed, tampered or expired) so the
// response never tells them apart.
func (app *application) invalidAuthenticationTokenResponse(w http.ResponseWriter, r *http.Request) {
	// Including a "WWW-Authenticate: Bearer" header here to help inform or remind the client
	// that we expect to authenticate using a bearer token.
	w.Header().Set("WWW-Authenticate", "Bearer")
	app.errorResponse(w, r, http.StatusUnauthorized, "invalid or missing authentication token")
}

// serviceErrorResponse maps an error returned by the services to its HTTP
// response.
func (app *application) serviceErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	var validationErr *service.ValidationError

	switch {
	case errors.As(err, &validationErr):
		app.failedValidationResponse(w, r, validationErr)
	case errors.Is(err, data.ErrRecordNotFound):
		app.movieNotFoundResponse(w, r)
	case errors.Is(err, data.ErrDuplicateEmail):
		app.duplicateEmailResponse(w, r)
	case errors.Is(err, service.ErrInvalidCredentials):
		app.invalidCredentialsResponse(w, r)
	default:
		app.serverErrorResponse(w, r, err)
	}
}

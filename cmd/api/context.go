package main

import (
	"context"
	"net/http"
)

type contextKey string

const (
	userIDContextKey    = contextKey("user_id")
	requestIDContextKey = contextKey("request_id")
)

// contextSetUserID returns a copy of r carrying the authenticated user id.
func (app *application) contextSetUserID(r *http.Request, userID int64) *http.Request {
	ctx := context.WithValue(r.Context(), userIDContextKey, userID)
	return r.WithContext(ctx)
}

// contextGetUserID returns the user id stored by requireAuthentication. Only
// call it from handlers behind that middleware; anything else is a bug.
func (app *application) contextGetUserID(r *http.Request) int64 {
	userID, ok := r.Context().Value(userIDContextKey).(int64)
	if !ok {
		panic("missing user id value in request context")
	}
	return userID
}

func contextSetRequestID(r *http.Request, id string) *http.Request {
	ctx := context.WithValue(r.Context(), requestIDContextKey, id)
	return r.WithContext(ctx)
}

func contextGetRequestID(r *http.Request) string {
	id, _ := r.Context().Value(requestIDContextKey).(string)
	return id
}

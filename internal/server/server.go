package server

import (
	"net/http"
)

// Middleware decorates every request the login server handles.
type Middleware func(http.Handler) http.Handler

// Chain wraps h so that middleware[0] runs first.
func Chain(h http.Handler, middleware ...Middleware) http.Handler {
	for i := len(middleware) - 1; i >= 0; i-- {
		h = middleware[i](h)
	}
	return h
}

// Handler is an [http.Handler] that names the paths it serves, so the login
// callback and its landing page register in one call.
type Handler interface {
	http.Handler
	Routes() []string
}

// Router registers login server handlers behind shared middleware.
type Router interface {
	Use(middleware ...Middleware)
	Handle(method, path string, handler http.Handler)
	Handler(handler Handler)
	ServeHTTP(w http.ResponseWriter, r *http.Request)
}

var (
	_ Router  = (*BasicRouter)(nil)
	_ Handler = (*LoginHandler)(nil)
)

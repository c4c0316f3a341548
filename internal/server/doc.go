// Package server runs the small local HTTP server used to sign in.
//
// The TedTagger backend handles the Google OAuth exchange itself. When it
// finishes it redirects the browser to this client with accessToken,
// expiresIn and googleId query parameters. [LoginHandler] hands those to the
// session manager, which decides whether they are saved, ignored or
// superseded by a stored or fetched token.
//
// # Router Infrastructure
//
// [BasicRouter] implements [Router] over [http.ServeMux]. [Middleware] is
// applied so that the first one added runs outermost. [Logging] assigns each
// request an id (X-Request-Id) and logs method, path, status and duration.
//
// # Handler Interface
//
// Custom handlers implement [Handler], which adds Routes to the stdlib handler
// interface so one value can register several paths.
//
// # One-shot result
//
// The CLI waits on [LoginHandler.Result]. It receives the first LoggedIn
// resolution (or the first storage failure) exactly once, after which the CLI
// shuts the server down.
package server

package server

import (
	"context"
	"html/template"
	"io"
	"net/http"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/tedtagger/internal/models"
	"github.com/desertthunder/tedtagger/internal/session"
)

// Resolver is the part of [session.Manager] the login pages drive.
type Resolver interface {
	Resolve(ctx context.Context, params session.Params) (session.Resolution, error)
	Logout() error
}

// LoginResult is the first conclusive outcome seen by a [LoginHandler].
type LoginResult struct {
	Resolution session.Resolution
	err        error
}

func (l *LoginResult) Error() error {
	return l.err
}

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html>
<head>
    <title>TedTagger</title>
    <style>
        body { font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, sans-serif;
               display: flex; align-items: center; justify-content: center; height: 100vh;
               margin: 0; background: #f5f5f5; }
        .container { text-align: center; background: white; padding: 2rem;
                     border-radius: 8px; box-shadow: 0 2px 4px rgba(0,0,0,0.1); }
        h1 { margin: 0 0 1rem 0; }
        p { color: #666; margin: 0 0 1rem 0; }
        a.button { display: inline-block; padding: 0.5rem 1rem; border-radius: 4px;
                   background: #4285f4; color: white; text-decoration: none; }
    </style>
</head>
<body>
    <div class="container">
    {{- if .LoggedIn }}
        <h1>✓ Signed in</h1>
        <p>You can close this window and return to the terminal.</p>
        <a href="/logout">Log out</a>
    {{- else if .Error }}
        <h1>Something went wrong</h1>
        <p>{{ .Error }}</p>
        <a class="button" href="{{ .LoginURL }}">Login with Google</a>
    {{- else }}
        <h1>TedTagger</h1>
        <p>You are not signed in.</p>
        <a class="button" href="{{ .LoginURL }}">Login with Google</a>
    {{- end }}
    </div>
</body>
</html>
`))

type pageData struct {
	LoggedIn bool
	Error    string
	LoginURL string
}

// LoginHandler serves the landing page the backend redirects to after Google sign-in.
//
// GET / resolves the session from the accessToken, expiresIn and googleId
// query parameters. When they were consumed the browser is redirected to a
// clean "/" so tokens do not linger in the address bar or history.
// GET /logout clears the session and returns to "/".
type LoginHandler struct {
	resolver   Resolver
	loginURL   string
	logger     *log.Logger
	resultChan chan LoginResult
	once       sync.Once
}

// NewLoginHandler creates a LoginHandler. loginURL is the backend page that starts the OAuth flow.
func NewLoginHandler(resolver Resolver, loginURL string, logger *log.Logger) *LoginHandler {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &LoginHandler{
		resolver:   resolver,
		loginURL:   loginURL,
		logger:     logger,
		resultChan: make(chan LoginResult, 1),
	}
}

// Routes returns the HTTP routes this handler serves.
func (h *LoginHandler) Routes() []string {
	return []string{"/", "/logout"}
}

func (h *LoginHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", "GET, HEAD")
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	switch r.URL.Path {
	case "/":
		h.landing(w, r)
	case "/logout":
		h.logout(w, r)
	default:
		http.NotFound(w, r)
	}
}

func (h *LoginHandler) landing(w http.ResponseWriter, r *http.Request) {
	res, err := h.resolver.Resolve(r.Context(), session.ParamsFromQuery(r.URL.Query()))
	if err != nil {
		h.logger.Error("session resolution failed", "error", err)
		h.Send(LoginResult{err: err})
		h.render(w, http.StatusInternalServerError, pageData{Error: err.Error(), LoginURL: h.loginURL})
		return
	}

	h.logger.Info("session resolved", "state", res.State, "source", res.Source)
	if res.State == models.LoggedIn {
		h.Send(LoginResult{Resolution: res})
	}

	if res.StripParams {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	h.render(w, http.StatusOK, pageData{LoggedIn: res.State == models.LoggedIn, LoginURL: h.loginURL})
}

func (h *LoginHandler) logout(w http.ResponseWriter, r *http.Request) {
	if err := h.resolver.Logout(); err != nil {
		h.logger.Error("logout failed", "error", err)
		h.render(w, http.StatusInternalServerError, pageData{Error: err.Error(), LoginURL: h.loginURL})
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *LoginHandler) render(w http.ResponseWriter, status int, data pageData) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := pageTemplate.Execute(w, data); err != nil {
		h.logger.Warn("failed to render page", "error", err)
	}
}

// Send delivers result on the result channel. Only the first call has any effect.
func (h *LoginHandler) Send(result LoginResult) {
	h.once.Do(func() {
		h.resultChan <- result
		close(h.resultChan)
	})
}

// Result returns the channel that receives the first sign-in or resolution error, then closes.
func (h *LoginHandler) Result() <-chan LoginResult {
	return h.resultChan
}

package server

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/tedtagger/internal/models"
	"github.com/desertthunder/tedtagger/internal/session"
	"github.com/desertthunder/tedtagger/internal/shared"
	tu "github.com/desertthunder/tedtagger/internal/testing"
)

const loginURL = "http://backend.test/auth/google"

type rejectingClient struct{}

func (rejectingClient) FetchToken(context.Context, string) (session.Token, error) {
	return session.Token{}, fmt.Errorf("%w: status 401", shared.ErrAPIRequest)
}

func (rejectingClient) RefreshToken(context.Context, string) (session.Token, error) {
	return session.Token{}, fmt.Errorf("%w: status 401", shared.ErrAPIRequest)
}

type failingResolver struct{ err error }

func (f failingResolver) Resolve(context.Context, session.Params) (session.Resolution, error) {
	return session.Resolution{State: models.LoggedOut}, f.err
}

func (f failingResolver) Logout() error { return f.err }

func newTestManager(storage *tu.MemoryStorage) *session.Manager {
	clock := tu.NewFakeClock(time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC))
	return session.NewManager(session.Options{
		Storage: storage,
		Client:  rejectingClient{},
		Now:     clock.Now,
	})
}

func newTestRouter(h *LoginHandler, mw ...Middleware) *BasicRouter {
	router := NewBasicRouter()
	router.Use(mw...)
	router.Handler(h)
	return router
}

func get(router http.Handler, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestLoginHandler(t *testing.T) {
	t.Run("Redirect Params Are Saved And Stripped", func(t *testing.T) {
		storage := tu.NewMemoryStorage(nil)
		h := NewLoginHandler(newTestManager(storage), loginURL, nil)
		router := newTestRouter(h)

		rec := get(router, "/?accessToken=tok&expiresIn=3600&googleId=g1")
		if rec.Code != http.StatusSeeOther {
			t.Fatalf("expected 303, got %d", rec.Code)
		}
		if loc := rec.Header().Get("Location"); loc != "/" {
			t.Errorf("expected redirect to /, got %s", loc)
		}

		if v, _, _ := storage.Get(session.KeyAccessToken); v != "tok" {
			t.Errorf("expected token to be stored, got %q", v)
		}

		select {
		case result := <-h.Result():
			if result.Error() != nil || result.Resolution.State != models.LoggedIn {
				t.Errorf("unexpected result %+v", result)
			}
		default:
			t.Fatal("expected a login result")
		}

		rec = get(router, "/")
		if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "Signed in") {
			t.Errorf("expected signed in page, got %d %s", rec.Code, rec.Body.String())
		}
	})

	t.Run("Logged Out Shows Login Link", func(t *testing.T) {
		h := NewLoginHandler(newTestManager(tu.NewMemoryStorage(nil)), loginURL, nil)
		rec := get(newTestRouter(h), "/")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		body := rec.Body.String()
		if !strings.Contains(body, "Login with Google") || !strings.Contains(body, loginURL) {
			t.Errorf("expected login link, got %s", body)
		}

		select {
		case result := <-h.Result():
			t.Errorf("no result expected while logged out, got %+v", result)
		default:
		}
	})

	t.Run("Partial Params Are Not Stripped", func(t *testing.T) {
		storage := tu.NewMemoryStorage(nil)
		h := NewLoginHandler(newTestManager(storage), loginURL, nil)

		rec := get(newTestRouter(h), "/?accessToken=tok")
		if rec.Code != http.StatusOK {
			t.Errorf("expected 200, got %d", rec.Code)
		}
		if _, ok, _ := storage.Get(session.KeyAccessToken); ok {
			t.Error("partial params must not be stored")
		}
	})

	t.Run("Logout", func(t *testing.T) {
		storage := tu.NewMemoryStorage(map[string]string{
			session.KeyAccessToken:     "tok",
			session.KeyTokenExpiration: "9999999999999",
			session.KeyGoogleID:        "g1",
		})
		router := newTestRouter(NewLoginHandler(newTestManager(storage), loginURL, nil))

		rec := get(router, "/logout")
		if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/" {
			t.Fatalf("expected redirect to /, got %d %s", rec.Code, rec.Header().Get("Location"))
		}
		if v, _, _ := storage.Get(session.KeyLoggedOut); v != "true" {
			t.Error("expected loggedOut flag")
		}
		if _, ok, _ := storage.Get(session.KeyAccessToken); ok {
			t.Error("expected token to be cleared")
		}

		rec = get(router, "/")
		if !strings.Contains(rec.Body.String(), "Login with Google") {
			t.Error("expected login page after logout")
		}
		if _, ok, _ := storage.Get(session.KeyLoggedOut); ok {
			t.Error("loggedOut flag should be consumed")
		}
	})

	t.Run("Resolution Error", func(t *testing.T) {
		err := fmt.Errorf("%w: disk full", shared.ErrAuthResolution)
		h := NewLoginHandler(failingResolver{err: err}, loginURL, nil)

		rec := get(newTestRouter(h), "/")
		if rec.Code != http.StatusInternalServerError {
			t.Errorf("expected 500, got %d", rec.Code)
		}
		result := <-h.Result()
		if !errors.Is(result.Error(), shared.ErrAuthResolution) {
			t.Errorf("expected ErrAuthResolution, got %v", result.Error())
		}
	})

	t.Run("Method Not Allowed", func(t *testing.T) {
		router := newTestRouter(NewLoginHandler(failingResolver{}, loginURL, nil))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", nil))
		if rec.Code != http.StatusMethodNotAllowed {
			t.Errorf("expected 405, got %d", rec.Code)
		}
	})

	t.Run("Unknown Path", func(t *testing.T) {
		router := newTestRouter(NewLoginHandler(failingResolver{}, loginURL, nil))
		if rec := get(router, "/nope"); rec.Code != http.StatusNotFound {
			t.Errorf("expected 404, got %d", rec.Code)
		}
	})

	t.Run("Send Only Once", func(t *testing.T) {
		h := NewLoginHandler(failingResolver{}, loginURL, nil)
		h.Send(LoginResult{Resolution: session.Resolution{State: models.LoggedIn, Source: "params"}})
		h.Send(LoginResult{Resolution: session.Resolution{State: models.LoggedIn, Source: "stored"}})

		results := 0
		for result := range h.Result() {
			results++
			if result.Resolution.Source != "params" {
				t.Errorf("expected first result, got %s", result.Resolution.Source)
			}
		}
		if results != 1 {
			t.Errorf("expected exactly one result, got %d", results)
		}
	})
}

func TestRouter(t *testing.T) {
	t.Run("Middleware Order", func(t *testing.T) {
		var order []string
		tag := func(name string) Middleware {
			return func(next http.Handler) http.Handler {
				return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					order = append(order, name)
					next.ServeHTTP(w, r)
				})
			}
		}

		router := NewBasicRouter()
		router.Use(tag("first"), tag("second"))
		router.Handle(http.MethodGet, "/ping", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			order = append(order, "handler")
		}))

		get(router, "/ping")
		if strings.Join(order, ",") != "first,second,handler" {
			t.Errorf("unexpected order %v", order)
		}
	})

	t.Run("Chain Without Router", func(t *testing.T) {
		var order []string
		tag := func(name string) Middleware {
			return func(next http.Handler) http.Handler {
				return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					order = append(order, name)
					next.ServeHTTP(w, r)
				})
			}
		}

		h := Chain(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			order = append(order, "handler")
		}), tag("outer"), tag("inner"))
		get(h, "/")

		if strings.Join(order, ",") != "outer,inner,handler" {
			t.Errorf("unexpected order %v", order)
		}
	})

	t.Run("Handle Rejects Other Methods", func(t *testing.T) {
		router := NewBasicRouter()
		router.Handle(http.MethodGet, "/ping", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/ping", nil))
		if rec.Code != http.StatusMethodNotAllowed || rec.Header().Get("Allow") != "GET" {
			t.Errorf("expected 405 with Allow GET, got %d %q", rec.Code, rec.Header().Get("Allow"))
		}
	})
}

func TestMiddleware(t *testing.T) {
	t.Run("Logging", func(t *testing.T) {
		var buf bytes.Buffer
		logger := log.New(&buf)

		router := NewBasicRouter()
		router.Use(Logging(logger), NoStore)
		router.Handle(http.MethodGet, "/teapot", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTeapot)
		}))

		rec := get(router, "/teapot")
		if rec.Header().Get(RequestIDHeader) == "" {
			t.Error("expected a request id")
		}
		if rec.Header().Get("Cache-Control") != "no-store" {
			t.Error("expected no-store")
		}

		out := buf.String()
		if !strings.Contains(out, "/teapot") || !strings.Contains(out, "418") {
			t.Errorf("expected path and status in log, got %s", out)
		}
	})

	t.Run("Logging Keeps Incoming Id", func(t *testing.T) {
		router := NewBasicRouter()
		router.Use(Logging(log.New(&bytes.Buffer{})))
		router.Handle(http.MethodGet, "/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(RequestIDHeader, "abc")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if rec.Header().Get(RequestIDHeader) != "abc" {
			t.Errorf("expected incoming id, got %s", rec.Header().Get(RequestIDHeader))
		}
	})
}

package services

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/desertthunder/tedtagger/internal/shared"
)

func TestAuthService(t *testing.T) {
	t.Run("FetchToken", func(t *testing.T) {
		t.Run("Sends Cookie", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/auth/token" {
					t.Errorf("unexpected path %s", r.URL.Path)
				}
				if r.Header.Get("Cookie") != "connect.sid=abc" {
					t.Errorf("expected cookie, got %q", r.Header.Get("Cookie"))
				}
				json.NewEncoder(w).Encode(map[string]string{"accessToken": "tok", "googleId": "user-1"})
			}))
			defer server.Close()

			token, err := NewAuthService(server.URL, nil).FetchToken(context.Background(), "connect.sid=abc")
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if token.AccessToken != "tok" || token.GoogleID != "user-1" || token.ExpiresIn != 0 {
				t.Errorf("unexpected token %+v", token)
			}
		})

		t.Run("Unauthorized Is An API Error", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "no session", http.StatusUnauthorized)
			}))
			defer server.Close()

			_, err := NewAuthService(server.URL, nil).FetchToken(context.Background(), "")
			if !errors.Is(err, shared.ErrAPIRequest) {
				t.Errorf("expected ErrAPIRequest, got %v", err)
			}
		})

		t.Run("Empty Token Is An API Error", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{}`))
			}))
			defer server.Close()

			_, err := NewAuthService(server.URL, nil).FetchToken(context.Background(), "")
			if !errors.Is(err, shared.ErrAPIRequest) {
				t.Errorf("expected ErrAPIRequest, got %v", err)
			}
		})

		t.Run("Unreachable Backend Is Not An API Error", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
			server.Close()

			_, err := NewAuthService(server.URL, nil).FetchToken(context.Background(), "")
			if err == nil || errors.Is(err, shared.ErrAPIRequest) {
				t.Errorf("expected network error, got %v", err)
			}
		})
	})

	t.Run("RefreshToken", func(t *testing.T) {
		t.Run("Success", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.Method != http.MethodPost || r.URL.Path != "/refresh-token" {
					t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
				}
				var body map[string]string
				json.NewDecoder(r.Body).Decode(&body)
				if body["googleId"] != "user-1" {
					t.Errorf("unexpected body %v", body)
				}
				w.Write([]byte(`{"accessToken":"fresh","expiresIn":3599}`))
			}))
			defer server.Close()

			token, err := NewAuthService(server.URL, nil).RefreshToken(context.Background(), "user-1")
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if token.AccessToken != "fresh" || token.ExpiresIn != 3599 || token.GoogleID != "user-1" {
				t.Errorf("unexpected token %+v", token)
			}
		})

		t.Run("Rejected", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusForbidden)
			}))
			defer server.Close()

			_, err := NewAuthService(server.URL, nil).RefreshToken(context.Background(), "user-1")
			if !errors.Is(err, shared.ErrRefreshFailed) || !errors.Is(err, shared.ErrAPIRequest) {
				t.Errorf("expected ErrRefreshFailed wrapping ErrAPIRequest, got %v", err)
			}
		})
	})
}

package services

import (
	"context"
	"fmt"
	"net/http"

	"github.com/desertthunder/tedtagger/internal/session"
	"github.com/desertthunder/tedtagger/internal/shared"
)

// AuthService requests access tokens from the backend's auth routes.
type AuthService struct {
	api *APIService
}

// NewAuthService creates an AuthService. baseURL is the backend root, not the API path.
func NewAuthService(baseURL string, client *http.Client) *AuthService {
	return &AuthService{api: NewAPIService(baseURL, client)}
}

type fetchTokenResponse struct {
	AccessToken string `json:"accessToken"`
	GoogleID    string `json:"googleId"`
}

type refreshTokenResponse struct {
	AccessToken string `json:"accessToken"`
	ExpiresIn   int64  `json:"expiresIn"`
}

// FetchToken reads the token bound to the backend session cookie.
func (s *AuthService) FetchToken(ctx context.Context, cookie string) (session.Token, error) {
	var header http.Header
	if cookie != "" {
		header = http.Header{"Cookie": {cookie}}
	}

	resp, err := s.api.Do(ctx, http.MethodGet, "/auth/token", nil, header)
	if err != nil {
		return session.Token{}, err
	}
	if err := resp.Err(); err != nil {
		return session.Token{}, err
	}

	var body fetchTokenResponse
	if err := resp.Decode(&body); err != nil {
		return session.Token{}, err
	}
	if body.AccessToken == "" {
		return session.Token{}, fmt.Errorf("%w: no access token in response", shared.ErrAPIRequest)
	}

	return session.Token{AccessToken: body.AccessToken, GoogleID: body.GoogleID}, nil
}

// RefreshToken asks the backend to refresh the Google token for googleID.
func (s *AuthService) RefreshToken(ctx context.Context, googleID string) (session.Token, error) {
	resp, err := s.api.PostJSON(ctx, "/refresh-token", map[string]string{"googleId": googleID})
	if err != nil {
		return session.Token{}, err
	}
	if err := resp.Err(); err != nil {
		return session.Token{}, fmt.Errorf("%w: %w", shared.ErrRefreshFailed, err)
	}

	var body refreshTokenResponse
	if err := resp.Decode(&body); err != nil {
		return session.Token{}, err
	}
	if body.AccessToken == "" || body.ExpiresIn <= 0 {
		return session.Token{}, fmt.Errorf("%w: incomplete refresh response", shared.ErrRefreshFailed)
	}

	return session.Token{AccessToken: body.AccessToken, ExpiresIn: body.ExpiresIn, GoogleID: googleID}, nil
}

package session

import (
	"context"
	"fmt"

	"golang.org/x/oauth2"

	"github.com/desertthunder/tedtagger/internal/models"
	"github.com/desertthunder/tedtagger/internal/shared"
)

// TokenSource exposes the stored session as an [oauth2.TokenSource].
//
// An expired token triggers one refresh attempt per call; the result is
// reused until it expires.
func (m *Manager) TokenSource(ctx context.Context) oauth2.TokenSource {
	return oauth2.ReuseTokenSource(nil, &managerSource{ctx: ctx, m: m})
}

type managerSource struct {
	ctx context.Context
	m   *Manager
}

func (s *managerSource) Token() (*oauth2.Token, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()

	sess, err := s.m.loadSession()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrAuthResolution, err)
	}

	if IsTokenExpired(sess.AccessToken, sess.TokenExpiration, s.m.now()) {
		res, err := s.m.refreshLocked(s.ctx)
		if err != nil {
			return nil, err
		}
		if res.State != models.LoggedIn {
			return nil, shared.ErrNotAuthenticated
		}
		if sess, err = s.m.loadSession(); err != nil {
			return nil, fmt.Errorf("%w: %v", shared.ErrAuthResolution, err)
		}
	}

	refresh, _, _ := s.m.storage.Get(KeyRefreshToken)
	return &oauth2.Token{
		AccessToken:  sess.AccessToken,
		TokenType:    "Bearer",
		RefreshToken: refresh,
		Expiry:       sess.TokenExpiration,
	}, nil
}

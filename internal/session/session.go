package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/tedtagger/internal/models"
	"github.com/desertthunder/tedtagger/internal/shared"
)

// DefaultFetchTokenTTL is the lifetime assumed for tokens from GET /auth/token.
const DefaultFetchTokenTTL = time.Hour

// Params are the token values carried by the OAuth redirect.
type Params struct {
	AccessToken string
	ExpiresIn   string
	GoogleID    string
}

// ParamsFromQuery reads accessToken, expiresIn and googleId from q.
func ParamsFromQuery(q url.Values) Params {
	return Params{
		AccessToken: q.Get("accessToken"),
		ExpiresIn:   q.Get("expiresIn"),
		GoogleID:    q.Get("googleId"),
	}
}

// Present reports whether any of the redirect parameters were supplied.
func (p Params) Present() bool {
	return p.AccessToken != "" || p.ExpiresIn != "" || p.GoogleID != ""
}

// complete returns the lifetime in seconds when all three values are usable.
func (p Params) complete() (int64, bool) {
	if p.AccessToken == "" || p.ExpiresIn == "" || p.GoogleID == "" {
		return 0, false
	}
	seconds, err := strconv.ParseInt(p.ExpiresIn, 10, 64)
	if err != nil || seconds <= 0 {
		return 0, false
	}
	return seconds, true
}

// Resolution is the outcome of [Manager.Resolve].
type Resolution struct {
	State models.LoginState
	// StripParams is set when the token came from the redirect parameters.
	// The caller should drop them from the visible URL.
	StripParams bool
	// Source names where the token came from: params, stored, fetched or refreshed.
	Source string
}

// Options configures a [Manager].
type Options struct {
	Storage       Storage
	Client        TokenClient
	Logger        *log.Logger
	FetchTokenTTL time.Duration
	Now           func() time.Time
}

// Manager resolves and maintains the login session.
//
// All storage access is serialized by a mutex, including the HTTP round trips
// made while resolving.
type Manager struct {
	mu       sync.Mutex
	storage  Storage
	client   TokenClient
	logger   *log.Logger
	fetchTTL time.Duration
	now      func() time.Time
	state    models.LoginState
}

// NewManager creates a Manager in the Resolving state.
func NewManager(opts Options) *Manager {
	m := &Manager{
		storage:  opts.Storage,
		client:   opts.Client,
		logger:   opts.Logger,
		fetchTTL: opts.FetchTokenTTL,
		now:      opts.Now,
		state:    models.Resolving,
	}
	if m.logger == nil {
		m.logger = log.New(io.Discard)
	}
	if m.fetchTTL <= 0 {
		m.fetchTTL = DefaultFetchTokenTTL
	}
	if m.now == nil {
		m.now = time.Now
	}
	return m
}

// IsTokenExpired reports whether a token is unusable at now.
//
// A missing token or a zero expiration is expired. now equal to expiration is not.
func IsTokenExpired(token string, expiration, now time.Time) bool {
	return token == "" || expiration.IsZero() || now.After(expiration)
}

// State returns the last resolved login state.
func (m *Manager) State() models.LoginState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Session reads the persisted session.
func (m *Manager) Session() (models.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.loadSession()
}

// Resolve determines the login state from params, storage and the backend.
//
// Errors are only returned for storage failures; an unobtainable token
// resolves to LoggedOut.
func (m *Manager) Resolve(ctx context.Context, params Params) (Resolution, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.state = models.Resolving

	loggedOut, _, err := m.storage.Get(KeyLoggedOut)
	if err != nil {
		return m.fail(err)
	}
	if loggedOut == "true" {
		m.logger.Info("user already logged out")
		if err := m.storage.Remove(KeyLoggedOut); err != nil {
			return m.fail(err)
		}
		m.state = models.LoggedOut
		return Resolution{State: m.state}, nil
	}

	if params.GoogleID != "" {
		last, _, err := m.storage.Get(KeyGoogleID)
		if err != nil {
			return m.fail(err)
		}
		if params.GoogleID != last {
			m.logger.Info("detected account switch, clearing storage", "googleId", params.GoogleID)
			if err := m.storage.Clear(); err != nil {
				return m.fail(err)
			}
		}
	}

	if seconds, ok := params.complete(); ok {
		if err := m.saveTokens(params.AccessToken, seconds, params.GoogleID); err != nil {
			return m.fail(err)
		}
		m.state = models.LoggedIn
		return Resolution{State: m.state, StripParams: true, Source: "params"}, nil
	}

	sess, err := m.loadSession()
	if err != nil {
		return m.fail(err)
	}
	if !IsTokenExpired(sess.AccessToken, sess.TokenExpiration, m.now()) {
		m.logger.Debug("stored token is valid")
		m.state = models.LoggedIn
		return Resolution{State: m.state, Source: "stored"}, nil
	}

	m.logger.Warn("token expired or missing, fetching from backend")
	return m.fetchLocked(ctx)
}

// Refresh requests a new token for the stored googleId.
func (m *Manager) Refresh(ctx context.Context) (Resolution, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.refreshLocked(ctx)
}

// Logout clears all storage and marks the session as explicitly logged out.
//
// The flag makes the next [Manager.Resolve] stop at LoggedOut once.
func (m *Manager) Logout() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.logger.Info("logging out")
	if err := m.wipe(); err != nil {
		return err
	}
	if err := m.storage.Set(KeyLoggedOut, "true"); err != nil {
		return fmt.Errorf("failed to set logged out flag: %w", err)
	}
	return nil
}

// SetBackendCookie stores the cookie header sent to GET /auth/token.
func (m *Manager) SetBackendCookie(cookie string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.storage.Set(KeyBackendCookie, cookie)
}

func (m *Manager) fetchLocked(ctx context.Context) (Resolution, error) {
	cookie, _, err := m.storage.Get(KeyBackendCookie)
	if err != nil {
		return m.fail(err)
	}

	token, err := m.client.FetchToken(ctx, cookie)
	switch {
	case err == nil:
		if err := m.saveTokens(token.AccessToken, int64(m.fetchTTL/time.Second), token.GoogleID); err != nil {
			return m.fail(err)
		}
		m.state = models.LoggedIn
		return Resolution{State: m.state, Source: "fetched"}, nil
	case errors.Is(err, shared.ErrAPIRequest):
		m.logger.Warn("no valid access token found, attempting to refresh", "error", err)
		return m.refreshLocked(ctx)
	default:
		m.logger.Error("error fetching access token", "error", err)
		return m.logoutLocked()
	}
}

func (m *Manager) refreshLocked(ctx context.Context) (Resolution, error) {
	googleID, _, err := m.storage.Get(KeyGoogleID)
	if err != nil {
		return m.fail(err)
	}
	if googleID == "" {
		m.logger.Error("no google id found, unable to refresh token")
		m.state = models.LoggedOut
		return Resolution{State: m.state}, nil
	}

	token, err := m.client.RefreshToken(ctx, googleID)
	if err != nil {
		m.logger.Warn("failed to refresh access token, logging out", "error", err)
		return m.logoutLocked()
	}

	if err := m.saveTokens(token.AccessToken, token.ExpiresIn, googleID); err != nil {
		return m.fail(err)
	}
	m.logger.Info("token refreshed")
	m.state = models.LoggedIn
	return Resolution{State: m.state, Source: "refreshed"}, nil
}

// logoutLocked is the failure path: storage is wiped without setting the flag.
func (m *Manager) logoutLocked() (Resolution, error) {
	if err := m.wipe(); err != nil {
		return m.fail(err)
	}
	return Resolution{State: models.LoggedOut}, nil
}

func (m *Manager) wipe() error {
	m.state = models.LoggedOut
	if err := m.storage.Clear(); err != nil {
		return fmt.Errorf("failed to clear storage: %w", err)
	}
	return nil
}

func (m *Manager) fail(err error) (Resolution, error) {
	m.state = models.LoggedOut
	return Resolution{State: m.state}, fmt.Errorf("%w: %v", shared.ErrAuthResolution, err)
}

func (m *Manager) saveTokens(token string, expiresIn int64, googleID string) error {
	expiration := m.now().Add(time.Duration(expiresIn) * time.Second)

	for _, kv := range [][2]string{
		{KeyAccessToken, token},
		{KeyTokenExpiration, strconv.FormatInt(expiration.UnixMilli(), 10)},
		{KeyGoogleID, googleID},
	} {
		if err := m.storage.Set(kv[0], kv[1]); err != nil {
			return fmt.Errorf("failed to save %s: %w", kv[0], err)
		}
	}
	m.logger.Debug("tokens saved", "googleId", googleID, "expires", expiration)
	return nil
}

func (m *Manager) loadSession() (models.Session, error) {
	var sess models.Session
	var err error

	if sess.AccessToken, _, err = m.storage.Get(KeyAccessToken); err != nil {
		return sess, err
	}
	if sess.GoogleID, _, err = m.storage.Get(KeyGoogleID); err != nil {
		return sess, err
	}

	raw, ok, err := m.storage.Get(KeyTokenExpiration)
	if err != nil {
		return sess, err
	}
	if ok {
		// unparsable expirations stay zero and count as expired
		if millis, err := strconv.ParseInt(raw, 10, 64); err == nil {
			sess.TokenExpiration = time.UnixMilli(millis)
		}
	}
	return sess, nil
}

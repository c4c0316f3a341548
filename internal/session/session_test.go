package session

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/desertthunder/tedtagger/internal/models"
	"github.com/desertthunder/tedtagger/internal/shared"
	tu "github.com/desertthunder/tedtagger/internal/testing"
)

var epoch = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

type fakeClient struct {
	fetchToken   Token
	fetchErr     error
	refreshToken Token
	refreshErr   error

	fetchCalls   int
	refreshCalls int
	lastCookie   string
	lastGoogleID string
}

func (c *fakeClient) FetchToken(_ context.Context, cookie string) (Token, error) {
	c.fetchCalls++
	c.lastCookie = cookie
	return c.fetchToken, c.fetchErr
}

func (c *fakeClient) RefreshToken(_ context.Context, googleID string) (Token, error) {
	c.refreshCalls++
	c.lastGoogleID = googleID
	return c.refreshToken, c.refreshErr
}

func millis(t time.Time) string { return strconv.FormatInt(t.UnixMilli(), 10) }

func newTestManager(store *tu.MemoryStorage, client *fakeClient, clock *tu.FakeClock) *Manager {
	return NewManager(Options{Storage: store, Client: client, Now: clock.Now})
}

func validStore(googleID string) *tu.MemoryStorage {
	return tu.NewMemoryStorage(map[string]string{
		KeyAccessToken:     "stored-token",
		KeyTokenExpiration: millis(epoch.Add(time.Hour)),
		KeyGoogleID:        googleID,
	})
}

func TestIsTokenExpired(t *testing.T) {
	exp := epoch.Add(time.Minute)

	tt := []struct {
		name       string
		token      string
		expiration time.Time
		now        time.Time
		want       bool
	}{
		{"missing token", "", exp, epoch, true},
		{"missing expiration", "tok", time.Time{}, epoch, true},
		{"both missing", "", time.Time{}, epoch, true},
		{"before expiration", "tok", exp, epoch, false},
		{"at expiration", "tok", exp, exp, false},
		{"after expiration", "tok", exp, exp.Add(time.Millisecond), true},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, IsTokenExpired(tc.token, tc.expiration, tc.now))
		})
	}
}

func TestParamsFromQuery(t *testing.T) {
	q, err := url.ParseQuery("accessToken=abc&expiresIn=3599&googleId=user-1&other=x")
	require.NoError(t, err)

	p := ParamsFromQuery(q)
	assert.Equal(t, Params{AccessToken: "abc", ExpiresIn: "3599", GoogleID: "user-1"}, p)
	assert.True(t, p.Present())
	assert.False(t, Params{}.Present())
}

func TestResolve(t *testing.T) {
	ctx := context.Background()

	t.Run("complete params save tokens and strip", func(t *testing.T) {
		store := tu.NewMemoryStorage(nil)
		client := &fakeClient{}
		m := newTestManager(store, client, tu.NewFakeClock(epoch))

		res, err := m.Resolve(ctx, Params{AccessToken: "new", ExpiresIn: "60", GoogleID: "user-1"})
		require.NoError(t, err)

		assert.Equal(t, models.LoggedIn, res.State)
		assert.True(t, res.StripParams)
		assert.Equal(t, "params", res.Source)
		assert.Zero(t, client.fetchCalls)

		data := store.Snapshot()
		assert.Equal(t, "new", data[KeyAccessToken])
		assert.Equal(t, "user-1", data[KeyGoogleID])
		assert.Equal(t, millis(epoch.Add(time.Minute)), data[KeyTokenExpiration])
	})

	t.Run("partial params never overwrite stored tokens", func(t *testing.T) {
		partials := []Params{
			{AccessToken: "new"},
			{AccessToken: "new", ExpiresIn: "60"},
			{ExpiresIn: "60", GoogleID: "user-1"},
			{AccessToken: "new", GoogleID: "user-1"},
			{AccessToken: "new", ExpiresIn: "soon", GoogleID: "user-1"},
			{AccessToken: "new", ExpiresIn: "-5", GoogleID: "user-1"},
		}

		for i, p := range partials {
			t.Run(fmt.Sprint(i), func(t *testing.T) {
				store := validStore("user-1")
				m := newTestManager(store, &fakeClient{}, tu.NewFakeClock(epoch))

				res, err := m.Resolve(ctx, p)
				require.NoError(t, err)
				assert.False(t, res.StripParams)
				assert.Equal(t, "stored-token", store.Snapshot()[KeyAccessToken])
			})
		}
	})

	t.Run("account switch clears before saving", func(t *testing.T) {
		store := validStore("user-a")
		_ = store.Set("unrelated", "cached")
		m := newTestManager(store, &fakeClient{}, tu.NewFakeClock(epoch))

		res, err := m.Resolve(ctx, Params{AccessToken: "tok-b", ExpiresIn: "60", GoogleID: "user-b"})
		require.NoError(t, err)
		assert.Equal(t, models.LoggedIn, res.State)

		ops := store.Ops()
		clearAt := indexOf(ops, "clear")
		saveAt := indexOf(ops, "set:"+KeyAccessToken)
		require.NotEqual(t, -1, clearAt, "storage was not cleared: %v", ops)
		assert.Less(t, clearAt, saveAt, "clear must precede save: %v", ops)

		data := store.Snapshot()
		assert.NotContains(t, data, "unrelated")
		assert.Equal(t, "user-b", data[KeyGoogleID])
	})

	t.Run("account switch without token still clears", func(t *testing.T) {
		store := validStore("user-a")
		client := &fakeClient{fetchErr: errors.New("connection refused")}
		m := newTestManager(store, client, tu.NewFakeClock(epoch))

		res, err := m.Resolve(ctx, Params{GoogleID: "user-b"})
		require.NoError(t, err)

		assert.Equal(t, models.LoggedOut, res.State)
		assert.Equal(t, 1, client.fetchCalls)
		assert.Empty(t, store.Keys())
	})

	t.Run("same account does not clear", func(t *testing.T) {
		store := validStore("user-a")
		m := newTestManager(store, &fakeClient{}, tu.NewFakeClock(epoch))

		_, err := m.Resolve(ctx, Params{AccessToken: "tok", ExpiresIn: "60", GoogleID: "user-a"})
		require.NoError(t, err)
		assert.NotContains(t, store.Ops(), "clear")
	})

	t.Run("logged out flag short circuits once", func(t *testing.T) {
		store := validStore("user-a")
		_ = store.Set(KeyLoggedOut, "true")
		client := &fakeClient{}
		m := newTestManager(store, client, tu.NewFakeClock(epoch))

		res, err := m.Resolve(ctx, Params{AccessToken: "tok", ExpiresIn: "60", GoogleID: "user-a"})
		require.NoError(t, err)
		assert.Equal(t, models.LoggedOut, res.State)
		assert.NotContains(t, store.Snapshot(), KeyLoggedOut)
		assert.Equal(t, "stored-token", store.Snapshot()[KeyAccessToken])

		res, err = m.Resolve(ctx, Params{})
		require.NoError(t, err)
		assert.Equal(t, models.LoggedIn, res.State)
		assert.Zero(t, client.fetchCalls)
	})

	t.Run("valid stored token", func(t *testing.T) {
		clock := tu.NewFakeClock(epoch)
		client := &fakeClient{}
		m := newTestManager(validStore("user-a"), client, clock)

		res, err := m.Resolve(ctx, Params{})
		require.NoError(t, err)
		assert.Equal(t, models.LoggedIn, res.State)
		assert.Equal(t, "stored", res.Source)
		assert.Zero(t, client.fetchCalls)
		assert.Equal(t, models.LoggedIn, m.State())
	})

	t.Run("expired token fetched with cookie", func(t *testing.T) {
		clock := tu.NewFakeClock(epoch)
		store := validStore("user-a")
		_ = store.Set(KeyBackendCookie, "connect.sid=abc")
		client := &fakeClient{fetchToken: Token{AccessToken: "fetched", GoogleID: "user-a"}}
		m := NewManager(Options{Storage: store, Client: client, Now: clock.Now, FetchTokenTTL: 30 * time.Minute})

		clock.Advance(2 * time.Hour)
		res, err := m.Resolve(ctx, Params{})
		require.NoError(t, err)

		assert.Equal(t, models.LoggedIn, res.State)
		assert.Equal(t, "fetched", res.Source)
		assert.Equal(t, "connect.sid=abc", client.lastCookie)
		data := store.Snapshot()
		assert.Equal(t, "fetched", data[KeyAccessToken])
		assert.Equal(t, millis(clock.Now().Add(30*time.Minute)), data[KeyTokenExpiration])
	})

	t.Run("missing token uses default ttl", func(t *testing.T) {
		store := tu.NewMemoryStorage(nil)
		client := &fakeClient{fetchToken: Token{AccessToken: "fetched", GoogleID: "user-a"}}
		m := newTestManager(store, client, tu.NewFakeClock(epoch))

		_, err := m.Resolve(ctx, Params{})
		require.NoError(t, err)
		assert.Equal(t, millis(epoch.Add(time.Hour)), store.Snapshot()[KeyTokenExpiration])
	})

	t.Run("non-success fetch refreshes once", func(t *testing.T) {
		clock := tu.NewFakeClock(epoch.Add(2 * time.Hour))
		store := validStore("user-a")
		client := &fakeClient{
			fetchErr:     fmt.Errorf("%w: status 401", shared.ErrAPIRequest),
			refreshToken: Token{AccessToken: "refreshed", ExpiresIn: 120},
		}
		m := newTestManager(store, client, clock)

		res, err := m.Resolve(ctx, Params{})
		require.NoError(t, err)

		assert.Equal(t, models.LoggedIn, res.State)
		assert.Equal(t, "refreshed", res.Source)
		assert.Equal(t, 1, client.refreshCalls)
		assert.Equal(t, "user-a", client.lastGoogleID)
		assert.Equal(t, millis(clock.Now().Add(2*time.Minute)), store.Snapshot()[KeyTokenExpiration])
	})

	t.Run("failed refresh logs out without retry", func(t *testing.T) {
		store := validStore("user-a")
		client := &fakeClient{
			fetchErr:   fmt.Errorf("%w: status 401", shared.ErrAPIRequest),
			refreshErr: fmt.Errorf("%w: status 403", shared.ErrAPIRequest),
		}
		m := newTestManager(store, client, tu.NewFakeClock(epoch.Add(2*time.Hour)))

		res, err := m.Resolve(ctx, Params{})
		require.NoError(t, err)

		assert.Equal(t, models.LoggedOut, res.State)
		assert.Equal(t, 1, client.fetchCalls)
		assert.Equal(t, 1, client.refreshCalls)
		assert.Empty(t, store.Keys())
	})

	t.Run("fetch network error logs out", func(t *testing.T) {
		store := validStore("user-a")
		client := &fakeClient{fetchErr: errors.New("dial tcp: connection refused")}
		m := newTestManager(store, client, tu.NewFakeClock(epoch.Add(2*time.Hour)))

		res, err := m.Resolve(ctx, Params{})
		require.NoError(t, err)

		assert.Equal(t, models.LoggedOut, res.State)
		assert.Zero(t, client.refreshCalls)
		assert.Empty(t, store.Keys())
		assert.NotContains(t, store.Snapshot(), KeyLoggedOut)
	})

	t.Run("storage failure is an auth resolution error", func(t *testing.T) {
		store := tu.NewMemoryStorage(nil)
		store.Err = errors.New("disk full")
		m := newTestManager(store, &fakeClient{}, tu.NewFakeClock(epoch))

		res, err := m.Resolve(ctx, Params{})
		assert.ErrorIs(t, err, shared.ErrAuthResolution)
		assert.Equal(t, models.LoggedOut, res.State)
	})
}

func TestRefresh(t *testing.T) {
	ctx := context.Background()

	t.Run("without google id stays logged out without wipe", func(t *testing.T) {
		store := tu.NewMemoryStorage(map[string]string{KeyBackendCookie: "c=1"})
		client := &fakeClient{}
		m := newTestManager(store, client, tu.NewFakeClock(epoch))

		res, err := m.Refresh(ctx)
		require.NoError(t, err)

		assert.Equal(t, models.LoggedOut, res.State)
		assert.Zero(t, client.refreshCalls)
		assert.Equal(t, "c=1", store.Snapshot()[KeyBackendCookie])
	})

	t.Run("network failure wipes storage", func(t *testing.T) {
		store := validStore("user-a")
		client := &fakeClient{refreshErr: errors.New("timeout")}
		m := newTestManager(store, client, tu.NewFakeClock(epoch))

		res, err := m.Refresh(ctx)
		require.NoError(t, err)
		assert.Equal(t, models.LoggedOut, res.State)
		assert.Empty(t, store.Keys())
	})
}

func TestLogout(t *testing.T) {
	store := validStore("user-a")
	m := newTestManager(store, &fakeClient{}, tu.NewFakeClock(epoch))

	require.NoError(t, m.Logout())

	assert.Equal(t, models.LoggedOut, m.State())
	assert.Equal(t, map[string]string{KeyLoggedOut: "true"}, store.Snapshot())
	assert.Equal(t, []string{"clear", "set:" + KeyLoggedOut}, store.Ops())
}

func TestSession(t *testing.T) {
	clock := tu.NewFakeClock(epoch)
	m := newTestManager(validStore("user-a"), &fakeClient{}, clock)

	sess, err := m.Session()
	require.NoError(t, err)

	assert.Equal(t, "stored-token", sess.AccessToken)
	assert.Equal(t, "user-a", sess.GoogleID)
	assert.True(t, sess.TokenExpiration.Equal(epoch.Add(time.Hour)))
	assert.True(t, sess.IsLoggedIn(clock.Now()))
	assert.False(t, sess.IsLoggedIn(epoch.Add(2*time.Hour)))
}

func TestTokenSource(t *testing.T) {
	ctx := context.Background()

	t.Run("valid token", func(t *testing.T) {
		store := validStore("user-a")
		_ = store.Set(KeyRefreshToken, "rt")
		m := newTestManager(store, &fakeClient{}, tu.NewFakeClock(epoch))

		tok, err := m.TokenSource(ctx).Token()
		require.NoError(t, err)
		assert.Equal(t, "stored-token", tok.AccessToken)
		assert.Equal(t, "Bearer", tok.TokenType)
		assert.Equal(t, "rt", tok.RefreshToken)
	})

	t.Run("expired token refreshes", func(t *testing.T) {
		client := &fakeClient{refreshToken: Token{AccessToken: "refreshed", ExpiresIn: 3600}}
		m := newTestManager(validStore("user-a"), client, tu.NewFakeClock(epoch.Add(2*time.Hour)))

		tok, err := m.TokenSource(ctx).Token()
		require.NoError(t, err)
		assert.Equal(t, "refreshed", tok.AccessToken)
		assert.Equal(t, 1, client.refreshCalls)
	})

	t.Run("no session", func(t *testing.T) {
		m := newTestManager(tu.NewMemoryStorage(nil), &fakeClient{}, tu.NewFakeClock(epoch))

		_, err := m.TokenSource(ctx).Token()
		assert.ErrorIs(t, err, shared.ErrNotAuthenticated)
	})
}

func TestSetBackendCookie(t *testing.T) {
	store := tu.NewMemoryStorage(nil)
	m := newTestManager(store, &fakeClient{}, tu.NewFakeClock(epoch))

	require.NoError(t, m.SetBackendCookie("connect.sid=xyz"))
	assert.Equal(t, "connect.sid=xyz", store.Snapshot()[KeyBackendCookie])
}

func indexOf(ops []string, op string) int {
	for i, o := range ops {
		if o == op {
			return i
		}
	}
	return -1
}

// Package session owns the Google login session of the tedtagger client.
//
// A [Manager] resolves exactly one of three visible states ([models.Resolving],
// [models.LoggedIn], [models.LoggedOut]) from three token sources, tried in order:
//
//  1. Query parameters delivered by the backend's OAuth redirect
//     (accessToken, expiresIn, googleId), see [ParamsFromQuery].
//  2. The cookie-backed GET /auth/token endpoint, with a single
//     POST /refresh-token attempt when it does not answer with success.
//  3. Values persisted in [Storage] by an earlier run.
//
// Persisted keys keep the names used by the web client: googleAccessToken,
// tokenExpiration (epoch milliseconds), googleId, loggedOut and
// googleRefreshToken. A googleId different from the stored one clears all
// storage before the new token is saved.
//
// The rest of the application must not load data until [Manager.Resolve]
// reports LoggedIn. Bearer clients are built from [Manager.TokenSource].
package session

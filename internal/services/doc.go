// Package services implements HTTP clients for the TedTagger backend.
//
// # Raw API
//
// [APIService] performs GET, JSON POST and multipart POST requests against a
// base URL and returns the raw [APIResponse]. The other services are built on
// it, and the `api` command exposes it directly.
//
// # Authentication
//
// [AuthService] implements session.TokenClient:
//   - GET /auth/token with the stored backend cookie → {accessToken, googleId}
//   - POST /refresh-token {googleId} → {accessToken, expiresIn}
//
// # Media
//
// [MediaService] wraps the endpoints under the configured API path
// (default /api/v1/). It is constructed with an http.Client from
// oauth2.NewClient, so every request carries the session's bearer token.
//
// # Error Handling
//
// Services use typed errors from shared package:
//   - [shared.ErrServiceUnavailable] : the request never got a response
//   - [shared.ErrAPIRequest] : the backend answered with a non-success status
//   - [shared.ErrDeleteFailed] / [shared.ErrUploadFailed] : wrap the above for
//     delete and upload endpoints, carrying the response text
//
// No request is retried.
package services

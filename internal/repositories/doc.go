// Package repositories implements SQLite persistence for the tedtagger client.
//
// Key Implementations:
//   - [KVRepository] : the durable key/value store that holds the login session
//     (googleAccessToken, tokenExpiration, googleId, loggedOut, backendCookie)
//   - [MediaItemRepository] : the last media item list loaded from the backend,
//     kept in display order so the library can be listed offline
//
// Both repositories expect the schema created by [shared.RunMigrations].
package repositories

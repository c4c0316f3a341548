// Package models defines the domain types shared by the tedtagger packages.
//
// The package contains two categories of types:
//
// 1. Media types: values received from the TedTagger backend
//   - [MediaItem] : a photo known to the backend, keyed by its unique id
//   - [KeywordData] : the keyword tree used to tag media items
//   - [Takeout] : a Google Takeout export available for import
//
// 2. Client state: values owned by this client
//   - [Session] : the Google access token, its expiry and the account id
//   - [LoginState] : Resolving, LoggedIn or LoggedOut
//   - [PhotoLayout] : Grid, Loupe or Survey presentation of the library
//
// Identifiers are always [MediaItem.UniqueID]. Selection, loupe navigation
// and delete requests use no other id.
package models

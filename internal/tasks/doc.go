// Package tasks runs the library operations of the tedtagger client with progress reporting.
//
// # Library
//
// [Library] holds the canonical, display ordered media item list, the deleted
// items bin, the backend's local storage folders, the keyword tree and the
// importable takeouts. It implements selection.ItemSource.
//
// # Loading
//
// [Loader.Load] fills the library in a fixed order once the session is logged in:
//
//  1. keyword data
//  2. takeouts
//  3. local storage folders
//  4. media items (written through to the sqlite cache)
//  5. deleted media items
//  6. initialized
//
// Any failure other than the media items is logged and loading continues. A
// media item failure falls back to the cache when it holds anything.
//
// # Actions
//
// [Engine] implements the toolbar actions (delete, redownload, upload, merge
// people, import, deleted bin maintenance). Every action makes a single
// attempt and reports a [Result] carrying a user-facing message; nothing is
// retried. Deletes change local state only after the backend accepts them. [Engine.RedownloadAll] fans requests out over a rate-limited
// worker pool.
//
// # Progress Reporting
//
// Long operations send [ProgressUpdate] values on an optional channel.
// Updates use select with default so a slow reader never blocks the work.
package tasks

// Package ui implements the interactive media library using bubbletea's Elm architecture.
//
// The library view has three layouts driven by [selection.Controller]:
//   - grid: a column grid with keyboard cursor, click, toggle and range selection
//   - loupe: one focused item at a time, stepping through the loupe sequence
//   - survey: large cards scaled by the survey zoom
//
// Supporting views are the delete confirmation, the deleted items bin and the
// local storage folder picker.
//
// Mouse presses are routed through a [selection.ClickDebouncer]. Its callbacks
// run on a timer goroutine, so they only post messages back to the program
// (see [Model.Attach]); selection state is changed on the update loop.
// Long-running actions run as [tea.Cmd] values and report a [tasks.Result]
// that is shown on the status line.
package ui

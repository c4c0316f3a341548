package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/desertthunder/tedtagger/internal/selection"
	"github.com/desertthunder/tedtagger/internal/tasks"
)

// MsgKind enumerates all message types in the application.
type MsgKind int

// Msg represents all possible messages in the TUI (Elm-style message union).
type Msg struct {
	kind MsgKind
	data any
}

var (
	_ tea.Msg = Msg{}
)

const (
	MsgProgressUpdate MsgKind = iota
	MsgLoaded
	MsgActionResult
	MsgClick
	MsgDoubleClick
)

// progressUpdateMsg is the constructor for [MsgProgressUpdate]
func progressUpdateMsg(update tasks.ProgressUpdate) Msg {
	return Msg{kind: MsgProgressUpdate, data: update}
}

// loadedMsg is the constructor for [MsgLoaded]
func loadedMsg(err error) Msg {
	return Msg{kind: MsgLoaded, data: err}
}

// actionResultMsg is the constructor for [MsgActionResult]
func actionResultMsg(res tasks.Result) Msg {
	return Msg{kind: MsgActionResult, data: res}
}

// clickMsg is the constructor for [MsgClick]. Sent by the click debouncer once the delay elapses.
func clickMsg(c selection.Click) Msg {
	return Msg{kind: MsgClick, data: c}
}

// doubleClickMsg is the constructor for [MsgDoubleClick]
func doubleClickMsg(c selection.DoubleClick) Msg {
	return Msg{kind: MsgDoubleClick, data: c}
}

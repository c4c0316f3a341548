package ui

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/desertthunder/tedtagger/internal/models"
	"github.com/desertthunder/tedtagger/internal/selection"
	"github.com/desertthunder/tedtagger/internal/tasks"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	LoadingView ViewState = iota
	LibraryView
	ConfirmView
	DeletedView
	FolderView
)

// Sender posts messages into a running program. [tea.Program] implements it.
type Sender interface {
	Send(msg tea.Msg)
}

// StateReader reports the login state shown in the header.
type StateReader interface {
	State() models.LoginState
}

// Options configures a [Model].
type Options struct {
	Engine     *tasks.Engine
	Loader     *tasks.Loader // nil skips loading; the library is used as is
	Selection  *selection.Controller
	Session    StateReader // optional
	ClickDelay time.Duration
	Scheduler  selection.Scheduler // optional, defaults to real timers
	AlbumName  string
}

// Model represents the TUI application state.
type Model struct {
	ctx          context.Context
	view         ViewState
	engine       *tasks.Engine
	library      *tasks.Library
	loader       *tasks.Loader
	selection    *selection.Controller
	session      StateReader
	debouncer    *selection.ClickDebouncer
	sender       Sender
	albumName    string
	width        int
	height       int
	cursor       int
	spinner      spinner.Model
	deletedList  list.Model
	folderList   list.Model
	progressChan chan tasks.ProgressUpdate
	loadDone     chan error
	progress     tasks.ProgressUpdate
	loadErr      error
	status       string
	statusErr    bool
	confirming   []string
	confirmLoupe bool
	busy         bool
	help         help.Model
	keys         keyMap
}

// NewModel creates a new TUI model with the provided dependencies.
func NewModel(ctx context.Context, opts Options) *Model {
	m := &Model{
		ctx:       ctx,
		view:      LoadingView,
		engine:    opts.Engine,
		library:   opts.Engine.Library(),
		loader:    opts.Loader,
		selection: opts.Selection,
		session:   opts.Session,
		albumName: opts.AlbumName,
		spinner:   spinner.New(spinner.WithSpinner(spinner.Dot)),
		help:      help.New(),
		keys:      newKeyMap(),
	}

	m.debouncer = selection.NewClickDebouncer(opts.Scheduler, opts.ClickDelay,
		func(c selection.Click) { m.send(clickMsg(c)) },
		func(c selection.DoubleClick) { m.send(doubleClickMsg(c)) },
	)

	m.deletedList = list.New(nil, list.NewDefaultDelegate(), 0, 0)
	m.deletedList.Title = "Deleted media items"
	m.folderList = list.New(nil, list.NewDefaultDelegate(), 0, 0)
	m.folderList.Title = "Import from local storage"

	if m.loader == nil {
		m.view = LibraryView
	}
	return m
}

// Attach sets the program that receives debounced click messages.
func (m *Model) Attach(s Sender) {
	m.sender = s
}

func (m *Model) send(msg tea.Msg) {
	if m.sender != nil {
		m.sender.Send(msg)
	}
}

// Init starts loading the library.
func (m *Model) Init() tea.Cmd {
	if m.loader == nil {
		return nil
	}
	return tea.Batch(m.spinner.Tick, m.startLoad())
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.deletedList.SetSize(msg.Width-4, msg.Height-4)
		m.folderList.SetSize(msg.Width-4, msg.Height-4)
		return m, nil

	case spinner.TickMsg:
		if m.view != LoadingView && !m.busy {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.MouseMsg:
		if m.view == LibraryView {
			m.handleMouse(msg)
		}
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case LoadingView:
			if key.Matches(msg, m.keys.quit) {
				return m, tea.Quit
			}
			return m, nil
		case LibraryView:
			return m.handleLibraryKeys(msg)
		case ConfirmView:
			return m.handleConfirmKeys(msg)
		case DeletedView:
			return m.handleDeletedKeys(msg)
		case FolderView:
			return m.handleFolderKeys(msg)
		}

	case Msg:
		return m.handleMsg(msg)
	}

	return m.updateLists(msg)
}

func (m *Model) handleMsg(msg Msg) (tea.Model, tea.Cmd) {
	switch msg.kind {
	case MsgProgressUpdate:
		m.progress = msg.data.(tasks.ProgressUpdate)
		return m, m.waitForProgress()

	case MsgLoaded:
		m.progressChan, m.loadDone = nil, nil
		m.view = LibraryView
		if err, _ := msg.data.(error); err != nil {
			m.loadErr = err
			m.setStatus(fmt.Sprintf("Failed to load media items: %v", err), true)
		} else {
			m.setStatus(m.progress.Message, false)
		}
		return m, nil

	case MsgActionResult:
		res := msg.data.(tasks.Result)
		m.busy = false
		m.setStatus(res.Message, !res.OK)
		m.clampCursor()
		m.deletedList.SetItems(mediaListItems(m.library.DeletedMediaItems()))
		return m, nil

	case MsgClick:
		if m.view != LibraryView {
			return m, nil
		}
		c := msg.data.(selection.Click)
		m.selection.Dispatch(c)
		m.moveCursorTo(c.ID)
		return m, nil

	case MsgDoubleClick:
		if m.view != LibraryView {
			return m, nil
		}
		c := msg.data.(selection.DoubleClick)
		m.moveCursorTo(c.ID)
		m.selection.Dispatch(c)
		return m, nil
	}
	return m, nil
}

func (m *Model) handleLibraryKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	state := m.selection.State()

	switch {
	case key.Matches(msg, m.keys.quit):
		m.debouncer.Cancel()
		return m, tea.Quit
	case key.Matches(msg, m.keys.grid):
		m.selection.Dispatch(selection.SetLayout{Layout: models.Grid})
		return m, nil
	case key.Matches(msg, m.keys.loupe):
		m.selection.Dispatch(selection.SetLayout{Layout: models.Loupe})
		return m, nil
	case key.Matches(msg, m.keys.survey):
		m.selection.Dispatch(selection.SetLayout{Layout: models.Survey})
		return m, nil
	case key.Matches(msg, m.keys.metadata):
		m.selection.Dispatch(selection.ToggleMetadata{})
		return m, nil
	case key.Matches(msg, m.keys.deleted):
		m.deletedList.SetItems(mediaListItems(m.library.DeletedMediaItems()))
		m.view = DeletedView
		return m, nil
	case key.Matches(msg, m.keys.folders):
		m.folderList.SetItems(folderListItems(m.library.Folders()))
		m.view = FolderView
		return m, nil
	}

	switch state.Layout {
	case models.Loupe:
		return m.handleLoupeKeys(msg, state)
	case models.Survey:
		return m.handleSurveyKeys(msg, state)
	default:
		return m.handleGridKeys(msg, state)
	}
}

func (m *Model) handleGridKeys(msg tea.KeyMsg, state selection.State) (tea.Model, tea.Cmd) {
	ids := m.library.MediaItemIDs()
	id := m.cursorID(ids)

	switch {
	case key.Matches(msg, m.keys.up):
		m.moveCursor(-state.GridColumns, len(ids))
	case key.Matches(msg, m.keys.down):
		m.moveCursor(state.GridColumns, len(ids))
	case key.Matches(msg, m.keys.left):
		m.moveCursor(-1, len(ids))
	case key.Matches(msg, m.keys.right):
		m.moveCursor(1, len(ids))
	case key.Matches(msg, m.keys.click) && id != "":
		m.selection.Dispatch(selection.Click{ID: id})
	case key.Matches(msg, m.keys.toggle) && id != "":
		m.selection.Dispatch(selection.Click{ID: id, Meta: true})
	case key.Matches(msg, m.keys.extend) && id != "":
		m.selection.Dispatch(selection.Click{ID: id, Shift: true})
	case key.Matches(msg, m.keys.append) && id != "":
		m.selection.Dispatch(selection.Click{ID: id, Meta: true, Shift: true})
	case key.Matches(msg, m.keys.open) && id != "":
		m.selection.Dispatch(selection.DoubleClick{ID: id})
	case key.Matches(msg, m.keys.back):
		m.selection.Dispatch(selection.DeselectAll{})
	case key.Matches(msg, m.keys.bigger):
		m.selection.Dispatch(selection.SetGridColumns{Columns: state.GridColumns - 1})
	case key.Matches(msg, m.keys.smaller):
		m.selection.Dispatch(selection.SetGridColumns{Columns: state.GridColumns + 1})
	case key.Matches(msg, m.keys.delete):
		return m.confirmDelete(state.SelectedIDs, false)
	case key.Matches(msg, m.keys.redl):
		return m, m.run(func() tasks.Result { return m.engine.Redownload(m.ctx) })
	case key.Matches(msg, m.keys.upload):
		return m, m.run(func() tasks.Result { return m.engine.UploadSelectedToGoogle(m.ctx, m.albumName) })
	}
	return m, nil
}

func (m *Model) handleLoupeKeys(msg tea.KeyMsg, state selection.State) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.left), key.Matches(msg, m.keys.up):
		m.selection.Dispatch(selection.PrevLoupeItem{})
	case key.Matches(msg, m.keys.right), key.Matches(msg, m.keys.down):
		m.selection.Dispatch(selection.NextLoupeItem{})
	case key.Matches(msg, m.keys.back):
		m.selection.Dispatch(selection.SetLayout{Layout: models.Grid})
	case key.Matches(msg, m.keys.delete):
		if state.FocusedID == "" {
			return m, nil
		}
		return m.confirmDelete([]string{state.FocusedID}, true)
	case key.Matches(msg, m.keys.redl) && state.FocusedID != "":
		id := state.FocusedID
		return m, m.run(func() tasks.Result { return m.engine.RedownloadOne(m.ctx, id) })
	}
	return m, nil
}

func (m *Model) handleSurveyKeys(msg tea.KeyMsg, state selection.State) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.bigger):
		m.selection.Dispatch(selection.SetSurveyZoom{Zoom: state.SurveyZoom + 1})
	case key.Matches(msg, m.keys.smaller):
		m.selection.Dispatch(selection.SetSurveyZoom{Zoom: state.SurveyZoom - 1})
	case key.Matches(msg, m.keys.left), key.Matches(msg, m.keys.up):
		m.moveCursor(-1, len(m.library.MediaItemIDs()))
	case key.Matches(msg, m.keys.right), key.Matches(msg, m.keys.down):
		m.moveCursor(1, len(m.library.MediaItemIDs()))
	case key.Matches(msg, m.keys.back):
		m.selection.Dispatch(selection.SetLayout{Layout: models.Grid})
	}
	return m, nil
}

// confirmDelete opens the dialog for ids. Only the ids shown are deleted on
// confirmation, whatever happens to the selection meanwhile.
func (m *Model) confirmDelete(ids []string, loupe bool) (tea.Model, tea.Cmd) {
	if len(ids) == 0 {
		m.setStatus("No media items selected", true)
		return m, nil
	}
	m.debouncer.Cancel()
	m.confirming = slices.Clone(ids)
	m.confirmLoupe = loupe
	m.view = ConfirmView
	return m, nil
}

func (m *Model) handleConfirmKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.yes):
		ids, loupe := m.confirming, m.confirmLoupe
		m.view = LibraryView
		m.confirming, m.confirmLoupe = nil, false
		if loupe && len(ids) == 1 {
			return m, m.run(func() tasks.Result { return m.engine.DeleteLoupeItem(m.ctx, ids[0]) })
		}
		return m, m.run(func() tasks.Result { return m.engine.DeleteItems(m.ctx, ids) })
	case key.Matches(msg, m.keys.no), key.Matches(msg, m.keys.quit):
		m.view = LibraryView
		m.confirming, m.confirmLoupe = nil, false
	}
	return m, nil
}

func (m *Model) handleDeletedKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.deletedList.FilterState() == list.Filtering {
		var cmd tea.Cmd
		m.deletedList, cmd = m.deletedList.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.back):
		m.view = LibraryView
		return m, nil
	case key.Matches(msg, m.keys.remove):
		if item, ok := m.deletedList.SelectedItem().(mediaItem); ok {
			id := item.item.UniqueID
			return m, m.run(func() tasks.Result { return m.engine.RemoveDeletedMediaItem(m.ctx, id) })
		}
		return m, nil
	case key.Matches(msg, m.keys.clear):
		return m, m.run(func() tasks.Result { return m.engine.ClearDeletedMediaItems(m.ctx) })
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	}

	var cmd tea.Cmd
	m.deletedList, cmd = m.deletedList.Update(msg)
	return m, cmd
}

func (m *Model) handleFolderKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.folderList.FilterState() == list.Filtering {
		var cmd tea.Cmd
		m.folderList, cmd = m.folderList.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.back):
		m.view = LibraryView
		return m, nil
	case key.Matches(msg, m.keys.open):
		if folder, ok := m.folderList.SelectedItem().(folderItem); ok {
			m.view = LibraryView
			return m, m.run(func() tasks.Result { return m.engine.ImportFromLocalStorage(m.ctx, string(folder)) })
		}
		return m, nil
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	}

	var cmd tea.Cmd
	m.folderList, cmd = m.folderList.Update(msg)
	return m, cmd
}

func (m *Model) handleMouse(msg tea.MouseMsg) {
	if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
		return
	}

	state := m.selection.State()
	if state.Layout != models.Grid {
		return
	}

	id, ok := m.cellAt(msg.X, msg.Y, state)
	if !ok {
		return
	}
	m.debouncer.Click(selection.Click{ID: id, Meta: msg.Ctrl || msg.Alt, Shift: msg.Shift})
}

func (m *Model) updateLists(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.view {
	case DeletedView:
		m.deletedList, cmd = m.deletedList.Update(msg)
	case FolderView:
		m.folderList, cmd = m.folderList.Update(msg)
	}
	return m, cmd
}

// run executes fn off the update loop and reports its result.
func (m *Model) run(fn func() tasks.Result) tea.Cmd {
	m.busy = true
	m.setStatus("Working...", false)
	return tea.Batch(m.spinner.Tick, func() tea.Msg {
		return actionResultMsg(fn())
	})
}

func (m *Model) startLoad() tea.Cmd {
	m.progressChan = make(chan tasks.ProgressUpdate, 8)
	m.loadDone = make(chan error, 1)

	progress, done := m.progressChan, m.loadDone
	go func() {
		done <- m.loader.Load(m.ctx, progress)
		close(progress)
	}()

	return m.waitForProgress()
}

func (m *Model) waitForProgress() tea.Cmd {
	progress, done := m.progressChan, m.loadDone
	return func() tea.Msg {
		if progress == nil {
			return loadedMsg(nil)
		}

		update, ok := <-progress
		if !ok {
			return loadedMsg(<-done)
		}
		return progressUpdateMsg(update)
	}
}

func (m *Model) setStatus(text string, isErr bool) {
	m.status = text
	m.statusErr = isErr
}

func (m *Model) cursorID(ids []string) string {
	if m.cursor < 0 || m.cursor >= len(ids) {
		return ""
	}
	return ids[m.cursor]
}

func (m *Model) moveCursor(delta, count int) {
	if count == 0 {
		m.cursor = 0
		return
	}
	m.cursor = min(max(m.cursor+delta, 0), count-1)
	m.ensureVisible()
}

func (m *Model) moveCursorTo(id string) {
	if i := slices.Index(m.library.MediaItemIDs(), id); i >= 0 {
		m.cursor = i
		m.ensureVisible()
	}
}

func (m *Model) clampCursor() {
	m.moveCursor(0, len(m.library.MediaItemIDs()))
}

// ensureVisible scrolls the grid so the cursor row is on screen.
func (m *Model) ensureVisible() {
	state := m.selection.State()
	if state.Layout != models.Grid {
		return
	}

	row := m.cursor / state.GridColumns
	visible := m.gridRows()
	switch {
	case row < state.GridScroll:
		m.selection.Dispatch(selection.Scroll{Position: row})
	case row >= state.GridScroll+visible:
		m.selection.Dispatch(selection.Scroll{Position: row - visible + 1})
	}
}

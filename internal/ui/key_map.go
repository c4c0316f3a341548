package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the [key.Binding] mapping for the TUI.
type keyMap struct {
	up       key.Binding
	down     key.Binding
	left     key.Binding
	right    key.Binding
	click    key.Binding
	toggle   key.Binding
	extend   key.Binding
	append   key.Binding
	open     key.Binding
	back     key.Binding
	grid     key.Binding
	loupe    key.Binding
	survey   key.Binding
	bigger   key.Binding
	smaller  key.Binding
	metadata key.Binding
	delete   key.Binding
	redl     key.Binding
	upload   key.Binding
	deleted  key.Binding
	folders  key.Binding
	remove   key.Binding
	clear    key.Binding
	yes      key.Binding
	no       key.Binding
	quit     key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		left:     key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "prev")),
		right:    key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "next")),
		click:    key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "select")),
		toggle:   key.NewBinding(key.WithKeys("v"), key.WithHelp("v", "toggle")),
		extend:   key.NewBinding(key.WithKeys("V"), key.WithHelp("V", "range")),
		append:   key.NewBinding(key.WithKeys("A"), key.WithHelp("A", "add range")),
		open:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open")),
		back:     key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		grid:     key.NewBinding(key.WithKeys("1"), key.WithHelp("1", "grid")),
		loupe:    key.NewBinding(key.WithKeys("2"), key.WithHelp("2", "loupe")),
		survey:   key.NewBinding(key.WithKeys("3"), key.WithHelp("3", "survey")),
		bigger:   key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "bigger")),
		smaller:  key.NewBinding(key.WithKeys("-"), key.WithHelp("-", "smaller")),
		metadata: key.NewBinding(key.WithKeys("i"), key.WithHelp("i", "metadata")),
		delete:   key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
		redl:     key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "redownload")),
		upload:   key.NewBinding(key.WithKeys("u"), key.WithHelp("u", "upload to google")),
		deleted:  key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "deleted items")),
		folders:  key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "import folder")),
		remove:   key.NewBinding(key.WithKeys("enter", "backspace"), key.WithHelp("enter", "remove")),
		clear:    key.NewBinding(key.WithKeys("C"), key.WithHelp("C", "clear all")),
		yes:      key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "yes")),
		no:       key.NewBinding(key.WithKeys("n", "esc"), key.WithHelp("n", "no")),
		quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.up, k.down, k.left, k.right},
		{k.click, k.toggle, k.extend, k.append, k.open},
		{k.grid, k.loupe, k.survey, k.bigger, k.smaller, k.metadata},
		{k.delete, k.redl, k.upload, k.deleted, k.folders},
		{k.back, k.quit},
	}
}

func (k keyMap) gridHelp() []key.Binding {
	return []key.Binding{k.click, k.toggle, k.extend, k.open, k.delete, k.redl, k.upload, k.deleted, k.quit}
}

func (k keyMap) loupeHelp() []key.Binding {
	return []key.Binding{k.left, k.right, k.metadata, k.delete, k.redl, k.back, k.quit}
}

func (k keyMap) surveyHelp() []key.Binding {
	return []key.Binding{k.bigger, k.smaller, k.metadata, k.back, k.quit}
}

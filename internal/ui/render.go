package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"github.com/desertthunder/tedtagger/internal/models"
	"github.com/desertthunder/tedtagger/internal/selection"
)

const (
	headerLines      = 2 // title, status
	footerLines      = 2 // blank, help
	defaultCellWidth = 16
	minCellWidth     = 6
)

// View renders the UI based on the current view state.
func (m *Model) View() string {
	switch m.view {
	case LoadingView:
		return m.renderLoading()
	case ConfirmView:
		return m.renderConfirm()
	case DeletedView:
		return fmt.Sprintf("%s\n\n%s", m.deletedList.View(),
			m.help.ShortHelpView([]key.Binding{m.keys.remove, m.keys.clear, m.keys.back, m.keys.quit}))
	case FolderView:
		return fmt.Sprintf("%s\n\n%s", m.folderList.View(),
			m.help.ShortHelpView([]key.Binding{m.keys.open, m.keys.back, m.keys.quit}))
	default:
		return m.renderLibrary()
	}
}

func (m *Model) renderLoading() string {
	title := styles.title.Render("TedTagger")
	step := ""
	if m.progress.Total > 0 {
		step = fmt.Sprintf(" [%d/%d]", m.progress.Step, m.progress.Total)
	}
	msg := m.progress.Message
	if msg == "" {
		msg = "Loading..."
	}
	return fmt.Sprintf("%s\n\n%s %s%s\n", title, m.spinner.View(), msg, step)
}

func (m *Model) renderLibrary() string {
	state := m.selection.State()
	items := m.library.MediaItems()

	var body string
	var helpKeys []key.Binding
	switch state.Layout {
	case models.Loupe:
		body = m.renderLoupe(state)
		helpKeys = m.keys.loupeHelp()
	case models.Survey:
		body = m.renderSurvey(state, items)
		helpKeys = m.keys.surveyHelp()
	default:
		body = m.renderGrid(state, items)
		helpKeys = m.keys.gridHelp()
	}

	return fmt.Sprintf("%s\n%s\n%s\n\n%s",
		m.renderHeader(state, len(items)), m.renderStatus(), body, m.help.ShortHelpView(helpKeys))
}

func (m *Model) renderHeader(state selection.State, count int) string {
	header := fmt.Sprintf("%s · %s · %d items", styles.title.Render("TedTagger"), state.Layout, count)
	if n := len(state.SelectedIDs); n > 0 {
		header += styles.ok.Render(fmt.Sprintf(" · %d selected", n))
	}
	if m.session != nil {
		color := lipgloss.Color("#04B575")
		if m.session.State() != models.LoggedIn {
			color = lipgloss.Color("#FFA500")
		}
		header += " · " + styles.As(m.session.State().String(), color)
	}
	return header
}

func (m *Model) renderStatus() string {
	switch {
	case m.busy:
		return fmt.Sprintf("%s %s", m.spinner.View(), m.status)
	case m.statusErr:
		return styles.err.Render(m.status)
	case m.status != "":
		return styles.ok.Render(m.status)
	default:
		return ""
	}
}

func (m *Model) renderGrid(state selection.State, items []models.MediaItem) string {
	if len(items) == 0 {
		return styles.help.Render("No media items")
	}

	width := m.cellWidth(state)
	start := state.GridScroll * state.GridColumns
	end := min(len(items), start+m.gridRows()*state.GridColumns)

	var b strings.Builder
	for i := start; i < end; i++ {
		if i > start && (i-start)%state.GridColumns == 0 {
			b.WriteString("\n")
		}

		item := items[i]
		marker := "  "
		style := styles.cell
		if state.IsSelected(item.UniqueID) {
			marker = "● "
			style = styles.selected
		}
		if i == m.cursor {
			style = style.Inherit(styles.cursor)
		}
		b.WriteString(style.Width(width).MaxWidth(width).Render(marker + truncate(item.FileName, width-lipgloss.Width(marker))))
	}

	if state.DisplayMetadata {
		if item, ok := m.library.MediaItem(m.cursorID(models.MediaItemIDs(items))); ok {
			b.WriteString("\n\n" + renderMetadata(item, m.library.KeywordLabels(item)))
		}
	}
	return b.String()
}

func (m *Model) renderLoupe(state selection.State) string {
	if state.FocusedID == "" {
		return styles.help.Render("Nothing to show")
	}

	item, ok := m.library.MediaItem(state.FocusedID)
	if !ok {
		item = models.MediaItem{UniqueID: state.FocusedID, FileName: state.FocusedID}
	}

	pos := 0
	for i, id := range state.LoupeIDs {
		if id == state.FocusedID {
			pos = i + 1
			break
		}
	}

	content := fmt.Sprintf("%s\n%s", item.FileName, styles.help.Render(fmt.Sprintf("%d of %d", pos, len(state.LoupeIDs))))
	if state.DisplayMetadata {
		content += "\n\n" + renderMetadata(item, m.library.KeywordLabels(item))
	}
	return styles.focused.Render(content)
}

func (m *Model) renderSurvey(state selection.State, items []models.MediaItem) string {
	if len(items) == 0 {
		return styles.help.Render("No media items")
	}

	width := int(float64(defaultCellWidth) * state.SurveyZoom)
	perRow := 1
	if m.width > 0 {
		perRow = max(1, m.width/(width+4))
	}

	var rows []string
	var row []string
	for i, item := range items {
		content := truncate(item.FileName, width)
		if state.DisplayMetadata {
			content += "\n" + styles.help.Render(truncate(item.CreationTime, width))
		}
		style := styles.cell.Border(lipgloss.NormalBorder()).Width(width)
		if i == m.cursor {
			style = styles.focused.Width(width)
		}
		row = append(row, style.Render(content))
		if len(row) == perRow {
			rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, row...))
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, row...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (m *Model) renderConfirm() string {
	title := styles.title.Render(fmt.Sprintf("Delete %d media item(s)?", len(m.confirming)))

	var names []string
	for _, id := range m.confirming {
		if item, ok := m.library.MediaItem(id); ok {
			names = append(names, "  • "+item.FileName)
		} else {
			names = append(names, "  • "+id)
		}
	}

	helpView := m.help.ShortHelpView([]key.Binding{m.keys.yes, m.keys.no})
	return fmt.Sprintf("%s\n\n%s\n\n%s", title, strings.Join(names, "\n"), helpView)
}

func renderMetadata(item models.MediaItem, keywords []string) string {
	lines := []string{
		"ID:       " + item.UniqueID,
		"File:     " + item.FileName,
	}
	if item.CreationTime != "" {
		lines = append(lines, "Created:  "+item.CreationTime)
	}
	if item.MimeType != "" {
		lines = append(lines, "Type:     "+item.MimeType)
	}
	if item.Width > 0 && item.Height > 0 {
		lines = append(lines, fmt.Sprintf("Size:     %dx%d", item.Width, item.Height))
	}
	if item.GoogleMediaItemID != "" {
		lines = append(lines, "Google:   "+item.GoogleMediaItemID)
	}
	if len(keywords) > 0 {
		lines = append(lines, "Keywords: "+strings.Join(keywords, ", "))
	}
	return styles.help.Render(strings.Join(lines, "\n"))
}

// cellWidth divides the terminal width evenly between the grid columns.
func (m *Model) cellWidth(state selection.State) int {
	if m.width <= 0 {
		return defaultCellWidth
	}
	return max(m.width/state.GridColumns, minCellWidth)
}

// gridRows is the number of grid rows that fit between the header and footer.
func (m *Model) gridRows() int {
	if m.height <= 0 {
		return 20
	}
	return max(m.height-headerLines-footerLines, 1)
}

// cellAt maps a terminal coordinate to the grid item drawn there.
func (m *Model) cellAt(x, y int, state selection.State) (string, bool) {
	row := y - headerLines
	if row < 0 || row >= m.gridRows() {
		return "", false
	}

	col := x / m.cellWidth(state)
	if x < 0 || col >= state.GridColumns {
		return "", false
	}

	ids := m.library.MediaItemIDs()
	idx := (state.GridScroll+row)*state.GridColumns + col
	if idx >= len(ids) {
		return "", false
	}
	return ids[idx], true
}

func truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n == 1 {
		return "…"
	}
	return string(r[:n-1]) + "…"
}

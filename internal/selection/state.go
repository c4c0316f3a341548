package selection

import (
	"slices"

	"github.com/desertthunder/tedtagger/internal/models"
)

const (
	MinGridColumns     = 2
	MaxGridColumns     = 10
	DefaultGridColumns = 5
	MinSurveyZoom      = 1.0
	MaxSurveyZoom      = 6.0
)

// State is the selection and presentation state of the library.
type State struct {
	// SelectedIDs is an insertion ordered set.
	SelectedIDs []string
	// LastClickedID anchors range selection. "" when there is no anchor.
	LastClickedID string
	LoupeIDs      []string
	FocusedID     string
	Layout        models.PhotoLayout
	// GridScroll is the live grid offset reported by the view.
	GridScroll int
	// ScrollPosition is the grid offset captured when the grid was left.
	ScrollPosition  int
	GridColumns     int
	SurveyZoom      float64
	DisplayMetadata bool
}

// NewState returns the initial grid state.
func NewState() State {
	return State{
		Layout:      models.Grid,
		GridColumns: DefaultGridColumns,
		SurveyZoom:  MinSurveyZoom,
	}
}

// Clone returns a copy that shares no slices with s.
func (s State) Clone() State {
	s.SelectedIDs = slices.Clone(s.SelectedIDs)
	s.LoupeIDs = slices.Clone(s.LoupeIDs)
	return s
}

// IsSelected reports whether id is in the selection.
func (s State) IsSelected(id string) bool {
	return slices.Contains(s.SelectedIDs, id)
}

func (s State) focusInLoupe() bool {
	return s.FocusedID != "" && slices.Contains(s.LoupeIDs, s.FocusedID)
}

// Action is a discrete UI event handled by [Reduce].
type Action interface {
	action()
}

// Click selects ID according to the held modifiers.
type Click struct {
	ID    string
	Meta  bool
	Shift bool
}

// DoubleClick opens the loupe over the full list focused on ID.
type DoubleClick struct {
	ID string
}

type DeselectAll struct{}

// EnterLoupe is SetLayout{Layout: models.Loupe}.
type EnterLoupe struct{}

type SetLayout struct {
	Layout models.PhotoLayout
}

// Scroll reports the live grid offset.
type Scroll struct {
	Position int
}

// DeleteFocusedLoupeItem drops the focused item from the loupe sequence.
type DeleteFocusedLoupeItem struct{}

// RemoveItems applies a confirmed deletion of IDs.
type RemoveItems struct {
	IDs []string
}

type NextLoupeItem struct{}

type PrevLoupeItem struct{}

type FocusLoupeItem struct {
	ID string
}

type SetGridColumns struct {
	Columns int
}

type SetSurveyZoom struct {
	Zoom float64
}

type ToggleMetadata struct{}

func (Click) action()                  {}
func (DoubleClick) action()            {}
func (DeselectAll) action()            {}
func (EnterLoupe) action()             {}
func (SetLayout) action()              {}
func (Scroll) action()                 {}
func (DeleteFocusedLoupeItem) action() {}
func (RemoveItems) action()            {}
func (NextLoupeItem) action()          {}
func (PrevLoupeItem) action()          {}
func (FocusLoupeItem) action()         {}
func (SetGridColumns) action()         {}
func (SetSurveyZoom) action()          {}
func (ToggleMetadata) action()         {}

// Reduce returns the state that follows s after a, given the canonical
// ordered ids. Neither s nor ids are modified.
func Reduce(s State, ids []string, a Action) State {
	s = s.Clone()

	switch a := a.(type) {
	case Click:
		return click(s, ids, a)
	case DoubleClick:
		s = setLayout(s, ids, models.Loupe)
		s.LoupeIDs = slices.Clone(ids)
		s.FocusedID = a.ID
	case DeselectAll:
		s.SelectedIDs = nil
		s.LastClickedID = ""
	case EnterLoupe:
		return setLayout(s, ids, models.Loupe)
	case SetLayout:
		return setLayout(s, ids, a.Layout)
	case Scroll:
		s.GridScroll = max(a.Position, 0)
	case DeleteFocusedLoupeItem:
		if !s.focusInLoupe() {
			return s
		}
		return removeFromLoupe(s, []string{s.FocusedID})
	case RemoveItems:
		s.SelectedIDs = nil
		s.LastClickedID = ""
		return removeFromLoupe(s, a.IDs)
	case NextLoupeItem:
		return stepLoupe(s, 1)
	case PrevLoupeItem:
		return stepLoupe(s, -1)
	case FocusLoupeItem:
		if slices.Contains(s.LoupeIDs, a.ID) {
			s.FocusedID = a.ID
		}
	case SetGridColumns:
		s.GridColumns = min(max(a.Columns, MinGridColumns), MaxGridColumns)
	case SetSurveyZoom:
		s.SurveyZoom = min(max(a.Zoom, MinSurveyZoom), MaxSurveyZoom)
	case ToggleMetadata:
		s.DisplayMetadata = !s.DisplayMetadata
	}
	return s
}

func click(s State, ids []string, c Click) State {
	if c.Shift {
		from := slices.Index(ids, s.LastClickedID)
		to := slices.Index(ids, c.ID)
		if s.LastClickedID != "" && from >= 0 && to >= 0 {
			if from > to {
				from, to = to, from
			}
			span := ids[from : to+1]
			if c.Meta {
				for _, id := range span {
					if !slices.Contains(s.SelectedIDs, id) {
						s.SelectedIDs = append(s.SelectedIDs, id)
					}
				}
			} else {
				s.SelectedIDs = slices.Clone(span)
			}
			return s
		}
	}

	if c.Meta {
		if i := slices.Index(s.SelectedIDs, c.ID); i >= 0 {
			s.SelectedIDs = slices.Delete(s.SelectedIDs, i, i+1)
		} else {
			s.SelectedIDs = append(s.SelectedIDs, c.ID)
		}
		s.LastClickedID = c.ID
		if len(s.SelectedIDs) == 0 {
			s.LastClickedID = ""
		}
		return s
	}

	s.SelectedIDs = []string{c.ID}
	s.LastClickedID = c.ID
	return s
}

func setLayout(s State, ids []string, layout models.PhotoLayout) State {
	if layout == s.Layout {
		return s
	}

	if layout == models.Loupe {
		switch len(s.SelectedIDs) {
		case 0:
			s.LoupeIDs = slices.Clone(ids)
			s.FocusedID = first(ids)
		case 1:
			s.LoupeIDs = slices.Clone(ids)
			s.FocusedID = s.SelectedIDs[0]
		default:
			s.LoupeIDs = slices.Clone(s.SelectedIDs)
			s.FocusedID = s.SelectedIDs[0]
		}
	}

	if s.Layout == models.Grid {
		s.ScrollPosition = s.GridScroll
		s.SelectedIDs = nil
		s.LastClickedID = ""
	}
	if layout == models.Grid {
		s.GridScroll = s.ScrollPosition
	}

	s.Layout = layout
	return s
}

// removeFromLoupe drops removed ids from the loupe. A removed focus moves to
// the next surviving item, else the previous one. An emptied loupe returns
// to the grid with no focus.
func removeFromLoupe(s State, removed []string) State {
	if len(removed) == 0 {
		return s
	}
	gone := func(id string) bool { return slices.Contains(removed, id) }

	focus := s.FocusedID
	if idx := slices.Index(s.LoupeIDs, focus); idx >= 0 && gone(focus) {
		focus = ""
		for _, id := range s.LoupeIDs[idx+1:] {
			if !gone(id) {
				focus = id
				break
			}
		}
		for i := idx - 1; focus == "" && i >= 0; i-- {
			if !gone(s.LoupeIDs[i]) {
				focus = s.LoupeIDs[i]
			}
		}
	}

	s.LoupeIDs = slices.DeleteFunc(s.LoupeIDs, gone)
	s.SelectedIDs = slices.DeleteFunc(s.SelectedIDs, gone)
	if gone(s.LastClickedID) {
		s.LastClickedID = ""
	}
	s.FocusedID = focus

	if len(s.LoupeIDs) == 0 {
		s.LoupeIDs = nil
		s.FocusedID = ""
		if s.Layout == models.Loupe {
			s.Layout = models.Grid
			s.GridScroll = s.ScrollPosition
		}
	}
	return s
}

func stepLoupe(s State, delta int) State {
	idx := slices.Index(s.LoupeIDs, s.FocusedID)
	if idx < 0 {
		return s
	}
	next := idx + delta
	if next >= 0 && next < len(s.LoupeIDs) {
		s.FocusedID = s.LoupeIDs[next]
	}
	return s
}

func first(ids []string) string {
	if len(ids) == 0 {
		return ""
	}
	return ids[0]
}

package selection

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/desertthunder/tedtagger/internal/models"
)

var xyz = []string{"x", "y", "z"}

func reduceAll(s State, ids []string, actions ...Action) State {
	for _, a := range actions {
		s = Reduce(s, ids, a)
	}
	return s
}

func TestClick(t *testing.T) {
	ids := []string{"a", "b", "c", "d", "e"}

	t.Run("plain click replaces selection", func(t *testing.T) {
		s := reduceAll(NewState(), ids, Click{ID: "a"}, Click{ID: "c"})
		assert.Equal(t, []string{"c"}, s.SelectedIDs)
		assert.Equal(t, "c", s.LastClickedID)
	})

	t.Run("meta click toggles membership", func(t *testing.T) {
		s := reduceAll(NewState(), ids, Click{ID: "a"}, Click{ID: "c", Meta: true})
		assert.Equal(t, []string{"a", "c"}, s.SelectedIDs)
		assert.Equal(t, "c", s.LastClickedID)

		s = Reduce(s, ids, Click{ID: "a", Meta: true})
		assert.Equal(t, []string{"c"}, s.SelectedIDs)
		assert.Equal(t, "a", s.LastClickedID)
	})

	t.Run("meta click emptying selection clears anchor", func(t *testing.T) {
		s := reduceAll(NewState(), ids, Click{ID: "b"}, Click{ID: "b", Meta: true})
		assert.Empty(t, s.SelectedIDs)
		assert.Equal(t, "", s.LastClickedID)
	})

	t.Run("shift click selects inclusive range in canonical order", func(t *testing.T) {
		s := reduceAll(NewState(), ids, Click{ID: "d"}, Click{ID: "b", Shift: true})
		assert.Equal(t, []string{"b", "c", "d"}, s.SelectedIDs)
		assert.Equal(t, "d", s.LastClickedID)

		s = Reduce(s, ids, Click{ID: "e", Shift: true})
		assert.Equal(t, []string{"d", "e"}, s.SelectedIDs)
	})

	t.Run("meta shift adds the range", func(t *testing.T) {
		s := reduceAll(NewState(), ids,
			Click{ID: "a"},
			Click{ID: "d", Meta: true},
			Click{ID: "e", Meta: true, Shift: true},
		)
		assert.Equal(t, []string{"a", "d", "e"}, s.SelectedIDs)
	})

	t.Run("shift click without anchor is a plain click", func(t *testing.T) {
		s := Reduce(NewState(), ids, Click{ID: "c", Shift: true})
		assert.Equal(t, []string{"c"}, s.SelectedIDs)
		assert.Equal(t, "c", s.LastClickedID)
	})

	t.Run("shift click with stale anchor is a plain click", func(t *testing.T) {
		s := NewState()
		s.SelectedIDs = []string{"gone"}
		s.LastClickedID = "gone"

		s = Reduce(s, ids, Click{ID: "b", Shift: true})
		assert.Equal(t, []string{"b"}, s.SelectedIDs)
	})

	t.Run("input state is not modified", func(t *testing.T) {
		s := Reduce(NewState(), ids, Click{ID: "a"})
		_ = Reduce(s, ids, Click{ID: "b", Meta: true})
		assert.Equal(t, []string{"a"}, s.SelectedIDs)
	})
}

func TestDeselectAll(t *testing.T) {
	s := reduceAll(NewState(), xyz, Click{ID: "x"}, Click{ID: "z", Meta: true}, DeselectAll{})
	assert.Empty(t, s.SelectedIDs)
	assert.Equal(t, "", s.LastClickedID)
}

func TestEnterLoupe(t *testing.T) {
	tt := []struct {
		name      string
		selection []Action
		wantLoupe []string
		wantFocus string
	}{
		{"empty selection", nil, []string{"x", "y", "z"}, "x"},
		{"single selection", []Action{Click{ID: "y"}}, []string{"x", "y", "z"}, "y"},
		{"multi selection", []Action{Click{ID: "x"}, Click{ID: "z", Meta: true}}, []string{"x", "z"}, "x"},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			s := reduceAll(NewState(), xyz, tc.selection...)
			s = Reduce(s, xyz, EnterLoupe{})

			assert.Equal(t, models.Loupe, s.Layout)
			assert.Equal(t, tc.wantLoupe, s.LoupeIDs)
			assert.Equal(t, tc.wantFocus, s.FocusedID)
			assert.Empty(t, s.SelectedIDs, "leaving the grid resets selection")
			assert.Equal(t, "", s.LastClickedID)
		})
	}

	t.Run("multi selection keeps insertion order", func(t *testing.T) {
		s := reduceAll(NewState(), xyz, Click{ID: "z"}, Click{ID: "x", Meta: true}, EnterLoupe{})
		assert.Equal(t, []string{"z", "x"}, s.LoupeIDs)
		assert.Equal(t, "z", s.FocusedID)
	})

	t.Run("empty library", func(t *testing.T) {
		s := Reduce(NewState(), nil, EnterLoupe{})
		assert.Equal(t, models.Loupe, s.Layout)
		assert.Empty(t, s.LoupeIDs)
		assert.Equal(t, "", s.FocusedID)
	})
}

func TestScrollCapture(t *testing.T) {
	s := reduceAll(NewState(), xyz, Scroll{Position: 420}, SetLayout{Layout: models.Survey})
	assert.Equal(t, 420, s.ScrollPosition)
	assert.Equal(t, models.Survey, s.Layout)

	s = reduceAll(s, xyz, SetLayout{Layout: models.Grid}, Scroll{Position: 10})
	assert.Equal(t, models.Grid, s.Layout)
	assert.Equal(t, 420, s.ScrollPosition)
	assert.Equal(t, 10, s.GridScroll)

	s = Reduce(s, xyz, DoubleClick{ID: "y"})
	assert.Equal(t, 10, s.ScrollPosition)
}

func TestSetLayoutSameLayoutIsNoop(t *testing.T) {
	s := reduceAll(NewState(), xyz, EnterLoupe{}, NextLoupeItem{}, EnterLoupe{})
	assert.Equal(t, "y", s.FocusedID)
}

func TestDoubleClick(t *testing.T) {
	s := reduceAll(NewState(), xyz, Click{ID: "x"}, Click{ID: "z", Meta: true}, DoubleClick{ID: "y"})

	assert.Equal(t, models.Loupe, s.Layout)
	assert.Equal(t, []string{"x", "y", "z"}, s.LoupeIDs)
	assert.Equal(t, "y", s.FocusedID)
	assert.Empty(t, s.SelectedIDs)
}

func TestDeleteFocusedLoupeItem(t *testing.T) {
	loupe := func(focus string, ids ...string) State {
		s := NewState()
		s.Layout = models.Loupe
		s.LoupeIDs = ids
		s.FocusedID = focus
		return s
	}

	t.Run("next preferred over previous", func(t *testing.T) {
		s := Reduce(loupe("y", "x", "y", "z"), xyz, DeleteFocusedLoupeItem{})
		assert.Equal(t, []string{"x", "z"}, s.LoupeIDs)
		assert.Equal(t, "z", s.FocusedID)
		assert.Equal(t, models.Loupe, s.Layout)
	})

	t.Run("last position falls back to previous", func(t *testing.T) {
		s := Reduce(loupe("z", "x", "y", "z"), xyz, DeleteFocusedLoupeItem{})
		assert.Equal(t, []string{"x", "y"}, s.LoupeIDs)
		assert.Equal(t, "y", s.FocusedID)
	})

	t.Run("single item closes the loupe", func(t *testing.T) {
		start := loupe("x", "x")
		start.ScrollPosition = 99

		s := Reduce(start, xyz, DeleteFocusedLoupeItem{})
		assert.Empty(t, s.LoupeIDs)
		assert.Equal(t, "", s.FocusedID)
		assert.Equal(t, models.Grid, s.Layout)
		assert.Equal(t, 99, s.GridScroll)
	})

	t.Run("focus outside loupe is a noop", func(t *testing.T) {
		start := loupe("", "x", "y")
		s := Reduce(start, xyz, DeleteFocusedLoupeItem{})
		assert.Equal(t, start, s)
	})
}

func TestRemoveItems(t *testing.T) {
	s := reduceAll(NewState(), xyz, Click{ID: "x"}, Click{ID: "y", Meta: true}, RemoveItems{IDs: []string{"x", "y"}})
	assert.Empty(t, s.SelectedIDs)
	assert.Equal(t, "", s.LastClickedID)

	s = NewState()
	s.Layout = models.Loupe
	s.LoupeIDs = []string{"x", "y", "z"}
	s.FocusedID = "x"
	s = Reduce(s, xyz, RemoveItems{IDs: []string{"x", "y"}})
	assert.Equal(t, []string{"z"}, s.LoupeIDs)
	assert.Equal(t, "z", s.FocusedID)
}

func TestLoupeNavigation(t *testing.T) {
	s := reduceAll(NewState(), xyz, EnterLoupe{}, PrevLoupeItem{})
	assert.Equal(t, "x", s.FocusedID)

	s = reduceAll(s, xyz, NextLoupeItem{}, NextLoupeItem{}, NextLoupeItem{})
	assert.Equal(t, "z", s.FocusedID)

	s = Reduce(s, xyz, FocusLoupeItem{ID: "y"})
	assert.Equal(t, "y", s.FocusedID)

	s = Reduce(s, xyz, FocusLoupeItem{ID: "missing"})
	assert.Equal(t, "y", s.FocusedID)
}

func TestViewOptions(t *testing.T) {
	s := NewState()
	assert.Equal(t, DefaultGridColumns, s.GridColumns)
	assert.Equal(t, MinSurveyZoom, s.SurveyZoom)

	assert.Equal(t, MaxGridColumns, Reduce(s, nil, SetGridColumns{Columns: 40}).GridColumns)
	assert.Equal(t, MinGridColumns, Reduce(s, nil, SetGridColumns{Columns: 0}).GridColumns)
	assert.Equal(t, 7, Reduce(s, nil, SetGridColumns{Columns: 7}).GridColumns)

	assert.Equal(t, MaxSurveyZoom, Reduce(s, nil, SetSurveyZoom{Zoom: 9}).SurveyZoom)
	assert.Equal(t, 2.5, Reduce(s, nil, SetSurveyZoom{Zoom: 2.5}).SurveyZoom)

	assert.True(t, Reduce(s, nil, ToggleMetadata{}).DisplayMetadata)
}

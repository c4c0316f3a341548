package selection

import (
	"slices"
	"sync"

	"github.com/desertthunder/tedtagger/internal/shared"
)

// ItemSource supplies the canonical ordered media item ids.
type ItemSource interface {
	MediaItemIDs() []string
}

// Controller owns a [State] and applies actions to it.
//
// Dispatch is safe for concurrent use. Subscribers run on the dispatching
// goroutine after the state is updated.
type Controller struct {
	mu     sync.Mutex
	state  State
	source ItemSource
	subs   map[int]func(State)
	nextID int
}

// NewController creates a Controller in the initial grid state.
func NewController(source ItemSource) *Controller {
	return &Controller{
		state:  NewState(),
		source: source,
		subs:   make(map[int]func(State)),
	}
}

// State returns a copy of the current state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Clone()
}

// Dispatch applies a and returns the resulting state.
func (c *Controller) Dispatch(a Action) State {
	ids := c.source.MediaItemIDs()
	next, _ := c.update(func(s State) (State, error) {
		return Reduce(s, ids, a), nil
	})
	return next
}

// update swaps in the state returned by fn and notifies subscribers. fn runs
// under the lock; an error leaves the state untouched.
func (c *Controller) update(fn func(State) (State, error)) (State, error) {
	c.mu.Lock()
	next, err := fn(c.state)
	if err != nil {
		c.mu.Unlock()
		return State{}, err
	}
	c.state = next
	next = next.Clone()
	subs := make([]func(State), 0, len(c.subs))
	for _, sub := range c.subs {
		subs = append(subs, sub)
	}
	c.mu.Unlock()

	for _, sub := range subs {
		sub(next.Clone())
	}
	return next, nil
}

// Subscribe registers fn for state changes and returns a function that removes it.
func (c *Controller) Subscribe(fn func(State)) func() {
	c.mu.Lock()
	defer c.mu.Unlock()

	id := c.nextID
	c.nextID++
	c.subs[id] = fn

	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		delete(c.subs, id)
	}
}

// IsSelected reports whether id is currently selected.
func (c *Controller) IsSelected(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.IsSelected(id)
}

// SelectedIDs returns the selection in insertion order.
func (c *Controller) SelectedIDs() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.state.SelectedIDs)
}

// FocusedLoupeID returns the focused item when it is part of the loupe.
func (c *Controller) FocusedLoupeID() (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.state.focusInLoupe() {
		return "", shared.ErrFocusNotInLoupe
	}
	return c.state.FocusedID, nil
}

// DeleteFocusedLoupeItem removes the focused item from the loupe and returns
// its id so the caller can issue the delete request. The focus is read and
// removed in one step.
func (c *Controller) DeleteFocusedLoupeItem() (string, error) {
	var removed string
	_, err := c.update(func(s State) (State, error) {
		if !s.focusInLoupe() {
			return s, shared.ErrFocusNotInLoupe
		}
		removed = s.FocusedID
		return removeFromLoupe(s.Clone(), []string{removed}), nil
	})
	if err != nil {
		return "", err
	}
	return removed, nil
}

// RemoveLoupeItem drops id from the loupe and the selection. Focus moves the
// same way as [DeleteFocusedLoupeItem] when id was focused. Ids outside the
// loupe are dropped from the selection only.
func (c *Controller) RemoveLoupeItem(id string) State {
	next, _ := c.update(func(s State) (State, error) {
		return removeFromLoupe(s.Clone(), []string{id}), nil
	})
	return next
}

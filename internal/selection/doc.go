// Package selection maintains media item selection and loupe navigation.
//
// [Reduce] is a pure transition function from a [State], the canonical
// ordered list of media item ids and an [Action] to the next State.
// [Controller] owns the current State, reads ids from an [ItemSource],
// dispatches actions and notifies subscribers.
//
// Grid selection is an insertion ordered set with a last clicked anchor:
//
//   - a plain click selects exactly the clicked item
//   - a meta click toggles membership
//   - a shift click selects the inclusive range between the anchor and the
//     clicked item in canonical order (meta+shift adds the range)
//
// Entering the loupe converts the selection into a navigable sequence.
// An empty selection or a single selected item navigates the full list; two
// or more selected items restrict navigation to exactly those items. Leaving
// the grid records the grid scroll offset and resets the selection.
//
// [ClickDebouncer] separates single clicks from double clicks with a
// cancellable scheduled callback.
package selection

package tasks

import (
	"slices"
	"sync"

	"github.com/desertthunder/tedtagger/internal/models"
)

// Library is the client's view of the backend media library.
//
// All methods are safe for concurrent use and return copies.
type Library struct {
	mu          sync.RWMutex
	items       []models.MediaItem
	deleted     []models.MediaItem
	folders     []string
	keywords    models.KeywordData
	takeouts    []models.Takeout
	initialized bool
}

// NewLibrary creates an empty, uninitialized Library.
func NewLibrary() *Library {
	return &Library{}
}

// SetMediaItems replaces the canonical list.
func (l *Library) SetMediaItems(items []models.MediaItem) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.items = slices.Clone(items)
}

// MediaItems returns the canonical list in display order.
func (l *Library) MediaItems() []models.MediaItem {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return slices.Clone(l.items)
}

// MediaItemIDs returns the canonical ids in display order.
func (l *Library) MediaItemIDs() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return models.MediaItemIDs(l.items)
}

// MediaItem looks up an item by unique id.
func (l *Library) MediaItem(id string) (models.MediaItem, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	for _, item := range l.items {
		if item.UniqueID == id {
			return item, true
		}
	}
	return models.MediaItem{}, false
}

// RemoveMediaItems drops ids from the canonical list and moves the removed
// items to the deleted bin. It returns how many items were moved.
func (l *Library) RemoveMediaItems(ids []string) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	moved := 0
	l.items = slices.DeleteFunc(l.items, func(item models.MediaItem) bool {
		if !slices.Contains(ids, item.UniqueID) {
			return false
		}
		l.deleted = append(l.deleted, item)
		moved++
		return true
	})
	return moved
}

// SetDeletedMediaItems replaces the deleted bin.
func (l *Library) SetDeletedMediaItems(items []models.MediaItem) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.deleted = slices.Clone(items)
}

// DeletedMediaItems returns the deleted bin.
func (l *Library) DeletedMediaItems() []models.MediaItem {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return slices.Clone(l.deleted)
}

// RemoveDeletedMediaItem drops id from the deleted bin.
func (l *Library) RemoveDeletedMediaItem(id string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.deleted = slices.DeleteFunc(l.deleted, func(item models.MediaItem) bool {
		return item.UniqueID == id
	})
}

// ClearDeletedMediaItems empties the deleted bin.
func (l *Library) ClearDeletedMediaItems() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.deleted = nil
}

// SetFolders replaces the local storage folder list.
func (l *Library) SetFolders(folders []string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.folders = slices.Clone(folders)
}

// Folders returns the local storage folders.
func (l *Library) Folders() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return slices.Clone(l.folders)
}

// SetKeywords replaces the keyword tree.
func (l *Library) SetKeywords(data models.KeywordData) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.keywords = data
}

// Keywords returns the keyword tree.
func (l *Library) Keywords() models.KeywordData {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.keywords
}

// KeywordLabels returns the keyword labels tagged on item.
func (l *Library) KeywordLabels(item models.MediaItem) []string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.keywords.Labels(item)
}

// SetTakeouts replaces the takeout list.
func (l *Library) SetTakeouts(takeouts []models.Takeout) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.takeouts = slices.Clone(takeouts)
}

// Takeouts returns the takeouts available for import.
func (l *Library) Takeouts() []models.Takeout {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return slices.Clone(l.takeouts)
}

func (l *Library) setInitialized() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.initialized = true
}

// Initialized reports whether [Loader.Load] completed.
func (l *Library) Initialized() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.initialized
}

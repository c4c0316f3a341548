package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"

	"github.com/desertthunder/tedtagger/internal/models"
)

var (
	_ list.Item = mediaItem{}
	_ list.Item = folderItem("")
)

// mediaItem wraps [models.MediaItem] to implement [list.Item].
type mediaItem struct {
	item models.MediaItem
}

func (i mediaItem) FilterValue() string { return i.item.FileName }
func (i mediaItem) Title() string       { return i.item.FileName }
func (i mediaItem) Description() string {
	desc := i.item.UniqueID
	if i.item.CreationTime != "" {
		desc = fmt.Sprintf("%s • %s", desc, i.item.CreationTime)
	}
	return desc
}

// folderItem is a local storage folder offered for import.
type folderItem string

func (f folderItem) FilterValue() string { return string(f) }
func (f folderItem) Title() string       { return string(f) }
func (f folderItem) Description() string { return "local storage folder" }

func mediaListItems(items []models.MediaItem) []list.Item {
	out := make([]list.Item, len(items))
	for i, item := range items {
		out[i] = mediaItem{item: item}
	}
	return out
}

func folderListItems(folders []string) []list.Item {
	out := make([]list.Item, len(folders))
	for i, f := range folders {
		out[i] = folderItem(f)
	}
	return out
}

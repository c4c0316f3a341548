package tasks

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/tedtagger/internal/shared"
)

const loadSteps = 6

// Loader fills a [Library] from the backend.
type Loader struct {
	client  MediaClient
	cache   MediaCache
	library *Library
	logger  *log.Logger
}

// NewLoader creates a Loader. cache and logger may be nil.
func NewLoader(client MediaClient, cache MediaCache, library *Library, logger *log.Logger) *Loader {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Loader{client: client, cache: cache, library: library, logger: logger}
}

// Load runs the startup pipeline: keywords, takeouts, folders, media items,
// deleted media items, initialized. Only a media item failure without a
// cached list stops it.
func (l *Loader) Load(ctx context.Context, progress chan<- ProgressUpdate) error {
	sendProgress(progress, loadStepUpdate(LoadKeywords, 1, "Loading keywords..."))
	if keywords, err := l.client.Keywords(ctx); err != nil {
		l.logger.Warn("failed to load keywords", "error", err)
	} else {
		l.library.SetKeywords(keywords)
	}

	sendProgress(progress, loadStepUpdate(LoadTakeouts, 2, "Loading takeouts..."))
	if takeouts, err := l.client.Takeouts(ctx); err != nil {
		l.logger.Warn("failed to load takeouts", "error", err)
	} else {
		l.library.SetTakeouts(takeouts)
	}

	sendProgress(progress, loadStepUpdate(LoadFolders, 3, "Loading local storage folders..."))
	if folders, err := l.client.LocalDriveImportFolders(ctx); err != nil {
		l.logger.Warn("failed to load local storage folders", "error", err)
	} else {
		l.library.SetFolders(folders)
	}

	sendProgress(progress, loadStepUpdate(LoadMediaItems, 4, "Loading media items..."))
	if err := l.loadMediaItems(ctx); err != nil {
		return err
	}

	sendProgress(progress, loadStepUpdate(LoadDeletedMediaItems, 5, "Loading deleted media items..."))
	if deleted, err := l.client.DeletedMediaItems(ctx); err != nil {
		l.logger.Warn("failed to load deleted media items", "error", err)
	} else {
		l.library.SetDeletedMediaItems(deleted)
	}

	l.library.setInitialized()
	sendProgress(progress, loadStepUpdate(Initialized, 6, fmt.Sprintf("Loaded %d media items", len(l.library.MediaItemIDs()))))
	return nil
}

// LoadCached fills the library from the cache only.
func (l *Loader) LoadCached() error {
	if l.cache == nil {
		return fmt.Errorf("%w: no media cache", shared.ErrMissingConfig)
	}

	items, err := l.cache.List()
	if err != nil {
		return err
	}
	l.library.SetMediaItems(items)
	l.library.setInitialized()
	return nil
}

func (l *Loader) loadMediaItems(ctx context.Context) error {
	items, err := l.client.MediaItems(ctx)
	if err == nil {
		l.library.SetMediaItems(items)
		if l.cache != nil {
			if err := l.cache.ReplaceAll(items); err != nil {
				l.logger.Warn("failed to cache media items", "error", err)
			}
		}
		return nil
	}

	l.logger.Error("failed to load media items", "error", err)
	if l.cache == nil {
		return err
	}

	cached, cacheErr := l.cache.List()
	if cacheErr != nil || len(cached) == 0 {
		return err
	}

	l.logger.Warn("using cached media items", "count", len(cached))
	l.library.SetMediaItems(cached)
	return nil
}

package tasks

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/tedtagger/internal/models"
	"github.com/desertthunder/tedtagger/internal/selection"
	"github.com/desertthunder/tedtagger/internal/session"
	"github.com/desertthunder/tedtagger/internal/shared"
)

// MediaClient is the subset of services.MediaService the tasks depend on.
type MediaClient interface {
	MediaItems(ctx context.Context) ([]models.MediaItem, error)
	DeletedMediaItems(ctx context.Context) ([]models.MediaItem, error)
	LocalDriveImportFolders(ctx context.Context) ([]string, error)
	Keywords(ctx context.Context) (models.KeywordData, error)
	Takeouts(ctx context.Context) ([]models.Takeout, error)
	DeleteMediaItems(ctx context.Context, ids []string) error
	RedownloadMediaItem(ctx context.Context, id string) error
	UploadToGoogle(ctx context.Context, accessToken, albumName string, ids []string) error
	UploadRawMedia(ctx context.Context, files []string, albumName string) error
	MergePeople(ctx context.Context, files []string) error
	ImportFromLocalStorage(ctx context.Context, folder string) error
	ImportFromTakeout(ctx context.Context, id string) error
	RemoveDeletedMediaItem(ctx context.Context, id string) error
	ClearDeletedMediaItems(ctx context.Context) error
}

// MediaCache persists the last loaded media item list.
//
// repositories.MediaItemRepository implements it.
type MediaCache interface {
	ReplaceAll(items []models.MediaItem) error
	List() ([]models.MediaItem, error)
	Delete(ids []string) error
}

// SessionReader reads the persisted session.
type SessionReader interface {
	Session() (models.Session, error)
}

// Result is the user-facing outcome of an action.
type Result struct {
	OK      bool
	Message string
	Err     error
}

func success(format string, args ...any) Result {
	return Result{OK: true, Message: fmt.Sprintf(format, args...)}
}

func failure(err error) Result {
	return Result{Message: err.Error(), Err: err}
}

// EngineOpts configures an [Engine]. Zero values use defaults.
type EngineOpts struct {
	Client    MediaClient
	Library   *Library
	Cache     MediaCache            // optional
	Selection *selection.Controller // required by the selection based actions
	Session   SessionReader         // required by UploadToGoogle
	Logger    *log.Logger
	AlbumName string
	Workers   int
	RateLimit float64 // requests per second
	Now       func() time.Time
}

// Engine runs toolbar actions against the backend and keeps the library in step.
type Engine struct {
	client    MediaClient
	library   *Library
	cache     MediaCache
	selection *selection.Controller
	session   SessionReader
	logger    *log.Logger
	albumName string
	workers   int
	rateLimit float64
	now       func() time.Time
}

// NewEngine creates an Engine.
func NewEngine(opts EngineOpts) *Engine {
	e := &Engine{
		client:    opts.Client,
		library:   opts.Library,
		cache:     opts.Cache,
		selection: opts.Selection,
		session:   opts.Session,
		logger:    opts.Logger,
		albumName: opts.AlbumName,
		workers:   opts.Workers,
		rateLimit: opts.RateLimit,
		now:       opts.Now,
	}
	if e.library == nil {
		e.library = NewLibrary()
	}
	if e.logger == nil {
		e.logger = log.New(io.Discard)
	}
	if e.albumName == "" {
		e.albumName = "testAlbum"
	}
	if e.workers <= 0 {
		e.workers = 4
	}
	if e.workers > 10 {
		e.workers = 10
	}
	if e.rateLimit <= 0 {
		e.rateLimit = 4.0
	}
	if e.now == nil {
		e.now = time.Now
	}
	return e
}

// Library returns the library the engine updates.
func (e *Engine) Library() *Library { return e.library }

// Delete moves ids to the deleted bin as one batch.
//
// The batch either succeeds or fails as a whole.
func (e *Engine) Delete(ctx context.Context, ids []string) Result {
	if len(ids) == 0 {
		return failure(shared.ErrEmptySelection)
	}

	if err := e.client.DeleteMediaItems(ctx, ids); err != nil {
		e.logger.Error("delete failed", "count", len(ids), "error", err)
		return failure(err)
	}

	e.library.RemoveMediaItems(ids)
	if e.cache != nil {
		if err := e.cache.Delete(ids); err != nil {
			e.logger.Warn("failed to update media cache", "error", err)
		}
	}

	e.logger.Info("deleted media items", "count", len(ids))
	return success("Deleted %d media item(s)", len(ids))
}

// DeleteSelected deletes the current grid selection and clears it on success.
func (e *Engine) DeleteSelected(ctx context.Context) Result {
	if e.selection == nil {
		return failure(fmt.Errorf("%w: no selection controller", shared.ErrServiceUnavailable))
	}
	return e.DeleteItems(ctx, e.selection.SelectedIDs())
}

// DeleteItems deletes exactly ids and clears the selection on success.
func (e *Engine) DeleteItems(ctx context.Context, ids []string) Result {
	if e.selection == nil {
		return failure(fmt.Errorf("%w: no selection controller", shared.ErrServiceUnavailable))
	}

	res := e.Delete(ctx, ids)
	if res.OK {
		e.selection.Dispatch(selection.RemoveItems{IDs: ids})
	}
	return res
}

// DeleteFocusedLoupeItem deletes the item focused in the loupe.
func (e *Engine) DeleteFocusedLoupeItem(ctx context.Context) Result {
	if e.selection == nil {
		return failure(fmt.Errorf("%w: no selection controller", shared.ErrServiceUnavailable))
	}

	id, err := e.selection.FocusedLoupeID()
	if err != nil {
		return failure(err)
	}
	return e.DeleteLoupeItem(ctx, id)
}

// DeleteLoupeItem deletes id on the backend, then drops it from the loupe,
// moving focus to the next item (else the previous one).
//
// A failed request leaves the loupe and the library untouched.
func (e *Engine) DeleteLoupeItem(ctx context.Context, id string) Result {
	if e.selection == nil {
		return failure(fmt.Errorf("%w: no selection controller", shared.ErrServiceUnavailable))
	}
	if id == "" {
		return failure(shared.ErrFocusNotInLoupe)
	}

	res := e.Delete(ctx, []string{id})
	if res.OK {
		e.selection.RemoveLoupeItem(id)
	}
	return res
}

// Redownload asks the backend to fetch the first selected item again.
func (e *Engine) Redownload(ctx context.Context) Result {
	if e.selection == nil {
		return failure(fmt.Errorf("%w: no selection controller", shared.ErrServiceUnavailable))
	}

	ids := e.selection.SelectedIDs()
	if len(ids) == 0 {
		return failure(shared.ErrEmptySelection)
	}
	return e.RedownloadOne(ctx, ids[0])
}

// RedownloadOne asks the backend to fetch id again.
func (e *Engine) RedownloadOne(ctx context.Context, id string) Result {
	if err := e.client.RedownloadMediaItem(ctx, id); err != nil {
		e.logger.Error("redownload failed", "id", id, "error", err)
		return failure(err)
	}
	return success("Redownloaded %s", id)
}

// UploadRawMedia uploads the .jpg, .jpeg and .heic files under dir.
func (e *Engine) UploadRawMedia(ctx context.Context, dir string, progress chan<- ProgressUpdate) Result {
	files, err := shared.CollectFiles(dir, shared.RawMediaExtensions)
	if err != nil {
		return failure(err)
	}

	sendProgress(progress, uploadUpdate(len(files), e.albumName))
	if err := e.client.UploadRawMedia(ctx, files, e.albumName); err != nil {
		e.logger.Error("raw media upload failed", "dir", dir, "error", err)
		return failure(err)
	}
	return success("Uploaded %d file(s) to %s", len(files), e.albumName)
}

// UploadToGoogle uploads ids to albumName with the stored Google token.
//
// An empty albumName uses the configured default.
func (e *Engine) UploadToGoogle(ctx context.Context, albumName string, ids []string) Result {
	if len(ids) == 0 {
		return failure(shared.ErrEmptySelection)
	}
	if albumName == "" {
		albumName = e.albumName
	}
	if e.session == nil {
		return failure(shared.ErrNotAuthenticated)
	}

	sess, err := e.session.Session()
	if err != nil {
		return failure(fmt.Errorf("%w: %v", shared.ErrAuthResolution, err))
	}
	if session.IsTokenExpired(sess.AccessToken, sess.TokenExpiration, e.now()) {
		return failure(fmt.Errorf("%w: googleAccessToken is invalid", shared.ErrNotAuthenticated))
	}

	if err := e.client.UploadToGoogle(ctx, sess.AccessToken, albumName, ids); err != nil {
		e.logger.Error("google upload failed", "album", albumName, "error", err)
		return failure(err)
	}
	return success("Uploaded %d media item(s) to Google Photos album %s", len(ids), albumName)
}

// UploadSelectedToGoogle uploads the grid selection.
func (e *Engine) UploadSelectedToGoogle(ctx context.Context, albumName string) Result {
	if e.selection == nil {
		return failure(fmt.Errorf("%w: no selection controller", shared.ErrServiceUnavailable))
	}
	return e.UploadToGoogle(ctx, albumName, e.selection.SelectedIDs())
}

// MergePeople uploads the Google Takeout people .json files under dir.
func (e *Engine) MergePeople(ctx context.Context, dir string) Result {
	files, err := shared.CollectFiles(dir, shared.PeopleTakeoutExtensions)
	if err != nil {
		return failure(err)
	}

	if err := e.client.MergePeople(ctx, files); err != nil {
		e.logger.Error("merge people failed", "dir", dir, "error", err)
		return failure(err)
	}
	return success("Merged people from %d file(s)", len(files))
}

// ImportFromLocalStorage imports a backend local storage folder.
func (e *Engine) ImportFromLocalStorage(ctx context.Context, folder string) Result {
	if folder == "" {
		return failure(fmt.Errorf("%w: folder is required", shared.ErrInvalidInput))
	}

	if err := e.client.ImportFromLocalStorage(ctx, folder); err != nil {
		e.logger.Error("import failed", "folder", folder, "error", err)
		return failure(err)
	}
	return success("Imported %s", folder)
}

// ImportFromTakeout imports a Google Takeout export, then refreshes the
// keyword tree and the media items so the imported items show up.
func (e *Engine) ImportFromTakeout(ctx context.Context, id string) Result {
	if id == "" {
		return failure(fmt.Errorf("%w: takeout id is required", shared.ErrInvalidInput))
	}

	if err := e.client.ImportFromTakeout(ctx, id); err != nil {
		e.logger.Error("takeout import failed", "takeout", id, "error", err)
		return failure(err)
	}

	if keywords, err := e.client.Keywords(ctx); err != nil {
		e.logger.Warn("failed to refresh keywords", "error", err)
	} else {
		e.library.SetKeywords(keywords)
	}

	items, err := e.client.MediaItems(ctx)
	if err != nil {
		e.logger.Warn("failed to refresh media items", "error", err)
		return success("Imported takeout %s", e.takeoutLabel(id))
	}
	added := len(items) - len(e.library.MediaItemIDs())
	e.library.SetMediaItems(items)
	if e.cache != nil {
		if err := e.cache.ReplaceAll(items); err != nil {
			e.logger.Warn("failed to update media cache", "error", err)
		}
	}
	return success("Imported takeout %s (%d new media item(s))", e.takeoutLabel(id), max(added, 0))
}

func (e *Engine) takeoutLabel(id string) string {
	for _, t := range e.library.Takeouts() {
		if t.ID == id && t.Label != "" {
			return t.Label
		}
	}
	return id
}

// RemoveDeletedMediaItem permanently removes id from the deleted bin.
func (e *Engine) RemoveDeletedMediaItem(ctx context.Context, id string) Result {
	if id == "" {
		return failure(fmt.Errorf("%w: media item id is required", shared.ErrInvalidInput))
	}

	if err := e.client.RemoveDeletedMediaItem(ctx, id); err != nil {
		return failure(err)
	}
	e.library.RemoveDeletedMediaItem(id)
	return success("Removed %s", id)
}

// ClearDeletedMediaItems empties the deleted bin.
func (e *Engine) ClearDeletedMediaItems(ctx context.Context) Result {
	if err := e.client.ClearDeletedMediaItems(ctx); err != nil {
		return failure(err)
	}
	e.library.ClearDeletedMediaItems()
	return success("Cleared deleted media items")
}

// IsEmptySelection reports whether res failed because nothing was selected.
func IsEmptySelection(res Result) bool {
	return errors.Is(res.Err, shared.ErrEmptySelection)
}

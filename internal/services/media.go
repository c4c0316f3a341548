package services

import (
	"context"
	"fmt"
	"net/http"

	"github.com/desertthunder/tedtagger/internal/models"
	"github.com/desertthunder/tedtagger/internal/shared"
)

// MediaService calls the media endpoints of the backend API.
type MediaService struct {
	api *APIService
}

// NewMediaService creates a MediaService. apiURL is the API root, e.g.
// http://localhost:8080/api/v1/, and client should carry the bearer token.
func NewMediaService(apiURL string, client *http.Client) *MediaService {
	return &MediaService{api: NewAPIService(apiURL, client)}
}

// MediaItems lists the library in display order.
func (s *MediaService) MediaItems(ctx context.Context) ([]models.MediaItem, error) {
	return s.listItems(ctx, "mediaItems")
}

// DeletedMediaItems lists items in the deleted bin.
func (s *MediaService) DeletedMediaItems(ctx context.Context) ([]models.MediaItem, error) {
	return s.listItems(ctx, "deletedMediaItems")
}

// LocalDriveImportFolders lists folders the backend can import from.
func (s *MediaService) LocalDriveImportFolders(ctx context.Context) ([]string, error) {
	resp, err := s.api.Get(ctx, "localDriveImportFolders")
	if err != nil {
		return nil, err
	}
	if err := resp.Err(); err != nil {
		return nil, err
	}

	folders := []string{}
	if err := resp.Decode(&folders); err != nil {
		return nil, err
	}
	return folders, nil
}

// Keywords fetches the keyword tree.
func (s *MediaService) Keywords(ctx context.Context) (models.KeywordData, error) {
	var data models.KeywordData
	resp, err := s.api.Get(ctx, "keywords")
	if err != nil {
		return data, err
	}
	if err := resp.Err(); err != nil {
		return data, err
	}
	if err := resp.Decode(&data); err != nil {
		return data, err
	}
	return data, nil
}

// Takeouts lists the Google Takeout exports the backend knows about.
func (s *MediaService) Takeouts(ctx context.Context) ([]models.Takeout, error) {
	resp, err := s.api.Get(ctx, "takeouts")
	if err != nil {
		return nil, err
	}
	if err := resp.Err(); err != nil {
		return nil, err
	}

	takeouts := []models.Takeout{}
	if err := resp.Decode(&takeouts); err != nil {
		return nil, err
	}
	return takeouts, nil
}

// ImportFromTakeout imports the media items of the takeout with id.
func (s *MediaService) ImportFromTakeout(ctx context.Context, id string) error {
	return s.post(ctx, "importFromTakeout", map[string]any{"id": id}, nil)
}

// DeleteMediaItems moves ids to the deleted bin as one batch.
func (s *MediaService) DeleteMediaItems(ctx context.Context, ids []string) error {
	return s.post(ctx, "deleteMediaItems", map[string]any{"mediaItemIds": ids}, shared.ErrDeleteFailed)
}

// RedownloadMediaItem asks the backend to fetch id again from Google Photos.
func (s *MediaService) RedownloadMediaItem(ctx context.Context, id string) error {
	return s.post(ctx, "redownloadMediaItem", map[string]any{"id": id}, nil)
}

// UploadToGoogle uploads ids to the named Google Photos album.
func (s *MediaService) UploadToGoogle(ctx context.Context, accessToken, albumName string, ids []string) error {
	body := map[string]any{
		"googleAccessToken": accessToken,
		"albumName":         albumName,
		"mediaItemIds":      ids,
	}
	return s.post(ctx, "uploadToGoogle", body, shared.ErrUploadFailed)
}

// UploadRawMedia uploads image files into albumName.
func (s *MediaService) UploadRawMedia(ctx context.Context, files []string, albumName string) error {
	resp, err := s.api.PostMultipart(ctx, "uploadRawMedia", files, map[string]string{"albumName": albumName})
	return check(resp, err, shared.ErrUploadFailed)
}

// MergePeople uploads Google Takeout people metadata files.
func (s *MediaService) MergePeople(ctx context.Context, files []string) error {
	resp, err := s.api.PostMultipart(ctx, "mergePeople", files, nil)
	return check(resp, err, nil)
}

// ImportFromLocalStorage imports the named backend folder.
func (s *MediaService) ImportFromLocalStorage(ctx context.Context, folder string) error {
	return s.post(ctx, "importFromLocalStorage", map[string]any{"folder": folder}, nil)
}

// RemoveDeletedMediaItem permanently removes id from the deleted bin.
func (s *MediaService) RemoveDeletedMediaItem(ctx context.Context, id string) error {
	return s.post(ctx, "removeDeletedMediaItem", map[string]any{"mediaItemId": id}, shared.ErrDeleteFailed)
}

// ClearDeletedMediaItems empties the deleted bin.
func (s *MediaService) ClearDeletedMediaItems(ctx context.Context) error {
	return s.post(ctx, "clearDeletedMediaItems", map[string]any{}, shared.ErrDeleteFailed)
}

func (s *MediaService) listItems(ctx context.Context, path string) ([]models.MediaItem, error) {
	resp, err := s.api.Get(ctx, path)
	if err != nil {
		return nil, err
	}
	if err := resp.Err(); err != nil {
		return nil, err
	}

	items := []models.MediaItem{}
	if err := resp.Decode(&items); err != nil {
		return nil, err
	}
	return items, nil
}

func (s *MediaService) post(ctx context.Context, path string, body any, kind error) error {
	resp, err := s.api.PostJSON(ctx, path, body)
	return check(resp, err, kind)
}

// check folds transport and status failures into one error, wrapped with kind when set.
func check(resp *APIResponse, err error, kind error) error {
	if err == nil {
		err = resp.Err()
	}
	if err == nil {
		return nil
	}
	if kind != nil {
		return fmt.Errorf("%w: %w", kind, err)
	}
	return err
}

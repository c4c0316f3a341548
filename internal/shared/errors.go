package shared

import "fmt"

var (
	ErrNotImplemented = fmt.Errorf("not implemented")

	// Configuration errors
	ErrMissingConfig = fmt.Errorf("configuration not found")
	ErrInvalidConfig = fmt.Errorf("invalid configuration")

	// Authentication errors
	ErrAuthResolution   = fmt.Errorf("no valid access token could be obtained")
	ErrAuthFailed       = fmt.Errorf("authentication failed")
	ErrNotAuthenticated = fmt.Errorf("not authenticated")
	ErrTokenExpired     = fmt.Errorf("access token expired")
	ErrRefreshFailed    = fmt.Errorf("token refresh failed")
	ErrNoGoogleID       = fmt.Errorf("no google id stored")

	// API and service errors
	ErrAPIRequest         = fmt.Errorf("API request failed")
	ErrServiceUnavailable = fmt.Errorf("service unavailable")
	ErrTimeout            = fmt.Errorf("operation timed out")
	ErrUploadFailed       = fmt.Errorf("upload failed")
	ErrDeleteFailed       = fmt.Errorf("delete failed")
	ErrMediaItemNotFound  = fmt.Errorf("media item not found")

	// Selection errors
	ErrEmptySelection  = fmt.Errorf("no media items selected")
	ErrFocusNotInLoupe = fmt.Errorf("focused media item is not in the loupe view")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
	ErrNoFiles         = fmt.Errorf("no matching files found")
)

package shared

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

var (
	// RawMediaExtensions are the file types accepted by the raw media upload.
	RawMediaExtensions = []string{".jpg", ".jpeg", ".heic"}
	// PeopleTakeoutExtensions are the file types accepted by the merge people upload.
	PeopleTakeoutExtensions = []string{".json"}
)

// HasExtension reports whether name ends in one of the allowed extensions, ignoring case.
func HasExtension(name string, allowed []string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	if ext == "" {
		return false
	}
	return slices.Contains(allowed, ext)
}

// CollectFiles walks dir and returns the paths of regular files with an allowed extension, in lexical order.
func CollectFiles(dir string, allowed []string) ([]string, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to stat %s: %w", dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", ErrInvalidArgument, dir)
	}

	var files []string
	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.Type().IsRegular() && HasExtension(d.Name(), allowed) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk %s: %w", dir, err)
	}

	if len(files) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoFiles, dir)
	}
	return files, nil
}

// VerifyAndReadFile checks that path is a readable regular file and returns its contents.
func VerifyAndReadFile(path string) ([]byte, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: file path", ErrMissingArgument)
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: %s is a directory", ErrInvalidInput, path)
	}

	return os.ReadFile(path)
}

// ValidateJSON returns an error when data is not valid JSON.
func ValidateJSON(data []byte) error {
	if !json.Valid(data) {
		return fmt.Errorf("%w: data is not valid JSON", ErrInvalidInput)
	}
	return nil
}

// MarshalJSON encodes v, indenting when pretty is set.
func MarshalJSON(v any, pretty bool) ([]byte, error) {
	if pretty {
		return json.MarshalIndent(v, "", "  ")
	}
	return json.Marshal(v)
}

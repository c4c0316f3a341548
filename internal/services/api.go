// API service for making raw HTTP requests to the TedTagger backend
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/desertthunder/tedtagger/internal/shared"
)

// APIService provides methods for making raw HTTP requests to the backend.
type APIService struct {
	baseURL    string
	httpClient *http.Client
}

// NewAPIService creates a new API service instance rooted at baseURL.
func NewAPIService(baseURL string, client *http.Client) *APIService {
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}
	if client == nil {
		client = http.DefaultClient
	}

	return &APIService{
		baseURL:    baseURL,
		httpClient: client,
	}
}

// APIResponse represents a raw API response with status and body.
type APIResponse struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
	IsJSON     bool
	JSONData   any
}

// OK reports whether the status is 2xx.
func (r *APIResponse) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// Err returns nil for a 2xx response and an [shared.ErrAPIRequest] carrying
// the response text otherwise.
func (r *APIResponse) Err() error {
	if r.OK() {
		return nil
	}
	text := strings.TrimSpace(string(r.Body))
	if text == "" {
		text = http.StatusText(r.StatusCode)
	}
	return fmt.Errorf("%w: status %d: %s", shared.ErrAPIRequest, r.StatusCode, text)
}

// Decode unmarshals a JSON body into v.
func (r *APIResponse) Decode(v any) error {
	if err := json.Unmarshal(r.Body, v); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// Get performs a GET request to the specified path and returns the raw response.
func (a *APIService) Get(ctx context.Context, path string) (*APIResponse, error) {
	return a.Do(ctx, http.MethodGet, path, nil, nil)
}

// Post performs a POST request with the given JSON data and returns the raw response.
func (a *APIService) Post(ctx context.Context, path string, data []byte) (*APIResponse, error) {
	header := http.Header{"Content-Type": {"application/json"}}
	return a.Do(ctx, http.MethodPost, path, bytes.NewReader(data), header)
}

// PostJSON marshals v and posts it to path.
func (a *APIService) PostJSON(ctx context.Context, path string, v any) (*APIResponse, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}
	return a.Post(ctx, path, data)
}

// PostMultipart uploads files under the "files" field together with fields.
func (a *APIService) PostMultipart(ctx context.Context, path string, files []string, fields map[string]string) (*APIResponse, error) {
	var body bytes.Buffer
	w := multipart.NewWriter(&body)

	for _, file := range files {
		if err := addFormFile(w, file); err != nil {
			return nil, err
		}
	}
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			return nil, fmt.Errorf("failed to write field %s: %w", k, err)
		}
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("failed to finish multipart body: %w", err)
	}

	header := http.Header{"Content-Type": {w.FormDataContentType()}}
	return a.Do(ctx, http.MethodPost, path, &body, header)
}

// Do sends a request and reads the whole response.
//
// A transport failure wraps [shared.ErrServiceUnavailable]; any HTTP status is
// returned as a response.
func (a *APIService) Do(ctx context.Context, method, path string, body io.Reader, header http.Header) (*APIResponse, error) {
	fullURL := a.baseURL + path

	req, err := http.NewRequestWithContext(ctx, method, fullURL, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	for k, values := range header {
		for _, v := range values {
			req.Header.Add(k, v)
		}
	}

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: request failed: %w", shared.ErrServiceUnavailable, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	apiResp := &APIResponse{
		StatusCode: resp.StatusCode,
		Headers:    resp.Header,
		Body:       data,
	}

	var jsonData any
	if err := json.Unmarshal(data, &jsonData); err == nil {
		apiResp.IsJSON = true
		apiResp.JSONData = jsonData
	}

	return apiResp, nil
}

func addFormFile(w *multipart.Writer, file string) error {
	f, err := os.Open(file)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", file, err)
	}
	defer f.Close()

	part, err := w.CreateFormFile("files", filepath.Base(file))
	if err != nil {
		return fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := io.Copy(part, f); err != nil {
		return fmt.Errorf("failed to copy %s: %w", file, err)
	}
	return nil
}

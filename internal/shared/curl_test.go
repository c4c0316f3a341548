package shared

import (
	"os"
	"path/filepath"
	"testing"
)

func TestParseCurlCommand(t *testing.T) {
	tt := []struct {
		name        string
		curlCmd     string
		wantHeaders map[string]string
		wantCookie  string
		wantErr     bool
	}{
		{
			name:        "single header with single quotes",
			curlCmd:     `curl -H 'Accept: application/json' http://localhost:8080/auth/token`,
			wantHeaders: map[string]string{"Accept": "application/json"},
		},
		{
			name:        "single header with double quotes",
			curlCmd:     `curl -H "Accept: application/json" http://localhost:8080/auth/token`,
			wantHeaders: map[string]string{"Accept": "application/json"},
		},
		{
			name:        "cookie header is separated from regular headers",
			curlCmd:     `curl -H 'Cookie: connect.sid=abc123' -H 'Accept: */*' http://localhost:8080/auth/token`,
			wantHeaders: map[string]string{"Accept": "*/*"},
			wantCookie:  "connect.sid=abc123",
		},
		{
			name:        "-b cookie takes precedence over -H cookie",
			curlCmd:     `curl -H 'Cookie: old=value' -b 'new=value' http://localhost:8080/auth/token`,
			wantHeaders: map[string]string{},
			wantCookie:  "new=value",
		},
		{
			name: "multiline curl with backslashes",
			curlCmd: `curl 'http://localhost:8080/auth/token' \
  -H 'accept: */*' \
  -b 'connect.sid=s%3Axyz; theme=dark'`,
			wantHeaders: map[string]string{"accept": "*/*"},
			wantCookie:  "connect.sid=s%3Axyz; theme=dark",
		},
		{
			name:    "no headers or cookies",
			curlCmd: `curl http://localhost:8080/auth/token`,
			wantErr: true,
		},
		{
			name:    "empty command",
			curlCmd: "",
			wantErr: true,
		},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			result, err := ParseCurlCommand(tc.curlCmd)

			if (err != nil) != tc.wantErr {
				t.Fatalf("ParseCurlCommand() error = %v, wantErr %v", err, tc.wantErr)
			}
			if tc.wantErr {
				return
			}

			if len(result.Headers) != len(tc.wantHeaders) {
				t.Errorf("headers count = %v, want %v", len(result.Headers), len(tc.wantHeaders))
			}
			for key, want := range tc.wantHeaders {
				if got := result.Headers[key]; got != want {
					t.Errorf("header[%s] = %v, want %v", key, got, want)
				}
			}
			if result.Cookie != tc.wantCookie {
				t.Errorf("cookie = %v, want %v", result.Cookie, tc.wantCookie)
			}
		})
	}
}

func TestCurlHeaders_CookieValue(t *testing.T) {
	h := &CurlHeaders{Cookie: "connect.sid=abc; theme=dark"}

	if got := h.CookieValue("theme"); got != "dark" {
		t.Errorf("CookieValue(theme) = %q", got)
	}
	if got := h.CookieValue("missing"); got != "" {
		t.Errorf("CookieValue(missing) = %q", got)
	}
}

func TestParseCurlFile(t *testing.T) {
	t.Run("successful file parse", func(t *testing.T) {
		curlFile := filepath.Join(t.TempDir(), "curl.sh")
		if err := os.WriteFile(curlFile, []byte(`curl -b 'connect.sid=abc' http://localhost:8080`), 0644); err != nil {
			t.Fatalf("failed to create test file: %v", err)
		}

		result, err := ParseCurlFile(curlFile)
		if err != nil {
			t.Fatalf("ParseCurlFile() error = %v", err)
		}
		if result.Cookie != "connect.sid=abc" {
			t.Errorf("cookie = %q", result.Cookie)
		}
	})

	t.Run("file does not exist", func(t *testing.T) {
		if _, err := ParseCurlFile("/nonexistent/file.sh"); err == nil {
			t.Error("expected error for nonexistent file")
		}
	})
}

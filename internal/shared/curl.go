// Utilities for parsing cURL commands copied from browser DevTools.
package shared

import (
	"fmt"
	"os"
	"regexp"
	"strings"
)

var (
	curlHeaderRegex = regexp.MustCompile(`-H\s+'([^']+)'|-H\s+"([^"]+)"`)
	curlCookieRegex = regexp.MustCompile(`(?:-b|--cookie)\s+'([^']+)'|(?:-b|--cookie)\s+"([^"]+)"`)
)

// CurlHeaders represents parsed headers and cookies from a cURL command.
type CurlHeaders struct {
	Headers map[string]string
	Cookie  string
}

// ParseCurlFile reads a .sh file containing a cURL command and extracts headers.
func ParseCurlFile(filepath string) (*CurlHeaders, error) {
	content, err := os.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("failed to read curl file: %w", err)
	}

	return ParseCurlCommand(string(content))
}

// ParseCurlCommand parses a cURL command string and extracts headers.
//
// A cookie passed with -b/--cookie wins over a Cookie header.
func ParseCurlCommand(curlCmd string) (*CurlHeaders, error) {
	curlCmd = strings.ReplaceAll(curlCmd, "\\\n", " ")
	curlCmd = strings.ReplaceAll(curlCmd, "\\", "")

	headers := make(map[string]string)
	var headerCookie string

	for _, match := range curlHeaderRegex.FindAllStringSubmatch(curlCmd, -1) {
		key, value, ok := strings.Cut(firstGroup(match), ":")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)

		if strings.EqualFold(key, "cookie") {
			if headerCookie == "" {
				headerCookie = value
			}
			continue
		}
		headers[key] = value
	}

	cookie := headerCookie
	if m := curlCookieRegex.FindStringSubmatch(curlCmd); m != nil {
		cookie = firstGroup(m)
	}

	if len(headers) == 0 && cookie == "" {
		return nil, fmt.Errorf("no headers found in curl command")
	}

	return &CurlHeaders{Headers: headers, Cookie: cookie}, nil
}

// CookieValue returns the value of the named cookie, or "" when absent.
func (c *CurlHeaders) CookieValue(name string) string {
	for _, part := range strings.Split(c.Cookie, ";") {
		k, v, ok := strings.Cut(strings.TrimSpace(part), "=")
		if ok && k == name {
			return v
		}
	}
	return ""
}

func firstGroup(match []string) string {
	if match[1] != "" {
		return match[1]
	}
	return match[2]
}

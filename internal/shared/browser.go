package shared

import (
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"
)

// OpenBrowser starts the user's browser on url without waiting for it to exit.
//
// $BROWSER wins over the platform default.
func OpenBrowser(url string) error {
	name, args, err := browserCommand(runtime.GOOS, os.Getenv("BROWSER"), url)
	if err != nil {
		return err
	}

	if err := exec.Command(name, args...).Start(); err != nil {
		return fmt.Errorf("failed to open browser: %w", err)
	}
	return nil
}

func browserCommand(goos, browser, url string) (string, []string, error) {
	if fields := strings.Fields(browser); len(fields) > 0 {
		return fields[0], append(fields[1:], url), nil
	}

	switch goos {
	case "darwin":
		return "open", []string{url}, nil
	case "linux", "freebsd", "openbsd":
		return "xdg-open", []string{url}, nil
	case "windows":
		return "rundll32", []string{"url.dll,FileProtocolHandler", url}, nil
	default:
		return "", nil, fmt.Errorf("%w: cannot open a browser on %s", ErrNotImplemented, goos)
	}
}

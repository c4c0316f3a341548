package main

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/tedtagger/internal/models"
	"github.com/desertthunder/tedtagger/internal/server"
	"github.com/desertthunder/tedtagger/internal/session"
	"github.com/desertthunder/tedtagger/internal/shared"
)

// AuthLogin serves the login page locally and waits until the session resolves to LoggedIn.
//
// The backend redirects back to the local server with accessToken, expiresIn
// and googleId; the handler saves them and strips them from the URL.
func (r *Runner) AuthLogin(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireSession(); err != nil {
		return err
	}

	timeout := cmd.Duration("timeout")
	if timeout <= 0 {
		timeout = 2 * time.Minute
	}

	res, err := r.serveLogin(ctx, timeout, !cmd.Bool("no-browser"))
	if err != nil {
		return err
	}

	r.writePlainln("✓ Signed in (%s)", res.Source)
	return r.writePlain("You can now use: tedtagger media list\n")
}

func (r *Runner) serveLogin(ctx context.Context, timeout time.Duration, openBrowser bool) (session.Resolution, error) {
	logger := shared.WithLogger(r.logger, "component", "login")
	handler := server.NewLoginHandler(r.session, r.config.LoginURL(), logger)

	router := server.NewBasicRouter()
	router.Use(server.Logging(logger), server.NoStore)
	router.Handler(handler)

	listener, err := net.Listen("tcp", r.config.ServerAddr())
	if err != nil {
		return session.Resolution{}, fmt.Errorf("failed to start login server: %w", err)
	}

	httpServer := &http.Server{
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Infof("starting login server at %v", listener.Addr())
		if err := httpServer.Serve(listener); err != nil && err != http.ErrServerClosed {
			serverErrors <- err
		}
	}()

	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Warn("error shutting down server", "error", err)
		}
	}()

	localURL := "http://" + listener.Addr().String() + "/"
	if openBrowser {
		r.writePlain("→ Opening browser for sign in...\n")
		if err := shared.OpenBrowser(localURL); err != nil {
			logger.Warnf("failed to open browser automatically %v", err)
			r.writePlainln("⚠ Could not open browser automatically.")
			r.writePlain("Please open this URL in your browser:\n%s\n\n", localURL)
		}
	} else {
		r.writePlain("Open this URL in your browser:\n%s\n\n", localURL)
	}

	r.writePlain("→ Waiting for sign in (%v timeout)...\n", timeout)

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	var result server.LoginResult
	select {
	case result = <-handler.Result():
	case err := <-serverErrors:
		return session.Resolution{}, fmt.Errorf("server error: %w", err)
	case <-timer.C:
		return session.Resolution{}, fmt.Errorf("%w: sign in timed out after %v", shared.ErrTimeout, timeout)
	case <-ctx.Done():
		return session.Resolution{}, ctx.Err()
	}

	if err := result.Error(); err != nil {
		return session.Resolution{}, fmt.Errorf("%w: %v", shared.ErrAuthFailed, err)
	}
	return result.Resolution, nil
}

// AuthStatus prints the stored session. With --resolve it runs full session resolution first.
func (r *Runner) AuthStatus(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireSession(); err != nil {
		return err
	}

	if cmd.Bool("resolve") {
		res, err := r.session.Resolve(ctx, session.Params{})
		if err != nil {
			return err
		}
		r.writePlain("State: %s\n", res.State)
		if res.Source != "" {
			r.writePlain("Source: %s\n", res.Source)
		}
	}

	sess, err := r.session.Session()
	if err != nil {
		return err
	}

	r.writePlainHeader("Session")
	if sess.IsLoggedIn(time.Now()) {
		r.writePlain("Authentication: ✓ Signed in\n")
	} else {
		r.writePlain("Authentication: ✗ Not signed in\n")
	}
	if sess.GoogleID != "" {
		r.writePlain("Google ID: %s\n", sess.GoogleID)
	}
	if !sess.TokenExpiration.IsZero() {
		r.writePlain("Token expires: %s\n", sess.TokenExpiration.Local().Format(time.RFC1123))
	}
	return nil
}

// AuthRefresh asks the backend for a new access token for the stored Google account.
func (r *Runner) AuthRefresh(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireSession(); err != nil {
		return err
	}

	res, err := r.session.Refresh(ctx)
	if err != nil {
		return err
	}
	if res.State != models.LoggedIn {
		return fmt.Errorf("%w: run 'tedtagger auth login'", shared.ErrNotAuthenticated)
	}
	return r.writePlain("✓ Access token refreshed\n")
}

// AuthLogout clears the stored session.
func (r *Runner) AuthLogout(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireSession(); err != nil {
		return err
	}

	if err := r.session.Logout(); err != nil {
		return err
	}
	return r.writePlain("✓ Signed out\n")
}

// AuthCookie stores the backend session cookie taken from a browser request.
//
// Accepts a cURL command copied from DevTools or a file containing one.
func (r *Runner) AuthCookie(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireSession(); err != nil {
		return err
	}

	curlCmd := cmd.String("curl")
	curlFile := cmd.String("curl-file")

	if curlCmd == "" && curlFile == "" {
		return fmt.Errorf("%w: either --curl or --curl-file must be provided", shared.ErrMissingArgument)
	}
	if curlCmd != "" && curlFile != "" {
		return fmt.Errorf("%w: cannot specify both --curl and --curl-file", shared.ErrInvalidArgument)
	}

	var headers *shared.CurlHeaders
	var err error
	if curlFile != "" {
		headers, err = shared.ParseCurlFile(curlFile)
	} else {
		headers, err = shared.ParseCurlCommand(curlCmd)
	}
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrInvalidInput, err)
	}

	if headers.Cookie == "" {
		return fmt.Errorf("%w: no cookie found in cURL command", shared.ErrInvalidInput)
	}

	if err := r.session.SetBackendCookie(headers.Cookie); err != nil {
		return err
	}

	r.logger.Info("stored backend cookie")
	return r.writePlain("✓ Backend cookie saved, run 'tedtagger auth status --resolve' to fetch a token\n")
}

// requireLogin resolves the session and fails unless it is LoggedIn.
func (r *Runner) requireLogin(ctx context.Context) error {
	if err := r.requireSession(); err != nil {
		return err
	}

	res, err := r.session.Resolve(ctx, session.Params{})
	if err != nil {
		return err
	}
	if res.State != models.LoggedIn {
		return fmt.Errorf("%w: run 'tedtagger auth login'", shared.ErrNotAuthenticated)
	}
	return nil
}

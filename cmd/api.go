package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/tedtagger/internal/services"
	"github.com/desertthunder/tedtagger/internal/shared"
)

// APIGet makes a direct GET request under the backend API path
func (r *Runner) APIGet(ctx context.Context, cmd *cli.Command) error {
	path, err := apiPath(cmd)
	if err != nil {
		return err
	}
	if err := r.requireLogin(ctx); err != nil {
		return err
	}

	r.logger.Info("GET request", "path", path)

	resp, err := r.api.Get(ctx, path)
	if err != nil {
		return err
	}
	if err := resp.Err(); err != nil {
		return err
	}
	return r.writeResponse(resp, cmd.Bool("pretty"))
}

// APIPost makes a direct POST request under the backend API path
func (r *Runner) APIPost(ctx context.Context, cmd *cli.Command) error {
	path, err := apiPath(cmd)
	if err != nil {
		return err
	}

	data := cmd.String("data")
	if data == "" {
		return fmt.Errorf("%w: --data flag is required", shared.ErrMissingArgument)
	}
	if err := shared.ValidateJSON([]byte(data)); err != nil {
		return err
	}
	if err := r.requireLogin(ctx); err != nil {
		return err
	}

	r.logger.Info("POST request", "path", path)

	resp, err := r.api.Post(ctx, path, []byte(data))
	if err != nil {
		return err
	}
	if err := resp.Err(); err != nil {
		return err
	}
	return r.writeResponse(resp, true)
}

func apiPath(cmd *cli.Command) (string, error) {
	path := strings.TrimLeft(cmd.StringArg("path"), "/")
	if path == "" {
		return "", fmt.Errorf("%w: path is required", shared.ErrMissingArgument)
	}
	return path, nil
}

func (r *Runner) writeResponse(resp *services.APIResponse, pretty bool) error {
	if resp.IsJSON {
		return r.writeJSON(resp.JSONData, pretty)
	}
	if len(resp.Body) == 0 {
		return r.writePlain("✓ %d\n", resp.StatusCode)
	}
	return r.writePlain("%s\n", resp.Body)
}

package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/tedtagger/internal/shared"
)

// UploadRaw uploads the raw media files of a directory to the backend.
func (r *Runner) UploadRaw(ctx context.Context, cmd *cli.Command) error {
	dir := cmd.String("dir")
	if dir == "" {
		return fmt.Errorf("%w: --dir is required", shared.ErrMissingArgument)
	}
	if err := r.requireLogin(ctx); err != nil {
		return err
	}

	progress, done := r.printProgress()
	res := r.engine.UploadRawMedia(ctx, dir, progress)
	close(progress)
	<-done

	return r.report(res)
}

// UploadGoogle uploads media items to a Google Photos album with the stored Google token.
func (r *Runner) UploadGoogle(ctx context.Context, cmd *cli.Command) error {
	ids := cmd.StringSlice("id")
	if len(ids) == 0 {
		return fmt.Errorf("%w: at least one --id is required", shared.ErrMissingArgument)
	}
	if err := r.requireLogin(ctx); err != nil {
		return err
	}

	return r.report(r.engine.UploadToGoogle(ctx, cmd.String("album"), ids))
}

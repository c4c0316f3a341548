package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/tedtagger/internal/formatter"
	"github.com/desertthunder/tedtagger/internal/models"
	"github.com/desertthunder/tedtagger/internal/shared"
	"github.com/desertthunder/tedtagger/internal/tasks"
)

// MediaList prints the library in the requested format.
//
// --offline reads the local cache only; otherwise the library is loaded from
// the backend and the cache is refreshed.
func (r *Runner) MediaList(ctx context.Context, cmd *cli.Command) error {
	if cmd.Bool("offline") {
		if err := r.loader.LoadCached(); err != nil {
			return err
		}
	} else {
		if err := r.requireLogin(ctx); err != nil {
			return fmt.Errorf("%w (use --offline to read the local cache)", err)
		}
		if err := r.loadLibrary(ctx); err != nil {
			return err
		}
	}

	return r.export(cmd, "Media Items", r.library.MediaItems())
}

// MediaDelete moves the given media items to the deleted bin.
func (r *Runner) MediaDelete(ctx context.Context, cmd *cli.Command) error {
	ids := cmd.StringSlice("id")
	if len(ids) == 0 {
		return fmt.Errorf("%w: at least one --id is required", shared.ErrMissingArgument)
	}
	if err := r.requireLogin(ctx); err != nil {
		return err
	}

	r.logger.Info("deleting media items", "count", len(ids))
	return r.report(r.engine.Delete(ctx, ids))
}

// MediaRedownload asks the backend to download media items from Google Photos again.
//
// --all loads the library first and redownloads every item on the worker pool.
func (r *Runner) MediaRedownload(ctx context.Context, cmd *cli.Command) error {
	ids := cmd.StringSlice("id")
	all := cmd.Bool("all")

	if len(ids) == 0 && !all {
		return fmt.Errorf("%w: provide --id or --all", shared.ErrMissingArgument)
	}
	if len(ids) > 0 && all {
		return fmt.Errorf("%w: cannot specify both --id and --all", shared.ErrInvalidArgument)
	}
	if err := r.requireLogin(ctx); err != nil {
		return err
	}

	if len(ids) == 1 {
		return r.report(r.engine.RedownloadOne(ctx, ids[0]))
	}

	if all {
		if err := r.loadLibrary(ctx); err != nil {
			return err
		}
		ids = r.library.MediaItemIDs()
	}

	progress, done := r.printProgress()
	result, res := r.engine.RedownloadAll(ctx, ids, progress)
	close(progress)
	<-done

	if len(result.Failed) > 0 {
		r.writePlainln("Failed: %d of %d", len(result.Failed), result.Total)
	}
	return r.report(res)
}

// loadLibrary runs the startup loader and prints its progress.
func (r *Runner) loadLibrary(ctx context.Context) error {
	progress, done := r.printProgress()
	err := r.loader.Load(ctx, progress)
	close(progress)
	<-done
	return err
}

// printProgress returns a channel whose updates are logged until it is closed.
// done is closed once the last update was handled.
func (r *Runner) printProgress() (chan tasks.ProgressUpdate, <-chan struct{}) {
	progress := make(chan tasks.ProgressUpdate, 16)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range progress {
			r.logger.Info(update.Message, "phase", update.Phase)
		}
	}()
	return progress, done
}

// export renders items with the --format flag to --output or the runner output.
func (r *Runner) export(cmd *cli.Command, title string, items []models.MediaItem) error {
	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}

	if output := cmd.String("output"); output != "" {
		path, err := formatter.WriteExport(format, title, items, output)
		if err != nil {
			return err
		}
		r.logger.Info("export saved", "file", path, "count", len(items))
		return r.writePlain("✓ Exported %d media item(s) to %s\n", len(items), path)
	}

	data, err := formatter.Export(format, title, items)
	if err != nil {
		return err
	}
	if _, err := r.output.Write(data); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

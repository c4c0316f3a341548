package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/tedtagger/internal/models"
	"github.com/desertthunder/tedtagger/internal/shared"
)

// LibraryFolders lists the backend local storage folders available for import.
func (r *Runner) LibraryFolders(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireLogin(ctx); err != nil {
		return err
	}

	folders, err := r.media.LocalDriveImportFolders(ctx)
	if err != nil {
		return err
	}
	r.library.SetFolders(folders)

	if cmd.Bool("json") {
		if folders == nil {
			folders = []string{}
		}
		return r.writeJSON(folders, true)
	}

	if len(folders) == 0 {
		return r.writePlain("No folders available for import\n")
	}
	r.writePlainHeader("Local Storage Folders")
	for _, folder := range folders {
		r.writePlain("  %s\n", folder)
	}
	return nil
}

// LibraryImport imports a local storage folder into the library.
func (r *Runner) LibraryImport(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireLogin(ctx); err != nil {
		return err
	}
	return r.report(r.engine.ImportFromLocalStorage(ctx, cmd.String("folder")))
}

// LibraryTakeouts lists the Google Takeout exports the backend can import.
func (r *Runner) LibraryTakeouts(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireLogin(ctx); err != nil {
		return err
	}

	takeouts, err := r.media.Takeouts(ctx)
	if err != nil {
		return err
	}
	r.library.SetTakeouts(takeouts)

	if cmd.Bool("json") {
		if takeouts == nil {
			takeouts = []models.Takeout{}
		}
		return r.writeJSON(takeouts, true)
	}

	if len(takeouts) == 0 {
		return r.writePlain("No takeouts available for import\n")
	}
	r.writePlainHeader("Takeouts")
	for _, t := range takeouts {
		r.writePlain("  %s  %s\n", t.ID, t.Label)
	}
	return nil
}

// LibraryImportTakeout imports a Google Takeout export into the library.
func (r *Runner) LibraryImportTakeout(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireLogin(ctx); err != nil {
		return err
	}
	if takeouts, err := r.media.Takeouts(ctx); err == nil {
		r.library.SetTakeouts(takeouts)
	}
	return r.report(r.engine.ImportFromTakeout(ctx, cmd.String("id")))
}

// LibraryKeywords prints the keyword labels known to the backend.
func (r *Runner) LibraryKeywords(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireLogin(ctx); err != nil {
		return err
	}

	data, err := r.media.Keywords(ctx)
	if err != nil {
		return err
	}
	r.library.SetKeywords(data)

	if cmd.Bool("json") {
		return r.writeJSON(data, true)
	}

	if len(data.Keywords) == 0 {
		return r.writePlain("No keywords\n")
	}
	r.writePlainHeader("Keywords")
	for _, k := range data.Keywords {
		r.writePlain("  %s\n", k.Label)
	}
	return nil
}

// LibraryMergePeople uploads Google Takeout people metadata.
func (r *Runner) LibraryMergePeople(ctx context.Context, cmd *cli.Command) error {
	dir := cmd.String("dir")
	if dir == "" {
		return fmt.Errorf("%w: --dir is required", shared.ErrMissingArgument)
	}
	if err := r.requireLogin(ctx); err != nil {
		return err
	}
	return r.report(r.engine.MergePeople(ctx, dir))
}

// DeletedList prints the deleted bin.
func (r *Runner) DeletedList(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireLogin(ctx); err != nil {
		return err
	}

	items, err := r.media.DeletedMediaItems(ctx)
	if err != nil {
		return err
	}
	r.library.SetDeletedMediaItems(items)

	return r.export(cmd, "Deleted Media Items", r.library.DeletedMediaItems())
}

// DeletedRemove permanently removes one item from the deleted bin.
func (r *Runner) DeletedRemove(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireLogin(ctx); err != nil {
		return err
	}
	return r.report(r.engine.RemoveDeletedMediaItem(ctx, cmd.String("id")))
}

// DeletedClear permanently removes every item in the deleted bin.
func (r *Runner) DeletedClear(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireLogin(ctx); err != nil {
		return err
	}
	return r.report(r.engine.ClearDeletedMediaItems(ctx))
}

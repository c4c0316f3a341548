package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/urfave/cli/v3"

	"github.com/desertthunder/tedtagger/internal/selection"
	"github.com/desertthunder/tedtagger/internal/shared"
	"github.com/desertthunder/tedtagger/internal/ui"
)

// TUI launches the interactive library browser.
//
// The session is resolved before the program starts so a signed out user gets
// a plain error instead of an empty screen.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireLogin(ctx); err != nil {
		return err
	}

	fileLogger, err := shared.NewFileLogger(cmd.String("log-file"))
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	r.SetLogger(fileLogger)
	r.selection.Dispatch(selection.SetGridColumns{Columns: r.config.UI.GridColumns})

	model := ui.NewModel(ctx, ui.Options{
		Engine:     r.engine,
		Loader:     r.loader,
		Selection:  r.selection,
		Session:    r.session,
		ClickDelay: r.config.ClickDelay(),
		AlbumName:  r.config.Upload.AlbumName,
	})

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(ctx))
	model.Attach(p)

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}
	return nil
}

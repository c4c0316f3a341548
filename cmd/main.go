package main

import (
	"context"
	"database/sql"
	"errors"
	"os"

	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v3"

	"github.com/desertthunder/tedtagger/internal/shared"
)

const defaultConfigPath = "config.toml"

func main() {
	logger := shared.NewLogger(nil)

	configPath := defaultConfigPath
	if path := os.Getenv("TEDTAGGER_CONFIG"); path != "" {
		configPath = path
	}

	config := shared.DefaultConfig()
	if _, err := os.Stat(configPath); err == nil {
		if loadedConfig, err := shared.LoadConfig(configPath); err == nil {
			config = loadedConfig
		} else {
			logger.Warn("failed to load config, using defaults", "path", configPath, "error", err)
		}
	}

	if err := config.ApplyEnv(); err != nil {
		logger.Fatalf("configuration error: %v", err)
	}
	if err := config.Validate(); err != nil {
		logger.Fatalf("configuration error: %v", err)
	}

	db, err := openDatabase(config)
	if err != nil {
		logger.Warn("database unavailable, session commands are disabled", "error", err)
	} else {
		defer db.Close()
	}

	runner := NewRunner(RunnerOpts{
		Config:     config,
		ConfigPath: configPath,
		DB:         db,
		Logger:     logger,
	})

	app := &cli.Command{
		Name:    "tedtagger",
		Usage:   "Browse and curate a TedTagger photo library",
		Version: "0.1.0",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "Enable debug logging",
			},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			if cmd.Bool("debug") {
				shared.SetLogLevel(logger, log.DebugLevel)
			}
			return ctx, nil
		},
		Commands: runner.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		if errors.Is(err, shared.ErrNotImplemented) {
			logger.Warn("not implemented")
			os.Exit(0)
		}
		logger.Fatalf("application error: %v", err)
	}
}

// openDatabase opens the configured database and applies pending migrations.
func openDatabase(config *shared.Config) (*sql.DB, error) {
	db, err := shared.NewDatabase(config.Database.Path)
	if err != nil {
		return nil, err
	}

	if config.Database.MaxOpenConns > 0 {
		shared.ConfigureDatabase(db, config.Database.MaxOpenConns, config.Database.MaxIdleConns)
	}

	if err := shared.RunMigrations(db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

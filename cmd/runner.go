package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v3"
	"golang.org/x/oauth2"

	"github.com/desertthunder/tedtagger/internal/repositories"
	"github.com/desertthunder/tedtagger/internal/selection"
	"github.com/desertthunder/tedtagger/internal/services"
	"github.com/desertthunder/tedtagger/internal/session"
	"github.com/desertthunder/tedtagger/internal/shared"
	"github.com/desertthunder/tedtagger/internal/tasks"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	configPath string
	db         *sql.DB
	session    *session.Manager
	media      tasks.MediaClient
	api        *services.APIService
	library    *tasks.Library
	selection  *selection.Controller
	loader     *tasks.Loader
	engine     *tasks.Engine
	httpClient *http.Client
	logger     *log.Logger
	output     io.Writer
}

// RunnerOpts contains configuration options for creating a Runner.
//
// DB backs the session store and the media cache. Without it the commands
// that need a session fail with [shared.ErrMissingConfig].
type RunnerOpts struct {
	Config     *shared.Config
	ConfigPath string
	DB         *sql.DB
	Media      tasks.MediaClient // overrides the HTTP media client
	HTTPClient *http.Client
	Logger     *log.Logger
	Output     io.Writer
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}

	r := &Runner{
		config:     opts.Config,
		configPath: opts.ConfigPath,
		db:         opts.DB,
		httpClient: opts.HTTPClient,
		logger:     opts.Logger,
		output:     opts.Output,
		library:    tasks.NewLibrary(),
	}
	r.selection = selection.NewController(r.library)

	var cache tasks.MediaCache
	if opts.DB != nil {
		cache = repositories.NewMediaItemRepository(opts.DB)
		r.session = session.NewManager(session.Options{
			Storage:       repositories.NewKVRepository(opts.DB),
			Client:        services.NewAuthService(r.config.Backend.BaseURL, r.httpClient),
			Logger:        shared.WithLogger(r.logger, "component", "session"),
			FetchTokenTTL: r.config.FetchTokenTTL(),
		})
	}

	apiClient := r.httpClient
	if r.session != nil {
		ctx := context.WithValue(context.Background(), oauth2.HTTPClient, r.httpClient)
		apiClient = oauth2.NewClient(ctx, r.session.TokenSource(ctx))
	}
	r.api = services.NewAPIService(r.config.APIURL(""), apiClient)

	r.media = opts.Media
	if r.media == nil {
		r.media = services.NewMediaService(r.config.APIURL(""), apiClient)
	}

	r.loader = tasks.NewLoader(r.media, cache, r.library, shared.WithLogger(r.logger, "component", "loader"))
	r.engine = r.newEngine(cache)
	return r
}

func (r *Runner) newEngine(cache tasks.MediaCache) *tasks.Engine {
	opts := tasks.EngineOpts{
		Client:    r.media,
		Library:   r.library,
		Cache:     cache,
		Selection: r.selection,
		Logger:    r.logger,
		AlbumName: r.config.Upload.AlbumName,
		Workers:   r.config.Upload.Workers,
		RateLimit: r.config.Backend.RateLimit,
	}
	if r.session != nil {
		opts.Session = r.session
	}
	return tasks.NewEngine(opts)
}

// SetLogger replaces the logger used by the runner and the engine.
func (r *Runner) SetLogger(logger *log.Logger) {
	r.logger = logger
	var cache tasks.MediaCache
	if r.db != nil {
		cache = repositories.NewMediaItemRepository(r.db)
	}
	r.loader = tasks.NewLoader(r.media, cache, r.library, shared.WithLogger(logger, "component", "loader"))
	r.engine = r.newEngine(cache)
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, authCommand, mediaCommand, uploadCommand, libraryCommand, deletedCommand, apiCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

func (r *Runner) requireSession() error {
	if r.session == nil {
		return fmt.Errorf("%w: database is not available, run 'tedtagger setup database'", shared.ErrMissingConfig)
	}
	return nil
}

// report prints a successful [tasks.Result] and converts a failed one to an error.
func (r *Runner) report(res tasks.Result) error {
	if !res.OK {
		if res.Err != nil {
			return res.Err
		}
		return fmt.Errorf("%s", res.Message)
	}
	return r.writePlain("✓ %s\n", res.Message)
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}

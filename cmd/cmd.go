// submodule cmd contains command definitions
package main

import (
	"time"

	"github.com/urfave/cli/v3"
)

func formatFlag(value string) *cli.StringFlag {
	return &cli.StringFlag{
		Name:    "format",
		Aliases: []string{"f"},
		Usage:   "Output format: text, csv, markdown or json",
		Value:   value,
	}
}

func outputFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:    "output",
		Aliases: []string{"o"},
		Usage:   "Write the export to a file instead of stdout",
	}
}

func idsFlag(required bool) *cli.StringSliceFlag {
	return &cli.StringSliceFlag{
		Name:     "id",
		Usage:    "Media item unique id (repeatable)",
		Required: required,
	}
}

// setupCommand handles setup operations for the configuration and database.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:  "database",
				Usage: "Create config.toml if missing, initialize the database and run migrations",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "config",
						Aliases: []string{"c"},
						Usage:   "Path to configuration file",
						Value:   "config.toml",
					},
				},
				Action: r.SetupDatabase,
			},
			{
				Name:   "rollback",
				Usage:  "Roll back the most recent database migration",
				Action: r.SetupRollback,
			},
		},
	}
}

// authCommand handles the login session
func authCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Sign in with Google through the TedTagger backend",
		Commands: []*cli.Command{
			{
				Name:  "login",
				Usage: "Start the local login server and open the browser",
				Flags: []cli.Flag{
					&cli.DurationFlag{
						Name:  "timeout",
						Usage: "How long to wait for the sign-in to finish",
						Value: 2 * time.Minute,
					},
					&cli.BoolFlag{
						Name:  "no-browser",
						Usage: "Print the login URL instead of opening a browser",
					},
				},
				Action: r.AuthLogin,
			},
			{
				Name:  "status",
				Usage: "Show the stored session",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "resolve",
						Usage: "Run full session resolution (may fetch or refresh a token)",
					},
				},
				Action: r.AuthStatus,
			},
			{
				Name:   "refresh",
				Usage:  "Request a new access token for the stored Google account",
				Action: r.AuthRefresh,
			},
			{
				Name:   "logout",
				Usage:  "Clear the stored session",
				Action: r.AuthLogout,
			},
			{
				Name:  "cookie",
				Usage: "Store the backend session cookie from a browser request",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "curl",
						Usage: "cURL command from browser DevTools (Copy as cURL)",
					},
					&cli.StringFlag{
						Name:  "curl-file",
						Usage: "Path to .sh file containing cURL command",
					},
				},
				Action: r.AuthCookie,
			},
		},
	}
}

// mediaCommand handles library media items
func mediaCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "media",
		Usage: "Media item operations",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List media items",
				Flags: []cli.Flag{
					formatFlag("text"),
					outputFlag(),
					&cli.BoolFlag{
						Name:  "offline",
						Usage: "Read the local cache without contacting the backend",
					},
				},
				Action: r.MediaList,
			},
			{
				Name:   "delete",
				Usage:  "Move media items to the deleted bin",
				Flags:  []cli.Flag{idsFlag(true)},
				Action: r.MediaDelete,
			},
			{
				Name:  "redownload",
				Usage: "Ask the backend to download media items from Google Photos again",
				Flags: []cli.Flag{
					idsFlag(false),
					&cli.BoolFlag{
						Name:  "all",
						Usage: "Redownload every media item",
					},
				},
				Action: r.MediaRedownload,
			},
		},
	}
}

// uploadCommand handles uploads to the backend and Google Photos
func uploadCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "upload",
		Usage: "Upload media",
		Commands: []*cli.Command{
			{
				Name:  "raw",
				Usage: "Upload .jpg, .jpeg and .heic files from a directory",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "dir",
						Aliases:  []string{"d"},
						Usage:    "Directory to upload",
						Required: true,
					},
				},
				Action: r.UploadRaw,
			},
			{
				Name:  "google",
				Usage: "Upload media items to a Google Photos album",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "album",
						Usage: "Album name (defaults to upload.album_name)",
					},
					idsFlag(true),
				},
				Action: r.UploadGoogle,
			},
		},
	}
}

// libraryCommand handles imports into the library
func libraryCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "library",
		Usage: "Library import operations",
		Commands: []*cli.Command{
			{
				Name:   "folders",
				Usage:  "List local storage folders available for import",
				Flags:  []cli.Flag{&cli.BoolFlag{Name: "json", Usage: "Output raw JSON"}},
				Action: r.LibraryFolders,
			},
			{
				Name:  "import",
				Usage: "Import a local storage folder",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "folder",
						Usage:    "Folder name from 'library folders'",
						Required: true,
					},
				},
				Action: r.LibraryImport,
			},
			{
				Name:   "takeouts",
				Usage:  "List Google Takeout exports available for import",
				Flags:  []cli.Flag{&cli.BoolFlag{Name: "json", Usage: "Output raw JSON"}},
				Action: r.LibraryTakeouts,
			},
			{
				Name:  "import-takeout",
				Usage: "Import a Google Takeout export",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "id",
						Usage:    "Takeout id from 'library takeouts'",
						Required: true,
					},
				},
				Action: r.LibraryImportTakeout,
			},
			{
				Name:   "keywords",
				Usage:  "List the keyword labels",
				Flags:  []cli.Flag{&cli.BoolFlag{Name: "json", Usage: "Output raw JSON"}},
				Action: r.LibraryKeywords,
			},
			{
				Name:  "merge-people",
				Usage: "Upload Google Takeout people .json files",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "dir",
						Aliases:  []string{"d"},
						Usage:    "Directory containing the takeout .json files",
						Required: true,
					},
				},
				Action: r.LibraryMergePeople,
			},
		},
	}
}

// deletedCommand handles the deleted items bin
func deletedCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "deleted",
		Usage: "Deleted media items",
		Commands: []*cli.Command{
			{
				Name:   "list",
				Usage:  "List deleted media items",
				Flags:  []cli.Flag{formatFlag("text"), outputFlag()},
				Action: r.DeletedList,
			},
			{
				Name:  "remove",
				Usage: "Permanently remove one deleted media item",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "id",
						Usage:    "Media item unique id",
						Required: true,
					},
				},
				Action: r.DeletedRemove,
			},
			{
				Name:   "clear",
				Usage:  "Permanently remove all deleted media items",
				Action: r.DeletedClear,
			},
		},
	}
}

// apiCommand handles direct backend API calls
func apiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "api",
		Usage: "Direct calls to the backend API",
		Commands: []*cli.Command{
			{
				Name:  "get",
				Usage: "Direct GET under the API path, prints raw JSON",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "path",
					},
				},
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
						Value: true,
					},
				},
				Action: r.APIGet,
			},
			{
				Name:  "post",
				Usage: "Direct POST with JSON body",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "path",
					},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "data",
						Aliases:  []string{"d"},
						Usage:    "JSON body to send",
						Required: true,
					},
				},
				Action: r.APIPost,
			},
		},
	}
}

// tuiCommand launches the interactive library
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "tui",
		Usage: "Browse the library in the terminal",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "log-file",
				Usage: "Log destination while the TUI owns the screen",
				Value: "./tmp/tedtagger-tui.log",
			},
		},
		Action: r.TUI,
	}
}

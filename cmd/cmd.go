// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

// setupCommand handles setup operations for configuration and the local cache.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:  "database",
				Usage: "Initialize local cache database and run migrations",
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
		},
	}
}

// sessionCommand handles login, logout and session inspection.
func sessionCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "session",
		Aliases: []string{"auth"},
		Usage:   "Manage the authenticated session",
		Commands: []*cli.Command{
			{
				Name:  "login",
				Usage: "Log in with email and password",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "email",
						Aliases:  []string{"e"},
						Usage:    "Account email",
						Required: true,
					},
					&cli.StringFlag{
						Name:    "password",
						Aliases: []string{"p"},
						Usage:   "Account password (prompted when omitted)",
					},
				},
				Action: r.SessionLogin,
			},
			{
				Name:   "logout",
				Usage:  "Log out and clear the local session",
				Action: r.SessionLogout,
			},
			{
				Name:  "register",
				Usage: "Create a new account (does not log in)",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "username",
						Aliases:  []string{"u"},
						Usage:    "Account username",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "email",
						Usage:    "Account email",
						Required: true,
					},
					&cli.StringFlag{
						Name:    "password",
						Aliases: []string{"p"},
						Usage:   "Account password (prompted when omitted)",
					},
					&cli.StringFlag{
						Name:  "name",
						Usage: "Display name",
					},
				},
				Action: r.SessionRegister,
			},
			{
				Name:    "status",
				Aliases: []string{"whoami"},
				Usage:   "Resolve and show the current session state",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.SessionStatus,
			},
			{
				Name:  "import",
				Usage: "Import session cookies from a browser cURL command",
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
				Action: r.SessionImport,
			},
		},
	}
}

// booksCommand handles catalog operations.
func booksCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "books",
		Aliases: []string{"catalog"},
		Usage:   "Browse and edit the book catalog",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List catalog books",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "search",
						Aliases: []string{"s"},
						Usage:   "Filter by title or author",
					},
					&cli.StringFlag{
						Name:  "status",
						Usage: "Filter by reading status",
					},
					&cli.StringFlag{
						Name:  "category",
						Usage: "Filter by category label",
					},
					&cli.IntFlag{
						Name:  "page",
						Usage: "Page number",
					},
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of books to return",
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
					},
				},
				Action: r.BooksList,
			},
			{
				Name:  "get",
				Usage: "Show a single book",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.BooksGet,
			},
			{
				Name:  "add",
				Usage: "Add a book to the catalog",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "title",
						Usage:    "Book title",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "author",
						Usage: "Author name",
					},
					&cli.StringFlag{
						Name:  "category",
						Usage: "Category label",
					},
					&cli.IntFlag{
						Name:  "year",
						Usage: "Publication year",
					},
					&cli.StringFlag{
						Name:  "isbn",
						Usage: "ISBN",
					},
					&cli.IntFlag{
						Name:  "pages",
						Usage: "Total page count",
					},
				},
				Action: r.BooksAdd,
			},
			{
				Name:  "update",
				Usage: "Update a catalog book",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "title",
						Usage: "Book title",
					},
					&cli.StringFlag{
						Name:  "author",
						Usage: "Author name",
					},
					&cli.StringFlag{
						Name:  "category",
						Usage: "Category label",
					},
					&cli.IntFlag{
						Name:  "year",
						Usage: "Publication year",
					},
					&cli.StringFlag{
						Name:  "isbn",
						Usage: "ISBN",
					},
					&cli.IntFlag{
						Name:  "pages",
						Usage: "Total page count",
					},
				},
				Action: r.BooksUpdate,
			},
			{
				Name:  "delete",
				Usage: "Delete a book from the catalog",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Action: r.BooksDelete,
			},
			{
				Name:  "progress",
				Usage: "Update reading progress for a book",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:     "current",
						Usage:    "Current page",
						Required: true,
					},
					&cli.IntFlag{
						Name:  "total",
						Usage: "Total pages (keeps known total when omitted)",
					},
				},
				Action: r.BooksProgress,
			},
			{
				Name:   "categories",
				Usage:  "List known category codes and labels",
				Action: r.BooksCategories,
			},
		},
	}
}

// shelfCommand handles the user's reading list.
func shelfCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "shelf",
		Aliases: []string{"list"},
		Usage:   "Manage your reading list",
		Commands: []*cli.Command{
			{
				Name:  "show",
				Usage: "Show your list joined with catalog details",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
					},
				},
				Action: r.ShelfShow,
			},
			{
				Name:  "add",
				Usage: "Add a catalog book to your list",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "book-id"},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "status",
						Usage: "Reading status (Read, Reading, Plan to read)",
						Value: "Plan to read",
					},
					&cli.FloatFlag{
						Name:  "score",
						Usage: "Score out of 5",
					},
				},
				Action: r.ShelfAdd,
			},
			{
				Name:  "update",
				Usage: "Update a list entry",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "entry-id"},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "status",
						Usage: "Reading status (Read, Reading, Plan to read)",
					},
					&cli.FloatFlag{
						Name:  "score",
						Usage: "Score out of 5",
					},
					&cli.IntFlag{
						Name:  "progress",
						Usage: "Progress percentage",
					},
				},
				Action: r.ShelfUpdate,
			},
			{
				Name:  "remove",
				Usage: "Remove an entry from your list",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "entry-id"},
				},
				Action: r.ShelfRemove,
			},
			{
				Name:  "export",
				Usage: "Export your list to a file",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output file path",
						Value:   "shelf-export.csv",
					},
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Usage:   "Export format (csv, markdown, text)",
						Value:   "csv",
					},
				},
				Action: r.ShelfExport,
			},
		},
	}
}

// insightsCommand handles activities, goals and statistics.
func insightsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "insights",
		Usage: "Reading activities, goals and statistics",
		Commands: []*cli.Command{
			{
				Name:  "activities",
				Usage: "Show recent reading activities",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of activities to return",
						Value: 20,
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.InsightsActivities,
			},
			{
				Name:  "goals",
				Usage: "Show reading goals",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.InsightsGoals,
			},
			{
				Name:  "goal",
				Usage: "Create a reading goal, or update one with --id",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "id",
						Usage: "Existing goal to update",
					},
					&cli.IntFlag{
						Name:     "target",
						Usage:    "Number of books to read",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "period",
						Usage: "Goal period (year, month)",
						Value: "year",
					},
				},
				Action: r.InsightsSetGoal,
			},
			{
				Name:  "log",
				Usage: "Record a reading activity",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "kind",
						Aliases:  []string{"k"},
						Usage:    "Activity kind (started, finished, rated, note)",
						Required: true,
					},
					&cli.IntFlag{
						Name:  "book-id",
						Usage: "Book the activity refers to",
					},
					&cli.StringFlag{
						Name:  "detail",
						Usage: "Free-form detail text",
					},
				},
				Action: r.InsightsLogActivity,
			},
			{
				Name:  "stats",
				Usage: "Show aggregate reading statistics",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.InsightsStats,
			},
			{
				Name:  "dump",
				Usage: "Full backend state dump (catalog, list, activities, goals, stats)",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
						Value: true,
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Write dump to file instead of stdout",
					},
				},
				Action: r.InsightsDump,
			},
		},
	}
}

// cacheCommand handles the local offline book cache.
func cacheCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "cache",
		Usage: "Cache catalog books locally",
		Commands: []*cli.Command{
			{
				Name:  "warm",
				Usage: "Fetch the catalog and store it in the local cache",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "config",
						Aliases: []string{"c"},
						Usage:   "Path to configuration file",
						Value:   "config.toml",
					},
					&cli.IntFlag{
						Name:  "workers",
						Usage: "Concurrent cache writers",
					},
				},
				Action: r.CacheWarm,
			},
			{
				Name:    "list",
				Aliases: []string{"show"},
				Usage:   "Show locally cached books",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.CacheList,
			},
		},
	}
}

// discoverCommand handles one-shot catalog search.
func discoverCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "discover",
		Aliases: []string{"search"},
		Usage:   "Search the catalog",
		Arguments: []cli.Argument{
			&cli.StringArg{
				Name: "query",
			},
		},
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "limit",
				Usage: "Maximum number of books to return",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
			&cli.BoolFlag{
				Name:  "pretty",
				Usage: "Pretty-print output",
			},
		},
		Action: r.Discover,
	}
}

// apiCommand handles direct backend API calls.
func apiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "api",
		Usage: "Direct API calls to the backend",
		Commands: []*cli.Command{
			{
				Name:  "get",
				Usage: "Direct GET to the backend, prints raw JSON",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "path",
					},
				},
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
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
			{
				Name:  "dump",
				Usage: "Full backend state dump, same as 'insights dump'",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
						Value: true,
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Write dump to file instead of stdout",
					},
				},
				Action: r.InsightsDump,
			},
		},
	}
}

// tuiCommand returns the top-level TUI command for interactive shelf browsing.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tui",
		Aliases: []string{"interactive", "ui"},
		Usage:   "Launch interactive TUI for browsing your shelf",
		Action:  r.TUI,
	}
}

// openCommand opens the companion web application in the default browser.
func openCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "open",
		Usage:  "Open the web application in your browser",
		Action: r.Open,
	}
}

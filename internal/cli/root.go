package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"activity-tracker/internal/api"
	"activity-tracker/internal/config"
	"activity-tracker/internal/logging"
)

// OpenFunc opens the API for a resolved configuration.
type OpenFunc func(ctx context.Context, cfg *config.Config) (api.API, error)

// RootCommand represents the base command when called without any subcommands
type RootCommand struct {
	cmd    *cobra.Command
	open   OpenFunc
	loader *config.Loader
	config *config.Config
	app    *App
}

// NewRootCommand creates the root cobra command with global flags. The API
// is opened once flags and configuration are resolved, right before a
// subcommand runs.
func NewRootCommand(open OpenFunc, loader *config.Loader) *RootCommand {
	if open == nil {
		open = api.Open
	}
	if loader == nil {
		loader = config.NewLoader()
	}
	root := &RootCommand{open: open, loader: loader}

	root.cmd = &cobra.Command{
		Use:   "trk",
		Short: "An offline activity tracker",
		Long: `trk records finished activities in a local database and keeps a list of
recent and pinned task labels for quick reuse.

EXAMPLES:
  trk log "Review ABC-123"                  # Log an activity ending now
  trk log "Standup" --start 09:00 --end 09:15
  trk list 1d                               # Activities from the last day
  trk delete "2026-03-02 09:15:00" --bridge # Delete and close the gap
  trk recent pin "Standup"                  # Pin a label
  trk export --format csv > activities.csv

CONFIGURATION:
  Priority order: command-line flags > TRK_* environment variables >
  config.yaml in the data directory > defaults.

    TRK_DB_DIR                 Data directory (default: ~/.trk)
    TRK_DB_FILENAME            Database filename (default: activity.db)
    TRK_DB_QUERY_TIMEOUT       Query timeout (default: 10s)
    TRK_STORAGE_DIR            Settings directory (default: <data dir>/local)
    TRK_RECENT_RETENTION       Unpinned recent items kept (default: 20)
    TRK_APP_TIMEOUT            Command timeout (default: 60s)
    TRK_DEBUG                  Debug logging to stderr

TIME FORMATS:
  now, -45m, 14:30, "2026-03-02 14:30", RFC 3339`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return root.setup(cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return root.teardown()
		},
	}

	root.addGlobalFlags()
	root.addSubcommands()

	return root
}

// Command returns the cobra command, for tests and completion.
func (r *RootCommand) Command() *cobra.Command {
	return r.cmd
}

// Execute runs the root command
func (r *RootCommand) Execute(ctx context.Context) error {
	defer r.teardown()
	return r.cmd.ExecuteContext(ctx)
}

// addGlobalFlags adds global configuration flags
func (r *RootCommand) addGlobalFlags() {
	flags := r.cmd.PersistentFlags()

	flags.String("db-dir", "", "Data directory (overrides TRK_DB_DIR)")
	flags.String("db-filename", "", "Database filename (overrides TRK_DB_FILENAME)")
	flags.Duration("db-query-timeout", 0, "Database query timeout (overrides TRK_DB_QUERY_TIMEOUT)")
	flags.String("storage-dir", "", "Settings directory (overrides TRK_STORAGE_DIR)")
	flags.Int("retention", 0, "Unpinned recent items to keep (overrides TRK_RECENT_RETENTION)")
	flags.Duration("app-timeout", 0, "Command timeout (overrides TRK_APP_TIMEOUT)")
	flags.Bool("verbose", false, "Enable debug logging (overrides TRK_APP_VERBOSE)")
}

// overridesFromFlags collects the flags the user actually set.
func (r *RootCommand) overridesFromFlags() *config.ConfigOverrides {
	flags := r.cmd.PersistentFlags()
	overrides := &config.ConfigOverrides{}

	if flags.Changed("db-dir") {
		v, _ := flags.GetString("db-dir")
		overrides.DBDir = &v
	}
	if flags.Changed("db-filename") {
		v, _ := flags.GetString("db-filename")
		overrides.DBFilename = &v
	}
	if flags.Changed("db-query-timeout") {
		v, _ := flags.GetDuration("db-query-timeout")
		overrides.DBQueryTimeout = &v
	}
	if flags.Changed("storage-dir") {
		v, _ := flags.GetString("storage-dir")
		overrides.StorageDir = &v
	}
	if flags.Changed("retention") {
		v, _ := flags.GetInt("retention")
		overrides.Retention = &v
	}
	if flags.Changed("app-timeout") {
		v, _ := flags.GetDuration("app-timeout")
		overrides.Timeout = &v
	}
	if flags.Changed("verbose") {
		v, _ := flags.GetBool("verbose")
		overrides.Verbose = &v
	}
	return overrides
}

func (r *RootCommand) setup(cmd *cobra.Command) error {
	if !needsAPI(cmd) {
		return nil
	}

	cfg, err := r.loader.LoadWithOverrides(r.overridesFromFlags())
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	r.config = cfg

	if cfg.Application.Verbose && !logging.DebugEnabled() {
		os.Setenv("TRK_DEBUG", "1")
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	apiInstance, err := r.open(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to open activity database: %w", err)
	}
	apiInstance.Startup(ctx)

	r.app = NewApp(apiInstance, cfg, cmd.OutOrStdout())
	return nil
}

func (r *RootCommand) teardown() error {
	if r.app == nil {
		return nil
	}
	err := r.app.api.Close()
	r.app = nil
	return err
}

// getAppTimeout returns the configured application timeout
func (r *RootCommand) getAppTimeout() time.Duration {
	if r.config != nil && r.config.Application.Timeout > 0 {
		return r.config.Application.Timeout
	}
	return 60 * time.Second
}

// run executes the handler built by newHandler with the app timeout.
func (r *RootCommand) run(cmd *cobra.Command, args []string, newHandler func(*App) Command) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), r.getAppTimeout())
	defer cancel()
	return newHandler(r.app).Execute(ctx, args)
}

// addSubcommands adds all CLI subcommands to the root command
func (r *RootCommand) addSubcommands() {
	var logStart, logEnd string
	logCmd := &cobra.Command{
		Use:   "log TASK",
		Short: "Log a finished activity",
		Long: `Log a finished activity. The end defaults to now and the start to the
end of the previous activity, so consecutive logs form a timeline.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.run(cmd, args, func(app *App) Command {
				c := NewLogCommand(app)
				c.Start, c.End = logStart, logEnd
				return c
			})
		},
	}
	logCmd.Flags().StringVar(&logStart, "start", "", "Start time")
	logCmd.Flags().StringVar(&logEnd, "end", "", "End time")

	var listHTML bool
	listCmd := &cobra.Command{
		Use:   "list [range]",
		Short: "List activities",
		Long: `List activities ordered by end time.

Ranges: 30m, 2h, 1d, 2w, 3mo, 1y`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.run(cmd, args, func(app *App) Command {
				c := NewListCommand(app)
				c.HTML = listHTML
				return c
			})
		},
	}
	listCmd.Flags().BoolVar(&listHTML, "html", false, "Print an HTML list with ticket links")

	var editTask, editStart, editEnd string
	editCmd := &cobra.Command{
		Use:   "edit END",
		Short: "Edit the activity that ended at END",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.run(cmd, args, func(app *App) Command {
				c := NewEditCommand(app)
				c.Task, c.Start, c.End = editTask, editStart, editEnd
				return c
			})
		},
	}
	editCmd.Flags().StringVar(&editTask, "task", "", "New task label")
	editCmd.Flags().StringVar(&editStart, "start", "", "New start time")
	editCmd.Flags().StringVar(&editEnd, "end", "", "New end time")

	var deleteBridge bool
	deleteCmd := &cobra.Command{
		Use:   "delete END",
		Short: "Delete the activity that ended at END",
		Long: `Delete the activity that ended at END. With --bridge, the activity that
started at END is stretched back to the deleted activity's start.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.run(cmd, args, func(app *App) Command {
				c := NewDeleteCommand(app)
				c.Bridge = deleteBridge
				return c
			})
		},
	}
	deleteCmd.Flags().BoolVar(&deleteBridge, "bridge", false, "Close the gap left by the deleted activity")

	recentCmd := &cobra.Command{
		Use:   "recent",
		Short: "Manage recent and pinned task labels",
	}
	recentActions := []struct {
		use, short string
		args       cobra.PositionalArgs
	}{
		{"list", "Show recent items, pinned first", cobra.NoArgs},
		{"pin LABEL", "Pin a label to the end of the pinned items", cobra.MinimumNArgs(1)},
		{"unpin LABEL", "Unpin a label to the top of the recent items", cobra.MinimumNArgs(1)},
		{"reorder LABEL...", "Set the order of pinned or of unpinned items", cobra.MinimumNArgs(1)},
		{"tag LABEL [TAG...]", "Replace the tags of a label", cobra.MinimumNArgs(1)},
		{"rename OLD NEW", "Rename a label", cobra.ExactArgs(2)},
		{"rm LABEL", "Delete a label", cobra.MinimumNArgs(1)},
		{"trim [KEEP]", "Delete the least recently used unpinned items", cobra.MaximumNArgs(1)},
	}
	var recentTag string
	for _, action := range recentActions {
		name := firstWord(action.use)
		sub := &cobra.Command{
			Use:   action.use,
			Short: action.short,
			Args:  action.args,
			RunE: func(cmd *cobra.Command, args []string) error {
				return r.run(cmd, args, func(app *App) Command {
					c := NewRecentCommand(app, name)
					c.Tag = recentTag
					return c
				})
			},
		}
		if name == "list" {
			sub.Flags().StringVar(&recentTag, "tag", "", "Only show items carrying this tag")
		}
		recentCmd.AddCommand(sub)
	}

	settingsCmd := &cobra.Command{
		Use:   "settings",
		Short: "Show or change settings",
	}
	settingsCmd.AddCommand(
		&cobra.Command{
			Use:   "show",
			Short: "Show settings",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return r.run(cmd, args, func(app *App) Command { return NewSettingsCommand(app, "show") })
			},
		},
		&cobra.Command{
			Use:   "set-ticket-url [URL]",
			Short: "Set the ticket URL template; {id} is replaced by the ticket id",
			Args:  cobra.MaximumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return r.run(cmd, args, func(app *App) Command { return NewSettingsCommand(app, "set-ticket-url") })
			},
		},
	)

	var exportFormat string
	exportCmd := &cobra.Command{
		Use:   "export",
		Short: "Export all activities",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.run(cmd, args, func(app *App) Command {
				c := NewExportCommand(app)
				c.Format = exportFormat
				return c
			})
		},
	}
	exportCmd.Flags().StringVar(&exportFormat, "format", "csv", "Output format: csv or html")

	r.cmd.AddCommand(logCmd, listCmd, editCmd, deleteCmd, recentCmd, settingsCmd, exportCmd)
}

// needsAPI is false for cobra's help and completion commands.
func needsAPI(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		switch c.Name() {
		case "help", cobra.ShellCompRequestCmd, cobra.ShellCompNoDescRequestCmd, "completion":
			return false
		}
	}
	return true
}

func firstWord(use string) string {
	for i, ch := range use {
		if ch == ' ' {
			return use[:i]
		}
	}
	return use
}

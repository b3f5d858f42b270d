package commands

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"github.com/strrl/claude-browse/internal/clipboard"
	"github.com/strrl/claude-browse/internal/config"
	"github.com/strrl/claude-browse/internal/errs"
	"github.com/strrl/claude-browse/internal/logging"
	"github.com/strrl/claude-browse/internal/sessions"
	"github.com/strrl/claude-browse/internal/tui"
)

var (
	claudeDir     string
	exportDir     string
	logLevel      string
	countSessions bool
)

// NewRootCommand creates the root command
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "claude-browse",
		Short: "Browse, search and export Claude Code sessions",
		Long: `claude-browse is a TUI application for browsing, searching, filtering and
exporting Claude Code sessions, grouped by project.`,
		SilenceUsage: true,
		RunE:         runTUI,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&claudeDir, "claude-dir", "", "Claude data directory (default ~/.claude)")
	flags.StringVar(&exportDir, "export-dir", "", "Directory for exported sessions (default .)")
	flags.StringVar(&logLevel, "log-level", "", "Write a debug log at this level (debug, info, warn, error)")
	rootCmd.Flags().BoolVar(&countSessions, "count-sessions", false, "Print the number of sessions and exit")

	rootCmd.AddCommand(NewShowCommand())
	rootCmd.AddCommand(NewExportCommand())

	return rootCmd
}

// Execute runs the root command
func Execute() {
	rootCmd := NewRootCommand()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// runtime holds what every command needs
type runtime struct {
	cfg    *config.Config
	log    *log.Logger
	store  *sessions.Store
	closer io.Closer
}

func (r *runtime) Close() {
	_ = r.closer.Close()
}

func setup() (*runtime, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if err := cfg.Override(claudeDir, exportDir, logLevel); err != nil {
		return nil, err
	}

	logger, closer, err := logging.New(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		return nil, err
	}
	logger.Debug("starting", "claude_dir", cfg.ClaudeDir, "export_dir", cfg.ExportDir, "stats", cfg.Stats)

	rt := &runtime{cfg: cfg, log: logger, closer: closer}
	rt.store = sessions.NewStore(rt.storeOptions(cfg.Stats))
	return rt, nil
}

func (r *runtime) storeOptions(stats bool) sessions.Options {
	return sessions.Options{
		HistoryFile:  r.cfg.HistoryFile(),
		ProjectsDir:  r.cfg.ProjectsDir(),
		Stats:        stats,
		StatsTimeout: r.cfg.StatsTimeout,
		Logger:       r.log,
	}
}

func runTUI(cmd *cobra.Command, args []string) error {
	rt, err := setup()
	if err != nil {
		return err
	}
	defer rt.Close()

	if countSessions {
		// Counting needs the history log only
		index, err := sessions.NewStore(rt.storeOptions(false)).ListProjects(cmd.Context())
		if err != nil {
			return errors.New(errs.Describe(err))
		}
		fmt.Fprintln(cmd.OutOrStdout(), index.SessionCount())
		return nil
	}

	// An unreadable history log is the one failure that stops startup
	f, err := os.Open(rt.cfg.HistoryFile())
	if err != nil {
		return errors.New(errs.Describe(&errs.IOError{Op: "open", Path: rt.cfg.HistoryFile(), Err: err}))
	}
	f.Close()

	if !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd()) {
		return errors.New("stdout is not a terminal; use `claude-browse show` for plain output")
	}

	selected, err := tui.Run(cmd.Context(), tui.Options{
		Provider:  rt.store,
		Clipboard: clipboard.NewSystem(),
		ExportDir: rt.cfg.ExportDir,
		Logger:    rt.log,
	})
	if err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}

	if selected == nil {
		return nil
	}

	rt.log.Info("resuming session", "session", selected.ID, "project", selected.ProjectPath)
	return sessions.ExecuteClaudeResume(selected.ID, selected.ProjectPath)
}

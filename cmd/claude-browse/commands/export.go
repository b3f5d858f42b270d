package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/strrl/claude-browse/internal/errs"
	"github.com/strrl/claude-browse/internal/export"
)

var (
	exportFormat string
	exportOutDir string
)

// NewExportCommand creates the export command
func NewExportCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export <session-id>",
		Short: "Export a session to Markdown, JSON or YAML without TUI",
		Long: `Export a session's conversation to a file. The session can be given by
its full id or an unambiguous prefix of at least four characters.`,
		Args: cobra.ExactArgs(1),
		RunE: runExport,
	}
	cmd.Flags().StringVarP(&exportFormat, "format", "f", "md", "Export format: md, json or yaml")
	cmd.Flags().StringVarP(&exportOutDir, "output-dir", "o", "", "Directory to write to (default: the configured export directory)")
	return cmd
}

func runExport(cmd *cobra.Command, args []string) error {
	format, err := export.ParseFormat(exportFormat)
	if err != nil {
		return err
	}

	rt, err := setup()
	if err != nil {
		return err
	}
	defer rt.Close()

	summary, err := rt.store.FindSession(cmd.Context(), args[0])
	if err != nil {
		return errors.New(errs.Describe(err))
	}
	detail, err := rt.store.LoadSessionDetail(cmd.Context(), summary)
	if err != nil {
		return errors.New(errs.Describe(err))
	}

	dir := rt.cfg.ExportDir
	if exportOutDir != "" {
		dir = exportOutDir
	}
	path, err := export.WriteFile(dir, detail, format)
	if err != nil {
		return errors.New(errs.Describe(err))
	}

	rt.log.Info("session exported", "session", summary.ID, "format", format, "path", path)
	fmt.Fprintln(cmd.OutOrStdout(), path)
	return nil
}

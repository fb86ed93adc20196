package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/rshade/dataviewer/internal/config"
	"github.com/rshade/dataviewer/internal/logging"
	"github.com/rshade/dataviewer/internal/source"
	"github.com/rshade/dataviewer/internal/tui"
)

// logger is the package-level logger for CLI operations.
var logger zerolog.Logger //nolint:gochecknoglobals // Required for zerolog context integration

// Deps are the collaborators commands use to reach data sources.
type Deps struct {
	Endpoints []source.Endpoint
	Loader    source.Loader
}

// DefaultDeps returns the compiled-in endpoints and the HTTP loader.
func DefaultDeps() Deps {
	return Deps{
		Endpoints: source.Endpoints(),
		Loader:    source.NewHTTPLoader(),
	}
}

// NewRootCmd creates the root Cobra command for the dataviewer CLI.
// Run without a subcommand it starts the interactive viewer.
func NewRootCmd(ver string) *cobra.Command {
	return NewRootCmdWithDeps(ver, DefaultDeps())
}

// NewRootCmdWithDeps creates the root command with explicit endpoints and
// loader for testability.
func NewRootCmdWithDeps(ver string, deps Deps) *cobra.Command {
	var logResult *logging.LogPathResult

	cmd := &cobra.Command{
		Use:          "dataviewer",
		Short:        "Browse JSON APIs in a terminal table",
		Long:         "dataviewer: load a JSON array from a listed API and explore it as a sortable, filterable table",
		Version:      ver,
		Example:      rootCmdExample,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			configPath, _ := cmd.Flags().GetString("config")
			if _, err := config.LoadGlobalConfig(configPath); err != nil {
				return fmt.Errorf("loading config: %w", err)
			}

			result := setupLogging(cmd, isViewerRun(cmd))
			logResult = &result
			return nil
		},
		PersistentPostRunE: func(_ *cobra.Command, _ []string) error {
			return cleanupLogging(logResult)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runViewer(cmd, deps)
		},
	}

	cmd.PersistentFlags().Bool("debug", false, "enable debug logging")
	cmd.PersistentFlags().String("config", "", "path to config file (default $DATAVIEWER_HOME/config.yaml)")
	cmd.Flags().Bool("plain", false, "list the sources instead of starting the viewer")
	cmd.AddCommand(newSourcesCmd(deps), newFetchCmd(deps), newVersionCmd(ver))

	return cmd
}

const rootCmdExample = `  # Start the interactive viewer
  dataviewer

  # List the available data sources
  dataviewer sources

  # Skip the viewer even in a terminal
  dataviewer --plain

  # Check every source is reachable
  dataviewer sources --probe

  # Print the second page of API 1 as a table
  dataviewer fetch "API 1" --page 2

  # Dump API 2 as newline-delimited JSON
  dataviewer fetch 2 --output ndjson`

// isViewerRun reports whether cmd will start the interactive viewer.
func isViewerRun(cmd *cobra.Command) bool {
	if cmd != cmd.Root() {
		return false
	}
	plain, _ := cmd.Flags().GetBool("plain")
	return tui.DetectOutputMode(plain) == tui.OutputModeInteractive
}

// runViewer starts the Bubble Tea program, or lists the sources when the
// terminal cannot host it.
func runViewer(cmd *cobra.Command, deps Deps) error {
	if !isViewerRun(cmd) {
		out := cmd.OutOrStdout()
		if plain, _ := cmd.Flags().GetBool("plain"); plain {
			fmt.Fprintln(out, "Available sources:")
		} else {
			fmt.Fprintln(out, "The interactive viewer needs a terminal. Available sources:")
		}
		fmt.Fprintln(out)
		if err := renderSources(out, deps.Endpoints); err != nil {
			return err
		}
		fmt.Fprintln(out)
		fmt.Fprintln(out, "Use 'dataviewer fetch <source>' to print a source without the viewer.")
		return nil
	}

	ctx := cmd.Context()
	model := tui.New(ctx, deps.Loader,
		tui.WithEndpoints(deps.Endpoints),
		tui.WithLogger(*logging.FromContext(ctx)),
	)

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running viewer: %w", err)
	}
	logger.Info().Ctx(ctx).Msg("viewer closed")
	return nil
}

package cmd

import (
	"github.com/spf13/cobra"

	"github.com/harlan/shipcheck/internal/config"
	"github.com/harlan/shipcheck/internal/logger"
	"github.com/harlan/shipcheck/internal/report"
	"github.com/harlan/shipcheck/internal/state"
)

// NewHistoryCommand creates the history command
func NewHistoryCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "history",
		Short: "Show recent ship workflow runs",
		Long: `Show the last ship workflow runs for the project, newest first.

History keeps the 10 most recent runs with per-step outcomes and the
readiness score of each run.`,
		Args: cobra.NoArgs,
		RunE: historyCommand,
	}
}

// historyCommand implements the history command logic
func historyCommand(cmd *cobra.Command, _ []string) error {
	root := projectRoot(cmd)

	// The logger keeps persistence degradations (e.g. a corrupt history
	// file read as empty) visible instead of silently dropped.
	log := logger.NewConsoleLogger(cmd.OutOrStdout(), "info")
	store, err := state.NewStore(config.DefaultResumeWindow, log)
	if err != nil {
		return err
	}

	entries := store.LoadHistory(root)
	report.NewConsoleRenderer(cmd.OutOrStdout()).WriteHistory(entries)
	return nil
}

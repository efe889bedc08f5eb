package cmd

import (
	"github.com/spf13/cobra"
)

// Version is injected at build time via -ldflags
var Version = "dev"

// NewRootCommand creates and returns the root cobra command for shipcheck
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "shipcheck",
		Short: "Pre-launch readiness checks and ship workflow for static sites",
		Long: `Shipcheck scores a project against a launch readiness checklist
(SEO, assets, security, performance) and orchestrates the ship workflow:
validate, optimize, check, report, deploy.

Configuration is loaded from .shipcheck/config.yaml if present.
CLI flags override configuration file settings.`,
		Version: Version,
		// Silence usage on errors to avoid duplicate help text
		SilenceUsage: true,
	}

	cmd.PersistentFlags().String("project", ".", "Project root directory")

	// Add subcommands
	cmd.AddCommand(NewCheckCommand())
	cmd.AddCommand(NewShipCommand())
	cmd.AddCommand(NewHistoryCommand())

	return cmd
}

// projectRoot resolves the shared --project flag.
func projectRoot(cmd *cobra.Command) string {
	root, _ := cmd.Flags().GetString("project")
	if root == "" {
		return "."
	}
	return root
}

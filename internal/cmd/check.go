package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/harlan/shipcheck/internal/checklist"
	"github.com/harlan/shipcheck/internal/checks"
	"github.com/harlan/shipcheck/internal/config"
	"github.com/harlan/shipcheck/internal/lockfile"
	"github.com/harlan/shipcheck/internal/report"
)

// NewCheckCommand creates the check command
func NewCheckCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Evaluate launch readiness without running the ship workflow",
		Long: `Run the readiness checklist against the project and report the score.

The command exits non-zero when the project is not ready to launch,
so it can gate CI pipelines.

Examples:
  shipcheck check                        # Console report
  shipcheck check --report json          # JSON to stdout
  shipcheck check --report html --out report.html
  shipcheck check --config custom.yaml`,
		Args: cobra.NoArgs,
		RunE: checkCommand,
	}

	cmd.Flags().String("config", "", "Path to config file (default: .shipcheck/config.yaml)")
	cmd.Flags().String("report", "", "Report format: console, json, md, html")
	cmd.Flags().String("out", "", "Write the report to a file instead of stdout")

	return cmd
}

// checkCommand implements the check command logic
func checkCommand(cmd *cobra.Command, _ []string) error {
	root := projectRoot(cmd)

	cfg, err := loadConfig(cmd, root)
	if err != nil {
		return err
	}

	evaluator, err := checklist.NewEvaluator(cfg.Scoring.Weights, cfg.Scoring.ReadyThreshold)
	if err != nil {
		return err
	}

	result := evaluator.Evaluate(cmd.Context(), root, checks.ForConfig(cfg))

	outPath, _ := cmd.Flags().GetString("out")
	if cfg.ReportFormat == config.FormatConsole {
		if outPath != "" {
			return fmt.Errorf("--out requires a file format (json, md, html)")
		}
		report.NewConsoleRenderer(cmd.OutOrStdout()).WriteChecklist(result)
	} else {
		renderer, err := report.ForFormat(cfg.ReportFormat)
		if err != nil {
			return err
		}
		data, err := renderer.Render(result)
		if err != nil {
			return err
		}
		if outPath != "" {
			if err := lockfile.WriteFileAtomic(outPath, data); err != nil {
				return fmt.Errorf("write report: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Report written to %s\n", outPath)
		} else {
			cmd.OutOrStdout().Write(data)
		}
	}

	if !result.ReadyToLaunch {
		return fmt.Errorf("project is not ready to launch (score %d/100, %d critical issue(s))",
			result.OverallScore, len(result.CriticalIssues))
	}
	return nil
}

// loadConfig loads the config file named by --config, or the project
// default, merges flag overrides, and validates the result.
func loadConfig(cmd *cobra.Command, root string) (*config.Config, error) {
	configPath, _ := cmd.Flags().GetString("config")

	var cfg *config.Config
	var err error
	if configPath != "" {
		cfg, err = config.LoadConfig(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config from %s: %w", configPath, err)
		}
	} else {
		cfg, err = config.LoadConfigFromDir(root)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
	}

	var reportPtr *string
	if cmd.Flags().Changed("report") {
		format, _ := cmd.Flags().GetString("report")
		reportPtr = &format
	}

	var deployPtr *bool
	if cmd.Flags().Changed("deploy") {
		enabled, _ := cmd.Flags().GetBool("deploy")
		deployPtr = &enabled
	}

	var logLevelPtr *string
	if cmd.Flags().Changed("log-level") {
		level, _ := cmd.Flags().GetString("log-level")
		logLevelPtr = &level
	}

	cfg.MergeWithFlags(logLevelPtr, reportPtr, deployPtr)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

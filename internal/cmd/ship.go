package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/harlan/shipcheck/internal/config"
	"github.com/harlan/shipcheck/internal/lockfile"
	"github.com/harlan/shipcheck/internal/logger"
	"github.com/harlan/shipcheck/internal/report"
	"github.com/harlan/shipcheck/internal/state"
	"github.com/harlan/shipcheck/internal/steps"
	"github.com/harlan/shipcheck/internal/workflow"
)

// NewShipCommand creates the ship command
func NewShipCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ship",
		Short: "Run the ship workflow: validate, optimize, check, report, deploy",
		Long: `Run the full ship workflow against the project.

Steps execute in order and tolerate individual failures: a failing step
is recorded and the remaining steps still run. Progress is persisted
after every step, so an interrupted run can be resumed with --resume
within the configured resume window (24h by default).

Deployment only happens when --deploy (or deploy.enabled in the config)
is set AND the readiness check reports the project ready to launch.

Examples:
  shipcheck ship                    # Check and report, no deploy
  shipcheck ship --deploy           # Deploy if ready
  shipcheck ship --resume           # Continue an interrupted run
  shipcheck ship --config custom.yaml`,
		Args: cobra.NoArgs,
		RunE: shipCommand,
	}

	cmd.Flags().String("config", "", "Path to config file (default: .shipcheck/config.yaml)")
	cmd.Flags().String("report", "", "Report format: console, json, md, html")
	cmd.Flags().String("log-level", "", "Log verbosity: debug, info, warn, error")
	cmd.Flags().Bool("deploy", false, "Enable the deploy step")
	cmd.Flags().Bool("resume", false, "Resume the last interrupted run")

	return cmd
}

// shipCommand implements the ship command logic
func shipCommand(cmd *cobra.Command, _ []string) error {
	root := projectRoot(cmd)

	cfg, err := loadConfig(cmd, root)
	if err != nil {
		return err
	}

	// One workflow per project at a time. The advisory lock makes a
	// concurrent second run fail fast instead of corrupting state.
	lock := lockfile.NewRunLock(state.LockPath(root))
	acquired, err := lock.TryAcquire()
	if err != nil {
		return err
	}
	if !acquired {
		return fmt.Errorf("another shipcheck run is already in progress for this project")
	}
	defer lock.Release()

	log := logger.NewConsoleLogger(cmd.OutOrStdout(), cfg.LogLevel)

	store, err := state.NewStore(cfg.ResumeWindow, log)
	if err != nil {
		return err
	}

	opts := workflow.Options{ProjectRoot: root, Config: cfg}

	resume, _ := cmd.Flags().GetBool("resume")
	prior := store.Load(root)
	if resume {
		if prior == nil {
			return fmt.Errorf("no workflow state found to resume")
		}
		if !store.CanResume(prior) {
			return fmt.Errorf("saved workflow from %s cannot be resumed (finished or older than %s); run without --resume",
				prior.LastUpdate.Format("2006-01-02 15:04:05"), cfg.ResumeWindow)
		}
		opts.Resume = prior
		log.Infof("resuming workflow %s from step %d/%d", prior.ID, prior.CurrentStep, prior.TotalSteps)
	} else if prior != nil && store.CanResume(prior) {
		log.Infof("found an interrupted run from %s; starting fresh (use --resume to continue it)",
			prior.LastUpdate.Format("2006-01-02 15:04:05"))
	}

	// Ctrl-C cancels between steps; the persisted state is the resume
	// point.
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runner := workflow.NewRunner(store, log)
	result, err := runner.Run(ctx, steps.ShipSteps(nil), opts)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			fmt.Fprintf(cmd.OutOrStdout(), "\nRun interrupted. Continue with: shipcheck ship --resume\n")
		}
		return err
	}

	if cfg.ReportFormat == config.FormatConsole {
		if cl := result.Checklist(); cl != nil {
			fmt.Fprintln(cmd.OutOrStdout())
			report.NewConsoleRenderer(cmd.OutOrStdout()).WriteChecklist(cl)
		}
	}

	if !result.OverallSuccess {
		return fmt.Errorf("workflow completed with failed step(s)")
	}

	// Finished cleanly; the state file has nothing left to resume.
	store.ClearState(root)
	return nil
}

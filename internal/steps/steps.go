// Package steps defines the built-in ship workflow: validate the
// configuration, optimize assets, run the readiness checks, write the
// report, and optionally deploy. Each step is an independent unit; the
// runner tolerates individual failures.
package steps

import (
	"context"
	"fmt"
	"time"

	"github.com/harlan/shipcheck/internal/checklist"
	"github.com/harlan/shipcheck/internal/checks"
	"github.com/harlan/shipcheck/internal/deploy"
	"github.com/harlan/shipcheck/internal/models"
	"github.com/harlan/shipcheck/internal/workflow"
)

// Step IDs for the built-in ship workflow, in execution order.
const (
	StepValidateConfig = "validate-config"
	StepOptimizeAssets = "optimize-assets"
	StepReadinessCheck = "readiness-check"
	StepGenerateReport = "generate-report"
	StepDeploy         = "deploy"
)

// ShipSteps builds the step definitions for a ship run. A nil deployer
// uses the real deploy CLI; tests inject a fake.
func ShipSteps(deployer *deploy.Deployer) []workflow.StepDefinition {
	if deployer == nil {
		deployer = deploy.NewDeployer(nil)
	}
	return []workflow.StepDefinition{
		{
			ID:          StepValidateConfig,
			Name:        "Validate configuration",
			Description: "Checks scoring weights, thresholds, and deploy settings",
			Run:         runValidateConfig,
		},
		{
			ID:          StepOptimizeAssets,
			Name:        "Optimize assets",
			Description: "Scans static assets for easy size savings",
			Run:         runOptimizeAssets,
		},
		{
			ID:          StepReadinessCheck,
			Name:        "Readiness check",
			Description: "Evaluates the launch checklist and computes the score",
			Run:         runReadinessCheck,
		},
		{
			ID:          StepGenerateReport,
			Name:        "Generate report",
			Description: "Writes the readiness report to the reports directory",
			Run:         runGenerateReport,
		},
		{
			ID:          StepDeploy,
			Name:        "Deploy",
			Description: "Invokes the deploy CLI when the project is ready",
			Run:         deployStep(deployer),
		},
	}
}

func runValidateConfig(_ context.Context, rc *workflow.RunContext) (models.StepResult, error) {
	if rc.Config == nil {
		return nil, fmt.Errorf("no configuration loaded")
	}
	if err := rc.Config.Validate(); err != nil {
		return nil, err
	}
	return &models.MessageResult{
		Message: fmt.Sprintf("configuration valid (ready threshold %d, deploy enabled %t)",
			rc.Config.Scoring.ReadyThreshold, rc.Config.Deploy.Enabled),
	}, nil
}

func runReadinessCheck(ctx context.Context, rc *workflow.RunContext) (models.StepResult, error) {
	evaluator, err := checklist.NewEvaluator(rc.Config.Scoring.Weights, rc.Config.Scoring.ReadyThreshold)
	if err != nil {
		return nil, err
	}
	result := evaluator.Evaluate(ctx, rc.ProjectRoot, checks.ForConfig(rc.Config))
	return &models.ChecklistResult{Checklist: *result}, nil
}

// deployStep gates deployment on configuration and the readiness
// verdict. Both gates produce a skip, not a failure: an intentionally
// withheld deploy should not mark the run unsuccessful.
func deployStep(deployer *deploy.Deployer) workflow.StepFunc {
	return func(ctx context.Context, rc *workflow.RunContext) (models.StepResult, error) {
		if !rc.Config.Deploy.Enabled {
			return nil, fmt.Errorf("%w: deployment disabled in configuration", workflow.ErrSkipStep)
		}
		cl := rc.Checklist()
		if cl == nil {
			return nil, fmt.Errorf("%w: no readiness verdict available", workflow.ErrSkipStep)
		}
		if !cl.ReadyToLaunch {
			return nil, fmt.Errorf("%w: project not ready to launch (score %d)", workflow.ErrSkipStep, cl.OverallScore)
		}

		command, output, err := deployer.Deploy(ctx, rc.ProjectRoot, rc.Config.Deploy)
		if err != nil {
			return nil, err
		}
		return &models.DeployResult{Command: command, Output: output}, nil
	}
}

// reportTimestamp names report files. Seconds granularity is enough;
// runs are minutes apart in practice.
func reportTimestamp(now time.Time) string {
	return now.UTC().Format("20060102-150405")
}

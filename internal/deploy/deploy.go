// Package deploy wraps the external deploy CLI behind a small command
// seam. The core never knows how a deployment works; it only invokes
// the configured command and records its output.
package deploy

import (
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/harlan/shipcheck/internal/config"
)

// CommandRunner executes an external command and returns its combined
// output. Injectable for tests.
type CommandRunner interface {
	Run(ctx context.Context, dir string, name string, args ...string) (output string, err error)
}

// ExecRunner runs commands with os/exec.
type ExecRunner struct{}

// Run implements CommandRunner.
func (ExecRunner) Run(ctx context.Context, dir string, name string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	out, err := cmd.CombinedOutput()
	if err != nil {
		return string(out), fmt.Errorf("%s %s: %w", name, strings.Join(args, " "), err)
	}
	return string(out), nil
}

// Deployer invokes the configured deploy CLI from the project root.
type Deployer struct {
	runner CommandRunner
}

// NewDeployer creates a Deployer. A nil runner uses ExecRunner.
func NewDeployer(runner CommandRunner) *Deployer {
	if runner == nil {
		runner = ExecRunner{}
	}
	return &Deployer{runner: runner}
}

// Deploy runs the deploy command and returns the command line that was
// executed plus its output. The caller decides what a failure means;
// the Deployer just reports it.
func (d *Deployer) Deploy(ctx context.Context, projectRoot string, cfg config.DeployConfig) (command string, output string, err error) {
	if cfg.Command == "" {
		return "", "", fmt.Errorf("deploy command not configured")
	}
	command = strings.TrimSpace(cfg.Command + " " + strings.Join(cfg.Args, " "))
	output, err = d.runner.Run(ctx, projectRoot, cfg.Command, cfg.Args...)
	return command, output, err
}

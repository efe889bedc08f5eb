package steps

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/harlan/shipcheck/internal/config"
	"github.com/harlan/shipcheck/internal/lockfile"
	"github.com/harlan/shipcheck/internal/models"
	"github.com/harlan/shipcheck/internal/report"
	"github.com/harlan/shipcheck/internal/workflow"
)

// runGenerateReport writes the readiness report under
// .shipcheck/reports. JSON is always written as the canonical record;
// the configured format is written alongside it when it is a file
// format (console output is handled by the CLI at the end of the run).
func runGenerateReport(_ context.Context, rc *workflow.RunContext) (models.StepResult, error) {
	cl := rc.Checklist()
	if cl == nil {
		return nil, fmt.Errorf("%w: no readiness checklist to report on", workflow.ErrSkipStep)
	}

	reportsDir := filepath.Join(rc.ProjectRoot, config.ToolDir, "reports")
	if err := os.MkdirAll(reportsDir, 0755); err != nil {
		return nil, fmt.Errorf("create reports directory: %w", err)
	}

	formats := []string{config.FormatJSON}
	if f := rc.Config.ReportFormat; f != config.FormatConsole && f != config.FormatJSON {
		formats = append(formats, f)
	}

	stamp := reportTimestamp(time.Now())
	paths := make([]string, 0, len(formats))
	for _, format := range formats {
		renderer, err := report.ForFormat(format)
		if err != nil {
			return nil, err
		}
		data, err := renderer.Render(cl)
		if err != nil {
			return nil, err
		}
		path := filepath.Join(reportsDir, fmt.Sprintf("readiness-%s.%s", stamp, report.FileExtension(format)))
		if err := lockfile.WriteFileAtomic(path, data); err != nil {
			return nil, fmt.Errorf("write report %s: %w", path, err)
		}
		paths = append(paths, path)
	}

	return &models.ReportResult{Format: rc.Config.ReportFormat, Paths: paths}, nil
}

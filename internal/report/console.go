package report

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"

	"github.com/harlan/shipcheck/internal/logger"
	"github.com/harlan/shipcheck/internal/models"
)

// ConsoleRenderer writes a human-oriented report to a terminal, with
// color when the writer supports it.
type ConsoleRenderer struct {
	writer      io.Writer
	colorOutput bool
}

// NewConsoleRenderer creates a ConsoleRenderer for the writer.
func NewConsoleRenderer(w io.Writer) *ConsoleRenderer {
	useColor := false
	if f, ok := w.(*os.File); ok && !color.NoColor {
		useColor = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
	return &ConsoleRenderer{writer: w, colorOutput: useColor}
}

// WriteChecklist prints the full readiness report.
func (cr *ConsoleRenderer) WriteChecklist(checklist *models.LaunchChecklist) {
	fmt.Fprintf(cr.writer, "Launch Readiness Report (%s)\n", checklist.Timestamp.Format(time.RFC3339))
	fmt.Fprintf(cr.writer, "Overall score: %s\n", cr.scoreText(checklist.OverallScore))

	verdict := "NOT READY"
	if checklist.ReadyToLaunch {
		verdict = "READY TO LAUNCH"
	}
	if cr.colorOutput {
		if checklist.ReadyToLaunch {
			verdict = color.New(color.FgGreen, color.Bold).Sprint(verdict)
		} else {
			verdict = color.New(color.FgRed, color.Bold).Sprint(verdict)
		}
	}
	fmt.Fprintf(cr.writer, "Verdict: %s\n\n", verdict)

	for _, section := range checklist.Sections {
		fmt.Fprintf(cr.writer, "%s (%s)\n", cr.bold(section.Name), cr.scoreText(section.Score))
		if len(section.Items) == 0 {
			fmt.Fprintf(cr.writer, "  no checks registered\n")
		}
		for _, item := range section.Items {
			fmt.Fprintf(cr.writer, "  [%s] %s", cr.statusText(item.Status), item.Name)
			if item.Message != "" {
				fmt.Fprintf(cr.writer, " - %s", item.Message)
			}
			fmt.Fprintln(cr.writer)
		}
		fmt.Fprintln(cr.writer)
	}

	if len(checklist.CriticalIssues) > 0 {
		fmt.Fprintf(cr.writer, "%s\n", cr.bold("Critical issues blocking launch:"))
		for _, item := range checklist.CriticalIssues {
			fmt.Fprintf(cr.writer, "  - %s", item.Name)
			if item.Fix != "" {
				fmt.Fprintf(cr.writer, " (fix: %s)", item.Fix)
			}
			fmt.Fprintln(cr.writer)
		}
	}
}

// WriteHistory prints the run history, newest first.
func (cr *ConsoleRenderer) WriteHistory(entries []models.HistoryEntry) {
	if len(entries) == 0 {
		fmt.Fprintln(cr.writer, "No workflow runs recorded yet.")
		return
	}

	fmt.Fprintf(cr.writer, "Last %d workflow run(s):\n\n", len(entries))
	for _, entry := range entries {
		status := "FAILED"
		if entry.Success {
			status = "SUCCESS"
		}
		if cr.colorOutput {
			if entry.Success {
				status = color.New(color.FgGreen).Sprint(status)
			} else {
				status = color.New(color.FgRed).Sprint(status)
			}
		}

		fmt.Fprintf(cr.writer, "%s  %s  %s", entry.Timestamp.Format("2006-01-02 15:04:05"), status,
			logger.FormatDuration(entry.Duration))
		if entry.OverallScore != nil {
			fmt.Fprintf(cr.writer, "  score %d/100", *entry.OverallScore)
		}
		fmt.Fprintln(cr.writer)

		for _, step := range entry.Steps {
			fmt.Fprintf(cr.writer, "    %-20s %s\n", step.ID, step.Status)
		}
		fmt.Fprintln(cr.writer)
	}
}

func (cr *ConsoleRenderer) bold(s string) string {
	if cr.colorOutput {
		return color.New(color.Bold).Sprint(s)
	}
	return s
}

// scoreText colors a score by band: green >= 90, yellow >= 70, red
// below.
func (cr *ConsoleRenderer) scoreText(score int) string {
	text := fmt.Sprintf("%d/100", score)
	if !cr.colorOutput {
		return text
	}
	switch {
	case score >= 90:
		return color.New(color.FgGreen).Sprint(text)
	case score >= 70:
		return color.New(color.FgYellow).Sprint(text)
	default:
		return color.New(color.FgRed).Sprint(text)
	}
}

func (cr *ConsoleRenderer) statusText(status models.ItemStatus) string {
	label := statusLabel(status)
	if !cr.colorOutput {
		return label
	}
	switch status {
	case models.StatusPass:
		return color.New(color.FgGreen).Sprint(label)
	case models.StatusFail:
		return color.New(color.FgRed).Sprint(label)
	case models.StatusWarning:
		return color.New(color.FgYellow).Sprint(label)
	case models.StatusSkip:
		return color.New(color.FgHiBlack).Sprint(label)
	default:
		return label
	}
}

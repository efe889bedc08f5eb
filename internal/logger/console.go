// Package logger provides the leveled console logger used for workflow
// progress output and as the diagnostic sink for best-effort
// persistence errors. Output is timestamped, thread-safe, and
// colorized when writing to a terminal.
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"

	"github.com/harlan/shipcheck/internal/models"
)

// Log level constants for filtering.
const (
	levelDebug int = 0
	levelInfo  int = 1
	levelWarn  int = 2
	levelError int = 3
)

// ConsoleLogger writes timestamped, level-filtered log lines to a
// writer. Color is enabled automatically when the writer is a TTY.
type ConsoleLogger struct {
	writer      io.Writer
	logLevel    string
	mutex       sync.Mutex
	colorOutput bool
}

// NewConsoleLogger creates a ConsoleLogger writing to w. If w is nil,
// messages are discarded. logLevel is one of debug, info, warn, error
// (case-insensitive); empty or unknown levels default to info.
func NewConsoleLogger(w io.Writer, logLevel string) *ConsoleLogger {
	return &ConsoleLogger{
		writer:      w,
		logLevel:    normalizeLogLevel(logLevel),
		colorOutput: isTerminal(w),
	}
}

// isTerminal reports whether the writer is a TTY that supports color.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	// color.NoColor honors the NO_COLOR convention.
	if color.NoColor {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// normalizeLogLevel lowercases and validates a level string, defaulting
// to "info".
func normalizeLogLevel(level string) string {
	normalized := strings.ToLower(strings.TrimSpace(level))
	switch normalized {
	case "debug", "info", "warn", "error":
		return normalized
	}
	return "info"
}

func logLevelToInt(level string) int {
	switch level {
	case "debug":
		return levelDebug
	case "info":
		return levelInfo
	case "warn":
		return levelWarn
	case "error":
		return levelError
	default:
		return levelInfo
	}
}

func (cl *ConsoleLogger) shouldLog(messageLevel string) bool {
	return logLevelToInt(messageLevel) >= logLevelToInt(cl.logLevel)
}

// Debugf logs a formatted debug-level message.
func (cl *ConsoleLogger) Debugf(format string, args ...interface{}) {
	cl.logWithLevel("DEBUG", fmt.Sprintf(format, args...))
}

// Infof logs a formatted info-level message.
func (cl *ConsoleLogger) Infof(format string, args ...interface{}) {
	cl.logWithLevel("INFO", fmt.Sprintf(format, args...))
}

// Warnf logs a formatted warning-level message.
func (cl *ConsoleLogger) Warnf(format string, args ...interface{}) {
	cl.logWithLevel("WARN", fmt.Sprintf(format, args...))
}

// Errorf logs a formatted error-level message.
func (cl *ConsoleLogger) Errorf(format string, args ...interface{}) {
	cl.logWithLevel("ERROR", fmt.Sprintf(format, args...))
}

func (cl *ConsoleLogger) logWithLevel(level, message string) {
	if cl.writer == nil {
		return
	}
	if !cl.shouldLog(strings.ToLower(level)) {
		return
	}

	cl.mutex.Lock()
	defer cl.mutex.Unlock()

	ts := timestamp()
	if cl.colorOutput {
		fmt.Fprintf(cl.writer, "[%s] [%s] %s\n", ts, colorLevel(level), message)
		return
	}
	fmt.Fprintf(cl.writer, "[%s] [%s] %s\n", ts, level, message)
}

func colorLevel(level string) string {
	switch level {
	case "DEBUG":
		return color.New(color.FgCyan).Sprint(level)
	case "INFO":
		return color.New(color.FgBlue).Sprint(level)
	case "WARN":
		return color.New(color.FgYellow).Sprint(level)
	case "ERROR":
		return color.New(color.FgRed).Sprint(level)
	default:
		return level
	}
}

// LogStepStart logs the beginning of a workflow step at INFO level.
// Format: "[HH:MM:SS] Step 2/5: Readiness check"
func (cl *ConsoleLogger) LogStepStart(step models.WorkflowStep, index, total int) {
	if cl.writer == nil || !cl.shouldLog("info") {
		return
	}

	cl.mutex.Lock()
	defer cl.mutex.Unlock()

	name := step.Name
	if cl.colorOutput {
		name = color.New(color.Bold).Sprint(name)
	}
	fmt.Fprintf(cl.writer, "[%s] Step %d/%d: %s\n", timestamp(), index+1, total, name)
}

// LogStepComplete logs a step's terminal state at INFO level, with the
// failure message when the step failed.
func (cl *ConsoleLogger) LogStepComplete(step models.WorkflowStep) {
	if cl.writer == nil || !cl.shouldLog("info") {
		return
	}

	cl.mutex.Lock()
	defer cl.mutex.Unlock()

	ts := timestamp()
	status := string(step.Status)
	if cl.colorOutput {
		switch step.Status {
		case models.StepCompleted:
			status = color.New(color.FgGreen).Sprint(status)
		case models.StepFailed:
			status = color.New(color.FgRed).Sprint(status)
		case models.StepSkipped:
			status = color.New(color.FgYellow).Sprint(status)
		}
	}

	if step.Status == models.StepFailed && step.Error != "" {
		fmt.Fprintf(cl.writer, "[%s]   %s: %s (%s) - %s\n",
			ts, step.Name, status, FormatDuration(step.Duration), step.Error)
		return
	}
	fmt.Fprintf(cl.writer, "[%s]   %s: %s (%s)\n", ts, step.Name, status, FormatDuration(step.Duration))
}

// LogRunSummary logs the aggregate outcome of a workflow run at INFO
// level: counts per terminal status, duration, and failed step detail.
func (cl *ConsoleLogger) LogRunSummary(result models.WorkflowResult) {
	if cl.writer == nil || !cl.shouldLog("info") {
		return
	}

	cl.mutex.Lock()
	defer cl.mutex.Unlock()

	ts := timestamp()
	completed, failed, skipped := 0, 0, 0
	for _, step := range result.Steps {
		switch step.Status {
		case models.StepCompleted:
			completed++
		case models.StepFailed:
			failed++
		case models.StepSkipped:
			skipped++
		}
	}

	header := "=== Workflow Summary ==="
	if cl.colorOutput {
		header = color.New(color.Bold).Sprint(header)
	}
	fmt.Fprintf(cl.writer, "[%s] %s\n", ts, header)
	fmt.Fprintf(cl.writer, "[%s] Steps: %d total, %d completed, %d failed, %d skipped\n",
		ts, len(result.Steps), completed, failed, skipped)
	fmt.Fprintf(cl.writer, "[%s] Duration: %s\n", ts, FormatDuration(result.Duration))

	verdict := "SUCCESS"
	if !result.OverallSuccess {
		verdict = "FAILED"
	}
	if cl.colorOutput {
		if result.OverallSuccess {
			verdict = color.New(color.FgGreen).Sprint(verdict)
		} else {
			verdict = color.New(color.FgRed).Sprint(verdict)
		}
	}
	fmt.Fprintf(cl.writer, "[%s] Result: %s\n", ts, verdict)

	if failed > 0 {
		fmt.Fprintf(cl.writer, "[%s] Failed steps:\n", ts)
		for _, step := range result.Steps {
			if step.Status == models.StepFailed {
				fmt.Fprintf(cl.writer, "[%s]   - %s: %s\n", ts, step.Name, step.Error)
			}
		}
	}
}

// timestamp returns the current time formatted as HH:MM:SS.
func timestamp() string {
	return time.Now().Format("15:04:05")
}

// FormatDuration renders a duration as a compact human-readable string.
// Examples: "5s", "1m30s", "2h15m".
func FormatDuration(d time.Duration) string {
	switch {
	case d >= time.Hour:
		hours := d / time.Hour
		remainder := d % time.Hour
		minutes := remainder / time.Minute
		if minutes == 0 {
			return fmt.Sprintf("%dh", hours)
		}
		return fmt.Sprintf("%dh%dm", hours, minutes)
	case d >= time.Minute:
		minutes := d / time.Minute
		seconds := (d % time.Minute) / time.Second
		if seconds == 0 {
			return fmt.Sprintf("%dm", minutes)
		}
		return fmt.Sprintf("%dm%ds", minutes, seconds)
	case d >= time.Second:
		return fmt.Sprintf("%ds", int64(d.Seconds()))
	default:
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
}

// NoOpLogger discards all messages. Useful in tests and when logging
// is disabled.
type NoOpLogger struct{}

// NewNoOpLogger creates a NoOpLogger.
func NewNoOpLogger() *NoOpLogger { return &NoOpLogger{} }

// Debugf is a no-op.
func (n *NoOpLogger) Debugf(format string, args ...interface{}) {}

// Infof is a no-op.
func (n *NoOpLogger) Infof(format string, args ...interface{}) {}

// Warnf is a no-op.
func (n *NoOpLogger) Warnf(format string, args ...interface{}) {}

// Errorf is a no-op.
func (n *NoOpLogger) Errorf(format string, args ...interface{}) {}

// LogStepStart is a no-op.
func (n *NoOpLogger) LogStepStart(step models.WorkflowStep, index, total int) {}

// LogStepComplete is a no-op.
func (n *NoOpLogger) LogStepComplete(step models.WorkflowStep) {}

// LogRunSummary is a no-op.
func (n *NoOpLogger) LogRunSummary(result models.WorkflowResult) {}

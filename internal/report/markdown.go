package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/harlan/shipcheck/internal/models"
)

// MarkdownRenderer produces a readable summary for READMEs, pull
// requests, and the HTML renderer, which converts this output.
type MarkdownRenderer struct{}

// Render implements Renderer.
func (MarkdownRenderer) Render(checklist *models.LaunchChecklist) ([]byte, error) {
	var sb strings.Builder

	sb.WriteString("# Launch Readiness Report\n\n")
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", checklist.Timestamp.Format(time.RFC3339)))
	sb.WriteString(fmt.Sprintf("**Overall score: %d/100**\n\n", checklist.OverallScore))

	if checklist.ReadyToLaunch {
		sb.WriteString("**Verdict: READY TO LAUNCH**\n\n")
	} else {
		sb.WriteString("**Verdict: NOT READY**\n\n")
	}

	if len(checklist.CriticalIssues) > 0 {
		sb.WriteString("## Critical Issues\n\n")
		for _, item := range checklist.CriticalIssues {
			writeItemLine(&sb, item)
		}
		sb.WriteString("\n")
	}

	if len(checklist.Warnings) > 0 {
		sb.WriteString("## Warnings\n\n")
		for _, item := range checklist.Warnings {
			writeItemLine(&sb, item)
		}
		sb.WriteString("\n")
	}

	sb.WriteString("## Sections\n\n")
	for _, section := range checklist.Sections {
		sb.WriteString(fmt.Sprintf("### %s - %d/100\n\n", section.Name, section.Score))
		if len(section.Items) == 0 {
			sb.WriteString("_No checks registered._\n\n")
			continue
		}
		for _, item := range section.Items {
			writeItemLine(&sb, item)
		}
		sb.WriteString("\n")
	}

	return []byte(sb.String()), nil
}

// writeItemLine renders one checklist item as a Markdown bullet.
func writeItemLine(sb *strings.Builder, item models.ChecklistItem) {
	sb.WriteString(fmt.Sprintf("- `%s` %s", statusLabel(item.Status), item.Name))
	if item.Message != "" {
		sb.WriteString(fmt.Sprintf(" - %s", item.Message))
	}
	if item.Fix != "" {
		sb.WriteString(fmt.Sprintf(" (fix: %s)", item.Fix))
	}
	sb.WriteString("\n")
}

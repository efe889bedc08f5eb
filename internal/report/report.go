// Package report renders a LaunchChecklist for people and machines:
// colorized console output, a self-contained HTML document, canonical
// JSON, and a Markdown summary. Renderers only consume the checklist;
// they never re-evaluate anything.
package report

import (
	"fmt"

	"github.com/harlan/shipcheck/internal/config"
	"github.com/harlan/shipcheck/internal/models"
)

// Renderer turns an evaluation snapshot into a document.
type Renderer interface {
	Render(checklist *models.LaunchChecklist) ([]byte, error)
}

// ForFormat returns the file renderer for a format identifier.
func ForFormat(format string) (Renderer, error) {
	switch format {
	case config.FormatJSON:
		return JSONRenderer{}, nil
	case config.FormatMarkdown:
		return MarkdownRenderer{}, nil
	case config.FormatHTML:
		return HTMLRenderer{}, nil
	default:
		return nil, fmt.Errorf("no file renderer for format %q", format)
	}
}

// FileExtension returns the conventional extension for a format.
func FileExtension(format string) string {
	switch format {
	case config.FormatJSON:
		return "json"
	case config.FormatMarkdown:
		return "md"
	case config.FormatHTML:
		return "html"
	default:
		return "txt"
	}
}

// statusLabel maps an item status to its display marker.
func statusLabel(status models.ItemStatus) string {
	switch status {
	case models.StatusPass:
		return "PASS"
	case models.StatusFail:
		return "FAIL"
	case models.StatusWarning:
		return "WARN"
	case models.StatusSkip:
		return "SKIP"
	default:
		return string(status)
	}
}

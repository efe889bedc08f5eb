package report

import (
	"bytes"
	"fmt"

	"github.com/yuin/goldmark"

	"github.com/harlan/shipcheck/internal/models"
)

// htmlShell wraps the rendered body in a standalone document. Styles
// are inlined; the report must open offline with no external assets.
const htmlShell = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>Launch Readiness Report</title>
<style>
body { font-family: -apple-system, "Segoe UI", Roboto, sans-serif; max-width: 820px; margin: 2rem auto; padding: 0 1rem; color: #1f2328; line-height: 1.5; }
h1 { border-bottom: 2px solid #d0d7de; padding-bottom: .3rem; }
h2 { margin-top: 2rem; }
h3 { margin-top: 1.5rem; }
code { background: #f6f8fa; border-radius: 4px; padding: .1rem .35rem; font-size: .9em; }
li { margin: .25rem 0; }
strong { color: #0b3d91; }
</style>
</head>
<body>
%s</body>
</html>
`

// HTMLRenderer produces a self-contained HTML document by converting
// the Markdown rendering.
type HTMLRenderer struct{}

// Render implements Renderer.
func (HTMLRenderer) Render(checklist *models.LaunchChecklist) ([]byte, error) {
	md, err := (MarkdownRenderer{}).Render(checklist)
	if err != nil {
		return nil, err
	}

	var body bytes.Buffer
	if err := goldmark.New().Convert(md, &body); err != nil {
		return nil, fmt.Errorf("convert report to HTML: %w", err)
	}

	return []byte(fmt.Sprintf(htmlShell, body.String())), nil
}

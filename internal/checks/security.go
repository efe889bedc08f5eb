package checks

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/harlan/shipcheck/internal/models"
)

// CheckSecurity verifies that secrets stay out of the published tree
// and that the page does not reference insecure origins.
func CheckSecurity(ctx context.Context, projectRoot string) (models.ChecklistSection, error) {
	section := models.ChecklistSection{Name: "Security", Required: true}
	html := readIndexHTML(projectRoot)

	env := models.ChecklistItem{
		ID:       "security-env-ignored",
		Name:     ".env excluded from the repository",
		Status:   models.StatusPass,
		Required: true,
		Fix:      "add .env to .gitignore and remove it from version control",
	}
	if fileExists(projectRoot, ".env") && !gitignoreCovers(projectRoot, ".env") {
		env.Status = models.StatusFail
		env.Message = ".env exists and is not listed in .gitignore"
	}
	section.Items = append(section.Items, env)

	mixed := models.ChecklistItem{
		ID:     "security-mixed-content",
		Name:   "no insecure http:// references",
		Status: models.StatusPass,
		Fix:    "switch http:// URLs in index.html to https://",
	}
	if strings.Contains(html, `src="http://`) || strings.Contains(html, `href="http://`) {
		mixed.Status = models.StatusWarning
		mixed.Message = "index.html references http:// resources"
	}
	section.Items = append(section.Items, mixed)

	return section, nil
}

// gitignoreCovers reports whether a .gitignore line matches the given
// name exactly. Pattern semantics beyond exact lines are out of scope
// for a pre-launch sanity check.
func gitignoreCovers(projectRoot string, name string) bool {
	data, err := os.ReadFile(filepath.Join(projectRoot, ".gitignore"))
	if err != nil {
		return false
	}
	for _, line := range strings.Split(string(data), "\n") {
		if strings.TrimSpace(line) == name {
			return true
		}
	}
	return false
}

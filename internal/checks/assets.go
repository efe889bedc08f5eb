package checks

import (
	"context"
	"strings"

	"github.com/harlan/shipcheck/internal/models"
)

// CheckAssets verifies the presence of the icon and social-share
// assets browsers and link previews expect.
func CheckAssets(ctx context.Context, projectRoot string) (models.ChecklistSection, error) {
	section := models.ChecklistSection{Name: "Assets"}
	html := readIndexHTML(projectRoot)

	favicon := models.ChecklistItem{
		ID:        "assets-favicon",
		Name:      "favicon present",
		Status:    models.StatusWarning,
		Automated: true,
		Fix:       "add a favicon.ico (or .svg/.png) at the site root",
	}
	if anyFileExists(projectRoot, "favicon.ico", "favicon.svg", "favicon.png") {
		favicon.Status = models.StatusPass
	} else {
		favicon.Message = "no favicon file found"
	}
	section.Items = append(section.Items, favicon)

	touchIcon := models.ChecklistItem{
		ID:        "assets-apple-touch-icon",
		Name:      "apple touch icon present",
		Status:    models.StatusWarning,
		Automated: true,
		Fix:       "add an apple-touch-icon.png for iOS home screens",
	}
	if fileExists(projectRoot, "apple-touch-icon.png") {
		touchIcon.Status = models.StatusPass
	} else {
		touchIcon.Message = "apple-touch-icon.png not found"
	}
	section.Items = append(section.Items, touchIcon)

	ogImage := models.ChecklistItem{
		ID:     "assets-og-image",
		Name:   "social share image configured",
		Status: models.StatusWarning,
		Fix:    "add an og:image meta tag so shared links render a preview",
	}
	if strings.Contains(html, `property="og:image"`) {
		ogImage.Status = models.StatusPass
	} else {
		ogImage.Message = "no og:image meta tag in index.html"
	}
	section.Items = append(section.Items, ogImage)

	return section, nil
}

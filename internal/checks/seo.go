package checks

import (
	"context"
	"strings"

	"github.com/harlan/shipcheck/internal/models"
)

// CheckSEO verifies the crawler-facing basics: robots.txt, sitemap.xml,
// and the title/description tags in index.html.
func CheckSEO(ctx context.Context, projectRoot string) (models.ChecklistSection, error) {
	section := models.ChecklistSection{Name: "SEO", Required: true}
	html := readIndexHTML(projectRoot)

	robots := models.ChecklistItem{
		ID:        "seo-robots",
		Name:      "robots.txt exists",
		Status:    models.StatusFail,
		Required:  true,
		Automated: true,
		Fix:       "add a robots.txt at the site root",
	}
	if fileExists(projectRoot, "robots.txt") {
		robots.Status = models.StatusPass
	} else {
		robots.Message = "robots.txt not found"
	}
	section.Items = append(section.Items, robots)

	sitemap := models.ChecklistItem{
		ID:        "seo-sitemap",
		Name:      "sitemap.xml exists",
		Status:    models.StatusFail,
		Required:  true,
		Automated: true,
		Fix:       "generate a sitemap.xml and reference it from robots.txt",
	}
	if fileExists(projectRoot, "sitemap.xml") {
		sitemap.Status = models.StatusPass
	} else {
		sitemap.Message = "sitemap.xml not found"
	}
	section.Items = append(section.Items, sitemap)

	title := models.ChecklistItem{
		ID:       "seo-title",
		Name:     "page title present",
		Status:   models.StatusFail,
		Required: true,
		Fix:      "add a <title> element to index.html",
	}
	switch {
	case html == "":
		title.Message = "index.html not found or unreadable"
	case strings.Contains(html, "<title>"):
		title.Status = models.StatusPass
	default:
		title.Message = "index.html has no <title> element"
	}
	section.Items = append(section.Items, title)

	description := models.ChecklistItem{
		ID:     "seo-meta-description",
		Name:   "meta description present",
		Status: models.StatusWarning,
		Fix:    "add <meta name=\"description\"> to index.html",
	}
	if strings.Contains(html, `name="description"`) {
		description.Status = models.StatusPass
	} else {
		description.Message = "no meta description found in index.html"
	}
	section.Items = append(section.Items, description)

	return section, nil
}

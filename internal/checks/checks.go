// Package checks ships the built-in check providers. Each provider
// performs only cheap project inspection (file existence, small reads)
// and reports statuses; scoring and verdicts belong to the checklist
// package. Heavier tooling (image compression, Lighthouse runs) stays
// outside the core and surfaces here only as manual-verification
// items.
package checks

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/harlan/shipcheck/internal/checklist"
	"github.com/harlan/shipcheck/internal/config"
)

// ForConfig returns the enabled providers in evaluation order.
func ForConfig(cfg *config.Config) []checklist.Provider {
	var providers []checklist.Provider
	if cfg.Checks.SEO {
		providers = append(providers, checklist.Provider{Name: "SEO", Check: CheckSEO})
	}
	if cfg.Checks.Assets {
		providers = append(providers, checklist.Provider{Name: "Assets", Check: CheckAssets})
	}
	if cfg.Checks.Security {
		providers = append(providers, checklist.Provider{Name: "Security", Check: CheckSecurity})
	}
	if cfg.Checks.Performance {
		providers = append(providers, checklist.Provider{Name: "Performance", Check: CheckPerformance})
	}
	return providers
}

// fileExists reports whether a regular file exists under the project
// root.
func fileExists(projectRoot string, name string) bool {
	info, err := os.Stat(filepath.Join(projectRoot, name))
	return err == nil && info.Mode().IsRegular()
}

// anyFileExists reports whether any of the named files exists.
func anyFileExists(projectRoot string, names ...string) bool {
	for _, name := range names {
		if fileExists(projectRoot, name) {
			return true
		}
	}
	return false
}

// readIndexHTML returns the project's index.html content, lowercased
// for case-insensitive tag matching. Missing file yields "".
func readIndexHTML(projectRoot string) string {
	data, err := os.ReadFile(filepath.Join(projectRoot, "index.html"))
	if err != nil {
		return ""
	}
	return strings.ToLower(string(data))
}

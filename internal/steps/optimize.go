package steps

import (
	"bytes"
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/harlan/shipcheck/internal/config"
	"github.com/harlan/shipcheck/internal/models"
	"github.com/harlan/shipcheck/internal/workflow"
)

// assetExtensions are the static files the optimize step scans.
var assetExtensions = map[string]bool{
	".css":  true,
	".js":   true,
	".html": true,
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
	".svg":  true,
	".webp": true,
	".ico":  true,
}

// textExtensions are assets whose whitespace can be trimmed safely.
var textExtensions = map[string]bool{
	".css":  true,
	".js":   true,
	".html": true,
	".svg":  true,
}

// skipDirs are never descended into during the asset scan.
var skipDirs = map[string]bool{
	config.ToolDir:  true,
	".git":          true,
	"node_modules":  true,
	"vendor":        true,
	"dist":          true,
	"build":         true,
	".next":         true,
	".svelte-kit":   true,
	"__pycache__":   true,
	".pytest_cache": true,
}

// runOptimizeAssets walks the project for static assets and measures
// the bytes that trimming trailing whitespace and excess blank lines
// from text assets would save. The files are only rewritten when
// optimize.rewrite is enabled in the config; by default the step
// reports without mutating anything. Binary assets are counted only.
func runOptimizeAssets(ctx context.Context, rc *workflow.RunContext) (models.StepResult, error) {
	result := &models.OptimizeResult{}
	rewrite := rc.Config.Optimize.Rewrite

	err := filepath.WalkDir(rc.ProjectRoot, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() {
			if skipDirs[d.Name()] {
				return filepath.SkipDir
			}
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}

		ext := strings.ToLower(filepath.Ext(path))
		if !assetExtensions[ext] {
			return nil
		}
		result.AssetsScanned++

		if !textExtensions[ext] {
			return nil
		}
		saved, err := trimTextAsset(path, rewrite)
		if err != nil {
			return err
		}
		if saved > 0 {
			result.AssetsOptimized++
			result.BytesSaved += saved
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// trimTextAsset computes the bytes saved by removing trailing spaces
// and tabs per line and collapsing runs of blank lines, and rewrites
// the file only when asked to and the trim actually shrinks it. Files
// with carriage returns are left entirely alone: their line endings
// must not be converted, and measuring them line-by-line would lie.
func trimTextAsset(path string, rewrite bool) (int64, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	if bytes.ContainsRune(data, '\r') {
		return 0, nil
	}

	lines := strings.Split(string(data), "\n")
	out := make([]string, 0, len(lines))
	blankRun := 0
	for _, line := range lines {
		trimmed := strings.TrimRight(line, " \t")
		if trimmed == "" {
			blankRun++
			if blankRun > 1 {
				continue
			}
		} else {
			blankRun = 0
		}
		out = append(out, trimmed)
	}
	optimized := strings.Join(out, "\n")

	saved := int64(len(data) - len(optimized))
	if saved <= 0 {
		return 0, nil
	}
	if !rewrite {
		return saved, nil
	}

	info, err := os.Stat(path)
	if err != nil {
		return 0, err
	}
	if err := os.WriteFile(path, []byte(optimized), info.Mode().Perm()); err != nil {
		return 0, err
	}
	return saved, nil
}

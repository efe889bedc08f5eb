// Package checklist implements the launch readiness scoring engine: the
// section aggregator that folds item statuses into a 0-100 score, and
// the evaluator that runs check providers and produces the overall
// readiness verdict.
package checklist

import (
	"fmt"
	"math"

	"github.com/harlan/shipcheck/internal/models"
)

// Weights maps each item status to its point value for section scoring.
// Skip scores above warning on purpose: an unautomatable check is not
// evidence of a problem, merely of unverified state. Scoring it too low
// would make checklists with many manual items impossible to pass;
// scoring it at 100 would hide genuine risk.
type Weights struct {
	Pass    int `yaml:"pass"`
	Warning int `yaml:"warning"`
	Skip    int `yaml:"skip"`
	Fail    int `yaml:"fail"`
}

// DefaultWeights returns the standard point values: pass=100,
// warning=50, skip=75, fail=0.
func DefaultWeights() Weights {
	return Weights{Pass: 100, Warning: 50, Skip: 75, Fail: 0}
}

// Validate rejects weights outside [0,100]. An invalid weight is a
// programmer error and fails fast rather than degrading silently.
func (w Weights) Validate() error {
	check := func(name string, v int) error {
		if v < 0 || v > 100 {
			return fmt.Errorf("score weight %s=%d out of range [0,100]", name, v)
		}
		return nil
	}
	if err := check("pass", w.Pass); err != nil {
		return err
	}
	if err := check("warning", w.Warning); err != nil {
		return err
	}
	if err := check("skip", w.Skip); err != nil {
		return err
	}
	return check("fail", w.Fail)
}

// points returns the point value for a single item status. Unknown
// statuses score as fail: a malformed item must not inflate a section.
func (w Weights) points(status models.ItemStatus) int {
	switch status {
	case models.StatusPass:
		return w.Pass
	case models.StatusWarning:
		return w.Warning
	case models.StatusSkip:
		return w.Skip
	default:
		return w.Fail
	}
}

// Score computes a section score from its items with the given weights:
// the mean of per-item points, rounded to the nearest integer. A
// section with zero items scores 100 - absence of checks must not
// penalize.
func Score(items []models.ChecklistItem, weights Weights) int {
	if len(items) == 0 {
		return 100
	}

	total := 0
	for _, item := range items {
		total += weights.points(item.Status)
	}
	return int(math.Round(float64(total) / float64(len(items))))
}

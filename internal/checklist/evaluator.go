package checklist

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/harlan/shipcheck/internal/models"
)

// DefaultReadyThreshold is the minimum overall score for a project to
// be considered ready to launch.
const DefaultReadyThreshold = 70

// CheckFunc inspects project state and returns a section of checklist
// items with statuses already assigned. The evaluator never inspects
// the filesystem itself; providers own all project I/O.
type CheckFunc func(ctx context.Context, projectRoot string) (models.ChecklistSection, error)

// Provider is a named check provider. The name is used to label the
// failure section when the provider itself errors.
type Provider struct {
	Name  string
	Check CheckFunc
}

// Evaluator runs check providers and aggregates their sections into a
// launch checklist with an overall score and readiness verdict.
type Evaluator struct {
	weights   Weights
	threshold int
}

// NewEvaluator creates an Evaluator with the given score weights and
// readiness threshold. Invalid weights or a threshold outside [0,100]
// indicate a miswired caller and are rejected immediately.
func NewEvaluator(weights Weights, threshold int) (*Evaluator, error) {
	if err := weights.Validate(); err != nil {
		return nil, err
	}
	if threshold < 0 || threshold > 100 {
		return nil, fmt.Errorf("ready threshold %d out of range [0,100]", threshold)
	}
	return &Evaluator{weights: weights, threshold: threshold}, nil
}

// NewDefaultEvaluator creates an Evaluator with the standard weights
// and threshold.
func NewDefaultEvaluator() *Evaluator {
	eval, err := NewEvaluator(DefaultWeights(), DefaultReadyThreshold)
	if err != nil {
		// Defaults are statically valid.
		panic(err)
	}
	return eval
}

// Evaluate runs every provider in order and builds the readiness
// snapshot. It never returns an error: a provider that errors or
// panics becomes a section with a single failed, non-required item
// carrying the error text, so one broken checker cannot abort the
// whole evaluation.
//
// The overall score is the unweighted mean of section scores. Sections
// contribute equally regardless of item count or their required flag.
func (e *Evaluator) Evaluate(ctx context.Context, projectRoot string, providers []Provider) *models.LaunchChecklist {
	sections := make([]models.ChecklistSection, 0, len(providers))
	for _, provider := range providers {
		section, err := runProvider(ctx, provider, projectRoot)
		if err != nil {
			section = failureSection(provider.Name, err)
		}
		section.Score = Score(section.Items, e.weights)
		sections = append(sections, section)
	}

	checklist := &models.LaunchChecklist{
		Sections:       sections,
		OverallScore:   overallScore(sections),
		CriticalIssues: []models.ChecklistItem{},
		Warnings:       []models.ChecklistItem{},
		Timestamp:      time.Now().UTC(),
	}

	for _, section := range sections {
		for _, item := range section.Items {
			if item.Status == models.StatusFail && item.Required {
				checklist.CriticalIssues = append(checklist.CriticalIssues, item)
			}
			if item.Status == models.StatusWarning {
				checklist.Warnings = append(checklist.Warnings, item)
			}
		}
	}

	checklist.ReadyToLaunch = len(checklist.CriticalIssues) == 0 &&
		checklist.OverallScore >= e.threshold

	return checklist
}

// runProvider invokes a provider, converting panics into errors so
// callers only ever see the (section, error) contract.
func runProvider(ctx context.Context, provider Provider, projectRoot string) (section models.ChecklistSection, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("provider panic: %v", r)
		}
	}()
	return provider.Check(ctx, projectRoot)
}

// failureSection wraps a provider error into a section with one failed,
// non-required item. The item is not required: a broken checker must
// not block launch by itself, only lower the score.
func failureSection(name string, err error) models.ChecklistSection {
	id := strings.ToLower(strings.ReplaceAll(name, " ", "-")) + "-provider"
	return models.ChecklistSection{
		Name: name,
		Items: []models.ChecklistItem{
			{
				ID:      id,
				Name:    fmt.Sprintf("%s checks", name),
				Status:  models.StatusFail,
				Message: err.Error(),
				Fix:     "investigate the failing check provider and re-run the evaluation",
			},
		},
	}
}

// overallScore computes the rounded mean of section scores. No
// sections means nothing to penalize, so the score is 100.
func overallScore(sections []models.ChecklistSection) int {
	if len(sections) == 0 {
		return 100
	}
	total := 0
	for _, section := range sections {
		total += section.Score
	}
	return int(math.Round(float64(total) / float64(len(sections))))
}

package checklist

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harlan/shipcheck/internal/models"
)

// staticProvider returns a fixed section regardless of project root.
func staticProvider(name string, items ...models.ChecklistItem) Provider {
	return Provider{
		Name: name,
		Check: func(ctx context.Context, projectRoot string) (models.ChecklistSection, error) {
			return models.ChecklistSection{Name: name, Items: items}, nil
		},
	}
}

func TestNewEvaluatorRejectsBadConfig(t *testing.T) {
	_, err := NewEvaluator(Weights{Pass: 150}, DefaultReadyThreshold)
	require.Error(t, err)

	_, err = NewEvaluator(DefaultWeights(), -1)
	require.Error(t, err)

	_, err = NewEvaluator(DefaultWeights(), 101)
	require.Error(t, err)

	_, err = NewEvaluator(DefaultWeights(), 70)
	require.NoError(t, err)
}

func TestEvaluateAllPassing(t *testing.T) {
	eval := NewDefaultEvaluator()

	checklist := eval.Evaluate(context.Background(), "/tmp/site", []Provider{
		staticProvider("SEO",
			item("seo-robots", models.StatusPass),
			item("seo-sitemap", models.StatusPass),
		),
		staticProvider("Assets",
			item("assets-favicon", models.StatusPass),
		),
	})

	assert.Equal(t, 100, checklist.OverallScore)
	assert.True(t, checklist.ReadyToLaunch)
	assert.Empty(t, checklist.CriticalIssues)
	assert.Empty(t, checklist.Warnings)
	assert.Len(t, checklist.Sections, 2)
	assert.False(t, checklist.Timestamp.IsZero())
}

func TestEvaluateRequiredFailureBlocksLaunch(t *testing.T) {
	eval := NewDefaultEvaluator()

	failing := models.ChecklistItem{
		ID: "security-env", Name: ".env not committed",
		Status: models.StatusFail, Required: true,
	}

	// Many passing sections keep the overall score high; the single
	// required failure must still block launch.
	checklist := eval.Evaluate(context.Background(), "/tmp/site", []Provider{
		staticProvider("SEO",
			item("a", models.StatusPass), item("b", models.StatusPass),
			item("c", models.StatusPass), item("d", models.StatusPass),
		),
		staticProvider("Assets",
			item("e", models.StatusPass), item("f", models.StatusPass),
		),
		staticProvider("Security", failing, item("g", models.StatusPass)),
	})

	assert.GreaterOrEqual(t, checklist.OverallScore, DefaultReadyThreshold)
	assert.False(t, checklist.ReadyToLaunch)
	require.Len(t, checklist.CriticalIssues, 1)
	assert.Equal(t, failing.ID, checklist.CriticalIssues[0].ID)
}

func TestEvaluateLowScoreBlocksLaunchWithoutCriticalIssues(t *testing.T) {
	eval := NewDefaultEvaluator()

	// Only warnings and skips: no critical issues, but the score stays
	// below the threshold. (50+50+75)/3 = 58.
	checklist := eval.Evaluate(context.Background(), "/tmp/site", []Provider{
		staticProvider("SEO",
			item("a", models.StatusWarning),
			item("b", models.StatusWarning),
			item("c", models.StatusSkip),
		),
	})

	assert.Empty(t, checklist.CriticalIssues)
	assert.Equal(t, 58, checklist.OverallScore)
	assert.False(t, checklist.ReadyToLaunch)
}

func TestEvaluateThresholdBoundary(t *testing.T) {
	eval, err := NewEvaluator(DefaultWeights(), 75)
	require.NoError(t, err)

	// A single skip item scores exactly 75; meeting the threshold
	// exactly counts as ready.
	checklist := eval.Evaluate(context.Background(), "/tmp/site", []Provider{
		staticProvider("Performance", item("perf-lighthouse", models.StatusSkip)),
	})

	assert.Equal(t, 75, checklist.OverallScore)
	assert.True(t, checklist.ReadyToLaunch)
}

func TestEvaluateOrderingOfIssuesAndWarnings(t *testing.T) {
	eval := NewDefaultEvaluator()

	checklist := eval.Evaluate(context.Background(), "/tmp/site", []Provider{
		staticProvider("First",
			models.ChecklistItem{ID: "f1", Name: "f1", Status: models.StatusFail, Required: true},
			item("w1", models.StatusWarning),
		),
		staticProvider("Second",
			item("w2", models.StatusWarning),
			models.ChecklistItem{ID: "f2", Name: "f2", Status: models.StatusFail, Required: true},
		),
	})

	require.Len(t, checklist.CriticalIssues, 2)
	assert.Equal(t, "f1", checklist.CriticalIssues[0].ID)
	assert.Equal(t, "f2", checklist.CriticalIssues[1].ID)

	require.Len(t, checklist.Warnings, 2)
	assert.Equal(t, "w1", checklist.Warnings[0].ID)
	assert.Equal(t, "w2", checklist.Warnings[1].ID)
}

func TestEvaluateNonRequiredFailureLowersScoreOnly(t *testing.T) {
	eval := NewDefaultEvaluator()

	checklist := eval.Evaluate(context.Background(), "/tmp/site", []Provider{
		staticProvider("SEO",
			item("a", models.StatusPass),
			models.ChecklistItem{ID: "b", Name: "b", Status: models.StatusFail},
			item("c", models.StatusPass),
			item("d", models.StatusPass),
		),
	})

	assert.Empty(t, checklist.CriticalIssues)
	assert.Equal(t, 75, checklist.OverallScore)
	assert.True(t, checklist.ReadyToLaunch)
}

func TestEvaluateProviderErrorBecomesFailedItem(t *testing.T) {
	eval := NewDefaultEvaluator()

	broken := Provider{
		Name: "Performance",
		Check: func(ctx context.Context, projectRoot string) (models.ChecklistSection, error) {
			return models.ChecklistSection{}, errors.New("lighthouse binary not found")
		},
	}

	checklist := eval.Evaluate(context.Background(), "/tmp/site", []Provider{broken})

	require.Len(t, checklist.Sections, 1)
	section := checklist.Sections[0]
	assert.Equal(t, "Performance", section.Name)
	require.Len(t, section.Items, 1)
	assert.Equal(t, models.StatusFail, section.Items[0].Status)
	assert.False(t, section.Items[0].Required, "provider failures must not block launch by themselves")
	assert.Contains(t, section.Items[0].Message, "lighthouse binary not found")
	assert.Equal(t, 0, section.Score)
	assert.Empty(t, checklist.CriticalIssues)
}

func TestEvaluateProviderPanicIsCaught(t *testing.T) {
	eval := NewDefaultEvaluator()

	panicking := Provider{
		Name: "Assets",
		Check: func(ctx context.Context, projectRoot string) (models.ChecklistSection, error) {
			panic("index out of range")
		},
	}

	checklist := eval.Evaluate(context.Background(), "/tmp/site", []Provider{panicking})

	require.Len(t, checklist.Sections, 1)
	require.Len(t, checklist.Sections[0].Items, 1)
	assert.Equal(t, models.StatusFail, checklist.Sections[0].Items[0].Status)
	assert.Contains(t, checklist.Sections[0].Items[0].Message, "index out of range")
}

func TestEvaluateNoProviders(t *testing.T) {
	eval := NewDefaultEvaluator()

	checklist := eval.Evaluate(context.Background(), "/tmp/site", nil)

	assert.Equal(t, 100, checklist.OverallScore)
	assert.True(t, checklist.ReadyToLaunch)
	assert.Empty(t, checklist.Sections)
}

func TestEvaluateSectionsWeighEqually(t *testing.T) {
	eval := NewDefaultEvaluator()

	// 3-item all-fail section and 20-item all-pass section contribute
	// equally: (0 + 100) / 2 = 50.
	small := make([]models.ChecklistItem, 3)
	for i := range small {
		small[i] = item("s", models.StatusFail)
	}
	large := make([]models.ChecklistItem, 20)
	for i := range large {
		large[i] = item("l", models.StatusPass)
	}

	checklist := eval.Evaluate(context.Background(), "/tmp/site", []Provider{
		staticProvider("Small", small...),
		staticProvider("Large", large...),
	})

	assert.Equal(t, 50, checklist.OverallScore)
}

func TestEvaluateIdempotentModuloTimestamp(t *testing.T) {
	eval := NewDefaultEvaluator()
	providers := []Provider{
		staticProvider("SEO",
			item("a", models.StatusPass),
			item("b", models.StatusWarning),
		),
		staticProvider("Assets",
			models.ChecklistItem{ID: "c", Name: "c", Status: models.StatusFail, Required: true},
		),
	}

	first := eval.Evaluate(context.Background(), "/tmp/site", providers)
	second := eval.Evaluate(context.Background(), "/tmp/site", providers)

	// Zero the timestamps; everything else must serialize identically.
	first.Timestamp = time.Time{}
	second.Timestamp = time.Time{}

	firstJSON, err := json.Marshal(first)
	require.NoError(t, err)
	secondJSON, err := json.Marshal(second)
	require.NoError(t, err)

	assert.Equal(t, string(firstJSON), string(secondJSON))
}

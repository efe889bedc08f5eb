package workflow

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harlan/shipcheck/internal/config"
	"github.com/harlan/shipcheck/internal/logger"
	"github.com/harlan/shipcheck/internal/models"
	"github.com/harlan/shipcheck/internal/state"
)

func newTestRunner(t *testing.T) (*Runner, *state.Store) {
	t.Helper()
	store, err := state.NewStore(24*time.Hour, nil)
	require.NoError(t, err)
	return NewRunner(store, logger.NewNoOpLogger()), store
}

func testOptions(t *testing.T) Options {
	t.Helper()
	return Options{
		ProjectRoot: t.TempDir(),
		Config:      config.DefaultConfig(),
	}
}

// namedStep returns a definition that records its execution order and
// returns a message payload.
func namedStep(id string, executed *[]string, err error) StepDefinition {
	return StepDefinition{
		ID:   id,
		Name: id,
		Run: func(ctx context.Context, rc *RunContext) (models.StepResult, error) {
			*executed = append(*executed, id)
			if err != nil {
				return nil, err
			}
			return &models.MessageResult{Message: id + " done"}, nil
		},
	}
}

func TestRunAllStepsSucceed(t *testing.T) {
	runner, _ := newTestRunner(t)
	var executed []string

	result, err := runner.Run(context.Background(), []StepDefinition{
		namedStep("one", &executed, nil),
		namedStep("two", &executed, nil),
	}, testOptions(t))

	require.NoError(t, err)
	assert.Equal(t, []string{"one", "two"}, executed)
	assert.True(t, result.OverallSuccess)
	require.Len(t, result.Steps, 2)
	for _, step := range result.Steps {
		assert.Equal(t, models.StepCompleted, step.Status)
		assert.NotNil(t, step.StartTime)
		assert.NotNil(t, step.EndTime)
	}
}

func TestRunPartialFailureContinues(t *testing.T) {
	runner, _ := newTestRunner(t)
	var executed []string

	// Step 3 of 5 fails; 4 and 5 must still run.
	result, err := runner.Run(context.Background(), []StepDefinition{
		namedStep("one", &executed, nil),
		namedStep("two", &executed, nil),
		namedStep("three", &executed, errors.New("optimizer crashed")),
		namedStep("four", &executed, nil),
		namedStep("five", &executed, nil),
	}, testOptions(t))

	require.NoError(t, err, "step failures must not abort the run")
	assert.Equal(t, []string{"one", "two", "three", "four", "five"}, executed)
	assert.False(t, result.OverallSuccess)
	require.Len(t, result.Steps, 5)
	assert.Equal(t, models.StepFailed, result.Steps[2].Status)
	assert.Equal(t, "optimizer crashed", result.Steps[2].Error)
	assert.Equal(t, models.StepCompleted, result.Steps[4].Status)
}

func TestRunSkippedStepIsSuccess(t *testing.T) {
	runner, _ := newTestRunner(t)
	var executed []string

	skipping := StepDefinition{
		ID:   "deploy",
		Name: "deploy",
		Run: func(ctx context.Context, rc *RunContext) (models.StepResult, error) {
			return nil, fmt.Errorf("%w: project not ready to launch", ErrSkipStep)
		},
	}

	result, err := runner.Run(context.Background(), []StepDefinition{
		namedStep("check", &executed, nil),
		skipping,
	}, testOptions(t))

	require.NoError(t, err)
	assert.True(t, result.OverallSuccess, "skipped steps count as success")
	assert.Equal(t, models.StepSkipped, result.Steps[1].Status)
	assert.Empty(t, result.Steps[1].Error, "a skip is not a failure")

	require.NotNil(t, result.Steps[1].Result)
	msg, ok := result.Steps[1].Result.Value.(*models.MessageResult)
	require.True(t, ok)
	assert.Contains(t, msg.Message, "not ready to launch")
}

func TestRunStepPanicBecomesFailure(t *testing.T) {
	runner, _ := newTestRunner(t)
	var executed []string

	panicking := StepDefinition{
		ID:   "boom",
		Name: "boom",
		Run: func(ctx context.Context, rc *RunContext) (models.StepResult, error) {
			panic("nil dereference")
		},
	}

	result, err := runner.Run(context.Background(), []StepDefinition{
		panicking,
		namedStep("after", &executed, nil),
	}, testOptions(t))

	require.NoError(t, err)
	assert.Equal(t, models.StepFailed, result.Steps[0].Status)
	assert.Contains(t, result.Steps[0].Error, "nil dereference")
	assert.Equal(t, []string{"after"}, executed, "run continues past a panicking step")
}

func TestRunConfigurationErrors(t *testing.T) {
	runner, _ := newTestRunner(t)
	opts := testOptions(t)
	noop := func(ctx context.Context, rc *RunContext) (models.StepResult, error) { return nil, nil }

	_, err := runner.Run(context.Background(), nil, opts)
	assert.Error(t, err, "zero steps is a configuration error")

	_, err = runner.Run(context.Background(), []StepDefinition{
		{ID: "a", Name: "a", Run: noop},
		{ID: "a", Name: "dup", Run: noop},
	}, opts)
	assert.Error(t, err, "duplicate step ids are a configuration error")

	_, err = runner.Run(context.Background(), []StepDefinition{
		{ID: "a", Name: "a"},
	}, opts)
	assert.Error(t, err, "a step without an implementation is a configuration error")
}

func TestRunResultsFlowBetweenSteps(t *testing.T) {
	runner, _ := newTestRunner(t)

	checklist := models.LaunchChecklist{OverallScore: 95, ReadyToLaunch: true}
	producer := StepDefinition{
		ID:   "readiness-check",
		Name: "readiness-check",
		Run: func(ctx context.Context, rc *RunContext) (models.StepResult, error) {
			return &models.ChecklistResult{Checklist: checklist}, nil
		},
	}

	var sawReady bool
	consumer := StepDefinition{
		ID:   "deploy",
		Name: "deploy",
		Run: func(ctx context.Context, rc *RunContext) (models.StepResult, error) {
			cl := rc.Checklist()
			if cl == nil {
				return nil, errors.New("no checklist available")
			}
			sawReady = cl.ReadyToLaunch
			return &models.MessageResult{Message: "deployed"}, nil
		},
	}

	result, err := runner.Run(context.Background(), []StepDefinition{producer, consumer}, testOptions(t))

	require.NoError(t, err)
	assert.True(t, result.OverallSuccess)
	assert.True(t, sawReady, "deploy step must see the readiness verdict")
	assert.Equal(t, 95, *models.NewHistoryEntry(result).OverallScore)
}

func TestRunPersistsStateAfterEveryStep(t *testing.T) {
	runner, store := newTestRunner(t)
	opts := testOptions(t)
	var executed []string

	_, err := runner.Run(context.Background(), []StepDefinition{
		namedStep("one", &executed, nil),
		namedStep("two", &executed, errors.New("nope")),
	}, opts)
	require.NoError(t, err)

	st := store.Load(opts.ProjectRoot)
	require.NotNil(t, st, "state file must exist after the run")
	assert.Equal(t, models.WorkflowFailed, st.Status)
	assert.Equal(t, 2, st.CurrentStep)
	assert.Len(t, st.Steps, 2)
}

func TestRunAppendsHistory(t *testing.T) {
	runner, store := newTestRunner(t)
	opts := testOptions(t)
	var executed []string

	_, err := runner.Run(context.Background(), []StepDefinition{
		namedStep("one", &executed, nil),
	}, opts)
	require.NoError(t, err)

	entries := store.LoadHistory(opts.ProjectRoot)
	require.Len(t, entries, 1)
	assert.True(t, entries[0].Success)
}

func TestRunResumeSkipsFinishedSteps(t *testing.T) {
	runner, store := newTestRunner(t)
	opts := testOptions(t)
	var executed []string

	defs := []StepDefinition{
		namedStep("one", &executed, nil),
		namedStep("two", &executed, nil),
		namedStep("three", &executed, nil),
	}

	// Simulate an interrupted run that finished the first two steps.
	st, err := store.Create(opts.ProjectRoot, len(defs), opts.Config.Summary())
	require.NoError(t, err)
	store.Update(st, models.WorkflowStep{ID: "one", Name: "one", Status: models.StepCompleted,
		Result: models.WrapResult(&models.MessageResult{Message: "one done"})})
	store.Update(st, models.WorkflowStep{ID: "two", Name: "two", Status: models.StepCompleted})
	require.NoError(t, store.Save(opts.ProjectRoot, st))

	loaded := store.Load(opts.ProjectRoot)
	require.NotNil(t, loaded)
	require.True(t, store.CanResume(loaded))

	opts.Resume = loaded
	result, err := runner.Run(context.Background(), defs, opts)

	require.NoError(t, err)
	assert.Equal(t, []string{"three"}, executed, "finished steps must not re-execute")
	assert.True(t, result.OverallSuccess)
	assert.Len(t, result.Steps, 3)
	assert.Equal(t, loaded.ID, result.RunID, "resumed run keeps its identity")
}

func TestRunResumeMismatchFailsFast(t *testing.T) {
	runner, store := newTestRunner(t)
	opts := testOptions(t)
	var executed []string

	st, err := store.Create(opts.ProjectRoot, 5, nil)
	require.NoError(t, err)
	opts.Resume = st

	_, err = runner.Run(context.Background(), []StepDefinition{
		namedStep("one", &executed, nil),
	}, opts)
	assert.Error(t, err)
	assert.Empty(t, executed)
}

func TestRunCancelledContext(t *testing.T) {
	runner, store := newTestRunner(t)
	opts := testOptions(t)
	var executed []string

	ctx, cancel := context.WithCancel(context.Background())

	cancelling := StepDefinition{
		ID:   "one",
		Name: "one",
		Run: func(ctx context.Context, rc *RunContext) (models.StepResult, error) {
			executed = append(executed, "one")
			cancel()
			return nil, nil
		},
	}

	result, err := runner.Run(ctx, []StepDefinition{
		cancelling,
		namedStep("two", &executed, nil),
	}, opts)

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, []string{"one"}, executed, "no step starts after cancellation")
	require.NotNil(t, result, "partial result is still returned")

	st := store.Load(opts.ProjectRoot)
	require.NotNil(t, st)
	assert.Equal(t, models.WorkflowCancelled, st.Status)
	assert.True(t, store.CanResume(st), "interrupted run must be resumable")
}

func TestRunInterruptedThenResumed(t *testing.T) {
	runner, store := newTestRunner(t)
	opts := testOptions(t)
	var executed []string

	// First run: step one finishes, then the context is cancelled
	// before step two can start.
	ctx, cancel := context.WithCancel(context.Background())
	interrupting := StepDefinition{
		ID:   "one",
		Name: "one",
		Run: func(ctx context.Context, rc *RunContext) (models.StepResult, error) {
			executed = append(executed, "one")
			cancel()
			return &models.MessageResult{Message: "one done"}, nil
		},
	}

	_, err := runner.Run(ctx, []StepDefinition{
		interrupting,
		namedStep("two", &executed, nil),
	}, opts)
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, []string{"one"}, executed)

	// The persisted state is the resume point.
	st := store.Load(opts.ProjectRoot)
	require.NotNil(t, st)
	require.True(t, store.CanResume(st), "state saved at interruption must be resumable")

	// Second run resumes it and only executes the unfinished step.
	opts.Resume = st
	result, err := runner.Run(context.Background(), []StepDefinition{
		namedStep("one", &executed, nil),
		namedStep("two", &executed, nil),
	}, opts)

	require.NoError(t, err)
	assert.Equal(t, []string{"one", "two"}, executed, "step one must not re-execute on resume")
	assert.True(t, result.OverallSuccess)
	assert.Equal(t, st.ID, result.RunID)
	assert.Equal(t, models.WorkflowCompleted, st.Status, "cancellation marker is cleared once the run finishes")
}

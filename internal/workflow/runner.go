// Package workflow sequences named steps into a fault-tolerant,
// resumable run. The runner is a pure sequencing and observability
// layer: all project I/O happens inside the steps it invokes, and a
// failing step never prevents the remaining steps from running.
package workflow

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/harlan/shipcheck/internal/config"
	"github.com/harlan/shipcheck/internal/models"
	"github.com/harlan/shipcheck/internal/state"
)

// Logger receives workflow progress events and diagnostics.
type Logger interface {
	Debugf(format string, args ...interface{})
	Infof(format string, args ...interface{})
	Warnf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
	LogStepStart(step models.WorkflowStep, index, total int)
	LogStepComplete(step models.WorkflowStep)
	LogRunSummary(result models.WorkflowResult)
}

// ErrSkipStep signals that a step chose not to execute. The runner
// records the step as skipped, a terminal status distinct from
// failure. Wrap it to attach a reason:
//
//	return nil, fmt.Errorf("%w: project not ready to launch", workflow.ErrSkipStep)
var ErrSkipStep = errors.New("step skipped")

// RunContext is passed to every step. Config is treated as immutable;
// prior step results are exposed read-only so conditional steps (e.g.
// deploy) can inspect upstream outcomes.
type RunContext struct {
	ProjectRoot string
	Config      *config.Config

	results map[string]models.StepResult
}

// Result returns the payload a prior step produced, if any.
func (rc *RunContext) Result(id string) (models.StepResult, bool) {
	result, ok := rc.results[id]
	return result, ok
}

// Checklist returns the launch checklist produced by a prior readiness
// step, or nil if none ran.
func (rc *RunContext) Checklist() *models.LaunchChecklist {
	for _, result := range rc.results {
		if cr, ok := result.(*models.ChecklistResult); ok {
			return &cr.Checklist
		}
	}
	return nil
}

// StepFunc is one unit of orchestrated work. The payload it returns is
// stored verbatim in the step record.
type StepFunc func(ctx context.Context, rc *RunContext) (models.StepResult, error)

// StepDefinition names a step and binds it to its implementation.
type StepDefinition struct {
	ID          string
	Name        string
	Description string
	Run         StepFunc
}

// Runner executes step definitions in order, persisting progress after
// every step so an interrupted run can be resumed.
type Runner struct {
	store  *state.Store
	logger Logger
}

// NewRunner creates a Runner. The store is required; a nil logger
// disables progress output.
func NewRunner(store *state.Store, logger Logger) *Runner {
	if store == nil {
		panic("state store cannot be nil")
	}
	return &Runner{store: store, logger: logger}
}

// Options configures one run.
type Options struct {
	ProjectRoot string
	Config      *config.Config

	// Resume, when non-nil, is a previously persisted state whose
	// terminal steps will not be re-executed.
	Resume *models.WorkflowState
}

// Run executes the steps in the exact order supplied and always
// produces a WorkflowResult, even when individual steps fail. Only
// configuration errors (no steps, duplicate IDs, a resume state that
// does not match the definitions) abort the run outright.
//
// Failure policy: an error from a step is caught at the step boundary,
// recorded on the step, and the run proceeds. Steps are largely
// independent; asset optimization failing must not block SEO checks.
func (r *Runner) Run(ctx context.Context, defs []StepDefinition, opts Options) (*models.WorkflowResult, error) {
	if len(defs) == 0 {
		return nil, errors.New("workflow has no steps")
	}
	seen := make(map[string]bool, len(defs))
	for _, def := range defs {
		if def.ID == "" || def.Run == nil {
			return nil, fmt.Errorf("step %q is missing an id or implementation", def.Name)
		}
		if seen[def.ID] {
			return nil, fmt.Errorf("duplicate step id %q", def.ID)
		}
		seen[def.ID] = true
	}

	st := opts.Resume
	if st != nil {
		if st.TotalSteps != len(defs) {
			return nil, fmt.Errorf("resume state has %d steps, workflow has %d", st.TotalSteps, len(defs))
		}
		// The resumed run is live again; clear any cancellation marker
		// left by the interruption.
		st.Status = models.WorkflowInProgress
	} else {
		var err error
		st, err = r.store.Create(opts.ProjectRoot, len(defs), opts.Config.Summary())
		if err != nil {
			return nil, err
		}
	}

	rc := &RunContext{
		ProjectRoot: opts.ProjectRoot,
		Config:      opts.Config,
		results:     make(map[string]models.StepResult),
	}

	startTime := time.Now().UTC()
	for i, def := range defs {
		// Carry over steps already finished by the resumed run.
		if prior := st.StepByID(def.ID); prior != nil && prior.Status.IsTerminal() {
			if prior.Result != nil {
				rc.results[def.ID] = prior.Result.Value
			}
			r.debugf("step %s already %s, not re-executing", def.ID, prior.Status)
			continue
		}

		if ctx.Err() != nil {
			// External termination: persist the cancellation marker and
			// hand back what ran. The saved state is the resume point.
			st.Status = models.WorkflowCancelled
			st.LastUpdate = time.Now().UTC()
			r.saveState(opts.ProjectRoot, st)
			return r.buildResult(st, startTime), ctx.Err()
		}

		step := models.WorkflowStep{
			ID:          def.ID,
			Name:        def.Name,
			Description: def.Description,
			Status:      models.StepPending,
		}

		if r.logger != nil {
			r.logger.LogStepStart(step, i, len(defs))
		}

		begun := time.Now().UTC()
		step.Status = models.StepRunning
		step.StartTime = &begun

		result, err := invokeStep(ctx, def, rc)

		ended := time.Now().UTC()
		step.EndTime = &ended
		step.Duration = ended.Sub(begun)

		switch {
		case err == nil:
			step.Status = models.StepCompleted
			step.Result = models.WrapResult(result)
			if result != nil {
				rc.results[def.ID] = result
			}
		case errors.Is(err, ErrSkipStep):
			step.Status = models.StepSkipped
			step.Result = models.WrapResult(&models.MessageResult{Message: err.Error()})
		default:
			step.Status = models.StepFailed
			step.Error = err.Error()
		}

		r.store.Update(st, step)
		r.saveState(opts.ProjectRoot, st)

		if r.logger != nil {
			r.logger.LogStepComplete(step)
		}
	}

	result := r.buildResult(st, startTime)

	if err := r.store.AppendToHistory(opts.ProjectRoot, result); err != nil {
		r.warnf("could not append workflow history: %v", err)
	}
	if r.logger != nil {
		r.logger.LogRunSummary(*result)
	}

	return result, nil
}

// invokeStep calls the step function, converting panics into errors so
// a crashing step degrades into a failed step instead of killing the
// run.
func invokeStep(ctx context.Context, def StepDefinition, rc *RunContext) (result models.StepResult, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("step panic: %v", rec)
		}
	}()
	return def.Run(ctx, rc)
}

// buildResult aggregates the recorded steps into a WorkflowResult.
func (r *Runner) buildResult(st *models.WorkflowState, startTime time.Time) *models.WorkflowResult {
	endTime := time.Now().UTC()

	overallSuccess := true
	for i := range st.Steps {
		if !st.Steps[i].Succeeded() {
			overallSuccess = false
			break
		}
	}

	return &models.WorkflowResult{
		RunID:          st.ID,
		ProjectRoot:    st.ProjectRoot,
		StartTime:      startTime,
		EndTime:        endTime,
		Duration:       endTime.Sub(startTime),
		Steps:          st.Steps,
		OverallSuccess: overallSuccess && len(st.Steps) == st.TotalSteps,
	}
}

// saveState persists the state, degrading to a warning on failure.
// Durability is best-effort: a read-only filesystem should not abort a
// run whose steps are still useful.
func (r *Runner) saveState(projectRoot string, st *models.WorkflowState) {
	if err := r.store.Save(projectRoot, st); err != nil {
		r.warnf("could not persist workflow state: %v", err)
	}
}

func (r *Runner) debugf(format string, args ...interface{}) {
	if r.logger != nil {
		r.logger.Debugf(format, args...)
	}
}

func (r *Runner) warnf(format string, args ...interface{}) {
	if r.logger != nil {
		r.logger.Warnf(format, args...)
	}
}

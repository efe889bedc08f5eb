package models

import (
	"errors"
	"time"
)

// StepStatus is the lifecycle state of a workflow step.
type StepStatus string

const (
	// StepPending means the step has not started yet.
	StepPending StepStatus = "pending"
	// StepRunning means the step is currently executing.
	StepRunning StepStatus = "running"
	// StepCompleted means the step finished successfully.
	StepCompleted StepStatus = "completed"
	// StepFailed means the step returned an error.
	StepFailed StepStatus = "failed"
	// StepSkipped means the step was deliberately not executed.
	// Skipping is a terminal status distinct from failure.
	StepSkipped StepStatus = "skipped"
)

// IsTerminal reports whether the status is final for this run. A step
// in a terminal state is never re-entered within one run.
func (s StepStatus) IsTerminal() bool {
	switch s {
	case StepCompleted, StepFailed, StepSkipped:
		return true
	}
	return false
}

// WorkflowStep records one unit of orchestrated work: its identity,
// lifecycle status, timing, and an optional typed result payload.
type WorkflowStep struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	Status      StepStatus `json:"status"`

	// StartTime and EndTime are nil until the corresponding transition
	// happens.
	StartTime *time.Time `json:"startTime,omitempty"`
	EndTime   *time.Time `json:"endTime,omitempty"`

	// Duration is EndTime minus StartTime, recorded at the terminal
	// transition. Serialized as integer nanoseconds.
	Duration time.Duration `json:"duration,omitempty"`

	// Error holds the failure message when Status is failed.
	Error string `json:"error,omitempty"`

	// Result carries the step's typed payload, if any.
	Result *StepResultEnvelope `json:"result,omitempty"`
}

// Succeeded reports whether the step ended in a non-failure terminal
// state. Skipped steps count as success: they were deliberately not run.
func (s *WorkflowStep) Succeeded() bool {
	return s.Status == StepCompleted || s.Status == StepSkipped
}

// WorkflowStatus is the overall state of a workflow run.
type WorkflowStatus string

const (
	// WorkflowInProgress means the run has not reached its last step.
	WorkflowInProgress WorkflowStatus = "in-progress"
	// WorkflowCompleted means every step reached a terminal state and
	// none failed.
	WorkflowCompleted WorkflowStatus = "completed"
	// WorkflowFailed means every step reached a terminal state and at
	// least one failed.
	WorkflowFailed WorkflowStatus = "failed"
	// WorkflowCancelled means the run was terminated externally. The
	// last persisted state becomes the resume point.
	WorkflowCancelled WorkflowStatus = "cancelled"
)

// WorkflowState is the durable progress record for one run. It is owned
// exclusively by the state store and persisted after every step, so the
// latest state survives a crash.
type WorkflowState struct {
	// ID uniquely identifies the run.
	ID string `json:"id"`

	// ProjectRoot is the project directory the run operates on.
	ProjectRoot string `json:"projectRoot"`

	StartTime  time.Time      `json:"startTime"`
	LastUpdate time.Time      `json:"lastUpdate"`
	Status     WorkflowStatus `json:"status"`

	// CurrentStep counts the steps that have reached a terminal state.
	CurrentStep int `json:"currentStep"`
	TotalSteps  int `json:"totalSteps"`

	// Steps mirrors each WorkflowStep as it completes, in execution
	// order.
	Steps []WorkflowStep `json:"steps"`

	// Config captures the run's parameters for auditing and resume.
	Config map[string]string `json:"config,omitempty"`
}

// Validate checks the invariants a freshly created state must satisfy.
// Violations indicate a miswired orchestrator and fail fast.
func (s *WorkflowState) Validate() error {
	if s.ID == "" {
		return errors.New("workflow state id is required")
	}
	if s.ProjectRoot == "" {
		return errors.New("workflow state project root is required")
	}
	if s.TotalSteps <= 0 {
		return errors.New("workflow state total steps must be positive")
	}
	return nil
}

// StepByID returns the recorded step with the given id, or nil.
func (s *WorkflowState) StepByID(id string) *WorkflowStep {
	for i := range s.Steps {
		if s.Steps[i].ID == id {
			return &s.Steps[i]
		}
	}
	return nil
}

// WorkflowResult is the aggregate outcome of one workflow run, produced
// even when individual steps failed.
type WorkflowResult struct {
	RunID       string         `json:"runId"`
	ProjectRoot string         `json:"projectRoot"`
	StartTime   time.Time      `json:"startTime"`
	EndTime     time.Time      `json:"endTime"`
	Duration    time.Duration  `json:"duration"`
	Steps       []WorkflowStep `json:"steps"`

	// OverallSuccess is true iff every step ended completed or skipped.
	// A single failed step flips it to false but does not prevent the
	// remaining steps from having run.
	OverallSuccess bool `json:"overallSuccess"`
}

// Checklist returns the launch checklist embedded in the first step
// that produced one, or nil if no step ran a readiness evaluation.
func (r *WorkflowResult) Checklist() *LaunchChecklist {
	for i := range r.Steps {
		if r.Steps[i].Result == nil {
			continue
		}
		if cr, ok := r.Steps[i].Result.Value.(*ChecklistResult); ok {
			return &cr.Checklist
		}
	}
	return nil
}

// StepSummary is the per-step slice of a history entry.
type StepSummary struct {
	ID       string        `json:"id"`
	Status   StepStatus    `json:"status"`
	Duration time.Duration `json:"duration"`
}

// HistoryEntry is the append-only summary of one finished run. History
// is retained as a bounded list, newest first; it is a ring-buffer-like
// log, not a database.
type HistoryEntry struct {
	RunID     string        `json:"runId"`
	Timestamp time.Time     `json:"timestamp"`
	Duration  time.Duration `json:"duration"`
	Success   bool          `json:"success"`
	Steps     []StepSummary `json:"steps"`

	// OverallScore is the readiness score reported by the run, if a
	// readiness step produced one.
	OverallScore *int `json:"overallScore,omitempty"`
}

// NewHistoryEntry summarizes a workflow result for the history log.
func NewHistoryEntry(result *WorkflowResult) HistoryEntry {
	entry := HistoryEntry{
		RunID:     result.RunID,
		Timestamp: result.EndTime,
		Duration:  result.Duration,
		Success:   result.OverallSuccess,
		Steps:     make([]StepSummary, 0, len(result.Steps)),
	}
	for _, step := range result.Steps {
		entry.Steps = append(entry.Steps, StepSummary{
			ID:       step.ID,
			Status:   step.Status,
			Duration: step.Duration,
		})
	}
	if checklist := result.Checklist(); checklist != nil {
		score := checklist.OverallScore
		entry.OverallScore = &score
	}
	return entry
}

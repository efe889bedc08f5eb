// Package state persists workflow run progress to the project's
// .shipcheck directory so an interrupted run can be resumed or audited.
//
// Durability is best-effort, not transactional: the state file is
// overwritten in full after every step (last write wins), and a
// missing or corrupt file degrades to "no resumable state" rather than
// an error. Degradations are reported through the injected logger so
// they stay observable.
package state

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/harlan/shipcheck/internal/config"
	"github.com/harlan/shipcheck/internal/lockfile"
	"github.com/harlan/shipcheck/internal/models"
)

const (
	stateFileName   = "workflow-state.json"
	historyFileName = "workflow-history.json"
	lockFileName    = "workflow.lock"
)

// MaxHistoryEntries bounds the history log. Oldest entries are dropped
// on overflow.
const MaxHistoryEntries = 10

// Logger is the diagnostic sink for best-effort persistence failures.
type Logger interface {
	Infof(format string, args ...interface{})
	Warnf(format string, args ...interface{})
}

// Store reads and writes workflow state and history files for a
// project. It owns the WorkflowState mutation rules.
type Store struct {
	resumeWindow time.Duration
	logger       Logger
}

// NewStore creates a Store with the given resume window. A
// non-positive window is a programmer error and fails immediately.
// The logger may be nil; diagnostics are then discarded.
func NewStore(resumeWindow time.Duration, logger Logger) (*Store, error) {
	if resumeWindow <= 0 {
		return nil, fmt.Errorf("resume window must be positive, got %s", resumeWindow)
	}
	return &Store{resumeWindow: resumeWindow, logger: logger}, nil
}

// warnf logs through the diagnostic sink if one is configured.
func (s *Store) warnf(format string, args ...interface{}) {
	if s.logger != nil {
		s.logger.Warnf(format, args...)
	}
}

// StatePath returns the location of the state file for a project.
func StatePath(projectRoot string) string {
	return filepath.Join(projectRoot, config.ToolDir, stateFileName)
}

// HistoryPath returns the location of the history file for a project.
func HistoryPath(projectRoot string) string {
	return filepath.Join(projectRoot, config.ToolDir, historyFileName)
}

// LockPath returns the location of the advisory run lock for a project.
func LockPath(projectRoot string) string {
	return filepath.Join(projectRoot, config.ToolDir, lockFileName)
}

// Create builds a fresh in-progress state for a new run. totalSteps
// must be positive: a zero-step workflow indicates a miswired
// orchestrator.
func (s *Store) Create(projectRoot string, totalSteps int, cfg map[string]string) (*models.WorkflowState, error) {
	now := time.Now().UTC()
	st := &models.WorkflowState{
		ID:          uuid.New().String(),
		ProjectRoot: projectRoot,
		StartTime:   now,
		LastUpdate:  now,
		Status:      models.WorkflowInProgress,
		CurrentStep: 0,
		TotalSteps:  totalSteps,
		Steps:       []models.WorkflowStep{},
		Config:      cfg,
	}
	if err := st.Validate(); err != nil {
		return nil, err
	}
	return st, nil
}

// Update upserts the step into the state by ID (replace if present,
// else append), recomputes CurrentStep as the count of terminal steps,
// finalizes the run status when every step is terminal, and refreshes
// LastUpdate.
func (s *Store) Update(st *models.WorkflowState, step models.WorkflowStep) {
	replaced := false
	for i := range st.Steps {
		if st.Steps[i].ID == step.ID {
			st.Steps[i] = step
			replaced = true
			break
		}
	}
	if !replaced {
		st.Steps = append(st.Steps, step)
	}

	terminal := 0
	anyFailed := false
	for i := range st.Steps {
		if st.Steps[i].Status.IsTerminal() {
			terminal++
		}
		if st.Steps[i].Status == models.StepFailed {
			anyFailed = true
		}
	}
	st.CurrentStep = terminal

	if st.CurrentStep == st.TotalSteps {
		if anyFailed {
			st.Status = models.WorkflowFailed
		} else {
			st.Status = models.WorkflowCompleted
		}
	}

	st.LastUpdate = time.Now().UTC()
}

// Save serializes the full state to the well-known path, overwriting
// any prior content. Only the latest state survives a crash.
func (s *Store) Save(projectRoot string, st *models.WorkflowState) error {
	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal workflow state: %w", err)
	}
	if err := lockfile.WriteFileAtomic(StatePath(projectRoot), data); err != nil {
		return fmt.Errorf("save workflow state: %w", err)
	}
	return nil
}

// Load deserializes the state file if present. It returns nil, never
// an error, when the file is absent or unparsable: both mean "no
// resumable state". Parse failures are logged.
func (s *Store) Load(projectRoot string) *models.WorkflowState {
	path := StatePath(projectRoot)
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.warnf("could not read workflow state %s: %v", path, err)
		}
		return nil
	}

	var st models.WorkflowState
	if err := json.Unmarshal(data, &st); err != nil {
		s.warnf("could not parse workflow state %s, starting fresh: %v", path, err)
		return nil
	}
	return &st
}

// CanResume reports whether the state represents a run that may be
// picked up where it left off: not finished, and fresher than the
// resume window. Both in-progress and cancelled states qualify; the
// cancelled marker records an external interruption, and an
// interrupted run is exactly what resume exists for. Anything older
// than the window is stale and must be restarted against the
// possibly-changed project.
func (s *Store) CanResume(st *models.WorkflowState) bool {
	if st == nil {
		return false
	}
	interrupted := st.Status == models.WorkflowInProgress || st.Status == models.WorkflowCancelled
	return interrupted &&
		st.CurrentStep < st.TotalSteps &&
		time.Since(st.LastUpdate) < s.resumeWindow
}

// ClearState removes the state file after a run finishes. Absence is
// not an error.
func (s *Store) ClearState(projectRoot string) {
	if err := os.Remove(StatePath(projectRoot)); err != nil && !os.IsNotExist(err) {
		s.warnf("could not remove workflow state: %v", err)
	}
}

// LoadHistory reads the history log, returning an empty list when the
// file is absent or corrupt.
func (s *Store) LoadHistory(projectRoot string) []models.HistoryEntry {
	path := HistoryPath(projectRoot)
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.warnf("could not read workflow history %s: %v", path, err)
		}
		return []models.HistoryEntry{}
	}

	var entries []models.HistoryEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		s.warnf("could not parse workflow history %s, treating as empty: %v", path, err)
		return []models.HistoryEntry{}
	}
	return entries
}

// AppendToHistory prepends a summary of the finished run to the
// history log, truncates it to the newest MaxHistoryEntries, and
// overwrites the file in full.
func (s *Store) AppendToHistory(projectRoot string, result *models.WorkflowResult) error {
	entries := s.LoadHistory(projectRoot)

	entries = append([]models.HistoryEntry{models.NewHistoryEntry(result)}, entries...)
	if len(entries) > MaxHistoryEntries {
		entries = entries[:MaxHistoryEntries]
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal workflow history: %w", err)
	}
	if err := lockfile.WriteFileAtomic(HistoryPath(projectRoot), data); err != nil {
		return fmt.Errorf("save workflow history: %w", err)
	}
	return nil
}

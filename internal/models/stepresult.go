package models

import (
	"encoding/json"
	"fmt"
)

// StepResult is the typed payload a workflow step produces. Each step
// kind has its own concrete type so later consumers (e.g. the deploy
// step reading the readiness verdict) can type-switch on it instead of
// poking at an untyped blob.
type StepResult interface {
	// Kind returns the JSON discriminator for this payload type.
	Kind() string
}

// Step result kind discriminators used in the JSON envelope.
const (
	KindChecklist = "checklist"
	KindOptimize  = "optimize"
	KindReport    = "report"
	KindDeploy    = "deploy"
	KindMessage   = "message"
)

// ChecklistResult embeds the launch checklist produced by a readiness
// evaluation step.
type ChecklistResult struct {
	Checklist LaunchChecklist `json:"checklist"`
}

// Kind implements StepResult.
func (*ChecklistResult) Kind() string { return KindChecklist }

// OptimizeResult summarizes an asset optimization step.
type OptimizeResult struct {
	AssetsScanned   int   `json:"assetsScanned"`
	AssetsOptimized int   `json:"assetsOptimized"`
	BytesSaved      int64 `json:"bytesSaved"`
}

// Kind implements StepResult.
func (*OptimizeResult) Kind() string { return KindOptimize }

// ReportResult records where a report generation step wrote its output.
type ReportResult struct {
	Format string   `json:"format"`
	Paths  []string `json:"paths"`
}

// Kind implements StepResult.
func (*ReportResult) Kind() string { return KindReport }

// DeployResult records the outcome of invoking the deploy CLI.
type DeployResult struct {
	Command string `json:"command"`
	Output  string `json:"output,omitempty"`
}

// Kind implements StepResult.
func (*DeployResult) Kind() string { return KindDeploy }

// MessageResult carries a plain informational message for steps with no
// structured payload.
type MessageResult struct {
	Message string `json:"message"`
}

// Kind implements StepResult.
func (*MessageResult) Kind() string { return KindMessage }

// StepResultEnvelope wraps a StepResult for JSON persistence. It
// serializes as a tagged union:
//
//	{"kind": "checklist", "data": {...}}
//
// so the concrete type can be reconstructed on load and the persisted
// state round-trips losslessly.
type StepResultEnvelope struct {
	Value StepResult
}

// WrapResult builds an envelope around a step payload. A nil payload
// yields a nil envelope.
func WrapResult(value StepResult) *StepResultEnvelope {
	if value == nil {
		return nil
	}
	return &StepResultEnvelope{Value: value}
}

type stepResultJSON struct {
	Kind string          `json:"kind"`
	Data json.RawMessage `json:"data"`
}

// MarshalJSON implements json.Marshaler.
func (e StepResultEnvelope) MarshalJSON() ([]byte, error) {
	if e.Value == nil {
		return []byte("null"), nil
	}
	data, err := json.Marshal(e.Value)
	if err != nil {
		return nil, fmt.Errorf("marshal step result %q: %w", e.Value.Kind(), err)
	}
	return json.Marshal(stepResultJSON{Kind: e.Value.Kind(), Data: data})
}

// UnmarshalJSON implements json.Unmarshaler, dispatching on the kind
// discriminator.
func (e *StepResultEnvelope) UnmarshalJSON(data []byte) error {
	var raw stepResultJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("unmarshal step result envelope: %w", err)
	}

	var value StepResult
	switch raw.Kind {
	case KindChecklist:
		value = &ChecklistResult{}
	case KindOptimize:
		value = &OptimizeResult{}
	case KindReport:
		value = &ReportResult{}
	case KindDeploy:
		value = &DeployResult{}
	case KindMessage:
		value = &MessageResult{}
	default:
		return fmt.Errorf("unknown step result kind %q", raw.Kind)
	}

	if err := json.Unmarshal(raw.Data, value); err != nil {
		return fmt.Errorf("unmarshal step result %q: %w", raw.Kind, err)
	}
	e.Value = value
	return nil
}

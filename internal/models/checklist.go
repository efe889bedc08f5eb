// Package models defines the core data types for launch readiness
// evaluation and workflow orchestration: checklist items and sections,
// the evaluation snapshot, workflow steps, durable run state, and the
// bounded run history.
//
// All types serialize to JSON as the canonical interchange format.
// Timestamps are encoded as ISO-8601 (RFC 3339) strings and round-trip
// losslessly.
package models

import (
	"errors"
	"time"
)

// ItemStatus is the outcome of a single readiness check.
type ItemStatus string

const (
	// StatusPass indicates the check succeeded.
	StatusPass ItemStatus = "pass"
	// StatusFail indicates the check found a problem.
	StatusFail ItemStatus = "fail"
	// StatusWarning indicates the check found something questionable
	// that does not block launch on its own.
	StatusWarning ItemStatus = "warning"
	// StatusSkip indicates the check could not be automated and needs
	// manual verification.
	StatusSkip ItemStatus = "skip"
)

// IsValid reports whether the status is one of the four known values.
func (s ItemStatus) IsValid() bool {
	switch s {
	case StatusPass, StatusFail, StatusWarning, StatusSkip:
		return true
	}
	return false
}

// ChecklistItem is one atomic check result. Items are created fresh on
// every evaluation run and never mutated after construction.
type ChecklistItem struct {
	// ID is a stable identifier for the check (e.g. "seo-robots-txt").
	ID string `json:"id"`

	// Name is the human-readable label.
	Name string `json:"name"`

	// Status is the check outcome.
	Status ItemStatus `json:"status"`

	// Required marks whether a failure of this item blocks launch.
	Required bool `json:"required"`

	// Message carries optional detail about the outcome.
	Message string `json:"message,omitempty"`

	// Fix is an optional remediation hint.
	Fix string `json:"fix,omitempty"`

	// Automated marks whether the item can be auto-remediated.
	Automated bool `json:"automated"`
}

// Validate checks that the item has the fields every consumer relies on.
func (i *ChecklistItem) Validate() error {
	if i.ID == "" {
		return errors.New("checklist item id is required")
	}
	if i.Name == "" {
		return errors.New("checklist item name is required")
	}
	if !i.Status.IsValid() {
		return errors.New("checklist item status is invalid")
	}
	return nil
}

// ChecklistSection is a named group of related checklist items with a
// derived 0-100 score.
type ChecklistSection struct {
	// Name is the section label (e.g. "SEO", "Assets").
	Name string `json:"name"`

	// Items holds the section's check results in evaluation order.
	Items []ChecklistItem `json:"items"`

	// Score is the derived 0-100 section score. A section with no
	// items scores 100: absence of checks must not penalize.
	Score int `json:"score"`

	// Required is informational; it does not affect scoring.
	Required bool `json:"required"`
}

// LaunchChecklist is one evaluation snapshot. It is created once per
// evaluator invocation, never mutated afterwards, and has no identity
// across runs.
type LaunchChecklist struct {
	// Sections holds every evaluated section in provider order.
	Sections []ChecklistSection `json:"sections"`

	// OverallScore is the rounded mean of all section scores. Sections
	// are weighted equally regardless of item count; this is a known
	// limitation kept for compatibility with prior reports.
	OverallScore int `json:"overallScore"`

	// ReadyToLaunch is true iff there are no critical issues and the
	// overall score meets the readiness threshold.
	ReadyToLaunch bool `json:"readyToLaunch"`

	// CriticalIssues lists items with status fail and required true,
	// flattened across sections in section then item order.
	CriticalIssues []ChecklistItem `json:"criticalIssues"`

	// Warnings lists items with status warning, same ordering rule.
	Warnings []ChecklistItem `json:"warnings"`

	// Timestamp records when the evaluation ran.
	Timestamp time.Time `json:"timestamp"`
}

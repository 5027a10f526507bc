package domain

import (
	"strings"
	"time"
)

// Workflow represents one named workflow definition.
type Workflow struct {
	ID        string
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// WorkflowScheme associates projects with workflows through mappings.
type WorkflowScheme struct {
	ID   string
	Name string
}

// SchemeMapping binds a scheme to one workflow, optionally qualified by
// an issue type. An empty IssueType marks the default mapping.
type SchemeMapping struct {
	SchemeID   string
	WorkflowID string
	IssueType  string
}

// IsDefault reports whether the mapping carries no issue-type qualifier.
func (m SchemeMapping) IsDefault() bool {
	return strings.TrimSpace(m.IssueType) == ""
}

// WorkflowStep represents one step in a workflow layout, bound to a status.
type WorkflowStep struct {
	ID         string
	WorkflowID string
	Name       string
	StatusID   string
	Position   int
}

// StepTransition represents one directed step-to-step edge.
type StepTransition struct {
	FromStepID string
	ToStepID   string
}

// NewWorkflow constructs a new value for this package.
func NewWorkflow(id, name string, now time.Time) (Workflow, error) {
	id = strings.TrimSpace(id)
	name = strings.TrimSpace(name)
	if id == "" {
		return Workflow{}, ErrInvalidID
	}
	if name == "" {
		return Workflow{}, ErrInvalidName
	}
	return Workflow{
		ID:        id,
		Name:      name,
		CreatedAt: now.UTC(),
		UpdatedAt: now.UTC(),
	}, nil
}

// NewWorkflowStep constructs a new value for this package.
func NewWorkflowStep(id, workflowID, name, statusID string, position int) (WorkflowStep, error) {
	id = strings.TrimSpace(id)
	workflowID = strings.TrimSpace(workflowID)
	name = strings.TrimSpace(name)
	statusID = strings.TrimSpace(statusID)
	if id == "" || workflowID == "" {
		return WorkflowStep{}, ErrInvalidID
	}
	if name == "" {
		return WorkflowStep{}, ErrInvalidName
	}
	if statusID == "" {
		return WorkflowStep{}, ErrInvalidStatusID
	}
	if position < 0 {
		return WorkflowStep{}, ErrInvalidPosition
	}
	return WorkflowStep{
		ID:         id,
		WorkflowID: workflowID,
		Name:       name,
		StatusID:   statusID,
		Position:   position,
	}, nil
}

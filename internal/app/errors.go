package app

import (
	"errors"
	"fmt"
)

// ErrNotFound and related errors describe validation and runtime failures.
var (
	ErrNotFound     = errors.New("not found")
	ErrAlreadyExist = errors.New("already exists")
	ErrBoardBusy    = errors.New("board sync already in progress")
)

// NotConfiguredStage identifies the first resolution stage that came up empty.
type NotConfiguredStage string

// Resolution stages for workflow graph loading.
const (
	StageScheme   NotConfiguredStage = "scheme"
	StageMapping  NotConfiguredStage = "mapping"
	StageWorkflow NotConfiguredStage = "workflow"
	StageSteps    NotConfiguredStage = "steps"
)

// NotConfiguredError reports that a project has no usable workflow
// configuration, naming the stage that failed so callers can surface a
// specific, actionable message.
type NotConfiguredError struct {
	ProjectID string
	Stage     NotConfiguredStage
}

// Error implements the error interface.
func (e *NotConfiguredError) Error() string {
	switch e.Stage {
	case StageScheme:
		return fmt.Sprintf("project %s has no workflow scheme assigned", e.ProjectID)
	case StageMapping:
		return fmt.Sprintf("project %s has a workflow scheme with no workflow mapping", e.ProjectID)
	case StageWorkflow:
		return fmt.Sprintf("project %s maps to a workflow that does not exist", e.ProjectID)
	case StageSteps:
		return fmt.Sprintf("project %s maps to a workflow with no steps", e.ProjectID)
	default:
		return fmt.Sprintf("project %s has no workflow configured", e.ProjectID)
	}
}

// IsNotConfigured reports whether err is a workflow-not-configured condition.
func IsNotConfigured(err error) bool {
	var nc *NotConfiguredError
	return errors.As(err, &nc)
}

// isNotFound reports whether a repository lookup came back empty.
func isNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// isAlreadyExist reports whether a create hit a uniqueness constraint.
func isAlreadyExist(err error) bool {
	return errors.Is(err, ErrAlreadyExist)
}

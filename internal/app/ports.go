package app

import (
	"context"

	"github.com/farran/tavla/internal/domain"
)

// WorkflowRepository exposes the workflow-definition collaborator, read-only.
type WorkflowRepository interface {
	SchemeByProject(context.Context, string) (domain.WorkflowScheme, error)
	MappingsByScheme(context.Context, string) ([]domain.SchemeMapping, error)
	GetWorkflow(context.Context, string) (domain.Workflow, error)
	StepsByWorkflow(context.Context, string) ([]domain.WorkflowStep, error)
	TransitionsByWorkflow(context.Context, string) ([]domain.StepTransition, error)
	GetStatus(context.Context, string) (domain.Status, error)
	ListStatuses(context.Context) ([]domain.Status, error)
}

// BoardRepository owns the column partition of each board.
type BoardRepository interface {
	GetBoard(context.Context, string) (domain.Board, error)
	ListColumns(context.Context, string) ([]domain.Column, error)
	CreateColumn(context.Context, domain.Column) error
	UpdateColumn(context.Context, domain.Column) error
	DeleteColumn(context.Context, string) error
	// ReplaceBoardColumns swaps the whole partition in one transaction so a
	// mid-sequence failure cannot leave a board with no columns.
	ReplaceBoardColumns(context.Context, string, []domain.Column) error
}

// IssueRepository exposes the work-item collaborator.
type IssueRepository interface {
	GetIssue(context.Context, string) (domain.Issue, error)
	// DistinctStatusIDs returns the status ids currently assigned to any
	// work item in the project, in first-seen order.
	DistinctStatusIDs(context.Context, string) ([]string, error)
	UpdateIssueStatus(context.Context, string, string) error
}

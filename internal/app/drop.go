package app

import (
	"context"
	"fmt"
)

// DropRequest describes a drag-drop of a work item onto a column.
// ZoneStatusID is set when the drop landed on a sub-status zone of a
// multi-status column.
type DropRequest struct {
	IssueID      string
	BoardID      string
	ColumnID     string
	ZoneStatusID string
}

// DropResult reports the resolved target and the validation outcome.
// Committed is false when the move was rejected; the issue's status is
// left unchanged in that case.
type DropResult struct {
	IssueID        string
	FromStatusID   string
	TargetStatusID string
	Committed      bool
	Reason         string
}

// RouteDrop resolves the intended target status of a drop, validates the
// transition against the workflow graph, and commits the status change
// only when the move is legal. For multi-status columns without a zone hit
// the first mapped status is the documented tie-break.
func (s *Service) RouteDrop(ctx context.Context, req DropRequest) (DropResult, error) {
	issue, err := s.issues.GetIssue(ctx, req.IssueID)
	if err != nil {
		return DropResult{}, fmt.Errorf("lookup issue: %w", err)
	}
	columns, err := s.boards.ListColumns(ctx, req.BoardID)
	if err != nil {
		return DropResult{}, fmt.Errorf("list columns: %w", err)
	}

	target := ""
	found := false
	for _, col := range columns {
		if col.ID != req.ColumnID {
			continue
		}
		found = true
		switch {
		case len(col.StatusIDs) == 1:
			target = col.StatusIDs[0]
		case req.ZoneStatusID != "" && col.HasStatus(req.ZoneStatusID):
			target = req.ZoneStatusID
		default:
			target = col.FirstStatusID()
		}
		break
	}
	if !found {
		return DropResult{}, fmt.Errorf("column %s: %w", req.ColumnID, ErrNotFound)
	}
	if target == "" {
		return DropResult{}, fmt.Errorf("column %s maps no status", req.ColumnID)
	}

	result := DropResult{
		IssueID:        issue.ID,
		FromStatusID:   issue.StatusID,
		TargetStatusID: target,
	}
	validation := s.ValidateMove(ctx, issue.ProjectID, issue.StatusID, target)
	if !validation.Valid {
		result.Reason = validation.Reason
		return result, nil
	}

	if err := s.issues.UpdateIssueStatus(ctx, issue.ID, target); err != nil {
		return result, fmt.Errorf("commit status change: %w", err)
	}
	result.Committed = true
	return result, nil
}

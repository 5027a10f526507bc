package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/farran/tavla/internal/domain"
)

// RegenerateResult reports the outcome of a full partition rebuild.
type RegenerateResult struct {
	ColumnsCreated int
	ColumnsRemoved int
}

// SyncResult reports the outcome of an incremental reconciliation.
type SyncResult struct {
	Added   int
	Removed int
}

// wipLimits carries a column's soft bounds through regeneration.
type wipLimits struct {
	min int
	max int
}

// Regenerate destructively rebuilds a board's column partition from the
// project's workflow graph: one single-status column per status, in graph
// order, with statuses currently in use but absent from the graph appended
// at the end so in-flight items stay visible. WIP limits carry over by
// case-insensitive column name when preserveWIP is set. The replacement is
// computed up front and applied through one repository transaction.
func (s *Service) Regenerate(ctx context.Context, boardID string, preserveWIP bool) (RegenerateResult, error) {
	if err := s.acquireBoard(boardID); err != nil {
		return RegenerateResult{}, err
	}
	defer s.releaseBoard(boardID)

	board, err := s.boards.GetBoard(ctx, boardID)
	if err != nil {
		return RegenerateResult{}, fmt.Errorf("lookup board: %w", err)
	}
	graph, err := s.ResolveGraph(ctx, board.ProjectID)
	if err != nil {
		return RegenerateResult{}, err
	}

	statuses, err := s.augmentedStatuses(ctx, board.ProjectID, graph)
	if err != nil {
		return RegenerateResult{}, err
	}

	existing, err := s.boards.ListColumns(ctx, boardID)
	if err != nil {
		return RegenerateResult{}, fmt.Errorf("list columns: %w", err)
	}
	limitsByName := map[string]wipLimits{}
	if preserveWIP {
		for _, col := range existing {
			limitsByName[strings.ToLower(col.Name)] = wipLimits{min: col.MinIssues, max: col.MaxIssues}
		}
	}

	now := s.clock()
	columns := make([]domain.Column, 0, len(statuses))
	for i, status := range statuses {
		col, err := domain.NewColumn(s.idGen(), boardID, status.Name, i, now)
		if err != nil {
			return RegenerateResult{}, fmt.Errorf("build column for status %q: %w", status.Name, err)
		}
		if limits, ok := limitsByName[strings.ToLower(col.Name)]; ok {
			if err := col.SetWIPLimits(limits.min, limits.max, now); err != nil {
				return RegenerateResult{}, fmt.Errorf("carry wip limits to %q: %w", col.Name, err)
			}
		}
		if err := col.MapStatus(status.ID, now); err != nil {
			return RegenerateResult{}, fmt.Errorf("map status %s: %w", status.ID, err)
		}
		columns = append(columns, col)
	}

	if err := s.boards.ReplaceBoardColumns(ctx, boardID, columns); err != nil {
		return RegenerateResult{}, fmt.Errorf("replace board columns: %w", err)
	}
	return RegenerateResult{
		ColumnsCreated: len(columns),
		ColumnsRemoved: len(existing),
	}, nil
}

// Sync incrementally reconciles a board's partition with the workflow
// graph. Unmapped graph statuses gain one new single-status column at the
// tail; with removeOrphans, columns whose non-empty status sets are
// entirely absent from the graph are deleted. A project without workflow
// configuration yields a zero result without error.
func (s *Service) Sync(ctx context.Context, boardID string, removeOrphans bool) (SyncResult, error) {
	if err := s.acquireBoard(boardID); err != nil {
		return SyncResult{}, err
	}
	defer s.releaseBoard(boardID)

	board, err := s.boards.GetBoard(ctx, boardID)
	if err != nil {
		return SyncResult{}, fmt.Errorf("lookup board: %w", err)
	}
	graph, err := s.ResolveGraph(ctx, board.ProjectID)
	if err != nil {
		if IsNotConfigured(err) {
			return SyncResult{}, nil
		}
		return SyncResult{}, err
	}

	columns, err := s.boards.ListColumns(ctx, boardID)
	if err != nil {
		return SyncResult{}, fmt.Errorf("list columns: %w", err)
	}
	mapped := statusIDSet(columns)
	nextPos := 0
	for _, col := range columns {
		if col.Position >= nextPos {
			nextPos = col.Position + 1
		}
	}

	result := SyncResult{}
	now := s.clock()
	for _, status := range graph.Statuses {
		if _, ok := mapped[status.ID]; ok {
			continue
		}
		col, err := domain.NewColumn(s.idGen(), boardID, status.Name, nextPos, now)
		if err != nil {
			return result, fmt.Errorf("build column for status %q: %w", status.Name, err)
		}
		if err := col.MapStatus(status.ID, now); err != nil {
			return result, fmt.Errorf("map status %s: %w", status.ID, err)
		}
		if err := s.boards.CreateColumn(ctx, col); err != nil {
			// A concurrent sync may have created the same mapping; treat a
			// uniqueness conflict as already satisfied.
			if isAlreadyExist(err) {
				continue
			}
			return result, fmt.Errorf("create column %q: %w", col.Name, err)
		}
		nextPos++
		result.Added++
	}

	if removeOrphans {
		graphStatuses := graph.StatusIDSet()
		for _, col := range columns {
			if len(col.StatusIDs) == 0 {
				continue
			}
			orphaned := true
			for _, id := range col.StatusIDs {
				if _, ok := graphStatuses[id]; ok {
					orphaned = false
					break
				}
			}
			if !orphaned {
				continue
			}
			if err := s.boards.DeleteColumn(ctx, col.ID); err != nil {
				return result, fmt.Errorf("delete orphan column %q: %w", col.Name, err)
			}
			result.Removed++
		}
	}
	return result, nil
}

// augmentedStatuses returns the graph's statuses in first-seen order,
// followed by statuses currently assigned to work items but absent from
// the graph, de-duplicated in their own order.
func (s *Service) augmentedStatuses(ctx context.Context, projectID string, graph domain.WorkflowGraph) ([]domain.Status, error) {
	out := make([]domain.Status, 0, len(graph.Statuses))
	seen := map[string]struct{}{}
	for _, status := range graph.Statuses {
		if _, ok := seen[status.ID]; ok {
			continue
		}
		seen[status.ID] = struct{}{}
		out = append(out, status)
	}

	inUse, err := s.issues.DistinctStatusIDs(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("list statuses in use: %w", err)
	}
	for _, id := range inUse {
		if _, ok := seen[id]; ok {
			continue
		}
		status, err := s.workflows.GetStatus(ctx, id)
		if err != nil {
			if isNotFound(err) {
				continue
			}
			return nil, fmt.Errorf("lookup status %s: %w", id, err)
		}
		seen[id] = struct{}{}
		out = append(out, status)
	}
	return out, nil
}

package app

import (
	"context"
	"fmt"

	"github.com/farran/tavla/internal/domain"
)

// BoardAlignment bundles the analysis results for one board.
type BoardAlignment struct {
	BoardID  string
	Warnings map[string][]string
	Unmapped []domain.Status
	Columns  []domain.Column
	Graph    domain.WorkflowGraph
}

// AnalyzeBoard loads a board's partition and its project's workflow graph
// and reports structural warnings plus unmapped statuses. A project without
// workflow configuration propagates NotConfigured.
func (s *Service) AnalyzeBoard(ctx context.Context, boardID string) (BoardAlignment, error) {
	board, err := s.boards.GetBoard(ctx, boardID)
	if err != nil {
		return BoardAlignment{}, fmt.Errorf("lookup board: %w", err)
	}
	graph, err := s.ResolveGraph(ctx, board.ProjectID)
	if err != nil {
		return BoardAlignment{}, err
	}
	columns, err := s.boards.ListColumns(ctx, boardID)
	if err != nil {
		return BoardAlignment{}, fmt.Errorf("list columns: %w", err)
	}
	return BoardAlignment{
		BoardID:  boardID,
		Warnings: AnalyzeAlignment(columns, graph),
		Unmapped: UnmappedStatuses(columns, graph),
		Columns:  columns,
		Graph:    graph,
	}, nil
}

package app

import (
	"context"

	"github.com/farran/tavla/internal/domain"
)

// MoveValidation reports whether a status move is legal. Reason is set
// only when the move is rejected.
type MoveValidation struct {
	Valid  bool
	Reason string
}

// ReasonValidationFailed marks moves rejected because the graph itself
// could not be loaded. Validation fails closed: a backing-store error
// never silently permits a move.
const ReasonValidationFailed = "move validation failed"

// ReasonNoTransition marks moves rejected for lack of a direct edge.
const ReasonNoTransition = "workflow does not allow this transition"

// ValidateTransition decides legality of a (from, to) status move against
// a graph. Same-status moves are always valid; otherwise the pair must be
// a direct edge of the graph, never multi-hop reachability.
func ValidateTransition(fromStatusID, toStatusID string, graph domain.WorkflowGraph) MoveValidation {
	if fromStatusID == toStatusID {
		return MoveValidation{Valid: true}
	}
	if graph.HasTransition(fromStatusID, toStatusID) {
		return MoveValidation{Valid: true}
	}
	return MoveValidation{Valid: false, Reason: ReasonNoTransition}
}

// ValidateMove loads the project's workflow graph and validates one move
// against it. Any failure to obtain the graph rejects the move with a
// distinguishable reason.
func (s *Service) ValidateMove(ctx context.Context, projectID, fromStatusID, toStatusID string) MoveValidation {
	graph, err := s.ResolveGraph(ctx, projectID)
	if err != nil {
		return MoveValidation{Valid: false, Reason: ReasonValidationFailed}
	}
	return ValidateTransition(fromStatusID, toStatusID, graph)
}

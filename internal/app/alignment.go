package app

import (
	"github.com/farran/tavla/internal/domain"
)

// Warning messages produced by the alignment analysis.
const (
	WarnNoIncoming = "No workflow transitions lead to this column from previous columns."
	WarnNoOutgoing = "No workflow transitions lead from this column to next columns."
)

// AnalyzeAlignment reports per-column structural warnings for a column
// partition against a workflow graph. The check is a single-hop adjacency
// test: a column warns when no direct edge connects it to the union of the
// columns before (or after) it. A graph with no transitions produces no
// warnings at all, and columns with no mapped statuses never warn.
func AnalyzeAlignment(columns []domain.Column, graph domain.WorkflowGraph) map[string][]string {
	out := map[string][]string{}
	if len(graph.Transitions) == 0 {
		return out
	}

	for i, col := range columns {
		if len(col.StatusIDs) == 0 {
			continue
		}
		own := statusIDSet(columns[i : i+1])

		var messages []string
		if i > 0 {
			previous := statusIDSet(columns[:i])
			if !anyEdge(graph.Transitions, previous, own) {
				messages = append(messages, WarnNoIncoming)
			}
		}
		if i < len(columns)-1 {
			next := statusIDSet(columns[i+1:])
			if !anyEdge(graph.Transitions, own, next) {
				messages = append(messages, WarnNoOutgoing)
			}
		}
		if len(messages) > 0 {
			out[col.ID] = messages
		}
	}
	return out
}

// UnmappedStatuses returns statuses that appear in any transition of the
// graph but are mapped to no column, in first-seen order.
func UnmappedStatuses(columns []domain.Column, graph domain.WorkflowGraph) []domain.Status {
	mapped := statusIDSet(columns)
	inTransitions := map[string]struct{}{}
	for _, t := range graph.Transitions {
		inTransitions[t.FromStatusID] = struct{}{}
		inTransitions[t.ToStatusID] = struct{}{}
	}

	var out []domain.Status
	seen := map[string]struct{}{}
	for _, status := range graph.Statuses {
		if _, ok := inTransitions[status.ID]; !ok {
			continue
		}
		if _, ok := mapped[status.ID]; ok {
			continue
		}
		if _, ok := seen[status.ID]; ok {
			continue
		}
		seen[status.ID] = struct{}{}
		out = append(out, status)
	}
	return out
}

// statusIDSet unions the status sets of the given columns.
func statusIDSet(columns []domain.Column) map[string]struct{} {
	out := map[string]struct{}{}
	for _, col := range columns {
		for _, id := range col.StatusIDs {
			out[id] = struct{}{}
		}
	}
	return out
}

// anyEdge reports whether any transition runs from the first set into the second.
func anyEdge(transitions []domain.Transition, from, to map[string]struct{}) bool {
	for _, t := range transitions {
		if _, ok := from[t.FromStatusID]; !ok {
			continue
		}
		if _, ok := to[t.ToStatusID]; ok {
			return true
		}
	}
	return false
}

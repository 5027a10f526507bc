package app

import (
	"context"
	"fmt"

	"github.com/farran/tavla/internal/domain"
)

// ResolveGraph resolves a project's assigned workflow into a normalized
// graph of statuses and directed transitions. The chain is
// project -> scheme -> mapping -> workflow -> ordered steps -> transitions;
// the first stage that yields nothing fails with a NotConfiguredError
// naming that stage.
func (s *Service) ResolveGraph(ctx context.Context, projectID string) (domain.WorkflowGraph, error) {
	scheme, err := s.workflows.SchemeByProject(ctx, projectID)
	if err != nil {
		if isNotFound(err) {
			return domain.WorkflowGraph{}, &NotConfiguredError{ProjectID: projectID, Stage: StageScheme}
		}
		return domain.WorkflowGraph{}, fmt.Errorf("lookup workflow scheme: %w", err)
	}

	mappings, err := s.workflows.MappingsByScheme(ctx, scheme.ID)
	if err != nil {
		return domain.WorkflowGraph{}, fmt.Errorf("lookup scheme mappings: %w", err)
	}
	mapping, ok := pickMapping(mappings)
	if !ok {
		return domain.WorkflowGraph{}, &NotConfiguredError{ProjectID: projectID, Stage: StageMapping}
	}

	if _, err := s.workflows.GetWorkflow(ctx, mapping.WorkflowID); err != nil {
		if isNotFound(err) {
			return domain.WorkflowGraph{}, &NotConfiguredError{ProjectID: projectID, Stage: StageWorkflow}
		}
		return domain.WorkflowGraph{}, fmt.Errorf("lookup workflow: %w", err)
	}

	steps, err := s.workflows.StepsByWorkflow(ctx, mapping.WorkflowID)
	if err != nil {
		return domain.WorkflowGraph{}, fmt.Errorf("lookup workflow steps: %w", err)
	}
	if len(steps) == 0 {
		return domain.WorkflowGraph{}, &NotConfiguredError{ProjectID: projectID, Stage: StageSteps}
	}

	stepTransitions, err := s.workflows.TransitionsByWorkflow(ctx, mapping.WorkflowID)
	if err != nil {
		return domain.WorkflowGraph{}, fmt.Errorf("lookup workflow transitions: %w", err)
	}

	return s.buildGraph(ctx, steps, stepTransitions)
}

// pickMapping prefers the mapping without an issue-type qualifier, falling
// back to any single mapping for the scheme.
func pickMapping(mappings []domain.SchemeMapping) (domain.SchemeMapping, bool) {
	for _, m := range mappings {
		if m.IsDefault() {
			return m, true
		}
	}
	if len(mappings) > 0 {
		return mappings[0], true
	}
	return domain.SchemeMapping{}, false
}

// buildGraph translates step-level records into a status-level graph,
// de-duplicating statuses in first-seen order and transitions by pair.
func (s *Service) buildGraph(ctx context.Context, steps []domain.WorkflowStep, stepTransitions []domain.StepTransition) (domain.WorkflowGraph, error) {
	statusByStep := make(map[string]string, len(steps))
	for _, step := range steps {
		statusByStep[step.ID] = step.StatusID
	}

	graph := domain.WorkflowGraph{}
	seenStatus := map[string]struct{}{}
	for _, step := range steps {
		if _, ok := seenStatus[step.StatusID]; ok {
			continue
		}
		status, err := s.workflows.GetStatus(ctx, step.StatusID)
		if err != nil {
			if isNotFound(err) {
				// Step bound to a deleted status; skip rather than fail the load.
				continue
			}
			return domain.WorkflowGraph{}, fmt.Errorf("lookup status %s: %w", step.StatusID, err)
		}
		seenStatus[step.StatusID] = struct{}{}
		graph.Statuses = append(graph.Statuses, status)
	}

	seenEdge := map[domain.Transition]struct{}{}
	for _, st := range stepTransitions {
		from, okFrom := statusByStep[st.FromStepID]
		to, okTo := statusByStep[st.ToStepID]
		if !okFrom || !okTo {
			continue
		}
		edge := domain.Transition{FromStatusID: from, ToStatusID: to}
		if _, ok := seenEdge[edge]; ok {
			continue
		}
		seenEdge[edge] = struct{}{}
		graph.Transitions = append(graph.Transitions, edge)
	}
	return graph, nil
}

package app

import (
	"context"
	"errors"
	"testing"

	"github.com/farran/tavla/internal/domain"
)

func TestResolveGraphStageErrors(t *testing.T) {
	ctx := context.Background()

	t.Run("no scheme", func(t *testing.T) {
		svc := newTestService(newFakeWorkflowRepo(), newFakeBoardRepo(), newFakeIssueRepo())
		_, err := svc.ResolveGraph(ctx, "p1")
		assertStage(t, err, StageScheme)
	})

	t.Run("no mapping", func(t *testing.T) {
		wf := newFakeWorkflowRepo()
		wf.schemes["p1"] = domain.WorkflowScheme{ID: "ws1", Name: "Scheme"}
		svc := newTestService(wf, newFakeBoardRepo(), newFakeIssueRepo())
		_, err := svc.ResolveGraph(ctx, "p1")
		assertStage(t, err, StageMapping)
	})

	t.Run("missing workflow", func(t *testing.T) {
		wf := newFakeWorkflowRepo()
		wf.schemes["p1"] = domain.WorkflowScheme{ID: "ws1", Name: "Scheme"}
		wf.mappings["ws1"] = []domain.SchemeMapping{{SchemeID: "ws1", WorkflowID: "gone"}}
		svc := newTestService(wf, newFakeBoardRepo(), newFakeIssueRepo())
		_, err := svc.ResolveGraph(ctx, "p1")
		assertStage(t, err, StageWorkflow)
	})

	t.Run("no steps", func(t *testing.T) {
		wf := newFakeWorkflowRepo()
		wf.schemes["p1"] = domain.WorkflowScheme{ID: "ws1", Name: "Scheme"}
		wf.mappings["ws1"] = []domain.SchemeMapping{{SchemeID: "ws1", WorkflowID: "w1"}}
		wf.workflows["w1"] = domain.Workflow{ID: "w1", Name: "Workflow"}
		svc := newTestService(wf, newFakeBoardRepo(), newFakeIssueRepo())
		_, err := svc.ResolveGraph(ctx, "p1")
		assertStage(t, err, StageSteps)
	})
}

func assertStage(t *testing.T, err error, want NotConfiguredStage) {
	t.Helper()
	var nc *NotConfiguredError
	if !errors.As(err, &nc) {
		t.Fatalf("expected NotConfiguredError, got %v", err)
	}
	if nc.Stage != want {
		t.Fatalf("stage = %q, want %q", nc.Stage, want)
	}
}

func TestResolveGraphPrefersDefaultMapping(t *testing.T) {
	wf := newFakeWorkflowRepo()
	seedWorkflow(wf, "p1", threeStepStatuses(), [][2]string{{"todo", "prog"}})
	// A bug-qualified mapping to a second workflow sits in front; the
	// unqualified mapping must still win.
	wf.workflows["w2"] = domain.Workflow{ID: "w2", Name: "Bug Workflow"}
	wf.steps["w2"] = []domain.WorkflowStep{{ID: "bstep", WorkflowID: "w2", Name: "Open", StatusID: "todo", Position: 0}}
	wf.mappings["ws-p1"] = []domain.SchemeMapping{
		{SchemeID: "ws-p1", WorkflowID: "w2", IssueType: "bug"},
		{SchemeID: "ws-p1", WorkflowID: "w1"},
	}

	svc := newTestService(wf, newFakeBoardRepo(), newFakeIssueRepo())
	graph, err := svc.ResolveGraph(context.Background(), "p1")
	if err != nil {
		t.Fatalf("ResolveGraph() error = %v", err)
	}
	if len(graph.Statuses) != 3 {
		t.Fatalf("default mapping not preferred: %d statuses", len(graph.Statuses))
	}
}

func TestResolveGraphFallsBackToQualifiedMapping(t *testing.T) {
	wf := newFakeWorkflowRepo()
	seedWorkflow(wf, "p1", threeStepStatuses(), [][2]string{{"todo", "prog"}})
	wf.mappings["ws-p1"] = []domain.SchemeMapping{
		{SchemeID: "ws-p1", WorkflowID: "w1", IssueType: "bug"},
	}

	svc := newTestService(wf, newFakeBoardRepo(), newFakeIssueRepo())
	graph, err := svc.ResolveGraph(context.Background(), "p1")
	if err != nil {
		t.Fatalf("ResolveGraph() error = %v", err)
	}
	if len(graph.Statuses) != 3 {
		t.Fatalf("qualified fallback not used: %d statuses", len(graph.Statuses))
	}
}

func TestResolveGraphDeduplicates(t *testing.T) {
	wf := newFakeWorkflowRepo()
	wf.schemes["p1"] = domain.WorkflowScheme{ID: "ws1", Name: "Scheme"}
	wf.mappings["ws1"] = []domain.SchemeMapping{{SchemeID: "ws1", WorkflowID: "w1"}}
	wf.workflows["w1"] = domain.Workflow{ID: "w1", Name: "Workflow"}
	wf.statuses["todo"] = domain.Status{ID: "todo", Name: "ToDo", Category: domain.CategoryTodo}
	wf.statuses["prog"] = domain.Status{ID: "prog", Name: "InProgress", Category: domain.CategoryInProgress}
	// Two steps share the same status; two step transitions collapse onto
	// the same status pair.
	wf.steps["w1"] = []domain.WorkflowStep{
		{ID: "s1", WorkflowID: "w1", Name: "Open", StatusID: "todo", Position: 0},
		{ID: "s2", WorkflowID: "w1", Name: "Reopened", StatusID: "todo", Position: 1},
		{ID: "s3", WorkflowID: "w1", Name: "Working", StatusID: "prog", Position: 2},
	}
	wf.transitions["w1"] = []domain.StepTransition{
		{FromStepID: "s1", ToStepID: "s3"},
		{FromStepID: "s2", ToStepID: "s3"},
	}

	svc := newTestService(wf, newFakeBoardRepo(), newFakeIssueRepo())
	graph, err := svc.ResolveGraph(context.Background(), "p1")
	if err != nil {
		t.Fatalf("ResolveGraph() error = %v", err)
	}
	if len(graph.Statuses) != 2 {
		t.Fatalf("statuses not deduplicated: %v", graph.Statuses)
	}
	if graph.Statuses[0].ID != "todo" {
		t.Fatalf("first-seen order lost: %v", graph.Statuses)
	}
	if len(graph.Transitions) != 1 {
		t.Fatalf("transitions not deduplicated: %v", graph.Transitions)
	}
}

func TestResolveGraphSkipsDanglingTransitions(t *testing.T) {
	wf := newFakeWorkflowRepo()
	seedWorkflow(wf, "p1", threeStepStatuses(), [][2]string{{"todo", "prog"}})
	wf.transitions["w1"] = append(wf.transitions["w1"], domain.StepTransition{FromStepID: "ghost", ToStepID: "step-1"})

	svc := newTestService(wf, newFakeBoardRepo(), newFakeIssueRepo())
	graph, err := svc.ResolveGraph(context.Background(), "p1")
	if err != nil {
		t.Fatalf("ResolveGraph() error = %v", err)
	}
	if len(graph.Transitions) != 1 {
		t.Fatalf("dangling transition kept: %v", graph.Transitions)
	}
}

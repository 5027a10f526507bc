package app

import (
	"context"
	"testing"

	"github.com/farran/tavla/internal/domain"
)

func TestValidateTransitionSameStatus(t *testing.T) {
	graph := domain.WorkflowGraph{}
	for _, id := range []string{"todo", "prog", "done", "unknown"} {
		if v := ValidateTransition(id, id, graph); !v.Valid {
			t.Fatalf("same-status move %s rejected: %q", id, v.Reason)
		}
	}
}

func TestValidateTransitionDirectEdgeOnly(t *testing.T) {
	graph := threeStatusGraph()

	if v := ValidateTransition("todo", "prog", graph); !v.Valid {
		t.Fatalf("direct edge rejected: %q", v.Reason)
	}
	// todo -> done is reachable through prog but is not a direct edge.
	if v := ValidateTransition("todo", "done", graph); v.Valid {
		t.Fatal("multi-hop path accepted as direct edge")
	}
	if v := ValidateTransition("done", "todo", graph); v.Valid {
		t.Fatal("reverse edge accepted")
	}
	if v := ValidateTransition("todo", "done", graph); v.Reason != ReasonNoTransition {
		t.Fatalf("unexpected reason %q", v.Reason)
	}
}

func TestValidateMoveLoadsGraph(t *testing.T) {
	wf := newFakeWorkflowRepo()
	seedWorkflow(wf, "p1", threeStepStatuses(), [][2]string{{"todo", "prog"}, {"prog", "done"}})
	svc := newTestService(wf, newFakeBoardRepo(), newFakeIssueRepo())

	if v := svc.ValidateMove(context.Background(), "p1", "todo", "prog"); !v.Valid {
		t.Fatalf("legal move rejected: %q", v.Reason)
	}
	if v := svc.ValidateMove(context.Background(), "p1", "prog", "todo"); v.Valid {
		t.Fatal("illegal move accepted")
	}
}

func TestValidateMoveFailsClosed(t *testing.T) {
	wf := newFakeWorkflowRepo()
	seedWorkflow(wf, "p1", threeStepStatuses(), [][2]string{{"todo", "prog"}})
	wf.failSchemes = true
	svc := newTestService(wf, newFakeBoardRepo(), newFakeIssueRepo())

	v := svc.ValidateMove(context.Background(), "p1", "todo", "prog")
	if v.Valid {
		t.Fatal("move permitted despite graph load failure")
	}
	if v.Reason != ReasonValidationFailed {
		t.Fatalf("unexpected reason %q", v.Reason)
	}
}

func TestValidateMoveUnconfiguredProjectFailsClosed(t *testing.T) {
	svc := newTestService(newFakeWorkflowRepo(), newFakeBoardRepo(), newFakeIssueRepo())
	if v := svc.ValidateMove(context.Background(), "nope", "todo", "prog"); v.Valid {
		t.Fatal("move permitted without workflow configuration")
	}
}

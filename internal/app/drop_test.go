package app

import (
	"context"
	"errors"
	"testing"

	"github.com/farran/tavla/internal/domain"
)

func dropFixture(t *testing.T) (*Service, *fakeIssueRepo, *fakeBoardRepo) {
	t.Helper()
	wf := newFakeWorkflowRepo()
	boards := newFakeBoardRepo()
	issues := newFakeIssueRepo()
	seedWorkflow(wf, "p1", threeStepStatuses(), [][2]string{{"todo", "prog"}, {"prog", "done"}})
	boards.boards["b1"] = domain.Board{ID: "b1", ProjectID: "p1", Name: "Board"}
	boards.columns["c1"] = column("c1", 0, "todo")
	boards.columns["c2"] = column("c2", 1, "prog", "done")
	issues.issues["i1"] = domain.Issue{ID: "i1", ProjectID: "p1", Title: "Task", StatusID: "todo"}
	return newTestService(wf, boards, issues), issues, boards
}

func TestRouteDropSingleStatusColumn(t *testing.T) {
	svc, issues, _ := dropFixture(t)
	issues.issues["i1"] = domain.Issue{ID: "i1", ProjectID: "p1", Title: "Task", StatusID: "prog"}

	result, err := svc.RouteDrop(context.Background(), DropRequest{IssueID: "i1", BoardID: "b1", ColumnID: "c1"})
	if err != nil {
		t.Fatalf("RouteDrop() error = %v", err)
	}
	if result.TargetStatusID != "todo" {
		t.Fatalf("unexpected target %q", result.TargetStatusID)
	}
	// prog -> todo has no edge, so the drop is rejected and the issue keeps
	// its status.
	if result.Committed {
		t.Fatal("illegal drop committed")
	}
	if issues.issues["i1"].StatusID != "prog" {
		t.Fatalf("issue status mutated to %q", issues.issues["i1"].StatusID)
	}
}

func TestRouteDropZoneStatus(t *testing.T) {
	svc, issues, _ := dropFixture(t)
	issues.issues["i1"] = domain.Issue{ID: "i1", ProjectID: "p1", Title: "Task", StatusID: "prog"}

	result, err := svc.RouteDrop(context.Background(), DropRequest{
		IssueID:      "i1",
		BoardID:      "b1",
		ColumnID:     "c2",
		ZoneStatusID: "done",
	})
	if err != nil {
		t.Fatalf("RouteDrop() error = %v", err)
	}
	if result.TargetStatusID != "done" || !result.Committed {
		t.Fatalf("unexpected result %+v", result)
	}
	if issues.issues["i1"].StatusID != "done" {
		t.Fatalf("issue status not committed: %q", issues.issues["i1"].StatusID)
	}
}

func TestRouteDropFirstStatusTieBreak(t *testing.T) {
	svc, issues, _ := dropFixture(t)

	// Ambiguous drop on a multi-status column defaults to the first mapped
	// status.
	result, err := svc.RouteDrop(context.Background(), DropRequest{IssueID: "i1", BoardID: "b1", ColumnID: "c2"})
	if err != nil {
		t.Fatalf("RouteDrop() error = %v", err)
	}
	if result.TargetStatusID != "prog" {
		t.Fatalf("unexpected tie-break target %q", result.TargetStatusID)
	}
	if !result.Committed {
		t.Fatalf("legal drop rejected: %q", result.Reason)
	}
	if issues.issues["i1"].StatusID != "prog" {
		t.Fatalf("issue status not committed: %q", issues.issues["i1"].StatusID)
	}
}

func TestRouteDropZoneOutsideColumnFallsBack(t *testing.T) {
	svc, _, _ := dropFixture(t)

	// A zone status not mapped by the column falls back to the tie-break.
	result, err := svc.RouteDrop(context.Background(), DropRequest{
		IssueID:      "i1",
		BoardID:      "b1",
		ColumnID:     "c2",
		ZoneStatusID: "todo",
	})
	if err != nil {
		t.Fatalf("RouteDrop() error = %v", err)
	}
	if result.TargetStatusID != "prog" {
		t.Fatalf("unexpected target %q", result.TargetStatusID)
	}
}

func TestRouteDropSameStatusIsNoop(t *testing.T) {
	svc, issues, _ := dropFixture(t)

	result, err := svc.RouteDrop(context.Background(), DropRequest{IssueID: "i1", BoardID: "b1", ColumnID: "c1"})
	if err != nil {
		t.Fatalf("RouteDrop() error = %v", err)
	}
	if !result.Committed {
		t.Fatalf("same-status drop rejected: %q", result.Reason)
	}
	if issues.issues["i1"].StatusID != "todo" {
		t.Fatalf("unexpected status %q", issues.issues["i1"].StatusID)
	}
}

func TestRouteDropUnknownColumn(t *testing.T) {
	svc, _, _ := dropFixture(t)
	_, err := svc.RouteDrop(context.Background(), DropRequest{IssueID: "i1", BoardID: "b1", ColumnID: "missing"})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

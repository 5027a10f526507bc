package app

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/farran/tavla/internal/domain"
)

type fakeWorkflowRepo struct {
	schemes     map[string]domain.WorkflowScheme // projectID -> scheme
	mappings    map[string][]domain.SchemeMapping
	workflows   map[string]domain.Workflow
	steps       map[string][]domain.WorkflowStep
	transitions map[string][]domain.StepTransition
	statuses    map[string]domain.Status

	failSchemes bool
	failSteps   bool
}

func newFakeWorkflowRepo() *fakeWorkflowRepo {
	return &fakeWorkflowRepo{
		schemes:     map[string]domain.WorkflowScheme{},
		mappings:    map[string][]domain.SchemeMapping{},
		workflows:   map[string]domain.Workflow{},
		steps:       map[string][]domain.WorkflowStep{},
		transitions: map[string][]domain.StepTransition{},
		statuses:    map[string]domain.Status{},
	}
}

func (f *fakeWorkflowRepo) SchemeByProject(_ context.Context, projectID string) (domain.WorkflowScheme, error) {
	if f.failSchemes {
		return domain.WorkflowScheme{}, errors.New("scheme lookup failed")
	}
	s, ok := f.schemes[projectID]
	if !ok {
		return domain.WorkflowScheme{}, ErrNotFound
	}
	return s, nil
}

func (f *fakeWorkflowRepo) MappingsByScheme(_ context.Context, schemeID string) ([]domain.SchemeMapping, error) {
	return f.mappings[schemeID], nil
}

func (f *fakeWorkflowRepo) GetWorkflow(_ context.Context, id string) (domain.Workflow, error) {
	w, ok := f.workflows[id]
	if !ok {
		return domain.Workflow{}, ErrNotFound
	}
	return w, nil
}

func (f *fakeWorkflowRepo) StepsByWorkflow(_ context.Context, workflowID string) ([]domain.WorkflowStep, error) {
	if f.failSteps {
		return nil, errors.New("steps lookup failed")
	}
	return f.steps[workflowID], nil
}

func (f *fakeWorkflowRepo) TransitionsByWorkflow(_ context.Context, workflowID string) ([]domain.StepTransition, error) {
	return f.transitions[workflowID], nil
}

func (f *fakeWorkflowRepo) GetStatus(_ context.Context, id string) (domain.Status, error) {
	s, ok := f.statuses[id]
	if !ok {
		return domain.Status{}, ErrNotFound
	}
	return s, nil
}

func (f *fakeWorkflowRepo) ListStatuses(_ context.Context) ([]domain.Status, error) {
	out := make([]domain.Status, 0, len(f.statuses))
	for _, s := range f.statuses {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

type fakeBoardRepo struct {
	boards  map[string]domain.Board
	columns map[string]domain.Column

	failCreate   error
	replaceCalls int
}

func newFakeBoardRepo() *fakeBoardRepo {
	return &fakeBoardRepo{
		boards:  map[string]domain.Board{},
		columns: map[string]domain.Column{},
	}
}

func (f *fakeBoardRepo) GetBoard(_ context.Context, id string) (domain.Board, error) {
	b, ok := f.boards[id]
	if !ok {
		return domain.Board{}, ErrNotFound
	}
	return b, nil
}

func (f *fakeBoardRepo) ListColumns(_ context.Context, boardID string) ([]domain.Column, error) {
	out := []domain.Column{}
	for _, c := range f.columns {
		if c.BoardID == boardID {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Position < out[j].Position })
	return out, nil
}

func (f *fakeBoardRepo) CreateColumn(_ context.Context, c domain.Column) error {
	if f.failCreate != nil {
		return f.failCreate
	}
	f.columns[c.ID] = c
	return nil
}

func (f *fakeBoardRepo) UpdateColumn(_ context.Context, c domain.Column) error {
	if _, ok := f.columns[c.ID]; !ok {
		return ErrNotFound
	}
	f.columns[c.ID] = c
	return nil
}

func (f *fakeBoardRepo) DeleteColumn(_ context.Context, id string) error {
	if _, ok := f.columns[id]; !ok {
		return ErrNotFound
	}
	delete(f.columns, id)
	return nil
}

func (f *fakeBoardRepo) ReplaceBoardColumns(_ context.Context, boardID string, columns []domain.Column) error {
	f.replaceCalls++
	for id, c := range f.columns {
		if c.BoardID == boardID {
			delete(f.columns, id)
		}
	}
	for _, c := range columns {
		f.columns[c.ID] = c
	}
	return nil
}

type fakeIssueRepo struct {
	issues map[string]domain.Issue
}

func newFakeIssueRepo() *fakeIssueRepo {
	return &fakeIssueRepo{issues: map[string]domain.Issue{}}
}

func (f *fakeIssueRepo) GetIssue(_ context.Context, id string) (domain.Issue, error) {
	i, ok := f.issues[id]
	if !ok {
		return domain.Issue{}, ErrNotFound
	}
	return i, nil
}

func (f *fakeIssueRepo) DistinctStatusIDs(_ context.Context, projectID string) ([]string, error) {
	keys := make([]string, 0, len(f.issues))
	for id := range f.issues {
		keys = append(keys, id)
	}
	sort.Strings(keys)
	out := []string{}
	seen := map[string]struct{}{}
	for _, key := range keys {
		issue := f.issues[key]
		if issue.ProjectID != projectID {
			continue
		}
		if _, ok := seen[issue.StatusID]; ok {
			continue
		}
		seen[issue.StatusID] = struct{}{}
		out = append(out, issue.StatusID)
	}
	return out, nil
}

func (f *fakeIssueRepo) UpdateIssueStatus(_ context.Context, id, statusID string) error {
	issue, ok := f.issues[id]
	if !ok {
		return ErrNotFound
	}
	issue.StatusID = statusID
	f.issues[id] = issue
	return nil
}

// newTestService wires a service with sequential ids and a fixed clock.
func newTestService(wf *fakeWorkflowRepo, boards *fakeBoardRepo, issues *fakeIssueRepo) *Service {
	n := 0
	idGen := func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
	clock := func() time.Time {
		return time.Date(2026, 4, 7, 10, 0, 0, 0, time.UTC)
	}
	return NewService(wf, boards, issues, idGen, clock, ServiceConfig{})
}

// seedWorkflow installs statuses, one workflow with one step per status in
// order, the given step transitions, and a default scheme mapping for the
// project.
func seedWorkflow(wf *fakeWorkflowRepo, projectID string, statuses []domain.Status, edges [][2]string) {
	wf.schemes[projectID] = domain.WorkflowScheme{ID: "ws-" + projectID, Name: "Scheme"}
	wf.mappings["ws-"+projectID] = []domain.SchemeMapping{{SchemeID: "ws-" + projectID, WorkflowID: "w1"}}
	wf.workflows["w1"] = domain.Workflow{ID: "w1", Name: "Workflow"}

	steps := make([]domain.WorkflowStep, 0, len(statuses))
	stepByStatus := map[string]string{}
	for i, status := range statuses {
		wf.statuses[status.ID] = status
		stepID := fmt.Sprintf("step-%d", i+1)
		stepByStatus[status.ID] = stepID
		steps = append(steps, domain.WorkflowStep{
			ID:         stepID,
			WorkflowID: "w1",
			Name:       status.Name,
			StatusID:   status.ID,
			Position:   i,
		})
	}
	wf.steps["w1"] = steps

	transitions := make([]domain.StepTransition, 0, len(edges))
	for _, e := range edges {
		transitions = append(transitions, domain.StepTransition{
			FromStepID: stepByStatus[e[0]],
			ToStepID:   stepByStatus[e[1]],
		})
	}
	wf.transitions["w1"] = transitions
}

func threeStepStatuses() []domain.Status {
	return []domain.Status{
		{ID: "todo", Name: "ToDo", Category: domain.CategoryTodo},
		{ID: "prog", Name: "InProgress", Category: domain.CategoryInProgress},
		{ID: "done", Name: "Done", Category: domain.CategoryDone},
	}
}

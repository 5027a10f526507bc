package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/farran/tavla/internal/adapters/storage/sqlite"
	"github.com/farran/tavla/internal/domain"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Install a demo project with a workflow, board, and a few issues",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := bootstrap(cmd)
		if err != nil {
			return err
		}
		defer rt.close()

		projectID, _ := cmd.Flags().GetString("project")
		boardID, err := seedDemo(cmd.Context(), rt.repo, projectID)
		if err != nil {
			return err
		}
		if _, err := rt.svc.Regenerate(cmd.Context(), boardID, true); err != nil {
			return fmt.Errorf("build initial columns: %w", err)
		}
		rt.logger.Info("demo data installed", "project_id", projectID, "board_id", boardID)
		return printJSON(cmd, map[string]string{"project_id": projectID, "board_id": boardID})
	},
}

// seedDemo installs one linear workflow with a review loop plus a board and issues.
func seedDemo(ctx context.Context, repo *sqlite.Repository, projectID string) (string, error) {
	now := time.Now()

	statuses := []struct {
		id, name, color string
		category        domain.StatusCategory
	}{
		{"todo", "To Do", "#6b7280", domain.CategoryTodo},
		{"prog", "In Progress", "#3b82f6", domain.CategoryInProgress},
		{"review", "In Review", "#a855f7", domain.CategoryInProgress},
		{"done", "Done", "#22c55e", domain.CategoryDone},
	}
	for _, row := range statuses {
		status, err := domain.NewStatus(row.id, row.name, row.color, row.category)
		if err != nil {
			return "", fmt.Errorf("build status %s: %w", row.id, err)
		}
		if err := repo.CreateStatus(ctx, status); err != nil {
			return "", fmt.Errorf("create status %s: %w", row.id, err)
		}
	}

	workflow, err := domain.NewWorkflow("wf-demo", "Demo Delivery", now)
	if err != nil {
		return "", err
	}
	if err := repo.CreateWorkflow(ctx, workflow); err != nil {
		return "", fmt.Errorf("create workflow: %w", err)
	}
	stepIDs := make(map[string]string, len(statuses))
	for i, row := range statuses {
		stepID := fmt.Sprintf("step-%d", i+1)
		step, err := domain.NewWorkflowStep(stepID, workflow.ID, row.name, row.id, i)
		if err != nil {
			return "", fmt.Errorf("build step for %s: %w", row.id, err)
		}
		if err := repo.CreateWorkflowStep(ctx, step); err != nil {
			return "", fmt.Errorf("create step for %s: %w", row.id, err)
		}
		stepIDs[row.id] = stepID
	}
	edges := [][2]string{
		{"todo", "prog"},
		{"prog", "review"},
		{"review", "prog"},
		{"review", "done"},
	}
	for _, edge := range edges {
		transition := domain.StepTransition{FromStepID: stepIDs[edge[0]], ToStepID: stepIDs[edge[1]]}
		if err := repo.CreateStepTransition(ctx, workflow.ID, transition); err != nil {
			return "", fmt.Errorf("create transition %s->%s: %w", edge[0], edge[1], err)
		}
	}

	scheme := domain.WorkflowScheme{ID: "ws-demo", Name: "Demo Scheme"}
	if err := repo.CreateScheme(ctx, scheme); err != nil {
		return "", fmt.Errorf("create scheme: %w", err)
	}
	if err := repo.CreateMapping(ctx, domain.SchemeMapping{SchemeID: scheme.ID, WorkflowID: workflow.ID}); err != nil {
		return "", fmt.Errorf("create mapping: %w", err)
	}
	if err := repo.AssignScheme(ctx, projectID, scheme.ID); err != nil {
		return "", fmt.Errorf("assign scheme: %w", err)
	}

	board, err := domain.NewBoard("board-demo", projectID, "Demo Board", now)
	if err != nil {
		return "", err
	}
	if err := repo.CreateBoard(ctx, board); err != nil {
		return "", fmt.Errorf("create board: %w", err)
	}

	issues := []struct{ id, title, statusID string }{
		{"issue-1", "Sketch the onboarding flow", "todo"},
		{"issue-2", "Wire the billing webhook", "prog"},
		{"issue-3", "Review the schema migration", "review"},
	}
	for _, row := range issues {
		issue, err := domain.NewIssue(row.id, projectID, row.title, row.statusID, now)
		if err != nil {
			return "", fmt.Errorf("build issue %s: %w", row.id, err)
		}
		if err := repo.CreateIssue(ctx, issue); err != nil {
			return "", fmt.Errorf("create issue %s: %w", row.id, err)
		}
	}
	return board.ID, nil
}

func init() {
	rootCmd.AddCommand(seedCmd)
	seedCmd.Flags().String("project", "demo", "project id to seed")
}

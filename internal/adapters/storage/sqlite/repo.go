// Package sqlite implements the repository boundary on modernc sqlite.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/farran/tavla/internal/app"
	"github.com/farran/tavla/internal/domain"
	_ "modernc.org/sqlite"
)

// driverName defines a package constant value.
const driverName = "sqlite"

// Repository implements the workflow, board, and issue repositories on
// one sqlite database.
type Repository struct {
	db *sql.DB
}

// Open opens the requested operation.
func Open(path string) (*Repository, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("sqlite path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create sqlite dir: %w", err)
	}
	db, err := sql.Open(driverName, path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	repo := &Repository{db: db}
	if err := repo.migrate(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return repo, nil
}

// OpenInMemory opens in memory.
func OpenInMemory() (*Repository, error) {
	db, err := sql.Open(driverName, "file::memory:?cache=shared")
	if err != nil {
		return nil, fmt.Errorf("open sqlite memory: %w", err)
	}
	repo := &Repository{db: db}
	if err := repo.migrate(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return repo, nil
}

// Close closes the requested operation.
func (r *Repository) Close() error {
	return r.db.Close()
}

// migrate handles migrate.
func (r *Repository) migrate(ctx context.Context) error {
	stmts := []string{
		`PRAGMA foreign_keys = ON;`,
		`CREATE TABLE IF NOT EXISTS statuses (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			color TEXT NOT NULL DEFAULT '',
			category TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS workflows (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS workflow_steps (
			id TEXT PRIMARY KEY,
			workflow_id TEXT NOT NULL,
			name TEXT NOT NULL,
			status_id TEXT NOT NULL,
			position INTEGER NOT NULL,
			FOREIGN KEY(workflow_id) REFERENCES workflows(id) ON DELETE CASCADE
		);`,
		`CREATE TABLE IF NOT EXISTS workflow_transitions (
			workflow_id TEXT NOT NULL,
			from_step_id TEXT NOT NULL,
			to_step_id TEXT NOT NULL,
			PRIMARY KEY(workflow_id, from_step_id, to_step_id),
			FOREIGN KEY(workflow_id) REFERENCES workflows(id) ON DELETE CASCADE
		);`,
		`CREATE TABLE IF NOT EXISTS workflow_schemes (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS project_schemes (
			project_id TEXT PRIMARY KEY,
			scheme_id TEXT NOT NULL,
			FOREIGN KEY(scheme_id) REFERENCES workflow_schemes(id) ON DELETE CASCADE
		);`,
		`CREATE TABLE IF NOT EXISTS scheme_mappings (
			scheme_id TEXT NOT NULL,
			workflow_id TEXT NOT NULL,
			issue_type TEXT NOT NULL DEFAULT '',
			PRIMARY KEY(scheme_id, issue_type),
			FOREIGN KEY(scheme_id) REFERENCES workflow_schemes(id) ON DELETE CASCADE
		);`,
		`CREATE TABLE IF NOT EXISTS boards (
			id TEXT PRIMARY KEY,
			project_id TEXT NOT NULL,
			name TEXT NOT NULL,
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS board_columns (
			id TEXT PRIMARY KEY,
			board_id TEXT NOT NULL,
			name TEXT NOT NULL,
			position INTEGER NOT NULL,
			min_issues INTEGER NOT NULL DEFAULT 0,
			max_issues INTEGER NOT NULL DEFAULT 0,
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL,
			FOREIGN KEY(board_id) REFERENCES boards(id) ON DELETE CASCADE
		);`,
		`CREATE TABLE IF NOT EXISTS board_column_statuses (
			column_id TEXT NOT NULL,
			board_id TEXT NOT NULL,
			status_id TEXT NOT NULL,
			position INTEGER NOT NULL DEFAULT 0,
			PRIMARY KEY(column_id, status_id),
			UNIQUE(board_id, status_id),
			FOREIGN KEY(column_id) REFERENCES board_columns(id) ON DELETE CASCADE
		);`,
		`CREATE TABLE IF NOT EXISTS issues (
			id TEXT PRIMARY KEY,
			project_id TEXT NOT NULL,
			title TEXT NOT NULL,
			status_id TEXT NOT NULL,
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_board_columns_board ON board_columns(board_id, position);`,
		`CREATE INDEX IF NOT EXISTS idx_issues_project ON issues(project_id, status_id);`,
	}
	for _, stmt := range stmts {
		if _, err := r.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}

// SchemeByProject returns the workflow scheme assigned to a project.
func (r *Repository) SchemeByProject(ctx context.Context, projectID string) (domain.WorkflowScheme, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT s.id, s.name
		FROM workflow_schemes s
		JOIN project_schemes ps ON ps.scheme_id = s.id
		WHERE ps.project_id = ?
	`, projectID)
	var scheme domain.WorkflowScheme
	if err := row.Scan(&scheme.ID, &scheme.Name); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.WorkflowScheme{}, app.ErrNotFound
		}
		return domain.WorkflowScheme{}, err
	}
	return scheme, nil
}

// MappingsByScheme lists mappings for a scheme, default mapping first.
func (r *Repository) MappingsByScheme(ctx context.Context, schemeID string) ([]domain.SchemeMapping, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT scheme_id, workflow_id, issue_type
		FROM scheme_mappings
		WHERE scheme_id = ?
		ORDER BY issue_type ASC
	`, schemeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.SchemeMapping{}
	for rows.Next() {
		var m domain.SchemeMapping
		if err := rows.Scan(&m.SchemeID, &m.WorkflowID, &m.IssueType); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// GetWorkflow returns workflow.
func (r *Repository) GetWorkflow(ctx context.Context, id string) (domain.Workflow, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, name, created_at, updated_at
		FROM workflows
		WHERE id = ?
	`, id)
	var (
		w          domain.Workflow
		createdRaw string
		updatedRaw string
	)
	if err := row.Scan(&w.ID, &w.Name, &createdRaw, &updatedRaw); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Workflow{}, app.ErrNotFound
		}
		return domain.Workflow{}, err
	}
	w.CreatedAt = parseTS(createdRaw)
	w.UpdatedAt = parseTS(updatedRaw)
	return w, nil
}

// StepsByWorkflow lists steps ordered by their declared layout position.
func (r *Repository) StepsByWorkflow(ctx context.Context, workflowID string) ([]domain.WorkflowStep, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, workflow_id, name, status_id, position
		FROM workflow_steps
		WHERE workflow_id = ?
		ORDER BY position ASC
	`, workflowID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.WorkflowStep{}
	for rows.Next() {
		var step domain.WorkflowStep
		if err := rows.Scan(&step.ID, &step.WorkflowID, &step.Name, &step.StatusID, &step.Position); err != nil {
			return nil, err
		}
		out = append(out, step)
	}
	return out, rows.Err()
}

// TransitionsByWorkflow lists step-to-step transitions for a workflow.
func (r *Repository) TransitionsByWorkflow(ctx context.Context, workflowID string) ([]domain.StepTransition, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT from_step_id, to_step_id
		FROM workflow_transitions
		WHERE workflow_id = ?
		ORDER BY from_step_id, to_step_id
	`, workflowID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.StepTransition{}
	for rows.Next() {
		var t domain.StepTransition
		if err := rows.Scan(&t.FromStepID, &t.ToStepID); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// GetStatus returns status.
func (r *Repository) GetStatus(ctx context.Context, id string) (domain.Status, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, name, color, category
		FROM statuses
		WHERE id = ?
	`, id)
	return scanStatus(row)
}

// ListStatuses lists all declared statuses.
func (r *Repository) ListStatuses(ctx context.Context) ([]domain.Status, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, color, category
		FROM statuses
		ORDER BY name ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.Status{}
	for rows.Next() {
		status, err := scanStatus(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, status)
	}
	return out, rows.Err()
}

// GetBoard returns board.
func (r *Repository) GetBoard(ctx context.Context, id string) (domain.Board, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, project_id, name, created_at, updated_at
		FROM boards
		WHERE id = ?
	`, id)
	var (
		b          domain.Board
		createdRaw string
		updatedRaw string
	)
	if err := row.Scan(&b.ID, &b.ProjectID, &b.Name, &createdRaw, &updatedRaw); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Board{}, app.ErrNotFound
		}
		return domain.Board{}, err
	}
	b.CreatedAt = parseTS(createdRaw)
	b.UpdatedAt = parseTS(updatedRaw)
	return b, nil
}

// ListColumns lists a board's columns with status mappings, by position.
func (r *Repository) ListColumns(ctx context.Context, boardID string) ([]domain.Column, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, board_id, name, position, min_issues, max_issues, created_at, updated_at
		FROM board_columns
		WHERE board_id = ?
		ORDER BY position ASC
	`, boardID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.Column{}
	for rows.Next() {
		var (
			c          domain.Column
			createdRaw string
			updatedRaw string
		)
		if err := rows.Scan(&c.ID, &c.BoardID, &c.Name, &c.Position, &c.MinIssues, &c.MaxIssues, &createdRaw, &updatedRaw); err != nil {
			return nil, err
		}
		c.CreatedAt = parseTS(createdRaw)
		c.UpdatedAt = parseTS(updatedRaw)
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range out {
		statusIDs, err := r.columnStatusIDs(ctx, out[i].ID)
		if err != nil {
			return nil, err
		}
		out[i].StatusIDs = statusIDs
	}
	return out, nil
}

// CreateColumn inserts one column and its status mappings.
func (r *Repository) CreateColumn(ctx context.Context, c domain.Column) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if err := insertColumn(ctx, tx, c); err != nil {
		return err
	}
	return tx.Commit()
}

// UpdateColumn updates state for the requested operation.
func (r *Repository) UpdateColumn(ctx context.Context, c domain.Column) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx, `
		UPDATE board_columns
		SET name = ?, position = ?, min_issues = ?, max_issues = ?, updated_at = ?
		WHERE id = ?
	`, c.Name, c.Position, c.MinIssues, c.MaxIssues, ts(c.UpdatedAt), c.ID)
	if err != nil {
		return err
	}
	if err := translateNoRows(res); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM board_column_statuses WHERE column_id = ?`, c.ID); err != nil {
		return err
	}
	if err := insertColumnStatuses(ctx, tx, c); err != nil {
		return err
	}
	return tx.Commit()
}

// DeleteColumn deletes one column and its status mappings.
func (r *Repository) DeleteColumn(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM board_columns WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return translateNoRows(res)
}

// ReplaceBoardColumns swaps a board's whole partition in one transaction.
func (r *Repository) ReplaceBoardColumns(ctx context.Context, boardID string, columns []domain.Column) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM board_columns WHERE board_id = ?`, boardID); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM board_column_statuses WHERE board_id = ?`, boardID); err != nil {
		return err
	}
	for _, c := range columns {
		if err := insertColumn(ctx, tx, c); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// GetIssue returns issue.
func (r *Repository) GetIssue(ctx context.Context, id string) (domain.Issue, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, project_id, title, status_id, created_at, updated_at
		FROM issues
		WHERE id = ?
	`, id)
	var (
		i          domain.Issue
		createdRaw string
		updatedRaw string
	)
	if err := row.Scan(&i.ID, &i.ProjectID, &i.Title, &i.StatusID, &createdRaw, &updatedRaw); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Issue{}, app.ErrNotFound
		}
		return domain.Issue{}, err
	}
	i.CreatedAt = parseTS(createdRaw)
	i.UpdatedAt = parseTS(updatedRaw)
	return i, nil
}

// DistinctStatusIDs lists status ids currently assigned to project issues.
func (r *Repository) DistinctStatusIDs(ctx context.Context, projectID string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT status_id
		FROM issues
		WHERE project_id = ?
		GROUP BY status_id
		ORDER BY MIN(created_at) ASC
	`, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

// UpdateIssueStatus moves an issue to a new status.
func (r *Repository) UpdateIssueStatus(ctx context.Context, id, statusID string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE issues
		SET status_id = ?, updated_at = ?
		WHERE id = ?
	`, statusID, ts(time.Now()), id)
	if err != nil {
		return err
	}
	return translateNoRows(res)
}

// CreateStatus creates status.
func (r *Repository) CreateStatus(ctx context.Context, s domain.Status) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO statuses(id, name, color, category)
		VALUES (?, ?, ?, ?)
	`, s.ID, s.Name, s.Color, string(s.Category))
	return translateConstraint(err)
}

// CreateWorkflow creates workflow.
func (r *Repository) CreateWorkflow(ctx context.Context, w domain.Workflow) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO workflows(id, name, created_at, updated_at)
		VALUES (?, ?, ?, ?)
	`, w.ID, w.Name, ts(w.CreatedAt), ts(w.UpdatedAt))
	return translateConstraint(err)
}

// CreateWorkflowStep creates workflow step.
func (r *Repository) CreateWorkflowStep(ctx context.Context, step domain.WorkflowStep) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO workflow_steps(id, workflow_id, name, status_id, position)
		VALUES (?, ?, ?, ?, ?)
	`, step.ID, step.WorkflowID, step.Name, step.StatusID, step.Position)
	return translateConstraint(err)
}

// CreateStepTransition creates step transition.
func (r *Repository) CreateStepTransition(ctx context.Context, workflowID string, t domain.StepTransition) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT OR IGNORE INTO workflow_transitions(workflow_id, from_step_id, to_step_id)
		VALUES (?, ?, ?)
	`, workflowID, t.FromStepID, t.ToStepID)
	return err
}

// CreateScheme creates scheme.
func (r *Repository) CreateScheme(ctx context.Context, scheme domain.WorkflowScheme) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO workflow_schemes(id, name)
		VALUES (?, ?)
	`, scheme.ID, scheme.Name)
	return translateConstraint(err)
}

// AssignScheme binds a project to a scheme, replacing any prior binding.
func (r *Repository) AssignScheme(ctx context.Context, projectID, schemeID string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO project_schemes(project_id, scheme_id)
		VALUES (?, ?)
		ON CONFLICT(project_id) DO UPDATE SET scheme_id = excluded.scheme_id
	`, projectID, schemeID)
	return err
}

// CreateMapping creates mapping.
func (r *Repository) CreateMapping(ctx context.Context, m domain.SchemeMapping) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO scheme_mappings(scheme_id, workflow_id, issue_type)
		VALUES (?, ?, ?)
	`, m.SchemeID, m.WorkflowID, m.IssueType)
	return translateConstraint(err)
}

// CreateBoard creates board.
func (r *Repository) CreateBoard(ctx context.Context, b domain.Board) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO boards(id, project_id, name, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
	`, b.ID, b.ProjectID, b.Name, ts(b.CreatedAt), ts(b.UpdatedAt))
	return translateConstraint(err)
}

// CreateIssue creates issue.
func (r *Repository) CreateIssue(ctx context.Context, i domain.Issue) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO issues(id, project_id, title, status_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, i.ID, i.ProjectID, i.Title, i.StatusID, ts(i.CreatedAt), ts(i.UpdatedAt))
	return translateConstraint(err)
}

// columnStatusIDs lists a column's mapped status ids in mapping order.
func (r *Repository) columnStatusIDs(ctx context.Context, columnID string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT status_id
		FROM board_column_statuses
		WHERE column_id = ?
		ORDER BY position ASC
	`, columnID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

// execerContext is the subset of sql.Tx used by insert helpers.
type execerContext interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// insertColumn inserts one column row plus its status mappings.
func insertColumn(ctx context.Context, tx execerContext, c domain.Column) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO board_columns(id, board_id, name, position, min_issues, max_issues, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, c.ID, c.BoardID, c.Name, c.Position, c.MinIssues, c.MaxIssues, ts(c.CreatedAt), ts(c.UpdatedAt))
	if err != nil {
		return translateConstraint(err)
	}
	return insertColumnStatuses(ctx, tx, c)
}

// insertColumnStatuses inserts the status mappings for one column. The
// UNIQUE(board_id, status_id) constraint turns concurrent duplicate
// mappings into app.ErrAlreadyExist.
func insertColumnStatuses(ctx context.Context, tx execerContext, c domain.Column) error {
	for pos, statusID := range c.StatusIDs {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO board_column_statuses(column_id, board_id, status_id, position)
			VALUES (?, ?, ?, ?)
		`, c.ID, c.BoardID, statusID, pos)
		if err != nil {
			return translateConstraint(err)
		}
	}
	return nil
}

// scanner abstracts sql.Row and sql.Rows for scan helpers.
type scanner interface {
	Scan(dest ...any) error
}

// scanStatus decodes one status row into a validated domain value.
func scanStatus(s scanner) (domain.Status, error) {
	var (
		status      domain.Status
		categoryRaw string
	)
	if err := s.Scan(&status.ID, &status.Name, &status.Color, &categoryRaw); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Status{}, app.ErrNotFound
		}
		return domain.Status{}, err
	}
	category, err := domain.ParseStatusCategory(categoryRaw)
	if err != nil {
		return domain.Status{}, fmt.Errorf("status %s: %w", status.ID, err)
	}
	status.Category = category
	return status, nil
}

// translateConstraint maps uniqueness violations onto app.ErrAlreadyExist.
func translateConstraint(err error) error {
	if err == nil {
		return nil
	}
	if strings.Contains(strings.ToLower(err.Error()), "unique constraint failed") {
		return fmt.Errorf("%w: %s", app.ErrAlreadyExist, err)
	}
	return err
}

// translateNoRows maps zero-row updates onto app.ErrNotFound.
func translateNoRows(res sql.Result) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return app.ErrNotFound
	}
	return nil
}

// ts handles ts.
func ts(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

// parseTS parses input into a normalized form.
func parseTS(v string) time.Time {
	parsed, err := time.Parse(time.RFC3339Nano, v)
	if err != nil {
		return time.Time{}
	}
	return parsed.UTC()
}

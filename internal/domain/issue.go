package domain

import (
	"strings"
	"time"
)

// Issue represents the slice of a work item this core reads: its identity
// and current status. Issues are owned by the issue subsystem; this core
// only proposes status changes through validated moves.
type Issue struct {
	ID        string
	ProjectID string
	Title     string
	StatusID  string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewIssue constructs a new value for this package.
func NewIssue(id, projectID, title, statusID string, now time.Time) (Issue, error) {
	id = strings.TrimSpace(id)
	projectID = strings.TrimSpace(projectID)
	title = strings.TrimSpace(title)
	statusID = strings.TrimSpace(statusID)
	if id == "" || projectID == "" {
		return Issue{}, ErrInvalidID
	}
	if title == "" {
		return Issue{}, ErrInvalidName
	}
	if statusID == "" {
		return Issue{}, ErrInvalidStatusID
	}
	return Issue{
		ID:        id,
		ProjectID: projectID,
		Title:     title,
		StatusID:  statusID,
		CreatedAt: now.UTC(),
		UpdatedAt: now.UTC(),
	}, nil
}

// SetStatus moves the issue to a new status.
func (i *Issue) SetStatus(statusID string, now time.Time) error {
	statusID = strings.TrimSpace(statusID)
	if statusID == "" {
		return ErrInvalidStatusID
	}
	i.StatusID = statusID
	i.UpdatedAt = now.UTC()
	return nil
}

package domain

import (
	"strings"
	"time"
)

// Column represents one named, ordered bucket of statuses on a board.
// MinIssues and MaxIssues are soft WIP bounds; zero means unset.
type Column struct {
	ID        string
	BoardID   string
	Name      string
	Position  int
	MinIssues int
	MaxIssues int
	StatusIDs []string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewColumn constructs a new value for this package.
func NewColumn(id, boardID, name string, position int, now time.Time) (Column, error) {
	id = strings.TrimSpace(id)
	boardID = strings.TrimSpace(boardID)
	name = strings.TrimSpace(name)
	if id == "" {
		return Column{}, ErrInvalidID
	}
	if boardID == "" {
		return Column{}, ErrInvalidID
	}
	if name == "" {
		return Column{}, ErrInvalidName
	}
	if position < 0 {
		return Column{}, ErrInvalidPosition
	}

	return Column{
		ID:        id,
		BoardID:   boardID,
		Name:      name,
		Position:  position,
		CreatedAt: now.UTC(),
		UpdatedAt: now.UTC(),
	}, nil
}

// Rename renames the requested operation.
func (c *Column) Rename(name string, now time.Time) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrInvalidName
	}
	c.Name = name
	c.UpdatedAt = now.UTC()
	return nil
}

// SetPosition handles set position.
func (c *Column) SetPosition(position int, now time.Time) error {
	if position < 0 {
		return ErrInvalidPosition
	}
	c.Position = position
	c.UpdatedAt = now.UTC()
	return nil
}

// SetWIPLimits sets the soft min/max issue bounds; zero clears a bound.
func (c *Column) SetWIPLimits(minIssues, maxIssues int, now time.Time) error {
	if minIssues < 0 || maxIssues < 0 {
		return ErrInvalidWIPLimit
	}
	if minIssues > 0 && maxIssues > 0 && minIssues > maxIssues {
		return ErrInvalidWIPLimit
	}
	c.MinIssues = minIssues
	c.MaxIssues = maxIssues
	c.UpdatedAt = now.UTC()
	return nil
}

// MapStatus appends a status mapping, ignoring duplicates.
func (c *Column) MapStatus(statusID string, now time.Time) error {
	statusID = strings.TrimSpace(statusID)
	if statusID == "" {
		return ErrInvalidStatusID
	}
	for _, id := range c.StatusIDs {
		if id == statusID {
			return nil
		}
	}
	c.StatusIDs = append(c.StatusIDs, statusID)
	c.UpdatedAt = now.UTC()
	return nil
}

// HasStatus reports whether the column maps the given status id.
func (c Column) HasStatus(statusID string) bool {
	for _, id := range c.StatusIDs {
		if id == statusID {
			return true
		}
	}
	return false
}

// FirstStatusID returns the first mapped status id, or empty when none.
func (c Column) FirstStatusID() string {
	if len(c.StatusIDs) == 0 {
		return ""
	}
	return c.StatusIDs[0]
}

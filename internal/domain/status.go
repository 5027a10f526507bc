package domain

import "strings"

// StatusCategory represents the broad lifecycle bucket a status belongs to.
type StatusCategory string

// Canonical status categories.
const (
	CategoryTodo       StatusCategory = "todo"
	CategoryInProgress StatusCategory = "in_progress"
	CategoryDone       StatusCategory = "done"
)

// Status represents one workflow status owned by the workflow subsystem.
type Status struct {
	ID       string
	Name     string
	Color    string
	Category StatusCategory
}

// NewStatus constructs a new value for this package.
func NewStatus(id, name, color string, category StatusCategory) (Status, error) {
	id = strings.TrimSpace(id)
	name = strings.TrimSpace(name)
	if id == "" {
		return Status{}, ErrInvalidID
	}
	if name == "" {
		return Status{}, ErrInvalidName
	}
	switch category {
	case CategoryTodo, CategoryInProgress, CategoryDone:
	default:
		return Status{}, ErrInvalidCategory
	}

	return Status{
		ID:       id,
		Name:     name,
		Color:    strings.TrimSpace(color),
		Category: category,
	}, nil
}

// ParseStatusCategory normalizes a raw category value.
func ParseStatusCategory(raw string) (StatusCategory, error) {
	switch StatusCategory(strings.TrimSpace(strings.ToLower(raw))) {
	case CategoryTodo:
		return CategoryTodo, nil
	case CategoryInProgress:
		return CategoryInProgress, nil
	case CategoryDone:
		return CategoryDone, nil
	default:
		return "", ErrInvalidCategory
	}
}

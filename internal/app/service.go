package app

import (
	"sync"
	"time"
)

// IDGenerator returns unique identifiers for new entities.
type IDGenerator func() string

// Clock returns the current time.
type Clock func() time.Time

// ServiceConfig holds configuration for service.
type ServiceConfig struct {
	PreserveWIPLimits bool
	RemoveOrphans     bool
}

// Service wires the board alignment core to its injected repositories.
type Service struct {
	workflows WorkflowRepository
	boards    BoardRepository
	issues    IssueRepository
	idGen     IDGenerator
	clock     Clock
	defaults  ServiceConfig

	// busy tracks boards with an in-flight regenerate or sync so a second
	// call for the same board fails fast instead of racing the first.
	mu   sync.Mutex
	busy map[string]struct{}
}

// NewService constructs a new value for this package.
func NewService(workflows WorkflowRepository, boards BoardRepository, issues IssueRepository, idGen IDGenerator, clock Clock, cfg ServiceConfig) *Service {
	if idGen == nil {
		idGen = func() string { return "" }
	}
	if clock == nil {
		clock = time.Now
	}
	return &Service{
		workflows: workflows,
		boards:    boards,
		issues:    issues,
		idGen:     idGen,
		clock:     clock,
		defaults:  cfg,
		busy:      map[string]struct{}{},
	}
}

// acquireBoard marks a board busy for the duration of a partition mutation.
func (s *Service) acquireBoard(boardID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.busy[boardID]; ok {
		return ErrBoardBusy
	}
	s.busy[boardID] = struct{}{}
	return nil
}

// releaseBoard clears the busy flag for a board.
func (s *Service) releaseBoard(boardID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.busy, boardID)
}

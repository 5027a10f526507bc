package domain

// Transition represents one directed legal status-to-status edge.
type Transition struct {
	FromStatusID string
	ToStatusID   string
}

// WorkflowGraph is the normalized view of a workflow: its statuses in
// first-seen layout order plus the set of legal transitions between them.
// It is derived fresh on each load and never persisted.
type WorkflowGraph struct {
	Statuses    []Status
	Transitions []Transition
}

// HasStatus reports whether the graph declares the given status id.
func (g WorkflowGraph) HasStatus(statusID string) bool {
	for _, s := range g.Statuses {
		if s.ID == statusID {
			return true
		}
	}
	return false
}

// StatusByID returns the declared status for an id, if present.
func (g WorkflowGraph) StatusByID(statusID string) (Status, bool) {
	for _, s := range g.Statuses {
		if s.ID == statusID {
			return s, true
		}
	}
	return Status{}, false
}

// HasTransition reports whether a direct edge exists between two statuses.
func (g WorkflowGraph) HasTransition(fromStatusID, toStatusID string) bool {
	for _, t := range g.Transitions {
		if t.FromStatusID == fromStatusID && t.ToStatusID == toStatusID {
			return true
		}
	}
	return false
}

// StatusIDSet returns the graph's status ids as a lookup set.
func (g WorkflowGraph) StatusIDSet() map[string]struct{} {
	out := make(map[string]struct{}, len(g.Statuses))
	for _, s := range g.Statuses {
		out[s.ID] = struct{}{}
	}
	return out
}

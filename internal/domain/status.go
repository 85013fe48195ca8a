package domain

// Status represents the lifecycle state of a task or subtask.
type Status string

const (
	StatusPending    Status = "pending"     // Created, awaiting work
	StatusInProgress Status = "in-progress" // Actively being worked on
	StatusReview     Status = "review"      // Work complete, awaiting review
	StatusDone       Status = "done"        // Finished
	StatusBlocked    Status = "blocked"     // Waiting on something external
	StatusCancelled  Status = "cancelled"   // Abandoned
	StatusDeferred   Status = "deferred"    // Postponed
)

// AllStatuses returns all valid status values in display order.
func AllStatuses() []Status {
	return []Status{
		StatusPending,
		StatusInProgress,
		StatusReview,
		StatusDone,
		StatusBlocked,
		StatusCancelled,
		StatusDeferred,
	}
}

// IsValid returns true if the status is a known value.
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusReview, StatusDone, StatusBlocked, StatusCancelled, StatusDeferred:
		return true
	default:
		return false
	}
}

// Normalize returns the status itself when valid, StatusPending otherwise.
// Task files written by older tool versions may carry status strings this
// version does not know about.
func (s Status) Normalize() Status {
	if s.IsValid() {
		return s
	}
	return StatusPending
}

// IsTerminal returns true if no further work is expected.
func (s Status) IsTerminal() bool {
	return s == StatusDone || s == StatusCancelled
}

// Display returns a human-readable representation of the status.
func (s Status) Display() string {
	switch s {
	case StatusPending:
		return "Pending"
	case StatusInProgress:
		return "In Progress"
	case StatusReview:
		return "Review"
	case StatusDone:
		return "Done"
	case StatusBlocked:
		return "Blocked"
	case StatusCancelled:
		return "Cancelled"
	case StatusDeferred:
		return "Deferred"
	default:
		return string(s)
	}
}

// Priority represents the urgency of a task.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// IsValid returns true if the priority is a known value.
func (p Priority) IsValid() bool {
	return p == PriorityLow || p == PriorityMedium || p == PriorityHigh
}

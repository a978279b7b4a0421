package board

// Phase is the state of a drag session.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseDragging
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseDragging:
		return "dragging"
	default:
		return "unknown"
	}
}

// Session is the ephemeral state between drag-start and drag-end.
// It is never persisted.
type Session struct {
	active *Task
}

// Phase reports whether a task is currently being dragged.
func (s Session) Phase() Phase {
	if s.active == nil {
		return PhaseIdle
	}
	return PhaseDragging
}

// Active returns the task being dragged.
func (s Session) Active() (Task, bool) {
	if s.active == nil {
		return Task{}, false
	}
	return *s.active, true
}

// DropResult describes what a drag-end did.
type DropResult int

const (
	// DropIgnored: drag-end arrived with no session in progress.
	DropIgnored DropResult = iota
	// DropNoTarget: released outside any drop target.
	DropNoTarget
	// DropPending: a previous reorder is still being persisted.
	DropPending
	// DropInvalid: the target could not be resolved against the board.
	DropInvalid
	// DropReordered: the column was reindexed and persistence dispatched.
	DropReordered
)

func (r DropResult) String() string {
	switch r {
	case DropIgnored:
		return "ignored"
	case DropNoTarget:
		return "no_target"
	case DropPending:
		return "pending"
	case DropInvalid:
		return "invalid"
	case DropReordered:
		return "reordered"
	default:
		return "unknown"
	}
}

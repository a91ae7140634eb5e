package upload

// EventKind classifies task notifications.
type EventKind int

const (
	EventQueued EventKind = iota
	EventStarted
	EventProgress
	EventPaused
	EventCompleted
	EventCancelled
	EventFailed
	EventWarning
)

func (k EventKind) String() string {
	switch k {
	case EventQueued:
		return "queued"
	case EventStarted:
		return "started"
	case EventProgress:
		return "progress"
	case EventPaused:
		return "paused"
	case EventCompleted:
		return "completed"
	case EventCancelled:
		return "cancelled"
	case EventFailed:
		return "failed"
	case EventWarning:
		return "warning"
	default:
		return "unknown"
	}
}

// Event is delivered to the listener on every observable task change.
// Err is set for EventFailed and EventWarning.
type Event struct {
	Kind EventKind
	Task TaskView
	Err  error
}

// Listener receives events synchronously from the goroutine that caused
// them and must not block.
type Listener func(Event)

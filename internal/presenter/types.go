package presenter

import (
	"context"

	"github.com/desertthunder/otpx/internal/models"
)

// Signal is an operator command.
type Signal int

const (
	Advance Signal = iota + 1 // Advance requests the next entry
	Cancel                    // Cancel requests an immediate exit
	Quit                      // Quit is an external shutdown request, handled like Cancel
)

func (s Signal) String() string {
	switch s {
	case Advance:
		return "advance"
	case Cancel:
		return "cancel"
	case Quit:
		return "quit"
	default:
		return "unknown"
	}
}

// Phase enumerates controller states.
type Phase int

const (
	Idle Phase = iota
	AwaitingStart
	ShowingEntry
	Complete
	Terminated
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case AwaitingStart:
		return "awaiting_start"
	case ShowingEntry:
		return "showing_entry"
	case Complete:
		return "complete"
	case Terminated:
		return "terminated"
	default:
		return "unknown"
	}
}

// State is the controller's current position. Index and Entry are only meaningful in [ShowingEntry].
type State struct {
	Phase Phase
	Index int
	Entry models.Entry
}

// Frame is one screen handed to a [Renderer]. An empty URI means a placeholder screen with captions only.
type Frame struct {
	URI     string
	Caption []string
}

// Placeholder reports whether the frame carries no code.
func (f Frame) Placeholder() bool {
	return f.URI == ""
}

// Renderer makes a [Frame] visible.
type Renderer interface {
	Render(frame Frame) error
}

// InputSource blocks until the operator issues a signal.
type InputSource interface {
	WaitForSignal(ctx context.Context) (Signal, error)
}

// Source supplies entries in presentation order, such as a sequence.Sequence.
type Source interface {
	Next() (entry models.Entry, ok bool, err error)
}

// EventKind enumerates lifecycle notifications.
type EventKind int

const (
	EventStarted EventKind = iota
	EventShown
	EventCompleted
	EventCancelled
	EventFailed
)

func (k EventKind) String() string {
	switch k {
	case EventStarted:
		return "started"
	case EventShown:
		return "shown"
	case EventCompleted:
		return "completed"
	case EventCancelled:
		return "cancelled"
	case EventFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Event describes a controller transition. It never carries the enrollment URI.
type Event struct {
	Kind   EventKind
	Index  int    // Display index for [EventShown]
	Name   string // Account name for [EventShown]
	Issuer string // Account issuer for [EventShown]
	Shown  int    // Entries shown so far
	Err    error  // Cause for [EventFailed]
}

// Observer receives controller events synchronously.
type Observer interface {
	Observe(event Event)
}

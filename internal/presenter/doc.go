// Package presenter drives an account sequence against operator signals, one entry at a time.
//
// # State Machine
//
// The [Controller] owns a [State] that moves through
//
//	Idle → AwaitingStart → ShowingEntry(0) → ShowingEntry(1) → … → Complete → Terminated
//
// Construction renders the instructional screen and enters AwaitingStart. Each [Advance]
// pulls exactly one entry from the [Source] and renders it; when the source is exhausted the
// completion notice is rendered and the controller terminates. [Cancel] and [Quit] terminate
// from any state without rendering. Signals received after termination are ignored.
//
// Every transition performs exactly one [Renderer.Render] call, except cancellation which
// performs none. The controller never pulls ahead of what is on screen.
//
// # Collaborators
//
//   - [Source] : the account sequence (see package sequence)
//   - [Renderer] : a presentation surface receiving a [Frame] per transition
//   - [InputSource] : a blocking supplier of operator signals, used by [Controller.Run]
//   - [Observer] : optional listeners for lifecycle [Event]s, e.g. [JournalObserver]
//
// Event-loop driven surfaces such as the bubbletea UI call [Controller.Handle] directly instead
// of implementing [InputSource].
//
// The controller is single-operator and not safe for concurrent use.
package presenter

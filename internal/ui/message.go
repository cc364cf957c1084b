package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/otpx/internal/presenter"
)

// MsgKind enumerates all message types in the application.
type MsgKind int

// Msg represents all possible messages in the TUI (Elm-style message union).
type Msg struct {
	kind MsgKind
	data any
}

var (
	_ tea.Msg = Msg{}
)

const (
	MsgSignal MsgKind = iota
)

// signalMsg is the constructor for [MsgSignal], a signal raised outside the key handler
func signalMsg(sig presenter.Signal) Msg {
	return Msg{kind: MsgSignal, data: sig}
}

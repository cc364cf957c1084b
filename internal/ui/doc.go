// Package ui implements the two terminal surfaces for a presentation session.
//
// The full-screen surface is a bubbletea [Model] following the Elm-style Init/Update/View pattern.
// It implements [presenter.Renderer] itself: the wrapped [presenter.Controller] renders into the
// model during Update, and View draws the captured frame. Key presses map to presenter signals:
//   - space, enter, n : advance
//   - esc, q : cancel
//   - ctrl+c : quit
//
// The plain surface pairs a [PlainRenderer], which prints each code and its captions to a
// writer, with a [LineInput] reading one command per line from the controlling terminal.
//
// Both surfaces draw codes as half-block text produced by skip2/go-qrcode.
package ui

package shared

import "fmt"

var (
	// Input errors
	ErrEmptyInput      = fmt.Errorf("no input")
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrInvalidArgument = fmt.Errorf("invalid argument")

	// Configuration errors
	ErrInvalidConfig = fmt.Errorf("invalid configuration")

	// Presentation errors
	ErrNoTerminal      = fmt.Errorf("no terminal available for operator input")
	ErrJournalDisabled = fmt.Errorf("journal disabled")
	ErrSessionNotFound = fmt.Errorf("session not found")
)

package ui

import (
	"fmt"
	"strings"

	"github.com/desertthunder/otpx/internal/shared"
	"github.com/skip2/go-qrcode"
)

// RecoveryLevel maps a config name to its QR error correction level.
func RecoveryLevel(name string) (qrcode.RecoveryLevel, error) {
	switch strings.ToLower(name) {
	case "low":
		return qrcode.Low, nil
	case "", "medium":
		return qrcode.Medium, nil
	case "high":
		return qrcode.High, nil
	case "highest":
		return qrcode.Highest, nil
	default:
		return qrcode.Medium, fmt.Errorf("%w: unknown recovery level %q", shared.ErrInvalidConfig, name)
	}
}

// Matrix renders content as a QR code drawn with half-block characters, two modules per line.
func Matrix(content string, level qrcode.RecoveryLevel) (string, error) {
	code, err := qrcode.New(content, level)
	if err != nil {
		return "", fmt.Errorf("failed to encode QR code: %w", err)
	}
	return code.ToSmallString(false), nil
}

// matrixWidth returns the widest line of a rendered matrix in terminal cells.
func matrixWidth(matrix string) int {
	width := 0
	for line := range strings.SplitSeq(matrix, "\n") {
		width = max(width, len([]rune(line)))
	}
	return width
}

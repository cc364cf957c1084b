// package formatter renders decoded accounts, round-trip checks and journal history as tables, plain text or JSON.
//
// No writer in this package ever receives secret material: reports are built from account
// metadata only.
package formatter

import (
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"

	"github.com/desertthunder/otpx/internal/models"
	"github.com/desertthunder/otpx/internal/shared"
)

// Format selects an output representation.
type Format string

const (
	FormatTable Format = "table"
	FormatPlain Format = "plain"
	FormatJSON  Format = "json"
)

// ParseFormat validates a --format flag value.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case "", FormatTable:
		return FormatTable, nil
	case FormatPlain, FormatJSON:
		return f, nil
	default:
		return "", fmt.Errorf("%w: unknown format %q (want table, plain or json)", shared.ErrInvalidArgument, s)
	}
}

// AccountRow is the printable metadata of one decoded account.
type AccountRow struct {
	Line      int    `json:"line"`
	Index     int    `json:"index"`
	Name      string `json:"name"`
	Issuer    string `json:"issuer"`
	Type      string `json:"type"`
	Algorithm string `json:"algorithm"`
	Digits    string `json:"digits"`
}

type batchKey struct {
	id   int
	size int
}

// Report collects account metadata from decoded export lines.
type Report struct {
	Accounts []AccountRow `json:"accounts"`
	Dropped  []string     `json:"dropped,omitempty"`
	batches  map[batchKey][]int
	order    []batchKey
}

// NewReport creates an empty [Report].
func NewReport() *Report {
	return &Report{batches: map[batchKey][]int{}}
}

// Add records the accounts of payload decoded from the given 1-based line.
func (r *Report) Add(line int, payload *models.Payload) {
	for i, a := range payload.Accounts {
		r.Accounts = append(r.Accounts, AccountRow{
			Line:      line,
			Index:     i,
			Name:      a.Name,
			Issuer:    a.Issuer,
			Type:      a.Type.String(),
			Algorithm: a.Algorithm.String(),
			Digits:    a.Digits.String(),
		})
	}

	for _, err := range payload.Dropped {
		r.Dropped = append(r.Dropped, fmt.Sprintf("line %d: %v", line, err))
	}

	if payload.BatchSize > 1 {
		key := batchKey{id: payload.BatchID, size: payload.BatchSize}
		if _, ok := r.batches[key]; !ok {
			r.order = append(r.order, key)
		}
		r.batches[key] = append(r.batches[key], payload.BatchIndex)
	}
}

// Warnings reports incomplete or repeated parts of multi-code exports.
func (r *Report) Warnings() []string {
	var warnings []string
	for _, key := range r.order {
		seen := r.batches[key]

		var missing []string
		for i := range key.size {
			if !slices.Contains(seen, i) {
				missing = append(missing, fmt.Sprintf("%d", i+1))
			}
		}
		if len(missing) > 0 {
			warnings = append(warnings, fmt.Sprintf("batch %d: missing part %s of %d", key.id, strings.Join(missing, ", "), key.size))
		}

		counts := map[int]int{}
		for _, i := range seen {
			counts[i]++
		}
		for _, i := range slices.Sorted(maps.Keys(counts)) {
			if counts[i] > 1 {
				warnings = append(warnings, fmt.Sprintf("batch %d: part %d of %d given %d times", key.id, i+1, key.size, counts[i]))
			}
		}
	}
	return warnings
}

// WriteAccounts writes the report in the given format. Warnings go to the table and plain
// outputs as trailing lines and to JSON as a "warnings" field.
func WriteAccounts(w io.Writer, r *Report, format Format) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, struct {
			*Report
			Warnings []string `json:"warnings,omitempty"`
		}{r, r.Warnings()})

	case FormatPlain:
		for _, a := range r.Accounts {
			if _, err := fmt.Fprintf(w, "%s\t%s\t%s\n", a.Name, a.Issuer, a.Type); err != nil {
				return fmt.Errorf("failed to write account: %w", err)
			}
		}

	default:
		if err := writeAccountsTable(w, r.Accounts); err != nil {
			return err
		}
	}

	return writeNotes(w, "warning", append(r.Dropped, r.Warnings()...))
}

// CheckResult is the round-trip verdict for one account.
type CheckResult struct {
	Line   int    `json:"line"`
	Name   string `json:"name"`
	Issuer string `json:"issuer"`
	Err    error  `json:"-"`
}

// OK reports whether the account survived the round trip.
func (c CheckResult) OK() bool {
	return c.Err == nil
}

// WriteCheck writes one OK or FAIL line per account followed by a summary.
func WriteCheck(w io.Writer, results []CheckResult, format Format) error {
	if format == FormatJSON {
		type row struct {
			CheckResult
			OK    bool   `json:"ok"`
			Error string `json:"error,omitempty"`
		}
		rows := make([]row, len(results))
		for i, res := range results {
			rows[i] = row{CheckResult: res, OK: res.OK()}
			if res.Err != nil {
				rows[i].Error = res.Err.Error()
			}
		}
		return writeJSON(w, rows)
	}

	failed := 0
	for _, res := range results {
		status := "OK"
		detail := ""
		if !res.OK() {
			status = "FAIL"
			detail = ": " + res.Err.Error()
			failed++
		}
		if _, err := fmt.Fprintf(w, "%-4s %s%s\n", status, res.Name, detail); err != nil {
			return fmt.Errorf("failed to write check result: %w", err)
		}
	}

	if _, err := fmt.Fprintf(w, "%d accounts checked, %d failed\n", len(results), failed); err != nil {
		return fmt.Errorf("failed to write check summary: %w", err)
	}
	return nil
}

func writeNotes(w io.Writer, label string, notes []string) error {
	for _, note := range notes {
		if _, err := fmt.Fprintf(w, "%s: %s\n", label, note); err != nil {
			return fmt.Errorf("failed to write %s: %w", label, err)
		}
	}
	return nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

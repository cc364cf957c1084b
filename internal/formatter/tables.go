package formatter

import (
	"fmt"
	"io"
	"time"

	"github.com/desertthunder/otpx/internal/models"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

func newTable(w io.Writer) table.Writer {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetStyle(table.StyleRounded)
	tw.Style().Options.SeparateHeader = true
	tw.Style().Options.DrawBorder = true
	tw.Style().Format.Footer = text.FormatDefault
	return tw
}

func writeAccountsTable(w io.Writer, accounts []AccountRow) error {
	tw := newTable(w)
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignRight, AlignHeader: text.AlignCenter},
		{Number: 2, Align: text.AlignRight, AlignHeader: text.AlignCenter},
		{Number: 3, Align: text.AlignLeft, AlignHeader: text.AlignCenter, WidthMax: 48},
		{Number: 4, Align: text.AlignLeft, AlignHeader: text.AlignCenter, WidthMax: 32},
		{Number: 5, Align: text.AlignCenter, AlignHeader: text.AlignCenter},
		{Number: 6, Align: text.AlignCenter, AlignHeader: text.AlignCenter},
		{Number: 7, Align: text.AlignCenter, AlignHeader: text.AlignCenter},
	})
	tw.AppendHeader(table.Row{"Line", "#", "Name", "Issuer", "Type", "Algorithm", "Digits"})

	for _, a := range accounts {
		tw.AppendRow(table.Row{a.Line, a.Index + 1, a.Name, a.Issuer, a.Type, a.Algorithm, a.Digits})
	}
	if len(accounts) == 0 {
		tw.AppendRow(table.Row{"-", "-", "(no accounts)", "-", "-", "-", "-"})
	}
	tw.AppendFooter(table.Row{"", "", fmt.Sprintf("%d accounts", len(accounts))})

	_ = tw.Render()
	return nil
}

// WriteSessions writes journal sessions, most recent first.
func WriteSessions(w io.Writer, sessions []models.Session, format Format) error {
	switch format {
	case FormatJSON:
		type row struct {
			ID         string     `json:"id"`
			Sequence   int        `json:"sequence"`
			StartedAt  time.Time  `json:"started_at"`
			FinishedAt *time.Time `json:"finished_at,omitempty"`
			Outcome    string     `json:"outcome"`
			Shown      int        `json:"shown"`
		}
		rows := make([]row, len(sessions))
		for i, s := range sessions {
			rows[i] = row{s.ID, s.Sequence, s.StartedAt, s.FinishedAt, string(s.Outcome), s.Shown}
		}
		return writeJSON(w, rows)

	case FormatPlain:
		for _, s := range sessions {
			if _, err := fmt.Fprintf(w, "#%d\t%s\t%s\t%d\n", s.Sequence, s.StartedAt.Local().Format(time.RFC3339), s.Outcome, s.Shown); err != nil {
				return fmt.Errorf("failed to write session: %w", err)
			}
		}
		return nil
	}

	tw := newTable(w)
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignRight, AlignHeader: text.AlignCenter},
		{Number: 2, Align: text.AlignLeft, AlignHeader: text.AlignCenter},
		{Number: 3, Align: text.AlignCenter, AlignHeader: text.AlignCenter},
		{Number: 4, Align: text.AlignCenter, AlignHeader: text.AlignCenter},
		{Number: 5, Align: text.AlignRight, AlignHeader: text.AlignCenter},
	})
	tw.AppendHeader(table.Row{"#", "Started", "Duration", "Outcome", "Shown"})

	for _, s := range sessions {
		tw.AppendRow(table.Row{s.Sequence, s.StartedAt.Local().Format(time.RFC3339), formatDuration(s), s.Outcome, s.Shown})
	}
	if len(sessions) == 0 {
		tw.AppendRow(table.Row{"-", "(no sessions)", "-", "-", 0})
	}

	_ = tw.Render()
	return nil
}

// WritePresentations writes the accounts shown during one session in display order.
func WritePresentations(w io.Writer, session *models.Session, presentations []models.Presentation, format Format) error {
	switch format {
	case FormatJSON:
		type row struct {
			Position int       `json:"position"`
			Name     string    `json:"name"`
			Issuer   string    `json:"issuer"`
			ShownAt  time.Time `json:"shown_at"`
		}
		rows := make([]row, len(presentations))
		for i, p := range presentations {
			rows[i] = row{p.Position, p.Name, p.Issuer, p.ShownAt}
		}
		return writeJSON(w, struct {
			Session  string `json:"session"`
			Sequence int    `json:"sequence"`
			Outcome  string `json:"outcome"`
			Accounts []row  `json:"accounts"`
		}{session.ID, session.Sequence, string(session.Outcome), rows})

	case FormatPlain:
		for _, p := range presentations {
			if _, err := fmt.Fprintf(w, "%d\t%s\t%s\n", p.Position+1, p.Name, p.Issuer); err != nil {
				return fmt.Errorf("failed to write presentation: %w", err)
			}
		}
		return nil
	}

	tw := newTable(w)
	tw.SetTitle(fmt.Sprintf("Session #%d (%s)", session.Sequence, session.Outcome))
	tw.AppendHeader(table.Row{"#", "Name", "Issuer", "Shown"})

	for _, p := range presentations {
		tw.AppendRow(table.Row{p.Position + 1, p.Name, p.Issuer, p.ShownAt.Local().Format(time.TimeOnly)})
	}
	if len(presentations) == 0 {
		tw.AppendRow(table.Row{"-", "(nothing shown)", "-", "-"})
	}

	_ = tw.Render()
	return nil
}

func formatDuration(s models.Session) string {
	if s.FinishedAt == nil {
		return "-"
	}
	seconds := int(s.FinishedAt.Sub(s.StartedAt).Seconds())
	if seconds <= 0 {
		return "00:00:00"
	}
	h := seconds / 3600
	m := (seconds % 3600) / 60
	sec := seconds % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, sec)
}

package formatter

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/desertthunder/otpx/internal/models"
	"github.com/desertthunder/otpx/internal/shared"
	th "github.com/desertthunder/otpx/internal/testing"
)

func samplePayload() *models.Payload {
	return &models.Payload{
		Accounts: []models.Account{
			th.Account("alice@example.com", "Acme", "alice-secret"),
			{Name: "bob", Issuer: "Globex", Secret: []byte("bob-secret"), Type: models.TypeHOTP, Algorithm: models.AlgorithmSHA256, Digits: models.DigitsEight},
		},
		Dropped:   []error{errors.New("missing secret (record 2): account \"ghost\"")},
		Version:   1,
		BatchSize: 1,
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{in: "", want: FormatTable},
		{in: "table", want: FormatTable},
		{in: "JSON", want: FormatJSON},
		{in: "plain", want: FormatPlain},
		{in: "csv", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if tt.wantErr {
				if !errors.Is(err, shared.ErrInvalidArgument) {
					t.Errorf("expected ErrInvalidArgument, got %v", err)
				}
				return
			}
			if err != nil || got != tt.want {
				t.Errorf("expected %v, got %v (err %v)", tt.want, got, err)
			}
		})
	}
}

func TestReport(t *testing.T) {
	t.Run("collects metadata in order", func(t *testing.T) {
		r := NewReport()
		r.Add(1, samplePayload())
		r.Add(2, &models.Payload{Accounts: []models.Account{th.Account("carol", "", "x")}})

		if len(r.Accounts) != 3 {
			t.Fatalf("expected 3 accounts, got %d", len(r.Accounts))
		}
		if a := r.Accounts[1]; a.Line != 1 || a.Index != 1 || a.Type != "hotp" || a.Algorithm != "SHA256" || a.Digits != "8" {
			t.Errorf("unexpected row: %+v", a)
		}
		if r.Accounts[2].Line != 2 || r.Accounts[2].Index != 0 {
			t.Errorf("unexpected row: %+v", r.Accounts[2])
		}
		if len(r.Dropped) != 1 || !strings.HasPrefix(r.Dropped[0], "line 1: ") {
			t.Errorf("unexpected dropped: %v", r.Dropped)
		}
	})

	t.Run("batch completeness", func(t *testing.T) {
		tests := []struct {
			name  string
			parts []int
			size  int
			want  []string
		}{
			{name: "complete", parts: []int{0, 1, 2}, size: 3},
			{name: "missing part", parts: []int{0, 2}, size: 3, want: []string{"batch 7: missing part 2 of 3"}},
			{name: "missing several", parts: []int{1}, size: 3, want: []string{"batch 7: missing part 1, 3 of 3"}},
			{name: "repeated part", parts: []int{0, 1, 1}, size: 2, want: []string{"batch 7: part 2 of 2 given 2 times"}},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				r := NewReport()
				for i, part := range tt.parts {
					r.Add(i+1, &models.Payload{BatchID: 7, BatchSize: tt.size, BatchIndex: part})
				}

				got := r.Warnings()
				if strings.Join(got, "|") != strings.Join(tt.want, "|") {
					t.Errorf("expected %q, got %q", tt.want, got)
				}
			})
		}
	})

	t.Run("single code exports are never incomplete", func(t *testing.T) {
		r := NewReport()
		r.Add(1, &models.Payload{BatchSize: 1})
		if w := r.Warnings(); len(w) != 0 {
			t.Errorf("expected no warnings, got %v", w)
		}
	})
}

func TestWriteAccounts(t *testing.T) {
	r := NewReport()
	r.Add(1, samplePayload())

	t.Run("table", func(t *testing.T) {
		var buf bytes.Buffer
		if err := WriteAccounts(&buf, r, FormatTable); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		out := buf.String()
		for _, want := range []string{"alice@example.com", "Globex", "SHA256", "2 accounts", "warning: line 1: missing secret"} {
			if !strings.Contains(out, want) {
				t.Errorf("expected %q in output:\n%s", want, out)
			}
		}
	})

	t.Run("empty table", func(t *testing.T) {
		var buf bytes.Buffer
		if err := WriteAccounts(&buf, NewReport(), FormatTable); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(buf.String(), "(no accounts)") {
			t.Errorf("expected placeholder row, got:\n%s", buf.String())
		}
	})

	t.Run("plain", func(t *testing.T) {
		var buf bytes.Buffer
		if err := WriteAccounts(&buf, r, FormatPlain); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
		if len(lines) != 3 || lines[0] != "alice@example.com\tAcme\ttotp" {
			t.Errorf("unexpected plain output: %q", lines)
		}
	})

	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		if err := WriteAccounts(&buf, r, FormatJSON); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		var decoded struct {
			Accounts []AccountRow `json:"accounts"`
			Dropped  []string     `json:"dropped"`
		}
		if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}
		if len(decoded.Accounts) != 2 || decoded.Accounts[1].Name != "bob" {
			t.Errorf("unexpected accounts: %+v", decoded.Accounts)
		}
		if len(decoded.Dropped) != 1 {
			t.Errorf("expected 1 dropped, got %v", decoded.Dropped)
		}
	})

	t.Run("never prints secrets", func(t *testing.T) {
		for _, format := range []Format{FormatTable, FormatPlain, FormatJSON} {
			var buf bytes.Buffer
			if err := WriteAccounts(&buf, r, format); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if strings.Contains(buf.String(), "alice-secret") || strings.Contains(buf.String(), "bob-secret") {
				t.Errorf("%s output contains secret material", format)
			}
		}
	})

	t.Run("write failure", func(t *testing.T) {
		if err := WriteAccounts(&th.FWriter{}, r, FormatPlain); err == nil {
			t.Error("expected error")
		}
		if err := WriteAccounts(&th.FWriter{}, r, FormatJSON); err == nil {
			t.Error("expected error")
		}
	})
}

func TestWriteCheck(t *testing.T) {
	results := []CheckResult{
		{Line: 1, Name: "alice"},
		{Line: 1, Name: "bob", Err: errors.New("secret mismatch")},
	}

	t.Run("plain", func(t *testing.T) {
		var buf bytes.Buffer
		if err := WriteCheck(&buf, results, FormatTable); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		want := "OK   alice\nFAIL bob: secret mismatch\n2 accounts checked, 1 failed\n"
		if buf.String() != want {
			t.Errorf("expected %q, got %q", want, buf.String())
		}
	})

	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		if err := WriteCheck(&buf, results, FormatJSON); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		var rows []map[string]any
		if err := json.Unmarshal(buf.Bytes(), &rows); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}
		if rows[0]["ok"] != true || rows[1]["ok"] != false || rows[1]["error"] != "secret mismatch" {
			t.Errorf("unexpected rows: %v", rows)
		}
	})

	t.Run("write failure after some output", func(t *testing.T) {
		var buf bytes.Buffer
		w := th.NewLimitedWriter(1, 0, &buf)
		if err := WriteCheck(&w, results, FormatPlain); err == nil {
			t.Error("expected error")
		}
		if !strings.HasPrefix(buf.String(), "OK") {
			t.Errorf("expected first line to be written, got %q", buf.String())
		}
	})
}

func TestWriteHistory(t *testing.T) {
	started := time.Date(2026, 10, 14, 9, 0, 0, 0, time.UTC)
	finished := started.Add(90 * time.Second)
	sessions := []models.Session{
		{ID: "b", Sequence: 2, StartedAt: started.Add(time.Hour), Outcome: models.OutcomeRunning},
		{ID: "a", Sequence: 1, StartedAt: started, FinishedAt: &finished, Outcome: models.OutcomeCompleted, Shown: 3},
	}

	t.Run("sessions table", func(t *testing.T) {
		var buf bytes.Buffer
		if err := WriteSessions(&buf, sessions, FormatTable); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		out := buf.String()
		if !strings.Contains(out, "00:01:30") || !strings.Contains(out, "completed") || !strings.Contains(out, "running") {
			t.Errorf("unexpected output:\n%s", out)
		}
	})

	t.Run("no sessions", func(t *testing.T) {
		var buf bytes.Buffer
		_ = WriteSessions(&buf, nil, FormatTable)
		if !strings.Contains(buf.String(), "(no sessions)") {
			t.Errorf("expected placeholder, got:\n%s", buf.String())
		}
	})

	t.Run("sessions json", func(t *testing.T) {
		var buf bytes.Buffer
		if err := WriteSessions(&buf, sessions, FormatJSON); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		var rows []map[string]any
		if err := json.Unmarshal(buf.Bytes(), &rows); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}
		if _, ok := rows[0]["finished_at"]; ok {
			t.Error("expected running session to omit finished_at")
		}
		if rows[1]["outcome"] != "completed" {
			t.Errorf("unexpected row: %v", rows[1])
		}
	})

	t.Run("presentations", func(t *testing.T) {
		presentations := []models.Presentation{
			{SessionID: "a", Position: 0, Name: "Alice", Issuer: "Acme", ShownAt: started},
			{SessionID: "a", Position: 1, Name: "Bob", Issuer: "Acme", ShownAt: started.Add(time.Minute)},
		}

		var buf bytes.Buffer
		if err := WritePresentations(&buf, &sessions[1], presentations, FormatTable); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		out := buf.String()
		if !strings.Contains(strings.ToLower(out), "session #1 (completed)") || strings.Index(out, "Alice") > strings.Index(out, "Bob") {
			t.Errorf("unexpected output:\n%s", out)
		}

		buf.Reset()
		if err := WritePresentations(&buf, &sessions[1], presentations, FormatPlain); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if buf.String() != "1\tAlice\tAcme\n2\tBob\tAcme\n" {
			t.Errorf("unexpected plain output %q", buf.String())
		}
	})
}

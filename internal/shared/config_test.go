package shared

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestConfig(t *testing.T) {
	t.Run("DefaultConfig", func(t *testing.T) {
		config := DefaultConfig()

		if config.Presenter.Mode != ModeTUI {
			t.Errorf("expected presenter mode tui, got %s", config.Presenter.Mode)
		}

		if config.Presenter.StartHint != "Press SPACE to start" {
			t.Errorf("unexpected start hint %q", config.Presenter.StartHint)
		}

		if config.QR.Recovery != "medium" {
			t.Errorf("expected qr recovery medium, got %s", config.QR.Recovery)
		}

		if config.Journal.Enabled {
			t.Error("journal should be disabled by default")
		}

		if config.URI.Enrich || config.URI.OmitPadding {
			t.Error("uri options should be off by default")
		}

		if err := config.Validate(); err != nil {
			t.Errorf("default config should validate: %v", err)
		}
	})

	t.Run("CreateConfigFile", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "config.toml")

		if err := CreateConfigFile(configPath); err != nil {
			t.Fatalf("failed to create config file: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load created config: %v", err)
		}

		if config.Journal.Path != DefaultConfig().Journal.Path {
			t.Errorf("created config journal path doesn't match default")
		}

		if err := CreateConfigFile(configPath); err == nil {
			t.Error("creating config file again should fail")
		}
	})

	t.Run("LoadConfig", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "config.toml")

		testConfig := `[presenter]
mode = "plain"
continue_hint = "Enter for next"

[uri]
enrich = true

[journal]
enabled = true
path = "/tmp/journal.db"
`
		if err := os.WriteFile(configPath, []byte(testConfig), 0o644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load config: %v", err)
		}

		if config.Presenter.Mode != ModePlain {
			t.Errorf("expected plain mode, got %s", config.Presenter.Mode)
		}
		if config.Presenter.ContinueHint != "Enter for next" {
			t.Errorf("expected overridden hint, got %q", config.Presenter.ContinueHint)
		}
		if config.Presenter.StartHint != "Press SPACE to start" {
			t.Errorf("missing keys should keep defaults, got %q", config.Presenter.StartHint)
		}
		if !config.URI.Enrich {
			t.Error("expected enrich to be set")
		}
		if !config.Journal.Enabled || config.Journal.Path != "/tmp/journal.db" {
			t.Errorf("unexpected journal config %+v", config.Journal)
		}
	})

	t.Run("LoadConfig rejects invalid values", func(t *testing.T) {
		tc := []struct {
			name string
			body string
		}{
			{name: "unknown mode", body: "[presenter]\nmode = \"gui\"\n"},
			{name: "unknown recovery", body: "[qr]\nrecovery = \"max\"\n"},
			{name: "journal without path", body: "[journal]\nenabled = true\npath = \"\"\n"},
		}

		for _, tt := range tc {
			t.Run(tt.name, func(t *testing.T) {
				configPath := filepath.Join(t.TempDir(), "config.toml")
				if err := os.WriteFile(configPath, []byte(tt.body), 0o644); err != nil {
					t.Fatalf("failed to write test config: %v", err)
				}

				_, err := LoadConfig(configPath)
				if !errors.Is(err, ErrInvalidConfig) {
					t.Errorf("expected ErrInvalidConfig, got %v", err)
				}
			})
		}
	})

	t.Run("LoadConfig missing file", func(t *testing.T) {
		if _, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
			t.Error("expected error for missing file")
		}
	})
}

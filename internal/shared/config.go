package shared

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
)

//go:embed config.example.toml
var exampleConf []byte

// Presentation surfaces selectable with [PresenterConfig.Mode].
const (
	ModeTUI   = "tui"
	ModePlain = "plain"
)

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Presenter PresenterConfig `toml:"presenter"`
	QR        QRConfig        `toml:"qr"`
	URI       URIConfig       `toml:"uri"`
	Journal   JournalConfig   `toml:"journal"`
	Log       LogConfig       `toml:"log"`
}

// PresenterConfig contains presentation surface settings.
type PresenterConfig struct {
	Mode         string `toml:"mode"`
	StartHint    string `toml:"start_hint"`
	ContinueHint string `toml:"continue_hint"`
}

// QRConfig contains QR code rendering settings.
type QRConfig struct {
	Recovery string `toml:"recovery"`
}

// URIConfig contains enrollment URI options.
type URIConfig struct {
	Enrich      bool `toml:"enrich"`
	OmitPadding bool `toml:"omit_padding"`
}

// JournalConfig contains presentation journal settings.
type JournalConfig struct {
	Enabled bool   `toml:"enabled"`
	Path    string `toml:"path"`
}

// LogConfig contains logger settings.
type LogConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
//
// Keys missing from the file keep their default values.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// Validate checks enumerated settings.
func (c *Config) Validate() error {
	switch strings.ToLower(c.Presenter.Mode) {
	case ModeTUI, ModePlain:
	default:
		return fmt.Errorf("%w: presenter mode %q", ErrInvalidConfig, c.Presenter.Mode)
	}

	switch strings.ToLower(c.QR.Recovery) {
	case "low", "medium", "high", "highest":
	default:
		return fmt.Errorf("%w: qr recovery %q", ErrInvalidConfig, c.QR.Recovery)
	}

	if c.Journal.Enabled && c.Journal.Path == "" {
		return fmt.Errorf("%w: journal enabled without a path", ErrInvalidConfig)
	}

	return nil
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

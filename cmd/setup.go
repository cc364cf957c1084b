package main

import (
	"context"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/desertthunder/otpx/internal/shared"
	"github.com/urfave/cli/v3"
)

// Setup writes a default config file when none exists and initializes the journal database.
func (r *Runner) Setup(ctx context.Context, cmd *cli.Command) error {
	configPath := cmd.String("config")

	if _, err := os.Stat(configPath); err == nil {
		config, err := shared.LoadConfig(configPath)
		if err != nil {
			return err
		}
		r.config = config
	} else {
		r.logger.Info("config file not found, creating from template", "path", configPath)
		if err := shared.CreateConfigFile(configPath); err != nil {
			return err
		}
		r.config = shared.DefaultConfig()
		r.logger.Info("config file created", "path", configPath)
	}

	if err := shared.SetLogLevel(r.logger, r.config.Log.Level); err != nil {
		return err
	}

	r.logger.Info("initializing journal database", "path", r.config.Journal.Path)

	db, err := shared.OpenJournalDatabase(r.config.Journal.Path)
	if err != nil {
		return fmt.Errorf("failed to initialize journal: %w", err)
	}
	defer db.Close()

	r.logger.Infof("setup complete for journal: %v", r.config.Journal.Path)
	if !r.config.Journal.Enabled {
		return r.writePlain("Journal initialized. Set [journal] enabled = true in %s to record sessions.\n", configPath)
	}
	return r.writePlain("Journal initialized.\n")
}

// ConfigInit writes the default configuration to the given path.
func (r *Runner) ConfigInit(ctx context.Context, cmd *cli.Command) error {
	if err := r.prepare(cmd); err != nil {
		return err
	}

	path := cmd.StringArg("path")
	if path == "" {
		path = defaultConfigPath
	}

	if err := shared.CreateConfigFile(path); err != nil {
		return err
	}
	return r.writePlain("Config written to %s\n", path)
}

// ConfigShow prints the effective configuration as TOML.
func (r *Runner) ConfigShow(ctx context.Context, cmd *cli.Command) error {
	if err := r.prepare(cmd); err != nil {
		return err
	}

	if err := toml.NewEncoder(r.output).Encode(r.config); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}

package main

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/BurntSushi/toml"
)

const version = "0.4.0"

// Config is the optional ~/.yafsh.toml. Every field has a usable
// default; a missing file is not an error.
type Config struct {
	// Prompt is the name shown before the stack summary.
	Prompt string `toml:"prompt"`
	// History and RC are file paths; ~ expands to $HOME.
	History string `toml:"history"`
	RC      string `toml:"rc"`
	// Trace is the startup step-trace verbosity (0-3).
	Trace int `toml:"trace"`
}

func defaultConfig() Config {
	return Config{
		Prompt:  "yafsh",
		History: "~/.yafsh_history",
		RC:      "~/.yafshrc",
	}
}

func configPath() string { return expandTilde("~/.yafsh.toml") }

// loadConfig reads path over the defaults. A nonexistent file yields
// the defaults; a malformed one is an error.
func loadConfig(path string) (Config, error) {
	cfg := defaultConfig()
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	if cfg.Trace < 0 || cfg.Trace > 3 {
		cfg.Trace = 0
	}
	return cfg, nil
}

// historyPath and rcPath resolve the configured locations, expanding a
// leading tilde. Either may be empty to disable the feature.
func (c Config) historyPath() string { return expandTilde(c.History) }

func (c Config) rcPath() string { return expandTilde(c.RC) }

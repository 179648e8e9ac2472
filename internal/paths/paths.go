// Copyright (C) 2026 sshpot contributors. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

// Package paths resolves default on-disk locations when the operator's
// config omits them.
package paths

import (
	"os"
	"path/filepath"
)

const envPrefix = "SSHPOT_"

// DefaultDataDir returns the directory the honeypot stores its virtual
// filesystem image and accepted-password store under.
func DefaultDataDir() string {
	if v := os.Getenv(envPrefix + "DATA_DIR"); v != "" {
		return v
	}
	return xdgDir("XDG_DATA_HOME", ".local/share", "sshpot")
}

// DefaultLogDir returns the directory tty session logs and the event
// sink's jsonl files are written under.
func DefaultLogDir() string {
	if v := os.Getenv(envPrefix + "LOG_DIR"); v != "" {
		return v
	}
	return xdgDir("XDG_STATE_HOME", ".local/state", filepath.Join("sshpot", "log"))
}

// DefaultConfigDir returns the directory the config file and host keys
// are expected to live in.
func DefaultConfigDir() string {
	if v := os.Getenv(envPrefix + "CONFIG_DIR"); v != "" {
		return v
	}
	return xdgDir("XDG_CONFIG_HOME", ".config", "sshpot")
}

func xdgDir(envVar, fallbackRel, leaf string) string {
	if base := os.Getenv(envVar); base != "" {
		return filepath.Join(base, leaf)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", leaf)
	}
	return filepath.Join(home, fallbackRel, leaf)
}

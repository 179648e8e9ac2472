// Copyright (C) 2026 sshpot contributors. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

package paths

import (
	"path/filepath"
	"testing"
)

func TestDefaultDataDirEnvOverride(t *testing.T) {
	t.Setenv("SSHPOT_DATA_DIR", "/tmp/sshpot-data")
	if got := DefaultDataDir(); got != "/tmp/sshpot-data" {
		t.Errorf("expected override, got %q", got)
	}
}

func TestDefaultLogDirXDG(t *testing.T) {
	t.Setenv("SSHPOT_LOG_DIR", "")
	t.Setenv("XDG_STATE_HOME", "/tmp/state")
	want := filepath.Join("/tmp/state", "sshpot", "log")
	if got := DefaultLogDir(); got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestDefaultConfigDirFallsBackToHome(t *testing.T) {
	t.Setenv("SSHPOT_CONFIG_DIR", "")
	t.Setenv("XDG_CONFIG_HOME", "")
	t.Setenv("HOME", "/home/op")
	want := filepath.Join("/home/op", ".config", "sshpot")
	if got := DefaultConfigDir(); got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

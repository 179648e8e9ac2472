// Copyright (C) 2026 sshpot contributors. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

package config

import "testing"

const sampleHCL = `
hostname    = "svr04"
password    = "123456"
data_path   = "/var/lib/sshpot"
log_path    = "/var/log/sshpot"

ssh {
  listen_address = "0.0.0.0"
  port            = 2222
}

database {
  engine = "jsonl"
}
`

func TestLoadBytesDecodesCoreFields(t *testing.T) {
	cfg, err := LoadBytes([]byte(sampleHCL), "test.hcl")
	if err != nil {
		t.Fatalf("LoadBytes: %v", err)
	}

	if cfg.Hostname != "svr04" {
		t.Errorf("Hostname = %q", cfg.Hostname)
	}
	if cfg.Password != "123456" {
		t.Errorf("Password = %q", cfg.Password)
	}
	if cfg.SSH.Port != 2222 {
		t.Errorf("SSH.Port = %d", cfg.SSH.Port)
	}
	if cfg.Database.Engine != "jsonl" {
		t.Errorf("Database.Engine = %q", cfg.Database.Engine)
	}
}

func TestLoadBytesAppliesDefaults(t *testing.T) {
	cfg, err := LoadBytes([]byte(""), "empty.hcl")
	if err != nil {
		t.Fatalf("LoadBytes: %v", err)
	}

	if cfg.Hostname != "svr04" {
		t.Errorf("expected default hostname, got %q", cfg.Hostname)
	}
	if cfg.SSH.Port != 2222 {
		t.Errorf("expected default port 2222, got %d", cfg.SSH.Port)
	}
	if cfg.DataPath == "" {
		t.Error("expected DataPath to be resolved to an XDG default")
	}
	if cfg.LogPath == "" {
		t.Error("expected LogPath to be resolved to an XDG default")
	}
}

func TestLoadBytesRejectsMalformedHCL(t *testing.T) {
	_, err := LoadBytes([]byte("hostname = "), "broken.hcl")
	if err == nil {
		t.Fatal("expected error for malformed HCL")
	}
}

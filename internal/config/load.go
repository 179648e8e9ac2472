// Copyright (C) 2026 sshpot contributors. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

package config

import (
	"os"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/duskwatch/sshpot/internal/auth"
	"github.com/duskwatch/sshpot/internal/errors"
	"github.com/duskwatch/sshpot/internal/logging"
	"github.com/duskwatch/sshpot/internal/paths"
)

// Load reads and decodes an HCL config file at path, applies core
// defaults, resolves unset data/log paths against XDG defaults, and
// scores the configured decoy password (warning, never failing, on a
// weak score).
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, errors.KindUnavailable, "read config file %s", path)
	}
	return LoadBytes(data, path)
}

// LoadBytes decodes HCL config bytes, used directly by tests and by
// Load.
func LoadBytes(data []byte, filename string) (*Config, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(data, filename)
	if diags.HasErrors() {
		return nil, errors.Wrapf(error(diags), errors.KindValidation, "parse config %s", filename)
	}

	var cfg Config
	if diags := gohcl.DecodeBody(file.Body, nil, &cfg); diags.HasErrors() {
		return nil, errors.Wrapf(error(diags), errors.KindValidation, "decode config %s", filename)
	}

	cfg.applyDefaults()

	if cfg.DataPath == "" {
		cfg.DataPath = paths.DefaultDataDir()
	}
	if cfg.LogPath == "" {
		cfg.LogPath = paths.DefaultLogDir()
	}

	warnWeakPassword(cfg.Password)

	return &cfg, nil
}

func warnWeakPassword(password string) {
	if password == "" {
		return
	}
	strength := auth.CalculateStrength(password)
	if strength.Score < 2 {
		logging.Warn("configured decoy password scores weak", "score", strength.Score, "feedback", strength.Feedback)
	}
}

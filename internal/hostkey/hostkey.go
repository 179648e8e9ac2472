// Copyright (C) 2026 sshpot contributors. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

// Package hostkey generates and caches the SSH host key material used
// to authenticate the listener to connecting clients.
package hostkey

import (
	"os"

	"github.com/charmbracelet/keygen"
	gossh "golang.org/x/crypto/ssh"

	"github.com/duskwatch/sshpot/internal/errors"
)

// Load returns the host key signer. If a file exists at privatePath it
// is parsed as an OpenSSH-format private key; otherwise a new ed25519
// keypair is generated and written with its private half at
// privatePath. publicPath is neither read nor written.
func Load(publicPath, privatePath string) (gossh.Signer, error) {
	if _, err := os.Stat(privatePath); err == nil {
		return loadExisting(privatePath)
	}

	kp, err := keygen.New(privatePath, keygen.WithKeyType(keygen.Ed25519), keygen.WithWrite())
	if err != nil {
		return nil, errors.Wrapf(err, errors.KindInternal, "generate host key at %s", privatePath)
	}
	return kp.Signer(), nil
}

func loadExisting(privatePath string) (gossh.Signer, error) {
	raw, err := os.ReadFile(privatePath)
	if err != nil {
		return nil, errors.Wrapf(err, errors.KindUnavailable, "read host key %s", privatePath)
	}
	signer, err := gossh.ParsePrivateKey(raw)
	if err != nil {
		return nil, errors.Wrapf(err, errors.KindInternal, "parse host key %s", privatePath)
	}
	return signer, nil
}

// Copyright (C) 2026 sshpot contributors. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

package hostkey

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadGeneratesOnFirstRun(t *testing.T) {
	dir := t.TempDir()
	priv := filepath.Join(dir, "ssh_host_ed25519_key")
	pub := priv + ".pub"

	signer, err := Load(pub, priv)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if signer == nil {
		t.Fatal("expected a signer")
	}
	if _, err := os.Stat(priv); err != nil {
		t.Fatalf("expected private key file written: %v", err)
	}
}

func TestLoadReusesExisting(t *testing.T) {
	dir := t.TempDir()
	priv := filepath.Join(dir, "ssh_host_ed25519_key")
	pub := priv + ".pub"

	first, err := Load(pub, priv)
	if err != nil {
		t.Fatalf("Load (first): %v", err)
	}

	second, err := Load(pub, priv)
	if err != nil {
		t.Fatalf("Load (second): %v", err)
	}

	if string(first.PublicKey().Marshal()) != string(second.PublicKey().Marshal()) {
		t.Fatal("expected the same key to be reused across runs")
	}
}

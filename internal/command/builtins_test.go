// Copyright (C) 2026 sshpot contributors. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

package command

import (
	"strings"
	"testing"
)

func run(h *testHost, reg Registry, argv []string) {
	factory := reg[argv[0]]
	h.stack.Push(factory(h, argv))
}

func TestPwdPrintsCwd(t *testing.T) {
	h := newTestHost()
	run(h, Default(), []string{"pwd"})
	if !strings.Contains(h.buf.String(), "/root") {
		t.Errorf("expected /root in output, got %q", h.buf.String())
	}
}

func TestCdChangesCwd(t *testing.T) {
	h := newTestHost()
	h.fs.Mkdir("/tmp")
	run(h, Default(), []string{"cd", "/tmp"})
	if h.Cwd() != "/tmp" {
		t.Errorf("expected cwd /tmp, got %q", h.Cwd())
	}
}

func TestCdNoSuchDirectory(t *testing.T) {
	h := newTestHost()
	run(h, Default(), []string{"cd", "/nope"})
	if !strings.Contains(h.buf.String(), "No such file or directory") {
		t.Errorf("expected error message, got %q", h.buf.String())
	}
	if h.Cwd() != "/root" {
		t.Errorf("expected cwd unchanged, got %q", h.Cwd())
	}
}

func TestCatMissingFile(t *testing.T) {
	h := newTestHost()
	run(h, Default(), []string{"cat", "missing.txt"})
	if !strings.Contains(h.buf.String(), "cat: missing.txt: No such file or directory") {
		t.Errorf("unexpected output %q", h.buf.String())
	}
}

func TestCatExistingFile(t *testing.T) {
	h := newTestHost()
	run(h, Default(), []string{"cat", "notes.txt"})
	if !strings.Contains(h.buf.String(), "hello") {
		t.Errorf("expected file contents, got %q", h.buf.String())
	}
}

func TestEchoJoinsArgsWithSpace(t *testing.T) {
	h := newTestHost()
	run(h, Default(), []string{"echo", "a", "b"})
	if !strings.Contains(h.buf.String(), "a b") {
		t.Errorf("expected 'a b', got %q", h.buf.String())
	}
}

func TestEnvListsOverlay(t *testing.T) {
	h := newTestHost()
	h.env["FOO"] = "bar"
	run(h, Default(), []string{"env"})
	if !strings.Contains(h.buf.String(), "FOO=bar") {
		t.Errorf("expected FOO=bar in output, got %q", h.buf.String())
	}
}

func TestExitTerminatesSession(t *testing.T) {
	h := newTestHost()
	cmd := Default()["exit"](h, []string{"exit"})
	h.stack.Push(cmd)
	if !h.terminated {
		t.Fatal("expected exit to terminate the session")
	}
}

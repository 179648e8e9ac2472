// Copyright (C) 2026 sshpot contributors. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

package ttylog

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/duskwatch/sshpot/internal/clock"
)

func TestOpenWritesOpenEvent(t *testing.T) {
	fixed := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	clock.SetDefault(clock.NewMockClock(fixed))
	defer clock.SetDefault(clock.RealClock{})

	path := filepath.Join(t.TempDir(), "tty", "session.log")
	w, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer w.Close()

	if err := w.Read([]byte("\r")); err != nil {
		t.Fatalf("Read: %v", err)
	}
	if err := w.Write([]byte("svr04:~# ")); err != nil {
		t.Fatalf("Write: %v", err)
	}
	w.Close()

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read file: %v", err)
	}

	events, err := NewReader(bytes.NewReader(raw)).ReadAll()
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if len(events) != 3 {
		t.Fatalf("expected 3 events (open, read, write), got %d", len(events))
	}
	if events[0].Op != OpOpen || len(events[0].Payload) != 0 {
		t.Errorf("expected zero-length OPEN event first, got %+v", events[0])
	}
	if events[1].Op != OpRead || string(events[1].Payload) != "\r" {
		t.Errorf("expected READ(\\r), got %+v", events[1])
	}
	if events[2].Op != OpWrite || string(events[2].Payload) != "svr04:~# " {
		t.Errorf("expected WRITE(prompt), got %+v", events[2])
	}
}

func TestDoubleCloseIsNoOp(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tty", "session.log")
	w, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("first Close: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("second Close should be a no-op, got %v", err)
	}
}

func TestWriteAfterCloseIsIgnored(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tty", "session.log")
	w, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	w.Close()
	if err := w.Write([]byte("late")); err != nil {
		t.Fatalf("expected no error writing after close, got %v", err)
	}
}

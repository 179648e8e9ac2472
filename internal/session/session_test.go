// Copyright (C) 2026 sshpot contributors. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

package session

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/duskwatch/sshpot/internal/clock"
	"github.com/duskwatch/sshpot/internal/command"
	"github.com/duskwatch/sshpot/internal/ttylog"
	"github.com/duskwatch/sshpot/internal/vfs"
)

func newTestSession(t *testing.T) (*Session, *bytes.Buffer) {
	s, out, _ := newTestSessionWithLog(t)
	return s, out
}

func newTestSessionWithLog(t *testing.T) (*Session, *bytes.Buffer, string) {
	t.Helper()
	fixed := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	clock.SetDefault(clock.NewMockClock(fixed))
	t.Cleanup(func() { clock.SetDefault(clock.RealClock{}) })

	var out bytes.Buffer
	tlPath := filepath.Join(t.TempDir(), "tty", "s.log")
	w, err := ttylog.Open(tlPath)
	if err != nil {
		t.Fatalf("ttylog.Open: %v", err)
	}
	t.Cleanup(func() { w.Close() })

	img := vfs.NewEmptyImage()

	s := New(Config{
		ID:       "test-session",
		ClientIP: "10.0.0.1",
		Hostname: "svr04",
		Image:    img,
		Registry: command.Default(),
		Out:      &out,
		TTYLog:   w,
	})
	return s, &out, tlPath
}

func TestConnectAndEnterPrintsPromptAndLogsReadWrite(t *testing.T) {
	s, out, tlPath := newTestSessionWithLog(t)
	s.Start()
	out.Reset()

	s.HandleInput([]byte("\r"))

	if !strings.Contains(out.String(), "svr04:~# ") {
		t.Errorf("expected prompt in output, got %q", out.String())
	}

	s.ttylog.Close()
	raw, err := os.ReadFile(tlPath)
	if err != nil {
		t.Fatalf("read tty log: %v", err)
	}
	events, err := ttylog.NewReader(bytes.NewReader(raw)).ReadAll()
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	var sawRead, sawWrite bool
	for _, e := range events {
		if e.Op == ttylog.OpRead && string(e.Payload) == "\r" {
			sawRead = true
		}
		if e.Op == ttylog.OpWrite && strings.Contains(string(e.Payload), "svr04:~# ") {
			sawWrite = true
		}
	}
	if !sawRead {
		t.Error("expected a READ(\\r) event in the tty log")
	}
	if !sawWrite {
		t.Error("expected a WRITE event containing the prompt")
	}
}

func TestSemicolonRunsTwoCommandsInOrder(t *testing.T) {
	s, out := newTestSession(t)
	s.Start()
	out.Reset()

	s.HandleInput([]byte("echo a ; echo b\r"))

	got := out.String()
	ia, ib := strings.Index(got, "a"), strings.Index(got, "b")
	if ia < 0 || ib < 0 || ia > ib {
		t.Fatalf("expected a before b, got %q", got)
	}
}

func TestCdThenDisconnectReconnectResetsOverlay(t *testing.T) {
	s, out := newTestSession(t)
	s.fs.Mkdir("/tmp")
	s.Start()
	out.Reset()
	s.HandleInput([]byte("cd /tmp\r"))
	s.HandleInput([]byte("pwd\r"))
	if !strings.Contains(out.String(), "/tmp") {
		t.Fatalf("expected /tmp printed, got %q", out.String())
	}

	s2, out2 := newTestSession(t)
	s2.Start()
	out2.Reset()
	s2.HandleInput([]byte("pwd\r"))
	if !strings.Contains(out2.String(), "/root") {
		t.Fatalf("expected fresh session to start at /root, got %q", out2.String())
	}
}

func TestMalformedQuoteEmitsExactSyntaxError(t *testing.T) {
	s, out := newTestSession(t)
	s.Start()
	out.Reset()

	s.HandleInput([]byte("echo \"unterminated\r"))

	if !strings.Contains(out.String(), "-bash: syntax error: unexpected end of file") {
		t.Errorf("unexpected output %q", out.String())
	}
}

func TestOSCTitleCaptureNoKeystrokes(t *testing.T) {
	s, out := newTestSession(t)
	s.Start()
	out.Reset()

	s.HandleInput([]byte("\x1b]l my-title\x1b\\"))

	if s.TerminalTitle() != " my-title" {
		t.Errorf("expected captured title, got %q", s.TerminalTitle())
	}
	if out.Len() != 0 {
		t.Errorf("expected no bytes echoed for a title sequence, got %q", out.String())
	}
}

func TestEnvOverlayDoesNotLeakToSession(t *testing.T) {
	s, out := newTestSession(t)
	s.Start()
	out.Reset()

	s.HandleInput([]byte("FOO=bar env\r"))
	if !strings.Contains(out.String(), "FOO=bar") {
		t.Fatalf("expected FOO=bar in env output, got %q", out.String())
	}
	if _, ok := s.Env()["FOO"]; ok {
		t.Errorf("expected session env unaffected by per-command overlay, got %v", s.Env())
	}
}

func TestCtrlDOnEmptyLineTerminatesSession(t *testing.T) {
	s, out := newTestSession(t)
	s.Start()
	out.Reset()

	terminated := false
	s.onTerminate = func() { terminated = true }
	s.HandleInput([]byte{ctrlD})

	if !terminated {
		t.Error("expected Ctrl-D on an empty line to terminate the session")
	}
}

func TestLastlogLineFormat(t *testing.T) {
	s, _ := newTestSession(t)
	end := clock.Now().Add(90 * time.Second)
	line := s.LastlogLine(end)
	if !strings.HasPrefix(line, "root\tpts/0\t10.0.0.1\t") {
		t.Errorf("unexpected lastlog line: %q", line)
	}
}

// Copyright (C) 2026 sshpot contributors. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

// Package session implements the per-connection orchestrator: owns
// cwd, environment, the line editor, command stack, VFS overlay, and
// the keystroke-to-command wiring that the terminal protocol and
// shell interpreter plug into.
package session

import (
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/duskwatch/sshpot/internal/clock"
	"github.com/duskwatch/sshpot/internal/command"
	"github.com/duskwatch/sshpot/internal/eventsink"
	"github.com/duskwatch/sshpot/internal/metrics"
	"github.com/duskwatch/sshpot/internal/shell"
	"github.com/duskwatch/sshpot/internal/term"
	"github.com/duskwatch/sshpot/internal/ttylog"
	"github.com/duskwatch/sshpot/internal/vfs"
)

const (
	ctrlC = 0x03
	ctrlD = 0x04
	ctrlU = 0x15
	del   = 0x7f
	bs    = 0x08
)

// Config configures a new Session.
type Config struct {
	ID           string
	ClientIP     string
	Hostname     string
	TxtCmdsPath  string // real host filesystem path, may be empty
	Image        *vfs.Image
	Registry     command.Registry
	Sink         eventsink.Sink
	Metrics      *metrics.Collector
	Out          io.Writer
	TTYLog       *ttylog.Writer
	LastlogPath  string
	OnTerminate  func()
}

// Session is one authenticated connection's orchestrator state.
type Session struct {
	mu sync.Mutex

	id       string
	clientIP string
	hostname string
	loginAt  time.Time

	out    io.Writer
	ttylog *ttylog.Writer
	sink   eventsink.Sink
	metr   *metrics.Collector

	cwd string
	env map[string]string

	fs          *vfs.Overlay
	registry    command.Registry
	txtCmdsPath string

	lineBuf        []rune
	cursor         int
	history        []string
	echoSuppressed bool

	decoder       *term.Decoder
	terminalTitle string

	stack *command.Stack
	shell *shell.Shell

	lastlogPath string
	onTerminate func()
	terminated  bool
}

// New builds a Session with its command stack rooted at a fresh
// Shell, ready to receive bytes via HandleInput.
func New(cfg Config) *Session {
	s := &Session{
		id:          cfg.ID,
		clientIP:    cfg.ClientIP,
		hostname:    cfg.Hostname,
		loginAt:     clock.Now(),
		out:         cfg.Out,
		ttylog:      cfg.TTYLog,
		sink:        cfg.Sink,
		metr:        cfg.Metrics,
		cwd:         "/root",
		env:         map[string]string{"PATH": "/bin:/usr/bin:/sbin:/usr/sbin", "HOME": "/root"},
		fs:          vfs.NewOverlay(cfg.Image),
		registry:    cfg.Registry.Clone(),
		txtCmdsPath: cfg.TxtCmdsPath,
		decoder:     term.NewDecoder(),
		lastlogPath: cfg.LastlogPath,
		onTerminate: cfg.OnTerminate,
	}
	if !s.fs.Exists("/root") {
		s.fs.Mkdir("/root")
	}
	s.shell = shell.New(s, s)
	s.stack = command.NewStack(s.shell)
	return s
}

// Start draws the first prompt.
func (s *Session) Start() {
	s.shell.Start()
}

// HandleInput decodes a chunk of raw bytes from the SSH channel,
// logging the whole chunk as a single READ event before any of it is
// interpreted, honouring the read-before-write ordering guarantee.
func (s *Session) HandleInput(data []byte) {
	if s.ttylog != nil && len(data) > 0 {
		s.ttylog.Read(data)
	}
	for _, ev := range s.decoder.Decode(data) {
		switch ev.Kind {
		case term.EventKeystroke:
			s.handleKeystroke(ev.Byte)
		case term.EventTitle:
			s.terminalTitle = ev.Title
		case term.EventOverflow:
			if s.metr != nil {
				s.metr.DecoderError()
			}
		case term.EventControl:
			// Control sequences (cursor movement, function keys) are
			// acknowledged by the decoder but have no session-level
			// effect: the virtual shell doesn't repaint a screen.
		}
	}
}

func (s *Session) handleKeystroke(b byte) {
	switch b {
	case '\r', '\n':
		line := string(s.lineBuf)
		s.lineBuf = s.lineBuf[:0]
		s.cursor = 0
		s.writeRaw([]byte("\r\n"))
		if s.stack.Top() == s.shell {
			if line != "" {
				s.history = append(s.history, line)
			}
		}
		s.stack.LineReceived(line)
	case ctrlC:
		s.stack.CtrlC()
	case ctrlD:
		if len(s.lineBuf) == 0 {
			s.handleEOF()
		}
	case ctrlU:
		s.lineBuf = s.lineBuf[s.cursor:]
		s.cursor = 0
	case del, bs:
		if s.cursor > 0 {
			s.lineBuf = append(s.lineBuf[:s.cursor-1], s.lineBuf[s.cursor:]...)
			s.cursor--
			if !s.echoSuppressed {
				s.writeRaw([]byte("\b \b"))
			}
		}
	default:
		r := rune(b)
		s.lineBuf = append(s.lineBuf[:s.cursor], append([]rune{r}, s.lineBuf[s.cursor:]...)...)
		s.cursor++
		if !s.echoSuppressed {
			s.writeRaw([]byte{b})
		}
	}
}

func (s *Session) handleEOF() {
	if f, ok := s.GetCommand("exit", s.paths()); ok {
		s.stack.Push(f(s, []string{"exit"}))
		return
	}
	s.Terminate()
}

func (s *Session) paths() []string {
	return strings.Split(s.env["PATH"], ":")
}

// SetEchoSuppressed toggles password-echo mode: characters still
// buffer normally but are not echoed to the attacker.
func (s *Session) SetEchoSuppressed(v bool) { s.echoSuppressed = v }

// TerminalTitle returns the most recently captured OSC window title.
func (s *Session) TerminalTitle() string { return s.terminalTitle }

// --- command.Host ---

func (s *Session) Write(p []byte) (int, error) { return s.writeLogged(p) }

func (s *Session) WriteString(str string) (int, error) { return s.writeLogged([]byte(str)) }

func (s *Session) Writeln(str string) {
	s.writeLogged([]byte(str))
	s.writeLogged([]byte("\r\n"))
}

func (s *Session) NextLine() { s.writeLogged([]byte("\r\n")) }

func (s *Session) FS() *vfs.Overlay       { return s.fs }
func (s *Session) Env() map[string]string { return s.env }
func (s *Session) Cwd() string            { return s.cwd }
func (s *Session) SetCwd(p string)        { s.cwd = p }
func (s *Session) Hostname() string       { return s.hostname }

func (s *Session) Push(c command.Command) { s.stack.Push(c) }
func (s *Session) Pop()                   { s.stack.Pop() }
func (s *Session) ClearLine() {
	s.lineBuf = s.lineBuf[:0]
	s.cursor = 0
}

// Terminate runs teardown exactly once and notifies the front door.
func (s *Session) Terminate() {
	s.mu.Lock()
	if s.terminated {
		s.mu.Unlock()
		return
	}
	s.terminated = true
	s.mu.Unlock()

	s.teardown()
	if s.onTerminate != nil {
		s.onTerminate()
	}
}

func (s *Session) teardown() {
	if s.lastlogPath != "" {
		AppendLastlog(s.lastlogPath, s.LastlogLine(clock.Now()))
	}
	if s.sink != nil {
		s.sink.Emit(eventsink.Event{
			Timestamp: clock.Now(),
			SessionID: s.id,
			Kind:      eventsink.KindChannelClose,
			Payload:   map[string]any{"client_ip": s.clientIP, "terminal_title": s.terminalTitle},
		})
	}
	if s.ttylog != nil {
		s.ttylog.Close()
	}
	if s.metr != nil {
		s.metr.SessionClosed()
	}
}

// writeLogged writes to the channel and records the bytes as a WRITE
// event, unless logging was explicitly suppressed (see WriteNoLog).
func (s *Session) writeLogged(p []byte) (int, error) {
	n, err := s.out.Write(p)
	if s.ttylog != nil {
		s.ttylog.Write(p)
	}
	if s.metr != nil {
		s.metr.BytesLogged(len(p))
	}
	return n, err
}

// writeRaw writes to the channel without a preceding echo-origin
// distinction; still logged, since every byte sent to the attacker is
// a WRITE event regardless of why it was sent.
func (s *Session) writeRaw(p []byte) { s.writeLogged(p) }

// WriteNoLog writes bytes to the channel without logging them as a
// WRITE event, for the session-start terminal-size query that isn't
// part of the attacker-visible transcript.
func (s *Session) WriteNoLog(p []byte) (int, error) {
	return s.out.Write(p)
}

// --- shell.Resolver / getCommand ---

// GetCommand implements the session's command-resolution algorithm:
// registry lookup, VFS path search across paths, and a real-host
// txtcmd sibling fallback for canned responses.
func (s *Session) GetCommand(name string, paths []string) (command.Factory, bool) {
	if name == "" {
		return nil, false
	}
	if f, ok := s.registry[name]; ok {
		s.emitCommand(name)
		return f, true
	}

	var vfsPath string
	if strings.HasPrefix(name, ".") || strings.HasPrefix(name, "/") {
		abs, err := s.fs.ResolvePath(name, s.cwd)
		if err != nil || !s.fs.Exists(abs) {
			return nil, false
		}
		vfsPath = abs
	} else {
		found := false
		for _, dir := range paths {
			candidate := path.Join(dir, name)
			if s.fs.Exists(candidate) {
				vfsPath = candidate
				found = true
				break
			}
		}
		if !found {
			return nil, false
		}
	}

	if s.txtCmdsPath != "" {
		real := filepath.Join(s.txtCmdsPath, vfsPath)
		if info, err := os.Stat(real); err == nil && !info.IsDir() {
			s.emitCommand(name)
			return func(h command.Host, argv []string) command.Command {
				return command.NewTxtCmd(h, real)
			}, true
		}
	}

	if f, ok := s.registry[vfsPath]; ok {
		s.emitCommand(name)
		return f, true
	}
	return nil, false
}

func (s *Session) emitCommand(name string) {
	if s.sink == nil {
		return
	}
	s.sink.Emit(eventsink.Event{
		Timestamp: clock.Now(),
		SessionID: s.id,
		Kind:      eventsink.KindCommand,
		Payload:   map[string]any{"name": name, "cwd": s.cwd},
	})
	if s.metr != nil {
		s.metr.CommandExecuted()
	}
}

// LastlogLine formats the lastlog entry for this session's teardown.
func (s *Session) LastlogLine(end time.Time) string {
	dur := end.Sub(s.loginAt)
	return fmt.Sprintf("root\tpts/0\t%s\t%s - %s (%s)\n",
		s.clientIP, s.loginAt.Format("Mon Jan  2 15:04"), end.Format("15:04"), humanDuration(dur))
}

func humanDuration(d time.Duration) string {
	if d < time.Minute {
		return "00:00"
	}
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	return fmt.Sprintf("%02d:%02d", h, m)
}

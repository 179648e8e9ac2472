// Copyright (C) 2026 sshpot contributors. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

// Package sshfront is the SSH front door: it accepts connections,
// authenticates the deception credential, and wires an authenticated
// channel onto a session orchestrator.
package sshfront

import (
	"errors"
	"fmt"
	"net"
	"path/filepath"
	"sync/atomic"

	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	wishlogging "github.com/charmbracelet/wish/logging"
	gossh "golang.org/x/crypto/ssh"

	"github.com/duskwatch/sshpot/internal/auth"
	"github.com/duskwatch/sshpot/internal/clock"
	"github.com/duskwatch/sshpot/internal/command"
	"github.com/duskwatch/sshpot/internal/config"
	"github.com/duskwatch/sshpot/internal/eventsink"
	"github.com/duskwatch/sshpot/internal/logging"
	"github.com/duskwatch/sshpot/internal/metrics"
	"github.com/duskwatch/sshpot/internal/session"
	"github.com/duskwatch/sshpot/internal/ttylog"
	"github.com/duskwatch/sshpot/internal/vfs"
)

var errExecNotImplemented = errors.New("exec requests are not implemented")

// Server is the SSH listener wiring authentication and PTY sessions
// onto the session orchestrator.
type Server struct {
	cfg      *config.Config
	checker  *auth.Checker
	image    *vfs.Image
	registry command.Registry
	sink     eventsink.Sink
	metr     *metrics.Collector

	srv    *ssh.Server
	nextID uint64
}

// New builds a Server bound to signer for the host key and checker
// for credential validation. image and registry are shared, read-only
// bases each session copies-on-write from.
func New(cfg *config.Config, checker *auth.Checker, signer gossh.Signer, image *vfs.Image, registry command.Registry, sink eventsink.Sink, metr *metrics.Collector) (*Server, error) {
	s := &Server{cfg: cfg, checker: checker, image: image, registry: registry, sink: sink, metr: metr}

	addr := fmt.Sprintf("%s:%d", cfg.SSH.ListenAddress, cfg.SSH.Port)

	ws, err := wish.NewServer(
		wish.WithAddress(addr),
		withHostKey(signer),
		wish.WithPasswordAuth(s.passwordHandler),
		wish.WithKeyboardInteractiveAuth(s.keyboardInteractiveHandler),
		wish.WithMiddleware(
			wishlogging.MiddlewareWithLogger(logAdapter{}),
			s.sessionMiddleware(),
		),
	)
	if err != nil {
		return nil, err
	}
	// Version is the string sent to the client during the SSH
	// handshake, before authentication. Left at the library default
	// none of the corpus's pack overrides it explicitly; this honeypot
	// picks one deliberately to impersonate a dated OpenSSH.
	ws.Version = cfg.SSH.Banner

	s.srv = ws
	return s, nil
}

// ListenAndServe blocks, accepting connections until the listener is
// closed.
func (s *Server) ListenAndServe() error {
	logging.Info(fmt.Sprintf("sshfront: listening on %s", s.srv.Addr))
	err := s.srv.ListenAndServe()
	if err != nil && errors.Is(err, ssh.ErrServerClosed) {
		return nil
	}
	return err
}

// Close shuts down the listener.
func (s *Server) Close() error {
	return s.srv.Close()
}

func (s *Server) passwordHandler(ctx ssh.Context, password string) bool {
	ok := authDecision(ctx.User(), password, s.checker)
	s.emitAuth(ctx, ok, password)
	return ok
}

// keyboardInteractiveHandler implements the PAM-style challenge as a
// thin adapter over the same password check.
func (s *Server) keyboardInteractiveHandler(ctx ssh.Context, challenge gossh.KeyboardInteractiveChallenge) bool {
	if ctx.User() != "root" {
		return false
	}
	answers, err := challenge("", "", []string{"Password: "}, []bool{false})
	if err != nil || len(answers) == 0 {
		return false
	}
	ok := authDecision(ctx.User(), answers[0], s.checker)
	s.emitAuth(ctx, ok, answers[0])
	return ok
}

// authDecision is the username+password login rule, factored out of
// the ssh.Context-shaped callbacks so it can be exercised directly:
// only root may log in, and then only with a password the checker
// accepts.
func authDecision(user, password string, checker *auth.Checker) bool {
	return user == "root" && checker.Check(password)
}

func (s *Server) emitAuth(ctx ssh.Context, ok bool, password string) {
	if s.metr != nil {
		if ok {
			s.metr.AuthSuccess()
		} else {
			s.metr.AuthFailure()
		}
	}
	if s.sink == nil {
		return
	}
	kind := eventsink.KindAuthAttempt
	if ok {
		kind = eventsink.KindAuthSuccess
	}
	s.sink.Emit(eventsink.Event{
		Timestamp: clock.Now(),
		SessionID: ctx.SessionID(),
		Kind:      kind,
		Payload: map[string]any{
			"user":        ctx.User(),
			"password":    password,
			"remote_addr": ctx.RemoteAddr().String(),
		},
	})
}

// sessionMiddleware rejects exec requests outright and wires pty+shell
// requests onto a fresh Session.
func (s *Server) sessionMiddleware() wish.Middleware {
	return func(next ssh.Handler) ssh.Handler {
		return func(sh ssh.Session) {
			if len(sh.Command()) > 0 {
				wish.Fatalln(sh, errExecNotImplemented)
				return
			}
			pty, winCh, isPTY := sh.Pty()
			if !isPTY {
				wish.Fatalln(sh, errors.New("no pty requested"))
				return
			}
			s.serve(sh, pty.Window.Width, pty.Window.Height)
			go drainWindowChanges(winCh)
			next(sh)
		}
	}
}

// drainWindowChanges discards subsequent window-change requests; the
// virtual shell never repaints around a live terminal size.
func drainWindowChanges(winCh <-chan ssh.Window) {
	for range winCh {
	}
}

func (s *Server) serve(sh ssh.Session, width, height int) {
	id := fmt.Sprintf("sess-%d", atomic.AddUint64(&s.nextID, 1))
	clientIP := sh.RemoteAddr().String()
	if host, _, err := net.SplitHostPort(clientIP); err == nil {
		clientIP = host
	}

	if s.metr != nil {
		s.metr.SessionOpened()
	}
	if s.sink != nil {
		s.sink.Emit(eventsink.Event{
			Timestamp: clock.Now(),
			SessionID: id,
			Kind:      eventsink.KindConnection,
			Payload:   map[string]any{"client_ip": clientIP, "term_width": width, "term_height": height},
		})
	}

	w, err := ttylog.Open(ttylog.Path(s.cfg.LogPath, clock.Now()))
	if err != nil {
		logging.Error(fmt.Sprintf("sshfront: failed to open tty log: %v", err))
		return
	}

	sn := session.New(session.Config{
		ID:          id,
		ClientIP:    clientIP,
		Hostname:    s.cfg.Hostname,
		TxtCmdsPath: s.cfg.TxtCmdsPath,
		Image:       s.image,
		Registry:    s.registry,
		Sink:        s.sink,
		Metrics:     s.metr,
		Out:         sh,
		TTYLog:      w,
		LastlogPath: filepath.Join(s.cfg.LogPath, "lastlog"),
		OnTerminate: func() { sh.Close() },
	})

	sn.Start()
	// The session-start terminal-size probe isn't part of the
	// attacker-visible transcript.
	sn.WriteNoLog([]byte("\x1b[21t"))

	buf := make([]byte, 4096)
	for {
		n, err := sh.Read(buf)
		if n > 0 {
			sn.HandleInput(buf[:n])
		}
		if err != nil {
			break
		}
	}
	sn.Terminate()
}

// withHostKey installs a pre-loaded signer rather than letting the
// server generate or read one itself; host key lifecycle is owned by
// internal/hostkey.
func withHostKey(signer gossh.Signer) ssh.Option {
	return func(srv *ssh.Server) error {
		srv.AddHostKey(signer)
		return nil
	}
}

// logAdapter routes the wish access-log middleware's output to the
// honeypot's own structured logger.
type logAdapter struct{}

func (logAdapter) Printf(format string, args ...interface{}) {
	logging.Debug(fmt.Sprintf("sshfront: "+format, args...))
}

func (logAdapter) Write(p []byte) (int, error) {
	logging.Debug("sshfront: " + string(p))
	return len(p), nil
}

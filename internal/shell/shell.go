// Copyright (C) 2026 sshpot contributors. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

// Package shell implements the line-oriented command interpreter that
// sits at the bottom of every session's command stack: splitting,
// tokenising, environment-assignment stripping, wildcard expansion,
// command lookup, and prompt drawing.
package shell

import (
	"fmt"
	"path"
	"strings"

	"github.com/anmitsu/go-shlex"

	"github.com/duskwatch/sshpot/internal/command"
)

// Resolver performs the command-lookup algorithm owned by the session
// orchestrator (registry entries, VFS path search, txtcmd fallback).
type Resolver interface {
	GetCommand(name string, paths []string) (command.Factory, bool)
}

// Shell is the permanent bottom of a session's command stack.
type Shell struct {
	host    command.Host
	resolve Resolver
	pending []string
}

// New returns a Shell bound to host, resolving commands via resolve.
func New(host command.Host, resolve Resolver) *Shell {
	return &Shell{host: host, resolve: resolve}
}

// Start draws the first prompt. Never pops: the stack guarantees the
// bottom survives Pop(), but Start is also never reachable from there
// since NewStack seeds the bottom directly.
func (s *Shell) Start() {
	s.drawPrompt()
}

func (s *Shell) Call()             {}
func (s *Shell) Exit()             {}
func (s *Shell) LineReceived(line string) { s.handleLine(line) }
func (s *Shell) Resume()           { s.processNext() }

// CtrlC is invoked when the stack top is the Shell itself (no Command
// is running): clear the line buffer, move to a new line, redraw the
// prompt.
func (s *Shell) CtrlC() {
	s.host.ClearLine()
	s.host.WriteString("\r\n")
	s.drawPrompt()
}

// handleLine runs the full line-processing algorithm's entry point:
// split on ';', append survivors to the pending queue, then drain.
func (s *Shell) handleLine(line string) {
	for _, part := range strings.Split(line, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		s.pending = append(s.pending, part)
	}
	s.processNext()
}

func (s *Shell) processNext() {
	if len(s.pending) == 0 {
		s.drawPrompt()
		return
	}

	cmdline := s.pending[0]
	s.pending = s.pending[1:]

	tokens, err := shlex.Split(cmdline, true)
	if err != nil {
		s.host.WriteString("-bash: syntax error: unexpected end of file\r\n")
		s.pending = nil
		s.drawPrompt()
		return
	}
	if len(tokens) == 0 {
		s.processNext()
		return
	}

	env := copyEnv(s.host.Env())
	i := 0
	for i < len(tokens) {
		key, val, ok := splitAssignment(tokens[i])
		if !ok {
			break
		}
		env[key] = val
		i++
	}
	if i == len(tokens) {
		// The line was assignments only; real bash applies them to
		// the interactive shell's own environment.
		for k, v := range env {
			s.host.Env()[k] = v
		}
		s.processNext()
		return
	}

	name := tokens[i]
	args := tokens[i+1:]
	cwd := s.host.Cwd()
	expanded := make([]string, 0, len(args))
	for _, a := range args {
		matches, _ := s.host.FS().ResolvePathWC(a, cwd)
		if len(matches) > 0 {
			expanded = append(expanded, matches...)
		} else {
			expanded = append(expanded, a)
		}
	}
	argv := append([]string{name}, expanded...)

	paths := strings.Split(env["PATH"], ":")
	factory, found := s.resolve.GetCommand(name, paths)
	if !found {
		if name != "" {
			s.host.WriteString(fmt.Sprintf("-bash: %s: command not found\r\n", name))
		}
		s.processNext()
		return
	}

	cmd := factory(&envOverlayHost{Host: s.host, env: env}, argv)
	s.host.Push(cmd)
}

func (s *Shell) drawPrompt() {
	s.host.WriteString(s.Prompt())
}

// Prompt formats "<hostname>:<path># " with /root displayed as "~".
func (s *Shell) Prompt() string {
	cwd := s.host.Cwd()
	if cwd == "/root" {
		cwd = "~"
	} else if strings.HasPrefix(cwd, "/root/") {
		cwd = "~" + strings.TrimPrefix(cwd, "/root")
	}
	return fmt.Sprintf("%s:%s# ", s.host.Hostname(), path.Clean(cwd))
}

func copyEnv(src map[string]string) map[string]string {
	out := make(map[string]string, len(src))
	for k, v := range src {
		out[k] = v
	}
	return out
}

// splitAssignment reports whether tok is a KEY=VALUE environment
// assignment token.
func splitAssignment(tok string) (key, val string, ok bool) {
	eq := strings.IndexByte(tok, '=')
	if eq <= 0 {
		return "", "", false
	}
	key = tok[:eq]
	for i, r := range key {
		if i == 0 && !isAssignStart(r) {
			return "", "", false
		}
		if i > 0 && !isAssignCont(r) {
			return "", "", false
		}
	}
	return key, tok[eq+1:], true
}

func isAssignStart(r rune) bool {
	return r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func isAssignCont(r rune) bool {
	return isAssignStart(r) || (r >= '0' && r <= '9')
}

// envOverlayHost presents a per-command environment overlay while
// delegating every other capability to the session's Host.
type envOverlayHost struct {
	command.Host
	env map[string]string
}

func (e *envOverlayHost) Env() map[string]string { return e.env }

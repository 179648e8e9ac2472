// Copyright (C) 2026 sshpot contributors. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

// Package command implements the Command ABI commands run under: a
// small capability set (start/call/exit/ctrl_c/lineReceived/resume)
// dispatched as an explicit tagged variant rather than duck typing,
// plus the stack that sequences Shell and Command instances.
package command

import "github.com/duskwatch/sshpot/internal/vfs"

// Command is one entry on a session's command stack. start is the
// entry point; the default for a trivial synchronous command (see
// SimpleCommand) calls call() then exit(). lineReceived is used by
// commands that consume raw stdin lines (fake editors, pagers).
// resume is invoked on the new top of stack after an inferior pops.
type Command interface {
	Start()
	Call()
	Exit()
	CtrlC()
	LineReceived(line string)
	Resume()
}

// Host is the capability surface a Command needs from its owning
// session: output, filesystem, environment, and stack control.
type Host interface {
	Write(p []byte) (int, error)
	WriteString(s string) (int, error)
	Writeln(s string)
	NextLine()

	FS() *vfs.Overlay
	Env() map[string]string
	Cwd() string
	SetCwd(path string)
	Hostname() string

	Push(c Command)
	Pop()

	// Terminate ends the whole session (the SSH channel closes), as
	// opposed to Pop which only retires the top of the command stack.
	Terminate()

	// ClearLine discards the session's in-progress, not-yet-submitted
	// input line. Used by the Shell's Ctrl-C handler.
	ClearLine()
}

// SimpleCommand wraps a synchronous work function as a Command whose
// start is call-then-exit, the default described in the Command Host
// Interface contract.
type SimpleCommand struct {
	host Host
	work func(h Host)
}

// NewSimple returns a Command that runs work synchronously and pops
// itself.
func NewSimple(host Host, work func(h Host)) *SimpleCommand {
	return &SimpleCommand{host: host, work: work}
}

func (c *SimpleCommand) Start() { c.Call(); c.Exit() }
func (c *SimpleCommand) Call()  { c.work(c.host) }
func (c *SimpleCommand) Exit()  { c.host.Pop() }

// CtrlC on a plain command: print ^C and exit, the documented default.
func (c *SimpleCommand) CtrlC() {
	c.host.Writeln("^C")
	c.Exit()
}

func (c *SimpleCommand) LineReceived(string) {}
func (c *SimpleCommand) Resume()             {}

// Stack sequences a Shell at the bottom with Commands pushed above it.
// The bottom never pops.
type Stack struct {
	items []Command
}

// NewStack seeds the stack with bottom, which is never popped.
func NewStack(bottom Command) *Stack {
	return &Stack{items: []Command{bottom}}
}

// Top returns the command currently receiving input.
func (s *Stack) Top() Command {
	return s.items[len(s.items)-1]
}

// Len reports the stack depth, including the bottom.
func (s *Stack) Len() int {
	return len(s.items)
}

// Push installs c above the current top and starts it.
func (s *Stack) Push(c Command) {
	s.items = append(s.items, c)
	c.Start()
}

// Pop removes the current top, unless it is the bottom, then resumes
// the new top.
func (s *Stack) Pop() {
	if len(s.items) <= 1 {
		return
	}
	s.items = s.items[:len(s.items)-1]
	s.Top().Resume()
}

// CtrlC delegates to the current top.
func (s *Stack) CtrlC() {
	s.Top().CtrlC()
}

// LineReceived delegates to the current top.
func (s *Stack) LineReceived(line string) {
	s.Top().LineReceived(line)
}

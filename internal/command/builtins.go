// Copyright (C) 2026 sshpot contributors. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

package command

import (
	"fmt"
	"path"
	"sort"
	"strings"

	"github.com/duskwatch/sshpot/internal/errors"
)

// Default returns the built-in command set every session starts
// with: enough of a coreutils surface to exercise the Command ABI and
// VFS for the common attacker probes (directory listing, file
// viewing, shell state inspection).
func Default() Registry {
	return Registry{
		"pwd":     func(h Host, argv []string) Command { return NewSimple(h, cmdPwd) },
		"cd":      func(h Host, argv []string) Command { return NewSimple(h, cmdCd(argv)) },
		"ls":      func(h Host, argv []string) Command { return NewSimple(h, cmdLs(argv)) },
		"cat":     func(h Host, argv []string) Command { return NewSimple(h, cmdCat(argv)) },
		"echo":    func(h Host, argv []string) Command { return NewSimple(h, cmdEcho(argv)) },
		"env":     func(h Host, argv []string) Command { return NewSimple(h, cmdEnv) },
		"whoami":  func(h Host, argv []string) Command { return NewSimple(h, cmdWhoami) },
		"id":      func(h Host, argv []string) Command { return NewSimple(h, cmdID) },
		"uname":   func(h Host, argv []string) Command { return NewSimple(h, cmdUname(argv)) },
		"clear":   func(h Host, argv []string) Command { return NewSimple(h, cmdClear) },
		"exit":    func(h Host, argv []string) Command { return NewSimple(h, cmdExit) },
		"logout":  func(h Host, argv []string) Command { return NewSimple(h, cmdExit) },
		"mkdir":   func(h Host, argv []string) Command { return NewSimple(h, cmdMkdir(argv)) },
		"rm":      func(h Host, argv []string) Command { return NewSimple(h, cmdRm(argv)) },
		"touch":   func(h Host, argv []string) Command { return NewSimple(h, cmdTouch(argv)) },
	}
}

func cmdPwd(h Host) {
	h.Writeln(h.Cwd())
}

func cmdCd(argv []string) func(Host) {
	return func(h Host) {
		target := "/root"
		if len(argv) > 1 {
			target = argv[1]
		}
		abs, err := h.FS().ResolvePath(target, h.Cwd())
		if err != nil || !h.FS().Exists(abs) {
			h.Writeln(fmt.Sprintf("-bash: cd: %s: No such file or directory", target))
			return
		}
		n, err := h.FS().GetNode(abs)
		if err != nil || !n.IsDir() {
			h.Writeln(fmt.Sprintf("-bash: cd: %s: Not a directory", target))
			return
		}
		h.SetCwd(abs)
	}
}

func cmdLs(argv []string) func(Host) {
	args := argv[1:]
	return func(h Host) {
		targets := args
		if len(targets) == 0 {
			targets = []string{"."}
		}
		for _, t := range targets {
			abs, err := h.FS().ResolvePath(t, h.Cwd())
			if err != nil {
				h.Writeln(fmt.Sprintf("ls: cannot access '%s': No such file or directory", t))
				continue
			}
			n, err := h.FS().GetNode(abs)
			if err != nil {
				h.Writeln(fmt.Sprintf("ls: cannot access '%s': No such file or directory", t))
				continue
			}
			if !n.IsDir() {
				h.Writeln(n.Name)
				continue
			}
			children, err := h.FS().ListDir(abs)
			if err != nil {
				h.Writeln(fmt.Sprintf("ls: cannot access '%s': %s", t, err))
				continue
			}
			names := make([]string, 0, len(children))
			for _, c := range children {
				if strings.HasPrefix(c.Name, ".") {
					continue
				}
				names = append(names, c.Name)
			}
			sort.Strings(names)
			h.Writeln(strings.Join(names, "  "))
		}
	}
}

func cmdCat(argv []string) func(Host) {
	args := argv[1:]
	return func(h Host) {
		if len(args) == 0 {
			return
		}
		for _, a := range args {
			abs, err := h.FS().ResolvePath(a, h.Cwd())
			if err != nil {
				h.Writeln(fmt.Sprintf("cat: %s: No such file or directory", a))
				continue
			}
			data, err := h.FS().ReadFile(abs, 0, -1)
			if err != nil {
				switch errors.GetKind(err) {
				case errors.KindValidation:
					h.Writeln(fmt.Sprintf("cat: %s: Is a directory", a))
				default:
					h.Writeln(fmt.Sprintf("cat: %s: No such file or directory", a))
				}
				continue
			}
			h.Write(data)
			if len(data) == 0 || data[len(data)-1] != '\n' {
				h.Writeln("")
			}
		}
	}
}

func cmdEcho(argv []string) func(Host) {
	args := argv[1:]
	return func(h Host) {
		h.Writeln(strings.Join(args, " "))
	}
}

func cmdEnv(h Host) {
	env := h.Env()
	keys := make([]string, 0, len(env))
	for k := range env {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		h.Writeln(fmt.Sprintf("%s=%s", k, env[k]))
	}
}

func cmdWhoami(h Host) {
	h.Writeln("root")
}

func cmdID(h Host) {
	h.Writeln("uid=0(root) gid=0(root) groups=0(root)")
}

func cmdUname(argv []string) func(Host) {
	all := false
	for _, a := range argv[1:] {
		if a == "-a" || a == "--all" {
			all = true
		}
	}
	return func(h Host) {
		if all {
			h.Writeln(fmt.Sprintf("Linux %s 2.6.26-2-686 #1 SMP i686 GNU/Linux", h.Hostname()))
			return
		}
		h.Writeln("Linux")
	}
}

func cmdClear(h Host) {
	h.WriteString("\x1b[H\x1b[2J")
}

func cmdExit(h Host) {
	h.Terminate()
}

func cmdMkdir(argv []string) func(Host) {
	args := argv[1:]
	return func(h Host) {
		for _, a := range args {
			abs, err := h.FS().ResolvePath(a, h.Cwd())
			if err != nil {
				h.Writeln(fmt.Sprintf("mkdir: cannot create directory '%s': No such file or directory", a))
				continue
			}
			if err := h.FS().Mkdir(abs); err != nil {
				h.Writeln(fmt.Sprintf("mkdir: cannot create directory '%s': File exists", a))
			}
		}
	}
}

func cmdRm(argv []string) func(Host) {
	args := argv[1:]
	return func(h Host) {
		for _, a := range args {
			if a == "-r" || a == "-rf" || a == "-f" {
				continue
			}
			abs, err := h.FS().ResolvePath(a, h.Cwd())
			if err != nil {
				h.Writeln(fmt.Sprintf("rm: cannot remove '%s': No such file or directory", a))
				continue
			}
			if err := h.FS().Unlink(abs); err != nil {
				h.Writeln(fmt.Sprintf("rm: cannot remove '%s': No such file or directory", a))
			}
		}
	}
}

func cmdTouch(argv []string) func(Host) {
	args := argv[1:]
	return func(h Host) {
		for _, a := range args {
			abs, err := h.FS().ResolvePath(a, h.Cwd())
			if err != nil {
				h.Writeln(fmt.Sprintf("touch: cannot touch '%s': No such file or directory", a))
				continue
			}
			if h.FS().Exists(abs) {
				continue
			}
			dir := path.Dir(abs)
			if !h.FS().Exists(dir) {
				h.Writeln(fmt.Sprintf("touch: cannot touch '%s': No such file or directory", a))
				continue
			}
			h.FS().WriteFile(abs, nil, true)
		}
	}
}

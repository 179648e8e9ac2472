// Copyright (C) 2026 sshpot contributors. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

// Command replay plays back a recorded tty session log in a terminal
// UI, honouring the session's original timing at a selectable speed.
package main

import (
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/duskwatch/sshpot/internal/replay"
	"github.com/duskwatch/sshpot/internal/ttylog"
)

func main() {
	speedFlag := flag.Float64("speed", 1, "initial playback speed multiplier (0 for instant)")
	flag.Parse()

	args := flag.Args()
	if len(args) != 1 {
		fmt.Fprintln(os.Stderr, "usage: replay <tty-log-file>")
		os.Exit(2)
	}

	f, err := os.Open(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "replay: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	events, err := ttylog.NewReader(f).ReadAll()
	if err != nil {
		fmt.Fprintf(os.Stderr, "replay: %v\n", err)
		os.Exit(1)
	}

	model := replay.New(events, replay.Speed(*speedFlag))
	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "replay: %v\n", err)
		os.Exit(1)
	}
}

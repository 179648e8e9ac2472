// Copyright (C) 2026 sshpot contributors. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

// Package replay implements the bubbletea TUI that replays a recorded
// tty session log, honouring the original inter-event timing at a
// selectable speed.
package replay

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/duskwatch/sshpot/internal/ttylog"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42"))
	footerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// Speed is a playback multiplier. 0 means instant (no inter-event
// delay at all).
type Speed float64

const (
	Speed1x Speed = 1
	Speed2x Speed = 2
	Speed4x Speed = 4
	SpeedInstant Speed = 0
)

func (s Speed) String() string {
	if s == SpeedInstant {
		return "instant"
	}
	return fmt.Sprintf("%gx", float64(s))
}

// tickMsg carries the index of the event that should now be applied.
type tickMsg int

// Model is the replay TUI's bubbletea model.
type Model struct {
	events []ttylog.Event
	idx    int
	speed  Speed
	paused bool

	buf      strings.Builder
	viewport viewport.Model
	ready    bool

	width, height int
}

// New builds a Model over the events decoded from a tty log, starting
// at the given speed.
func New(events []ttylog.Event, speed Speed) Model {
	return Model{events: events, speed: speed}
}

func (m Model) Init() tea.Cmd {
	return m.scheduleNext()
}

// scheduleNext returns the command that advances to event m.idx after
// the delay since the previous event, scaled by the playback speed and
// capped at two seconds.
func (m Model) scheduleNext() tea.Cmd {
	if m.idx >= len(m.events) || m.paused {
		return nil
	}
	idx := m.idx
	if m.speed == SpeedInstant {
		return func() tea.Msg { return tickMsg(idx) }
	}
	delay := time.Duration(0)
	if idx > 0 {
		delay = m.events[idx].Timestamp.Sub(m.events[idx-1].Timestamp)
	}
	if delay < 0 {
		delay = 0
	}
	scaled := time.Duration(float64(delay) / float64(m.speed))
	if scaled > 2*time.Second {
		scaled = 2 * time.Second
	}
	return tea.Tick(scaled, func(time.Time) tea.Msg { return tickMsg(idx) })
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		headerHeight := 1
		footerHeight := 1
		vpHeight := msg.Height - headerHeight - footerHeight
		if vpHeight < 0 {
			vpHeight = 0
		}
		if !m.ready {
			m.viewport = viewport.New(msg.Width, vpHeight)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = vpHeight
		}
		m.viewport.SetContent(m.buf.String())

	case tickMsg:
		if int(msg) == m.idx && m.idx < len(m.events) {
			e := m.events[m.idx]
			if e.Op == ttylog.OpWrite {
				m.buf.Write(e.Payload)
				if m.ready {
					m.viewport.SetContent(m.buf.String())
					m.viewport.GotoBottom()
				}
			}
			m.idx++
		}
		return m, m.scheduleNext()

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.paused = !m.paused
			if !m.paused {
				return m, m.scheduleNext()
			}
		case "1":
			m.speed = Speed1x
			return m, m.scheduleNext()
		case "2":
			m.speed = Speed2x
			return m, m.scheduleNext()
		case "4":
			m.speed = Speed4x
			return m, m.scheduleNext()
		case "0":
			m.speed = SpeedInstant
			return m, m.scheduleNext()
		}
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if !m.ready {
		return "loading...\n"
	}
	status := "playing"
	if m.paused {
		status = "paused"
	}
	if m.idx >= len(m.events) {
		status = "done"
	}
	header := headerStyle.Render(fmt.Sprintf(" sshpot replay — event %d/%d ", m.idx, len(m.events)))
	footer := footerStyle.Render(fmt.Sprintf(" [%s] speed=%s  1/2/4/0 speed  space pause  q quit ", status, m.speed))
	return lipgloss.JoinVertical(lipgloss.Left, header, m.viewport.View(), footer)
}

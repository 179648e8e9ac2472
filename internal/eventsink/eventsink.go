// Copyright (C) 2026 sshpot contributors. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

// Package eventsink implements the honeypot's pluggable event sink: a
// single Emit operation fed every connection, auth-attempt,
// auth-success, command, and channel-close event, selected by the
// operator's configured engine the way the original selects
// database.engine.
package eventsink

import (
	"time"
)

// Kind identifies the category of a logged event.
type Kind string

const (
	KindConnection   Kind = "connection"
	KindAuthAttempt  Kind = "auth-attempt"
	KindAuthSuccess  Kind = "auth-success"
	KindCommand      Kind = "command"
	KindChannelClose Kind = "channel-close"
)

// Event carries the minimal fields every kind shares, plus a
// free-form payload for kind-specific fields (e.g. the attempted
// password on auth-attempt, the argv on command, the captured
// terminal title on channel-close).
type Event struct {
	Timestamp time.Time
	SessionID string
	Kind      Kind
	Payload   map[string]any
}

// Sink receives every connection, auth-attempt, auth-success,
// command, and channel-close event the honeypot emits.
type Sink interface {
	Emit(Event) error
}

// Multi fans an event out to every sink it wraps, collecting the first
// error but still attempting the rest.
type Multi struct {
	sinks []Sink
}

// NewMulti combines sinks into a single Sink.
func NewMulti(sinks ...Sink) *Multi {
	return &Multi{sinks: sinks}
}

func (m *Multi) Emit(e Event) error {
	var first error
	for _, s := range m.sinks {
		if err := s.Emit(e); err != nil && first == nil {
			first = err
		}
	}
	return first
}

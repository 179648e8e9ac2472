// Copyright (C) 2026 sshpot contributors. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

package eventsink

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/duskwatch/sshpot/internal/errors"
	"github.com/duskwatch/sshpot/internal/logging"
)

// NoneSink discards every event. Selected by database.engine = "none"
// or when the config omits the database block entirely.
type NoneSink struct{}

func (NoneSink) Emit(Event) error { return nil }

// LogSink forwards events to internal/logging at info level. Selected
// by database.engine = "log".
type LogSink struct {
	logger *logging.Logger
}

// NewLogSink wraps logger, or the package default if logger is nil.
func NewLogSink(logger *logging.Logger) *LogSink {
	if logger == nil {
		logger = logging.Default()
	}
	return &LogSink{logger: logger}
}

func (s *LogSink) Emit(e Event) error {
	kv := make([]interface{}, 0, 4+2*len(e.Payload))
	kv = append(kv, "session_id", e.SessionID, "timestamp", e.Timestamp.Format("2006-01-02T15:04:05.000Z07:00"))
	for k, v := range e.Payload {
		kv = append(kv, k, v)
	}
	s.logger.Info(string(e.Kind), kv...)
	return nil
}

// JSONLSink appends one JSON object per line to a file under dir named
// for the day of the event's timestamp, e.g. 2026-08-01.jsonl. Selected by
// database.engine = "jsonl".
type JSONLSink struct {
	dir string

	mu      sync.Mutex
	day     string
	file    *os.File
	encoder *json.Encoder
}

type jsonlRecord struct {
	Timestamp string         `json:"timestamp"`
	SessionID string         `json:"session_id"`
	EventKind Kind           `json:"event_kind"`
	Payload   map[string]any `json:"payload,omitempty"`
}

// NewJSONLSink writes newline-delimited JSON event records under dir.
func NewJSONLSink(dir string) (*JSONLSink, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, errors.Wrapf(err, errors.KindUnavailable, "create event log dir %s", dir)
	}
	return &JSONLSink{dir: dir}, nil
}

func (s *JSONLSink) Emit(e Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	day := e.Timestamp.Format("2006-01-02")
	if day != s.day || s.file == nil {
		if s.file != nil {
			s.file.Close()
		}
		path := filepath.Join(s.dir, day+".jsonl")
		f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
		if err != nil {
			return errors.Wrapf(err, errors.KindUnavailable, "open event log %s", path)
		}
		s.file = f
		s.encoder = json.NewEncoder(f)
		s.day = day
	}

	return s.encoder.Encode(jsonlRecord{
		Timestamp: e.Timestamp.Format(time.RFC3339Nano),
		SessionID: e.SessionID,
		EventKind: e.Kind,
		Payload:   e.Payload,
	})
}

// Close releases the currently open log file, if any.
func (s *JSONLSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.file == nil {
		return nil
	}
	err := s.file.Close()
	s.file = nil
	return err
}

// New selects a built-in engine by name, matching the configured
// database.engine option. Unknown engines fall back to NoneSink.
func New(engine string, logDir string) (Sink, error) {
	switch engine {
	case "", "none":
		return NoneSink{}, nil
	case "log":
		return NewLogSink(nil), nil
	case "jsonl":
		return NewJSONLSink(filepath.Join(logDir, "events"))
	default:
		return NoneSink{}, nil
	}
}

// Copyright (C) 2026 sshpot contributors. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

// Package ttylog records and replays the framed binary event log of a
// session's raw I/O, suitable for time-accurate replay.
package ttylog

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/duskwatch/sshpot/internal/clock"
	"github.com/duskwatch/sshpot/internal/errors"
)

// Op identifies the kind of a logged event.
type Op uint32

const (
	OpRead  Op = 1 // client -> server
	OpWrite Op = 2 // server -> client
	OpOpen  Op = 3 // session start marker, zero-length payload
)

// Event is one decoded frame from a log.
type Event struct {
	Op        Op
	Timestamp time.Time
	Payload   []byte
}

// Writer appends framed events to a per-session log file. Opened
// before the first byte is decoded and closed exactly once on
// disconnect; a second Close is a no-op.
type Writer struct {
	mu     sync.Mutex
	file   *os.File
	closed bool
}

// Path returns the log file path for a session starting at start,
// under <logDir>/tty/. A random UUID disambiguates sessions that
// start within the same second.
func Path(logDir string, start time.Time) string {
	return filepath.Join(logDir, "tty", fmt.Sprintf("%d-%s.log", start.Unix(), uuid.NewString()))
}

// Open creates the log file (and its tty/ parent directory) and
// writes the initial OPEN event stamped at clock.Now().
func Open(path string) (*Writer, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, errors.Wrapf(err, errors.KindUnavailable, "create tty log dir for %s", path)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return nil, errors.Wrapf(err, errors.KindUnavailable, "open tty log %s", path)
	}
	w := &Writer{file: f}
	if err := w.writeFrame(OpOpen, clock.Now(), nil); err != nil {
		f.Close()
		return nil, err
	}
	return w, nil
}

// Read logs an inbound keystroke chunk from the attacker.
func (w *Writer) Read(payload []byte) error {
	return w.writeFrame(OpRead, clock.Now(), payload)
}

// Write logs an outbound write to the attacker.
func (w *Writer) Write(payload []byte) error {
	return w.writeFrame(OpWrite, clock.Now(), payload)
}

func (w *Writer) writeFrame(op Op, ts time.Time, payload []byte) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return nil
	}

	var header [16]byte
	binary.BigEndian.PutUint32(header[0:4], uint32(op))
	binary.BigEndian.PutUint32(header[4:8], uint32(len(payload)))
	binary.BigEndian.PutUint32(header[8:12], uint32(ts.Unix()))
	binary.BigEndian.PutUint32(header[12:16], uint32(ts.Nanosecond()/1000))

	if _, err := w.file.Write(header[:]); err != nil {
		return errors.Wrap(err, errors.KindUnavailable, "write tty log frame header")
	}
	if len(payload) > 0 {
		if _, err := w.file.Write(payload); err != nil {
			return errors.Wrap(err, errors.KindUnavailable, "write tty log frame payload")
		}
	}
	return nil
}

// Close closes the underlying file. Safe to call more than once.
func (w *Writer) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return nil
	}
	w.closed = true
	return w.file.Close()
}

// Reader decodes a sequence of Events from a log file, for replay.
type Reader struct {
	r io.Reader
}

// NewReader wraps r for sequential event decoding.
func NewReader(r io.Reader) *Reader {
	return &Reader{r: r}
}

// ReadEvent decodes the next frame, or io.EOF at end of file.
func (r *Reader) ReadEvent() (Event, error) {
	var header [16]byte
	if _, err := io.ReadFull(r.r, header[:]); err != nil {
		if err == io.ErrUnexpectedEOF {
			return Event{}, errors.Wrap(err, errors.KindDecoder, "truncated tty log frame header")
		}
		return Event{}, err
	}

	op := Op(binary.BigEndian.Uint32(header[0:4]))
	length := binary.BigEndian.Uint32(header[4:8])
	sec := binary.BigEndian.Uint32(header[8:12])
	usec := binary.BigEndian.Uint32(header[12:16])

	payload := make([]byte, length)
	if length > 0 {
		if _, err := io.ReadFull(r.r, payload); err != nil {
			return Event{}, errors.Wrap(err, errors.KindDecoder, "truncated tty log frame payload")
		}
	}

	return Event{
		Op:        op,
		Timestamp: time.Unix(int64(sec), int64(usec)*1000).UTC(),
		Payload:   payload,
	}, nil
}

// ReadAll decodes every event in the stream.
func (r *Reader) ReadAll() ([]Event, error) {
	var events []Event
	for {
		e, err := r.ReadEvent()
		if err == io.EOF {
			return events, nil
		}
		if err != nil {
			return events, err
		}
		events = append(events, e)
	}
}

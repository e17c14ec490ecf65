// Package serialsink wraps a serial device as a write-only byte sink.
package serialsink

import (
	"fmt"
	"io"

	"github.com/pkg/errors"
	"go.bug.st/serial"
)

// Port is the minimal surface a Sink needs from a serial port.
type Port interface {
	io.Writer
	io.Closer
}

// Sink is a configured serial device. It is created exactly once and owned by
// a single writer for the process lifetime.
type Sink struct {
	port   Port
	tuning int
}

// Open configures the serial device at the given baud rate and returns a sink
// for it. tuning is an opaque device word; it is kept on the sink but never
// interpreted. An error here means the device could not be configured, which
// the caller treats as fatal.
func Open(device string, baud, tuning int) (*Sink, error) {
	port, err := serial.Open(device, &serial.Mode{
		BaudRate: baud,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to open serial port")
	}
	return New(port, tuning), nil
}

// New wraps an already opened port.
func New(port Port, tuning int) *Sink {
	return &Sink{
		port:   port,
		tuning: tuning,
	}
}

// Tuning returns the opaque tuning word the sink was configured with.
func (s *Sink) Tuning() int { return s.tuning }

// WriteString writes the whole of msg to the device, looping on short writes.
// It blocks until the device (or its buffer) has accepted every byte.
func (s *Sink) WriteString(msg string) error {
	b := []byte(msg)
	for len(b) > 0 {
		n, err := s.port.Write(b)
		if err != nil {
			return errors.Wrap(err, "failed to write to serial port")
		}
		b = b[n:]
	}
	return nil
}

// Close closes the underlying port.
func (s *Sink) Close() error {
	return s.port.Close()
}

// String implements fmt.Stringer.
func (s *Sink) String() string {
	return fmt.Sprintf("serialsink.Sink(tuning=%d)", s.tuning)
}

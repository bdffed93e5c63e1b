// Package gpm8212 implements the serial protocol of the GWInstek GPM-8212 power
// meter.
package gpm8212

import (
	"io"
	"reflect"

	log "github.com/sirupsen/logrus"
	"github.com/twinj/uuid"
)

// Meter represents a GWInstek GPM-8212 power meter on an open connection.
//
// A Meter is not safe for concurrent use. Commands and responses carry no
// correlation, so callers must serialize access to it.
type Meter struct {
	reader io.Reader
	writer io.Writer
	shared bool

	maxResponseLength int

	log *log.Entry
}

// Option configures a Meter.
type Option func(*Meter)

// WithMaxResponseLength limits the number of bytes read for a single
// response. Zero, the default, means unbounded.
func WithMaxResponseLength(n int) Option {
	return func(m *Meter) {
		m.maxResponseLength = n
	}
}

// New returns a Meter communicating over the given connection.
func New(rw io.ReadWriter, options ...Option) *Meter {
	if rw == nil {
		panic("gpm8212: nil connection")
	}

	m := newMeter(rw, rw, options)
	m.shared = true

	return m
}

// NewSplit returns a Meter that reads responses from r and writes commands to
// w. On Close, both halves are closed if they implement io.Closer.
func NewSplit(r io.Reader, w io.Writer, options ...Option) *Meter {
	if r == nil || w == nil {
		panic("gpm8212: nil connection")
	}

	m := newMeter(r, w, options)
	m.shared = sameConnection(r, w)

	return m
}

// sameConnection reports whether r and w hold the same value. Values of
// non-comparable types are never considered the same.
func sameConnection(r io.Reader, w io.Writer) bool {
	t := reflect.TypeOf(r)

	if t != reflect.TypeOf(w) || !t.Comparable() {
		return false
	}

	return interface{}(r) == interface{}(w)
}

func newMeter(r io.Reader, w io.Writer, options []Option) *Meter {
	m := &Meter{
		reader: r,
		writer: w,
		log:    log.WithField("session", uuid.NewV4().String()),
	}

	for _, option := range options {
		option(m)
	}

	return m
}

// SetDataHoldEnabled enables or disables data hold.
func (m *Meter) SetDataHoldEnabled(enabled bool) error {
	if enabled {
		return m.sendCommand(CommandHoldOn)
	}

	return m.sendCommand(CommandHoldOff)
}

// SetMeasurementStatus selects whether the maximum, minimum or normal value is
// reported.
func (m *Meter) SetMeasurementStatus(status MeasurementStatus) error {
	command, err := status.Mnemonic()

	if err != nil {
		return err
	}

	return m.sendCommand(command)
}

// SetVoltRange sets the volt range.
func (m *Meter) SetVoltRange(r VoltRange) error {
	command, err := r.Mnemonic()

	if err != nil {
		return err
	}

	return m.sendCommand(command)
}

// SetAmpRange sets the amp range.
func (m *Meter) SetAmpRange(r AmpRange) error {
	command, err := r.Mnemonic()

	if err != nil {
		return err
	}

	return m.sendCommand(command)
}

// Query sends the query for the given quantity and returns the reading. It
// blocks until the meter responds; wrap the call if a deadline is needed.
func (m *Meter) Query(q Quantity) (Reading, error) {
	command, err := q.Mnemonic()

	if err != nil {
		return "", err
	}

	response, err := m.sendCommandAndGetResults(command)

	if err != nil {
		return "", err
	}

	return Reading(response), nil
}

// Voltage returns the voltage reading.
func (m *Meter) Voltage() (Reading, error) {
	return m.Query(Voltage)
}

// Current returns the current reading.
func (m *Meter) Current() (Reading, error) {
	return m.Query(Current)
}

// Watt returns the power reading.
func (m *Meter) Watt() (Reading, error) {
	return m.Query(Watt)
}

// PF returns the power factor reading.
func (m *Meter) PF() (Reading, error) {
	return m.Query(PowerFactor)
}

// Hz returns the frequency reading.
func (m *Meter) Hz() (Reading, error) {
	return m.Query(Frequency)
}

// Close closes the underlying connection. When reader and writer are separate
// closers, both are closed even if the first one fails.
func (m *Meter) Close() error {
	var writeErr, readErr error

	if c, ok := m.writer.(io.Closer); ok {
		writeErr = c.Close()
	}

	if !m.shared {
		if c, ok := m.reader.(io.Closer); ok {
			readErr = c.Close()
		}
	}

	if writeErr != nil && readErr != nil {
		return &CloseError{Write: writeErr, Read: readErr}
	} else if writeErr != nil {
		return writeErr
	}

	return readErr
}

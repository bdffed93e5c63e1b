// Package emulator provides a simulated GPM-8212 power meter for tests and
// dry runs.
package emulator

import (
	"bufio"
	"context"
	"io"
	"strings"
	"sync"

	"github.com/acomagu/bufpipe"
	"github.com/basilfx/go-utilities/taskrunner"
	log "github.com/sirupsen/logrus"
)

// Terminator delimits commands and responses on the wire.
const Terminator = '\r'

// defaultReadings are the values answered to the query commands.
var defaultReadings = map[string]string{
	"V00": "120.5",
	"V01": "0.250",
	"V02": "30.12",
	"V03": "0.998",
	"V04": "60.00",
}

// DefaultReadings returns the values a new device answers to the query
// commands.
func DefaultReadings() map[string]string {
	readings := make(map[string]string, len(defaultReadings))

	for k, v := range defaultReadings {
		readings[k] = v
	}

	return readings
}

// Device represents a simulated meter. The host side of the connection is
// exposed through Read, Write and Close.
type Device struct {
	hostReader   *bufpipe.PipeReader
	deviceWriter *bufpipe.PipeWriter

	deviceReader *bufpipe.PipeReader
	hostWriter   *bufpipe.PipeWriter

	taskRunner *taskrunner.TaskRunner
	closeOnce  sync.Once

	lock      sync.Mutex
	hold      bool
	status    string
	voltRange string
	ampRange  string
	readings  map[string]string
	held      map[string]string
	commands  []string
}

// New returns a running simulated meter.
func New() *Device {
	d := &Device{
		status:     "F04",
		voltRange:  "R16",
		ampRange:   "R17",
		readings:   DefaultReadings(),
		taskRunner: taskrunner.New(),
	}

	d.hostReader, d.deviceWriter = bufpipe.New(nil)
	d.deviceReader, d.hostWriter = bufpipe.New(nil)

	d.taskRunner.RunWithCancel("Device.Emulator", d.emulateTask)

	return d
}

// Read implements the read method.
func (d *Device) Read(p []byte) (n int, err error) {
	return d.hostReader.Read(p)
}

// Write implements the write method.
func (d *Device) Write(p []byte) (n int, err error) {
	return d.hostWriter.Write(p)
}

// Reader returns the half of the connection that carries responses.
func (d *Device) Reader() io.ReadCloser {
	return d.hostReader
}

// Writer returns the half of the connection that carries commands.
func (d *Device) Writer() io.WriteCloser {
	return d.hostWriter
}

// Close stops the emulation and closes both halves of the connection.
func (d *Device) Close() error {
	d.closeOnce.Do(func() {
		d.taskRunner.Cancel()

		d.hostWriter.Close()
		d.deviceWriter.Close()

		d.taskRunner.Wait()

		d.hostReader.Close()
		d.deviceReader.Close()
	})

	return nil
}

// SetReading changes the value answered to a query command, e.g. "V00".
func (d *Device) SetReading(command string, value string) {
	d.lock.Lock()
	defer d.lock.Unlock()

	d.readings[command] = value
}

// DeleteReading removes the value for a query command. The device then leaves
// that query unanswered.
func (d *Device) DeleteReading(command string) {
	d.lock.Lock()
	defer d.lock.Unlock()

	delete(d.readings, command)
}

// Hold returns whether data hold is enabled.
func (d *Device) Hold() bool {
	d.lock.Lock()
	defer d.lock.Unlock()

	return d.hold
}

// MeasurementStatus returns the last measurement status command.
func (d *Device) MeasurementStatus() string {
	d.lock.Lock()
	defer d.lock.Unlock()

	return d.status
}

// VoltRange returns the last volt range command.
func (d *Device) VoltRange() string {
	d.lock.Lock()
	defer d.lock.Unlock()

	return d.voltRange
}

// AmpRange returns the last amp range command.
func (d *Device) AmpRange() string {
	d.lock.Lock()
	defer d.lock.Unlock()

	return d.ampRange
}

// Commands returns all received commands in order.
func (d *Device) Commands() []string {
	d.lock.Lock()
	defer d.lock.Unlock()

	return append([]string(nil), d.commands...)
}

func (d *Device) emulateTask(ctx context.Context) {
	reader := bufio.NewReader(d.deviceReader)

	for {
		line, err := reader.ReadString(Terminator)

		if err != nil {
			if err != io.EOF {
				log.Errorf("Emulator error while reading: %v", err)
			}

			log.Debugf("Emulator task stopped.")
			return
		}

		select {
		case <-ctx.Done():
			log.Debugf("Emulator task stopped.")
			return
		default:
			// Pass on.
		}

		response, ok := d.handle(strings.TrimSuffix(line, string(Terminator)))

		if !ok {
			continue
		}

		_, err = d.deviceWriter.Write([]byte(response + string(Terminator)))

		if err != nil {
			log.Errorf("Emulator error while writing: %v", err)
			return
		}
	}
}

// handle applies a command and returns the response, if any.
func (d *Device) handle(command string) (string, bool) {
	d.lock.Lock()
	defer d.lock.Unlock()

	log.Debugf("Emulator incoming: %s", command)

	d.commands = append(d.commands, command)

	switch {
	case command == "F00":
		d.hold = true
		d.held = map[string]string{}

		for k, v := range d.readings {
			d.held[k] = v
		}
	case command == "F01":
		d.hold = false
		d.held = nil
	case command == "F02" || command == "F03" || command == "F04":
		d.status = command
	case isRange(command, 0, 7) || command == "R16":
		d.voltRange = command
	case isRange(command, 8, 15) || command == "R17":
		d.ampRange = command
	case strings.HasPrefix(command, "V"):
		readings := d.readings

		if d.hold {
			readings = d.held
		}

		if v, ok := readings[command]; ok {
			return v, true
		}

		log.Warnf("Emulator has no reading for %s.", command)
	default:
		log.Warnf("Emulator received unknown command: %s", command)
	}

	return "", false
}

// isRange reports whether command is an R command with a code in [lo, hi].
func isRange(command string, lo, hi int) bool {
	if len(command) != 3 || command[0] != 'R' {
		return false
	}

	if command[1] < '0' || command[1] > '9' || command[2] < '0' || command[2] > '9' {
		return false
	}

	code := int(command[1]-'0')*10 + int(command[2]-'0')

	return code >= lo && code <= hi
}

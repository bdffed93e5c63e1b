package gpm8212

import (
	"io"
)

// sendCommand writes the mnemonic followed by the terminator.
func (m *Meter) sendCommand(command string) error {
	frame := make([]byte, 0, len(command)+1)
	frame = append(frame, command...)
	frame = append(frame, Terminator)

	m.log.Debugf("Meter outgoing: %q", frame)

	// Writers may accept part of the frame without an error.
	for len(frame) > 0 {
		n, err := m.writer.Write(frame)

		if err != nil {
			return &TransportError{Op: "write", Mnemonic: command, Err: err}
		} else if n == 0 {
			return &TransportError{Op: "write", Mnemonic: command, Err: io.ErrShortWrite}
		}

		frame = frame[n:]
	}

	return nil
}

// sendCommandAndGetResults sends a command and reads the response up to, but
// not including, the terminator. Reads that return no data, such as an expired
// serial read timeout, are retried.
func (m *Meter) sendCommandAndGetResults(command string) (string, error) {
	err := m.sendCommand(command)

	if err != nil {
		return "", err
	}

	var buf [1]byte
	response := make([]byte, 0, 16)

	for {
		n, err := m.reader.Read(buf[:])

		if n > 0 {
			if buf[0] == Terminator {
				break
			}

			if m.maxResponseLength > 0 && len(response) >= m.maxResponseLength {
				return "", &TransportError{Op: "read", Mnemonic: command, Err: ErrResponseTooLong}
			}

			response = append(response, buf[0])
		}

		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}

		if err != nil {
			return "", &TransportError{Op: "read", Mnemonic: command, Err: err}
		}
	}

	m.log.Debugf("Meter incoming: %q", response)

	return string(response), nil
}

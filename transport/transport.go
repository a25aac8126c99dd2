// Package transport implements the serial upload protocol BreadLang
// speaks to the Arduino-based EEPROM programmer: port discovery, an
// Erase/Write/Ready/Verify/Stop command handshake, chunked writes, and
// a verify-by-readback pass.
//
// This is a direct port of upload.rs's protocol, restructured around a
// small Port interface (instead of a concrete serialport::SerialPort)
// so the handshake logic is exercised by tests without real hardware.
// Real ports are opened with go.bug.st/serial, the ecosystem library
// matching the Rust original's own serialport dependency — the pack's
// only serial-adjacent file is a single-OS termios/ioctl reimplementation,
// not a portable high-level API, so it was not suitable as the
// grounding source for this package's actual transport.
package transport

import (
	"io"
	"time"

	"github.com/pkg/errors"
	"go.bug.st/serial"
)

// Command is one byte of the upload protocol's command vocabulary.
type Command byte

// The five commands the Arduino programmer sketch understands.
const (
	CmdErase  Command = 0
	CmdWrite  Command = 1
	CmdReady  Command = 2
	CmdVerify Command = 3
	CmdStop   Command = 4
)

// Port is the minimal serial port surface the upload protocol needs.
// serial.Port (go.bug.st/serial) satisfies it directly.
type Port interface {
	io.ReadWriter
	io.Closer
}

// DefaultChunkSize is the number of program bytes written per Write
// command, matching the original programmer sketch's 60-byte buffer.
const DefaultChunkSize = 60

// ListPorts enumerates the serial ports available on this host.
func ListPorts() ([]string, error) {
	ports, err := serial.GetPortsList()
	if err != nil {
		return nil, errors.Wrap(err, "failed to list serial ports")
	}
	return ports, nil
}

// Open opens name at baud 8N1 with a 1-second read timeout, matching
// the programmer's expected link settings.
func Open(name string, baud int) (Port, error) {
	mode := &serial.Mode{BaudRate: baud}
	port, err := serial.Open(name, mode)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open serial port %s", name)
	}
	if err := port.SetReadTimeout(time.Second); err != nil {
		port.Close()
		return nil, errors.Wrap(err, "failed to set read timeout")
	}
	return port, nil
}

// Progress is called periodically during Upload with the number of
// bytes written so far and the total program length.
type Progress func(sent, total int)

// Upload writes program to port in chunkSize-sized buffers, following
// the Ready/Erase/Write handshake, performs a byte-by-byte verify pass
// by reading the programmed image back, then sends Stop.
func Upload(port Port, program []byte, chunkSize int, onProgress Progress) error {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	if err := waitUntilReady(port); err != nil {
		return err
	}
	if err := writeCommand(port, CmdErase); err != nil {
		return err
	}
	if err := waitUntilReady(port); err != nil {
		return err
	}

	for offset := 0; offset < len(program); offset += chunkSize {
		end := offset + chunkSize
		if end > len(program) {
			end = len(program)
		}
		if err := writeCommand(port, CmdWrite); err != nil {
			return err
		}
		if _, err := port.Write(program[offset:end]); err != nil {
			return errors.Wrap(err, "failed to write program chunk")
		}
		if err := waitUntilReady(port); err != nil {
			return err
		}
		if onProgress != nil {
			onProgress(end, len(program))
		}
	}

	if err := writeCommand(port, CmdVerify); err != nil {
		return err
	}
	readback := make([]byte, len(program))
	if _, err := io.ReadFull(port, readback); err != nil {
		return errors.Wrap(err, "failed to read back program for verification")
	}
	for addr, want := range program {
		if readback[addr] != want {
			return errors.Errorf("verification failed at address %d: wrote %#02x, read %#02x", addr, want, readback[addr])
		}
	}

	return writeCommand(port, CmdStop)
}

func writeCommand(port Port, cmd Command) error {
	_, err := port.Write([]byte{byte(cmd)})
	if err != nil {
		return errors.Wrapf(err, "failed to write command %d", cmd)
	}
	return nil
}

// waitUntilReady blocks reading single bytes from port until it sees
// CmdReady, matching the programmer sketch's own synchronization
// handshake after each phase of the upload.
func waitUntilReady(port Port) error {
	buf := make([]byte, 1)
	for {
		n, err := port.Read(buf)
		if err != nil {
			return errors.Wrap(err, "failed waiting for programmer ready signal")
		}
		if n == 1 && Command(buf[0]) == CmdReady {
			return nil
		}
	}
}

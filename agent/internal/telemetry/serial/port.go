// Package serial adapts a UART-attached GPS receiver to the telemetry
// Source interface. The port is opened receive-only in spirit: nothing is
// ever written to it, and the short read timeout turns the blocking serial
// read into the drain-what-is-buffered semantics the assembler needs.
package serial

import (
	"errors"
	"fmt"
	"io"
	"time"

	gserial "github.com/goburrow/serial"
)

// Config holds the port settings for the location receiver.
type Config struct {
	// Device is the serial device path, e.g. /dev/ttyAMA0.
	Device string

	// BaudRate is the receiver's fixed rate, typically 9600 for NMEA.
	BaudRate int

	// ReadTimeout is how long a read waits before the port is considered
	// drained. Keep it small: it is the upper bound a telemetry poll can
	// spend discovering there is nothing to read.
	ReadTimeout time.Duration
}

// Port wraps an open serial port as a telemetry.Source.
type Port struct {
	p gserial.Port
}

// Open opens the serial device 8N1 at the configured baud rate.
func Open(cfg Config) (*Port, error) {
	if cfg.Device == "" {
		return nil, errors.New("serial: device required")
	}
	if cfg.BaudRate <= 0 {
		return nil, errors.New("serial: baud rate must be positive")
	}
	if cfg.ReadTimeout <= 0 {
		return nil, errors.New("serial: read timeout must be positive")
	}

	p, err := gserial.Open(&gserial.Config{
		Address:  cfg.Device,
		BaudRate: cfg.BaudRate,
		DataBits: 8,
		StopBits: 1,
		Parity:   "N",
		Timeout:  cfg.ReadTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("serial: open %s: %w", cfg.Device, err)
	}
	return &Port{p: p}, nil
}

// ReadAvailable reads bytes already buffered by the receiver. A read
// timeout means the buffer is drained and is reported as (n, nil) so the
// assembler treats it as end-of-available rather than a fault.
func (p *Port) ReadAvailable(buf []byte) (int, error) {
	n, err := p.p.Read(buf)
	if err != nil {
		if errors.Is(err, gserial.ErrTimeout) || errors.Is(err, io.EOF) {
			return n, nil
		}
		return n, fmt.Errorf("serial: read: %w", err)
	}
	return n, nil
}

// Close releases the serial device.
func (p *Port) Close() error {
	return p.p.Close()
}

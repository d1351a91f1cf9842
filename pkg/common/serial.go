//go:build !pico

package common

import (
	"fmt"
	"time"

	"github.com/tarm/serial"
)

// OpenSerial opens a tty with 8N1 framing. pollTimeout bounds every single Read call,
// tarm/serial rounds it to tenths of a second.
func OpenSerial(tty string, baud int, pollTimeout time.Duration) (*serial.Port, error) {
	// a zero ReadTimeout makes every Read wait for the next byte
	if pollTimeout <= 0 {
		return nil, fmt.Errorf("failed to open serial port %s, poll timeout must be positive, got %s", tty, pollTimeout)
	}
	config := &serial.Config{
		Name:        tty,
		Baud:        baud,
		Size:        8,
		Parity:      serial.ParityNone,
		StopBits:    serial.Stop1,
		ReadTimeout: pollTimeout,
	}
	port, err := serial.OpenPort(config)
	if err != nil {
		return nil, fmt.Errorf("failed to open serial port %s, err: %w", tty, err)
	}
	return port, nil
}

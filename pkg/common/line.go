package common

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/mbalug7/go-by8301-hx711/pkg/hal"
)

const (
	readChunk    = 512
	pollInterval = time.Millisecond
)

// Line reads and writes one serial port with deadline bounded polling
type Line struct {
	port hal.SerialPort
	idle time.Duration    // quiet gap that ends a burst
	now  func() time.Time // must carry a monotonic reading
}

// NewLine wraps port. A burst ends once no byte arrived for idle, which should
// span several character times at the line's baud rate.
func NewLine(port hal.SerialPort, idle time.Duration) *Line {
	if idle < pollInterval {
		idle = pollInterval
	}
	return &Line{port: port, idle: idle, now: time.Now}
}

// Discard drops everything received but not read yet
func (obj *Line) Discard() error {
	err := obj.port.Flush()
	if err != nil {
		return fmt.Errorf("failed to flush serial input: %w", err)
	}
	return nil
}

func (obj *Line) Write(data []byte) error {
	n, err := obj.port.Write(data)
	if err != nil {
		return fmt.Errorf("failed to send data, err: %w", err)
	}
	if n != len(data) {
		return fmt.Errorf("failed to send data, short write %d of %d bytes", n, len(data))
	}
	return nil
}

// ReadBurst polls the port and accumulates bytes until the line stays quiet for
// the idle gap after some data arrived, or until timeout elapses. No Read starts
// after the deadline, but a blocking port may overrun it by one read timeout.
// An empty result is not an error.
func (obj *Line) ReadBurst(timeout time.Duration) ([]byte, error) {
	deadline := obj.now().Add(timeout)
	buf := make([]byte, readChunk)
	var data []byte
	var lastByte time.Time
	for {
		now := obj.now()
		if !now.Before(deadline) {
			break
		}
		if len(data) > 0 && now.Sub(lastByte) >= obj.idle {
			break
		}
		n, err := obj.port.Read(buf)
		if n > 0 {
			data = append(data, buf[:n]...)
			lastByte = obj.now()
		}
		if err != nil && !errors.Is(err, io.EOF) {
			return data, fmt.Errorf("failed to receive data: %w", err)
		}
		if n == 0 {
			time.Sleep(pollInterval)
		}
	}
	return data, nil
}

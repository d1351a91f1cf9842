package hal

import "time"

// SerialPort is the byte stream of one UART
type SerialPort interface {
	Read(p []byte) (int, error)
	Write(p []byte) (int, error)
	// Flush discards input that was received but not read yet
	Flush() error
}

// OutputLine is a single GPIO output, e.g. the heartbeat LED
type OutputLine interface {
	SetValue(value int) error
}

// WeightSensor returns a calibrated mass reading in grams
type WeightSensor interface {
	Weight() (float32, error)
}

// Watchdog is a hardware timer that resets the device unless it is fed before the timeout elapses
type Watchdog interface {
	Arm(timeout time.Duration) error
	Feed() error
	Close() error
}

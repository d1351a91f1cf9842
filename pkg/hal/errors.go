package hal

import "errors"

var (
	// ErrParamCount is returned when an opcode is encoded with the wrong number of parameter bytes.
	ErrParamCount = errors.New("invalid parameter count")
	// ErrChecksum is returned when a received frame fails checksum validation.
	ErrChecksum = errors.New("checksum mismatch")
	// ErrFraming is returned when a reply matches none of the known reply shapes.
	ErrFraming = errors.New("malformed frame")
	// ErrTransportTimeout is returned when nothing usable arrived within the response window.
	ErrTransportTimeout = errors.New("no response within timeout")
	// ErrProtocol is returned when a reply is well formed but carries a value that makes no sense.
	ErrProtocol = errors.New("protocol violation")
)

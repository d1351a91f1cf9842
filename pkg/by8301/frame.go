package by8301

import (
	"encoding/binary"
	"fmt"
	"strconv"
	"strings"

	"github.com/mbalug7/go-by8301-hx711/pkg/checksum"
	"github.com/mbalug7/go-by8301-hx711/pkg/hal"
)

const (
	frameStart byte = 0x7E
	frameEnd   byte = 0xEF

	// length byte counts itself, the command, the parameters and the checksum
	frameLengthBase = 3

	ackPrefix = "OK"
)

// Encode builds the command frame [START, LEN, CMD, PARAM..., XOR, END]
func Encode(op Opcode, params ...byte) ([]byte, error) {
	paramLen := op.ParamLen()
	if paramLen < 0 {
		return nil, fmt.Errorf("failed to encode frame: %s is not supported", op)
	}
	if len(params) != paramLen {
		return nil, fmt.Errorf("%w: %s needs %d parameter bytes, got %d", hal.ErrParamCount, op, paramLen, len(params))
	}
	frame := make([]byte, 0, len(params)+5)
	frame = append(frame, frameStart, byte(frameLengthBase+len(params)), byte(op))
	frame = append(frame, params...)
	// checksum covers LEN, CMD and parameters
	frame = append(frame, checksum.XOR(frame[1:]), frameEnd)
	return frame, nil
}

// TrackParams returns the track number as two big endian parameter bytes
func TrackParams(track uint16) []byte {
	params := make([]byte, 2)
	binary.BigEndian.PutUint16(params, track)
	return params
}

type ReplyKind int

const (
	ReplyACK ReplyKind = iota // "OK" followed by optional data
	ReplyHEX                  // bare hexadecimal numeral
)

// Reply is the ASCII answer of the module to a command frame
type Reply struct {
	Kind ReplyKind
	Text string // whole reply without surrounding whitespace
	Data string // characters after the ACK prefix, or the numeral itself
}

// Value parses the reply data as a base 16 integer
func (r Reply) Value() (uint64, error) {
	if r.Data == "" {
		return 0, fmt.Errorf("%w: reply %q carries no value", hal.ErrProtocol, r.Text)
	}
	v, err := strconv.ParseUint(r.Data, 16, 32)
	if err != nil {
		return 0, fmt.Errorf("%w: reply %q carries no hex value", hal.ErrProtocol, r.Text)
	}
	return v, nil
}

// DecodeReply classifies a raw reply as ACK or HEX
func DecodeReply(raw []byte) (Reply, error) {
	text := strings.TrimSpace(string(raw))
	if text == "" {
		return Reply{}, fmt.Errorf("%w: empty reply", hal.ErrTransportTimeout)
	}
	if !isPrintable(text) {
		return Reply{}, fmt.Errorf("%w: reply % X is not ASCII text", hal.ErrFraming, raw)
	}
	if strings.HasPrefix(text, ackPrefix) {
		return Reply{Kind: ReplyACK, Text: text, Data: text[len(ackPrefix):]}, nil
	}
	if isHex(text) {
		return Reply{Kind: ReplyHEX, Text: text, Data: text}, nil
	}
	return Reply{}, fmt.Errorf("%w: unexpected reply %q", hal.ErrFraming, text)
}

func isPrintable(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < 0x20 && s[i] != '\r' && s[i] != '\n' || s[i] > 0x7E {
			return false
		}
	}
	return true
}

func isHex(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if !(c >= '0' && c <= '9' || c >= 'a' && c <= 'f' || c >= 'A' && c <= 'F') {
			return false
		}
	}
	return true
}

// Package bridge answers weight requests from the host over the hex text protocol:
//
//	HEADER(01 01) | LENGTH | PAYLOAD | SUM
//
// LENGTH is the number of hex characters of the payload and SUM is the
// 8 bit sum of every preceding byte.
package bridge

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"math"
	"strings"

	"github.com/mbalug7/go-by8301-hx711/pkg/checksum"
	"github.com/mbalug7/go-by8301-hx711/pkg/hal"
)

var frameHeader = []byte{0x01, 0x01}

// readWeightRequest is the only request the host sends: header, length 1, payload 01, sum 03
const readWeightRequest = "01010103"

type Op int

const (
	OpUnknown Op = iota
	OpReadWeight
)

// Request is a decoded, checksum valid host frame
type Request struct {
	Op    Op
	Bytes []byte
}

// DecodeRequest parses the hex text of one inbound frame
func DecodeRequest(hexText string) (Request, error) {
	text := strings.ToUpper(strings.TrimSpace(hexText))
	data, err := hex.DecodeString(text)
	if err != nil {
		return Request{}, fmt.Errorf("%w: %q is not hex text: %s", hal.ErrFraming, hexText, err)
	}
	if len(data) < 2 {
		return Request{}, fmt.Errorf("%w: frame %q too short", hal.ErrFraming, text)
	}
	last := len(data) - 1
	if !checksum.Verify(data[:last], data[last], checksum.StrategyAdditive) {
		return Request{}, fmt.Errorf("%w: frame %s, want sum %02X", hal.ErrChecksum, text, checksum.Additive(data[:last]))
	}
	req := Request{Op: OpUnknown, Bytes: data}
	if text == readWeightRequest {
		req.Op = OpReadWeight
	}
	return req, nil
}

// EncodeReply builds the upper case hex text of a weight reply, the weight is an IEEE-754 big endian float
func EncodeReply(weight float32) string {
	payload := make([]byte, 4)
	binary.BigEndian.PutUint32(payload, math.Float32bits(weight))

	frame := append([]byte(nil), frameHeader...)
	frame = append(frame, byte(hex.EncodedLen(len(payload))))
	frame = append(frame, payload...)
	frame = append(frame, checksum.Additive(frame))
	return strings.ToUpper(hex.EncodeToString(frame))
}

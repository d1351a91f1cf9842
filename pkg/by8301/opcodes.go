package by8301

import (
	"fmt"
	"sort"
)

// Opcode is a BY8301-16P command byte
type Opcode byte

// OpKind tells whether an opcode changes module state or queries it
type OpKind uint8

const (
	KindSet OpKind = iota
	KindGet
)

// control opcodes, reply is an ACK
const (
	Play          Opcode = 0x01
	Pause         Opcode = 0x02
	Next          Opcode = 0x03
	Previous      Opcode = 0x04
	VolumeUp      Opcode = 0x05
	VolumeDown    Opcode = 0x06
	StandbyToggle Opcode = 0x07 // standby current is 10mA
	Reset         Opcode = 0x09
	Stop          Opcode = 0x0E
)

// query opcodes
const (
	QueryPlayState     Opcode = 0x10
	QueryVolume        Opcode = 0x11
	QueryMusicQuantity Opcode = 0x17 // total number of tracks stored in flash
)

// parametrized opcodes
const (
	SetVolume   Opcode = 0x31 // 0-30, kept over power cycles
	SetLoopMode Opcode = 0x33
	SelectTrack Opcode = 0x41 // 1-based track number, big endian
)

type opcodeSpec struct {
	kind     OpKind
	paramLen int
	desc     string
}

var catalog = map[Opcode]opcodeSpec{
	Play:               {kind: KindSet, paramLen: 0, desc: "play"},
	Pause:              {kind: KindSet, paramLen: 0, desc: "pause"},
	Next:               {kind: KindSet, paramLen: 0, desc: "next track"},
	Previous:           {kind: KindSet, paramLen: 0, desc: "previous track"},
	VolumeUp:           {kind: KindSet, paramLen: 0, desc: "volume up"},
	VolumeDown:         {kind: KindSet, paramLen: 0, desc: "volume down"},
	StandbyToggle:      {kind: KindSet, paramLen: 0, desc: "standby or working"},
	Reset:              {kind: KindSet, paramLen: 0, desc: "reset"},
	Stop:               {kind: KindSet, paramLen: 0, desc: "stop"},
	QueryPlayState:     {kind: KindGet, paramLen: 0, desc: "query play state"},
	QueryVolume:        {kind: KindGet, paramLen: 0, desc: "query volume"},
	QueryMusicQuantity: {kind: KindGet, paramLen: 0, desc: "query flash music quantity"},
	SetVolume:          {kind: KindSet, paramLen: 1, desc: "set volume"},
	SetLoopMode:        {kind: KindSet, paramLen: 1, desc: "set loop playback mode"},
	SelectTrack:        {kind: KindSet, paramLen: 2, desc: "select track and play"},
}

// Known reports whether the opcode is part of the catalog
func (op Opcode) Known() bool {
	_, ok := catalog[op]
	return ok
}

// ParamLen returns the number of parameter bytes the opcode takes, -1 for unknown opcodes
func (op Opcode) ParamLen() int {
	spec, ok := catalog[op]
	if !ok {
		return -1
	}
	return spec.paramLen
}

func (op Opcode) Kind() OpKind {
	return catalog[op].kind
}

func (op Opcode) String() string {
	spec, ok := catalog[op]
	if !ok {
		return fmt.Sprintf("unknown opcode 0x%02X", byte(op))
	}
	return fmt.Sprintf("%s (0x%02X)", spec.desc, byte(op))
}

// Catalog returns all supported opcodes ordered by code
func Catalog() []Opcode {
	ops := make([]Opcode, 0, len(catalog))
	for op := range catalog {
		ops = append(ops, op)
	}
	sort.Slice(ops, func(i, j int) bool { return ops[i] < ops[j] })
	return ops
}

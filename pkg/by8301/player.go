package by8301

import (
	"encoding/hex"
	"fmt"
	"time"

	"github.com/mazen160/go-random"
	"go.uber.org/zap"

	"github.com/mbalug7/go-by8301-hx711/pkg/hal"
)

// State is the playback status reported by the module
type State uint8

const (
	StateCustom State = iota
	StatePlaying
	StatePaused
	StateFastForward
	StateFastReverse
)

func (s State) String() string {
	switch s {
	case StateCustom:
		return "custom"
	case StatePlaying:
		return "playing"
	case StatePaused:
		return "paused"
	case StateFastForward:
		return "fast forward"
	case StateFastReverse:
		return "fast reverse"
	}
	return fmt.Sprintf("state(%d)", uint8(s))
}

// Busy reports whether the module is producing sound
func (s State) Busy() bool {
	return s == StatePlaying || s == StateFastForward || s == StateFastReverse
}

// Transport sends one frame and returns the raw reply collected within timeout
type Transport interface {
	Send(frame []byte, timeout time.Duration) ([]byte, error)
}

// Player drives the BY8301-16P module
type Player struct {
	bus       Transport
	timeout   time.Duration
	pickTrack func(quantity int) (int, error)
	log       *zap.Logger
}

func NewPlayer(bus Transport, responseTimeout time.Duration, log *zap.Logger) *Player {
	if log == nil {
		log = zap.NewNop()
	}
	return &Player{
		bus:       bus,
		timeout:   responseTimeout,
		pickTrack: randomTrack,
		log:       log,
	}
}

func (obj *Player) exchange(op Opcode, params ...byte) (Reply, error) {
	frame, err := Encode(op, params...)
	if err != nil {
		return Reply{}, err
	}
	raw, err := obj.bus.Send(frame, obj.timeout)
	if err != nil {
		return Reply{}, fmt.Errorf("failed to send %s: %w", op, err)
	}
	obj.log.Debug("exchange", zap.String("send", hex.EncodeToString(frame)), zap.ByteString("receive", raw))
	rsp, err := DecodeReply(raw)
	if err != nil {
		return Reply{}, fmt.Errorf("failed to decode %s reply: %w", op, err)
	}
	return rsp, nil
}

// Command sends a control opcode and requires the module to acknowledge it
func (obj *Player) Command(op Opcode, params ...byte) error {
	rsp, err := obj.exchange(op, params...)
	if err != nil {
		return err
	}
	if rsp.Kind != ReplyACK {
		return fmt.Errorf("%w: %s not acknowledged, reply %q", hal.ErrProtocol, op, rsp.Text)
	}
	return nil
}

// PlayState queries the current playback state
func (obj *Player) PlayState() (State, error) {
	rsp, err := obj.exchange(QueryPlayState)
	if err != nil {
		return 0, err
	}
	v, err := rsp.Value()
	if err != nil {
		return 0, fmt.Errorf("failed to read play state: %w", err)
	}
	if v > uint64(StateFastReverse) {
		return 0, fmt.Errorf("%w: unknown play state %d", hal.ErrProtocol, v)
	}
	return State(v), nil
}

// MaxVolume is the loudest level the module accepts
const MaxVolume = 30

// Volume queries the current volume level
func (obj *Player) Volume() (uint8, error) {
	rsp, err := obj.exchange(QueryVolume)
	if err != nil {
		return 0, err
	}
	v, err := rsp.Value()
	if err != nil {
		return 0, fmt.Errorf("failed to read volume: %w", err)
	}
	if v > MaxVolume {
		return 0, fmt.Errorf("%w: volume %d out of range", hal.ErrProtocol, v)
	}
	return uint8(v), nil
}

func (obj *Player) SetVolume(level uint8) error {
	if level > MaxVolume {
		return fmt.Errorf("volume %d out of range 0-%d", level, MaxVolume)
	}
	return obj.Command(SetVolume, level)
}

// MusicQuantity queries how many tracks are stored in flash
func (obj *Player) MusicQuantity() (uint16, error) {
	rsp, err := obj.exchange(QueryMusicQuantity)
	if err != nil {
		return 0, err
	}
	// "OK" followed by exactly four hex digits
	if rsp.Kind != ReplyACK || len(rsp.Data) != 4 || !isHex(rsp.Data) {
		return 0, fmt.Errorf("%w: invalid music quantity reply %q", hal.ErrProtocol, rsp.Text)
	}
	v, err := rsp.Value()
	if err != nil {
		return 0, err
	}
	return uint16(v), nil
}

// RandomPlay selects a uniformly random track from flash and starts it.
// It returns the selected track number.
func (obj *Player) RandomPlay() (uint16, error) {
	quantity, err := obj.MusicQuantity()
	if err != nil {
		return 0, fmt.Errorf("failed to query music quantity: %w", err)
	}
	if quantity == 0 {
		return 0, fmt.Errorf("%w: flash holds no tracks", hal.ErrProtocol)
	}
	track, err := obj.pickTrack(int(quantity))
	if err != nil {
		return 0, fmt.Errorf("failed to pick random track: %w", err)
	}
	obj.log.Info("random track selected", zap.Int("track", track), zap.Uint16("quantity", quantity))

	err = obj.Command(SelectTrack, TrackParams(uint16(track))...)
	if err != nil {
		return 0, fmt.Errorf("failed to play track %d: %w", track, err)
	}
	return uint16(track), nil
}

// randomTrack returns a uniform random number in [1, quantity]
func randomTrack(quantity int) (int, error) {
	for {
		track, err := random.IntRange(1, quantity+1)
		if err != nil {
			return 0, err
		}
		// redraw anything outside [1, quantity]
		if track >= 1 && track <= quantity {
			return track, nil
		}
	}
}

package common

import (
	"fmt"
	"sync"
	"time"
)

const (
	hx711Bits         = 24
	hx711GainPulses   = 1 // channel A, gain 128
	hx711ReadyTimeout = 500 * time.Millisecond
)

// Calibration converts raw HX711 counts to grams: (raw - Offset) / Factor
type Calibration struct {
	Offset float64
	Factor float64
}

func (c Calibration) Apply(raw int32) float32 {
	return float32((float64(raw) - c.Offset) / c.Factor)
}

type pinLine interface {
	Value() (int, error)
	SetValue(value int) error
}

// HX711 bit-bangs the load cell amplifier over two GPIO lines
type HX711 struct {
	clock pinLine
	data  pinLine
	cal   Calibration
	mu    sync.Mutex
}

func NewHX711(clock pinLine, data pinLine, cal Calibration) *HX711 {
	return &HX711{clock: clock, data: data, cal: cal}
}

// Weight implements hal.WeightSensor
func (obj *HX711) Weight() (float32, error) {
	if obj.cal.Factor == 0 {
		return 0, fmt.Errorf("HX711 calibration factor is zero")
	}
	raw, err := obj.Raw()
	if err != nil {
		return 0, err
	}
	return obj.cal.Apply(raw), nil
}

// Raw reads one 24 bit two's complement conversion
func (obj *HX711) Raw() (int32, error) {
	obj.mu.Lock()
	defer obj.mu.Unlock()

	err := obj.waitReady()
	if err != nil {
		return 0, err
	}
	var value uint32
	for i := 0; i < hx711Bits; i++ {
		bit, err := obj.pulse()
		if err != nil {
			return 0, err
		}
		value = value<<1 | uint32(bit)
	}
	for i := 0; i < hx711GainPulses; i++ {
		if _, err := obj.pulse(); err != nil {
			return 0, err
		}
	}
	return signExtend24(value), nil
}

// data goes low when a conversion is ready
func (obj *HX711) waitReady() error {
	deadline := time.Now().Add(hx711ReadyTimeout)
	for time.Now().Before(deadline) {
		v, err := obj.data.Value()
		if err != nil {
			return fmt.Errorf("failed to read HX711 data line: %w", err)
		}
		if v == 0 {
			return nil
		}
		time.Sleep(time.Millisecond)
	}
	return fmt.Errorf("HX711 not ready after %s", hx711ReadyTimeout)
}

func (obj *HX711) pulse() (int, error) {
	err := obj.clock.SetValue(1)
	if err != nil {
		return 0, fmt.Errorf("failed to set HX711 clock line: %w", err)
	}
	err = obj.clock.SetValue(0)
	if err != nil {
		return 0, fmt.Errorf("failed to clear HX711 clock line: %w", err)
	}
	v, err := obj.data.Value()
	if err != nil {
		return 0, fmt.Errorf("failed to read HX711 data line: %w", err)
	}
	return v & 1, nil
}

func signExtend24(v uint32) int32 {
	v &= 0xFFFFFF
	if v&0x800000 != 0 {
		v |= 0xFF000000
	}
	return int32(v)
}

//go:build !pico

package common

import (
	"fmt"

	"github.com/warthog618/gpiod"
	"go.uber.org/zap"
)

// GPIOHandler owns the GPIO chip and every line requested from it
type GPIOHandler struct {
	chip  *gpiod.Chip
	lines []*gpiod.Line
	log   *zap.Logger
}

func NewGPIOHandler(gpioChip string, log *zap.Logger) (*GPIOHandler, error) {
	if log == nil {
		log = zap.NewNop()
	}
	c, err := gpiod.NewChip(gpioChip, gpiod.WithConsumer("by8301-hx711"))
	if err != nil {
		return nil, fmt.Errorf("failed to create GPIO chip: %w", err)
	}
	return &GPIOHandler{chip: c, log: log}, nil
}

func (obj *GPIOHandler) request(pin int, options ...gpiod.LineReqOption) (*gpiod.Line, error) {
	line, err := obj.chip.RequestLine(pin, options...)
	if err != nil {
		return nil, err
	}
	obj.lines = append(obj.lines, line)
	return line, nil
}

// RequestLED requests an output line that starts low
func (obj *GPIOHandler) RequestLED(pin int) (*gpiod.Line, error) {
	line, err := obj.request(pin, gpiod.AsOutput(0))
	if err != nil {
		return nil, fmt.Errorf("failed to request LED GPIO line: %w", err)
	}
	return line, nil
}

// RequestTrigger watches pin for rising edges and runs action for each one that arrives while the trigger is armed.
// Edges may be delivered before RequestTrigger returns.
func (obj *GPIOHandler) RequestTrigger(pin int, action TriggerAction, onResult func(result string)) (*Trigger, error) {
	trigger := NewTrigger(action, onResult, obj.log.Named("trigger"))
	_, err := obj.request(pin, gpiod.WithEventHandler(trigger.onEdge), gpiod.WithRisingEdge)
	if err != nil {
		return nil, fmt.Errorf("failed to request trigger GPIO line: %w", err)
	}
	return trigger, nil
}

// RequestHX711 requests the clock output and data input lines of the load cell amplifier
func (obj *GPIOHandler) RequestHX711(clockPin int, dataPin int, cal Calibration) (*HX711, error) {
	clock, err := obj.request(clockPin, gpiod.AsOutput(0))
	if err != nil {
		return nil, fmt.Errorf("failed to request HX711 clock GPIO line: %w", err)
	}
	data, err := obj.request(dataPin, gpiod.AsInput)
	if err != nil {
		return nil, fmt.Errorf("failed to request HX711 data GPIO line: %w", err)
	}
	return NewHX711(clock, data, cal), nil
}

func (obj *GPIOHandler) Close() (err error) {
	for _, line := range obj.lines {
		err = line.Close()
		if err != nil {
			return fmt.Errorf("failed to close GPIO line %d: %w", line.Offset(), err)
		}
	}
	obj.lines = nil
	err = obj.chip.Close()
	if err != nil {
		return fmt.Errorf("failed to close GPIO chip: %w", err)
	}
	return nil
}

func (obj *Trigger) onEdge(evt gpiod.LineEvent) {
	obj.Fire()
}

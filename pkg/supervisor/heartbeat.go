package supervisor

import (
	"context"
	"fmt"
	"time"

	"github.com/mbalug7/go-by8301-hx711/pkg/hal"
)

// Heartbeat blinks the status LED
type Heartbeat struct {
	led    hal.OutputLine
	period time.Duration
	value  int
}

func NewHeartbeat(led hal.OutputLine, period time.Duration) *Heartbeat {
	return &Heartbeat{led: led, period: period}
}

func (obj *Heartbeat) Name() string {
	return "heartbeat"
}

func (obj *Heartbeat) Step(ctx context.Context) (time.Duration, error) {
	obj.value ^= 1
	err := obj.led.SetValue(obj.value)
	if err != nil {
		return obj.period, fmt.Errorf("failed to toggle LED: %w", err)
	}
	return obj.period, nil
}

package supervisor

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/mbalug7/go-by8301-hx711/pkg/hal"
	"github.com/mbalug7/go-by8301-hx711/pkg/metrics"
)

// Feeder keeps the hardware watchdog fed from its own goroutine, independent of
// the cooperative scheduler.
type Feeder struct {
	wd      hal.Watchdog
	timeout time.Duration
	period  time.Duration
	log     *zap.Logger
	metrics *metrics.Metrics
}

func NewFeeder(wd hal.Watchdog, timeout time.Duration, period time.Duration, log *zap.Logger, m *metrics.Metrics) (*Feeder, error) {
	if period <= 0 || period >= timeout {
		return nil, fmt.Errorf("watchdog feed period %s must be positive and shorter than the timeout %s", period, timeout)
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Feeder{wd: wd, timeout: timeout, period: period, log: log, metrics: m}, nil
}

// Run arms the watchdog and feeds it every period until ctx is done, then disarms it
func (obj *Feeder) Run(ctx context.Context) error {
	err := obj.wd.Arm(obj.timeout)
	if err != nil {
		return fmt.Errorf("failed to arm watchdog: %w", err)
	}
	obj.log.Info("watchdog armed", zap.Duration("timeout", obj.timeout), zap.Duration("feedPeriod", obj.period))
	obj.feed()

	ticker := time.NewTicker(obj.period)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			err = obj.wd.Close()
			if err != nil {
				return fmt.Errorf("failed to disarm watchdog: %w", err)
			}
			obj.log.Info("watchdog disarmed")
			return ctx.Err()
		case <-ticker.C:
			obj.feed()
		}
	}
}

func (obj *Feeder) feed() {
	err := obj.wd.Feed()
	obj.metrics.WatchdogFeed(err)
	if err != nil {
		obj.log.Error("failed to feed watchdog", zap.Error(err))
	}
}

package bridge

import (
	"context"
	"encoding/hex"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/mbalug7/go-by8301-hx711/pkg/hal"
	"github.com/mbalug7/go-by8301-hx711/pkg/metrics"
)

// Link is the serial line to the host
type Link interface {
	ReadBurst(timeout time.Duration) ([]byte, error)
	Write(data []byte) error
}

// Service replies to weight requests arriving on the bridge line
type Service struct {
	link         Link
	sensor       hal.WeightSensor
	burstTimeout time.Duration
	log          *zap.Logger
	metrics      *metrics.Metrics
}

func NewService(link Link, sensor hal.WeightSensor, burstTimeout time.Duration, log *zap.Logger, m *metrics.Metrics) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		link:         link,
		sensor:       sensor,
		burstTimeout: burstTimeout,
		log:          log,
		metrics:      m,
	}
}

func (obj *Service) Name() string {
	return "weight-bridge"
}

// Step reads one burst from the host and answers it. It never blocks longer than the burst timeout.
func (obj *Service) Step(ctx context.Context) (time.Duration, error) {
	burst, err := obj.link.ReadBurst(obj.burstTimeout)
	if err != nil {
		return 0, fmt.Errorf("failed to read bridge line: %w", err)
	}
	// a lone NUL is line noise
	if len(burst) == 0 || len(burst) == 1 && burst[0] == 0x00 {
		return 0, nil
	}
	return 0, obj.Handle(burst)
}

// Run calls Step until ctx is done, logging every failure
func (obj *Service) Run(ctx context.Context) error {
	obj.log.Info("weight bridge started")
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if _, err := obj.Step(ctx); err != nil {
			obj.log.Warn("weight bridge step failed", zap.Error(err))
		}
	}
}

// Handle answers one inbound burst
func (obj *Service) Handle(burst []byte) error {
	text := hex.EncodeToString(burst)
	req, err := DecodeRequest(text)
	if err != nil {
		obj.metrics.BridgeRequest("invalid")
		return err
	}
	if req.Op != OpReadWeight {
		obj.log.Debug("ignoring unknown request", zap.String("request", text))
		obj.metrics.BridgeRequest("unknown")
		return nil
	}
	weight, err := obj.sensor.Weight()
	if err != nil {
		obj.metrics.BridgeRequest("sensor_error")
		return fmt.Errorf("failed to read weight: %w", err)
	}
	reply := EncodeReply(weight)
	raw, err := hex.DecodeString(reply)
	if err != nil {
		return fmt.Errorf("failed to decode reply %s: %w", reply, err)
	}
	err = obj.link.Write(raw)
	if err != nil {
		obj.metrics.BridgeRequest("write_error")
		return fmt.Errorf("failed to write weight reply: %w", err)
	}
	obj.metrics.BridgeRequest("weight")
	obj.log.Debug("weight reply sent", zap.Float32("weight", weight), zap.String("reply", reply))
	return nil
}

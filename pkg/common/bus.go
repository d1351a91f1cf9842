package common

import (
	"encoding/hex"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/mbalug7/go-by8301-hx711/pkg/metrics"
)

// Bus serializes command/response transactions on the shared audio module UART
type Bus struct {
	line    *Line
	mu      sync.Mutex    // held for one whole drain, write, receive transaction
	settle  time.Duration // quiet time after every transaction
	log     *zap.Logger
	metrics *metrics.Metrics
}

func NewBus(line *Line, settle time.Duration, log *zap.Logger, m *metrics.Metrics) *Bus {
	if log == nil {
		log = zap.NewNop()
	}
	return &Bus{
		line:    line,
		settle:  settle,
		log:     log,
		metrics: m,
	}
}

// Send drops stale input, writes frame and collects the reply until the line goes
// quiet or timeout elapses. The returned reply may be empty.
func (obj *Bus) Send(frame []byte, timeout time.Duration) (rsp []byte, err error) {
	obj.mu.Lock()
	defer obj.mu.Unlock()
	defer func() {
		switch {
		case err != nil:
			obj.metrics.BusTransaction("error")
		case len(rsp) == 0:
			obj.metrics.BusTransaction("empty")
		default:
			obj.metrics.BusTransaction("ok")
		}
	}()

	// leftovers of an earlier exchange must not be taken as this reply
	err = obj.line.Discard()
	if err != nil {
		return nil, err
	}
	err = obj.line.Write(frame)
	if err != nil {
		return nil, err
	}
	rsp, err = obj.line.ReadBurst(timeout)
	obj.log.Debug("bus transaction",
		zap.String("send", hex.EncodeToString(frame)),
		zap.ByteString("receive", rsp),
		zap.Error(err),
	)
	if obj.settle > 0 {
		time.Sleep(obj.settle)
	}
	return rsp, err
}

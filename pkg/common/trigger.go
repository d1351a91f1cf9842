package common

import (
	"sync/atomic"

	"go.uber.org/zap"
)

// TriggerAction is run for an accepted edge. played reports whether the edge had an effect.
type TriggerAction func() (played bool, err error)

// Trigger runs its action on rising edges. The trigger disarms itself while the
// action runs, so edges arriving meanwhile are dropped, and re-arms afterwards
// whatever the outcome.
type Trigger struct {
	action   TriggerAction
	armed    atomic.Bool
	failures atomic.Int32 // consecutive failed actions
	log      *zap.Logger
	onResult func(result string)
}

// NewTrigger returns an armed trigger. onResult, if not nil, receives played,
// skipped or error for every handled edge.
func NewTrigger(action TriggerAction, onResult func(result string), log *zap.Logger) *Trigger {
	if log == nil {
		log = zap.NewNop()
	}
	t := &Trigger{action: action, onResult: onResult, log: log}
	t.armed.Store(true)
	return t
}

// Fire handles one edge, it returns false if the edge was dropped
func (obj *Trigger) Fire() bool {
	if !obj.armed.CompareAndSwap(true, false) {
		return false
	}
	defer obj.armed.Store(true)

	played, err := obj.action()
	result := "skipped"
	switch {
	case err != nil:
		result = "error"
		failures := obj.failures.Add(1)
		obj.log.Error("trigger action failed", zap.Error(err), zap.Int32("consecutiveFailures", failures))
	case played:
		result = "played"
		obj.failures.Store(0)
	default:
		obj.failures.Store(0)
		obj.log.Debug("trigger ignored, module busy")
	}
	if obj.onResult != nil {
		obj.onResult(result)
	}
	return true
}

func (obj *Trigger) Armed() bool {
	return obj.armed.Load()
}

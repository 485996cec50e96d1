package log

import (
	"time"

	"logtimer/timer"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type elapsed struct {
	clock timer.Clock
	t     time.Time
	key   string
}

func (v *elapsed) MarshalLogObject(e zapcore.ObjectEncoder) error {
	e.AddDuration(v.key, v.clock.Now().Sub(v.t))
	return nil
}

// Elapsed is measured when the entry is encoded, not when the field is built.
func Elapsed(key string, clock timer.Clock) zap.Field {
	return zap.Inline(&elapsed{
		clock: clock,
		t:     clock.Now(),
		key:   key,
	})
}

package log

import (
	"sort"

	"logtimer/timer"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// timerCore runs the "timer" field of every written entry through a
// Registry before the entry reaches the wrapped core.
type timerCore struct {
	zapcore.Core
	reg *timer.Registry
}

// NewTimerCore wraps inner so that timer directives are applied and "stop"
// directives are replaced by their results. Fields attached with With are
// not per-event and are passed on untouched. The filtering and sampling of
// inner still decide which entries are written.
func NewTimerCore(inner zapcore.Core, reg *timer.Registry) zapcore.Core {
	return &timerCore{Core: inner, reg: reg}
}

// WrapTimers is the zap.Option form of NewTimerCore.
func WrapTimers(reg *timer.Registry) zap.Option {
	return zap.WrapCore(func(c zapcore.Core) zapcore.Core {
		return NewTimerCore(c, reg)
	})
}

func (c *timerCore) With(fields []zapcore.Field) zapcore.Core {
	return &timerCore{Core: c.Core.With(fields), reg: c.reg}
}

func (c *timerCore) Check(ent zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if c.Enabled(ent.Level) {
		return ce.AddCore(ent, c)
	}
	return ce
}

func (c *timerCore) Write(ent zapcore.Entry, fields []zapcore.Field) error {
	copied := false
	for i, f := range fields {
		if f.Key != timer.ContextKey {
			continue
		}

		block, ok := directiveBlock(f)
		if !ok {
			continue
		}

		c.reg.Apply(block)

		// the caller owns fields
		if !copied {
			fields = append([]zapcore.Field(nil), fields...)
			copied = true
		}
		fields[i] = zap.Object(f.Key, timerBlock(block))
	}

	// Check runs here rather than in c.Check so that samplers count each
	// entry once; directives are applied even when the entry is dropped.
	if ice := c.Core.Check(ent, nil); ice != nil {
		ice.Write(fields...)
	}
	return nil
}

func directiveBlock(f zapcore.Field) (map[string]any, bool) {
	if f.Type != zapcore.ReflectType {
		return nil, false
	}

	switch v := f.Interface.(type) {
	case map[string]any:
		return v, true
	case map[string]string:
		block := make(map[string]any, len(v))
		for name, d := range v {
			block[name] = d
		}
		return block, true
	default:
		return nil, false
	}
}

type timerBlock map[string]any

func (b timerBlock) MarshalLogObject(e zapcore.ObjectEncoder) error {
	names := make([]string, 0, len(b))
	for name := range b {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		switch v := b[name].(type) {
		case timer.Result:
			if err := e.AddObject(name, v); err != nil {
				return err
			}
		case string:
			e.AddString(name, v)
		default:
			if err := e.AddReflected(name, v); err != nil {
				return err
			}
		}
	}
	return nil
}

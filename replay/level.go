package replay

import (
	"fmt"
	"strings"

	"logtimer/timer"

	"go.uber.org/zap/zapcore"
)

// Monolog names without a zap counterpart.
var monologNames = map[string]zapcore.Level{
	"notice":    zapcore.InfoLevel,
	"warning":   zapcore.WarnLevel,
	"critical":  zapcore.ErrorLevel,
	"alert":     zapcore.ErrorLevel,
	"emergency": zapcore.ErrorLevel,
}

// recordLevel resolves the level of rec from "level" (a name or a numeric
// Monolog level) or, when that is missing, from "level_name". Levels above
// error are capped so that replaying never panics or exits.
func recordLevel(rec *timer.Record) (zapcore.Level, error) {
	v := rec.Level
	if v == nil {
		v = rec.Extra["level_name"]
	}

	var level zapcore.Level
	switch l := v.(type) {
	case nil:
		return zapcore.InfoLevel, nil
	case float64:
		level = monologLevel(int(l))
	case int:
		level = monologLevel(l)
	case string:
		name := strings.ToLower(l)
		if m, ok := monologNames[name]; ok {
			level = m
		} else if err := level.UnmarshalText([]byte(name)); err != nil {
			return level, fmt.Errorf("bad level: %w", err)
		}
	default:
		return level, fmt.Errorf("bad level: unsupported type %T", v)
	}

	if level > zapcore.ErrorLevel {
		level = zapcore.ErrorLevel
	}
	return level, nil
}

func monologLevel(n int) zapcore.Level {
	switch {
	case n >= 400:
		return zapcore.ErrorLevel
	case n >= 300:
		return zapcore.WarnLevel
	case n >= 200:
		return zapcore.InfoLevel
	default:
		return zapcore.DebugLevel
	}
}

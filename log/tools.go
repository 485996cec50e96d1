package log

import (
	"unicode/utf8"

	"logtimer/timer"

	"go.uber.org/zap"
)

func ByteField(key string, data []byte) zap.Field {
	if utf8.Valid(data) {
		return zap.ByteString(key, data)
	} else {
		return zap.Binary(key, data)
	}
}

func Stage(stage string) zap.Field {
	return zap.String("stage", stage)
}

// StartTimer builds a directive field starting every named timer.
func StartTimer(names ...string) zap.Field {
	return directives(timer.Start, names)
}

// StopTimer builds a directive field stopping every named timer.
func StopTimer(names ...string) zap.Field {
	return directives(timer.Stop, names)
}

func directives(d timer.Directive, names []string) zap.Field {
	block := make(map[string]any, len(names))
	for _, name := range names {
		block[name] = d.String()
	}
	return zap.Any(timer.ContextKey, block)
}

// Timers renders a registry snapshot, for diagnostic dumps.
func Timers(key string, snapshot map[string]timer.State, precision int) zap.Field {
	return zap.Object(key, timerStates{states: snapshot, precision: precision})
}

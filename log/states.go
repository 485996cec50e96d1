package log

import (
	"sort"

	"logtimer/timer"

	"go.uber.org/zap/zapcore"
)

type timerStates struct {
	states    map[string]timer.State
	precision int
}

func (s timerStates) MarshalLogObject(e zapcore.ObjectEncoder) error {
	names := make([]string, 0, len(s.states))
	for name := range s.states {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if err := e.AddObject(name, timerState{State: s.states[name], precision: s.precision}); err != nil {
			return err
		}
	}
	return nil
}

type timerState struct {
	timer.State
	precision int
}

func (s timerState) MarshalLogObject(e zapcore.ObjectEncoder) error {
	if s.TotalTime != nil {
		e.AddString("totalTime", timer.Format(*s.TotalTime, s.precision))
	} else {
		_ = e.AddReflected("totalTime", nil)
	}
	e.AddInt("count", s.Count)
	if s.StartedAt != nil {
		e.AddTime("start", *s.StartedAt)
	}
	return nil
}

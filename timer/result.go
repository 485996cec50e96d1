package timer

import (
	"strconv"
	"time"

	"go.uber.org/zap/zapcore"
)

// Result replaces a "stop" directive in the processed event. Nil durations
// mean no measurement was available, which is different from zero.
type Result struct {
	Time      *string `json:"time" yaml:"time"`
	TotalTime *string `json:"totalTime" yaml:"totalTime"`
	Count     int     `json:"count" yaml:"count"`
}

func (r Result) MarshalLogObject(e zapcore.ObjectEncoder) error {
	addOptional(e, "time", r.Time)
	addOptional(e, "totalTime", r.TotalTime)
	e.AddInt("count", r.Count)
	return nil
}

func addOptional(e zapcore.ObjectEncoder, key string, v *string) {
	if v == nil {
		_ = e.AddReflected(key, nil)
		return
	}
	e.AddString(key, *v)
}

// Format renders d as seconds with a fixed number of decimals.
func Format(d time.Duration, precision int) string {
	return strconv.FormatFloat(d.Seconds(), 'f', precision, 64)
}

func formatOptional(d *time.Duration, precision int) *string {
	if d == nil {
		return nil
	}
	s := Format(*d, precision)
	return &s
}

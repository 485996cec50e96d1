package log

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"logtimer/config"
	"logtimer/timer"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestContextLogger(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	ctx := WithLogger(context.Background(), zap.New(core))

	ctx = SWith(ctx, "name", "foo")
	ctx = With(ctx, Stage("replay"))
	S(ctx).Infow("hello", "n", 1)

	// wrapped contexts still resolve the logger through Value
	wrapped := context.WithValue(ctx, struct{}{}, 1)
	L(wrapped).Info("again")

	entries := logs.AllUntimed()
	require.Len(t, entries, 2)
	assert.Equal(t, map[string]interface{}{"name": "foo", "stage": "replay", "n": int64(1)}, entries[0].ContextMap())
	assert.Equal(t, "again", entries[1].Message)
}

func TestFallbackToGlobal(t *testing.T) {
	assert.Same(t, zap.L(), L(context.Background()))
}

func TestElapsed(t *testing.T) {
	clock := &stepClock{now: time.Unix(0, 0)}
	f := Elapsed("took", clock)
	clock.Advance(1500 * time.Millisecond)

	enc := zapcore.NewMapObjectEncoder()
	f.AddTo(enc)

	assert.Equal(t, 1500*time.Millisecond, enc.Fields["took"])
}

func TestTimersField(t *testing.T) {
	total := 2 * time.Second
	started := time.Unix(10, 0)
	snap := map[string]timer.State{
		"foo": {TotalTime: &total, Count: 2},
		"bar": {StartedAt: &started},
	}

	enc := zapcore.NewMapObjectEncoder()
	Timers("timers", snap, 2).AddTo(enc)

	assert.Equal(t, map[string]interface{}{
		"foo": map[string]interface{}{"totalTime": "2.00", "count": 2},
		"bar": map[string]interface{}{"totalTime": nil, "count": 0, "start": started},
	}, enc.Fields["timers"])
}

func TestBuild(t *testing.T) {
	out := filepath.Join(t.TempDir(), "out.log")
	level := zapcore.InfoLevel
	encoding := "json"
	paths := []string{out}

	clock := &stepClock{now: time.Unix(0, 0)}
	reg := timer.NewRegistry(timer.WithClock(clock))

	logger, err := Build(config.Log{Level: &level, Encoding: &encoding, InfoPath: &paths}, false, "node-a", reg)
	require.NoError(t, err)

	logger.Debug("filtered", StartTimer("skipped"))
	logger.Info("start", StartTimer("foo"))
	clock.Advance(time.Second)
	logger.Info("stop", StopTimer("foo"))
	_ = logger.Sync()

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"node":"node-a"`)
	assert.Contains(t, string(data), `"timer":{"foo":{"time":"1.00","totalTime":"1.00","count":1}}`)
	assert.NotContains(t, string(data), "filtered")
	assert.NotContains(t, reg.Snapshot(), "skipped")
}

func TestBuild_BadEncoding(t *testing.T) {
	encoding := "xml"
	_, err := Build(config.Log{Encoding: &encoding}, false, "", nil)
	assert.Error(t, err)
}

package metrics

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"logtimer/timer"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticSnapshot map[string]timer.State

func (s staticSnapshot) Snapshot() map[string]timer.State {
	return s
}

func fixture() staticSnapshot {
	total := 2500 * time.Millisecond
	started := time.Unix(10, 0)
	return staticSnapshot{
		"foo": {TotalTime: &total, Count: 2},
		"bar": {StartedAt: &started},
	}
}

func TestCollector(t *testing.T) {
	c := NewCollector(fixture())

	assert.Equal(t, 6, testutil.CollectAndCount(c))

	expected := `
# HELP logtimer_timer_total_seconds Accumulated time of completed cycles, 0 while unset
# TYPE logtimer_timer_total_seconds gauge
logtimer_timer_total_seconds{timer="bar"} 0
logtimer_timer_total_seconds{timer="foo"} 2.5
# HELP logtimer_timer_count Completed start/stop cycles since the last reset
# TYPE logtimer_timer_count gauge
logtimer_timer_count{timer="bar"} 0
logtimer_timer_count{timer="foo"} 2
# HELP logtimer_timer_running 1 while a start is pending
# TYPE logtimer_timer_running gauge
logtimer_timer_running{timer="bar"} 1
logtimer_timer_running{timer="foo"} 0
`
	require.NoError(t, testutil.CollectAndCompare(c, strings.NewReader(expected)))
}

func TestCollector_LiveRegistry(t *testing.T) {
	reg := timer.NewRegistry()
	c := NewCollector(reg)

	assert.Zero(t, testutil.CollectAndCount(c))

	reg.Start("foo")
	reg.Stop("foo")
	assert.Equal(t, 3, testutil.CollectAndCount(c))
}

func TestHandler(t *testing.T) {
	h, err := Handler(fixture())
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, err := io.ReadAll(rec.Result().Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `logtimer_timer_count{timer="foo"} 2`)
}

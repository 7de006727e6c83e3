package metrics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_Counters(t *testing.T) {
	r := NewRegistry()

	r.IncrementCounter("messages_sent_total", map[string]string{"platform": "telegram"})
	r.IncrementCounter("messages_sent_total", map[string]string{"platform": "telegram"})
	r.AddToCounter("messages_sent_total", 3, map[string]string{"platform": "whatsapp"})

	assert.Equal(t, float64(2), r.CounterValue("messages_sent_total", map[string]string{"platform": "telegram"}))
	assert.Equal(t, float64(3), r.CounterValue("messages_sent_total", map[string]string{"platform": "whatsapp"}))
	assert.Equal(t, float64(0), r.CounterValue("messages_sent_total", nil))
}

func TestRegistry_Timers(t *testing.T) {
	r := NewRegistry()

	r.RecordTimer("send_duration", 10*time.Millisecond, nil)
	r.RecordTimer("send_duration", 30*time.Millisecond, nil)

	snap := r.Snapshot()
	timers, ok := snap["timers"].(map[string]*TimerMetric)
	require.True(t, ok)

	timer := timers["send_duration"]
	require.NotNil(t, timer)
	assert.Equal(t, int64(2), timer.Count)
	assert.InDelta(t, 10, timer.Min, 1)
	assert.InDelta(t, 30, timer.Max, 1)
	assert.InDelta(t, 20, timer.Average, 1)
}

func TestRegistry_Gauges(t *testing.T) {
	r := NewRegistry()

	r.SetGauge("token_valid", 1, nil)
	r.SetGauge("token_valid", 0, nil)

	snap := r.Snapshot()
	gauges, ok := snap["gauges"].(map[string]*Metric)
	require.True(t, ok)
	assert.Equal(t, float64(0), gauges["token_valid"].Value)
}

func TestMetricKeyDeterministic(t *testing.T) {
	a := metricKey("m", map[string]string{"x": "1", "y": "2"})
	b := metricKey("m", map[string]string{"y": "2", "x": "1"})
	assert.Equal(t, a, b)
	assert.Equal(t, "m", metricKey("m", nil))
}

func TestSnapshotIsACopy(t *testing.T) {
	r := NewRegistry()
	r.IncrementCounter("c", nil)

	snap := r.Snapshot()
	counters := snap["counters"].(map[string]*Metric)
	counters["c"].Value = 99

	assert.Equal(t, float64(1), r.CounterValue("c", nil))
}

// Package metric measures plugin counters during streaming sessions.
// Values are published with expvar and grouped by plugin type.
package metric

import (
	"expvar"
	"fmt"
	"reflect"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dudk/pedal/signal"
)

const pluginsLabel = "pedal.plugins"

const (
	// CallCounter measures number of process calls.
	CallCounter = "Calls"
	// SampleCounter measures number of processed samples.
	SampleCounter = "Samples"
	// LatencyCounter measures wall time between process calls.
	LatencyCounter = "Latency"
	// DurationCounter counts duration of processed signal.
	DurationCounter = "Duration"
	// PluginCounter counts bound plugin instances.
	PluginCounter = "Plugins"
)

var (
	plugins = metrics{
		m: make(map[string]metric),
	}

	counters = []string{
		CallCounter,
		SampleCounter,
		LatencyCounter,
		DurationCounter,
		PluginCounter,
	}
)

// Get metrics values for provided plugin type.
func Get(plugin interface{}) map[string]string {
	return getCounters(getType(plugin))
}

// GetAll returns counters for all measured plugin types.
func GetAll() map[string]map[string]string {
	m := make(map[string]map[string]string)
	plugins.Lock()
	defer plugins.Unlock()
	for plugin := range plugins.m {
		m[plugin] = getCounters(plugin)
	}
	return m
}

func getCounters(pluginType string) map[string]string {
	m := make(map[string]string)
	for _, counter := range counters {
		v := expvar.Get(key(pluginType, counter))
		if v != nil {
			m[counter] = v.String()
		}
	}
	return m
}

// ResetFunc returns new Measure closure. This closure is needed to
// postpone metrics capture until the plugin is actually bound.
type ResetFunc func() MeasureFunc

// MeasureFunc captures metrics when a chunk is processed.
type MeasureFunc func(samples int64)

// Meter creates new meter closure to capture plugin counters.
func Meter(plugin interface{}, sampleRate int) ResetFunc {
	t := getType(plugin)
	metric := plugins.get(t)
	metric.plugins.Add(1)
	return func() MeasureFunc {
		calledAt := time.Now()
		var (
			chunkSize     int64
			chunkDuration time.Duration
		)
		return func(s int64) {
			metric.latency.set(time.Since(calledAt))
			metric.calls.Add(1)
			metric.samples.Add(s)
			// recalculate chunk duration only when chunk size has changed
			if chunkSize != s {
				chunkSize = s
				chunkDuration = signal.DurationOf(sampleRate, s)
			}
			metric.duration.add(chunkDuration)
			calledAt = time.Now()
		}
	}
}

type metrics struct {
	sync.Mutex
	m map[string]metric
}

func (m *metrics) get(pluginType string) metric {
	m.Lock()
	defer m.Unlock()
	if metric, ok := m.m[pluginType]; ok {
		return metric
	}
	metric := newMetric(pluginType)
	m.m[pluginType] = metric
	return metric
}

type metric struct {
	key      string
	plugins  *expvar.Int
	calls    *expvar.Int
	samples  *expvar.Int
	latency  *duration
	duration *duration
}

func newMetric(pluginType string) metric {
	m := metric{
		key:      pluginType,
		plugins:  expvar.NewInt(key(pluginType, PluginCounter)),
		calls:    expvar.NewInt(key(pluginType, CallCounter)),
		samples:  expvar.NewInt(key(pluginType, SampleCounter)),
		latency:  &duration{},
		duration: &duration{},
	}
	expvar.Publish(key(pluginType, LatencyCounter), m.latency)
	expvar.Publish(key(pluginType, DurationCounter), m.duration)
	return m
}

func key(pluginType, counter string) string {
	return fmt.Sprintf("%s.%s.%s", pluginsLabel, pluginType, counter)
}

func getType(plugin interface{}) string {
	rv := reflect.ValueOf(plugin)
	for rv.Kind() == reflect.Ptr || rv.Kind() == reflect.Interface {
		rv = rv.Elem()
	}
	return rv.Type().String()
}

// duration allows to format time.Duration metric values.
type duration struct {
	d int64
}

func (v *duration) String() string {
	return fmt.Sprintf("%v", time.Duration(atomic.LoadInt64(&v.d)))
}

func (v *duration) add(delta time.Duration) {
	atomic.AddInt64(&v.d, int64(delta))
}

func (v *duration) set(value time.Duration) {
	atomic.StoreInt64(&v.d, int64(value))
}

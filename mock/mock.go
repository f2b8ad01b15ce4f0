// Package mock provides mock plugins and allows to execute integration
// tests of boards and engines.
package mock

import (
	"fmt"

	"github.com/dudk/pedal"
	"github.com/dudk/pedal/signal"
)

// Counter counts processed messages and samples.
type Counter struct {
	Messages int
	Samples  int
}

func (c *Counter) advance(samples int) {
	c.Messages++
	c.Samples += samples
}

// Plugin mocks a pedal.Plugin. Zero value is a transparent plugin that
// accepts any rate and any block size.
type Plugin struct {
	Counter
	Value       float64 // if non-zero, every sample is multiplied by it
	Rate        int     // required sample rate, 0 means any
	Block       int     // required block size, 0 means any
	Delay       int     // reported latency
	ErrorOnCall error
	PanicOnCall bool
	Resetted    bool
}

// Process verifies that the engine respects the declared constraints and
// applies the configured transformation.
func (m *Plugin) Process(b *signal.Buffer) (*signal.Buffer, error) {
	if m.ErrorOnCall != nil {
		return nil, m.ErrorOnCall
	}
	if m.PanicOnCall {
		panic("mock: panic on call")
	}
	if m.Rate != 0 && b.SampleRate() != m.Rate {
		return nil, pedal.ErrSampleRateMismatch
	}
	if m.Block != 0 && b.Length() != m.Block {
		return nil, fmt.Errorf("mock: expected block of %v samples, got %v", m.Block, b.Length())
	}
	if m.Value != 0 {
		for _, channel := range b.Data() {
			for i := range channel {
				channel[i] *= m.Value
			}
		}
	}
	m.advance(b.Length())
	return b, nil
}

// Reset implements pedal.Plugin.
func (m *Plugin) Reset() error {
	m.Resetted = true
	m.Counter = Counter{}
	return nil
}

// Latency implements pedal.Plugin.
func (m *Plugin) Latency() int {
	return m.Delay
}

// SampleRate implements pedal.Plugin.
func (m *Plugin) SampleRate() int {
	return m.Rate
}

// BlockSize implements pedal.Plugin.
func (m *Plugin) BlockSize() int {
	return m.Block
}

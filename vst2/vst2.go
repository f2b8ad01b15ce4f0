// Package vst2 binds externally loaded VST2 plugins to the pedal.Plugin
// contract. The binary plugin format is handled entirely by the vst2
// sdk, this package only adapts its lifecycle and guards its call
// boundary.
package vst2

import (
	"fmt"

	vst2sdk "github.com/dudk/vst2"

	"github.com/dudk/pedal"
	"github.com/dudk/pedal/signal"
)

// Plugin is an externally hosted vst2 effect. It is not safe for
// concurrent use: exactly one in-flight Process or Reset call is allowed
// per plugin instance.
type Plugin struct {
	name       string
	plugin     *vst2sdk.Plugin
	rate       int // required sample rate, 0 means any
	block      int // required block size, 0 means any
	latency    int
	boundRate  int
	boundBlock int
	resumed    bool
}

// Option provides a way to set parameters to plugin adapter.
type Option func(*Plugin)

// WithLatency sets the initial delay the effect advertises, in samples
// at the plugin's processing rate.
func WithLatency(samples int) Option {
	return func(p *Plugin) {
		p.latency = samples
	}
}

// WithBlockSize makes the adapter demand buffers of exactly this size.
// Some effects produce garbage when the host varies the buffer length.
func WithBlockSize(size int) Option {
	return func(p *Plugin) {
		p.block = size
	}
}

// WithSampleRate makes the adapter demand a fixed processing rate, so
// the engine resamples around it instead of reconfiguring the effect.
func WithSampleRate(rate int) Option {
	return func(p *Plugin) {
		p.rate = rate
	}
}

// NewPlugin wraps an opened vst2 plugin. The caller keeps ownership of
// the handle: closing it is not the adapter's job, see Close.
func NewPlugin(name string, plugin *vst2sdk.Plugin, options ...Option) *Plugin {
	p := &Plugin{
		name:   name,
		plugin: plugin,
	}
	for _, option := range options {
		option(p)
	}
	return p
}

// Process feeds the buffer to the hosted effect. The effect is
// reconfigured and resumed when rate or buffer length change. Panics
// crossing the sdk boundary are recovered and surfaced as
// ExternalPluginError.
func (p *Plugin) Process(b *signal.Buffer) (out *signal.Buffer, err error) {
	defer p.guard("process", &err)
	if p.rate != 0 && b.SampleRate() != p.rate {
		return nil, pedal.ErrSampleRateMismatch
	}
	p.configure(b.SampleRate(), b.Length())
	p.plugin.Process(b.Data())
	return b, nil
}

// Reset suspends and resumes the effect, clearing its processing state.
func (p *Plugin) Reset() (err error) {
	defer p.guard("reset", &err)
	if p.resumed {
		p.plugin.Suspend()
		p.plugin.Resume()
	}
	return nil
}

// Latency implements pedal.Plugin.
func (p *Plugin) Latency() int {
	return p.latency
}

// SampleRate implements pedal.Plugin.
func (p *Plugin) SampleRate() int {
	return p.rate
}

// BlockSize implements pedal.Plugin.
func (p *Plugin) BlockSize() int {
	return p.block
}

// Name returns the effect name.
func (p *Plugin) Name() string {
	return p.name
}

// Close suspends the effect and releases the plugin handle.
func (p *Plugin) Close() (err error) {
	defer p.guard("close", &err)
	if p.resumed {
		p.plugin.Suspend()
		p.resumed = false
	}
	p.plugin.Close()
	return nil
}

// configure pushes rate and buffer length to the effect. VST2 requires
// the effect to be suspended during reconfiguration.
func (p *Plugin) configure(sampleRate, bufferSize int) {
	if p.resumed && sampleRate == p.boundRate && bufferSize == p.boundBlock {
		return
	}
	if p.resumed {
		p.plugin.Suspend()
	}
	p.plugin.SampleRate(sampleRate)
	p.plugin.BufferSize(bufferSize)
	p.plugin.Resume()
	p.resumed = true
	p.boundRate = sampleRate
	p.boundBlock = bufferSize
}

// guard converts a panic at the sdk call boundary into an
// ExternalPluginError.
func (p *Plugin) guard(op string, err *error) {
	if r := recover(); r != nil {
		*err = &pedal.ExternalPluginError{
			Plugin: p.name,
			Err:    fmt.Errorf("%v: panic: %v", op, r),
		}
	}
}

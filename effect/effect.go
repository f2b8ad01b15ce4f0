// Package effect provides built-in plugins for the pedal board. All of
// them are rate-agnostic and accept any block size.
package effect

import (
	"math"

	"github.com/dudk/pedal/signal"
)

// Gain scales the signal by a decibel amount.
type Gain struct {
	db   float64
	gain float64
}

// NewGain creates a gain effect with provided level in decibels.
func NewGain(db float64) *Gain {
	g := &Gain{}
	g.SetGainDB(db)
	return g
}

// SetGainDB changes the gain level.
func (g *Gain) SetGainDB(db float64) {
	g.db = db
	g.gain = math.Pow(10, db/20)
}

// GainDB returns the gain level in decibels.
func (g *Gain) GainDB() float64 {
	return g.db
}

// Process scales the buffer in place.
func (g *Gain) Process(b *signal.Buffer) (*signal.Buffer, error) {
	for _, channel := range b.Data() {
		for i := range channel {
			channel[i] *= g.gain
		}
	}
	return b, nil
}

// Reset is a no-op, gain is stateless.
func (g *Gain) Reset() error {
	return nil
}

// Latency is always zero.
func (g *Gain) Latency() int {
	return 0
}

// SampleRate returns zero, gain accepts any rate.
func (g *Gain) SampleRate() int {
	return 0
}

// BlockSize returns zero, gain accepts any block size.
func (g *Gain) BlockSize() int {
	return 0
}

// Delay postpones the signal by a fixed number of samples. It is a pure
// delay: it reports its full length as latency.
type Delay struct {
	samples int
	lines   signal.Float64
}

// NewDelay creates a delay of provided length in samples.
func NewDelay(samples int) *Delay {
	return &Delay{samples: samples}
}

// Process shifts the signal by the delay length, emitting retained
// samples of previous calls first.
func (d *Delay) Process(b *signal.Buffer) (*signal.Buffer, error) {
	if d.samples == 0 {
		return b, nil
	}
	data := b.Data()
	if d.lines == nil {
		d.lines = signal.EmptyFloat64(data.NumChannels(), d.samples)
	}
	size := data.Size()
	for c, channel := range data {
		line := append(d.lines[c], channel...)
		copy(channel, line[:size])
		d.lines[c] = line[size:]
	}
	return b, nil
}

// Reset drops retained samples.
func (d *Delay) Reset() error {
	d.lines = nil
	return nil
}

// Latency returns the delay length.
func (d *Delay) Latency() int {
	return d.samples
}

// SampleRate returns zero, delay accepts any rate.
func (d *Delay) SampleRate() int {
	return 0
}

// BlockSize returns zero, delay accepts any block size.
func (d *Delay) BlockSize() int {
	return 0
}

package pedal

import (
	"math"
	"sync"

	"github.com/dudk/pedal/signal"
)

// Plugin is a single stage of the effects chain. Implementations may be
// native Go effects or adapters around externally hosted plugin modules,
// both satisfy the same contract.
type Plugin interface {
	// Process transforms the valid region of the buffer. The buffer
	// sample rate must match the plugin requirement, otherwise the call
	// fails with ErrSampleRateMismatch. Implementations may mutate the
	// buffer in place or return a new one of the same length.
	Process(b *signal.Buffer) (*signal.Buffer, error)
	// Reset clears internal processing state without discarding
	// configuration. It is idempotent.
	Reset() error
	// Latency returns samples of pure delay the plugin introduces,
	// reported at the plugin's own sample rate. The value may change
	// after a configuration change and must be re-queried.
	Latency() int
	// SampleRate returns the sample rate the plugin requires. Zero means
	// the plugin accepts any rate.
	SampleRate() int
	// BlockSize returns the exact number of samples the plugin must be
	// fed per call. Zero means any block size is accepted.
	BlockSize() int
}

// Board is an ordered chain of plugins. Processing order is the slice
// order. Composition is mutable between sessions, but not while a
// session is active.
type Board struct {
	m       sync.Mutex
	plugins []Plugin
	active  bool
}

// NewBoard creates a board with provided plugins.
func NewBoard(plugins ...Plugin) *Board {
	return &Board{plugins: plugins}
}

// Len returns number of plugins in the board.
func (b *Board) Len() int {
	b.m.Lock()
	defer b.m.Unlock()
	return len(b.plugins)
}

// Plugin returns the plugin at position i.
func (b *Board) Plugin(i int) (Plugin, error) {
	b.m.Lock()
	defer b.m.Unlock()
	if i < 0 || i >= len(b.plugins) {
		return nil, signal.ErrOutOfRange
	}
	return b.plugins[i], nil
}

// Append adds a plugin to the end of the chain.
func (b *Board) Append(p Plugin) error {
	b.m.Lock()
	defer b.m.Unlock()
	if b.active {
		return ErrInvalidChainMutation
	}
	b.plugins = append(b.plugins, p)
	return nil
}

// Insert adds a plugin at position i.
func (b *Board) Insert(i int, p Plugin) error {
	b.m.Lock()
	defer b.m.Unlock()
	if b.active {
		return ErrInvalidChainMutation
	}
	if i < 0 || i > len(b.plugins) {
		return signal.ErrOutOfRange
	}
	b.plugins = append(b.plugins, nil)
	copy(b.plugins[i+1:], b.plugins[i:])
	b.plugins[i] = p
	return nil
}

// Remove removes and returns the plugin at position i.
func (b *Board) Remove(i int) (Plugin, error) {
	b.m.Lock()
	defer b.m.Unlock()
	if b.active {
		return nil, ErrInvalidChainMutation
	}
	if i < 0 || i >= len(b.plugins) {
		return nil, signal.ErrOutOfRange
	}
	p := b.plugins[i]
	b.plugins = append(b.plugins[:i], b.plugins[i+1:]...)
	return p, nil
}

// Replace swaps the plugin at position i.
func (b *Board) Replace(i int, p Plugin) error {
	b.m.Lock()
	defer b.m.Unlock()
	if b.active {
		return ErrInvalidChainMutation
	}
	if i < 0 || i >= len(b.plugins) {
		return signal.ErrOutOfRange
	}
	b.plugins[i] = p
	return nil
}

// Latency returns the sum of member latencies, each rescaled from the
// plugin's native rate to the provided chain rate. Resampling stages the
// engine inserts around rate-constrained plugins add their own group
// delay on top, see Engine.Latency.
func (b *Board) Latency(sampleRate int) int {
	b.m.Lock()
	defer b.m.Unlock()
	var total int
	for _, p := range b.plugins {
		total += scaleLatency(p.Latency(), pluginRate(p, sampleRate), sampleRate)
	}
	return total
}

// Reset resets every member in order. Composition is not changed.
func (b *Board) Reset() error {
	b.m.Lock()
	defer b.m.Unlock()
	for _, p := range b.plugins {
		if err := p.Reset(); err != nil {
			return err
		}
	}
	return nil
}

// acquire marks the board as used by a session. Only one session may
// hold a board at a time.
func (b *Board) acquire() ([]Plugin, error) {
	b.m.Lock()
	defer b.m.Unlock()
	if b.active {
		return nil, ErrActiveSession
	}
	b.active = true
	plugins := make([]Plugin, len(b.plugins))
	copy(plugins, b.plugins)
	return plugins, nil
}

func (b *Board) release() {
	b.m.Lock()
	b.active = false
	b.m.Unlock()
}

// pluginRate returns the rate a plugin runs at within a chain of
// provided rate.
func pluginRate(p Plugin, chainRate int) int {
	if rate := p.SampleRate(); rate != 0 {
		return rate
	}
	return chainRate
}

// scaleLatency rescales a latency value between sample rates.
func scaleLatency(latency, from, to int) int {
	if latency == 0 || from == to {
		return latency
	}
	return int(math.Round(float64(latency) * float64(to) / float64(from)))
}

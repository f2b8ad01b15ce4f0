// Package resample provides streaming sample-rate conversion. Resampler
// keeps filter state across calls, so a signal fed in arbitrary chunks
// produces exactly the same output as the same signal fed in one call.
package resample

import (
	"errors"
	"math"

	"github.com/cwbudde/algo-dsp/dsp/window"

	"github.com/dudk/pedal/signal"
)

var (
	// ErrInvalidRate is returned when conversion rates are not positive.
	ErrInvalidRate = errors.New("resample: invalid sample rate")
	// ErrNumChannels is returned when a buffer has a different number of
	// channels than the resampler was created for.
	ErrNumChannels = errors.New("resample: wrong number of channels")
	// ErrFlushed is returned when the resampler is used after flush
	// without reset.
	ErrFlushed = errors.New("resample: flushed")
	// ErrState indicates violation of an internal invariant. It is always
	// a bug, never a caller mistake.
	ErrState = errors.New("resample: invalid internal state")
)

type config struct {
	tapsPerPhase int
	cutoffScale  float64
	kaiserBeta   float64
}

// Option configures the resampler filter design.
type Option func(*config)

// WithTapsPerPhase overrides the number of taps per polyphase branch.
func WithTapsPerPhase(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.tapsPerPhase = n
		}
	}
}

// WithCutoffScale overrides normalized cutoff scaling in range (0, 1].
func WithCutoffScale(v float64) Option {
	return func(c *config) {
		if v > 0 && v <= 1 {
			c.cutoffScale = v
		}
	}
}

// WithKaiserBeta overrides the Kaiser window beta parameter.
func WithKaiserBeta(beta float64) Option {
	return func(c *config) {
		if beta >= 0 {
			c.kaiserBeta = beta
		}
	}
}

// Resampler converts a multi-channel signal between two sample rates with
// a polyphase Kaiser-windowed sinc FIR. All channels share phase state, so
// they stay sample-aligned.
type Resampler struct {
	from     int
	to       int
	up       int
	down     int
	channels int

	phases   [][]float64
	maxPhase int

	phase      int
	inputIndex int
	totalIn    int
	history    signal.Float64
	flushed    bool
}

// New creates a resampler converting numChannels-channel signal from one
// rate to another.
func New(from, to, numChannels int, options ...Option) (*Resampler, error) {
	if from <= 0 || to <= 0 {
		return nil, ErrInvalidRate
	}
	if numChannels <= 0 {
		return nil, ErrNumChannels
	}
	cfg := config{
		tapsPerPhase: 32,
		cutoffScale:  0.92,
		kaiserBeta:   7.5,
	}
	for _, option := range options {
		option(&cfg)
	}
	g := gcd(from, to)
	r := &Resampler{
		from:     from,
		to:       to,
		up:       to / g,
		down:     from / g,
		channels: numChannels,
		history:  make(signal.Float64, numChannels),
	}
	if r.up == 1 && r.down == 1 {
		return r, nil
	}
	if err := r.design(cfg); err != nil {
		return nil, err
	}
	return r, nil
}

// Rates returns source and target sample rates.
func (r *Resampler) Rates() (from, to int) {
	return r.from, r.to
}

// Latency returns the group delay of the conversion filter in output
// samples. Identity conversion has zero latency.
func (r *Resampler) Latency() int {
	if r.up == 1 && r.down == 1 {
		return 0
	}
	center := 0.5 * float64(len(r.phases)*len(r.phases[0])-1)
	return int(math.Round(center / float64(r.down)))
}

// Process converts the next chunk of the signal. It consumes all input
// samples and returns as many output samples as are fully determined,
// retaining the filter tail for the next call.
func (r *Resampler) Process(b signal.Float64) (signal.Float64, error) {
	if r.flushed {
		return nil, ErrFlushed
	}
	if b.Size() == 0 {
		return signal.EmptyFloat64(r.channels, 0), nil
	}
	if b.NumChannels() != r.channels {
		return nil, ErrNumChannels
	}
	if r.up == 1 && r.down == 1 {
		return b, nil
	}
	return r.process(b)
}

// Flush drains the retained filter tail by running zeros through it,
// emitting the remaining output of the stream. The resampler cannot be
// used again until Reset.
func (r *Resampler) Flush() (signal.Float64, error) {
	if r.flushed {
		return nil, ErrFlushed
	}
	r.flushed = true
	if r.up == 1 && r.down == 1 {
		return signal.EmptyFloat64(r.channels, 0), nil
	}
	tail := r.maxPhase - 1
	if tail <= 0 {
		return signal.EmptyFloat64(r.channels, 0), nil
	}
	return r.process(signal.EmptyFloat64(r.channels, tail))
}

// Reset clears phase and retained-sample state so the resampler can be
// reused for an unrelated stream. Filter coefficients are kept.
func (r *Resampler) Reset() {
	r.phase = 0
	r.inputIndex = 0
	r.totalIn = 0
	r.flushed = false
	for i := range r.history {
		r.history[i] = r.history[i][:0]
	}
}

func (r *Resampler) process(b signal.Float64) (signal.Float64, error) {
	in := b.Size()
	if in == 0 {
		return signal.EmptyFloat64(r.channels, 0), nil
	}
	histLen := r.history.Size()
	if histLen > r.totalIn {
		return nil, ErrState
	}
	work := make(signal.Float64, r.channels)
	for c := range work {
		work[c] = make([]float64, 0, histLen+in)
		work[c] = append(work[c], r.history[c]...)
		work[c] = append(work[c], b[c]...)
	}
	baseIndex := r.totalIn - histLen
	lastAvail := r.totalIn + in - 1

	out := make(signal.Float64, r.channels)
	for r.inputIndex <= lastAvail {
		taps := r.phases[r.phase]
		for c := 0; c < r.channels; c++ {
			var y float64
			for k, tap := range taps {
				idx := r.inputIndex - k
				if idx < baseIndex || idx > lastAvail {
					continue
				}
				y += tap * work[c][idx-baseIndex]
			}
			out[c] = append(out[c], y)
		}
		r.phase += r.down
		r.inputIndex += r.phase / r.up
		r.phase %= r.up
	}
	r.totalIn += in

	keep := r.maxPhase - 1
	if keep > len(work[0]) {
		keep = len(work[0])
	}
	if keep < 0 {
		return nil, ErrState
	}
	for c := range work {
		r.history[c] = append(r.history[c][:0], work[c][len(work[c])-keep:]...)
	}
	return out, nil
}

// design builds the polyphase decomposition of a Kaiser-windowed sinc
// prototype with cutoff at the narrower of the two Nyquist frequencies.
func (r *Resampler) design(cfg config) error {
	nTaps := cfg.tapsPerPhase * r.up
	wider := r.up
	if r.down > wider {
		wider = r.down
	}
	fc := 0.5 / float64(wider) * cfg.cutoffScale

	w, err := window.Kaiser(nTaps, cfg.kaiserBeta)
	if err != nil {
		return err
	}

	taps := make([]float64, nTaps)
	center := 0.5 * float64(nTaps-1)
	var sum float64
	for n := range taps {
		t := float64(n) - center
		taps[n] = 2 * fc * sinc(2*fc*t) * w[n]
		sum += taps[n]
	}
	if sum == 0 {
		return ErrState
	}
	// unity passband gain after upsampling by r.up
	scale := float64(r.up) / sum
	for i := range taps {
		taps[i] *= scale
	}

	r.phases = make([][]float64, r.up)
	for p := 0; p < r.up; p++ {
		phase := make([]float64, 0, (nTaps-p+r.up-1)/r.up)
		for i := p; i < nTaps; i += r.up {
			phase = append(phase, taps[i])
		}
		if len(phase) > r.maxPhase {
			r.maxPhase = len(phase)
		}
		r.phases[p] = phase
	}
	return nil
}

func sinc(x float64) float64 {
	if math.Abs(x) < 1e-12 {
		return 1
	}
	pix := math.Pi * x
	return math.Sin(pix) / pix
}

func gcd(a, b int) int {
	for b != 0 {
		a, b = b, a%b
	}
	if a == 0 {
		return 1
	}
	return a
}

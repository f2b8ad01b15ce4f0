package resample_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dudk/pedal/resample"
	"github.com/dudk/pedal/signal"
)

func sine(numChannels, size int, freq, rate float64) signal.Float64 {
	b := signal.EmptyFloat64(numChannels, size)
	for c := range b {
		for i := range b[c] {
			b[c][i] = math.Sin(2 * math.Pi * freq * float64(i) / rate)
		}
	}
	return b
}

func session(t *testing.T, r *resample.Resampler, in signal.Float64, chunk int) signal.Float64 {
	t.Helper()
	var out signal.Float64
	for start := 0; start < in.Size(); start += chunk {
		b, err := r.Process(in.Slice(start, chunk))
		assert.NoError(t, err)
		out = out.Append(b)
	}
	tail, err := r.Flush()
	assert.NoError(t, err)
	return out.Append(tail)
}

func TestNew(t *testing.T) {
	_, err := resample.New(0, 48000, 1)
	assert.Equal(t, resample.ErrInvalidRate, err)
	_, err = resample.New(44100, -1, 1)
	assert.Equal(t, resample.ErrInvalidRate, err)
	_, err = resample.New(44100, 48000, 0)
	assert.Equal(t, resample.ErrNumChannels, err)

	r, err := resample.New(44100, 44100, 2)
	assert.NoError(t, err)
	assert.Equal(t, 0, r.Latency())
}

func TestIdentity(t *testing.T) {
	r, err := resample.New(48000, 48000, 1)
	assert.NoError(t, err)
	in := sine(1, 100, 440, 48000)
	out, err := r.Process(in)
	assert.NoError(t, err)
	assert.Equal(t, in, out)
	tail, err := r.Flush()
	assert.NoError(t, err)
	assert.Nil(t, tail)
}

func TestChunkInvariance(t *testing.T) {
	in := sine(2, 4410, 997, 44100)
	whole, err := resample.New(44100, 48000, 2)
	assert.NoError(t, err)
	reference := session(t, whole, in, in.Size())

	for _, chunk := range []int{1, 7, 64, 513, 1000} {
		r, err := resample.New(44100, 48000, 2)
		assert.NoError(t, err)
		out := session(t, r, in, chunk)
		assert.Equal(t, reference.Size(), out.Size())
		for c := range reference {
			for i := range reference[c] {
				assert.InDelta(t, reference[c][i], out[c][i], 1e-12)
			}
		}
	}
}

func TestImpulseLatency(t *testing.T) {
	r, err := resample.New(44100, 88200, 1)
	assert.NoError(t, err)
	in := signal.EmptyFloat64(1, 256)
	in[0][0] = 1
	out := session(t, r, in, 256)

	peak, peakValue := 0, 0.0
	for i, v := range out[0] {
		if math.Abs(v) > peakValue {
			peak, peakValue = i, math.Abs(v)
		}
	}
	assert.InDelta(t, float64(r.Latency()), float64(peak), 1)
}

func TestRoundTrip(t *testing.T) {
	in := sine(1, 8820, 440, 44100)
	up, err := resample.New(44100, 48000, 1)
	assert.NoError(t, err)
	down, err := resample.New(48000, 44100, 1)
	assert.NoError(t, err)

	mid := session(t, up, in, 512)
	out := session(t, down, mid, 512)

	// length preserved up to filter tails
	delay := up.Latency()*44100/48000 + down.Latency()
	assert.True(t, out.Size() >= in.Size()+delay)

	// shape preserved once group delay is compensated, edges skipped.
	// group delay is fractional, so the best alignment within a couple
	// of samples around the reported latency is taken.
	bestErr := math.Inf(1)
	for d := delay - 2; d <= delay+2; d++ {
		var maxErr float64
		for i := 1000; i < in.Size()-1000; i++ {
			if diff := math.Abs(out[0][i+d] - in[0][i]); diff > maxErr {
				maxErr = diff
			}
		}
		if maxErr < bestErr {
			bestErr = maxErr
		}
	}
	assert.True(t, bestErr < 0.05, "round trip error %v", bestErr)
}

func TestFlushed(t *testing.T) {
	r, err := resample.New(44100, 48000, 1)
	assert.NoError(t, err)
	_, err = r.Flush()
	assert.NoError(t, err)
	_, err = r.Process(signal.EmptyFloat64(1, 10))
	assert.Equal(t, resample.ErrFlushed, err)
	_, err = r.Flush()
	assert.Equal(t, resample.ErrFlushed, err)

	r.Reset()
	_, err = r.Process(signal.EmptyFloat64(1, 10))
	assert.NoError(t, err)
}

func TestResetReproduces(t *testing.T) {
	in := sine(1, 2000, 220, 44100)
	r, err := resample.New(44100, 22050, 1)
	assert.NoError(t, err)
	first := session(t, r, in, 256)
	r.Reset()
	second := session(t, r, in, 256)
	assert.Equal(t, first, second)
}

func TestNumChannels(t *testing.T) {
	r, err := resample.New(44100, 48000, 2)
	assert.NoError(t, err)
	_, err = r.Process(signal.EmptyFloat64(1, 10))
	assert.Equal(t, resample.ErrNumChannels, err)
}

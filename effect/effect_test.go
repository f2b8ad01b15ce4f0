package effect_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dudk/pedal/effect"
	"github.com/dudk/pedal/signal"
)

func TestGain(t *testing.T) {
	g := effect.NewGain(6)
	assert.Equal(t, 6.0, g.GainDB())
	assert.Equal(t, 0, g.Latency())
	assert.Equal(t, 0, g.SampleRate())
	assert.Equal(t, 0, g.BlockSize())

	b := signal.WrapFloat64(signal.Float64([][]float64{{1, 1, -1}}), 44100)
	out, err := g.Process(b)
	assert.NoError(t, err)
	for i, expected := range []float64{1.9952623149688795, 1.9952623149688795, -1.9952623149688795} {
		assert.InDelta(t, expected, out.Data()[0][i], 1e-9)
	}

	g.SetGainDB(0)
	b = signal.WrapFloat64(signal.Float64([][]float64{{0.5}}), 44100)
	out, err = g.Process(b)
	assert.NoError(t, err)
	assert.Equal(t, 0.5, out.Data()[0][0])
	assert.NoError(t, g.Reset())
}

func TestDelay(t *testing.T) {
	d := effect.NewDelay(3)
	assert.Equal(t, 3, d.Latency())

	b := signal.WrapFloat64(signal.Float64([][]float64{{1, 2, 3, 4, 5}}), 44100)
	out, err := d.Process(b)
	assert.NoError(t, err)
	assert.Equal(t, []float64{0, 0, 0, 1, 2}, out.Data()[0])

	b = signal.WrapFloat64(signal.Float64([][]float64{{6, 7}}), 44100)
	out, err = d.Process(b)
	assert.NoError(t, err)
	assert.Equal(t, []float64{3, 4}, out.Data()[0])

	assert.NoError(t, d.Reset())
	b = signal.WrapFloat64(signal.Float64([][]float64{{1}}), 44100)
	out, err = d.Process(b)
	assert.NoError(t, err)
	assert.Equal(t, []float64{0}, out.Data()[0])
}

func TestZeroDelay(t *testing.T) {
	d := effect.NewDelay(0)
	b := signal.WrapFloat64(signal.Float64([][]float64{{1, 2}}), 44100)
	out, err := d.Process(b)
	assert.NoError(t, err)
	assert.Equal(t, []float64{1, 2}, out.Data()[0])
}

package signal_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/dudk/pedal/signal"
)

func TestInterIntAsFloat64(t *testing.T) {
	ints := signal.InterInt{
		Data:        []int{1, 2, 1, 2, 1, 2, 1, 2},
		NumChannels: 2,
		BitDepth:    signal.BitDepth16,
	}
	floats := ints.AsFloat64()
	assert.Equal(t, 2, floats.NumChannels())
	assert.Equal(t, 4, floats.Size())
	for _, v := range floats[0] {
		assert.Equal(t, float64(1)/0x7fff, v)
	}

	empty := signal.InterInt{}
	assert.Nil(t, empty.AsFloat64())
}

func TestFloat64AsInterInt(t *testing.T) {
	floats := signal.Float64([][]float64{
		{1, 1, 1, 1},
		{-1, -1, -1, -1},
	})
	ints := floats.AsInterInt(signal.BitDepth16)
	assert.Equal(t, 8, len(ints))
	assert.Equal(t, 0x7fff-1, ints[0])
	assert.Equal(t, -(0x7fff - 1), ints[1])

	assert.Nil(t, signal.Float64(nil).AsInterInt(signal.BitDepth16))
}

func TestAppendSlice(t *testing.T) {
	var floats signal.Float64
	floats = floats.Append(signal.Float64([][]float64{{1, 2, 3}}))
	floats = floats.Append(signal.Float64([][]float64{{4, 5, 6}}))
	assert.Equal(t, 6, floats.Size())

	sliced := floats.Slice(4, 10)
	assert.Equal(t, 2, sliced.Size())
	assert.Equal(t, []float64{5, 6}, sliced[0])

	assert.Nil(t, floats.Slice(-1, 2))
	assert.Nil(t, floats.Slice(6, 2))
}

func TestDurationOf(t *testing.T) {
	assert.Equal(t, time.Second, signal.DurationOf(44100, 44100))
}

func TestBuffer(t *testing.T) {
	b := signal.NewBuffer(2, 512, 44100)
	assert.Equal(t, 512, b.Capacity())
	assert.Equal(t, 512, b.Length())
	assert.Equal(t, 2, b.NumChannels())
	assert.Equal(t, 44100, b.SampleRate())

	assert.NoError(t, b.SetLength(0))
	assert.NoError(t, b.SetLength(512))
	assert.Equal(t, signal.ErrOutOfRange, b.SetLength(513))
	assert.Equal(t, signal.ErrOutOfRange, b.SetLength(-1))

	_, err := b.Channel(2)
	assert.Equal(t, signal.ErrOutOfRange, err)

	// write-read round trip is bit exact
	assert.NoError(t, b.SetLength(3))
	c, err := b.Channel(0)
	assert.NoError(t, err)
	c[0], c[1], c[2] = 0.1, -0.2, 1e-17
	read, err := b.Channel(0)
	assert.NoError(t, err)
	assert.Equal(t, []float64{0.1, -0.2, 1e-17}, read)
}

func TestWrapFloat64(t *testing.T) {
	data := signal.Float64([][]float64{{1, 2}, {3, 4}})
	b := signal.WrapFloat64(data, 48000)
	assert.Equal(t, 2, b.Length())
	assert.Equal(t, data, b.Data())
}

package mock_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dudk/pedal/mock"
	"github.com/dudk/pedal/signal"
)

func TestPlugin(t *testing.T) {
	p := &mock.Plugin{Value: 2}
	b := signal.WrapFloat64(signal.Float64{{1, 2, 3}}, 44100)

	out, err := p.Process(b)
	assert.NoError(t, err)
	assert.Equal(t, []float64{2, 4, 6}, out.Data()[0])
	assert.Equal(t, 3, p.Samples)
	assert.Equal(t, 1, p.Messages)

	assert.NoError(t, p.Reset())
	assert.True(t, p.Resetted)
	assert.Equal(t, 0, p.Samples)
}

func TestPluginRate(t *testing.T) {
	p := &mock.Plugin{Rate: 48000}
	b := signal.WrapFloat64(signal.Float64{{1}}, 44100)
	_, err := p.Process(b)
	assert.Error(t, err)
}

func TestPluginError(t *testing.T) {
	fail := errors.New("broken")
	p := &mock.Plugin{ErrorOnCall: fail}
	b := signal.WrapFloat64(signal.Float64{{1}}, 44100)
	_, err := p.Process(b)
	assert.Equal(t, fail, err)
}

package wav_test

import (
	"io"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dudk/pedal/signal"
	"github.com/dudk/pedal/wav"
)

const bufferSize = 512

func TestSinkPump(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.wav")

	sink, err := wav.NewSink(path, signal.BitDepth16)
	assert.NoError(t, err)
	sinkFn, err := sink.Sink(44100, 2)
	assert.NoError(t, err)

	written := 0
	for i := 0; i < 3; i++ {
		b := signal.EmptyFloat64(2, bufferSize)
		for c := range b {
			for j := range b[c] {
				b[c][j] = 0.5
			}
		}
		assert.NoError(t, sinkFn(b))
		written += bufferSize
	}
	assert.NoError(t, sink.Close())

	pump := wav.NewPump(path)
	pumpFn, sampleRate, numChannels, err := pump.Pump(bufferSize)
	assert.NoError(t, err)
	assert.Equal(t, 44100, sampleRate)
	assert.Equal(t, 2, numChannels)

	read := 0
	for {
		b, err := pumpFn()
		if err == io.EOF {
			break
		}
		if err != io.ErrUnexpectedEOF {
			assert.NoError(t, err)
		}
		read += b.Size()
		for c := range b {
			for _, v := range b[c] {
				assert.InDelta(t, 0.5, v, 1e-3)
			}
		}
		if err == io.ErrUnexpectedEOF {
			break
		}
	}
	assert.Equal(t, written, read)
	assert.NoError(t, pump.Close())
}

func TestUnsupportedBitDepth(t *testing.T) {
	_, err := wav.NewSink("out.wav", signal.BitDepth8)
	assert.Equal(t, wav.ErrUnsupportedBitDepth, err)
}

func TestInvalidFile(t *testing.T) {
	pump := wav.NewPump(filepath.Join(t.TempDir(), "missing.wav"))
	_, _, _, err := pump.Pump(bufferSize)
	assert.Error(t, err)
}

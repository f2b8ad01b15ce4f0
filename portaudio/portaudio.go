// Package portaudio allows to play processed audio with the default
// output device.
package portaudio

import (
	"github.com/gordonklaus/portaudio"

	"github.com/dudk/pedal/signal"
)

// Sink represents portaudio sink which allows to play audio using
// default device.
type Sink struct {
	buf         []float32
	stream      *portaudio.Stream
	bufferSize  int
	sampleRate  int
	numChannels int
}

// NewSink returns new initialized sink which allows to play audio.
func NewSink(bufferSize, sampleRate, numChannels int) *Sink {
	return &Sink{
		bufferSize:  bufferSize,
		sampleRate:  sampleRate,
		numChannels: numChannels,
	}
}

// Sink initializes portaudio with the default stream and returns a
// function that writes buffers to it. Buffers must be exactly
// bufferSize samples long, portaudio rejects anything else.
func (s *Sink) Sink() (func(signal.Float64) error, error) {
	s.buf = make([]float32, s.bufferSize*s.numChannels)
	err := portaudio.Initialize()
	if err != nil {
		return nil, err
	}
	s.stream, err = portaudio.OpenDefaultStream(0, s.numChannels, float64(s.sampleRate), s.bufferSize, &s.buf)
	if err != nil {
		return nil, err
	}
	if err = s.stream.Start(); err != nil {
		return nil, err
	}
	return func(b signal.Float64) error {
		for i := range b[0] {
			for j := range b {
				s.buf[i*s.numChannels+j] = float32(b[j][i])
			}
		}
		return s.stream.Write()
	}, nil
}

// Close terminates portaudio structures.
func (s *Sink) Close() error {
	if err := s.stream.Stop(); err != nil {
		return err
	}
	if err := s.stream.Close(); err != nil {
		return err
	}
	return portaudio.Terminate()
}

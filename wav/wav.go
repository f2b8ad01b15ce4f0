// Package wav supplies and consumes raw sample buffers stored in wav
// files. It is the file collaborator of the streaming engine: the core
// never reads or writes files itself.
package wav

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/dudk/pedal/signal"
)

type (
	// Pump reads from wav file.
	Pump struct {
		path    string
		file    *os.File
		decoder *wav.Decoder
	}

	// Sink saves audio to wav file.
	Sink struct {
		path     string
		bitDepth signal.BitDepth
		format   int
		file     *os.File
		encoder  *wav.Encoder
	}
)

// ErrUnsupportedBitDepth is returned when unsupported bit depth is used.
var ErrUnsupportedBitDepth = errors.New("wav: only 16 and 32 bit depth are supported")

// NewPump creates a new wav pump.
func NewPump(path string) *Pump {
	return &Pump{path: path}
}

// Pump opens the file and returns a function that reads consecutive
// buffers of up to bufferSize samples, along with wav attributes.
// The returned function uses next error conventions:
//	- nil if a full buffer was read;
//	- io.EOF if no data was read;
//	- io.ErrUnexpectedEOF if not a full buffer was read.
func (p *Pump) Pump(bufferSize int) (func() (signal.Float64, error), int, int, error) {
	file, err := os.Open(p.path)
	if err != nil {
		return nil, 0, 0, err
	}

	decoder := wav.NewDecoder(file)
	if !decoder.IsValidFile() {
		if err = file.Close(); err != nil {
			return nil, 0, 0, fmt.Errorf("wav is not valid, failed to close the file %v", p.path)
		}
		return nil, 0, 0, errors.New("wav is not valid")
	}

	bitDepth := signal.BitDepth(decoder.BitDepth)
	if bitDepth != signal.BitDepth16 && bitDepth != signal.BitDepth32 {
		return nil, 0, 0, ErrUnsupportedBitDepth
	}

	p.file = file
	p.decoder = decoder
	numChannels := decoder.Format().NumChannels
	sampleRate := int(decoder.SampleRate)

	ib := &audio.IntBuffer{
		Format:         decoder.Format(),
		Data:           make([]int, bufferSize*numChannels),
		SourceBitDepth: int(bitDepth),
	}

	return func() (signal.Float64, error) {
		readSamples, err := p.decoder.PCMBuffer(ib)
		if err != nil {
			return nil, err
		}
		if readSamples == 0 {
			return nil, io.EOF
		}
		// prune buffer to actual size
		b := signal.InterInt{
			Data:        ib.Data[:readSamples],
			NumChannels: numChannels,
			BitDepth:    bitDepth,
		}.AsFloat64()
		if b.Size() != bufferSize {
			return b, io.ErrUnexpectedEOF
		}
		return b, nil
	}, sampleRate, numChannels, nil
}

// Close closes the file.
func (p *Pump) Close() error {
	return p.file.Close()
}

// NewSink creates a new wav sink.
func NewSink(path string, bitDepth signal.BitDepth) (*Sink, error) {
	if bitDepth != signal.BitDepth16 && bitDepth != signal.BitDepth32 {
		return nil, ErrUnsupportedBitDepth
	}
	return &Sink{
		path:     path,
		bitDepth: bitDepth,
		format:   1,
	}, nil
}

// Sink creates the file and returns a function that appends buffers
// to it.
func (s *Sink) Sink(sampleRate, numChannels int) (func(signal.Float64) error, error) {
	f, err := os.Create(s.path)
	if err != nil {
		return nil, err
	}
	e := wav.NewEncoder(f, sampleRate, int(s.bitDepth), numChannels, s.format)

	s.file = f
	s.encoder = e
	ib := &audio.IntBuffer{
		Format: &audio.Format{
			NumChannels: numChannels,
			SampleRate:  sampleRate,
		},
		SourceBitDepth: int(s.bitDepth),
	}

	return func(b signal.Float64) error {
		ib.Data = b.AsInterInt(s.bitDepth)
		return s.encoder.Write(ib)
	}, nil
}

// Close flushes the encoder and closes the file.
func (s *Sink) Close() error {
	if err := s.encoder.Close(); err != nil {
		return err
	}
	return s.file.Close()
}

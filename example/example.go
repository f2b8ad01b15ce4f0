// Package example contains ready to run pedal chains.
package example

import (
	"io"

	"github.com/dudk/pedal"
	"github.com/dudk/pedal/effect"
	"github.com/dudk/pedal/mp3"
	"github.com/dudk/pedal/portaudio"
	"github.com/dudk/pedal/signal"
	"github.com/dudk/pedal/wav"
)

const bufferSize = 512

// Play reads a .wav file and plays it with the default output device.
func Play(wavPath string) error {
	pump := wav.NewPump(wavPath)
	pumpFn, sampleRate, numChannels, err := pump.Pump(bufferSize)
	if err != nil {
		return err
	}
	defer pump.Close()

	paSink := portaudio.NewSink(bufferSize, sampleRate, numChannels)
	sinkFn, err := paSink.Sink()
	if err != nil {
		return err
	}
	defer paSink.Close()

	for {
		b, err := pumpFn()
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return nil
		}
		if err != nil {
			return err
		}
		if err := sinkFn(b); err != nil {
			return err
		}
	}
}

// GainToMp3 reads a .wav file, applies gain and encodes the result into
// an .mp3 file.
func GainToMp3(wavPath, mp3Path string, gainDB float64) error {
	pump := wav.NewPump(wavPath)
	pumpFn, sampleRate, numChannels, err := pump.Pump(bufferSize)
	if err != nil {
		return err
	}
	defer pump.Close()

	board := pedal.NewBoard(effect.NewGain(gainDB))
	engine := pedal.NewEngine(board)

	sink := mp3.NewSink(mp3Path, 192, 2)
	sinkFn, err := sink.Sink(sampleRate, numChannels)
	if err != nil {
		return err
	}

	for {
		b, err := pumpFn()
		if err == io.EOF {
			break
		}
		if err != nil && err != io.ErrUnexpectedEOF {
			return err
		}
		out, perr := engine.Process(signal.WrapFloat64(b, sampleRate))
		if perr != nil {
			return perr
		}
		if out.Length() > 0 {
			if serr := sinkFn(out.Data()); serr != nil {
				return serr
			}
		}
		if err == io.ErrUnexpectedEOF {
			break
		}
	}
	tail, err := engine.Flush()
	if err != nil {
		return err
	}
	if tail.Length() > 0 {
		if err := sinkFn(tail.Data()); err != nil {
			return err
		}
	}
	return sink.Close()
}

// Resample reads a .wav file and writes it into another .wav file with a
// different sample rate.
func Resample(inPath, outPath string, outRate int) error {
	pump := wav.NewPump(inPath)
	pumpFn, sampleRate, numChannels, err := pump.Pump(bufferSize)
	if err != nil {
		return err
	}
	defer pump.Close()

	board := pedal.NewBoard()
	engine := pedal.NewEngine(board, pedal.WithOutputRate(outRate))

	sink, err := wav.NewSink(outPath, signal.BitDepth16)
	if err != nil {
		return err
	}
	sinkFn, err := sink.Sink(outRate, numChannels)
	if err != nil {
		return err
	}

	for {
		b, err := pumpFn()
		if err == io.EOF {
			break
		}
		if err != nil && err != io.ErrUnexpectedEOF {
			return err
		}
		out, perr := engine.Process(signal.WrapFloat64(b, sampleRate))
		if perr != nil {
			return perr
		}
		if out.Length() > 0 {
			if serr := sinkFn(out.Data()); serr != nil {
				return serr
			}
		}
		if err == io.ErrUnexpectedEOF {
			break
		}
	}
	tail, err := engine.Flush()
	if err != nil {
		return err
	}
	if tail.Length() > 0 {
		if err := sinkFn(tail.Data()); err != nil {
			return err
		}
	}
	return sink.Close()
}

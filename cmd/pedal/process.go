package main

import (
	"errors"
	"flag"
	"io"

	"github.com/dudk/pedal"
	"github.com/dudk/pedal/effect"
	"github.com/dudk/pedal/log"
	"github.com/dudk/pedal/signal"
	"github.com/dudk/pedal/vst2"
	"github.com/dudk/pedal/wav"
)

type processCommand struct {
	in         string
	out        string
	paths      stringList
	plugins    stringList
	gain       float64
	outRate    int
	bufferSize int
}

func (cmd *processCommand) Name() string {
	return "process"
}

func (cmd *processCommand) Help() string {
	return "Process a wav file through a chain of plugins"
}

func (cmd *processCommand) Register(f *flag.FlagSet) {
	f.StringVar(&cmd.in, "in", "", "input wav file")
	f.StringVar(&cmd.out, "out", "out.wav", "output wav file")
	f.Var(&cmd.paths, "path", "semicolon separated list of paths to scan")
	f.Var(&cmd.plugins, "plugin", "semicolon separated list of vst2 plugin names")
	f.Float64Var(&cmd.gain, "gain", 0, "output gain in dB")
	f.IntVar(&cmd.outRate, "rate", 0, "output sample rate, 0 keeps the input rate")
	f.IntVar(&cmd.bufferSize, "buffersize", 512, "buffer size used for processing")
}

func (cmd *processCommand) Run() error {
	if cmd.in == "" {
		return errors.New("input file is required")
	}

	pump := wav.NewPump(cmd.in)
	pumpFn, sampleRate, numChannels, err := pump.Pump(cmd.bufferSize)
	if err != nil {
		return err
	}
	defer pump.Close()

	cache := vst2.NewCache(cmd.paths...)
	defer cache.Close()

	board := pedal.NewBoard()
	for _, name := range cmd.plugins {
		plugin, err := cache.Find(name, vst2.WithBlockSize(cmd.bufferSize))
		if err != nil {
			return err
		}
		defer plugin.Close()
		if err := board.Append(plugin); err != nil {
			return err
		}
	}
	if cmd.gain != 0 {
		if err := board.Append(effect.NewGain(cmd.gain)); err != nil {
			return err
		}
	}

	options := []pedal.Option{pedal.WithLogger(log.GetLogger())}
	if cmd.outRate != 0 {
		options = append(options, pedal.WithOutputRate(cmd.outRate))
	}
	engine := pedal.NewEngine(board, options...)

	outRate := sampleRate
	if cmd.outRate != 0 {
		outRate = cmd.outRate
	}
	sink, err := wav.NewSink(cmd.out, signal.BitDepth16)
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
		in := signal.WrapFloat64(b, sampleRate)
		out, perr := engine.Process(in)
		if perr != nil {
			return perr
		}
		if out.Length() > 0 {
			if err := sinkFn(out.Data()); err != nil {
				return err
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

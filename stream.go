package pedal

import (
	"fmt"

	"github.com/rs/xid"

	"github.com/dudk/pedal/resample"
	"github.com/dudk/pedal/signal"
)

// Logger is a global interface for pedal loggers.
type Logger interface {
	Debug(...interface{})
	Info(...interface{})
}

type silentLogger struct{}

func (silentLogger) Debug(...interface{}) {}
func (silentLogger) Info(...interface{})  {}

type sessionState int

const (
	idle sessionState = iota
	streaming
	ended
)

// Engine streams a signal through a board. It accepts input of arbitrary
// chunk size across repeated calls and produces exactly the output that
// processing the whole signal in one call would produce.
//
// An engine is not safe for concurrent use, but independent engines over
// disjoint plugin instances may run concurrently.
type Engine struct {
	uid        string
	board      *Board
	log        Logger
	outputRate int

	state      sessionState
	sampleRate int
	channels   int
	runners    []*runner
	converter  *resample.Resampler
	latency    int
}

// Option provides a way to set functional parameters to the engine.
type Option func(*Engine)

// WithLogger sets logger to engine. If this option is not provided,
// silent logger is used.
func WithLogger(l Logger) Option {
	return func(e *Engine) {
		e.log = l
	}
}

// WithOutputRate makes the engine emit output at the provided rate,
// appending a final conversion stage after the board.
func WithOutputRate(rate int) Option {
	return func(e *Engine) {
		e.outputRate = rate
	}
}

// NewEngine creates a new streaming engine over the board and applies
// provided options. Returned engine is in idle state.
func NewEngine(board *Board, options ...Option) *Engine {
	e := &Engine{
		uid:   xid.New().String(),
		board: board,
		log:   silentLogger{},
	}
	for _, option := range options {
		option(e)
	}
	return e
}

// Latency returns the total session latency in output samples: rescaled
// plugin latencies plus the group delay of every resampling stage. The
// value is defined once the session is bound, i.e. after the first
// Process call, and tells how many leading output samples are pre-roll.
// The engine does not trim them, trimming policy belongs to the caller.
func (e *Engine) Latency() int {
	return e.latency
}

// Process streams the next chunk through the board and returns as many
// fully determined output samples as are available. The first call binds
// the session to the chunk's sample rate and channel count, consequent
// calls must match it. Calling Process after Flush or after a failed
// call fails with ErrStreamEnded until Reset.
func (e *Engine) Process(b *signal.Buffer) (*signal.Buffer, error) {
	switch e.state {
	case ended:
		return nil, ErrStreamEnded
	case idle:
		if err := e.bind(b.SampleRate(), b.NumChannels()); err != nil {
			return nil, err
		}
	case streaming:
		if b.SampleRate() != e.sampleRate {
			return nil, ErrSampleRateMismatch
		}
		if b.NumChannels() != e.channels {
			return nil, ErrNumChannels
		}
	}

	data := b.Data()
	var err error
	for _, r := range e.runners {
		if data, err = r.process(data); err != nil {
			e.fail()
			return nil, fmt.Errorf("process: %w", err)
		}
	}
	if e.converter != nil {
		if data, err = e.converter.Process(data); err != nil {
			e.fail()
			return nil, fmt.Errorf("process: %w", err)
		}
	}
	return e.emit(data), nil
}

// Flush drains plugin latency tails, retained partial blocks and
// resampler tails, producing the trailing output of the stream. After
// flush the session is over: Process fails with ErrStreamEnded until
// Reset.
func (e *Engine) Flush() (*signal.Buffer, error) {
	if e.state != streaming {
		return nil, ErrStreamEnded
	}
	var (
		carry signal.Float64
		err   error
	)
	for _, r := range e.runners {
		if carry.Size() > 0 {
			if carry, err = r.process(carry); err != nil {
				e.fail()
				return nil, fmt.Errorf("flush: %w", err)
			}
		}
		var tail signal.Float64
		if tail, err = r.flush(); err != nil {
			e.fail()
			return nil, fmt.Errorf("flush: %w", err)
		}
		carry = carry.Append(tail)
	}
	if e.converter != nil {
		var converted signal.Float64
		if carry.Size() > 0 {
			if converted, err = e.converter.Process(carry); err != nil {
				e.fail()
				return nil, fmt.Errorf("flush: %w", err)
			}
		}
		var tail signal.Float64
		if tail, err = e.converter.Flush(); err != nil {
			e.fail()
			return nil, fmt.Errorf("flush: %w", err)
		}
		carry = converted.Append(tail)
	}
	e.state = ended
	e.board.release()
	e.log.Debug("flushed uid=", e.uid)
	return e.emit(carry), nil
}

// Reset ends the session, resets every board member and makes the
// engine reusable for a new stream.
func (e *Engine) Reset() error {
	if e.state == streaming {
		e.board.release()
	}
	e.state = idle
	e.runners = nil
	e.converter = nil
	e.latency = 0
	e.log.Debug("reset uid=", e.uid)
	return e.board.Reset()
}

// bind allocates session state: one runner per plugin and the optional
// output conversion stage.
func (e *Engine) bind(sampleRate, numChannels int) error {
	if sampleRate <= 0 || numChannels <= 0 {
		return signal.ErrOutOfRange
	}
	plugins, err := e.board.acquire()
	if err != nil {
		return err
	}
	runners := make([]*runner, 0, len(plugins))
	var latency int
	for _, p := range plugins {
		r, err := newRunner(p, sampleRate, numChannels)
		if err != nil {
			e.board.release()
			return err
		}
		latency += r.latency
		runners = append(runners, r)
	}
	if e.outputRate != 0 && e.outputRate != sampleRate {
		c, err := resample.New(sampleRate, e.outputRate, numChannels)
		if err != nil {
			e.board.release()
			return err
		}
		e.converter = c
		latency = scaleLatency(latency, sampleRate, e.outputRate) + c.Latency()
	}
	e.state = streaming
	e.sampleRate = sampleRate
	e.channels = numChannels
	e.runners = runners
	e.latency = latency
	e.log.Debug("session bound uid=", e.uid, " rate=", sampleRate, " channels=", numChannels, " latency=", latency)
	return nil
}

// fail poisons the session after a mid-stream error. The board is
// released, but the session stays unusable until Reset so the caller
// cannot read silently corrupted audio.
func (e *Engine) fail() {
	e.state = ended
	e.board.release()
}

func (e *Engine) emit(data signal.Float64) *signal.Buffer {
	if data == nil {
		data = signal.EmptyFloat64(e.channels, 0)
	}
	rate := e.sampleRate
	if e.outputRate != 0 {
		rate = e.outputRate
	}
	return signal.WrapFloat64(data, rate)
}

// Process runs a complete in-memory signal through the board: a single
// streaming session with one process call followed by flush. The latency
// pre-roll is trimmed, so output is time-aligned with input.
func Process(b *signal.Buffer, board *Board, options ...Option) (*signal.Buffer, error) {
	e := NewEngine(board, options...)
	out, err := e.Process(b)
	if err != nil {
		return nil, err
	}
	tail, err := e.Flush()
	if err != nil {
		return nil, err
	}
	data := out.Data().Append(tail.Data())
	latency := e.Latency()
	if err := e.Reset(); err != nil {
		return nil, err
	}
	rate := b.SampleRate()
	if e.outputRate != 0 {
		rate = e.outputRate
	}
	length := scaleLatency(b.Length(), b.SampleRate(), rate)
	trimmed := data.Slice(latency, length)
	if trimmed == nil {
		trimmed = signal.EmptyFloat64(b.NumChannels(), 0)
	}
	return signal.WrapFloat64(trimmed, rate), nil
}

package pedal

import (
	"fmt"

	"github.com/dudk/pedal/metric"
	"github.com/dudk/pedal/resample"
	"github.com/dudk/pedal/signal"
)

// runner binds a single plugin into a streaming session. It owns the
// state that makes chunked input transparent to the plugin: a pair of
// resamplers scoped around the plugin when its native rate differs from
// the chain rate, and a carry-over fifo when the plugin demands a fixed
// block size.
type runner struct {
	plugin   Plugin
	rate     int // rate the plugin is fed at
	chain    int // chain rate
	channels int
	block    int
	in       *resample.Resampler
	out      *resample.Resampler
	fifo     signal.Float64
	latency  int // contribution at chain rate, resamplers included
	measure  metric.MeasureFunc
}

func newRunner(p Plugin, chainRate, numChannels int) (*runner, error) {
	r := &runner{
		plugin:   p,
		rate:     pluginRate(p, chainRate),
		chain:    chainRate,
		channels: numChannels,
		block:    p.BlockSize(),
	}
	if r.rate != chainRate {
		var err error
		if r.in, err = resample.New(chainRate, r.rate, numChannels); err != nil {
			return nil, err
		}
		if r.out, err = resample.New(r.rate, chainRate, numChannels); err != nil {
			return nil, err
		}
	}
	r.latency = scaleLatency(p.Latency(), r.rate, chainRate)
	if r.in != nil {
		r.latency += scaleLatency(r.in.Latency(), r.rate, chainRate)
		r.latency += r.out.Latency()
	}
	r.measure = metric.Meter(p, r.rate)()
	return r, nil
}

// process feeds a chunk at chain rate through the plugin and returns all
// fully determined output at chain rate. The remainder of a partial
// block is retained until the next call or flush.
func (r *runner) process(b signal.Float64) (signal.Float64, error) {
	var err error
	if r.in != nil {
		if b, err = r.in.Process(b); err != nil {
			return nil, err
		}
	}
	if b.Size() > 0 {
		r.fifo = r.fifo.Append(b)
	}
	out, err := r.drain()
	if err != nil {
		return nil, err
	}
	if r.out != nil {
		return r.out.Process(out)
	}
	return out, nil
}

// flush drains the retained partial block and the plugin latency tail by
// feeding zeros, then drains the scoped resamplers. Output is truncated
// to pending real samples plus plugin latency, so zero padding never
// leaks into the stream.
func (r *runner) flush() (signal.Float64, error) {
	if r.in != nil {
		tail, err := r.in.Flush()
		if err != nil {
			return nil, err
		}
		if tail.Size() > 0 {
			r.fifo = r.fifo.Append(tail)
		}
	}
	pending := r.fifo.Size()
	need := pending + r.plugin.Latency()
	pad := need - pending
	if r.block > 0 {
		if rem := (pending + pad) % r.block; rem != 0 {
			pad += r.block - rem
		}
	}
	if pad > 0 {
		r.fifo = r.fifo.Append(signal.EmptyFloat64(r.channels, pad))
	}
	out, err := r.drain()
	if err != nil {
		return nil, err
	}
	if out.Size() > need {
		out = out.Slice(0, need)
	}
	if r.out != nil {
		res, err := r.out.Process(out)
		if err != nil {
			return nil, err
		}
		tail, err := r.out.Flush()
		if err != nil {
			return nil, err
		}
		out = res.Append(tail)
	}
	return out, nil
}

// drain runs the plugin over the fifo: over every complete block for
// fixed block size plugins, over the whole fifo otherwise. When nothing
// is ready yet, an empty buffer with the session channel count is
// returned so downstream stages still see a well-shaped signal.
func (r *runner) drain() (signal.Float64, error) {
	if r.block == 0 {
		if r.fifo.Size() == 0 {
			return signal.EmptyFloat64(r.channels, 0), nil
		}
		b := r.fifo
		r.fifo = nil
		return r.call(b)
	}
	var out signal.Float64
	for r.fifo.Size() >= r.block {
		processed, err := r.call(r.fifo.Slice(0, r.block))
		if err != nil {
			return nil, err
		}
		out = out.Append(processed)
		if r.fifo.Size() == r.block {
			r.fifo = nil
		} else {
			r.fifo = r.fifo.Slice(r.block, r.fifo.Size()-r.block)
		}
	}
	if out == nil {
		out = signal.EmptyFloat64(r.channels, 0)
	}
	return out, nil
}

// call invokes the plugin, recovering panics of externally hosted
// modules so a dying plugin cannot corrupt its siblings.
func (r *runner) call(b signal.Float64) (out signal.Float64, err error) {
	defer func() {
		if p := recover(); p != nil {
			out = nil
			err = &ExternalPluginError{
				Plugin: fmt.Sprintf("%T", r.plugin),
				Err:    fmt.Errorf("panic: %v", p),
			}
		}
	}()
	processed, err := r.plugin.Process(signal.WrapFloat64(b, r.rate))
	if err != nil {
		return nil, err
	}
	r.measure(int64(b.Size()))
	return processed.Data(), nil
}

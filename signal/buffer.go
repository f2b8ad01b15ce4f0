package signal

import "errors"

// ErrOutOfRange is returned when buffer length or index is out of
// allocated capacity.
var ErrOutOfRange = errors.New("signal: out of range")

// Buffer is a fixed-capacity container of non-interleaved float64 samples
// with a valid-length marker and an authoritative sample rate. Capacity is
// set at construction and never changes, length defines the valid region
// all reads and writes are checked against.
type Buffer struct {
	data       Float64
	length     int
	sampleRate int
}

// NewBuffer allocates a buffer with defined dimensions. Length is set to
// capacity.
func NewBuffer(numChannels, capacity, sampleRate int) *Buffer {
	return &Buffer{
		data:       EmptyFloat64(numChannels, capacity),
		length:     capacity,
		sampleRate: sampleRate,
	}
}

// WrapFloat64 wraps existing signal data without copying it. Length and
// capacity are both set to the data size.
func WrapFloat64(data Float64, sampleRate int) *Buffer {
	return &Buffer{
		data:       data,
		length:     data.Size(),
		sampleRate: sampleRate,
	}
}

// Capacity returns number of samples per channel the buffer can hold.
func (b *Buffer) Capacity() int {
	return b.data.Size()
}

// Length returns number of valid samples per channel.
func (b *Buffer) Length() int {
	return b.length
}

// SetLength changes the valid region of the buffer. It fails with
// ErrOutOfRange if n is negative or exceeds capacity.
func (b *Buffer) SetLength(n int) error {
	if n < 0 || n > b.Capacity() {
		return ErrOutOfRange
	}
	b.length = n
	return nil
}

// NumChannels returns number of channels.
func (b *Buffer) NumChannels() int {
	return b.data.NumChannels()
}

// SampleRate returns the sample rate of the signal in the buffer.
func (b *Buffer) SampleRate() int {
	return b.sampleRate
}

// Channel returns the valid region of a single channel. It fails with
// ErrOutOfRange if i is not a valid channel index.
func (b *Buffer) Channel(i int) ([]float64, error) {
	if i < 0 || i >= b.NumChannels() {
		return nil, ErrOutOfRange
	}
	return b.data[i][:b.length], nil
}

// Data returns the valid region of all channels. The returned slices
// share memory with the buffer.
func (b *Buffer) Data() Float64 {
	result := make(Float64, b.NumChannels())
	for i := range b.data {
		result[i] = b.data[i][:b.length]
	}
	return result
}

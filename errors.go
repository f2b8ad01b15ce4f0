package pedal

import (
	"errors"
	"fmt"
)

var (
	// ErrSampleRateMismatch is returned when a plugin or a session is
	// given a sample rate it cannot accept.
	ErrSampleRateMismatch = errors.New("pedal: sample rate mismatch")
	// ErrNumChannels is returned when a chunk has a different number of
	// channels than the session was started with.
	ErrNumChannels = errors.New("pedal: wrong number of channels")
	// ErrInvalidChainMutation is returned when board composition is
	// edited while a streaming session is active.
	ErrInvalidChainMutation = errors.New("pedal: board mutated during active session")
	// ErrActiveSession is returned when a board is bound to a second
	// session without a reset in between.
	ErrActiveSession = errors.New("pedal: board is used by an active session")
	// ErrStreamEnded is returned when a session is used after flush or
	// after a mid-stream failure, without an intervening reset.
	ErrStreamEnded = errors.New("pedal: stream ended")
)

// ExternalPluginError is returned when an externally hosted plugin fails
// or panics at its call boundary. The failure is caught per plugin so it
// cannot corrupt sibling plugins' state.
type ExternalPluginError struct {
	Plugin string
	Err    error
}

func (e *ExternalPluginError) Error() string {
	return fmt.Sprintf("external plugin %v: %v", e.Plugin, e.Err)
}

// Unwrap returns the underlying failure.
func (e *ExternalPluginError) Unwrap() error {
	return e.Err
}

package pedal_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dudk/pedal"
	"github.com/dudk/pedal/effect"
	"github.com/dudk/pedal/mock"
	"github.com/dudk/pedal/signal"
)

func TestBoardComposition(t *testing.T) {
	first := &mock.Plugin{}
	second := &mock.Plugin{}
	third := &mock.Plugin{}

	board := pedal.NewBoard(first)
	assert.Equal(t, 1, board.Len())

	assert.NoError(t, board.Append(second))
	assert.NoError(t, board.Insert(0, third))
	assert.Equal(t, 3, board.Len())

	p, err := board.Plugin(0)
	assert.NoError(t, err)
	assert.Equal(t, third, p)

	removed, err := board.Remove(0)
	assert.NoError(t, err)
	assert.Equal(t, third, removed)
	assert.Equal(t, 2, board.Len())

	assert.NoError(t, board.Replace(1, third))
	p, err = board.Plugin(1)
	assert.NoError(t, err)
	assert.Equal(t, third, p)

	assert.Equal(t, signal.ErrOutOfRange, board.Insert(5, first))
	assert.Equal(t, signal.ErrOutOfRange, board.Replace(-1, first))
	_, err = board.Remove(2)
	assert.Equal(t, signal.ErrOutOfRange, err)
	_, err = board.Plugin(2)
	assert.Equal(t, signal.ErrOutOfRange, err)
}

func TestBoardLatency(t *testing.T) {
	board := pedal.NewBoard(
		&mock.Plugin{Delay: 100},
		&mock.Plugin{Delay: 50, Rate: 22050},
		effect.NewGain(3),
	)
	// 100 at chain rate + 50 rescaled from 22050 to 44100
	assert.Equal(t, 200, board.Latency(44100))
	assert.Equal(t, 150, board.Latency(22050))
}

func TestBoardReset(t *testing.T) {
	first := &mock.Plugin{}
	second := &mock.Plugin{}
	board := pedal.NewBoard(first, second)
	assert.NoError(t, board.Reset())
	assert.True(t, first.Resetted)
	assert.True(t, second.Resetted)
}

func TestMutationGuard(t *testing.T) {
	plugin := &mock.Plugin{}
	board := pedal.NewBoard(plugin)
	e := pedal.NewEngine(board)

	_, err := e.Process(signal.NewBuffer(1, 64, 44100))
	assert.NoError(t, err)

	// mid-session mutation fails and leaves the board unmodified
	assert.Equal(t, pedal.ErrInvalidChainMutation, board.Append(&mock.Plugin{}))
	assert.Equal(t, pedal.ErrInvalidChainMutation, board.Insert(0, &mock.Plugin{}))
	assert.Equal(t, pedal.ErrInvalidChainMutation, board.Replace(0, &mock.Plugin{}))
	_, err = board.Remove(0)
	assert.Equal(t, pedal.ErrInvalidChainMutation, err)
	assert.Equal(t, 1, board.Len())

	_, err = e.Flush()
	assert.NoError(t, err)

	// session is over, mutation is allowed again
	assert.NoError(t, board.Append(&mock.Plugin{}))
	assert.Equal(t, 2, board.Len())
}

func TestActiveSession(t *testing.T) {
	board := pedal.NewBoard(&mock.Plugin{})
	first := pedal.NewEngine(board)
	second := pedal.NewEngine(board)

	_, err := first.Process(signal.NewBuffer(1, 64, 44100))
	assert.NoError(t, err)

	_, err = second.Process(signal.NewBuffer(1, 64, 44100))
	assert.Equal(t, pedal.ErrActiveSession, err)

	assert.NoError(t, first.Reset())
	_, err = second.Process(signal.NewBuffer(1, 64, 44100))
	assert.NoError(t, err)
}

package engine

import (
	"errors"

	"torres/game"
	"torres/meta"
)

const MaxMoves = meta.MAX_MOVES

// ErrMaxMoves is returned when a game is stopped before it ended.
var ErrMaxMoves = errors.New("game stopped after the maximum number of moves")

// Update is sent to the observer after every applied move.
type Update struct {
	Step     int
	Player   int
	Move     game.Move
	Fallback bool // The searcher's move was replaced by the greedy move
	Game     *game.Torres
}

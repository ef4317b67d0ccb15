package searcher

import (
	"context"
	"errors"
	"time"

	"torres/experiments/metrics"
	"torres/game"

	"golang.org/x/exp/rand"
)

// ErrNoMove is returned when a searcher is asked to move in a state where the
// active player has no legal move, e.g. after the game ended.
var ErrNoMove = errors.New("no legal move to search")

// Searcher picks a move for the active player. Implementations work on their
// own clone and never modify the given game.
type Searcher interface {
	FindMove(ctx context.Context, t *game.Torres) (game.Move, metrics.SearchMetric, error)
}

// clock polls the wall clock deadline and the context between sibling moves.
type clock struct {
	ctx      context.Context
	deadline time.Time
}

func newClock(ctx context.Context, duration time.Duration) clock {
	c := clock{ctx: ctx}
	if duration > 0 {
		c.deadline = time.Now().Add(duration)
	}
	return c
}

func (c clock) expired() bool {
	if c.ctx.Err() != nil {
		return true
	}
	return !c.deadline.IsZero() && time.Now().After(c.deadline)
}

// prepare clones the game for a search and lists the legal moves of the
// active player.
func (s *settings) prepare(t *game.Torres) (*game.Torres, []game.Move, error) {
	if !t.GameRunning {
		return nil, nil, ErrNoMove
	}
	state := t.Clone()
	if s.seeded {
		state.Seed(s.seed)
	}
	moves := state.LegalMovesOrdered(state.ActivePlayer)
	if len(moves) == 0 {
		return nil, nil, ErrNoMove
	}
	return state, moves, nil
}

func (s *settings) newRand() *rand.Rand {
	seed := s.seed
	if !s.seeded {
		seed = uint64(time.Now().UnixNano())
	}
	return rand.New(rand.NewSource(seed))
}

func moveToFront(moves []game.Move, move game.Move) []game.Move {
	ordered := make([]game.Move, 0, len(moves))
	ordered = append(ordered, move)
	for _, m := range moves {
		if !game.SameMove(m, move) {
			ordered = append(ordered, m)
		}
	}
	return ordered
}

func isTurnEnd(m game.Move) bool {
	_, ok := m.(game.TurnEnd)
	return ok
}

package searcher

import (
	"context"
	"math"

	"torres/experiments/metrics"
	"torres/game"

	"github.com/rs/zerolog/log"
)

// Negamax is an alpha-beta search with a transposition table and iterative
// deepening. Depth is counted in turns: only ending a turn consumes depth, so
// one level covers every way to play out a turn. Values are seen from the
// active player and change sign only when the player to move changes.
type Negamax struct {
	settings
	table *table
}

func NewNegamax(options ...Option) *Negamax {
	s := defaultSettings()
	s.evaluate = game.EvaluateMidPhase
	s.apply(options)
	if s.depth <= 0 && s.duration <= 0 {
		panic("Must specify search depth or duration")
	}
	return &Negamax{
		settings: s,
		table:    newTable(s.capacity),
	}
}

type negamaxSearch struct {
	*Negamax
	clock clock
}

func (n *Negamax) FindMove(ctx context.Context, t *game.Torres) (game.Move, metrics.SearchMetric, error) {
	state, moves, err := n.prepare(t)
	if err != nil {
		return nil, metrics.SearchMetric{}, err
	}
	n.metrics.Start("negamax", 1)
	if len(moves) == 1 {
		return moves[0], n.metrics.Complete(), nil
	}

	search := negamaxSearch{Negamax: n, clock: newClock(ctx, n.duration)}
	best := moves[0]
	maxDepth := n.depth
	if maxDepth <= 0 {
		maxDepth = MaxDepth
	}
	for depth := 1; depth <= maxDepth; depth++ {
		move, value, complete := search.root(state, moves, depth)
		if move != nil {
			best = move
			moves = moveToFront(moves, best)
		}
		if !complete {
			break
		}
		n.metrics.SetDepth(depth)
		log.Debug().Msgf("negamax depth %d: %s (%.1f)", depth, best, value)
		if search.clock.expired() {
			break
		}
	}
	return best, n.metrics.Complete(), nil
}

// root searches every root move to the given depth. The best move is nil when
// time ran out before the first move was searched.
func (s negamaxSearch) root(t *game.Torres, moves []game.Move, depth int) (game.Move, float64, bool) {
	var best game.Move
	bestValue := math.Inf(-1)
	alpha, beta := math.Inf(-1), math.Inf(1)
	for _, m := range moves {
		if s.clock.expired() {
			return best, bestValue, false
		}
		value := s.child(t, m, depth, alpha, beta)
		if s.clock.expired() && best != nil {
			// the value of an interrupted subtree is a guess
			return best, bestValue, false
		}
		if value > bestValue {
			best, bestValue = m, value
		}
		alpha = max(alpha, value)
	}
	return best, bestValue, true
}

// child plays m, searches the resulting position and takes it back.
func (s negamaxSearch) child(t *game.Torres, m game.Move, depth int, alpha, beta float64) float64 {
	player := t.ActivePlayer
	var info game.TurnInfo
	if isTurnEnd(m) {
		info = t.Info()
		depth--
	}
	t.ExecuteMove(m)
	var value float64
	if t.ActivePlayer == player {
		value = s.negamax(t, depth, alpha, beta)
	} else {
		value = -s.negamax(t, depth, -beta, -alpha)
	}
	t.UndoMove(m, &info)
	return value
}

func (s negamaxSearch) negamax(t *game.Torres, depth int, alpha, beta float64) float64 {
	s.metrics.AddEpisode()
	if depth <= 0 || !t.GameRunning {
		return s.evaluate(t)[t.ActivePlayer]
	}

	key := t.Key()
	if e, ok := s.table.get(key); ok {
		var cutoff bool
		if alpha, beta, cutoff = e.probe(depth, alpha, beta); cutoff {
			s.metrics.AddTableHit()
			return e.value
		}
	}

	moves := t.LegalMovesOrdered(t.ActivePlayer)
	if len(moves) == 0 {
		return s.evaluate(t)[t.ActivePlayer]
	}
	alphaOrig := alpha
	best := math.Inf(-1)
	for _, m := range moves {
		if s.clock.expired() {
			break
		}
		value := s.child(t, m, depth, alpha, beta)
		best = max(best, value)
		alpha = max(alpha, value)
		if alpha >= beta {
			break
		}
	}
	if s.clock.expired() {
		return best
	}
	s.table.put(key, entry{value: best, depth: depth, flag: classify(best, alphaOrig, beta)})
	return best
}

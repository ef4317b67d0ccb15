package searcher

import (
	"context"
	"math"

	"torres/experiments/metrics"
	"torres/game"
)

// Minimax is alpha-beta search with explicit maximizing and minimizing
// players: the searching player maximizes its own reward, every other player
// minimizes it. Like Negamax it counts depth in turns, but it keeps no table.
type Minimax struct {
	settings
}

func NewMinimax(options ...Option) *Minimax {
	s := defaultSettings()
	s.evaluate = game.EvaluateMidPhase
	s.apply(options)
	if s.depth <= 0 && s.duration <= 0 {
		panic("Must specify search depth or duration")
	}
	return &Minimax{settings: s}
}

type minimaxSearch struct {
	*Minimax
	clock  clock
	player int
}

func (m *Minimax) FindMove(ctx context.Context, t *game.Torres) (game.Move, metrics.SearchMetric, error) {
	state, moves, err := m.prepare(t)
	if err != nil {
		return nil, metrics.SearchMetric{}, err
	}
	m.metrics.Start("minimax", 1)
	if len(moves) == 1 {
		return moves[0], m.metrics.Complete(), nil
	}

	search := minimaxSearch{Minimax: m, clock: newClock(ctx, m.duration), player: state.ActivePlayer}
	best := moves[0]
	maxDepth := m.depth
	if maxDepth <= 0 {
		maxDepth = MaxDepth
	}
	for depth := 1; depth <= maxDepth && !search.clock.expired(); depth++ {
		var iterationBest game.Move
		bestValue := math.Inf(-1)
		complete := true
		for _, move := range moves {
			if search.clock.expired() {
				complete = false
				break
			}
			value := search.child(state, move, depth, bestValue, math.Inf(1))
			if search.clock.expired() && iterationBest != nil {
				complete = false
				break
			}
			if value > bestValue {
				iterationBest, bestValue = move, value
			}
		}
		if iterationBest != nil {
			best = iterationBest
			moves = moveToFront(moves, best)
		}
		if !complete {
			break
		}
		m.metrics.SetDepth(depth)
	}
	return best, m.metrics.Complete(), nil
}

func (s minimaxSearch) child(t *game.Torres, m game.Move, depth int, alpha, beta float64) float64 {
	var info game.TurnInfo
	if isTurnEnd(m) {
		info = t.Info()
		depth--
	}
	t.ExecuteMove(m)
	value := s.minimax(t, depth, alpha, beta)
	t.UndoMove(m, &info)
	return value
}

func (s minimaxSearch) minimax(t *game.Torres, depth int, alpha, beta float64) float64 {
	s.metrics.AddEpisode()
	if depth <= 0 || !t.GameRunning {
		return s.evaluate(t)[s.player]
	}
	moves := t.LegalMovesOrdered(t.ActivePlayer)
	if len(moves) == 0 {
		return s.evaluate(t)[s.player]
	}

	if t.ActivePlayer == s.player {
		best := math.Inf(-1)
		for _, m := range moves {
			if s.clock.expired() {
				break
			}
			best = max(best, s.child(t, m, depth, alpha, beta))
			alpha = max(alpha, best)
			if alpha >= beta {
				break
			}
		}
		return best
	}

	best := math.Inf(1)
	for _, m := range moves {
		if s.clock.expired() {
			break
		}
		best = min(best, s.child(t, m, depth, alpha, beta))
		beta = min(beta, best)
		if alpha >= beta {
			break
		}
	}
	return best
}

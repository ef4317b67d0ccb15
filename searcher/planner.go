package searcher

import (
	"context"
	"time"

	"torres/experiments/metrics"
	"torres/game"
)

// Planner looks only at the current turn. It walks every sequence of moves
// the active player can make before ending the turn, skipping moves that
// lower the player's board value and positions it has already seen, and
// plays the first move of the sequence that leads to the best board. When no
// sequence improves on the current board the turn is ended.
type Planner struct {
	settings
}

func NewPlanner(options ...Option) *Planner {
	s := defaultSettings()
	s.duration = time.Second
	s.apply(options)
	return &Planner{settings: s}
}

type plan struct {
	moves []game.Move
	value int
}

type plannerSearch struct {
	*Planner
	clock   clock
	player  int
	canStay bool // Ending the turn right away is legal
	seen    map[string]bool
	line    []game.Move
	best    *plan
}

func (p *Planner) FindMove(ctx context.Context, t *game.Torres) (game.Move, metrics.SearchMetric, error) {
	state, moves, err := p.prepare(t)
	if err != nil {
		return nil, metrics.SearchMetric{}, err
	}
	p.metrics.Start("planner", 1)
	if len(moves) == 1 {
		return moves[0], p.metrics.Complete(), nil
	}

	search := &plannerSearch{
		Planner: p,
		clock:   newClock(ctx, p.duration),
		player:  state.ActivePlayer,
		canStay: state.IsLegal(state.ActivePlayer, game.TurnEnd{}),
		seen:    make(map[string]bool),
	}
	search.visit(state)
	if search.best == nil || len(search.best.moves) == 0 {
		if search.canStay {
			return game.TurnEnd{}, p.metrics.Complete(), nil
		}
		return moves[0], p.metrics.Complete(), nil
	}
	return search.best.moves[0], p.metrics.Complete(), nil
}

// visit records the position reached by the current line and searches on.
func (s *plannerSearch) visit(t *game.Torres) {
	key := t.Key()
	if s.seen[key] {
		return
	}
	s.seen[key] = true
	s.metrics.AddEpisode()

	value := t.Board.Evaluate(s.player, t.Phase)
	if (len(s.line) > 0 || s.canStay) && (s.best == nil || value > s.best.value) {
		s.best = &plan{moves: append([]game.Move(nil), s.line...), value: value}
	}
	s.expand(t)
}

func (s *plannerSearch) expand(t *game.Torres) {
	before := t.Board.Evaluate(s.player, t.Phase)
	for _, m := range t.LegalMovesOrdered(s.player) {
		if isTurnEnd(m) {
			continue
		}
		if s.clock.expired() {
			return
		}
		t.ExecuteMove(m)
		if t.Board.Evaluate(s.player, t.Phase) >= before {
			s.line = append(s.line, m)
			s.visit(t)
			s.line = s.line[:len(s.line)-1]
		}
		t.UndoMove(m, nil)
	}
}

package searcher

import (
	"context"
	"time"

	"torres/experiments/metrics"
	"torres/game"

	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"
	"golang.org/x/exp/slices"
)

// OEP evolves a population of complete turns. A genome is the list of moves
// up to and including the turn end; its fitness is the reward of the player
// after the turn and, with rollouts enabled, after the opponents answered
// greedily. The winning turn is replayed move by move on the following calls
// as long as the game is where the plan expects it to be.
type OEP struct {
	settings
	planned   []game.Move
	plannedAt string // Key of the state the next planned move belongs to
}

type genome struct {
	moves   []game.Move
	fitness float64
}

func NewOEP(options ...Option) *OEP {
	s := defaultSettings()
	s.duration = time.Second
	s.apply(options)
	return &OEP{settings: s}
}

func (o *OEP) FindMove(ctx context.Context, t *game.Torres) (game.Move, metrics.SearchMetric, error) {
	state, moves, err := o.prepare(t)
	if err != nil {
		return nil, metrics.SearchMetric{}, err
	}
	o.metrics.Start("oep", 1)
	player := state.ActivePlayer

	if len(o.planned) > 0 && o.plannedAt == state.Key() && state.IsLegal(player, o.planned[0]) {
		o.metrics.SetCached(true)
		return o.next(state), o.metrics.Complete(), nil
	}
	o.planned = nil
	if len(moves) == 1 {
		return moves[0], o.metrics.Complete(), nil
	}

	o.planned = o.evolve(ctx, state)
	return o.next(state), o.metrics.Complete(), nil
}

// next pops the first planned move and remembers where the plan continues.
func (o *OEP) next(state *game.Torres) game.Move {
	move := o.planned[0]
	o.planned = o.planned[1:]
	state.ExecuteMove(move)
	o.plannedAt = state.Key()
	if isTurnEnd(move) {
		o.planned = nil
	}
	return move
}

func (o *OEP) evolve(ctx context.Context, state *game.Torres) []game.Move {
	clock := newClock(ctx, o.duration)
	rng := o.newRand()
	player := state.ActivePlayer

	population := make([]*genome, 0, o.population)
	for i := 0; i < o.population; i++ {
		sim := state.Clone()
		sim.Seed(rng.Uint64())
		// half biased, half uniform
		turn := randomTurn(sim, i < o.population/2)
		population = append(population, o.newGenome(turn, sim, player))
	}

	generation := 0
	for {
		slices.SortStableFunc(population, func(a, b *genome) int {
			switch {
			case a.fitness > b.fitness:
				return -1
			case a.fitness < b.fitness:
				return 1
			}
			return 0
		})
		if clock.expired() || (o.episodes > 0 && generation >= o.episodes) {
			break
		}
		generation++
		population = survivors(population)
		population = o.procreate(population, state, player, rng)
	}
	o.metrics.SetDepth(generation)
	log.Debug().Msgf("oep: %d generations, best fitness %.1f", generation, population[0].fitness)
	return population[0].moves
}

// survivors keeps the better half, with at most one genome that only ends
// the turn.
func survivors(population []*genome) []*genome {
	keep := (len(population) + 1) / 2
	kept := make([]*genome, 0, len(population))
	idle := false
	for _, g := range population {
		if len(g.moves) == 1 && isTurnEnd(g.moves[0]) {
			if idle {
				continue
			}
			idle = true
		}
		kept = append(kept, g)
	}
	return kept[:min(keep, len(kept))]
}

func (o *OEP) procreate(population []*genome, state *game.Torres, player int, rng *rand.Rand) []*genome {
	rng.Shuffle(len(population), func(i, j int) {
		population[i], population[j] = population[j], population[i]
	})
	next := make([]*genome, 0, 2*len(population))
	for len(population) > 1 {
		parent1 := population[len(population)-1]
		parent2 := population[len(population)-2]
		population = population[:len(population)-2]
		next = append(next, parent1, parent2)

		for range 2 {
			moves, sim := crossover(parent1, parent2, state, player, rng)
			if rng.Float64() < o.mutation {
				moves, sim = mutate(moves, state, player, rng)
			}
			next = append(next, o.newGenome(moves, sim, player))
		}
	}
	return append(next, population...)
}

func (o *OEP) newGenome(moves []game.Move, sim *game.Torres, player int) *genome {
	o.metrics.AddEpisode()
	if o.rollout {
		for sim.GameRunning && sim.ActivePlayer != player {
			move := sim.DeterministicLegalMove()
			if move == nil {
				break
			}
			sim.ExecuteMove(move)
		}
	}
	return &genome{moves: moves, fitness: float64(sim.RewardPerPlayer(true)[player])}
}

// randomTurn plays random moves on sim until the turn ends.
func randomTurn(sim *game.Torres, biased bool) []game.Move {
	var turn []game.Move
	for {
		var move game.Move
		if biased {
			move = sim.RandomLegalMoveBiased(1)
		} else {
			move = sim.RandomLegalMove()
		}
		if move == nil {
			return turn
		}
		sim.ExecuteMove(move)
		turn = append(turn, move)
		if isTurnEnd(move) {
			return turn
		}
	}
}

// crossover builds a child turn by taking, at every position, the move of a
// randomly chosen parent, the other parent's move if that one is illegal,
// and a random move if both are.
func crossover(parent1, parent2 *genome, state *game.Torres, player int, rng *rand.Rand) ([]game.Move, *game.Torres) {
	sim := state.Clone()
	sim.Seed(rng.Uint64())
	var child []game.Move
	for i := 0; ; i++ {
		first, second := parent1, parent2
		if rng.Float64() >= 0.5 {
			first, second = second, first
		}
		var move game.Move
		switch {
		case i < len(first.moves) && sim.Apply(player, first.moves[i]):
			move = first.moves[i]
		case i < len(second.moves) && sim.Apply(player, second.moves[i]):
			move = second.moves[i]
		default:
			if move = sim.RandomLegalMoveBiased(1); move == nil {
				return child, sim
			}
			sim.ExecuteMove(move)
		}
		child = append(child, move)
		if isTurnEnd(move) {
			return child, sim
		}
	}
}

// mutate replaces one random move of the turn and repairs the moves after it.
func mutate(moves []game.Move, state *game.Torres, player int, rng *rand.Rand) ([]game.Move, *game.Torres) {
	sim := state.Clone()
	sim.Seed(rng.Uint64())
	if len(moves) == 0 {
		return moves, sim
	}
	idx := rng.Intn(len(moves))
	mutated := make([]game.Move, 0, len(moves))
	for _, m := range moves[:idx] {
		sim.ExecuteMove(m)
		mutated = append(mutated, m)
	}

	last := sim.RandomLegalMoveBiased(1)
	if last == nil {
		return mutated, sim
	}
	sim.ExecuteMove(last)
	mutated = append(mutated, last)
	for _, m := range moves[idx+1:] {
		if isTurnEnd(last) {
			break
		}
		if !sim.Apply(player, m) {
			if m = sim.RandomLegalMoveBiased(1); m == nil {
				return mutated, sim
			}
			sim.ExecuteMove(m)
		}
		mutated = append(mutated, m)
		last = m
	}
	for !isTurnEnd(last) {
		if last = sim.RandomLegalMoveBiased(1); last == nil {
			break
		}
		sim.ExecuteMove(last)
		mutated = append(mutated, last)
	}
	return mutated, sim
}

package experiments

import (
	"context"
	"fmt"
	"time"

	"torres/engine"
	"torres/experiments/metrics"
	"torres/game"
	"torres/searcher"
	"torres/searcher/agent"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

const (
	NumGames   = 30 // Per match up
	TimeBudget = 100 * time.Millisecond
)

// Arena plays every match up a number of times and records the results.
// Games run concurrently, each with freshly built searchers.
type Arena struct {
	Name     string
	Game     game.Config
	Configs  []metrics.AgentConfig
	MatchUps [][]metrics.AgentConfig // One config per seat
	NumGames int
	Parallel int    // Games at once, 0 for one
	OutDir   string // Results are only written when set
}

type Result struct {
	Games []metrics.GameRecord
	Moves []metrics.MoveRecord
	Dir   string
}

type gameResult struct {
	record metrics.GameRecord
	moves  []metrics.MoveRecord
}

func (a *Arena) Run(ctx context.Context) (Result, error) {
	for _, matchUp := range a.MatchUps {
		if len(matchUp) != a.Game.NumPlayers {
			return Result{}, fmt.Errorf("match up with %d agents for %d players", len(matchUp), a.Game.NumPlayers)
		}
	}
	if err := a.Game.Validate(); err != nil {
		return Result{}, err
	}

	log.Info().Msgf("starting %s experiment...", a.Name)

	results := make([]gameResult, len(a.MatchUps)*a.NumGames)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(a.Parallel, 1))
	for mi, matchUp := range a.MatchUps {
		for i := range a.NumGames {
			id := mi*a.NumGames + i + 1
			g.Go(func() error {
				log.Info().Msgf("starting matchup %d of %d game %d of %d...", mi+1, len(a.MatchUps), i+1, a.NumGames)
				result, err := a.runGame(ctx, id, rotate(matchUp, i))
				if err != nil {
					return fmt.Errorf("game %d: %w", id, err)
				}
				results[id-1] = result
				log.Info().Msgf("completed matchup %d of %d game %d with winners: %v", mi+1, len(a.MatchUps), i+1, result.record.Winners)
				return nil
			})
		}
	}
	if err := g.Wait(); err != nil {
		return Result{}, err
	}

	log.Info().Msgf("completed %s experiment", a.Name)

	var result Result
	for _, r := range results {
		result.Games = append(result.Games, r.record)
		result.Moves = append(result.Moves, r.moves...)
	}
	if a.OutDir == "" {
		return result, nil
	}
	dir, err := a.write(result)
	if err != nil {
		return result, err
	}
	result.Dir = dir
	return result, nil
}

// runGame executes a single game, seat i played by seats[i].
func (a *Arena) runGame(ctx context.Context, id int, seats []metrics.AgentConfig) (gameResult, error) {
	cfg := a.Game
	cfg.Seed = a.Game.Seed + uint64(id)
	t, err := game.New(cfg)
	if err != nil {
		return gameResult{}, err
	}
	searchers := make([]searcher.Searcher, len(seats))
	agents := make([]int, len(seats))
	for i, config := range seats {
		if searchers[i], err = agent.New(config); err != nil {
			return gameResult{}, err
		}
		agents[i] = config.ID
	}

	gameMetric, moveMetrics, err := engine.LocalEngine(t, searchers).Run(ctx)
	if err != nil {
		return gameResult{}, err
	}

	result := gameResult{
		record: metrics.GameRecord{ID: id, Agents: agents, GameMetric: gameMetric},
		moves:  make([]metrics.MoveRecord, len(moveMetrics)),
	}
	for i, mm := range moveMetrics {
		result.moves[i] = metrics.MoveRecord{Game: id, MoveMetric: mm}
	}
	return result, nil
}

func (a *Arena) write(result Result) (string, error) {
	writer, err := metrics.NewWriter(a.OutDir, a.Name)
	if err != nil {
		return "", fmt.Errorf("failed to create experiment writer: %w", err)
	}

	if err := writer.WriteAgentConfigs(a.Configs); err != nil {
		return "", fmt.Errorf("failed to store agent configs: %w", err)
	}
	log.Info().Msg("stored agent configs")

	if err := writer.WriteGameRecords(result.Games); err != nil {
		return "", fmt.Errorf("failed to write game records: %w", err)
	}
	log.Info().Msg("stored game records")

	if err := writer.WriteMoveRecords(result.Moves); err != nil {
		return "", fmt.Errorf("failed to write move records: %w", err)
	}
	log.Info().Msg("stored move records")
	return writer.Dir(), nil
}

// rotate shifts the seats by i so that every agent of a match up gets to
// start.
func rotate(seats []metrics.AgentConfig, i int) []metrics.AgentConfig {
	rotated := make([]metrics.AgentConfig, len(seats))
	for s := range seats {
		rotated[s] = seats[(s+i)%len(seats)]
	}
	return rotated
}

package player

import (
	"context"
	"errors"
	"time"

	"torres/communication"
	"torres/game"
	"torres/meta"
	"torres/searcher"

	"github.com/rs/zerolog/log"
)

var ErrRejected = errors.New("move rejected by the server")

// Player represents a game player.
type Player struct {
	ID           int
	Communicator communication.Communicator
	Searcher     searcher.Searcher
	PollInterval time.Duration
}

// NewPlayer creates a new Player instance.
func NewPlayer(id int, comm communication.Communicator, s searcher.Searcher) *Player {
	return &Player{
		ID:           id,
		Communicator: comm,
		Searcher:     s,
		PollInterval: meta.POLL_INTERVAL,
	}
}

// Play syncs the game state and moves whenever it is the player's turn, until
// the game ends or the context is done.
func (p *Player) Play(ctx context.Context) error {
	ticker := time.NewTicker(p.PollInterval)
	defer ticker.Stop()
	for {
		g, err := p.Communicator.GameState(ctx)
		if err != nil {
			return err
		}
		switch {
		case g.Stage() == game.Ended:
			log.Info().Msgf("player %d: game over, winners %v", p.ID, g.Winners())
			return nil
		case g.GameRunning && g.ActivePlayer == p.ID:
			if err := p.TakeTurn(ctx, g); err != nil {
				return err
			}
			continue
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// TakeTurn searches a move on the synced game and sends it. A rejected move
// is replaced once by the first legal move the server lists.
func (p *Player) TakeTurn(ctx context.Context, g *game.Torres) error {
	move, metric, err := p.Searcher.FindMove(ctx, g)
	if err != nil {
		return err
	}
	log.Debug().Int("player", p.ID).Str("move", move.String()).Int("episodes", metric.Episodes).Msg("found move")

	ok, err := p.Communicator.SendMove(ctx, p.ID, move)
	if err != nil || ok {
		return err
	}

	log.Warn().Msgf("player %d: move %v was rejected => sending the first legal move", p.ID, move)
	moves, err := p.Communicator.LegalMoves(ctx, p.ID)
	if err != nil {
		return err
	}
	if len(moves) == 0 {
		return ErrRejected
	}
	if ok, err = p.Communicator.SendMove(ctx, p.ID, moves[0]); err != nil {
		return err
	}
	if !ok {
		return ErrRejected
	}
	return nil
}

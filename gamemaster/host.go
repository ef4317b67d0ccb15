package gamemaster

import (
	"errors"
	"fmt"
	"sync"

	"torres/game"

	"github.com/rs/zerolog/log"
)

var (
	ErrNotStarted  = errors.New("the game has not started yet")
	ErrGameOver    = errors.New("game is over - no moves allowed")
	ErrIllegalMove = errors.New("illegal move")
)

// Update is published to every subscriber after a move was applied.
type Update struct {
	Player     int       `json:"player"`
	NextPlayer int       `json:"next_player"`
	Move       game.Move `json:"-"`
	GameOver   bool      `json:"game_over"`
}

// Host owns the authoritative game of a server. All access goes through its
// lock, searchers and clients only ever see copies.
type Host struct {
	mu          sync.RWMutex
	game        *game.Torres
	subscribers map[chan Update]struct{}
}

func NewHost(cfg game.Config) (*Host, error) {
	t, err := game.New(cfg)
	if err != nil {
		return nil, err
	}
	return &Host{
		game:        t,
		subscribers: make(map[chan Update]struct{}),
	}, nil
}

func (h *Host) NumPlayers() int {
	return h.game.Config.NumPlayers
}

// Init starts the game, in the given mode unless it is empty. It fails if
// the game is already running or the mode does not fit the config.
func (h *Host) Init(mode game.InitMode) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if mode != "" && h.game.Stage() == game.NotStarted {
		cfg := h.game.Config
		cfg.InitMode = mode
		if err := cfg.Validate(); err != nil {
			log.Warn().Err(err).Msgf("can not start game in %s mode", mode)
			return false
		}
		h.game.Config.InitMode = mode
	}
	ok := h.game.InitGame()
	if ok {
		log.Info().Msgf("game started in %s mode", h.game.Config.InitMode)
	}
	return ok
}

func (h *Host) Reset() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	log.Info().Msg("game reset")
	return h.game.ResetGame()
}

// Play applies the move for the player. Subscribers are told about every
// applied move, and once more when the game ends.
func (h *Host) Play(player int, move game.Move) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	switch h.game.Stage() {
	case game.NotStarted:
		return ErrNotStarted
	case game.Ended:
		return ErrGameOver
	}
	if !h.game.Apply(player, move) {
		return fmt.Errorf("%w: %v by player %d", ErrIllegalMove, move, player)
	}

	h.publish(Update{
		Player:     player,
		NextPlayer: h.game.ActivePlayer,
		Move:       move,
		GameOver:   !h.game.GameRunning,
	})
	if !h.game.GameRunning {
		log.Info().Msgf("game over, winners %v", h.game.Winners())
	}
	return nil
}

func (h *Host) Stage() game.Stage {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.game.Stage()
}

func (h *Host) ActivePlayer() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.game.ActivePlayer
}

// State returns a snapshot of the game.
func (h *Host) State() ([]byte, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.game.Snapshot()
}

// Game returns a private copy of the game.
func (h *Host) Game() *game.Torres {
	h.mu.Lock() // Clone draws from the game's random source
	defer h.mu.Unlock()
	return h.game.Clone()
}

// LegalMoves lists the moves of the player, or of the active player when the
// player is negative.
func (h *Host) LegalMoves(player int) []game.Move {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if player < 0 {
		player = h.game.ActivePlayer
	}
	if player < 0 || player >= h.game.NumPlayers() {
		return nil
	}
	return h.game.LegalMoves(player)
}

func (h *Host) ASCII() string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.game.ASCII()
}

// Subscribe returns a feed of updates and a function that ends the
// subscription. Slow subscribers miss updates instead of blocking play.
func (h *Host) Subscribe() (<-chan Update, func()) {
	ch := make(chan Update, 16)
	h.mu.Lock()
	h.subscribers[ch] = struct{}{}
	h.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.subscribers, ch)
			h.mu.Unlock()
			close(ch)
		})
	}
}

// publish must be called with the lock held.
func (h *Host) publish(u Update) {
	for ch := range h.subscribers {
		select {
		case ch <- u:
		default:
			log.Warn().Msg("dropping update for slow subscriber")
		}
	}
}

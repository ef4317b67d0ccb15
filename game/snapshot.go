package game

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"hash/fnv"
	"strconv"
	"strings"

	"golang.org/x/exp/rand"
	"golang.org/x/exp/slices"
)

// Snapshot serializes the whole game. FromSnapshot restores it.
func (t *Torres) Snapshot() ([]byte, error) {
	return json.Marshal(t)
}

// FromSnapshot rebuilds a game from the output of Snapshot. The random
// source is reseeded from the config.
func FromSnapshot(data []byte) (*Torres, error) {
	var t Torres
	if err := json.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	if err := t.Config.Validate(); err != nil {
		return nil, err
	}
	if err := t.validateBoard(); err != nil {
		return nil, err
	}
	if err := t.validatePlayers(); err != nil {
		return nil, err
	}
	if err := t.validateTurn(); err != nil {
		return nil, err
	}
	t.rng = rand.New(rand.NewSource(t.Config.Seed))
	return &t, nil
}

func (t *Torres) validateBoard() error {
	b, cfg := t.Board, t.Config
	if b == nil || b.Width != cfg.BoardWidth || b.Height != cfg.BoardHeight || len(b.Squares) != cfg.BoardWidth*cfg.BoardHeight {
		return fmt.Errorf("%w: board does not fit the config", ErrConfigMismatch)
	}
	if len(b.CastleSizes) != cfg.NumCastles() || !slices.Equal(b.StartingBlocks, cfg.StartingBlocks) {
		return fmt.Errorf("%w: castles do not fit the config", ErrConfigMismatch)
	}
	if b.KingsCastle < NoCastle || b.KingsCastle >= cfg.NumCastles() {
		return fmt.Errorf("%w: king on unknown castle %d", ErrConfigMismatch, b.KingsCastle)
	}
	for i, s := range b.Squares {
		switch {
		case s.X != i%b.Width || s.Y != i/b.Width:
			return fmt.Errorf("%w: square %d is at (%d, %d)", ErrConfigMismatch, i, s.X, s.Y)
		case s.Castle < NoCastle || s.Castle >= cfg.NumCastles() || s.Height < 0:
			return fmt.Errorf("%w: square %d has castle %d at height %d", ErrConfigMismatch, i, s.Castle, s.Height)
		case s.Knight != Empty && s.Knight != King && (s.Knight < 0 || s.Knight >= cfg.NumPlayers):
			return fmt.Errorf("%w: square %d is taken by unknown player %d", ErrConfigMismatch, i, s.Knight)
		}
	}
	return nil
}

func (t *Torres) validatePlayers() error {
	if len(t.Players) != t.Config.NumPlayers {
		return fmt.Errorf("%w: %d players for %d seats", ErrConfigMismatch, len(t.Players), t.Config.NumPlayers)
	}
	for id, p := range t.Players {
		switch {
		case p == nil:
			return fmt.Errorf("%w: player %d is missing", ErrConfigMismatch, id)
		case p.ID != id:
			return fmt.Errorf("%w: player %d sits in seat %d", ErrConfigMismatch, p.ID, id)
		case p.AP < 0 || p.NumKnights < 0:
			return fmt.Errorf("%w: player %d has negative resources", ErrConfigMismatch, id)
		case len(p.BlockDistribution) != t.Config.NumPhases():
			return fmt.Errorf("%w: player %d has a block schedule for %d phases", ErrConfigMismatch, id, len(p.BlockDistribution))
		}
		for _, blocks := range p.NumBlocks {
			if blocks < 0 {
				return fmt.Errorf("%w: player %d has negative blocks", ErrConfigMismatch, id)
			}
		}
	}
	return nil
}

// validateTurn checks the turn order fields of a running game, which index
// into players and the round schedule.
func (t *Torres) validateTurn() error {
	if !t.GameRunning {
		return nil
	}
	n := t.Config.NumPlayers
	inSeats := func(id int) bool { return id >= 0 && id < n }
	switch {
	case !inSeats(t.ActivePlayer) || !inSeats(t.StartingPlayer):
		return fmt.Errorf("%w: player %d to move, %d starting", ErrConfigMismatch, t.ActivePlayer, t.StartingPlayer)
	case t.PlayerToPlaceKing != -1 && !inSeats(t.PlayerToPlaceKing):
		return fmt.Errorf("%w: unknown king placer %d", ErrConfigMismatch, t.PlayerToPlaceKing)
	case t.Phase < 0 || t.Phase > t.NumPhases():
		return fmt.Errorf("%w: phase %d of %d", ErrConfigMismatch, t.Phase, t.NumPhases())
	case t.Phase == 0 && (t.Round != 0 || len(t.PlacedInitKnights) != n):
		return fmt.Errorf("%w: initial placement does not track every player", ErrConfigMismatch)
	case t.Phase > 0 && (t.Round < 0 || t.Round > t.Config.RoundsPerPhase[t.Phase-1]):
		return fmt.Errorf("%w: round %d in phase %d", ErrConfigMismatch, t.Round, t.Phase)
	}
	return nil
}

// Key is a canonical string of everything that affects play. Two games with
// the same key are interchangeable for search.
func (t *Torres) Key() string {
	var sb strings.Builder
	sb.Grow(len(t.Board.Squares)*8 + 64)
	w := func(v int) {
		sb.WriteString(strconv.Itoa(v))
		sb.WriteByte(',')
	}
	w(t.Round)
	w(t.Phase)
	w(t.ActivePlayer)
	w(t.StartingPlayer)
	w(t.PlayerToPlaceKing)
	if t.GameRunning {
		sb.WriteByte('r')
	}
	for _, placed := range t.PlacedInitKnights {
		if placed {
			sb.WriteByte('1')
		} else {
			sb.WriteByte('0')
		}
	}
	sb.WriteByte('|')
	for _, s := range t.Board.Squares {
		w(s.Castle)
		w(s.Height)
		w(s.Knight)
	}
	sb.WriteByte('|')
	for _, size := range t.Board.CastleSizes {
		w(size)
	}
	for _, p := range t.Players {
		sb.WriteByte('|')
		w(p.Points)
		w(p.AP)
		w(p.NumKnights)
		for _, b := range p.NumBlocks {
			w(b)
		}
	}
	return sb.String()
}

func (t *Torres) Hash() StateHash {
	hasher := fnv.New64a()

	write := func(v int) {
		binary.Write(hasher, binary.LittleEndian, int64(v))
	}
	write(t.Round)
	write(t.Phase)
	write(t.ActivePlayer)
	write(t.StartingPlayer)
	write(t.PlayerToPlaceKing)
	if t.GameRunning {
		write(1)
	} else {
		write(0)
	}
	for _, placed := range t.PlacedInitKnights {
		if placed {
			write(1)
		} else {
			write(0)
		}
	}

	// Squares
	for _, s := range t.Board.Squares {
		write(s.Castle)
		write(s.Height)
		write(s.Knight)
	}

	// Players
	for _, p := range t.Players {
		write(p.Points)
		write(p.AP)
		write(p.NumKnights)
		for _, b := range p.NumBlocks {
			write(b)
		}
	}

	return StateHash(hasher.Sum64())
}

package game

import (
	"errors"
	"fmt"
)

// InitMode selects how knights are seeded when a game is initialised.
type InitMode string

const (
	RandomInit   InitMode = "random"   // Knights on random starting castles, play starts with king placement
	ChoiceInit   InitMode = "choice"   // Players pick their first knight in phase 0
	BalancedInit InitMode = "balanced" // Knights on fixed starting castles
)

// MaxBlocksPerRound caps the block allowance a round can receive from
// leftovers of earlier rounds.
const MaxBlocksPerRound = 3

var ErrConfigMismatch = errors.New("game parameters don't match")

// Config holds the construction parameters of a game.
type Config struct {
	NumPlayers     int      `json:"numPlayers"`
	InitMode       InitMode `json:"initMode"`
	BoardWidth     int      `json:"boardWidth"`
	BoardHeight    int      `json:"boardHeight"`
	StartingBlocks []int    `json:"startingBlocks"` // Square index of each castle's first block
	RoundsPerPhase []int    `json:"roundsPerPhase"`
	BlocksPerRound []int    `json:"blocksPerRound"` // Flat over all rounds of all phases
	APPerRound     int      `json:"apPerRound"`
	NumKnights     int      `json:"numKnights"`
	PlayerColors   []string `json:"playerColors"`
	Seed           uint64   `json:"seed"`
}

// DefaultConfig returns the standard 8x8 two player setup.
func DefaultConfig() Config {
	blocks := make([]int, 4*3)
	for i := range blocks {
		blocks[i] = 3
	}
	return Config{
		NumPlayers:     2,
		InitMode:       RandomInit,
		BoardWidth:     8,
		BoardHeight:    8,
		StartingBlocks: []int{3, 18, 21, 31, 32, 42, 45, 60},
		RoundsPerPhase: []int{4, 4, 4},
		BlocksPerRound: blocks,
		APPerRound:     5,
		NumKnights:     5,
		PlayerColors:   []string{"red", "blue", "green", "orange", "violet", "yellow", "brown"},
		Seed:           1,
	}
}

func (c Config) NumCastles() int {
	return len(c.StartingBlocks)
}

func (c Config) NumPhases() int {
	return len(c.RoundsPerPhase)
}

// Validate reports inconsistent parameters. A config that fails validation
// can not be used to build a game.
func (c Config) Validate() error {
	totalRounds := 0
	for _, rounds := range c.RoundsPerPhase {
		if rounds < 1 {
			return fmt.Errorf("%w: every phase needs at least one round", ErrConfigMismatch)
		}
		totalRounds += rounds
	}
	switch {
	case c.NumPlayers < 2:
		return fmt.Errorf("%w: need at least two players, got %d", ErrConfigMismatch, c.NumPlayers)
	case c.BoardWidth < 1 || c.BoardHeight < 1:
		return fmt.Errorf("%w: board must be at least 1x1", ErrConfigMismatch)
	case len(c.RoundsPerPhase) == 0:
		return fmt.Errorf("%w: need at least one phase", ErrConfigMismatch)
	case len(c.BlocksPerRound) != totalRounds:
		return fmt.Errorf("%w: %d block allowances for %d rounds", ErrConfigMismatch, len(c.BlocksPerRound), totalRounds)
	case len(c.PlayerColors) < c.NumPlayers:
		return fmt.Errorf("%w: not enough player colors given", ErrConfigMismatch)
	case c.APPerRound < 0 || c.NumKnights < 0:
		return fmt.Errorf("%w: negative resources", ErrConfigMismatch)
	}
	taken := make(map[int]bool, len(c.StartingBlocks))
	for _, idx := range c.StartingBlocks {
		if idx < 0 || idx >= c.BoardWidth*c.BoardHeight {
			return fmt.Errorf("%w: starting block %d outside the board", ErrConfigMismatch, idx)
		}
		if taken[idx] {
			return fmt.Errorf("%w: two castles start on square %d", ErrConfigMismatch, idx)
		}
		taken[idx] = true
	}
	switch c.InitMode {
	case RandomInit, ChoiceInit:
		if c.NumCastles() < c.NumPlayers {
			return fmt.Errorf("%w: %d castles for %d players", ErrConfigMismatch, c.NumCastles(), c.NumPlayers)
		}
	case BalancedInit:
		if c.NumCastles() < 3 || (c.NumPlayers > 2 && c.NumCastles() < c.NumPlayers+3) {
			return fmt.Errorf("%w: balanced mode needs more castles", ErrConfigMismatch)
		}
	default:
		return fmt.Errorf("%w: unknown init mode %q", ErrConfigMismatch, c.InitMode)
	}
	return nil
}

// blockDistribution splits the flat allowance into one schedule per phase.
func (c Config) blockDistribution() [][]int {
	dist := make([][]int, 0, len(c.RoundsPerPhase))
	offset := 0
	for _, rounds := range c.RoundsPerPhase {
		phase := make([]int, rounds)
		copy(phase, c.BlocksPerRound[offset:offset+rounds])
		dist = append(dist, phase)
		offset += rounds
	}
	return dist
}

func (c Config) clone() Config {
	cp := c
	cp.StartingBlocks = append([]int(nil), c.StartingBlocks...)
	cp.RoundsPerPhase = append([]int(nil), c.RoundsPerPhase...)
	cp.BlocksPerRound = append([]int(nil), c.BlocksPerRound...)
	cp.PlayerColors = append([]string(nil), c.PlayerColors...)
	return cp
}

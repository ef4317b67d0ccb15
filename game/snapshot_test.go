package game

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFromSnapshotRejectsBrokenState(t *testing.T) {
	tests := []struct {
		name   string
		mode   InitMode
		modify func(g *Torres)
	}{
		{"active player out of range", RandomInit, func(g *Torres) { g.ActivePlayer = 7 }},
		{"negative active player", RandomInit, func(g *Torres) { g.ActivePlayer = -1 }},
		{"starting player out of range", RandomInit, func(g *Torres) { g.StartingPlayer = 2 }},
		{"king placer out of range", RandomInit, func(g *Torres) { g.PlayerToPlaceKing = 5 }},
		{"phase past the last", RandomInit, func(g *Torres) { g.Phase = 4 }},
		{"round past the phase", RandomInit, func(g *Torres) { g.Round = 5 }},
		{"initial placement without tracking", ChoiceInit, func(g *Torres) { g.PlacedInitKnights = nil }},
		{"initial placement tracking too few", ChoiceInit, func(g *Torres) { g.PlacedInitKnights = []bool{false} }},
		{"missing player", RandomInit, func(g *Torres) { g.Players[1] = nil }},
		{"swapped players", RandomInit, func(g *Torres) { g.Players[0], g.Players[1] = g.Players[1], g.Players[0] }},
		{"negative action points", RandomInit, func(g *Torres) { g.Players[0].AP = -1 }},
		{"negative blocks", RandomInit, func(g *Torres) { g.Players[0].NumBlocks[0] = -1 }},
		{"missing block schedule", RandomInit, func(g *Torres) { g.Players[0].BlockDistribution = nil }},
		{"missing board", RandomInit, func(g *Torres) { g.Board = nil }},
		{"short board", RandomInit, func(g *Torres) { g.Board.Squares = g.Board.Squares[:10] }},
		{"missing castle sizes", RandomInit, func(g *Torres) { g.Board.CastleSizes = nil }},
		{"unknown castle", RandomInit, func(g *Torres) { g.Board.Squares[0].Castle = 8 }},
		{"unknown knight", RandomInit, func(g *Torres) { g.Board.Squares[0].Knight = 3 }},
		{"misplaced square", RandomInit, func(g *Torres) { g.Board.Squares[1].X = 0 }},
		{"king on unknown castle", RandomInit, func(g *Torres) { g.Board.KingsCastle = 9 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := newGame(t, tt.mode, 1)
			tt.modify(g)
			data, err := g.Snapshot()
			require.NoError(t, err)

			restored, err := FromSnapshot(data)

			require.ErrorIs(t, err, ErrConfigMismatch)
			require.Nil(t, restored)
		})
	}
}

func TestFromSnapshotAcceptsEveryStage(t *testing.T) {
	t.Run("not started", func(t *testing.T) {
		g, err := New(DefaultConfig())
		require.NoError(t, err)
		data, err := g.Snapshot()
		require.NoError(t, err)

		restored, err := FromSnapshot(data)

		require.NoError(t, err)
		require.Equal(t, NotStarted, restored.Stage())
	})

	t.Run("initial placement", func(t *testing.T) {
		data, err := newGame(t, ChoiceInit, 1).Snapshot()
		require.NoError(t, err)

		restored, err := FromSnapshot(data)

		require.NoError(t, err)
		require.Equal(t, InitPlacement, restored.Stage())
	})

	t.Run("played to the end", func(t *testing.T) {
		g := newGame(t, RandomInit, 3)
		for g.GameRunning {
			g.ExecuteMove(g.DeterministicLegalMove())
			data, err := g.Snapshot()
			require.NoError(t, err)
			_, err = FromSnapshot(data)
			require.NoError(t, err, "Stage %v, phase %d, round %d", g.Stage(), g.Phase, g.Round)
		}
	})
}

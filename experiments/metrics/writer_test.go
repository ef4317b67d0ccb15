package metrics

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return rows
}

func TestWriter(t *testing.T) {
	w, err := NewWriter(t.TempDir(), "arena")
	require.NoError(t, err)

	start := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	require.NoError(t, w.WriteAgentConfigs([]AgentConfig{
		{ID: 1, Kind: "mcts", Goroutines: 4, Duration: time.Second, Episodes: 100},
	}))
	require.NoError(t, w.WriteGameRecords([]GameRecord{{
		ID:     1,
		Agents: []int{1, 2},
		GameMetric: GameMetric{
			StartingPlayer: 0,
			Winners:        []int{1},
			Points:         []int{40, 52},
			StartTime:      start,
			EndTime:        start.Add(time.Minute),
			Duration:       time.Minute,
			TotalMoves:     120,
		},
	}}))
	require.NoError(t, w.WriteMoveRecords([]MoveRecord{{
		Game: 1,
		MoveMetric: MoveMetric{
			Step:         1,
			Player:       0,
			Move:         "turn_end",
			SearchMetric: SearchMetric{Searcher: "negamax", Depth: 2, TableHits: 7},
		},
	}}))

	t.Run("agent configs", func(t *testing.T) {
		rows := readCSV(t, filepath.Join(w.Dir(), "agent_configs.csv"))
		require.Len(t, rows, 2)
		require.Equal(t, []string{"1", "mcts", "4", "1s", "0", "100", "0", "0"}, rows[1])
	})

	t.Run("game records", func(t *testing.T) {
		rows := readCSV(t, filepath.Join(w.Dir(), "game_records.csv"))
		require.Len(t, rows, 2)
		require.Equal(t, "1 2", rows[1][1])
		require.Equal(t, "1", rows[1][3])
		require.Equal(t, "40 52", rows[1][4])
		require.Equal(t, "120", rows[1][8])
	})

	t.Run("move records", func(t *testing.T) {
		rows := readCSV(t, filepath.Join(w.Dir(), "move_records.csv"))
		require.Len(t, rows, 2)
		require.Equal(t, []string{"1", "1", "0", "turn_end", "negamax", "0s", "0", "2", "0", "7", "false"}, rows[1])
	})
}

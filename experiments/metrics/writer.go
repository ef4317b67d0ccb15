package metrics

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

type GameRecord struct {
	ID     int
	Agents []int // AgentConfig.ID per seat
	GameMetric
}

type MoveRecord struct {
	Game int // GameRecord.ID
	MoveMetric
}

type Writer struct {
	baseDir string
}

// NewWriter creates a directory for the experiment under root, named by the
// current timestamp.
func NewWriter(root, name string) (*Writer, error) {
	timestamp := time.Now().UTC().Format("20060102T150405Z")
	baseDir := filepath.Join(root, name, timestamp)
	err := os.MkdirAll(baseDir, 0755)
	if err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	return &Writer{
		baseDir: baseDir,
	}, nil
}

func (w *Writer) Dir() string {
	return w.baseDir
}

func (w *Writer) WriteAgentConfigs(configs []AgentConfig) error {
	rows := make([][]string, 0, len(configs))
	for _, config := range configs {
		rows = append(rows, []string{
			strconv.Itoa(config.ID),
			config.Kind,
			strconv.Itoa(config.Goroutines),
			config.Duration.String(),
			strconv.Itoa(config.Depth),
			strconv.Itoa(config.Episodes),
			strconv.FormatUint(config.Seed, 10),
			strconv.FormatFloat(config.Temperature, 'f', -1, 64),
		})
	}
	header := []string{"id", "kind", "goroutines", "duration", "depth", "episodes", "seed", "temperature"}
	if err := w.write("agent_configs.csv", header, rows); err != nil {
		return fmt.Errorf("failed to write agent configs: %w", err)
	}
	return nil
}

func (w *Writer) WriteGameRecords(records []GameRecord) error {
	rows := make([][]string, 0, len(records))
	for _, record := range records {
		rows = append(rows, []string{
			strconv.Itoa(record.ID),
			joinInts(record.Agents),
			strconv.Itoa(record.StartingPlayer),
			joinInts(record.Winners),
			joinInts(record.Points),
			record.StartTime.Format(time.RFC3339),
			record.EndTime.Format(time.RFC3339),
			record.Duration.String(),
			strconv.Itoa(record.TotalMoves),
		})
	}
	header := []string{"id", "agents", "starting_player", "winners", "points", "start_time", "end_time", "duration", "total_moves"}
	if err := w.write("game_records.csv", header, rows); err != nil {
		return fmt.Errorf("failed to write game records: %w", err)
	}
	return nil
}

func (w *Writer) WriteMoveRecords(records []MoveRecord) error {
	rows := make([][]string, 0, len(records))
	for _, record := range records {
		rows = append(rows, []string{
			strconv.Itoa(record.Game),
			strconv.Itoa(record.Step),
			strconv.Itoa(record.Player),
			record.Move,
			record.Searcher,
			record.Duration.String(),
			strconv.Itoa(record.Episodes),
			strconv.Itoa(record.Depth),
			strconv.Itoa(record.FullPlayouts),
			strconv.Itoa(record.TableHits),
			strconv.FormatBool(record.IsCached),
		})
	}
	header := []string{"game", "step", "player", "move", "searcher", "duration", "episodes", "depth", "full_playouts", "table_hits", "is_cached"}
	if err := w.write("move_records.csv", header, rows); err != nil {
		return fmt.Errorf("failed to write move records: %w", err)
	}
	return nil
}

func (w *Writer) write(name string, header []string, rows [][]string) error {
	f, err := os.Create(filepath.Join(w.baseDir, name))
	if err != nil {
		return err
	}
	defer f.Close()

	writer := csv.NewWriter(f)
	if err := writer.Write(header); err != nil {
		return err
	}
	if err := writer.WriteAll(rows); err != nil {
		return err
	}
	return f.Close()
}

// joinInts formats a list of ints as a single space separated column.
func joinInts(values []int) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, " ")
}

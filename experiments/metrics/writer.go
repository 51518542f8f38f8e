package metrics

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"nrow/config"
)

type AgentConfig struct {
	ID int
	config.PlayerConfig
}

type GameRecord struct {
	ID     int
	Agent1 int // AgentConfig.ID playing X
	Agent2 int // AgentConfig.ID playing O
	GameMetric
}

type MoveRecord struct {
	Game int // GameRecord.ID
	MoveMetric
}

type Writer struct {
	baseDir string
}

// NewWriter creates baseDir/name/<timestamp>-<runID> for one experiment run.
func NewWriter(baseDir, name, runID string) (*Writer, error) {
	timestamp := time.Now().UTC().Format("20060102T150405Z")
	dir := filepath.Join(baseDir, name, timestamp+"-"+runID)
	err := os.MkdirAll(dir, 0755)
	if err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	return &Writer{
		baseDir: dir,
	}, nil
}

func (w *Writer) Dir() string {
	return w.baseDir
}

func (w *Writer) WriteAgentConfigs(configs []AgentConfig) error {
	header := []string{"id", "kind", "iterations", "exploration", "full_expansion", "epsilon", "table", "seed"}
	rows := make([][]string, 0, len(configs))
	for _, c := range configs {
		rows = append(rows, []string{
			strconv.Itoa(c.ID),
			c.Kind,
			strconv.Itoa(c.Iterations),
			strconv.FormatFloat(c.Exploration, 'f', -1, 64),
			strconv.FormatBool(c.FullExpansion),
			strconv.FormatFloat(c.Epsilon, 'f', -1, 64),
			c.Table,
			strconv.FormatUint(c.Seed, 10),
		})
	}
	return writeCSV(filepath.Join(w.baseDir, "agent_configs.csv"), header, rows)
}

func (w *Writer) WriteGameRecords(records []GameRecord) error {
	header := []string{"id", "game_id", "agent1", "agent2", "starting_player", "winner", "start_time", "end_time", "duration", "total_moves"}
	rows := make([][]string, 0, len(records))
	for _, r := range records {
		rows = append(rows, []string{
			strconv.Itoa(r.ID),
			r.GameID,
			strconv.Itoa(r.Agent1),
			strconv.Itoa(r.Agent2),
			r.StartingPlayer,
			r.Winner,
			r.StartTime.Format(time.RFC3339),
			r.EndTime.Format(time.RFC3339),
			r.Duration.String(),
			strconv.Itoa(r.TotalMoves),
		})
	}
	return writeCSV(filepath.Join(w.baseDir, "game_records.csv"), header, rows)
}

func (w *Writer) WriteMoveRecords(records []MoveRecord) error {
	header := []string{"game", "step", "player", "move", "duration", "episodes", "full_playouts", "tree_size"}
	rows := make([][]string, 0, len(records))
	for _, r := range records {
		rows = append(rows, []string{
			strconv.Itoa(r.Game),
			strconv.Itoa(r.Step),
			r.Player,
			r.Move,
			r.Duration.String(),
			strconv.Itoa(r.Episodes),
			strconv.Itoa(r.FullPlayouts),
			strconv.Itoa(r.TreeSize),
		})
	}
	return writeCSV(filepath.Join(w.baseDir, "move_records.csv"), header, rows)
}

func writeCSV(path string, header []string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", filepath.Base(path), err)
	}
	defer f.Close()

	writer := csv.NewWriter(f)

	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write %s header: %w", filepath.Base(path), err)
	}
	if err := writer.WriteAll(rows); err != nil {
		return fmt.Errorf("failed to write %s rows: %w", filepath.Base(path), err)
	}
	return nil
}

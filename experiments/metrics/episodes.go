package metrics

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/parquet-go/parquet-go"
	"github.com/parquet-go/parquet-go/compress/zstd"
)

// Draw is the result recorded for a game without a winner.
const Draw = "DRAW"

// EpisodeRecord is one self-play training game: its index and "DRAW" or the winning mark.
type EpisodeRecord struct {
	Episode int    `parquet:"episode"`
	Result  string `parquet:"result,dict"`
}

// WriteEpisodeLog writes Parquet when path ends in .parquet, CSV otherwise.
func WriteEpisodeLog(path string, records []EpisodeRecord) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	if strings.EqualFold(filepath.Ext(path), ".parquet") {
		return writeEpisodeParquet(path, records)
	}

	rows := make([][]string, 0, len(records))
	for _, r := range records {
		rows = append(rows, []string{strconv.Itoa(r.Episode), r.Result})
	}
	return writeCSV(path, []string{"episode", "result"}, rows)
}

func writeEpisodeParquet(path string, records []EpisodeRecord) error {
	// Write to a temp file and rename atomically.
	tmpPath := path + ".tmp"
	_ = os.Remove(tmpPath)

	if err := parquet.WriteFile(tmpPath, records,
		parquet.Compression(&zstd.Codec{Level: zstd.SpeedBetterCompression}),
		parquet.KeyValueMetadata("schema", "selfplay_episode_v1"),
	); err != nil {
		return fmt.Errorf("write parquet: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("rename parquet: %w", err)
	}
	return nil
}

// ReadEpisodeParquet loads a log written by WriteEpisodeLog.
func ReadEpisodeParquet(path string) ([]EpisodeRecord, error) {
	records, err := parquet.ReadFile[EpisodeRecord](path)
	if err != nil {
		return nil, fmt.Errorf("read parquet: %w", err)
	}
	return records, nil
}

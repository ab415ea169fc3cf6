package metrics

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

type AgentConfig struct {
	ServerURL       string `json:"serverUrl"`
	Transport       string `json:"transport"`
	Goroutines      int    `json:"goroutines"`
	NeutralOverride bool   `json:"neutralOverride"`
}

type Setup struct {
	Agent     AgentConfig   `json:"agent"`
	StartTime time.Time     `json:"startTime"`
	EndTime   time.Time     `json:"endTime"`
	Duration  time.Duration `json:"duration"`
	Ticks     int           `json:"ticks"`
}

type Writer struct {
	baseDir string
}

// NewWriter creates a subfolder of dir named by the current timestamp.
func NewWriter(dir string) (*Writer, error) {
	// Create a subfolder named by current timestamp
	timestamp := time.Now().UTC().Format("20060102T150405Z")
	baseDir := filepath.Join(dir, timestamp)
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

func (w *Writer) WriteSetup(start, end time.Time, agent AgentConfig, ticks int) error {
	setup := Setup{
		Agent:     agent,
		StartTime: start,
		EndTime:   end,
		Duration:  end.Sub(start),
		Ticks:     ticks,
	}

	// Create a file
	path := filepath.Join(w.baseDir, "setup.json")
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create setup file: %w", err)
	}
	defer f.Close()

	// Write setup
	encoder := json.NewEncoder(f)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(setup); err != nil {
		return fmt.Errorf("failed to write setup: %w", err)
	}
	return nil
}

func (w *Writer) WriteTickRecords(records []TickMetric) error {
	// Create a file
	path := filepath.Join(w.baseDir, "ticks.csv")
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create tick records file: %w", err)
	}
	defer f.Close()

	writer := csv.NewWriter(f)

	// Write header
	header := []string{"tick", "player", "goroutines", "duration", "owned_bases", "opponents", "attacks", "upgrades", "abandoned"}
	err = writer.Write(header)
	if err != nil {
		return fmt.Errorf("failed to write tick records header: %w", err)
	}

	// Write each row
	for _, record := range records {
		row := []string{
			strconv.Itoa(record.Tick),
			strconv.Itoa(record.Player),
			strconv.Itoa(record.Goroutines),
			record.Duration.String(),
			strconv.Itoa(record.OwnedBases),
			strconv.Itoa(record.Opponents),
			strconv.Itoa(record.Attacks),
			strconv.Itoa(record.Upgrades),
			strconv.Itoa(record.Abandoned),
		}
		err = writer.Write(row)
		if err != nil {
			return fmt.Errorf("failed to write tick record row: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("failed to flush tick records: %w", err)
	}
	return nil
}

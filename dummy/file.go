package dummy

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"gitstats/logger"
	"gitstats/models"
)

// DefaultPath is where SaveDummyDataToFile writes when no path is given
var DefaultPath = filepath.Join("data", "dummy-git-stats.json")

// SaveToFile writes data as indented JSON, creating parent directories
func SaveToFile(path string, data *models.GitStatsData) error {
	if path == "" {
		path = DefaultPath
	}
	if data == nil {
		return fmt.Errorf("save dummy data: nil payload")
	}

	body, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("encode dummy data: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, append(body, '\n'), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}

	logger.Info("Generated dummy data",
		zap.String("path", path),
		zap.Int("profiles", len(data.Profiles)))
	return nil
}

// SaveDummyDataToFile generates a fresh single-profile payload and writes it to path
func SaveDummyDataToFile(path string) (*models.GitStatsData, error) {
	data := New().Stats(Options{})
	if err := SaveToFile(path, data); err != nil {
		return nil, err
	}
	return data, nil
}

package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// FileRepository implements Repository as JSON files on disk, one per
// snapshot. Writes go through a temp file and rename so a crash mid-write
// never leaves a truncated snapshot.
type FileRepository struct {
	graphPath    string
	timelinePath string
}

// NewFileRepository creates a repository writing graph and timeline snapshots
// to the given paths. Parent directories are created if they do not exist.
func NewFileRepository(graphPath, timelinePath string) (*FileRepository, error) {
	for _, path := range []string{graphPath, timelinePath} {
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, fmt.Errorf("failed to create storage directory: %w", err)
			}
		}
	}
	return &FileRepository{graphPath: graphPath, timelinePath: timelinePath}, nil
}

// LoadGraph reads the graph snapshot. A missing file yields an empty snapshot.
func (r *FileRepository) LoadGraph(ctx context.Context) (*GraphSnapshot, error) {
	snap := &GraphSnapshot{TrustScores: make(map[string]float64)}
	if err := readJSON(r.graphPath, snap); err != nil {
		return nil, err
	}
	if snap.TrustScores == nil {
		snap.TrustScores = make(map[string]float64)
	}
	return snap, nil
}

// SaveGraph writes the graph snapshot atomically.
func (r *FileRepository) SaveGraph(ctx context.Context, snap *GraphSnapshot) error {
	return writeJSON(r.graphPath, snap)
}

// LoadTimeline reads the timeline snapshot. A missing file yields an empty
// snapshot.
func (r *FileRepository) LoadTimeline(ctx context.Context) (*TimelineSnapshot, error) {
	snap := &TimelineSnapshot{}
	if err := readJSON(r.timelinePath, snap); err != nil {
		return nil, err
	}
	return snap, nil
}

// SaveTimeline writes the timeline snapshot atomically.
func (r *FileRepository) SaveTimeline(ctx context.Context, snap *TimelineSnapshot) error {
	return writeJSON(r.timelinePath, snap)
}

// Close is a no-op for file-backed storage.
func (r *FileRepository) Close() error {
	return nil
}

func readJSON(path string, v interface{}) error {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return nil
}

func writeJSON(path string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}
	return nil
}

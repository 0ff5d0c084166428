package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"
)

// FileStore writes each saved game as a pretty-printed JSON file in a
// directory.
type FileStore struct {
	dir    string
	logger *zap.Logger
}

// NewFileStore creates the save directory if needed and returns a store over
// it.
func NewFileStore(dir string, logger *zap.Logger) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating save directory %q: %w", dir, err)
	}
	return &FileStore{dir: dir, logger: logger}, nil
}

// path maps a save name to its file, stripping anything that would escape
// the save directory.
func (fs *FileStore) path(name string) string {
	clean := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, name)
	if clean == "" {
		clean = "save"
	}
	return filepath.Join(fs.dir, clean+".json")
}

// Save implements Store. The file is written to a temporary name and renamed
// so a crash never leaves a truncated save.
func (fs *FileStore) Save(name string, save *SaveGame) error {
	save.Version = CurrentVersion
	save.SavedAt = time.Now().UTC()

	data, err := json.MarshalIndent(save, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding save %q: %w", name, err)
	}

	target := fs.path(name)
	tmp := target + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("writing save %q: %w", name, err)
	}
	if err := os.Rename(tmp, target); err != nil {
		return fmt.Errorf("committing save %q: %w", name, err)
	}

	fs.logger.Info("game saved",
		zap.String("name", name),
		zap.String("path", target),
		zap.Int("bytes", len(data)))
	return nil
}

// Load implements Store.
func (fs *FileStore) Load(name string) (*SaveGame, error) {
	data, err := os.ReadFile(fs.path(name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %q", ErrNoSave, name)
		}
		return nil, fmt.Errorf("reading save %q: %w", name, err)
	}
	var save SaveGame
	if err := json.Unmarshal(data, &save); err != nil {
		return nil, fmt.Errorf("decoding save %q: %w", name, err)
	}
	if save.Version > CurrentVersion {
		return nil, fmt.Errorf("save %q has version %d, newer than this build", name, save.Version)
	}

	fs.logger.Info("game loaded", zap.String("name", name))
	return &save, nil
}

// List implements Store.
func (fs *FileStore) List() ([]string, error) {
	entries, err := os.ReadDir(fs.dir)
	if err != nil {
		return nil, fmt.Errorf("listing saves: %w", err)
	}
	var names []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		names = append(names, strings.TrimSuffix(entry.Name(), ".json"))
	}
	sort.Strings(names)
	return names, nil
}

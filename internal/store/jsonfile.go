package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/rsinha/cashguard/internal/model"
)

// JSONFile is the fallback store: one JSON document, written via a temp
// file and rename so a crash never leaves a half-written state behind.
type JSONFile struct {
	path string
}

func jsonPath(dir string) string {
	return filepath.Join(dir, "state.json")
}

// OpenJSONFile returns a store writing to the given path.
func OpenJSONFile(path string) (*JSONFile, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, fmt.Errorf("creating data dir: %w", err)
	}
	return &JSONFile{path: path}, nil
}

// Load reads the state document; a missing file yields an empty state.
func (j *JSONFile) Load() (*model.State, error) {
	data, err := os.ReadFile(j.path)
	if errors.Is(err, fs.ErrNotExist) {
		return model.NewState(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading state: %w", err)
	}
	state := model.NewState()
	if err := json.Unmarshal(data, state); err != nil {
		return nil, fmt.Errorf("parsing state: %w", err)
	}
	return state, nil
}

// Save writes the state document atomically.
func (j *JSONFile) Save(s *model.State) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding state: %w", err)
	}
	tmp := j.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("writing state: %w", err)
	}
	if err := os.Rename(tmp, j.path); err != nil {
		return fmt.Errorf("writing state: %w", err)
	}
	return nil
}

// Close is a no-op for the file store.
func (j *JSONFile) Close() error {
	return nil
}

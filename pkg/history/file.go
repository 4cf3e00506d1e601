package history

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/matzehuels/autoinstall/pkg/errors"
)

// FileStore keeps runs as JSON files in a directory.
type FileStore struct {
	mu  sync.RWMutex
	dir string
}

// NewFileStore creates a file-based store in dir.
// If dir is empty, DefaultDir is used. The directory is created if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if dir == "" {
		d, err := DefaultDir()
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeStorage, err, "resolve history dir")
		}
		dir = d
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "create history dir")
	}
	return &FileStore{dir: dir}, nil
}

func (s *FileStore) path(id string) string {
	return filepath.Join(s.dir, id+".json")
}

// Save writes run to <dir>/<id>.json.
func (s *FileStore) Save(ctx context.Context, run *Run) error {
	if err := errors.ValidateRunID(run.ID); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.MarshalIndent(run, "", "  ")
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "marshal run")
	}
	if err := os.WriteFile(s.path(run.ID), data, 0644); err != nil {
		return errors.Wrap(errors.ErrCodeStorage, err, "write run file")
	}
	return nil
}

// Get reads the run with the given ID.
func (s *FileStore) Get(ctx context.Context, id string) (*Run, error) {
	if err := errors.ValidateRunID(id); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(s.path(id))
	if os.IsNotExist(err) {
		return nil, notFound(id)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "read run file")
	}

	var run Run
	if err := json.Unmarshal(data, &run); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "parse run %s", id)
	}
	return &run, nil
}

// List returns up to limit runs, newest first. Unreadable files are skipped.
func (s *FileStore) List(ctx context.Context, limit int) ([]*Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "read history dir")
	}

	var runs []*Run
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}
		data, err := os.ReadFile(filepath.Join(s.dir, entry.Name()))
		if err != nil {
			continue
		}
		var run Run
		if err := json.Unmarshal(data, &run); err != nil {
			continue
		}
		runs = append(runs, &run)
	}

	sort.SliceStable(runs, func(i, j int) bool {
		return runs[i].StartedAt.After(runs[j].StartedAt)
	})
	if limit = normalizeLimit(limit); len(runs) > limit {
		runs = runs[:limit]
	}
	return runs, nil
}

// Close does nothing for the file store.
func (s *FileStore) Close() error { return nil }

// Dir returns the directory holding run files.
func (s *FileStore) Dir() string { return s.dir }

var _ Store = (*FileStore)(nil)

// Package jsonfile stores the activity collection as a single JSON array
// file, rewritten atomically on every save.
package jsonfile

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"ecotrack/internal/core"
	applog "ecotrack/internal/log"
	"ecotrack/internal/store"
)

// DefaultPath is the file used when no path is configured.
const DefaultPath = "ecotrack_data.json"

// defaultPerm applies to data files that do not exist yet.
const defaultPerm fs.FileMode = 0o644

var _ store.Store = (*Store)(nil)

type Store struct {
	path   string
	logger *applog.Logger
}

// Option customizes a Store.
type Option func(*Store)

// WithLogger sets the logger for load and save records.
func WithLogger(logger *applog.Logger) Option {
	return func(s *Store) { s.logger = logger.WithComponent(applog.ComponentStorage) }
}

func New(path string, opts ...Option) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("data file path is required")
	}
	s := &Store{path: path, logger: applog.Discard()}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Path returns the file the store reads and writes.
func (s *Store) Path() string {
	return s.path
}

// record mirrors core.Activity with pointer fields so that a missing key
// can be told apart from an empty string.
type record struct {
	Date        *string `json:"date"`
	Category    *string `json:"category"`
	Description *string `json:"description"`
	Impact      *string `json:"impact"`
}

func (s *Store) Load(ctx context.Context) ([]core.Activity, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			s.logger.DebugContext(ctx, "Data file not found, starting empty", "path", s.path)
			return []core.Activity{}, nil
		}
		return nil, fmt.Errorf("read data file: %w", err)
	}

	records, err := decodeStrict(data)
	if err != nil {
		return nil, &store.CorruptError{Location: s.path, Err: err}
	}

	out := make([]core.Activity, 0, len(records))
	for i, r := range records {
		if r.Date == nil || r.Category == nil || r.Description == nil || r.Impact == nil {
			return nil, &store.CorruptError{
				Location: s.path,
				Err:      fmt.Errorf("record %d: missing field", i+1),
			}
		}
		out = append(out, core.Activity{
			Date:        *r.Date,
			Category:    *r.Category,
			Description: *r.Description,
			Impact:      *r.Impact,
		})
	}

	s.logger.DebugContext(ctx, "Loaded activities",
		append(applog.NewFields().WithOperation(applog.OpLoad).WithCount(len(out)).ToSlice(), "path", s.path)...)
	return out, nil
}

func (s *Store) Save(ctx context.Context, activities []core.Activity) error {
	if activities == nil {
		activities = []core.Activity{}
	}
	data, err := json.MarshalIndent(activities, "", "    ")
	if err != nil {
		return &store.WriteError{Location: s.path, Err: fmt.Errorf("marshal activities: %w", err)}
	}
	data = append(data, '\n')

	perm := defaultPerm
	if fi, err := os.Stat(s.path); err == nil {
		perm = fi.Mode().Perm()
	}
	if err := writeFileAtomic(s.path, data, perm); err != nil {
		return &store.WriteError{Location: s.path, Err: err}
	}

	s.logger.DebugContext(ctx, "Saved activities",
		append(applog.NewFields().WithOperation(applog.OpSave).WithCount(len(activities)).ToSlice(), "path", s.path)...)
	return nil
}

func decodeStrict(data []byte) ([]record, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	var records []record
	if err := dec.Decode(&records); err != nil {
		return nil, err
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return nil, errors.New("invalid JSON: trailing content")
	}
	return records, nil
}

// writeFileAtomic writes data to a temp file in the target directory, syncs
// it and renames it over path.
func writeFileAtomic(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp.*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	committed := false
	defer func() {
		_ = tmp.Close()
		if !committed {
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		return err
	}
	if err := tmp.Chmod(perm); err != nil {
		return err
	}
	if err := tmp.Sync(); err != nil {
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		return err
	}
	committed = true
	return syncDir(dir)
}

func syncDir(dir string) error {
	f, err := os.Open(dir)
	if err != nil {
		return err
	}
	defer f.Close()
	// Some platforms refuse to fsync directories; the rename already happened.
	_ = f.Sync()
	return nil
}

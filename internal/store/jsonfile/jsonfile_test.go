package jsonfile

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ecotrack/internal/core"
	applog "ecotrack/internal/log"
	"ecotrack/internal/store"
)

func sample() []core.Activity {
	return []core.Activity{
		{Date: "2024-01-01", Category: "Energy", Description: "Switched to LED bulbs", Impact: "Medium"},
		{Date: "2024-01-01", Category: "Water", Description: "", Impact: "Low"},
		{Date: "someday", Category: "Transport", Description: "Biked to work ☀", Impact: "High"},
	}
}

func TestNewRequiresPath(t *testing.T) {
	_, err := New("  ")
	require.Error(t, err)
}

func TestLoadMissingFileIsEmpty(t *testing.T) {
	s, err := New(filepath.Join(t.TempDir(), "nope.json"))
	require.NoError(t, err)

	got, err := s.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.NotNil(t, got)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultPath)
	s, err := New(path)
	require.NoError(t, err)

	require.NoError(t, s.Save(context.Background(), sample()))
	got, err := s.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, sample(), got)

	// Saving an empty collection leaves a valid, empty array behind.
	require.NoError(t, s.Save(context.Background(), nil))
	got, err = s.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestSaveWritesIndentedArray(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.json")
	s, _ := New(path)
	require.NoError(t, s.Save(context.Background(), sample()[:1]))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	want := "[\n" +
		"    {\n" +
		"        \"date\": \"2024-01-01\",\n" +
		"        \"category\": \"Energy\",\n" +
		"        \"description\": \"Switched to LED bulbs\",\n" +
		"        \"impact\": \"Medium\"\n" +
		"    }\n" +
		"]\n"
	assert.Equal(t, want, string(data))

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files must not be left behind")
}

func TestLoadAcceptsCompactAndNull(t *testing.T) {
	dir := t.TempDir()
	compact := filepath.Join(dir, "compact.json")
	require.NoError(t, os.WriteFile(compact, []byte(`[{"impact":"Low","date":"d","category":"C","description":"x"}]`), 0o644))
	s, _ := New(compact)
	got, err := s.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []core.Activity{{Date: "d", Category: "C", Description: "x", Impact: "Low"}}, got)

	null := filepath.Join(dir, "null.json")
	require.NoError(t, os.WriteFile(null, []byte("null"), 0o644))
	s, _ = New(null)
	got, err = s.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestLoadCorrupt(t *testing.T) {
	cases := map[string]string{
		"empty file":      "",
		"not json":        "{not json",
		"object not list": `{"date":"d"}`,
		"missing field":   `[{"date":"d","category":"C","description":"x"}]`,
		"wrong type":      `[{"date":1,"category":"C","description":"x","impact":"Low"}]`,
		"unknown field":   `[{"date":"d","category":"C","description":"x","impact":"Low","id":3}]`,
		"trailing":        `[] []`,
	}
	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "data.json")
			require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
			s, _ := New(path)

			_, err := s.Load(context.Background())
			var cerr *store.CorruptError
			require.ErrorAs(t, err, &cerr)
			assert.Equal(t, path, cerr.Location)
		})
	}
}

func TestSaveUnwritableLocation(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	s, _ := New(filepath.Join(blocker, "data.json"))
	err := s.Save(context.Background(), sample())
	var werr *store.WriteError
	require.ErrorAs(t, err, &werr)
	assert.True(t, strings.HasSuffix(werr.Location, "data.json"))
}

func TestLoadUnreadableLocationIsNotCorrupt(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "data.json")
	require.NoError(t, os.Mkdir(dir, 0o755))

	s, _ := New(dir)
	_, err := s.Load(context.Background())
	require.Error(t, err)
	var cerr *store.CorruptError
	assert.False(t, errors.As(err, &cerr), "read failure reported as corruption: %v", err)
	assert.Contains(t, err.Error(), "read data file")
}

func TestSaveKeepsFileMode(t *testing.T) {
	dir := t.TempDir()

	private := filepath.Join(dir, "private.json")
	require.NoError(t, os.WriteFile(private, []byte("[]"), 0o600))
	require.NoError(t, os.Chmod(private, 0o600))
	s, _ := New(private)
	require.NoError(t, s.Save(context.Background(), sample()))
	fi, err := os.Stat(private)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), fi.Mode().Perm())

	fresh := filepath.Join(dir, "fresh.json")
	s, _ = New(fresh)
	require.NoError(t, s.Save(context.Background(), sample()))
	fi, err = os.Stat(fresh)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o644), fi.Mode().Perm())
}

func TestWithLoggerRecordsSaves(t *testing.T) {
	var buf bytes.Buffer
	logger := applog.New(applog.Config{Level: slog.LevelDebug, Output: &buf})

	s, _ := New(filepath.Join(t.TempDir(), "data.json"), WithLogger(logger))
	require.NoError(t, s.Save(context.Background(), sample()))

	out := buf.String()
	assert.Contains(t, out, "component=storage")
	assert.Contains(t, out, "operation=save")
	assert.Contains(t, out, "count=3")
}

package log

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"ecotrack/internal/core"
)

func TestParseLevel(t *testing.T) {
	cases := []struct {
		in   string
		want slog.Level
		ok   bool
	}{
		{"debug", slog.LevelDebug, true},
		{"INFO", slog.LevelInfo, true},
		{" warn ", slog.LevelWarn, true},
		{"warning", slog.LevelWarn, true},
		{"error", slog.LevelError, true},
		{"verbose", slog.LevelInfo, false},
		{"", slog.LevelInfo, false},
	}
	for _, tc := range cases {
		got, err := ParseLevel(tc.in)
		if tc.ok && (err != nil || got != tc.want) {
			t.Fatalf("ParseLevel(%q) = %v, %v; want %v", tc.in, got, err, tc.want)
		}
		if !tc.ok && err == nil {
			t.Fatalf("ParseLevel(%q) expected error", tc.in)
		}
	}
}

func TestLoggerAddsComponent(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: slog.LevelInfo, Component: ComponentApp, Output: &buf})

	l.WithComponent(ComponentStorage).Info("saved", FieldCount, 3)
	l.Debug("hidden")

	out := buf.String()
	if !strings.Contains(out, "component=storage") || !strings.Contains(out, "count=3") {
		t.Fatalf("missing fields in %q", out)
	}
	if strings.Contains(out, "hidden") {
		t.Fatalf("debug record should be filtered: %q", out)
	}
	if strings.Count(out, "component=") != 1 {
		t.Fatalf("component must appear once: %q", out)
	}
}

func TestLogFields(t *testing.T) {
	f := NewFields().
		WithOperation(OpDelete).
		WithPosition(2).
		WithActivity(core.Activity{Category: "Energy"}).
		WithError(errors.New("boom")).
		WithError(nil)

	if f[FieldOperation] != OpDelete || f[FieldPosition] != 2 || f[FieldCategory] != "Energy" || f[FieldError] != "boom" {
		t.Fatalf("unexpected fields: %v", f)
	}
	if len(f.ToSlice()) != len(f)*2 {
		t.Fatalf("slice length mismatch")
	}
}

func TestWithKeepsComponentAndAttrs(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: slog.LevelInfo, Component: ComponentApp, Output: &buf}).
		With(FieldBackend, "sqlite").
		WithComponent(ComponentShell)

	l.Warn("slow", NewFields().WithOperation(OpSave).WithCount(4).WithErrorType(ErrorTypeStorage).ToSlice()...)

	out := buf.String()
	for _, want := range []string{"backend=sqlite", "component=shell", "operation=save", "count=4", "error_type=storage_error"} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in %q", want, out)
		}
	}
}

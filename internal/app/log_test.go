package app

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestFeedHandler_Handle(t *testing.T) {
	ts := time.Date(2024, 6, 15, 14, 30, 45, 0, time.UTC)

	tests := []struct {
		name    string
		opID    string
		level   slog.Level
		message string
		attrs   []slog.Attr
		want    string
	}{
		{
			name:    "basic info message",
			opID:    "op-123",
			level:   slog.LevelInfo,
			message: "status update posted",
			want:    "2024-06-15T14:30:45Z\tINFO\top-123\tstatus update posted\n",
		},
		{
			name:    "debug level",
			opID:    "op-456",
			level:   slog.LevelDebug,
			message: "document store opened",
			want:    "2024-06-15T14:30:45Z\tDEBUG\top-456\tdocument store opened\n",
		},
		{
			name:    "with record attrs",
			opID:    "op-789",
			level:   slog.LevelInfo,
			message: "request",
			attrs:   []slog.Attr{slog.String("path", "/user/4/feed"), slog.Int("status", 200)},
			want:    "2024-06-15T14:30:45Z\tINFO\top-789\trequest\tpath=/user/4/feed\tstatus=200\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			h := &feedHandler{w: &buf, opID: tt.opID}

			r := slog.NewRecord(ts, tt.level, tt.message, 0)
			for _, a := range tt.attrs {
				r.AddAttrs(a)
			}

			if err := h.Handle(context.Background(), r); err != nil {
				t.Fatalf("Handle() error = %v", err)
			}

			if got := buf.String(); got != tt.want {
				t.Errorf("Handle() output =\n%q\nwant:\n%q", got, tt.want)
			}
		})
	}
}

func TestFeedHandler_WithAttrs(t *testing.T) {
	var buf bytes.Buffer
	h := &feedHandler{w: &buf, opID: "op-1"}

	// Add pre-set attrs
	h2 := h.WithAttrs([]slog.Attr{slog.String("component", "server")}).(*feedHandler)

	ts := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	r := slog.NewRecord(ts, slog.LevelInfo, "listening", 0)
	r.AddAttrs(slog.String("addr", ":3000"))

	if err := h2.Handle(context.Background(), r); err != nil {
		t.Fatalf("Handle() error = %v", err)
	}

	got := buf.String()
	if !strings.Contains(got, "component=server") {
		t.Errorf("expected pre-set attr component=server, got: %q", got)
	}
	if !strings.Contains(got, "addr=:3000") {
		t.Errorf("expected record attr addr=:3000, got: %q", got)
	}
}

func TestFeedHandler_WithAttrs_doesNotMutateOriginal(t *testing.T) {
	var buf bytes.Buffer
	h := &feedHandler{w: &buf, opID: "op-1", attrs: []slog.Attr{slog.String("a", "1")}}

	h2 := h.WithAttrs([]slog.Attr{slog.String("b", "2")}).(*feedHandler)

	if len(h.attrs) != 1 {
		t.Errorf("original handler attrs modified: got %d, want 1", len(h.attrs))
	}
	if len(h2.attrs) != 2 {
		t.Errorf("new handler attrs: got %d, want 2", len(h2.attrs))
	}
}

func TestFeedHandler_Enabled(t *testing.T) {
	h := &feedHandler{level: slog.LevelInfo}

	tests := []struct {
		level slog.Level
		want  bool
	}{
		{slog.LevelDebug, false},
		{slog.LevelInfo, true},
		{slog.LevelWarn, true},
		{slog.LevelError, true},
	}
	for _, tt := range tests {
		if got := h.Enabled(context.Background(), tt.level); got != tt.want {
			t.Errorf("Enabled(%v) = %v, want %v", tt.level, got, tt.want)
		}
	}
}

func TestNewLogger(t *testing.T) {
	dir := t.TempDir()
	var console bytes.Buffer

	logger, f, err := newLogger(dir, "test-op", slog.LevelInfo, &console)
	if err != nil {
		t.Fatalf("newLogger() error = %v", err)
	}

	logger.Debug("hidden")
	logger.Info("shown", "user", 4)
	f.Close()

	data, err := os.ReadFile(filepath.Join(dir, "feed.log"))
	if err != nil {
		t.Fatalf("reading feed.log: %v", err)
	}
	if string(data) != console.String() {
		t.Errorf("file and console differ:\nfile:    %q\nconsole: %q", data, console.String())
	}
	if strings.Contains(string(data), "hidden") {
		t.Errorf("debug line written at info level: %q", data)
	}
	if !strings.Contains(string(data), "\ttest-op\tshown\tuser=4\n") {
		t.Errorf("log line = %q, want opID, message and attrs", data)
	}
}

func TestNewLogger_FileOnly(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "log")

	logger, f, err := newLogger(dir, "op", slog.LevelDebug, nil)
	if err != nil {
		t.Fatalf("newLogger() error = %v", err)
	}
	logger.Debug("debug line")
	f.Close()

	data, err := os.ReadFile(filepath.Join(dir, "feed.log"))
	if err != nil {
		t.Fatalf("reading feed.log: %v", err)
	}
	if !strings.Contains(string(data), "DEBUG\top\tdebug line") {
		t.Errorf("log = %q", data)
	}
}

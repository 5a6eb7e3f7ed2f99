package main

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/medbook/medbook/internal/config"
	"github.com/medbook/medbook/internal/platform/db"
	"github.com/medbook/medbook/internal/platform/docstore"
)

func TestImportThenExport(t *testing.T) {
	store := docstore.New(docstore.NewMemoryBackend(), nil, zerolog.Nop())
	ctx := context.Background()
	input := `{"appointments":[{"id":"1","name":"Ivan","status":"pending","createdAt":"x","room":"12"}],"users":[],"support_tickets":[]}`

	if err := importDocument(ctx, store, []byte(input)); err != nil {
		t.Fatalf("import: %v", err)
	}

	var buf bytes.Buffer
	if err := exportDocument(ctx, store, &buf); err != nil {
		t.Fatalf("export: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, `"room": "12"`) {
		t.Errorf("extra field lost on export: %s", out)
	}
	if strings.Contains(out, `"doctors"`) {
		t.Errorf("import must not add a directory: %s", out)
	}
}

func TestImportRejectsInvalidDocument(t *testing.T) {
	store := docstore.New(docstore.NewMemoryBackend(), nil, zerolog.Nop())
	if err := importDocument(context.Background(), store, []byte(`[1,2,3]`)); err == nil {
		t.Fatal("expected error for non-object document")
	}
}

func TestImportReplacesUnreadableDocument(t *testing.T) {
	backend := docstore.NewMemoryBackendWith([]byte(`{"appointments": [`))
	store := docstore.New(backend, nil, zerolog.Nop())
	ctx := context.Background()

	if err := importDocument(ctx, store, []byte(`{"appointments":[],"users":[],"support_tickets":[]}`)); err != nil {
		t.Fatalf("import: %v", err)
	}
	stored, err := backend.Read(ctx)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if _, err := docstore.Decode(stored); err != nil {
		t.Errorf("expected a readable document after import, got %s", stored)
	}
}

func TestPrintStatus(t *testing.T) {
	applied := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	var buf bytes.Buffer
	printStatus(&buf, []db.MigrationStatus{
		{Version: 1, Name: "001_document_table", Applied: true, AppliedAt: &applied},
		{Version: 2, Name: "002_index"},
	})

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected header, rule and 2 rows, got %d lines", len(lines))
	}
	if !strings.Contains(lines[2], "applied") || !strings.Contains(lines[2], "2024-05-01 09:00:00") {
		t.Errorf("unexpected applied row %q", lines[2])
	}
	if !strings.Contains(lines[3], "pending") {
		t.Errorf("unexpected pending row %q", lines[3])
	}
}

func TestNewLoggerLevel(t *testing.T) {
	cfg := &config.Config{Env: "production", LogLevel: "warn"}
	if got := newLogger(cfg).GetLevel(); got != zerolog.WarnLevel {
		t.Errorf("expected warn, got %s", got)
	}
	cfg.LogLevel = "bogus"
	if got := newLogger(cfg).GetLevel(); got != zerolog.InfoLevel {
		t.Errorf("expected info fallback, got %s", got)
	}
}

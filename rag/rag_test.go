package rag

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"smartTube/core"
)

type fakeStore struct {
	upsertVideoID string
	upsertChunks  []string
	searchVideoID string
	hits          []core.Hit
}

func (f *fakeStore) Upsert(ctx context.Context, videoID string, chunks []string) (int, error) {
	f.upsertVideoID = videoID
	f.upsertChunks = chunks
	return len(chunks), nil
}

func (f *fakeStore) Search(ctx context.Context, videoID, query string, topK int) ([]core.Hit, error) {
	f.searchVideoID = videoID
	return f.hits, nil
}

func TestIngestChunksAndTags(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "vid1.en.vtt")
	text := strings.Repeat("abcdefghij", 250) // 2500 chars
	if err := os.WriteFile(path, []byte(text), 0644); err != nil {
		t.Fatalf("write subtitle fixture: %v", err)
	}

	store := &fakeStore{}
	p := NewPipeline(nil, store, "test-model")

	count, err := p.Ingest(context.Background(), path, "vid1")
	if err != nil {
		t.Fatalf("Ingest failed: %v", err)
	}

	if store.upsertVideoID != "vid1" {
		t.Errorf("chunks tagged with %q, want vid1", store.upsertVideoID)
	}
	// 2500 chars, 1000-char chunks advancing by 800: starts at 0, 800, 1600, 2400
	if count != 4 || len(store.upsertChunks) != 4 {
		t.Errorf("expected 4 chunks, got count=%d stored=%d", count, len(store.upsertChunks))
	}
}

func TestIngestMissingFile(t *testing.T) {
	p := NewPipeline(nil, &fakeStore{}, "test-model")
	if _, err := p.Ingest(context.Background(), "/does/not/exist.vtt", "vid1"); err == nil {
		t.Fatal("expected error for unreadable file")
	}
}

func TestIngestEmptyFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "empty.vtt")
	if err := os.WriteFile(path, nil, 0644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	p := NewPipeline(nil, &fakeStore{}, "test-model")
	if _, err := p.Ingest(context.Background(), path, "vid1"); err == nil {
		t.Fatal("expected error for empty subtitle file")
	}
}

func TestBuildPromptIncludesContextAndQuestion(t *testing.T) {
	hits := []core.Hit{
		{Score: 0.9, Text: "the speaker introduces goroutines"},
		{Score: 0.8, Text: "channels are explained next"},
	}
	prompt := buildPrompt("what are goroutines?", hits)

	if !strings.Contains(prompt, "what are goroutines?") {
		t.Error("prompt must carry the question verbatim")
	}
	for _, h := range hits {
		if !strings.Contains(prompt, h.Text) {
			t.Errorf("prompt missing excerpt %q", h.Text)
		}
	}
}

func TestBuildPromptEmptyContext(t *testing.T) {
	// zero retrieval matches still produce a usable prompt
	prompt := buildPrompt("anything?", nil)
	if !strings.Contains(prompt, "anything?") {
		t.Error("prompt must carry the question even with no excerpts")
	}
}

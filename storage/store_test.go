package storage

import (
	"context"
	"testing"
)

func TestMemoryStoreTagIsolation(t *testing.T) {
	s := NewMemoryVectorStore()
	ctx := context.Background()

	if _, err := s.Upsert(ctx, "vid1", []string{"go concurrency patterns", "channel basics"}); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}

	hits, err := s.Search(ctx, "vid2", "go concurrency", 3)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(hits) != 0 {
		t.Fatalf("query for vid2 leaked %d chunks from vid1", len(hits))
	}

	hits, err = s.Search(ctx, "vid1", "go concurrency", 3)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(hits) == 0 {
		t.Fatal("query for vid1 found nothing")
	}
}

func TestMemoryStoreRanking(t *testing.T) {
	s := NewMemoryVectorStore()
	ctx := context.Background()

	chunks := []string{
		"the video explains garbage collection in detail",
		"an unrelated chunk about cooking pasta",
		"garbage collection pauses and the collector",
	}
	if _, err := s.Upsert(ctx, "vid1", chunks); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}

	hits, err := s.Search(ctx, "vid1", "garbage collection", 2)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(hits) != 2 {
		t.Fatalf("expected 2 hits, got %d", len(hits))
	}
	if hits[0].Score < hits[1].Score {
		t.Error("hits not ordered by descending score")
	}
	for _, h := range hits {
		if h.Text == "an unrelated chunk about cooking pasta" {
			t.Error("unrelated chunk outranked relevant ones")
		}
	}
}

func TestMemoryStoreAppendsOnRepeatIngest(t *testing.T) {
	s := NewMemoryVectorStore()
	ctx := context.Background()

	if _, err := s.Upsert(ctx, "vid1", []string{"first pass"}); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}
	if _, err := s.Upsert(ctx, "vid1", []string{"first pass"}); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}

	// concurrent ingestions of the same video each append; duplicates are
	// a known gap, not silently deduplicated
	hits, err := s.Search(ctx, "vid1", "first pass", 0)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(hits) != 2 {
		t.Fatalf("expected 2 stored chunks after two ingestions, got %d", len(hits))
	}
}

func TestMemoryStoreTopKBounds(t *testing.T) {
	s := NewMemoryVectorStore()
	ctx := context.Background()

	if _, err := s.Upsert(ctx, "vid1", []string{"a", "b", "c"}); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}

	hits, err := s.Search(ctx, "vid1", "a", 10)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(hits) != 3 {
		t.Fatalf("topK larger than corpus should return everything, got %d", len(hits))
	}
}

package rag

import (
	"context"
	"fmt"
	"log"
	"os"

	openai "github.com/sashabaranov/go-openai"

	"smartTube/storage"
)

// Pipeline ingests subtitle text into the vector store and answers
// questions over it. The LLM client is built once at startup and handed in;
// there is no lazy per-call initialization.
type Pipeline struct {
	store     storage.VectorStore
	cli       *openai.Client
	chatModel string
	topK      int
}

func NewPipeline(cli *openai.Client, store storage.VectorStore, chatModel string) *Pipeline {
	return &Pipeline{
		store:     store,
		cli:       cli,
		chatModel: chatModel,
		topK:      3,
	}
}

// Ingest loads the subtitle file, splits it into overlapping chunks tagged
// with videoID and appends them to the shared collection. Any failure is
// surfaced as a single ingestion error; there is no partial retry.
func (p *Pipeline) Ingest(ctx context.Context, path, videoID string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("read subtitles %s: %w", path, err)
	}

	chunks := SplitText(string(data), ChunkSize, ChunkOverlap)
	if len(chunks) == 0 {
		return 0, fmt.Errorf("subtitle file %s is empty", path)
	}

	count, err := p.store.Upsert(ctx, videoID, chunks)
	if err != nil {
		return 0, fmt.Errorf("store chunks for %s: %w", videoID, err)
	}

	log.Printf("ingested %d chunks for video %s", count, videoID)
	return count, nil
}

package storage

import (
	"context"
	"log"
	"math"
	"sort"
	"strings"
	"sync"

	openai "github.com/sashabaranov/go-openai"

	"smartTube/config"
	"smartTube/core"
)

// VectorStore is one shared collection of subtitle chunks. Isolation
// between videos comes from the video ID tag alone: Search must match it
// exactly or context leaks across videos.
type VectorStore interface {
	Upsert(ctx context.Context, videoID string, chunks []string) (int, error)
	Search(ctx context.Context, videoID, query string, topK int) ([]core.Hit, error)
}

// OpenStore selects a backend by cfg.StoreKind. Backends that cannot start
// degrade to the in-memory store with a warning instead of failing startup.
func OpenStore(cfg *config.Config, cli *openai.Client) VectorStore {
	switch cfg.StoreKind {
	case "pgvector":
		if !cfg.HasValidAPI() {
			config.PrintConfigInstructions()
			log.Printf("Warning: API configuration required for pgvector store, falling back to memory store")
			return NewMemoryVectorStore()
		}
		s, err := NewPgVectorStore(cfg.PostgresURL, NewOpenAIEmbedder(cli, cfg.EmbeddingModel))
		if err != nil {
			log.Printf("Warning: failed to initialize pgvector store (%v), falling back to memory store", err)
			return NewMemoryVectorStore()
		}
		return s
	case "milvus":
		if !cfg.HasValidAPI() {
			config.PrintConfigInstructions()
			log.Printf("Warning: API configuration required for Milvus store, falling back to memory store")
			return NewMemoryVectorStore()
		}
		s, err := NewMilvusVectorStore(cfg.MilvusAddr, cfg.MilvusCollection, NewOpenAIEmbedder(cli, cfg.EmbeddingModel))
		if err != nil {
			log.Printf("Warning: failed to initialize Milvus store (%v), falling back to memory store", err)
			return NewMemoryVectorStore()
		}
		return s
	default:
		return NewMemoryVectorStore()
	}
}

// ---------------- Memory implementation (default and fallback) ----------------

type memoryChunk struct {
	Text  string
	Embed map[string]float64 // term -> weight
}

// MemoryVectorStore keys chunks by video ID; the map key is the exact-match
// tag filter. Contents are lost on restart.
type MemoryVectorStore struct {
	mu     sync.RWMutex
	chunks map[string][]memoryChunk
}

func NewMemoryVectorStore() *MemoryVectorStore {
	return &MemoryVectorStore{chunks: map[string][]memoryChunk{}}
}

func (s *MemoryVectorStore) Upsert(ctx context.Context, videoID string, chunks []string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, text := range chunks {
		s.chunks[videoID] = append(s.chunks[videoID], memoryChunk{
			Text:  text,
			Embed: embedTerms(strings.ToLower(text)),
		})
	}
	return len(chunks), nil
}

func (s *MemoryVectorStore) Search(ctx context.Context, videoID, query string, topK int) ([]core.Hit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	docs := s.chunks[videoID]
	qv := embedTerms(strings.ToLower(query))

	type scored struct {
		i     int
		score float64
	}
	scores := make([]scored, 0, len(docs))
	for i, d := range docs {
		scores = append(scores, scored{i, cosine(qv, d.Embed)})
	}
	sort.Slice(scores, func(i, j int) bool { return scores[i].score > scores[j].score })

	if topK <= 0 || topK > len(scores) {
		topK = len(scores)
	}
	hits := make([]core.Hit, 0, topK)
	for _, sc := range scores[:topK] {
		hits = append(hits, core.Hit{Score: sc.score, Text: docs[sc.i].Text})
	}
	return hits, nil
}

// embedTerms builds a normalized term-frequency vector. Good enough for the
// fallback store; the persistent backends use real embeddings.
func embedTerms(text string) map[string]float64 {
	m := map[string]float64{}
	for _, tok := range strings.Fields(text) {
		m[tok]++
	}
	var sum float64
	for _, v := range m {
		sum += v * v
	}
	if sum == 0 {
		return m
	}
	norm := math.Sqrt(sum)
	for k, v := range m {
		m[k] = v / norm
	}
	return m
}

func cosine(a, b map[string]float64) float64 {
	var dot float64
	for k, va := range a {
		if vb, ok := b[k]; ok {
			dot += va * vb
		}
	}
	return dot
}

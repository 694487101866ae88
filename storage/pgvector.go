package storage

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pgvector/pgvector-go"

	"smartTube/core"
)

// PgVectorStore keeps subtitle chunks in a single pgvector-backed table.
type PgVectorStore struct {
	conn *pgx.Conn
	emb  *OpenAIEmbedder
}

func NewPgVectorStore(dbURL string, emb *OpenAIEmbedder) (*PgVectorStore, error) {
	ctx := context.Background()
	conn, err := pgx.Connect(ctx, dbURL)
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}
	if err := conn.Ping(ctx); err != nil {
		conn.Close(ctx)
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	s := &PgVectorStore{conn: conn, emb: emb}
	if err := s.ensureTable(ctx); err != nil {
		conn.Close(ctx)
		return nil, err
	}
	return s, nil
}

func (s *PgVectorStore) ensureTable(ctx context.Context) error {
	if _, err := s.conn.Exec(ctx, "CREATE EXTENSION IF NOT EXISTS vector;"); err != nil {
		return fmt.Errorf("failed to create vector extension: %w", err)
	}

	query := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS subtitle_chunks (
			id SERIAL PRIMARY KEY,
			video_id VARCHAR(255) NOT NULL,
			chunk_id VARCHAR(64) NOT NULL,
			text TEXT NOT NULL,
			embedding vector(%d),
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			UNIQUE(video_id, chunk_id)
		);
	`, embeddingDim)
	if _, err := s.conn.Exec(ctx, query); err != nil {
		return fmt.Errorf("failed to create subtitle_chunks table: %w", err)
	}

	indexQuery := `CREATE INDEX IF NOT EXISTS idx_subtitle_chunks_video ON subtitle_chunks(video_id);`
	if _, err := s.conn.Exec(ctx, indexQuery); err != nil {
		return fmt.Errorf("failed to create video_id index: %w", err)
	}
	return nil
}

func (s *PgVectorStore) Upsert(ctx context.Context, videoID string, chunks []string) (int, error) {
	count := 0
	for _, text := range chunks {
		vec, err := s.emb.Embed(ctx, text)
		if err != nil {
			return count, fmt.Errorf("embed chunk: %w", err)
		}
		_, err = s.conn.Exec(ctx,
			`INSERT INTO subtitle_chunks (video_id, chunk_id, text, embedding) VALUES ($1, $2, $3, $4)`,
			videoID, uuid.NewString(), text, pgvector.NewVector(vec))
		if err != nil {
			return count, fmt.Errorf("insert chunk: %w", err)
		}
		count++
	}
	return count, nil
}

func (s *PgVectorStore) Search(ctx context.Context, videoID, query string, topK int) ([]core.Hit, error) {
	if topK <= 0 {
		topK = 3
	}
	vec, err := s.emb.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	rows, err := s.conn.Query(ctx, `
		SELECT text, 1 - (embedding <=> $2) AS score
		FROM subtitle_chunks
		WHERE video_id = $1
		ORDER BY embedding <=> $2
		LIMIT $3`,
		videoID, pgvector.NewVector(vec), topK)
	if err != nil {
		return nil, fmt.Errorf("search chunks: %w", err)
	}
	defer rows.Close()

	var hits []core.Hit
	for rows.Next() {
		var h core.Hit
		if err := rows.Scan(&h.Text, &h.Score); err != nil {
			return nil, fmt.Errorf("scan hit: %w", err)
		}
		hits = append(hits, h)
	}
	return hits, rows.Err()
}

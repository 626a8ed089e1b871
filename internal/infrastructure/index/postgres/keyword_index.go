package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/kirillkom/rag-strategy-lab/internal/core/domain"
)

// KeywordIndex runs lexical search over the prebuilt chunks table using
// Postgres full-text ranking. The table is populated by the offline
// indexing job; this side only reads.
type KeywordIndex struct {
	db *sql.DB
}

func NewKeywordIndex(db *sql.DB) *KeywordIndex {
	return &KeywordIndex{db: db}
}

func OpenDB(dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("sql open: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("db ping: %w", err)
	}
	return db, nil
}

func (r *KeywordIndex) Search(ctx context.Context, queryText string, limit int) ([]domain.RetrievedChunk, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT chunk_id, doc_id, text, ts_rank(tsv, plainto_tsquery('simple', $1)) AS rank
FROM chunks
WHERE tsv @@ plainto_tsquery('simple', $1)
ORDER BY rank DESC, chunk_id
LIMIT $2
`, queryText, limit)
	if err != nil {
		return nil, fmt.Errorf("keyword search: %w", err)
	}
	defer rows.Close()

	var out []domain.RetrievedChunk
	for rows.Next() {
		var chunk domain.RetrievedChunk
		if err := rows.Scan(&chunk.ChunkID, &chunk.DocumentID, &chunk.Text, &chunk.Score); err != nil {
			return nil, fmt.Errorf("scan keyword row: %w", err)
		}
		out = append(out, chunk)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("keyword rows: %w", err)
	}
	return out, nil
}

func (r *KeywordIndex) FetchChunk(ctx context.Context, chunkID string) (string, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT text
FROM chunks
WHERE chunk_id = $1
`, chunkID)

	var text string
	if err := row.Scan(&text); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", fmt.Errorf("chunk %s: %w", chunkID, domain.ErrInvalidInput)
		}
		return "", fmt.Errorf("fetch chunk: %w", err)
	}
	return text, nil
}

package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/octobees/sentiment-dashboard/internal/entity"
	"github.com/octobees/sentiment-dashboard/internal/store"
)

// pgxQuerier is the subset of *pgxpool.Pool the repository relies on.
type pgxQuerier interface {
	QueryRow(ctx context.Context, query string, args ...any) pgx.Row
	Query(ctx context.Context, query string, args ...any) (pgx.Rows, error)
}

var _ pgxQuerier = (*pgxpool.Pool)(nil)

const (
	answersVersionQuery = `SELECT MAX(updated_at), COUNT(*),
		COALESCE(SUM(hashtext(seq::text || ':' || updated_at::text)::bigint), 0)
		FROM answers`
	answersLoadQuery = `SELECT seq, payload FROM answers ORDER BY seq`
)

// PGXAnswersRepository reads the answer set from the answers table. Each row
// carries one answer document in its payload column.
type PGXAnswersRepository struct {
	pool pgxQuerier
}

// NewPGXAnswersRepository wires a pgx backed answer source.
func NewPGXAnswersRepository(pool *pgxpool.Pool) *PGXAnswersRepository {
	return &PGXAnswersRepository{pool: pool}
}

var _ store.Source = (*PGXAnswersRepository)(nil)

// Name implements store.Source.
func (r *PGXAnswersRepository) Name() string {
	return "postgres:answers"
}

// Version reports the newest updated_at in the table, tagged with the row
// count and a checksum over (seq, updated_at). Deleting a row, or writing one
// with an older updated_at, changes the tag even when the newest time stays
// put. An empty table reports the zero time.
func (r *PGXAnswersRepository) Version(ctx context.Context) (store.Version, error) {
	var (
		latest   sql.NullTime
		count    int64
		checksum int64
	)
	err := r.pool.QueryRow(ctx, answersVersionQuery).Scan(&latest, &count, &checksum)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return store.Version{}, fmt.Errorf("%w: query answers version: %w", store.ErrSourceUnavailable, err)
	}
	v := store.Version{Tag: fmt.Sprintf("%d:%d", count, checksum)}
	if latest.Valid {
		v.ModTime = latest.Time.UTC()
	}
	return v, nil
}

// Load decodes every payload in seq order.
func (r *PGXAnswersRepository) Load(ctx context.Context) ([]entity.Answer, error) {
	rows, err := r.pool.Query(ctx, answersLoadQuery)
	if err != nil {
		return nil, fmt.Errorf("%w: query answers: %w", store.ErrSourceUnavailable, err)
	}
	defer rows.Close()

	answers := make([]entity.Answer, 0)
	for rows.Next() {
		var (
			seq     int64
			payload []byte
		)
		if err := rows.Scan(&seq, &payload); err != nil {
			return nil, fmt.Errorf("%w: scan answer row: %w", store.ErrSourceUnavailable, err)
		}
		var answer entity.Answer
		if err := json.Unmarshal(payload, &answer); err != nil {
			return nil, fmt.Errorf("%w: decode answer seq %d: %w", store.ErrSourceCorrupt, seq, err)
		}
		answers = append(answers, answer)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterate answers: %w", store.ErrSourceUnavailable, err)
	}
	return answers, nil
}

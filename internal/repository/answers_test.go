package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/octobees/sentiment-dashboard/internal/store"
)

type stubPool struct {
	queryRowFunc func(ctx context.Context, query string, args ...any) pgx.Row
	queryFunc    func(ctx context.Context, query string, args ...any) (pgx.Rows, error)
}

func (s *stubPool) QueryRow(ctx context.Context, query string, args ...any) pgx.Row {
	if s.queryRowFunc != nil {
		return s.queryRowFunc(ctx, query, args...)
	}
	return &stubRow{scan: func(dest ...any) error { return nil }}
}

func (s *stubPool) Query(ctx context.Context, query string, args ...any) (pgx.Rows, error) {
	if s.queryFunc != nil {
		return s.queryFunc(ctx, query, args...)
	}
	return nil, errors.New("query not implemented")
}

type stubRow struct {
	scan func(dest ...any) error
}

func (s *stubRow) Scan(dest ...any) error {
	if s.scan != nil {
		return s.scan(dest...)
	}
	return nil
}

type stubRows struct {
	scans  []func(dest ...any) error
	idx    int
	err    error
	closed bool
}

func (s *stubRows) Close() { s.closed = true }

func (s *stubRows) Err() error { return s.err }

func (s *stubRows) CommandTag() pgconn.CommandTag { return pgconn.CommandTag{} }

func (s *stubRows) FieldDescriptions() []pgconn.FieldDescription { return nil }

func (s *stubRows) Next() bool {
	if s.idx < len(s.scans) {
		s.idx++
		return true
	}
	return false
}

func (s *stubRows) Scan(dest ...any) error {
	if s.idx == 0 || s.idx > len(s.scans) {
		return errors.New("scan called out of order")
	}
	return s.scans[s.idx-1](dest...)
}

func (s *stubRows) Values() ([]any, error) { return nil, nil }

func (s *stubRows) RawValues() [][]byte { return nil }

func (s *stubRows) Conn() *pgx.Conn { return nil }

func payloadRow(seq int64, payload string) func(dest ...any) error {
	return func(dest ...any) error {
		*dest[0].(*int64) = seq
		*dest[1].(*[]byte) = []byte(payload)
		return nil
	}
}

func versionRow(latest sql.NullTime, count, checksum int64) func(dest ...any) error {
	return func(dest ...any) error {
		*dest[0].(*sql.NullTime) = latest
		*dest[1].(*int64) = count
		*dest[2].(*int64) = checksum
		return nil
	}
}

func TestPGXAnswersRepository_Version(t *testing.T) {
	updated := time.Date(2024, 3, 1, 12, 0, 0, 0, time.FixedZone("EET", 2*3600))
	repo := &PGXAnswersRepository{pool: &stubPool{
		queryRowFunc: func(ctx context.Context, query string, args ...any) pgx.Row {
			if !strings.Contains(query, "MAX(updated_at)") || !strings.Contains(query, "COUNT(*)") {
				t.Fatalf("unexpected query: %s", query)
			}
			return &stubRow{scan: versionRow(sql.NullTime{Time: updated, Valid: true}, 3, 99)}
		},
	}}

	got, err := repo.Version(context.Background())
	if err != nil {
		t.Fatalf("Version returned error: %v", err)
	}
	if !got.ModTime.Equal(updated) || got.ModTime.Location() != time.UTC {
		t.Fatalf("expected %v in UTC, got %v", updated, got.ModTime)
	}
	if got.Tag != "3:99" {
		t.Fatalf("expected tag 3:99, got %q", got.Tag)
	}
}

func TestPGXAnswersRepository_VersionChangesWhenRowDeleted(t *testing.T) {
	updated := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	count, checksum := int64(5), int64(1234)
	repo := &PGXAnswersRepository{pool: &stubPool{
		queryRowFunc: func(ctx context.Context, query string, args ...any) pgx.Row {
			return &stubRow{scan: versionRow(sql.NullTime{Time: updated, Valid: true}, count, checksum)}
		},
	}}

	before, err := repo.Version(context.Background())
	if err != nil {
		t.Fatalf("Version returned error: %v", err)
	}
	// An older row goes away; the newest updated_at is unchanged.
	count, checksum = 4, 1000
	after, err := repo.Version(context.Background())
	if err != nil {
		t.Fatalf("Version returned error: %v", err)
	}
	if !before.ModTime.Equal(after.ModTime) {
		t.Fatalf("expected same newest time, got %v and %v", before.ModTime, after.ModTime)
	}
	if before.Equal(after) {
		t.Fatalf("expected versions to differ after a delete, both were %+v", before)
	}
}

func TestPGXAnswersRepository_VersionEmptyTable(t *testing.T) {
	repo := &PGXAnswersRepository{pool: &stubPool{}}
	got, err := repo.Version(context.Background())
	if err != nil {
		t.Fatalf("Version returned error: %v", err)
	}
	if !got.ModTime.IsZero() {
		t.Fatalf("expected zero time for empty table, got %v", got.ModTime)
	}
}

func TestPGXAnswersRepository_VersionError(t *testing.T) {
	repo := &PGXAnswersRepository{pool: &stubPool{
		queryRowFunc: func(ctx context.Context, query string, args ...any) pgx.Row {
			return &stubRow{scan: func(dest ...any) error { return errors.New("connection refused") }}
		},
	}}
	if _, err := repo.Version(context.Background()); !errors.Is(err, store.ErrSourceUnavailable) {
		t.Fatalf("expected ErrSourceUnavailable, got %v", err)
	}
}

func TestPGXAnswersRepository_Load(t *testing.T) {
	rows := &stubRows{scans: []func(dest ...any) error{
		payloadRow(1, `{"id":"a1","value":80,"created":"2024-01-01T00:00:00.000Z","user":"u1","company":{"isin":"A","title":"Alpha"}}`),
		payloadRow(2, `{"id":"a2","value":60,"created":"2024-01-02T00:00:00.000Z","skip":true,"user":"u2","company":{"isin":"B","title":"Beta"}}`),
	}}
	repo := &PGXAnswersRepository{pool: &stubPool{
		queryFunc: func(ctx context.Context, query string, args ...any) (pgx.Rows, error) {
			if !strings.Contains(query, "ORDER BY seq") {
				t.Fatalf("expected rows ordered by seq, got %s", query)
			}
			return rows, nil
		},
	}}

	answers, err := repo.Load(context.Background())
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if len(answers) != 2 {
		t.Fatalf("expected 2 answers, got %d", len(answers))
	}
	if answers[0].ID != "a1" || answers[1].ID != "a2" {
		t.Fatalf("unexpected order: %s, %s", answers[0].ID, answers[1].ID)
	}
	if !answers[1].Skip || answers[1].Company.Title != "Beta" {
		t.Fatalf("unexpected decoded answer: %+v", answers[1])
	}
	if !rows.closed {
		t.Fatalf("expected rows to be closed")
	}
}

func TestPGXAnswersRepository_LoadErrors(t *testing.T) {
	repo := &PGXAnswersRepository{pool: &stubPool{}}
	if _, err := repo.Load(context.Background()); !errors.Is(err, store.ErrSourceUnavailable) {
		t.Fatalf("expected ErrSourceUnavailable for query failure, got %v", err)
	}

	repo = &PGXAnswersRepository{pool: &stubPool{
		queryFunc: func(ctx context.Context, query string, args ...any) (pgx.Rows, error) {
			return &stubRows{scans: []func(dest ...any) error{payloadRow(7, `{"id":`)}}, nil
		},
	}}
	_, err := repo.Load(context.Background())
	if !errors.Is(err, store.ErrSourceCorrupt) {
		t.Fatalf("expected ErrSourceCorrupt for bad payload, got %v", err)
	}
	if !strings.Contains(err.Error(), "seq 7") {
		t.Fatalf("expected error to name the row, got %v", err)
	}

	repo = &PGXAnswersRepository{pool: &stubPool{
		queryFunc: func(ctx context.Context, query string, args ...any) (pgx.Rows, error) {
			return &stubRows{err: errors.New("conn closed")}, nil
		},
	}}
	if _, err := repo.Load(context.Background()); !errors.Is(err, store.ErrSourceUnavailable) {
		t.Fatalf("expected ErrSourceUnavailable for iteration failure, got %v", err)
	}
}

// Package store keeps the in-memory answer snapshot. The snapshot is rebuilt
// only when the backing source reports a new version and is
// published with an atomic pointer swap, so readers never see a partially
// loaded dataset.
package store

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/octobees/sentiment-dashboard/internal/entity"
	"github.com/octobees/sentiment-dashboard/internal/metrics"
)

var (
	// ErrSourceUnavailable means the backing source could not be read.
	ErrSourceUnavailable = errors.New("answer source unavailable")
	// ErrSourceCorrupt means the backing source was read but did not hold a
	// valid answer set.
	ErrSourceCorrupt = errors.New("answer source corrupt")
)

// Version identifies the content of a source. ModTime is when the content
// last changed; Tag carries whatever else the source needs to notice changes
// that leave ModTime alone, such as a file size or a row count.
type Version struct {
	ModTime time.Time
	Tag     string
}

// Equal reports whether v and o describe the same content.
func (v Version) Equal(o Version) bool {
	return v.ModTime.Equal(o.ModTime) && v.Tag == o.Tag
}

func (v Version) key() string {
	return v.ModTime.UTC().Format(time.RFC3339Nano) + "|" + v.Tag
}

// Source is a read-only provider of the full answer set.
type Source interface {
	// Name identifies the source in logs.
	Name() string
	// Version reports the current content version.
	Version(ctx context.Context) (Version, error)
	// Load returns every answer in natural order.
	Load(ctx context.Context) ([]entity.Answer, error)
}

// Snapshot is an immutable view of the dataset. Callers must not modify
// Answers.
type Snapshot struct {
	Answers  []entity.Answer
	Version  Version
	LoadedAt time.Time
}

// Store memoizes the parsed source keyed by its version.
type Store struct {
	source  Source
	log     zerolog.Logger
	metrics *metrics.Metrics
	now     func() time.Time
	timeout time.Duration

	current atomic.Pointer[Snapshot]
	loads   singleflight.Group
}

// Option customises a Store.
type Option func(*Store)

// WithLogger attaches a logger for reload events.
func WithLogger(log zerolog.Logger) Option {
	return func(s *Store) { s.log = log }
}

// WithMetrics records reloads and failures.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Store) { s.metrics = m }
}

// WithSourceTimeout bounds each stat and reload of the source.
func WithSourceTimeout(d time.Duration) Option {
	return func(s *Store) { s.timeout = d }
}

// New creates a store over source. Nothing is read until Load is called.
func New(source Source, opts ...Option) *Store {
	s := &Store{
		source: source,
		log:    zerolog.Nop(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Current returns the last published snapshot without touching the source.
func (s *Store) Current() *Snapshot {
	return s.current.Load()
}

// Load returns the snapshot for the source's current version, reparsing the
// source only when that version differs from the cached one. Concurrent
// callers observing the same new version share a single reparse. The reparse
// is detached from the caller that started it, so one caller giving up does
// not fail the others; each caller still stops waiting when its own ctx ends.
func (s *Store) Load(ctx context.Context) (*Snapshot, error) {
	statCtx := ctx
	if s.timeout > 0 {
		var cancel context.CancelFunc
		statCtx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	version, err := s.source.Version(statCtx)
	if err != nil {
		return nil, s.fail(classify(err, ErrSourceUnavailable), "stat")
	}

	if snap := s.current.Load(); snap != nil && snap.Version.Equal(version) {
		return snap, nil
	}

	ch := s.loads.DoChan(version.key(), func() (any, error) {
		if snap := s.current.Load(); snap != nil && snap.Version.Equal(version) {
			return snap, nil
		}
		reloadCtx := context.WithoutCancel(ctx)
		if s.timeout > 0 {
			var cancel context.CancelFunc
			reloadCtx, cancel = context.WithTimeout(reloadCtx, s.timeout)
			defer cancel()
		}
		return s.reload(reloadCtx, version)
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*Snapshot), nil
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: %w", ErrSourceUnavailable, ctx.Err())
	}
}

func (s *Store) reload(ctx context.Context, version Version) (*Snapshot, error) {
	started := s.now()
	answers, err := s.source.Load(ctx)
	if err != nil {
		return nil, s.fail(classify(err, ErrSourceUnavailable), "load")
	}
	if err := Validate(answers); err != nil {
		return nil, s.fail(err, "validate")
	}

	snap := &Snapshot{Answers: answers, Version: version, LoadedAt: s.now()}
	s.current.Store(snap)

	if s.metrics != nil {
		s.metrics.StoreReloads.Inc()
		s.metrics.StoreRecords.Set(float64(len(answers)))
	}
	s.log.Info().
		Str("source", s.source.Name()).
		Int("answers", len(answers)).
		Time("mod_time", version.ModTime).
		Str("version_tag", version.Tag).
		Dur("took", s.now().Sub(started)).
		Msg("answer snapshot loaded")

	return snap, nil
}

func (s *Store) fail(err error, stage string) error {
	kind := "unavailable"
	if errors.Is(err, ErrSourceCorrupt) {
		kind = "corrupt"
	}
	if s.metrics != nil {
		s.metrics.StoreFailures.WithLabelValues(kind).Inc()
	}
	s.log.Error().Err(err).Str("source", s.source.Name()).Str("stage", stage).Msg("answer snapshot load failed")
	return err
}

// classify makes sure err carries one of the store sentinels.
func classify(err error, fallback error) error {
	if errors.Is(err, ErrSourceUnavailable) || errors.Is(err, ErrSourceCorrupt) {
		return err
	}
	return fmt.Errorf("%w: %w", fallback, err)
}

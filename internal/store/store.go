// Package store provides typed access to named tabular tables behind a
// pluggable driver. Row numbers are 1-based and include the header row, so a
// record read from the store can later be updated or deleted in place.
package store

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// RowUpdate addresses one full-row replacement.
type RowUpdate struct {
	Row   int
	Cells []string
}

// Driver is the transport behind a Store. ReadAll returns every row including
// the header at index 0 (row number 1). Mutations are atomic per call: no
// partial row is ever visible to a subsequent read.
type Driver interface {
	EnsureTable(ctx context.Context, table string, header []string) error
	ReadAll(ctx context.Context, table string) ([][]string, error)
	Append(ctx context.Context, table string, cells []string) error
	UpdateRow(ctx context.Context, table string, row int, cells []string) error
	DeleteRow(ctx context.Context, table string, row int) error
	BatchUpdateRows(ctx context.Context, table string, updates []RowUpdate) error
	BatchDeleteRows(ctx context.Context, table string, rows []int) error
}

const defaultCacheTTL = 5 * time.Second

type cacheEntry struct {
	rows    [][]string
	fetched time.Time
}

// Store wraps a Driver with a short-TTL per-table read cache. Every mutation
// committed through the Store invalidates the affected table, so a caller
// always reads its own writes; writes by other processes may be stale by up
// to one TTL.
type Store struct {
	drv    Driver
	tables Tables
	ttl    time.Duration
	log    *zap.Logger

	mu    sync.Mutex
	cache map[string]cacheEntry
}

type Option func(*Store)

// WithCacheTTL overrides the default 5s read-cache TTL.
func WithCacheTTL(ttl time.Duration) Option {
	return func(s *Store) { s.ttl = ttl }
}

func New(drv Driver, tables Tables, log *zap.Logger, opts ...Option) *Store {
	s := &Store{
		drv:    drv,
		tables: tables,
		ttl:    defaultCacheTTL,
		log:    log,
		cache:  make(map[string]cacheEntry),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Bootstrap creates every configured table with its canonical header if it
// does not exist yet.
func (s *Store) Bootstrap(ctx context.Context) error {
	for table, header := range map[string][]string{
		s.tables.Trades:    tradeCanonicalHeader,
		s.tables.Positions: positionCanonicalHeader,
		s.tables.Movements: movementCanonicalHeader,
		s.tables.FifoLog:   fifoCanonicalHeader,
		s.tables.Analytics: analyticsCanonicalHeader,
		s.tables.Balances:  balanceCanonicalHeader,
		s.tables.Status:    statusCanonicalHeader,
	} {
		if err := s.drv.EnsureTable(ctx, table, header); err != nil {
			return errors.Wrapf(err, "ensure table %s", table)
		}
	}
	return nil
}

// Invalidate drops the cached read of a table. Exposed so collaborators that
// mutate tables out of band can force a fresh read.
func (s *Store) Invalidate(table string) {
	s.mu.Lock()
	delete(s.cache, table)
	s.mu.Unlock()
}

func (s *Store) readAll(ctx context.Context, table string) ([][]string, error) {
	s.mu.Lock()
	if e, ok := s.cache[table]; ok && time.Since(e.fetched) < s.ttl {
		rows := e.rows
		s.mu.Unlock()
		return rows, nil
	}
	s.mu.Unlock()

	rows, err := s.drv.ReadAll(ctx, table)
	if err != nil {
		return nil, errors.Wrapf(err, "read table %s", table)
	}

	s.mu.Lock()
	s.cache[table] = cacheEntry{rows: rows, fetched: time.Now()}
	s.mu.Unlock()
	return rows, nil
}

func (s *Store) append(ctx context.Context, table string, cells []string) error {
	if err := s.drv.Append(ctx, table, cells); err != nil {
		return errors.Wrapf(err, "append to table %s", table)
	}
	s.Invalidate(table)
	return nil
}

func (s *Store) updateRow(ctx context.Context, table string, row int, cells []string) error {
	if err := s.drv.UpdateRow(ctx, table, row, cells); err != nil {
		return errors.Wrapf(err, "update row %d of table %s", row, table)
	}
	s.Invalidate(table)
	return nil
}

func (s *Store) deleteRow(ctx context.Context, table string, row int) error {
	if err := s.drv.DeleteRow(ctx, table, row); err != nil {
		return errors.Wrapf(err, "delete row %d of table %s", row, table)
	}
	s.Invalidate(table)
	return nil
}

func (s *Store) batchUpdateRows(ctx context.Context, table string, updates []RowUpdate) error {
	if len(updates) == 0 {
		return nil
	}
	if err := s.drv.BatchUpdateRows(ctx, table, updates); err != nil {
		return errors.Wrapf(err, "batch update %d rows of table %s", len(updates), table)
	}
	s.Invalidate(table)
	return nil
}

// header reads and parses the header row of a table.
func (s *Store) header(ctx context.Context, table string, aliases map[string][]string, required []string) (header, [][]string, error) {
	rows, err := s.readAll(ctx, table)
	if err != nil {
		return header{}, nil, err
	}
	if len(rows) == 0 {
		return header{}, nil, errors.Errorf("table %s has no header row", table)
	}
	h, err := buildHeader(rows[0], aliases, required)
	if err != nil {
		return header{}, nil, errors.Wrapf(err, "table %s", table)
	}
	return h, rows, nil
}

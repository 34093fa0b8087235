package store

import (
	"context"
	"sort"
	"sync"

	"github.com/pkg/errors"
)

// Memory is an in-process Driver used in tests and ephemeral runs. It mimics
// sheet semantics: deleting a row shifts every following row up by one.
type Memory struct {
	mu     sync.Mutex
	tables map[string][][]string
}

func NewMemory() *Memory {
	return &Memory{tables: make(map[string][][]string)}
}

func (m *Memory) EnsureTable(_ context.Context, table string, header []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.tables[table]; !ok {
		m.tables[table] = [][]string{append([]string(nil), header...)}
	}
	return nil
}

func (m *Memory) ReadAll(_ context.Context, table string) ([][]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rows, ok := m.tables[table]
	if !ok {
		return nil, errors.Errorf("unknown table %s", table)
	}
	out := make([][]string, len(rows))
	for i, r := range rows {
		out[i] = append([]string(nil), r...)
	}
	return out, nil
}

func (m *Memory) Append(_ context.Context, table string, cells []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	rows, ok := m.tables[table]
	if !ok {
		return errors.Errorf("unknown table %s", table)
	}
	m.tables[table] = append(rows, append([]string(nil), cells...))
	return nil
}

func (m *Memory) UpdateRow(_ context.Context, table string, row int, cells []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.updateLocked(table, row, cells)
}

func (m *Memory) DeleteRow(_ context.Context, table string, row int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.deleteLocked(table, row)
}

func (m *Memory) BatchUpdateRows(_ context.Context, table string, updates []RowUpdate) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range updates {
		if err := m.updateLocked(table, u.Row, u.Cells); err != nil {
			return err
		}
	}
	return nil
}

func (m *Memory) BatchDeleteRows(_ context.Context, table string, rows []int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	// bottom-up so earlier deletions do not shift later targets
	sorted := append([]int(nil), rows...)
	sort.Sort(sort.Reverse(sort.IntSlice(sorted)))
	for _, row := range sorted {
		if err := m.deleteLocked(table, row); err != nil {
			return err
		}
	}
	return nil
}

func (m *Memory) updateLocked(table string, row int, cells []string) error {
	rows, ok := m.tables[table]
	if !ok {
		return errors.Errorf("unknown table %s", table)
	}
	if row < 2 || row > len(rows) {
		return errors.Errorf("row %d out of range for table %s", row, table)
	}
	rows[row-1] = append([]string(nil), cells...)
	return nil
}

func (m *Memory) deleteLocked(table string, row int) error {
	rows, ok := m.tables[table]
	if !ok {
		return errors.Errorf("unknown table %s", table)
	}
	if row < 2 || row > len(rows) {
		return errors.Errorf("row %d out of range for table %s", row, table)
	}
	m.tables[table] = append(rows[:row-1], rows[row:]...)
	return nil
}

package store

import (
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"sort"

	"github.com/pkg/errors"
)

// CSVDir is a Driver persisting each table as <dir>/<table>.csv with the
// header on the first line. Mutations rewrite the file through a temp-file
// rename, so a reader never observes a partial row.
type CSVDir struct {
	dir string
}

func NewCSVDir(dir string) (*CSVDir, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrapf(err, "create data dir %s", dir)
	}
	return &CSVDir{dir: dir}, nil
}

func (c *CSVDir) path(table string) string {
	return filepath.Join(c.dir, table+".csv")
}

func (c *CSVDir) EnsureTable(_ context.Context, table string, header []string) error {
	p := c.path(table)
	if _, err := os.Stat(p); err == nil {
		return nil
	}
	return c.writeAll(table, [][]string{header})
}

func (c *CSVDir) ReadAll(_ context.Context, table string) ([][]string, error) {
	f, err := os.Open(c.path(table))
	if err != nil {
		return nil, errors.Wrapf(err, "open table %s", table)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	if err != nil {
		return nil, errors.Wrapf(err, "read table %s", table)
	}
	return rows, nil
}

func (c *CSVDir) Append(ctx context.Context, table string, cells []string) error {
	f, err := os.OpenFile(c.path(table), os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return errors.Wrapf(err, "open table %s", table)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(cells); err != nil {
		return errors.Wrapf(err, "append to table %s", table)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return errors.Wrapf(err, "flush table %s", table)
	}
	return f.Sync()
}

func (c *CSVDir) UpdateRow(ctx context.Context, table string, row int, cells []string) error {
	return c.BatchUpdateRows(ctx, table, []RowUpdate{{Row: row, Cells: cells}})
}

func (c *CSVDir) DeleteRow(ctx context.Context, table string, row int) error {
	return c.BatchDeleteRows(ctx, table, []int{row})
}

func (c *CSVDir) BatchUpdateRows(ctx context.Context, table string, updates []RowUpdate) error {
	rows, err := c.ReadAll(ctx, table)
	if err != nil {
		return err
	}
	for _, u := range updates {
		if u.Row < 2 || u.Row > len(rows) {
			return errors.Errorf("row %d out of range for table %s", u.Row, table)
		}
		rows[u.Row-1] = u.Cells
	}
	return c.writeAll(table, rows)
}

func (c *CSVDir) BatchDeleteRows(ctx context.Context, table string, rowNums []int) error {
	rows, err := c.ReadAll(ctx, table)
	if err != nil {
		return err
	}
	sorted := append([]int(nil), rowNums...)
	sort.Sort(sort.Reverse(sort.IntSlice(sorted)))
	for _, row := range sorted {
		if row < 2 || row > len(rows) {
			return errors.Errorf("row %d out of range for table %s", row, table)
		}
		rows = append(rows[:row-1], rows[row:]...)
	}
	return c.writeAll(table, rows)
}

func (c *CSVDir) writeAll(table string, rows [][]string) error {
	tmp, err := os.CreateTemp(c.dir, table+".*.tmp")
	if err != nil {
		return errors.Wrapf(err, "create temp for table %s", table)
	}
	defer os.Remove(tmp.Name())

	w := csv.NewWriter(tmp)
	if err := w.WriteAll(rows); err != nil {
		tmp.Close()
		return errors.Wrapf(err, "write table %s", table)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return errors.Wrapf(err, "sync table %s", table)
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrapf(err, "close table %s", table)
	}
	return os.Rename(tmp.Name(), c.path(table))
}

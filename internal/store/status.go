package store

import (
	"context"

	"github.com/vadiminshakov/tradebook/internal/entity"
)

var statusCanonicalHeader = []string{"status", "last_run_timestamp", "message"}

var statusAliases = map[string][]string{
	"status":             {"status", "state"},
	"last_run_timestamp": {"last_run_timestamp", "last_run", "last run"},
	"message":            {"message", "details", "error"},
}

var statusRequired = []string{"status", "last_run_timestamp"}

func encodeStatus(h header, st entity.SystemStatus) []string {
	row := make([]string, h.size())
	h.put(row, "status", string(st.Status))
	h.put(row, "last_run_timestamp", FormatTime(st.LastRun))
	h.put(row, "message", st.Message)
	return row
}

// SystemStatus reads the single status row, or a zero record when none exists.
func (s *Store) SystemStatus(ctx context.Context) (entity.SystemStatus, error) {
	h, rows, err := s.header(ctx, s.tables.Status, statusAliases, statusRequired)
	if err != nil {
		return entity.SystemStatus{}, err
	}
	for i := 1; i < len(rows); i++ {
		if emptyRow(rows[i]) {
			continue
		}
		st := entity.SystemStatus{Row: i + 1}
		st.Status = entity.StatusCode(h.get(rows[i], "status"))
		if v := h.get(rows[i], "last_run_timestamp"); v != "" {
			if st.LastRun, err = ParseTime(v); err != nil {
				return entity.SystemStatus{}, err
			}
		}
		st.Message = h.get(rows[i], "message")
		return st, nil
	}
	return entity.SystemStatus{}, nil
}

// WriteSystemStatus upserts the single status row.
func (s *Store) WriteSystemStatus(ctx context.Context, st entity.SystemStatus) error {
	h, _, err := s.header(ctx, s.tables.Status, statusAliases, statusRequired)
	if err != nil {
		return err
	}
	current, err := s.SystemStatus(ctx)
	if err != nil {
		return err
	}
	if current.Row == 0 {
		return s.append(ctx, s.tables.Status, encodeStatus(h, st))
	}
	return s.updateRow(ctx, s.tables.Status, current.Row, encodeStatus(h, st))
}

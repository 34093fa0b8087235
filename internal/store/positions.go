package store

import (
	"context"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/vadiminshakov/tradebook/internal/entity"
)

var positionCanonicalHeader = []string{
	"exchange", "symbol", "net_amount", "avg_entry_price",
	"current_price", "unrealized_pnl", "last_updated",
}

var positionAliases = map[string][]string{
	"exchange":        {"exchange", "venue"},
	"symbol":          {"symbol", "pair", "market"},
	"net_amount":      {"net_amount", "amount", "quantity", "qty"},
	"avg_entry_price": {"avg_entry_price", "avg_price", "average price", "entry_price"},
	"current_price":   {"current_price", "price", "last_price"},
	"unrealized_pnl":  {"unrealized_pnl", "upnl", "unrealized"},
	"last_updated":    {"last_updated", "updated", "last update"},
}

var positionRequired = []string{"exchange", "symbol", "net_amount", "avg_entry_price"}

func decodePosition(h header, row []string, num int) (entity.Position, error) {
	p := entity.Position{Row: num}

	p.Exchange = h.get(row, "exchange")

	var err error
	if p.Pair, err = entity.ParsePair(h.get(row, "symbol")); err != nil {
		return entity.Position{}, err
	}
	if p.NetAmount, err = ParseDecimal(h.get(row, "net_amount")); err != nil {
		return entity.Position{}, err
	}
	if p.AvgEntryPrice, err = ParseDecimal(h.get(row, "avg_entry_price")); err != nil {
		return entity.Position{}, err
	}
	if p.CurrentPrice, err = parseOptionalDecimal(h.get(row, "current_price")); err != nil {
		return entity.Position{}, err
	}
	if p.UnrealizedPnl, err = parseOptionalDecimal(h.get(row, "unrealized_pnl")); err != nil {
		return entity.Position{}, err
	}
	if v := h.get(row, "last_updated"); v != "" {
		if p.LastUpdated, err = ParseTime(v); err != nil {
			return entity.Position{}, err
		}
	}
	return p, nil
}

func encodePosition(h header, p entity.Position) []string {
	row := make([]string, h.size())
	h.put(row, "exchange", p.Exchange)
	h.put(row, "symbol", p.Pair.String())
	h.put(row, "net_amount", FormatDecimal(p.NetAmount))
	h.put(row, "avg_entry_price", FormatDecimal(p.AvgEntryPrice))
	h.put(row, "current_price", formatOptionalDecimal(p.CurrentPrice))
	h.put(row, "unrealized_pnl", FormatDecimal(p.UnrealizedPnl))
	h.put(row, "last_updated", FormatTime(p.LastUpdated))
	return row
}

// Positions reads every open-position row with aggregated row errors.
func (s *Store) Positions(ctx context.Context) ([]entity.Position, []error, error) {
	h, rows, err := s.header(ctx, s.tables.Positions, positionAliases, positionRequired)
	if err != nil {
		return nil, nil, err
	}

	var (
		out       []entity.Position
		parseErrs []error
	)
	for i := 1; i < len(rows); i++ {
		if emptyRow(rows[i]) {
			continue
		}
		p, err := decodePosition(h, rows[i], i+1)
		if err != nil {
			s.log.Warn("skipping unparsable position row",
				zap.String("table", s.tables.Positions), zap.Int("row", i+1), zap.Error(err))
			parseErrs = append(parseErrs, errors.Wrapf(err, "row %d", i+1))
			continue
		}
		out = append(out, p)
	}
	return out, parseErrs, nil
}

func (s *Store) AppendPosition(ctx context.Context, p entity.Position) error {
	h, _, err := s.header(ctx, s.tables.Positions, positionAliases, positionRequired)
	if err != nil {
		return err
	}
	return s.append(ctx, s.tables.Positions, encodePosition(h, p))
}

func (s *Store) UpdatePosition(ctx context.Context, p entity.Position) error {
	h, _, err := s.header(ctx, s.tables.Positions, positionAliases, positionRequired)
	if err != nil {
		return err
	}
	return s.updateRow(ctx, s.tables.Positions, p.Row, encodePosition(h, p))
}

func (s *Store) DeletePosition(ctx context.Context, row int) error {
	return s.deleteRow(ctx, s.tables.Positions, row)
}

// BatchUpdatePositions rewrites existing position rows in one driver call.
func (s *Store) BatchUpdatePositions(ctx context.Context, positions []entity.Position) error {
	if len(positions) == 0 {
		return nil
	}
	h, _, err := s.header(ctx, s.tables.Positions, positionAliases, positionRequired)
	if err != nil {
		return err
	}
	updates := make([]RowUpdate, 0, len(positions))
	for _, p := range positions {
		updates = append(updates, RowUpdate{Row: p.Row, Cells: encodePosition(h, p)})
	}
	return s.batchUpdateRows(ctx, s.tables.Positions, updates)
}

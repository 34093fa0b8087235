package store

import (
	"context"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/vadiminshakov/tradebook/internal/entity"
)

var balanceCanonicalHeader = []string{"account_name", "asset", "balance", "last_updated"}

var balanceAliases = map[string][]string{
	"account_name": {"account_name", "account", "wallet"},
	"asset":        {"asset", "currency", "coin"},
	"balance":      {"balance", "amount", "qty"},
	"last_updated": {"last_updated", "updated", "last update"},
}

var balanceRequired = []string{"account_name", "asset", "balance"}

func decodeBalance(h header, row []string, num int) (entity.Balance, error) {
	b := entity.Balance{Row: num}

	b.Account = h.get(row, "account_name")
	b.Asset = h.get(row, "asset")
	if b.Account == "" || b.Asset == "" {
		return entity.Balance{}, errors.New("empty account or asset")
	}

	var err error
	if b.Balance, err = ParseDecimal(h.get(row, "balance")); err != nil {
		return entity.Balance{}, err
	}
	if v := h.get(row, "last_updated"); v != "" {
		if b.LastUpdated, err = ParseTime(v); err != nil {
			return entity.Balance{}, err
		}
	}
	return b, nil
}

func encodeBalance(h header, b entity.Balance) []string {
	row := make([]string, h.size())
	h.put(row, "account_name", b.Account)
	h.put(row, "asset", b.Asset)
	h.put(row, "balance", FormatDecimal(b.Balance))
	h.put(row, "last_updated", FormatTime(b.LastUpdated))
	return row
}

// Balances reads every account balance row with aggregated row errors.
func (s *Store) Balances(ctx context.Context) ([]entity.Balance, []error, error) {
	h, rows, err := s.header(ctx, s.tables.Balances, balanceAliases, balanceRequired)
	if err != nil {
		return nil, nil, err
	}

	var (
		out       []entity.Balance
		parseErrs []error
	)
	for i := 1; i < len(rows); i++ {
		if emptyRow(rows[i]) {
			continue
		}
		b, err := decodeBalance(h, rows[i], i+1)
		if err != nil {
			s.log.Warn("skipping unparsable balance row",
				zap.String("table", s.tables.Balances), zap.Int("row", i+1), zap.Error(err))
			parseErrs = append(parseErrs, errors.Wrapf(err, "row %d", i+1))
			continue
		}
		out = append(out, b)
	}
	return out, parseErrs, nil
}

func (s *Store) AppendBalance(ctx context.Context, b entity.Balance) error {
	h, _, err := s.header(ctx, s.tables.Balances, balanceAliases, balanceRequired)
	if err != nil {
		return err
	}
	return s.append(ctx, s.tables.Balances, encodeBalance(h, b))
}

// BatchUpdateBalances rewrites existing balance rows in one driver call.
func (s *Store) BatchUpdateBalances(ctx context.Context, balances []entity.Balance) error {
	if len(balances) == 0 {
		return nil
	}
	h, _, err := s.header(ctx, s.tables.Balances, balanceAliases, balanceRequired)
	if err != nil {
		return err
	}
	updates := make([]RowUpdate, 0, len(balances))
	for _, b := range balances {
		updates = append(updates, RowUpdate{Row: b.Row, Cells: encodeBalance(h, b)})
	}
	return s.batchUpdateRows(ctx, s.tables.Balances, updates)
}

package store

import (
	"context"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/vadiminshakov/tradebook/internal/entity"
)

var fifoCanonicalHeader = []string{
	"symbol", "buy_trade_id", "sell_trade_id", "matched_qty",
	"buy_price", "sell_price", "fifo_pnl", "timestamp_closed",
	"buy_timestamp", "exchange",
}

var fifoAliases = map[string][]string{
	"symbol":           {"symbol", "pair", "market"},
	"buy_trade_id":     {"buy_trade_id", "buy id", "buy_id"},
	"sell_trade_id":    {"sell_trade_id", "sell id", "sell_id"},
	"matched_qty":      {"matched_qty", "matched", "qty"},
	"buy_price":        {"buy_price", "buy price"},
	"sell_price":       {"sell_price", "sell price"},
	"fifo_pnl":         {"fifo_pnl", "pnl", "realized_pnl"},
	"timestamp_closed": {"timestamp_closed", "closed", "close_time"},
	"buy_timestamp":    {"buy_timestamp", "open_time", "buy time"},
	"exchange":         {"exchange", "venue"},
}

var fifoRequired = []string{"symbol", "buy_trade_id", "sell_trade_id", "matched_qty", "buy_price", "sell_price", "fifo_pnl", "timestamp_closed"}

func decodeFifoLog(h header, row []string, num int) (entity.FifoLog, error) {
	l := entity.FifoLog{Row: num}

	var err error
	if l.Pair, err = entity.ParsePair(h.get(row, "symbol")); err != nil {
		return entity.FifoLog{}, err
	}
	l.BuyTradeID = h.get(row, "buy_trade_id")
	l.SellTradeID = h.get(row, "sell_trade_id")
	if l.BuyTradeID == "" || l.SellTradeID == "" {
		return entity.FifoLog{}, errors.New("empty lot trade reference")
	}
	if l.MatchedQty, err = ParseDecimal(h.get(row, "matched_qty")); err != nil {
		return entity.FifoLog{}, err
	}
	if l.BuyPrice, err = ParseDecimal(h.get(row, "buy_price")); err != nil {
		return entity.FifoLog{}, err
	}
	if l.SellPrice, err = ParseDecimal(h.get(row, "sell_price")); err != nil {
		return entity.FifoLog{}, err
	}
	if l.Pnl, err = ParseDecimal(h.get(row, "fifo_pnl")); err != nil {
		return entity.FifoLog{}, err
	}
	if l.TimestampClosed, err = ParseTime(h.get(row, "timestamp_closed")); err != nil {
		return entity.FifoLog{}, err
	}
	if v := h.get(row, "buy_timestamp"); v != "" {
		if l.BuyTimestamp, err = ParseTime(v); err != nil {
			return entity.FifoLog{}, err
		}
	}
	l.Exchange = h.get(row, "exchange")
	return l, nil
}

func encodeFifoLog(h header, l entity.FifoLog) []string {
	row := make([]string, h.size())
	h.put(row, "symbol", l.Pair.String())
	h.put(row, "buy_trade_id", l.BuyTradeID)
	h.put(row, "sell_trade_id", l.SellTradeID)
	h.put(row, "matched_qty", FormatDecimal(l.MatchedQty))
	h.put(row, "buy_price", FormatDecimal(l.BuyPrice))
	h.put(row, "sell_price", FormatDecimal(l.SellPrice))
	h.put(row, "fifo_pnl", FormatDecimal(l.Pnl))
	h.put(row, "timestamp_closed", FormatTime(l.TimestampClosed))
	h.put(row, "buy_timestamp", FormatTime(l.BuyTimestamp))
	h.put(row, "exchange", l.Exchange)
	return row
}

// FifoLogs reads the full closed-lot history with aggregated row errors.
func (s *Store) FifoLogs(ctx context.Context) ([]entity.FifoLog, []error, error) {
	h, rows, err := s.header(ctx, s.tables.FifoLog, fifoAliases, fifoRequired)
	if err != nil {
		return nil, nil, err
	}

	var (
		out       []entity.FifoLog
		parseErrs []error
	)
	for i := 1; i < len(rows); i++ {
		if emptyRow(rows[i]) {
			continue
		}
		l, err := decodeFifoLog(h, rows[i], i+1)
		if err != nil {
			s.log.Warn("skipping unparsable fifo log row",
				zap.String("table", s.tables.FifoLog), zap.Int("row", i+1), zap.Error(err))
			parseErrs = append(parseErrs, errors.Wrapf(err, "row %d", i+1))
			continue
		}
		out = append(out, l)
	}
	return out, parseErrs, nil
}

func (s *Store) AppendFifoLog(ctx context.Context, l entity.FifoLog) error {
	h, _, err := s.header(ctx, s.tables.FifoLog, fifoAliases, fifoRequired)
	if err != nil {
		return err
	}
	return s.append(ctx, s.tables.FifoLog, encodeFifoLog(h, l))
}

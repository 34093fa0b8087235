package store

import (
	"context"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/vadiminshakov/tradebook/internal/entity"
)

var tradeCanonicalHeader = []string{
	"trade_id", "timestamp", "exchange", "symbol", "trade_type", "amount",
	"price", "total_quote_amount", "commission", "commission_asset",
	"order_id", "notes", "sl", "tp1", "tp2", "tp3",
	"fifo_consumed_qty", "fifo_sell_processed",
}

var tradeAliases = map[string][]string{
	"trade_id":            {"trade_id", "id", "trade id"},
	"timestamp":           {"timestamp", "date", "time", "datetime"},
	"exchange":            {"exchange", "venue"},
	"symbol":              {"symbol", "pair", "market"},
	"trade_type":          {"trade_type", "type", "side"},
	"amount":              {"amount", "quantity", "qty", "base_amount"},
	"price":               {"price", "entry_price", "fill_price"},
	"total_quote_amount":  {"total_quote_amount", "total", "quote_amount", "cost"},
	"commission":          {"commission", "fee", "commission_amount"},
	"commission_asset":    {"commission_asset", "fee_asset", "fee_currency"},
	"order_id":            {"order_id", "order"},
	"notes":               {"notes", "note", "comment"},
	"sl":                  {"sl", "stop_loss", "stop loss"},
	"tp1":                 {"tp1", "take_profit_1", "take profit 1"},
	"tp2":                 {"tp2", "take_profit_2", "take profit 2"},
	"tp3":                 {"tp3", "take_profit_3", "take profit 3"},
	"fifo_consumed_qty":   {"fifo_consumed_qty", "fifo consumed", "consumed_qty"},
	"fifo_sell_processed": {"fifo_sell_processed", "fifo processed", "sell_processed"},
}

var tradeRequired = []string{"trade_id", "timestamp", "exchange", "symbol", "trade_type", "amount", "price"}

func decodeTrade(h header, row []string, num int) (entity.Trade, error) {
	t := entity.Trade{Row: num}

	t.ID = h.get(row, "trade_id")
	if t.ID == "" {
		return entity.Trade{}, errors.New("empty trade_id")
	}

	var err error
	if t.Timestamp, err = ParseTime(h.get(row, "timestamp")); err != nil {
		return entity.Trade{}, err
	}
	t.Exchange = h.get(row, "exchange")
	if t.Pair, err = entity.ParsePair(h.get(row, "symbol")); err != nil {
		return entity.Trade{}, err
	}
	t.Type = entity.TradeType(h.get(row, "trade_type"))
	if !t.Type.Valid() {
		return entity.Trade{}, errors.Errorf("unknown trade type %q", h.get(row, "trade_type"))
	}
	if t.Amount, err = ParseDecimal(h.get(row, "amount")); err != nil {
		return entity.Trade{}, err
	}
	if t.Price, err = ParseDecimal(h.get(row, "price")); err != nil {
		return entity.Trade{}, err
	}
	if t.TotalQuote, err = parseOptionalDecimal(h.get(row, "total_quote_amount")); err != nil {
		return entity.Trade{}, err
	}
	if t.TotalQuote.IsZero() {
		t.TotalQuote = t.Amount.Mul(t.Price)
	}
	if t.Commission, err = parseOptionalDecimal(h.get(row, "commission")); err != nil {
		return entity.Trade{}, err
	}
	t.CommissionAsset = h.get(row, "commission_asset")
	t.OrderID = h.get(row, "order_id")
	t.Notes = h.get(row, "notes")
	if t.StopLoss, err = parseOptionalDecimal(h.get(row, "sl")); err != nil {
		return entity.Trade{}, err
	}
	if t.TakeProfit1, err = parseOptionalDecimal(h.get(row, "tp1")); err != nil {
		return entity.Trade{}, err
	}
	if t.TakeProfit2, err = parseOptionalDecimal(h.get(row, "tp2")); err != nil {
		return entity.Trade{}, err
	}
	if t.TakeProfit3, err = parseOptionalDecimal(h.get(row, "tp3")); err != nil {
		return entity.Trade{}, err
	}
	if t.FifoConsumedQty, err = parseOptionalDecimal(h.get(row, "fifo_consumed_qty")); err != nil {
		return entity.Trade{}, err
	}
	if t.FifoSellProcessed, err = ParseBool(h.get(row, "fifo_sell_processed")); err != nil {
		return entity.Trade{}, err
	}
	return t, nil
}

func encodeTrade(h header, t entity.Trade) []string {
	row := make([]string, h.size())
	h.put(row, "trade_id", t.ID)
	h.put(row, "timestamp", FormatTime(t.Timestamp))
	h.put(row, "exchange", t.Exchange)
	h.put(row, "symbol", t.Pair.String())
	h.put(row, "trade_type", string(t.Type))
	h.put(row, "amount", FormatDecimal(t.Amount))
	h.put(row, "price", FormatDecimal(t.Price))
	h.put(row, "total_quote_amount", FormatDecimal(t.TotalQuote))
	h.put(row, "commission", formatOptionalDecimal(t.Commission))
	h.put(row, "commission_asset", t.CommissionAsset)
	h.put(row, "order_id", t.OrderID)
	h.put(row, "notes", t.Notes)
	h.put(row, "sl", formatOptionalDecimal(t.StopLoss))
	h.put(row, "tp1", formatOptionalDecimal(t.TakeProfit1))
	h.put(row, "tp2", formatOptionalDecimal(t.TakeProfit2))
	h.put(row, "tp3", formatOptionalDecimal(t.TakeProfit3))
	h.put(row, "fifo_consumed_qty", FormatDecimal(t.FifoConsumedQty))
	h.put(row, "fifo_sell_processed", FormatBool(t.FifoSellProcessed))
	return row
}

// Trades reads the full trade log. Rows that fail to parse are dropped and
// returned as aggregated errors; the read itself still succeeds.
func (s *Store) Trades(ctx context.Context) ([]entity.Trade, []error, error) {
	h, rows, err := s.header(ctx, s.tables.Trades, tradeAliases, tradeRequired)
	if err != nil {
		return nil, nil, err
	}

	var (
		out       []entity.Trade
		parseErrs []error
	)
	for i := 1; i < len(rows); i++ {
		if emptyRow(rows[i]) {
			continue
		}
		t, err := decodeTrade(h, rows[i], i+1)
		if err != nil {
			s.log.Warn("skipping unparsable trade row",
				zap.String("table", s.tables.Trades), zap.Int("row", i+1), zap.Error(err))
			parseErrs = append(parseErrs, errors.Wrapf(err, "row %d", i+1))
			continue
		}
		out = append(out, t)
	}
	return out, parseErrs, nil
}

func (s *Store) AppendTrade(ctx context.Context, t entity.Trade) error {
	h, _, err := s.header(ctx, s.tables.Trades, tradeAliases, tradeRequired)
	if err != nil {
		return err
	}
	return s.append(ctx, s.tables.Trades, encodeTrade(h, t))
}

func (s *Store) UpdateTrade(ctx context.Context, t entity.Trade) error {
	h, _, err := s.header(ctx, s.tables.Trades, tradeAliases, tradeRequired)
	if err != nil {
		return err
	}
	return s.updateRow(ctx, s.tables.Trades, t.Row, encodeTrade(h, t))
}

func (s *Store) BatchUpdateTrades(ctx context.Context, trades []entity.Trade) error {
	if len(trades) == 0 {
		return nil
	}
	h, _, err := s.header(ctx, s.tables.Trades, tradeAliases, tradeRequired)
	if err != nil {
		return err
	}
	updates := make([]RowUpdate, 0, len(trades))
	for _, t := range trades {
		updates = append(updates, RowUpdate{Row: t.Row, Cells: encodeTrade(h, t)})
	}
	return s.batchUpdateRows(ctx, s.tables.Trades, updates)
}

func emptyRow(row []string) bool {
	for _, c := range row {
		if c != "" {
			return false
		}
	}
	return true
}

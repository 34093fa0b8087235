package store

import (
	"context"
	"strconv"

	"github.com/vadiminshakov/tradebook/internal/entity"
)

var analyticsCanonicalHeader = []string{
	"date_generated", "realized_pnl", "unrealized_pnl", "net_pnl",
	"closed_trades", "winning_trades", "losing_trades", "win_rate",
	"avg_win", "avg_loss", "profit_factor", "total_commissions",
	"net_invested", "portfolio_value", "total_equity",
}

var analyticsAliases = map[string][]string{
	"date_generated":    {"date_generated", "date", "generated"},
	"realized_pnl":      {"realized_pnl", "realized"},
	"unrealized_pnl":    {"unrealized_pnl", "unrealized"},
	"net_pnl":           {"net_pnl", "net"},
	"closed_trades":     {"closed_trades", "closed"},
	"winning_trades":    {"winning_trades", "wins"},
	"losing_trades":     {"losing_trades", "losses"},
	"win_rate":          {"win_rate", "winrate", "win %"},
	"avg_win":           {"avg_win", "average win"},
	"avg_loss":          {"avg_loss", "average loss"},
	"profit_factor":     {"profit_factor", "pf"},
	"total_commissions": {"total_commissions", "commissions"},
	"net_invested":      {"net_invested", "invested"},
	"portfolio_value":   {"portfolio_value", "portfolio"},
	"total_equity":      {"total_equity", "equity"},
}

var analyticsRequired = []string{"date_generated", "realized_pnl", "unrealized_pnl", "net_pnl"}

func encodeAnalytics(h header, a entity.AnalyticsSnapshot) []string {
	row := make([]string, h.size())
	h.put(row, "date_generated", FormatTime(a.DateGenerated))
	h.put(row, "realized_pnl", FormatDecimal(a.RealizedPnl))
	h.put(row, "unrealized_pnl", FormatDecimal(a.UnrealizedPnl))
	h.put(row, "net_pnl", FormatDecimal(a.NetPnl))
	h.put(row, "closed_trades", strconv.Itoa(a.ClosedTrades))
	h.put(row, "winning_trades", strconv.Itoa(a.WinningTrades))
	h.put(row, "losing_trades", strconv.Itoa(a.LosingTrades))
	h.put(row, "win_rate", FormatDecimal(a.WinRate))
	h.put(row, "avg_win", FormatDecimal(a.AvgWin))
	h.put(row, "avg_loss", FormatDecimal(a.AvgLoss))
	h.put(row, "profit_factor", a.ProfitFactor)
	h.put(row, "total_commissions", FormatDecimal(a.TotalCommissions))
	h.put(row, "net_invested", FormatDecimal(a.NetInvested))
	h.put(row, "portfolio_value", FormatDecimal(a.PortfolioValue))
	h.put(row, "total_equity", FormatDecimal(a.TotalEquity))
	return row
}

// AppendAnalytics writes one dated snapshot row.
func (s *Store) AppendAnalytics(ctx context.Context, a entity.AnalyticsSnapshot) error {
	h, _, err := s.header(ctx, s.tables.Analytics, analyticsAliases, analyticsRequired)
	if err != nil {
		return err
	}
	return s.append(ctx, s.tables.Analytics, encodeAnalytics(h, a))
}

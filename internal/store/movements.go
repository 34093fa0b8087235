package store

import (
	"context"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/vadiminshakov/tradebook/internal/entity"
)

var movementCanonicalHeader = []string{
	"movement_id", "timestamp", "movement_type", "asset", "amount",
	"source_name", "destination_name", "fee_amount", "fee_asset",
	"transaction_id_blockchain", "notes",
}

var movementAliases = map[string][]string{
	"movement_id":               {"movement_id", "id", "movement id"},
	"timestamp":                 {"timestamp", "date", "time", "datetime"},
	"movement_type":             {"movement_type", "type"},
	"asset":                     {"asset", "currency", "coin"},
	"amount":                    {"amount", "quantity", "qty"},
	"source_name":               {"source_name", "source", "from"},
	"destination_name":          {"destination_name", "destination", "to"},
	"fee_amount":                {"fee_amount", "fee"},
	"fee_asset":                 {"fee_asset", "fee_currency"},
	"transaction_id_blockchain": {"transaction_id_blockchain", "txid", "tx_id", "transaction id"},
	"notes":                     {"notes", "note", "comment"},
}

var movementRequired = []string{"movement_id", "timestamp", "movement_type", "asset", "amount"}

func decodeMovement(h header, row []string, num int) (entity.Movement, error) {
	m := entity.Movement{Row: num}

	m.ID = h.get(row, "movement_id")
	if m.ID == "" {
		return entity.Movement{}, errors.New("empty movement_id")
	}

	var err error
	if m.Timestamp, err = ParseTime(h.get(row, "timestamp")); err != nil {
		return entity.Movement{}, err
	}
	m.Type = entity.MovementType(h.get(row, "movement_type"))
	if !m.Type.Valid() {
		return entity.Movement{}, errors.Errorf("unknown movement type %q", h.get(row, "movement_type"))
	}
	m.Asset = h.get(row, "asset")
	if m.Amount, err = ParseDecimal(h.get(row, "amount")); err != nil {
		return entity.Movement{}, err
	}
	m.Source = h.get(row, "source_name")
	m.Destination = h.get(row, "destination_name")
	if m.FeeAmount, err = parseOptionalDecimal(h.get(row, "fee_amount")); err != nil {
		return entity.Movement{}, err
	}
	m.FeeAsset = h.get(row, "fee_asset")
	m.TxIDOnChain = h.get(row, "transaction_id_blockchain")
	m.Notes = h.get(row, "notes")
	return m, nil
}

func encodeMovement(h header, m entity.Movement) []string {
	row := make([]string, h.size())
	h.put(row, "movement_id", m.ID)
	h.put(row, "timestamp", FormatTime(m.Timestamp))
	h.put(row, "movement_type", string(m.Type))
	h.put(row, "asset", m.Asset)
	h.put(row, "amount", FormatDecimal(m.Amount))
	h.put(row, "source_name", m.Source)
	h.put(row, "destination_name", m.Destination)
	h.put(row, "fee_amount", formatOptionalDecimal(m.FeeAmount))
	h.put(row, "fee_asset", m.FeeAsset)
	h.put(row, "transaction_id_blockchain", m.TxIDOnChain)
	h.put(row, "notes", m.Notes)
	return row
}

// Movements reads the full fund-movement log with aggregated row errors.
func (s *Store) Movements(ctx context.Context) ([]entity.Movement, []error, error) {
	h, rows, err := s.header(ctx, s.tables.Movements, movementAliases, movementRequired)
	if err != nil {
		return nil, nil, err
	}

	var (
		out       []entity.Movement
		parseErrs []error
	)
	for i := 1; i < len(rows); i++ {
		if emptyRow(rows[i]) {
			continue
		}
		m, err := decodeMovement(h, rows[i], i+1)
		if err != nil {
			s.log.Warn("skipping unparsable movement row",
				zap.String("table", s.tables.Movements), zap.Int("row", i+1), zap.Error(err))
			parseErrs = append(parseErrs, errors.Wrapf(err, "row %d", i+1))
			continue
		}
		out = append(out, m)
	}
	return out, parseErrs, nil
}

func (s *Store) AppendMovement(ctx context.Context, m entity.Movement) error {
	h, _, err := s.header(ctx, s.tables.Movements, movementAliases, movementRequired)
	if err != nil {
		return err
	}
	return s.append(ctx, s.tables.Movements, encodeMovement(h, m))
}

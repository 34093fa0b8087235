package store

import (
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// TimeLayout is the canonical persisted timestamp form.
const TimeLayout = "2006-01-02 15:04:05"

var timeLayouts = []string{
	TimeLayout,
	"2006-01-02T15:04:05",
	time.RFC3339,
	"2006-01-02",
}

// ParseDecimal accepts both '.' and ',' as decimal separator and strips
// thousands separators. When both appear, the rightmost of the two is taken
// as the decimal separator.
func ParseDecimal(s string) (decimal.Decimal, error) {
	v := strings.ReplaceAll(strings.TrimSpace(s), " ", "")
	if v == "" {
		return decimal.Decimal{}, errors.New("empty decimal")
	}

	dot := strings.LastIndexByte(v, '.')
	comma := strings.LastIndexByte(v, ',')
	switch {
	case dot >= 0 && comma >= 0:
		if comma > dot {
			v = strings.ReplaceAll(v, ".", "")
			v = strings.Replace(v, ",", ".", 1)
		} else {
			v = strings.ReplaceAll(v, ",", "")
		}
	case comma >= 0:
		// a lone comma is a locale decimal separator, unless there are
		// several (thousands grouping)
		if strings.Count(v, ",") > 1 {
			v = strings.ReplaceAll(v, ",", "")
		} else {
			v = strings.Replace(v, ",", ".", 1)
		}
	}

	d, err := decimal.NewFromString(v)
	if err != nil {
		return decimal.Decimal{}, errors.Wrapf(err, "parse decimal %q", s)
	}
	return d, nil
}

// parseOptionalDecimal returns zero for an empty cell.
func parseOptionalDecimal(s string) (decimal.Decimal, error) {
	if strings.TrimSpace(s) == "" {
		return decimal.Zero, nil
	}
	return ParseDecimal(s)
}

// FormatDecimal serialises with ',' as the decimal separator so values
// round-trip through locale-sensitive sheets.
func FormatDecimal(d decimal.Decimal) string {
	return strings.Replace(d.String(), ".", ",", 1)
}

func formatOptionalDecimal(d decimal.Decimal) string {
	if d.IsZero() {
		return ""
	}
	return FormatDecimal(d)
}

// ParseTime accepts the canonical form plus ISO-like variants. Values without
// an explicit zone are taken as UTC.
func ParseTime(s string) (time.Time, error) {
	v := strings.TrimSpace(s)
	for _, layout := range timeLayouts {
		if t, err := time.ParseInLocation(layout, v, time.UTC); err == nil {
			return t, nil
		}
	}
	return time.Time{}, errors.Errorf("parse timestamp %q", s)
}

// FormatTime serialises the canonical persisted timestamp form.
func FormatTime(t time.Time) string {
	return t.Format(TimeLayout)
}

// ParseBool is a case-insensitive TRUE/FALSE, with empty meaning false.
func ParseBool(s string) (bool, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "TRUE":
		return true, nil
	case "FALSE", "":
		return false, nil
	}
	return false, errors.Errorf("parse bool %q", s)
}

func FormatBool(b bool) string {
	if b {
		return "TRUE"
	}
	return "FALSE"
}

package entity

import (
	"strings"

	"github.com/pkg/errors"
)

// Pair is a trading pair in BASE/QUOTE form, e.g. BTC/USDT.
type Pair struct {
	Base  string
	Quote string
}

func ParsePair(s string) (Pair, error) {
	parts := strings.Split(strings.TrimSpace(s), "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return Pair{}, errors.Errorf("invalid symbol %q, expected BASE/QUOTE", s)
	}
	return Pair{Base: strings.ToUpper(parts[0]), Quote: strings.ToUpper(parts[1])}, nil
}

func (p Pair) String() string {
	return p.Base + "/" + p.Quote
}

// Symbol returns the pair without separator, the form exchange APIs expect.
func (p Pair) Symbol() string {
	return p.Base + p.Quote
}

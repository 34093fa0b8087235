package clients

import (
	"strings"

	"github.com/pkg/errors"

	"github.com/vadiminshakov/tradebook/internal/pricer"
)

// ExchangeCredentials is one configured quote-source account. Secret holds
// the API secret for binance/bybit and the hex ECDSA private key for
// hyperliquid.
type ExchangeCredentials struct {
	Name    string
	APIKey  string
	Secret  string
	BaseURL string
}

// BuildQuoteSources constructs a Pricer per configured exchange, keyed by
// lower-case exchange name. This is the single dispatch point for
// platform-specific quote clients.
func BuildQuoteSources(exchanges []ExchangeCredentials) (map[string]pricer.Pricer, error) {
	quotes := make(map[string]pricer.Pricer, len(exchanges))
	for _, ex := range exchanges {
		name := strings.ToLower(ex.Name)
		switch name {
		case "binance":
			quotes[name] = pricer.NewBinancePricer(NewBinanceClient(ex.APIKey, ex.Secret))
		case "bybit":
			quotes[name] = pricer.NewBybitPricer(NewBybitClient(ex.APIKey, ex.Secret))
		case "hyperliquid":
			client, err := NewHyperliquidClient(ex.Secret, ex.BaseURL)
			if err != nil {
				return nil, errors.Wrap(err, "create hyperliquid client")
			}
			quotes[name] = pricer.NewHyperliquidPricer(client.Exchange().Info())
		default:
			return nil, errors.Errorf("unsupported exchange %q", ex.Name)
		}
	}
	return quotes, nil
}

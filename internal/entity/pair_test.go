package entity

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParsePair(t *testing.T) {
	tests := []struct {
		in      string
		want    Pair
		wantErr bool
	}{
		{in: "BTC/USDT", want: Pair{Base: "BTC", Quote: "USDT"}},
		{in: "eth/usdt", want: Pair{Base: "ETH", Quote: "USDT"}},
		{in: " SOL/USDC ", want: Pair{Base: "SOL", Quote: "USDC"}},
		{in: "BTCUSDT", wantErr: true},
		{in: "BTC/", wantErr: true},
		{in: "/USDT", wantErr: true},
		{in: "", wantErr: true},
		{in: "A/B/C", wantErr: true},
	}
	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			got, err := ParsePair(tc.in)
			if tc.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.want, got)
		})
	}
}

func TestPairForms(t *testing.T) {
	p := Pair{Base: "BTC", Quote: "USDT"}
	require.Equal(t, "BTC/USDT", p.String())
	require.Equal(t, "BTCUSDT", p.Symbol())
}

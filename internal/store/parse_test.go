package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestParseDecimal(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    string
		wantErr bool
	}{
		{name: "dot separator", in: "1234.56", want: "1234.56"},
		{name: "comma separator", in: "1234,56", want: "1234.56"},
		{name: "comma decimal with dot thousands", in: "1.234,56", want: "1234.56"},
		{name: "dot decimal with comma thousands", in: "1,234.56", want: "1234.56"},
		{name: "multiple commas are thousands", in: "1,234,567", want: "1234567"},
		{name: "integer", in: "42", want: "42"},
		{name: "negative comma", in: "-0,5", want: "-0.5"},
		{name: "surrounding spaces", in: "  7,25 ", want: "7.25"},
		{name: "empty", in: "", wantErr: true},
		{name: "garbage", in: "abc", wantErr: true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseDecimal(tc.in)
			if tc.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.want, got.String())
		})
	}
}

func TestFormatDecimalRoundTrip(t *testing.T) {
	d, err := ParseDecimal("1234,56789")
	require.NoError(t, err)

	s := FormatDecimal(d)
	require.Equal(t, "1234,56789", s)

	back, err := ParseDecimal(s)
	require.NoError(t, err)
	require.True(t, d.Equal(back))
}

func TestParseTime(t *testing.T) {
	want := time.Date(2026, 3, 15, 9, 30, 0, 0, time.UTC)

	for _, in := range []string{
		"2026-03-15 09:30:00",
		"2026-03-15T09:30:00",
	} {
		got, err := ParseTime(in)
		require.NoError(t, err, in)
		require.True(t, want.Equal(got), in)
	}

	dateOnly, err := ParseTime("2026-03-15")
	require.NoError(t, err)
	require.Equal(t, time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC), dateOnly)

	_, err = ParseTime("15/03/2026")
	require.Error(t, err)

	require.Equal(t, "2026-03-15 09:30:00", FormatTime(want))
}

func TestParseBool(t *testing.T) {
	for in, want := range map[string]bool{
		"TRUE": true, "true": true, " True ": true,
		"FALSE": false, "false": false, "": false,
	} {
		got, err := ParseBool(in)
		require.NoError(t, err, in)
		require.Equal(t, want, got, in)
	}

	_, err := ParseBool("yes")
	require.Error(t, err)
}

package pricefmt_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"pricewatch/internal/pricefmt"
)

const title = "قیمت تتر:"

func ptr(s string) *string { return &s }

func TestLine_FirstObservationIsNeutral(t *testing.T) {
	t.Parallel()

	got := pricefmt.Formatter{}.Line(title, "1,234,000", nil, true)
	require.Equal(t, "🔹 قیمت تتر: 1,234,000 تومان", got)
}

func TestLine_Up(t *testing.T) {
	t.Parallel()

	got := pricefmt.Formatter{}.Line(title, "1,234,000", ptr("1,000,000"), true)
	require.Equal(t, "🔺 قیمت تتر: 1,234,000 تومان", got)
}

func TestLine_DownAndUnchanged(t *testing.T) {
	t.Parallel()

	f := pricefmt.Formatter{}
	require.Equal(t, "🔻 قیمت تتر: 99,000 تومان", f.Line(title, "99,000", ptr("100,000"), true))
	require.Equal(t, "🔹 قیمت تتر: 99,000 تومان", f.Line(title, "۹۹,۰۰۰", ptr("99,000"), true))
}

func TestLine_GoldDividesDisplayedAmount(t *testing.T) {
	t.Parallel()

	got := pricefmt.Formatter{}.Line("قیمت لحظه‌ای طلا:", "12340", nil, false)
	require.Equal(t, "🔹 قیمت لحظه‌ای طلا: 1,234 تومان", got)

	// Truncates rather than rounds.
	got = pricefmt.Formatter{}.Line("gold", "12349", nil, false)
	require.Equal(t, "🔹 gold 1,234 تومان", got)
}

func TestLine_GoldComparesUndividedAmounts(t *testing.T) {
	t.Parallel()

	// 12,341 > 12,340 before division even though both display as 1,234.
	got := pricefmt.Formatter{}.Line("gold", "12341", ptr("12340"), false)
	require.Equal(t, "🔺 gold 1,234 تومان", got)

	// A previous quote equal to the displayed (divided) value is still lower.
	got = pricefmt.Formatter{}.Line("gold", "12340", ptr("1234"), false)
	require.Equal(t, "🔺 gold 1,234 تومان", got)
}

func TestLine_NoDigitsRendersZero(t *testing.T) {
	t.Parallel()

	got := pricefmt.Formatter{}.Line(title, "N/A", nil, true)
	require.Equal(t, "🔹 قیمت تتر: 0 تومان", got)

	got = pricefmt.Formatter{}.Line(title, "N/A", ptr("100"), true)
	require.Equal(t, "🔻 قیمت تتر: 0 تومان", got)
}

func TestLine_CustomUnitAndSeparator(t *testing.T) {
	t.Parallel()

	f := pricefmt.Formatter{Unit: "IRT", Separator: "٬"}
	require.Equal(t, "🔹 USDT 1٬234٬000 IRT", f.Line("USDT", "1234000", nil, true))
}

func TestMarker(t *testing.T) {
	t.Parallel()

	f := pricefmt.Formatter{}
	require.Equal(t, pricefmt.Neutral, f.Marker("10", nil))
	require.Equal(t, pricefmt.Up, f.Marker("11", ptr("10")))
	require.Equal(t, pricefmt.Down, f.Marker("9", ptr("10")))
	require.Equal(t, pricefmt.Neutral, f.Marker("۱۰", ptr("10")))
}

func TestGroup(t *testing.T) {
	t.Parallel()

	cases := map[int64]string{
		0:          "0",
		7:          "7",
		999:        "999",
		1000:       "1,000",
		123456:     "123,456",
		1234567:    "1,234,567",
		-1234567:   "-1,234,567",
		1000000000: "1,000,000,000",
	}
	for in, want := range cases {
		require.Equal(t, want, pricefmt.Group(decimal.NewFromInt(in), ","), "input %d", in)
	}
}

package normalize

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParsePrice(t *testing.T) {
	cases := []struct {
		name string
		text string
		want float64
		ok   bool
	}{
		{name: "european thousands and cents", text: "€ 1.234,56", want: 1234.56, ok: true},
		{name: "comma decimal", text: "€ 49,95", want: 49.95, ok: true},
		{name: "dash cents", text: "49,-", want: 49, ok: true},
		{name: "plain decimal", text: "59.99", want: 59.99, ok: true},
		{name: "us thousands", text: "$1,234.56", want: 1234.56, ok: true},
		{name: "dot thousands only", text: "1.299", want: 1299, ok: true},
		{name: "comma grouping only", text: "1,299,000", want: 1299000, ok: true},
		{name: "bare integer", text: "199", want: 199, ok: true},
		{name: "surrounding text", text: "Nu voor € 12,50 incl. btw", want: 12.50, ok: true},
		{name: "empty", text: "", ok: false},
		{name: "no digits", text: "gratis", ok: false},
		{name: "garbage separators", text: "1.2.3.4,5,6", ok: false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := ParsePrice(tc.text)
			require.Equal(t, tc.ok, ok)
			if tc.ok {
				require.InDelta(t, tc.want, got, 0.001)
			}
		})
	}
}

func TestDiscount(t *testing.T) {
	t.Run("valid markdown", func(t *testing.T) {
		amount, percent, ok := Discount(100, 75)
		require.True(t, ok)
		require.InDelta(t, 25.0, amount, 0.001)
		require.InDelta(t, 25.0, percent, 0.001)
	})

	t.Run("percent rounds to two places", func(t *testing.T) {
		_, percent, ok := Discount(299.99, 249.99)
		require.True(t, ok)
		require.InDelta(t, 16.67, percent, 0.001)
	})

	t.Run("base below current is rejected", func(t *testing.T) {
		_, _, ok := Discount(49.95, 59.95)
		require.False(t, ok)
	})

	t.Run("equal prices give zero discount", func(t *testing.T) {
		amount, percent, ok := Discount(50, 50)
		require.True(t, ok)
		require.Zero(t, amount)
		require.Zero(t, percent)
	})

	t.Run("zero base is rejected", func(t *testing.T) {
		_, _, ok := Discount(0, 0)
		require.False(t, ok)
	})
}

package normalize

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestInferStock(t *testing.T) {
	cases := []struct {
		name         string
		availability string
		stockText    string
		want         *bool
	}{
		{name: "schema in stock", availability: "https://schema.org/InStock", want: boolPtr(true)},
		{name: "schema out of stock", availability: "http://schema.org/OutOfStock", want: boolPtr(false)},
		{name: "schema preorder counts as available", availability: "https://schema.org/PreOrder", want: boolPtr(true)},
		{name: "schema wins over text", availability: "https://schema.org/OutOfStock", stockText: "Op voorraad", want: boolPtr(false)},
		{name: "dutch in stock phrase", stockText: "Op voorraad, morgen in huis", want: boolPtr(true)},
		{name: "dutch out of stock phrase", stockText: "Tijdelijk niet leverbaar", want: boolPtr(false)},
		{name: "negative beats embedded positive", stockText: "Niet op voorraad", want: boolPtr(false)},
		{name: "english sold out", stockText: "Sold out", want: boolPtr(false)},
		{name: "english ships today", stockText: "In stock, ships today", want: boolPtr(true)},
		{name: "no signal", stockText: "Bekijk de specificaties", want: nil},
		{name: "nothing at all", want: nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := InferStock(tc.availability, tc.stockText)
			if tc.want == nil {
				require.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			require.Equal(t, *tc.want, *got)
		})
	}
}

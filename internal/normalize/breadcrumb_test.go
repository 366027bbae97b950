package normalize

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaultCategoryURL(t *testing.T) {
	require.True(t, DefaultCategoryURL("https://www.example.nl/microfoons/"))
	require.True(t, DefaultCategoryURL("https://www.example.nl/studio/microfoons"))
	require.False(t, DefaultCategoryURL("https://www.example.nl/"))
	require.False(t, DefaultCategoryURL("https://www.example.nl/prijsoverzicht/audio/"))
	require.False(t, DefaultCategoryURL("https://www.example.nl/klantenservice/index.html"))
	require.False(t, DefaultCategoryURL("https://www.example.nl/checkout"))
	require.False(t, DefaultCategoryURL(""))
}

func TestCategoryURLWithMarker(t *testing.T) {
	pred := CategoryURLWithMarker("/l/")
	require.True(t, pred("https://www.bol.com/nl/nl/l/microfoons/4772/"))
	require.False(t, pred("https://www.bol.com/nl/nl/p/shure-sm58/9200000012345/"))
}

func TestPseudoBreadcrumb(t *testing.T) {
	t.Run("path segments minus product", func(t *testing.T) {
		names, urls := PseudoBreadcrumb("https://www.example.nl/studio/microfoons/shure-sm58?ref=abc")
		require.Equal(t, []string{"studio", "microfoons"}, names)
		require.Equal(t, []string{
			"https://www.example.nl/studio",
			"https://www.example.nl/studio/microfoons",
		}, urls)
	})

	t.Run("html suffix dropped before trimming", func(t *testing.T) {
		names, _ := PseudoBreadcrumb("https://www.example.nl/audio/koptelefoons/dt770.html")
		require.Equal(t, []string{"audio"}, names)
	})

	t.Run("too shallow yields nothing", func(t *testing.T) {
		names, urls := PseudoBreadcrumb("https://www.example.nl/shure-sm58")
		require.Nil(t, names)
		require.Nil(t, urls)
	})

	t.Run("slug labels are cleaned", func(t *testing.T) {
		names, _ := PseudoBreadcrumb("https://www.example.nl/studio-recording/usb_microfoons/item")
		require.Equal(t, []string{"studio recording", "usb microfoons"}, names)
	})
}

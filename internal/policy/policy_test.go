package policy

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestVocabularyPriority(t *testing.T) {
	vocab := DefaultVocabulary()
	require.True(t, vocab.IsPriority("https://www.example.nl/studio/microfoons/"))
	require.True(t, vocab.IsPriority("USB-microfoon voor podcasts"))
	require.False(t, vocab.IsPriority("https://www.example.nl/gitaren/"))
}

func TestVocabularyAccessoryTerm(t *testing.T) {
	vocab := DefaultVocabulary()

	t.Run("matches a path segment", func(t *testing.T) {
		require.Equal(t, "statieven", vocab.AccessoryInURL("https://www.example.nl/microfoons/statieven/"))
	})

	t.Run("token match avoids substrings", func(t *testing.T) {
		require.Empty(t, vocab.AccessoryTerm("kabelloos zingen"))
		require.Equal(t, "kabel", vocab.AccessoryTerm("XLR kabel 5m"))
	})

	t.Run("clean product text passes", func(t *testing.T) {
		require.Empty(t, vocab.AccessoryTerm("Shure SM58 zangmicrofoon"))
	})
}

func TestHostAllowlist(t *testing.T) {
	list := NewHostAllowlist([]string{"www.bol.com", "bax-shop.nl"})
	require.True(t, list.Allows("https://bol.com/nl/nl/l/microfoons/"))
	require.True(t, list.Allows("https://www.bax-shop.nl/microfoons"))
	require.False(t, list.Allows("https://www.thomann.de/nl/"))
	require.False(t, list.Allows("::not a url"))
	require.False(t, HostAllowlist{}.Allows("https://bol.com/"))
}

package identity

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/odmbench/harvester/internal/policy"
	"github.com/odmbench/harvester/internal/product"
)

func TestKey63(t *testing.T) {
	t.Run("stable across calls", func(t *testing.T) {
		require.Equal(t, Key63("shure sm58"), Key63("shure sm58"))
	})

	t.Run("distinct inputs diverge", func(t *testing.T) {
		require.NotEqual(t, Key63("shure sm58"), Key63("shure sm57"))
	})

	t.Run("fits in a signed 64-bit column", func(t *testing.T) {
		for _, in := range []string{"", "a", "shure sm58", "https://www.example.nl/p/1"} {
			require.Zero(t, Key63(in)>>63)
		}
	})
}

func TestProductKeyFallsBackToURL(t *testing.T) {
	withName := ProductKey("shure sm58", "https://www.example.nl/p/1")
	withoutName := ProductKey("", "https://www.example.nl/p/1")
	require.Equal(t, Key63("shure sm58"), withName)
	require.Equal(t, Key63("https://www.example.nl/p/1"), withoutName)
	require.NotEqual(t, withName, withoutName)
}

func TestAssignKeys(t *testing.T) {
	rec := &product.Record{
		SourceURL:     "https://www.example.nl/microfoons/shure-sm58",
		CanonicalName: "shure sm58",
	}
	AssignKeys(rec)
	require.Equal(t, ListingKey(rec.SourceURL), rec.ListingKey)
	require.Equal(t, Key63("shure sm58"), rec.ProductKey)
}

func TestFilterCheck(t *testing.T) {
	filter := NewFilter(policy.DefaultVocabulary())

	t.Run("catalog product passes", func(t *testing.T) {
		ok, reason := filter.Check(&product.Record{
			SourceURL: "https://www.example.nl/microfoons/shure-sm58",
			Title:     "Shure SM58 Zangmicrofoon",
			Breadcrumb: product.Breadcrumb{
				Category: "Microfoons",
			},
		})
		require.True(t, ok)
		require.Empty(t, reason)
	})

	t.Run("off-topic title", func(t *testing.T) {
		ok, reason := filter.Check(&product.Record{
			SourceURL: "https://www.example.nl/koptelefoons/ath-m50x",
			Title:     "Audio-Technica ATH-M50X koptelefoon",
		})
		require.False(t, ok)
		require.Equal(t, ReasonOffTopicTitle, reason)
	})

	t.Run("missing title", func(t *testing.T) {
		ok, reason := filter.Check(&product.Record{SourceURL: "https://www.example.nl/p/1"})
		require.False(t, ok)
		require.Equal(t, ReasonMissingTitle, reason)
	})

	t.Run("accessory url segment", func(t *testing.T) {
		ok, reason := filter.Check(&product.Record{
			SourceURL: "https://www.example.nl/microfoons/statieven/k-m-210",
			Title:     "K&M 210/9",
		})
		require.False(t, ok)
		require.Equal(t, ReasonAccessoryURL, reason)
	})

	t.Run("accessory breadcrumb", func(t *testing.T) {
		ok, reason := filter.Check(&product.Record{
			SourceURL:  "https://www.example.nl/p/1",
			Title:      "K&M 210/9",
			Breadcrumb: product.Breadcrumb{Category: "Statieven"},
		})
		require.False(t, ok)
		require.Equal(t, ReasonAccessoryBreadcrumb, reason)
	})

	t.Run("accessory title", func(t *testing.T) {
		ok, reason := filter.Check(&product.Record{
			SourceURL: "https://www.example.nl/p/2",
			Title:     "XLR kabel 5 meter",
		})
		require.False(t, ok)
		require.Equal(t, ReasonAccessoryTitle, reason)
	})
}

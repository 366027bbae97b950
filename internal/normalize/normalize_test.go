package normalize

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/odmbench/harvester/internal/extract"
)

func rawFixture(t *testing.T, sourceURL string, fields map[extract.Field]string) *extract.RawRecord {
	t.Helper()
	raw := extract.NewRawRecord(sourceURL)
	for f, v := range fields {
		require.True(t, raw.Set(f, extract.TierStructured, v))
	}
	return raw
}

func TestNormalizeFullRecord(t *testing.T) {
	now := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
	raw := rawFixture(t, "https://www.example.nl/microfoons/shure-sm58", map[extract.Field]string{
		extract.FieldTitle:            "Shure SM58 Vocal Microphone",
		extract.FieldBrand:            "Shure",
		extract.FieldModel:            "SM58",
		extract.FieldGTIN:             "0042406054874",
		extract.FieldPriceText:        "€ 109,00",
		extract.FieldBasePriceText:    "€ 129,00",
		extract.FieldAvailability:     "https://schema.org/InStock",
		extract.FieldBreadcrumbName:   "Microfoons",
		extract.FieldBreadcrumbParent: "Studio",
		extract.FieldBreadcrumbURL:    "https://www.example.nl/studio/microfoons",
		extract.FieldRatingValue:      "4,6",
		extract.FieldRatingCount:      "212",
	})

	rec := New().Normalize(raw, "run-1", now)

	require.Equal(t, "run-1", rec.RunID)
	require.Equal(t, now, rec.ScrapedAt)
	require.Equal(t, "https://www.example.nl/microfoons/shure-sm58", rec.SourceURL)
	require.Equal(t, "shure shure sm58 vocal microphone sm58", rec.CanonicalName)
	require.Equal(t, "0042406054874", rec.Identifiers.GTIN)

	require.NotNil(t, rec.Price.Current)
	require.InDelta(t, 109.0, *rec.Price.Current, 0.001)
	require.NotNil(t, rec.Price.Base)
	require.InDelta(t, 129.0, *rec.Price.Base, 0.001)
	require.NotNil(t, rec.Price.DiscountAmount)
	require.InDelta(t, 20.0, *rec.Price.DiscountAmount, 0.001)
	require.NotNil(t, rec.Price.DiscountPercent)
	require.InDelta(t, 15.5, *rec.Price.DiscountPercent, 0.01)
	require.Equal(t, "EUR", rec.Price.Currency)

	require.NotNil(t, rec.Stock.InStock)
	require.True(t, *rec.Stock.InStock)

	require.Equal(t, "Microfoons", rec.Breadcrumb.Category)
	require.Equal(t, "Studio", rec.Breadcrumb.Parent)
	require.Equal(t, "https://www.example.nl/studio/microfoons", rec.Breadcrumb.URL)

	require.NotNil(t, rec.Rating.Value)
	require.InDelta(t, 4.6, *rec.Rating.Value, 0.001)
	require.NotNil(t, rec.Rating.Count)
	require.Equal(t, 212, *rec.Rating.Count)
	require.Equal(t, 5, rec.Rating.Scale)
}

func TestNormalizeDiscountGuards(t *testing.T) {
	t.Run("base below current dropped", func(t *testing.T) {
		raw := rawFixture(t, "https://www.example.nl/a/b", map[extract.Field]string{
			extract.FieldPriceText:     "€ 59,95",
			extract.FieldBasePriceText: "€ 49,95",
		})
		rec := New().Normalize(raw, "r", time.Now())
		require.NotNil(t, rec.Price.Current)
		require.Nil(t, rec.Price.Base)
		require.Nil(t, rec.Price.DiscountAmount)
		require.Nil(t, rec.Price.DiscountPercent)
	})

	t.Run("no price at all", func(t *testing.T) {
		raw := rawFixture(t, "https://www.example.nl/a/b", map[extract.Field]string{
			extract.FieldTitle: "Naamloos",
		})
		rec := New().Normalize(raw, "r", time.Now())
		require.Nil(t, rec.Price.Current)
		require.Equal(t, "EUR", rec.Price.Currency)
	})
}

func TestNormalizeBreadcrumbFallback(t *testing.T) {
	t.Run("self-referencing crumb replaced by path", func(t *testing.T) {
		url := "https://www.example.nl/studio/microfoons/shure-sm58"
		raw := rawFixture(t, url, map[extract.Field]string{
			extract.FieldBreadcrumbName: "Shure SM58",
			extract.FieldBreadcrumbURL:  url,
		})
		rec := New().Normalize(raw, "r", time.Now())
		require.Equal(t, "microfoons", rec.Breadcrumb.Category)
		require.Equal(t, "studio", rec.Breadcrumb.Parent)
		require.Equal(t, "https://www.example.nl/studio/microfoons", rec.Breadcrumb.URL)
	})

	t.Run("utility crumb rejected by predicate", func(t *testing.T) {
		raw := rawFixture(t, "https://www.example.nl/item", map[extract.Field]string{
			extract.FieldBreadcrumbName: "Prijzen",
			extract.FieldBreadcrumbURL:  "https://www.example.nl/prijsoverzicht/audio/",
		})
		rec := New().Normalize(raw, "r", time.Now())
		require.Empty(t, rec.Breadcrumb.URL)
	})

	t.Run("marker predicate narrows acceptance", func(t *testing.T) {
		raw := rawFixture(t, "https://www.bol.com/nl/nl/p/sm58/92000001/", map[extract.Field]string{
			extract.FieldBreadcrumbName: "Microfoons",
			extract.FieldBreadcrumbURL:  "https://www.bol.com/nl/nl/l/microfoons/4772/",
		})
		n := New(WithCategoryURLPredicate(CategoryURLWithMarker("/l/")))
		rec := n.Normalize(raw, "r", time.Now())
		require.Equal(t, "https://www.bol.com/nl/nl/l/microfoons/4772/", rec.Breadcrumb.URL)
	})
}

func TestNormalizeRejectsImplausibleValues(t *testing.T) {
	raw := rawFixture(t, "https://www.example.nl/a/b", map[extract.Field]string{
		extract.FieldTitle:       "Iets",
		extract.FieldModel:       "ditiontype",
		extract.FieldGTIN:        "12",
		extract.FieldRatingValue: "9.4",
	})
	rec := New().Normalize(raw, "r", time.Now())
	require.Empty(t, rec.Model)
	require.Empty(t, rec.Identifiers.GTIN)
	require.Nil(t, rec.Rating.Value)
}

func TestNormalizeTruncatesDescription(t *testing.T) {
	raw := rawFixture(t, "https://www.example.nl/a/b", map[extract.Field]string{
		extract.FieldDescription: strings.Repeat("x", 6000),
	})
	rec := New().Normalize(raw, "r", time.Now())
	require.Len(t, rec.Description, 5000)
}

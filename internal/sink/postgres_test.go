package sink

import (
	"context"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/require"

	"github.com/odmbench/harvester/internal/product"
	"github.com/odmbench/harvester/internal/runmeta"
)

func sampleRecord() product.Record {
	price := 109.0
	inStock := true
	return product.Record{
		RunID:         "run-1",
		ScrapedAt:     time.Unix(1700000000, 0).UTC(),
		SourceURL:     "https://www.example.nl/p/sm58",
		Title:         "Shure SM58",
		CanonicalName: "shure shure sm58 sm58",
		Brand:         "Shure",
		Model:         "SM58",
		Identifiers:   product.Identifiers{GTIN: "0042406054874"},
		Price:         product.Price{Current: &price, Currency: "EUR"},
		Stock:         product.Stock{InStock: &inStock, StatusText: "Op voorraad"},
		Breadcrumb:    product.Breadcrumb{Category: "Microfoons", URL: "https://www.example.nl/l/mics"},
		Rating:        product.Rating{Scale: 5},
		ListingKey:    12345,
		ProductKey:    67890,
	}
}

func TestPostgresSinkWriteUpserts(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	s, err := NewPostgresSinkWithPool(mock, "products", "runs")
	require.NoError(t, err)

	rec := sampleRecord()
	mock.ExpectExec("INSERT INTO products").
		WithArgs(
			int64(rec.ListingKey),
			int64(rec.ProductKey),
			rec.RunID,
			rec.ScrapedAt,
			rec.SourceURL,
			rec.CanonicalName,
			rec.Title,
			rec.Brand,
			rec.Model,
			rec.Description,
			rec.ImageURL,
			rec.Identifiers.GTIN,
			rec.Identifiers.MPN,
			rec.Identifiers.SKU,
			rec.Price.Current,
			rec.Price.Base,
			rec.Price.DiscountAmount,
			rec.Price.DiscountPercent,
			rec.Price.Currency,
			rec.Stock.InStock,
			rec.Stock.StatusText,
			rec.Breadcrumb.Category,
			rec.Breadcrumb.Parent,
			rec.Breadcrumb.URL,
			rec.Rating.Value,
			rec.Rating.Count,
		).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	require.NoError(t, s.Write(context.Background(), rec))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresSinkSaveRun(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	s, err := NewPostgresSinkWithPool(mock, "", "")
	require.NoError(t, err)

	run := runmeta.Run{
		ID:        "9f3a6c1e-0000-4000-8000-000000000000",
		StartedAt: time.Unix(1700000000, 0).UTC(),
		Seeds:     []string{"https://www.example.nl/l/mics"},
		Hosts:     []string{"www.example.nl"},
		Settings:  map[string]any{"workers": 4},
	}

	mock.ExpectExec("INSERT INTO runs").
		WithArgs(
			run.ID,
			run.StartedAt,
			run.FinishedAt,
			run.Seeds,
			run.Hosts,
			[]byte(`{"workers":4}`),
		).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	require.NoError(t, s.SaveRun(context.Background(), run))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresSinkRejectsBadTableName(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	_, err = NewPostgresSinkWithPool(mock, "products; drop table", "runs")
	require.Error(t, err)
}

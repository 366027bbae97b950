package sink

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/odmbench/harvester/internal/product"
	"github.com/odmbench/harvester/internal/runmeta"
)

var validTableName = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// PostgresConfig controls the connection pool behind the Postgres sink.
type PostgresConfig struct {
	DSN             string
	ProductsTable   string
	RunsTable       string
	MaxConns        int32
	MinConns        int32
	MaxConnLifetime time.Duration
}

type execCloser interface {
	Exec(context.Context, string, ...any) (pgconn.CommandTag, error)
	Close()
}

// PostgresSink upserts product records keyed by listing key and records run
// metadata. Re-crawling a URL updates the existing row in place.
type PostgresSink struct {
	pool          execCloser
	productsTable string
	runsTable     string
}

// NewPostgresSink creates a Postgres-backed sink using the provided config.
func NewPostgresSink(ctx context.Context, cfg PostgresConfig) (*PostgresSink, error) {
	if cfg.DSN == "" {
		return nil, fmt.Errorf("database dsn is required")
	}
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("parse postgres dsn: %w", err)
	}
	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}
	if cfg.MinConns > 0 {
		poolCfg.MinConns = cfg.MinConns
	}
	if cfg.MaxConnLifetime > 0 {
		poolCfg.MaxConnLifetime = cfg.MaxConnLifetime
	}
	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	return newPostgresSink(pool, cfg.ProductsTable, cfg.RunsTable)
}

// NewPostgresSinkWithPool constructs a sink from an existing pool (primarily
// for testing).
func NewPostgresSinkWithPool(pool execCloser, productsTable, runsTable string) (*PostgresSink, error) {
	if pool == nil {
		return nil, fmt.Errorf("pool is required")
	}
	return newPostgresSink(pool, productsTable, runsTable)
}

func newPostgresSink(pool execCloser, productsTable, runsTable string) (*PostgresSink, error) {
	if productsTable == "" {
		productsTable = "products"
	}
	if runsTable == "" {
		runsTable = "runs"
	}
	for _, table := range []string{productsTable, runsTable} {
		if !validTableName.MatchString(table) {
			return nil, fmt.Errorf("invalid table name %q", table)
		}
	}
	return &PostgresSink{
		pool:          pool,
		productsTable: productsTable,
		runsTable:     runsTable,
	}, nil
}

// Write upserts the record, keyed by listing_key.
func (s *PostgresSink) Write(ctx context.Context, rec product.Record) error {
	if s == nil || s.pool == nil {
		return fmt.Errorf("postgres sink is not configured")
	}
	query := fmt.Sprintf(`
INSERT INTO %s (
	listing_key, product_key, run_id, scraped_at, source_url,
	canonical_name, title, brand, model, description, image_url,
	gtin, mpn, sku,
	price_current, price_base, discount_amount, discount_percent, currency,
	in_stock, stock_text,
	category, category_parent, category_url,
	rating_value, rating_count
) VALUES (
	$1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21,$22,$23,$24,$25,$26
)
ON CONFLICT (listing_key) DO UPDATE SET
	product_key = EXCLUDED.product_key,
	run_id = EXCLUDED.run_id,
	scraped_at = EXCLUDED.scraped_at,
	canonical_name = EXCLUDED.canonical_name,
	title = EXCLUDED.title,
	brand = EXCLUDED.brand,
	model = EXCLUDED.model,
	description = EXCLUDED.description,
	image_url = EXCLUDED.image_url,
	gtin = EXCLUDED.gtin,
	mpn = EXCLUDED.mpn,
	sku = EXCLUDED.sku,
	price_current = EXCLUDED.price_current,
	price_base = EXCLUDED.price_base,
	discount_amount = EXCLUDED.discount_amount,
	discount_percent = EXCLUDED.discount_percent,
	currency = EXCLUDED.currency,
	in_stock = EXCLUDED.in_stock,
	stock_text = EXCLUDED.stock_text,
	category = EXCLUDED.category,
	category_parent = EXCLUDED.category_parent,
	category_url = EXCLUDED.category_url,
	rating_value = EXCLUDED.rating_value,
	rating_count = EXCLUDED.rating_count`, s.productsTable)

	args := []any{
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
	}
	if _, err := s.pool.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert product: %w", err)
	}
	return nil
}

// SaveRun inserts (or refreshes) the run metadata row.
func (s *PostgresSink) SaveRun(ctx context.Context, run runmeta.Run) error {
	if s == nil || s.pool == nil {
		return fmt.Errorf("postgres sink is not configured")
	}
	settings, err := json.Marshal(run.Settings)
	if err != nil {
		return fmt.Errorf("marshal run settings: %w", err)
	}
	query := fmt.Sprintf(`
INSERT INTO %s (run_id, started_at, finished_at, seeds, hosts, settings)
VALUES ($1,$2,$3,$4,$5,$6)
ON CONFLICT (run_id) DO UPDATE SET
	finished_at = EXCLUDED.finished_at,
	settings = EXCLUDED.settings`, s.runsTable)

	args := []any{
		run.ID,
		run.StartedAt,
		run.FinishedAt,
		run.Seeds,
		run.Hosts,
		settings,
	}
	if _, err := s.pool.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("save run: %w", err)
	}
	return nil
}

// Close releases the underlying pool resources.
func (s *PostgresSink) Close(context.Context) error {
	if s == nil || s.pool == nil {
		return nil
	}
	s.pool.Close()
	return nil
}

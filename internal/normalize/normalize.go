package normalize

import (
	"strconv"
	"strings"
	"time"

	"github.com/odmbench/harvester/internal/extract"
	"github.com/odmbench/harvester/internal/product"
)

const (
	defaultCurrency   = "EUR"
	defaultScale      = 5
	maxDescriptionLen = 5000
)

// Normalizer turns a raw extraction record into a typed product record.
// Pure and deterministic; keys and the accept/reject policy are applied
// downstream.
type Normalizer struct {
	categoryURL CategoryURLPredicate
	currency    string
}

// Option configures a Normalizer.
type Option func(*Normalizer)

// WithCategoryURLPredicate replaces the category URL shape check.
func WithCategoryURLPredicate(pred CategoryURLPredicate) Option {
	return func(n *Normalizer) {
		if pred != nil {
			n.categoryURL = pred
		}
	}
}

// WithDefaultCurrency sets the currency assumed when the page names none.
func WithDefaultCurrency(code string) Option {
	return func(n *Normalizer) {
		if code != "" {
			n.currency = code
		}
	}
}

// New builds a Normalizer with the default EUR currency and category check.
func New(opts ...Option) *Normalizer {
	n := &Normalizer{
		categoryURL: DefaultCategoryURL,
		currency:    defaultCurrency,
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Normalize converts raw into a canonical record. Fields that exhausted all
// extraction tiers stay zero-valued; a sparse record is not an error.
func (n *Normalizer) Normalize(raw *extract.RawRecord, runID string, scrapedAt time.Time) product.Record {
	rec := product.Record{
		RunID:     runID,
		ScrapedAt: scrapedAt,
		SourceURL: raw.SourceURL,
		Title:     raw.Get(extract.FieldTitle),
		Brand:     raw.Get(extract.FieldBrand),
		Model:     PlausibleModel(raw.Get(extract.FieldModel)),
		ImageURL:  raw.Get(extract.FieldImageURL),
		Identifiers: product.Identifiers{
			GTIN: CleanGTIN(raw.Get(extract.FieldGTIN)),
			MPN:  raw.Get(extract.FieldMPN),
			SKU:  raw.Get(extract.FieldSKU),
		},
	}

	if desc := raw.Get(extract.FieldDescription); len(desc) > maxDescriptionLen {
		rec.Description = desc[:maxDescriptionLen]
	} else {
		rec.Description = desc
	}

	rec.Price = n.normalizePrice(raw)
	rec.Stock = normalizeStock(raw)
	rec.Breadcrumb = n.normalizeBreadcrumb(raw)
	rec.Rating = normalizeRating(raw)
	rec.CanonicalName = CanonicalName(rec.Brand, rec.Title, rec.Model)
	if rec.CanonicalName == "" {
		rec.CanonicalName = CanonicalName("", rec.Title, "")
	}
	return rec
}

func (n *Normalizer) normalizePrice(raw *extract.RawRecord) product.Price {
	price := product.Price{
		Currency: n.currency,
		RawText:  raw.Get(extract.FieldPriceText),
	}
	if code := raw.Get(extract.FieldCurrency); code != "" {
		price.Currency = code
	}

	current, haveCurrent := ParsePrice(raw.Get(extract.FieldPriceText))
	if !haveCurrent {
		return price
	}
	price.Current = &current

	base, haveBase := ParsePrice(raw.Get(extract.FieldBasePriceText))
	if !haveBase {
		return price
	}
	if amount, percent, ok := Discount(base, current); ok {
		price.Base = &base
		price.DiscountAmount = &amount
		price.DiscountPercent = &percent
	}
	return price
}

func normalizeStock(raw *extract.RawRecord) product.Stock {
	availability := raw.Get(extract.FieldAvailability)
	stockText := raw.Get(extract.FieldStockText)
	status := availability
	if status == "" {
		status = stockText
	}
	return product.Stock{
		InStock:    InferStock(availability, stockText),
		StatusText: status,
	}
}

func (n *Normalizer) normalizeBreadcrumb(raw *extract.RawRecord) product.Breadcrumb {
	crumbURL := raw.Get(extract.FieldBreadcrumbURL)
	if crumbURL != "" && crumbURL != raw.SourceURL && n.categoryURL(crumbURL) {
		return product.Breadcrumb{
			Category: raw.Get(extract.FieldBreadcrumbName),
			Parent:   raw.Get(extract.FieldBreadcrumbParent),
			URL:      crumbURL,
		}
	}

	names, urls := PseudoBreadcrumb(raw.SourceURL)
	for i := len(names) - 1; i >= 0; i-- {
		if !n.categoryURL(urls[i]) {
			continue
		}
		crumb := product.Breadcrumb{Category: names[i], URL: urls[i]}
		if i >= 1 {
			crumb.Parent = names[i-1]
		}
		return crumb
	}
	return product.Breadcrumb{}
}

func normalizeRating(raw *extract.RawRecord) product.Rating {
	rating := product.Rating{Scale: defaultScale}
	if text := raw.Get(extract.FieldRatingValue); text != "" {
		text = strings.ReplaceAll(text, ",", ".")
		if value, err := strconv.ParseFloat(text, 64); err == nil && value >= 0 && value <= float64(rating.Scale) {
			rating.Value = &value
		}
	}
	if text := raw.Get(extract.FieldRatingCount); text != "" {
		if count, err := strconv.Atoi(text); err == nil && count >= 0 {
			rating.Count = &count
		}
	}
	return rating
}

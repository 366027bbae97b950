// Package extract populates a raw field set from a product page using an
// ordered fallback chain of extractors: embedded JSON-LD structured data,
// microdata/meta markup, scoped CSS heuristics, and finally regex over
// visible text. A field claimed by a higher tier is never overwritten by a
// lower one; the tier that produced each field is retained for downstream
// confidence heuristics.
package extract

import (
	"regexp"
	"strings"
)

// Tier identifies which extraction method supplied a field.
type Tier int

// Tiers in precedence order. Lower value wins.
const (
	TierStructured Tier = iota + 1
	TierMicrodata
	TierHeuristic
	TierRegex
)

// String returns a short label used in diagnostics.
func (t Tier) String() string {
	switch t {
	case TierStructured:
		return "structured"
	case TierMicrodata:
		return "microdata"
	case TierHeuristic:
		return "heuristic"
	case TierRegex:
		return "regex"
	default:
		return "unknown"
	}
}

// Field names a logical slot in the raw record.
type Field string

// Raw record fields.
const (
	FieldTitle            Field = "title"
	FieldBrand            Field = "brand"
	FieldModel            Field = "model"
	FieldGTIN             Field = "gtin"
	FieldMPN              Field = "mpn"
	FieldSKU              Field = "sku"
	FieldImageURL         Field = "image_url"
	FieldDescription      Field = "description"
	FieldPriceText        Field = "price_text"
	FieldBasePriceText    Field = "base_price_text"
	FieldCurrency         Field = "currency"
	FieldAvailability     Field = "availability"
	FieldStockText        Field = "stock_text"
	FieldBreadcrumbName   Field = "breadcrumb_category"
	FieldBreadcrumbParent Field = "breadcrumb_parent"
	FieldBreadcrumbURL    Field = "breadcrumb_url"
	FieldRatingValue      Field = "rating_value"
	FieldRatingCount      Field = "rating_count"
)

// RawRecord is the fixed-shape intermediate record. Empty string means the
// field was not extracted. Provenance maps each populated field to the tier
// that claimed it.
type RawRecord struct {
	SourceURL  string
	Fields     map[Field]string
	Provenance map[Field]Tier
}

// NewRawRecord returns an empty record for the given page URL.
func NewRawRecord(sourceURL string) *RawRecord {
	return &RawRecord{
		SourceURL:  sourceURL,
		Fields:     make(map[Field]string),
		Provenance: make(map[Field]Tier),
	}
}

// Get returns the value for a field, empty when unset.
func (r *RawRecord) Get(f Field) string {
	return r.Fields[f]
}

// Has reports whether the field has been claimed by any tier.
func (r *RawRecord) Has(f Field) bool {
	_, ok := r.Fields[f]
	return ok
}

// TierOf returns the tier that populated the field, zero when unset.
func (r *RawRecord) TierOf(f Field) Tier {
	return r.Provenance[f]
}

// Set stores value for field unless a higher-or-equal precedence tier already
// claimed it. Blank values are ignored. It reports whether the value was kept.
func (r *RawRecord) Set(f Field, tier Tier, value string) bool {
	value = CleanText(value)
	if value == "" {
		return false
	}
	if existing, ok := r.Provenance[f]; ok && existing <= tier {
		return false
	}
	r.Fields[f] = value
	r.Provenance[f] = tier
	return true
}

var whitespaceRun = regexp.MustCompile(`\s+`)

// CleanText collapses whitespace runs to single spaces and trims the result.
func CleanText(s string) string {
	return strings.TrimSpace(whitespaceRun.ReplaceAllString(s, " "))
}

package extract

import "regexp"

// Last-resort patterns over visible text. Restricted to identifiers and
// coarse price text; anything richer belongs to the scoped heuristic tier.
var (
	gtinPattern  = regexp.MustCompile(`(?i)\b(?:EAN|GTIN)\b\D{0,30}(\d{8,14})\b`)
	mpnPattern   = regexp.MustCompile(`(?i)\b(?:MPN|Artikelnummer|Part number|Onderdeelnummer)\b\D{0,30}([A-Z0-9][A-Z0-9\-_/.]{2,})`)
	modelPattern = regexp.MustCompile(`(?i)\b(?:Model|Modelnummer|Typenummer)\b\D{0,30}([A-Z0-9][A-Z0-9\-_/.]{2,})`)
	pricePattern = regexp.MustCompile(`€\s*\d{1,3}(?:[.\s]\d{3})*(?:,\d{2}|,-)?|\b\d{1,3}(?:\.\d{3})*,\d{2}\b`)
	hasDigit     = regexp.MustCompile(`\d`)
)

// regexExtractor is the fourth and lowest tier.
type regexExtractor struct{}

func (regexExtractor) Name() string { return "regex" }

func (regexExtractor) Extract(page *PageDocument, rec *RawRecord) {
	if rec.Has(FieldGTIN) && rec.Has(FieldMPN) && rec.Has(FieldModel) && rec.Has(FieldPriceText) {
		return
	}
	text := page.VisibleText()
	if text == "" {
		return
	}

	if m := gtinPattern.FindStringSubmatch(text); m != nil {
		rec.Set(FieldGTIN, TierRegex, m[1])
	}
	if m := mpnPattern.FindStringSubmatch(text); m != nil {
		rec.Set(FieldMPN, TierRegex, m[1])
	}
	if m := modelPattern.FindStringSubmatch(text); m != nil && hasDigit.MatchString(m[1]) {
		rec.Set(FieldModel, TierRegex, m[1])
	}
	if m := pricePattern.FindString(text); m != "" {
		rec.Set(FieldPriceText, TierRegex, m)
	}
}

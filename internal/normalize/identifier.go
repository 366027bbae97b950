package normalize

import (
	"regexp"
	"strings"
)

// Garbage tokens produced by earlier loose regex captures on retailer pages.
var junkModels = map[string]struct{}{
	"ditiontype":    {},
	"editiontype":   {},
	"conditiontype": {},
}

var gtinDigits = regexp.MustCompile(`^\d{8,14}$`)

// PlausibleModel filters out model strings that cannot be real model numbers:
// too short, sentence-length text, or known regex junk.
func PlausibleModel(model string) string {
	model = strings.TrimSpace(model)
	if model == "" {
		return ""
	}
	if _, junk := junkModels[strings.ToLower(model)]; junk {
		return ""
	}
	if len(model) < 2 {
		return ""
	}
	if len(model) > 30 && strings.Contains(model, " ") {
		return ""
	}
	return model
}

// CleanGTIN accepts only 8-14 digit identifiers, stripping separators first.
func CleanGTIN(gtin string) string {
	gtin = strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, gtin)
	if !gtinDigits.MatchString(gtin) {
		return ""
	}
	return gtin
}

var nonAlnum = regexp.MustCompile(`[^a-z0-9]+`)

// CanonicalName builds the stable product name: brand + title + model,
// lowercased, non-alphanumerics collapsed to single spaces. Falls back to the
// title alone when brand and model are absent; empty only when the title is.
func CanonicalName(brand, title, model string) string {
	parts := make([]string, 0, 3)
	for _, p := range []string{brand, title, model} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	if len(parts) == 0 {
		return ""
	}
	joined := strings.ToLower(strings.Join(parts, " "))
	joined = nonAlnum.ReplaceAllString(joined, " ")
	return strings.TrimSpace(joined)
}

package normalize

import "strings"

// Dutch/English phrase vocabularies for stock inference on text signals.
// Structured schema.org availability values always win over these.
var (
	outOfStockPhrases = []string{
		"niet leverbaar",
		"uitverkocht",
		"tijdelijk niet beschikbaar",
		"niet op voorraad",
		"out of stock",
		"sold out",
		"currently unavailable",
	}
	inStockPhrases = []string{
		"op voorraad",
		"morgen in huis",
		"voor 23:59",
		"leverbaar",
		"direct beschikbaar",
		"in stock",
		"ships today",
	}
)

// InferStock maps the structured availability value and free buy-block text
// to a tri-state. nil means unknown.
func InferStock(availability, stockText string) *bool {
	if availability != "" {
		switch {
		case strings.Contains(availability, "InStock"),
			strings.Contains(availability, "LimitedAvailability"),
			strings.Contains(availability, "PreOrder"):
			return boolPtr(true)
		case strings.Contains(availability, "OutOfStock"),
			strings.Contains(availability, "Discontinued"),
			strings.Contains(availability, "SoldOut"):
			return boolPtr(false)
		}
	}
	if stockText == "" {
		return nil
	}
	lower := strings.ToLower(stockText)
	// Negative phrases first: "tijdelijk niet leverbaar" also contains
	// "leverbaar".
	for _, phrase := range outOfStockPhrases {
		if strings.Contains(lower, phrase) {
			return boolPtr(false)
		}
	}
	for _, phrase := range inStockPhrases {
		if strings.Contains(lower, phrase) {
			return boolPtr(true)
		}
	}
	return nil
}

func boolPtr(v bool) *bool { return &v }

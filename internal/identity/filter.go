package identity

import (
	"github.com/odmbench/harvester/internal/policy"
	"github.com/odmbench/harvester/internal/product"
)

// Reason codes why a record was kept out of the catalog.
const (
	ReasonMissingTitle        = "missing_title"
	ReasonAccessoryURL        = "accessory_url"
	ReasonAccessoryBreadcrumb = "accessory_breadcrumb"
	ReasonAccessoryTitle      = "accessory_title"
	ReasonOffTopicTitle       = "off_topic_title"
)

// Filter decides whether a normalized record belongs in the catalog.
type Filter struct {
	vocab policy.Vocabulary
}

// NewFilter builds a Filter over the given vocabulary.
func NewFilter(vocab policy.Vocabulary) *Filter {
	return &Filter{vocab: vocab}
}

// Check returns ok=true for catalog records. For rejected records it returns
// a reason code suitable for metrics labels and log fields.
func (f *Filter) Check(rec *product.Record) (ok bool, reason string) {
	if rec.Title == "" {
		return false, ReasonMissingTitle
	}
	if term := f.vocab.AccessoryInURL(rec.SourceURL); term != "" {
		return false, ReasonAccessoryURL
	}
	if term := f.vocab.AccessoryTerm(rec.Breadcrumb.Category); term != "" {
		return false, ReasonAccessoryBreadcrumb
	}
	if term := f.vocab.AccessoryTerm(rec.Title); term != "" {
		return false, ReasonAccessoryTitle
	}
	if !f.vocab.IsPriority(rec.Title) {
		return false, ReasonOffTopicTitle
	}
	return true, ""
}

// Package product defines the canonical, normalized record emitted by the
// harvesting pipeline. Records are immutable once emitted; the sink owns them
// afterwards.
package product

import "time"

// Identifiers groups the machine identifiers a retailer may expose for a product.
type Identifiers struct {
	GTIN string `json:"gtin,omitempty"`
	MPN  string `json:"mpn,omitempty"`
	SKU  string `json:"sku,omitempty"`
}

// Price is the normalized price snapshot for a product page.
// BasePrice is only set when a reference price was found that is >= the
// current price; Discount fields are nil otherwise.
type Price struct {
	Current         *float64 `json:"current,omitempty"`
	Base            *float64 `json:"base,omitempty"`
	DiscountAmount  *float64 `json:"discount_amount,omitempty"`
	DiscountPercent *float64 `json:"discount_percent,omitempty"`
	Currency        string   `json:"currency,omitempty"`
	RawText         string   `json:"raw_text,omitempty"`
}

// Stock carries the tri-state availability. InStock nil means unknown.
type Stock struct {
	InStock    *bool  `json:"in_stock,omitempty"`
	StatusText string `json:"status_text,omitempty"`
}

// Breadcrumb is the resolved category lineage of a product.
type Breadcrumb struct {
	Category string `json:"category,omitempty"`
	Parent   string `json:"parent,omitempty"`
	URL      string `json:"url,omitempty"`
}

// Rating is the aggregate review signal when the retailer exposes one.
type Rating struct {
	Value *float64 `json:"value,omitempty"`
	Scale int      `json:"scale,omitempty"`
	Count *int     `json:"count,omitempty"`
}

// Record is the canonical product record.
// CanonicalName is never empty when a title was extracted.
type Record struct {
	RunID         string      `json:"run_id"`
	ScrapedAt     time.Time   `json:"scraped_at"`
	SourceURL     string      `json:"source_url"`
	Title         string      `json:"title,omitempty"`
	CanonicalName string      `json:"canonical_name"`
	Brand         string      `json:"brand,omitempty"`
	Model         string      `json:"model,omitempty"`
	Description   string      `json:"description,omitempty"`
	ImageURL      string      `json:"image_url,omitempty"`
	Identifiers   Identifiers `json:"identifiers"`
	Price         Price       `json:"price"`
	Stock         Stock       `json:"stock"`
	Breadcrumb    Breadcrumb  `json:"breadcrumb"`
	Rating        Rating      `json:"rating"`
	ListingKey    uint64      `json:"listing_key"`
	ProductKey    uint64      `json:"product_key"`
}

// Package identity assigns stable numeric keys to harvested records and
// applies the catalog membership filter. Keys survive re-crawls: the same
// canonical URL or canonical name always hashes to the same key, so sinks can
// upsert instead of append.
package identity

import (
	"crypto/sha256"
	"encoding/binary"

	"github.com/odmbench/harvester/internal/product"
)

// Key63 hashes the input to a stable non-negative 63-bit integer. The top bit
// is cleared so the value round-trips through signed BIGINT columns.
func Key63(input string) uint64 {
	sum := sha256.Sum256([]byte(input))
	return binary.BigEndian.Uint64(sum[:8]) &^ (uint64(1) << 63)
}

// ListingKey keys a record by the canonical page URL.
func ListingKey(canonicalURL string) uint64 {
	return Key63(canonicalURL)
}

// ProductKey keys a record by its canonical name, falling back to the URL when
// no name could be built. Two retailers listing the same product under the
// same canonical name share a product key.
func ProductKey(canonicalName, canonicalURL string) uint64 {
	if canonicalName != "" {
		return Key63(canonicalName)
	}
	return Key63(canonicalURL)
}

// AssignKeys fills both key fields on the record in place.
func AssignKeys(rec *product.Record) {
	rec.ListingKey = ListingKey(rec.SourceURL)
	rec.ProductKey = ProductKey(rec.CanonicalName, rec.SourceURL)
}

// Package cart provides the cart item model carried inside an order's raw
// item payload. Items in the same order may name different stores; the
// multi-store detector groups them by store.
package cart

import (
	"driverapp/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

// Item is one line of an order's cart. It is deserialized from the order's
// raw items payload, so fields are exported and tagged rather than guarded
// by a constructor; Validate covers the invariants the payload must satisfy.
type Item struct {
	// ProductName is the display name of the product.
	ProductName string `json:"productName"`

	// StoreName names the store the item belongs to. It may be empty for
	// legacy payloads; the detector collects such items under a sentinel
	// group.
	StoreName string `json:"storeName,omitempty"`

	// Quantity is the ordered amount. Must be positive.
	Quantity int `json:"quantity"`

	// UnitPrice is the per-unit price. Nil when the payload carries no
	// price; a missing price contributes zero to group totals.
	UnitPrice *decimal.Decimal `json:"price,omitempty"`

	// Note is an optional free-text note attached by the client.
	Note string `json:"note,omitempty"`

	// ImageBase64 optionally embeds a product image.
	ImageBase64 string `json:"imageBase64,omitempty"`

	// ProductRef optionally references the full product record.
	ProductRef string `json:"productRef,omitempty"`
}

// Validate checks the item invariants.
func (i Item) Validate() error {
	if i.ProductName == "" {
		return errs.NewValueIsRequiredError("productName")
	}
	if i.Quantity <= 0 {
		return errs.NewValueIsOutOfRangeError("quantity", i.Quantity, 1, int(^uint(0)>>1))
	}
	return nil
}

// LineTotal returns UnitPrice × Quantity, treating a missing price as zero.
func (i Item) LineTotal() decimal.Decimal {
	if i.UnitPrice == nil {
		return decimal.Zero
	}
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

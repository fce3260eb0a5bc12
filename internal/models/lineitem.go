package models

import (
	"github.com/shopspring/decimal"
)

// LineItem is one sales row in canonical form: a product name with paid and
// refund figures for quantity, transaction count, and amount. Net values are
// derived as paid minus refund and may be negative for refund-heavy items;
// they are never clamped.
//
// A LineItem is created once by the normalizer. The category fields are
// assigned exactly once, by the rule engine or by the fallback classifier,
// and never touched again. Category assignment never modifies the numeric
// fields.
type LineItem struct {
	ProductName string `json:"productName"`

	PaidQuantity   int64 `json:"paidQuantity"`
	RefundQuantity int64 `json:"refundQuantity"`
	PaidCount      int64 `json:"paidCount"`
	RefundCount    int64 `json:"refundCount"`

	PaidAmount   decimal.Decimal `json:"paidAmount"`
	RefundAmount decimal.Decimal `json:"refundAmount"`

	// Major and Minor are empty until classification resolves them.
	Major string `json:"majorCategory,omitempty"`
	Minor string `json:"minorCategory,omitempty"`

	// Share is the item's percentage of the period's total net quantity,
	// assigned after period totals are known. Zero until then.
	Share float64 `json:"share,omitempty"`

	// Extra carries source columns the core does not interpret, so exports
	// can round-trip them.
	Extra map[string]string `json:"-"`
}

// NetQuantity returns paid quantity minus refunded quantity.
func (li *LineItem) NetQuantity() int64 {
	return li.PaidQuantity - li.RefundQuantity
}

// NetCount returns paid transaction count minus refunded transaction count.
func (li *LineItem) NetCount() int64 {
	return li.PaidCount - li.RefundCount
}

// NetAmount returns paid amount minus refunded amount.
func (li *LineItem) NetAmount() decimal.Decimal {
	return li.PaidAmount.Sub(li.RefundAmount)
}

// Classified reports whether a category pair has been assigned.
func (li *LineItem) Classified() bool {
	return li.Major != ""
}

// AssignCategory sets the category pair. The first assignment wins; later
// calls are ignored so the mutate-once lifecycle holds even if a caller
// misroutes an already-classified item.
func (li *LineItem) AssignCategory(pair CategoryPair) {
	if li.Classified() {
		return
	}
	li.Major = pair.Major
	li.Minor = pair.Minor
}

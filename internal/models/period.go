package models

import (
	"github.com/shopspring/decimal"
)

// Period is one uploaded dataset: an ordered, non-empty collection of line
// items plus totals derived from them. Periods compare in upload order; for
// exactly two periods that order means before/after.
//
// Totals are recomputed whenever the item collection is established and are
// read-only afterward.
type Period struct {
	Label string     `json:"label"`
	Items []LineItem `json:"items"`

	TotalGrossAmount decimal.Decimal `json:"totalGrossAmount"`
	TotalNetAmount   decimal.Decimal `json:"totalNetAmount"`
	TotalNetQuantity int64           `json:"totalNetQuantity"`
	TotalNetCount    int64           `json:"totalNetCount"`
}

// NewPeriod builds a Period from items and derives its totals.
func NewPeriod(label string, items []LineItem) *Period {
	p := &Period{Label: label, Items: items}
	p.RecomputeTotals()
	return p
}

// RecomputeTotals rederives the period totals from the current items.
func (p *Period) RecomputeTotals() {
	gross := decimal.Zero
	net := decimal.Zero
	var qty, count int64

	for i := range p.Items {
		item := &p.Items[i]
		gross = gross.Add(item.PaidAmount)
		net = net.Add(item.NetAmount())
		qty += item.NetQuantity()
		count += item.NetCount()
	}

	p.TotalGrossAmount = gross
	p.TotalNetAmount = net
	p.TotalNetQuantity = qty
	p.TotalNetCount = count
}

// AssignShares sets each item's share as a percentage of the period's total
// net quantity. A zero total yields zero shares for every item.
func (p *Period) AssignShares() {
	if p.TotalNetQuantity == 0 {
		for i := range p.Items {
			p.Items[i].Share = 0
		}
		return
	}
	total := float64(p.TotalNetQuantity)
	for i := range p.Items {
		p.Items[i].Share = float64(p.Items[i].NetQuantity()) / total * 100
	}
}

// UnclassifiedNames returns the distinct product names of items that still
// have no category, in first-seen order.
func (p *Period) UnclassifiedNames() []string {
	seen := make(map[string]struct{})
	var names []string
	for i := range p.Items {
		item := &p.Items[i]
		if item.Classified() {
			continue
		}
		if _, ok := seen[item.ProductName]; ok {
			continue
		}
		seen[item.ProductName] = struct{}{}
		names = append(names, item.ProductName)
	}
	return names
}

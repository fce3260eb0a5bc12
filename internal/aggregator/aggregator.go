// Package aggregator builds the major→minor→product rollup tree from
// classified line items, computes hierarchical shares, and compares periods.
package aggregator

import (
	"github.com/shopspring/decimal"

	"hkim/sales-report/internal/models"
)

// Metrics is the per-period 3-tuple accumulated at every tree level.
// Values are net (paid minus refund) and may be negative.
type Metrics struct {
	Quantity int64           `json:"netQuantity"`
	Amount   decimal.Decimal `json:"netAmount"`
	Count    int64           `json:"netCount"`
}

func (m *Metrics) add(item *models.LineItem) {
	m.Quantity += item.NetQuantity()
	m.Amount = m.Amount.Add(item.NetAmount())
	m.Count += item.NetCount()
}

// Growth is the period-over-period comparison of a node, defined only when
// exactly two periods are aggregated.
type Growth struct {
	DeltaQuantity   int64           `json:"deltaQuantity"`
	DeltaAmount     decimal.Decimal `json:"deltaAmount"`
	DeltaCount      int64           `json:"deltaCount"`
	QuantityPercent float64         `json:"quantityPercent"`
	AmountPercent   float64         `json:"amountPercent"`
}

// ProductNode is a leaf of the rollup tree: one product name.
type ProductNode struct {
	Name      string    `json:"name"`
	PerPeriod []Metrics `json:"perPeriod"`
	// Shares holds, per period, the product's percentage of the parent
	// minor's net quantity.
	Shares []float64 `json:"shares"`
	Growth *Growth   `json:"growth,omitempty"`
}

// MinorNode groups the products of one minor category.
type MinorNode struct {
	Name      string    `json:"name"`
	PerPeriod []Metrics `json:"perPeriod"`
	Shares    []float64 `json:"shares"`
	Growth    *Growth   `json:"growth,omitempty"`

	Products []*ProductNode `json:"products"`
	index    map[string]*ProductNode
}

// MajorNode groups the minors of one major category.
type MajorNode struct {
	Name      string    `json:"name"`
	PerPeriod []Metrics `json:"perPeriod"`
	Shares    []float64 `json:"shares"`
	Growth    *Growth   `json:"growth,omitempty"`

	Minors []*MinorNode `json:"minors"`
	index  map[string]*MinorNode
}

// PeriodSummary carries one period's label and totals into the report.
type PeriodSummary struct {
	Label            string          `json:"label"`
	TotalGrossAmount decimal.Decimal `json:"totalGrossAmount"`
	TotalNetAmount   decimal.Decimal `json:"totalNetAmount"`
	TotalNetQuantity int64           `json:"totalNetQuantity"`
	TotalNetCount    int64           `json:"totalNetCount"`
}

// Report is the aggregation result: period summaries, the rollup tree, and
// the top-line comparison when exactly two periods were aggregated.
type Report struct {
	Periods []PeriodSummary `json:"periods"`
	Majors  []*MajorNode    `json:"majors"`
	Growth  *Growth         `json:"growth,omitempty"`

	index map[string]*MajorNode
}

// Aggregate builds the rollup tree over the given periods in one pass per
// period. Every node exists as soon as any period contributes an item to it;
// periods contributing nothing to a node leave a zero tuple at their index,
// never a hole, so comparison display stays symmetric.
//
// Items still missing a category fold under the sentinel pair like any other
// category. The engine is stateless and safe to invoke repeatedly.
func Aggregate(periods []*models.Period) *Report {
	n := len(periods)
	report := &Report{
		Periods: make([]PeriodSummary, 0, n),
		index:   make(map[string]*MajorNode),
	}

	for idx, period := range periods {
		report.Periods = append(report.Periods, PeriodSummary{
			Label:            period.Label,
			TotalGrossAmount: period.TotalGrossAmount,
			TotalNetAmount:   period.TotalNetAmount,
			TotalNetQuantity: period.TotalNetQuantity,
			TotalNetCount:    period.TotalNetCount,
		})

		for i := range period.Items {
			item := &period.Items[i]
			major, minor := item.Major, item.Minor
			if major == "" {
				major, minor = models.MajorUnclassified, models.MinorOther
			}

			majorNode := report.major(major, n)
			minorNode := majorNode.minor(minor, n)
			productNode := minorNode.product(item.ProductName, n)

			majorNode.PerPeriod[idx].add(item)
			minorNode.PerPeriod[idx].add(item)
			productNode.PerPeriod[idx].add(item)
		}
	}

	report.computeShares()
	if n == 2 {
		report.computeGrowth()
	}
	return report
}

func (r *Report) major(name string, periods int) *MajorNode {
	if node, ok := r.index[name]; ok {
		return node
	}
	node := &MajorNode{
		Name:      name,
		PerPeriod: make([]Metrics, periods),
		Shares:    make([]float64, periods),
		index:     make(map[string]*MinorNode),
	}
	r.index[name] = node
	r.Majors = append(r.Majors, node)
	return node
}

func (m *MajorNode) minor(name string, periods int) *MinorNode {
	if node, ok := m.index[name]; ok {
		return node
	}
	node := &MinorNode{
		Name:      name,
		PerPeriod: make([]Metrics, periods),
		Shares:    make([]float64, periods),
		index:     make(map[string]*ProductNode),
	}
	m.index[name] = node
	m.Minors = append(m.Minors, node)
	return node
}

func (m *MinorNode) product(name string, periods int) *ProductNode {
	if node, ok := m.index[name]; ok {
		return node
	}
	node := &ProductNode{
		Name:      name,
		PerPeriod: make([]Metrics, periods),
		Shares:    make([]float64, periods),
	}
	m.index[name] = node
	m.Products = append(m.Products, node)
	return node
}

// computeShares fills the quantity-based share percentages at every level:
// major vs period total, minor vs parent major, product vs parent minor.
// Shares divide net quantities even though they are displayed next to amount
// figures; that is a deliberate product decision, not an oversight.
// A zero denominator yields share 0, never a division error.
func (r *Report) computeShares() {
	for _, major := range r.Majors {
		for idx := range r.Periods {
			major.Shares[idx] = sharePercent(major.PerPeriod[idx].Quantity, r.Periods[idx].TotalNetQuantity)
		}
		for _, minor := range major.Minors {
			for idx := range r.Periods {
				minor.Shares[idx] = sharePercent(minor.PerPeriod[idx].Quantity, major.PerPeriod[idx].Quantity)
			}
			for _, product := range minor.Products {
				for idx := range r.Periods {
					product.Shares[idx] = sharePercent(product.PerPeriod[idx].Quantity, minor.PerPeriod[idx].Quantity)
				}
			}
		}
	}
}

func sharePercent(part, whole int64) float64 {
	if whole == 0 {
		return 0
	}
	return float64(part) / float64(whole) * 100
}

// computeGrowth fills the two-period comparison at every tree level and for
// the period top-line.
func (r *Report) computeGrowth() {
	r.Growth = &Growth{
		DeltaQuantity:   r.Periods[1].TotalNetQuantity - r.Periods[0].TotalNetQuantity,
		DeltaAmount:     r.Periods[1].TotalNetAmount.Sub(r.Periods[0].TotalNetAmount),
		DeltaCount:      r.Periods[1].TotalNetCount - r.Periods[0].TotalNetCount,
		QuantityPercent: growthPercent(float64(r.Periods[0].TotalNetQuantity), float64(r.Periods[1].TotalNetQuantity)),
		AmountPercent:   growthPercentDecimal(r.Periods[0].TotalNetAmount, r.Periods[1].TotalNetAmount),
	}
	for _, major := range r.Majors {
		major.Growth = nodeGrowth(major.PerPeriod)
		for _, minor := range major.Minors {
			minor.Growth = nodeGrowth(minor.PerPeriod)
			for _, product := range minor.Products {
				product.Growth = nodeGrowth(product.PerPeriod)
			}
		}
	}
}

func nodeGrowth(perPeriod []Metrics) *Growth {
	prev, curr := perPeriod[0], perPeriod[1]
	return &Growth{
		DeltaQuantity:   curr.Quantity - prev.Quantity,
		DeltaAmount:     curr.Amount.Sub(prev.Amount),
		DeltaCount:      curr.Count - prev.Count,
		QuantityPercent: growthPercent(float64(prev.Quantity), float64(curr.Quantity)),
		AmountPercent:   growthPercentDecimal(prev.Amount, curr.Amount),
	}
}

// growthPercent implements the asymmetric zero rule: a previous value of 0
// yields 100 when the current value is positive and 0 otherwise; any other
// previous value yields the signed percentage change. Never NaN or Inf.
func growthPercent(prev, curr float64) float64 {
	if prev == 0 {
		if curr > 0 {
			return 100
		}
		return 0
	}
	return (curr - prev) / prev * 100
}

func growthPercentDecimal(prev, curr decimal.Decimal) float64 {
	if prev.IsZero() {
		if curr.IsPositive() {
			return 100
		}
		return 0
	}
	return curr.Sub(prev).Div(prev).InexactFloat64() * 100
}

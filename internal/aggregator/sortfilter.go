package aggregator

import (
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/shopspring/decimal"
)

// SortKey selects the metric sibling nodes are ordered by.
type SortKey string

const (
	SortByAmount         SortKey = "amount"
	SortByQuantity       SortKey = "quantity"
	SortByCount          SortKey = "count"
	SortByName           SortKey = "name"
	SortByGrowthAmount   SortKey = "growthAmount"
	SortByGrowthQuantity SortKey = "growthQuantity"
)

// Direction is the sort direction.
type Direction string

const (
	Ascending  Direction = "asc"
	Descending Direction = "desc"
)

// Options controls ordering and filtering of the report tree.
// The zero value means: sort by amount, descending, no filter.
type Options struct {
	SortKey    SortKey
	Direction  Direction
	SearchTerm string
}

// SortAndFilter returns a view of the report with major nodes filtered by
// SearchTerm and every sibling group (majors, each major's minors, each
// minor's products) ordered by the same comparator. Numeric keys compare the
// value summed across all periods; the growth keys compare the signed delta
// and are only valid when exactly two periods were aggregated. Name ordering
// is Korean-collation aware.
//
// Child slices are reordered in place; the filter never removes minors or
// products below a surviving major.
func SortAndFilter(report *Report, opts Options) (*Report, error) {
	if opts.SortKey == "" {
		opts.SortKey = SortByAmount
	}
	if opts.Direction == "" {
		opts.Direction = Descending
	}

	switch opts.SortKey {
	case SortByAmount, SortByQuantity, SortByCount, SortByName:
	case SortByGrowthAmount, SortByGrowthQuantity:
		if len(report.Periods) != 2 {
			return nil, fmt.Errorf("sort key %q requires exactly 2 periods, got %d", opts.SortKey, len(report.Periods))
		}
	default:
		return nil, fmt.Errorf("unknown sort key %q", opts.SortKey)
	}
	if opts.Direction != Ascending && opts.Direction != Descending {
		return nil, fmt.Errorf("unknown sort direction %q", opts.Direction)
	}

	majors := report.Majors
	if term := strings.ToLower(strings.TrimSpace(opts.SearchTerm)); term != "" {
		majors = make([]*MajorNode, 0, len(report.Majors))
		for _, major := range report.Majors {
			if strings.Contains(strings.ToLower(major.Name), term) {
				majors = append(majors, major)
			}
		}
	}

	cmp := newComparator(opts)
	sortMajors(majors, cmp)
	for _, major := range majors {
		sortMinors(major.Minors, cmp)
		for _, minor := range major.Minors {
			sortProducts(minor.Products, cmp)
		}
	}

	return &Report{
		Periods: report.Periods,
		Majors:  majors,
		Growth:  report.Growth,
		index:   report.index,
	}, nil
}

// nodeView is the comparator's uniform view over the three node types.
type nodeView struct {
	name      string
	perPeriod []Metrics
	growth    *Growth
}

type comparator struct {
	key       SortKey
	direction Direction
	collator  *collate.Collator
}

func newComparator(opts Options) *comparator {
	c := &comparator{key: opts.SortKey, direction: opts.Direction}
	if opts.SortKey == SortByName {
		c.collator = collate.New(language.Korean)
	}
	return c
}

// less orders two sibling nodes. Only a consistent per-sibling-group
// ordering is required, not a global total order.
func (c *comparator) less(a, b nodeView) bool {
	r := c.compare(a, b)
	if c.direction == Descending {
		return r > 0
	}
	return r < 0
}

func (c *comparator) compare(a, b nodeView) int {
	switch c.key {
	case SortByName:
		return c.collator.CompareString(a.name, b.name)
	case SortByAmount:
		return totalAmount(a.perPeriod).Cmp(totalAmount(b.perPeriod))
	case SortByQuantity:
		return compareInt64(totalQuantity(a.perPeriod), totalQuantity(b.perPeriod))
	case SortByCount:
		return compareInt64(totalCount(a.perPeriod), totalCount(b.perPeriod))
	case SortByGrowthAmount:
		return a.growth.DeltaAmount.Cmp(b.growth.DeltaAmount)
	case SortByGrowthQuantity:
		return compareInt64(a.growth.DeltaQuantity, b.growth.DeltaQuantity)
	}
	return 0
}

func sortMajors(nodes []*MajorNode, cmp *comparator) {
	sort.SliceStable(nodes, func(i, j int) bool {
		return cmp.less(
			nodeView{nodes[i].Name, nodes[i].PerPeriod, nodes[i].Growth},
			nodeView{nodes[j].Name, nodes[j].PerPeriod, nodes[j].Growth},
		)
	})
}

func sortMinors(nodes []*MinorNode, cmp *comparator) {
	sort.SliceStable(nodes, func(i, j int) bool {
		return cmp.less(
			nodeView{nodes[i].Name, nodes[i].PerPeriod, nodes[i].Growth},
			nodeView{nodes[j].Name, nodes[j].PerPeriod, nodes[j].Growth},
		)
	})
}

func sortProducts(nodes []*ProductNode, cmp *comparator) {
	sort.SliceStable(nodes, func(i, j int) bool {
		return cmp.less(
			nodeView{nodes[i].Name, nodes[i].PerPeriod, nodes[i].Growth},
			nodeView{nodes[j].Name, nodes[j].PerPeriod, nodes[j].Growth},
		)
	})
}

func totalAmount(perPeriod []Metrics) decimal.Decimal {
	total := decimal.Zero
	for _, m := range perPeriod {
		total = total.Add(m.Amount)
	}
	return total
}

func totalQuantity(perPeriod []Metrics) int64 {
	var total int64
	for _, m := range perPeriod {
		total += m.Quantity
	}
	return total
}

func totalCount(perPeriod []Metrics) int64 {
	var total int64
	for _, m := range perPeriod {
		total += m.Count
	}
	return total
}

func compareInt64(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// Package models provides the data structures used throughout the application.
package models

// Sentinel category names for items no rule or mapping could resolve.
// Items carrying this pair flow through aggregation like any other category.
const (
	MajorUnclassified = "unclassified"
	MinorOther        = "other"
)

// CategoryPair is a two-level taxonomy assignment: a major category and a
// minor category beneath it.
type CategoryPair struct {
	Major string `json:"major" yaml:"major"`
	Minor string `json:"minor" yaml:"minor"`
}

// DefaultPair returns the sentinel pair assigned when classification fails.
func DefaultPair() CategoryPair {
	return CategoryPair{Major: MajorUnclassified, Minor: MinorOther}
}

// IsZero reports whether the pair is unset.
func (p CategoryPair) IsZero() bool {
	return p.Major == "" && p.Minor == ""
}

// CategoryMapping is one classification result from the fallback classifier:
// a product name resolved to a category pair. Immutable once produced;
// consumed exactly once to backfill line items.
type CategoryMapping struct {
	ProductName string `json:"productName" yaml:"product_name"`
	Major       string `json:"major" yaml:"major"`
	Minor       string `json:"minor" yaml:"minor"`
}

// Pair returns the mapping's category pair.
func (m CategoryMapping) Pair() CategoryPair {
	return CategoryPair{Major: m.Major, Minor: m.Minor}
}

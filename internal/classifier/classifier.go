// Package classifier maps free-text product names to two-level category
// pairs. Classification runs in three stages: exact-name overrides from the
// mapping store, the ordered keyword rule table, and finally a batched AI
// fallback for whatever is left.
package classifier

import (
	"strings"

	"hkim/sales-report/internal/logging"
	"hkim/sales-report/internal/models"
)

// Classify resolves a product name against the ordered rule table.
// Evaluation is top-to-bottom and stops at the first matching rule; rules
// below a match are never consulted. The boolean is false when only the
// catch-all fired, in which case the returned pair is the sentinel and the
// caller should route the name to the fallback classifier.
//
// Pure and deterministic: no I/O, no state.
func Classify(productName string) (models.CategoryPair, bool) {
	return classifyWith(DefaultRules, productName)
}

func classifyWith(rules []Rule, productName string) (models.CategoryPair, bool) {
	for _, rule := range rules {
		if !rule.Matches(productName) {
			continue
		}
		if rule.Name == catchAllRuleName {
			return models.DefaultPair(), false
		}
		return rule.Resolve(productName), true
	}
	// Unreachable with a well-formed table; the catch-all matches anything.
	return models.DefaultPair(), false
}

// Classifier layers exact-name overrides on top of the rule table and tracks
// the names it could not resolve.
type Classifier struct {
	rules     []Rule
	overrides map[string]models.CategoryPair
	logger    logging.Logger
}

// New creates a Classifier with the default rule table and the given
// overrides (keyed by exact product name; nil is fine).
func New(overrides map[string]models.CategoryPair, logger logging.Logger) *Classifier {
	if logger == nil {
		logger = logging.GetLogger()
	}
	return &Classifier{
		rules:     DefaultRules,
		overrides: overrides,
		logger:    logger,
	}
}

// Classify resolves one product name: override first, then the rule table.
func (c *Classifier) Classify(productName string) (models.CategoryPair, bool) {
	name := strings.TrimSpace(productName)
	if name == "" {
		return models.DefaultPair(), false
	}

	if pair, ok := c.overrides[name]; ok {
		c.logger.WithFields(
			logging.Field{Key: logging.FieldProduct, Value: name},
			logging.Field{Key: logging.FieldMajor, Value: pair.Major},
		).Debug("Product classified by mapping override")
		return pair, true
	}

	pair, ok := classifyWith(c.rules, name)
	if ok {
		c.logger.WithFields(
			logging.Field{Key: logging.FieldProduct, Value: name},
			logging.Field{Key: logging.FieldMajor, Value: pair.Major},
			logging.Field{Key: logging.FieldMinor, Value: pair.Minor},
		).Debug("Product classified by rule table")
	}
	return pair, ok
}

// ClassifyItems assigns categories to every item a rule or override resolves
// and returns the distinct names still unresolved, in first-seen order.
func (c *Classifier) ClassifyItems(items []models.LineItem) []string {
	seen := make(map[string]struct{})
	var unresolved []string

	for i := range items {
		item := &items[i]
		if item.Classified() {
			continue
		}
		if pair, ok := c.Classify(item.ProductName); ok {
			item.AssignCategory(pair)
			continue
		}
		if _, dup := seen[item.ProductName]; !dup {
			seen[item.ProductName] = struct{}{}
			unresolved = append(unresolved, item.ProductName)
		}
	}
	return unresolved
}

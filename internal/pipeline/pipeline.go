// Package pipeline wires the stages of a report run together: normalize,
// classify, fall back, aggregate, order. It owns the sequencing guarantee
// that classification fully completes for every period before aggregation
// starts, since category assignment mutates line items in place.
package pipeline

import (
	"context"
	"fmt"

	"hkim/sales-report/internal/aggregator"
	"hkim/sales-report/internal/classifier"
	"hkim/sales-report/internal/logging"
	"hkim/sales-report/internal/models"
	"hkim/sales-report/internal/normalizer"
	"hkim/sales-report/internal/store"
)

// Pipeline runs sales exports through classification and aggregation.
// Stateless across invocations; safe to reuse with fresh inputs.
type Pipeline struct {
	classifier *classifier.Classifier
	fallback   *classifier.FallbackAdapter
	store      *store.MappingStore
	autoLearn  bool
	logger     logging.Logger
}

// New assembles a Pipeline. The store may be nil (no overrides, no
// auto-learn).
func New(cls *classifier.Classifier, fallback *classifier.FallbackAdapter, mappings *store.MappingStore, autoLearn bool, logger logging.Logger) *Pipeline {
	if logger == nil {
		logger = logging.GetLogger()
	}
	return &Pipeline{
		classifier: cls,
		fallback:   fallback,
		store:      mappings,
		autoLearn:  autoLearn,
		logger:     logger,
	}
}

// RunFiles parses each file into a period (in the given order, which is the
// comparison order) and runs the report.
func (p *Pipeline) RunFiles(ctx context.Context, files []string, opts aggregator.Options) (*aggregator.Report, []*models.Period, error) {
	if len(files) == 0 {
		return nil, nil, fmt.Errorf("no input files given")
	}

	periods := make([]*models.Period, 0, len(files))
	for _, file := range files {
		period, err := normalizer.ParseFile(file)
		if err != nil {
			return nil, nil, fmt.Errorf("parsing %s: %w", file, err)
		}
		if len(period.Items) == 0 {
			return nil, nil, fmt.Errorf("no usable rows in %s", file)
		}
		periods = append(periods, period)
	}

	report, err := p.Run(ctx, periods, opts)
	return report, periods, err
}

// Run classifies every period's items, resolves the leftovers through the
// fallback classifier, and aggregates. The fallback call is awaited before
// the tree is built; its failure degrades to the default pair rather than
// aborting the run.
func (p *Pipeline) Run(ctx context.Context, periods []*models.Period, opts aggregator.Options) (*aggregator.Report, error) {
	if len(periods) == 0 {
		return nil, fmt.Errorf("no periods given")
	}

	var unresolved []string
	for _, period := range periods {
		names := p.classifier.ClassifyItems(period.Items)
		unresolved = append(unresolved, names...)
	}

	if len(unresolved) > 0 {
		p.logger.WithField(logging.FieldCount, len(unresolved)).
			Info("Resolving remaining products through fallback classifier")
		mappings := p.fallback.ClassifyBatch(ctx, unresolved)
		p.backfill(periods, mappings)
	}

	for _, period := range periods {
		period.AssignShares()
	}

	report := aggregator.Aggregate(periods)
	return aggregator.SortAndFilter(report, opts)
}

// backfill assigns fallback results to every still-unclassified item and,
// when auto-learn is on, remembers the service-derived mappings.
func (p *Pipeline) backfill(periods []*models.Period, mappings map[string]models.CategoryPair) {
	for _, period := range periods {
		for i := range period.Items {
			item := &period.Items[i]
			if item.Classified() {
				continue
			}
			pair, ok := mappings[item.ProductName]
			if !ok {
				// Adapter contract violation; keep the run alive.
				p.logger.WithField(logging.FieldProduct, item.ProductName).
					Warn("Fallback returned no mapping for product, using default pair")
				pair = models.DefaultPair()
			}
			item.AssignCategory(pair)
		}
	}

	if p.autoLearn && p.store != nil {
		for name, pair := range mappings {
			p.store.Learn(name, pair)
		}
		if err := p.store.Save(); err != nil {
			p.logger.WithError(err).Warn("Failed to save learned mappings")
		}
	}
}

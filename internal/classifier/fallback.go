package classifier

import (
	"context"

	"hkim/sales-report/internal/logging"
	"hkim/sales-report/internal/models"
)

// MaxBatchSize caps how many names one fallback call may carry. The
// collaborator service has a payload-size ceiling; names past the cap get
// the default pair without a service call. Callers needing exhaustive
// coverage must chunk externally. Documented limitation, not an error.
const MaxBatchSize = 300

// FallbackAdapter batches unresolved product names to an AIClient and
// absorbs every failure mode into the default category pair. It must only
// see names the rule engine could not resolve.
type FallbackAdapter struct {
	client AIClient
	logger logging.Logger
}

// NewFallbackAdapter creates a FallbackAdapter. A nil client is allowed and
// behaves like a permanently failing service.
func NewFallbackAdapter(client AIClient, logger logging.Logger) *FallbackAdapter {
	if logger == nil {
		logger = logging.GetLogger()
	}
	return &FallbackAdapter{client: client, logger: logger}
}

// ClassifyBatch resolves a batch of product names. The result always holds
// an entry for every distinct input name: the service's mapping where one
// came back, the default pair everywhere else (service failure, malformed
// response, names past the cap). Errors never propagate to the caller.
func (f *FallbackAdapter) ClassifyBatch(ctx context.Context, names []string) map[string]models.CategoryPair {
	deduped := dedupe(names)

	result := make(map[string]models.CategoryPair, len(deduped))
	for _, name := range deduped {
		result[name] = models.DefaultPair()
	}
	if len(deduped) == 0 {
		return result
	}

	batch := deduped
	if len(batch) > MaxBatchSize {
		f.logger.WithFields(
			logging.Field{Key: logging.FieldCount, Value: len(batch)},
			logging.Field{Key: "cap", Value: MaxBatchSize},
		).Warn("Fallback batch truncated to service cap; overflow names get the default pair")
		batch = batch[:MaxBatchSize]
	}

	if f.client == nil {
		f.logger.Warn("No AI client configured; all unresolved names get the default pair")
		return result
	}

	mappings, err := f.client.ClassifyBatch(ctx, batch)
	if err != nil {
		f.logger.WithError(err).Warn("AI classification failed; falling back to default pair")
		return result
	}

	for _, m := range mappings {
		if _, known := result[m.ProductName]; !known {
			// The service answered for a name we never asked about.
			f.logger.WithField(logging.FieldProduct, m.ProductName).
				Debug("Ignoring mapping for unknown product name")
			continue
		}
		if m.Major == "" {
			continue
		}
		result[m.ProductName] = m.Pair()
	}
	return result
}

// dedupe returns the distinct names in first-seen order.
func dedupe(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, name := range names {
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	return out
}

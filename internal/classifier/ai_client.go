package classifier

import (
	"context"

	"hkim/sales-report/internal/models"
)

// AIClient is the boundary to the external classification service. It takes
// a deduplicated batch of product names and returns one mapping per name.
// Keeping this an interface lets the core run against an in-memory stub in
// tests and swaps onto any concrete backend.
type AIClient interface {
	ClassifyBatch(ctx context.Context, names []string) ([]models.CategoryMapping, error)
}

// Package report serializes the ordered aggregation tree for export.
// Presentation concerns (currency symbols, column labels, locales) stay with
// the consumers; this package only flattens and encodes.
package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"hkim/sales-report/internal/aggregator"
	"hkim/sales-report/internal/logging"

	"github.com/gocarina/gocsv"
)

// Generator renders reports in the supported output formats.
type Generator struct {
	logger logging.Logger
}

// NewGenerator creates a report Generator.
func NewGenerator(logger logging.Logger) *Generator {
	if logger == nil {
		logger = logging.GetLogger()
	}
	return &Generator{logger: logger}
}

// Generate renders the report in the given format ("json" or "csv") and
// returns it as a byte slice.
func (g *Generator) Generate(report *aggregator.Report, format string) ([]byte, error) {
	switch format {
	case "json":
		return g.generateJSON(report)
	case "csv":
		return g.generateCSV(report)
	default:
		return nil, fmt.Errorf("unsupported report format: %s", format)
	}
}

// WriteFile renders the report and writes it to the given path.
func (g *Generator) WriteFile(report *aggregator.Report, format, path string) error {
	data, err := g.Generate(report, format)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return fmt.Errorf("error creating directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("error writing report: %w", err)
	}
	g.logger.WithFields(
		logging.Field{Key: logging.FieldFile, Value: path},
		logging.Field{Key: "format", Value: format},
	).Info("Report written")
	return nil
}

func (g *Generator) generateJSON(report *aggregator.Report) ([]byte, error) {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal JSON report: %w", err)
	}
	return data, nil
}

// CSVRow is one flattened product/period cell of the tree, in tree order.
type CSVRow struct {
	Major       string `csv:"대분류"`
	Minor       string `csv:"소분류"`
	Product     string `csv:"상품명"`
	Period      string `csv:"기간"`
	NetQuantity int64  `csv:"순수량"`
	NetAmount   string `csv:"순매출"`
	NetCount    int64  `csv:"순건수"`
	Share       string `csv:"점유율"`
}

func (g *Generator) generateCSV(report *aggregator.Report) ([]byte, error) {
	rows := Flatten(report)
	data, err := gocsv.MarshalBytes(&rows)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal CSV report: %w", err)
	}
	return data, nil
}

// Flatten turns the ordered tree into flat per-product, per-period rows,
// preserving the tree's sibling order.
func Flatten(report *aggregator.Report) []CSVRow {
	var rows []CSVRow
	for _, major := range report.Majors {
		for _, minor := range major.Minors {
			for _, product := range minor.Products {
				for idx, summary := range report.Periods {
					m := product.PerPeriod[idx]
					rows = append(rows, CSVRow{
						Major:       major.Name,
						Minor:       minor.Name,
						Product:     product.Name,
						Period:      summary.Label,
						NetQuantity: m.Quantity,
						NetAmount:   m.Amount.StringFixed(0),
						NetCount:    m.Count,
						Share:       fmt.Sprintf("%.1f%%", product.Shares[idx]),
					})
				}
			}
		}
	}
	return rows
}

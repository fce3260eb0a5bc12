// Package normalizer converts raw sales-export CSV rows into canonical line
// items. The core never inspects arbitrary spreadsheet headers; this package
// owns the canonical column contract and the malformed-row filtering policy.
package normalizer

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"hkim/sales-report/internal/logging"
	"hkim/sales-report/internal/models"

	"github.com/gocarina/gocsv"
	"github.com/shopspring/decimal"
)

var log = logging.GetLogger()

// SetLogger allows setting a configured logger.
func SetLogger(logger logging.Logger) {
	if logger != nil {
		log = logger
	}
}

// SalesCSVRow is one row of the canonical sales export.
// Numeric cells stay strings here because exports format numbers with
// thousands separators; parsing happens in normalizeRow.
type SalesCSVRow struct {
	ProductName    string `csv:"상품명"`
	PaidQuantity   string `csv:"결제수량"`
	RefundQuantity string `csv:"환불수량"`
	PaidCount      string `csv:"결제건수"`
	RefundCount    string `csv:"환불건수"`
	PaidAmount     string `csv:"결제금액"`
	RefundAmount   string `csv:"환불금액"`
}

// ParseFile reads one sales export file into a Period. The period label
// defaults to the file's base name without extension.
func ParseFile(filePath string) (*models.Period, error) {
	log.WithField(logging.FieldFile, filePath).Info("Reading sales export")

	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("error opening sales export: %w", err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			log.WithError(err).Warn("Failed to close file")
		}
	}()

	var rows []SalesCSVRow
	if err := gocsv.UnmarshalFile(file, &rows); err != nil {
		return nil, fmt.Errorf("error parsing sales export: %w", err)
	}

	label := strings.TrimSuffix(filepath.Base(filePath), filepath.Ext(filePath))
	period := Normalize(label, rows)

	log.WithFields(
		logging.Field{Key: logging.FieldPeriod, Value: period.Label},
		logging.Field{Key: logging.FieldCount, Value: len(period.Items)},
	).Info("Successfully read sales export")
	return period, nil
}

// Normalize converts raw rows into a Period, silently dropping malformed
// rows: empty product name after trim, all-zero metrics, or unparsable
// numeric cells. Dropping is filtering policy, not an error.
func Normalize(label string, rows []SalesCSVRow) *models.Period {
	items := make([]models.LineItem, 0, len(rows))
	for _, row := range rows {
		item, ok := normalizeRow(row)
		if !ok {
			log.WithFields(
				logging.Field{Key: logging.FieldProduct, Value: row.ProductName},
				logging.Field{Key: logging.FieldReason, Value: "malformed row"},
			).Debug("Dropping row")
			continue
		}
		items = append(items, item)
	}
	return models.NewPeriod(label, items)
}

func normalizeRow(row SalesCSVRow) (models.LineItem, bool) {
	name := strings.TrimSpace(row.ProductName)
	if name == "" {
		return models.LineItem{}, false
	}

	paidQty, ok1 := parseCount(row.PaidQuantity)
	refundQty, ok2 := parseCount(row.RefundQuantity)
	paidCount, ok3 := parseCount(row.PaidCount)
	refundCount, ok4 := parseCount(row.RefundCount)
	paidAmt, ok5 := parseAmount(row.PaidAmount)
	refundAmt, ok6 := parseAmount(row.RefundAmount)
	if !(ok1 && ok2 && ok3 && ok4 && ok5 && ok6) {
		return models.LineItem{}, false
	}

	item := models.LineItem{
		ProductName:    name,
		PaidQuantity:   paidQty,
		RefundQuantity: refundQty,
		PaidCount:      paidCount,
		RefundCount:    refundCount,
		PaidAmount:     paidAmt,
		RefundAmount:   refundAmt,
	}

	if paidQty == 0 && refundQty == 0 && paidCount == 0 && refundCount == 0 &&
		paidAmt.IsZero() && refundAmt.IsZero() {
		return models.LineItem{}, false
	}
	return item, true
}

// parseCount parses an integer cell. Empty means zero; thousands separators
// are tolerated.
func parseCount(s string) (int64, bool) {
	s = cleanNumber(s)
	if s == "" {
		return 0, true
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// parseAmount parses a monetary cell. Empty means zero.
func parseAmount(s string) (decimal.Decimal, bool) {
	s = cleanNumber(s)
	if s == "" {
		return decimal.Zero, true
	}
	v, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	return v, true
}

func cleanNumber(s string) string {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimSuffix(s, "원")
	return strings.TrimSpace(s)
}

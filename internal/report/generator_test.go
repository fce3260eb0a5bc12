package report

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"hkim/sales-report/internal/aggregator"
	"hkim/sales-report/internal/logging"
	"hkim/sales-report/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleReport(t *testing.T) *aggregator.Report {
	t.Helper()
	items := []models.LineItem{
		{ProductName: "모션데스크 1400", PaidQuantity: 3, PaidCount: 3, PaidAmount: decimal.NewFromInt(1200000)},
		{ProductName: "메쉬 체어", PaidQuantity: 1, PaidCount: 1, PaidAmount: decimal.NewFromInt(300000)},
	}
	items[0].AssignCategory(models.CategoryPair{Major: "모션데스크", Minor: "베이직"})
	items[1].AssignCategory(models.CategoryPair{Major: "체어", Minor: "메쉬"})
	period := models.NewPeriod("2026-01", items)

	report := aggregator.Aggregate([]*models.Period{period})
	sorted, err := aggregator.SortAndFilter(report, aggregator.Options{})
	require.NoError(t, err)
	return sorted
}

func TestGenerateJSON(t *testing.T) {
	g := NewGenerator(logging.NewMockLogger())

	data, err := g.Generate(sampleReport(t), "json")
	require.NoError(t, err)

	var decoded struct {
		Periods []struct {
			Label          string `json:"label"`
			TotalNetAmount string `json:"totalNetAmount"`
		} `json:"periods"`
		Majors []struct {
			Name   string `json:"name"`
			Minors []struct {
				Name string `json:"name"`
			} `json:"minors"`
		} `json:"majors"`
	}
	require.NoError(t, json.Unmarshal(data, &decoded))

	require.Len(t, decoded.Periods, 1)
	assert.Equal(t, "2026-01", decoded.Periods[0].Label)
	assert.Equal(t, "1500000", decoded.Periods[0].TotalNetAmount)
	require.Len(t, decoded.Majors, 2)
	assert.Equal(t, "모션데스크", decoded.Majors[0].Name, "tree order survives encoding")
}

func TestGenerateCSV(t *testing.T) {
	g := NewGenerator(logging.NewMockLogger())

	data, err := g.Generate(sampleReport(t), "csv")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 3, "header plus one row per product and period")
	assert.Equal(t, "대분류,소분류,상품명,기간,순수량,순매출,순건수,점유율", lines[0])
	assert.Contains(t, lines[1], "모션데스크")
	assert.Contains(t, lines[1], "1200000")
	assert.Contains(t, lines[1], "100.0%")
}

func TestGenerateUnsupportedFormat(t *testing.T) {
	g := NewGenerator(logging.NewMockLogger())
	_, err := g.Generate(sampleReport(t), "xlsx")
	assert.Error(t, err)
}

func TestFlattenOrderAndShape(t *testing.T) {
	rows := Flatten(sampleReport(t))

	require.Len(t, rows, 2)
	// Amount-descending tree order: 모션데스크 first.
	assert.Equal(t, "모션데스크", rows[0].Major)
	assert.Equal(t, "베이직", rows[0].Minor)
	assert.Equal(t, "모션데스크 1400", rows[0].Product)
	assert.Equal(t, "2026-01", rows[0].Period)
	assert.Equal(t, int64(3), rows[0].NetQuantity)
	assert.Equal(t, "체어", rows[1].Major)
}

func TestFlattenMultiPeriodRowCount(t *testing.T) {
	item := models.LineItem{ProductName: "메쉬 체어", PaidQuantity: 1, PaidCount: 1, PaidAmount: decimal.NewFromInt(1000)}
	item.AssignCategory(models.CategoryPair{Major: "체어", Minor: "메쉬"})

	p1 := models.NewPeriod("2026-01", []models.LineItem{item})
	p2 := models.NewPeriod("2026-02", nil)
	report := aggregator.Aggregate([]*models.Period{p1, p2})

	rows := Flatten(report)
	require.Len(t, rows, 2, "one row per period even when a period contributed nothing")
	assert.Equal(t, "2026-02", rows[1].Period)
	assert.Equal(t, int64(0), rows[1].NetQuantity)
}

func TestWriteFile(t *testing.T) {
	g := NewGenerator(logging.NewMockLogger())
	path := filepath.Join(t.TempDir(), "out", "report.json")

	require.NoError(t, g.WriteFile(sampleReport(t), "json", path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, json.Valid(data))
}

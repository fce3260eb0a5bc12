package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"hkim/sales-report/internal/aggregator"
	"hkim/sales-report/internal/classifier"
	"hkim/sales-report/internal/logging"
	"hkim/sales-report/internal/models"
	"hkim/sales-report/internal/store"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubAIClient struct {
	mappings []models.CategoryMapping
	err      error
	calls    int
}

func (s *stubAIClient) ClassifyBatch(ctx context.Context, names []string) ([]models.CategoryMapping, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.mappings, nil
}

func newPipeline(ai classifier.AIClient, mappings *store.MappingStore, autoLearn bool) *Pipeline {
	logger := logging.NewMockLogger()
	cls := classifier.New(nil, logger)
	fallback := classifier.NewFallbackAdapter(ai, logger)
	return New(cls, fallback, mappings, autoLearn, logger)
}

func item(name string, qty, amount int64) models.LineItem {
	return models.LineItem{
		ProductName:  name,
		PaidQuantity: qty,
		PaidCount:    qty,
		PaidAmount:   decimal.NewFromInt(amount),
	}
}

func TestRunRulesAndFallback(t *testing.T) {
	ai := &stubAIClient{mappings: []models.CategoryMapping{
		{ProductName: "스탠딩 매트", Major: "악세서리", Minor: "기타"},
	}}
	p := newPipeline(ai, nil, false)

	periods := []*models.Period{
		models.NewPeriod("2026-01", []models.LineItem{
			item("모션데스크 프리미엄", 5, 500000),
			item("스탠딩 매트", 3, 90000),
		}),
	}

	report, err := p.Run(context.Background(), periods, aggregator.Options{})
	require.NoError(t, err)

	require.Len(t, report.Majors, 2)
	names := []string{report.Majors[0].Name, report.Majors[1].Name}
	assert.ElementsMatch(t, []string{"모션데스크", "악세서리"}, names)
	assert.Equal(t, 1, ai.calls)

	// Shares were assigned before aggregation.
	for _, period := range periods {
		for _, li := range period.Items {
			assert.NotZero(t, li.Share)
		}
	}
}

func TestRunFallbackFailureDegradesToDefault(t *testing.T) {
	ai := &stubAIClient{err: errors.New("service down")}
	p := newPipeline(ai, nil, false)

	periods := []*models.Period{
		models.NewPeriod("2026-01", []models.LineItem{item("정체불명", 1, 1000)}),
	}

	report, err := p.Run(context.Background(), periods, aggregator.Options{})
	require.NoError(t, err, "fallback failure must not abort the run")

	require.Len(t, report.Majors, 1)
	assert.Equal(t, models.MajorUnclassified, report.Majors[0].Name)
}

func TestRunSkipsFallbackWhenRulesCoverEverything(t *testing.T) {
	ai := &stubAIClient{}
	p := newPipeline(ai, nil, false)

	periods := []*models.Period{
		models.NewPeriod("2026-01", []models.LineItem{item("메쉬 체어", 2, 200000)}),
	}

	_, err := p.Run(context.Background(), periods, aggregator.Options{})
	require.NoError(t, err)
	assert.Zero(t, ai.calls, "no unresolved names, no service call")
}

func TestRunAutoLearn(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mappings.yaml")
	mappingStore := store.NewMappingStore(path, logging.NewMockLogger())
	_, err := mappingStore.Load()
	require.NoError(t, err)

	ai := &stubAIClient{mappings: []models.CategoryMapping{
		{ProductName: "스탠딩 매트", Major: "악세서리", Minor: "기타"},
	}}
	p := newPipeline(ai, mappingStore, true)

	periods := []*models.Period{
		models.NewPeriod("2026-01", []models.LineItem{item("스탠딩 매트", 1, 30000)}),
	}
	_, err = p.Run(context.Background(), periods, aggregator.Options{})
	require.NoError(t, err)

	saved, err := store.NewMappingStore(path, logging.NewMockLogger()).Load()
	require.NoError(t, err)
	assert.Equal(t, models.CategoryPair{Major: "악세서리", Minor: "기타"}, saved["스탠딩 매트"],
		"service-derived mapping was persisted")
}

func TestRunPropagatesSortErrors(t *testing.T) {
	p := newPipeline(nil, nil, false)
	periods := []*models.Period{
		models.NewPeriod("2026-01", []models.LineItem{item("메쉬 체어", 1, 1000)}),
	}

	_, err := p.Run(context.Background(), periods, aggregator.Options{SortKey: aggregator.SortByGrowthAmount})
	assert.Error(t, err, "growth sort needs two periods")
}

func TestRunNoPeriods(t *testing.T) {
	p := newPipeline(nil, nil, false)
	_, err := p.Run(context.Background(), nil, aggregator.Options{})
	assert.Error(t, err)
}

func TestRunFiles(t *testing.T) {
	dir := t.TempDir()
	csv := "상품명,결제수량,환불수량,결제건수,환불건수,결제금액,환불금액\n" +
		"메쉬 체어,2,0,2,0,\"200,000\",0\n"
	pathA := filepath.Join(dir, "2026-01.csv")
	pathB := filepath.Join(dir, "2026-02.csv")
	require.NoError(t, os.WriteFile(pathA, []byte(csv), 0o644))
	require.NoError(t, os.WriteFile(pathB, []byte(csv), 0o644))

	p := newPipeline(nil, nil, false)
	report, periods, err := p.RunFiles(context.Background(), []string{pathA, pathB}, aggregator.Options{})
	require.NoError(t, err)

	require.Len(t, periods, 2)
	assert.Equal(t, "2026-01", periods[0].Label)
	assert.Equal(t, "2026-02", periods[1].Label)
	require.NotNil(t, report.Growth, "two files, so the comparison is present")
	assert.Equal(t, int64(0), report.Growth.DeltaQuantity)
}

func TestRunFilesEmptyFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "empty.csv")
	header := "상품명,결제수량,환불수량,결제건수,환불건수,결제금액,환불금액\n"
	require.NoError(t, os.WriteFile(path, []byte(header), 0o644))

	p := newPipeline(nil, nil, false)
	_, _, err := p.RunFiles(context.Background(), []string{path}, aggregator.Options{})
	assert.Error(t, err, "a file with no usable rows is an input error")
}

func TestRunFilesNoInput(t *testing.T) {
	p := newPipeline(nil, nil, false)
	_, _, err := p.RunFiles(context.Background(), nil, aggregator.Options{})
	assert.Error(t, err)
}

// Package analyze implements the report-building command: one or more period
// files in upload order, a sorted and filtered category tree out.
package analyze

import (
	"context"
	"fmt"
	"os"

	"hkim/sales-report/cmd/root"
	"hkim/sales-report/internal/aggregator"
	"hkim/sales-report/internal/config"
	"hkim/sales-report/internal/container"

	"github.com/spf13/cobra"
)

// Cmd represents the analyze command
var Cmd = &cobra.Command{
	Use:   "analyze <file> [file...]",
	Short: "Classify sales exports and build a hierarchical category report",
	Long: `Analyze reads one or more sales export files (one period each, in
chronological order), classifies every line item, and aggregates net
quantity, amount, and transaction count into a major/minor/product tree.
With exactly two input files the report also carries period-over-period
deltas and growth percentages at every level.`,
	Args: cobra.MinimumNArgs(1),
	RunE: analyzeFunc,
}

func init() {
	Cmd.Flags().StringVarP(&root.Format, "format", "f", "", "Output format: json or csv (default from config)")
	Cmd.Flags().StringVarP(&root.SortKey, "sort", "s", "", "Sort key: amount, quantity, count, name, growthAmount, growthQuantity")
	Cmd.Flags().StringVarP(&root.Direction, "direction", "d", "", "Sort direction: asc or desc")
	Cmd.Flags().StringVarP(&root.Search, "search", "q", "", "Filter major categories by substring")
}

func analyzeFunc(cmd *cobra.Command, args []string) error {
	config.LoadEnv()

	cfg, err := config.InitializeConfig()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	c, err := container.NewContainer(cfg)
	if err != nil {
		return fmt.Errorf("wiring dependencies: %w", err)
	}

	opts := aggregator.Options{
		SortKey:    aggregator.SortKey(firstNonEmpty(root.SortKey, cfg.Report.SortKey)),
		Direction:  aggregator.Direction(firstNonEmpty(root.Direction, cfg.Report.Direction)),
		SearchTerm: root.Search,
	}

	rep, _, err := c.GetPipeline().RunFiles(context.Background(), args, opts)
	if err != nil {
		return err
	}

	format := firstNonEmpty(root.Format, cfg.Report.Format)
	if root.Output != "" {
		return c.GetGenerator().WriteFile(rep, format, root.Output)
	}

	data, err := c.GetGenerator().Generate(rep, format)
	if err != nil {
		return err
	}
	_, err = os.Stdout.Write(append(data, '\n'))
	return err
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

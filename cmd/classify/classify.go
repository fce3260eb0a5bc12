// Package classify implements the single-name classification command.
package classify

import (
	"context"
	"fmt"

	"hkim/sales-report/cmd/root"
	"hkim/sales-report/internal/config"
	"hkim/sales-report/internal/container"

	"github.com/spf13/cobra"
)

// Cmd represents the classify command
var Cmd = &cobra.Command{
	Use:   "classify",
	Short: "Classify a single product name into its category pair",
	Long: `Classify resolves one product name through the mapping overrides and the
ordered rule table. With --ai, names no rule resolves are sent to the
fallback classifier instead of getting the default pair directly.`,
	RunE: classifyFunc,
}

func init() {
	Cmd.Flags().StringVarP(&root.ProductName, "product", "p", "", "Product name to classify")
	Cmd.Flags().BoolVar(&root.UseAI, "ai", false, "Allow the AI fallback for unresolved names")
	_ = Cmd.MarkFlagRequired("product")
}

func classifyFunc(cmd *cobra.Command, args []string) error {
	config.LoadEnv()

	cfg, err := config.InitializeConfig()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	c, err := container.NewContainer(cfg)
	if err != nil {
		return fmt.Errorf("wiring dependencies: %w", err)
	}

	pair, ok := c.GetClassifier().Classify(root.ProductName)
	if !ok && root.UseAI {
		resolved := c.GetFallback().ClassifyBatch(context.Background(), []string{root.ProductName})
		pair = resolved[root.ProductName]
	}

	root.Log.Infof("Product: %s", root.ProductName)
	root.Log.Infof("Category: %s / %s", pair.Major, pair.Minor)
	return nil
}

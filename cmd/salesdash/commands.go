package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"salesdash/internal/pipeline"
	shareddomain "salesdash/internal/shared/domain"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate the raw synthetic dataset",
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := newRunner()
		if err != nil {
			return err
		}
		path, err := r.Generate()
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✅ Raw dataset written to %s\n", path)
		return nil
	},
}

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Clean the raw dataset and add derived fields",
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := newRunner()
		if err != nil {
			return err
		}
		result, err := r.Clean()
		if err != nil {
			return err
		}

		rep := result.Report
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "✅ Cleaned %d rows into %d (as of %s)\n", rep.InputRows, rep.OutputRows, r.AsOf().Format(shareddomain.DateLayout))
		fmt.Fprintf(out, "   malformed lines:        %d\n", rep.MalformedRows)
		fmt.Fprintf(out, "   duplicates removed:     %d\n", rep.DuplicatesRemoved)
		fmt.Fprintf(out, "   categorical filled:     %d\n", rep.Filled.Total())
		fmt.Fprintf(out, "   quantity imputed:       %d\n", rep.QuantityImputed)
		fmt.Fprintf(out, "   price imputed:          %d (category) / %d (global)\n", rep.PriceImputedCategory, rep.PriceImputedGlobal)
		fmt.Fprintf(out, "   missing key dropped:    %d (order id) / %d (date)\n", rep.MissingOrderIDDropped, rep.MissingDateDropped)
		fmt.Fprintf(out, "   unrepairable dropped:   %d\n", rep.UnrepairableDropped)
		fmt.Fprintf(out, "   coercion failures:      %d\n", rep.CoercionFailures)
		fmt.Fprintf(out, "   invalid values:         %d\n", rep.InvalidValues)
		fmt.Fprintf(out, "   outliers:               %d (quantity) / %d (price)\n", rep.QuantityOutliers, rep.PriceOutliers)
		fmt.Fprintf(out, "   revenue corrections:    %d\n", rep.RevenueCorrections)
		for _, a := range result.Artifacts {
			fmt.Fprintf(out, "   → %s\n", a)
		}
		return nil
	},
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Compute the summary tables from the cleaned dataset",
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := newRunner()
		if err != nil {
			return err
		}
		paths, err := r.Analyze()
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✅ %d summary artifacts written to %s\n", len(paths), cfg.Paths.OutputDir)
		return nil
	},
}

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Render the summary artifacts into an xlsx workbook",
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := newRunner()
		if err != nil {
			return err
		}
		path, err := r.Report()
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✅ Workbook written to %s\n", path)
		return nil
	},
}

var publishCmd = &cobra.Command{
	Use:   "publish",
	Short: "Load the cleaned dataset and summary artifacts into a SQL warehouse",
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := newRunner()
		if err != nil {
			return err
		}
		tables, err := r.Publish(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✅ %d tables published to %s\n", len(tables), cfg.Warehouse.Driver)
		return nil
	},
}

var (
	skipGenerate bool
	withPublish  bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run generate, clean, analyze and report in sequence",
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := newRunner()
		if err != nil {
			return err
		}
		manifest, err := r.Run(cmd.Context(), pipeline.RunOptions{
			SkipGenerate: skipGenerate,
			Publish:      withPublish,
		})
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "✅ Run %s finished\n", manifest.RunID)
		for _, s := range manifest.Stages {
			fmt.Fprintf(out, "   %-9s %8.1f ms\n", s.Name, s.DurationMS)
		}
		if cfg.Paths.ManifestFile != "" {
			fmt.Fprintf(out, "   manifest → %s\n", cfg.Paths.ManifestFile)
		}
		return nil
	},
}

func init() {
	runCmd.Flags().BoolVar(&skipGenerate, "skip-generate", false, "reuse the existing raw dataset")
	runCmd.Flags().BoolVar(&withPublish, "publish", false, "also publish to the SQL warehouse")
}

package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"salesdash/internal/config"
	exportdomain "salesdash/internal/export/domain"
	ordersdomain "salesdash/internal/orders/domain"
	"salesdash/internal/pipeline"
	sharedinfra "salesdash/internal/shared/infrastructure"
)

var (
	configFile string
	dotEnvFile string

	cfg    *config.Config
	logger *sharedinfra.Logger
)

var rootCmd = &cobra.Command{
	Use:   "salesdash",
	Short: "E-commerce sales pipeline: generate, clean, analyze, report",
	Long: `salesdash synthesizes an e-commerce transaction dataset, cleans it, computes
summary tables (top products, categories, trends, regions, average order value)
and renders them into a workbook. Each stage reads the previous stage's file.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			logger.Sync()
		}
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configFile, "config", "", "YAML configuration file (default: $SALESDASH_CONFIG)")
	pf.StringVar(&dotEnvFile, "env-file", ".env", "dotenv file loaded before reading the environment")

	pf.String("log-level", "", "log level: debug, info, warn, error")
	pf.String("log-format", "", "log format: console or json")
	pf.String("as-of", "", "reference date for DaysSinceOrder and generation (YYYY-MM-DD)")
	pf.String("raw", "", "raw dataset path")
	pf.String("cleaned", "", "cleaned dataset path")
	pf.String("output-dir", "", "directory of the summary artifacts")

	pf.Int("records", 0, "number of generated records before duplicates")
	pf.Int64("seed", 0, "random seed of the generator")
	pf.Float64("missing-rate", 0, "share of generated rows with one missing value")
	pf.Float64("duplicate-rate", 0, "share of generated rows duplicated")
	pf.Float64("outlier-multiplier", 0, "IQR multiplier of the outlier bounds (<= 0 disables)")
	pf.String("parquet", "", "also write the cleaned table as Parquet to this path")
	pf.Int("top-n", 0, "length of the top products rankings")
	pf.String("workbook", "", "workbook output path")
	pf.String("manifest", "", "run manifest path")
	pf.String("driver", "", "warehouse driver: sqlite3 or postgres")
	pf.String("dsn", "", "warehouse data source (sqlite file or postgres DSN)")

	rootCmd.AddCommand(generateCmd, cleanCmd, analyzeCmd, reportCmd, publishCmd, runCmd)
}

// setup charge la configuration (défauts < YAML < env < flags), la valide et crée le logger
func setup(cmd *cobra.Command, args []string) error {
	loaded, err := config.Load(config.LoadOptions{File: configFile, DotEnv: dotEnvFile})
	if err != nil {
		return err
	}
	if err := applyFlags(cmd, loaded); err != nil {
		return err
	}
	if err := loaded.Validate(); err != nil {
		return err
	}

	l, err := sharedinfra.NewLogger(loaded.Logging)
	if err != nil {
		return err
	}
	cfg, logger = loaded, l
	return nil
}

// applyFlags applique uniquement les flags passés explicitement
func applyFlags(cmd *cobra.Command, c *config.Config) error {
	var errs []error
	value := func(name string) (string, bool) {
		f := cmd.Flag(name)
		if f == nil || !f.Changed {
			return "", false
		}
		return f.Value.String(), true
	}
	str := func(name string, dst *string) {
		if v, ok := value(name); ok {
			*dst = v
		}
	}
	integer := func(name string, dst *int) {
		if v, ok := value(name); ok {
			n, err := strconv.Atoi(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("flag --%s: %w", name, err))
			}
			*dst = n
		}
	}
	float := func(name string, dst *float64) {
		if v, ok := value(name); ok {
			n, err := strconv.ParseFloat(v, 64)
			if err != nil {
				errs = append(errs, fmt.Errorf("flag --%s: %w", name, err))
			}
			*dst = n
		}
	}

	str("log-level", &c.Logging.Level)
	str("log-format", &c.Logging.Format)
	str("as-of", &c.Cleaning.AsOf)
	str("raw", &c.Paths.RawFile)
	str("cleaned", &c.Paths.CleanedFile)
	str("output-dir", &c.Paths.OutputDir)
	str("parquet", &c.Paths.ParquetFile)
	str("workbook", &c.Paths.WorkbookFile)
	str("manifest", &c.Paths.ManifestFile)
	str("driver", &c.Warehouse.Driver)
	str("dsn", &c.Warehouse.DSN)
	integer("records", &c.Generator.Records)
	integer("top-n", &c.Analysis.TopN)
	float("missing-rate", &c.Generator.MissingRate)
	float("duplicate-rate", &c.Generator.DuplicateRate)
	float("outlier-multiplier", &c.Cleaning.OutlierMultiplier)
	if v, ok := value("seed"); ok {
		seed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			errs = append(errs, fmt.Errorf("flag --seed: %w", err))
		}
		c.Generator.Seed = seed
	}

	return errors.Join(errs...)
}

func newRunner() (*pipeline.Runner, error) {
	return pipeline.NewRunner(*cfg, logger)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		reportError(err)
		os.Exit(1)
	}
}

// reportError affiche l'erreur fatale en nommant le fichier ou les colonnes en cause
func reportError(err error) {
	var (
		schemaErr *ordersdomain.SchemaError
		headerErr *exportdomain.HeaderMismatchError
		pathErr   *fs.PathError
		cfgErr    *config.ValidationError
	)
	switch {
	case errors.As(err, &schemaErr):
		fmt.Fprintf(os.Stderr, "❌ %s is missing required columns: %s\n", schemaErr.Path, strings.Join(schemaErr.Missing, ", "))
	case errors.As(err, &headerErr):
		fmt.Fprintf(os.Stderr, "❌ artifact %s does not have its documented header\n", headerErr.Artifact)
	case errors.As(err, &pathErr):
		fmt.Fprintf(os.Stderr, "❌ file %s: %v\n", pathErr.Path, pathErr.Err)
	case errors.As(err, &cfgErr):
		fmt.Fprintf(os.Stderr, "❌ invalid configuration:\n%v\n", err)
		return
	}
	fmt.Fprintln(os.Stderr, "Error:", err)
}

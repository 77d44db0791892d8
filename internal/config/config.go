package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	catalogdomain "salesdash/internal/catalog/domain"
	shareddomain "salesdash/internal/shared/domain"
)

// EnvPrefix préfixe des variables d'environnement (SALESDASH_GENERATOR_RECORDS, ...)
const EnvPrefix = "SALESDASH"

// ConfigFileEnv variable désignant le fichier YAML quand --config n'est pas passé
const ConfigFileEnv = "SALESDASH_CONFIG"

// Config paramètres explicites de chaque stage du pipeline.
// Chaque stage reçoit sa section: aucune constante globale n'est lue pendant un traitement.
type Config struct {
	Generator GeneratorConfig `yaml:"generator" split_words:"true" json:"generator"`
	Cleaning  CleaningConfig  `yaml:"cleaning" split_words:"true" json:"cleaning"`
	Analysis  AnalysisConfig  `yaml:"analysis" split_words:"true" json:"analysis"`
	Paths     PathsConfig     `yaml:"paths" split_words:"true" json:"paths"`
	Logging   LoggingConfig   `yaml:"logging" split_words:"true" json:"logging"`
	Warehouse WarehouseConfig `yaml:"warehouse" split_words:"true" json:"warehouse"`
}

// GeneratorConfig paramètres du jeu de données synthétique
type GeneratorConfig struct {
	Records       int     `yaml:"records" split_words:"true" json:"records"`
	MissingRate   float64 `yaml:"missing_rate" split_words:"true" json:"missing_rate"`
	DuplicateRate float64 `yaml:"duplicate_rate" split_words:"true" json:"duplicate_rate"`
	Seed          int64   `yaml:"seed" split_words:"true" json:"seed"`
	HistoryDays   int     `yaml:"history_days" split_words:"true" json:"history_days"`
}

// CleaningConfig politique de nettoyage
type CleaningConfig struct {
	// OutlierMultiplier k des bornes [médiane - k·IQR, médiane + k·IQR]; <= 0 désactive le filtre
	OutlierMultiplier float64            `yaml:"outlier_multiplier" split_words:"true" json:"outlier_multiplier"`
	Margins           map[string]float64 `yaml:"margins" split_words:"true" json:"margins"`
	DefaultMargin     float64            `yaml:"default_margin" split_words:"true" json:"default_margin"`
	UnknownValue      string             `yaml:"unknown_value" split_words:"true" json:"unknown_value"`
	// AsOf date de référence de DaysSinceOrder (YYYY-MM-DD), vide = date du traitement
	AsOf string `yaml:"as_of" split_words:"true" json:"as_of"`
}

// AnalysisConfig paramètres des agrégations
type AnalysisConfig struct {
	TopN int `yaml:"top_n" split_words:"true" json:"top_n"`
	// ExcelBOM préfixe les CSV de synthèse d'un BOM UTF-8
	ExcelBOM bool `yaml:"excel_bom" split_words:"true" json:"excel_bom"`
}

// PathsConfig emplacement des artefacts de chaque stage
type PathsConfig struct {
	RawFile      string `yaml:"raw_file" split_words:"true" json:"raw_file"`
	CleanedFile  string `yaml:"cleaned_file" split_words:"true" json:"cleaned_file"`
	OutputDir    string `yaml:"output_dir" split_words:"true" json:"output_dir"`
	WorkbookFile string `yaml:"workbook_file" split_words:"true" json:"workbook_file"`
	// ParquetFile copie colonnaire du fichier nettoyé, vide = pas de copie
	ParquetFile  string `yaml:"parquet_file" split_words:"true" json:"parquet_file"`
	ManifestFile string `yaml:"manifest_file" split_words:"true" json:"manifest_file"`
}

// LoggingConfig niveau et format des logs zap
type LoggingConfig struct {
	Level  string `yaml:"level" split_words:"true" json:"level"`
	Format string `yaml:"format" split_words:"true" json:"format"`
}

// WarehouseConfig base SQL cible de la commande publish
type WarehouseConfig struct {
	Driver string `yaml:"driver" split_words:"true" json:"driver"`
	DSN    string `yaml:"dsn" split_words:"true" json:"-"`
}

// Default configuration par défaut (valeurs du jeu de données d'origine)
func Default() Config {
	return Config{
		Generator: GeneratorConfig{
			Records:       1200,
			MissingRate:   0.05,
			DuplicateRate: 0.02,
			Seed:          42,
			HistoryDays:   730,
		},
		Cleaning: CleaningConfig{
			OutlierMultiplier: 3.0,
			Margins:           catalogdomain.DefaultMargins(),
			DefaultMargin:     0.30,
			UnknownValue:      "Unknown",
		},
		Analysis: AnalysisConfig{
			TopN: 10,
		},
		Paths: PathsConfig{
			RawFile:      "raw_ecommerce_data.csv",
			CleanedFile:  "cleaned_ecommerce_data.csv",
			OutputDir:    "analysis_output",
			WorkbookFile: "analysis_output/dashboard.xlsx",
			ManifestFile: "analysis_output/manifest.json",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		Warehouse: WarehouseConfig{
			Driver: "sqlite3",
			DSN:    "salesdash.db",
		},
	}
}

// LoadOptions options de chargement
type LoadOptions struct {
	// File fichier YAML explicite (--config), prioritaire sur SALESDASH_CONFIG
	File string
	// DotEnv fichier .env chargé avant la lecture de l'environnement; absent = ignoré
	DotEnv string
}

// Load construit la configuration: défauts < YAML < environnement.
// Les flags CLI sont appliqués ensuite par l'appelant, puis Validate.
func Load(opts LoadOptions) (*Config, error) {
	dotEnv := opts.DotEnv
	if dotEnv == "" {
		dotEnv = ".env"
	}
	// .env optionnel, comme pour la commande de seed
	if err := godotenv.Load(dotEnv); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load %s: %w", dotEnv, err)
	}

	cfg := Default()

	file := opts.File
	if file == "" {
		file = os.Getenv(ConfigFileEnv)
	}
	if file != "" {
		if err := loadFile(file, &cfg); err != nil {
			return nil, err
		}
	}

	// Pas de tag default: une variable absente laisse la valeur courante intacte
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("read environment: %w", err)
	}

	return &cfg, nil
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

// ValidationError paramètre invalide
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("config %s: %s", e.Field, e.Message)
}

// Validate vérifie toute la configuration et retourne toutes les erreurs d'un coup
func (c *Config) Validate() error {
	var errs []error
	add := func(field, format string, args ...any) {
		errs = append(errs, &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)})
	}

	g := c.Generator
	if g.Records < 1 {
		add("generator.records", "must be >= 1, got %d", g.Records)
	}
	if g.MissingRate < 0 || g.MissingRate >= 1 {
		add("generator.missing_rate", "must be in [0,1), got %v", g.MissingRate)
	}
	if g.DuplicateRate < 0 || g.DuplicateRate >= 1 {
		add("generator.duplicate_rate", "must be in [0,1), got %v", g.DuplicateRate)
	}
	if g.HistoryDays < 0 {
		add("generator.history_days", "cannot be negative, got %d", g.HistoryDays)
	}

	cl := c.Cleaning
	if _, err := catalogdomain.NewMarginTable(cl.Margins); err != nil {
		add("cleaning.margins", "%v", err)
	}
	if cl.DefaultMargin < 0 || cl.DefaultMargin > 1 {
		add("cleaning.default_margin", "must be in [0,1], got %v", cl.DefaultMargin)
	}
	if cl.UnknownValue == "" {
		add("cleaning.unknown_value", "cannot be empty")
	}
	if _, err := c.AsOfDate(time.Now()); err != nil {
		add("cleaning.as_of", "%v", err)
	}

	if c.Analysis.TopN < 1 {
		add("analysis.top_n", "must be >= 1, got %d", c.Analysis.TopN)
	}

	if c.Paths.RawFile == "" {
		add("paths.raw_file", "cannot be empty")
	}
	if c.Paths.CleanedFile == "" {
		add("paths.cleaned_file", "cannot be empty")
	}
	if c.Paths.OutputDir == "" {
		add("paths.output_dir", "cannot be empty")
	}

	switch c.Warehouse.Driver {
	case "sqlite3", "postgres":
	default:
		add("warehouse.driver", "must be sqlite3 or postgres, got %q", c.Warehouse.Driver)
	}

	return errors.Join(errs...)
}

// AsOfDate date de référence du calcul de DaysSinceOrder: cleaning.as_of ou la date de now
func (c *Config) AsOfDate(now time.Time) (time.Time, error) {
	if c.Cleaning.AsOf == "" {
		return shareddomain.TruncateToDate(now), nil
	}
	t, err := time.Parse(shareddomain.DateLayout, c.Cleaning.AsOf)
	if err != nil {
		return time.Time{}, fmt.Errorf("want YYYY-MM-DD: %w", err)
	}
	return t, nil
}

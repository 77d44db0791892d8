package pipeline

import (
	"context"
	"fmt"
	"time"

	analyticsapp "salesdash/internal/analytics/application"
	catalogdomain "salesdash/internal/catalog/domain"
	cleaningapp "salesdash/internal/cleaning/application"
	cleaningdomain "salesdash/internal/cleaning/domain"
	"salesdash/internal/config"
	exportapp "salesdash/internal/export/application"
	exportinfra "salesdash/internal/export/infrastructure"
	ordersapp "salesdash/internal/orders/application"
	ordersinfra "salesdash/internal/orders/infrastructure"
	shareddomain "salesdash/internal/shared/domain"
	sharedinfra "salesdash/internal/shared/infrastructure"
)

// Noms des stages (logs et manifeste)
const (
	StageGenerate = "generate"
	StageClean    = "clean"
	StageAnalyze  = "analyze"
	StageReport   = "report"
	StagePublish  = "publish"
)

// Runner exécute les stages du pipeline avec une configuration figée.
// Les stages ne partagent rien en mémoire: chacun relit le fichier du précédent.
type Runner struct {
	cfg    config.Config
	asOf   time.Time
	repo   *ordersinfra.TransactionFileRepository
	logger *sharedinfra.Logger
	now    func() time.Time
}

// NewRunner crée un runner; la date de référence est résolue une seule fois
// pour que génération et nettoyage utilisent la même.
func NewRunner(cfg config.Config, logger *sharedinfra.Logger) (*Runner, error) {
	return newRunner(cfg, logger, time.Now)
}

func newRunner(cfg config.Config, logger *sharedinfra.Logger, now func() time.Time) (*Runner, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	asOf, err := cfg.AsOfDate(now())
	if err != nil {
		return nil, err
	}
	return &Runner{
		cfg:    cfg,
		asOf:   asOf,
		repo:   ordersinfra.NewTransactionFileRepository(),
		logger: logger,
		now:    now,
	}, nil
}

// AsOf date de référence de l'exécution
func (r *Runner) AsOf() time.Time {
	return r.asOf
}

// Generate écrit le jeu de données synthétique brut
func (r *Runner) Generate() (string, error) {
	log := r.logger.With("stage", StageGenerate)
	start := r.now()

	records, err := ordersapp.NewSynthesizer(catalogdomain.DefaultCatalog()).Generate(r.cfg.Generator, r.asOf)
	if err != nil {
		return "", err
	}
	if err := r.repo.WriteRaw(r.cfg.Paths.RawFile, records); err != nil {
		return "", fmt.Errorf("write raw table: %w", err)
	}

	log.Info("dataset generated",
		"rows", len(records),
		"seed", r.cfg.Generator.Seed,
		"output", r.cfg.Paths.RawFile,
		"elapsed", time.Since(start),
	)
	return r.cfg.Paths.RawFile, nil
}

// Policy politique de nettoyage issue de la configuration
func (r *Runner) Policy() (cleaningdomain.Policy, error) {
	c := r.cfg.Cleaning
	return cleaningdomain.NewPolicy(c.OutlierMultiplier, c.Margins, c.DefaultMargin, c.UnknownValue, r.asOf)
}

// Clean nettoie la table brute
func (r *Runner) Clean() (*cleaningapp.Result, error) {
	policy, err := r.Policy()
	if err != nil {
		return nil, fmt.Errorf("cleaning policy: %w", err)
	}

	service := cleaningapp.NewCleaningService(r.repo, r.repo, ordersinfra.NewParquetWriter(), r.logger)
	return service.Run(policy, cleaningapp.Paths{
		Raw:     r.cfg.Paths.RawFile,
		Cleaned: r.cfg.Paths.CleanedFile,
		Parquet: r.cfg.Paths.ParquetFile,
	})
}

// Analyze relit la table nettoyée et écrit toutes les tables de synthèse
func (r *Runner) Analyze() ([]string, error) {
	txs, err := r.repo.ReadCleaned(r.cfg.Paths.CleanedFile)
	if err != nil {
		return nil, err
	}

	stats := analyticsapp.NewStatsService(r.cfg.Analysis.TopN).Compute(txs)
	service := exportapp.NewExportService(exportinfra.NewCSVTableWriter(r.cfg.Analysis.ExcelBOM), r.logger)
	return service.WriteSummaries(stats, r.cfg.Paths.OutputDir)
}

// Report rend les tables de synthèse dans un classeur
func (r *Runner) Report() (string, error) {
	service := exportapp.NewReportService(exportinfra.NewWorkbookWriter(), r.logger)
	if err := service.Render(r.cfg.Paths.OutputDir, r.cfg.Paths.WorkbookFile); err != nil {
		return "", err
	}
	return r.cfg.Paths.WorkbookFile, nil
}

// Publish charge les artefacts dans l'entrepôt SQL configuré
func (r *Runner) Publish(ctx context.Context) ([]string, error) {
	db, err := sharedinfra.OpenDatabase(ctx, r.cfg.Warehouse.Driver, r.cfg.Warehouse.DSN)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	store, err := exportinfra.NewWarehouseRepository(db, r.cfg.Warehouse.Driver)
	if err != nil {
		return nil, err
	}
	return exportapp.NewPublishService(store, r.logger).Publish(ctx, r.cfg.Paths.CleanedFile, r.cfg.Paths.OutputDir)
}

// RunOptions options de la commande run
type RunOptions struct {
	SkipGenerate bool
	Publish      bool
}

// Run enchaîne generate, clean, analyze, report (et publish si demandé) puis écrit le manifeste.
// Le premier stage en erreur arrête l'exécution; aucun manifeste n'est écrit dans ce cas.
func (r *Runner) Run(ctx context.Context, opts RunOptions) (*Manifest, error) {
	manifest := NewManifest(r.cfg, r.asOf.Format(shareddomain.DateLayout), r.now())
	log := r.logger.With("run_id", manifest.RunID)
	log.Info("pipeline started", "skip_generate", opts.SkipGenerate, "publish", opts.Publish)

	stage := func(name string, fn func() error) error {
		start := r.now()
		if err := fn(); err != nil {
			log.Error("stage failed", "stage", name, "error", err)
			return fmt.Errorf("%s: %w", name, err)
		}
		manifest.AddStage(name, r.now().Sub(start))
		return nil
	}

	if !opts.SkipGenerate {
		if err := stage(StageGenerate, func() error {
			path, err := r.Generate()
			if err == nil {
				manifest.AddArtifacts(path)
			}
			return err
		}); err != nil {
			return nil, err
		}
	}

	if err := stage(StageClean, func() error {
		result, err := r.Clean()
		if err != nil {
			return err
		}
		manifest.Cleaning = &result.Report
		manifest.AddArtifacts(result.Artifacts...)
		return nil
	}); err != nil {
		return nil, err
	}

	if err := stage(StageAnalyze, func() error {
		paths, err := r.Analyze()
		manifest.AddArtifacts(paths...)
		return err
	}); err != nil {
		return nil, err
	}

	if err := stage(StageReport, func() error {
		path, err := r.Report()
		if err == nil {
			manifest.AddArtifacts(path)
		}
		return err
	}); err != nil {
		return nil, err
	}

	if opts.Publish {
		if err := stage(StagePublish, func() error {
			_, err := r.Publish(ctx)
			return err
		}); err != nil {
			return nil, err
		}
	}

	manifest.FinishedAt = r.now().UTC()
	if r.cfg.Paths.ManifestFile != "" {
		if err := manifest.Write(r.cfg.Paths.ManifestFile); err != nil {
			return nil, err
		}
	}
	log.Info("pipeline finished", "stages", len(manifest.Stages), "artifacts", len(manifest.Artifacts))
	return manifest, nil
}

package application

import (
	"fmt"
	"path/filepath"
	"time"

	analyticsdomain "salesdash/internal/analytics/domain"
	"salesdash/internal/export/domain"
	shareddomain "salesdash/internal/shared/domain"
	sharedinfra "salesdash/internal/shared/infrastructure"
)

// TableWriter écrit une table formatée dans un fichier
type TableWriter interface {
	WriteTable(path string, table shareddomain.Table) error
}

// ExportService transforme les statistiques en artefacts et les écrit
type ExportService struct {
	writer TableWriter
	logger *sharedinfra.Logger
}

// NewExportService crée une nouvelle instance de ExportService
func NewExportService(writer TableWriter, logger *sharedinfra.Logger) *ExportService {
	return &ExportService{
		writer: writer,
		logger: logger.With("stage", "analyze"),
	}
}

// BuildTables formate toutes les tables de synthèse selon le registre d'artefacts.
// Une table dont une ligne ne correspond pas aux colonnes documentées est une erreur.
func BuildTables(stats *analyticsdomain.Stats) ([]shareddomain.Table, error) {
	rows := map[string][][]string{
		domain.ArtifactSummary:          stats.Summary.MetricRows(),
		domain.ArtifactTopByQuantity:    toRows(stats.TopByQuantity),
		domain.ArtifactTopByRevenue:     toRows(stats.TopByRevenue),
		domain.ArtifactCategoryAnalysis: toRows(stats.Categories),
		domain.ArtifactMonthlyTrends:    toRows(stats.Monthly),
		domain.ArtifactQuarterlyTrends:  toRows(stats.Quarterly),
		domain.ArtifactRegional:         toRows(stats.Regions),
		domain.ArtifactAOVByCategory:    toRows(stats.AOVByCategory),
		domain.ArtifactAOVByRegion:      toRows(stats.AOVByRegion),
	}

	artifacts := domain.SummaryArtifacts()
	tables := make([]shareddomain.Table, 0, len(artifacts))
	for _, a := range artifacts {
		table := shareddomain.Table{Name: a.Name, Columns: a.Columns, Rows: rows[a.Name]}
		if err := table.Validate(); err != nil {
			return nil, err
		}
		tables = append(tables, table)
	}
	return tables, nil
}

// WriteSummaries calcule toutes les tables puis les écrit une à une (écriture atomique par fichier).
// Retourne les chemins écrits.
func (s *ExportService) WriteSummaries(stats *analyticsdomain.Stats, dir string) ([]string, error) {
	start := time.Now()

	tables, err := BuildTables(stats)
	if err != nil {
		return nil, fmt.Errorf("build summary tables: %w", err)
	}

	paths := make([]string, 0, len(tables))
	for _, table := range tables {
		path := filepath.Join(dir, table.Name+".csv")
		if err := s.writer.WriteTable(path, table); err != nil {
			return paths, fmt.Errorf("write %s: %w", table.Name, err)
		}
		s.logger.Debug("artifact written", "artifact", table.Name, "rows", table.Len(), "path", path)
		paths = append(paths, path)
	}

	s.logger.Info("analysis finished",
		"artifacts", len(paths),
		"total_orders", stats.Summary.TotalOrders,
		"total_revenue", shareddomain.RoundCents(stats.Summary.TotalRevenue),
		"output_dir", dir,
		"elapsed", time.Since(start),
	)
	return paths, nil
}

type csvRow interface {
	ToCSVRow() []string
}

func toRows[T csvRow](items []T) [][]string {
	rows := make([][]string, len(items))
	for i, item := range items {
		rows[i] = item.ToCSVRow()
	}
	return rows
}

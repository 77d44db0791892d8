package application

import (
	"fmt"
	"time"

	"salesdash/internal/export/domain"
	"salesdash/internal/export/infrastructure"
	shareddomain "salesdash/internal/shared/domain"
	sharedinfra "salesdash/internal/shared/infrastructure"
)

// WorkbookRenderer produit le rendu final des tables
type WorkbookRenderer interface {
	Write(path string, tables []shareddomain.Table) error
}

// ReportService rend les artefacts de synthèse en classeur.
// Il ne connaît que les en-têtes documentés: un artefact dont l'en-tête diffère est rejeté.
type ReportService struct {
	renderer WorkbookRenderer
	logger   *sharedinfra.Logger
}

// NewReportService crée une nouvelle instance de ReportService
func NewReportService(renderer WorkbookRenderer, logger *sharedinfra.Logger) *ReportService {
	return &ReportService{
		renderer: renderer,
		logger:   logger.With("stage", "report"),
	}
}

// Render lit tous les artefacts de dir et écrit le classeur dans workbookPath
func (s *ReportService) Render(dir, workbookPath string) error {
	start := time.Now()

	artifacts := domain.SummaryArtifacts()
	tables := make([]shareddomain.Table, 0, len(artifacts))
	for _, a := range artifacts {
		table, err := infrastructure.ReadArtifact(dir, a)
		if err != nil {
			return err
		}
		tables = append(tables, table)
	}

	if err := s.renderer.Write(workbookPath, tables); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}

	s.logger.Info("report written", "workbook", workbookPath, "sheets", len(tables), "elapsed", time.Since(start))
	return nil
}

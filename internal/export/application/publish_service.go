package application

import (
	"context"
	"fmt"
	"time"

	"salesdash/internal/export/domain"
	"salesdash/internal/export/infrastructure"
	shareddomain "salesdash/internal/shared/domain"
	sharedinfra "salesdash/internal/shared/infrastructure"
)

// TableStore destination SQL des artefacts
type TableStore interface {
	ReplaceTables(ctx context.Context, tables []shareddomain.Table) error
}

// PublishService charge la table nettoyée et les tables de synthèse dans l'entrepôt
type PublishService struct {
	store  TableStore
	logger *sharedinfra.Logger
}

// NewPublishService crée une nouvelle instance de PublishService
func NewPublishService(store TableStore, logger *sharedinfra.Logger) *PublishService {
	return &PublishService{
		store:  store,
		logger: logger.With("stage", "publish"),
	}
}

// Publish lit tous les artefacts (en-têtes vérifiés) avant de toucher à la base,
// puis remplace les tables en une transaction. Retourne les noms de tables publiées.
func (s *PublishService) Publish(ctx context.Context, cleanedPath, dir string) ([]string, error) {
	start := time.Now()

	cleaned, err := infrastructure.ReadArtifactFile(cleanedPath, domain.CleanedArtifact())
	if err != nil {
		return nil, err
	}
	tables := []shareddomain.Table{cleaned}

	for _, a := range domain.SummaryArtifacts() {
		table, err := infrastructure.ReadArtifact(dir, a)
		if err != nil {
			return nil, err
		}
		tables = append(tables, table)
	}

	if err := s.store.ReplaceTables(ctx, tables); err != nil {
		return nil, fmt.Errorf("publish tables: %w", err)
	}

	names := make([]string, len(tables))
	rows := 0
	for i, t := range tables {
		names[i] = t.Name
		rows += t.Len()
	}
	s.logger.Info("publish finished", "tables", len(tables), "rows", rows, "elapsed", time.Since(start))
	return names, nil
}

package application

import (
	"fmt"
	"time"

	"salesdash/internal/cleaning/domain"
	ordersdomain "salesdash/internal/orders/domain"
	shareddomain "salesdash/internal/shared/domain"
	sharedinfra "salesdash/internal/shared/infrastructure"
)

// RawReader source de la table brute
type RawReader interface {
	ReadRaw(path string) (*ordersdomain.RawTable, error)
}

// CleanedWriter destination de la table nettoyée
type CleanedWriter interface {
	WriteCleaned(path string, txs []ordersdomain.Transaction) error
}

// ColumnarWriter copie optionnelle de la table nettoyée (Parquet)
type ColumnarWriter interface {
	Write(path string, txs []ordersdomain.Transaction) error
}

// CleaningService orchestre le stage: lecture, nettoyage, écriture, compte rendu
type CleaningService struct {
	reader   RawReader
	writer   CleanedWriter
	columnar ColumnarWriter
	logger   *sharedinfra.Logger
}

// NewCleaningService crée le service; columnar peut être nil
func NewCleaningService(reader RawReader, writer CleanedWriter, columnar ColumnarWriter, logger *sharedinfra.Logger) *CleaningService {
	return &CleaningService{
		reader:   reader,
		writer:   writer,
		columnar: columnar,
		logger:   logger.With("stage", "clean"),
	}
}

// Paths fichiers d'entrée et de sortie du stage
type Paths struct {
	Raw     string
	Cleaned string
	// Parquet vide = pas de copie colonnaire
	Parquet string
}

// Result sortie du stage
type Result struct {
	Transactions []ordersdomain.Transaction
	Report       domain.Report
	Artifacts    []string
}

// Run nettoie paths.Raw vers paths.Cleaned.
// Une erreur de lecture ou de schéma arrête le stage avant toute écriture;
// une ligne mal formée est seulement écartée et comptée.
func (s *CleaningService) Run(policy domain.Policy, paths Paths) (*Result, error) {
	start := time.Now()
	s.logger.Info("cleaning started",
		"input", paths.Raw,
		"outlier_multiplier", policy.OutlierMultiplier,
		"as_of", policy.AsOf.Format(shareddomain.DateLayout),
	)

	table, err := s.reader.ReadRaw(paths.Raw)
	if err != nil {
		return nil, err
	}
	if len(table.MalformedLines) > 0 {
		s.logger.Warn("malformed raw lines skipped", "count", len(table.MalformedLines), "lines", table.MalformedLines)
	}

	txs, report := NewCleaner(policy).Clean(table.Records)
	report.AddMalformed(len(table.MalformedLines))

	if err := s.writer.WriteCleaned(paths.Cleaned, txs); err != nil {
		return nil, fmt.Errorf("write cleaned table: %w", err)
	}
	artifacts := []string{paths.Cleaned}

	if paths.Parquet != "" && s.columnar != nil {
		if err := s.columnar.Write(paths.Parquet, txs); err != nil {
			return nil, fmt.Errorf("write parquet copy: %w", err)
		}
		artifacts = append(artifacts, paths.Parquet)
	}

	fields := append(report.LogFields(), "output", paths.Cleaned, "elapsed", time.Since(start))
	s.logger.Info("cleaning finished", fields...)
	if report.OutputRows == 0 {
		s.logger.Warn("cleaned table is empty", "input_rows", report.InputRows)
	}

	return &Result{Transactions: txs, Report: report, Artifacts: artifacts}, nil
}

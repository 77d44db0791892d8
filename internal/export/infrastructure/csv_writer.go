package infrastructure

import (
	"fmt"
	"path/filepath"

	"salesdash/internal/export/domain"
	shareddomain "salesdash/internal/shared/domain"
	sharedinfra "salesdash/internal/shared/infrastructure"
)

// CSVTableWriter écrit les tables d'artefacts en CSV
type CSVTableWriter struct {
	bom bool
}

// NewCSVTableWriter crée un writer; bom ajoute le BOM UTF-8 attendu par Excel
func NewCSVTableWriter(bom bool) *CSVTableWriter {
	return &CSVTableWriter{bom: bom}
}

// WriteTable écrit la table avec son en-tête
func (w *CSVTableWriter) WriteTable(path string, table shareddomain.Table) error {
	return sharedinfra.WriteCSV(path, sharedinfra.WriteOptions{
		Headers:   table.Headers(),
		Records:   table.Rows,
		BOMPrefix: w.bom,
	})
}

// ReadArtifact relit un artefact de dir et vérifie son en-tête documenté
func ReadArtifact(dir string, artifact domain.Artifact) (shareddomain.Table, error) {
	return ReadArtifactFile(filepath.Join(dir, artifact.FileName()), artifact)
}

// ReadArtifactFile relit un artefact depuis un chemin explicite (table nettoyée)
func ReadArtifactFile(path string, artifact domain.Artifact) (shareddomain.Table, error) {
	file, err := sharedinfra.ReadCSV(path)
	if err != nil {
		return shareddomain.Table{}, fmt.Errorf("read artifact %s: %w", artifact.Name, err)
	}
	if err := artifact.ValidateHeader(file.Header); err != nil {
		return shareddomain.Table{}, fmt.Errorf("%s: %w", path, err)
	}

	table := shareddomain.Table{Name: artifact.Name, Columns: artifact.Columns, Rows: file.Rows}
	if err := table.Validate(); err != nil {
		return shareddomain.Table{}, fmt.Errorf("%s: %w", path, err)
	}
	return table, nil
}

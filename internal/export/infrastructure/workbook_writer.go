package infrastructure

import (
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/xuri/excelize/v2"

	shareddomain "salesdash/internal/shared/domain"
	sharedinfra "salesdash/internal/shared/infrastructure"
)

// defaultSheet feuille créée par excelize.NewFile
const defaultSheet = "Sheet1"

// WorkbookWriter assemble les artefacts dans un classeur .xlsx, une feuille par table
type WorkbookWriter struct{}

// NewWorkbookWriter crée une nouvelle instance de WorkbookWriter
func NewWorkbookWriter() *WorkbookWriter {
	return &WorkbookWriter{}
}

// Write écrit le classeur (écriture atomique). Les cellules des colonnes entières et
// décimales sont typées numériques, l'en-tête est en gras.
func (w *WorkbookWriter) Write(path string, tables []shareddomain.Table) error {
	if len(tables) == 0 {
		return errors.New("workbook: no tables")
	}

	f := excelize.NewFile()
	defer f.Close()

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("workbook: header style: %w", err)
	}

	for i, table := range tables {
		if i == 0 {
			if err := f.SetSheetName(defaultSheet, table.Name); err != nil {
				return fmt.Errorf("workbook: rename sheet: %w", err)
			}
		} else if _, err := f.NewSheet(table.Name); err != nil {
			return fmt.Errorf("workbook: new sheet %s: %w", table.Name, err)
		}
		if err := writeSheet(f, table, headerStyle); err != nil {
			return fmt.Errorf("workbook: sheet %s: %w", table.Name, err)
		}
	}
	f.SetActiveSheet(0)

	return sharedinfra.WriteFileAtomic(path, func(out io.Writer) error {
		return f.Write(out)
	})
}

func writeSheet(f *excelize.File, table shareddomain.Table, headerStyle int) error {
	headers := table.Headers()
	header := make([]any, len(headers))
	for i, h := range headers {
		header[i] = h
	}
	if err := f.SetSheetRow(table.Name, "A1", &header); err != nil {
		return err
	}
	last, err := excelize.CoordinatesToCellName(len(headers), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(table.Name, "A1", last, headerStyle); err != nil {
		return err
	}

	for r, row := range table.Rows {
		cells := make([]any, len(row))
		for c, value := range row {
			cells[c] = typedCell(table.Columns[c].Kind, value)
		}
		cell, err := excelize.CoordinatesToCellName(1, r+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(table.Name, cell, &cells); err != nil {
			return err
		}
	}
	return nil
}

// typedCell convertit une cellule texte selon le type de colonne; une valeur illisible reste du texte
func typedCell(kind shareddomain.ColumnKind, value string) any {
	switch kind {
	case shareddomain.KindInteger:
		if v, err := strconv.ParseInt(value, 10, 64); err == nil {
			return v
		}
	case shareddomain.KindDecimal:
		if v, err := strconv.ParseFloat(value, 64); err == nil {
			return v
		}
	}
	return value
}

package domain

import "fmt"

// ColumnKind type logique d'une colonne d'artefact
type ColumnKind string

const (
	KindText    ColumnKind = "text"
	KindInteger ColumnKind = "integer"
	KindDecimal ColumnKind = "decimal"
)

// Column décrit une colonne documentée d'un artefact tabulaire
type Column struct {
	Name string
	Kind ColumnKind
}

// Table représente un artefact tabulaire déjà formaté (cellules texte).
// C'est la forme commune échangée entre l'export CSV, le classeur et l'entrepôt SQL.
type Table struct {
	Name    string
	Columns []Column
	Rows    [][]string
}

// Headers retourne les noms de colonnes dans l'ordre
func (t Table) Headers() []string {
	headers := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		headers[i] = c.Name
	}
	return headers
}

// Len retourne le nombre de lignes de données
func (t Table) Len() int {
	return len(t.Rows)
}

// Validate vérifie que chaque ligne a autant de cellules que de colonnes
func (t Table) Validate() error {
	for i, row := range t.Rows {
		if len(row) != len(t.Columns) {
			return fmt.Errorf("table %s: row %d has %d cells, want %d", t.Name, i+1, len(row), len(t.Columns))
		}
	}
	return nil
}

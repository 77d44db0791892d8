package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Colonnes de base du jeu de données brut
const (
	ColOrderID     = "OrderID"
	ColProductID   = "ProductID"
	ColProductName = "ProductName"
	ColCategory    = "Category"
	ColQuantity    = "Quantity"
	ColPrice       = "Price"
	ColRevenue     = "Revenue"
	ColOrderDate   = "OrderDate"
	ColCustomerID  = "CustomerID"
	ColRegion      = "Region"
)

// Colonnes dérivées ajoutées par le nettoyage
const (
	ColTotalSales     = "TotalSales"
	ColProfitMargin   = "ProfitMargin"
	ColProfit         = "Profit"
	ColYear           = "Year"
	ColMonth          = "Month"
	ColQuarter        = "Quarter"
	ColMonthName      = "MonthName"
	ColYearMonth      = "YearMonth"
	ColDaysSinceOrder = "DaysSinceOrder"
)

// RawColumns retourne les dix colonnes du fichier brut, dans l'ordre d'écriture
func RawColumns() []string {
	return []string{
		ColOrderID, ColProductID, ColProductName, ColCategory, ColQuantity,
		ColPrice, ColRevenue, ColOrderDate, ColCustomerID, ColRegion,
	}
}

// DerivedColumns retourne les neuf colonnes calculées
func DerivedColumns() []string {
	return []string{
		ColTotalSales, ColProfitMargin, ColProfit, ColYear, ColMonth,
		ColQuarter, ColMonthName, ColYearMonth, ColDaysSinceOrder,
	}
}

// CleanedColumns retourne les 19 colonnes du fichier nettoyé
func CleanedColumns() []string {
	return append(RawColumns(), DerivedColumns()...)
}

// ErrEmptyHeader fichier vide ou sans ligne d'en-tête
var ErrEmptyHeader = errors.New("input has no header row")

// SchemaError en-tête auquel il manque des colonnes obligatoires
type SchemaError struct {
	Path    string
	Missing []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("%s: missing required columns: %s", e.Path, strings.Join(e.Missing, ", "))
}

// HeaderIndex position de chaque colonne dans un en-tête CSV
type HeaderIndex map[string]int

// NewHeaderIndex indexe un en-tête et vérifie la présence des colonnes requises.
// Les colonnes supplémentaires sont ignorées, l'ordre est libre.
func NewHeaderIndex(path string, header []string, required []string) (HeaderIndex, error) {
	if len(header) == 0 {
		return nil, fmt.Errorf("%s: %w", path, ErrEmptyHeader)
	}

	index := make(HeaderIndex, len(header))
	for i, name := range header {
		name = strings.TrimSpace(name)
		if _, seen := index[name]; !seen {
			index[name] = i
		}
	}

	var missing []string
	for _, name := range required {
		if _, ok := index[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, &SchemaError{Path: path, Missing: missing}
	}
	return index, nil
}

// Cell retourne la cellule d'une colonne, "" si la ligne est trop courte
func (h HeaderIndex) Cell(row []string, column string) string {
	i, ok := h[column]
	if !ok || i >= len(row) {
		return ""
	}
	return row[i]
}

package domain

import "strings"

// RawRecord ligne du fichier brut, telle que lue: toutes les cellules restent du texte
// tant que le nettoyage ne les a pas converties.
type RawRecord struct {
	OrderID     string
	ProductID   string
	ProductName string
	Category    string
	Quantity    string
	Price       string
	Revenue     string
	OrderDate   string
	CustomerID  string
	Region      string
}

// RawTable table brute lue depuis le fichier
type RawTable struct {
	Records []RawRecord
	// MalformedLines lignes du fichier illisibles, écartées avant le nettoyage
	MalformedLines []int
}

// Values retourne les cellules dans l'ordre de RawColumns
func (r RawRecord) Values() []string {
	return []string{
		r.OrderID, r.ProductID, r.ProductName, r.Category, r.Quantity,
		r.Price, r.Revenue, r.OrderDate, r.CustomerID, r.Region,
	}
}

// Key clé d'égalité exacte sur les dix cellules (déduplication)
func (r RawRecord) Key() string {
	return strings.Join(r.Values(), "\x1f")
}

// RawRecordFromRow construit un RawRecord à partir d'une ligne et de l'index d'en-tête
func RawRecordFromRow(h HeaderIndex, row []string) RawRecord {
	return RawRecord{
		OrderID:     h.Cell(row, ColOrderID),
		ProductID:   h.Cell(row, ColProductID),
		ProductName: h.Cell(row, ColProductName),
		Category:    h.Cell(row, ColCategory),
		Quantity:    h.Cell(row, ColQuantity),
		Price:       h.Cell(row, ColPrice),
		Revenue:     h.Cell(row, ColRevenue),
		OrderDate:   h.Cell(row, ColOrderDate),
		CustomerID:  h.Cell(row, ColCustomerID),
		Region:      h.Cell(row, ColRegion),
	}
}

var missingMarkers = map[string]struct{}{
	"":     {},
	"NaN":  {},
	"nan":  {},
	"NULL": {},
	"null": {},
	"NA":   {},
	"N/A":  {},
	"None": {},
}

// IsMissing indique si une cellule représente une valeur absente
func IsMissing(cell string) bool {
	_, ok := missingMarkers[strings.TrimSpace(cell)]
	return ok
}

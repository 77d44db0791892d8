package domain

import (
	"fmt"
	"strconv"
	"time"

	"salesdash/internal/shared/domain"
)

// Transaction ligne nettoyée et typée (une ligne = une commande)
// Les champs sont exportés: c'est un enregistrement de lecture, comme les lignes d'export,
// pas un agrégat avec invariants à protéger.
type Transaction struct {
	OrderID     string
	ProductID   string
	ProductName string
	Category    string
	Quantity    int
	Price       float64
	Revenue     float64
	OrderDate   time.Time
	CustomerID  string
	Region      string

	// Champs dérivés
	TotalSales     float64
	ProfitMargin   float64
	Profit         float64
	Year           int
	Month          int
	Quarter        int
	MonthName      string
	YearMonth      string
	DaysSinceOrder int
}

// RecomputeRevenue réécrit le chiffre d'affaires à partir de quantité × prix
func (t *Transaction) RecomputeRevenue() {
	t.Revenue = domain.RoundCents(float64(t.Quantity) * t.Price)
}

// Derive calcule les champs dérivés à partir de la marge de la catégorie et de la date de référence
func (t *Transaction) Derive(margin float64, asOf time.Time) {
	t.TotalSales = t.Revenue
	t.ProfitMargin = margin
	// non arrondi: seul l'affichage arrondit au centime
	t.Profit = t.Revenue * margin
	t.Year = t.OrderDate.Year()
	t.Month = int(t.OrderDate.Month())
	t.Quarter = (t.Month-1)/3 + 1
	t.MonthName = t.OrderDate.Month().String()
	t.YearMonth = fmt.Sprintf("%04d-%02d", t.Year, t.Month)
	t.DaysSinceOrder = domain.DaysBetween(t.OrderDate, asOf)
}

// YearQuarter libellé trimestriel (2024-Q3)
func (t *Transaction) YearQuarter() string {
	return fmt.Sprintf("%04d-Q%d", t.Year, t.Quarter)
}

// ToCSVRow convertit en ligne CSV dans l'ordre de CleanedColumns
func (t *Transaction) ToCSVRow() []string {
	return []string{
		t.OrderID,
		t.ProductID,
		t.ProductName,
		t.Category,
		strconv.Itoa(t.Quantity),
		formatMoney(t.Price),
		formatMoney(t.Revenue),
		t.OrderDate.Format(domain.DateLayout),
		t.CustomerID,
		t.Region,
		formatMoney(t.TotalSales),
		strconv.FormatFloat(t.ProfitMargin, 'f', -1, 64),
		strconv.FormatFloat(t.Profit, 'f', -1, 64),
		strconv.Itoa(t.Year),
		strconv.Itoa(t.Month),
		strconv.Itoa(t.Quarter),
		t.MonthName,
		t.YearMonth,
		strconv.Itoa(t.DaysSinceOrder),
	}
}

// TransactionFromCSVRow relit une ligne du fichier nettoyé.
// Le fichier nettoyé est produit par le pipeline: une cellule invalide est une erreur.
func TransactionFromCSVRow(h HeaderIndex, row []string) (Transaction, error) {
	var (
		t   Transaction
		err error
	)
	p := cellParser{h: h, row: row}

	t.OrderID = h.Cell(row, ColOrderID)
	t.ProductID = h.Cell(row, ColProductID)
	t.ProductName = h.Cell(row, ColProductName)
	t.Category = h.Cell(row, ColCategory)
	t.CustomerID = h.Cell(row, ColCustomerID)
	t.Region = h.Cell(row, ColRegion)
	t.MonthName = h.Cell(row, ColMonthName)
	t.YearMonth = h.Cell(row, ColYearMonth)

	t.Quantity = p.int(ColQuantity)
	t.Price = p.float(ColPrice)
	t.Revenue = p.float(ColRevenue)
	t.TotalSales = p.float(ColTotalSales)
	t.ProfitMargin = p.float(ColProfitMargin)
	t.Profit = p.float(ColProfit)
	t.Year = p.int(ColYear)
	t.Month = p.int(ColMonth)
	t.Quarter = p.int(ColQuarter)
	t.DaysSinceOrder = p.int(ColDaysSinceOrder)

	if p.err != nil {
		return Transaction{}, p.err
	}

	t.OrderDate, err = time.Parse(domain.DateLayout, h.Cell(row, ColOrderDate))
	if err != nil {
		return Transaction{}, fmt.Errorf("column %s: %w", ColOrderDate, err)
	}
	return t, nil
}

// cellParser garde la première erreur de conversion pour éviter un if par colonne
type cellParser struct {
	h   HeaderIndex
	row []string
	err error
}

func (p *cellParser) int(column string) int {
	if p.err != nil {
		return 0
	}
	v, err := strconv.Atoi(p.h.Cell(p.row, column))
	if err != nil {
		p.err = fmt.Errorf("column %s: %w", column, err)
	}
	return v
}

func (p *cellParser) float(column string) float64 {
	if p.err != nil {
		return 0
	}
	v, err := strconv.ParseFloat(p.h.Cell(p.row, column), 64)
	if err != nil {
		p.err = fmt.Errorf("column %s: %w", column, err)
	}
	return v
}

func formatMoney(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

package application

import (
	"errors"
	"math"
	"strconv"
	"strings"
	"time"

	"salesdash/internal/cleaning/domain"
	ordersdomain "salesdash/internal/orders/domain"
	shareddomain "salesdash/internal/shared/domain"
)

// revenueTolerance écart au-delà duquel un chiffre d'affaires lu compte comme corrigé
const revenueTolerance = 0.005

// Formats de date acceptés en entrée. Les fractions de seconde sont acceptées
// par time.Parse après les secondes même si le layout ne les mentionne pas.
var dateLayouts = []string{
	shareddomain.DateLayout,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	time.RFC3339,
}

var errUnparsable = errors.New("unparsable value")

// Cleaner applique la politique de nettoyage à une table brute complète.
// Chaque étape transforme la table entière avant la suivante; aucune ligne n'est fatale.
type Cleaner struct {
	policy domain.Policy
}

// NewCleaner crée un Cleaner pour une politique validée
func NewCleaner(policy domain.Policy) *Cleaner {
	return &Cleaner{policy: policy}
}

// staged ligne en cours de nettoyage: texte brut puis valeur typée
type staged struct {
	raw            ordersdomain.RawRecord
	revenueMissing bool
	inputRevenue   float64
	tx             ordersdomain.Transaction
}

// Clean exécute, dans l'ordre: déduplication, valeurs manquantes, typage,
// rejet des aberrants, recalcul du chiffre d'affaires et champs dérivés.
func (c *Cleaner) Clean(records []ordersdomain.RawRecord) ([]ordersdomain.Transaction, domain.Report) {
	report := domain.Report{InputRows: len(records)}

	rows := c.deduplicate(records, &report)
	rows = c.handleMissing(rows, &report)
	rows = c.normalize(rows, &report)
	rows = c.rejectOutliers(rows, &report)
	c.recomputeRevenue(rows, &report)

	txs := make([]ordersdomain.Transaction, len(rows))
	for i := range rows {
		rows[i].tx.Derive(c.policy.MarginFor(rows[i].tx.Category), c.policy.AsOf)
		txs[i] = rows[i].tx
	}
	report.OutputRows = len(txs)
	return txs, report
}

// deduplicate retire les répétitions exactes des dix cellules, la première occurrence est gardée
func (c *Cleaner) deduplicate(records []ordersdomain.RawRecord, report *domain.Report) []staged {
	seen := make(map[string]struct{}, len(records))
	rows := make([]staged, 0, len(records))
	for _, rec := range records {
		key := rec.Key()
		if _, dup := seen[key]; dup {
			report.DuplicatesRemoved++
			continue
		}
		seen[key] = struct{}{}
		rows = append(rows, staged{raw: rec})
	}
	return rows
}

// handleMissing supprime les lignes sans clé (commande, date), remplit les champs
// catégoriels avec la sentinelle puis impute quantité et prix par médiane.
func (c *Cleaner) handleMissing(rows []staged, report *domain.Report) []staged {
	kept := rows[:0]
	for _, row := range rows {
		switch {
		case ordersdomain.IsMissing(row.raw.OrderID):
			report.MissingOrderIDDropped++
			continue
		case ordersdomain.IsMissing(row.raw.OrderDate):
			report.MissingDateDropped++
			continue
		}
		c.fillCategorical(&row.raw, &report.Filled)
		kept = append(kept, row)
	}

	// Médianes sur les valeurs présentes, lisibles et positives, avant toute imputation.
	// Les catégories sont déjà remplies: la sentinelle forme un groupe à part entière.
	var quantities, prices []float64
	pricesByCategory := make(map[string][]float64)
	for _, row := range kept {
		if v, ok := presentNonNegative(row.raw.Quantity); ok {
			quantities = append(quantities, v)
		}
		if v, ok := presentNonNegative(row.raw.Price); ok {
			prices = append(prices, v)
			pricesByCategory[row.raw.Category] = append(pricesByCategory[row.raw.Category], v)
		}
	}
	quantityMedian, hasQuantity := shareddomain.Median(quantities)
	globalPrice, hasPrice := shareddomain.Median(prices)
	categoryPrice := make(map[string]float64, len(pricesByCategory))
	for category, values := range pricesByCategory {
		categoryPrice[category], _ = shareddomain.Median(values)
	}

	repaired := kept[:0]
	for _, row := range kept {
		if ordersdomain.IsMissing(row.raw.Quantity) {
			if !hasQuantity {
				report.UnrepairableDropped++
				continue
			}
			row.raw.Quantity = strconv.FormatFloat(math.Round(quantityMedian), 'f', -1, 64)
			report.QuantityImputed++
		}

		if ordersdomain.IsMissing(row.raw.Price) {
			if median, ok := categoryPrice[row.raw.Category]; ok {
				row.raw.Price = strconv.FormatFloat(median, 'f', -1, 64)
				report.PriceImputedCategory++
			} else if hasPrice {
				row.raw.Price = strconv.FormatFloat(globalPrice, 'f', -1, 64)
				report.PriceImputedGlobal++
			} else {
				report.UnrepairableDropped++
				continue
			}
		}
		repaired = append(repaired, row)
	}
	return repaired
}

func (c *Cleaner) fillCategorical(raw *ordersdomain.RawRecord, filled *domain.FillCounts) {
	fill := func(cell *string, counter *int) {
		if ordersdomain.IsMissing(*cell) {
			*cell = c.policy.UnknownValue
			*counter++
			return
		}
		*cell = strings.TrimSpace(*cell)
	}
	fill(&raw.ProductID, &filled.ProductID)
	fill(&raw.ProductName, &filled.ProductName)
	fill(&raw.Category, &filled.Category)
	fill(&raw.CustomerID, &filled.CustomerID)
	fill(&raw.Region, &filled.Region)
}

// normalize convertit chaque cellule numérique ou date; une ligne illisible est retirée,
// une quantité ou un prix négatif rend la ligne invalide.
func (c *Cleaner) normalize(rows []staged, report *domain.Report) []staged {
	kept := rows[:0]
	for _, row := range rows {
		quantity, errQ := parseNumber(row.raw.Quantity)
		price, errP := parseNumber(row.raw.Price)
		orderDate, errD := parseDate(row.raw.OrderDate)

		var errR error
		row.revenueMissing = ordersdomain.IsMissing(row.raw.Revenue)
		if !row.revenueMissing {
			row.inputRevenue, errR = parseNumber(row.raw.Revenue)
		}

		if err := errors.Join(errQ, errP, errD, errR); err != nil {
			report.CoercionFailures++
			continue
		}
		if quantity < 0 || price < 0 {
			report.InvalidValues++
			continue
		}
		q, err := shareddomain.NewQuantityFromFloat(quantity)
		if err != nil {
			report.CoercionFailures++
			continue
		}

		row.tx = ordersdomain.Transaction{
			OrderID:     strings.TrimSpace(row.raw.OrderID),
			ProductID:   row.raw.ProductID,
			ProductName: row.raw.ProductName,
			Category:    row.raw.Category,
			Quantity:    q.Value(),
			Price:       shareddomain.RoundCents(price),
			Revenue:     row.inputRevenue,
			OrderDate:   orderDate,
			CustomerID:  row.raw.CustomerID,
			Region:      row.raw.Region,
		}
		kept = append(kept, row)
	}
	return kept
}

// rejectOutliers applique les bornes IQR de chaque colonne, calculées sur le même état
// de la table: le filtrage de la quantité ne modifie pas les bornes du prix.
func (c *Cleaner) rejectOutliers(rows []staged, report *domain.Report) []staged {
	quantities := make([]float64, len(rows))
	prices := make([]float64, len(rows))
	for i, row := range rows {
		quantities[i] = float64(row.tx.Quantity)
		prices[i] = row.tx.Price
	}

	qBounds, qActive := c.policy.OutlierBounds(quantities)
	pBounds, pActive := c.policy.OutlierBounds(prices)
	if qActive {
		report.QuantityBounds = &qBounds
	}
	if pActive {
		report.PriceBounds = &pBounds
	}
	if !qActive && !pActive {
		return rows
	}

	kept := rows[:0]
	for _, row := range rows {
		if qActive && !qBounds.Contains(float64(row.tx.Quantity)) {
			report.QuantityOutliers++
			continue
		}
		if pActive && !pBounds.Contains(row.tx.Price) {
			report.PriceOutliers++
			continue
		}
		kept = append(kept, row)
	}
	return kept
}

// recomputeRevenue écrase le chiffre d'affaires par quantité × prix
func (c *Cleaner) recomputeRevenue(rows []staged, report *domain.Report) {
	for i := range rows {
		row := &rows[i]
		row.tx.RecomputeRevenue()
		if row.revenueMissing || math.Abs(row.inputRevenue-row.tx.Revenue) > revenueTolerance {
			report.RevenueCorrections++
		}
	}
}

// presentNonNegative valeur utilisable pour une médiane
func presentNonNegative(cell string) (float64, bool) {
	if ordersdomain.IsMissing(cell) {
		return 0, false
	}
	v, err := parseNumber(cell)
	if err != nil || v < 0 {
		return 0, false
	}
	return v, true
}

func parseNumber(cell string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(cell), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, errUnparsable
	}
	return v, nil
}

func parseDate(cell string) (time.Time, error) {
	cell = strings.TrimSpace(cell)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, cell); err == nil {
			return shareddomain.TruncateToDate(t), nil
		}
	}
	return time.Time{}, errUnparsable
}

package domain

import (
	"errors"
	"fmt"
	"time"

	catalogdomain "salesdash/internal/catalog/domain"
	shareddomain "salesdash/internal/shared/domain"
)

// Policy paramètres du nettoyage, fournis explicitement à chaque exécution
type Policy struct {
	// OutlierMultiplier k: une valeur hors de [médiane - k·IQR, médiane + k·IQR] est rejetée.
	// k <= 0 désactive le rejet.
	OutlierMultiplier float64
	Margins           catalogdomain.MarginTable
	// DefaultMargin marge des catégories absentes de Margins (dont la sentinelle)
	DefaultMargin float64
	// UnknownValue sentinelle des champs catégoriels manquants
	UnknownValue string
	// AsOf date de référence de DaysSinceOrder
	AsOf time.Time
}

// NewPolicy valide les paramètres et copie la table de marges
func NewPolicy(
	outlierMultiplier float64,
	margins map[string]float64,
	defaultMargin float64,
	unknownValue string,
	asOf time.Time,
) (Policy, error) {
	table, err := catalogdomain.NewMarginTable(margins)
	if err != nil {
		return Policy{}, err
	}
	if defaultMargin < 0 || defaultMargin > 1 {
		return Policy{}, fmt.Errorf("default margin %.4f outside [0,1]", defaultMargin)
	}
	if unknownValue == "" {
		return Policy{}, errors.New("unknown value sentinel cannot be empty")
	}
	if asOf.IsZero() {
		return Policy{}, errors.New("as-of date is required")
	}

	return Policy{
		OutlierMultiplier: outlierMultiplier,
		Margins:           table,
		DefaultMargin:     defaultMargin,
		UnknownValue:      unknownValue,
		AsOf:              shareddomain.TruncateToDate(asOf),
	}, nil
}

// MarginFor marge d'une catégorie, DefaultMargin si elle n'est pas mappée
func (p Policy) MarginFor(category string) float64 {
	if margin, ok := p.Margins.Lookup(category); ok {
		return margin
	}
	return p.DefaultMargin
}

// Bounds intervalle accepté pour une colonne numérique
type Bounds struct {
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`
}

// Contains bornes incluses
func (b Bounds) Contains(v float64) bool {
	return v >= b.Lower && v <= b.Upper
}

// OutlierBounds calcule [médiane - k·IQR, médiane + k·IQR].
// ok=false quand le filtre ne s'applique pas: k <= 0, échantillon vide ou IQR nul
// (une colonne quasi constante rejetterait toute valeur différente de la médiane).
func (p Policy) OutlierBounds(values []float64) (Bounds, bool) {
	if p.OutlierMultiplier <= 0 {
		return Bounds{}, false
	}
	q1, median, q3, ok := shareddomain.Quartiles(values)
	if !ok {
		return Bounds{}, false
	}
	iqr := q3 - q1
	if iqr == 0 {
		return Bounds{}, false
	}
	spread := p.OutlierMultiplier * iqr
	return Bounds{Lower: median - spread, Upper: median + spread}, true
}

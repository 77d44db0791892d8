package domain

import (
	"fmt"
	"slices"
	"strings"

	ordersdomain "salesdash/internal/orders/domain"
	"salesdash/internal/shared/domain"
)

// Noms des artefacts (nom de fichier sans extension, nom de table SQL, nom de feuille)
const (
	ArtifactCleaned          = "cleaned_transactions"
	ArtifactSummary          = "summary"
	ArtifactTopByQuantity    = "top_products_by_quantity"
	ArtifactTopByRevenue     = "top_products_by_revenue"
	ArtifactCategoryAnalysis = "category_analysis"
	ArtifactMonthlyTrends    = "monthly_trends"
	ArtifactQuarterlyTrends  = "quarterly_trends"
	ArtifactRegional         = "regional_analysis"
	ArtifactAOVByCategory    = "aov_by_category"
	ArtifactAOVByRegion      = "aov_by_region"
)

// Artifact décrit un fichier tabulaire produit par le pipeline et ses colonnes documentées
type Artifact struct {
	Name    string
	Columns []domain.Column
}

// FileName nom du fichier CSV de l'artefact
func (a Artifact) FileName() string {
	return a.Name + ".csv"
}

// Headers noms de colonnes dans l'ordre
func (a Artifact) Headers() []string {
	return domain.Table{Columns: a.Columns}.Headers()
}

// HeaderMismatchError en-tête lu différent de l'en-tête documenté
type HeaderMismatchError struct {
	Artifact string
	Want     []string
	Got      []string
}

func (e *HeaderMismatchError) Error() string {
	return fmt.Sprintf("artifact %s: header mismatch: want [%s], got [%s]",
		e.Artifact, strings.Join(e.Want, ","), strings.Join(e.Got, ","))
}

// ValidateHeader compare un en-tête lu à l'en-tête documenté (ordre compris)
func (a Artifact) ValidateHeader(header []string) error {
	want := a.Headers()
	got := make([]string, len(header))
	for i, h := range header {
		got[i] = strings.TrimSpace(h)
	}
	if !slices.Equal(want, got) {
		return &HeaderMismatchError{Artifact: a.Name, Want: want, Got: got}
	}
	return nil
}

func text(name string) domain.Column    { return domain.Column{Name: name, Kind: domain.KindText} }
func integer(name string) domain.Column { return domain.Column{Name: name, Kind: domain.KindInteger} }
func decimal(name string) domain.Column { return domain.Column{Name: name, Kind: domain.KindDecimal} }

var productColumns = []domain.Column{
	text("ProductID"), text("ProductName"), text("Category"),
	integer("TotalQuantity"), decimal("TotalRevenue"), integer("OrderCount"),
}

// summaryArtifacts tables de synthèse, dans l'ordre d'écriture
var summaryArtifacts = []Artifact{
	{ArtifactSummary, []domain.Column{text("Metric"), decimal("Value")}},
	{ArtifactTopByQuantity, productColumns},
	{ArtifactTopByRevenue, productColumns},
	{ArtifactCategoryAnalysis, []domain.Column{
		text("Category"), decimal("TotalRevenue"), decimal("AvgRevenue"), integer("TotalQuantity"),
		integer("OrderCount"), decimal("TotalProfit"), decimal("RevenuePercentage"),
	}},
	{ArtifactMonthlyTrends, []domain.Column{
		text("YearMonth"), decimal("TotalRevenue"), integer("TotalQuantity"),
		integer("OrderCount"), decimal("TotalProfit"),
	}},
	{ArtifactQuarterlyTrends, []domain.Column{
		integer("Year"), integer("Quarter"), text("YearQuarter"), decimal("TotalRevenue"),
		integer("TotalQuantity"), integer("OrderCount"), decimal("TotalProfit"),
	}},
	{ArtifactRegional, []domain.Column{
		text("Region"), decimal("TotalRevenue"), integer("TotalQuantity"), integer("OrderCount"),
		integer("CustomerCount"), decimal("TotalProfit"), decimal("RevenuePercentage"),
	}},
	{ArtifactAOVByCategory, []domain.Column{
		text("Category"), integer("OrderCount"), decimal("TotalRevenue"), decimal("AverageOrderValue"),
	}},
	{ArtifactAOVByRegion, []domain.Column{
		text("Region"), integer("OrderCount"), decimal("TotalRevenue"), decimal("AverageOrderValue"),
	}},
}

var cleanedKinds = map[string]domain.ColumnKind{
	ordersdomain.ColQuantity:       domain.KindInteger,
	ordersdomain.ColPrice:          domain.KindDecimal,
	ordersdomain.ColRevenue:        domain.KindDecimal,
	ordersdomain.ColTotalSales:     domain.KindDecimal,
	ordersdomain.ColProfitMargin:   domain.KindDecimal,
	ordersdomain.ColProfit:         domain.KindDecimal,
	ordersdomain.ColYear:           domain.KindInteger,
	ordersdomain.ColMonth:          domain.KindInteger,
	ordersdomain.ColQuarter:        domain.KindInteger,
	ordersdomain.ColDaysSinceOrder: domain.KindInteger,
}

// CleanedArtifact la table nettoyée (19 colonnes)
func CleanedArtifact() Artifact {
	names := ordersdomain.CleanedColumns()
	columns := make([]domain.Column, len(names))
	for i, name := range names {
		kind, ok := cleanedKinds[name]
		if !ok {
			kind = domain.KindText
		}
		columns[i] = domain.Column{Name: name, Kind: kind}
	}
	return Artifact{Name: ArtifactCleaned, Columns: columns}
}

// SummaryArtifacts retourne une copie du registre des tables de synthèse
func SummaryArtifacts() []Artifact {
	return slices.Clone(summaryArtifacts)
}

// LookupArtifact recherche un artefact de synthèse ou la table nettoyée par nom
func LookupArtifact(name string) (Artifact, bool) {
	if name == ArtifactCleaned {
		return CleanedArtifact(), true
	}
	for _, a := range summaryArtifacts {
		if a.Name == name {
			return a, true
		}
	}
	return Artifact{}, false
}
